// Package sksl provides a Pure Go front end for the SkSL shading
// language.
//
// sksl turns SkSL source code into a typed intermediate representation:
//   - Lexer - source text to tokens
//   - Parser - tokens to a syntax tree
//   - Generator - syntax tree to checked IR (the ir package)
//
// The IR carries resolved symbols, interned types, folded constants and
// inlined calls, ready for a code generation backend to consume.
//
// Example usage:
//
//	compiler, err := sksl.NewCompiler()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	program, err := compiler.Compile(ir.KindFragment, `
//	void main() {
//	    sk_FragColor = half4(1);
//	}
//	`, sksl.DefaultSettings())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Compile errors are returned as a SourceErrors list; use FormatAll for
// caret-annotated output.
package sksl

import (
	"github.com/pkg/errors"

	"github.com/gogpu/sksl/ir"
)

// Settings configures one compilation.
type Settings struct {
	// Caps describes the target GPU; nil exposes only integerSupport
	// through sk_Caps.
	Caps *Caps

	// FlipY is set when the render target's Y axis points the other way
	// from the coordinate system the program assumes. Reading
	// sk_FragCoord or sk_Clockwise under FlipY marks the program as
	// needing the render target height.
	FlipY bool

	// InlineThreshold is the largest function body, measured in IR
	// nodes, that a call site may absorb. Zero disables inlining.
	InlineThreshold int

	// ExternalValues are host-supplied symbols visible to the program
	// by name alongside the built-in declarations.
	ExternalValues []*ir.ExternalValue
}

// DefaultSettings returns sensible default settings.
func DefaultSettings() *Settings {
	return &Settings{InlineThreshold: 50}
}

// builtinSettings configures compilation of the embedded modules.
var builtinSettings = &Settings{}

// Compiler owns the type universe, the per-stage base symbol tables and
// the intrinsic definitions shared by every program it compiles. A
// Compiler is not safe for concurrent use.
type Compiler struct {
	context    *ir.Context
	intrinsics map[string]*intrinsicEntry

	gpuSymbols      *ir.SymbolTable
	fragmentSymbols *ir.SymbolTable
	vertexSymbols   *ir.SymbolTable
	geometrySymbols *ir.SymbolTable
}

// NewCompiler builds a compiler with the builtin modules loaded.
func NewCompiler() (*Compiler, error) {
	c := &Compiler{
		context:    ir.NewContext(),
		intrinsics: make(map[string]*intrinsicEntry),
	}

	root := ir.NewSymbolTable(nil)
	for _, t := range c.context.NamedTypes() {
		root.Add(t.Name(), t)
	}
	caps := ir.NewVariable(-1, ir.Modifiers{Layout: ir.DefaultLayout()},
		"sk_Caps", c.context.SkCaps, ir.StorageGlobal)
	root.Add("sk_Caps", caps)

	var err error
	c.gpuSymbols, err = c.loadModule(root, ir.KindFragment, builtinGPUSource)
	if err != nil {
		return nil, errors.Wrap(err, "sksl: loading gpu module")
	}
	c.fragmentSymbols, err = c.loadModule(c.gpuSymbols, ir.KindFragment, builtinFragmentSource)
	if err != nil {
		return nil, errors.Wrap(err, "sksl: loading fragment module")
	}
	c.vertexSymbols, err = c.loadModule(c.gpuSymbols, ir.KindVertex, builtinVertexSource)
	if err != nil {
		return nil, errors.Wrap(err, "sksl: loading vertex module")
	}
	c.geometrySymbols, err = c.loadModule(c.gpuSymbols, ir.KindGeometry, builtinGeometrySource)
	if err != nil {
		return nil, errors.Wrap(err, "sksl: loading geometry module")
	}
	return c, nil
}

// loadModule compiles one embedded module with the builtin-code flag set,
// so definitions become intrinsics and declarations land in the returned
// symbol table.
func (c *Compiler) loadModule(parent *ir.SymbolTable, kind ir.ProgramKind, source string) (*ir.SymbolTable, error) {
	reporter := &errorReporter{source: source}
	decls := NewParser(source, reporter).Parse()
	if reporter.errors.HasErrors() {
		return nil, reporter.errors
	}
	g := newGenerator(c.context, kind, builtinSettings, reporter, parent, c.intrinsics)
	g.isBuiltinCode = true
	g.convertProgram(decls)
	if reporter.errors.HasErrors() {
		return nil, reporter.errors
	}
	return g.symbols, nil
}

// baseSymbols picks the builtin scope for a program kind.
func (c *Compiler) baseSymbols(kind ir.ProgramKind) *ir.SymbolTable {
	switch kind {
	case ir.KindVertex:
		return c.vertexSymbols
	case ir.KindGeometry:
		return c.geometrySymbols
	case ir.KindFragment, ir.KindFragmentProcessor, ir.KindPipelineStage:
		return c.fragmentSymbols
	default:
		return c.gpuSymbols
	}
}

// Compile converts SkSL source into a checked Program. On failure the
// returned error is a SourceErrors list with every diagnostic found.
func (c *Compiler) Compile(kind ir.ProgramKind, source string, settings *Settings) (*ir.Program, error) {
	if settings == nil {
		settings = DefaultSettings()
	}
	reporter := &errorReporter{source: source}
	decls := NewParser(source, reporter).Parse()
	if reporter.errors.HasErrors() {
		return nil, reporter.errors
	}

	g := newGenerator(c.context, kind, settings, reporter, c.baseSymbols(kind), c.intrinsics)
	elements := g.convertProgram(decls)
	if reporter.errors.HasErrors() {
		return nil, reporter.errors
	}
	return &ir.Program{
		Kind:     kind,
		Source:   source,
		Elements: elements,
		Symbols:  g.symbols,
		Inputs:   g.inputs,
	}, nil
}

// Compile is a convenience wrapper that builds a fresh Compiler for a
// single program. Reuse a Compiler when compiling more than once; the
// builtin modules only need to load once per Compiler.
func Compile(kind ir.ProgramKind, source string, settings *Settings) (*ir.Program, error) {
	compiler, err := NewCompiler()
	if err != nil {
		return nil, err
	}
	return compiler.Compile(kind, source, settings)
}

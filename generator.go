package sksl

import (
	"fmt"

	"github.com/gogpu/sksl/ir"
)

// generator converts the syntax tree into typed IR, one declaration at a
// time. It owns the scope stack and all per-program state: loop depth,
// the current function, the render target adjust fixup, and which
// intrinsics the program has pulled in.
type generator struct {
	context  *ir.Context
	kind     ir.ProgramKind
	settings *Settings
	reporter *errorReporter
	symbols  *ir.SymbolTable

	currentFunction *ir.FunctionDeclaration
	loopLevel       int
	switchLevel     int

	// isBuiltinCode is set while compiling the embedded module sources;
	// definitions seen in that mode become intrinsics instead of program
	// elements.
	isBuiltinCode bool
	intrinsics    map[string]*intrinsicEntry
	caps          map[string]bool

	elements []ir.ProgramElement

	// extraStatements collects synthesized statements (inliner
	// temporaries, swizzle scratch variables) to splice in front of the
	// statement being converted.
	extraStatements []ir.Statement

	inputs ir.Inputs

	rtAdjust           *ir.Variable
	rtAdjustInterface  *ir.Variable
	rtAdjustFieldIndex int

	invocations int

	canInline bool
	inliner   *inliner

	defined  map[*ir.FunctionDeclaration]*ir.FunctionDefinition
	tmpIndex int
}

func newGenerator(context *ir.Context, kind ir.ProgramKind, settings *Settings, reporter *errorReporter, base *ir.SymbolTable, intrinsics map[string]*intrinsicEntry) *generator {
	g := &generator{
		context:     context,
		kind:        kind,
		settings:    settings,
		reporter:    reporter,
		symbols:     ir.NewSymbolTable(base),
		intrinsics:  intrinsics,
		caps:        capsMap(settings.Caps),
		invocations: -1,
		canInline:   true,
	}
	g.inliner = &inliner{gen: g}
	for _, ev := range settings.ExternalValues {
		g.symbols.Add(ev.Name(), ev)
	}
	resetIntrinsics(intrinsics)
	return g
}

func (g *generator) pushSymbols() {
	g.symbols = ir.NewSymbolTable(g.symbols)
}

func (g *generator) popSymbols() {
	g.symbols = g.symbols.Parent
}

// convertProgram converts every top level declaration. The returned
// element list is in source order, with copied intrinsics in front of
// their first use.
func (g *generator) convertProgram(decls []astDeclaration) []ir.ProgramElement {
	for _, decl := range decls {
		switch d := decl.(type) {
		case *astFunction:
			g.convertFunction(d)
		case *astVarDeclarations:
			if converted := g.convertVarDeclarations(d, ir.StorageGlobal); converted != nil {
				g.elements = append(g.elements, &ir.GlobalVarDeclarations{Decls: converted})
			}
		case *astInterfaceBlock:
			if block := g.convertInterfaceBlock(d); block != nil {
				g.elements = append(g.elements, block)
			}
		case *astExtension:
			g.elements = append(g.elements, &ir.Extension{Pos: d.pos, Name: d.name})
		case *astModifiersDeclaration:
			g.convertModifiersDeclaration(d)
		case *astEnum:
			g.convertEnum(d)
		case *astSection:
			g.convertSection(d)
		default:
			panic(fmt.Sprintf("unsupported declaration %T", decl))
		}
	}
	return g.elements
}

// convertType resolves a parsed type reference to an interned type.
func (g *generator) convertType(t astType) *ir.Type {
	symbol := g.symbols.Lookup(t.name)
	if typ, ok := symbol.(*ir.Type); ok {
		if t.nullable {
			if typ.Equals(g.context.FragmentProcessor) {
				return g.context.NullableOf(typ)
			}
			g.reporter.errorf(t.pos, "type '%s' may not be used in a nullable type", t.name)
			return nil
		}
		if typ.Kind() != ir.KindGenericType || g.isBuiltinCode {
			return typ
		}
	}
	g.reporter.errorf(t.pos, "unknown type '%s'", t.name)
	return nil
}

// coerce converts expr to the target type, or reports why it cannot.
// Literal types retype in place; everything else wraps in a constructor.
func (g *generator) coerce(expr ir.Expression, target *ir.Type) ir.Expression {
	if expr == nil || target == nil {
		return nil
	}
	if expr.Type().Equals(target) {
		return expr
	}
	if expr.Type().Equals(g.context.Invalid) {
		return nil
	}
	if !expr.Type().CanCoerceTo(target) {
		g.reporter.errorf(expr.Offset(), "expected '%s', but found '%s'", target.Name(), expr.Type().Name())
		return nil
	}
	if target.Kind() == ir.KindScalar {
		switch lit := expr.(type) {
		case *ir.IntLiteral:
			if target.IsFloat() {
				return &ir.FloatLiteral{Pos: lit.Pos, Value: float64(lit.Value), LitType: target}
			}
			lit.LitType = target
			return lit
		case *ir.FloatLiteral:
			lit.LitType = target
			return lit
		}
	}
	if target.Kind() == ir.KindNullable {
		if _, ok := expr.(*ir.NullLiteral); ok {
			return &ir.NullLiteral{Pos: expr.Offset(), LitType: target}
		}
		if expr.Type().Equals(target.NonNullable()) {
			return expr
		}
	}
	args := []ir.Expression{expr}
	return g.convertConstructorCall(expr.Offset(), target, args)
}

// getConstantInt evaluates an expression that must be an integer
// constant, e.g. an array size or enum value.
func (g *generator) getConstantInt(expr ir.Expression) (int64, bool) {
	switch e := expr.(type) {
	case *ir.IntLiteral:
		return e.Value, true
	case *ir.VariableReference:
		v := e.Variable
		if v.Modifiers.Flags&ir.FlagConst != 0 && v.InitialValue != nil {
			return g.getConstantInt(v.InitialValue)
		}
	case *ir.PrefixExpression:
		if e.Op == ir.OpMinus {
			v, ok := g.getConstantInt(e.Operand)
			return -v, ok
		}
	}
	g.reporter.error(expr.Offset(), "expected a constant int")
	return 0, false
}

// convertNoInline converts an operand whose evaluation is conditional
// or that has no enclosing statement position to hoist synthesized
// temporaries into. Inlining is off while converting it.
func (g *generator) convertNoInline(expr astExpression) ir.Expression {
	oldCanInline := g.canInline
	g.canInline = false
	converted := g.convertValueExpression(expr)
	g.canInline = oldCanInline
	return converted
}

// modifierNames pairs each flag with its source spelling, in the order
// violations get reported.
var modifierNames = []struct {
	flag ir.ModifierFlag
	name string
}{
	{ir.FlagConst, "const"},
	{ir.FlagIn, "in"},
	{ir.FlagOut, "out"},
	{ir.FlagUniform, "uniform"},
	{ir.FlagFlat, "flat"},
	{ir.FlagNoPerspective, "noperspective"},
	{ir.FlagReadOnly, "readonly"},
	{ir.FlagWriteOnly, "writeonly"},
	{ir.FlagCoherent, "coherent"},
	{ir.FlagVolatile, "volatile"},
	{ir.FlagRestrict, "restrict"},
	{ir.FlagBuffer, "buffer"},
	{ir.FlagHasSideEffects, "sk_has_side_effects"},
	{ir.FlagPLS, "__pixel_localEXT"},
	{ir.FlagPLSIn, "__pixel_local_inEXT"},
	{ir.FlagPLSOut, "__pixel_local_outEXT"},
	{ir.FlagVarying, "varying"},
}

// checkModifiers reports every flag present outside the permitted set.
// Precision qualifiers are always allowed.
func (g *generator) checkModifiers(offset int, m ir.Modifiers, permitted ir.ModifierFlag) {
	for _, mn := range modifierNames {
		if m.Flags&mn.flag != 0 && permitted&mn.flag == 0 {
			g.reporter.errorf(offset, "'%s' is not permitted here", mn.name)
		}
	}
}

// setRefKind marks an expression as written (or read-written). It walks
// through the lvalue structure and rejects anything unassignable.
func (g *generator) setRefKind(expr ir.Expression, kind ir.RefKind) bool {
	switch e := expr.(type) {
	case *ir.VariableReference:
		v := e.Variable
		if v.Modifiers.Flags&(ir.FlagConst|ir.FlagUniform|ir.FlagVarying) != 0 {
			g.reporter.errorf(expr.Offset(), "cannot modify immutable variable '%s'", v.VarName)
			return false
		}
		e.SetRefKind(kind)
		return true
	case *ir.FieldAccess:
		return g.setRefKind(e.Base, kind)
	case *ir.Swizzle:
		for _, c := range e.Components {
			if c == ir.SwizzleZero || c == ir.SwizzleOne {
				g.reporter.error(expr.Offset(), "cannot write to a swizzle mask containing a constant")
				return false
			}
		}
		seen := 0
		for _, c := range e.Components {
			bit := 1 << uint(c)
			if seen&bit != 0 {
				g.reporter.error(expr.Offset(), "cannot write to the same swizzle field more than once")
				return false
			}
			seen |= bit
		}
		return g.setRefKind(e.Base, kind)
	case *ir.IndexExpression:
		return g.setRefKind(e.Base, kind)
	case *ir.TernaryExpression:
		return g.setRefKind(e.IfTrue, kind) && g.setRefKind(e.IfFalse, kind)
	case *ir.ExternalValueReference:
		if !e.Value.Writable {
			g.reporter.errorf(expr.Offset(), "external value '%s' can not be written", e.Value.ValueName)
			return false
		}
		return true
	}
	g.reporter.error(expr.Offset(), "cannot assign to this expression")
	return false
}

// nextTmpName returns a fresh hidden variable name.
func (g *generator) nextTmpName(prefix string) string {
	name := fmt.Sprintf("_%s%d", prefix, g.tmpIndex)
	g.tmpIndex++
	return name
}

// checkValid verifies that an expression is usable as a value; bare type
// and function names only make sense as a call or member base.
func (g *generator) checkValid(expr ir.Expression) bool {
	switch e := expr.(type) {
	case *ir.FunctionReference:
		g.reporter.error(expr.Offset(), "expected '(' to begin function call")
		return false
	case *ir.TypeReference:
		g.reporter.error(expr.Offset(), "expected '(' to begin constructor invocation")
		return false
	case *ir.ExternalValueReference:
		if !e.Value.Readable {
			g.reporter.errorf(expr.Offset(), "external value '%s' can not be read", e.Value.ValueName)
			return false
		}
	}
	return true
}

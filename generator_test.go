package sksl

import (
	"strings"
	"sync"
	"testing"

	"github.com/nalgeon/be"

	"github.com/gogpu/sksl/ir"
)

// The builtin modules are compiled once and shared by every test;
// NewCompiler is the expensive part of a compile.
var (
	testCompilerOnce sync.Once
	testCompiler     *Compiler
	testCompilerErr  error
)

func sharedCompiler(t *testing.T) *Compiler {
	t.Helper()
	testCompilerOnce.Do(func() {
		testCompiler, testCompilerErr = NewCompiler()
	})
	if testCompilerErr != nil {
		t.Fatalf("NewCompiler: %v", testCompilerErr)
	}
	return testCompiler
}

func compileKind(t *testing.T, kind ir.ProgramKind, source string, settings *Settings) *ir.Program {
	t.Helper()
	program, err := sharedCompiler(t).Compile(kind, source, settings)
	if err != nil {
		if list, ok := err.(SourceErrors); ok {
			t.Fatalf("compile failed:\n%s", list.FormatAll())
		}
		t.Fatalf("compile failed: %v", err)
	}
	return program
}

func compileFragment(t *testing.T, source string) *ir.Program {
	t.Helper()
	return compileKind(t, ir.KindFragment, source, nil)
}

// compileErr compiles source expecting failure and asserts that one of
// the reported messages contains want.
func compileErr(t *testing.T, kind ir.ProgramKind, source, want string) {
	t.Helper()
	_, err := sharedCompiler(t).Compile(kind, source, nil)
	if err == nil {
		t.Fatalf("expected an error containing %q, got none", want)
	}
	list, ok := err.(SourceErrors)
	if !ok {
		t.Fatalf("expected SourceErrors, got %T: %v", err, err)
	}
	for _, e := range list {
		if strings.Contains(e.Message, want) {
			return
		}
	}
	t.Errorf("no error contains %q; got:\n%s", want, list.FormatAll())
}

func findFunction(program *ir.Program, name string) *ir.FunctionDefinition {
	for _, element := range program.Elements {
		if def, ok := element.(*ir.FunctionDefinition); ok && def.Declaration.FuncName == name {
			return def
		}
	}
	return nil
}

func TestCompileMinimalFragment(t *testing.T) {
	program := compileFragment(t, "void main() { sk_FragColor = half4(1); }")
	be.Equal(t, program.Kind, ir.KindFragment)
	main := findFunction(program, "main")
	be.True(t, main != nil)
	be.Equal(t, main.Declaration.ReturnType.Name(), "void")
}

func TestCompileVertex(t *testing.T) {
	program := compileKind(t, ir.KindVertex, `
in float4 position;
void main() { sk_Position = position; }`, nil)
	be.True(t, findFunction(program, "main") != nil)
}

func TestGlobalUniform(t *testing.T) {
	program := compileFragment(t, `
uniform half4 tint;
void main() { sk_FragColor = tint; }`)
	var global *ir.GlobalVarDeclarations
	for _, element := range program.Elements {
		if g, ok := element.(*ir.GlobalVarDeclarations); ok {
			global = g
		}
	}
	if global == nil {
		t.Fatal("uniform did not produce a global declaration element")
	}
}

func TestUserFunctionCall(t *testing.T) {
	// Inlining off so the call survives for inspection.
	program := compileKind(t, ir.KindFragment, `
half4 shade(half t) { return half4(t); }
half4 shade(half t, half u) { return half4(t, t, u, u); }
void main() { sk_FragColor = shade(0.5, 0.25); }`, &Settings{})
	main := findFunction(program, "main")
	be.True(t, main != nil)
	// The two-argument overload must be the one resolved.
	var call *ir.FunctionCall
	block := main.Body.(*ir.Block)
	for _, s := range block.Statements {
		es, ok := s.(*ir.ExpressionStatement)
		if !ok {
			continue
		}
		bin, ok := es.Expr.(*ir.BinaryExpression)
		if !ok {
			continue
		}
		if c, ok := bin.Right.(*ir.FunctionCall); ok {
			call = c
		}
	}
	if call == nil {
		t.Fatal("no function call found in main")
	}
	be.Equal(t, len(call.Function.Parameters), 2)
}

func TestIntrinsicDefinitionIncluded(t *testing.T) {
	program := compileFragment(t, `
void main() { sk_FragColor = unpremul(half4(0.5)); }`)
	if findFunction(program, "unpremul") == nil {
		t.Fatal("calling unpremul should pull its definition into the program")
	}
	// Prototype-only intrinsics never materialize as definitions.
	if findFunction(program, "sin") != nil {
		t.Error("sin has no body and should not appear as a definition")
	}
}

func TestInputsFragCoord(t *testing.T) {
	settings := DefaultSettings()
	settings.FlipY = true
	program := compileKind(t, ir.KindFragment, `
void main() { sk_FragColor = half4(half(sk_FragCoord.y)); }`, settings)
	be.True(t, program.Inputs.FlipY)
	be.True(t, program.Inputs.RTHeight)
	be.True(t, !program.Inputs.RTWidth)
}

func TestInputsWidthHeight(t *testing.T) {
	program := compileFragment(t, `
void main() { sk_FragColor = half4(half(sk_Width), half(sk_Height), 0, 1); }`)
	be.True(t, program.Inputs.RTWidth)
	be.True(t, program.Inputs.RTHeight)
}

func TestCapsLookup(t *testing.T) {
	// With nil caps only integerSupport is exposed, and it reads true.
	program := compileFragment(t, `
void main() {
    if (sk_Caps.integerSupport) { sk_FragColor = half4(1); }
    else { sk_FragColor = half4(0); }
}`)
	be.True(t, findFunction(program, "main") != nil)
}

func TestCapsUnknownFlag(t *testing.T) {
	compileErr(t, ir.KindFragment, `
void main() { if (sk_Caps.warpDrive) { sk_FragColor = half4(1); } }`,
		"unknown capability flag 'warpDrive'")
}

func TestErrUnknownIdentifier(t *testing.T) {
	compileErr(t, ir.KindFragment,
		"void main() { sk_FragColor = bogus; }",
		"unknown identifier 'bogus'")
}

func TestErrTypeMismatch(t *testing.T) {
	compileErr(t, ir.KindFragment,
		"void main() { int x = true; }",
		"expected 'int', but found 'bool'")
}

func TestErrBinaryMismatch(t *testing.T) {
	compileErr(t, ir.KindFragment,
		"void main() { float2 x = float2(1) + float3(1); x; }",
		"type mismatch")
}

func TestErrImmutableVariable(t *testing.T) {
	compileErr(t, ir.KindFragment,
		"void main() { const int k = 1; k = 2; }",
		"cannot modify immutable variable 'k'")
}

func TestErrMainParameters(t *testing.T) {
	compileErr(t, ir.KindFragment,
		"void main(int x) {}",
		"shader 'main' must have zero parameters")
}

func TestErrDiscardOutsideFragment(t *testing.T) {
	compileErr(t, ir.KindVertex,
		"void main() { discard; }",
		"discard statement is only permitted within fragment shaders")
}

func TestErrBreakOutsideLoop(t *testing.T) {
	compileErr(t, ir.KindFragment,
		"void main() { break; }",
		"break statement must be inside a loop or switch")
}

func TestErrContinueOutsideLoop(t *testing.T) {
	compileErr(t, ir.KindFragment,
		"void main() { continue; }",
		"continue statement must be inside a loop")
}

func TestErrVoidReturnValue(t *testing.T) {
	compileErr(t, ir.KindFragment,
		"void main() { return 1; }",
		"may not return a value from a void function")
}

func TestErrReturnTypeMismatch(t *testing.T) {
	compileErr(t, ir.KindFragment,
		"int f() { return; } void main() { f(); }",
		"expected function to return 'int'")
}

func TestErrTernaryMismatch(t *testing.T) {
	compileErr(t, ir.KindFragment,
		"void main() { float x = true ? 1.0 : float2(1); x; }",
		"ternary expression branches must match")
}

func TestErrDuplicateSymbol(t *testing.T) {
	compileErr(t, ir.KindFragment,
		"int x; int x; void main() {}",
		"symbol 'x' was already defined")
}

func TestErrDuplicateLocal(t *testing.T) {
	compileErr(t, ir.KindFragment,
		"void main() { int y; int y; }",
		"symbol 'y' was already defined")
}

func TestErrDuplicateParameter(t *testing.T) {
	compileErr(t, ir.KindFragment,
		"void f(int a, float a) {} void main() { f(1, 2.0); }",
		"symbol 'a' was already defined")
}

func TestLocalShadowsGlobal(t *testing.T) {
	// Rebinding a name in an inner scope is not a redefinition.
	compileFragment(t, "int x; void main() { float x = 1.0; x; }")
}

func TestEnumValueFoldsToConstant(t *testing.T) {
	program := compileKind(t, ir.KindFragment, `
enum class Mode { kClamp = 0, kRepeat = 7 };
void main() {
    Mode.kRepeat;
    sk_FragColor = half4(1);
}`, nil)
	main := findFunction(program, "main")
	found := false
	walkStatementExprs(main.Body, func(e ir.Expression) {
		if lit, ok := e.(*ir.IntLiteral); ok && lit.Value == 7 && lit.Type().Name() == "Mode" {
			found = true
		}
	})
	if !found {
		t.Error("an enum value reference should collapse to a typed integer constant")
	}
}

func TestErrUnknownField(t *testing.T) {
	compileErr(t, ir.KindFragment, `
struct S { float a; };
void main() { S s; float v = s.b; v; }`,
		"does not have a field named 'b'")
}

func TestErrStaticIfNonStaticTest(t *testing.T) {
	compileErr(t, ir.KindFragment, `
void main() {
    bool b = true;
    @if (b) { sk_FragColor = half4(1); }
}`,
		"static if has non-static test")
}

func TestStaticIfCapsFolds(t *testing.T) {
	// A static if over a capability must reduce to the taken branch.
	program := compileFragment(t, `
void main() {
    @if (sk_Caps.integerSupport) { sk_FragColor = half4(1); }
    else { sk_FragColor = half4(0); }
}`)
	main := findFunction(program, "main")
	block := main.Body.(*ir.Block)
	for _, s := range block.Statements {
		if _, ok := s.(*ir.IfStatement); ok {
			t.Fatal("static if over a known capability should not survive")
		}
	}
}

func TestErrArraySizePositive(t *testing.T) {
	compileErr(t, ir.KindFragment,
		"void main() { float xs[0]; xs; }",
		"array size must be positive")
}

func TestErrNoMatchingOverload(t *testing.T) {
	compileErr(t, ir.KindFragment, `
half f(half x) { return x; }
half f(half x, half y) { return x + y; }
void main() { half v = f(true); v; }`,
		"no match for f(")
}

func TestSkRTAdjustType(t *testing.T) {
	compileErr(t, ir.KindVertex,
		"uniform float3 sk_RTAdjust; void main() { sk_Position = float4(0); }",
		"sk_RTAdjust must have type 'float4'")
}

func TestLocalVariableShadowing(t *testing.T) {
	program := compileFragment(t, `
uniform half x;
void main() {
    half x = 2.0;
    sk_FragColor = half4(x);
}`)
	be.True(t, findFunction(program, "main") != nil)
}

func TestForLoopScope(t *testing.T) {
	// The loop variable must not leak out of the loop.
	compileErr(t, ir.KindFragment, `
void main() {
    for (int i = 0; i < 4; i++) {}
    int j = i;
    j;
}`,
		"unknown identifier 'i'")
}

// compileErrWith is compileErr with explicit settings, for tests that
// need external values or caps in scope.
func compileErrWith(t *testing.T, settings *Settings, source, want string) {
	t.Helper()
	_, err := sharedCompiler(t).Compile(ir.KindFragment, source, settings)
	if err == nil {
		t.Fatalf("expected an error containing %q, got none", want)
	}
	list, ok := err.(SourceErrors)
	if !ok {
		t.Fatalf("expected SourceErrors, got %T: %v", err, err)
	}
	for _, e := range list {
		if strings.Contains(e.Message, want) {
			return
		}
	}
	t.Errorf("no error contains %q; got:\n%s", want, list.FormatAll())
}

func externalTestValues(t *testing.T) []*ir.ExternalValue {
	t.Helper()
	ctx := sharedCompiler(t).context
	return []*ir.ExternalValue{
		{ValueName: "hostTime", ValueType: ctx.Float, Readable: true},
		{ValueName: "hostSink", ValueType: ctx.Float, Readable: true, Writable: true},
		{ValueName: "hostBlob", ValueType: ctx.Float, Writable: true},
		{ValueName: "hostNoise", ValueType: ctx.Float, Callable: true,
			ReturnType: ctx.Float, ParameterTypes: []*ir.Type{ctx.Float2}},
	}
}

func TestExternalValueRead(t *testing.T) {
	settings := &Settings{ExternalValues: externalTestValues(t)}
	program := compileKind(t, ir.KindFragment,
		"void main() { sk_FragColor = half4(half(hostTime)); }", settings)
	main := findFunction(program, "main")
	be.True(t, main != nil)
	sawRef := false
	walkStatementExprs(main.Body, func(e ir.Expression) {
		if ref, ok := e.(*ir.ExternalValueReference); ok && ref.Value.ValueName == "hostTime" {
			sawRef = true
		}
	})
	be.True(t, sawRef)
}

func TestExternalValueWrite(t *testing.T) {
	settings := &Settings{ExternalValues: externalTestValues(t)}
	program := compileKind(t, ir.KindFragment,
		"void main() { hostSink = 1.0; sk_FragColor = half4(0); }", settings)
	be.True(t, findFunction(program, "main") != nil)
}

func TestExternalValueWriteRejected(t *testing.T) {
	settings := &Settings{ExternalValues: externalTestValues(t)}
	compileErrWith(t, settings,
		"void main() { hostTime = 1.0; sk_FragColor = half4(0); }",
		"external value 'hostTime' can not be written")
}

func TestExternalValueReadRejected(t *testing.T) {
	settings := &Settings{ExternalValues: externalTestValues(t)}
	compileErrWith(t, settings,
		"void main() { float x = hostBlob; x; }",
		"external value 'hostBlob' can not be read")
}

func TestExternalFunctionCall(t *testing.T) {
	settings := &Settings{ExternalValues: externalTestValues(t)}
	program := compileKind(t, ir.KindFragment,
		"void main() { float n = hostNoise(float2(0)); sk_FragColor = half4(half(n)); }", settings)
	main := findFunction(program, "main")
	be.True(t, main != nil)
	var call *ir.ExternalFunctionCall
	walkStatementExprs(main.Body, func(e ir.Expression) {
		if c, ok := e.(*ir.ExternalFunctionCall); ok {
			call = c
		}
	})
	be.True(t, call != nil)
	be.Equal(t, len(call.Arguments), 1)
	be.Equal(t, call.Type().Name(), "float")
}

func TestExternalCallArgCount(t *testing.T) {
	settings := &Settings{ExternalValues: externalTestValues(t)}
	compileErrWith(t, settings,
		"void main() { float n = hostNoise(float2(0), 1.0); n; }",
		"call to 'hostNoise' expected 1 argument, but found 2")
}

func TestExternalCallNotCallable(t *testing.T) {
	settings := &Settings{ExternalValues: externalTestValues(t)}
	compileErrWith(t, settings,
		"void main() { float n = hostTime(1.0); n; }",
		"this external value is not a function")
}

func TestExternalValueWriteOnly(t *testing.T) {
	// A write-only value is a legal assignment target even though it
	// can never be read.
	settings := &Settings{ExternalValues: externalTestValues(t)}
	program := compileKind(t, ir.KindFragment,
		"void main() { hostBlob = 1.0; sk_FragColor = half4(0); }", settings)
	be.True(t, findFunction(program, "main") != nil)
}

func TestHalfIntrinsicStaysHalf(t *testing.T) {
	// max on half operands must pick the half overload rather than
	// widening the result to float.
	program := compileKind(t, ir.KindFragment, `
void main() {
    half g = max(sk_FragColor.a, 0.25);
    sk_FragColor = half4(g);
}`, &Settings{})
	main := findFunction(program, "main")
	decls := localDecls(main.Body)
	be.Equal(t, decls[0].Vars[0].Value.Type().Name(), "half")
}

func TestUserRedeclaresFragColor(t *testing.T) {
	// A user declaration of sk_FragColor is tolerated; writes go to the
	// predeclared output.
	program := compileFragment(t, `
out half4 sk_FragColor;
void main() { sk_FragColor = half4(1); }`)
	be.True(t, findFunction(program, "main") != nil)
}

func TestVaryingInRuntimeEffect(t *testing.T) {
	program := compileKind(t, ir.KindPipelineStage, `
varying float2 uv;
half4 main() { return half4(half(uv.x)); }`, nil)
	be.True(t, findFunction(program, "main") != nil)
}

func TestErrVaryingNotWritable(t *testing.T) {
	compileErr(t, ir.KindPipelineStage, `
varying float2 uv;
half4 main() { uv.x = 1.0; return half4(0); }`,
		"cannot modify immutable variable 'uv'")
}

func TestErrVaryingOutsideRuntimeEffect(t *testing.T) {
	compileErr(t, ir.KindFragment,
		"varying float x; void main() {}",
		"'varying' is only permitted in runtime effects")
}

func TestErrVaryingMustBeFloat(t *testing.T) {
	compileErr(t, ir.KindPipelineStage,
		"varying int n; half4 main() { return half4(0); }",
		"'varying' must be float scalar or vector")
}

func TestErrModifierNotPermittedOnLocal(t *testing.T) {
	compileErr(t, ir.KindFragment,
		"void main() { uniform float x; }",
		"'uniform' is not permitted here")
}

func TestErrInVariableMatrixType(t *testing.T) {
	compileErr(t, ir.KindFragment,
		"in float4x4 m; void main() {}",
		"'in' variables may not have matrix type")
}

func TestErrTrackedOutsideFragmentProcessor(t *testing.T) {
	compileErr(t, ir.KindFragment,
		"layout(tracked) float4 v; void main() {}",
		"'tracked' is only permitted within fragment processors")
}

func TestErrMarkerRequiresUniform(t *testing.T) {
	compileErr(t, ir.KindPipelineStage,
		"layout(marker=local_to_world) float4x4 m; half4 main() { return half4(0); }",
		"'marker' is only permitted on 'uniform' variables")
}

func TestErrSRGBUnpremulType(t *testing.T) {
	compileErr(t, ir.KindPipelineStage,
		"layout(srgb_unpremul) uniform float2 color; half4 main() { return half4(0); }",
		"'srgb_unpremul' is only permitted on half3, half4, float3, or float4 variables")
}

func TestErrReservedOutLocation(t *testing.T) {
	compileErr(t, ir.KindFragment,
		"layout(location=0, index=0) out half4 color; void main() {}",
		"out location=0, index=0 is reserved for sk_FragColor")
}

func TestErrPipelineMainSignature(t *testing.T) {
	compileErr(t, ir.KindPipelineStage,
		"void main() {}",
		"pipeline stage 'main' must be declared half4 main() or half4 main(float2)")
}

func TestPipelineMainWithCoords(t *testing.T) {
	program := compileKind(t, ir.KindPipelineStage,
		"half4 main(float2 p) { return half4(half(p.x)); }", nil)
	be.True(t, findFunction(program, "main") != nil)
}

func TestErrFragmentProcessorMainSignature(t *testing.T) {
	compileErr(t, ir.KindFragmentProcessor,
		"void main(float3 p) {}",
		".fp 'main' must be declared main() or main(float2)")
}

func TestErrFunctionReturnsFragmentProcessor(t *testing.T) {
	compileErr(t, ir.KindFragmentProcessor,
		"fragmentProcessor f() {} void main() {}",
		"functions may not return type 'fragmentProcessor'")
}

func TestErrFragmentProcessorParameter(t *testing.T) {
	compileErr(t, ir.KindFragmentProcessor,
		"void f(fragmentProcessor fp) {} void main() {}",
		"parameters of type 'fragmentProcessor' not allowed")
}

func TestErrTernaryFragmentProcessor(t *testing.T) {
	compileErr(t, ir.KindFragmentProcessor, `
in fragmentProcessor child1;
in fragmentProcessor child2;
void main() { (true ? child1 : child2); }`,
		"ternary expression of type 'fragmentProcessor' not allowed")
}

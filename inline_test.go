package sksl

import (
	"strings"
	"testing"

	"github.com/gogpu/sksl/ir"
)

// callsTo collects every surviving call to name inside a function body.
func callsTo(def *ir.FunctionDefinition, name string) []*ir.FunctionCall {
	var calls []*ir.FunctionCall
	walkStatementExprs(def.Body, func(e ir.Expression) {
		if call, ok := e.(*ir.FunctionCall); ok && call.Function.FuncName == name {
			calls = append(calls, call)
		}
	})
	return calls
}

// localDecls collects every declaration in a body, including those the
// statement splice wraps in synthesized blocks.
func localDecls(stmt ir.Statement) []*ir.VarDeclarations {
	var decls []*ir.VarDeclarations
	switch s := stmt.(type) {
	case *ir.Block:
		for _, inner := range s.Statements {
			decls = append(decls, localDecls(inner)...)
		}
	case *ir.VarDeclarations:
		decls = append(decls, s)
	}
	return decls
}

func TestInlineSingleReturn(t *testing.T) {
	program := compileKind(t, ir.KindFragment, `
half sq(half x) { return x * x; }
void main() { sk_FragColor = half4(sq(0.5)); }`, DefaultSettings())
	main := findFunction(program, "main")
	if calls := callsTo(main, "sq"); len(calls) != 0 {
		t.Fatalf("expected sq to inline away, found %d calls", len(calls))
	}
	// The argument must be bound to a hidden local ahead of the use.
	found := false
	for _, vd := range localDecls(main.Body) {
		if strings.HasPrefix(vd.Vars[0].Var.VarName, "_inlineArg") {
			found = true
		}
	}
	if !found {
		t.Error("no _inlineArg binding emitted for the inlined call")
	}
}

func TestInlineDisabled(t *testing.T) {
	program := compileKind(t, ir.KindFragment, `
half sq(half x) { return x * x; }
void main() { sk_FragColor = half4(sq(0.5)); }`, &Settings{})
	main := findFunction(program, "main")
	if calls := callsTo(main, "sq"); len(calls) != 1 {
		t.Fatalf("with inlining off the call must survive, found %d calls", len(calls))
	}
}

func TestNoInlineMultipleStatements(t *testing.T) {
	program := compileKind(t, ir.KindFragment, `
half stepped(half x) {
    half y = x * 2.0;
    return y + 1.0;
}
void main() { sk_FragColor = half4(stepped(0.5)); }`, DefaultSettings())
	main := findFunction(program, "main")
	if calls := callsTo(main, "stepped"); len(calls) != 1 {
		t.Fatalf("a multi-statement body must stay a call, found %d calls", len(calls))
	}
}

func TestNoInlineOutParameter(t *testing.T) {
	program := compileKind(t, ir.KindFragment, `
half fetch(out half dst) { return dst; }
void main() {
    half v;
    half w = fetch(v);
    sk_FragColor = half4(w);
}`, DefaultSettings())
	main := findFunction(program, "main")
	if calls := callsTo(main, "fetch"); len(calls) != 1 {
		t.Fatalf("out parameters prevent inlining, found %d calls", len(calls))
	}
}

func TestNoInlineOverThreshold(t *testing.T) {
	// A return expression bigger than the budget keeps the call.
	expr := "x"
	for i := 0; i < 40; i++ {
		expr += " * x"
	}
	program := compileKind(t, ir.KindFragment, `
half big(half x) { return `+expr+`; }
void main() { sk_FragColor = half4(big(0.5)); }`, DefaultSettings())
	main := findFunction(program, "main")
	if calls := callsTo(main, "big"); len(calls) != 1 {
		t.Fatalf("an oversized body must stay a call, found %d calls", len(calls))
	}
}

func TestInlineThresholdTunable(t *testing.T) {
	settings := DefaultSettings()
	settings.InlineThreshold = 2
	program := compileKind(t, ir.KindFragment, `
half sq(half x) { return x * x; }
void main() { sk_FragColor = half4(sq(0.5)); }`, settings)
	main := findFunction(program, "main")
	// x * x is three nodes, over a budget of two.
	if calls := callsTo(main, "sq"); len(calls) != 1 {
		t.Fatalf("threshold 2 should reject x * x, found %d calls", len(calls))
	}
}

func TestInlineSubstitutesArguments(t *testing.T) {
	program := compileKind(t, ir.KindFragment, `
half double2(half x) { return x * 2.0; }
void main() {
    half v = 3.0;
    sk_FragColor = half4(double2(v));
}`, DefaultSettings())
	main := findFunction(program, "main")
	if calls := callsTo(main, "double2"); len(calls) != 0 {
		t.Fatalf("expected double2 to inline away, found %d calls", len(calls))
	}
	// The substituted expression references the binding, not the callee
	// parameter.
	sawBinding := false
	walkStatementExprs(main.Body, func(e ir.Expression) {
		if ref, ok := e.(*ir.VariableReference); ok &&
			strings.HasPrefix(ref.Variable.VarName, "_inlineArg") {
			sawBinding = true
		}
	})
	if !sawBinding {
		t.Error("inlined expression does not reference its argument binding")
	}
}

func TestRecursiveCallStaysCall(t *testing.T) {
	program := compileKind(t, ir.KindFragment, `
half echo(half x) { return echo(x); }
void main() { sk_FragColor = half4(echo(0.5)); }`, DefaultSettings())
	echo := findFunction(program, "echo")
	if echo == nil {
		t.Fatal("echo definition missing")
	}
	if calls := callsTo(echo, "echo"); len(calls) != 1 {
		t.Fatalf("a self-call must never inline, found %d calls", len(calls))
	}
}

func TestInlineInIfBodyAddsScope(t *testing.T) {
	// Hoisted bindings inside a braceless if body must not leak past it;
	// the synthesized block around them has to become a real scope.
	program := compileKind(t, ir.KindFragment, `
half sq(half x) { return x * x; }
void main() {
    half y = 0;
    if (y < 1) y = sq(y);
    sk_FragColor = half4(y);
}`, DefaultSettings())
	main := findFunction(program, "main")
	var ifStmt *ir.IfStatement
	for _, s := range main.Body.(*ir.Block).Statements {
		if is, ok := s.(*ir.IfStatement); ok {
			ifStmt = is
		}
	}
	if ifStmt == nil {
		t.Fatal("no if statement in main")
	}
	body, ok := ifStmt.IfTrue.(*ir.Block)
	if !ok {
		t.Fatalf("if body with hoisted bindings should be a block, got %T", ifStmt.IfTrue)
	}
	if !body.IsScope {
		t.Error("if body block with hoisted bindings must be a scope")
	}
}

func TestNoInlineShortCircuitRight(t *testing.T) {
	// The right operand may never run; a hoisted binding would run it
	// unconditionally.
	program := compileKind(t, ir.KindFragment, `
float sq(float x) { return x * x; }
void main() {
    bool b = false;
    float y = 0;
    if (b && sq(y) > 0) { y = 1; }
    sk_FragColor = half4(half(y));
}`, DefaultSettings())
	main := findFunction(program, "main")
	if main == nil {
		t.Fatal("main definition missing")
	}
	if calls := callsTo(main, "sq"); len(calls) != 1 {
		t.Fatalf("short-circuit right operand must stay a call, found %d calls", len(calls))
	}
}

func TestNoInlineTernaryBranches(t *testing.T) {
	program := compileKind(t, ir.KindFragment, `
float sq(float x) { return x * x; }
void main() {
    bool b = false;
    float y = b ? sq(2.0) : 0.0;
    sk_FragColor = half4(half(y));
}`, DefaultSettings())
	main := findFunction(program, "main")
	if main == nil {
		t.Fatal("main definition missing")
	}
	if calls := callsTo(main, "sq"); len(calls) != 1 {
		t.Fatalf("ternary branches must stay calls, found %d calls", len(calls))
	}
}

package sksl

import (
	"testing"

	"github.com/gogpu/sksl/ir"
)

// firstLocalValue compiles a fragment program and returns the
// initializer of the first local declared in main. Inlining is off so
// folded values can be inspected directly.
func firstLocalValue(t *testing.T, body string) ir.Expression {
	t.Helper()
	program := compileKind(t, ir.KindFragment, "void main() { "+body+" }", &Settings{})
	main := findFunction(program, "main")
	if main == nil {
		t.Fatal("no main in compiled program")
	}
	for _, s := range main.Body.(*ir.Block).Statements {
		if vd, ok := s.(*ir.VarDeclarations); ok {
			return vd.Vars[0].Value
		}
	}
	t.Fatal("no local declaration in main")
	return nil
}

func foldInt(t *testing.T, expr string) int64 {
	t.Helper()
	value := firstLocalValue(t, "int x = "+expr+"; x;")
	lit, ok := value.(*ir.IntLiteral)
	if !ok {
		t.Fatalf("%s did not fold to an int literal, got %T", expr, value)
	}
	return lit.Value
}

func foldFloat(t *testing.T, expr string) float64 {
	t.Helper()
	value := firstLocalValue(t, "float x = "+expr+"; x;")
	lit, ok := value.(*ir.FloatLiteral)
	if !ok {
		t.Fatalf("%s did not fold to a float literal, got %T", expr, value)
	}
	return lit.Value
}

func foldBool(t *testing.T, expr string) bool {
	t.Helper()
	value := firstLocalValue(t, "bool x = "+expr+"; x;")
	lit, ok := value.(*ir.BoolLiteral)
	if !ok {
		t.Fatalf("%s did not fold to a bool literal, got %T", expr, value)
	}
	return lit.Value
}

func TestFoldIntArithmetic(t *testing.T) {
	tests := []struct {
		expr string
		want int64
	}{
		{"3 + 5", 8},
		{"20 - 10", 10},
		{"3 * 5", 15},
		{"6 / 2", 3},
		{"7 % 3", 1},
		{"1 << 4", 16},
		{"256 >> 4", 16},
		{"6 & 3", 2},
		{"6 | 3", 7},
		{"6 ^ 3", 5},
	}
	for _, tt := range tests {
		if got := foldInt(t, tt.expr); got != tt.want {
			t.Errorf("%s = %d, want %d", tt.expr, got, tt.want)
		}
	}
}

func TestFoldIntWraparound(t *testing.T) {
	// Arithmetic wraps at 32 bits instead of erroring.
	tests := []struct {
		expr string
		want int64
	}{
		{"2147483647 + 1", 2147483648},
		{"65536 * 65536", 0},
		{"0 - 1", 4294967295},
		{"1 << 31", 2147483648},
	}
	for _, tt := range tests {
		if got := foldInt(t, tt.expr); got != tt.want {
			t.Errorf("%s = %d, want %d", tt.expr, got, tt.want)
		}
	}
}

func TestFoldIntComparisons(t *testing.T) {
	tests := []struct {
		expr string
		want bool
	}{
		{"3 < 5", true},
		{"5 < 3", false},
		{"3 <= 3", true},
		{"3 > 5", false},
		{"5 >= 5", true},
		{"3 == 3", true},
		{"3 != 3", false},
	}
	for _, tt := range tests {
		if got := foldBool(t, tt.expr); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestFoldFloatArithmetic(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"1.5 + 2.25", 3.75},
		{"4.0 - 1.5", 2.5},
		{"2.5 * 4.0", 10},
		{"1.0 / 4.0", 0.25},
	}
	for _, tt := range tests {
		if got := foldFloat(t, tt.expr); got != tt.want {
			t.Errorf("%s = %g, want %g", tt.expr, got, tt.want)
		}
	}
}

func TestFoldFloatComparisons(t *testing.T) {
	if !foldBool(t, "1.5 < 2.0") {
		t.Error("1.5 < 2.0 should fold to true")
	}
	if foldBool(t, "1.5 == 2.0") {
		t.Error("1.5 == 2.0 should fold to false")
	}
}

func TestFoldBoolOperators(t *testing.T) {
	tests := []struct {
		expr string
		want bool
	}{
		{"true && false", false},
		{"true && true", true},
		{"false || true", true},
		{"false || false", false},
		{"true ^^ true", false},
		{"true ^^ false", true},
		{"true == true", true},
		{"true != false", true},
	}
	for _, tt := range tests {
		if got := foldBool(t, tt.expr); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestFoldErrors(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"int x = 1 / 0; x;", "division by zero"},
		{"int x = 1 % 0; x;", "division by zero"},
		{"float x = 1.0 / 0.0; x;", "division by zero"},
		{"int x = 1 << 32; x;", "shift value out of range"},
		{"int x = 1 >> 32; x;", "shift value out of range"},
		{"int x = 1 << -1; x;", "shift value out of range"},
	}
	for _, tt := range tests {
		compileErr(t, ir.KindFragment, "void main() { "+tt.body+" }", tt.want)
	}
}

func TestShortCircuitConstantLeft(t *testing.T) {
	// false && x drops x outright; true && x reduces to x.
	program := compileKind(t, ir.KindFragment, `
void main() {
    bool b = sk_FragCoord.x > 0;
    bool dropped = false && b;
    bool kept = true && b;
    dropped; kept;
}`, &Settings{})
	main := findFunction(program, "main")
	stmts := main.Body.(*ir.Block).Statements

	dropped := stmts[1].(*ir.VarDeclarations).Vars[0].Value
	if lit, ok := dropped.(*ir.BoolLiteral); !ok || lit.Value {
		t.Errorf("false && b should fold to false, got %s", dropped.String())
	}
	kept := stmts[2].(*ir.VarDeclarations).Vars[0].Value
	if _, ok := kept.(*ir.VariableReference); !ok {
		t.Errorf("true && b should reduce to b, got %T", kept)
	}
}

func TestShortCircuitConstantRight(t *testing.T) {
	program := compileKind(t, ir.KindFragment, `
bool sideEffect() { return true; }
void main() {
    bool b = sk_FragCoord.x > 0;
    bool pure = b && false;
    bool impure = sideEffect() && false;
    pure; impure;
}`, &Settings{})
	main := findFunction(program, "main")
	stmts := main.Body.(*ir.Block).Statements

	// A pure left side may be discarded.
	pure := stmts[1].(*ir.VarDeclarations).Vars[0].Value
	if lit, ok := pure.(*ir.BoolLiteral); !ok || lit.Value {
		t.Errorf("b && false should fold to false, got %s", pure.String())
	}
	// A side-effecting left side must still evaluate.
	impure := stmts[2].(*ir.VarDeclarations).Vars[0].Value
	if _, ok := impure.(*ir.BinaryExpression); !ok {
		t.Errorf("sideEffect() && false must keep the call, got %T", impure)
	}
}

func TestShortCircuitXorBecomesNot(t *testing.T) {
	program := compileKind(t, ir.KindFragment, `
void main() {
    bool b = sk_FragCoord.x > 0;
    bool v = true ^^ b;
    v;
}`, &Settings{})
	main := findFunction(program, "main")
	stmts := main.Body.(*ir.Block).Statements
	v := stmts[1].(*ir.VarDeclarations).Vars[0].Value
	prefix, ok := v.(*ir.PrefixExpression)
	if !ok {
		t.Fatalf("true ^^ b should become !b, got %T", v)
	}
	if prefix.Op != ir.OpLogicalNot {
		t.Errorf("operator = %v, want !", prefix.Op)
	}
}

func TestFoldVectorArithmetic(t *testing.T) {
	value := firstLocalValue(t, "float2 v = float2(1, 2) + float2(3, 4); v;")
	ctor, ok := value.(*ir.Constructor)
	if !ok {
		t.Fatalf("vector sum did not fold to a constructor, got %T", value)
	}
	want := []float64{4, 6}
	if len(ctor.Arguments) != len(want) {
		t.Fatalf("expected %d components, got %d", len(want), len(ctor.Arguments))
	}
	for i, w := range want {
		lit, ok := ctor.Arguments[i].(*ir.FloatLiteral)
		if !ok || lit.Value != w {
			t.Errorf("component %d = %v, want %g", i, ctor.Arguments[i], w)
		}
	}
}

func TestFoldVectorEquality(t *testing.T) {
	if !foldBool(t, "float2(1, 2) == float2(1, 2)") {
		t.Error("equal vectors should compare true")
	}
	if foldBool(t, "float2(1, 2) == float2(1, 3)") {
		t.Error("unequal vectors should compare false")
	}
	if !foldBool(t, "float2(1, 2) != float2(1, 3)") {
		t.Error("unequal vectors should compare != true")
	}
}

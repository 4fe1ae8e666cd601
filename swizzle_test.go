package sksl

import (
	"strings"
	"testing"

	"github.com/gogpu/sksl/ir"
)

// mainLocals compiles a fragment program with inlining off and returns
// the declaration statements of main, in order.
func mainLocals(t *testing.T, source string) []*ir.VarDeclarations {
	t.Helper()
	program := compileKind(t, ir.KindFragment, source, &Settings{})
	main := findFunction(program, "main")
	if main == nil {
		t.Fatal("no main in compiled program")
	}
	return localDecls(main.Body)
}

func TestSwizzleComponents(t *testing.T) {
	tests := []struct {
		mask string
		want []int
	}{
		{"x", []int{0}},
		{"yx", []int{1, 0}},
		{"xyzw", []int{0, 1, 2, 3}},
		{"rgba", []int{0, 1, 2, 3}},
		{"stpq", []int{0, 1, 2, 3}},
		{"wzyx", []int{3, 2, 1, 0}},
		{"xxww", []int{0, 0, 3, 3}},
	}
	for _, tt := range tests {
		decls := mainLocals(t, `
void main() {
    float4 v = float4(1);
    float`+sizeSuffix(len(tt.want))+` s = v.`+tt.mask+`;
    s;
}`)
		value := decls[1].Vars[0].Value
		sw, ok := value.(*ir.Swizzle)
		if !ok {
			t.Errorf(".%s did not produce a swizzle, got %T", tt.mask, value)
			continue
		}
		if len(sw.Components) != len(tt.want) {
			t.Errorf(".%s has %d components, want %d", tt.mask, len(sw.Components), len(tt.want))
			continue
		}
		for i, w := range tt.want {
			if sw.Components[i] != w {
				t.Errorf(".%s component %d = %d, want %d", tt.mask, i, sw.Components[i], w)
			}
		}
	}
}

func sizeSuffix(n int) string {
	if n == 1 {
		return ""
	}
	return string(rune('0' + n))
}

func TestSwizzlePseudoComponents(t *testing.T) {
	decls := mainLocals(t, `
void main() {
    float4 v = float4(1);
    float3 s = v.x01;
    s;
}`)
	value := decls[1].Vars[0].Value
	sw, ok := value.(*ir.Swizzle)
	if !ok {
		t.Fatalf("expected a swizzle, got %T", value)
	}
	want := []int{0, ir.SwizzleZero, ir.SwizzleOne}
	for i, w := range want {
		if sw.Components[i] != w {
			t.Errorf("component %d = %d, want %d", i, sw.Components[i], w)
		}
	}
}

func TestScalarSwizzle(t *testing.T) {
	// A swizzle of a scalar becomes a constructor.
	decls := mainLocals(t, `
void main() {
    float f = 2.0;
    float2 s = f.xx;
    s;
}`)
	value := decls[1].Vars[0].Value
	ctor, ok := value.(*ir.Constructor)
	if !ok {
		t.Fatalf("scalar swizzle should build a constructor, got %T", value)
	}
	if ctor.Type().Name() != "float2" {
		t.Errorf("constructor type = %s, want float2", ctor.Type().Name())
	}
}

func TestScalarSwizzleHoistsImpureBase(t *testing.T) {
	// A base that would evaluate twice gets stashed in a hidden local.
	decls := mainLocals(t, `
float next() { return 0.5; }
void main() {
    float3 s = next().x0x;
    s;
}`)
	if len(decls) < 2 {
		t.Fatalf("expected a hidden local ahead of the declaration, got %d declarations", len(decls))
	}
	tmp := decls[0].Vars[0].Var
	if !strings.HasPrefix(tmp.VarName, "_tmpSwizzle") {
		t.Errorf("hoisted variable = %q, want a _tmpSwizzle name", tmp.VarName)
	}
	if _, ok := tmp.InitialValue.(*ir.FunctionCall); !ok {
		t.Errorf("hoisted initializer should be the call, got %T", tmp.InitialValue)
	}
}

func TestScalarSwizzleSingleChunkNoHoist(t *testing.T) {
	// One contiguous chunk evaluates the base once; no local needed.
	decls := mainLocals(t, `
float next() { return 0.5; }
void main() {
    float2 s = next().x0;
    s;
}`)
	if len(decls) != 1 {
		t.Fatalf("expected no hidden local, got %d declarations", len(decls))
	}
}

func TestSwizzleErrors(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"float4 v = float4(1); float s = v.e; s;", "invalid swizzle component 'e'"},
		{"float2 v = float2(1); float s = v.z; s;", "invalid swizzle component 'z'"},
		{"float2 v = float2(1); float s = v.w; s;", "invalid swizzle component 'w'"},
		{"float4 v = float4(1); v.xyzxy;", "too many components in swizzle mask 'xyzxy'"},
	}
	for _, tt := range tests {
		compileErr(t, ir.KindFragment, "void main() { "+tt.body+" }", tt.want)
	}
}

func TestSwizzleWriteDuplicateComponent(t *testing.T) {
	compileErr(t, ir.KindFragment, `
void main() {
    float4 v = float4(1);
    v.xx = float2(1);
}`,
		"cannot write to the same swizzle field more than once")
}

func TestSwizzleWriteConstantComponent(t *testing.T) {
	compileErr(t, ir.KindFragment, `
void main() {
    float4 v = float4(1);
    v.x1 = float2(1);
}`,
		"cannot write to a swizzle mask containing a constant")
}

func TestSwizzleReadDuplicateComponent(t *testing.T) {
	// Duplicates are fine on reads.
	decls := mainLocals(t, `
void main() {
    float4 v = float4(1);
    float2 s = v.xx;
    s;
}`)
	if _, ok := decls[1].Vars[0].Value.(*ir.Swizzle); !ok {
		t.Error("reading a duplicated component should be allowed")
	}
}

func TestSwizzleOnMatrix(t *testing.T) {
	compileErr(t, ir.KindFragment, `
void main() {
    float2x2 m = float2x2(1);
    m.x;
}`,
		"type 'float2x2' does not have a field named 'x'")
}

package ir

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestCoercionCostExactMatch(t *testing.T) {
	ctx := NewContext()
	be.Equal(t, ctx.Float.CoercionCost(ctx.Float), 0)
	be.Equal(t, ctx.Int4.CoercionCost(ctx.Int4), 0)
}

func TestCoercionCostScalarWidening(t *testing.T) {
	ctx := NewContext()
	tests := []struct {
		from, to *Type
		possible bool
	}{
		{ctx.Int, ctx.Float, true},
		{ctx.Half, ctx.Float, true},
		{ctx.Float, ctx.Half, false},
		{ctx.Float, ctx.Int, false},
		{ctx.Short, ctx.Int, true},
		{ctx.Int, ctx.Short, false},
		{ctx.Bool, ctx.Int, false},
		{ctx.Int, ctx.Bool, false},
	}
	for _, tt := range tests {
		got := tt.from.CanCoerceTo(tt.to)
		if got != tt.possible {
			t.Errorf("%s -> %s = %v, want %v", tt.from.Name(), tt.to.Name(), got, tt.possible)
		}
	}
}

func TestCoercionCostOrdersOverloads(t *testing.T) {
	// A nearer type must cost less, so overload ranking prefers it.
	ctx := NewContext()
	toHalf := ctx.IntLiteral.CoercionCost(ctx.Half)
	toFloat := ctx.IntLiteral.CoercionCost(ctx.Float)
	if toHalf >= toFloat {
		t.Errorf("literal -> half (%d) should cost less than literal -> float (%d)", toHalf, toFloat)
	}
	be.True(t, toHalf != CostImpossible)
}

func TestCoercionLiteralTypes(t *testing.T) {
	ctx := NewContext()
	be.True(t, ctx.IntLiteral.CanCoerceTo(ctx.Int))
	be.True(t, ctx.IntLiteral.CanCoerceTo(ctx.UInt))
	be.True(t, ctx.IntLiteral.CanCoerceTo(ctx.Float))
	be.True(t, ctx.IntLiteral.CanCoerceTo(ctx.Half))
	be.True(t, ctx.FloatLiteral.CanCoerceTo(ctx.Float))
	be.True(t, ctx.FloatLiteral.CanCoerceTo(ctx.Half))
	be.True(t, !ctx.FloatLiteral.CanCoerceTo(ctx.Int))
}

func TestCoercionVectors(t *testing.T) {
	ctx := NewContext()
	be.True(t, ctx.Int2.CanCoerceTo(ctx.Float2))
	be.True(t, !ctx.Int2.CanCoerceTo(ctx.Float3))
	be.True(t, !ctx.Float2.CanCoerceTo(ctx.Int2))
	be.True(t, ctx.Half4.CanCoerceTo(ctx.Float4))
}

func TestCoercionGenerics(t *testing.T) {
	ctx := NewContext()
	be.True(t, ctx.GenType.CanCoerceTo(ctx.Float))
	be.True(t, ctx.GenType.CanCoerceTo(ctx.Float3))
	be.True(t, !ctx.GenType.CanCoerceTo(ctx.Int))
	be.True(t, ctx.BVec.CanCoerceTo(ctx.Bool3))
	be.True(t, !ctx.BVec.CanCoerceTo(ctx.Bool))
}

func TestToCompound(t *testing.T) {
	ctx := NewContext()
	be.Equal(t, ctx.Float.ToCompound(ctx, 3, 1), ctx.Float3)
	be.Equal(t, ctx.Float.ToCompound(ctx, 2, 2), ctx.Float2x2)
	be.Equal(t, ctx.Half.ToCompound(ctx, 4, 4), ctx.Half4x4)
	be.Equal(t, ctx.Bool.ToCompound(ctx, 2, 1), ctx.Bool2)
	be.Equal(t, ctx.Int.ToCompound(ctx, 1, 1), ctx.Int)
	// Literal component types share the concrete compounds.
	be.Equal(t, ctx.FloatLiteral.ToCompound(ctx, 4, 1), ctx.Float4)
	be.Equal(t, ctx.IntLiteral.ToCompound(ctx, 2, 1), ctx.Int2)
}

func TestComponentTypeAndShape(t *testing.T) {
	ctx := NewContext()
	be.Equal(t, ctx.Float3.ComponentType(), ctx.Float)
	be.Equal(t, ctx.Float3.Columns(), 3)
	be.Equal(t, ctx.Float3.Rows(), 1)
	be.Equal(t, ctx.Float3x4.ComponentType(), ctx.Float)
	be.Equal(t, ctx.Float3x4.Columns(), 3)
	be.Equal(t, ctx.Float3x4.Rows(), 4)
	// Scalars are their own component type.
	be.Equal(t, ctx.Int.ComponentType(), ctx.Int)
}

func TestArrayOfMemoized(t *testing.T) {
	ctx := NewContext()
	a := ctx.ArrayOf(ctx.Float, 4)
	b := ctx.ArrayOf(ctx.Float, 4)
	if a != b {
		t.Error("sized array types must intern to one instance")
	}
	be.Equal(t, a.Name(), "float[4]")
	be.Equal(t, a.Kind(), KindArray)
	be.Equal(t, a.Columns(), 4)

	unsized := ctx.ArrayOf(ctx.Half4, UnsizedArray)
	be.Equal(t, unsized.Name(), "half4[]")
	be.Equal(t, unsized.Columns(), UnsizedArray)
	if ctx.ArrayOf(ctx.Half4, UnsizedArray) != unsized {
		t.Error("unsized array types must intern to one instance")
	}
}

func TestNullableOfMemoized(t *testing.T) {
	ctx := NewContext()
	n := ctx.NullableOf(ctx.FragmentProcessor)
	if ctx.NullableOf(ctx.FragmentProcessor) != n {
		t.Error("nullable types must intern to one instance")
	}
	be.Equal(t, n.Name(), "fragmentProcessor?")
	be.Equal(t, n.NonNullable(), ctx.FragmentProcessor)
	// The null literal type slots into any nullable.
	be.Equal(t, ctx.Null.CoercionCost(n), 0)
	// Unwrapping costs one step.
	be.Equal(t, n.CoercionCost(ctx.FragmentProcessor), 1)
}

func TestTypePredicates(t *testing.T) {
	ctx := NewContext()
	be.True(t, ctx.Float.IsFloat())
	be.True(t, ctx.Int.IsSigned())
	be.True(t, ctx.UInt.IsUnsigned())
	be.True(t, ctx.Int.IsInteger())
	be.True(t, ctx.UShort.IsInteger())
	be.True(t, ctx.Bool.IsBoolean())
	be.True(t, !ctx.Bool.IsNumber())
	be.True(t, ctx.Half.IsNumber())
	// Compound types are not numbers themselves; their components are.
	be.True(t, !ctx.Float2.IsFloat())
	be.True(t, !ctx.Float2.IsNumber())
	be.True(t, ctx.Float2.ComponentType().IsFloat())
	be.True(t, !ctx.Half4.IsNumber())
	be.True(t, !ctx.GenType.IsNumber())
}

func TestVectorDoesNotCoerceToScalar(t *testing.T) {
	ctx := NewContext()
	be.Equal(t, ctx.Half4.CoercionCost(ctx.Float), CostImpossible)
	be.Equal(t, ctx.Float2.CoercionCost(ctx.Half), CostImpossible)
	be.True(t, !ctx.Float2x2.CanCoerceTo(ctx.Float))
}

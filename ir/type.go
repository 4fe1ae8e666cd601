package ir

import (
	"fmt"
	"math"
)

// TypeKind classifies a Type.
type TypeKind int

const (
	KindArray TypeKind = iota
	KindEnum
	KindGenericType
	KindMatrix
	KindNullable
	KindOther
	KindSampler
	KindScalar
	KindStruct
	KindVector
)

// NumberKind classifies the component domain of a scalar or vector type.
type NumberKind int

const (
	NumberFloat NumberKind = iota
	NumberSigned
	NumberUnsigned
	NumberBoolean
	NumberNonnumeric
)

// CostImpossible is the coercion cost of a conversion that is not allowed.
const CostImpossible = math.MaxInt32

// Field is a single member of a struct or interface block type.
type Field struct {
	Modifiers Modifiers
	Name      string
	Type      *Type
}

func (f Field) String() string {
	return f.Modifiers.String() + f.Type.Name() + " " + f.Name + ";"
}

// Type describes an SkSL type. Types are interned: within one Context
// two types are the same type exactly when they have the same name, so
// identity comparisons go through name equality rather than pointers.
type Type struct {
	name          string
	kind          TypeKind
	number        NumberKind
	priority      int
	component     *Type
	columns       int
	rows          int
	fields        []Field
	coercible     []*Type
	highPrecision bool
	dimensions    SpvDim
	isDepth       bool
	isArrayedTex  bool
	isMultisampled bool
	isSampled     bool
}

// SpvDim names a sampler dimensionality.
type SpvDim int

const (
	Dim1D SpvDim = iota
	Dim2D
	Dim3D
	DimCube
	DimRect
	DimBuffer
	DimSubpassData
)

// newOtherType builds a type in KindOther (void, invalid, and friends).
func newOtherType(name string) *Type {
	return &Type{name: name, kind: KindOther, number: NumberNonnumeric, columns: -1, rows: -1}
}

// newScalarType builds a numeric or boolean scalar. Higher priority types
// win when two mismatched operand types must agree.
func newScalarType(name string, number NumberKind, priority int, highPrecision bool) *Type {
	return &Type{
		name:          name,
		kind:          KindScalar,
		number:        number,
		priority:      priority,
		columns:       1,
		rows:          1,
		highPrecision: highPrecision,
	}
}

// newLiteralType builds the type of an untyped numeric literal. Literal
// types coerce for free to every type in coercible.
func newLiteralType(name string, number NumberKind, priority int, coercible []*Type) *Type {
	return &Type{
		name:      name,
		kind:      KindScalar,
		number:    number,
		priority:  priority,
		columns:   1,
		rows:      1,
		coercible: coercible,
	}
}

func newVectorType(name string, component *Type, columns int) *Type {
	return &Type{
		name:      name,
		kind:      KindVector,
		number:    component.number,
		component: component,
		columns:   columns,
		rows:      1,
	}
}

func newMatrixType(name string, component *Type, columns, rows int) *Type {
	return &Type{
		name:      name,
		kind:      KindMatrix,
		number:    component.number,
		component: component,
		columns:   columns,
		rows:      rows,
	}
}

func newGenericType(name string, coercible []*Type) *Type {
	return &Type{name: name, kind: KindGenericType, number: NumberNonnumeric, coercible: coercible, columns: -1, rows: -1}
}

func newSamplerType(name string, dim SpvDim, depth, arrayed, multisampled, sampled bool) *Type {
	return &Type{
		name:           name,
		kind:           KindSampler,
		number:         NumberNonnumeric,
		columns:        -1,
		rows:           -1,
		dimensions:     dim,
		isDepth:        depth,
		isArrayedTex:   arrayed,
		isMultisampled: multisampled,
		isSampled:      sampled,
	}
}

// NewStructType builds a named struct type from its fields.
func NewStructType(name string, fields []Field) *Type {
	return &Type{name: name, kind: KindStruct, number: NumberNonnumeric, fields: fields, columns: -1, rows: -1}
}

// NewEnumType builds a named enum type. Enum values are int-typed
// constants; the enum type itself only names the group.
func NewEnumType(name string) *Type {
	return &Type{name: name, kind: KindEnum, number: NumberNonnumeric, columns: -1, rows: -1}
}

func newArrayType(name string, component *Type, columns int) *Type {
	return &Type{
		name:      name,
		kind:      KindArray,
		number:    NumberNonnumeric,
		component: component,
		columns:   columns,
		rows:      1,
	}
}

func newNullableType(name string, component *Type) *Type {
	return &Type{name: name, kind: KindNullable, number: NumberNonnumeric, component: component, columns: -1, rows: -1}
}

// Name returns the type's SkSL name.
func (t *Type) Name() string { return t.name }

func (t *Type) String() string { return t.name }

// Kind reports the type's classification.
func (t *Type) Kind() TypeKind { return t.kind }

// NumberKind reports the component domain for scalars and vectors.
func (t *Type) NumberKind() NumberKind { return t.number }

// Priority is the rank used to pick the common type of mismatched
// operands; higher wins.
func (t *Type) Priority() int { return t.priority }

// ComponentType returns the element type of a vector, matrix, array or
// nullable type. For scalars it returns the type itself.
func (t *Type) ComponentType() *Type {
	if t.component != nil {
		return t.component
	}
	return t
}

// Columns reports the column count of a matrix, the length of a vector
// or array (UnsizedArray for unsized arrays), and 1 for scalars.
func (t *Type) Columns() int { return t.columns }

// Rows reports the row count of a matrix and 1 for scalars and vectors.
func (t *Type) Rows() int { return t.rows }

// Fields returns the members of a struct or interface block type.
func (t *Type) Fields() []Field { return t.fields }

// CoercibleTypes lists the concrete types a generic or literal type may
// stand in for, in preference order.
func (t *Type) CoercibleTypes() []*Type { return t.coercible }

// Dimensions reports a sampler type's dimensionality.
func (t *Type) Dimensions() SpvDim { return t.dimensions }

// IsDepth reports whether a sampler type is a depth sampler.
func (t *Type) IsDepth() bool { return t.isDepth }

// IsArrayedTexture reports whether a sampler type samples an array texture.
func (t *Type) IsArrayedTexture() bool { return t.isArrayedTex }

// IsMultisampled reports whether a sampler type is multisampled.
func (t *Type) IsMultisampled() bool { return t.isMultisampled }

// IsSampled reports whether a sampler type carries a sampled image.
func (t *Type) IsSampled() bool { return t.isSampled }

// HighPrecision reports whether a scalar type defaults to high precision.
func (t *Type) HighPrecision() bool {
	if t.component != nil {
		return t.component.HighPrecision()
	}
	return t.highPrecision
}

// Equals reports whether two types are the same type. Types are interned
// by name within a Context.
func (t *Type) Equals(other *Type) bool {
	return t == other || (t != nil && other != nil && t.name == other.name)
}

// IsNumber reports whether the type is a numeric scalar. Compound types
// answer false; ask their ComponentType instead.
func (t *Type) IsNumber() bool {
	if t.kind != KindScalar {
		return false
	}
	return t.number == NumberFloat || t.number == NumberSigned || t.number == NumberUnsigned
}

// IsFloat reports whether the type is a floating point scalar.
func (t *Type) IsFloat() bool { return t.kind == KindScalar && t.number == NumberFloat }

// IsSigned reports whether the type is a signed integer scalar.
func (t *Type) IsSigned() bool { return t.kind == KindScalar && t.number == NumberSigned }

// IsUnsigned reports whether the type is an unsigned integer scalar.
func (t *Type) IsUnsigned() bool { return t.kind == KindScalar && t.number == NumberUnsigned }

// IsInteger reports whether the type is an integer scalar of either sign.
func (t *Type) IsInteger() bool {
	return t.kind == KindScalar && (t.number == NumberSigned || t.number == NumberUnsigned)
}

// IsBoolean reports whether the type is bool.
func (t *Type) IsBoolean() bool { return t.kind == KindScalar && t.number == NumberBoolean }

// NonNullable strips one level of nullability, returning the wrapped type
// for nullable types and the type itself otherwise.
func (t *Type) NonNullable() *Type {
	if t.kind == KindNullable {
		return t.component
	}
	return t
}

// CoercionCost measures how preferable an implicit conversion from t to
// target is. Zero means the types match exactly; CostImpossible means no
// implicit conversion exists; anything between ranks candidate overloads.
func (t *Type) CoercionCost(target *Type) int {
	if t.Equals(target) {
		return 0
	}
	if t.kind == KindNullable && target.kind != KindNullable {
		cost := t.component.CoercionCost(target)
		if cost != CostImpossible {
			cost++
		}
		return cost
	}
	if t.name == "null" && target.kind == KindNullable {
		return 0
	}
	if t.kind == KindVector && target.kind == KindVector {
		if t.columns == target.columns {
			return t.component.CoercionCost(target.component)
		}
		return CostImpossible
	}
	if t.kind == KindMatrix && target.kind == KindMatrix {
		if t.columns == target.columns && t.rows == target.rows {
			return t.component.CoercionCost(target.component)
		}
		return CostImpossible
	}
	if t.IsNumber() && target.IsNumber() && target.priority >= t.priority {
		return target.priority - t.priority
	}
	for i, c := range t.coercible {
		if c.Equals(target) {
			return i + 1
		}
	}
	return CostImpossible
}

// CanCoerceTo reports whether an implicit conversion from t to target
// exists.
func (t *Type) CanCoerceTo(target *Type) bool {
	return t.CoercionCost(target) != CostImpossible
}

// ToCompound maps a scalar type to the vector or matrix type with the
// given shape and the same component type. columns=1, rows=1 returns the
// scalar itself.
func (t *Type) ToCompound(ctx *Context, columns, rows int) *Type {
	if t.kind != KindScalar {
		panic(fmt.Sprintf("cannot make compound of %s", t.name))
	}
	if columns == 1 && rows == 1 {
		return t
	}
	key := compoundKey{t.name, columns, rows}
	if cached, ok := ctx.compounds[key]; ok {
		return cached
	}
	panic(fmt.Sprintf("no compound type for %s[%d][%d]", t.name, columns, rows))
}

// UnsizedArray is the Columns value of an array type with no declared size.
const UnsizedArray = -1

func (t *Type) symbolNode() {}

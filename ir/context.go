package ir

import "fmt"

// Context owns one interned set of built-in types plus the caches for
// derived array and nullable types. Every Program compiled against the
// same Context shares type identity, so types can be compared by name.
// A Context is not safe for concurrent use.
type Context struct {
	// Scalars.
	Float        *Type
	Half         *Type
	Int          *Type
	UInt         *Type
	Short        *Type
	UShort       *Type
	Bool         *Type
	FloatLiteral *Type
	IntLiteral   *Type

	// Vectors.
	Float2, Float3, Float4    *Type
	Half2, Half3, Half4       *Type
	Int2, Int3, Int4          *Type
	UInt2, UInt3, UInt4       *Type
	Short2, Short3, Short4    *Type
	UShort2, UShort3, UShort4 *Type
	Bool2, Bool3, Bool4       *Type

	// Matrices.
	Float2x2, Float2x3, Float2x4 *Type
	Float3x2, Float3x3, Float3x4 *Type
	Float4x2, Float4x3, Float4x4 *Type
	Half2x2, Half2x3, Half2x4    *Type
	Half3x2, Half3x3, Half3x4    *Type
	Half4x2, Half4x3, Half4x4    *Type

	// Samplers and opaque types.
	Sampler1D          *Type
	Sampler2D          *Type
	Sampler3D          *Type
	SamplerExternalOES *Type
	SamplerCube        *Type
	Sampler2DRect      *Type
	FragmentProcessor  *Type

	// Generic placeholder types used by intrinsic signatures.
	GenType  *Type
	GenHType *Type
	GenIType *Type
	GenUType *Type
	GenBType *Type
	Mat      *Type
	Vec      *Type
	BVec     *Type

	Void    *Type
	Invalid *Type
	Null    *Type
	SkCaps  *Type

	compounds map[compoundKey]*Type
	arrays    map[arrayKey]*Type
	nullables map[string]*Type
}

type compoundKey struct {
	component string
	columns   int
	rows      int
}

type arrayKey struct {
	component string
	size      int
}

// NewContext builds a fresh type universe.
func NewContext() *Context {
	c := &Context{
		compounds: make(map[compoundKey]*Type),
		arrays:    make(map[arrayKey]*Type),
		nullables: make(map[string]*Type),
	}

	c.Float = newScalarType("float", NumberFloat, 10, true)
	c.Half = newScalarType("half", NumberFloat, 9, false)
	c.Int = newScalarType("int", NumberSigned, 7, true)
	c.UInt = newScalarType("uint", NumberUnsigned, 6, true)
	c.Short = newScalarType("short", NumberSigned, 5, false)
	c.UShort = newScalarType("ushort", NumberUnsigned, 4, false)
	c.Bool = newScalarType("bool", NumberBoolean, 0, false)
	c.FloatLiteral = newScalarType("$floatLiteral", NumberFloat, 8, true)
	c.IntLiteral = newScalarType("$intLiteral", NumberSigned, 1, true)

	c.Float2 = newVectorType("float2", c.Float, 2)
	c.Float3 = newVectorType("float3", c.Float, 3)
	c.Float4 = newVectorType("float4", c.Float, 4)
	c.Half2 = newVectorType("half2", c.Half, 2)
	c.Half3 = newVectorType("half3", c.Half, 3)
	c.Half4 = newVectorType("half4", c.Half, 4)
	c.Int2 = newVectorType("int2", c.Int, 2)
	c.Int3 = newVectorType("int3", c.Int, 3)
	c.Int4 = newVectorType("int4", c.Int, 4)
	c.UInt2 = newVectorType("uint2", c.UInt, 2)
	c.UInt3 = newVectorType("uint3", c.UInt, 3)
	c.UInt4 = newVectorType("uint4", c.UInt, 4)
	c.Short2 = newVectorType("short2", c.Short, 2)
	c.Short3 = newVectorType("short3", c.Short, 3)
	c.Short4 = newVectorType("short4", c.Short, 4)
	c.UShort2 = newVectorType("ushort2", c.UShort, 2)
	c.UShort3 = newVectorType("ushort3", c.UShort, 3)
	c.UShort4 = newVectorType("ushort4", c.UShort, 4)
	c.Bool2 = newVectorType("bool2", c.Bool, 2)
	c.Bool3 = newVectorType("bool3", c.Bool, 3)
	c.Bool4 = newVectorType("bool4", c.Bool, 4)

	c.Float2x2 = newMatrixType("float2x2", c.Float, 2, 2)
	c.Float2x3 = newMatrixType("float2x3", c.Float, 2, 3)
	c.Float2x4 = newMatrixType("float2x4", c.Float, 2, 4)
	c.Float3x2 = newMatrixType("float3x2", c.Float, 3, 2)
	c.Float3x3 = newMatrixType("float3x3", c.Float, 3, 3)
	c.Float3x4 = newMatrixType("float3x4", c.Float, 3, 4)
	c.Float4x2 = newMatrixType("float4x2", c.Float, 4, 2)
	c.Float4x3 = newMatrixType("float4x3", c.Float, 4, 3)
	c.Float4x4 = newMatrixType("float4x4", c.Float, 4, 4)
	c.Half2x2 = newMatrixType("half2x2", c.Half, 2, 2)
	c.Half2x3 = newMatrixType("half2x3", c.Half, 2, 3)
	c.Half2x4 = newMatrixType("half2x4", c.Half, 2, 4)
	c.Half3x2 = newMatrixType("half3x2", c.Half, 3, 2)
	c.Half3x3 = newMatrixType("half3x3", c.Half, 3, 3)
	c.Half3x4 = newMatrixType("half3x4", c.Half, 3, 4)
	c.Half4x2 = newMatrixType("half4x2", c.Half, 4, 2)
	c.Half4x3 = newMatrixType("half4x3", c.Half, 4, 3)
	c.Half4x4 = newMatrixType("half4x4", c.Half, 4, 4)

	c.Sampler1D = newSamplerType("sampler1D", Dim1D, false, false, false, true)
	c.Sampler2D = newSamplerType("sampler2D", Dim2D, false, false, false, true)
	c.Sampler3D = newSamplerType("sampler3D", Dim3D, false, false, false, true)
	c.SamplerExternalOES = newSamplerType("samplerExternalOES", Dim2D, false, false, false, true)
	c.SamplerCube = newSamplerType("samplerCube", DimCube, false, false, false, true)
	c.Sampler2DRect = newSamplerType("sampler2DRect", DimRect, false, false, false, true)
	c.FragmentProcessor = newOtherType("fragmentProcessor")

	c.GenType = newGenericType("$genType", []*Type{c.Float, c.Float2, c.Float3, c.Float4})
	c.GenHType = newGenericType("$genHType", []*Type{c.Half, c.Half2, c.Half3, c.Half4})
	c.GenIType = newGenericType("$genIType", []*Type{c.Int, c.Int2, c.Int3, c.Int4})
	c.GenUType = newGenericType("$genUType", []*Type{c.UInt, c.UInt2, c.UInt3, c.UInt4})
	c.GenBType = newGenericType("$genBType", []*Type{c.Bool, c.Bool2, c.Bool3, c.Bool4})
	c.Mat = newGenericType("$mat", []*Type{
		c.Float2x2, c.Float2x3, c.Float2x4,
		c.Float3x2, c.Float3x3, c.Float3x4,
		c.Float4x2, c.Float4x3, c.Float4x4,
	})
	c.Vec = newGenericType("$vec", []*Type{c.Float2, c.Float3, c.Float4})
	c.BVec = newGenericType("$bvec", []*Type{c.Bool2, c.Bool3, c.Bool4})

	c.Void = newOtherType("void")
	c.Invalid = newOtherType("<INVALID>")
	c.Null = newOtherType("null")
	c.SkCaps = newOtherType("sk_Caps")

	c.registerCompounds()
	return c
}

// registerCompounds fills the scalar-to-compound lookup used by
// Type.ToCompound. Literal types share the compounds of the concrete
// type they default to.
func (c *Context) registerCompounds() {
	vec := func(base string, v2, v3, v4 *Type) {
		c.compounds[compoundKey{base, 2, 1}] = v2
		c.compounds[compoundKey{base, 3, 1}] = v3
		c.compounds[compoundKey{base, 4, 1}] = v4
	}
	vec("float", c.Float2, c.Float3, c.Float4)
	vec("$floatLiteral", c.Float2, c.Float3, c.Float4)
	vec("half", c.Half2, c.Half3, c.Half4)
	vec("int", c.Int2, c.Int3, c.Int4)
	vec("$intLiteral", c.Int2, c.Int3, c.Int4)
	vec("uint", c.UInt2, c.UInt3, c.UInt4)
	vec("short", c.Short2, c.Short3, c.Short4)
	vec("ushort", c.UShort2, c.UShort3, c.UShort4)
	vec("bool", c.Bool2, c.Bool3, c.Bool4)

	mats := []struct {
		base string
		m    [3][3]*Type
	}{
		{"float", [3][3]*Type{
			{c.Float2x2, c.Float2x3, c.Float2x4},
			{c.Float3x2, c.Float3x3, c.Float3x4},
			{c.Float4x2, c.Float4x3, c.Float4x4},
		}},
		{"half", [3][3]*Type{
			{c.Half2x2, c.Half2x3, c.Half2x4},
			{c.Half3x2, c.Half3x3, c.Half3x4},
			{c.Half4x2, c.Half4x3, c.Half4x4},
		}},
	}
	for _, m := range mats {
		for col := 2; col <= 4; col++ {
			for row := 2; row <= 4; row++ {
				c.compounds[compoundKey{m.base, col, row}] = m.m[col-2][row-2]
			}
		}
	}
	for col := 2; col <= 4; col++ {
		for row := 2; row <= 4; row++ {
			c.compounds[compoundKey{"$floatLiteral", col, row}] = c.compounds[compoundKey{"float", col, row}]
		}
	}
}

// NamedTypes returns every type a program can refer to by name, for
// seeding a root symbol table.
func (c *Context) NamedTypes() []*Type {
	return []*Type{
		c.Float, c.Half, c.Int, c.UInt, c.Short, c.UShort, c.Bool,
		c.FloatLiteral, c.IntLiteral,
		c.Float2, c.Float3, c.Float4,
		c.Half2, c.Half3, c.Half4,
		c.Int2, c.Int3, c.Int4,
		c.UInt2, c.UInt3, c.UInt4,
		c.Short2, c.Short3, c.Short4,
		c.UShort2, c.UShort3, c.UShort4,
		c.Bool2, c.Bool3, c.Bool4,
		c.Float2x2, c.Float2x3, c.Float2x4,
		c.Float3x2, c.Float3x3, c.Float3x4,
		c.Float4x2, c.Float4x3, c.Float4x4,
		c.Half2x2, c.Half2x3, c.Half2x4,
		c.Half3x2, c.Half3x3, c.Half3x4,
		c.Half4x2, c.Half4x3, c.Half4x4,
		c.Sampler1D, c.Sampler2D, c.Sampler3D,
		c.SamplerExternalOES, c.SamplerCube, c.Sampler2DRect,
		c.FragmentProcessor,
		c.GenType, c.GenHType, c.GenIType, c.GenUType, c.GenBType,
		c.Mat, c.Vec, c.BVec,
		c.Void,
	}
}

// ArrayOf returns the array type with the given component type and size,
// creating and caching it on first use. Size UnsizedArray produces an
// unsized array type.
func (c *Context) ArrayOf(component *Type, size int) *Type {
	key := arrayKey{component.Name(), size}
	if t, ok := c.arrays[key]; ok {
		return t
	}
	name := component.Name() + "[]"
	if size != UnsizedArray {
		name = fmt.Sprintf("%s[%d]", component.Name(), size)
	}
	t := newArrayType(name, component, size)
	c.arrays[key] = t
	return t
}

// NullableOf returns the nullable wrapper of the given type, creating and
// caching it on first use.
func (c *Context) NullableOf(component *Type) *Type {
	name := component.Name() + "?"
	if t, ok := c.nullables[name]; ok {
		return t
	}
	t := newNullableType(name, component)
	c.nullables[name] = t
	return t
}

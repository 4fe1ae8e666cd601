package sksl

// The builtin modules below are compiled once per Compiler with the
// builtin-code flag set, so their definitions land in the intrinsic set
// rather than in program output. Functions declared without a body are
// assumed to exist in the target language; defined functions are copied
// into any program that calls them.

const builtinGPUSource = `
// Angle and trigonometry
$genType radians($genType degrees);
$genType degrees($genType radians);
$genType sin($genType angle);
$genType cos($genType angle);
$genType tan($genType angle);
$genType asin($genType x);
$genType acos($genType x);
$genType atan($genType y, $genType x);
$genType atan($genType yOverX);
$genType sinh($genType x);
$genType cosh($genType x);
$genType tanh($genType x);

// Exponential
$genType pow($genType x, $genType y);
$genType exp($genType x);
$genType log($genType x);
$genType exp2($genType x);
$genType log2($genType x);
$genType sqrt($genType x);
$genType inversesqrt($genType x);

// Common
$genType abs($genType x);
$genIType abs($genIType x);
$genType sign($genType x);
$genIType sign($genIType x);
$genType floor($genType x);
$genType ceil($genType x);
$genType fract($genType x);
$genType mod($genType x, float y);
$genType mod($genType x, $genType y);
$genType min($genType x, $genType y);
$genType min($genType x, float y);
$genIType min($genIType x, $genIType y);
$genIType min($genIType x, int y);
$genType max($genType x, $genType y);
$genType max($genType x, float y);
$genIType max($genIType x, $genIType y);
$genIType max($genIType x, int y);
$genType clamp($genType x, $genType minVal, $genType maxVal);
$genType clamp($genType x, float minVal, float maxVal);
$genIType clamp($genIType x, $genIType minVal, $genIType maxVal);
$genIType clamp($genIType x, int minVal, int maxVal);
$genType mix($genType x, $genType y, $genType a);
$genType mix($genType x, $genType y, float a);
$genType mix($genType x, $genType y, $genBType a);
$genType step($genType edge, $genType x);
$genType step(float edge, $genType x);
$genType smoothstep($genType edge0, $genType edge1, $genType x);
$genType smoothstep(float edge0, float edge1, $genType x);

// Half precision forms, so half expressions stay half.
$genHType sin($genHType angle);
$genHType cos($genHType angle);
$genHType tan($genHType angle);
$genHType pow($genHType x, $genHType y);
$genHType exp($genHType x);
$genHType log($genHType x);
$genHType exp2($genHType x);
$genHType log2($genHType x);
$genHType sqrt($genHType x);
$genHType inversesqrt($genHType x);
$genHType abs($genHType x);
$genHType sign($genHType x);
$genHType floor($genHType x);
$genHType ceil($genHType x);
$genHType fract($genHType x);
$genHType mod($genHType x, half y);
$genHType mod($genHType x, $genHType y);
$genHType min($genHType x, $genHType y);
$genHType min($genHType x, half y);
$genHType max($genHType x, $genHType y);
$genHType max($genHType x, half y);
$genHType clamp($genHType x, $genHType minVal, $genHType maxVal);
$genHType clamp($genHType x, half minVal, half maxVal);
$genHType mix($genHType x, $genHType y, $genHType a);
$genHType mix($genHType x, $genHType y, half a);
$genHType step($genHType edge, $genHType x);
$genHType step(half edge, $genHType x);
$genHType smoothstep($genHType edge0, $genHType edge1, $genHType x);
$genHType smoothstep(half edge0, half edge1, $genHType x);

// Geometric
float length($genType x);
float distance($genType p0, $genType p1);
float dot($genType x, $genType y);
float3 cross(float3 x, float3 y);
half3 cross(half3 x, half3 y);
$genType normalize($genType x);
$genType faceforward($genType N, $genType I, $genType Nref);
$genType reflect($genType I, $genType N);
$genType refract($genType I, $genType N, float eta);

// Matrix
$mat matrixCompMult($mat x, $mat y);
float determinant($mat m);
$mat transpose($mat m);
$mat inverse($mat m);

// Relational and logical
$bvec lessThan($vec x, $vec y);
$bvec lessThanEqual($vec x, $vec y);
$bvec greaterThan($vec x, $vec y);
$bvec greaterThanEqual($vec x, $vec y);
$bvec equal($vec x, $vec y);
$bvec notEqual($vec x, $vec y);
bool any($genBType x);
bool all($genBType x);
$genBType not($genBType x);

// Texture lookup
half4 sample(sampler2D s, float2 coord);
half4 sample(sampler2D s, float3 coord);
half4 sample(samplerExternalOES s, float2 coord);
half4 sample(samplerCube s, float3 coord);
half4 sample(sampler2DRect s, float2 coord);

float dFdx(float x);
float dFdy(float y);
$genType dFdx($genType p);
$genType dFdy($genType p);
$genType fwidth($genType p);

// Color helpers with real bodies, copied into programs on use.
half4 unpremul(half4 color) {
    return half4(color.rgb / max(color.a, 0.0001), color.a);
}

float3 toLinearSrgb(float3 color) {
    return pow(color, float3(2.2));
}

float3 fromLinearSrgb(float3 color) {
    return pow(color, float3(0.45454545));
}
`

const builtinFragmentSource = `
layout(builtin=15) in float4 sk_FragCoord;
layout(builtin=17) in bool sk_Clockwise;
layout(builtin=10001, location=0, index=0) out half4 sk_FragColor;
layout(builtin=10008) half4 sk_LastFragColor;
layout(builtin=10011) in half sk_Width;
layout(builtin=10012) in half sk_Height;
`

const builtinVertexSource = `
out sk_PerVertex {
    layout(builtin=0) float4 sk_Position;
    layout(builtin=1) float sk_PointSize;
};
layout(builtin=42) in int sk_VertexID;
layout(builtin=43) in int sk_InstanceID;
`

const builtinGeometrySource = `
layout(builtin=10002) in sk_PerVertex {
    layout(builtin=0) float4 sk_Position;
    layout(builtin=1) float sk_PointSize;
} sk_in[];
out sk_PerVertex {
    layout(builtin=0) float4 sk_Position;
    layout(builtin=1) float sk_PointSize;
};
layout(builtin=8) in int sk_InvocationID;
void EmitVertex();
void EndPrimitive();
`

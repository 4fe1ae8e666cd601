package sksl

import (
	"github.com/gogpu/sksl/ir"
)

// Builtin variable identifiers carried in a variable's layout. Values
// below 10000 match the corresponding SPIR-V builtin decorations; the
// rest are internal.
const (
	builtinPosition     = 0
	builtinPointSize    = 1
	builtinInvocationID = 8
	builtinFragCoord    = 15
	builtinClockwise    = 17
	builtinVertexID     = 42
	builtinInstanceID   = 43

	builtinFragColor     = 10001
	builtinIn            = 10002
	builtinOut           = 10007
	builtinLastFragColor = 10008
	builtinMainCoords    = 10009
	builtinWidth         = 10011
	builtinHeight        = 10012
)

// Caps describes the capabilities of the GPU backend a program will
// eventually run on. Shader source can branch on these through the
// sk_Caps reflection syntax; each read resolves to a Setting node with
// the concrete value baked in.
type Caps struct {
	FBFetchSupport                              bool
	FBFetchNeedsCustomOutput                    bool
	FlatInterpolationSupport                    bool
	NoperspectiveInterpolationSupport           bool
	ExternalTextureSupport                      bool
	MustEnableAdvBlendEqs                       bool
	MustEnableSpecificAdvBlendEqs               bool
	MustDeclareFragmentShaderOutput             bool
	MustDoOpBetweenFloorAndAbs                  bool
	MustGuardDivisionEvenAfterExplicitZeroCheck bool
	InBlendModesFailRandomlyForAllZeroVec       bool
	Atan2ImplementedAsAtanYOverX                bool
	CanUseAnyFunctionInShader                   bool
	FloatIs32Bits                               bool
	IntegerSupport                              bool

	// FragCoordConventions reports support for the fragment coordinate
	// conventions extension, which lets sk_FragCoord flip without an
	// RTHeight uniform.
	FragCoordConventions bool
}

// capsMap flattens caps into the name space visible to shaders. A nil
// caps object exposes only integerSupport, enabled.
func capsMap(caps *Caps) map[string]bool {
	if caps == nil {
		return map[string]bool{"integerSupport": true}
	}
	return map[string]bool{
		"fbFetchSupport":                    caps.FBFetchSupport,
		"fbFetchNeedsCustomOutput":          caps.FBFetchNeedsCustomOutput,
		"flatInterpolationSupport":          caps.FlatInterpolationSupport,
		"noperspectiveInterpolationSupport": caps.NoperspectiveInterpolationSupport,
		"externalTextureSupport":            caps.ExternalTextureSupport,
		"mustEnableAdvBlendEqs":             caps.MustEnableAdvBlendEqs,
		"mustEnableSpecificAdvBlendEqs":     caps.MustEnableSpecificAdvBlendEqs,
		"mustDeclareFragmentShaderOutput":   caps.MustDeclareFragmentShaderOutput,
		"mustDoOpBetweenFloorAndAbs":        caps.MustDoOpBetweenFloorAndAbs,
		"mustGuardDivisionEvenAfterExplicitZeroCheck": caps.MustGuardDivisionEvenAfterExplicitZeroCheck,
		"inBlendModesFailRandomlyForAllZeroVec":       caps.InBlendModesFailRandomlyForAllZeroVec,
		"atan2ImplementedAsAtanYOverX":                caps.Atan2ImplementedAsAtanYOverX,
		"canUseAnyFunctionInShader":                   caps.CanUseAnyFunctionInShader,
		"floatIs32Bits":                               caps.FloatIs32Bits,
		"integerSupport":                              caps.IntegerSupport,
	}
}

// capsField resolves a sk_Caps.name read into a Setting carrying the
// capability's value.
func (g *generator) capsField(offset int, name string) ir.Expression {
	value, ok := g.caps[name]
	if !ok {
		g.reporter.errorf(offset, "unknown capability flag '%s'", name)
		return nil
	}
	return &ir.Setting{
		Pos:         offset,
		SettingName: "sk_Caps." + name,
		Value:       ir.NewBoolLiteral(g.context, offset, value),
	}
}

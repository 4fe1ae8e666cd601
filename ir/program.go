package ir

// ProgramKind selects which shader stage a program compiles as. The kind
// decides which built-in variables exist and which stage specific checks
// run.
type ProgramKind int

const (
	KindFragment ProgramKind = iota
	KindVertex
	KindGeometry
	KindFragmentProcessor
	KindPipelineStage
	KindGeneric
)

func (k ProgramKind) String() string {
	switch k {
	case KindFragment:
		return "fragment"
	case KindVertex:
		return "vertex"
	case KindGeometry:
		return "geometry"
	case KindFragmentProcessor:
		return "fragment processor"
	case KindPipelineStage:
		return "pipeline stage"
	default:
		return "generic"
	}
}

// Inputs records which implicit render target inputs the program ended up
// depending on, discovered while resolving built-in variable references.
type Inputs struct {
	// RTWidth is set when the program reads sk_Width.
	RTWidth bool
	// RTHeight is set when sk_FragCoord is used in a way that needs the
	// render target height fed in as a uniform, or when the program
	// reads sk_Height.
	RTHeight bool
	// FlipY is set when the program reads sk_FragCoord or sk_Clockwise
	// and so depends on the render target's Y orientation.
	FlipY bool
}

// ResetFlipped clears the orientation dependent flags.
func (i *Inputs) ResetFlipped() {
	i.RTHeight = false
	i.FlipY = false
}

// Program is a fully checked shader: the ordered top level elements plus
// the symbol table they were resolved against.
type Program struct {
	Kind     ProgramKind
	Source   string
	Elements []ProgramElement
	Symbols  *SymbolTable
	Inputs   Inputs
}

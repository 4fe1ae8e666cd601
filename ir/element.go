package ir

// ProgramElement is a top level item of a compiled program.
type ProgramElement interface {
	elementNode()
	Offset() int
	String() string
}

// FunctionDefinition pairs a declaration with its body.
type FunctionDefinition struct {
	Pos         int
	Declaration *FunctionDeclaration
	Body        Statement
}

func (e *FunctionDefinition) elementNode() {}
func (e *FunctionDefinition) Offset() int  { return e.Pos }
func (e *FunctionDefinition) String() string {
	return e.Declaration.String() + " " + e.Body.String()
}

// GlobalVarDeclarations hoists one variable declaration statement to the
// program's top level.
type GlobalVarDeclarations struct {
	Decls *VarDeclarations
}

func (e *GlobalVarDeclarations) elementNode()   {}
func (e *GlobalVarDeclarations) Offset() int    { return e.Decls.Pos }
func (e *GlobalVarDeclarations) String() string { return e.Decls.String() }

// InterfaceBlock is a uniform or buffer block. An unnamed instance spills
// its fields directly into the enclosing scope.
type InterfaceBlock struct {
	Pos          int
	Variable     *Variable
	TypeName     string
	InstanceName string
	Sizes        []Expression
	Symbols      *SymbolTable
}

func (e *InterfaceBlock) elementNode() {}
func (e *InterfaceBlock) Offset() int  { return e.Pos }
func (e *InterfaceBlock) String() string {
	out := e.Variable.Modifiers.String() + e.TypeName + " {\n"
	for _, f := range e.Variable.Type.ComponentType().Fields() {
		out += f.String() + "\n"
	}
	out += "}"
	if e.InstanceName != "" {
		out += " " + e.InstanceName
		for _, sz := range e.Sizes {
			if sz == nil {
				out += "[]"
			} else {
				out += "[" + sz.String() + "]"
			}
		}
	}
	return out + ";"
}

// Extension is a "#extension" style directive surfaced as an element.
type Extension struct {
	Pos  int
	Name string
}

func (e *Extension) elementNode()   {}
func (e *Extension) Offset() int    { return e.Pos }
func (e *Extension) String() string { return "#extension " + e.Name + " : enable" }

// ModifiersDeclaration is a bare modifier statement at the top level,
// e.g. the "in" and "out" layout declarations of a geometry program.
type ModifiersDeclaration struct {
	Pos       int
	Modifiers Modifiers
}

func (e *ModifiersDeclaration) elementNode()   {}
func (e *ModifiersDeclaration) Offset() int    { return e.Pos }
func (e *ModifiersDeclaration) String() string { return e.Modifiers.String() + ";" }

// Enum declares a named enum type; its values live in Symbols as int
// constants.
type Enum struct {
	Pos      int
	TypeName string
	Symbols  *SymbolTable
	Builtin  bool
}

func (e *Enum) elementNode() {}
func (e *Enum) Offset() int  { return e.Pos }
func (e *Enum) String() string {
	return "enum class " + e.TypeName
}

// Section is a named @section block carried through verbatim for the
// benefit of Skia's fragment processor generator.
type Section struct {
	Pos      int
	Name     string
	Argument string
	Text     string
}

func (e *Section) elementNode() {}
func (e *Section) Offset() int  { return e.Pos }
func (e *Section) String() string {
	out := "@" + e.Name
	if e.Argument != "" {
		out += "(" + e.Argument + ")"
	}
	return out + " {" + e.Text + "}"
}

package ir

import "strings"

// Symbol is an entry in a SymbolTable: a variable, a function (possibly
// still overloaded), or a type.
type Symbol interface {
	Name() string
	symbolNode()
}

// VariableStorage says where a variable lives.
type VariableStorage int

const (
	StorageGlobal VariableStorage = iota
	StorageInterfaceBlock
	StorageLocal
	StorageParameter
)

// Variable is a named slot: a global, an interface block, a local or a
// parameter. Read and write counts are maintained by the front end as
// references are created and retargeted; the inliner and dead code
// passes consult them.
type Variable struct {
	Offset       int
	Modifiers    Modifiers
	VarName      string
	Type         *Type
	Storage      VariableStorage
	InitialValue Expression
	ReadCount    int
	WriteCount   int
}

// NewVariable builds a variable with no initial value.
func NewVariable(offset int, modifiers Modifiers, name string, typ *Type, storage VariableStorage) *Variable {
	return &Variable{Offset: offset, Modifiers: modifiers, VarName: name, Type: typ, Storage: storage}
}

func (v *Variable) Name() string { return v.VarName }

// Dead reports whether the variable is never meaningfully used: no reads,
// at most the initializing write, and no side-effecting initializer.
func (v *Variable) Dead() bool {
	if v.Modifiers.Flags&(FlagIn|FlagOut|FlagUniform|FlagBuffer) != 0 {
		return false
	}
	if v.ReadCount > 0 {
		return false
	}
	return v.WriteCount <= 1 && (v.InitialValue == nil || !v.InitialValue.HasSideEffects())
}

func (v *Variable) String() string {
	return v.Modifiers.String() + v.Type.Name() + " " + v.VarName
}

func (v *Variable) symbolNode() {}

// FunctionDeclaration is one concrete function signature. Overload sets
// live in UnresolvedFunction until a call site picks a winner.
type FunctionDeclaration struct {
	Offset     int
	Modifiers  Modifiers
	FuncName   string
	Parameters []*Variable
	ReturnType *Type
	Builtin    bool
}

func (f *FunctionDeclaration) Name() string { return f.FuncName }

// MatchesSignature reports whether other has the same name and parameter
// types, regardless of return type.
func (f *FunctionDeclaration) MatchesSignature(other *FunctionDeclaration) bool {
	if f.FuncName != other.FuncName || len(f.Parameters) != len(other.Parameters) {
		return false
	}
	for i := range f.Parameters {
		if !f.Parameters[i].Type.Equals(other.Parameters[i].Type) {
			return false
		}
	}
	return true
}

// DetermineFinalTypes resolves generic parameter and return types against
// the concrete argument types of a call. It reports false when the
// arguments cannot instantiate the signature consistently.
func (f *FunctionDeclaration) DetermineFinalTypes(args []Expression, outParamTypes *[]*Type, outReturnType **Type) bool {
	if len(args) != len(f.Parameters) {
		return false
	}
	genericIndex := -1
	for i, arg := range args {
		paramType := f.Parameters[i].Type
		if paramType.Kind() == KindGenericType {
			set := paramType.CoercibleTypes()
			if genericIndex == -1 {
				for j, t := range set {
					if arg.Type().CanCoerceTo(t) {
						genericIndex = j
						break
					}
				}
				if genericIndex == -1 {
					return false
				}
			}
			*outParamTypes = append(*outParamTypes, set[genericIndex])
		} else {
			*outParamTypes = append(*outParamTypes, paramType)
		}
	}
	if f.ReturnType.Kind() == KindGenericType {
		if genericIndex == -1 {
			return false
		}
		*outReturnType = f.ReturnType.CoercibleTypes()[genericIndex]
	} else {
		*outReturnType = f.ReturnType
	}
	return true
}

func (f *FunctionDeclaration) String() string {
	var sb strings.Builder
	sb.WriteString(f.ReturnType.Name())
	sb.WriteString(" ")
	sb.WriteString(f.FuncName)
	sb.WriteString("(")
	for i, p := range f.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Type.Name())
	}
	sb.WriteString(")")
	return sb.String()
}

func (f *FunctionDeclaration) symbolNode() {}

// FieldSymbol exposes one field of an anonymous interface block directly
// in the enclosing scope.
type FieldSymbol struct {
	Owner      *Variable
	FieldIndex int
}

func (f *FieldSymbol) Name() string {
	return f.Owner.Type.Fields()[f.FieldIndex].Name
}

func (f *FieldSymbol) symbolNode() {}

// ExternalValue is a symbol supplied by the host environment rather
// than declared in source. The host states which uses it supports;
// the front end checks reads, writes and calls against those
// capabilities.
type ExternalValue struct {
	ValueName string
	ValueType *Type

	Readable bool
	Writable bool

	// Callable external values also carry a call signature.
	Callable       bool
	ReturnType     *Type
	ParameterTypes []*Type
}

func (e *ExternalValue) Name() string { return e.ValueName }

func (e *ExternalValue) symbolNode() {}

// UnresolvedFunction groups every declaration sharing one name until
// overload resolution happens at a call site.
type UnresolvedFunction struct {
	Functions []*FunctionDeclaration
}

func (u *UnresolvedFunction) Name() string { return u.Functions[0].FuncName }

func (u *UnresolvedFunction) symbolNode() {}

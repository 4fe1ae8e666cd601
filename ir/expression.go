package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression is a node in the typed expression tree. Every expression
// owns its children; sharing a subtree between two parents is a bug, so
// passes that need a copy call Clone.
type Expression interface {
	exprNode()
	Type() *Type
	Offset() int
	HasSideEffects() bool
	// IsCompileTimeConstant reports whether the expression is a literal
	// or a constructor built entirely from compile time constants.
	IsCompileTimeConstant() bool
	Clone() Expression
	String() string
}

// Pseudo-components usable in a swizzle alongside the real indices
// 0..3: a constant zero and a constant one lane.
const (
	SwizzleZero = -2
	SwizzleOne  = -1
)

// BoolLiteral is a true or false constant.
type BoolLiteral struct {
	Pos     int
	Value   bool
	LitType *Type
}

func NewBoolLiteral(ctx *Context, offset int, value bool) *BoolLiteral {
	return &BoolLiteral{Pos: offset, Value: value, LitType: ctx.Bool}
}

func (e *BoolLiteral) exprNode()                   {}
func (e *BoolLiteral) Type() *Type                 { return e.LitType }
func (e *BoolLiteral) Offset() int                 { return e.Pos }
func (e *BoolLiteral) HasSideEffects() bool        { return false }
func (e *BoolLiteral) IsCompileTimeConstant() bool { return true }
func (e *BoolLiteral) Clone() Expression           { c := *e; return &c }
func (e *BoolLiteral) String() string              { return strconv.FormatBool(e.Value) }

// IntLiteral is an integer constant. Fresh literals carry the special
// $intLiteral type, which coerces for free to any integer or float type;
// coercion rewrites LitType in place.
type IntLiteral struct {
	Pos     int
	Value   int64
	LitType *Type
}

func NewIntLiteral(ctx *Context, offset int, value int64) *IntLiteral {
	return &IntLiteral{Pos: offset, Value: value, LitType: ctx.IntLiteral}
}

func (e *IntLiteral) exprNode()                   {}
func (e *IntLiteral) Type() *Type                 { return e.LitType }
func (e *IntLiteral) Offset() int                 { return e.Pos }
func (e *IntLiteral) HasSideEffects() bool        { return false }
func (e *IntLiteral) IsCompileTimeConstant() bool { return true }
func (e *IntLiteral) Clone() Expression           { c := *e; return &c }
func (e *IntLiteral) String() string              { return strconv.FormatInt(e.Value, 10) }

// FloatLiteral is a floating point constant, typed $floatLiteral until
// coerced.
type FloatLiteral struct {
	Pos     int
	Value   float64
	LitType *Type
}

func NewFloatLiteral(ctx *Context, offset int, value float64) *FloatLiteral {
	return &FloatLiteral{Pos: offset, Value: value, LitType: ctx.FloatLiteral}
}

func (e *FloatLiteral) exprNode()                   {}
func (e *FloatLiteral) Type() *Type                 { return e.LitType }
func (e *FloatLiteral) Offset() int                 { return e.Pos }
func (e *FloatLiteral) HasSideEffects() bool        { return false }
func (e *FloatLiteral) IsCompileTimeConstant() bool { return true }
func (e *FloatLiteral) Clone() Expression           { c := *e; return &c }
func (e *FloatLiteral) String() string              { return strconv.FormatFloat(e.Value, 'g', -1, 64) }

// NullLiteral is the null constant, coercible to any nullable type.
type NullLiteral struct {
	Pos     int
	LitType *Type
}

func NewNullLiteral(ctx *Context, offset int) *NullLiteral {
	return &NullLiteral{Pos: offset, LitType: ctx.Null}
}

func (e *NullLiteral) exprNode()                   {}
func (e *NullLiteral) Type() *Type                 { return e.LitType }
func (e *NullLiteral) Offset() int                 { return e.Pos }
func (e *NullLiteral) HasSideEffects() bool        { return false }
func (e *NullLiteral) IsCompileTimeConstant() bool { return true }
func (e *NullLiteral) Clone() Expression           { c := *e; return &c }
func (e *NullLiteral) String() string              { return "null" }

// RefKind says how a VariableReference uses its variable.
type RefKind int

const (
	RefRead RefKind = iota
	RefWrite
	RefReadWrite
	// RefPointer marks a reference passed as an out parameter; it counts
	// as neither a read nor a write until the callee decides.
	RefPointer
)

// VariableReference is a use of a named variable. Creating, retargeting
// and dropping references keeps the variable's read and write counts
// accurate.
type VariableReference struct {
	Pos      int
	Variable *Variable
	Kind     RefKind
}

// NewVariableReference builds a reference and bumps the variable's
// counters for the given kind.
func NewVariableReference(offset int, v *Variable, kind RefKind) *VariableReference {
	ref := &VariableReference{Pos: offset, Variable: v, Kind: kind}
	ref.addCounts()
	return ref
}

func (e *VariableReference) addCounts() {
	switch e.Kind {
	case RefRead:
		e.Variable.ReadCount++
	case RefWrite:
		e.Variable.WriteCount++
	case RefReadWrite:
		e.Variable.ReadCount++
		e.Variable.WriteCount++
	}
}

func (e *VariableReference) removeCounts() {
	switch e.Kind {
	case RefRead:
		e.Variable.ReadCount--
	case RefWrite:
		e.Variable.WriteCount--
	case RefReadWrite:
		e.Variable.ReadCount--
		e.Variable.WriteCount--
	}
}

// SetRefKind retargets the reference's usage kind, fixing up the
// variable's counters.
func (e *VariableReference) SetRefKind(kind RefKind) {
	e.removeCounts()
	e.Kind = kind
	e.addCounts()
}

func (e *VariableReference) exprNode()                   {}
func (e *VariableReference) Type() *Type                 { return e.Variable.Type }
func (e *VariableReference) Offset() int                 { return e.Pos }
func (e *VariableReference) HasSideEffects() bool        { return false }
func (e *VariableReference) IsCompileTimeConstant() bool { return false }
func (e *VariableReference) Clone() Expression {
	return NewVariableReference(e.Pos, e.Variable, e.Kind)
}
func (e *VariableReference) String() string { return e.Variable.VarName }

// TypeReference is a bare type name in expression position, valid only
// as the callee of a constructor call or the operand of a field lookup
// on an enum.
type TypeReference struct {
	Pos     int
	Value   *Type
	RefType *Type
}

func NewTypeReference(ctx *Context, offset int, value *Type) *TypeReference {
	return &TypeReference{Pos: offset, Value: value, RefType: ctx.Invalid}
}

func (e *TypeReference) exprNode()                   {}
func (e *TypeReference) Type() *Type                 { return e.RefType }
func (e *TypeReference) Offset() int                 { return e.Pos }
func (e *TypeReference) HasSideEffects() bool        { return false }
func (e *TypeReference) IsCompileTimeConstant() bool { return false }
func (e *TypeReference) Clone() Expression           { c := *e; return &c }
func (e *TypeReference) String() string              { return e.Value.Name() }

// FunctionReference is a function name in expression position, valid
// only as the callee of a call. It carries every overload sharing the
// name.
type FunctionReference struct {
	Pos       int
	Functions []*FunctionDeclaration
	RefType   *Type
}

func NewFunctionReference(ctx *Context, offset int, functions []*FunctionDeclaration) *FunctionReference {
	return &FunctionReference{Pos: offset, Functions: functions, RefType: ctx.Invalid}
}

func (e *FunctionReference) exprNode()                   {}
func (e *FunctionReference) Type() *Type                 { return e.RefType }
func (e *FunctionReference) Offset() int                 { return e.Pos }
func (e *FunctionReference) HasSideEffects() bool        { return false }
func (e *FunctionReference) IsCompileTimeConstant() bool { return false }
func (e *FunctionReference) Clone() Expression           { c := *e; return &c }
func (e *FunctionReference) String() string              { return "<function>" }

// FieldAccessOwnerKind distinguishes ordinary struct access from access
// into an anonymous interface block, whose fields live directly in the
// enclosing scope.
type FieldAccessOwnerKind int

const (
	FieldOwnerDefault FieldAccessOwnerKind = iota
	FieldOwnerAnonymousInterfaceBlock
)

// FieldAccess selects one field of a struct valued expression by index.
type FieldAccess struct {
	Base       Expression
	FieldIndex int
	OwnerKind  FieldAccessOwnerKind
}

func (e *FieldAccess) exprNode()                   {}
func (e *FieldAccess) Type() *Type                 { return e.Base.Type().Fields()[e.FieldIndex].Type }
func (e *FieldAccess) Offset() int                 { return e.Base.Offset() }
func (e *FieldAccess) HasSideEffects() bool        { return e.Base.HasSideEffects() }
func (e *FieldAccess) IsCompileTimeConstant() bool { return false }
func (e *FieldAccess) Clone() Expression {
	return &FieldAccess{Base: e.Base.Clone(), FieldIndex: e.FieldIndex, OwnerKind: e.OwnerKind}
}
func (e *FieldAccess) String() string {
	return e.Base.String() + "." + e.Base.Type().Fields()[e.FieldIndex].Name
}

// Swizzle reorders, duplicates or pads the components of a vector.
// Components holds indices into the base vector plus optionally the
// SwizzleZero and SwizzleOne pseudo-components.
type Swizzle struct {
	Base       Expression
	Components []int
	SwzType    *Type
}

// NewSwizzle builds a swizzle; the result type is the base component
// type widened to the selected component count.
func NewSwizzle(ctx *Context, base Expression, components []int) *Swizzle {
	t := base.Type().ComponentType().ToCompound(ctx, len(components), 1)
	return &Swizzle{Base: base, Components: components, SwzType: t}
}

func (e *Swizzle) exprNode()                   {}
func (e *Swizzle) Type() *Type                 { return e.SwzType }
func (e *Swizzle) Offset() int                 { return e.Base.Offset() }
func (e *Swizzle) HasSideEffects() bool        { return e.Base.HasSideEffects() }
func (e *Swizzle) IsCompileTimeConstant() bool { return false }
func (e *Swizzle) Clone() Expression {
	return &Swizzle{Base: e.Base.Clone(), Components: append([]int{}, e.Components...), SwzType: e.SwzType}
}
func (e *Swizzle) String() string {
	var sb strings.Builder
	sb.WriteString(e.Base.String())
	sb.WriteString(".")
	for _, c := range e.Components {
		switch c {
		case SwizzleZero:
			sb.WriteString("0")
		case SwizzleOne:
			sb.WriteString("1")
		default:
			sb.WriteByte("xyzw"[c])
		}
	}
	return sb.String()
}

// IndexExpression subscripts an array, vector or matrix.
type IndexExpression struct {
	Base     Expression
	Index    Expression
	ElemType *Type
}

// IndexType maps an indexed type to its element type: arrays and vectors
// yield the component, matrices yield the column vector.
func IndexType(ctx *Context, base *Type) *Type {
	if base.Kind() == KindMatrix {
		return base.ComponentType().ToCompound(ctx, base.Rows(), 1)
	}
	return base.ComponentType()
}

func NewIndexExpression(ctx *Context, base, index Expression) *IndexExpression {
	return &IndexExpression{Base: base, Index: index, ElemType: IndexType(ctx, base.Type())}
}

func (e *IndexExpression) exprNode()   {}
func (e *IndexExpression) Type() *Type { return e.ElemType }
func (e *IndexExpression) Offset() int { return e.Base.Offset() }
func (e *IndexExpression) HasSideEffects() bool {
	return e.Base.HasSideEffects() || e.Index.HasSideEffects()
}
func (e *IndexExpression) IsCompileTimeConstant() bool { return false }
func (e *IndexExpression) Clone() Expression {
	return &IndexExpression{Base: e.Base.Clone(), Index: e.Index.Clone(), ElemType: e.ElemType}
}
func (e *IndexExpression) String() string {
	return e.Base.String() + "[" + e.Index.String() + "]"
}

// BinaryExpression applies a binary operator to two typed operands.
type BinaryExpression struct {
	Pos      int
	Left     Expression
	Op       Operator
	Right    Expression
	ExprType *Type
}

func (e *BinaryExpression) exprNode()   {}
func (e *BinaryExpression) Type() *Type { return e.ExprType }
func (e *BinaryExpression) Offset() int { return e.Pos }
func (e *BinaryExpression) HasSideEffects() bool {
	return e.Op.IsAssignment() || e.Left.HasSideEffects() || e.Right.HasSideEffects()
}
func (e *BinaryExpression) IsCompileTimeConstant() bool { return false }
func (e *BinaryExpression) Clone() Expression {
	return &BinaryExpression{Pos: e.Pos, Left: e.Left.Clone(), Op: e.Op, Right: e.Right.Clone(), ExprType: e.ExprType}
}
func (e *BinaryExpression) String() string {
	return "(" + e.Left.String() + " " + e.Op.String() + " " + e.Right.String() + ")"
}

// PrefixExpression applies a prefix operator; the result has the
// operand's type.
type PrefixExpression struct {
	Op      Operator
	Operand Expression
}

func (e *PrefixExpression) exprNode()   {}
func (e *PrefixExpression) Type() *Type { return e.Operand.Type() }
func (e *PrefixExpression) Offset() int { return e.Operand.Offset() }
func (e *PrefixExpression) HasSideEffects() bool {
	return e.Op == OpPlusPlus || e.Op == OpMinusMinus || e.Operand.HasSideEffects()
}
func (e *PrefixExpression) IsCompileTimeConstant() bool {
	return e.Op == OpMinus && e.Operand.IsCompileTimeConstant()
}
func (e *PrefixExpression) Clone() Expression {
	return &PrefixExpression{Op: e.Op, Operand: e.Operand.Clone()}
}
func (e *PrefixExpression) String() string { return e.Op.String() + e.Operand.String() }

// PostfixExpression applies ++ or -- after evaluating the operand.
type PostfixExpression struct {
	Operand Expression
	Op      Operator
}

func (e *PostfixExpression) exprNode()                   {}
func (e *PostfixExpression) Type() *Type                 { return e.Operand.Type() }
func (e *PostfixExpression) Offset() int                 { return e.Operand.Offset() }
func (e *PostfixExpression) HasSideEffects() bool        { return true }
func (e *PostfixExpression) IsCompileTimeConstant() bool { return false }
func (e *PostfixExpression) Clone() Expression {
	return &PostfixExpression{Operand: e.Operand.Clone(), Op: e.Op}
}
func (e *PostfixExpression) String() string { return e.Operand.String() + e.Op.String() }

// TernaryExpression is test ? ifTrue : ifFalse; both arms share a type.
type TernaryExpression struct {
	Pos     int
	Test    Expression
	IfTrue  Expression
	IfFalse Expression
}

func (e *TernaryExpression) exprNode()   {}
func (e *TernaryExpression) Type() *Type { return e.IfTrue.Type() }
func (e *TernaryExpression) Offset() int { return e.Pos }
func (e *TernaryExpression) HasSideEffects() bool {
	return e.Test.HasSideEffects() || e.IfTrue.HasSideEffects() || e.IfFalse.HasSideEffects()
}
func (e *TernaryExpression) IsCompileTimeConstant() bool { return false }
func (e *TernaryExpression) Clone() Expression {
	return &TernaryExpression{Pos: e.Pos, Test: e.Test.Clone(), IfTrue: e.IfTrue.Clone(), IfFalse: e.IfFalse.Clone()}
}
func (e *TernaryExpression) String() string {
	return "(" + e.Test.String() + " ? " + e.IfTrue.String() + " : " + e.IfFalse.String() + ")"
}

// FunctionCall invokes one resolved function declaration.
type FunctionCall struct {
	Pos       int
	CallType  *Type
	Function  *FunctionDeclaration
	Arguments []Expression
}

func (e *FunctionCall) exprNode()   {}
func (e *FunctionCall) Type() *Type { return e.CallType }
func (e *FunctionCall) Offset() int { return e.Pos }

// Calls conservatively count as side-effecting; nothing tracks callee
// purity.
func (e *FunctionCall) HasSideEffects() bool        { return true }
func (e *FunctionCall) IsCompileTimeConstant() bool { return false }
func (e *FunctionCall) Clone() Expression {
	args := make([]Expression, len(e.Arguments))
	for i, a := range e.Arguments {
		args[i] = a.Clone()
	}
	return &FunctionCall{Pos: e.Pos, CallType: e.CallType, Function: e.Function, Arguments: args}
}
func (e *FunctionCall) String() string {
	var sb strings.Builder
	sb.WriteString(e.Function.FuncName)
	sb.WriteString("(")
	for i, a := range e.Arguments {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// ExternalValueReference reads a host-supplied value.
type ExternalValueReference struct {
	Pos   int
	Value *ExternalValue
}

func (e *ExternalValueReference) exprNode()                   {}
func (e *ExternalValueReference) Type() *Type                 { return e.Value.ValueType }
func (e *ExternalValueReference) Offset() int                 { return e.Pos }
func (e *ExternalValueReference) HasSideEffects() bool        { return false }
func (e *ExternalValueReference) IsCompileTimeConstant() bool { return false }
func (e *ExternalValueReference) Clone() Expression           { c := *e; return &c }
func (e *ExternalValueReference) String() string              { return e.Value.ValueName }

// ExternalFunctionCall invokes a callable host-supplied value. The host
// performs the call; its effects are unknown here.
type ExternalFunctionCall struct {
	Pos       int
	Function  *ExternalValue
	Arguments []Expression
}

func (e *ExternalFunctionCall) exprNode()                   {}
func (e *ExternalFunctionCall) Type() *Type                 { return e.Function.ReturnType }
func (e *ExternalFunctionCall) Offset() int                 { return e.Pos }
func (e *ExternalFunctionCall) HasSideEffects() bool        { return true }
func (e *ExternalFunctionCall) IsCompileTimeConstant() bool { return false }
func (e *ExternalFunctionCall) Clone() Expression {
	args := make([]Expression, len(e.Arguments))
	for i, a := range e.Arguments {
		args[i] = a.Clone()
	}
	return &ExternalFunctionCall{Pos: e.Pos, Function: e.Function, Arguments: args}
}
func (e *ExternalFunctionCall) String() string {
	var sb strings.Builder
	sb.WriteString(e.Function.ValueName)
	sb.WriteString("(")
	for i, a := range e.Arguments {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// Constructor builds a value of a compound (or converted scalar) type
// from argument expressions.
type Constructor struct {
	Pos       int
	ConsType  *Type
	Arguments []Expression
}

func (e *Constructor) exprNode()   {}
func (e *Constructor) Type() *Type { return e.ConsType }
func (e *Constructor) Offset() int { return e.Pos }
func (e *Constructor) HasSideEffects() bool {
	for _, a := range e.Arguments {
		if a.HasSideEffects() {
			return true
		}
	}
	return false
}
func (e *Constructor) IsCompileTimeConstant() bool {
	for _, a := range e.Arguments {
		if !a.IsCompileTimeConstant() {
			return false
		}
	}
	return true
}
func (e *Constructor) Clone() Expression {
	args := make([]Expression, len(e.Arguments))
	for i, a := range e.Arguments {
		args[i] = a.Clone()
	}
	return &Constructor{Pos: e.Pos, ConsType: e.ConsType, Arguments: args}
}
func (e *Constructor) String() string {
	var sb strings.Builder
	sb.WriteString(e.ConsType.Name())
	sb.WriteString("(")
	for i, a := range e.Arguments {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// FloatComponent extracts component index of a compile time constant
// float vector constructor, unwinding splats and nested vectors.
func (e *Constructor) FloatComponent(index int) float64 {
	if len(e.Arguments) == 1 && e.Arguments[0].Type().Kind() == KindScalar {
		return constantFloat(e.Arguments[0])
	}
	remaining := index
	for _, arg := range e.Arguments {
		cols := arg.Type().Columns()
		if remaining < cols {
			if cols == 1 {
				return constantFloat(arg)
			}
			return arg.(*Constructor).FloatComponent(remaining)
		}
		remaining -= cols
	}
	panic(fmt.Sprintf("constructor component %d out of range", index))
}

// IntComponent is FloatComponent for integer vectors.
func (e *Constructor) IntComponent(index int) int64 {
	if len(e.Arguments) == 1 && e.Arguments[0].Type().Kind() == KindScalar {
		return constantInt(e.Arguments[0])
	}
	remaining := index
	for _, arg := range e.Arguments {
		cols := arg.Type().Columns()
		if remaining < cols {
			if cols == 1 {
				return constantInt(arg)
			}
			return arg.(*Constructor).IntComponent(remaining)
		}
		remaining -= cols
	}
	panic(fmt.Sprintf("constructor component %d out of range", index))
}

func constantFloat(e Expression) float64 {
	switch v := e.(type) {
	case *FloatLiteral:
		return v.Value
	case *IntLiteral:
		return float64(v.Value)
	case *Constructor:
		return constantFloat(v.Arguments[0])
	case *PrefixExpression:
		if v.Op == OpMinus {
			return -constantFloat(v.Operand)
		}
	}
	panic("not a constant float")
}

func constantInt(e Expression) int64 {
	switch v := e.(type) {
	case *IntLiteral:
		return v.Value
	case *Constructor:
		return constantInt(v.Arguments[0])
	case *PrefixExpression:
		if v.Op == OpMinus {
			return -constantInt(v.Operand)
		}
	}
	panic("not a constant int")
}

// Setting is a read of one sk_Caps field with the resolved value of that
// capability baked in. Optimization replaces the setting with Value.
type Setting struct {
	Pos         int
	SettingName string
	Value       Expression
}

func (e *Setting) exprNode()                   {}
func (e *Setting) Type() *Type                 { return e.Value.Type() }
func (e *Setting) Offset() int                 { return e.Pos }
func (e *Setting) HasSideEffects() bool        { return false }
func (e *Setting) IsCompileTimeConstant() bool { return false }
func (e *Setting) Clone() Expression {
	return &Setting{Pos: e.Pos, SettingName: e.SettingName, Value: e.Value.Clone()}
}
func (e *Setting) String() string { return e.SettingName }

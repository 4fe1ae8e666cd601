package ir

import "strings"

// Statement is a node in the statement tree of a function body.
type Statement interface {
	stmtNode()
	Offset() int
	// IsEmpty reports whether the statement does nothing: a Nop or a
	// block of empty statements.
	IsEmpty() bool
	Clone() Statement
	String() string
}

// Block is a brace-delimited statement sequence with its own scope.
// IsScope is false for synthesized blocks that merely group statements
// without introducing a name scope.
type Block struct {
	Pos        int
	Statements []Statement
	Symbols    *SymbolTable
	IsScope    bool
}

func (s *Block) stmtNode()   {}
func (s *Block) Offset() int { return s.Pos }
func (s *Block) IsEmpty() bool {
	for _, st := range s.Statements {
		if !st.IsEmpty() {
			return false
		}
	}
	return true
}
func (s *Block) Clone() Statement {
	stmts := make([]Statement, len(s.Statements))
	for i, st := range s.Statements {
		stmts[i] = st.Clone()
	}
	return &Block{Pos: s.Pos, Statements: stmts, Symbols: s.Symbols, IsScope: s.IsScope}
}
func (s *Block) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for _, st := range s.Statements {
		sb.WriteString("\n")
		sb.WriteString(st.String())
	}
	sb.WriteString("\n}\n")
	return sb.String()
}

// VarDeclaration declares a single variable, with any array dimension
// expressions and an optional initializer.
type VarDeclaration struct {
	Var   *Variable
	Sizes []Expression
	Value Expression
}

func (s *VarDeclaration) stmtNode()     {}
func (s *VarDeclaration) Offset() int   { return s.Var.Offset }
func (s *VarDeclaration) IsEmpty() bool { return false }
func (s *VarDeclaration) Clone() Statement {
	sizes := make([]Expression, len(s.Sizes))
	for i, sz := range s.Sizes {
		if sz != nil {
			sizes[i] = sz.Clone()
		}
	}
	c := &VarDeclaration{Var: s.Var, Sizes: sizes}
	if s.Value != nil {
		c.Value = s.Value.Clone()
	}
	return c
}
func (s *VarDeclaration) String() string {
	var sb strings.Builder
	sb.WriteString(s.Var.String())
	for _, sz := range s.Sizes {
		if sz == nil {
			sb.WriteString("[]")
		} else {
			sb.WriteString("[" + sz.String() + "]")
		}
	}
	if s.Value != nil {
		sb.WriteString(" = " + s.Value.String())
	}
	return sb.String()
}

// VarDeclarations is one declaration statement covering every variable
// declared in a single source declaration, e.g. "int x = 1, y[2];".
type VarDeclarations struct {
	Pos      int
	BaseType *Type
	Vars     []*VarDeclaration
}

func (s *VarDeclarations) stmtNode()     {}
func (s *VarDeclarations) Offset() int   { return s.Pos }
func (s *VarDeclarations) IsEmpty() bool { return len(s.Vars) == 0 }
func (s *VarDeclarations) Clone() Statement {
	vars := make([]*VarDeclaration, len(s.Vars))
	for i, v := range s.Vars {
		vars[i] = v.Clone().(*VarDeclaration)
	}
	return &VarDeclarations{Pos: s.Pos, BaseType: s.BaseType, Vars: vars}
}
func (s *VarDeclarations) String() string {
	var parts []string
	for _, v := range s.Vars {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, ", ") + ";"
}

// ExpressionStatement evaluates an expression for its side effects.
type ExpressionStatement struct {
	Expr Expression
}

func (s *ExpressionStatement) stmtNode()     {}
func (s *ExpressionStatement) Offset() int   { return s.Expr.Offset() }
func (s *ExpressionStatement) IsEmpty() bool { return false }
func (s *ExpressionStatement) Clone() Statement {
	return &ExpressionStatement{Expr: s.Expr.Clone()}
}
func (s *ExpressionStatement) String() string { return s.Expr.String() + ";" }

// IfStatement is a conditional with an optional else branch. IsStatic
// marks @if, which requires the test to fold to a constant.
type IfStatement struct {
	Pos      int
	IsStatic bool
	Test     Expression
	IfTrue   Statement
	IfFalse  Statement
}

func (s *IfStatement) stmtNode()     {}
func (s *IfStatement) Offset() int   { return s.Pos }
func (s *IfStatement) IsEmpty() bool { return false }
func (s *IfStatement) Clone() Statement {
	c := &IfStatement{Pos: s.Pos, IsStatic: s.IsStatic, Test: s.Test.Clone(), IfTrue: s.IfTrue.Clone()}
	if s.IfFalse != nil {
		c.IfFalse = s.IfFalse.Clone()
	}
	return c
}
func (s *IfStatement) String() string {
	out := ""
	if s.IsStatic {
		out = "@"
	}
	out += "if (" + s.Test.String() + ") " + s.IfTrue.String()
	if s.IfFalse != nil {
		out += " else " + s.IfFalse.String()
	}
	return out
}

// ForStatement is a C-style for loop. Initializer, Test and Next may
// each be nil.
type ForStatement struct {
	Pos         int
	Initializer Statement
	Test        Expression
	Next        Expression
	Body        Statement
	Symbols     *SymbolTable
}

func (s *ForStatement) stmtNode()     {}
func (s *ForStatement) Offset() int   { return s.Pos }
func (s *ForStatement) IsEmpty() bool { return false }
func (s *ForStatement) Clone() Statement {
	c := &ForStatement{Pos: s.Pos, Body: s.Body.Clone(), Symbols: s.Symbols}
	if s.Initializer != nil {
		c.Initializer = s.Initializer.Clone()
	}
	if s.Test != nil {
		c.Test = s.Test.Clone()
	}
	if s.Next != nil {
		c.Next = s.Next.Clone()
	}
	return c
}
func (s *ForStatement) String() string {
	out := "for ("
	if s.Initializer != nil {
		out += s.Initializer.String()
	}
	out += " "
	if s.Test != nil {
		out += s.Test.String()
	}
	out += "; "
	if s.Next != nil {
		out += s.Next.String()
	}
	out += ") " + s.Body.String()
	return out
}

// WhileStatement loops while Test holds.
type WhileStatement struct {
	Pos  int
	Test Expression
	Body Statement
}

func (s *WhileStatement) stmtNode()     {}
func (s *WhileStatement) Offset() int   { return s.Pos }
func (s *WhileStatement) IsEmpty() bool { return false }
func (s *WhileStatement) Clone() Statement {
	return &WhileStatement{Pos: s.Pos, Test: s.Test.Clone(), Body: s.Body.Clone()}
}
func (s *WhileStatement) String() string {
	return "while (" + s.Test.String() + ") " + s.Body.String()
}

// DoStatement loops at least once, testing after the body.
type DoStatement struct {
	Pos  int
	Body Statement
	Test Expression
}

func (s *DoStatement) stmtNode()     {}
func (s *DoStatement) Offset() int   { return s.Pos }
func (s *DoStatement) IsEmpty() bool { return false }
func (s *DoStatement) Clone() Statement {
	return &DoStatement{Pos: s.Pos, Body: s.Body.Clone(), Test: s.Test.Clone()}
}
func (s *DoStatement) String() string {
	return "do " + s.Body.String() + " while (" + s.Test.String() + ");"
}

// SwitchCase is one case (or default, when Value is nil) in a switch.
type SwitchCase struct {
	Pos        int
	Value      Expression
	Statements []Statement
}

func (c *SwitchCase) Clone() *SwitchCase {
	out := &SwitchCase{Pos: c.Pos}
	if c.Value != nil {
		out.Value = c.Value.Clone()
	}
	out.Statements = make([]Statement, len(c.Statements))
	for i, st := range c.Statements {
		out.Statements[i] = st.Clone()
	}
	return out
}

func (c *SwitchCase) String() string {
	var sb strings.Builder
	if c.Value != nil {
		sb.WriteString("case " + c.Value.String() + ":\n")
	} else {
		sb.WriteString("default:\n")
	}
	for _, st := range c.Statements {
		sb.WriteString(st.String() + "\n")
	}
	return sb.String()
}

// SwitchStatement switches on an integer valued expression. IsStatic
// marks @switch, which requires every case value and the switch value to
// fold to constants.
type SwitchStatement struct {
	Pos      int
	IsStatic bool
	Value    Expression
	Cases    []*SwitchCase
	Symbols  *SymbolTable
}

func (s *SwitchStatement) stmtNode()     {}
func (s *SwitchStatement) Offset() int   { return s.Pos }
func (s *SwitchStatement) IsEmpty() bool { return false }
func (s *SwitchStatement) Clone() Statement {
	cases := make([]*SwitchCase, len(s.Cases))
	for i, c := range s.Cases {
		cases[i] = c.Clone()
	}
	return &SwitchStatement{Pos: s.Pos, IsStatic: s.IsStatic, Value: s.Value.Clone(), Cases: cases, Symbols: s.Symbols}
}
func (s *SwitchStatement) String() string {
	out := ""
	if s.IsStatic {
		out = "@"
	}
	out += "switch (" + s.Value.String() + ") {\n"
	for _, c := range s.Cases {
		out += c.String()
	}
	return out + "}"
}

// ReturnStatement exits the enclosing function, optionally with a value.
type ReturnStatement struct {
	Pos   int
	Value Expression
}

func (s *ReturnStatement) stmtNode()     {}
func (s *ReturnStatement) Offset() int   { return s.Pos }
func (s *ReturnStatement) IsEmpty() bool { return false }
func (s *ReturnStatement) Clone() Statement {
	c := &ReturnStatement{Pos: s.Pos}
	if s.Value != nil {
		c.Value = s.Value.Clone()
	}
	return c
}
func (s *ReturnStatement) String() string {
	if s.Value != nil {
		return "return " + s.Value.String() + ";"
	}
	return "return;"
}

// BreakStatement exits the innermost loop or switch.
type BreakStatement struct {
	Pos int
}

func (s *BreakStatement) stmtNode()        {}
func (s *BreakStatement) Offset() int      { return s.Pos }
func (s *BreakStatement) IsEmpty() bool    { return false }
func (s *BreakStatement) Clone() Statement { return &BreakStatement{Pos: s.Pos} }
func (s *BreakStatement) String() string   { return "break;" }

// ContinueStatement jumps to the next iteration of the innermost loop.
type ContinueStatement struct {
	Pos int
}

func (s *ContinueStatement) stmtNode()        {}
func (s *ContinueStatement) Offset() int      { return s.Pos }
func (s *ContinueStatement) IsEmpty() bool    { return false }
func (s *ContinueStatement) Clone() Statement { return &ContinueStatement{Pos: s.Pos} }
func (s *ContinueStatement) String() string   { return "continue;" }

// DiscardStatement abandons the current fragment.
type DiscardStatement struct {
	Pos int
}

func (s *DiscardStatement) stmtNode()        {}
func (s *DiscardStatement) Offset() int      { return s.Pos }
func (s *DiscardStatement) IsEmpty() bool    { return false }
func (s *DiscardStatement) Clone() Statement { return &DiscardStatement{Pos: s.Pos} }
func (s *DiscardStatement) String() string   { return "discard;" }

// Nop is a statement that does nothing, left behind when optimization
// removes a statement in place.
type Nop struct {
	Pos int
}

func (s *Nop) stmtNode()        {}
func (s *Nop) Offset() int      { return s.Pos }
func (s *Nop) IsEmpty() bool    { return true }
func (s *Nop) Clone() Statement { return &Nop{Pos: s.Pos} }
func (s *Nop) String() string   { return ";" }

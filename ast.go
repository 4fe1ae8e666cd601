package sksl

import "github.com/gogpu/sksl/ir"

// The parser produces a loose syntax tree with no type information;
// the generator converts it into ir nodes. AST nodes keep token offsets
// so that every later error can point back into the source.

type astExpression interface {
	astExprNode()
	offset() int
}

type astIdentifier struct {
	pos  int
	name string
}

type astIntLiteral struct {
	pos   int
	value int64
}

type astFloatLiteral struct {
	pos   int
	value float64
}

type astBoolLiteral struct {
	pos   int
	value bool
}

type astNullLiteral struct {
	pos int
}

type astBinary struct {
	pos   int
	left  astExpression
	op    TokenKind
	right astExpression
}

type astPrefix struct {
	pos     int
	op      TokenKind
	operand astExpression
}

type astPostfix struct {
	pos     int
	operand astExpression
	op      TokenKind
}

type astTernary struct {
	pos     int
	test    astExpression
	ifTrue  astExpression
	ifFalse astExpression
}

type astCall struct {
	pos  int
	base astExpression
	args []astExpression
}

// astIndex with a nil index is the "[]" suffix of an unsized array type.
type astIndex struct {
	pos   int
	base  astExpression
	index astExpression
}

// astField covers struct field access, swizzles and enum value lookup;
// which one it is only becomes clear once the base has a type.
type astField struct {
	pos   int
	base  astExpression
	field string
}

func (*astIdentifier) astExprNode()   {}
func (*astIntLiteral) astExprNode()   {}
func (*astFloatLiteral) astExprNode() {}
func (*astBoolLiteral) astExprNode()  {}
func (*astNullLiteral) astExprNode()  {}
func (*astBinary) astExprNode()       {}
func (*astPrefix) astExprNode()       {}
func (*astPostfix) astExprNode()      {}
func (*astTernary) astExprNode()      {}
func (*astCall) astExprNode()         {}
func (*astIndex) astExprNode()        {}
func (*astField) astExprNode()        {}

func (e *astIdentifier) offset() int   { return e.pos }
func (e *astIntLiteral) offset() int   { return e.pos }
func (e *astFloatLiteral) offset() int { return e.pos }
func (e *astBoolLiteral) offset() int  { return e.pos }
func (e *astNullLiteral) offset() int  { return e.pos }
func (e *astBinary) offset() int       { return e.pos }
func (e *astPrefix) offset() int       { return e.pos }
func (e *astPostfix) offset() int      { return e.pos }
func (e *astTernary) offset() int      { return e.pos }
func (e *astCall) offset() int         { return e.pos }
func (e *astIndex) offset() int        { return e.pos }
func (e *astField) offset() int        { return e.pos }

type astStatement interface {
	astStmtNode()
	stmtOffset() int
}

type astBlock struct {
	pos        int
	statements []astStatement
}

type astExpressionStatement struct {
	expr astExpression
}

type astIf struct {
	pos      int
	isStatic bool
	test     astExpression
	ifTrue   astStatement
	ifFalse  astStatement
}

type astFor struct {
	pos         int
	initializer astStatement
	test        astExpression
	next        astExpression
	body        astStatement
}

type astWhile struct {
	pos  int
	test astExpression
	body astStatement
}

type astDo struct {
	pos  int
	body astStatement
	test astExpression
}

type astSwitchCase struct {
	pos        int
	value      astExpression
	statements []astStatement
}

type astSwitch struct {
	pos      int
	isStatic bool
	value    astExpression
	cases    []astSwitchCase
}

type astReturn struct {
	pos   int
	value astExpression
}

type astBreak struct{ pos int }

type astContinue struct{ pos int }

type astDiscard struct{ pos int }

// astType names a type, optionally nullable. Array dimensions live on
// the declaration, matching the source syntax.
type astType struct {
	pos      int
	name     string
	nullable bool
	// structDef is set when the type is an inline struct definition.
	structDef *astStruct
}

type astStruct struct {
	pos    int
	name   string
	fields []astVarDeclarations
}

// astVarDeclaration is one declarator: a name, its array dimensions
// (nil entries are unsized) and an optional initializer.
type astVarDeclaration struct {
	pos   int
	name  string
	sizes []astExpression
	value astExpression
}

// astVarDeclarations is a full declaration: modifiers, base type and one
// or more declarators.
type astVarDeclarations struct {
	pos       int
	modifiers ir.Modifiers
	baseType  astType
	vars      []astVarDeclaration
}

func (*astBlock) astStmtNode()               {}
func (*astExpressionStatement) astStmtNode() {}
func (*astIf) astStmtNode()                  {}
func (*astFor) astStmtNode()                 {}
func (*astWhile) astStmtNode()               {}
func (*astDo) astStmtNode()                  {}
func (*astSwitch) astStmtNode()              {}
func (*astReturn) astStmtNode()              {}
func (*astBreak) astStmtNode()               {}
func (*astContinue) astStmtNode()            {}
func (*astDiscard) astStmtNode()             {}
func (*astVarDeclarations) astStmtNode()     {}

func (s *astBlock) stmtOffset() int               { return s.pos }
func (s *astExpressionStatement) stmtOffset() int { return s.expr.offset() }
func (s *astIf) stmtOffset() int                  { return s.pos }
func (s *astFor) stmtOffset() int                 { return s.pos }
func (s *astWhile) stmtOffset() int               { return s.pos }
func (s *astDo) stmtOffset() int                  { return s.pos }
func (s *astSwitch) stmtOffset() int              { return s.pos }
func (s *astReturn) stmtOffset() int              { return s.pos }
func (s *astBreak) stmtOffset() int               { return s.pos }
func (s *astContinue) stmtOffset() int            { return s.pos }
func (s *astDiscard) stmtOffset() int             { return s.pos }
func (s *astVarDeclarations) stmtOffset() int     { return s.pos }

// Top level declarations.

type astDeclaration interface {
	astDeclNode()
	declOffset() int
}

type astParameter struct {
	pos       int
	modifiers ir.Modifiers
	paramType astType
	name      string
	sizes     []astExpression
}

// astFunction is a function declaration; body is nil for a prototype.
type astFunction struct {
	pos        int
	modifiers  ir.Modifiers
	returnType astType
	name       string
	parameters []astParameter
	body       *astBlock
}

type astInterfaceBlock struct {
	pos          int
	modifiers    ir.Modifiers
	typeName     string
	declarations []astVarDeclarations
	instanceName string
	sizes        []astExpression
}

type astExtension struct {
	pos  int
	name string
}

type astModifiersDeclaration struct {
	pos       int
	modifiers ir.Modifiers
}

type astEnumValue struct {
	pos   int
	name  string
	value astExpression
}

type astEnum struct {
	pos      int
	typeName string
	values   []astEnumValue
}

type astSection struct {
	pos      int
	name     string
	argument string
	text     string
}

func (*astFunction) astDeclNode()             {}
func (*astVarDeclarations) astDeclNode()      {}
func (*astInterfaceBlock) astDeclNode()       {}
func (*astExtension) astDeclNode()            {}
func (*astModifiersDeclaration) astDeclNode() {}
func (*astEnum) astDeclNode()                 {}
func (*astSection) astDeclNode()              {}

func (d *astFunction) declOffset() int             { return d.pos }
func (d *astVarDeclarations) declOffset() int      { return d.pos }
func (d *astInterfaceBlock) declOffset() int       { return d.pos }
func (d *astExtension) declOffset() int            { return d.pos }
func (d *astModifiersDeclaration) declOffset() int { return d.pos }
func (d *astEnum) declOffset() int                 { return d.pos }
func (d *astSection) declOffset() int              { return d.pos }

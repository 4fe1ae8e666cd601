package sksl

import (
	"strconv"
	"strings"

	"github.com/gogpu/sksl/ir"
)

// Parser builds the loose syntax tree from a token stream. Parse errors
// go to the shared reporter; the parser recovers at statement and
// declaration boundaries so one pass can report several problems.
type Parser struct {
	source   string
	tokens   []Token
	pos      int
	reporter *errorReporter
}

// NewParser creates a parser over the given source.
func NewParser(source string, reporter *errorReporter) *Parser {
	lexer := NewLexer(source)
	return &Parser{
		source:   source,
		tokens:   lexer.Tokenize(),
		reporter: reporter,
	}
}

// Parse consumes the whole token stream and returns the top level
// declarations.
func (p *Parser) Parse() []astDeclaration {
	var decls []astDeclaration
	for !p.check(TokenEOF) {
		start := p.pos
		if d := p.declaration(); d != nil {
			decls = append(decls, d)
		}
		if p.pos == start {
			// Could not make progress; skip the offending token.
			p.advance()
		}
	}
	return decls
}

func (p *Parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *Parser) peekNext() Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) advance() Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) match(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(kind TokenKind, expected string) (Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	t := p.peek()
	p.reporter.errorf(t.Offset, "expected %s, but found '%s'", expected, t.Lexeme)
	return t, false
}

// synchronize skips ahead to a likely statement boundary after an error.
func (p *Parser) synchronize() {
	for !p.check(TokenEOF) {
		if p.match(TokenSemicolon) {
			return
		}
		switch p.peek().Kind {
		case TokenRightBrace, TokenIf, TokenFor, TokenWhile, TokenDo,
			TokenSwitch, TokenReturn, TokenBreak, TokenContinue, TokenDiscard:
			return
		}
		p.advance()
	}
}

// declaration parses one top level item.
func (p *Parser) declaration() astDeclaration {
	t := p.peek()
	switch t.Kind {
	case TokenDirective:
		return p.directive()
	case TokenAt:
		if p.peekNext().Kind == TokenIdent {
			return p.section()
		}
	case TokenEnum:
		return p.enumDeclaration()
	case TokenSemicolon:
		p.advance()
		return nil
	}

	modifiers := p.modifiers()

	if p.check(TokenSemicolon) {
		pos := p.advance().Offset
		return &astModifiersDeclaration{pos: pos, modifiers: modifiers}
	}

	if p.check(TokenStruct) {
		return p.structVarDeclaration(modifiers)
	}

	// "name {" opens an interface block.
	if p.check(TokenIdent) && p.peekNext().Kind == TokenLeftBrace {
		return p.interfaceBlock(modifiers)
	}

	baseType, ok := p.typeSpecifier()
	if !ok {
		p.synchronize()
		return nil
	}

	name, ok := p.expect(TokenIdent, "an identifier")
	if !ok {
		p.synchronize()
		return nil
	}

	if p.check(TokenLeftParen) {
		return p.functionDeclaration(modifiers, baseType, name)
	}
	return p.varDeclarationsTail(modifiers, baseType, name)
}

// directive handles '#' lines: #version is ignored, #extension becomes
// a declaration, anything else is an error.
func (p *Parser) directive() astDeclaration {
	t := p.advance()
	text := strings.TrimSpace(t.Lexeme)
	if strings.HasPrefix(text, "#version") {
		return nil
	}
	if strings.HasPrefix(text, "#extension") {
		rest := strings.TrimSpace(strings.TrimPrefix(text, "#extension"))
		name := rest
		if i := strings.IndexAny(rest, " \t:"); i >= 0 {
			name = rest[:i]
		}
		if name == "" {
			p.reporter.error(t.Offset, "expected an identifier")
			return nil
		}
		return &astExtension{pos: t.Offset, name: name}
	}
	p.reporter.errorf(t.Offset, "unsupported directive '%s'", text)
	return nil
}

// section parses "@name" or "@name(argument)" followed by a balanced
// brace block, captured verbatim.
func (p *Parser) section() astDeclaration {
	at := p.advance()
	name, ok := p.expect(TokenIdent, "an identifier")
	if !ok {
		p.synchronize()
		return nil
	}
	argument := ""
	if p.match(TokenLeftParen) {
		arg, ok := p.expect(TokenIdent, "an identifier")
		if !ok {
			p.synchronize()
			return nil
		}
		argument = arg.Lexeme
		if _, ok := p.expect(TokenRightParen, "')'"); !ok {
			p.synchronize()
			return nil
		}
	}
	open, ok := p.expect(TokenLeftBrace, "'{'")
	if !ok {
		p.synchronize()
		return nil
	}
	depth := 1
	var close Token
	for depth > 0 {
		if p.check(TokenEOF) {
			p.reporter.error(open.Offset, "expected '}'")
			return nil
		}
		t := p.advance()
		switch t.Kind {
		case TokenLeftBrace:
			depth++
		case TokenRightBrace:
			depth--
			close = t
		}
	}
	text := p.source[open.Offset+1 : close.Offset]
	return &astSection{pos: at.Offset, name: name.Lexeme, argument: argument, text: text}
}

// enumDeclaration parses "enum class Name { A, B = 2, ... };".
func (p *Parser) enumDeclaration() astDeclaration {
	start := p.advance()
	if _, ok := p.expect(TokenClass, "'class'"); !ok {
		p.synchronize()
		return nil
	}
	name, ok := p.expect(TokenIdent, "an identifier")
	if !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(TokenLeftBrace, "'{'"); !ok {
		p.synchronize()
		return nil
	}
	e := &astEnum{pos: start.Offset, typeName: name.Lexeme}
	for !p.check(TokenRightBrace) {
		vname, ok := p.expect(TokenIdent, "an identifier")
		if !ok {
			p.synchronize()
			return nil
		}
		value := astEnumValue{pos: vname.Offset, name: vname.Lexeme}
		if p.match(TokenEqual) {
			expr := p.assignmentExpression()
			if expr == nil {
				p.synchronize()
				return nil
			}
			value.value = expr
		}
		e.values = append(e.values, value)
		if !p.match(TokenComma) {
			break
		}
	}
	if _, ok := p.expect(TokenRightBrace, "'}'"); !ok {
		p.synchronize()
		return nil
	}
	p.expect(TokenSemicolon, "';'")
	return e
}

// modifiers parses an optional layout block followed by any run of
// qualifier keywords.
func (p *Parser) modifiers() ir.Modifiers {
	m := ir.Modifiers{Layout: ir.DefaultLayout()}
	if p.check(TokenLayout) {
		m.Layout = p.layout()
	}
	for {
		var flag ir.ModifierFlag
		switch p.peek().Kind {
		case TokenUniform:
			flag = ir.FlagUniform
		case TokenConst:
			flag = ir.FlagConst
		case TokenIn:
			flag = ir.FlagIn
		case TokenOut:
			flag = ir.FlagOut
		case TokenInOut:
			flag = ir.FlagIn | ir.FlagOut
		case TokenFlat:
			flag = ir.FlagFlat
		case TokenVarying:
			flag = ir.FlagVarying
		case TokenNoPerspective:
			flag = ir.FlagNoPerspective
		case TokenReadOnly:
			flag = ir.FlagReadOnly
		case TokenWriteOnly:
			flag = ir.FlagWriteOnly
		case TokenCoherent:
			flag = ir.FlagCoherent
		case TokenVolatile:
			flag = ir.FlagVolatile
		case TokenRestrict:
			flag = ir.FlagRestrict
		case TokenBuffer:
			flag = ir.FlagBuffer
		case TokenHasSideEffects:
			flag = ir.FlagHasSideEffects
		case TokenLowp:
			flag = ir.FlagLowp
		case TokenMediump:
			flag = ir.FlagMediump
		case TokenHighp:
			flag = ir.FlagHighp
		case TokenPLS:
			flag = ir.FlagPLS
		case TokenPLSIn:
			flag = ir.FlagPLSIn
		case TokenPLSOut:
			flag = ir.FlagPLSOut
		default:
			return m
		}
		t := p.advance()
		if m.Flags&flag == flag && flag != ir.FlagIn|ir.FlagOut {
			p.reporter.errorf(t.Offset, "duplicate modifier '%s'", t.Lexeme)
		}
		m.Flags |= flag
	}
}

// layout parses "layout ( key [= value] , ... )".
func (p *Parser) layout() ir.Layout {
	l := ir.DefaultLayout()
	p.advance()
	if _, ok := p.expect(TokenLeftParen, "'('"); !ok {
		return l
	}
	for {
		name, ok := p.expect(TokenIdent, "a layout qualifier")
		if !ok {
			break
		}
		switch name.Lexeme {
		case "location":
			l.Location = p.layoutInt()
		case "offset":
			l.Offset = p.layoutInt()
		case "binding":
			l.Binding = p.layoutInt()
		case "index":
			l.Index = p.layoutInt()
		case "set":
			l.Set = p.layoutInt()
		case "builtin":
			l.Builtin = p.layoutInt()
		case "input_attachment_index":
			l.InputAttachmentIndex = p.layoutInt()
		case "origin_upper_left":
			l.OriginUpperLeft = true
		case "override_coverage":
			l.OverrideCoverage = true
		case "blend_support_all_equations":
			l.BlendSupportAllEquations = true
		case "push_constant":
			l.PushConstant = true
		case "points", "lines", "line_strip", "lines_adjacency",
			"triangles", "triangle_strip", "triangles_adjacency":
			l.Primitive = name.Lexeme
		case "max_vertices":
			l.MaxVertices = p.layoutInt()
		case "invocations":
			l.Invocations = p.layoutInt()
		case "when":
			l.When = p.layoutString()
		case "key":
			l.Key = true
		case "ctype":
			l.CType = p.layoutString()
		case "tracked":
			l.Tracked = true
		case "marker":
			l.Marker = p.layoutString()
		case "srgb_unpremul":
			l.SRGBUnpremul = true
		default:
			p.reporter.errorf(name.Offset, "'%s' is not a valid layout qualifier", name.Lexeme)
		}
		if !p.match(TokenComma) {
			break
		}
	}
	p.expect(TokenRightParen, "')'")
	return l
}

func (p *Parser) layoutInt() int {
	if _, ok := p.expect(TokenEqual, "'='"); !ok {
		return -1
	}
	t, ok := p.expect(TokenIntLiteral, "an integer")
	if !ok {
		return -1
	}
	v, err := strconv.ParseInt(t.Lexeme, 0, 64)
	if err != nil {
		p.reporter.errorf(t.Offset, "invalid integer '%s'", t.Lexeme)
		return -1
	}
	return int(v)
}

// layoutString captures the raw tokens of a when/ctype value up to the
// next top level comma or close paren.
func (p *Parser) layoutString() string {
	if _, ok := p.expect(TokenEqual, "'='"); !ok {
		return ""
	}
	start := p.peek().Offset
	end := start
	depth := 0
	for {
		t := p.peek()
		if t.Kind == TokenEOF {
			break
		}
		if depth == 0 && (t.Kind == TokenComma || t.Kind == TokenRightParen) {
			break
		}
		if t.Kind == TokenLeftParen {
			depth++
		}
		if t.Kind == TokenRightParen {
			depth--
		}
		end = t.Offset + len(t.Lexeme)
		p.advance()
	}
	return strings.TrimSpace(p.source[start:end])
}

// typeSpecifier parses a type name with an optional trailing '?'.
func (p *Parser) typeSpecifier() (astType, bool) {
	t, ok := p.expect(TokenIdent, "a type")
	if !ok {
		return astType{}, false
	}
	result := astType{pos: t.Offset, name: t.Lexeme}
	if p.match(TokenQuestion) {
		result.nullable = true
	}
	return result, true
}

// structVarDeclaration parses "struct Name { fields } [declarators];".
func (p *Parser) structVarDeclaration(modifiers ir.Modifiers) astDeclaration {
	s := p.structDefinition()
	if s == nil {
		return nil
	}
	decls := &astVarDeclarations{
		pos:       s.pos,
		modifiers: modifiers,
		baseType:  astType{pos: s.pos, name: s.name, structDef: s},
	}
	if p.check(TokenIdent) {
		name := p.advance()
		v, ok := p.varDeclarator(name)
		if !ok {
			return nil
		}
		decls.vars = append(decls.vars, v)
		for p.match(TokenComma) {
			name, ok := p.expect(TokenIdent, "an identifier")
			if !ok {
				p.synchronize()
				return decls
			}
			v, ok := p.varDeclarator(name)
			if !ok {
				return decls
			}
			decls.vars = append(decls.vars, v)
		}
	}
	p.expect(TokenSemicolon, "';'")
	return decls
}

func (p *Parser) structDefinition() *astStruct {
	start := p.advance()
	name, ok := p.expect(TokenIdent, "an identifier")
	if !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(TokenLeftBrace, "'{'"); !ok {
		p.synchronize()
		return nil
	}
	s := &astStruct{pos: start.Offset, name: name.Lexeme}
	for !p.check(TokenRightBrace) && !p.check(TokenEOF) {
		modifiers := p.modifiers()
		fieldType, ok := p.typeSpecifier()
		if !ok {
			p.synchronize()
			return nil
		}
		fieldName, ok := p.expect(TokenIdent, "an identifier")
		if !ok {
			p.synchronize()
			return nil
		}
		field := p.varDeclarationsTail(modifiers, fieldType, fieldName)
		if field == nil {
			return nil
		}
		s.fields = append(s.fields, *field)
	}
	p.expect(TokenRightBrace, "'}'")
	return s
}

// interfaceBlock parses "Modifiers TypeName { declarations } [instance
// [sizes]];".
func (p *Parser) interfaceBlock(modifiers ir.Modifiers) astDeclaration {
	name := p.advance()
	p.advance() // '{'
	block := &astInterfaceBlock{pos: name.Offset, modifiers: modifiers, typeName: name.Lexeme}
	for !p.check(TokenRightBrace) && !p.check(TokenEOF) {
		fieldModifiers := p.modifiers()
		fieldType, ok := p.typeSpecifier()
		if !ok {
			p.synchronize()
			return nil
		}
		fieldName, ok := p.expect(TokenIdent, "an identifier")
		if !ok {
			p.synchronize()
			return nil
		}
		decls := p.varDeclarationsTail(fieldModifiers, fieldType, fieldName)
		if decls == nil {
			return nil
		}
		block.declarations = append(block.declarations, *decls)
	}
	p.expect(TokenRightBrace, "'}'")
	if p.check(TokenIdent) {
		instance := p.advance()
		block.instanceName = instance.Lexeme
		for p.match(TokenLeftBracket) {
			if p.match(TokenRightBracket) {
				block.sizes = append(block.sizes, nil)
				continue
			}
			size := p.expression()
			if size == nil {
				p.synchronize()
				return block
			}
			block.sizes = append(block.sizes, size)
			p.expect(TokenRightBracket, "']'")
		}
	}
	p.expect(TokenSemicolon, "';'")
	return block
}

// functionDeclaration parses the parameter list and body (or prototype
// semicolon) after "returnType name".
func (p *Parser) functionDeclaration(modifiers ir.Modifiers, returnType astType, name Token) astDeclaration {
	p.advance() // '('
	fn := &astFunction{
		pos:        name.Offset,
		modifiers:  modifiers,
		returnType: returnType,
		name:       name.Lexeme,
	}
	if !p.check(TokenRightParen) {
		for {
			param, ok := p.parameter()
			if !ok {
				p.synchronize()
				return nil
			}
			fn.parameters = append(fn.parameters, param)
			if !p.match(TokenComma) {
				break
			}
		}
	}
	if _, ok := p.expect(TokenRightParen, "')'"); !ok {
		p.synchronize()
		return nil
	}
	if p.match(TokenSemicolon) {
		return fn
	}
	body := p.block()
	if body == nil {
		return nil
	}
	fn.body = body
	return fn
}

func (p *Parser) parameter() (astParameter, bool) {
	modifiers := p.modifiers()
	paramType, ok := p.typeSpecifier()
	if !ok {
		return astParameter{}, false
	}
	name, ok := p.expect(TokenIdent, "an identifier")
	if !ok {
		return astParameter{}, false
	}
	param := astParameter{
		pos:       paramType.pos,
		modifiers: modifiers,
		paramType: paramType,
		name:      name.Lexeme,
	}
	for p.match(TokenLeftBracket) {
		size := p.expression()
		if size == nil {
			return astParameter{}, false
		}
		param.sizes = append(param.sizes, size)
		if _, ok := p.expect(TokenRightBracket, "']'"); !ok {
			return astParameter{}, false
		}
	}
	return param, true
}

// varDeclarationsTail parses the declarators of a variable declaration,
// with the first name already consumed.
func (p *Parser) varDeclarationsTail(modifiers ir.Modifiers, baseType astType, name Token) *astVarDeclarations {
	decls := &astVarDeclarations{
		pos:       baseType.pos,
		modifiers: modifiers,
		baseType:  baseType,
	}
	v, ok := p.varDeclarator(name)
	if !ok {
		p.synchronize()
		return nil
	}
	decls.vars = append(decls.vars, v)
	for p.match(TokenComma) {
		name, ok := p.expect(TokenIdent, "an identifier")
		if !ok {
			p.synchronize()
			return nil
		}
		v, ok := p.varDeclarator(name)
		if !ok {
			p.synchronize()
			return nil
		}
		decls.vars = append(decls.vars, v)
	}
	p.expect(TokenSemicolon, "';'")
	return decls
}

func (p *Parser) varDeclarator(name Token) (astVarDeclaration, bool) {
	v := astVarDeclaration{pos: name.Offset, name: name.Lexeme}
	for p.match(TokenLeftBracket) {
		if p.match(TokenRightBracket) {
			v.sizes = append(v.sizes, nil)
			continue
		}
		size := p.expression()
		if size == nil {
			return v, false
		}
		v.sizes = append(v.sizes, size)
		if _, ok := p.expect(TokenRightBracket, "']'"); !ok {
			return v, false
		}
	}
	if p.match(TokenEqual) {
		value := p.assignmentExpression()
		if value == nil {
			return v, false
		}
		v.value = value
	}
	return v, true
}

// Statements.

func (p *Parser) block() *astBlock {
	open, ok := p.expect(TokenLeftBrace, "'{'")
	if !ok {
		return nil
	}
	b := &astBlock{pos: open.Offset}
	for !p.check(TokenRightBrace) {
		if p.check(TokenEOF) {
			p.reporter.error(open.Offset, "expected '}', but found end of file")
			return nil
		}
		start := p.pos
		if s := p.statement(); s != nil {
			b.statements = append(b.statements, s)
		}
		if p.pos == start {
			p.advance()
		}
	}
	p.advance()
	return b
}

func (p *Parser) statement() astStatement {
	switch p.peek().Kind {
	case TokenLeftBrace:
		if b := p.block(); b != nil {
			return b
		}
		return nil
	case TokenIf:
		return p.ifStatement(false)
	case TokenFor:
		return p.forStatement()
	case TokenWhile:
		return p.whileStatement()
	case TokenDo:
		return p.doStatement()
	case TokenSwitch:
		return p.switchStatement(false)
	case TokenReturn:
		t := p.advance()
		s := &astReturn{pos: t.Offset}
		if !p.check(TokenSemicolon) {
			s.value = p.expression()
			if s.value == nil {
				p.synchronize()
				return nil
			}
		}
		p.expect(TokenSemicolon, "';'")
		return s
	case TokenBreak:
		t := p.advance()
		p.expect(TokenSemicolon, "';'")
		return &astBreak{pos: t.Offset}
	case TokenContinue:
		t := p.advance()
		p.expect(TokenSemicolon, "';'")
		return &astContinue{pos: t.Offset}
	case TokenDiscard:
		t := p.advance()
		p.expect(TokenSemicolon, "';'")
		return &astDiscard{pos: t.Offset}
	case TokenSemicolon:
		p.advance()
		return nil
	case TokenAt:
		switch p.peekNext().Kind {
		case TokenIf:
			p.advance()
			return p.ifStatement(true)
		case TokenSwitch:
			p.advance()
			return p.switchStatement(true)
		}
		t := p.advance()
		p.reporter.error(t.Offset, "expected 'if' or 'switch' after '@'")
		p.synchronize()
		return nil
	}
	return p.varDeclarationOrExpressionStatement()
}

// varDeclarationOrExpressionStatement disambiguates "type name ..." from
// a plain expression by looking two tokens ahead.
func (p *Parser) varDeclarationOrExpressionStatement() astStatement {
	if p.isVarDeclarationStart() {
		modifiers := p.modifiers()
		if p.check(TokenStruct) {
			if d := p.structVarDeclaration(modifiers); d != nil {
				return d.(*astVarDeclarations)
			}
			return nil
		}
		baseType, ok := p.typeSpecifier()
		if !ok {
			p.synchronize()
			return nil
		}
		name, ok := p.expect(TokenIdent, "an identifier")
		if !ok {
			p.synchronize()
			return nil
		}
		return p.varDeclarationsTail(modifiers, baseType, name)
	}
	expr := p.expression()
	if expr == nil {
		p.synchronize()
		return nil
	}
	p.expect(TokenSemicolon, "';'")
	return &astExpressionStatement{expr: expr}
}

func (p *Parser) isVarDeclarationStart() bool {
	switch p.peek().Kind {
	case TokenConst, TokenUniform, TokenIn, TokenOut, TokenInOut, TokenFlat,
		TokenVarying, TokenNoPerspective, TokenLowp, TokenMediump, TokenHighp,
		TokenLayout, TokenStruct, TokenReadOnly, TokenWriteOnly, TokenCoherent,
		TokenVolatile, TokenRestrict, TokenBuffer:
		return true
	case TokenIdent:
		next := p.peekNext().Kind
		return next == TokenIdent || next == TokenQuestion
	}
	return false
}

func (p *Parser) ifStatement(isStatic bool) astStatement {
	start := p.advance()
	if _, ok := p.expect(TokenLeftParen, "'('"); !ok {
		p.synchronize()
		return nil
	}
	test := p.expression()
	if test == nil {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(TokenRightParen, "')'"); !ok {
		p.synchronize()
		return nil
	}
	ifTrue := p.statement()
	if ifTrue == nil {
		return nil
	}
	s := &astIf{pos: start.Offset, isStatic: isStatic, test: test, ifTrue: ifTrue}
	if p.match(TokenElse) {
		s.ifFalse = p.statement()
		if s.ifFalse == nil {
			return nil
		}
	}
	return s
}

func (p *Parser) forStatement() astStatement {
	start := p.advance()
	if _, ok := p.expect(TokenLeftParen, "'('"); !ok {
		p.synchronize()
		return nil
	}
	s := &astFor{pos: start.Offset}
	if !p.match(TokenSemicolon) {
		s.initializer = p.varDeclarationOrExpressionStatement()
		if s.initializer == nil {
			return nil
		}
	}
	if !p.check(TokenSemicolon) {
		s.test = p.expression()
		if s.test == nil {
			p.synchronize()
			return nil
		}
	}
	if _, ok := p.expect(TokenSemicolon, "';'"); !ok {
		p.synchronize()
		return nil
	}
	if !p.check(TokenRightParen) {
		s.next = p.expression()
		if s.next == nil {
			p.synchronize()
			return nil
		}
	}
	if _, ok := p.expect(TokenRightParen, "')'"); !ok {
		p.synchronize()
		return nil
	}
	s.body = p.statement()
	if s.body == nil {
		return nil
	}
	return s
}

func (p *Parser) whileStatement() astStatement {
	start := p.advance()
	if _, ok := p.expect(TokenLeftParen, "'('"); !ok {
		p.synchronize()
		return nil
	}
	test := p.expression()
	if test == nil {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(TokenRightParen, "')'"); !ok {
		p.synchronize()
		return nil
	}
	body := p.statement()
	if body == nil {
		return nil
	}
	return &astWhile{pos: start.Offset, test: test, body: body}
}

func (p *Parser) doStatement() astStatement {
	start := p.advance()
	body := p.statement()
	if body == nil {
		return nil
	}
	if _, ok := p.expect(TokenWhile, "'while'"); !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(TokenLeftParen, "'('"); !ok {
		p.synchronize()
		return nil
	}
	test := p.expression()
	if test == nil {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(TokenRightParen, "')'"); !ok {
		p.synchronize()
		return nil
	}
	p.expect(TokenSemicolon, "';'")
	return &astDo{pos: start.Offset, body: body, test: test}
}

func (p *Parser) switchStatement(isStatic bool) astStatement {
	start := p.advance()
	if _, ok := p.expect(TokenLeftParen, "'('"); !ok {
		p.synchronize()
		return nil
	}
	value := p.expression()
	if value == nil {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(TokenRightParen, "')'"); !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(TokenLeftBrace, "'{'"); !ok {
		p.synchronize()
		return nil
	}
	s := &astSwitch{pos: start.Offset, isStatic: isStatic, value: value}
	sawDefault := false
	for !p.check(TokenRightBrace) && !p.check(TokenEOF) {
		var c astSwitchCase
		if p.check(TokenCase) {
			t := p.advance()
			c.pos = t.Offset
			c.value = p.expression()
			if c.value == nil {
				p.synchronize()
				return nil
			}
		} else if p.check(TokenDefault) {
			t := p.advance()
			if sawDefault {
				p.reporter.error(t.Offset, "multiple default cases")
			}
			sawDefault = true
			c.pos = t.Offset
		} else {
			t := p.peek()
			p.reporter.errorf(t.Offset, "expected 'case' or 'default', but found '%s'", t.Lexeme)
			p.synchronize()
			return nil
		}
		if _, ok := p.expect(TokenColon, "':'"); !ok {
			p.synchronize()
			return nil
		}
		for !p.check(TokenCase) && !p.check(TokenDefault) &&
			!p.check(TokenRightBrace) && !p.check(TokenEOF) {
			start := p.pos
			if st := p.statement(); st != nil {
				c.statements = append(c.statements, st)
			}
			if p.pos == start {
				p.advance()
			}
		}
		s.cases = append(s.cases, c)
	}
	p.expect(TokenRightBrace, "'}'")
	return s
}

// Expressions, in precedence order.

func (p *Parser) expression() astExpression {
	left := p.assignmentExpression()
	if left == nil {
		return nil
	}
	for p.check(TokenComma) {
		op := p.advance()
		right := p.assignmentExpression()
		if right == nil {
			return nil
		}
		left = &astBinary{pos: op.Offset, left: left, op: TokenComma, right: right}
	}
	return left
}

func (p *Parser) assignmentExpression() astExpression {
	left := p.ternaryExpression()
	if left == nil {
		return nil
	}
	switch p.peek().Kind {
	case TokenEqual, TokenPlusEqual, TokenMinusEqual, TokenStarEqual,
		TokenSlashEqual, TokenPercentEqual, TokenShlEqual, TokenShrEqual,
		TokenAmpEqual, TokenPipeEqual, TokenCaretEqual,
		TokenAmpAmpEqual, TokenPipePipeEqual, TokenCaretCaretEqual:
		op := p.advance()
		right := p.assignmentExpression()
		if right == nil {
			return nil
		}
		return &astBinary{pos: op.Offset, left: left, op: op.Kind, right: right}
	}
	return left
}

func (p *Parser) ternaryExpression() astExpression {
	test := p.logicalOrExpression()
	if test == nil {
		return nil
	}
	if !p.check(TokenQuestion) {
		return test
	}
	q := p.advance()
	ifTrue := p.ternaryExpression()
	if ifTrue == nil {
		return nil
	}
	if _, ok := p.expect(TokenColon, "':'"); !ok {
		return nil
	}
	ifFalse := p.assignmentExpression()
	if ifFalse == nil {
		return nil
	}
	return &astTernary{pos: q.Offset, test: test, ifTrue: ifTrue, ifFalse: ifFalse}
}

// binaryLevel builds one precedence level of left associative binary
// operators.
func (p *Parser) binaryLevel(next func() astExpression, kinds ...TokenKind) astExpression {
	left := next()
	if left == nil {
		return nil
	}
	for {
		matched := false
		for _, k := range kinds {
			if p.check(k) {
				op := p.advance()
				right := next()
				if right == nil {
					return nil
				}
				left = &astBinary{pos: op.Offset, left: left, op: k, right: right}
				matched = true
				break
			}
		}
		if !matched {
			return left
		}
	}
}

func (p *Parser) logicalOrExpression() astExpression {
	return p.binaryLevel(p.logicalXorExpression, TokenPipePipe)
}

func (p *Parser) logicalXorExpression() astExpression {
	return p.binaryLevel(p.logicalAndExpression, TokenCaretCaret)
}

func (p *Parser) logicalAndExpression() astExpression {
	return p.binaryLevel(p.bitwiseOrExpression, TokenAmpAmp)
}

func (p *Parser) bitwiseOrExpression() astExpression {
	return p.binaryLevel(p.bitwiseXorExpression, TokenPipe)
}

func (p *Parser) bitwiseXorExpression() astExpression {
	return p.binaryLevel(p.bitwiseAndExpression, TokenCaret)
}

func (p *Parser) bitwiseAndExpression() astExpression {
	return p.binaryLevel(p.equalityExpression, TokenAmpersand)
}

func (p *Parser) equalityExpression() astExpression {
	return p.binaryLevel(p.relationalExpression, TokenEqualEqual, TokenBangEqual)
}

func (p *Parser) relationalExpression() astExpression {
	return p.binaryLevel(p.shiftExpression, TokenLess, TokenGreater, TokenLessEqual, TokenGreaterEqual)
}

func (p *Parser) shiftExpression() astExpression {
	return p.binaryLevel(p.additiveExpression, TokenShl, TokenShr)
}

func (p *Parser) additiveExpression() astExpression {
	return p.binaryLevel(p.multiplicativeExpression, TokenPlus, TokenMinus)
}

func (p *Parser) multiplicativeExpression() astExpression {
	return p.binaryLevel(p.unaryExpression, TokenStar, TokenSlash, TokenPercent)
}

func (p *Parser) unaryExpression() astExpression {
	switch p.peek().Kind {
	case TokenPlus, TokenMinus, TokenBang, TokenTilde, TokenPlusPlus, TokenMinusMinus:
		op := p.advance()
		operand := p.unaryExpression()
		if operand == nil {
			return nil
		}
		return &astPrefix{pos: op.Offset, op: op.Kind, operand: operand}
	}
	return p.postfixExpression()
}

func (p *Parser) postfixExpression() astExpression {
	expr := p.primaryExpression()
	if expr == nil {
		return nil
	}
	for {
		switch p.peek().Kind {
		case TokenLeftBracket:
			open := p.advance()
			if p.match(TokenRightBracket) {
				expr = &astIndex{pos: open.Offset, base: expr}
				continue
			}
			index := p.expression()
			if index == nil {
				return nil
			}
			if _, ok := p.expect(TokenRightBracket, "']'"); !ok {
				return nil
			}
			expr = &astIndex{pos: open.Offset, base: expr, index: index}
		case TokenDot:
			dot := p.advance()
			name, ok := p.expect(TokenIdent, "an identifier")
			if !ok {
				return nil
			}
			expr = &astField{pos: dot.Offset, base: expr, field: name.Lexeme}
		case TokenLeftParen:
			open := p.advance()
			call := &astCall{pos: open.Offset, base: expr}
			if !p.check(TokenRightParen) {
				for {
					arg := p.assignmentExpression()
					if arg == nil {
						return nil
					}
					call.args = append(call.args, arg)
					if !p.match(TokenComma) {
						break
					}
				}
			}
			if _, ok := p.expect(TokenRightParen, "')'"); !ok {
				return nil
			}
			expr = call
		case TokenPlusPlus, TokenMinusMinus:
			op := p.advance()
			expr = &astPostfix{pos: op.Offset, operand: expr, op: op.Kind}
		default:
			return expr
		}
	}
}

func (p *Parser) primaryExpression() astExpression {
	t := p.peek()
	switch t.Kind {
	case TokenIdent:
		p.advance()
		return &astIdentifier{pos: t.Offset, name: t.Lexeme}
	case TokenIntLiteral:
		p.advance()
		v, err := strconv.ParseUint(t.Lexeme, 0, 64)
		if err != nil {
			p.reporter.errorf(t.Offset, "integer is too large: %s", t.Lexeme)
			return nil
		}
		return &astIntLiteral{pos: t.Offset, value: int64(v)}
	case TokenFloatLiteral:
		p.advance()
		v, err := strconv.ParseFloat(t.Lexeme, 64)
		if err != nil {
			p.reporter.errorf(t.Offset, "invalid float literal: %s", t.Lexeme)
			return nil
		}
		return &astFloatLiteral{pos: t.Offset, value: v}
	case TokenTrue:
		p.advance()
		return &astBoolLiteral{pos: t.Offset, value: true}
	case TokenFalse:
		p.advance()
		return &astBoolLiteral{pos: t.Offset, value: false}
	case TokenNull:
		p.advance()
		return &astNullLiteral{pos: t.Offset}
	case TokenLeftParen:
		p.advance()
		expr := p.expression()
		if expr == nil {
			return nil
		}
		if _, ok := p.expect(TokenRightParen, "')'"); !ok {
			return nil
		}
		return expr
	}
	p.reporter.errorf(t.Offset, "expected an expression, but found '%s'", t.Lexeme)
	return nil
}

package sksl

import (
	"github.com/gogpu/sksl/ir"
)

// convertStatement converts one statement, splicing in any synthesized
// statements (inliner temporaries, swizzle scratch) in front of it.
func (g *generator) convertStatement(stmt astStatement) ir.Statement {
	oldExtra := g.extraStatements
	g.extraStatements = nil
	converted := g.convertStatementInner(stmt)
	extra := g.extraStatements
	g.extraStatements = oldExtra
	if converted == nil {
		return nil
	}
	if len(extra) > 0 {
		extra = append(extra, converted)
		return &ir.Block{Pos: converted.Offset(), Statements: extra, Symbols: g.symbols, IsScope: false}
	}
	return converted
}

func (g *generator) convertStatementInner(stmt astStatement) ir.Statement {
	switch s := stmt.(type) {
	case *astBlock:
		return g.convertBlock(s)
	case *astVarDeclarations:
		decls := g.convertVarDeclarations(s, ir.StorageLocal)
		if decls == nil {
			return nil
		}
		return decls
	case *astExpressionStatement:
		return g.convertExpressionStatement(s)
	case *astIf:
		return g.convertIf(s)
	case *astFor:
		return g.convertFor(s)
	case *astWhile:
		return g.convertWhile(s)
	case *astDo:
		return g.convertDo(s)
	case *astSwitch:
		return g.convertSwitch(s)
	case *astReturn:
		return g.convertReturn(s)
	case *astBreak:
		if g.loopLevel == 0 && g.switchLevel == 0 {
			g.reporter.error(s.pos, "break statement must be inside a loop or switch")
			return nil
		}
		return &ir.BreakStatement{Pos: s.pos}
	case *astContinue:
		if g.loopLevel == 0 {
			g.reporter.error(s.pos, "continue statement must be inside a loop")
			return nil
		}
		return &ir.ContinueStatement{Pos: s.pos}
	case *astDiscard:
		if g.kind != ir.KindFragment && g.kind != ir.KindFragmentProcessor {
			g.reporter.error(s.pos, "discard statement is only permitted within fragment shaders")
			return nil
		}
		return &ir.DiscardStatement{Pos: s.pos}
	}
	panic("unsupported statement")
}

// ensureScopedBlock marks a control statement body as a scope when it
// is a block that would otherwise have no textual representation: a
// statement splice can produce unscoped blocks with zero or many
// statements, and those must not absorb the statement that follows or
// leak declarations outward. Nested single-statement blocks are walked
// through; the outermost block gets the scope.
func ensureScopedBlock(stmt ir.Statement) {
	block, ok := stmt.(*ir.Block)
	if !ok {
		return
	}
	for nested := block; ; {
		if nested.IsScope {
			return
		}
		if len(nested.Statements) != 1 {
			block.IsScope = true
			return
		}
		inner, ok := nested.Statements[0].(*ir.Block)
		if !ok {
			return
		}
		nested = inner
	}
}

func (g *generator) convertBlock(b *astBlock) ir.Statement {
	g.pushSymbols()
	defer g.popSymbols()
	block := &ir.Block{Pos: b.pos, Symbols: g.symbols, IsScope: true}
	for _, stmt := range b.statements {
		converted := g.convertStatement(stmt)
		if converted == nil {
			return nil
		}
		block.Statements = append(block.Statements, converted)
	}
	return block
}

func (g *generator) convertExpressionStatement(s *astExpressionStatement) ir.Statement {
	expr := g.convertValueExpression(s.expr)
	if expr == nil {
		return nil
	}
	return &ir.ExpressionStatement{Expr: expr}
}

// convertIf folds a constant test away entirely; @if demands one.
func (g *generator) convertIf(s *astIf) ir.Statement {
	test := g.convertValueExpression(s.test)
	if test == nil {
		return nil
	}
	test = g.coerce(test, g.context.Bool)
	if test == nil {
		return nil
	}
	ifTrue := g.convertStatement(s.ifTrue)
	if ifTrue == nil {
		return nil
	}
	ensureScopedBlock(ifTrue)
	var ifFalse ir.Statement
	if s.ifFalse != nil {
		ifFalse = g.convertStatement(s.ifFalse)
		if ifFalse == nil {
			return nil
		}
		ensureScopedBlock(ifFalse)
	}
	// Capability reads carry their value; branch on it directly.
	folded := test
	if setting, ok := folded.(*ir.Setting); ok {
		folded = setting.Value
	}
	if lit, ok := folded.(*ir.BoolLiteral); ok {
		if lit.Value {
			return ifTrue
		}
		if ifFalse != nil {
			return ifFalse
		}
		return &ir.Nop{Pos: s.pos}
	}
	if s.isStatic {
		g.reporter.error(s.pos, "static if has non-static test")
		return nil
	}
	return &ir.IfStatement{Pos: s.pos, IsStatic: s.isStatic, Test: test, IfTrue: ifTrue, IfFalse: ifFalse}
}

func (g *generator) convertFor(s *astFor) ir.Statement {
	g.pushSymbols()
	defer g.popSymbols()
	symbols := g.symbols

	var initializer ir.Statement
	if s.initializer != nil {
		initializer = g.convertStatement(s.initializer)
		if initializer == nil {
			return nil
		}
	}
	var test ir.Expression
	if s.test != nil {
		test = g.convertLoopExpression(s.test)
		if test == nil {
			return nil
		}
		test = g.coerce(test, g.context.Bool)
		if test == nil {
			return nil
		}
	}
	var next ir.Expression
	if s.next != nil {
		next = g.convertLoopExpression(s.next)
		if next == nil {
			return nil
		}
		if !g.checkValid(next) {
			return nil
		}
	}
	g.loopLevel++
	body := g.convertStatement(s.body)
	g.loopLevel--
	if body == nil {
		return nil
	}
	ensureScopedBlock(body)
	return &ir.ForStatement{Pos: s.pos, Initializer: initializer, Test: test, Next: next, Body: body, Symbols: symbols}
}

// convertLoopExpression converts a loop test or increment, which
// re-evaluate each iteration and so cannot host hoisted temporaries.
func (g *generator) convertLoopExpression(expr astExpression) ir.Expression {
	return g.convertNoInline(expr)
}

func (g *generator) convertWhile(s *astWhile) ir.Statement {
	test := g.convertLoopExpression(s.test)
	if test == nil {
		return nil
	}
	test = g.coerce(test, g.context.Bool)
	if test == nil {
		return nil
	}
	g.loopLevel++
	body := g.convertStatement(s.body)
	g.loopLevel--
	if body == nil {
		return nil
	}
	ensureScopedBlock(body)
	return &ir.WhileStatement{Pos: s.pos, Test: test, Body: body}
}

func (g *generator) convertDo(s *astDo) ir.Statement {
	g.loopLevel++
	body := g.convertStatement(s.body)
	g.loopLevel--
	if body == nil {
		return nil
	}
	ensureScopedBlock(body)
	test := g.convertLoopExpression(s.test)
	if test == nil {
		return nil
	}
	test = g.coerce(test, g.context.Bool)
	if test == nil {
		return nil
	}
	return &ir.DoStatement{Pos: s.pos, Body: body, Test: test}
}

func (g *generator) convertSwitch(s *astSwitch) ir.Statement {
	value := g.convertValueExpression(s.value)
	if value == nil {
		return nil
	}
	if !value.Type().IsInteger() && value.Type().Kind() != ir.KindEnum {
		g.reporter.errorf(s.pos, "expected integer expression, but found '%s'", value.Type().Name())
		return nil
	}
	if s.isStatic {
		if !value.IsCompileTimeConstant() {
			g.reporter.error(s.pos, "static switch has non-static test")
			return nil
		}
	}

	g.pushSymbols()
	defer g.popSymbols()
	symbols := g.symbols

	g.switchLevel++
	defer func() { g.switchLevel-- }()

	var cases []*ir.SwitchCase
	seen := make(map[int64]bool)
	for i := range s.cases {
		astCase := &s.cases[i]
		c := &ir.SwitchCase{Pos: astCase.pos}
		if astCase.value != nil {
			caseValue := g.convertValueExpression(astCase.value)
			if caseValue == nil {
				return nil
			}
			caseValue = g.coerce(caseValue, value.Type())
			if caseValue == nil {
				return nil
			}
			constant, ok := g.getConstantInt(caseValue)
			if !ok {
				return nil
			}
			if seen[constant] {
				g.reporter.errorf(astCase.pos, "duplicate case value")
				return nil
			}
			seen[constant] = true
			c.Value = caseValue
		}
		for _, stmt := range astCase.statements {
			converted := g.convertStatement(stmt)
			if converted == nil {
				return nil
			}
			c.Statements = append(c.Statements, converted)
		}
		cases = append(cases, c)
	}

	result := &ir.SwitchStatement{Pos: s.pos, IsStatic: s.isStatic, Value: value, Cases: cases, Symbols: symbols}
	if s.isStatic {
		if reduced := g.reduceStaticSwitch(result); reduced != nil {
			return reduced
		}
	}
	return result
}

// reduceStaticSwitch replaces a static switch whose value is known with
// the statements of the matching case. Reduction backs off when control
// flow is too tangled to flatten, leaving the switch intact.
func (g *generator) reduceStaticSwitch(s *ir.SwitchStatement) ir.Statement {
	value, ok := g.getConstantInt(s.Value)
	if !ok {
		return nil
	}
	matchIndex := -1
	defaultIndex := -1
	for i, c := range s.Cases {
		if c.Value == nil {
			defaultIndex = i
			continue
		}
		caseValue, ok := g.getConstantInt(c.Value)
		if !ok {
			return nil
		}
		if caseValue == value {
			matchIndex = i
			break
		}
	}
	if matchIndex < 0 {
		matchIndex = defaultIndex
	}
	if matchIndex < 0 {
		return &ir.Nop{Pos: s.Pos}
	}
	// Collect statements from the matching case, falling through until a
	// top level break.
	var statements []ir.Statement
	for i := matchIndex; i < len(s.Cases); i++ {
		for _, stmt := range s.Cases[i].Statements {
			if _, isBreak := stmt.(*ir.BreakStatement); isBreak {
				return &ir.Block{Pos: s.Pos, Statements: statements, Symbols: s.Symbols, IsScope: true}
			}
			if containsBreak(stmt) {
				// A conditional break can't be flattened.
				return nil
			}
			statements = append(statements, stmt)
		}
	}
	return &ir.Block{Pos: s.Pos, Statements: statements, Symbols: s.Symbols, IsScope: true}
}

// containsBreak reports whether a break lurks inside stmt, below a loop
// or nested switch boundary (which would capture it).
func containsBreak(stmt ir.Statement) bool {
	switch s := stmt.(type) {
	case *ir.BreakStatement:
		return true
	case *ir.Block:
		for _, inner := range s.Statements {
			if containsBreak(inner) {
				return true
			}
		}
	case *ir.IfStatement:
		if containsBreak(s.IfTrue) {
			return true
		}
		if s.IfFalse != nil && containsBreak(s.IfFalse) {
			return true
		}
	}
	return false
}

func (g *generator) convertReturn(s *astReturn) ir.Statement {
	returnType := g.currentFunction.ReturnType
	if s.value == nil {
		if !returnType.Equals(g.context.Void) {
			g.reporter.errorf(s.pos, "expected function to return '%s'", returnType.Name())
			return nil
		}
		return &ir.ReturnStatement{Pos: s.pos}
	}
	if returnType.Equals(g.context.Void) {
		g.reporter.error(s.pos, "may not return a value from a void function")
		return nil
	}
	value := g.convertValueExpression(s.value)
	if value == nil {
		return nil
	}
	value = g.coerce(value, returnType)
	if value == nil {
		return nil
	}
	return &ir.ReturnStatement{Pos: s.pos, Value: value}
}

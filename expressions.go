package sksl

import (
	"strings"

	"github.com/gogpu/sksl/ir"
)

// convertExpression converts an AST expression to IR. The result may be
// a bare type or function reference; callers that need a value go
// through convertValueExpression instead.
func (g *generator) convertExpression(expr astExpression) ir.Expression {
	switch e := expr.(type) {
	case *astIntLiteral:
		return ir.NewIntLiteral(g.context, e.pos, e.value)
	case *astFloatLiteral:
		return ir.NewFloatLiteral(g.context, e.pos, e.value)
	case *astBoolLiteral:
		return ir.NewBoolLiteral(g.context, e.pos, e.value)
	case *astNullLiteral:
		return ir.NewNullLiteral(g.context, e.pos)
	case *astIdentifier:
		return g.convertIdentifier(e.pos, e.name)
	case *astBinary:
		return g.convertBinaryExpression(e)
	case *astPrefix:
		return g.convertPrefixExpression(e)
	case *astPostfix:
		return g.convertPostfixExpression(e)
	case *astTernary:
		return g.convertTernaryExpression(e)
	case *astCall:
		return g.convertCallExpression(e)
	case *astIndex:
		return g.convertIndexExpression(e)
	case *astField:
		return g.convertFieldExpression(e)
	}
	panic("unsupported expression")
}

// convertValueExpression is convertExpression plus the check that the
// result is an actual value.
func (g *generator) convertValueExpression(expr astExpression) ir.Expression {
	converted := g.convertExpression(expr)
	if converted == nil || !g.checkValid(converted) {
		return nil
	}
	return converted
}

func (g *generator) identifierExpression(offset int, name string) ir.Expression {
	return g.convertIdentifier(offset, name)
}

func (g *generator) convertIdentifier(offset int, name string) ir.Expression {
	symbol := g.symbols.Lookup(name)
	switch s := symbol.(type) {
	case nil:
		g.reporter.errorf(offset, "unknown identifier '%s'", name)
		return nil
	case *ir.FunctionDeclaration:
		return ir.NewFunctionReference(g.context, offset, []*ir.FunctionDeclaration{s})
	case *ir.UnresolvedFunction:
		return ir.NewFunctionReference(g.context, offset, s.Functions)
	case *ir.Variable:
		switch s.Modifiers.Layout.Builtin {
		case builtinWidth:
			g.inputs.RTWidth = true
		case builtinHeight:
			g.inputs.RTHeight = true
		case builtinFragCoord, builtinClockwise:
			g.inputs.FlipY = true
			if g.settings.FlipY && (g.settings.Caps == nil || !g.settings.Caps.FragCoordConventions) {
				g.inputs.RTHeight = true
			}
		}
		return ir.NewVariableReference(offset, s, ir.RefRead)
	case *ir.FieldSymbol:
		base := ir.NewVariableReference(offset, s.Owner, ir.RefRead)
		return &ir.FieldAccess{Base: base, FieldIndex: s.FieldIndex, OwnerKind: ir.FieldOwnerAnonymousInterfaceBlock}
	case *ir.Type:
		return ir.NewTypeReference(g.context, offset, s)
	case *ir.ExternalValue:
		return &ir.ExternalValueReference{Pos: offset, Value: s}
	}
	g.reporter.errorf(offset, "unsupported symbol '%s'", name)
	return nil
}

// determineBinaryType computes the operand and result types for a
// binary operator, following GLSL's mixed scalar/vector/matrix rules.
func (g *generator) determineBinaryType(op ir.Operator, left, right *ir.Type) (leftType, rightType, resultType *ir.Type, ok bool) {
	return g.determineBinaryTypeFlip(op, left, right, true)
}

func (g *generator) determineBinaryTypeFlip(op ir.Operator, left, right *ir.Type, tryFlipped bool) (*ir.Type, *ir.Type, *ir.Type, bool) {
	ctx := g.context
	isLogical := false
	validMatrixOrVectorOp := false

	switch op {
	case ir.OpEq:
		return left, left, left, right.CanCoerceTo(left)
	case ir.OpEqEq, ir.OpNeq:
		if right.CanCoerceTo(left) {
			return left, left, ctx.Bool, true
		}
		if left.CanCoerceTo(right) {
			return right, right, ctx.Bool, true
		}
		return nil, nil, nil, false
	case ir.OpLt, ir.OpGt, ir.OpLtEq, ir.OpGtEq:
		isLogical = true
	case ir.OpLogicalOr, ir.OpLogicalAnd, ir.OpLogicalXor,
		ir.OpLogicalOrEq, ir.OpLogicalAndEq, ir.OpLogicalXorEq:
		ok := left.CanCoerceTo(ctx.Bool) && right.CanCoerceTo(ctx.Bool)
		return ctx.Bool, ctx.Bool, ctx.Bool, ok
	case ir.OpStar, ir.OpStarEq:
		if isMatrixMultiply(left, right) {
			return g.matrixMultiplyType(op, left, right)
		}
		validMatrixOrVectorOp = true
	case ir.OpPlus, ir.OpPlusEq, ir.OpMinus, ir.OpMinusEq, ir.OpSlash, ir.OpSlashEq:
		validMatrixOrVectorOp = true
	case ir.OpPercent, ir.OpPercentEq, ir.OpShl, ir.OpShlEq, ir.OpShr, ir.OpShrEq,
		ir.OpBitwiseAnd, ir.OpBitwiseAndEq, ir.OpBitwiseOr, ir.OpBitwiseOrEq,
		ir.OpBitwiseXor, ir.OpBitwiseXorEq:
		if !left.ComponentType().IsInteger() || !right.ComponentType().IsInteger() {
			return nil, nil, nil, false
		}
		validMatrixOrVectorOp = true
	case ir.OpComma:
		return left, right, right, true
	}

	isVectorOrMatrix := left.Kind() == ir.KindVector || left.Kind() == ir.KindMatrix

	if left.Kind() == ir.KindScalar && right.Kind() == ir.KindScalar && right.CanCoerceTo(left) {
		var operand *ir.Type
		if left.Priority() > right.Priority() {
			operand = left
		} else {
			operand = right
		}
		result := operand
		if isLogical {
			result = ctx.Bool
		}
		return operand, operand, result, true
	}

	if right.CanCoerceTo(left) && isVectorOrMatrix && validMatrixOrVectorOp {
		return left, left, left, true
	}

	// vector op scalar distributes the scalar across the components.
	if isVectorOrMatrix && right.Kind() == ir.KindScalar {
		lt, _, result, ok := g.determineBinaryTypeFlip(op, left.ComponentType(), right, false)
		if !ok {
			return nil, nil, nil, false
		}
		lt = lt.ToCompound(g.context, left.Columns(), left.Rows())
		if !isLogical {
			result = result.ToCompound(g.context, left.Columns(), left.Rows())
		}
		return lt, right, result, true
	}

	if tryFlipped {
		rt, lt, result, ok := g.determineBinaryTypeFlip(op, right, left, false)
		return lt, rt, result, ok
	}
	return nil, nil, nil, false
}

func isMatrixMultiply(left, right *ir.Type) bool {
	if left.Kind() == ir.KindMatrix {
		return right.Kind() == ir.KindMatrix || right.Kind() == ir.KindVector
	}
	return left.Kind() == ir.KindVector && right.Kind() == ir.KindMatrix
}

// matrixMultiplyType computes the operand and result shapes of a linear
// algebraic multiply, treating a right-hand vector as a column vector.
func (g *generator) matrixMultiplyType(op ir.Operator, left, right *ir.Type) (*ir.Type, *ir.Type, *ir.Type, bool) {
	_, _, result, ok := g.determineBinaryTypeFlip(ir.OpStar, left.ComponentType(), right.ComponentType(), false)
	if !ok {
		return nil, nil, nil, false
	}
	leftType := result.ToCompound(g.context, left.Columns(), left.Rows())
	rightType := result.ToCompound(g.context, right.Columns(), right.Rows())
	leftColumns, leftRows := left.Columns(), left.Rows()
	rightColumns, rightRows := right.Columns(), right.Rows()
	if right.Kind() == ir.KindVector {
		rightColumns, rightRows = rightRows, rightColumns
	}
	var resultType *ir.Type
	if rightColumns > 1 {
		resultType = result.ToCompound(g.context, rightColumns, leftRows)
	} else {
		resultType = result.ToCompound(g.context, leftRows, rightColumns)
	}
	if op == ir.OpStarEq && !resultType.Equals(left) {
		return nil, nil, nil, false
	}
	if leftColumns != rightRows {
		return nil, nil, nil, false
	}
	return leftType, rightType, resultType, true
}

func operatorForToken(kind TokenKind) ir.Operator {
	switch kind {
	case TokenPlus:
		return ir.OpPlus
	case TokenMinus:
		return ir.OpMinus
	case TokenStar:
		return ir.OpStar
	case TokenSlash:
		return ir.OpSlash
	case TokenPercent:
		return ir.OpPercent
	case TokenShl:
		return ir.OpShl
	case TokenShr:
		return ir.OpShr
	case TokenAmpAmp:
		return ir.OpLogicalAnd
	case TokenPipePipe:
		return ir.OpLogicalOr
	case TokenCaretCaret:
		return ir.OpLogicalXor
	case TokenBang:
		return ir.OpLogicalNot
	case TokenAmpersand:
		return ir.OpBitwiseAnd
	case TokenPipe:
		return ir.OpBitwiseOr
	case TokenCaret:
		return ir.OpBitwiseXor
	case TokenTilde:
		return ir.OpBitwiseNot
	case TokenEqual:
		return ir.OpEq
	case TokenEqualEqual:
		return ir.OpEqEq
	case TokenBangEqual:
		return ir.OpNeq
	case TokenLess:
		return ir.OpLt
	case TokenGreater:
		return ir.OpGt
	case TokenLessEqual:
		return ir.OpLtEq
	case TokenGreaterEqual:
		return ir.OpGtEq
	case TokenPlusEqual:
		return ir.OpPlusEq
	case TokenMinusEqual:
		return ir.OpMinusEq
	case TokenStarEqual:
		return ir.OpStarEq
	case TokenSlashEqual:
		return ir.OpSlashEq
	case TokenPercentEqual:
		return ir.OpPercentEq
	case TokenShlEqual:
		return ir.OpShlEq
	case TokenShrEqual:
		return ir.OpShrEq
	case TokenAmpEqual:
		return ir.OpBitwiseAndEq
	case TokenPipeEqual:
		return ir.OpBitwiseOrEq
	case TokenCaretEqual:
		return ir.OpBitwiseXorEq
	case TokenAmpAmpEqual:
		return ir.OpLogicalAndEq
	case TokenPipePipeEqual:
		return ir.OpLogicalOrEq
	case TokenCaretCaretEqual:
		return ir.OpLogicalXorEq
	case TokenPlusPlus:
		return ir.OpPlusPlus
	case TokenMinusMinus:
		return ir.OpMinusMinus
	case TokenComma:
		return ir.OpComma
	}
	panic("not an operator token")
}

func (g *generator) convertBinaryExpression(e *astBinary) ir.Expression {
	op := operatorForToken(e.op)
	var left ir.Expression
	if op == ir.OpEq {
		// A plain assignment target is not a value read; setRefKind
		// validates it below.
		left = g.convertExpression(e.left)
	} else {
		left = g.convertValueExpression(e.left)
	}
	if left == nil {
		return nil
	}
	var right ir.Expression
	if op == ir.OpLogicalAnd || op == ir.OpLogicalOr {
		// Hoisted bindings would evaluate the right operand even when
		// the left one short-circuits.
		right = g.convertNoInline(e.right)
	} else {
		right = g.convertValueExpression(e.right)
	}
	if right == nil {
		return nil
	}

	leftType, rightType, resultType, ok := g.determineBinaryType(op, left.Type(), right.Type())
	if !ok {
		g.reporter.errorf(e.pos, "type mismatch: '%s' cannot operate on '%s', '%s'",
			op.String(), left.Type().Name(), right.Type().Name())
		return nil
	}

	if op.IsAssignment() {
		kind := ir.RefWrite
		if op != ir.OpEq {
			kind = ir.RefReadWrite
		}
		if !g.setRefKind(left, kind) {
			return nil
		}
	}

	left = g.coerce(left, leftType)
	right = g.coerce(right, rightType)
	if left == nil || right == nil {
		return nil
	}

	if folded := g.constantFold(left, op, right); folded != nil {
		return folded
	}
	return &ir.BinaryExpression{Pos: e.pos, Left: left, Op: op, Right: right, ExprType: resultType}
}

func (g *generator) convertPrefixExpression(e *astPrefix) ir.Expression {
	operand := g.convertValueExpression(e.operand)
	if operand == nil {
		return nil
	}
	switch e.op {
	case TokenPlus:
		if !operand.Type().IsNumber() && operand.Type().ComponentType() != nil &&
			!operand.Type().ComponentType().IsNumber() {
			g.reporter.errorf(e.pos, "'+' cannot operate on '%s'", operand.Type().Name())
			return nil
		}
		return operand
	case TokenMinus:
		if !operand.Type().ComponentType().IsNumber() {
			g.reporter.errorf(e.pos, "'-' cannot operate on '%s'", operand.Type().Name())
			return nil
		}
		switch lit := operand.(type) {
		case *ir.IntLiteral:
			return &ir.IntLiteral{Pos: lit.Pos, Value: -lit.Value, LitType: lit.LitType}
		case *ir.FloatLiteral:
			return &ir.FloatLiteral{Pos: lit.Pos, Value: -lit.Value, LitType: lit.LitType}
		}
		return &ir.PrefixExpression{Op: ir.OpMinus, Operand: operand}
	case TokenPlusPlus, TokenMinusMinus:
		if !operand.Type().IsNumber() {
			g.reporter.errorf(e.pos, "'%s' cannot operate on '%s'",
				operatorForToken(e.op).String(), operand.Type().Name())
			return nil
		}
		if !g.setRefKind(operand, ir.RefReadWrite) {
			return nil
		}
		return &ir.PrefixExpression{Op: operatorForToken(e.op), Operand: operand}
	case TokenBang:
		if !operand.Type().Equals(g.context.Bool) {
			g.reporter.errorf(e.pos, "'!' cannot operate on '%s'", operand.Type().Name())
			return nil
		}
		if lit, ok := operand.(*ir.BoolLiteral); ok {
			return &ir.BoolLiteral{Pos: lit.Pos, Value: !lit.Value, LitType: lit.LitType}
		}
		return &ir.PrefixExpression{Op: ir.OpLogicalNot, Operand: operand}
	case TokenTilde:
		if !operand.Type().IsInteger() {
			g.reporter.errorf(e.pos, "'~' cannot operate on '%s'", operand.Type().Name())
			return nil
		}
		return &ir.PrefixExpression{Op: ir.OpBitwiseNot, Operand: operand}
	}
	panic("unsupported prefix operator")
}

func (g *generator) convertPostfixExpression(e *astPostfix) ir.Expression {
	operand := g.convertValueExpression(e.operand)
	if operand == nil {
		return nil
	}
	if !operand.Type().IsNumber() {
		g.reporter.errorf(e.pos, "'%s' cannot operate on '%s'",
			operatorForToken(e.op).String(), operand.Type().Name())
		return nil
	}
	if !g.setRefKind(operand, ir.RefReadWrite) {
		return nil
	}
	return &ir.PostfixExpression{Operand: operand, Op: operatorForToken(e.op)}
}

func (g *generator) convertTernaryExpression(e *astTernary) ir.Expression {
	test := g.convertValueExpression(e.test)
	if test == nil {
		return nil
	}
	test = g.coerce(test, g.context.Bool)
	if test == nil {
		return nil
	}
	// Only one branch runs, so neither may hoist bindings out.
	ifTrue := g.convertNoInline(e.ifTrue)
	if ifTrue == nil {
		return nil
	}
	ifFalse := g.convertNoInline(e.ifFalse)
	if ifFalse == nil {
		return nil
	}
	// The equality query yields bool as its result type; the branches
	// share the wider of the two operand types.
	common, _, _, ok := g.determineBinaryType(ir.OpEqEq, ifTrue.Type(), ifFalse.Type())
	if !ok {
		g.reporter.errorf(e.pos, "ternary expression branches must match, but found '%s' and '%s'",
			ifTrue.Type().Name(), ifFalse.Type().Name())
		return nil
	}
	if common.NonNullable().Equals(g.context.FragmentProcessor) {
		g.reporter.errorf(e.pos, "ternary expression of type '%s' not allowed", common.Name())
		return nil
	}
	ifTrue = g.coerce(ifTrue, common)
	ifFalse = g.coerce(ifFalse, common)
	if ifTrue == nil || ifFalse == nil {
		return nil
	}
	if lit, ok := test.(*ir.BoolLiteral); ok {
		if lit.Value {
			return ifTrue
		}
		return ifFalse
	}
	return &ir.TernaryExpression{Pos: e.pos, Test: test, IfTrue: ifTrue, IfFalse: ifFalse}
}

func (g *generator) convertIndexExpression(e *astIndex) ir.Expression {
	base := g.convertValueExpression(e.base)
	if base == nil {
		return nil
	}
	if e.index == nil {
		g.reporter.error(e.pos, "expected array size")
		return nil
	}
	baseType := base.Type()
	switch baseType.Kind() {
	case ir.KindArray, ir.KindMatrix, ir.KindVector:
	default:
		g.reporter.errorf(e.pos, "expected array, but found '%s'", baseType.Name())
		return nil
	}
	index := g.convertValueExpression(e.index)
	if index == nil {
		return nil
	}
	index = g.coerce(index, g.context.Int)
	if index == nil {
		return nil
	}
	return ir.NewIndexExpression(g.context, base, index)
}

func (g *generator) convertFieldExpression(e *astField) ir.Expression {
	base := g.convertExpression(e.base)
	if base == nil {
		return nil
	}

	// sk_Caps.flag resolves to a capability setting.
	if ref, ok := base.(*ir.VariableReference); ok && ref.Variable.Type.Equals(g.context.SkCaps) {
		return g.capsField(e.pos, e.field)
	}

	if typeRef, ok := base.(*ir.TypeReference); ok {
		return g.convertTypeField(e.pos, typeRef.Value, e.field)
	}

	baseType := base.Type()
	switch baseType.Kind() {
	case ir.KindVector, ir.KindScalar:
		return g.convertSwizzle(e.pos, base, e.field)
	case ir.KindStruct:
		for i, field := range baseType.Fields() {
			if field.Name == e.field {
				return &ir.FieldAccess{Base: base, FieldIndex: i}
			}
		}
	}
	g.reporter.errorf(e.pos, "type '%s' does not have a field named '%s'", baseType.Name(), e.field)
	return nil
}

// convertTypeField handles "EnumName.kValue". Enum values are known at
// conversion time, so the reference collapses straight to its constant.
func (g *generator) convertTypeField(offset int, typ *ir.Type, field string) ir.Expression {
	if typ.Kind() == ir.KindEnum {
		if symbols := g.enumSymbols(typ.Name()); symbols != nil {
			if v, ok := symbols.Lookup(field).(*ir.Variable); ok {
				if lit, ok := v.InitialValue.(*ir.IntLiteral); ok {
					return &ir.IntLiteral{Pos: offset, Value: lit.Value, LitType: typ}
				}
				return ir.NewVariableReference(offset, v, ir.RefRead)
			}
		}
	}
	g.reporter.errorf(offset, "type '%s' does not have a field named '%s'", typ.Name(), field)
	return nil
}

func (g *generator) convertCallExpression(e *astCall) ir.Expression {
	base := g.convertExpression(e.base)
	if base == nil {
		return nil
	}
	var args []ir.Expression
	for _, arg := range e.args {
		converted := g.convertValueExpression(arg)
		if converted == nil {
			return nil
		}
		args = append(args, converted)
	}
	switch b := base.(type) {
	case *ir.FunctionReference:
		return g.call(e.pos, b.Functions, args)
	case *ir.TypeReference:
		return g.convertConstructorCall(e.pos, b.Value, args)
	case *ir.ExternalValueReference:
		return g.externalCall(e.pos, b.Value, args)
	}
	g.reporter.error(e.pos, "not a function")
	return nil
}

// externalCall type checks an invocation of a host-supplied value
// against the signature the host declared for it.
func (g *generator) externalCall(offset int, value *ir.ExternalValue, args []ir.Expression) ir.Expression {
	if !value.Callable {
		g.reporter.errorf(offset, "this external value is not a function")
		return nil
	}
	params := value.ParameterTypes
	if len(args) != len(params) {
		plural := "s"
		if len(params) == 1 {
			plural = ""
		}
		g.reporter.errorf(offset, "call to '%s' expected %d argument%s, but found %d",
			value.ValueName, len(params), plural, len(args))
		return nil
	}
	for i := range args {
		args[i] = g.coerce(args[i], params[i])
		if args[i] == nil {
			return nil
		}
	}
	return &ir.ExternalFunctionCall{Pos: offset, Function: value, Arguments: args}
}

// call picks the best overload by total coercion cost and builds the
// call, binding out parameters and inlining when allowed.
func (g *generator) call(offset int, functions []*ir.FunctionDeclaration, args []ir.Expression) ir.Expression {
	if len(functions) > 1 {
		bestCost := ir.CostImpossible
		var best *ir.FunctionDeclaration
		for _, f := range functions {
			cost, ok := g.callCost(f, args)
			if ok && cost < bestCost {
				bestCost = cost
				best = f
			}
		}
		if best == nil {
			var argTypes []string
			for _, a := range args {
				argTypes = append(argTypes, a.Type().Name())
			}
			g.reporter.errorf(offset, "no match for %s(%s)", functions[0].FuncName, strings.Join(argTypes, ", "))
			return nil
		}
		functions = []*ir.FunctionDeclaration{best}
	}
	function := functions[0]

	if len(args) != len(function.Parameters) {
		plural := "s"
		if len(function.Parameters) == 1 {
			plural = ""
		}
		g.reporter.errorf(offset, "call to '%s' expected %d argument%s, but found %d",
			function.FuncName, len(function.Parameters), plural, len(args))
		return nil
	}

	var paramTypes []*ir.Type
	var returnType *ir.Type
	if !function.DetermineFinalTypes(args, &paramTypes, &returnType) {
		g.reporter.errorf(offset, "no match for %s(%s)", function.FuncName, argTypeList(args))
		return nil
	}

	for i := range args {
		args[i] = g.coerce(args[i], paramTypes[i])
		if args[i] == nil {
			return nil
		}
		if function.Parameters[i].Modifiers.Flags&ir.FlagOut != 0 {
			kind := ir.RefWrite
			if function.Parameters[i].Modifiers.Flags&ir.FlagIn != 0 {
				kind = ir.RefReadWrite
			}
			if !g.setRefKind(args[i], kind) {
				return nil
			}
		}
	}

	if function.Builtin {
		g.includeIntrinsic(function.FuncName)
	}

	if g.canInline {
		if inlined := g.inliner.tryInline(offset, function, returnType, args); inlined != nil {
			return inlined
		}
	}

	return &ir.FunctionCall{Pos: offset, CallType: returnType, Function: function, Arguments: args}
}

func argTypeList(args []ir.Expression) string {
	var names []string
	for _, a := range args {
		names = append(names, a.Type().Name())
	}
	return strings.Join(names, ", ")
}

// callCost totals the coercion costs of binding args to f's parameters.
func (g *generator) callCost(f *ir.FunctionDeclaration, args []ir.Expression) (int, bool) {
	if len(args) != len(f.Parameters) {
		return 0, false
	}
	var paramTypes []*ir.Type
	var returnType *ir.Type
	if !f.DetermineFinalTypes(args, &paramTypes, &returnType) {
		return 0, false
	}
	total := 0
	for i, arg := range args {
		cost := arg.Type().CoercionCost(paramTypes[i])
		if cost == ir.CostImpossible {
			return 0, false
		}
		total += cost
	}
	return total, true
}

// convertConstructorCall builds a value of the given type from the
// arguments.
func (g *generator) convertConstructorCall(offset int, typ *ir.Type, args []ir.Expression) ir.Expression {
	switch typ.Kind() {
	case ir.KindScalar:
		return g.convertScalarConstructor(offset, typ, args)
	case ir.KindVector, ir.KindMatrix:
		return g.convertCompoundConstructor(offset, typ, args)
	case ir.KindArray:
		return g.convertArrayConstructor(offset, typ, args)
	}
	g.reporter.errorf(offset, "cannot construct '%s'", typ.Name())
	return nil
}

func (g *generator) convertScalarConstructor(offset int, typ *ir.Type, args []ir.Expression) ir.Expression {
	if len(args) != 1 {
		g.reporter.errorf(offset, "invalid arguments to '%s' constructor, (expected exactly 1 argument, but found %d)",
			typ.Name(), len(args))
		return nil
	}
	arg := args[0]
	argType := arg.Type()
	if !argType.IsNumber() && !argType.IsBoolean() {
		g.reporter.errorf(offset, "invalid argument to '%s' constructor (expected a number or bool, but found '%s')",
			typ.Name(), argType.Name())
		return nil
	}
	// Literal arguments convert directly.
	if typ.IsNumber() {
		switch lit := arg.(type) {
		case *ir.IntLiteral:
			if typ.IsFloat() {
				return &ir.FloatLiteral{Pos: offset, Value: float64(lit.Value), LitType: typ}
			}
			return &ir.IntLiteral{Pos: offset, Value: lit.Value, LitType: typ}
		case *ir.FloatLiteral:
			if typ.IsFloat() {
				return &ir.FloatLiteral{Pos: offset, Value: lit.Value, LitType: typ}
			}
			return &ir.IntLiteral{Pos: offset, Value: int64(lit.Value), LitType: typ}
		}
	}
	return &ir.Constructor{Pos: offset, ConsType: typ, Arguments: args}
}

func (g *generator) convertCompoundConstructor(offset int, typ *ir.Type, args []ir.Expression) ir.Expression {
	// A matrix can be built from another matrix of any size.
	if typ.Kind() == ir.KindMatrix && len(args) == 1 && args[0].Type().Kind() == ir.KindMatrix {
		return &ir.Constructor{Pos: offset, ConsType: typ, Arguments: args}
	}

	// A single scalar splats across every component.
	if len(args) == 1 && args[0].Type().Kind() == ir.KindScalar {
		arg := g.coerce(args[0], typ.ComponentType())
		if arg == nil {
			return nil
		}
		return &ir.Constructor{Pos: offset, ConsType: typ, Arguments: []ir.Expression{arg}}
	}

	expected := typ.Rows() * typ.Columns()
	actual := 0
	for i := range args {
		argType := args[i].Type()
		switch argType.Kind() {
		case ir.KindScalar:
			coerced := g.coerce(args[i], typ.ComponentType())
			if coerced == nil {
				return nil
			}
			args[i] = coerced
			actual++
		case ir.KindVector:
			if !argType.ComponentType().Equals(typ.ComponentType()) {
				target := typ.ComponentType().ToCompound(g.context, argType.Columns(), 1)
				converted := g.coerce(args[i], target)
				if converted == nil {
					return nil
				}
				args[i] = converted
			}
			actual += argType.Columns()
		default:
			g.reporter.errorf(offset, "'%s' is not a valid parameter to '%s' constructor",
				argType.Name(), typ.Name())
			return nil
		}
	}
	if actual != expected {
		g.reporter.errorf(offset, "invalid arguments to '%s' constructor (expected %d scalars, but found %d)",
			typ.Name(), expected, actual)
		return nil
	}
	return &ir.Constructor{Pos: offset, ConsType: typ, Arguments: args}
}

func (g *generator) convertArrayConstructor(offset int, typ *ir.Type, args []ir.Expression) ir.Expression {
	if typ.Columns() != ir.UnsizedArray && len(args) != typ.Columns() {
		g.reporter.errorf(offset, "invalid arguments to '%s' constructor (expected %d elements, but found %d)",
			typ.Name(), typ.Columns(), len(args))
		return nil
	}
	for i := range args {
		coerced := g.coerce(args[i], typ.ComponentType())
		if coerced == nil {
			return nil
		}
		args[i] = coerced
	}
	return &ir.Constructor{Pos: offset, ConsType: typ, Arguments: args}
}

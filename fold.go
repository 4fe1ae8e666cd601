package sksl

import (
	"math"

	"github.com/gogpu/sksl/ir"
)

// constantFold reduces an operation on constant operands to a literal,
// or returns nil when no folding applies. Integer arithmetic wraps at 32
// bits, matching GPU behavior rather than the host's int width.
func (g *generator) constantFold(left ir.Expression, op ir.Operator, right ir.Expression) ir.Expression {
	// Boolean operands, possibly with one side non-constant.
	if leftLit, ok := left.(*ir.BoolLiteral); ok {
		if rightLit, ok := right.(*ir.BoolLiteral); ok {
			var result bool
			switch op {
			case ir.OpLogicalAnd:
				result = leftLit.Value && rightLit.Value
			case ir.OpLogicalOr:
				result = leftLit.Value || rightLit.Value
			case ir.OpLogicalXor:
				result = leftLit.Value != rightLit.Value
			case ir.OpEqEq:
				result = leftLit.Value == rightLit.Value
			case ir.OpNeq:
				result = leftLit.Value != rightLit.Value
			default:
				return nil
			}
			return ir.NewBoolLiteral(g.context, left.Offset(), result)
		}
		return g.shortCircuit(leftLit.Value, op, right, true)
	}
	if rightLit, ok := right.(*ir.BoolLiteral); ok {
		return g.shortCircuit(rightLit.Value, op, left, false)
	}

	leftInt, leftIsInt := left.(*ir.IntLiteral)
	rightInt, rightIsInt := right.(*ir.IntLiteral)
	if leftIsInt && rightIsInt {
		return g.foldInt(leftInt, op, rightInt)
	}

	leftFloat, leftIsFloat := left.(*ir.FloatLiteral)
	rightFloat, rightIsFloat := right.(*ir.FloatLiteral)
	if leftIsFloat && rightIsFloat {
		return g.foldFloat(leftFloat, op, rightFloat)
	}

	leftCtor, leftIsCtor := left.(*ir.Constructor)
	rightCtor, rightIsCtor := right.(*ir.Constructor)
	if leftIsCtor && rightIsCtor &&
		leftCtor.IsCompileTimeConstant() && rightCtor.IsCompileTimeConstant() &&
		leftCtor.Type().Equals(rightCtor.Type()) {
		switch leftCtor.Type().Kind() {
		case ir.KindVector:
			return g.foldVector(leftCtor, op, rightCtor)
		case ir.KindMatrix:
			switch op {
			case ir.OpEqEq:
				return ir.NewBoolLiteral(g.context, left.Offset(), constantEquals(leftCtor, rightCtor))
			case ir.OpNeq:
				return ir.NewBoolLiteral(g.context, left.Offset(), !constantEquals(leftCtor, rightCtor))
			}
		}
	}
	return nil
}

// shortCircuit simplifies a logical operation where one side is a known
// bool. Dropping the unknown side is only legal when source semantics
// would not have evaluated it, or when it has no side effects.
func (g *generator) shortCircuit(value bool, op ir.Operator, other ir.Expression, constantIsLeft bool) ir.Expression {
	dropOther := func() bool {
		// The left operand always evaluates first, so a constant left
		// side may discard the right freely; a constant right side may
		// only discard a pure left side.
		return constantIsLeft || !other.HasSideEffects()
	}
	switch op {
	case ir.OpLogicalAnd:
		if value {
			return other
		}
		if dropOther() {
			return ir.NewBoolLiteral(g.context, other.Offset(), false)
		}
	case ir.OpLogicalOr:
		if !value {
			return other
		}
		if dropOther() {
			return ir.NewBoolLiteral(g.context, other.Offset(), true)
		}
	case ir.OpLogicalXor:
		if !value {
			return other
		}
		return &ir.PrefixExpression{Op: ir.OpLogicalNot, Operand: other}
	}
	return nil
}

func (g *generator) foldInt(left *ir.IntLiteral, op ir.Operator, right *ir.IntLiteral) ir.Expression {
	l, r := left.Value, right.Value
	resultType := left.LitType
	intResult := func(v int64) ir.Expression {
		return &ir.IntLiteral{Pos: left.Pos, Value: v, LitType: resultType}
	}
	boolResult := func(v bool) ir.Expression {
		return ir.NewBoolLiteral(g.context, left.Pos, v)
	}
	switch op {
	case ir.OpPlus:
		return intResult(int64(uint32(l) + uint32(r)))
	case ir.OpMinus:
		return intResult(int64(uint32(l) - uint32(r)))
	case ir.OpStar:
		return intResult(int64(uint32(l) * uint32(r)))
	case ir.OpSlash:
		if r == 0 {
			g.reporter.error(right.Pos, "division by zero")
			return nil
		}
		if l == math.MinInt64 && r == -1 {
			g.reporter.error(right.Pos, "arithmetic overflow")
			return nil
		}
		return intResult(l / r)
	case ir.OpPercent:
		if r == 0 {
			g.reporter.error(right.Pos, "division by zero")
			return nil
		}
		if l == math.MinInt64 && r == -1 {
			g.reporter.error(right.Pos, "arithmetic overflow")
			return nil
		}
		return intResult(l % r)
	case ir.OpShl:
		if r < 0 || r > 31 {
			g.reporter.error(right.Pos, "shift value out of range")
			return nil
		}
		return intResult(int64(uint32(l) << uint(r)))
	case ir.OpShr:
		if r < 0 || r > 31 {
			g.reporter.error(right.Pos, "shift value out of range")
			return nil
		}
		return intResult(int64(uint32(l) >> uint(r)))
	case ir.OpBitwiseAnd:
		return intResult(l & r)
	case ir.OpBitwiseOr:
		return intResult(l | r)
	case ir.OpBitwiseXor:
		return intResult(l ^ r)
	case ir.OpEqEq:
		return boolResult(l == r)
	case ir.OpNeq:
		return boolResult(l != r)
	case ir.OpLt:
		return boolResult(l < r)
	case ir.OpGt:
		return boolResult(l > r)
	case ir.OpLtEq:
		return boolResult(l <= r)
	case ir.OpGtEq:
		return boolResult(l >= r)
	}
	return nil
}

func (g *generator) foldFloat(left *ir.FloatLiteral, op ir.Operator, right *ir.FloatLiteral) ir.Expression {
	l, r := left.Value, right.Value
	floatResult := func(v float64) ir.Expression {
		return &ir.FloatLiteral{Pos: left.Pos, Value: v, LitType: left.LitType}
	}
	boolResult := func(v bool) ir.Expression {
		return ir.NewBoolLiteral(g.context, left.Pos, v)
	}
	switch op {
	case ir.OpPlus:
		return floatResult(l + r)
	case ir.OpMinus:
		return floatResult(l - r)
	case ir.OpStar:
		return floatResult(l * r)
	case ir.OpSlash:
		if r == 0 {
			g.reporter.error(right.Pos, "division by zero")
			return nil
		}
		return floatResult(l / r)
	case ir.OpEqEq:
		return boolResult(l == r)
	case ir.OpNeq:
		return boolResult(l != r)
	case ir.OpLt:
		return boolResult(l < r)
	case ir.OpGt:
		return boolResult(l > r)
	case ir.OpLtEq:
		return boolResult(l <= r)
	case ir.OpGtEq:
		return boolResult(l >= r)
	}
	return nil
}

// foldVector folds component-wise arithmetic and whole-vector equality
// on constant float vectors.
func (g *generator) foldVector(left *ir.Constructor, op ir.Operator, right *ir.Constructor) ir.Expression {
	typ := left.Type()
	if !typ.ComponentType().IsFloat() {
		switch op {
		case ir.OpEqEq:
			return ir.NewBoolLiteral(g.context, left.Offset(), constantEquals(left, right))
		case ir.OpNeq:
			return ir.NewBoolLiteral(g.context, left.Offset(), !constantEquals(left, right))
		}
		return nil
	}
	switch op {
	case ir.OpEqEq:
		return ir.NewBoolLiteral(g.context, left.Offset(), constantEquals(left, right))
	case ir.OpNeq:
		return ir.NewBoolLiteral(g.context, left.Offset(), !constantEquals(left, right))
	case ir.OpPlus, ir.OpMinus, ir.OpStar, ir.OpSlash:
		args := make([]ir.Expression, typ.Columns())
		for i := 0; i < typ.Columns(); i++ {
			l := left.FloatComponent(i)
			r := right.FloatComponent(i)
			var v float64
			switch op {
			case ir.OpPlus:
				v = l + r
			case ir.OpMinus:
				v = l - r
			case ir.OpStar:
				v = l * r
			case ir.OpSlash:
				if r == 0 {
					g.reporter.error(right.Offset(), "division by zero")
					return nil
				}
				v = l / r
			}
			args[i] = &ir.FloatLiteral{Pos: left.Offset(), Value: v, LitType: typ.ComponentType()}
		}
		return &ir.Constructor{Pos: left.Offset(), ConsType: typ, Arguments: args}
	}
	return nil
}

// constantEquals compares two compile time constant values structurally,
// component by component.
func constantEquals(left, right ir.Expression) bool {
	switch l := left.(type) {
	case *ir.IntLiteral:
		if r, ok := right.(*ir.IntLiteral); ok {
			return l.Value == r.Value
		}
	case *ir.FloatLiteral:
		if r, ok := right.(*ir.FloatLiteral); ok {
			return l.Value == r.Value
		}
	case *ir.BoolLiteral:
		if r, ok := right.(*ir.BoolLiteral); ok {
			return l.Value == r.Value
		}
	case *ir.Constructor:
		r, ok := right.(*ir.Constructor)
		if !ok || !l.Type().Equals(r.Type()) {
			return false
		}
		typ := l.Type()
		switch typ.Kind() {
		case ir.KindVector:
			for i := 0; i < typ.Columns(); i++ {
				if typ.ComponentType().IsFloat() {
					if l.FloatComponent(i) != r.FloatComponent(i) {
						return false
					}
				} else {
					if l.IntComponent(i) != r.IntComponent(i) {
						return false
					}
				}
			}
			return true
		case ir.KindMatrix:
			if len(l.Arguments) == len(r.Arguments) {
				for i := range l.Arguments {
					if !constantEquals(l.Arguments[i], r.Arguments[i]) {
						return false
					}
				}
				return true
			}
		}
	}
	return false
}

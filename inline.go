package sksl

import (
	"github.com/gogpu/sksl/ir"
)

// inliner decides whether a call site may be replaced by the callee's
// body and performs the substitution when it is safe.
type inliner struct {
	gen *generator
}

// tryInline replaces a call with the callee's return expression when the
// callee is a single-return function within the configured cost budget.
// Arguments are bound to hidden locals emitted ahead of the enclosing
// statement. Returns nil when the call must stay a call.
func (in *inliner) tryInline(offset int, function *ir.FunctionDeclaration, returnType *ir.Type, args []ir.Expression) ir.Expression {
	g := in.gen
	if g.settings.InlineThreshold <= 0 {
		return nil
	}
	// Extra statements need a statement to attach to.
	if g.currentFunction == nil {
		return nil
	}
	// Self-calls can never flatten.
	if function == g.currentFunction {
		return nil
	}
	for _, p := range function.Parameters {
		if p.Modifiers.Flags&ir.FlagOut != 0 {
			return nil
		}
	}
	def := in.definition(function)
	if def == nil {
		return nil
	}
	ret := singleReturn(def.Body)
	if ret == nil || ret.Value == nil {
		return nil
	}
	if countExpressionNodes(ret.Value) > g.settings.InlineThreshold {
		return nil
	}

	// Bind each argument to a hidden local so it evaluates exactly once,
	// in order, before the substituted expression.
	bindings := make(map[*ir.Variable]*ir.Variable, len(args))
	for i, arg := range args {
		name := g.nextTmpName("inlineArg")
		v := ir.NewVariable(offset, ir.Modifiers{Layout: ir.DefaultLayout()}, name, arg.Type(), ir.StorageLocal)
		v.InitialValue = arg
		g.symbols.TakeOwnership(v)
		g.extraStatements = append(g.extraStatements, &ir.VarDeclarations{
			Pos:      offset,
			BaseType: arg.Type(),
			Vars:     []*ir.VarDeclaration{{Var: v, Value: arg}},
		})
		bindings[function.Parameters[i]] = v
	}

	result := substituteParams(ret.Value.Clone(), bindings)
	if !result.Type().Equals(returnType) {
		result = g.coerce(result, returnType)
	}
	return result
}

// definition finds the callee's body, looking through the shared
// intrinsic set for builtin functions compiled out of line.
func (in *inliner) definition(function *ir.FunctionDeclaration) *ir.FunctionDefinition {
	if def, ok := in.gen.defined[function]; ok {
		return def
	}
	if function.Builtin {
		if entry, ok := in.gen.intrinsics[function.FuncName]; ok {
			if def, ok := entry.element.(*ir.FunctionDefinition); ok && def.Declaration == function {
				return def
			}
		}
	}
	return nil
}

// singleReturn unwraps a body consisting of exactly one return statement,
// ignoring empty statements.
func singleReturn(body ir.Statement) *ir.ReturnStatement {
	for {
		switch s := body.(type) {
		case *ir.ReturnStatement:
			return s
		case *ir.Block:
			var only ir.Statement
			for _, stmt := range s.Statements {
				if stmt.IsEmpty() {
					continue
				}
				if only != nil {
					return nil
				}
				only = stmt
			}
			if only == nil {
				return nil
			}
			body = only
		default:
			return nil
		}
	}
}

// substituteParams rewrites references to callee parameters into
// references to their argument bindings. expr must be a fresh clone.
func substituteParams(expr ir.Expression, bindings map[*ir.Variable]*ir.Variable) ir.Expression {
	switch e := expr.(type) {
	case *ir.VariableReference:
		if bound, ok := bindings[e.Variable]; ok {
			e.Variable.ReadCount--
			return ir.NewVariableReference(e.Pos, bound, e.Kind)
		}
	case *ir.BinaryExpression:
		e.Left = substituteParams(e.Left, bindings)
		e.Right = substituteParams(e.Right, bindings)
	case *ir.PrefixExpression:
		e.Operand = substituteParams(e.Operand, bindings)
	case *ir.PostfixExpression:
		e.Operand = substituteParams(e.Operand, bindings)
	case *ir.TernaryExpression:
		e.Test = substituteParams(e.Test, bindings)
		e.IfTrue = substituteParams(e.IfTrue, bindings)
		e.IfFalse = substituteParams(e.IfFalse, bindings)
	case *ir.FieldAccess:
		e.Base = substituteParams(e.Base, bindings)
	case *ir.Swizzle:
		e.Base = substituteParams(e.Base, bindings)
	case *ir.IndexExpression:
		e.Base = substituteParams(e.Base, bindings)
		e.Index = substituteParams(e.Index, bindings)
	case *ir.FunctionCall:
		for i := range e.Arguments {
			e.Arguments[i] = substituteParams(e.Arguments[i], bindings)
		}
	case *ir.ExternalFunctionCall:
		for i := range e.Arguments {
			e.Arguments[i] = substituteParams(e.Arguments[i], bindings)
		}
	case *ir.Constructor:
		for i := range e.Arguments {
			e.Arguments[i] = substituteParams(e.Arguments[i], bindings)
		}
	}
	return expr
}

// countExpressionNodes measures an expression tree for the inline cost
// budget.
func countExpressionNodes(expr ir.Expression) int {
	n := 1
	switch e := expr.(type) {
	case *ir.BinaryExpression:
		n += countExpressionNodes(e.Left) + countExpressionNodes(e.Right)
	case *ir.PrefixExpression:
		n += countExpressionNodes(e.Operand)
	case *ir.PostfixExpression:
		n += countExpressionNodes(e.Operand)
	case *ir.TernaryExpression:
		n += countExpressionNodes(e.Test) + countExpressionNodes(e.IfTrue) + countExpressionNodes(e.IfFalse)
	case *ir.FieldAccess:
		n += countExpressionNodes(e.Base)
	case *ir.Swizzle:
		n += countExpressionNodes(e.Base)
	case *ir.IndexExpression:
		n += countExpressionNodes(e.Base) + countExpressionNodes(e.Index)
	case *ir.FunctionCall:
		for _, a := range e.Arguments {
			n += countExpressionNodes(a)
		}
	case *ir.ExternalFunctionCall:
		for _, a := range e.Arguments {
			n += countExpressionNodes(a)
		}
	case *ir.Constructor:
		for _, a := range e.Arguments {
			n += countExpressionNodes(a)
		}
	}
	return n
}

package sksl

import (
	"github.com/gogpu/sksl/ir"
)

// intrinsicEntry tracks one predefined element (a builtin function
// definition or enum) and whether the current program has pulled it in.
type intrinsicEntry struct {
	element  ir.ProgramElement
	included bool
}

// resetIntrinsics clears the per-program inclusion marks. The entry map
// itself is shared across compiles.
func resetIntrinsics(intrinsics map[string]*intrinsicEntry) {
	for _, entry := range intrinsics {
		entry.included = false
	}
}

// includeIntrinsic copies a builtin definition into the program output
// the first time it is referenced. Builtins that call other defined
// builtins drag those in first so the output stays in dependency order.
func (g *generator) includeIntrinsic(name string) {
	entry, ok := g.intrinsics[name]
	if !ok || entry.included {
		return
	}
	entry.included = true
	if def, ok := entry.element.(*ir.FunctionDefinition); ok {
		for _, callee := range referencedBuiltins(def.Body) {
			g.includeIntrinsic(callee)
		}
	}
	g.elements = append(g.elements, entry.element)
}

// referencedBuiltins collects the names of builtin functions called
// anywhere in a statement tree.
func referencedBuiltins(stmt ir.Statement) []string {
	var names []string
	walkStatementExprs(stmt, func(e ir.Expression) {
		if call, ok := e.(*ir.FunctionCall); ok && call.Function.Builtin {
			names = append(names, call.Function.FuncName)
		}
	})
	return names
}

// walkStatementExprs visits every expression under stmt, including
// nested statements.
func walkStatementExprs(stmt ir.Statement, visit func(ir.Expression)) {
	switch s := stmt.(type) {
	case nil:
	case *ir.Block:
		for _, inner := range s.Statements {
			walkStatementExprs(inner, visit)
		}
	case *ir.VarDeclarations:
		for _, v := range s.Vars {
			for _, size := range v.Sizes {
				walkExpr(size, visit)
			}
			walkExpr(v.Value, visit)
		}
	case *ir.ExpressionStatement:
		walkExpr(s.Expr, visit)
	case *ir.IfStatement:
		walkExpr(s.Test, visit)
		walkStatementExprs(s.IfTrue, visit)
		walkStatementExprs(s.IfFalse, visit)
	case *ir.ForStatement:
		walkStatementExprs(s.Initializer, visit)
		walkExpr(s.Test, visit)
		walkExpr(s.Next, visit)
		walkStatementExprs(s.Body, visit)
	case *ir.WhileStatement:
		walkExpr(s.Test, visit)
		walkStatementExprs(s.Body, visit)
	case *ir.DoStatement:
		walkStatementExprs(s.Body, visit)
		walkExpr(s.Test, visit)
	case *ir.SwitchStatement:
		walkExpr(s.Value, visit)
		for _, c := range s.Cases {
			walkExpr(c.Value, visit)
			for _, inner := range c.Statements {
				walkStatementExprs(inner, visit)
			}
		}
	case *ir.ReturnStatement:
		walkExpr(s.Value, visit)
	}
}

func walkExpr(expr ir.Expression, visit func(ir.Expression)) {
	if expr == nil {
		return
	}
	visit(expr)
	switch e := expr.(type) {
	case *ir.BinaryExpression:
		walkExpr(e.Left, visit)
		walkExpr(e.Right, visit)
	case *ir.PrefixExpression:
		walkExpr(e.Operand, visit)
	case *ir.PostfixExpression:
		walkExpr(e.Operand, visit)
	case *ir.TernaryExpression:
		walkExpr(e.Test, visit)
		walkExpr(e.IfTrue, visit)
		walkExpr(e.IfFalse, visit)
	case *ir.FieldAccess:
		walkExpr(e.Base, visit)
	case *ir.Swizzle:
		walkExpr(e.Base, visit)
	case *ir.IndexExpression:
		walkExpr(e.Base, visit)
		walkExpr(e.Index, visit)
	case *ir.FunctionCall:
		for _, a := range e.Arguments {
			walkExpr(a, visit)
		}
	case *ir.ExternalFunctionCall:
		for _, a := range e.Arguments {
			walkExpr(a, visit)
		}
	case *ir.Constructor:
		for _, a := range e.Arguments {
			walkExpr(a, visit)
		}
	}
}

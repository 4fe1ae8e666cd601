package sksl

import (
	"github.com/gogpu/sksl/ir"
)

// countScalarChunks counts runs of contiguous real components in a
// scalar swizzle mask, e.g. xxx1 has one and x0xx has two.
func countScalarChunks(components []int) int {
	chunks := 0
	for i := 0; i < len(components); i++ {
		if components[i] == 0 {
			chunks++
			for i+1 < len(components) && components[i+1] == 0 {
				i++
			}
		}
	}
	return chunks
}

// convertSwizzle validates a letter mask against base and produces a
// Swizzle node, or an equivalent constructor when base is a scalar or
// the mask mixes in 0/1 literals.
func (g *generator) convertSwizzle(offset int, base ir.Expression, fields string) ir.Expression {
	baseType := base.Type()
	if baseType.Kind() != ir.KindVector && !baseType.IsNumber() {
		g.reporter.errorf(offset, "cannot swizzle value of type '%s'", baseType.Name())
		return nil
	}
	var components []int
	literalFields := 0
	for _, c := range fields {
		switch c {
		case '0':
			components = append(components, ir.SwizzleZero)
			literalFields++
		case '1':
			components = append(components, ir.SwizzleOne)
			literalFields++
		case 'x', 'r', 's', 'L':
			components = append(components, 0)
		case 'y', 'g', 't', 'T':
			if baseType.Columns() < 2 {
				g.reporter.errorf(offset, "invalid swizzle component '%c'", c)
				return nil
			}
			components = append(components, 1)
		case 'z', 'b', 'p', 'R':
			if baseType.Columns() < 3 {
				g.reporter.errorf(offset, "invalid swizzle component '%c'", c)
				return nil
			}
			components = append(components, 2)
		case 'w', 'a', 'q', 'B':
			if baseType.Columns() < 4 {
				g.reporter.errorf(offset, "invalid swizzle component '%c'", c)
				return nil
			}
			components = append(components, 3)
		default:
			g.reporter.errorf(offset, "invalid swizzle component '%c'", c)
			return nil
		}
	}
	if len(components) > 4 {
		g.reporter.errorf(offset, "too many components in swizzle mask '%s'", fields)
		return nil
	}
	if literalFields == len(components) {
		g.reporter.error(offset, "swizzle must refer to base expression")
		return nil
	}
	if baseType.IsNumber() {
		return g.scalarSwizzle(base, components)
	}
	return ir.NewSwizzle(g.context, base, components)
}

// scalarSwizzle turns a swizzle of a single scalar into a constructor:
// foo.x0x1 becomes float4(foo, 0, foo, 1). When the scalar expression
// would be evaluated more than once and is not trivially pure, it is
// hoisted into a hidden local first.
func (g *generator) scalarSwizzle(base ir.Expression, components []int) ir.Expression {
	offset := base.Offset()
	baseType := base.Type()
	var expr ir.Expression
	switch base.(type) {
	case *ir.VariableReference, *ir.IntLiteral, *ir.FloatLiteral:
		expr = base
	default:
		if countScalarChunks(components) <= 1 {
			expr = base
		} else {
			name := g.nextTmpName("tmpSwizzle")
			v := ir.NewVariable(offset, ir.Modifiers{Layout: ir.DefaultLayout()}, name, baseType, ir.StorageLocal)
			v.InitialValue = base
			g.symbols.TakeOwnership(v)
			g.extraStatements = append(g.extraStatements, &ir.VarDeclarations{
				Pos:      offset,
				BaseType: baseType,
				Vars:     []*ir.VarDeclaration{{Var: v, Value: base}},
			})
			expr = ir.NewVariableReference(offset, v, ir.RefRead)
		}
	}
	var args []ir.Expression
	for i := 0; i < len(components); i++ {
		switch components[i] {
		case 0:
			arg := expr.Clone()
			count := 1
			for i+1 < len(components) && components[i+1] == 0 {
				i++
				count++
			}
			if count > 1 {
				arg = &ir.Constructor{
					Pos:       offset,
					ConsType:  baseType.ToCompound(g.context, count, 1),
					Arguments: []ir.Expression{arg},
				}
			}
			args = append(args, arg)
		case ir.SwizzleZero:
			args = append(args, ir.NewIntLiteral(g.context, offset, 0))
		case ir.SwizzleOne:
			args = append(args, ir.NewIntLiteral(g.context, offset, 1))
		}
	}
	return &ir.Constructor{
		Pos:       offset,
		ConsType:  baseType.ToCompound(g.context, len(components), 1),
		Arguments: args,
	}
}

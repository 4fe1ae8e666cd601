package sksl

import (
	"github.com/gogpu/sksl/ir"
)

// convertFunction converts a prototype or definition, merging it with
// any previously seen overloads of the same name.
func (g *generator) convertFunction(f *astFunction) {
	returnType := g.convertType(f.returnType)
	if returnType == nil {
		return
	}
	if returnType.NonNullable().Equals(g.context.FragmentProcessor) {
		g.reporter.errorf(f.pos, "functions may not return type '%s'", returnType.Name())
		return
	}
	g.checkModifiers(f.pos, f.modifiers, ir.FlagHasSideEffects)

	var parameters []*ir.Variable
	for _, param := range f.parameters {
		g.checkModifiers(param.pos, param.modifiers, ir.FlagIn|ir.FlagOut)
		paramType := g.convertType(param.paramType)
		if paramType == nil {
			return
		}
		for i := len(param.sizes) - 1; i >= 0; i-- {
			count, ok := g.arraySize(param.sizes[i])
			if !ok {
				return
			}
			paramType = g.context.ArrayOf(paramType, int(count))
		}
		// Only the builtin declaration of 'sample' takes a processor.
		if paramType.NonNullable().Equals(g.context.FragmentProcessor) && !g.isBuiltinCode {
			g.reporter.errorf(param.pos, "parameters of type '%s' not allowed", paramType.Name())
			return
		}
		parameters = append(parameters, ir.NewVariable(param.pos, param.modifiers, param.name, paramType, ir.StorageParameter))
	}

	paramIsCoords := func(i int) bool {
		return parameters[i].Type.Equals(g.context.Float2) && parameters[i].Modifiers.Flags == 0
	}
	if f.name == "main" {
		switch g.kind {
		case ir.KindPipelineStage:
			// half4 main()  -or-  half4 main(float2)
			valid := returnType.Equals(g.context.Half4) &&
				(len(parameters) == 0 || (len(parameters) == 1 && paramIsCoords(0)))
			if !valid {
				g.reporter.error(f.pos, "pipeline stage 'main' must be declared half4 main() or half4 main(float2)")
				return
			}
		case ir.KindFragmentProcessor:
			valid := len(parameters) == 0 || (len(parameters) == 1 && paramIsCoords(0))
			if !valid {
				g.reporter.error(f.pos, ".fp 'main' must be declared main() or main(float2)")
				return
			}
		case ir.KindGeneric:
		default:
			if len(parameters) != 0 {
				g.reporter.error(f.pos, "shader 'main' must have zero parameters")
			}
		}
	}

	decl := &ir.FunctionDeclaration{
		Offset:     f.pos,
		Modifiers:  f.modifiers,
		FuncName:   f.name,
		Parameters: parameters,
		ReturnType: returnType,
		Builtin:    g.isBuiltinCode,
	}

	// Match against existing overloads.
	before := g.reporter.count()
	switch existing := g.symbols.Lookup(f.name).(type) {
	case *ir.FunctionDeclaration:
		if merged := g.mergeFunction(f, decl, existing); merged != nil {
			decl = merged
		} else if g.reporter.count() > before {
			return
		} else {
			g.symbols.Add(f.name, decl)
		}
	case *ir.UnresolvedFunction:
		var merged *ir.FunctionDeclaration
		for _, candidate := range existing.Functions {
			if m := g.mergeFunction(f, decl, candidate); m != nil {
				merged = m
				break
			}
			if g.reporter.count() > before {
				return
			}
		}
		if merged != nil {
			decl = merged
		} else {
			g.symbols.Add(f.name, decl)
		}
	case nil:
		g.symbols.Add(f.name, decl)
	default:
		g.reporter.errorf(f.pos, "symbol '%s' was already defined", f.name)
		return
	}

	if f.body == nil {
		return
	}
	if g.defined == nil {
		g.defined = make(map[*ir.FunctionDeclaration]*ir.FunctionDefinition)
	}
	if _, dup := g.defined[decl]; dup {
		g.reporter.errorf(f.pos, "duplicate definition of %s", decl.String())
		return
	}
	g.defined[decl] = nil

	g.currentFunction = decl
	g.pushSymbols()
	for _, param := range parameters {
		if !g.symbols.Add(param.VarName, param) {
			g.reporter.errorf(param.Offset, "symbol '%s' was already defined", param.VarName)
		}
	}
	body := g.convertBlock(f.body)
	g.popSymbols()
	g.currentFunction = nil
	if body == nil {
		return
	}

	if f.name == "main" && g.kind == ir.KindVertex {
		if fixup := g.rtAdjustFixup(f.pos); fixup != nil {
			block := body.(*ir.Block)
			block.Statements = append(block.Statements, fixup)
		}
	}

	definition := &ir.FunctionDefinition{Pos: f.pos, Declaration: decl, Body: body}
	g.defined[decl] = definition
	if g.isBuiltinCode {
		g.intrinsics[decl.FuncName] = &intrinsicEntry{element: definition}
		return
	}
	g.elements = append(g.elements, definition)
}

// mergeFunction compares a new declaration against one existing overload.
// It returns the existing declaration when the two agree, nil when they
// describe different overloads, and reports an error when they clash.
func (g *generator) mergeFunction(f *astFunction, decl, existing *ir.FunctionDeclaration) *ir.FunctionDeclaration {
	if !decl.MatchesSignature(existing) {
		return nil
	}
	if !decl.ReturnType.Equals(existing.ReturnType) {
		g.reporter.errorf(f.pos, "functions '%s' and '%s' differ only in return type",
			decl.String(), existing.String())
		return nil
	}
	for i := range decl.Parameters {
		if decl.Parameters[i].Modifiers != existing.Parameters[i].Modifiers {
			g.reporter.errorf(f.pos, "modifiers on parameter %d differ between declaration and definition", i+1)
			return nil
		}
	}
	return existing
}

// rtAdjustFixup builds the statement appended to a vertex main that maps
// sk_Position through the render target adjust vector:
//
//	sk_Position = float4(sk_Position.xy * rtAdjust.xz +
//	                     sk_Position.ww * rtAdjust.yw, 0, sk_Position.w)
func (g *generator) rtAdjustFixup(offset int) ir.Statement {
	if g.rtAdjust == nil && g.rtAdjustInterface == nil {
		return nil
	}
	position := func() ir.Expression {
		return g.identifierExpression(offset, "sk_Position")
	}
	adjust := func() ir.Expression {
		if g.rtAdjust != nil {
			return ir.NewVariableReference(offset, g.rtAdjust, ir.RefRead)
		}
		base := ir.NewVariableReference(offset, g.rtAdjustInterface, ir.RefRead)
		return &ir.FieldAccess{Base: base, FieldIndex: g.rtAdjustFieldIndex, OwnerKind: ir.FieldOwnerAnonymousInterfaceBlock}
	}
	swizzle := func(base ir.Expression, components ...int) ir.Expression {
		return ir.NewSwizzle(g.context, base, components)
	}
	mul := func(left, right ir.Expression) ir.Expression {
		return &ir.BinaryExpression{Pos: offset, Left: left, Op: ir.OpStar, Right: right, ExprType: left.Type()}
	}
	add := func(left, right ir.Expression) ir.Expression {
		return &ir.BinaryExpression{Pos: offset, Left: left, Op: ir.OpPlus, Right: right, ExprType: left.Type()}
	}

	xy := add(
		mul(swizzle(position(), 0, 1), swizzle(adjust(), 0, 2)),
		mul(swizzle(position(), 3, 3), swizzle(adjust(), 1, 3)))
	zero := &ir.FloatLiteral{Pos: offset, Value: 0, LitType: g.context.Float}
	w := swizzle(position(), 3)
	ctor := &ir.Constructor{Pos: offset, ConsType: g.context.Float4, Arguments: []ir.Expression{xy, zero, w}}

	target := position()
	if !g.setRefKind(target, ir.RefWrite) {
		return nil
	}
	assign := &ir.BinaryExpression{Pos: offset, Left: target, Op: ir.OpEq, Right: ctor, ExprType: target.Type()}
	return &ir.ExpressionStatement{Expr: assign}
}

package sksl

import (
	"github.com/gogpu/sksl/ir"
)

// convertVarDeclarations converts one declaration statement, registering
// each variable in the current scope. Global declarations of built-in
// variables update the existing symbol in place instead of shadowing it.
func (g *generator) convertVarDeclarations(decl *astVarDeclarations, storage ir.VariableStorage) *ir.VarDeclarations {
	baseType := g.resolveBaseType(decl)
	if baseType == nil {
		return nil
	}
	g.checkVarModifiers(decl, baseType, storage)

	result := &ir.VarDeclarations{Pos: decl.pos, BaseType: baseType}
	for _, declarator := range decl.vars {
		v := g.convertVarDeclaration(decl, declarator, baseType, storage)
		if v != nil {
			result.Vars = append(result.Vars, v)
		}
	}
	if len(result.Vars) == 0 {
		return nil
	}
	return result
}

// checkVarModifiers enforces the per-kind and per-storage qualifier
// rules for one declaration statement.
func (g *generator) checkVarModifiers(decl *astVarDeclarations, baseType *ir.Type, storage ir.VariableStorage) {
	m := decl.modifiers
	if baseType.NonNullable().Equals(g.context.FragmentProcessor) && storage != ir.StorageGlobal {
		g.reporter.errorf(decl.pos, "variables of type '%s' must be global", baseType.Name())
	}
	if g.kind != ir.KindFragmentProcessor {
		if m.Flags&ir.FlagIn != 0 && baseType.Kind() == ir.KindMatrix {
			g.reporter.error(decl.pos, "'in' variables may not have matrix type")
		}
		if m.Flags&ir.FlagIn != 0 && m.Flags&ir.FlagUniform != 0 {
			g.reporter.error(decl.pos, "'in uniform' variables only permitted within fragment processors")
		}
		if m.Layout.When != "" {
			g.reporter.error(decl.pos, "'when' is only permitted within fragment processors")
		}
		if m.Layout.Tracked {
			g.reporter.error(decl.pos, "'tracked' is only permitted within fragment processors")
		}
		if m.Layout.CType != "" {
			g.reporter.error(decl.pos, "'ctype' is only permitted within fragment processors")
		}
		if m.Layout.Key {
			g.reporter.error(decl.pos, "'key' is only permitted within fragment processors")
		}
	}
	if g.kind == ir.KindPipelineStage && m.Flags&ir.FlagIn != 0 &&
		!baseType.NonNullable().Equals(g.context.FragmentProcessor) {
		g.reporter.error(decl.pos, "'in' variables not permitted in runtime effects")
	}
	if m.Layout.Key && m.Flags&ir.FlagUniform != 0 {
		g.reporter.error(decl.pos, "'key' is not permitted on 'uniform' variables")
	}
	if m.Layout.Marker != "" {
		if g.kind != ir.KindPipelineStage {
			g.reporter.error(decl.pos, "'marker' is only permitted in runtime effects")
		}
		if m.Flags&ir.FlagUniform == 0 {
			g.reporter.error(decl.pos, "'marker' is only permitted on 'uniform' variables")
		}
		if !baseType.Equals(g.context.Float4x4) {
			g.reporter.error(decl.pos, "'marker' is only permitted on float4x4 variables")
		}
	}
	if m.Layout.SRGBUnpremul {
		if g.kind != ir.KindPipelineStage {
			g.reporter.error(decl.pos, "'srgb_unpremul' is only permitted in runtime effects")
		}
		if m.Flags&ir.FlagUniform == 0 {
			g.reporter.error(decl.pos, "'srgb_unpremul' is only permitted on 'uniform' variables")
		}
		colorXform := func(t *ir.Type) bool {
			return t.Kind() == ir.KindVector && t.ComponentType().IsFloat() &&
				(t.Columns() == 3 || t.Columns() == 4)
		}
		if !colorXform(baseType) &&
			!(baseType.Kind() == ir.KindArray && colorXform(baseType.ComponentType())) {
			g.reporter.error(decl.pos,
				"'srgb_unpremul' is only permitted on half3, half4, float3, or float4 variables")
		}
	}
	if m.Flags&ir.FlagVarying != 0 {
		if g.kind != ir.KindPipelineStage {
			g.reporter.error(decl.pos, "'varying' is only permitted in runtime effects")
		}
		if !baseType.IsFloat() &&
			!(baseType.Kind() == ir.KindVector && baseType.ComponentType().IsFloat()) {
			g.reporter.error(decl.pos, "'varying' must be float scalar or vector")
		}
	}
	permitted := ir.FlagConst | ir.FlagLowp | ir.FlagMediump | ir.FlagHighp
	if storage == ir.StorageGlobal {
		permitted |= ir.FlagIn | ir.FlagOut | ir.FlagUniform | ir.FlagFlat |
			ir.FlagVarying | ir.FlagNoPerspective | ir.FlagPLS | ir.FlagPLSIn |
			ir.FlagPLSOut | ir.FlagRestrict | ir.FlagVolatile | ir.FlagReadOnly |
			ir.FlagWriteOnly | ir.FlagCoherent | ir.FlagBuffer
	}
	g.checkModifiers(decl.pos, m, permitted)
}

// resolveBaseType handles inline struct definitions as well as plain
// type names.
func (g *generator) resolveBaseType(decl *astVarDeclarations) *ir.Type {
	if def := decl.baseType.structDef; def != nil {
		return g.convertStructDefinition(def)
	}
	return g.convertType(decl.baseType)
}

func (g *generator) convertStructDefinition(def *astStruct) *ir.Type {
	var fields []ir.Field
	for i := range def.fields {
		fieldDecl := &def.fields[i]
		fieldType := g.convertType(fieldDecl.baseType)
		if fieldType == nil {
			return nil
		}
		for _, declarator := range fieldDecl.vars {
			t := fieldType
			for i := len(declarator.sizes) - 1; i >= 0; i-- {
				size := declarator.sizes[i]
				if size == nil {
					g.reporter.error(declarator.pos, "array size must be specified")
					return nil
				}
				count, ok := g.arraySize(size)
				if !ok {
					return nil
				}
				t = g.context.ArrayOf(t, int(count))
			}
			if declarator.value != nil {
				g.reporter.error(declarator.pos, "initializers are not permitted on struct fields")
			}
			fields = append(fields, ir.Field{Modifiers: fieldDecl.modifiers, Name: declarator.name, Type: t})
		}
	}
	structType := ir.NewStructType(def.name, fields)
	if !g.symbols.Add(def.name, structType) {
		g.reporter.errorf(def.pos, "symbol '%s' was already defined", def.name)
		return nil
	}
	return structType
}

// arraySize converts and checks one array dimension expression.
func (g *generator) arraySize(size astExpression) (int64, bool) {
	converted := g.convertExpression(size)
	if converted == nil {
		return 0, false
	}
	count, ok := g.getConstantInt(converted)
	if !ok {
		return 0, false
	}
	if count <= 0 {
		g.reporter.error(converted.Offset(), "array size must be positive")
		return 0, false
	}
	return count, true
}

func (g *generator) convertVarDeclaration(decl *astVarDeclarations, declarator astVarDeclaration, baseType *ir.Type, storage ir.VariableStorage) *ir.VarDeclaration {
	// sk_FragColor comes predeclared; a user declaration of it is
	// tolerated and simply refers to the built-in. The builtin module's
	// own declaration must still go through.
	if storage == ir.StorageGlobal && declarator.name == "sk_FragColor" &&
		g.symbols.Lookup("sk_FragColor") != nil {
		return nil
	}

	varType := baseType
	var sizes []ir.Expression
	for i := len(declarator.sizes) - 1; i >= 0; i-- {
		size := declarator.sizes[i]
		if size == nil {
			varType = g.context.ArrayOf(varType, ir.UnsizedArray)
			sizes = append([]ir.Expression{nil}, sizes...)
			continue
		}
		count, ok := g.arraySize(size)
		if !ok {
			return nil
		}
		varType = g.context.ArrayOf(varType, int(count))
		sizes = append([]ir.Expression{ir.NewIntLiteral(g.context, size.offset(), count)}, sizes...)
	}

	if storage == ir.StorageLocal && baseType.Kind() == ir.KindSampler {
		g.reporter.errorf(declarator.pos, "variables of type '%s' must be global", varType.Name())
		return nil
	}
	if baseType.NonNullable().Equals(g.context.FragmentProcessor) && storage != ir.StorageGlobal {
		return nil
	}
	if decl.modifiers.Layout.Location == 0 && decl.modifiers.Layout.Index == 0 &&
		decl.modifiers.Flags&ir.FlagOut != 0 && g.kind == ir.KindFragment &&
		declarator.name != "sk_FragColor" {
		g.reporter.error(declarator.pos, "out location=0, index=0 is reserved for sk_FragColor")
	}

	v := ir.NewVariable(declarator.pos, decl.modifiers, declarator.name, varType, storage)

	var value ir.Expression
	if declarator.value != nil {
		value = g.convertValueExpression(declarator.value)
		if value == nil {
			return nil
		}
		value = g.coerce(value, varType)
		if value == nil {
			return nil
		}
		v.InitialValue = value
		v.WriteCount = 1
	}

	if storage == ir.StorageGlobal && declarator.name == "sk_RTAdjust" {
		if g.rtAdjust != nil || g.rtAdjustInterface != nil {
			g.reporter.error(declarator.pos, "duplicate definition of 'sk_RTAdjust'")
			return nil
		}
		if !varType.Equals(g.context.Float4) {
			g.reporter.error(declarator.pos, "sk_RTAdjust must have type 'float4'")
			return nil
		}
		g.rtAdjust = v
	}

	// A redeclaration of a built-in just refreshes its modifiers.
	if storage == ir.StorageGlobal && decl.modifiers.Layout.Builtin >= 0 && !g.isBuiltinCode {
		if existing, ok := g.symbols.Lookup(declarator.name).(*ir.Variable); ok {
			existing.Modifiers = decl.modifiers
			return nil
		}
	}

	if !g.symbols.Add(declarator.name, v) {
		g.reporter.errorf(declarator.pos, "symbol '%s' was already defined", declarator.name)
		return nil
	}
	return &ir.VarDeclaration{Var: v, Sizes: sizes, Value: value}
}

// convertInterfaceBlock converts a uniform/buffer block; anonymous
// blocks expose each field directly in the enclosing scope.
func (g *generator) convertInterfaceBlock(block *astInterfaceBlock) *ir.InterfaceBlock {
	g.pushSymbols()
	blockSymbols := g.symbols

	var fields []ir.Field
	rtAdjustIndex := -1
	for i := range block.declarations {
		memberDecl := &block.declarations[i]
		converted := g.convertVarDeclarations(memberDecl, ir.StorageInterfaceBlock)
		if converted == nil {
			g.popSymbols()
			return nil
		}
		for _, v := range converted.Vars {
			if v.Value != nil {
				g.reporter.error(v.Var.Offset, "initializers are not permitted on interface block fields")
			}
			if v.Var.VarName == "sk_RTAdjust" {
				rtAdjustIndex = len(fields)
				if !v.Var.Type.Equals(g.context.Float4) {
					g.reporter.error(v.Var.Offset, "sk_RTAdjust must have type 'float4'")
				}
			}
			fields = append(fields, ir.Field{Modifiers: v.Var.Modifiers, Name: v.Var.VarName, Type: v.Var.Type})
		}
	}
	g.popSymbols()

	blockType := ir.NewStructType(block.typeName, fields)
	varType := blockType
	var sizes []ir.Expression
	for i := len(block.sizes) - 1; i >= 0; i-- {
		size := block.sizes[i]
		if size == nil {
			varType = g.context.ArrayOf(varType, ir.UnsizedArray)
			sizes = append([]ir.Expression{nil}, sizes...)
			continue
		}
		count, ok := g.arraySize(size)
		if !ok {
			return nil
		}
		varType = g.context.ArrayOf(varType, int(count))
		sizes = append([]ir.Expression{ir.NewIntLiteral(g.context, size.offset(), count)}, sizes...)
	}

	instanceName := block.instanceName
	v := ir.NewVariable(block.pos, block.modifiers, instanceName, varType, ir.StorageGlobal)
	if instanceName == "" {
		v.VarName = block.typeName
		// The backing variable has no binding of its own; the field
		// symbols hold the only references to it.
		g.symbols.TakeOwnership(v)
		for i := range fields {
			if !g.symbols.Add(fields[i].Name, &ir.FieldSymbol{Owner: v, FieldIndex: i}) {
				g.reporter.errorf(block.pos, "symbol '%s' was already defined", fields[i].Name)
				return nil
			}
		}
		if rtAdjustIndex >= 0 {
			if g.rtAdjust != nil || g.rtAdjustInterface != nil {
				g.reporter.error(block.pos, "duplicate definition of 'sk_RTAdjust'")
				return nil
			}
			g.rtAdjustInterface = v
			g.rtAdjustFieldIndex = rtAdjustIndex
		}
	} else if !g.symbols.Add(instanceName, v) {
		g.reporter.errorf(block.pos, "symbol '%s' was already defined", instanceName)
		return nil
	}
	if !g.symbols.Add(block.typeName, blockType) {
		g.reporter.errorf(block.pos, "symbol '%s' was already defined", block.typeName)
		return nil
	}

	return &ir.InterfaceBlock{
		Pos:          block.pos,
		Variable:     v,
		TypeName:     block.typeName,
		InstanceName: instanceName,
		Sizes:        sizes,
		Symbols:      blockSymbols,
	}
}

// convertEnum registers the enum type and its values. Values become
// const int variables scoped to the enum's own symbol table, reached
// through "EnumName.kValue".
func (g *generator) convertEnum(e *astEnum) {
	enumType := ir.NewEnumType(e.typeName)
	symbols := ir.NewSymbolTable(nil)

	next := int64(0)
	for _, value := range e.values {
		v := next
		if value.value != nil {
			converted := g.convertExpression(value.value)
			if converted == nil {
				return
			}
			constant, ok := g.getConstantInt(converted)
			if !ok {
				return
			}
			v = constant
		}
		next = v + 1
		variable := ir.NewVariable(value.pos,
			ir.Modifiers{Layout: ir.DefaultLayout(), Flags: ir.FlagConst},
			value.name, enumType, ir.StorageGlobal)
		variable.InitialValue = &ir.IntLiteral{Pos: value.pos, Value: v, LitType: enumType}
		if !symbols.Add(value.name, variable) {
			g.reporter.errorf(value.pos, "symbol '%s' was already defined", value.name)
			return
		}
	}

	if !g.symbols.Add(e.typeName, enumType) {
		g.reporter.errorf(e.pos, "symbol '%s' was already defined", e.typeName)
		return
	}
	element := &ir.Enum{Pos: e.pos, TypeName: e.typeName, Symbols: symbols, Builtin: g.isBuiltinCode}
	if g.isBuiltinCode {
		// Built-in enums only reach the output if something refers to
		// them.
		g.intrinsics[e.typeName] = &intrinsicEntry{element: element}
		return
	}
	g.elements = append(g.elements, element)
}

// enumSymbols returns the value scope for an enum type declared in this
// program or in the built-in modules.
func (g *generator) enumSymbols(name string) *ir.SymbolTable {
	for _, element := range g.elements {
		if e, ok := element.(*ir.Enum); ok && e.TypeName == name {
			return e.Symbols
		}
	}
	if entry, ok := g.intrinsics[name]; ok {
		if e, ok := entry.element.(*ir.Enum); ok {
			g.includeIntrinsic(name)
			return e.Symbols
		}
	}
	return nil
}

func (g *generator) convertModifiersDeclaration(d *astModifiersDeclaration) {
	modifiers := d.modifiers
	if g.kind == ir.KindGeometry {
		if modifiers.Layout.Invocations != -1 {
			g.invocations = modifiers.Layout.Invocations
		}
	} else if modifiers.Layout.Invocations != -1 {
		g.reporter.error(d.pos, "'invocations' is only legal in geometry shaders")
		return
	}
	g.elements = append(g.elements, &ir.ModifiersDeclaration{Pos: d.pos, Modifiers: modifiers})
}

func (g *generator) convertSection(s *astSection) {
	if g.kind != ir.KindFragmentProcessor {
		g.reporter.errorf(s.pos, "unsupported section '@%s'", s.name)
		return
	}
	g.elements = append(g.elements, &ir.Section{Pos: s.pos, Name: s.name, Argument: s.argument, Text: s.text})
}

package ir

import (
	"sort"
	"testing"
)

func TestSymbolTableLookupChain(t *testing.T) {
	ctx := NewContext()
	root := NewSymbolTable(nil)
	root.Add("float", ctx.Float)

	inner := NewSymbolTable(root)
	if inner.Lookup("float") != ctx.Float {
		t.Error("lookup should fall through to the parent scope")
	}
	if inner.LookupLocal("float") != nil {
		t.Error("LookupLocal must not consult parents")
	}
	if inner.Lookup("missing") != nil {
		t.Error("unknown names resolve to nil")
	}
}

func TestSymbolTableShadowing(t *testing.T) {
	ctx := NewContext()
	root := NewSymbolTable(nil)
	outer := NewVariable(0, Modifiers{Layout: DefaultLayout()}, "x", ctx.Float, StorageGlobal)
	root.Add("x", outer)

	inner := NewSymbolTable(root)
	local := NewVariable(0, Modifiers{Layout: DefaultLayout()}, "x", ctx.Int, StorageLocal)
	inner.Add("x", local)

	if inner.Lookup("x") != Symbol(local) {
		t.Error("inner binding should shadow the outer one")
	}
	if root.Lookup("x") != Symbol(outer) {
		t.Error("the outer binding must stay intact")
	}
}

func TestSymbolTableOverloadMerge(t *testing.T) {
	ctx := NewContext()
	table := NewSymbolTable(nil)
	f1 := &FunctionDeclaration{FuncName: "f", ReturnType: ctx.Float,
		Parameters: []*Variable{NewVariable(0, Modifiers{Layout: DefaultLayout()}, "x", ctx.Float, StorageParameter)}}
	f2 := &FunctionDeclaration{FuncName: "f", ReturnType: ctx.Float,
		Parameters: []*Variable{NewVariable(0, Modifiers{Layout: DefaultLayout()}, "x", ctx.Int, StorageParameter)}}
	f3 := &FunctionDeclaration{FuncName: "f", ReturnType: ctx.Float}

	table.Add("f", f1)
	if _, ok := table.Lookup("f").(*FunctionDeclaration); !ok {
		t.Fatal("a single function stays a plain declaration")
	}

	table.Add("f", f2)
	merged, ok := table.Lookup("f").(*UnresolvedFunction)
	if !ok {
		t.Fatalf("two overloads should merge, got %T", table.Lookup("f"))
	}
	if len(merged.Functions) != 2 {
		t.Fatalf("merged overload count = %d, want 2", len(merged.Functions))
	}

	table.Add("f", f3)
	merged, ok = table.Lookup("f").(*UnresolvedFunction)
	if !ok {
		t.Fatalf("adding to a merged set should stay merged, got %T", table.Lookup("f"))
	}
	if len(merged.Functions) != 3 {
		t.Fatalf("merged overload count = %d, want 3", len(merged.Functions))
	}
	if merged.Functions[0] != f1 || merged.Functions[2] != f3 {
		t.Error("overloads must keep declaration order")
	}
}

func TestSymbolTableNames(t *testing.T) {
	ctx := NewContext()
	table := NewSymbolTable(nil)
	table.Add("a", ctx.Float)
	table.Add("b", ctx.Int)

	names := table.Names()
	sort.Strings(names)
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Names() = %v, want [a b]", names)
	}
}

func TestSymbolTableTakeOwnership(t *testing.T) {
	ctx := NewContext()
	table := NewSymbolTable(nil)
	v := NewVariable(0, Modifiers{Layout: DefaultLayout()}, "_tmp0", ctx.Float, StorageLocal)
	table.TakeOwnership(v)
	// Owned symbols are retained without a name binding.
	if table.Lookup("_tmp0") != nil {
		t.Error("owned symbols must not be reachable by name")
	}
	if len(table.Names()) != 0 {
		t.Errorf("Names() = %v, want none", table.Names())
	}
}

func TestSymbolTableRefusesRedefinition(t *testing.T) {
	ctx := NewContext()
	table := NewSymbolTable(nil)
	first := NewVariable(0, Modifiers{Layout: DefaultLayout()}, "x", ctx.Float, StorageGlobal)
	if !table.Add("x", first) {
		t.Fatal("first binding should succeed")
	}
	second := NewVariable(0, Modifiers{Layout: DefaultLayout()}, "x", ctx.Int, StorageGlobal)
	if table.Add("x", second) {
		t.Error("rebinding a name in the same scope must be refused")
	}
	if table.Lookup("x") != Symbol(first) {
		t.Error("a refused Add must leave the original binding intact")
	}
	f := &FunctionDeclaration{FuncName: "x", ReturnType: ctx.Float}
	if table.Add("x", f) {
		t.Error("a function may not rebind a variable name")
	}
}

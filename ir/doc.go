// Package ir defines the typed intermediate representation produced by
// the SkSL front end: the type universe, symbol tables, and the owned
// trees of expressions, statements and top level program elements.
//
// The IR is a tree, not a graph. Every node owns its children, and a
// pass that needs to duplicate a subtree must Clone it. Types are
// interned per Context and compared by name.
package ir

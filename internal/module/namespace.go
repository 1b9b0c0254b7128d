package module

import "strings"

// Namespace is a named, nested symbol table used to qualify a Symbol's
// full name as "namespace:name", matching gel::Namespace
// (original_source/Sources/gel/namespace.h)'s colon-qualified names.
type Namespace struct {
	Name     string
	parent   *Namespace
	children map[string]*Namespace
}

// NewNamespace returns a root Namespace named name.
func NewNamespace(name string) *Namespace {
	return &Namespace{Name: name, children: make(map[string]*Namespace)}
}

// Child returns the nested namespace named name, creating it if absent.
func (n *Namespace) Child(name string) *Namespace {
	if c, ok := n.children[name]; ok {
		return c
	}
	c := &Namespace{Name: name, parent: n, children: make(map[string]*Namespace)}
	n.children[name] = c
	return c
}

// QualifiedName builds the colon-joined full path from the root namespace
// down to n, e.g. "gel:io:fs".
func (n *Namespace) QualifiedName() string {
	var parts []string
	for cur := n; cur != nil; cur = cur.parent {
		parts = append([]string{cur.Name}, parts...)
	}
	return strings.Join(parts, ":")
}

// Qualify prefixes symbolName with n's qualified name.
func (n *Namespace) Qualify(symbolName string) string {
	return n.QualifiedName() + ":" + symbolName
}

// Package object implements gel's polymorphic value hierarchy: the value
// types the interpreter actually operates on (Bool, Long, Double, Pair,
// String, Symbol, Array, Error) plus the metadata types that describe them
// (Class, Field) and the callable types (Lambda, NativeProcedure, Macro).
//
// Value types implement heap.Object and are allocated, relocated and
// eventually reclaimed the way any other heap resident is. Class, Field,
// Lambda, NativeProcedure and Macro are deliberately NOT heap-managed: the
// original's Class::VisitPointers is NOT_IMPLEMENTED(FATAL)
// (original_source/Sources/gel/class.cc), so the original collector never
// actually relocated classes either. Here Classes and NativeProcedures live
// in a process-wide Registry (Lambdas in the Runtime's own table), addressed
// by a stable integer ID wherever bytecode needs to name one.
package object

import (
	"fmt"
	"sync"
)

// Class describes a runtime type: its name, its parent in the instanceof
// chain, and the Fields a Lambda built from it may hold. Grounded on
// gel::Class (original_source/Sources/gel/class.h, class.cc).
type Class struct {
	ID     int
	Name   string
	Parent *Class
	Fields []*Field
}

// Field describes one named slot on instances of a Class. Grounded on
// gel::Field (original_source/Sources/gel/class.h).
type Field struct {
	Name  string
	Index int
	Owner *Class
}

// IsInstanceOf reports whether c is class itself or a descendant of it,
// walking the parent chain exactly as gel::Class::IsInstanceOf does.
func (c *Class) IsInstanceOf(class *Class) bool {
	for cur := c; cur != nil; cur = cur.Parent {
		if cur == class || cur.Name == class.Name {
			return true
		}
	}
	return false
}

func (c *Class) String() string { return c.Name }

// Registry is the process-wide table of Class/NativeProcedure metadata
// (Lambdas are registered with the Runtime), addressed by bytecode via the
// integer IDs it hands out at registration time. There is exactly one Registry per Runtime.
type Registry struct {
	mu sync.RWMutex

	classesByName map[string]*Class
	classesByID   map[int]*Class
	nextClassID   int

	natives   map[int]*NativeProcedure
	nextNatID int
}

// NewRegistry builds a Registry preloaded with gel's built-in classes
// (Object at the root, then the concrete value classes).
func NewRegistry() *Registry {
	r := &Registry{
		classesByName: make(map[string]*Class),
		classesByID:   make(map[int]*Class),
		natives:       make(map[int]*NativeProcedure),
	}
	r.registerBuiltinClasses()
	return r
}

func (r *Registry) registerBuiltinClasses() {
	object := r.DefineClass("Object", nil)
	for _, name := range []string{
		"Null", "Bool", "Long", "Double", "Pair", "String", "Symbol",
		"Array", "Error", "Lambda", "NativeProcedure", "Macro", "Class",
	} {
		r.DefineClass(name, object)
	}
}

// DefineClass registers a new Class named name descending from parent
// (nil for a root class) and returns it. Redefining an existing name
// returns the existing Class unchanged, matching gel's class table being
// append-only at runtime.
func (r *Registry) DefineClass(name string, parent *Class) *Class {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.classesByName[name]; ok {
		return existing
	}
	c := &Class{ID: r.nextClassID, Name: name, Parent: parent}
	r.nextClassID++
	r.classesByName[name] = c
	r.classesByID[c.ID] = c
	return c
}

// FindClass looks a Class up by name.
func (r *Registry) FindClass(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classesByName[name]
	return c, ok
}

// ClassByID looks a Class up by its registration ID, the form bytecode's
// checkinstance/new operands actually carry.
func (r *Registry) ClassByID(id int) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classesByID[id]
	return c, ok
}

// RegisterNative assigns proc a fresh ID and returns it, so bytecode
// invoking it can do so by integer operand rather than by name lookup on
// every call.
func (r *Registry) RegisterNative(proc *NativeProcedure) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextNatID
	r.nextNatID++
	proc.ID = id
	r.natives[id] = proc
	return id
}

// NativeByID resolves a previously registered NativeProcedure.
func (r *Registry) NativeByID(id int) (*NativeProcedure, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.natives[id]
	return p, ok
}

// MustFindClass panics if name isn't registered; reserved for built-in
// lookups that must never fail (e.g. the interpreter's own use of Bool,
// Long and friends).
func (r *Registry) MustFindClass(name string) *Class {
	c, ok := r.FindClass(name)
	if !ok {
		panic(fmt.Sprintf("object: class %q is not registered", name))
	}
	return c
}

// Package model defines the code objects stored in a registry.
package model

import (
	"sort"
	"strings"
)

// Kind identifies what a CodeObject represents.
type Kind string

const (
	Namespace Kind = "namespace"
	Class     Kind = "class"
	Constant  Kind = "constant"
	Attribute Kind = "attribute"
)

// Separators used when building paths.
const (
	NamespaceSep = "::"
	InstanceSep  = "#"
)

// Accessors records which accessor methods exist for an attribute.
type Accessors struct {
	Read  bool
	Write bool
}

// Merge returns the union of both accessor sets.
func (a Accessors) Merge(b Accessors) Accessors {
	return Accessors{Read: a.Read || b.Read, Write: a.Write || b.Write}
}

// CodeObject is a named program entity. Its identity is its Path.
type CodeObject struct {
	Name string
	Kind Kind

	// Namespace is the owning namespace. It is nil only for the root.
	Namespace *CodeObject

	Source     string
	Docstring  string
	Value      string
	Superclass string
	File       string
	Line       int

	// Attributes maps attribute names to their accessors (classes and
	// namespaces only).
	Attributes map[string]Accessors

	children map[string]*CodeObject
}

// NewRoot returns an unnamed root namespace.
func NewRoot() *CodeObject {
	return &CodeObject{Kind: Namespace}
}

// IsRoot reports whether o is a registry root.
func (o *CodeObject) IsRoot() bool {
	return o.Namespace == nil
}

// IsNamespace reports whether o can own children.
func (o *CodeObject) IsNamespace() bool {
	return o.Kind == Namespace || o.Kind == Class
}

// Path returns the fully-qualified path, e.g. "A::B::FOO" or "A::B#attr".
// The root's path is "".
func (o *CodeObject) Path() string {
	if o.IsRoot() {
		return ""
	}
	sep := NamespaceSep
	if o.Kind == Attribute {
		sep = InstanceSep
	}
	return Join(o.Namespace.Path(), sep, o.Name)
}

// Join appends name to a parent path using sep.
func Join(parent, sep, name string) string {
	if parent == "" && sep == NamespaceSep {
		return name
	}
	return parent + sep + name
}

// Split breaks a "::"-separated path into its segments.
func Split(path string) []string {
	path = strings.TrimPrefix(path, NamespaceSep)
	if path == "" {
		return nil
	}
	return strings.Split(path, NamespaceSep)
}

// Child returns the direct child with the given local name.
func (o *CodeObject) Child(name string) *CodeObject {
	return o.children[name]
}

// Children returns direct children sorted by name.
func (o *CodeObject) Children() []*CodeObject {
	out := make([]*CodeObject, 0, len(o.children))
	for _, c := range o.children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// AddChild links c under o. Attribute objects are keyed with the instance
// separator so they never shadow a constant of the same name.
func (o *CodeObject) AddChild(c *CodeObject) {
	if o.children == nil {
		o.children = make(map[string]*CodeObject)
	}
	c.Namespace = o
	o.children[childKey(c)] = c
}

func childKey(c *CodeObject) string {
	if c.Kind == Attribute {
		return InstanceSep + c.Name
	}
	return c.Name
}

// SetAttribute merges accessors into the attribute map entry for name.
func (o *CodeObject) SetAttribute(name string, acc Accessors) {
	if o.Attributes == nil {
		o.Attributes = make(map[string]Accessors)
	}
	o.Attributes[name] = o.Attributes[name].Merge(acc)
}

// AttributeNames returns the sorted attribute names.
func (o *CodeObject) AttributeNames() []string {
	names := make([]string, 0, len(o.Attributes))
	for name := range o.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Depth returns the number of namespaces above o.
func (o *CodeObject) Depth() int {
	d := 0
	for ns := o.Namespace; ns != nil; ns = ns.Namespace {
		d++
	}
	return d
}

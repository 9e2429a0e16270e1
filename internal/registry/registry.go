// Package registry stores code objects by path and persists them to a
// cache file.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/phobologic/rbdoc/internal/model"
)

var (
	// ErrConflict is matched by errors.Is for every *ConflictError.
	ErrConflict = errors.New("registry conflict")
	// ErrUnsupportedFormat is returned when a cache file was not written by
	// rbdoc or was written by a newer version.
	ErrUnsupportedFormat = errors.New("unsupported cache format")
)

// ConflictError reports an Add at a path already taken by an object of a
// different kind. The registered object is left unchanged.
type ConflictError struct {
	Path     string
	Existing model.Kind
	Incoming model.Kind
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s is already registered as a %s, cannot redefine it as a %s",
		e.Path, e.Existing, e.Incoming)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// Registry is the object graph of one source tree: a root namespace plus a
// flat path index. It is not safe for concurrent mutation.
type Registry struct {
	root  *model.CodeObject
	index map[string]*model.CodeObject
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		root:  model.NewRoot(),
		index: make(map[string]*model.CodeObject),
	}
}

// Root returns the root namespace.
func (r *Registry) Root() *model.CodeObject {
	return r.root
}

// Len returns the number of registered objects, excluding the root.
func (r *Registry) Len() int {
	return len(r.index)
}

// Add registers obj under obj.Namespace (the root when nil). If an object
// of the same kind already exists at that path it is reopened: non-empty
// fields of obj overwrite it and attributes are merged. The registered
// instance is returned.
func (r *Registry) Add(obj *model.CodeObject) (*model.CodeObject, error) {
	if obj.Name == "" {
		return nil, fmt.Errorf("registry: cannot add unnamed %s", obj.Kind)
	}
	parent := obj.Namespace
	if parent == nil {
		parent = r.root
	}
	if parent != r.root && r.index[parent.Path()] != parent {
		return nil, fmt.Errorf("registry: namespace %q is not registered", parent.Path())
	}
	if !parent.IsNamespace() {
		return nil, fmt.Errorf("registry: %s %q cannot own %q", parent.Kind, parent.Path(), obj.Name)
	}

	sep := model.NamespaceSep
	if obj.Kind == model.Attribute {
		sep = model.InstanceSep
	}
	path := model.Join(parent.Path(), sep, obj.Name)

	if existing, ok := r.index[path]; ok {
		if existing.Kind != obj.Kind {
			return nil, &ConflictError{Path: path, Existing: existing.Kind, Incoming: obj.Kind}
		}
		reopen(existing, obj)
		return existing, nil
	}

	parent.AddChild(obj)
	r.index[path] = obj
	return obj, nil
}

func reopen(dst, src *model.CodeObject) {
	if src.Source != "" {
		dst.Source = src.Source
	}
	if src.Docstring != "" {
		dst.Docstring = src.Docstring
	}
	if src.Value != "" {
		dst.Value = src.Value
	}
	if src.Superclass != "" {
		dst.Superclass = src.Superclass
	}
	if src.File != "" {
		dst.File = src.File
		dst.Line = src.Line
	}
	for name, acc := range src.Attributes {
		dst.SetAttribute(name, acc)
	}
}

// At returns the object registered at exactly path, or nil. A leading "::"
// is ignored and "" names the root.
func (r *Registry) At(path string) *model.CodeObject {
	path = strings.TrimPrefix(path, model.NamespaceSep)
	if path == "" {
		return r.root
	}
	return r.index[path]
}

// Resolve looks name up lexically: first inside ns, then in each enclosing
// namespace out to the root. A name starting with "::" is absolute.
func (r *Registry) Resolve(ns *model.CodeObject, name string) *model.CodeObject {
	if strings.HasPrefix(name, model.NamespaceSep) {
		return r.At(name)
	}
	if ns == nil {
		ns = r.root
	}
	for scope := ns; scope != nil; scope = scope.Namespace {
		if obj := r.At(model.Join(scope.Path(), model.NamespaceSep, name)); obj != nil {
			return obj
		}
	}
	return nil
}

// All returns every registered object, parents before children.
func (r *Registry) All() []*model.CodeObject {
	out := make([]*model.CodeObject, 0, len(r.index))
	for _, obj := range r.index {
		out = append(out, obj)
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].Depth(), out[j].Depth()
		if di != dj {
			return di < dj
		}
		return out[i].Path() < out[j].Path()
	})
	return out
}

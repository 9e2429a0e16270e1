package model

import (
	"reflect"
	"testing"
)

func TestPath(t *testing.T) {
	t.Parallel()

	root := NewRoot()
	a := &CodeObject{Name: "A", Kind: Namespace}
	root.AddChild(a)
	b := &CodeObject{Name: "B", Kind: Class}
	a.AddChild(b)
	c := &CodeObject{Name: "FOO", Kind: Constant}
	b.AddChild(c)
	attr := &CodeObject{Name: "size", Kind: Attribute}
	b.AddChild(attr)
	top := &CodeObject{Name: "top", Kind: Attribute}
	root.AddChild(top)

	tests := []struct {
		obj  *CodeObject
		want string
	}{
		{root, ""},
		{a, "A"},
		{b, "A::B"},
		{c, "A::B::FOO"},
		{attr, "A::B#size"},
		{top, "#top"},
	}
	for _, tt := range tests {
		if got := tt.obj.Path(); got != tt.want {
			t.Errorf("Path() = %q, want %q", got, tt.want)
		}
	}
	if c.Depth() != 3 {
		t.Errorf("Depth() = %d, want 3", c.Depth())
	}
}

func TestChildrenKeyedByKind(t *testing.T) {
	t.Parallel()

	ns := &CodeObject{Name: "K", Kind: Class}
	ns.AddChild(&CodeObject{Name: "Size", Kind: Constant})
	ns.AddChild(&CodeObject{Name: "Size", Kind: Attribute})

	if got := len(ns.Children()); got != 2 {
		t.Fatalf("children = %d, want 2", got)
	}
	if ns.Child("Size").Kind != Constant {
		t.Errorf("Child(Size) kind = %q, want constant", ns.Child("Size").Kind)
	}
}

func TestSetAttributeMerges(t *testing.T) {
	t.Parallel()

	o := &CodeObject{Name: "K", Kind: Class}
	o.SetAttribute("a", Accessors{Read: true})
	o.SetAttribute("a", Accessors{Write: true})
	o.SetAttribute("b", Accessors{Read: true})

	if got := o.Attributes["a"]; got != (Accessors{Read: true, Write: true}) {
		t.Errorf("a = %+v", got)
	}
	if got := o.AttributeNames(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("AttributeNames() = %v", got)
	}
}

func TestSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"A", []string{"A"}},
		{"A::B::C", []string{"A", "B", "C"}},
		{"::A::B", []string{"A", "B"}},
	}
	for _, tt := range tests {
		if got := Split(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Split(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

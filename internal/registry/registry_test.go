package registry

import (
	"errors"
	"testing"

	"github.com/phobologic/rbdoc/internal/model"
)

func mustAdd(t *testing.T, r *Registry, obj *model.CodeObject) *model.CodeObject {
	t.Helper()
	got, err := r.Add(obj)
	if err != nil {
		t.Fatalf("Add(%s): %v", obj.Name, err)
	}
	return got
}

func TestAddAndAt(t *testing.T) {
	t.Parallel()

	r := New()
	a := mustAdd(t, r, &model.CodeObject{Name: "A", Kind: model.Namespace})
	b := mustAdd(t, r, &model.CodeObject{Name: "B", Kind: model.Class, Namespace: a})
	mustAdd(t, r, &model.CodeObject{Name: "FOO", Kind: model.Constant, Namespace: b, Value: "1"})

	if got := r.At("A::B::FOO"); got == nil || got.Value != "1" {
		t.Fatalf("At(A::B::FOO) = %+v", got)
	}
	if got := r.At("::A::B"); got != b {
		t.Errorf("At(::A::B) = %+v, want B", got)
	}
	if r.At("") != r.Root() {
		t.Error("At(\"\") should return the root")
	}
	if r.At("FOO") != nil {
		t.Error("At must not resolve fuzzily")
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
}

func TestAddReopen(t *testing.T) {
	t.Parallel()

	r := New()
	first := mustAdd(t, r, &model.CodeObject{Name: "K", Kind: model.Class, Docstring: "doc", Superclass: "Base"})
	first.SetAttribute("a", model.Accessors{Read: true})

	reopened := &model.CodeObject{Name: "K", Kind: model.Class, Source: "class K"}
	reopened.SetAttribute("a", model.Accessors{Write: true})
	got := mustAdd(t, r, reopened)

	if got != first {
		t.Fatal("reopen should return the registered instance")
	}
	if got.Docstring != "doc" || got.Superclass != "Base" {
		t.Errorf("empty fields overwrote existing: %+v", got)
	}
	if got.Source != "class K" {
		t.Errorf("source = %q", got.Source)
	}
	if acc := got.Attributes["a"]; !acc.Read || !acc.Write {
		t.Errorf("accessors not merged: %+v", acc)
	}
}

func TestAddConflict(t *testing.T) {
	t.Parallel()

	r := New()
	orig := mustAdd(t, r, &model.CodeObject{Name: "X", Kind: model.Constant, Value: "1"})

	_, err := r.Add(&model.CodeObject{Name: "X", Kind: model.Class})
	if err == nil {
		t.Fatal("expected conflict")
	}
	if !errors.Is(err, ErrConflict) {
		t.Errorf("errors.Is(err, ErrConflict) = false for %v", err)
	}
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("error type = %T", err)
	}
	if ce.Path != "X" || ce.Existing != model.Constant || ce.Incoming != model.Class {
		t.Errorf("conflict = %+v", ce)
	}
	if r.At("X") != orig || orig.Kind != model.Constant || orig.Value != "1" {
		t.Error("original object should be unchanged")
	}
}

func TestAddRejectsUnregisteredNamespace(t *testing.T) {
	t.Parallel()

	r := New()
	stray := &model.CodeObject{Name: "Stray", Kind: model.Namespace}
	model.NewRoot().AddChild(stray)

	if _, err := r.Add(&model.CodeObject{Name: "X", Kind: model.Constant, Namespace: stray}); err == nil {
		t.Error("expected error for namespace outside the registry")
	}

	c := mustAdd(t, r, &model.CodeObject{Name: "C", Kind: model.Constant})
	if _, err := r.Add(&model.CodeObject{Name: "Y", Kind: model.Constant, Namespace: c}); err == nil {
		t.Error("constants cannot own children")
	}
}

func TestAttributePaths(t *testing.T) {
	t.Parallel()

	r := New()
	k := mustAdd(t, r, &model.CodeObject{Name: "K", Kind: model.Class})
	mustAdd(t, r, &model.CodeObject{Name: "a", Kind: model.Attribute, Namespace: k})

	if got := r.At("K#a"); got == nil || got.Kind != model.Attribute {
		t.Errorf("At(K#a) = %+v", got)
	}
	if r.At("K::a") != nil {
		t.Error("attribute should not be reachable with ::")
	}
}

func TestResolveLexical(t *testing.T) {
	t.Parallel()

	r := New()
	a := mustAdd(t, r, &model.CodeObject{Name: "A", Kind: model.Namespace})
	b := mustAdd(t, r, &model.CodeObject{Name: "B", Kind: model.Namespace, Namespace: a})
	top := mustAdd(t, r, &model.CodeObject{Name: "TOP", Kind: model.Constant})
	inA := mustAdd(t, r, &model.CodeObject{Name: "X", Kind: model.Constant, Namespace: a})
	inB := mustAdd(t, r, &model.CodeObject{Name: "X", Kind: model.Constant, Namespace: b})

	tests := []struct {
		name string
		ns   *model.CodeObject
		in   string
		want *model.CodeObject
	}{
		{"innermost wins", b, "X", inB},
		{"outer scope", a, "X", inA},
		{"root from nested", b, "TOP", top},
		{"qualified", r.Root(), "A::B::X", inB},
		{"absolute", b, "::A::X", inA},
		{"nil scope means root", nil, "A", a},
		{"missing", b, "Nope", nil},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := r.Resolve(tt.ns, tt.in); got != tt.want {
				t.Errorf("Resolve(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAllOrdersParentsFirst(t *testing.T) {
	t.Parallel()

	r := New()
	a := mustAdd(t, r, &model.CodeObject{Name: "Z", Kind: model.Namespace})
	mustAdd(t, r, &model.CodeObject{Name: "A", Kind: model.Constant, Namespace: a})
	mustAdd(t, r, &model.CodeObject{Name: "B", Kind: model.Constant})

	var paths []string
	for _, o := range r.All() {
		paths = append(paths, o.Path())
	}
	want := []string{"B", "Z", "Z::A"}
	if len(paths) != len(want) {
		t.Fatalf("All() = %v", paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("All()[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

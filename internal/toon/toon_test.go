package toon

import (
	"strings"
	"testing"

	"github.com/phobologic/rbdoc/internal/model"
)

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", `""`},
		{"simple", "hello", "hello"},
		{"leading space", " hello", `" hello"`},
		{"trailing space", "hello ", `"hello "`},
		{"newline", "A +\nB", `"A +\nB"`},
		{"tab", "a\tb", `"a\tb"`},
		{"carriage return", "a\rb", `"a\rb"`},
		{"true keyword", "true", `"true"`},
		{"True keyword", "True", `"True"`},
		{"null keyword", "null", `"null"`},
		{"integer", "42", "42"},
		{"float", "3.14", "3.14"},
		{"comma", "a,b", `"a,b"`},
		{"scoped path", "A::B", `"A::B"`},
		{"symbol", ":x", `":x"`},
		{"quote", `"hello"`, `"\"hello\""`},
		{"backslash", `a\b`, `"a\\b"`},
		{"bracket", "[1, 2]", `"[1, 2]"`},
		{"brace", "a{b", `"a{b"`},
		{"dash prefix", "-foo", `"-foo"`},
		{"file path", "lib/shapes.rb", "lib/shapes.rb"},
		{"instance path", "Point#x", "Point#x"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := encodeValue(tt.in)
			if got != tt.want {
				t.Errorf("encodeValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncodeClass(t *testing.T) {
	t.Parallel()

	root := model.NewRoot()
	shapes := &model.CodeObject{Name: "Shapes", Kind: model.Namespace}
	root.AddChild(shapes)
	point := &model.CodeObject{
		Name:       "Point",
		Kind:       model.Class,
		Source:     "Point = Struct.new(:x, :y)",
		Docstring:  "A 2D point.",
		Superclass: "Struct",
		File:       "lib/shapes.rb",
		Line:       5,
	}
	point.SetAttribute("x", model.Accessors{Read: true, Write: true})
	point.SetAttribute("y", model.Accessors{Read: true})
	shapes.AddChild(point)
	point.AddChild(&model.CodeObject{Name: "x", Kind: model.Attribute})
	point.AddChild(&model.CodeObject{Name: "ORIGIN", Kind: model.Constant})

	got := Encode(point)

	want := []string{
		`path: "Shapes::Point"`,
		"kind: class",
		"file: lib/shapes.rb",
		"line: 5",
		"superclass: Struct",
		`source: "Point = Struct.new(:x, :y)"`,
		"doc: A 2D point.",
		"attributes[2]{name,access}:",
		"  x,rw",
		"  y,r",
		"children[1]{name,kind}:",
		"  ORIGIN,constant",
	}
	lines := strings.Split(got, "\n")
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), got)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestEncodeConstant(t *testing.T) {
	t.Parallel()

	c := &model.CodeObject{Name: "MYCONSTANT", Kind: model.Constant, Value: "A +\nB"}
	model.NewRoot().AddChild(c)

	got := Encode(c)
	if got != "path: MYCONSTANT\nkind: constant\nvalue: \"A +\\nB\"" {
		t.Errorf("got:\n%s", got)
	}
	if strings.Contains(got, "attributes[") {
		t.Error("constants should not list attributes")
	}
}

package syntax

import (
	"context"
	"errors"
	"testing"
)

func mustParse(t *testing.T, source string) *Node {
	t.Helper()
	root, err := Parse(context.Background(), []byte(source))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return root
}

func TestParseAssignment(t *testing.T) {
	t.Parallel()

	root := mustParse(t, "FOO = \"hello\"\n")
	if root.Kind() != "program" {
		t.Fatalf("root kind = %q, want program", root.Kind())
	}
	if len(root.Children()) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(root.Children()))
	}
	asgn := root.Children()[0]
	if asgn.Kind() != "assignment" {
		t.Fatalf("kind = %q, want assignment", asgn.Kind())
	}
	left := asgn.Child("left")
	if left == nil || left.Text() != "FOO" {
		t.Fatalf("left = %+v", left)
	}
	right := asgn.Child("right")
	if right == nil {
		t.Fatal("missing right")
	}
	v, ok := right.Literal()
	if !ok || v != "hello" {
		t.Errorf("Literal() = %q, %v; want hello, true", v, ok)
	}
	if asgn.Start() != (Position{Line: 1, Column: 0}) {
		t.Errorf("start = %v", asgn.Start())
	}
}

func TestParseLiterals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   string
		ok     bool
	}{
		{"double quoted", `X = "a b"`, "a b", true},
		{"single quoted", `X = 'a'`, "a", true},
		{"empty string", `X = ""`, "", true},
		{"integer", `X = 42`, "42", true},
		{"float", `X = 1.5`, "1.5", true},
		{"symbol", `X = :sym`, "sym", true},
		{"nil", `X = nil`, "nil", true},
		{"true", `X = true`, "true", true},
		{"interpolated", `X = "a #{b}"`, "", false},
		{"expression", `X = A + B`, "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			root := mustParse(t, tt.source+"\n")
			right := root.Children()[0].Child("right")
			got, ok := right.Literal()
			if ok != tt.ok || got != tt.want {
				t.Errorf("Literal() = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParsePreservesMultilineText(t *testing.T) {
	t.Parallel()

	root := mustParse(t, "X = A +\nB +\nC\n")
	right := root.Children()[0].Child("right")
	if right.Text() != "A +\nB +\nC" {
		t.Errorf("text = %q", right.Text())
	}
	if right.End().Line != 3 {
		t.Errorf("end line = %d, want 3", right.End().Line)
	}
}

func TestParseDocComments(t *testing.T) {
	t.Parallel()

	source := `# A widget.
# Second line.
class Widget
end

# detached

X = 1 # trailing
Y = 2
`
	root := mustParse(t, source)

	var class, y *Node
	for _, c := range root.Children() {
		switch {
		case c.Kind() == "class":
			class = c
		case c.Kind() == "assignment" && c.Child("left").Text() == "Y":
			y = c
		}
	}
	if class == nil || y == nil {
		t.Fatalf("missing nodes in %d children", len(root.Children()))
	}
	if class.Doc() != "A widget.\nSecond line." {
		t.Errorf("class doc = %q", class.Doc())
	}
	if y.Doc() != "" {
		t.Errorf("trailing comment leaked into doc: %q", y.Doc())
	}
}

func TestParseError(t *testing.T) {
	t.Parallel()

	source := "A = 1\nB = 2\n)\nC = 3\n"
	root, err := Parse(context.Background(), []byte(source))
	if err == nil {
		t.Fatal("expected parse error")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
	if pe.Pos.Line != 3 {
		t.Errorf("error line = %d, want 3", pe.Pos.Line)
	}
	if root == nil {
		t.Fatal("partial tree should be returned")
	}

	prefix := root.Before(pe.Pos)
	if len(prefix.Children()) == 0 {
		t.Fatal("prefix should keep statements before the error")
	}
	if got := prefix.Children()[0].Text(); got != "A = 1" {
		t.Errorf("first statement = %q", got)
	}
	for _, c := range prefix.Children() {
		if c.HasError() || c.Start().Line >= 3 {
			t.Errorf("prefix kept %q", c.Text())
		}
	}
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	root := mustParse(t, "")
	if len(root.Children()) != 0 {
		t.Errorf("expected no children, got %d", len(root.Children()))
	}
}

func TestParseErrorMessage(t *testing.T) {
	t.Parallel()

	e := &ParseError{File: "lib/a.rb", Pos: Position{Line: 3, Column: 2}, Msg: "syntax error"}
	if got := e.Error(); got != "lib/a.rb:3:2: syntax error" {
		t.Errorf("Error() = %q", got)
	}
}

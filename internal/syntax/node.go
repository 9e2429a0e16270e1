// Package syntax turns Ruby source text into an immutable syntax tree.
//
// The tree is copied out of tree-sitter so that callers never hold onto
// C-owned memory: every Node keeps its kind, the field name it occupies in
// its parent, its source span and text, its named children, and the comment
// block written directly above it.
package syntax

import (
	"fmt"
	"strings"

	"github.com/phobologic/rbdoc/internal/lang"
)

// Position is a location in source text. Line is 1-based, Column is a
// 0-based byte offset within the line.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Less reports whether p comes before q.
func (p Position) Less(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

// Node is a named syntax tree node. Nodes are never mutated after Parse
// returns them.
type Node struct {
	kind      string
	field     string
	start     Position
	end       Position
	startByte uint32
	endByte   uint32
	source    []byte
	children  []*Node
	doc       string
	hasError  bool
}

// Kind returns the grammar kind, e.g. "assignment" or "class".
func (n *Node) Kind() string { return n.kind }

// Field returns the field name this node occupies in its parent, or "".
func (n *Node) Field() string { return n.field }

// Start returns the position of the first byte of the node.
func (n *Node) Start() Position { return n.start }

// End returns the position just past the last byte of the node.
func (n *Node) End() Position { return n.end }

// Text returns the exact source text covered by the node.
func (n *Node) Text() string {
	return string(n.source[n.startByte:n.endByte])
}

// Children returns the named children in source order, comments included.
func (n *Node) Children() []*Node { return n.children }

// Doc returns the comment block directly preceding the node, with comment
// markers removed. Lines are joined with "\n".
func (n *Node) Doc() string { return n.doc }

// HasError reports whether the node is, or contains, a syntax error.
func (n *Node) HasError() bool { return n.hasError }

// Child returns the first child stored under the given field name.
func (n *Node) Child(field string) *Node {
	for _, c := range n.children {
		if c.field == field {
			return c
		}
	}
	return nil
}

// ChildOfKind returns the first child with the given kind.
func (n *Node) ChildOfKind(kind string) *Node {
	for _, c := range n.children {
		if c.kind == kind {
			return c
		}
	}
	return nil
}

// Literal returns the value of a literal node: string contents without
// quotes, symbol names without the leading colon, numbers and keywords as
// written. Strings with interpolation are not literals.
func (n *Node) Literal() (string, bool) {
	switch n.kind {
	case lang.KindString:
		if n.ChildOfKind(lang.KindInterpolation) != nil {
			return "", false
		}
		return stringValue(n), true
	case lang.KindSimpleSymbol, lang.KindSymbol:
		if n.ChildOfKind(lang.KindInterpolation) != nil {
			return "", false
		}
		return strings.TrimPrefix(n.Text(), ":"), true
	case "hash_key_symbol", "integer", "float", "rational", "complex", "true", "false", "nil":
		return n.Text(), true
	}
	return "", false
}

func stringValue(n *Node) string {
	text := n.Text()
	if len(text) >= 2 {
		q := text[0]
		if (q == '"' || q == '\'') && text[len(text)-1] == q {
			return text[1 : len(text)-1]
		}
	}
	var b strings.Builder
	for _, c := range n.children {
		if c.kind == lang.KindStringContent || c.kind == "escape_sequence" {
			b.WriteString(c.Text())
		}
	}
	return b.String()
}

// Before returns a copy of the root node that keeps only the leading
// top-level statements which end at or before pos and contain no error.
func (n *Node) Before(pos Position) *Node {
	out := *n
	out.children = nil
	out.hasError = false
	for _, c := range n.children {
		if c.hasError || pos.Less(c.end) {
			break
		}
		out.children = append(out.children, c)
	}
	return &out
}

package syntax

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/rbdoc/internal/lang"
)

// ParseError reports malformed syntax. The tree returned alongside it is
// still usable up to Pos.
type ParseError struct {
	File string
	Pos  Position
	Msg  string
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%s: %s", e.File, e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Parser wraps a tree-sitter Ruby parser. It is not safe for concurrent use.
type Parser struct {
	ts *sitter.Parser
}

// NewParser creates a Ruby parser.
func NewParser() *Parser {
	return &Parser{ts: lang.Languages[lang.Ruby].NewParser()}
}

// Parse parses source into a syntax tree. On malformed input it returns the
// partial tree together with a *ParseError locating the first problem.
func Parse(ctx context.Context, source []byte) (*Node, error) {
	return NewParser().Parse(ctx, source)
}

// Parse parses source into a syntax tree. See the package-level Parse.
func (p *Parser) Parse(ctx context.Context, source []byte) (*Node, error) {
	src := append([]byte(nil), source...)

	tree, err := p.ts.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	defer tree.Close()

	tsRoot := tree.RootNode()
	root := convert(tsRoot, "", src)

	if tsRoot.HasError() {
		bad := firstError(tsRoot)
		if bad == nil {
			bad = tsRoot
		}
		msg := "syntax error"
		if bad.IsMissing() {
			msg = fmt.Sprintf("missing %q", bad.Type())
		} else if bad.Type() == lang.KindError {
			msg = fmt.Sprintf("unexpected %s", summarize(lang.NodeText(bad, src)))
		}
		return root, &ParseError{Pos: point(bad.StartPoint()), Msg: msg}
	}
	return root, nil
}

func convert(n *sitter.Node, field string, source []byte) *Node {
	out := &Node{
		kind:      n.Type(),
		field:     field,
		start:     point(n.StartPoint()),
		end:       point(n.EndPoint()),
		startByte: n.StartByte(),
		endByte:   n.EndByte(),
		source:    source,
		hasError:  n.HasError() || n.IsMissing(),
	}

	var comments []*Node
	lastEnd := 0
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil || !c.IsNamed() {
			continue
		}
		child := convert(c, n.FieldNameForChild(i), source)
		out.children = append(out.children, child)

		if child.kind == lang.KindComment {
			// Trailing comments on the previous statement's line never
			// document the next statement.
			if child.start.Line == lastEnd {
				comments = nil
				continue
			}
			if len(comments) > 0 && comments[len(comments)-1].end.Line+1 != child.start.Line {
				comments = nil
			}
			comments = append(comments, child)
			continue
		}
		if len(comments) > 0 && comments[len(comments)-1].end.Line+1 == child.start.Line {
			child.doc = docText(comments)
		}
		comments = nil
		lastEnd = child.end.Line
	}
	return out
}

func docText(comments []*Node) string {
	lines := make([]string, 0, len(comments))
	for _, c := range comments {
		line := strings.TrimPrefix(c.Text(), "#")
		line = strings.TrimPrefix(line, " ")
		lines = append(lines, strings.TrimRight(line, " \t\r"))
	}
	return strings.Join(lines, "\n")
}

// firstError locates the earliest offending node. Inside an ERROR node the
// leading well-formed statements are skipped so the position points at the
// first stray token rather than the start of the recovered region.
func firstError(n *sitter.Node) *sitter.Node {
	if n.IsMissing() {
		return n
	}
	if n.IsError() {
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c == nil || c.IsNamed() && !c.HasError() && !c.IsError() {
				continue
			}
			if c.HasError() && !c.IsError() {
				if bad := firstError(c); bad != nil {
					return bad
				}
			}
			return c
		}
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil || !c.HasError() && !c.IsMissing() {
			continue
		}
		if bad := firstError(c); bad != nil {
			return bad
		}
	}
	return nil
}

func point(p sitter.Point) Position {
	return Position{Line: int(p.Row) + 1, Column: int(p.Column)}
}

func summarize(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 20 {
		s = s[:20] + "..."
	}
	return fmt.Sprintf("%q", s)
}

package handler

import (
	"regexp"
	"strings"

	"github.com/phobologic/rbdoc/internal/lang"
	"github.com/phobologic/rbdoc/internal/model"
	"github.com/phobologic/rbdoc/internal/syntax"
)

var constantNameRe = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*$`)

// dynamicKinds are right-hand sides whose value only exists at run time.
var dynamicKinds = map[string]struct{}{
	"while":           {},
	"until":           {},
	"for":             {},
	"while_modifier":  {},
	"until_modifier":  {},
	"begin":           {},
	lang.KindLambda:   {},
	"if":              {},
	"unless":          {},
	"case":            {},
	"case_match":      {},
	"if_modifier":     {},
	"unless_modifier": {},
	"rescue_modifier": {},
	"conditional":     {},
	"yield":           {},
}

func isConstantName(s string) bool {
	return constantNameRe.MatchString(s)
}

// constantPath splits a constant or scope_resolution node into segments.
// absolute is true for "::Foo" forms. ok is false when any segment is not a
// constant name (e.g. "foo::Bar").
func constantPath(n *syntax.Node) (segments []string, absolute, ok bool) {
	if n == nil {
		return nil, false, false
	}
	switch n.Kind() {
	case lang.KindConstant:
		return []string{n.Text()}, false, true
	case lang.KindScopeResolution:
		text := n.Text()
		absolute = strings.HasPrefix(text, model.NamespaceSep)
		segments = model.Split(text)
		for _, s := range segments {
			if !isConstantName(strings.TrimSpace(s)) {
				return nil, false, false
			}
		}
		return segments, absolute, len(segments) > 0
	}
	return nil, false, false
}

// resolveParent finds the namespace that owns the last segment of a
// qualified name written inside ctx's current namespace. When create is
// set, missing intermediate namespaces are registered as modules.
func resolveParent(ctx *Context, n *syntax.Node, segments []string, absolute, create bool) (*model.CodeObject, error) {
	parent := ctx.Namespace()
	if absolute {
		parent = ctx.Registry.Root()
	}
	for i, seg := range segments[:len(segments)-1] {
		var next *model.CodeObject
		if i == 0 && !absolute {
			next = ctx.Registry.Resolve(parent, seg)
		} else {
			next = ctx.Registry.At(model.Join(parent.Path(), model.NamespaceSep, seg))
		}
		if next == nil {
			if !create {
				return nil, nil
			}
			obj := &model.CodeObject{Name: seg, Kind: model.Namespace, Namespace: parent}
			var err error
			if next, err = ctx.Register(obj, n); err != nil {
				return nil, err
			}
		}
		if !next.IsNamespace() {
			return nil, nil
		}
		parent = next
	}
	return parent, nil
}

// isDynamic reports whether an assignment's right-hand side is computed at
// run time in a way that makes its source text meaningless as a value.
func isDynamic(n *syntax.Node) bool {
	if _, ok := dynamicKinds[n.Kind()]; ok {
		return true
	}
	if n.Kind() == lang.KindCall || n.Kind() == lang.KindMethodCall {
		return callBlock(n) != nil
	}
	return false
}

// call describes a method call node in a grammar-version independent way.
type call struct {
	receiver string
	method   string
	args     []*syntax.Node
	block    *syntax.Node
}

// parseCall recognizes `recv.meth(args) { }` and `meth args` call shapes.
func parseCall(n *syntax.Node) (call, bool) {
	switch n.Kind() {
	case lang.KindCall:
		m := n.Child("method")
		if m == nil {
			return call{}, false
		}
		c := call{method: m.Text(), block: callBlock(n), args: callArgs(n)}
		if r := n.Child("receiver"); r != nil {
			c.receiver = r.Text()
		}
		return c, true
	case lang.KindMethodCall:
		// Older grammars wrap `recv.meth` in a method_call carrying the
		// arguments and block.
		m := n.Child("method")
		if m == nil {
			return call{}, false
		}
		c := call{method: m.Text(), block: callBlock(n), args: callArgs(n)}
		if m.Kind() == lang.KindCall {
			inner, ok := parseCall(m)
			if !ok {
				return call{}, false
			}
			c.receiver, c.method = inner.receiver, inner.method
		}
		return c, true
	}
	return call{}, false
}

func callArgs(n *syntax.Node) []*syntax.Node {
	list := n.Child("arguments")
	if list == nil {
		list = n.ChildOfKind(lang.KindArgumentList)
	}
	if list == nil {
		return nil
	}
	var args []*syntax.Node
	for _, a := range list.Children() {
		if a.Kind() != lang.KindComment {
			args = append(args, a)
		}
	}
	return args
}

func callBlock(n *syntax.Node) *syntax.Node {
	if b := n.Child("block"); b != nil {
		return b
	}
	if b := n.ChildOfKind(lang.KindDoBlock); b != nil {
		return b
	}
	return n.ChildOfKind(lang.KindBlock)
}

// symbolName returns the name written as :name, "name" or 'name'.
func symbolName(n *syntax.Node) (string, bool) {
	switch n.Kind() {
	case lang.KindSimpleSymbol, lang.KindSymbol, lang.KindString:
		return n.Literal()
	}
	return "", false
}

// bodyNodes returns the children of a class-like node that form its body.
func bodyNodes(n *syntax.Node, skipFields ...string) []*syntax.Node {
	var out []*syntax.Node
outer:
	for _, c := range n.Children() {
		for _, f := range skipFields {
			if c.Field() == f {
				continue outer
			}
		}
		if c.Kind() == lang.KindComment {
			continue
		}
		out = append(out, c)
	}
	return out
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimRight(s[:i], " \t\r")
	}
	return s
}

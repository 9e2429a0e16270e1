package handler

import (
	"strings"

	"github.com/phobologic/rbdoc/internal/lang"
	"github.com/phobologic/rbdoc/internal/model"
	"github.com/phobologic/rbdoc/internal/syntax"
)

// NamespaceHandler opens `module` and `class` bodies.
type NamespaceHandler struct{}

func (NamespaceHandler) Matches(n *syntax.Node, _ *Context) bool {
	return n.Kind() == lang.KindModule || n.Kind() == lang.KindClass
}

func (NamespaceHandler) Process(n *syntax.Node, ctx *Context) error {
	nameNode := n.Child("name")
	if nameNode == nil {
		nameNode = n.ChildOfKind(lang.KindConstant)
	}
	if nameNode == nil {
		nameNode = n.ChildOfKind(lang.KindScopeResolution)
	}
	segments, absolute, ok := constantPath(nameNode)
	if !ok {
		ctx.debug("declined namespace", "file", ctx.File, "line", n.Start().Line)
		return nil
	}

	parent, err := resolveParent(ctx, n, segments, absolute, true)
	if err != nil {
		return err
	}
	if parent == nil {
		return nil
	}

	kind := model.Namespace
	if n.Kind() == lang.KindClass {
		kind = model.Class
	}
	obj := &model.CodeObject{
		Name:      segments[len(segments)-1],
		Kind:      kind,
		Namespace: parent,
		Source:    firstLine(n.Text()),
		Docstring: n.Doc(),
	}
	if kind == model.Class {
		obj.Superclass = superclassOf(n, ctx, parent)
	}

	ns, err := ctx.Register(obj, n)
	if err != nil {
		return err
	}
	return ctx.Enter(ns, bodyNodes(n, "name", "superclass"))
}

// superclassOf returns the superclass path, qualified when it resolves to a
// known object from the class's lexical scope.
func superclassOf(n *syntax.Node, ctx *Context, scope *model.CodeObject) string {
	sc := n.Child("superclass")
	if sc == nil {
		sc = n.ChildOfKind("superclass")
	}
	if sc == nil {
		return ""
	}
	name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(sc.Text()), "<"))
	for _, c := range sc.Children() {
		if c.Kind() == lang.KindConstant || c.Kind() == lang.KindScopeResolution {
			name = c.Text()
			break
		}
	}
	if obj := ctx.Registry.Resolve(scope, name); obj != nil && obj.Kind == model.Class {
		return obj.Path()
	}
	return name
}

// SingletonClassHandler claims `class << self` bodies. Their constants and
// accessors belong to the singleton class, which has no path of its own, so
// nothing inside is documented.
type SingletonClassHandler struct{}

func (SingletonClassHandler) Matches(n *syntax.Node, _ *Context) bool {
	return n.Kind() == lang.KindSingletonClass
}

func (SingletonClassHandler) Process(n *syntax.Node, ctx *Context) error {
	ctx.debug("skipping singleton class body", "file", ctx.File, "line", n.Start().Line)
	return nil
}

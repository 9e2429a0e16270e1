package handler

import (
	"github.com/phobologic/rbdoc/internal/lang"
	"github.com/phobologic/rbdoc/internal/model"
	"github.com/phobologic/rbdoc/internal/syntax"
)

var attrAccessors = map[string]model.Accessors{
	"attr_reader":   {Read: true},
	"attr_writer":   {Write: true},
	"attr_accessor": {Read: true, Write: true},
}

// AttributeHandler documents attr_reader, attr_writer and attr_accessor
// declarations inside a class or module body.
type AttributeHandler struct{}

func (AttributeHandler) Matches(n *syntax.Node, _ *Context) bool {
	c, ok := parseCall(n)
	if !ok || c.receiver != "" {
		return false
	}
	_, ok = attrAccessors[c.method]
	return ok
}

func (AttributeHandler) Process(n *syntax.Node, ctx *Context) error {
	ns := ctx.Namespace()
	if ns.IsRoot() {
		return nil
	}
	c, _ := parseCall(n)
	acc := attrAccessors[c.method]

	for _, a := range c.args {
		name, ok := symbolName(a)
		if !ok || name == "" {
			continue
		}
		ns.SetAttribute(name, acc)
		if _, err := ctx.Register(&model.CodeObject{
			Name:      name,
			Kind:      model.Attribute,
			Namespace: ns,
			Source:    n.Text(),
			Docstring: n.Doc(),
		}, n); err != nil {
			return err
		}
	}
	return nil
}

// methodBodyCalls are receiverless calls whose block runs as a method or
// closure body rather than in the enclosing namespace.
var methodBodyCalls = map[string]struct{}{
	"define_method":           {},
	"define_singleton_method": {},
	"lambda":                  {},
	"proc":                    {},
}

// MethodHandler claims method definitions and closure bodies so nothing
// inside them is ever documented as a namespace member.
type MethodHandler struct{}

func (MethodHandler) Matches(n *syntax.Node, _ *Context) bool {
	switch n.Kind() {
	case lang.KindMethod, lang.KindSingletonMethod, lang.KindLambda:
		return true
	}
	c, ok := parseCall(n)
	if !ok || c.receiver != "" || c.block == nil {
		return false
	}
	_, ok = methodBodyCalls[c.method]
	return ok
}

func (MethodHandler) Process(n *syntax.Node, ctx *Context) error {
	ctx.debug("skipping method body", "file", ctx.File, "line", n.Start().Line)
	return nil
}

package handler

import (
	"github.com/phobologic/rbdoc/internal/lang"
	"github.com/phobologic/rbdoc/internal/model"
	"github.com/phobologic/rbdoc/internal/syntax"
)

// StructFactoryHandler turns `Const = Struct.new(...)` into a class whose
// attributes are the symbol arguments.
type StructFactoryHandler struct{}

func structCall(n *syntax.Node) (call, bool) {
	if n == nil {
		return call{}, false
	}
	c, ok := parseCall(n)
	if !ok || c.method != "new" {
		return call{}, false
	}
	return c, c.receiver == "Struct" || c.receiver == "::Struct"
}

func (StructFactoryHandler) Matches(n *syntax.Node, _ *Context) bool {
	if n.Kind() != lang.KindAssignment {
		return false
	}
	_, ok := structCall(n.Child("right"))
	return ok
}

func (StructFactoryHandler) Process(n *syntax.Node, ctx *Context) error {
	sc, _ := structCall(n.Child("right"))

	segments, absolute, ok := constantPath(n.Child("left"))
	if !ok {
		if ctx.Mode == ModeStrict {
			ctx.Undocumentable(n, "Struct.new assigned to a non-constant")
		}
		return nil
	}

	name := segments[len(segments)-1]
	args := sc.args
	if len(args) > 0 && args[0].Kind() == lang.KindString {
		explicit, ok := args[0].Literal()
		if !ok || !isConstantName(explicit) {
			return nil
		}
		name = explicit
		segments = []string{explicit}
		absolute = false
		args = args[1:]
	}

	parent, err := resolveParent(ctx, n, segments, absolute, false)
	if err != nil || parent == nil {
		return err
	}

	var attrs []string
	for _, a := range args {
		if a.Kind() == lang.KindSimpleSymbol || a.Kind() == lang.KindSymbol {
			if attr, ok := symbolName(a); ok {
				attrs = append(attrs, attr)
			}
		}
	}

	class := &model.CodeObject{
		Name:       name,
		Kind:       model.Class,
		Namespace:  parent,
		Source:     n.Text(),
		Docstring:  n.Doc(),
		Superclass: "Struct",
	}
	for _, attr := range attrs {
		class.SetAttribute(attr, model.Accessors{Read: true, Write: true})
	}
	cls, err := ctx.Register(class, n)
	if err != nil {
		return err
	}

	for _, attr := range attrs {
		if _, err := ctx.Register(&model.CodeObject{
			Name:      attr,
			Kind:      model.Attribute,
			Namespace: cls,
			Source:    n.Text(),
		}, n); err != nil {
			return err
		}
	}

	if sc.block != nil {
		return ctx.Enter(cls, sc.block.Children())
	}
	return nil
}

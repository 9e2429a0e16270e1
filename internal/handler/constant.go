package handler

import (
	"github.com/phobologic/rbdoc/internal/lang"
	"github.com/phobologic/rbdoc/internal/model"
	"github.com/phobologic/rbdoc/internal/syntax"
)

// ConstantHandler documents `NAME = value` assignments in namespace bodies.
type ConstantHandler struct{}

func (ConstantHandler) Matches(n *syntax.Node, _ *Context) bool {
	if n.Kind() != lang.KindAssignment {
		return false
	}
	left := n.Child("left")
	return left != nil && (left.Kind() == lang.KindConstant || left.Kind() == lang.KindScopeResolution)
}

func (ConstantHandler) Process(n *syntax.Node, ctx *Context) error {
	segments, absolute, ok := constantPath(n.Child("left"))
	if !ok {
		return nil
	}
	name := segments[len(segments)-1]
	if !isConstantName(name) {
		return nil
	}
	right := n.Child("right")
	value := assignedValue(right)
	if value == nil || isDynamic(value) {
		ctx.debug("declined dynamic constant", "name", name, "file", ctx.File, "line", n.Start().Line)
		return nil
	}

	parent, err := resolveParent(ctx, n, segments, absolute, false)
	if err != nil || parent == nil {
		return err
	}

	if _, err := ctx.Register(&model.CodeObject{
		Name:      name,
		Kind:      model.Constant,
		Namespace: parent,
		Source:    n.Text(),
		Docstring: n.Doc(),
		Value:     value.Text(),
	}, n); err != nil {
		return err
	}

	// X = Y = 3 also assigns Y.
	if right.Kind() == lang.KindAssignment {
		return ctx.dispatch(right)
	}
	return nil
}

// assignedValue follows a chain of assignments to the value they all share.
func assignedValue(n *syntax.Node) *syntax.Node {
	for n != nil && n.Kind() == lang.KindAssignment {
		n = n.Child("right")
	}
	return n
}

// Package handler converts Ruby syntax trees into registry objects.
//
// A Dispatcher walks the tree depth-first. At every node it asks each
// Handler, in table order, whether the node has the shape it handles; the
// first match processes the node and takes over its subtree. Nodes nobody
// claims are descended into without side effects. Handlers that open a new
// scope (modules, classes, Struct.new blocks) re-enter the dispatcher through
// Context.Enter with that scope pushed.
package handler

import (
	"github.com/charmbracelet/log"

	"github.com/phobologic/rbdoc/internal/model"
	"github.com/phobologic/rbdoc/internal/registry"
	"github.com/phobologic/rbdoc/internal/syntax"
)

// Handler extracts one syntactic construct.
type Handler interface {
	// Matches reports whether n has the shape this handler processes.
	Matches(n *syntax.Node, ctx *Context) bool
	// Process mutates the registry for n. Unsupported variants of a
	// matched shape are declined by returning nil without mutating.
	Process(n *syntax.Node, ctx *Context) error
}

// Mode selects how strictly unsupported-but-valid constructs are reported.
type Mode int

const (
	// ModeLenient silently ignores constructs that cannot be documented.
	ModeLenient Mode = iota
	// ModeStrict records an UndocumentableError diagnostic for them.
	ModeStrict
)

func (m Mode) String() string {
	if m == ModeStrict {
		return "strict"
	}
	return "lenient"
}

// DefaultHandlers returns the handler table, most specific first.
func DefaultHandlers() []Handler {
	return []Handler{
		StructFactoryHandler{},
		ConstantHandler{},
		AttributeHandler{},
		MethodHandler{},
		SingletonClassHandler{},
		NamespaceHandler{},
	}
}

// Dispatcher routes syntax nodes to handlers.
type Dispatcher struct {
	handlers []Handler
}

// NewDispatcher creates a dispatcher over handlers, or over
// DefaultHandlers when none are given.
func NewDispatcher(handlers ...Handler) *Dispatcher {
	if len(handlers) == 0 {
		handlers = DefaultHandlers()
	}
	return &Dispatcher{handlers: handlers}
}

// Run dispatches the whole tree rooted at root.
func (d *Dispatcher) Run(root *syntax.Node, ctx *Context) error {
	ctx.dispatcher = d
	return d.Dispatch(root, ctx)
}

// Dispatch hands n to the first matching handler, or walks its children.
func (d *Dispatcher) Dispatch(n *syntax.Node, ctx *Context) error {
	for _, h := range d.handlers {
		if h.Matches(n, ctx) {
			return h.Process(n, ctx)
		}
	}
	for _, c := range n.Children() {
		if err := d.Dispatch(c, ctx); err != nil {
			return err
		}
	}
	return nil
}

// Context is the mutable state of one parse pass over one file. It owns
// the namespace stack and must not be shared between passes.
type Context struct {
	Registry *registry.Registry
	File     string
	Mode     Mode
	Logger   *log.Logger

	// Diagnostics collects non-fatal problems found during the pass.
	Diagnostics []Diagnostic

	stack      []*model.CodeObject
	dispatcher *Dispatcher
}

// NewContext creates a pass context writing into reg.
func NewContext(reg *registry.Registry, file string, mode Mode) *Context {
	return &Context{Registry: reg, File: file, Mode: mode}
}

// Namespace returns the innermost open namespace.
func (c *Context) Namespace() *model.CodeObject {
	if len(c.stack) == 0 {
		return c.Registry.Root()
	}
	return c.stack[len(c.stack)-1]
}

// Enter dispatches nodes with ns as the current namespace.
func (c *Context) Enter(ns *model.CodeObject, nodes []*syntax.Node) error {
	c.stack = append(c.stack, ns)
	defer func() { c.stack = c.stack[:len(c.stack)-1] }()

	for _, n := range nodes {
		if err := c.dispatch(n); err != nil {
			return err
		}
	}
	return nil
}

// dispatch hands n to the pass dispatcher in the current namespace.
func (c *Context) dispatch(n *syntax.Node) error {
	if c.dispatcher == nil {
		c.dispatcher = NewDispatcher()
	}
	return c.dispatcher.Dispatch(n, c)
}

// Register stamps obj with the node's location and adds it to the registry.
func (c *Context) Register(obj *model.CodeObject, n *syntax.Node) (*model.CodeObject, error) {
	obj.File = c.File
	obj.Line = n.Start().Line
	got, err := c.Registry.Add(obj)
	if err != nil {
		return nil, err
	}
	c.debug("registered", "path", got.Path(), "kind", got.Kind)
	return got, nil
}

// Undocumentable records n as well-formed but impossible to document.
func (c *Context) Undocumentable(n *syntax.Node, reason string) {
	err := &UndocumentableError{
		File:   c.File,
		Line:   n.Start().Line,
		Source: firstLine(n.Text()),
		Reason: reason,
	}
	c.Diagnostics = append(c.Diagnostics, Diagnostic{
		Severity: SeverityWarning,
		Code:     CodeUndocumentable,
		Message:  err.Error(),
		File:     c.File,
		Line:     err.Line,
		Cause:    err,
	})
}

func (c *Context) debug(msg string, keyvals ...any) {
	if c.Logger != nil {
		c.Logger.Debug(msg, keyvals...)
	}
}

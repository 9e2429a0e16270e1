package lang

import (
	"github.com/smacker/go-tree-sitter/ruby"
)

// Ruby is the registered name of the Ruby language.
const Ruby = "ruby"

// Ruby node kinds consumed by the extraction handlers.
const (
	KindProgram         = "program"
	KindComment         = "comment"
	KindModule          = "module"
	KindClass           = "class"
	KindSingletonClass  = "singleton_class"
	KindMethod          = "method"
	KindSingletonMethod = "singleton_method"
	KindAssignment      = "assignment"
	KindConstant        = "constant"
	KindScopeResolution = "scope_resolution"
	KindIdentifier      = "identifier"
	KindCall            = "call"
	KindMethodCall      = "method_call"
	KindArgumentList    = "argument_list"
	KindString          = "string"
	KindStringContent   = "string_content"
	KindInterpolation   = "interpolation"
	KindSimpleSymbol    = "simple_symbol"
	KindSymbol          = "symbol"
	KindBlock           = "block"
	KindDoBlock         = "do_block"
	KindLambda          = "lambda"
	KindError           = "ERROR"
)

func init() {
	Languages[Ruby] = &Language{
		Name:       Ruby,
		Extensions: []string{".rb", ".rake", ".gemspec"},
		lang:       ruby.GetLanguage(),
	}
}

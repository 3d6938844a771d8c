package ruby

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"

	"github.com/oxhq/breadcrumbs/core"
)

// Config maps the tree-sitter Ruby grammar onto core node kinds
type Config struct{}

// Language identifier
func (c *Config) Language() string {
	return "ruby"
}

// Extensions supported
func (c *Config) Extensions() []string {
	return []string{".rb", ".rake"}
}

// GetLanguage returns tree-sitter language for Ruby
func (c *Config) GetLanguage() *sitter.Language {
	return ruby.GetLanguage()
}

var nodeKinds = map[string]core.Kind{
	"program": core.KindProgram,

	"call": core.KindCall,

	"method":           core.KindMethodDef,
	"singleton_method": core.KindMethodDef,

	"class":           core.KindClass,
	"singleton_class": core.KindClass,
	"module":          core.KindModule,

	"if":              core.KindConditional,
	"unless":          core.KindConditional,
	"if_modifier":     core.KindConditional,
	"unless_modifier": core.KindConditional,
	"elsif":           core.KindConditional,
	"conditional":     core.KindConditional,
	"case":            core.KindConditional,
	"when":            core.KindConditional,
	"while":           core.KindConditional,
	"until":           core.KindConditional,
	"while_modifier":  core.KindConditional,
	"until_modifier":  core.KindConditional,

	"assignment":          core.KindAssignment,
	"operator_assignment": core.KindAssignment,

	"block":          core.KindBlock,
	"do_block":       core.KindBlock,
	"begin":          core.KindBlock,
	"body_statement": core.KindBlock,
	"block_body":     core.KindBlock,
	"then":           core.KindBlock,
	"else":           core.KindBlock,
	"do":             core.KindBlock,
	"rescue":         core.KindBlock,
	"ensure":         core.KindBlock,
	"lambda":         core.KindBlock,
	"interpolation":  core.KindBlock,

	"constant":         core.KindConstant,
	"scope_resolution": core.KindConstant,

	"identifier":        core.KindIdentifier,
	"instance_variable": core.KindIdentifier,
	"class_variable":    core.KindIdentifier,
	"global_variable":   core.KindIdentifier,
	"self":              core.KindIdentifier,

	"simple_symbol":    core.KindSymbol,
	"hash_key_symbol":  core.KindSymbol,
	"delimited_symbol": core.KindSymbol,

	"string":         core.KindString,
	"string_content": core.KindLiteral,
	"integer":        core.KindLiteral,
	"float":          core.KindLiteral,
	"rational":       core.KindLiteral,
	"complex":        core.KindLiteral,
	"true":           core.KindLiteral,
	"false":          core.KindLiteral,
	"nil":            core.KindLiteral,

	"argument_list": core.KindArgumentList,

	"array": core.KindCollection,
	"hash":  core.KindCollection,
	"pair":  core.KindPair,
}

// KindOf maps a grammar node type to a core kind. Unlisted types map to
// core.KindOther.
func (c *Config) KindOf(nodeType string) core.Kind {
	if kind, ok := nodeKinds[nodeType]; ok {
		return kind
	}
	return core.KindOther
}

// ExtractValue returns the atom text of a leaf-like node, or "" for
// compound nodes.
func (c *Config) ExtractValue(node *sitter.Node, source []byte) string {
	switch node.Type() {
	case "identifier", "constant", "instance_variable", "class_variable", "global_variable", "self",
		"scope_resolution", "string_content",
		"integer", "float", "rational", "complex", "true", "false", "nil":
		return node.Content(source)
	case "simple_symbol", "delimited_symbol":
		return strings.Trim(strings.TrimPrefix(node.Content(source), ":"), `"'`)
	case "hash_key_symbol":
		return node.Content(source)
	case "string":
		var sb strings.Builder
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if part := node.NamedChild(i); part.Type() == "string_content" {
				sb.WriteString(part.Content(source))
			}
		}
		return sb.String()
	}
	return ""
}

// IsSkipped reports node types that never become tree nodes
func (c *Config) IsSkipped(nodeType string) bool {
	return nodeType == "comment" || nodeType == "heredoc_end"
}

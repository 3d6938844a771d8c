// Package ruby parses Ruby source with tree-sitter and converts the result
// into a core syntax tree.
package ruby

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/breadcrumbs/core"
	"github.com/oxhq/breadcrumbs/providers"
)

const snippetLimit = 40

// Provider parses Ruby sources. tree-sitter parsers are not safe for
// concurrent use, so each Parse borrows one from a pool.
type Provider struct {
	config *Config
	pool   sync.Pool

	borrowed atomic.Int64
	returned atomic.Int64
}

var _ providers.Provider = (*Provider)(nil)

// New creates a Ruby provider
func New() *Provider {
	config := &Config{}
	lang := config.GetLanguage()
	if lang == nil {
		panic(fmt.Sprintf("Failed to load %s language for tree-sitter", config.Language()))
	}

	p := &Provider{config: config}
	p.pool.New = func() any {
		parser := sitter.NewParser()
		parser.SetLanguage(lang)
		return parser
	}
	return p
}

// Language returns language identifier
func (p *Provider) Language() string {
	return p.config.Language()
}

// Extensions returns supported file extensions
func (p *Provider) Extensions() []string {
	return p.config.Extensions()
}

// Stats reports parser pool usage
func (p *Provider) Stats() providers.Stats {
	borrowed := p.borrowed.Load()
	returned := p.returned.Load()
	return providers.Stats{
		BorrowCount: borrowed,
		ReturnCount: returned,
		Active:      borrowed - returned,
	}
}

func (p *Provider) borrow() *sitter.Parser {
	p.borrowed.Add(1)
	return p.pool.Get().(*sitter.Parser)
}

func (p *Provider) release(parser *sitter.Parser) {
	parser.Reset()
	p.pool.Put(parser)
	p.returned.Add(1)
}

func (p *Provider) parseTree(ctx context.Context, source []byte) (*sitter.Tree, error) {
	parser := p.borrow()
	defer p.release(parser)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	if tree == nil {
		return nil, fmt.Errorf("failed to parse source")
	}
	return tree, nil
}

// Parse converts source into a core tree rooted at a program node. Source
// that tree-sitter could only parse with error recovery is rejected with a
// *core.ParseError pointing at the first malformed construct.
func (p *Provider) Parse(ctx context.Context, source []byte) (*core.Node, error) {
	tree, err := p.parseTree(ctx, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, p.parseError(root, source)
	}
	return p.convert(root, source), nil
}

// Validate checks syntax
func (p *Provider) Validate(source []byte) providers.ValidationResult {
	tree, err := p.parseTree(context.Background(), source)
	if err != nil {
		return providers.ValidationResult{
			Valid:  false,
			Errors: []string{err.Error()},
		}
	}
	defer tree.Close()

	var errors []string
	p.findErrors(tree.RootNode(), &errors)

	return providers.ValidationResult{
		Valid:  len(errors) == 0,
		Errors: errors,
	}
}

func (p *Provider) findErrors(node *sitter.Node, errors *[]string) {
	if node.Type() == "ERROR" || node.IsMissing() {
		*errors = append(*errors, fmt.Sprintf(
			"Syntax error at line %d, column %d",
			node.StartPoint().Row+1,
			node.StartPoint().Column+1,
		))
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		p.findErrors(node.Child(i), errors)
	}
}

func (p *Provider) parseError(root *sitter.Node, source []byte) *core.ParseError {
	bad := firstError(root)
	if bad == nil {
		return &core.ParseError{}
	}
	snippet, _, _ := strings.Cut(bad.Content(source), "\n")
	if len(snippet) > snippetLimit {
		snippet = snippet[:snippetLimit]
	}
	return &core.ParseError{
		Line:    int(bad.StartPoint().Row) + 1,
		Column:  int(bad.StartPoint().Column) + 1,
		Snippet: strings.TrimSpace(snippet),
	}
}

// firstError returns the first ERROR or MISSING node in pre-order
func firstError(node *sitter.Node) *sitter.Node {
	if node.Type() == "ERROR" || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := firstError(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

// convert builds the core tree. Only named grammar nodes become core nodes;
// punctuation and keywords are dropped.
func (p *Provider) convert(node *sitter.Node, source []byte) *core.Node {
	start := node.StartPoint()
	out := &core.Node{
		Kind:   p.config.KindOf(node.Type()),
		Line:   int(start.Row) + 1,
		Column: int(start.Column) + 1,
		Value:  p.config.ExtractValue(node, source),
	}

	var receiver, method, arguments *sitter.Node
	if out.Kind == core.KindCall {
		receiver = node.ChildByFieldName("receiver")
		method = node.ChildByFieldName("method")
		arguments = node.ChildByFieldName("arguments")
		if method != nil {
			out.Method = method.Content(source)
		}
	}

	count := int(node.NamedChildCount())
	out.Children = make([]*core.Node, 0, count)
	for i := 0; i < count; i++ {
		child := node.NamedChild(i)
		if child == nil || p.config.IsSkipped(child.Type()) {
			continue
		}
		converted := p.convert(child, source)
		out.Children = append(out.Children, converted)

		switch {
		case sameNode(child, receiver):
			out.Receiver = converted
		case sameNode(child, arguments):
			out.Arguments = converted.Children
		}
	}

	return out
}

func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

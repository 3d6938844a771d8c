package core

// Evaluator applies detection rules to one call expression.
type Evaluator interface {
	Evaluate(call Call) []Warning
}

// Walker is a depth-first dispatcher over a syntax tree. Call expressions
// are handed to the evaluator before their children are visited; every
// other kind only recurses.
type Walker struct {
	evaluator Evaluator
	collector *Collector
}

// NewWalker creates a walker that appends findings to collector.
func NewWalker(evaluator Evaluator, collector *Collector) *Walker {
	return &Walker{
		evaluator: evaluator,
		collector: collector,
	}
}

// Walk visits root and its whole subtree in pre-order, left to right.
// For a program root this is each top-level statement in turn.
func (w *Walker) Walk(root *Node) {
	w.visit(root)
}

// Walk runs a fresh walker over root and returns its collector.
func Walk(root *Node, evaluator Evaluator) *Collector {
	collector := NewCollector()
	NewWalker(evaluator, collector).Walk(root)
	return collector
}

func (w *Walker) visit(node *Node) {
	if node == nil {
		return
	}

	switch node.Kind {
	case KindCall:
		w.inspectCall(node)
		w.visitChildren(node)
	default:
		// program, definitions, conditionals, assignments, blocks,
		// literals and anything the provider could not classify
		w.visitChildren(node)
	}
}

func (w *Walker) inspectCall(node *Node) {
	call, ok := node.Call()
	if !ok || w.evaluator == nil {
		return
	}
	w.collector.Append(w.evaluator.Evaluate(call)...)
}

func (w *Walker) visitChildren(node *Node) {
	for _, child := range node.Children {
		w.visit(child)
	}
}

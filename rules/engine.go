package rules

import (
	"fmt"
	"slices"

	"github.com/oxhq/breadcrumbs/core"
)

// Filter selects a subset of the rule table. An empty Enable list means
// every rule; Disable is applied afterwards.
type Filter struct {
	Enable  []string
	Disable []string
}

// Engine evaluates an ordered set of rules against call expressions. It
// holds no mutable state and is safe for concurrent use.
type Engine struct {
	rules []Rule
}

// NewEngine builds an engine over the rules selected by filter. Unknown
// rule names are rejected.
func NewEngine(filter Filter) (*Engine, error) {
	for _, name := range append(slices.Clone(filter.Enable), filter.Disable...) {
		if _, ok := Lookup(name); !ok {
			return nil, core.Wrap(core.ErrUnknownRule, "unknown rule", fmt.Errorf("%q (known: %v)", name, Names()))
		}
	}

	selected := make([]Rule, 0, len(table))
	for _, r := range table {
		if len(filter.Enable) > 0 && !slices.Contains(filter.Enable, r.Name) {
			continue
		}
		if slices.Contains(filter.Disable, r.Name) {
			continue
		}
		selected = append(selected, r)
	}
	return &Engine{rules: selected}, nil
}

// Default returns an engine over the full table.
func Default() *Engine {
	return &Engine{rules: All()}
}

// Rules returns the engine's rules in evaluation order.
func (e *Engine) Rules() []Rule {
	return slices.Clone(e.rules)
}

// Evaluate runs every rule against call and returns one warning per
// matching rule, in table order. A call without a method name matches
// nothing.
func (e *Engine) Evaluate(call core.Call) []core.Warning {
	if call.Method == "" {
		return nil
	}
	var warnings []core.Warning
	for _, r := range e.rules {
		if w, ok := r.Apply(call); ok {
			warnings = append(warnings, w)
		}
	}
	return warnings
}

// Package rules holds the catalogue of deprecated ActiveRecord idioms and
// the engine that evaluates it against call expressions.
//
// Matching is purely syntactic. A dynamic finder rule fires on any method
// whose name contains its marker, whatever the receiver is, so that
// generated names with arbitrary attribute suffixes are caught.
//
// Only call expressions are inspected. A bare name with no receiver, no
// arguments and no parentheses (find_all_by_name on a line by itself)
// parses as a plain identifier and is not reported.
package rules

import (
	"fmt"
	"strings"

	"github.com/oxhq/breadcrumbs/core"
)

// Rule names, in table order.
const (
	DynamicFindOrCreate      = "dynamic-find-or-create"
	DynamicFindOrInitialize  = "dynamic-find-or-initialize"
	DynamicScopedBy          = "dynamic-scoped-by"
	DynamicFindLastBy        = "dynamic-find-last-by"
	DynamicFindAllBy         = "dynamic-find-all-by"
	MassAssignmentAccessible = "mass-assignment-accessible"
	MassAssignmentProtected  = "mass-assignment-protected"
)

// Rule is one deprecated-pattern detection. Rules are stateless and
// independent of each other.
type Rule struct {
	Name        string
	Description string
	Replacement string

	Match  func(call core.Call) bool
	Format func(call core.Call) string
}

// Apply returns the warning produced by r for call, if it matches.
func (r Rule) Apply(call core.Call) (core.Warning, bool) {
	if !r.Match(call) {
		return core.Warning{}, false
	}
	return core.Warning{
		Rule:    r.Name,
		Message: r.Format(call),
		Line:    call.Line,
		Column:  call.Column,
	}, true
}

// table is fixed at init and only ever handed out as copies
var table = []Rule{
	dynamicFinder(DynamicFindOrCreate, "find_or_create_by_", "find_or_create_by(...)"),
	dynamicFinder(DynamicFindOrInitialize, "find_or_initialize_by_", "find_or_initialize_by(...)"),
	dynamicFinder(DynamicScopedBy, "scoped_by_", "where(...)"),
	dynamicFinder(DynamicFindLastBy, "find_last_by_", "where(...).last"),
	dynamicFinder(DynamicFindAllBy, "find_all_by_", "where(...)"),
	massAssignment(MassAssignmentAccessible, "attr_accessible"),
	massAssignment(MassAssignmentProtected, "attr_protected"),
}

// All returns the full rule table in evaluation order.
func All() []Rule {
	out := make([]Rule, len(table))
	copy(out, table)
	return out
}

// Names returns every rule name in evaluation order.
func Names() []string {
	names := make([]string, len(table))
	for i, r := range table {
		names[i] = r.Name
	}
	return names
}

// Lookup finds a rule by name.
func Lookup(name string) (Rule, bool) {
	for _, r := range table {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

func dynamicFinder(name, marker, replacement string) Rule {
	return Rule{
		Name:        name,
		Description: fmt.Sprintf("dynamic finder containing %q", marker),
		Replacement: replacement,
		Match: func(call core.Call) bool {
			return strings.Contains(call.Method, marker)
		},
		Format: func(call core.Call) string {
			return fmt.Sprintf("Found %s at line %d. Replace it with %s instead.", call.Method, call.Line, replacement)
		},
	}
}

func massAssignment(name, method string) Rule {
	return Rule{
		Name:        name,
		Description: fmt.Sprintf("mass-assignment declaration %s", method),
		Replacement: "strong parameters",
		Match: func(call core.Call) bool {
			return call.Method == method
		},
		Format: func(call core.Call) string {
			return fmt.Sprintf("Found %s with symbols %s at line %d. Replace it with strong parameters instead.",
				method, attributeList(call.Arguments), call.Line)
		},
	}
}

// attributeList renders the call's arguments in source order. Arguments
// without enumerable content contribute nothing.
func attributeList(args []*core.Node) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		if label := arg.Label(); label != "" {
			parts = append(parts, label)
		}
	}
	return strings.Join(parts, ", ")
}

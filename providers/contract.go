package providers

import (
	"context"

	"github.com/oxhq/breadcrumbs/core"
)

// Provider turns source text of one language into a core syntax tree.
type Provider interface {
	// Metadata
	Language() string
	Extensions() []string

	// Core operations
	Parse(ctx context.Context, source []byte) (*core.Node, error)
	Validate(source []byte) ValidationResult

	// Observability
	Stats() Stats
}

// ValidationResult from syntax check
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Stats captures parser-pool level metrics exposed by providers.
type Stats struct {
	BorrowCount int64 `json:"borrow_count"`
	ReturnCount int64 `json:"return_count"`
	Active      int64 `json:"active"`
}

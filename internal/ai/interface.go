package ai

import (
	"context"
)

// Suggester defines the contract for turning a free-text problem description
// into a structured service suggestion. The interface allows swapping the
// underlying model provider without touching the HTTP layer.
type Suggester interface {
	// SuggestService analyzes the customer's description of the problem and
	// proposes the service type that fits it best.
	SuggestService(ctx context.Context, description string) (*Suggestion, error)
}

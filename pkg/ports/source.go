package ports

import (
	"context"

	"github.com/aretw0/druide/pkg/domain"
)

// LineSource supplies expressions in input order.
// Blank and comment lines are filtered out before they reach the caller.
type LineSource interface {
	// Next returns the next expression, or io.EOF when the source is exhausted.
	// Any other error is fatal to the run.
	Next(ctx context.Context) (domain.Expression, error)
}

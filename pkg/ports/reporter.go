package ports

import (
	"context"

	"github.com/aretw0/druide/pkg/domain"
)

// Reporter receives the outcome of every expression, in input order.
type Reporter interface {
	Report(ctx context.Context, outcome domain.Outcome) error

	// Finish is called once after the last outcome of a successful run.
	Finish(ctx context.Context, report *domain.Report) error
}

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/druide/pkg/domain"
	"github.com/aretw0/druide/pkg/ports"
	"github.com/aretw0/druide/pkg/rpn"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Runner evaluates every expression of a LineSource.
type Runner struct {
	// Workers is the number of concurrent evaluators. Values below 1 mean one.
	Workers int

	// Reporter receives outcomes in input order. If nil, outcomes are only
	// collected into the returned Report.
	Reporter ports.Reporter

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	Hooks         domain.Hooks
	TracerFactory TracerFactory

	SourceName string
	ReportID   string
}

// NewRunner creates a sequential Runner with the given options applied.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Workers: 1,
		Logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type job struct {
	seq  int
	expr domain.Expression
}

type result struct {
	seq     int
	outcome domain.Outcome
}

// Run reads source until io.EOF and evaluates each expression on its own
// stack. The returned report holds every outcome delivered before any error.
func (r *Runner) Run(ctx context.Context, source ports.LineSource) (*domain.Report, error) {
	logger := r.logger()
	report := domain.NewReport(r.reportID(), r.SourceName)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	jobs := make(chan job)
	results := make(chan result)

	g.Go(func() error {
		defer close(jobs)
		for seq := 0; ; seq++ {
			expr, err := source.Next(gctx)
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				return fmt.Errorf("failed to read expression: %w", err)
			}
			if r.Hooks.OnExpression != nil {
				r.Hooks.OnExpression(gctx, expr)
			}
			select {
			case jobs <- job{seq: seq, expr: expr}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	var wg sync.WaitGroup
	for w := 0; w < r.workers(); w++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for j := range jobs {
				res := result{seq: j.seq, outcome: r.evaluate(j.expr)}
				select {
				case results <- res:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	// Workers finish out of order; hold results until their turn.
	pending := make(map[int]domain.Outcome)
	next := 0
	var reportErr error
	for res := range results {
		pending[res.seq] = res.outcome
		for {
			o, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if reportErr != nil {
				continue
			}
			if err := r.deliver(ctx, report, o); err != nil {
				reportErr = err
				cancel()
			}
		}
	}

	if err := g.Wait(); err != nil && reportErr == nil {
		return report, err
	}
	if reportErr != nil {
		return report, reportErr
	}

	if r.Reporter != nil {
		if err := r.Reporter.Finish(ctx, report); err != nil {
			return report, fmt.Errorf("failed to finish report: %w", err)
		}
	}
	logger.Debug("run complete",
		"report_id", report.ID,
		"total", report.Summary.Total,
		"failed", report.Summary.Failed,
	)
	return report, nil
}

func (r *Runner) evaluate(expr domain.Expression) domain.Outcome {
	ev := rpn.Evaluator{}
	if r.TracerFactory != nil {
		ev.Tracer = r.TracerFactory(expr)
	}
	v, err := ev.Evaluate(expr.Tokens)
	return domain.NewOutcome(expr, v, err)
}

func (r *Runner) deliver(ctx context.Context, report *domain.Report, o domain.Outcome) error {
	report.Add(o)
	if o.OK() {
		r.logger().Debug("expression evaluated", "line", o.Line, "expression", o.Expression, "value", float64(o.Value))
	} else {
		r.logger().Debug("expression failed", "line", o.Line, "expression", o.Expression, "kind", o.Failure.Kind, "error", o.Failure.Message)
	}
	if r.Hooks.OnOutcome != nil {
		r.Hooks.OnOutcome(ctx, o)
	}
	if r.Reporter != nil {
		if err := r.Reporter.Report(ctx, o); err != nil {
			return fmt.Errorf("failed to report line %d: %w", o.Line, err)
		}
	}
	return nil
}

func (r *Runner) workers() int {
	if r.Workers < 1 {
		return 1
	}
	return r.Workers
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

func (r *Runner) reportID() string {
	if r.ReportID != "" {
		return r.ReportID
	}
	return uuid.NewString()
}

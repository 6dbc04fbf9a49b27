package druide

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/druide/internal/logging"
	"github.com/aretw0/druide/pkg/adapters/memory"
	"github.com/aretw0/druide/pkg/domain"
	"github.com/aretw0/druide/pkg/ports"
	"github.com/aretw0/druide/pkg/rpn"
	"github.com/aretw0/druide/pkg/runner"
)

// Engine is the high-level entry point for the druide library.
// It is safe for concurrent use.
type Engine struct {
	logger    *slog.Logger
	workers   int
	hooks     domain.Hooks
	trace     bool
	tracers   runner.TracerFactory
	store     ports.ReportStore
	sanitizer runner.Sanitizer
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithWorkers sets the number of concurrent evaluators used by Process.
// Values below 1 select runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithHooks registers observability hooks. Repeated calls accumulate.
func WithHooks(hooks domain.Hooks) Option {
	return func(e *Engine) {
		e.hooks = domain.Merge(e.hooks, hooks)
	}
}

// WithTrace logs every stack operation at debug level.
func WithTrace(enabled bool) Option {
	return func(e *Engine) {
		e.trace = enabled
	}
}

// WithStore configures where reports are persisted.
func WithStore(store ports.ReportStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithMaxInputSize bounds the size of a single untrusted expression.
func WithMaxInputSize(n int) Option {
	return func(e *Engine) {
		e.sanitizer.MaxSize = n
	}
}

// New initializes a new Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{workers: 1}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.trace {
		eng.tracers = logging.TracerFactory(eng.logger)
	}
	return eng
}

// Evaluate evaluates one token sequence.
func (e *Engine) Evaluate(tokens []string) (float64, error) {
	return e.evaluator(domain.Expression{Tokens: tokens}).Evaluate(tokens)
}

// EvaluateLine sanitizes text, splits it into tokens and evaluates it.
// The returned error is non-nil only when the input is rejected; evaluation
// failures are carried by the Outcome.
func (e *Engine) EvaluateLine(ctx context.Context, text string) (domain.Outcome, error) {
	clean, err := e.sanitizer.Clean(text)
	if err != nil {
		return domain.Outcome{}, err
	}
	return e.evaluateExpression(ctx, domain.NewExpression(1, clean)), nil
}

// EvaluateTokens evaluates pre-split tokens and wraps the result as an Outcome.
// The joined tokens are subject to the same limits as EvaluateLine.
func (e *Engine) EvaluateTokens(ctx context.Context, tokens []string) (domain.Outcome, error) {
	text := strings.Join(tokens, " ")
	if _, err := e.sanitizer.Clean(text); err != nil {
		return domain.Outcome{}, err
	}
	expr := domain.Expression{
		Line:   1,
		Text:   text,
		Tokens: tokens,
	}
	return e.evaluateExpression(ctx, expr), nil
}

func (e *Engine) evaluateExpression(ctx context.Context, expr domain.Expression) domain.Outcome {
	if e.hooks.OnExpression != nil {
		e.hooks.OnExpression(ctx, expr)
	}
	v, err := e.evaluator(expr).Evaluate(expr.Tokens)
	o := domain.NewOutcome(expr, v, err)
	if o.OK() {
		e.logger.Debug("expression evaluated", "expression", expr.Text, "value", v)
	} else {
		e.logger.Debug("expression failed", "expression", expr.Text, "kind", o.Failure.Kind)
	}
	if e.hooks.OnOutcome != nil {
		e.hooks.OnOutcome(ctx, o)
	}
	return o
}

func (e *Engine) evaluator(expr domain.Expression) rpn.Evaluator {
	if e.tracers == nil {
		return rpn.Evaluator{}
	}
	return rpn.Evaluator{Tracer: e.tracers(expr)}
}

// Runner returns a batch runner configured with the engine settings.
// opts are applied last and may override them.
func (e *Engine) Runner(opts ...runner.Option) *runner.Runner {
	base := []runner.Option{
		runner.WithWorkers(e.workers),
		runner.WithLogger(e.logger),
		runner.WithHooks(e.hooks),
	}
	if e.tracers != nil {
		base = append(base, runner.WithTracerFactory(e.tracers))
	}
	return runner.NewRunner(append(base, opts...)...)
}

// Process evaluates every expression of source. reporter may be nil.
func (e *Engine) Process(ctx context.Context, source ports.LineSource, reporter ports.Reporter) (*domain.Report, error) {
	var opts []runner.Option
	if reporter != nil {
		opts = append(opts, runner.WithReporter(reporter))
	}
	return e.Runner(opts...).Run(ctx, source)
}

// ProcessLines sanitizes untrusted lines and processes them as one batch.
// Line numbers in the report are 1-based indexes into lines.
func (e *Engine) ProcessLines(ctx context.Context, lines []string) (*domain.Report, error) {
	clean := make([]string, len(lines))
	for i, line := range lines {
		c, err := e.sanitizer.Clean(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		clean[i] = c
	}
	return e.Process(ctx, memory.NewSource(clean...), nil)
}

// Save persists report in the configured store.
func (e *Engine) Save(ctx context.Context, report *domain.Report) error {
	if e.store == nil {
		return domain.ErrNoStore
	}
	if err := e.store.Save(ctx, report); err != nil {
		return fmt.Errorf("failed to save report %s: %w", report.ID, err)
	}
	e.logger.Info("report saved", "report_id", report.ID)
	return nil
}

// Store returns the configured report store, or nil.
func (e *Engine) Store() ports.ReportStore {
	return e.store
}

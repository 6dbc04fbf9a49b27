package runner

import (
	"log/slog"
	"runtime"

	"github.com/aretw0/druide/pkg/domain"
	"github.com/aretw0/druide/pkg/ports"
	"github.com/aretw0/druide/pkg/rpn"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// TracerFactory builds the tracer for one expression. It may return nil.
type TracerFactory func(expr domain.Expression) rpn.Tracer

// WithWorkers sets the number of concurrent evaluators.
// Values below 1 select runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n < 1 {
			n = runtime.NumCPU()
		}
		r.Workers = n
	}
}

// WithReporter configures where outcomes are written.
func WithReporter(reporter ports.Reporter) Option {
	return func(r *Runner) {
		r.Reporter = reporter
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithHooks registers observability hooks. Repeated calls accumulate.
func WithHooks(hooks domain.Hooks) Option {
	return func(r *Runner) {
		r.Hooks = domain.Merge(r.Hooks, hooks)
	}
}

// WithTracerFactory enables per-expression diagnostic tracing.
func WithTracerFactory(factory TracerFactory) Option {
	return func(r *Runner) {
		r.TracerFactory = factory
	}
}

// WithSource names the input in the resulting report (e.g. a file path).
func WithSource(name string) Option {
	return func(r *Runner) {
		r.SourceName = name
	}
}

// WithReportID fixes the report ID instead of generating one.
func WithReportID(id string) Option {
	return func(r *Runner) {
		r.ReportID = id
	}
}

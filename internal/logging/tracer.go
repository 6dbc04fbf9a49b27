package logging

import (
	"context"
	"log/slog"

	"github.com/aretw0/druide/pkg/domain"
	"github.com/aretw0/druide/pkg/rpn"
)

type tracer struct {
	logger *slog.Logger
	line   int
}

// NewTracer returns an rpn.Tracer that logs stack operations at debug level.
// line is attached to every record; pass 0 when there is no input line.
func NewTracer(logger *slog.Logger, line int) rpn.Tracer {
	return &tracer{logger: logger, line: line}
}

// TracerFactory builds one tracer per expression for runner.WithTracerFactory.
// It returns nil when the logger would drop debug records.
func TracerFactory(logger *slog.Logger) func(domain.Expression) rpn.Tracer {
	return func(expr domain.Expression) rpn.Tracer {
		if !logger.Enabled(context.Background(), slog.LevelDebug) {
			return nil
		}
		return NewTracer(logger, expr.Line)
	}
}

func (t *tracer) Trace(e rpn.Event) {
	attrs := []any{"position", e.Position, "depth", e.Depth}
	if t.line > 0 {
		attrs = append(attrs, "line", t.line)
	}
	switch e.Type {
	case rpn.EventPush:
		attrs = append(attrs, "value", e.Value)
	case rpn.EventPop:
		attrs = append(attrs, "op", e.Token, "a", e.Left, "b", e.Right)
	case rpn.EventResult:
		attrs = append(attrs, "value", e.Value)
	}
	t.logger.Debug(e.Type.String(), attrs...)
}

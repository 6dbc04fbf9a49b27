package observability

import (
	"context"
	"errors"

	"github.com/aretw0/druide/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "druide"

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the collectors fed by evaluation hooks.
type Metrics struct {
	expressions *prometheus.CounterVec
	errors      *prometheus.CounterVec
	tokens      prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
// A collector that is already registered is reused, so several engines can
// share one registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		expressions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "expressions_total",
				Help:      "Total number of evaluated expressions by outcome",
			},
			[]string{"outcome"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of failed evaluations by error kind",
			},
			[]string{"kind"},
		),
		tokens: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "expression_tokens",
				Help:      "Number of non-empty tokens per evaluated expression",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
			},
		),
	}

	var err error
	if m.expressions, err = register(reg, m.expressions); err != nil {
		return nil, err
	}
	if m.errors, err = register(reg, m.errors); err != nil {
		return nil, err
	}
	if m.tokens, err = register(reg, m.tokens); err != nil {
		return nil, err
	}
	return m, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Observe records one outcome.
func (m *Metrics) Observe(o domain.Outcome) {
	if o.OK() {
		m.expressions.WithLabelValues(OutcomeOK).Inc()
		return
	}
	m.expressions.WithLabelValues(OutcomeError).Inc()
	m.errors.WithLabelValues(o.Failure.Kind).Inc()
}

// Hooks returns the hooks that feed the collectors.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnExpression: func(_ context.Context, e domain.Expression) {
			m.tokens.Observe(float64(countTokens(e.Tokens)))
		},
		OnOutcome: func(_ context.Context, o domain.Outcome) {
			m.Observe(o)
		},
	}
}

func countTokens(tokens []string) int {
	n := 0
	for _, t := range tokens {
		if t != "" {
			n++
		}
	}
	return n
}

package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/druide/pkg/domain"
	"github.com/aretw0/druide/pkg/rpn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	hooks := m.Hooks()
	ctx := context.Background()

	ok := domain.NewExpression(1, "3 5 +")
	hooks.OnExpression(ctx, ok)
	hooks.OnOutcome(ctx, domain.NewOutcome(ok, 8, nil))

	bad := domain.NewExpression(2, "4 0 /")
	hooks.OnExpression(ctx, bad)
	hooks.OnOutcome(ctx, domain.NewOutcome(bad, 0, &rpn.Error{Kind: rpn.KindDivisionByZero, Token: "/", Position: 2}))

	other := domain.NewExpression(3, "boom")
	hooks.OnExpression(ctx, other)
	hooks.OnOutcome(ctx, domain.NewOutcome(other, 0, errors.New("boom")))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.expressions.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.expressions.WithLabelValues(OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("division_by_zero")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues(domain.KindInternal)))

	count, err := testutil.GatherAndCount(reg, "druide_expression_tokens")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewMetrics(reg)
	require.NoError(t, err)
	second, err := NewMetrics(reg)
	require.NoError(t, err)

	first.Observe(domain.NewOutcome(domain.NewExpression(1, "1"), 1, nil))
	second.Observe(domain.NewOutcome(domain.NewExpression(1, "1"), 1, nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(second.expressions.WithLabelValues(OutcomeOK)))
}

func TestCountTokens(t *testing.T) {
	assert.Equal(t, 3, countTokens([]string{"3", "", "5", "+"}))
	assert.Equal(t, 0, countTokens(nil))
}

package druide_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/druide"
	"github.com/aretw0/druide/internal/logging"
	"github.com/aretw0/druide/pkg/adapters/memory"
	"github.com/aretw0/druide/pkg/domain"
	"github.com/aretw0/druide/pkg/rpn"
	"github.com/aretw0/druide/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Evaluate(t *testing.T) {
	eng := druide.New()

	v, err := eng.Evaluate(domain.Tokenize("4 7 + 3 *"))
	require.NoError(t, err)
	assert.Equal(t, 33.0, v)

	_, err = eng.Evaluate(domain.Tokenize("4 0 /"))
	assert.ErrorIs(t, err, rpn.ErrDivisionByZero)
}

func TestEngine_EvaluateLine(t *testing.T) {
	eng := druide.New()
	ctx := context.Background()

	o, err := eng.EvaluateLine(ctx, "  10 4 + 2 -  ")
	require.NoError(t, err)
	assert.True(t, o.OK())
	assert.Equal(t, domain.Number(12), o.Value)
	assert.Equal(t, "10 4 + 2 -", o.Expression)

	o, err = eng.EvaluateLine(ctx, "3 5 &")
	require.NoError(t, err)
	require.False(t, o.OK())
	assert.Equal(t, "invalid_token", o.Failure.Kind)
	assert.Equal(t, "&", o.Failure.Token)
}

func TestEngine_EvaluateLine_Rejected(t *testing.T) {
	eng := druide.New(druide.WithMaxInputSize(8))

	_, err := eng.EvaluateLine(context.Background(), "1 2 3 4 5 + + + +")
	assert.ErrorIs(t, err, runner.ErrInputTooLarge)
}

func TestEngine_EvaluateTokens(t *testing.T) {
	o, err := druide.New().EvaluateTokens(context.Background(), []string{"2", "", "3", "*"})
	require.NoError(t, err)
	assert.True(t, o.OK())
	assert.Equal(t, domain.Number(6), o.Value)
}

func TestEngine_Hooks(t *testing.T) {
	var seen []domain.Outcome
	eng := druide.New(druide.WithHooks(domain.Hooks{
		OnOutcome: func(_ context.Context, o domain.Outcome) { seen = append(seen, o) },
	}))

	_, err := eng.EvaluateLine(context.Background(), "1 1 +")
	require.NoError(t, err)
	_, err = eng.Process(context.Background(), memory.NewSource("2 2 +", "+"), nil)
	require.NoError(t, err)

	require.Len(t, seen, 3)
	assert.Equal(t, domain.Number(2), seen[0].Value)
	assert.Equal(t, domain.Number(4), seen[1].Value)
	assert.False(t, seen[2].OK())
}

func TestEngine_Process(t *testing.T) {
	var out bytes.Buffer
	eng := druide.New(druide.WithWorkers(4))

	report, err := eng.Process(context.Background(),
		memory.NewSourceFromText("3 5 +\n# comment\n\n4 0 /\n2 3 4 +"),
		runner.NewTextReporter(&out),
	)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.Succeeded)
	assert.Equal(t, map[string]int{"division_by_zero": 1, "malformed_expression": 1}, report.Summary.ByKind)
	assert.Equal(t, "Line 1: 3 5 + => 8\n"+
		"Error line 4: division by zero\n"+
		"Error line 5: malformed expression: 2 values left on the stack\n", out.String())
}

func TestEngine_ProcessLines(t *testing.T) {
	eng := druide.New(druide.WithMaxInputSize(16))

	report, err := eng.ProcessLines(context.Background(), []string{"1 2 +", "", "3 4 *"})
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 2)
	assert.Equal(t, 3, report.Outcomes[1].Line)

	_, err = eng.ProcessLines(context.Background(), []string{"1", strings.Repeat("1 ", 20)})
	assert.ErrorIs(t, err, runner.ErrInputTooLarge)
}

func TestEngine_Trace(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.NewWithWriter(&logs, slog.LevelDebug)
	eng := druide.New(druide.WithLogger(logger), druide.WithTrace(true))

	_, err := eng.Evaluate([]string{"1", "2", "+"})
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "msg=push")
	assert.Contains(t, logs.String(), "msg=result")

	logs.Reset()
	_, err = eng.Process(context.Background(), memory.NewSource("5 5 *"), nil)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "line=1")
}

func TestEngine_TraceQuietAboveDebug(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.NewWithWriter(&logs, slog.LevelInfo)
	eng := druide.New(druide.WithTrace(true), druide.WithLogger(logger))

	_, err := eng.Evaluate([]string{"1", "2", "+"})
	require.NoError(t, err)
	_, err = eng.Process(context.Background(), memory.NewSource("5 5 *"), nil)
	require.NoError(t, err)
	assert.NotContains(t, logs.String(), "msg=push")
}

func TestEngine_Save(t *testing.T) {
	ctx := context.Background()
	report := domain.NewReport("r1", "test")

	assert.ErrorIs(t, druide.New().Save(ctx, report), domain.ErrNoStore)

	store := memory.NewStore()
	eng := druide.New(druide.WithStore(store))
	require.NoError(t, eng.Save(ctx, report))
	assert.Same(t, store, eng.Store())

	loaded, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "test", loaded.Source)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, druide.Version)
	assert.Equal(t, strings.TrimSpace(druide.Version), druide.Version)
}

package cli

import (
	"bytes"
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/druide/internal/config"
	"github.com/aretw0/druide/internal/logging"
	"github.com/aretw0/druide/pkg/domain"
	"github.com/aretw0/druide/pkg/rpn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const druidInput = `# Un drole de calcul
3 5 +
4 7 + 3 *

3 4 7 + *
4 0 /
3 +
2 3 4 +
3 5 &
3.5 2 *
`

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runOpts(t *testing.T, path string) (RunOptions, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	return RunOptions{
		Path:   path,
		Config: config.Default(),
		Stdout: &stdout,
		Stderr: &stderr,
		Logger: logging.NewNop(),
	}, &stdout, &stderr
}

func TestRun_Text(t *testing.T) {
	opts, stdout, _ := runOpts(t, writeInput(t, druidInput))

	report, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 8, report.Summary.Total)

	want := strings.Join([]string{
		"Line 2: 3 5 + => 8",
		"Line 3: 4 7 + 3 * => 33",
		"Line 5: 3 4 7 + * => 33",
		"Error line 6: division by zero",
		`Error line 7: operator "+" at position 1 needs two operands`,
		"Error line 8: malformed expression: 2 values left on the stack",
		`Error line 9: invalid token "&" at position 2`,
		"Line 10: 3.5 2 * => 7",
	}, "\n") + "\n"
	assert.Equal(t, want, stdout.String())
}

func TestRun_JSONWithSummary(t *testing.T) {
	opts, stdout, _ := runOpts(t, writeInput(t, "1 2 +\n1 0 /\n"))
	opts.Config.Format = config.FormatJSON
	opts.Summary = true

	_, err := Run(context.Background(), opts)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 3)
	assert.JSONEq(t, `{"line":1,"expression":"1 2 +","value":3}`, lines[0])
	assert.Contains(t, lines[1], `"kind":"division_by_zero"`)
	assert.Contains(t, lines[2], `"summary"`)
}

func TestRun_Stdin(t *testing.T) {
	opts, stdout, _ := runOpts(t, StdinPath)
	opts.Stdin = strings.NewReader("2 2 *\n")

	_, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, "Line 1: 2 2 * => 4\n", stdout.String())
}

func TestRun_Strict(t *testing.T) {
	opts, _, _ := runOpts(t, writeInput(t, "1 1 +\n+\n"))
	opts.Strict = true

	_, err := Run(context.Background(), opts)
	assert.ErrorIs(t, err, ErrLinesFailed)
	assert.Equal(t, ExitStrict, ExitCode(err))

	opts, _, _ = runOpts(t, writeInput(t, "1 1 +\n"))
	opts.Strict = true
	_, err = Run(context.Background(), opts)
	assert.NoError(t, err)
}

func TestRun_MissingFile(t *testing.T) {
	opts, _, _ := runOpts(t, filepath.Join(t.TempDir(), "nope.txt"))

	_, err := Run(context.Background(), opts)
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 1, ExitCode(err))
}

func TestRun_SaveToFileStore(t *testing.T) {
	opts, _, stderr := runOpts(t, writeInput(t, "3 5 +\n"))
	opts.Save = true
	opts.Config.Store = config.StoreConfig{Kind: config.StoreFile, Path: t.TempDir()}

	report, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, "Report saved: "+report.ID+"\n", stderr.String())

	store, closeStore, err := NewStore(context.Background(), opts.Config.Store)
	require.NoError(t, err)
	defer closeStore()

	var out bytes.Buffer
	require.NoError(t, ListReports(context.Background(), store, &out, true))
	assert.Equal(t, report.ID+"\t1 expressions, 1 ok, 0 failed\n", out.String())

	out.Reset()
	require.NoError(t, ShowReport(context.Background(), store, report.ID, &out, false))
	assert.Contains(t, out.String(), "| 1 | `3 5 +` | `8` |")

	out.Reset()
	require.NoError(t, DeleteReport(context.Background(), store, report.ID, &out))
	err = ShowReport(context.Background(), store, report.ID, &out, false)
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		cfg  config.StoreConfig
	}{
		{"memory", config.StoreConfig{Kind: config.StoreMemory}},
		{"file", config.StoreConfig{Kind: config.StoreFile, Path: filepath.Join(dir, "reports")}},
		{"bolt", config.StoreConfig{Kind: config.StoreBolt, Path: filepath.Join(dir, "reports.db")}},
		{"redis", config.StoreConfig{Kind: config.StoreRedis, RedisAddr: mr.Addr()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, closeStore, err := NewStore(ctx, tt.cfg)
			require.NoError(t, err)
			defer closeStore()

			report := domain.NewReport("r-"+tt.name, "")
			require.NoError(t, store.Save(ctx, report))
			ids, err := store.List(ctx)
			require.NoError(t, err)
			assert.Contains(t, ids, "r-"+tt.name)
		})
	}
}

func TestNewStore_Errors(t *testing.T) {
	_, closeStore, err := NewStore(context.Background(), config.StoreConfig{Kind: "postgres"})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.NotNil(t, closeStore)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	_, _, err = NewStore(context.Background(), config.StoreConfig{Kind: config.StoreRedis, RedisAddr: addr})
	assert.Error(t, err)
}

func TestEval(t *testing.T) {
	eng := NewEngine(config.Default(), logging.NewNop(), nil)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, Eval(ctx, eng, []string{"3 4 7 + *"}, &out))
	assert.Equal(t, "33\n", out.String())

	out.Reset()
	require.NoError(t, Eval(ctx, eng, []string{"1", "2", "/"}, &out))
	assert.Equal(t, "0.5\n", out.String())

	err := Eval(ctx, eng, []string{"4 0 /"}, &out)
	require.Error(t, err)
	assert.Equal(t, "division by zero", err.Error())
	assert.ErrorIs(t, err, rpn.ErrDivisionByZero)
}

func TestSelfTest(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, SelfTest(&out))

	got := out.String()
	assert.Contains(t, got, "TEST OK: '3 5 +' => 8\n")
	assert.Contains(t, got, "TEST OK: '2 10 4 + -' => -12\n")
	assert.Contains(t, got, "TEST OK: '4 0 /' raised division_by_zero\n")
	assert.Contains(t, got, "TEST OK: '' raised empty_expression\n")
	assert.NotContains(t, got, "TEST FAIL")
	assert.True(t, strings.HasSuffix(got, "All tests OK.\n"))
}

func TestSelfTest_Failures(t *testing.T) {
	var out bytes.Buffer
	err := runSelfTest(&out, []selfTestCase{
		{expr: "1 1 +", want: 3},
		{expr: "1 1 +", wantErr: rpn.ErrDivisionByZero},
		{expr: "1 +", wantErr: rpn.ErrDivisionByZero},
	})
	assert.ErrorIs(t, err, ErrSelfTestFailed)

	got := out.String()
	assert.Contains(t, got, "TEST FAIL: '1 1 +' expected 3, got 2\n")
	assert.Contains(t, got, "TEST FAIL: '1 1 +' expected division_by_zero, got result 2\n")
	assert.Contains(t, got, "TEST FAIL: '1 +' raised insufficient_operands: ")
	assert.Contains(t, got, "3 tests failed.\n")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitStrict, ExitCode(ErrLinesFailed))
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, UseColor(config.ColorAlways, &buf))
	assert.False(t, UseColor(config.ColorNever, &buf))
	assert.False(t, UseColor(config.ColorAuto, &buf), "buffers are not terminals")
	assert.False(t, IsTerminal(&buf))
}

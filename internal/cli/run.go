package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/druide"
	"github.com/aretw0/druide/internal/config"
	"github.com/aretw0/druide/pkg/adapters/file"
	"github.com/aretw0/druide/pkg/domain"
	"github.com/aretw0/druide/pkg/ports"
	"github.com/aretw0/druide/pkg/runner"
)

// StdinPath selects standard input as the expression source.
const StdinPath = "-"

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	Path    string
	Config  config.Config
	Strict  bool
	Save    bool
	Summary bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Hooks  []domain.Hooks
}

// NewEngine builds an engine from cfg. store may be nil.
func NewEngine(cfg config.Config, logger *slog.Logger, store ports.ReportStore, hooks ...domain.Hooks) *druide.Engine {
	opts := []druide.Option{
		druide.WithLogger(logger),
		druide.WithWorkers(cfg.Workers),
		druide.WithTrace(cfg.Verbose),
		druide.WithMaxInputSize(cfg.MaxInputSize),
	}
	if store != nil {
		opts = append(opts, druide.WithStore(store))
	}
	for _, h := range hooks {
		opts = append(opts, druide.WithHooks(h))
	}
	return druide.New(opts...)
}

// NewReporter builds the reporter for cfg.Format writing to w.
func NewReporter(cfg config.Config, w io.Writer, summary bool) (ports.Reporter, error) {
	switch cfg.Format {
	case config.FormatText, "":
		return runner.NewTextReporter(w,
			runner.WithColor(UseColor(cfg.Color, w)),
			runner.WithSummary(summary),
		), nil
	case config.FormatJSON:
		return runner.NewJSONReporter(w, summary), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", config.ErrInvalidConfig, cfg.Format)
	}
}

// Run evaluates every expression of opts.Path and writes one result line per
// expression. It returns ErrLinesFailed when Strict is set and any line failed.
func Run(ctx context.Context, opts RunOptions) (*domain.Report, error) {
	opts.defaults()

	source, closeSource, err := openSource(opts.Path, opts.Stdin)
	if err != nil {
		return nil, err
	}
	defer closeSource()

	reporter, err := NewReporter(opts.Config, opts.Stdout, opts.Summary)
	if err != nil {
		return nil, err
	}

	var store ports.ReportStore
	if opts.Save {
		s, closeStore, err := NewStore(ctx, opts.Config.Store)
		if err != nil {
			return nil, err
		}
		defer closeStore()
		store = s
	}

	eng := NewEngine(opts.Config, opts.Logger, store, opts.Hooks...)
	report, err := eng.Runner(
		runner.WithReporter(reporter),
		runner.WithSource(opts.Path),
	).Run(ctx, source)
	if err != nil {
		return report, err
	}

	if opts.Save {
		if err := eng.Save(ctx, report); err != nil {
			return report, err
		}
		fmt.Fprintf(opts.Stderr, "Report saved: %s\n", report.ID)
	}

	if opts.Strict && report.Summary.Failed > 0 {
		return report, fmt.Errorf("%w: %d of %d", ErrLinesFailed, report.Summary.Failed, report.Summary.Total)
	}
	return report, nil
}

func (o *RunOptions) defaults() {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Logger == nil {
		o.Logger = NewLogger(o.Config.Verbose)
	}
}

func openSource(path string, stdin io.Reader) (ports.LineSource, func() error, error) {
	if path == StdinPath {
		return file.NewSource(stdin), func() error { return nil }, nil
	}
	src, err := file.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return src, src.Close, nil
}

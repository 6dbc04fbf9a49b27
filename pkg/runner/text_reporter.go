package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/druide/pkg/domain"
	"github.com/muesli/termenv"
)

// TextReporter writes one human-readable line per outcome.
type TextReporter struct {
	mu      sync.Mutex
	out     *termenv.Output
	color   bool
	summary bool
}

// TextReporterOption defines configuration for TextReporter.
type TextReporterOption func(*TextReporter)

// WithColor enables ANSI colours regardless of the detected terminal profile.
func WithColor(enabled bool) TextReporterOption {
	return func(t *TextReporter) {
		t.color = enabled
	}
}

// WithSummary appends a summary line when the run finishes.
func WithSummary(enabled bool) TextReporterOption {
	return func(t *TextReporter) {
		t.summary = enabled
	}
}

// NewTextReporter creates a reporter writing to w (os.Stdout if nil).
func NewTextReporter(w io.Writer, opts ...TextReporterOption) *TextReporter {
	if w == nil {
		w = os.Stdout
	}
	t := &TextReporter{}
	for _, opt := range opts {
		opt(t)
	}
	profile := termenv.Ascii
	if t.color {
		profile = termenv.ANSI256
	}
	t.out = termenv.NewOutput(w, termenv.WithProfile(profile))
	return t
}

// Report writes "Line N: expr => value" or "Error line N: message".
func (t *TextReporter) Report(ctx context.Context, o domain.Outcome) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var line string
	if o.OK() {
		value := t.out.String(o.Value.String()).Foreground(t.out.Color("#22c55e")).Bold()
		line = fmt.Sprintf("Line %d: %s => %s", o.Line, o.Expression, value)
	} else {
		prefix := t.out.String(fmt.Sprintf("Error line %d:", o.Line)).Foreground(t.out.Color("#ef4444"))
		line = fmt.Sprintf("%s %s", prefix, o.Failure.Message)
	}
	_, err := fmt.Fprintln(t.out, line)
	return err
}

// Finish writes the summary line if enabled.
func (t *TextReporter) Finish(ctx context.Context, report *domain.Report) error {
	if !t.summary {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintln(t.out, FormatSummary(report.Summary))
	return err
}

// FormatSummary renders a summary as "N expressions, S ok, F failed (kind: n, ...)".
func FormatSummary(s domain.Summary) string {
	line := fmt.Sprintf("%d expressions, %d ok, %d failed", s.Total, s.Succeeded, s.Failed)
	if len(s.ByKind) == 0 {
		return line
	}
	kinds := make([]string, 0, len(s.ByKind))
	for k := range s.ByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("%s: %d", k, s.ByKind[k])
	}
	return line + " (" + strings.Join(parts, ", ") + ")"
}

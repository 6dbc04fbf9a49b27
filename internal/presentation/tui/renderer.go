package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/druide/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// An empty style detects light or dark terminals automatically.
func NewRenderer(style string) (func(string) (string, error), error) {
	opt := glamour.WithAutoStyle()
	if style != "" {
		opt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(100))
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r.Render, nil
}

var cellEscaper = strings.NewReplacer("|", "\\|", "`", "\\`")

// ReportMarkdown renders a report as a Markdown document with one table row
// per outcome.
func ReportMarkdown(report *domain.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Report %s\n\n", report.ID)
	if report.Source != "" {
		fmt.Fprintf(&b, "- **Source:** %s\n", cellEscaper.Replace(report.Source))
	}
	fmt.Fprintf(&b, "- **Created:** %s\n", report.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	s := report.Summary
	fmt.Fprintf(&b, "- **Expressions:** %d (%d ok, %d failed)\n", s.Total, s.Succeeded, s.Failed)
	if failures := report.Failures(); len(failures) > 0 {
		lines := make([]string, len(failures))
		for i, o := range failures {
			lines[i] = strconv.Itoa(o.Line)
		}
		fmt.Fprintf(&b, "- **Failed lines:** %s\n", strings.Join(lines, ", "))
	}
	b.WriteString("\n")

	if len(report.Outcomes) == 0 {
		b.WriteString("_No expressions._\n")
		return b.String()
	}

	b.WriteString("| Line | Expression | Result |\n")
	b.WriteString("|---:|---|---|\n")
	for _, o := range report.Outcomes {
		result := "`" + o.Value.String() + "`"
		if !o.OK() {
			result = fmt.Sprintf("**%s**: %s", o.Failure.Kind, cellEscaper.Replace(o.Failure.Message))
		}
		fmt.Fprintf(&b, "| %d | `%s` | %s |\n", o.Line, cellEscaper.Replace(o.Expression), result)
	}
	return b.String()
}

// RenderReport returns the report as Markdown, styled for a terminal when
// styled is true.
func RenderReport(report *domain.Report, styled bool, style string) (string, error) {
	md := ReportMarkdown(report)
	if !styled {
		return md, nil
	}
	render, err := NewRenderer(style)
	if err != nil {
		return "", err
	}
	return render(md)
}

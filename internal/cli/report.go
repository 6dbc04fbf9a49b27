package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/druide/internal/presentation/tui"
	"github.com/aretw0/druide/pkg/ports"
	"github.com/aretw0/druide/pkg/runner"
)

// ListReports prints one saved report ID per line, followed by its summary
// when summary is true.
func ListReports(ctx context.Context, store ports.ReportStore, w io.Writer, summary bool) error {
	ids, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}
	for _, id := range ids {
		line := id
		if summary {
			report, err := store.Load(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to load report %s: %w", id, err)
			}
			line = fmt.Sprintf("%s\t%s", id, runner.FormatSummary(report.Summary))
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// ShowReport prints a saved report as Markdown, styled when styled is true.
func ShowReport(ctx context.Context, store ports.ReportStore, id string, w io.Writer, styled bool) error {
	report, err := store.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load report %s: %w", id, err)
	}
	out, err := tui.RenderReport(report, styled, "")
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, out)
	return err
}

// DeleteReport removes a saved report. Deleting a missing report succeeds.
func DeleteReport(ctx context.Context, store ports.ReportStore, id string, w io.Writer) error {
	if err := store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete report %s: %w", id, err)
	}
	_, err := fmt.Fprintf(w, "Report deleted: %s\n", id)
	return err
}

package runner

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/aretw0/druide/pkg/domain"
)

// JSONReporter implements ports.Reporter for structured JSON-Lines output.
type JSONReporter struct {
	mu      sync.Mutex
	encoder *json.Encoder
	summary bool
}

// NewJSONReporter creates a reporter writing to w (os.Stdout if nil).
// When summary is set, Finish emits a final {"summary": ...} object.
func NewJSONReporter(w io.Writer, summary bool) *JSONReporter {
	if w == nil {
		w = os.Stdout
	}
	return &JSONReporter{
		encoder: json.NewEncoder(w),
		summary: summary,
	}
}

func (j *JSONReporter) Report(ctx context.Context, o domain.Outcome) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.encoder.Encode(o)
}

func (j *JSONReporter) Finish(ctx context.Context, report *domain.Report) error {
	if !j.summary {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.encoder.Encode(struct {
		ReportID string         `json:"report_id"`
		Summary  domain.Summary `json:"summary"`
	}{report.ID, report.Summary})
}

package domain

import (
	"slices"
	"time"
)

// Summary aggregates the outcomes of a Report.
type Summary struct {
	Total     int            `json:"total"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	ByKind    map[string]int `json:"by_kind,omitempty"`
}

// Report holds the outcomes of one run in input order.
type Report struct {
	ID        string    `json:"id"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Outcomes  []Outcome `json:"outcomes"`
	Summary   Summary   `json:"summary"`
}

// NewReport creates an empty report.
func NewReport(id, source string) *Report {
	return &Report{
		ID:        id,
		Source:    source,
		CreatedAt: time.Now().UTC(),
		Outcomes:  []Outcome{},
	}
}

// Add appends an outcome and updates the summary.
func (r *Report) Add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	r.Summary.Total++
	if o.OK() {
		r.Summary.Succeeded++
		return
	}
	r.Summary.Failed++
	if r.Summary.ByKind == nil {
		r.Summary.ByKind = make(map[string]int)
	}
	r.Summary.ByKind[o.Failure.Kind]++
}

// Snapshot returns a deep copy of the report.
func (r *Report) Snapshot() *Report {
	if r == nil {
		return nil
	}
	c := *r
	c.Outcomes = make([]Outcome, len(r.Outcomes))
	for i, o := range r.Outcomes {
		if o.Failure != nil {
			f := *o.Failure
			if f.Position != nil {
				pos := *f.Position
				f.Position = &pos
			}
			o.Failure = &f
		}
		c.Outcomes[i] = o
	}
	if r.Summary.ByKind != nil {
		c.Summary.ByKind = make(map[string]int, len(r.Summary.ByKind))
		for k, v := range r.Summary.ByKind {
			c.Summary.ByKind[k] = v
		}
	}
	return &c
}

// Failures returns the failed outcomes in input order.
func (r *Report) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return slices.Clip(out)
}

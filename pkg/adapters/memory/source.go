package memory

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/aretw0/druide/pkg/domain"
)

// Source implements ports.LineSource over lines held in memory.
type Source struct {
	mu    sync.Mutex
	lines []string
	next  int
}

// NewSource creates a source over the given lines. Line numbers are 1-based
// positions in lines; blank and comment lines are skipped.
func NewSource(lines ...string) *Source {
	return &Source{lines: lines}
}

// NewSourceFromText splits text on newlines and wraps the result.
func NewSourceFromText(text string) *Source {
	return NewSource(strings.Split(text, "\n")...)
}

// Next returns the next expression, or io.EOF.
func (s *Source) Next(ctx context.Context) (domain.Expression, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.next < len(s.lines) {
		if err := ctx.Err(); err != nil {
			return domain.Expression{}, err
		}
		i := s.next
		s.next++
		if expr, ok := domain.ParseLine(i+1, s.lines[i]); ok {
			return expr, nil
		}
	}
	return domain.Expression{}, io.EOF
}

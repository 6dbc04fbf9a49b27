package file

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/druide/pkg/domain"
)

// MaxLineSize bounds a single input line.
const MaxLineSize = 1 << 20

// Source implements ports.LineSource over a line-oriented reader.
type Source struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    int
}

// NewSource reads expressions from r, one per line.
func NewSource(r io.Reader) *Source {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	s := &Source{scanner: scanner}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Open opens path for reading. A missing file yields an error wrapping both
// domain.ErrFileNotFound and fs.ErrNotExist.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrFileNotFound, path, err)
		}
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return NewSource(f), nil
}

// Next returns the next non-blank, non-comment line.
func (s *Source) Next(ctx context.Context) (domain.Expression, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.Expression{}, err
		}
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return domain.Expression{}, fmt.Errorf("failed to read line %d: %w", s.line+1, err)
			}
			return domain.Expression{}, io.EOF
		}
		s.line++
		if expr, ok := domain.ParseLine(s.line, s.scanner.Text()); ok {
			return expr, nil
		}
	}
}

// Close releases the underlying reader if it is closable.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

package domain

import (
	"strings"
	"unicode"
)

// CommentPrefix marks a line that is ignored by line sources.
const CommentPrefix = "#"

// Expression is one input line ready for evaluation.
type Expression struct {
	// Line is the 1-based physical line number in the input.
	Line int `json:"line"`

	// Text is the trimmed line.
	Text string `json:"expression"`

	// Tokens is Text split on single spaces; repeated spaces yield empty tokens.
	Tokens []string `json:"-"`
}

// NewExpression builds an Expression from raw line text.
func NewExpression(line int, text string) Expression {
	text = strings.TrimSpace(text)
	return Expression{
		Line:   line,
		Text:   text,
		Tokens: Tokenize(text),
	}
}

// ParseLine returns the Expression for a raw input line, or false when the line
// is blank or a comment.
func ParseLine(line int, raw string) (Expression, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, CommentPrefix) {
		return Expression{}, false
	}
	return NewExpression(line, trimmed), true
}

func spaceRune(r rune) rune {
	if unicode.IsSpace(r) {
		return ' '
	}
	return r
}

// Tokenize splits text on single spaces after mapping every Unicode space
// rune to ' '. The empty string yields a single empty token.
func Tokenize(text string) []string {
	return strings.Split(strings.Map(spaceRune, text), " ")
}

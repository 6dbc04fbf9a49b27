package rpn

import (
	"errors"
	"fmt"
)

// Kind classifies an evaluation failure.
type Kind int

const (
	KindInvalidToken Kind = iota + 1
	KindInsufficientOperands
	KindDivisionByZero
	KindEmptyExpression
	KindMalformedExpression
)

// Kinds lists every failure kind in declaration order.
var Kinds = []Kind{
	KindInvalidToken,
	KindInsufficientOperands,
	KindDivisionByZero,
	KindEmptyExpression,
	KindMalformedExpression,
}

// ErrEvaluation is matched by every error returned from Evaluate.
var ErrEvaluation = errors.New("rpn evaluation failed")

// Sentinels for errors.Is checks against a single kind.
var (
	ErrInvalidToken         = fmt.Errorf("%w: invalid token", ErrEvaluation)
	ErrInsufficientOperands = fmt.Errorf("%w: insufficient operands", ErrEvaluation)
	ErrDivisionByZero       = fmt.Errorf("%w: division by zero", ErrEvaluation)
	ErrEmptyExpression      = fmt.Errorf("%w: empty expression", ErrEvaluation)
	ErrMalformedExpression  = fmt.Errorf("%w: malformed expression", ErrEvaluation)
)

// String returns the snake_case identifier used in reports and JSON payloads.
func (k Kind) String() string {
	switch k {
	case KindInvalidToken:
		return "invalid_token"
	case KindInsufficientOperands:
		return "insufficient_operands"
	case KindDivisionByZero:
		return "division_by_zero"
	case KindEmptyExpression:
		return "empty_expression"
	case KindMalformedExpression:
		return "malformed_expression"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidToken:
		return ErrInvalidToken
	case KindInsufficientOperands:
		return ErrInsufficientOperands
	case KindDivisionByZero:
		return ErrDivisionByZero
	case KindEmptyExpression:
		return ErrEmptyExpression
	case KindMalformedExpression:
		return ErrMalformedExpression
	default:
		return ErrEvaluation
	}
}

// Error is the failure returned by Evaluate.
//
// Token and Position are set for KindInvalidToken and KindInsufficientOperands
// (Position is also set for KindDivisionByZero). Count holds the number of
// leftover values for KindMalformedExpression.
type Error struct {
	Kind     Kind
	Token    string
	Position int
	Count    int
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidToken:
		return fmt.Sprintf("invalid token %q at position %d", e.Token, e.Position)
	case KindInsufficientOperands:
		return fmt.Sprintf("operator %q at position %d needs two operands", e.Token, e.Position)
	case KindDivisionByZero:
		return "division by zero"
	case KindEmptyExpression:
		return "empty expression"
	case KindMalformedExpression:
		return fmt.Sprintf("malformed expression: %d values left on the stack", e.Count)
	default:
		return ErrEvaluation.Error()
	}
}

// Unwrap exposes the per-kind sentinel, which in turn wraps ErrEvaluation.
func (e *Error) Unwrap() error {
	return e.Kind.sentinel()
}

// KindOf reports the Kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

package rpn

import (
	"errors"
	"strconv"
)

// Evaluator evaluates token sequences. The zero value is ready to use.
type Evaluator struct {
	Tracer Tracer
}

// Evaluate evaluates tokens with a zero Evaluator.
func Evaluate(tokens []string) (float64, error) {
	return Evaluator{}.Evaluate(tokens)
}

// Evaluate runs the stack machine over tokens, left to right. Empty tokens are
// skipped. The first failure aborts the evaluation.
func (ev Evaluator) Evaluate(tokens []string) (float64, error) {
	stack := make([]float64, 0, len(tokens))

	for i, tok := range tokens {
		if tok == "" {
			continue
		}

		if v, ok := parseNumber(tok); ok {
			stack = append(stack, v)
			ev.trace(Event{Type: EventPush, Position: i, Token: tok, Value: v, Depth: len(stack)})
			continue
		}

		op, ok := ParseOperator(tok)
		if !ok {
			return 0, &Error{Kind: KindInvalidToken, Token: tok, Position: i}
		}
		if len(stack) < 2 {
			return 0, &Error{Kind: KindInsufficientOperands, Token: tok, Position: i}
		}

		b := stack[len(stack)-1]
		a := stack[len(stack)-2]
		stack = stack[:len(stack)-2]
		ev.trace(Event{Type: EventPop, Position: i, Token: tok, Left: a, Right: b, Depth: len(stack)})

		v, err := op.Apply(a, b)
		if err != nil {
			var e *Error
			if errors.As(err, &e) {
				e.Position = i
			}
			return 0, err
		}
		stack = append(stack, v)
		ev.trace(Event{Type: EventPush, Position: i, Token: tok, Value: v, Depth: len(stack)})
	}

	switch len(stack) {
	case 0:
		return 0, &Error{Kind: KindEmptyExpression}
	case 1:
		ev.trace(Event{Type: EventResult, Position: len(tokens), Value: stack[0], Depth: 1})
		return stack[0], nil
	default:
		return 0, &Error{Kind: KindMalformedExpression, Count: len(stack)}
	}
}

func (ev Evaluator) trace(e Event) {
	if ev.Tracer != nil {
		ev.Tracer.Trace(e)
	}
}

// parseNumber accepts everything strconv.ParseFloat does, including literals
// whose magnitude overflows (they become ±Inf) or underflows (they become 0).
func parseNumber(tok string) (float64, bool) {
	v, err := strconv.ParseFloat(tok, 64)
	if err == nil {
		return v, true
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
		return v, true
	}
	return 0, false
}

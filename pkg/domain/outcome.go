package domain

import (
	"encoding/json"
	"errors"

	"github.com/aretw0/druide/pkg/rpn"
)

// KindInternal classifies failures that did not come from the evaluator.
const KindInternal = "internal"

// Failure is the serialisable form of an evaluation error.
type Failure struct {
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Token    string `json:"token,omitempty"`
	Position *int   `json:"position,omitempty"`
	Count    int    `json:"count,omitempty"`
}

// NewFailure converts err into a Failure. Errors from package rpn keep their
// kind and details; anything else is classified as KindInternal.
func NewFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	var e *rpn.Error
	if !errors.As(err, &e) {
		return &Failure{Kind: KindInternal, Message: err.Error()}
	}
	f := &Failure{
		Kind:    e.Kind.String(),
		Message: e.Error(),
	}
	switch e.Kind {
	case rpn.KindInvalidToken, rpn.KindInsufficientOperands:
		pos := e.Position
		f.Token = e.Token
		f.Position = &pos
	case rpn.KindMalformedExpression:
		f.Count = e.Count
	}
	return f
}

func (f *Failure) Error() string {
	return f.Message
}

// Unwrap rebuilds the evaluator error so errors.Is matches the rpn sentinels
// even after a round trip through a store.
func (f *Failure) Unwrap() error {
	k, ok := rpn.ParseKind(f.Kind)
	if !ok {
		return nil
	}
	e := &rpn.Error{Kind: k, Token: f.Token, Count: f.Count}
	if f.Position != nil {
		e.Position = *f.Position
	}
	return e
}

// Outcome is the result of evaluating one Expression.
type Outcome struct {
	Line       int      `json:"line"`
	Expression string   `json:"expression"`
	Value      Number   `json:"value"`
	Failure    *Failure `json:"error,omitempty"`
}

// NewOutcome pairs an expression with the result of evaluating it.
func NewOutcome(expr Expression, value float64, err error) Outcome {
	o := Outcome{
		Line:       expr.Line,
		Expression: expr.Text,
	}
	if err != nil {
		o.Failure = NewFailure(err)
		return o
	}
	o.Value = Number(value)
	return o
}

// MarshalJSON omits value on failed outcomes.
func (o Outcome) MarshalJSON() ([]byte, error) {
	type wire struct {
		Line       int      `json:"line"`
		Expression string   `json:"expression"`
		Value      *Number  `json:"value,omitempty"`
		Failure    *Failure `json:"error,omitempty"`
	}
	w := wire{Line: o.Line, Expression: o.Expression, Failure: o.Failure}
	if o.Failure == nil {
		v := o.Value
		w.Value = &v
	}
	return json.Marshal(w)
}

// OK reports whether the evaluation succeeded.
func (o Outcome) OK() bool {
	return o.Failure == nil
}

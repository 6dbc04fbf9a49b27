package rpn

// Operator is one of the four binary arithmetic operators.
type Operator byte

const (
	Add Operator = '+'
	Sub Operator = '-'
	Mul Operator = '*'
	Div Operator = '/'
)

// ParseOperator recognises a token that is exactly one operator symbol.
func ParseOperator(token string) (Operator, bool) {
	if len(token) != 1 {
		return 0, false
	}
	switch op := Operator(token[0]); op {
	case Add, Sub, Mul, Div:
		return op, true
	}
	return 0, false
}

func (o Operator) String() string {
	return string(rune(o))
}

// Apply computes a <op> b. Dividing by zero (either sign) is an error rather
// than an infinity.
func (o Operator) Apply(a, b float64) (float64, error) {
	switch o {
	case Add:
		return a + b, nil
	case Sub:
		return a - b, nil
	case Mul:
		return a * b, nil
	case Div:
		if b == 0 {
			return 0, &Error{Kind: KindDivisionByZero, Token: o.String()}
		}
		return a / b, nil
	}
	return 0, &Error{Kind: KindInvalidToken, Token: o.String()}
}

/*
Package rpn evaluates Reverse Polish Notation expressions.

An expression is an ordered sequence of tokens. Numeric literals are pushed onto
an operand stack and each of the binary operators +, -, * and / pops two values
(right operand first) and pushes the result. Evaluation succeeds only when
exactly one value remains once every token has been consumed.

Every call owns its stack, so an Evaluator value can be shared freely between
goroutines. Failures are reported as *Error values whose Kind belongs to a
closed set; errors.Is(err, ErrEvaluation) holds for all of them.

	v, err := rpn.Evaluate([]string{"4", "7", "+", "3", "*"})
	// v == 33

Diagnostics are available through an optional Tracer, which observes push, pop
and result events without influencing them.
*/
package rpn

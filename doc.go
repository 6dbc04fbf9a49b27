/*
Package druide evaluates arithmetic expressions written in Reverse Polish
Notation (postfix), one expression per line.

Each expression is a sequence of space-separated tokens. Numbers are pushed on
a stack; the operators + - * / pop two operands, apply themselves and push the
result. A well-formed expression leaves exactly one value on the stack.

# Concept

The evaluator itself lives in package rpn and is a pure function of its
tokens. This package is the facade used by hosts (the CLI, the HTTP server,
the MCP server): it adds input sanitization, batch processing with a bounded
worker pool, lifecycle hooks, diagnostic tracing and report persistence.

# Usage

	eng := druide.New()

	v, err := eng.Evaluate([]string{"3", "5", "+"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(v) // 8

	// Batch mode: outcomes arrive in input order.
	src := memory.NewSource("4 7 + 3 *", "4 0 /")
	report, err := eng.Process(ctx, src, runner.NewTextReporter(os.Stdout))

# Errors

Evaluation failures are *rpn.Error values. Use errors.Is with rpn.ErrEvaluation
to detect any evaluation failure, or with a per-kind sentinel such as
rpn.ErrDivisionByZero. Failures of individual lines in a batch never stop the
batch; they are recorded in the report.
*/
package druide

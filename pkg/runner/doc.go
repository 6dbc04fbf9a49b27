/*
Package runner implements batch evaluation of RPN expressions.

It acts as the bridge between the pure evaluator (package rpn) and the outside
world: a LineSource supplies expressions, a bounded pool of workers evaluates
them, and a Reporter receives the outcomes strictly in input order. One failing
line never stops the run; read errors and cancellation do.

# Key Components

  - Runner: reads, evaluates and reports; returns the assembled Report.
  - TextReporter: "Line N: expr => value" / "Error line N: message" output.
  - JSONReporter: one JSON object per outcome (JSON Lines).
  - Sanitizer: guards untrusted input before it is tokenized.

# Usage

	src, err := file.Open("input.txt")
	if err != nil {
		log.Fatal(err)
	}
	defer src.Close()

	r := runner.NewRunner(
		runner.WithWorkers(4),
		runner.WithReporter(runner.NewTextReporter(os.Stdout)),
	)
	report, err := r.Run(ctx, src)
*/
package runner

/*
Package domain contains the value types shared by the druide caller layer.

The evaluator itself lives in package rpn and knows nothing about lines, files
or reports. This package adds that context: an Expression is one input line
split into tokens, an Outcome is the classified result of evaluating it, and a
Report collects outcomes in input order together with a Summary.

# Key Entities

  - Expression: line number, raw text and tokens of one input line.
  - Outcome: the value or the classified failure for one Expression.
  - Report: ordered outcomes of a run plus aggregate counts.
  - Hooks: callbacks invoked as outcomes are produced.

This package is free of I/O; adapters in pkg/adapters read lines and persist
reports.
*/
package domain

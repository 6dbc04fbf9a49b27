/*
Package ports defines the driven ports (interfaces) of the druide caller layer.

These interfaces decouple batch processing from where expressions come from,
where outcomes are written and where reports are kept.

# Key Interfaces

  - LineSource: yields Expressions one at a time (e.g., from a file or memory).
  - Reporter: receives Outcomes in input order and the final Report.
  - ReportStore: persists and loads Reports.
*/
package ports

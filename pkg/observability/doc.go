/*
Package observability exposes evaluation activity as Prometheus metrics.

Metrics are recorded through domain.Hooks, so any runner or engine that fires
hooks can be measured without knowing about Prometheus.
*/
package observability

// Package http exposes the evaluator as a JSON API routed with chi.
//
// The API contract lives in openapi.yaml, embedded in the binary and served at
// GET /openapi.yaml.
package http

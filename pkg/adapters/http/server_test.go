package http

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/druide"
	"github.com/aretw0/druide/internal/logging"
	"github.com/aretw0/druide/pkg/adapters/memory"
	"github.com/aretw0/druide/pkg/domain"
	"github.com/aretw0/druide/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, opts ...druide.Option) (http.Handler, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	eng := druide.New(append(opts, druide.WithHooks(metrics.Hooks()))...)
	handler, err := NewHandler(eng, WithMetrics(reg), WithVersion("1.2.3"))
	require.NoError(t, err)
	return handler, reg
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestGetSwagger(t *testing.T) {
	doc, err := GetSwagger()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", doc.Info.Version)
	assert.NotNil(t, doc.Paths.Find("/evaluate"))
	assert.NotNil(t, doc.Paths.Find("/reports/{id}"))
}

func TestEvaluate(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"expression", `{"expression": "3 5 +"}`, http.StatusOK, `{"value":8}`},
		{"tokens", `{"tokens": ["4", "7", "+", "3", "*"]}`, http.StatusOK, `{"value":33}`},
		{"fraction", `{"expression": "1 2 /"}`, http.StatusOK, `{"value":0.5}`},
		{"overflow", `{"expression": "1e308 10 *"}`, http.StatusOK, `{"value":"+Inf"}`},
		{
			"division by zero", `{"expression": "4 0 /"}`, http.StatusUnprocessableEntity,
			`{"error":{"kind":"division_by_zero","message":"division by zero"}}`,
		},
		{
			"invalid token", `{"expression": "3 5 &"}`, http.StatusUnprocessableEntity,
			`{"error":{"kind":"invalid_token","message":"invalid token \"&\" at position 2","token":"&","position":2}}`,
		},
		{
			"malformed", `{"tokens": ["2", "3", "4", "+"]}`, http.StatusUnprocessableEntity,
			`{"error":{"kind":"malformed_expression","message":"malformed expression: 2 values left on the stack","count":2}}`,
		},
		{
			"empty", `{"tokens": []}`, http.StatusUnprocessableEntity,
			`{"error":{"kind":"empty_expression","message":"empty expression"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, "POST", "/evaluate", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestEvaluate_BadRequest(t *testing.T) {
	h, _ := newTestHandler(t, druide.WithMaxInputSize(16))

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"expression": `},
		{"trailing data", `{"expression": "1"} {}`},
		{"missing fields", `{}`},
		{"both fields", `{"expression": "1", "tokens": ["1"]}`},
		{"too large", `{"expression": "1 1 + 1 + 1 + 1 + 1 +"}`},
		{"too large tokens", `{"tokens": ["11111111", "22222222", "+"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, "POST", "/evaluate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestBatch(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "POST", "/batch", `{"lines": ["3 5 +", "", "# c", "4 0 /", "3.5 2 *"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var report domain.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Len(t, report.Outcomes, 3)
	assert.Equal(t, 1, report.Outcomes[0].Line)
	assert.Equal(t, 4, report.Outcomes[1].Line)
	assert.Equal(t, "division_by_zero", report.Outcomes[1].Failure.Kind)
	assert.Equal(t, domain.Number(7), report.Outcomes[2].Value)
	assert.Equal(t, domain.Summary{Total: 3, Succeeded: 2, Failed: 1, ByKind: map[string]int{"division_by_zero": 1}}, report.Summary)

	var raw struct {
		Outcomes []map[string]json.RawMessage `json:"outcomes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.NotContains(t, raw.Outcomes[1], "value")
	assert.Contains(t, raw.Outcomes[2], "value")
}

func TestBatch_SaveWithoutStore(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "POST", "/batch", `{"lines": ["1"], "save": true}`)
	assert.Equal(t, http.StatusNotImplemented, w.Code)

	w = do(t, h, "POST", "/batch", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReports_Lifecycle(t *testing.T) {
	h, _ := newTestHandler(t, druide.WithStore(memory.NewStore()))

	w := do(t, h, "POST", "/batch", `{"lines": ["1 2 +"], "save": true}`)
	require.Equal(t, http.StatusOK, w.Code)
	var saved domain.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	require.NotEmpty(t, saved.ID)

	w = do(t, h, "GET", "/reports", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ids":["`+saved.ID+`"]}`, w.Body.String())

	w = do(t, h, "GET", "/reports/"+saved.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var loaded domain.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loaded))
	assert.Equal(t, saved.Outcomes, loaded.Outcomes)

	w = do(t, h, "DELETE", "/reports/"+saved.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, "GET", "/reports/"+saved.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, "GET", "/reports", "")
	assert.JSONEq(t, `{"ids":[]}`, w.Body.String())
}

func TestReports_NoStore(t *testing.T) {
	h, _ := newTestHandler(t)

	assert.Equal(t, http.StatusNotImplemented, do(t, h, "GET", "/reports", "").Code)
	assert.Equal(t, http.StatusNotImplemented, do(t, h, "GET", "/reports/x", "").Code)
	assert.Equal(t, http.StatusNotImplemented, do(t, h, "DELETE", "/reports/x", "").Code)
}

func TestHealthAndInfo(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, "GET", "/info", "")
	assert.JSONEq(t, `{"app":"druide-http","version":"1.2.3","api_version":"1.0.0"}`, w.Body.String())

	w = do(t, h, "GET", "/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
}

func TestCORS_Preflight(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "OPTIONS", "/evaluate", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetrics(t *testing.T) {
	h, _ := newTestHandler(t)

	do(t, h, "POST", "/evaluate", `{"expression": "1 1 +"}`)
	do(t, h, "POST", "/evaluate", `{"expression": "1 0 /"}`)

	w := do(t, h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `druide_expressions_total{outcome="ok"} 1`)
	assert.Contains(t, body, `druide_expressions_total{outcome="error"} 1`)
	assert.Contains(t, body, `druide_errors_total{kind="division_by_zero"} 1`)
}

func TestServe_GracefulShutdown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	h, _ := newTestHandler(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, addr, h, logging.NewNop()) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}

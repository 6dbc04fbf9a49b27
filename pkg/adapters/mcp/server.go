package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/druide/pkg/domain"
	"github.com/aretw0/druide/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerName identifies the server to MCP clients.
const ServerName = "druide-mcp"

// ReportURIPrefix prefixes the URI of saved report resources.
const ReportURIPrefix = "druide://reports/"

// Engine defines what the MCP server needs from the evaluation core.
type Engine interface {
	EvaluateLine(ctx context.Context, text string) (domain.Outcome, error)
	ProcessLines(ctx context.Context, lines []string) (*domain.Report, error)
	Store() ports.ReportStore
}

// EvaluateArgs are the arguments of the evaluate_rpn tool.
type EvaluateArgs struct {
	Expression string `json:"expression"`
}

// BatchArgs are the arguments of the evaluate_batch tool.
type BatchArgs struct {
	Lines string `json:"lines"`
}

// EvaluateResult is the structured result of evaluate_rpn.
// Exactly one of Value and Error is meaningful, as reported by OK.
type EvaluateResult struct {
	Expression string          `json:"expression" jsonschema_description:"The evaluated expression"`
	OK         bool            `json:"ok" jsonschema_description:"Whether the expression evaluated to a value"`
	Value      *domain.Number  `json:"value,omitempty" jsonschema_description:"The value, present only when ok is true"`
	Error      *domain.Failure `json:"error,omitempty" jsonschema_description:"The failure with its kind"`
}

// BatchResult is the structured result of evaluate_batch.
type BatchResult struct {
	Outcomes []domain.Outcome `json:"outcomes" jsonschema_description:"One outcome per expression, in input order"`
	Summary  domain.Summary   `json:"summary" jsonschema_description:"Counts by outcome and error kind"`
}

// Server wraps the Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		engine: engine,
		logger: logger,
		mcpServer: server.NewMCPServer(ServerName, version,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
			server.WithRecovery(),
		),
	}
	s.registerTools()
	if engine.Store() != nil {
		s.registerResources()
	}
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: evaluate_rpn
	evaluateTool := mcp.NewTool("evaluate_rpn",
		mcp.WithDescription("Evaluate one arithmetic expression in Reverse Polish Notation, e.g. '4 7 + 3 *'. Supports + - * / on decimal numbers."),
		mcp.WithString("expression", mcp.Required(), mcp.Description("Space separated tokens")),
		mcp.WithOutputSchema[EvaluateResult](),
	)
	s.mcpServer.AddTool(evaluateTool, mcp.NewStructuredToolHandler(s.handleEvaluate))

	// TOOL: evaluate_batch
	batchTool := mcp.NewTool("evaluate_batch",
		mcp.WithDescription("Evaluate several RPN expressions, one per line. Blank lines and lines starting with '#' are skipped."),
		mcp.WithString("lines", mcp.Required(), mcp.Description("Newline separated expressions")),
		mcp.WithOutputSchema[BatchResult](),
	)
	s.mcpServer.AddTool(batchTool, mcp.NewStructuredToolHandler(s.handleBatch))
}

func (s *Server) handleEvaluate(ctx context.Context, request mcp.CallToolRequest, args EvaluateArgs) (EvaluateResult, error) {
	o, err := s.engine.EvaluateLine(ctx, args.Expression)
	if err != nil {
		s.logger.Warn("MCP Evaluate: Input rejected", "error", err, "size", len(args.Expression))
		return EvaluateResult{}, fmt.Errorf("input rejected: %w", err)
	}
	res := EvaluateResult{
		Expression: o.Expression,
		OK:         o.OK(),
		Error:      o.Failure,
	}
	if o.OK() {
		v := o.Value
		res.Value = &v
	}
	return res, nil
}

func (s *Server) handleBatch(ctx context.Context, request mcp.CallToolRequest, args BatchArgs) (BatchResult, error) {
	report, err := s.engine.ProcessLines(ctx, strings.Split(args.Lines, "\n"))
	if err != nil {
		s.logger.Warn("MCP Batch: Input rejected", "error", err)
		return BatchResult{}, fmt.Errorf("batch failed: %w", err)
	}
	return BatchResult{
		Outcomes: report.Outcomes,
		Summary:  report.Summary,
	}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: druide://reports/{id}
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(ReportURIPrefix+"{id}", "Saved Report",
		mcp.WithTemplateDescription("A report saved by a previous batch run"),
		mcp.WithTemplateMIMEType("application/json"),
	), s.handleReadReport)
}

func (s *Server) handleReadReport(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	id, ok := strings.CutPrefix(uri, ReportURIPrefix)
	if !ok || id == "" {
		return nil, fmt.Errorf("invalid report URI %q", uri)
	}

	report, err := s.engine.Store().Load(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrReportNotFound) {
			return nil, fmt.Errorf("report %s: %w", id, err)
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

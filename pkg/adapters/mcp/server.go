// Package mcp exposes the feedback bridge as a Model Context Protocol
// server over stdio or SSE.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	"github.com/feedbridge/feedbridge/pkg/domain"
)

// Collector runs one feedback request to a terminal status.
type Collector interface {
	Collect(ctx context.Context, req domain.Request) domain.Response
}

// Server wraps the bridge and exposes it as an MCP server.
type Server struct {
	collector Collector
	metrics   http.Handler
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server and registers the feedback tools.
// metricsHandler may be nil; it is only mounted on the SSE transport.
func NewServer(collector Collector, version string, metricsHandler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		collector: collector,
		metrics:   metricsHandler,
		logger:    logger,
		mcpServer: server.NewMCPServer("feedbridge", version),
	}
	s.registerTools()
	return s
}

// registerTools binds both tool names to the one shared handler. The alias
// exists because agent prompts in the wild call it either way; behavior is
// identical.
func (s *Server) registerTools() {
	defs := []struct {
		name        string
		description string
	}{
		{
			name:        "get_user_feedback",
			description: "Ask the human user for free-form feedback. Opens a dialog on the user's machine, waits for them to answer, and returns what they typed (plus optional image attachments).",
		},
		{
			name:        "ask_user",
			description: "Ask the human user a question and wait for their typed answer. Identical to get_user_feedback.",
		},
	}
	for _, def := range defs {
		tool := mcp.NewTool(def.name,
			mcp.WithDescription(def.description),
			mcp.WithString("prompt",
				mcp.Required(),
				mcp.Description("The question or request to show the user"),
			),
		)
		s.mcpServer.AddTool(tool, s.handleFeedback)
	}
}

// handleFeedback decodes the arguments and runs the bridge. Bridge outcomes
// (including error/timeout/cancelled) travel in-band in the JSON result;
// only malformed arguments produce a tool-level error.
func (s *Server) handleFeedback(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var req domain.Request
	if err := mapstructure.Decode(request.GetArguments(), &req); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	resp := s.collector.Collect(ctx, req)

	data, err := json.Marshal(resp)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	result := mcp.NewToolResultText(string(data))
	for _, img := range resp.Images {
		result.Content = append(result.Content, mcp.ImageContent{
			Type:     "image",
			Data:     img.Data,
			MIMEType: img.MimeType,
		})
	}
	return result, nil
}

// ServeStdio serves JSON-RPC on stdin/stdout. Logs must already be routed
// to stderr.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP SSE transport on the given port, along with
// /healthz and /metrics. It shuts down gracefully when ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	r := chi.NewRouter()
	r.Handle("/sse", sseServer.SSEHandler())
	r.Handle("/message", sseServer.MessageHandler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	httpServer := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutdown signal received, draining SSE server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

// Package mcp exposes the calculator service as Model Context Protocol tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/clinical-calculator-mcp-server/internal/service"
)

// Transport types accepted by Serve.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Server wraps the SDK server with the calculator tools registered.
type Server struct {
	service   *service.CalculatorService
	mcpServer *mcp.Server
	exportDir string
	logger    *logrus.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithExportDir enables the export_evaluation_history and import_evaluation_history tools.
// Exports are written into dir.
func WithExportDir(dir string) Option {
	return func(s *Server) { s.exportDir = dir }
}

// NewServer creates an MCP server over svc.
func NewServer(svc *service.CalculatorService, name, version string, logger *logrus.Logger, opts ...Option) *Server {
	s := &Server{
		service: svc,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcpServer = mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil)
	s.registerTools()
	return s
}

// MCPServer returns the underlying SDK server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

// Serve runs the server on the given transport until ctx is cancelled or the
// client disconnects.
func (s *Server) Serve(ctx context.Context, transport, host string, port int) error {
	switch transport {
	case TransportStdio, "":
		s.logger.Info("Serving MCP over stdio")
		if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("MCP server failed: %w", err)
		}
		return nil
	case TransportHTTP:
		return s.serveHTTP(ctx, net.JoinHostPort(host, strconv.Itoa(port)))
	default:
		return fmt.Errorf("unsupported transport %q", transport)
	}
}

// Handler returns the streamable HTTP handler serving this server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
}

func (s *Server) serveHTTP(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/mcp", s.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("Serving MCP over streamable HTTP")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving MCP HTTP: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "evaluate_calculator",
		Description: "Evaluate a clinical calculator. Inputs map field ids to numeric values; use get_calculator_schema to discover fields and allowed option values.",
	}, s.handleEvaluate)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_calculators",
		Description: "List available clinical calculators, optionally filtered by category.",
	}, s.handleList)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_calculator_schema",
		Description: "Return the input fields of a calculator with their types, options and bounds.",
	}, s.handleSchema)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "search_calculators",
		Description: "Search calculators by name, abbreviation, category or clinical indication.",
	}, s.handleSearch)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_evaluation_history",
		Description: "List recorded evaluations, or fetch one by id.",
	}, s.handleHistory)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "compute_formula",
		Description: "Compute a clinical formula such as bmi, egfr, crcl, aa_gradient or corrected_sodium.",
	}, s.handleFormula)

	count := 6
	if s.exportDir != "" {
		mcp.AddTool(s.mcpServer, &mcp.Tool{
			Name:        "export_evaluation_history",
			Description: "Export recorded evaluations to a JSON or Parquet file in the server data directory.",
		}, s.handleExport)
		mcp.AddTool(s.mcpServer, &mcp.Tool{
			Name:        "import_evaluation_history",
			Description: "Import a JSON history export. Evaluations already recorded are skipped.",
		}, s.handleImport)
		count += 2
	}

	s.logger.WithField("tool_count", count).Info("Registered MCP tools")
}

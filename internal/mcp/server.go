package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/parsingtool/internal/batch"
	"github.com/a3tai/parsingtool/internal/config"
	"github.com/a3tai/parsingtool/internal/descriptions"
	"github.com/a3tai/parsingtool/internal/output"
	"github.com/a3tai/parsingtool/internal/pdf"
	"github.com/a3tai/parsingtool/internal/pipeline"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	engine    *pipeline.Engine
	extractor batch.TextExtractor
	runner    *batch.Runner
	logger    *slog.Logger
	mcpServer *server.MCPServer

	toolStatus func() pdf.Tools
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, engine *pipeline.Engine, extractor batch.TextExtractor, logger *slog.Logger) (*Server, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if extractor == nil {
		return nil, fmt.Errorf("extractor cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		engine:    engine,
		extractor: extractor,
		runner:    batch.NewRunner(engine, extractor, logger),
		logger:    logger,
		mcpServer: mcpServer,
		toolStatus: func() pdf.Tools {
			return pdf.ToolStatus(cfg.OCR())
		},
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	for _, t := range []struct {
		name string
		dt   pipeline.DocType
	}{
		{"parse_domestic", pipeline.Domestic},
		{"parse_export", pipeline.Export},
		{"parse_packing_list", pipeline.PackingList},
	} {
		tool := mcp.NewTool(
			t.name,
			mcp.WithDescription(descriptions.GetToolDescription(t.name)),
			mcp.WithString("path",
				mcp.Required(),
				mcp.Description("Full path to the PDF file"),
			),
			mcp.WithBoolean("ocr",
				mcp.Description("Fall back to OCR when the PDF has no text layer"),
			),
		)
		s.mcpServer.AddTool(tool, s.parseFileHandler(t.dt))
	}

	parseTextTool := mcp.NewTool(
		"parse_text",
		mcp.WithDescription(descriptions.GetToolDescription("parse_text")),
		mcp.WithString("doc_type",
			mcp.Required(),
			mcp.Enum(docTypeNames()...),
			mcp.Description("Document type"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Plain document text"),
		),
	)
	s.mcpServer.AddTool(parseTextTool, s.handleParseText)

	runBatchTool := mcp.NewTool(
		"run_batch",
		mcp.WithDescription(descriptions.GetToolDescription("run_batch")),
		mcp.WithString("doc_type",
			mcp.Required(),
			mcp.Enum(docTypeNames()...),
			mcp.Description("Document type"),
		),
		mcp.WithArray("inputs",
			mcp.Required(),
			mcp.Description("PDF files or directories"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("out_dir",
			mcp.Description("Output directory (uses the configured one if empty)"),
		),
		mcp.WithBoolean("combine", mcp.Description("Write combined CSVs with a Source_File column")),
		mcp.WithBoolean("qc", mcp.Description("Write a QC report (export mode)")),
		mcp.WithBoolean("xlsx", mcp.Description("Also write an XLSX workbook")),
		mcp.WithBoolean("ocr", mcp.Description("Fall back to OCR for scanned PDFs")),
	)
	s.mcpServer.AddTool(runBatchTool, s.handleRunBatch)

	ocrStatusTool := mcp.NewTool(
		"ocr_status",
		mcp.WithDescription(descriptions.GetToolDescription("ocr_status")),
	)
	s.mcpServer.AddTool(ocrStatusTool, s.handleOCRStatus)

	serverInfoTool := mcp.NewTool(
		"server_info",
		mcp.WithDescription(descriptions.GetToolDescription("server_info")),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// toolNames lists the registered tools in registration order.
var toolNames = []string{
	"parse_domestic",
	"parse_export",
	"parse_packing_list",
	"parse_text",
	"run_batch",
	"ocr_status",
	"server_info",
}

func docTypeNames() []string {
	var names []string
	for _, dt := range pipeline.DocTypes() {
		names = append(names, string(dt))
	}
	return names
}

// Handler functions
func (s *Server) parseFileHandler(dt pipeline.DocType) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		args := request.GetArguments()

		text, err := s.extractor.Extract(ctx, path, pdf.Options{
			UseOCR: boolArg(args, "ocr", s.config.UseOCR),
			Debug:  s.config.Debug,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		res, err := s.engine.Parse(pipeline.Route(dt, filepath.Base(path)), text)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		responseText, err := formatResult(filepath.Base(path), res)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(responseText), nil
	}
}

func (s *Server) handleParseText(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("doc_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	dt, err := pipeline.ParseDocType(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.engine.Parse(dt, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText, err := formatResult("text", res)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleRunBatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("doc_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dt, err := pipeline.ParseDocType(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	inputs := stringsArg(args, "inputs")
	if len(inputs) == 0 {
		return mcp.NewToolResultError(batch.ErrNoInputs.Error()), nil
	}

	outDir := s.config.OutDir
	if dir, ok := args["out_dir"].(string); ok && dir != "" {
		outDir = dir
	}

	// The run log goes back to the caller alongside the summary.
	var logBuf bytes.Buffer
	level := slog.LevelInfo
	if s.config.IsDebug() {
		level = slog.LevelDebug
	}
	runLogger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: level}))

	sum, err := s.runner.WithLogger(runLogger).Run(ctx, batch.Options{
		Mode:    dt,
		Inputs:  inputs,
		OutDir:  outDir,
		UseOCR:  boolArg(args, "ocr", s.config.UseOCR),
		Debug:   s.config.Debug,
		Combine: boolArg(args, "combine", s.config.Combine),
		QC:      boolArg(args, "qc", s.config.QC),
		XLSX:    boolArg(args, "xlsx", s.config.XLSX),
	})
	if err != nil {
		if errors.Is(err, batch.ErrRunInProgress) {
			return mcp.NewToolResultError("another batch run is in progress, try again later"), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("%v\n\nLog:\n%s", err, logBuf.String())), nil
	}

	summary, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Batch summary:\n%s\n\nLog:\n%s", summary, logBuf.String())), nil
}

func (s *Server) handleOCRStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := s.toolStatus()
	text := fmt.Sprintf("%s\ntesseract: %s\npdftoppm: %s\n", st.Mode(), found(st.Tesseract), found(st.Pdftoppm))
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := s.toolStatus()

	text := fmt.Sprintf("📋 %s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("📁 Output Directory: %s\n", s.config.OutDir)
	text += fmt.Sprintf("📏 Max File Size: %d MB\n", s.config.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("🔍 Extraction: %s\n\n", st.Mode())

	text += "🛠️  Available Tools:\n"
	for _, name := range toolNames {
		text += fmt.Sprintf("• %s: %s\n", name, descriptions.Summary(name))
	}
	return mcp.NewToolResultText(text), nil
}

func found(ok bool) string {
	if ok {
		return "found"
	}
	return "missing"
}

// formatResult renders every table of res as CSV under its own heading.
func formatResult(source string, res pipeline.Result) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Parsed %s as %s (%d rows)\n", source, res.DocType, res.Rows())
	for _, t := range res.Tables {
		fmt.Fprintf(&b, "\n## %s (%d rows)\n", t.Schema.Name, t.Len())
		if err := output.WriteCSV(&b, t, output.CSVOptions{}); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func boolArg(args map[string]any, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return def
}

// stringsArg accepts a JSON array of strings or a single string.
func stringsArg(args map[string]any, key string) []string {
	switch v := args[key].(type) {
	case string:
		if v != "" {
			return []string{v}
		}
	case []string:
		return v
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	s.logger.Debug("starting MCP server", "mode", config.ModeStdio, "out", s.config.OutDir)

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over SSE until ctx is done.
func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))
	s.logger.Info("starting MCP server", "mode", config.ModeServer, "addr", addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- sse.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve sse: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sse.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

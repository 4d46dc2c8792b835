package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mfenderov/aitranslate/internal/ingestion"
	"github.com/mfenderov/aitranslate/internal/pipeline"
	"github.com/mfenderov/aitranslate/pkg/models"
)

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string
}

// Server exposes the translation pipeline as MCP tools.
type Server struct {
	mcpServer *server.MCPServer
	service   *pipeline.Service
	engine    *ingestion.Engine
}

// cachedResult is the get_cached tool payload.
type cachedResult struct {
	ID      string            `json:"id"`
	Kind    models.ResultKind `json:"kind"`
	Found   bool              `json:"found"`
	Content string            `json:"content,omitempty"`
}

// NewServer creates a new MCP server backed by service. engine may be nil.
func NewServer(config Config, service *pipeline.Service, engine *ingestion.Engine) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("pipeline service is required")
	}
	if engine == nil {
		engine = ingestion.New(nil, nil)
	}

	mcpServer := server.NewMCPServer(
		config.Name,
		config.Version,
		server.WithToolCapabilities(true),
	)

	s := &Server{
		mcpServer: mcpServer,
		service:   service,
		engine:    engine,
	}

	translateTool := mcp.NewTool("translate_html",
		mcp.WithDescription("Translate an HTML article, preserving its markup. Results are cached per document ID."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Stable document identifier used as the cache key"),
		),
		mcp.WithString("html",
			mcp.Required(),
			mcp.Description("HTML content to translate"),
		),
		mcp.WithString("url",
			mcp.Description("Source URL, recorded with archived results"),
		),
	)
	mcpServer.AddTool(translateTool, s.translateHandler)

	summarizeTool := mcp.NewTool("summarize_html",
		mcp.WithDescription("Summarize an HTML article. Returns a short HTML summary. Results are cached per document ID."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Stable document identifier used as the cache key"),
		),
		mcp.WithString("html",
			mcp.Required(),
			mcp.Description("HTML content to summarize"),
		),
		mcp.WithString("url",
			mcp.Description("Source URL, recorded with archived results"),
		),
	)
	mcpServer.AddTool(summarizeTool, s.summarizeHandler)

	getCachedTool := mcp.NewTool("get_cached",
		mcp.WithDescription("Look up a cached translation or summary without calling the model"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Document ID"),
		),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("Result kind: translation or summary"),
			mcp.Enum(string(models.KindTranslation), string(models.KindSummary)),
		),
	)
	mcpServer.AddTool(getCachedTool, s.getCachedHandler)

	invalidateTool := mcp.NewTool("invalidate",
		mcp.WithDescription("Drop the cached translation and summary for a document"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Document ID"),
		),
	)
	mcpServer.AddTool(invalidateTool, s.invalidateHandler)

	return s, nil
}

func (s *Server) translateHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.process(ctx, req, models.KindTranslation)
}

func (s *Server) summarizeHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.process(ctx, req, models.KindSummary)
}

// process runs one pipeline operation and ingests the result when backends are configured.
func (s *Server) process(ctx context.Context, req mcp.CallToolRequest, kind models.ResultKind) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	html, err := req.RequireString("html")
	if err != nil {
		return mcp.NewToolResultError("html parameter is required"), nil
	}

	content, err := s.service.Process(ctx, kind, id, html)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", kind, err)), nil
	}

	if s.engine.Enabled() {
		doc := models.Document{
			ID:        id,
			URL:       req.GetString("url", ""),
			HTML:      html,
			FetchedAt: time.Now(),
		}
		s.engine.Ingest(ctx, models.NewResult(doc, kind, content))
	}

	return mcp.NewToolResultText(content), nil
}

func (s *Server) getCachedHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	kind, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError("kind parameter is required"), nil
	}

	result := cachedResult{ID: id, Kind: models.ResultKind(kind)}
	switch result.Kind {
	case models.KindTranslation:
		result.Content, result.Found = s.service.CachedTranslation(id)
	case models.KindSummary:
		result.Content, result.Found = s.service.CachedSummary(id)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown kind %q", kind)), nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) invalidateHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	s.service.Invalidate(id)
	return mcp.NewToolResultText(fmt.Sprintf("invalidated %s", id)), nil
}

// ServeStdio starts the MCP server using stdio transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

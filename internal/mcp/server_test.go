package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mfenderov/aitranslate/internal/ingestion"
	"github.com/mfenderov/aitranslate/internal/llm"
	"github.com/mfenderov/aitranslate/internal/pipeline"
	"github.com/mfenderov/aitranslate/pkg/models"
)

type stubModel struct {
	mu    sync.Mutex
	calls int
	noKey bool
}

func (m *stubModel) HasCredential() bool { return !m.noKey }

func (m *stubModel) Complete(ctx context.Context, req llm.Request) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return "[zh]" + req.Content, nil
}

type recordingIndex struct {
	results []models.Result
}

func (r *recordingIndex) IndexResult(ctx context.Context, result models.Result) error {
	r.results = append(r.results, result)
	return nil
}

func newTestServer(t *testing.T, model *stubModel, engine *ingestion.Engine) *Server {
	t.Helper()
	service, err := pipeline.New(pipeline.DefaultConfig(), model, nil)
	if err != nil {
		t.Fatalf("pipeline.New() error = %v", err)
	}
	s, err := NewServer(Config{Name: "aitranslate", Version: "1.0.0"}, service, engine)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return s
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", result.Content[0])
	}
	return text.Text
}

func TestServer_Creation(t *testing.T) {
	s := newTestServer(t, &stubModel{}, nil)
	if s.mcpServer == nil {
		t.Error("mcpServer should not be nil")
	}
	if s.engine == nil {
		t.Error("engine should default to a no-op engine")
	}

	if _, err := NewServer(Config{}, nil, nil); err == nil {
		t.Error("NewServer() should fail without a service")
	}
}

func TestServer_TranslateTool(t *testing.T) {
	model := &stubModel{}
	s := newTestServer(t, model, nil)
	ctx := context.Background()

	req := callRequest("translate_html", map[string]any{
		"id":   "doc1",
		"html": `<p class="x">Hello</p>`,
	})

	result, err := s.translateHandler(ctx, req)
	if err != nil {
		t.Fatalf("translateHandler() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	if got := resultText(t, result); got != "[zh]<p>Hello</p>" {
		t.Errorf("translation = %q, want %q", got, "[zh]<p>Hello</p>")
	}

	// Second call is served from the cache
	if _, err := s.translateHandler(ctx, req); err != nil {
		t.Fatalf("translateHandler() error = %v", err)
	}
	if model.calls != 1 {
		t.Errorf("model calls = %d, want 1", model.calls)
	}
}

func TestServer_SummarizeToolIngests(t *testing.T) {
	index := &recordingIndex{}
	s := newTestServer(t, &stubModel{}, ingestion.New(nil, index))

	result, err := s.summarizeHandler(context.Background(), callRequest("summarize_html", map[string]any{
		"id":   "doc1",
		"html": "<p>Long article</p>",
		"url":  "https://example.com/a",
	}))
	if err != nil {
		t.Fatalf("summarizeHandler() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	if len(index.results) != 1 {
		t.Fatalf("indexed %d results, want 1", len(index.results))
	}
	got := index.results[0]
	if got.Kind != models.KindSummary || got.DocumentID != "doc1" || got.URL != "https://example.com/a" {
		t.Errorf("indexed result = %+v", got)
	}
}

func TestServer_ToolErrors(t *testing.T) {
	tests := []struct {
		name    string
		noKey   bool
		args    map[string]any
		wantErr string
	}{
		{
			name:    "missing id",
			args:    map[string]any{"html": "<p>x</p>"},
			wantErr: "id parameter is required",
		},
		{
			name:    "missing html",
			args:    map[string]any{"id": "doc"},
			wantErr: "html parameter is required",
		},
		{
			name:    "missing credential",
			noKey:   true,
			args:    map[string]any{"id": "doc", "html": "<p>x</p>"},
			wantErr: "API key is not configured",
		},
		{
			name:    "empty document",
			args:    map[string]any{"id": "doc", "html": "   "},
			wantErr: "document has no content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &stubModel{noKey: tt.noKey}, nil)

			result, err := s.translateHandler(context.Background(), callRequest("translate_html", tt.args))
			if err != nil {
				t.Fatalf("translateHandler() error = %v", err)
			}
			if !result.IsError {
				t.Fatal("expected tool error")
			}
			if got := resultText(t, result); !strings.Contains(got, tt.wantErr) {
				t.Errorf("error text = %q, want it to contain %q", got, tt.wantErr)
			}
		})
	}
}

func TestServer_GetCachedAndInvalidate(t *testing.T) {
	s := newTestServer(t, &stubModel{}, nil)
	ctx := context.Background()

	lookup := func(kind string) cachedResult {
		t.Helper()
		result, err := s.getCachedHandler(ctx, callRequest("get_cached", map[string]any{"id": "doc1", "kind": kind}))
		if err != nil {
			t.Fatalf("getCachedHandler() error = %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %s", resultText(t, result))
		}
		var cached cachedResult
		if err := json.Unmarshal([]byte(resultText(t, result)), &cached); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		return cached
	}

	if got := lookup("translation"); got.Found {
		t.Errorf("lookup before translate = %+v, want not found", got)
	}

	s.translateHandler(ctx, callRequest("translate_html", map[string]any{"id": "doc1", "html": "<p>Hi</p>"}))

	got := lookup("translation")
	if !got.Found || got.Content != "[zh]<p>Hi</p>" {
		t.Errorf("lookup after translate = %+v", got)
	}
	if got := lookup("summary"); got.Found {
		t.Errorf("summary lookup = %+v, want not found", got)
	}

	result, err := s.invalidateHandler(ctx, callRequest("invalidate", map[string]any{"id": "doc1"}))
	if err != nil || result.IsError {
		t.Fatalf("invalidateHandler() failed: %v", err)
	}
	if got := lookup("translation"); got.Found {
		t.Errorf("lookup after invalidate = %+v, want not found", got)
	}
}

func TestServer_GetCachedUnknownKind(t *testing.T) {
	s := newTestServer(t, &stubModel{}, nil)

	result, err := s.getCachedHandler(context.Background(), callRequest("get_cached", map[string]any{"id": "doc1", "kind": "outline"}))
	if err != nil {
		t.Fatalf("getCachedHandler() error = %v", err)
	}
	if !result.IsError {
		t.Error("unknown kind should be a tool error")
	}
}

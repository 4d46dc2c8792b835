package elasticsearch

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mfenderov/aitranslate/pkg/models"
)

func skipIfNoES(t *testing.T) {
	if os.Getenv("SKIP_ES_TESTS") == "1" {
		t.Skip("Skipping ES tests (SKIP_ES_TESTS=1)")
	}

	// Try to connect to ES
	client, err := New(Config{
		Addresses: []string{"http://localhost:9200"},
		Index:     "test-skip-check",
	})
	if err != nil {
		t.Skipf("Skipping ES tests: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if !client.Ping(ctx) {
		t.Skip("Skipping ES tests: Elasticsearch not available")
	}
}

func TestNew_RequiresIndex(t *testing.T) {
	if _, err := New(Config{Addresses: []string{"http://localhost:9200"}}); err == nil {
		t.Error("New() should fail without an index name")
	}
}

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name     string
		kind     models.ResultKind
		contains []string
		excludes []string
	}{
		{
			name:     "all kinds",
			kind:     "",
			contains: []string{`"multi_match"`, `"size":5`},
			excludes: []string{`"filter"`},
		},
		{
			name:     "filtered by kind",
			kind:     models.KindSummary,
			contains: []string{`"multi_match"`, `"term":{"kind":"summary"}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(buildSearchQuery("golang", tt.kind, 5))
			if err != nil {
				t.Fatalf("failed to marshal: %v", err)
			}
			body := string(data)
			for _, want := range tt.contains {
				if !strings.Contains(body, want) {
					t.Errorf("query should contain %s, got %s", want, body)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(body, unwanted) {
					t.Errorf("query should not contain %s, got %s", unwanted, body)
				}
			}
		})
	}
}

func TestClient_CreateIndex(t *testing.T) {
	skipIfNoES(t)

	client, err := New(Config{
		Addresses: []string{"http://localhost:9200"},
		Index:     "aitranslate-test-create",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()

	// Delete index if exists (cleanup from previous test)
	client.DeleteIndex(ctx)

	if err := client.CreateIndex(ctx); err != nil {
		t.Fatalf("CreateIndex() error = %v", err)
	}

	// Creating again should not error (idempotent)
	if err := client.CreateIndex(ctx); err != nil {
		t.Fatalf("CreateIndex() second call error = %v", err)
	}

	client.DeleteIndex(ctx)
}

func TestClient_IndexSearchGetDelete(t *testing.T) {
	skipIfNoES(t)

	client, err := New(Config{
		Addresses: []string{"http://localhost:9200"},
		Index:     "aitranslate-test-results",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	client.DeleteIndex(ctx)
	if err := client.CreateIndex(ctx); err != nil {
		t.Fatalf("CreateIndex() error = %v", err)
	}
	defer client.DeleteIndex(ctx)

	doc := models.Document{ID: "doc-1", URL: "https://example.com/go", Title: "Go concurrency"}
	translation := models.NewResult(doc, models.KindTranslation, "<p>Go channels and goroutines explained</p>")
	summary := models.NewResult(doc, models.KindSummary, "<p>A short overview of goroutines</p>")

	for _, r := range []models.Result{translation, summary} {
		if err := client.IndexResult(ctx, r); err != nil {
			t.Fatalf("IndexResult() error = %v", err)
		}
	}
	client.Refresh(ctx)

	results, err := client.Search(ctx, "goroutines", "", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Search() returned %d results, want 2", len(results))
	}

	results, err = client.Search(ctx, "goroutines", models.KindSummary, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].Kind != models.KindSummary {
		t.Errorf("Search(summary) = %+v, want only the summary", results)
	}

	got, err := client.GetResult(ctx, translation.ID)
	if err != nil {
		t.Fatalf("GetResult() error = %v", err)
	}
	if got == nil || got.Content != translation.Content {
		t.Fatalf("GetResult() = %+v", got)
	}

	if err := client.DeleteResult(ctx, translation.ID); err != nil {
		t.Fatalf("DeleteResult() error = %v", err)
	}
	got, err = client.GetResult(ctx, translation.ID)
	if err != nil {
		t.Fatalf("GetResult() after delete error = %v", err)
	}
	if got != nil {
		t.Error("GetResult() should return nil after delete")
	}

	// Deleting again is not an error
	if err := client.DeleteResult(ctx, translation.ID); err != nil {
		t.Errorf("second DeleteResult() error = %v", err)
	}
}

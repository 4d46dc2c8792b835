package storage

import (
	"context"
	"os"
	"testing"

	"github.com/mfenderov/aitranslate/pkg/models"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "empty endpoint",
			config:  Config{Endpoint: "", Bucket: "test"},
			wantErr: true,
		},
		{
			name:    "empty bucket",
			config:  Config{Endpoint: "localhost:9000", Bucket: ""},
			wantErr: true,
		},
		{
			name: "valid config",
			config: Config{
				Endpoint:        "localhost:9000",
				Bucket:          "test",
				AccessKeyID:     "minioadmin",
				SecretAccessKey: "minioadmin",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestObjectName(t *testing.T) {
	if got := ObjectName(models.KindTranslation, "abc123"); got != "translation/abc123.html" {
		t.Errorf("ObjectName() = %q", got)
	}
	if got := ObjectName(models.KindSummary, "abc123"); got != "summary/abc123.html" {
		t.Errorf("ObjectName() = %q", got)
	}
}

// TestIntegration_S3Operations tests actual S3 operations against MinIO.
// Skip if MinIO is not running.
func TestIntegration_S3Operations(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}

	client, err := New(Config{
		Endpoint:        endpoint,
		Bucket:          "aitranslate-test",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		UseSSL:          false,
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	ctx := context.Background()

	// Try to ensure bucket - skip if MinIO is not available
	if err := client.EnsureBucket(ctx); err != nil {
		t.Skipf("MinIO not available, skipping integration test: %v", err)
	}

	result := models.NewResult(models.Document{
		ID:  "test-doc",
		URL: "https://example.com/post",
	}, models.KindTranslation, "<p>你好</p>")

	t.Run("PutResult", func(t *testing.T) {
		if err := client.PutResult(ctx, result); err != nil {
			t.Fatalf("PutResult() error = %v", err)
		}
	})

	t.Run("GetResult", func(t *testing.T) {
		got, err := client.GetResult(ctx, models.KindTranslation, "test-doc")
		if err != nil {
			t.Fatalf("GetResult() error = %v", err)
		}
		if got.Content != result.Content {
			t.Errorf("GetResult().Content = %q, want %q", got.Content, result.Content)
		}
		if got.URL != result.URL {
			t.Errorf("GetResult().URL = %q, want %q", got.URL, result.URL)
		}
	})

	t.Run("ListResults", func(t *testing.T) {
		ids, err := client.ListResults(ctx, models.KindTranslation)
		if err != nil {
			t.Fatalf("ListResults() error = %v", err)
		}
		found := false
		for _, id := range ids {
			if id == "test-doc" {
				found = true
			}
		}
		if !found {
			t.Errorf("ListResults() = %v, want to include test-doc", ids)
		}
	})

	t.Run("DeleteResult", func(t *testing.T) {
		if err := client.DeleteResult(ctx, models.KindTranslation, "test-doc"); err != nil {
			t.Fatalf("DeleteResult() error = %v", err)
		}
	})
}

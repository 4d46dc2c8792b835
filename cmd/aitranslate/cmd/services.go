package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mfenderov/aitranslate/internal/config"
	"github.com/mfenderov/aitranslate/internal/credential"
	"github.com/mfenderov/aitranslate/internal/elasticsearch"
	"github.com/mfenderov/aitranslate/internal/ingestion"
	"github.com/mfenderov/aitranslate/internal/llm"
	"github.com/mfenderov/aitranslate/internal/pipeline"
	"github.com/mfenderov/aitranslate/internal/storage"
)

// newService wires the model client and pipeline from cfg.
func newService(cfg *config.Config) (*pipeline.Service, error) {
	client, err := llm.New(llm.Config{
		Endpoint:    cfg.LLM.Endpoint,
		Model:       cfg.LLM.Model,
		Credentials: credential.NewStore(cfg.LLM.APIKey),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	if !client.HasCredential() {
		slog.Warn("no API key configured; uncached requests will fail", "env", envName("llm.api_key"))
	}

	return pipeline.New(pipelineConfig(cfg), client, nil)
}

func pipelineConfig(cfg *config.Config) pipeline.Config {
	return pipeline.Config{
		Language:       cfg.LLM.TargetLanguage,
		MaxChunkLength: cfg.Translation.MaxChunkLength,
		Translation: pipeline.CallConfig{
			MaxTokens:   cfg.Translation.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.Translation.Timeout,
		},
		Summary: pipeline.CallConfig{
			MaxTokens:   cfg.Summary.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.Summary.Timeout,
		},
	}
}

func newStorage(cfg *config.Config) (*storage.Client, error) {
	client, err := storage.New(storage.Config{
		Endpoint:        cfg.Storage.Endpoint,
		Bucket:          cfg.Storage.Bucket,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		UseSSL:          cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return client, nil
}

func newSearchClient(cfg *config.Config) (*elasticsearch.Client, error) {
	client, err := elasticsearch.New(elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Index:     cfg.Elasticsearch.Index,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ES client: %w", err)
	}
	return client, nil
}

// newEngine builds an ingestion engine over the enabled backends. With
// neither storage nor Elasticsearch enabled the engine does nothing.
func newEngine(ctx context.Context, cfg *config.Config) (*ingestion.Engine, error) {
	var (
		archive ingestion.Archive
		index   ingestion.Index
	)

	if cfg.Storage.Enabled {
		storageClient, err := newStorage(cfg)
		if err != nil {
			return nil, err
		}
		if err := storageClient.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure bucket: %w", err)
		}
		archive = storageClient
		slog.Info("archiving results", "bucket", storageClient.Bucket())
	}

	if cfg.Elasticsearch.Enabled {
		esClient, err := newSearchClient(cfg)
		if err != nil {
			return nil, err
		}
		if err := esClient.CreateIndex(ctx); err != nil {
			return nil, fmt.Errorf("failed to create index: %w", err)
		}
		index = esClient
		slog.Info("indexing results", "index", cfg.Elasticsearch.Index)
	}

	return ingestion.New(archive, index), nil
}

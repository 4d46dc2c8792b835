package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/mfenderov/aitranslate/internal/ingestion"
	"github.com/mfenderov/aitranslate/pkg/models"
	"github.com/spf13/cobra"
)

var ingestKind string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index archived results from S3 into Elasticsearch",
	Long: `Re-index results previously archived in S3/MinIO into Elasticsearch.

Use this after enabling Elasticsearch, or after recreating the index.

Examples:
  # Re-index everything
  aitranslate ingest

  # Only translations
  aitranslate ingest --kind translation`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestKind, "kind", "", "Result kind to ingest: translation or summary (default both)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()
	slog.Debug("ingest command starting", "kind", ingestKind)

	if cfg.Storage.Endpoint == "" {
		return fmt.Errorf("storage not configured - check config file")
	}

	kinds := []models.ResultKind{models.KindTranslation, models.KindSummary}
	if ingestKind != "" {
		kind := models.ResultKind(ingestKind)
		if kind != models.KindTranslation && kind != models.KindSummary {
			return fmt.Errorf("unknown kind %q", ingestKind)
		}
		kinds = []models.ResultKind{kind}
	}

	storageClient, err := newStorage(&cfg)
	if err != nil {
		return err
	}

	esClient, err := newSearchClient(&cfg)
	if err != nil {
		return err
	}
	if err := esClient.CreateIndex(ctx); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	engine := ingestion.New(nil, esClient)

	var indexed, failed int
	for _, kind := range kinds {
		ids, err := storageClient.ListResults(ctx, kind)
		if err != nil {
			return fmt.Errorf("failed to list %s results: %w", kind, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Ingesting %d %s results\n", len(ids), kind)

		for _, id := range ids {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			result, err := storageClient.GetResult(ctx, kind, id)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "  Warning: %s: %v\n", id, err)
				failed++
				continue
			}

			event := engine.Ingest(ctx, *result)
			if event.Indexed {
				indexed++
			} else {
				failed++
				for _, e := range event.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "  Warning: %s: %s\n", id, e)
				}
			}
		}
	}

	if err := esClient.Refresh(ctx); err != nil {
		slog.Warn("failed to refresh index", "error", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nIngestion complete: %d indexed, %d failed\n", indexed, failed)
	return nil
}

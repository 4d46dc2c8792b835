package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"
	"unicode/utf8"

	"github.com/mfenderov/aitranslate/pkg/models"
	"github.com/spf13/cobra"
)

var (
	searchLimit  int
	searchKind   string
	searchFormat string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search archived translations and summaries",
	Long: `Search results indexed in Elasticsearch.

Examples:
  # Basic search
  aitranslate search "并发"

  # Only summaries, at most 5
  aitranslate search "goroutine" --kind summary --limit 5

  # JSON output for scripting
  aitranslate search "channels" --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum number of results")
	searchCmd.Flags().StringVar(&searchKind, "kind", "", "Restrict to a result kind: translation or summary")
	searchCmd.Flags().StringVar(&searchFormat, "format", "text", "Output format: text or json")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	query := args[0]
	cfg := GetConfig()

	kind := models.ResultKind(searchKind)
	switch kind {
	case "", models.KindTranslation, models.KindSummary:
	default:
		return fmt.Errorf("unknown kind %q", searchKind)
	}

	esClient, err := newSearchClient(&cfg)
	if err != nil {
		return err
	}

	results, err := esClient.Search(ctx, query, kind, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}

	if searchFormat == "json" {
		output, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(output))
		return nil
	}

	fmt.Fprintf(out, "Found %d results:\n\n", len(results))
	for i, r := range results {
		fmt.Fprintf(out, "─── Result %d ───\n", i+1)
		fmt.Fprintf(out, "Title:   %s\n", r.Title)
		fmt.Fprintf(out, "URL:     %s\n", r.URL)
		fmt.Fprintf(out, "Kind:    %s\n", r.Kind)
		fmt.Fprintf(out, "ID:      %s\n", r.ID)
		fmt.Fprintf(out, "Content:\n%s\n\n", truncate(r.Content, 500))
	}

	return nil
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

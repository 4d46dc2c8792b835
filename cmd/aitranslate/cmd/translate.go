package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mfenderov/aitranslate/internal/events"
	"github.com/mfenderov/aitranslate/internal/ingestion"
	"github.com/mfenderov/aitranslate/internal/processor"
	"github.com/mfenderov/aitranslate/internal/scraper"
	"github.com/mfenderov/aitranslate/pkg/models"
	"github.com/spf13/cobra"
)

var (
	inputURLs  []string
	documentID string
	asMarkdown bool
)

var translateCmd = &cobra.Command{
	Use:   "translate [file...]",
	Short: "Translate HTML articles",
	Long: `Translate HTML from files, stdin or URLs, preserving the markup.

Examples:
  # Translate a file
  aitranslate translate article.html

  # Translate from stdin with an explicit cache ID
  cat article.html | aitranslate translate --id post-42

  # Fetch and translate a page, printing Markdown
  aitranslate translate --url https://example.com/post --markdown`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDocuments(cmd, args, models.KindTranslation)
	},
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file...]",
	Short: "Summarize HTML articles",
	Long: `Summarize HTML from files, stdin or URLs into a short HTML summary.

Examples:
  aitranslate summarize article.html
  aitranslate summarize --url https://example.com/post`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDocuments(cmd, args, models.KindSummary)
	},
}

func init() {
	for _, c := range []*cobra.Command{translateCmd, summarizeCmd} {
		rootCmd.AddCommand(c)

		c.Flags().StringSliceVar(&inputURLs, "url", nil, "URL to fetch (repeatable)")
		c.Flags().StringVar(&documentID, "id", "", "Document ID used as the cache key (single input only)")
		c.Flags().BoolVar(&asMarkdown, "markdown", false, "Print the result converted to Markdown")
	}
}

// source is one document to process, loaded lazily by the producer.
type source struct {
	name string // File path, URL or "-"
	url  bool
}

func runDocuments(cmd *cobra.Command, args []string, kind models.ResultKind) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()

	var sources []source
	for _, path := range args {
		sources = append(sources, source{name: path})
	}
	for _, u := range inputURLs {
		sources = append(sources, source{name: u, url: true})
	}
	if len(sources) == 0 {
		sources = append(sources, source{name: "-"})
	}
	if documentID != "" && len(sources) > 1 {
		return fmt.Errorf("--id can only be used with a single input")
	}

	slog.Debug("processing documents", "kind", kind, "inputs", len(sources))

	service, err := newService(&cfg)
	if err != nil {
		return err
	}

	engine, err := newEngine(ctx, &cfg)
	if err != nil {
		return err
	}

	fetcher := scraper.New(scraper.Config{
		UserAgent: cfg.Fetcher.UserAgent,
		Timeout:   cfg.Fetcher.Timeout,
	})
	proc := processor.New()
	out := cmd.OutOrStdout()

	var failed int
	err = withIngestion(ctx, engine, cmd.ErrOrStderr(), func(emit func(events.ResultEvent)) error {
		for _, src := range sources {
			doc, err := loadDocument(ctx, fetcher, proc, cmd.InOrStdin(), src)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s: %v\n", src.name, err)
				failed++
				continue
			}
			if documentID != "" {
				doc.ID = documentID
			}

			start := time.Now()
			content, err := service.Process(ctx, kind, doc.ID, doc.HTML)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s: %v\n", src.name, err)
				failed++
				continue
			}

			if len(sources) > 1 {
				fmt.Fprintf(out, "<!-- %s -->\n", src.name)
			}
			if err := writeResult(out, proc, content); err != nil {
				return err
			}

			emit(events.ResultEvent{
				Result:    models.NewResult(*doc, kind, content),
				Source:    src.name,
				Duration:  time.Since(start),
				Timestamp: time.Now(),
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(sources))
	}
	return nil
}

func loadDocument(ctx context.Context, fetcher *scraper.Scraper, proc *processor.Processor, stdin io.Reader, src source) (*models.Document, error) {
	if src.url {
		return fetcher.Fetch(ctx, src.name)
	}

	var (
		data []byte
		err  error
		key  string
	)
	if src.name == "-" {
		data, err = io.ReadAll(stdin)
		key = string(data)
	} else {
		data, err = os.ReadFile(src.name)
		key, _ = filepath.Abs(src.name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	content := string(data)
	doc := &models.Document{
		ID:        models.GenerateDocumentID(key),
		Title:     proc.ExtractTitle(content),
		HTML:      content,
		FetchedAt: time.Now(),
	}
	if src.name != "-" {
		doc.URL = "file://" + key
	}
	return doc, nil
}

func writeResult(w io.Writer, proc *processor.Processor, content string) error {
	if asMarkdown {
		md, err := proc.Convert(content)
		if err != nil {
			return fmt.Errorf("failed to convert to markdown: %w", err)
		}
		content = md
	}
	_, err := fmt.Fprintln(w, content)
	return err
}

// withIngestion runs produce and hands every emitted event to engine's
// consumer. The consumer is drained before returning, whatever produce returns.
func withIngestion(ctx context.Context, engine *ingestion.Engine, stderr io.Writer, produce func(emit func(events.ResultEvent)) error) error {
	if !engine.Enabled() {
		return produce(func(events.ResultEvent) {})
	}

	resultEvents := make(chan events.ResultEvent)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range engine.Run(ctx, resultEvents) {
			for _, e := range event.Errors {
				fmt.Fprintf(stderr, "Warning: %s: %s\n", event.ResultID, e)
			}
		}
	}()
	defer func() {
		close(resultEvents)
		<-done
	}()

	return produce(func(event events.ResultEvent) {
		resultEvents <- event
	})
}

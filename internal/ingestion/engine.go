package ingestion

import (
	"context"
	"log/slog"

	"github.com/mfenderov/aitranslate/internal/events"
	"github.com/mfenderov/aitranslate/pkg/models"
)

// Archive stores finished results.
type Archive interface {
	PutResult(ctx context.Context, result models.Result) error
}

// Index makes finished results searchable.
type Index interface {
	IndexResult(ctx context.Context, result models.Result) error
}

// Engine archives results to object storage and indexes them for search.
// Either backend may be nil.
type Engine struct {
	archive Archive
	index   Index
}

// New creates a new ingestion engine.
func New(archive Archive, index Index) *Engine {
	return &Engine{
		archive: archive,
		index:   index,
	}
}

// Enabled reports whether at least one backend is configured.
func (e *Engine) Enabled() bool {
	return e.archive != nil || e.index != nil
}

// Ingest writes result to every configured backend. Backend failures are
// collected in the returned event rather than aborting the other backend.
func (e *Engine) Ingest(ctx context.Context, result models.Result) events.IngestionCompleteEvent {
	event := events.IngestionCompleteEvent{ResultID: result.ID}

	if e.archive != nil {
		if err := e.archive.PutResult(ctx, result); err != nil {
			slog.Error("failed to archive result", "id", result.ID, "error", err)
			event.Errors = append(event.Errors, err.Error())
		} else {
			event.Archived = true
		}
	}

	if e.index != nil {
		if err := e.index.IndexResult(ctx, result); err != nil {
			slog.Error("failed to index result", "id", result.ID, "error", err)
			event.Errors = append(event.Errors, err.Error())
		} else {
			event.Indexed = true
		}
	}

	slog.Debug("result ingested", "id", result.ID, "archived", event.Archived, "indexed", event.Indexed)
	return event
}

// Run consumes result events until in is closed and reports each ingestion on the returned channel.
func (e *Engine) Run(ctx context.Context, in <-chan events.ResultEvent) <-chan events.IngestionCompleteEvent {
	out := make(chan events.IngestionCompleteEvent)
	go func() {
		defer close(out)
		for event := range in {
			if ctx.Err() != nil {
				out <- events.IngestionCompleteEvent{
					ResultID: event.Result.ID,
					Errors:   []string{ctx.Err().Error()},
				}
				continue
			}
			out <- e.Ingest(ctx, event.Result)
		}
	}()
	return out
}

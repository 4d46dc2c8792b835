package events

import (
	"time"

	"github.com/mfenderov/aitranslate/pkg/models"
)

// ResultEvent is sent when a document has been translated or summarized.
type ResultEvent struct {
	Result    models.Result
	Source    string        // File path, URL or "-" for stdin
	Duration  time.Duration // How long the pipeline call took
	Timestamp time.Time     // When the result was produced
}

// IngestionCompleteEvent reports what happened to a result after it was archived and indexed.
type IngestionCompleteEvent struct {
	ResultID string
	Archived bool     // Written to object storage
	Indexed  bool     // Indexed into Elasticsearch
	Errors   []string // Non-fatal backend errors
}

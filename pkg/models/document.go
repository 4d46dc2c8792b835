package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Document is an HTML article handed to the pipeline by a caller.
type Document struct {
	ID          string    `json:"id"`
	URL         string    `json:"url,omitempty"`
	Title       string    `json:"title,omitempty"`
	HTML        string    `json:"html"`
	ContentType string    `json:"content_type,omitempty"` // HTTP Content-Type header
	FetchedAt   time.Time `json:"fetched_at"`
}

// ResultKind names the operation that produced a Result.
type ResultKind string

const (
	KindTranslation ResultKind = "translation"
	KindSummary     ResultKind = "summary"
)

// Result is a finished translation or summary, ready for archiving and indexing.
type Result struct {
	ID         string     `json:"id"`
	DocumentID string     `json:"document_id"`
	Kind       ResultKind `json:"kind"`
	URL        string     `json:"url,omitempty"`
	Title      string     `json:"title,omitempty"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewResult builds a Result for doc with a deterministic ID.
func NewResult(doc Document, kind ResultKind, content string) Result {
	return Result{
		ID:         GenerateResultID(doc.ID, kind),
		DocumentID: doc.ID,
		Kind:       kind,
		URL:        doc.URL,
		Title:      doc.Title,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
}

// GenerateDocumentID creates a deterministic ID from a URL or file path.
// The ID is a SHA-256 hash (first 16 chars) of the input.
func GenerateDocumentID(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])[:16]
}

// GenerateResultID combines a document ID and result kind.
func GenerateResultID(documentID string, kind ResultKind) string {
	return documentID + "-" + string(kind)
}

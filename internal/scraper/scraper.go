// Package scraper loads a single HTML article by URL.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/mfenderov/aitranslate/internal/markdown"
	"github.com/mfenderov/aitranslate/internal/processor"
	"github.com/mfenderov/aitranslate/pkg/models"
)

// ErrNotHTML is returned when the fetched resource is not an HTML article.
var ErrNotHTML = errors.New("resource is not an HTML document")

// Config holds fetcher configuration.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Scraper fetches one page at a time and returns it as a Document.
type Scraper struct {
	config    Config
	processor *processor.Processor
}

// New creates a new Scraper with the given configuration.
func New(config Config) *Scraper {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "aitranslate/1.0"
	}
	return &Scraper{
		config:    config,
		processor: processor.New(),
	}
}

// Fetch downloads pageURL without following links. Markdown or other non-HTML
// responses yield ErrNotHTML; HTTP error statuses are reported with their code.
func (s *Scraper) Fetch(ctx context.Context, pageURL string) (*models.Document, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme %q", parsed.Scheme)
	}

	c := colly.NewCollector(
		colly.MaxDepth(1),
		colly.UserAgent(s.config.UserAgent),
	)
	c.SetRequestTimeout(s.config.Timeout)

	var (
		doc      *models.Document
		fetchErr error
	)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			slog.Debug("fetch cancelled", "url", r.URL.String())
			r.Abort()
		}
	})

	c.OnResponse(func(r *colly.Response) {
		finalURL := r.Request.URL.String()
		body := string(r.Body)
		contentType := r.Headers.Get("Content-Type")

		slog.Debug("fetched page", "url", finalURL, "status", r.StatusCode, "content_type", contentType, "size", len(body))

		if !markdown.IsHTML(finalURL, contentType, body) {
			fetchErr = fmt.Errorf("%w: %s (%s)", ErrNotHTML, finalURL, contentType)
			return
		}

		doc = &models.Document{
			ID:          models.GenerateDocumentID(pageURL),
			URL:         finalURL,
			Title:       s.processor.ExtractTitle(body),
			HTML:        body,
			ContentType: contentType,
			FetchedAt:   time.Now(),
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode >= 400 {
			fetchErr = fmt.Errorf("failed to fetch %s: status %d", pageURL, r.StatusCode)
			return
		}
		fetchErr = fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	})

	visitErr := c.Visit(pageURL)
	c.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	if visitErr != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, visitErr)
	}
	if doc == nil {
		return nil, fmt.Errorf("failed to fetch %s: empty response", pageURL)
	}
	return doc, nil
}

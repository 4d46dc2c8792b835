package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mfenderov/aitranslate/internal/cache"
	"github.com/mfenderov/aitranslate/internal/chunker"
	"github.com/mfenderov/aitranslate/internal/llm"
	"github.com/mfenderov/aitranslate/internal/processor"
	"github.com/mfenderov/aitranslate/pkg/models"
	"golang.org/x/sync/singleflight"
)

// ErrEmptyDocument is returned when the sanitized input has no content to send.
var ErrEmptyDocument = errors.New("document has no content")

// Completer is the model client used by the pipeline.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
	HasCredential() bool
}

// CallConfig holds the per-call budget for one kind of request.
type CallConfig struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Config holds pipeline configuration.
type Config struct {
	Language       string // Target language for prompts
	MaxChunkLength int    // Translation chunk budget, in characters
	Translation    CallConfig
	Summary        CallConfig
}

// DefaultConfig returns the budgets used by the SiliconFlow integration.
func DefaultConfig() Config {
	return Config{
		Language:       llm.DefaultLanguage,
		MaxChunkLength: chunker.DefaultMaxLength,
		Translation: CallConfig{
			MaxTokens:   16384,
			Temperature: 0.3,
			Timeout:     180 * time.Second,
		},
		Summary: CallConfig{
			MaxTokens:   2048,
			Temperature: 0.3,
			Timeout:     60 * time.Second,
		},
	}
}

// Service translates and summarizes HTML documents, memoizing results per document ID.
type Service struct {
	config    Config
	client    Completer
	cache     cache.Store
	processor *processor.Processor
	inflight  singleflight.Group

	// generations counts invalidations per document; a run only stores its
	// result if the count is unchanged since it started.
	mu          sync.Mutex
	generations map[string]uint64
}

// New creates a Service. A nil store gets a fresh in-memory cache.
func New(config Config, client Completer, store cache.Store) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("model client is required")
	}
	if store == nil {
		store = cache.NewMemory()
	}
	if config.MaxChunkLength <= 0 {
		config.MaxChunkLength = chunker.DefaultMaxLength
	}

	return &Service{
		config:      config,
		client:      client,
		cache:       store,
		processor:   processor.New(),
		generations: make(map[string]uint64),
	}, nil
}

// Translate returns the translation of html, calling the model once per chunk
// on a cache miss. Either every chunk succeeds and the joined result is cached,
// or an error is returned and nothing is cached.
func (s *Service) Translate(ctx context.Context, id, html string) (string, error) {
	if cached, ok := s.cache.Translation(id); ok {
		slog.Debug("translation cache hit", "id", id)
		return cached, nil
	}
	return s.once(ctx, flightKey(models.KindTranslation, id), func(ctx context.Context) (string, error) {
		return s.translate(ctx, id, html)
	})
}

// Summarize returns a summary of the whole document, calling the model once on a cache miss.
func (s *Service) Summarize(ctx context.Context, id, html string) (string, error) {
	if cached, ok := s.cache.Summary(id); ok {
		slog.Debug("summary cache hit", "id", id)
		return cached, nil
	}
	return s.once(ctx, flightKey(models.KindSummary, id), func(ctx context.Context) (string, error) {
		return s.summarize(ctx, id, html)
	})
}

// Process dispatches to Translate or Summarize.
func (s *Service) Process(ctx context.Context, kind models.ResultKind, id, html string) (string, error) {
	switch kind {
	case models.KindTranslation:
		return s.Translate(ctx, id, html)
	case models.KindSummary:
		return s.Summarize(ctx, id, html)
	default:
		return "", fmt.Errorf("unknown result kind %q", kind)
	}
}

// CachedTranslation returns the cached translation for id, if any.
func (s *Service) CachedTranslation(id string) (string, bool) {
	return s.cache.Translation(id)
}

// CachedSummary returns the cached summary for id, if any.
func (s *Service) CachedSummary(id string) (string, bool) {
	return s.cache.Summary(id)
}

// Invalidate drops both cached results for id. Callers arriving after this
// start a fresh request even if an older one is still running; the older
// request still answers its own callers but never writes to the cache.
func (s *Service) Invalidate(id string) {
	s.mu.Lock()
	s.generations[id]++
	s.cache.Invalidate(id)
	s.mu.Unlock()

	s.inflight.Forget(flightKey(models.KindTranslation, id))
	s.inflight.Forget(flightKey(models.KindSummary, id))
	slog.Debug("cache invalidated", "id", id)
}

// once runs fn at most once per key at a time; concurrent callers share the result.
// fn runs detached from the caller's cancellation so a shared request is not
// aborted by whichever caller happened to start it.
func (s *Service) once(ctx context.Context, key string, fn func(context.Context) (string, error)) (string, error) {
	runCtx := context.WithoutCancel(ctx)
	ch := s.inflight.DoChan(key, func() (any, error) {
		return fn(runCtx)
	})

	select {
	case res := <-ch:
		if res.Shared {
			slog.Debug("joined in-flight request", "key", key)
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *Service) generation(id string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[id]
}

// store runs put unless id was invalidated after gen was read.
func (s *Service) store(id string, gen uint64, put func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[id] != gen {
		return false
	}
	put()
	return true
}

func (s *Service) translate(ctx context.Context, id, html string) (string, error) {
	gen := s.generation(id)

	// A request that finished while we waited to start may have filled the cache
	if cached, ok := s.cache.Translation(id); ok {
		return cached, nil
	}

	if !s.client.HasCredential() {
		return "", llm.ErrMissingCredential
	}

	start := time.Now()
	cleaned := s.processor.Sanitize(html)
	if strings.TrimSpace(cleaned) == "" {
		return "", ErrEmptyDocument
	}

	chunks := chunker.Chunks(cleaned, s.config.MaxChunkLength)
	slog.Debug("translating document", "id", id, "chars", len(cleaned), "chunks", len(chunks))

	prompt := llm.TranslatePrompt(s.config.Language)
	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		slog.Debug("translating chunk", "id", id, "chunk", chunk.Index+1, "of", len(chunks), "length", chunk.Length)

		translated, err := s.client.Complete(ctx, llm.Request{
			SystemPrompt: prompt,
			Content:      chunk.Content,
			MaxTokens:    s.config.Translation.MaxTokens,
			Temperature:  s.config.Translation.Temperature,
			Timeout:      s.config.Translation.Timeout,
		})
		if err != nil {
			slog.Warn("chunk translation failed", "id", id, "chunk", chunk.Index+1, "error", err)
			return "", fmt.Errorf("failed to translate chunk %d of %d: %w", chunk.Index+1, len(chunks), err)
		}
		parts = append(parts, translated)
	}

	result := strings.Join(parts, "\n")
	if !s.store(id, gen, func() { s.cache.PutTranslation(id, result) }) {
		slog.Debug("document invalidated during translation; result not cached", "id", id)
	}

	slog.Info("document translated", "id", id, "chunks", len(chunks), "duration", time.Since(start))
	return result, nil
}

func (s *Service) summarize(ctx context.Context, id, html string) (string, error) {
	gen := s.generation(id)

	if cached, ok := s.cache.Summary(id); ok {
		return cached, nil
	}

	if !s.client.HasCredential() {
		return "", llm.ErrMissingCredential
	}

	start := time.Now()
	cleaned := s.processor.Sanitize(html)
	if strings.TrimSpace(cleaned) == "" {
		return "", ErrEmptyDocument
	}

	slog.Debug("summarizing document", "id", id, "chars", len(cleaned))
	summary, err := s.client.Complete(ctx, llm.Request{
		SystemPrompt: llm.SummarizePrompt(s.config.Language),
		Content:      cleaned,
		MaxTokens:    s.config.Summary.MaxTokens,
		Temperature:  s.config.Summary.Temperature,
		Timeout:      s.config.Summary.Timeout,
	})
	if err != nil {
		return "", fmt.Errorf("failed to summarize document: %w", err)
	}

	if !s.store(id, gen, func() { s.cache.PutSummary(id, summary) }) {
		slog.Debug("document invalidated during summary; result not cached", "id", id)
	}

	slog.Info("document summarized", "id", id, "duration", time.Since(start))
	return summary, nil
}

func flightKey(kind models.ResultKind, id string) string {
	return string(kind) + ":" + id
}

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mfenderov/aitranslate/internal/credential"
)

const (
	// DefaultEndpoint is the SiliconFlow chat completions API.
	DefaultEndpoint = "https://api.siliconflow.cn/v1/chat/completions"
	// DefaultModel is the model used when none is configured.
	DefaultModel = "deepseek-ai/DeepSeek-V3.2"
)

// Config holds LLM client configuration.
type Config struct {
	Endpoint    string            // Full chat completions URL
	Model       string            // Model name (e.g., "deepseek-ai/DeepSeek-V3.2")
	Credentials credential.Source // Read before every call
	HTTPClient  *http.Client      // Optional; defaults to a client without a global timeout
}

// Client calls an OpenAI-compatible chat completions API.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	model       string
	credentials credential.Source
}

// New creates a new LLM client.
func New(config Config) (*Client, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if _, err := url.ParseRequestURI(config.Endpoint); err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if config.Credentials == nil {
		return nil, fmt.Errorf("credential source is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		// Per-request deadlines come from Request.Timeout
		httpClient = &http.Client{}
	}

	return &Client{
		httpClient:  httpClient,
		endpoint:    config.Endpoint,
		model:       config.Model,
		credentials: config.Credentials,
	}, nil
}

// Request is a single system+user completion.
type Request struct {
	SystemPrompt string
	Content      string
	MaxTokens    int
	Temperature  float64
	Timeout      time.Duration // 0 means no deadline beyond ctx
}

// chatRequest is the request payload for the chat completions API.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response from the chat completions API.
type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// HasCredential reports whether an API key is currently configured.
func (c *Client) HasCredential() bool {
	return credential.Has(c.credentials)
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Complete sends one chat completion request and returns the trimmed text of
// the first choice. It never retries.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	key := c.credentials.APIKey()
	if key == "" {
		return "", ErrMissingCredential
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.Content},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+key)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	slog.Debug("chat completion finished",
		"model", c.model,
		"status", resp.StatusCode,
		"input_chars", len(req.Content),
		"duration", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", &MalformedResponseError{Reason: "failed to unmarshal response", Err: err}
	}

	if len(chatResp.Choices) == 0 {
		return "", &MalformedResponseError{Reason: "no choices returned"}
	}
	msg := chatResp.Choices[0].Message
	if msg == nil {
		return "", &MalformedResponseError{Reason: "first choice has no message"}
	}
	if msg.Content == nil {
		return "", &MalformedResponseError{Reason: "message has no content"}
	}

	return strings.TrimSpace(*msg.Content), nil
}

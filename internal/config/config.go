package config

import (
	"time"

	"github.com/mfenderov/aitranslate/internal/chunker"
	"github.com/mfenderov/aitranslate/internal/llm"
)

// Config holds all application configuration.
type Config struct {
	LLM           LLM           `mapstructure:"llm"`
	Translation   Translation   `mapstructure:"translation"`
	Summary       Summary       `mapstructure:"summary"`
	Fetcher       Fetcher       `mapstructure:"fetcher"`
	Storage       Storage       `mapstructure:"storage"`
	Elasticsearch Elasticsearch `mapstructure:"elasticsearch"`
	MCP           MCP           `mapstructure:"mcp"`
}

// LLM holds chat completions API configuration.
type LLM struct {
	Endpoint       string  `mapstructure:"endpoint"`
	Model          string  `mapstructure:"model"`
	APIKey         string  `mapstructure:"api_key"`
	Temperature    float64 `mapstructure:"temperature"`
	TargetLanguage string  `mapstructure:"target_language"`
}

// Translation holds the chunked translation budget.
type Translation struct {
	MaxChunkLength int           `mapstructure:"max_chunk_length"`
	MaxTokens      int           `mapstructure:"max_tokens"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// Summary holds the single-call summary budget.
type Summary struct {
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Fetcher holds configuration for loading articles by URL.
type Fetcher struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// Storage holds S3/MinIO archive configuration.
type Storage struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Elasticsearch holds search index configuration.
type Elasticsearch struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Index     string   `mapstructure:"index"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

// MCP holds MCP server configuration.
type MCP struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		LLM: LLM{
			Endpoint:       llm.DefaultEndpoint,
			Model:          llm.DefaultModel,
			APIKey:         "", // Must come from config file or AITRANSLATE_LLM_API_KEY
			Temperature:    0.3,
			TargetLanguage: llm.DefaultLanguage,
		},
		Translation: Translation{
			MaxChunkLength: chunker.DefaultMaxLength,
			MaxTokens:      16384,
			Timeout:        180 * time.Second,
		},
		Summary: Summary{
			MaxTokens: 2048,
			Timeout:   60 * time.Second,
		},
		Fetcher: Fetcher{
			Timeout:   30 * time.Second,
			UserAgent: "aitranslate/1.0",
		},
		Storage: Storage{
			Enabled:         false, // Archive results only when explicitly enabled
			Endpoint:        "localhost:9002",
			Bucket:          "aitranslate",
			AccessKeyID:     "minioadmin",
			SecretAccessKey: "minioadmin",
			UseSSL:          false,
		},
		Elasticsearch: Elasticsearch{
			Enabled:   false,
			Addresses: []string{"http://localhost:9200"},
			Index:     "aitranslate-results",
		},
		MCP: MCP{
			Name:    "aitranslate",
			Version: "1.0.0",
		},
	}
}

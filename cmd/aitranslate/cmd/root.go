package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/mfenderov/aitranslate/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	cfg     config.Config
)

// GetConfig returns the loaded configuration.
func GetConfig() config.Config {
	return cfg
}

var rootCmd = &cobra.Command{
	Use:   "aitranslate",
	Short: "aitranslate: translate and summarize HTML articles with an LLM",
	Long: `aitranslate sanitizes HTML articles, splits them into block-aligned chunks,
translates each chunk through an OpenAI-compatible chat completions API and
caches the results per document.

Commands:
  translate  Translate HTML files, stdin or URLs
  summarize  Summarize HTML files, stdin or URLs
  serve      Start the MCP server exposing translation tools
  search     Search archived results in Elasticsearch
  ingest     Re-index archived results from object storage`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig, initLogger)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogger() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// envKeys are the nested keys that can be overridden from AITRANSLATE_* variables.
var envKeys = []string{
	"llm.endpoint",
	"llm.model",
	"llm.api_key",
	"llm.temperature",
	"llm.target_language",
	"translation.max_chunk_length",
	"translation.max_tokens",
	"translation.timeout",
	"summary.max_tokens",
	"summary.timeout",
	"fetcher.timeout",
	"fetcher.user_agent",
	"storage.enabled",
	"storage.endpoint",
	"storage.bucket",
	"storage.access_key_id",
	"storage.secret_access_key",
	"storage.use_ssl",
	"elasticsearch.enabled",
	"elasticsearch.addresses",
	"elasticsearch.index",
	"elasticsearch.username",
	"elasticsearch.password",
	"mcp.name",
	"mcp.version",
}

func envName(key string) string {
	return "AITRANSLATE_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func initConfig() {
	cfg = config.Defaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/aitranslate")
		viper.AddConfigPath(".")
	}

	// AITRANSLATE_LLM_API_KEY -> llm.api_key
	viper.SetEnvPrefix("AITRANSLATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	for _, key := range envKeys {
		viper.BindEnv(key, envName(key))
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("config file error", "error", err)
		}
		// No config file - use defaults + env vars
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Warn("failed to parse config", "error", err)
	}

	// Addresses arrive as a comma-separated string from env
	if addrs := os.Getenv(envName("elasticsearch.addresses")); addrs != "" {
		cfg.Elasticsearch.Addresses = strings.Split(addrs, ",")
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Service auth. Empty disables auth (single-user deployments).
	ServiceAPIKey string

	// Default LLM provider settings. API keys here are optional
	// defaults; sessions may supply their own.
	DefaultProvider string
	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIBaseURL   string
	GeminiAPIKey    string
	GeminiModel     string
	AnthropicAPIKey string
	AnthropicModel  string

	// Generation
	OutputLanguage string
	OutlineDepth   int
	LLMTimeout     time.Duration

	// Input limits
	MaxUploadBytes int64
	MaxInputTokens int

	// Session state
	SessionTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		ServiceAPIKey: os.Getenv("MINDMAP_API_KEY"),

		DefaultProvider: envOr("DEFAULT_PROVIDER", "gemini"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     envOr("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     envOr("GEMINI_MODEL", "gemini-2.5-flash"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),

		OutputLanguage: envOr("OUTPUT_LANGUAGE", "English"),
		OutlineDepth:   envInt("OUTLINE_DEPTH", 3),
		LLMTimeout:     envDuration("LLM_TIMEOUT", 120*time.Second),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 20971520), // 20MB
		MaxInputTokens: envInt("MAX_INPUT_TOKENS", 6000),

		SessionTTL: envDuration("SESSION_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.OutlineDepth <= 0 {
		cfg.OutlineDepth = 3
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20971520
	}
	if cfg.MaxInputTokens <= 0 {
		cfg.MaxInputTokens = 6000
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 1 * time.Hour
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 120 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	switch c.DefaultProvider {
	case "openai", "gemini", "anthropic":
	default:
		return fmt.Errorf("DEFAULT_PROVIDER must be one of openai, gemini, anthropic (got %q)", c.DefaultProvider)
	}
	if c.OutlineDepth > 5 {
		return fmt.Errorf("OUTLINE_DEPTH must be at most 5 (got %d)", c.OutlineDepth)
	}
	return nil
}

// DefaultKeyFor returns the configured default API key for a provider,
// or empty if none was injected via the environment.
func (c Config) DefaultKeyFor(providerName string) string {
	switch providerName {
	case "openai":
		return c.OpenAIAPIKey
	case "gemini":
		return c.GeminiAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	}
	return ""
}

// DefaultModelFor returns the configured default model for a provider.
func (c Config) DefaultModelFor(providerName string) string {
	switch providerName {
	case "openai":
		return c.OpenAIModel
	case "gemini":
		return c.GeminiModel
	case "anthropic":
		return c.AnthropicModel
	}
	return ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

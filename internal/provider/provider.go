// Package provider abstracts the LLM backends the service can talk to.
package provider

import (
	"context"
	"fmt"
	"strings"
)

// Provider generates a completion for a single prompt.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config selects and configures one provider for a session.
type Config struct {
	Name    string `json:"provider"` // "openai", "gemini", or "anthropic"
	APIKey  string `json:"-"`
	Model   string `json:"model,omitempty"`
	BaseURL string `json:"base_url,omitempty"` // OpenAI-compatible endpoints only
}

// Names lists the supported provider names.
var Names = []string{"openai", "gemini", "anthropic"}

// New constructs the provider named in cfg. The Gemini client dials
// during construction, hence the context.
func New(ctx context.Context, cfg Config) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", cfg.Name)
	}
	switch strings.ToLower(cfg.Name) {
	case "openai":
		return NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case "gemini":
		return NewGemini(ctx, cfg.APIKey, cfg.Model)
	case "anthropic":
		return NewAnthropic(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (supported: %s)", cfg.Name, strings.Join(Names, ", "))
	}
}

// RetryableError indicates a transient provider failure (rate limit or
// server error) that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable provider error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func retryableStatus(code int) bool {
	return code == 429 || code >= 500
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

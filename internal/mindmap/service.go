// Package mindmap implements the two LLM-backed operations of the
// service: generating a topic outline from text, and explaining a
// single topic.
package mindmap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/mindmapd/internal/outline"
	"github.com/dgallion1/mindmapd/internal/prompt"
	"github.com/dgallion1/mindmapd/internal/provider"
)

// Service runs outline and detail requests against a provider.
type Service struct {
	log      *slog.Logger
	stats    *provider.Stats
	maxDepth int
}

func NewService(log *slog.Logger, stats *provider.Stats, maxDepth int) *Service {
	if maxDepth <= 0 {
		maxDepth = 3
	}
	return &Service{
		log:      log,
		stats:    stats,
		maxDepth: maxDepth,
	}
}

// GenerateOutline asks the provider for a hierarchical topic outline of
// the given text and parses it into a tree.
func (s *Service) GenerateOutline(ctx context.Context, p provider.Provider, text, language string) (*outline.Outline, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("input text is empty")
	}

	raw, err := s.generate(ctx, p, prompt.Outline(text, language, s.maxDepth))
	if err != nil {
		return nil, err
	}

	o, err := outline.Parse(raw)
	if err != nil {
		s.log.Error("outline parse failed", "provider", p.Name(), "error", err)
		return nil, err
	}
	if err := o.Validate(); err != nil {
		return nil, &outline.ParseError{Raw: raw, Err: err}
	}

	s.log.Info("outline generated", "provider", p.Name(), "root", o.Root().Label, "nodes", len(o.Nodes))
	return o, nil
}

// ExplainTopic asks the provider for a markdown explanation of one
// topic. path is the outline path from the root down to the topic.
func (s *Service) ExplainTopic(ctx context.Context, p provider.Provider, label string, path []string, language string) (string, error) {
	if strings.TrimSpace(label) == "" {
		return "", fmt.Errorf("topic label is empty")
	}

	detail, err := s.generate(ctx, p, prompt.Detail(label, path, language))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(detail) == "" {
		return "", fmt.Errorf("provider returned an empty explanation")
	}

	s.log.Info("topic explained", "provider", p.Name(), "topic", label)
	return detail, nil
}

// generate runs one prompt with retry on transient provider errors.
func (s *Service) generate(ctx context.Context, p provider.Provider, promptText string) (string, error) {
	var out string
	var lastErr error

	for attempt := range MaxRetries {
		start := time.Now()
		out, lastErr = p.Generate(ctx, promptText)
		s.stats.Record(p.Name(), time.Since(start).Milliseconds(), lastErr != nil)

		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		s.log.Warn("retryable provider error", "provider", p.Name(), "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if lastErr != nil {
		return "", lastErr
	}
	return out, nil
}

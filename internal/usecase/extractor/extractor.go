// Package extractor turns a raw agent answer into a typed value through an
// ordered strategy chain: delegated extraction via the language service,
// then deterministic pattern rules. Both strategies failing is an explicit
// "unextractable" outcome, never an error.
package extractor

import (
	"context"
	"sync"
	"time"

	"analytics-eval/internal/application/port/output"
	"analytics-eval/internal/domain/entity"
)

type Config struct {
	// ServiceTimeout bounds each call to the language extraction service.
	// A timeout is treated exactly like an unavailable service.
	ServiceTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		ServiceTimeout: 30 * time.Second,
	}
}

type cacheKey struct {
	queryID string
	raw     string
}

type cacheEntry struct {
	value  *entity.Value
	source entity.ExtractionSource
}

// Chain is the two-strategy extractor. A nil LLM port means the service is
// unavailable and the chain goes straight to the pattern rules.
type Chain struct {
	llm     output.LLMPort
	logger  output.LoggerPort
	timeout time.Duration

	mu    sync.Mutex
	cache map[cacheKey]cacheEntry
}

func New(llm output.LLMPort, logger output.LoggerPort, cfg Config) *Chain {
	timeout := cfg.ServiceTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().ServiceTimeout
	}
	return &Chain{
		llm:     llm,
		logger:  logger,
		timeout: timeout,
		cache:   make(map[cacheKey]cacheEntry),
	}
}

// Extract produces a value of the query's declared kind, or (nil,
// SourceNone) when neither strategy yields one. Outcomes are cached by
// (query id, raw response) so re-grading the same answer is free.
func (c *Chain) Extract(ctx context.Context, q entity.Query, raw string) (*entity.Value, entity.ExtractionSource) {
	key := cacheKey{queryID: q.ID, raw: raw}

	c.mu.Lock()
	if hit, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return hit.value, hit.source
	}
	c.mu.Unlock()

	value, source := c.extract(ctx, q, raw)

	c.mu.Lock()
	c.cache[key] = cacheEntry{value: value, source: source}
	c.mu.Unlock()

	return value, source
}

func (c *Chain) extract(ctx context.Context, q entity.Query, raw string) (*entity.Value, entity.ExtractionSource) {
	if c.llm != nil {
		value, err := c.delegated(ctx, q, raw)
		if err == nil {
			return value, entity.SourceDelegated
		}
		c.warn("Delegated extraction failed, using pattern fallback",
			"query", q.ID, "type", string(q.Type), "error", err)
	}

	if value := Fallback(q.Type, q.Question, raw); value != nil {
		return value, entity.SourceFallback
	}

	return nil, entity.SourceNone
}

func (c *Chain) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}

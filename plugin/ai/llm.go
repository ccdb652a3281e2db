// Package ai provides the text classification / summarization capability
// consumed by the intent classifier and the query engine. The capability
// is an external collaborator; everything here is transport.
package ai

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// Completer sends input text plus an instruction to the language model
// and returns its free-form response. The response may legitimately fall
// outside any expected enumeration; callers own that mapping.
type Completer interface {
	Complete(ctx context.Context, input, instruction string, temperature float32) (string, error)
}

type openAICompleter struct {
	client  *openai.Client
	config  *LLMConfig
	limiter *rate.Limiter
}

// NewCompleter creates a Completer backed by an OpenAI-compatible API.
func NewCompleter(cfg *LLMConfig) (Completer, error) {
	if cfg == nil {
		cfg = DefaultLLMConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &openAICompleter{
		client:  openai.NewClientWithConfig(clientConfig),
		config:  cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}, nil
}

// Complete performs a chat completion with the instruction as the system
// message. Calls are rate limited, bounded by the configured timeout, and
// retried with exponential backoff on transport failure.
func (c *openAICompleter) Complete(ctx context.Context, input, instruction string, temperature float32) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", errors.Wrap(err, "rate limiter")
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		MaxTokens:   c.config.MaxTokens,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instruction},
			{Role: openai.ChatMessageRoleUser, Content: input},
		},
	}

	var result string
	err := c.doWithRetry(ctx, func() error {
		start := time.Now()
		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("empty completion response")
		}
		result = resp.Choices[0].Message.Content

		slog.Debug("completion finished",
			"model", c.config.Model,
			"temperature", temperature,
			"latency_ms", time.Since(start).Milliseconds(),
			"tokens", resp.Usage.TotalTokens)
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, "completion failed")
	}

	return result, nil
}

// doWithRetry executes fn with exponential backoff.
func (c *openAICompleter) doWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < c.config.MaxRetries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			if attempt < c.config.MaxRetries-1 {
				waitTime := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				slog.Debug("completion request failed, retrying",
					"attempt", attempt+1,
					"wait_time", waitTime,
					"error", err)
				select {
				case <-time.After(waitTime):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	return lastErr
}

// Ensure openAICompleter implements Completer
var _ Completer = (*openAICompleter)(nil)

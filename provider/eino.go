package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
)

// generator is the part of an eino chat model the client uses.
type generator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

func newChatModelCompleter(ctx context.Context, prov Provider, opts Options) (completer, error) {
	temperature := float32(opts.effectiveTemperature())
	cfg := &openai.ChatModelConfig{
		Model:       prov.Model,
		APIKey:      prov.APIKey,
		Timeout:     prov.Timeout,
		Temperature: &temperature,
	}
	if prov.BaseURL != "" {
		cfg.BaseURL = prov.BaseURL
	}

	chatModel, err := openai.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return chatCompleter(chatModel, prov, opts), nil
}

// chatCompleter retries transient failures with exponential backoff.
func chatCompleter(g generator, prov Provider, opts Options) completer {
	logger := opts.logger().With(zap.String("provider", prov.ID), zap.String("model", prov.Model))
	return func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
		messages := []*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(userPrompt),
		}

		maxRetries := opts.effectiveMaxRetries()
		var lastErr error
		for attempt := 0; attempt <= maxRetries; attempt++ {
			if attempt > 0 {
				if err := sleep(ctx, opts.effectiveBackoff()<<(attempt-1)); err != nil {
					return "", err
				}
			}
			logger.Debug("generating", zap.Int("attempt", attempt+1))

			resp, err := g.Generate(ctx, messages)
			if err != nil {
				if ctx.Err() != nil {
					return "", ctx.Err()
				}
				lastErr = err
				logger.Debug("generate failed", zap.Error(err))
				continue
			}
			if resp == nil || strings.TrimSpace(resp.Content) == "" {
				lastErr = fmt.Errorf("empty response from %s", prov.Name)
				continue
			}
			return resp.Content, nil
		}
		return "", fmt.Errorf("chat model failed after %d retries: %w", maxRetries, lastErr)
	}
}

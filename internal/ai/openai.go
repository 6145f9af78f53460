package ai

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
)

// OpenAIOracle asks a chat completion model for the severity.
type OpenAIOracle struct {
	client  openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
	pick    func(n int) int
}

// NewOpenAIOracle builds an oracle from config. Extra request options are
// appended after the configured ones.
func NewOpenAIOracle(cfg config.AIConfig, logger *zap.Logger, extra ...option.RequestOption) *OpenAIOracle {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	opts = append(opts, extra...)

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &OpenAIOracle{
		client:  openai.NewClient(opts...),
		model:   model,
		timeout: cfg.Timeout(),
		logger:  logger.Named("ai.openai"),
	}
}

func (o *OpenAIOracle) SuggestSeverity(ctx context.Context, title, description string) Suggestion {
	o.logger.Info("suggesting severity", zap.String("model", o.model))

	raw, err := o.complete(ctx, title, description)
	if err != nil {
		o.logger.Error("openai call failed", zap.Error(err))
		return fallback(MessageUnavailable, o.pick)
	}

	severity, ok := MapToSeverity(raw)
	if !ok {
		o.logger.Warn("openai returned unknown severity", zap.String("answer", raw))
		return fallback(MessageInvalidAnswer, o.pick)
	}

	o.logger.Info("severity suggested", zap.String("severity", string(severity)))
	return Suggestion{Severity: severity, Message: MessageSuccess}
}

func (o *OpenAIOracle) complete(ctx context.Context, title, description string) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt(title, description)),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

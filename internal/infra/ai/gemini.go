// Package ai implements service.TextGenerator on the Gemini REST API.
package ai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"emart/config"
	"emart/internal/domain/service"
	"emart/internal/errors"

	"google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"
)

// ErrNotConfigured is returned by every call when no API key is set. Callers use their fallback.
var ErrNotConfigured = errors.New("text generation is not configured")

// ErrEmptyResponse means the model produced no text candidate.
var ErrEmptyResponse = errors.New("model returned no content")

// contentGenerator performs one GenerateContent call.
type contentGenerator func(ctx context.Context, model string, req *generativelanguage.GenerateContentRequest) (*generativelanguage.GenerateContentResponse, error)

type geminiGenerator struct {
	generate contentGenerator
	model    string
	timeout  time.Duration
	logger   *slog.Logger
}

type disabledGenerator struct{}

func (disabledGenerator) GenerateJSON(context.Context, string, any) error {
	return ErrNotConfigured
}

// NewTextGenerator creates the Gemini client, or a generator that always fails with ErrNotConfigured
// when ai.apiKey is empty.
func NewTextGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.TextGenerator, error) {
	if cfg.AI == nil || cfg.AI.APIKey == "" {
		logger.Info("AI API key not configured, AI flows use their fallbacks")

		return disabledGenerator{}, nil
	}

	svc, err := generativelanguage.NewService(ctx, option.WithAPIKey(cfg.AI.APIKey))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create generative language client")
	}

	return newGeminiGenerator(func(ctx context.Context, model string, req *generativelanguage.GenerateContentRequest) (*generativelanguage.GenerateContentResponse, error) {
		return svc.Models.GenerateContent(model, req).Context(ctx).Do()
	}, cfg.AI.Model, cfg.AI.Timeout, logger), nil
}

func newGeminiGenerator(generate contentGenerator, model string, timeout time.Duration, logger *slog.Logger) *geminiGenerator {
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}

	return &geminiGenerator{
		generate: generate,
		model:    model,
		timeout:  timeout,
		logger:   logger,
	}
}

// GenerateJSON asks for a JSON-typed reply and decodes it into out.
func (g *geminiGenerator) GenerateJSON(ctx context.Context, prompt string, out any) error {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	started := time.Now()
	resp, err := g.generate(ctx, g.model, &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{{
			Role:  "user",
			Parts: []*generativelanguage.Part{{Text: prompt}},
		}},
		GenerationConfig: &generativelanguage.GenerationConfig{
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		return errors.Wrap(err, "generate content")
	}

	text := responseText(resp)
	if text == "" {
		return ErrEmptyResponse
	}

	g.logger.DebugContext(ctx, "Model replied",
		slog.String("model", g.model),
		slog.Duration("elapsed", time.Since(started)),
	)

	if err := json.Unmarshal([]byte(stripCodeFence(text)), out); err != nil {
		return errors.Wrap(err, "decode model reply")
	}

	return nil
}

func responseText(resp *generativelanguage.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}

		var sb strings.Builder
		for _, part := range candidate.Content.Parts {
			if part != nil {
				sb.WriteString(part.Text)
			}
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			return text
		}
	}

	return ""
}

// stripCodeFence removes a ```json ... ``` wrapper some models add despite the JSON mime type.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	}

	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "```"))
}

package enrich

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/wonny/ohaasa/backend/pkg/config"
	"github.com/wonny/ohaasa/backend/pkg/logger"
)

// GeminiEnricher generates the same bundle through the Gemini API
type GeminiEnricher struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
	logger  *logger.Logger
}

// NewGeminiEnricher creates a Gemini-backed enricher
func NewGeminiEnricher(ctx context.Context, cfg *config.Config, log *logger.Logger) (*GeminiEnricher, error) {
	if cfg.AI.GeminiAPIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.AI.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.AI.GeminiBaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.AI.GeminiBaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.AI.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.AI.RequestsPerSecond), 1)
	}

	return &GeminiEnricher{
		client:  client,
		model:   cfg.AI.GeminiModel,
		limiter: limiter,
		logger:  log.WithComponent("enrich.gemini"),
	}, nil
}

// Name implements Enricher
func (e *GeminiEnricher) Name() string {
	return "gemini:" + e.model
}

// Enrich implements Enricher. Output that is not valid JSON is retried once.
func (e *GeminiEnricher) Enrich(ctx context.Context, req Request) (*Bundle, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		text, err := e.generate(ctx, req)
		if err != nil {
			return nil, err
		}

		bundle, err := parseBundle(text)
		if err == nil {
			return bundle, nil
		}
		lastErr = err

		e.logger.WithFields(map[string]interface{}{
			"sign_key": req.SignKey,
			"attempt":  attempt + 1,
			"error":    err.Error(),
		}).Warn("Invalid JSON from Gemini")
	}
	return nil, fmt.Errorf("gemini output: %w", lastErr)
}

func (e *GeminiEnricher) generate(ctx context.Context, req Request) (string, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait failed: %w", err)
		}
	}

	contents := []*genai.Content{
		genai.NewContentFromText(userPrompt(req), genai.RoleUser),
	}

	resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini response has no output text")
	}
	return text, nil
}

package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wonny/ohaasa/backend/pkg/config"
	"github.com/wonny/ohaasa/backend/pkg/httputil"
	"github.com/wonny/ohaasa/backend/pkg/logger"
)

const maxErrorBody = 4000

// OpenAIEnricher calls the Responses API with a strict JSON schema
// ⭐ SSOT: OpenAI 호출은 여기서만
type OpenAIEnricher struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	model      string
}

// NewOpenAIEnricher creates an enricher; requests are spaced by AI_REQUESTS_PER_SECOND
func NewOpenAIEnricher(cfg *config.Config, log *logger.Logger) *OpenAIEnricher {
	httpClient := httputil.NewWithTimeout(cfg, log, 60*time.Second).
		WithHeader("Authorization", "Bearer "+cfg.AI.OpenAIAPIKey).
		WithRateLimit(cfg.AI.RequestsPerSecond)

	return &OpenAIEnricher{
		httpClient: httpClient,
		logger:     log.WithComponent("enrich.openai"),
		baseURL:    strings.TrimRight(cfg.AI.OpenAIBaseURL, "/"),
		model:      cfg.AI.OpenAIModel,
	}
}

// Name implements Enricher
func (e *OpenAIEnricher) Name() string {
	return "openai:" + e.model
}

// Enrich implements Enricher. Output that is not valid JSON is retried once.
func (e *OpenAIEnricher) Enrich(ctx context.Context, req Request) (*Bundle, error) {
	payload := e.buildPayload(req)

	text, err := e.call(ctx, payload)
	if err != nil {
		return nil, err
	}

	bundle, err := parseBundle(text)
	if err == nil {
		return bundle, nil
	}

	e.logger.WithFields(map[string]interface{}{
		"sign_key": req.SignKey,
		"error":    err.Error(),
	}).Warn("Invalid JSON from OpenAI, retrying once")

	text, err = e.call(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("retry: %w", err)
	}
	bundle, err = parseBundle(text)
	if err != nil {
		return nil, fmt.Errorf("openai output: %w", err)
	}
	return bundle, nil
}

func (e *OpenAIEnricher) buildPayload(req Request) map[string]interface{} {
	message := func(role, text string) map[string]interface{} {
		return map[string]interface{}{
			"role":    role,
			"content": []map[string]interface{}{{"type": "input_text", "text": text}},
		}
	}

	return map[string]interface{}{
		"model": e.model,
		"input": []map[string]interface{}{
			message("system", systemPrompt),
			message("user", userPrompt(req)),
		},
		"text": map[string]interface{}{
			"format": map[string]interface{}{
				"type":   "json_schema",
				"name":   schemaName,
				"schema": responseSchema(),
				"strict": true,
			},
		},
	}
}

func (e *OpenAIEnricher) call(ctx context.Context, payload map[string]interface{}) (string, error) {
	resp, err := e.httpClient.PostJSON(ctx, e.baseURL+"/responses", payload)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return "", fmt.Errorf("openai HTTP %d: %s", resp.StatusCode, body)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}

	text := extractOutputText(decoded)
	if text == "" {
		return "", fmt.Errorf("openai response has no output text")
	}
	return text, nil
}

// extractOutputText reads output_text, else the first output[].content[] text part
func extractOutputText(resp map[string]interface{}) string {
	if s, ok := resp["output_text"].(string); ok && s != "" {
		return s
	}

	output, _ := resp["output"].([]interface{})
	for _, item := range output {
		obj, _ := item.(map[string]interface{})
		content, _ := obj["content"].([]interface{})
		for _, c := range content {
			part, _ := c.(map[string]interface{})
			typ, _ := part["type"].(string)
			text, ok := part["text"].(string)
			if ok && (typ == "output_text" || typ == "text") {
				return text
			}
		}
	}
	return ""
}

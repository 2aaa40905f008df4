package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ohaasa/backend/pkg/config"
	"github.com/wonny/ohaasa/backend/pkg/logger"
	"github.com/wonny/ohaasa/backend/pkg/redis"
)

var testRequest = Request{
	DateKST:   "2026-10-16",
	SignKey:   "aries",
	SignKO:    "양자리",
	MessageJP: "最高の一日",
	Scores:    map[string]int{"total": 50},
}

const bundleJSON = `{
	"message_ko": "최고의 하루",
	"ai": {
		"summary": {"headline": "빛나는 날", "body": "본문", "tip": "팁", "warning": "주의"},
		"cards": [
			{"category": "건강운", "tone": "안정", "score": 60, "comment": "c5", "tip": "t", "warning": "w"},
			{"category": "총운", "tone": "상승", "score": 90, "comment": "c1", "tip": "t", "warning": "w"},
			{"category": "금전운", "tone": "하락", "score": 30, "comment": "c4", "tip": "t", "warning": "w"},
			{"category": "연애운", "tone": "상승", "score": 80, "comment": "c2", "tip": "t", "warning": "w"},
			{"category": "학업운", "tone": "안정", "score": 55, "comment": "c3", "tip": "t", "warning": "w"},
			{"category": "기타", "tone": "안정", "score": 55, "comment": "extra", "tip": "t", "warning": "w"}
		],
		"lucky_points": {"color_name": "하늘색", "color_hex": "#abc", "number": 12, "item": "우산", "keyword": "여유"}
	}
}`

func TestParseBundle_Normalizes(t *testing.T) {
	b, err := parseBundle("```json\n" + bundleJSON + "\n```")
	require.NoError(t, err)

	assert.Equal(t, "최고의 하루", b.MessageKO)
	assert.Equal(t, "#AABBCC", b.AI.LuckyPoints.ColorHex)
	assert.Equal(t, 9, b.AI.LuckyPoints.Number)

	var order []string
	for _, c := range b.AI.Cards {
		order = append(order, c.Comment)
	}
	if diff := cmp.Diff([]string{"c1", "c2", "c3", "c4", "c5"}, order); diff != "" {
		t.Errorf("card order mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBundle_Defaults(t *testing.T) {
	b, err := parseBundle(`{"message_ko":"x","ai":{"lucky_points":{"color_hex":"blue"}}}`)
	require.NoError(t, err)
	assert.Equal(t, defaultColorHex, b.AI.LuckyPoints.ColorHex)
	assert.Equal(t, defaultNumber, b.AI.LuckyPoints.Number)
}

func TestParseBundle_Invalid(t *testing.T) {
	_, err := parseBundle("Sure! Here is your JSON")
	assert.Error(t, err)

	_, err = parseBundle("  ")
	assert.Error(t, err)
}

func TestExtractOutputText(t *testing.T) {
	tests := []struct {
		name string
		resp string
		want string
	}{
		{"output_text", `{"output_text":"{}"}`, "{}"},
		{"output content", `{"output":[{"type":"reasoning"},{"content":[{"type":"output_text","text":"{\"a\":1}"}]}]}`, `{"a":1}`},
		{"text part", `{"output":[{"content":[{"type":"text","text":"t"}]}]}`, "t"},
		{"refusal only", `{"output":[{"content":[{"type":"refusal","refusal":"no"}]}]}`, ""},
		{"empty", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(tt.resp), &resp))
			assert.Equal(t, tt.want, extractOutputText(resp))
		})
	}
}

func TestCacheKey(t *testing.T) {
	key := CacheKey(testRequest)
	assert.Equal(t, "2026-10-16:aries:"+MessageHash("最高の一日"), key)
	assert.Len(t, MessageHash("x"), 40)

	edited := testRequest
	edited.MessageJP = "まあまあ"
	assert.NotEqual(t, key, CacheKey(edited))
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Env:      "development",
		LogLevel: "error",
		AI: config.AIConfig{
			Provider:      config.ProviderOpenAI,
			OpenAIAPIKey:  "sk-test",
			OpenAIModel:   "gpt-5-mini",
			OpenAIBaseURL: baseURL + "/",
			GeminiAPIKey:  "g-test",
			GeminiModel:   "gemini-2.5-flash",
			GeminiBaseURL: baseURL,
		},
	}
}

func TestOpenAIEnricher_RetriesOnceOnInvalidJSON(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var payload map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "gpt-5-mini", payload["model"])
		text, _ := payload["text"].(map[string]interface{})
		format, _ := text["format"].(map[string]interface{})
		assert.Equal(t, schemaName, format["name"])
		assert.Equal(t, true, format["strict"])

		out := "not json"
		if atomic.AddInt32(&calls, 1) > 1 {
			out = bundleJSON
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"output_text": out})
	}))
	defer server.Close()

	e := NewOpenAIEnricher(testConfig(server.URL), logger.Nop())

	b, err := e.Enrich(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, "최고의 하루", b.MessageKO)
	assert.Len(t, b.AI.Cards, 5)
}

func TestOpenAIEnricher_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"message":"bad key"}}`)
	}))
	defer server.Close()

	e := NewOpenAIEnricher(testConfig(server.URL), logger.Nop())

	_, err := e.Enrich(context.Background(), testRequest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 401")
	assert.Contains(t, err.Error(), "bad key")
}

func TestGeminiEnricher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "generateContent")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{{
				"content": map[string]interface{}{
					"role":  "model",
					"parts": []map[string]interface{}{{"text": bundleJSON}},
				},
			}},
		})
	}))
	defer server.Close()

	e, err := NewGeminiEnricher(context.Background(), testConfig(server.URL), logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "gemini:gemini-2.5-flash", e.Name())

	b, err := e.Enrich(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Equal(t, "최고의 하루", b.MessageKO)
	assert.Equal(t, "#AABBCC", b.AI.LuckyPoints.ColorHex)
}

type fakeEnricher struct {
	calls int
	err   error
}

func (f *fakeEnricher) Name() string { return "fake" }

func (f *fakeEnricher) Enrich(_ context.Context, req Request) (*Bundle, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &Bundle{MessageKO: fmt.Sprintf("ko:%s", req.SignKey)}, nil
}

func TestCachedEnricher_FileCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "openai_cache.json")
	inner := &fakeEnricher{}
	e := NewCachedEnricher(inner, NewFileCache(path, logger.Nop()), logger.Nop())
	ctx := context.Background()

	first, err := e.Enrich(ctx, testRequest)
	require.NoError(t, err)
	second, err := e.Enrich(ctx, testRequest)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first, second)

	// 다음 실행에서 파일 캐시 재사용
	reloaded := NewFileCache(path, logger.Nop())
	assert.Equal(t, 1, reloaded.Len())
	b, found, err := reloaded.Get(ctx, testRequest)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "ko:aries", b.MessageKO)
}

func TestCachedEnricher_ProviderError(t *testing.T) {
	cache := NewFileCache(filepath.Join(t.TempDir(), "c.json"), logger.Nop())
	boom := errors.New("quota exceeded")
	e := NewCachedEnricher(&fakeEnricher{err: boom}, cache, logger.Nop())

	_, err := e.Enrich(context.Background(), testRequest)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, 0, cache.Len())
}

func TestRedisCache_Disabled(t *testing.T) {
	client, err := redis.New(&config.Config{})
	require.NoError(t, err)

	cache := NewRedisCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, testRequest, &Bundle{MessageKO: "x"}))
	_, found, err := cache.Get(ctx, testRequest)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNew_NoProvider(t *testing.T) {
	cfg := testConfig("http://127.0.0.1")
	cfg.AI.Provider = config.ProviderNone

	_, err := New(context.Background(), cfg, nil, logger.Nop())
	assert.True(t, errors.Is(err, ErrNoProvider))
}

func TestNew_OpenAIWithFileCache(t *testing.T) {
	cfg := testConfig("http://127.0.0.1")
	cfg.Artifact.CachePath = filepath.Join(t.TempDir(), "c.json")

	e, err := New(context.Background(), cfg, nil, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "openai:gpt-5-mini", e.Name())
	assert.IsType(t, &CachedEnricher{}, e)
}

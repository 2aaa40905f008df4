package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ohaasa/backend/pkg/config"
	"github.com/wonny/ohaasa/backend/pkg/logger"
)

const samplePage = `<html><body>
<ul class="oa_horoscope_list">
  <li><span class="horo_rank">2位</span><span class="horo_name">おうし座</span><p class="horo_txt">新しい出会いがありそう</p></li>
  <li><span class="horo_rank">1位</span><span class="horo_name"> おひつじ
  座 </span><p class="horo_txt">最高の一日</p></li>
  <li><span class="horo_rank">3位</span><span class="horo_name">へびつかい座</span><p class="horo_txt">謎の星</p></li>
  <li><span class="horo_rank">-</span><span class="horo_name">ふたご座</span><p class="horo_txt">ランクなし</p></li>
  <li><span class="horo_rank">4位</span><span class="horo_name">かに座</span><p class="horo_txt"></p></li>
</ul>
</body></html>`

func TestParseRankings(t *testing.T) {
	rows, err := ParseRankings(strings.NewReader(samplePage))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "aries", rows[0].SignKey)
	assert.Equal(t, "最高の一日", rows[0].MessageJP)

	assert.Equal(t, 2, rows[1].Rank)
	assert.Equal(t, "taurus", rows[1].SignKey)
	assert.Equal(t, "おうし座", rows[1].SignJP)

	assert.Equal(t, 3, rows[2].Rank)
	assert.Equal(t, UnknownSignKey, rows[2].SignKey)
}

func TestParseRankings_Empty(t *testing.T) {
	_, err := ParseRankings(strings.NewReader(`<html><body><p>maintenance</p></body></html>`))
	assert.True(t, errors.Is(err, ErrEmptyRanking))
}

func testConfig(url string) *config.Config {
	return &config.Config{
		Env:      "development",
		LogLevel: "error",
		Ohaasa: config.OhaasaConfig{
			URL:       url,
			UserAgent: "ohaasa-test",
			Timeout:   5 * time.Second,
		},
	}
}

func TestFetchRankings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ohaasa-test", r.Header.Get("User-Agent"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Accept-Language"), "ja-JP"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), logger.Nop())

	rows, err := client.FetchRankings(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestFetchRankings_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), logger.Nop())

	_, err := client.FetchRankings(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

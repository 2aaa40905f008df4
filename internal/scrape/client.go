package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/ohaasa/backend/internal/fortune"
	"github.com/wonny/ohaasa/backend/pkg/config"
	"github.com/wonny/ohaasa/backend/pkg/httputil"
	"github.com/wonny/ohaasa/backend/pkg/logger"
)

// ErrEmptyRanking means the page parsed but carried no usable rows
var ErrEmptyRanking = errors.New("scrape returned empty rankings")

// UnknownSignKey marks a row whose Japanese label matched no sign
const UnknownSignKey = "unknown"

const (
	listSelector = "ul.oa_horoscope_list > li"
	acceptLang   = "ja-JP,ja;q=0.9,en-US;q=0.7,en;q=0.6"
)

var rankDigits = regexp.MustCompile(`\d+`)

// Row is one scraped ranking line
type Row struct {
	Rank      int
	SignKey   string
	SignJP    string
	MessageJP string
}

// Client fetches the daily ranking page
// ⭐ SSOT: 랭킹 페이지 호출/파싱은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	url        string
}

// NewClient creates a scraper with the source's Japanese locale headers
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	httpClient := httputil.NewWithTimeout(cfg, log, cfg.Ohaasa.Timeout).
		WithHeader("User-Agent", cfg.Ohaasa.UserAgent).
		WithHeader("Accept-Language", acceptLang)

	return &Client{
		httpClient: httpClient,
		logger:     log.WithComponent("scrape"),
		url:        cfg.Ohaasa.URL,
	}
}

// FetchRankings downloads and parses today's ranking, sorted by rank
func (c *Client) FetchRankings(ctx context.Context) ([]Row, error) {
	resp, err := c.httpClient.Get(ctx, c.url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	rows, err := ParseRankings(resp.Body)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"url":   c.url,
		"count": len(rows),
	}).Info("Fetched rankings")
	return rows, nil
}

// ParseRankings extracts ranking rows from the page HTML. Rows missing a
// rank, a sign or a message are skipped.
func ParseRankings(r io.Reader) ([]Row, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse HTML failed: %w", err)
	}

	var rows []Row
	doc.Find(listSelector).Each(func(i int, li *goquery.Selection) {
		rankText := strings.TrimSpace(li.Find(".horo_rank").First().Text())
		signJP := strings.TrimSpace(li.Find(".horo_name").First().Text())
		message := strings.TrimSpace(li.Find(".horo_txt").First().Text())

		// "1位" 같은 표기 → 첫 숫자만
		m := rankDigits.FindString(rankText)
		if m == "" || signJP == "" || message == "" {
			return
		}
		rank, err := strconv.Atoi(m)
		if err != nil {
			return
		}

		key := UnknownSignKey
		if s, ok := fortune.SignFromJapanese(signJP); ok {
			key = s.Key
		}

		rows = append(rows, Row{
			Rank:      rank,
			SignKey:   key,
			SignJP:    signJP,
			MessageJP: message,
		})
	})

	if len(rows) == 0 {
		return nil, ErrEmptyRanking
	}

	sort.SliceStable(rows, func(a, b int) bool { return rows[a].Rank < rows[b].Rank })
	return rows, nil
}

package enrich

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/wonny/ohaasa/backend/internal/fortune"
)

// ErrNoProvider is returned by New when AI_PROVIDER=none
var ErrNoProvider = errors.New("no AI provider configured")

const (
	defaultColorHex = "#3FA7D6"
	defaultNumber   = 7
	cardCount       = 5
)

// Request is the input of one enrichment call (one sign of one day)
type Request struct {
	DateKST   string
	SignKey   string
	SignKO    string
	MessageJP string
	Scores    map[string]int
}

// Bundle is the provider result stored in the artifact and the caches
type Bundle struct {
	MessageKO string   `json:"message_ko"`
	AI        BundleAI `json:"ai"`
}

// BundleAI is written as the entry's "ai" object
type BundleAI struct {
	Summary     Summary `json:"summary"`
	Cards       []Card  `json:"cards"`
	LuckyPoints Lucky   `json:"lucky_points"`
}

type Summary struct {
	Headline string `json:"headline"`
	Body     string `json:"body"`
	Tip      string `json:"tip"`
	Warning  string `json:"warning"`
}

type Card struct {
	Category string `json:"category"`
	Tone     string `json:"tone"`
	Score    int    `json:"score"`
	Comment  string `json:"comment"`
	Tip      string `json:"tip"`
	Warning  string `json:"warning"`
}

type Lucky struct {
	ColorName string `json:"color_name"`
	ColorHex  string `json:"color_hex"`
	Number    int    `json:"number"`
	Item      string `json:"item"`
	Keyword   string `json:"keyword"`
}

// Enricher turns a Japanese ranking line into Korean AI content
type Enricher interface {
	Enrich(ctx context.Context, req Request) (*Bundle, error)
	Name() string
}

// MessageHash is the sha1 hex of the source text
func MessageHash(messageJP string) string {
	sum := sha1.Sum([]byte(messageJP))
	return hex.EncodeToString(sum[:])
}

// CacheKey identifies a request: date:sign:sha1(message_jp)
func CacheKey(req Request) string {
	return fmt.Sprintf("%s:%s:%s", req.DateKST, req.SignKey, MessageHash(req.MessageJP))
}

// parseBundle decodes provider text and applies the minimal repairs
func parseBundle(text string) (*Bundle, error) {
	text = stripCodeFence(text)
	if text == "" {
		return nil, errors.New("empty output text")
	}

	var b Bundle
	if err := json.Unmarshal([]byte(text), &b); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	b.normalize()
	return &b, nil
}

// stripCodeFence removes a ```json ... ``` wrapper some models add
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

// normalize: hex → #RRGGBB, number → 1..9, cards sorted 총운..건강운 and capped at 5
func (b *Bundle) normalize() {
	lp := &b.AI.LuckyPoints
	if hex, ok := fortune.NormalizeHex(lp.ColorHex); ok {
		lp.ColorHex = hex
	} else {
		lp.ColorHex = defaultColorHex
	}
	switch {
	case lp.Number == 0: // 누락
		lp.Number = defaultNumber
	case lp.Number < 1:
		lp.Number = 1
	case lp.Number > 9:
		lp.Number = 9
	}

	order := func(c Card) int {
		for _, cat := range fortune.Categories {
			if c.Category == cat.Name() || strings.EqualFold(c.Category, cat.Key()) {
				return int(cat)
			}
		}
		return len(fortune.Categories)
	}
	sort.SliceStable(b.AI.Cards, func(i, j int) bool {
		return order(b.AI.Cards[i]) < order(b.AI.Cards[j])
	})
	if len(b.AI.Cards) > cardCount {
		b.AI.Cards = b.AI.Cards[:cardCount]
	}
}

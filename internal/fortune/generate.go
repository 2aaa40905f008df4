package fortune

import (
	"strings"
	"time"
)

const summarySeparator = " · "

// Generate builds the fortune for birthdate on today. entry is the matched
// ranking entry or nil; every missing input falls back to seeded draws and
// static text, so the call never fails. Identical inputs give identical output.
// birthdate must already have passed ValidateBirthdate.
func Generate(birthdate, today string, entry *CanonicalRankingEntry) FortuneView {
	rng := newFortuneRand(today, birthdate)

	view := FortuneView{
		Date:      today,
		Birthdate: birthdate,
		Cards:     make([]FortuneCard, 0, numCategories),
	}

	if bd, err := time.Parse(DateLayout, birthdate); err == nil {
		view.WesternZodiac = WesternSign(int(bd.Month()), bd.Day()).KO
		view.ChineseZodiac = ChineseZodiac(bd.Year())
	}

	// RNG 소비 순서 고정: 점수(카테고리 순) → 색 → 숫자 → 아이템 → 키워드
	for _, c := range Categories {
		score := resolveScore(c, entry, rng)
		view.Cards = append(view.Cards, buildCard(c, score, findAICard(entry, c)))
	}

	view.Lucky = resolveLucky(entry, rng)
	view.Summary = resolveSummary(entry)
	return view
}

// ToneOf buckets a score: <40 low, <70 mid, else high
func ToneOf(score int) Tone {
	switch {
	case score < 40:
		return ToneLow
	case score < 70:
		return ToneMid
	}
	return ToneHigh
}

// ToneLabel returns the Korean label of t
func ToneLabel(t Tone) string {
	return toneTexts[t].label
}

func resolveScore(c Category, entry *CanonicalRankingEntry, rng *Rand) int {
	if entry != nil {
		if s := entry.Scores.Get(c); s != nil {
			return clampInt(*s, 0, 100)
		}
		if c == CategoryTotal && entry.Rank != nil {
			if lo, hi, ok := rankRange(*entry.Rank); ok {
				return rng.IntRange(lo, hi)
			}
		}
	}
	return rng.IntRange(25, 98)
}

// rankRange maps a daily rank to the total-score band
func rankRange(rank int) (int, int, bool) {
	switch {
	case rank >= 1 && rank <= 3:
		return 85, 100, true
	case rank >= 4 && rank <= 6:
		return 65, 85, true
	case rank >= 7 && rank <= 9:
		return 45, 65, true
	case rank >= 10 && rank <= 12:
		return 20, 45, true
	}
	return 0, 0, false
}

// findAICard matches by English key or Korean name
func findAICard(entry *CanonicalRankingEntry, c Category) *AICard {
	if entry == nil || entry.AI == nil {
		return nil
	}
	for i := range entry.AI.Cards {
		tag := strings.TrimSpace(entry.AI.Cards[i].Category)
		if strings.EqualFold(tag, c.Key()) || tag == c.Name() {
			return &entry.AI.Cards[i]
		}
	}
	return nil
}

func buildCard(c Category, score int, ai *AICard) FortuneCard {
	tone := ToneOf(score)
	fallback := toneTexts[tone]

	card := FortuneCard{
		Key:       c.Key(),
		Name:      c.Name(),
		Score:     score,
		Tone:      tone,
		ToneLabel: fallback.label,
		Headline:  fallback.headline,
		Detail:    fallback.detail,
		Tip:       fallback.tip,
		Caution:   fallback.caution,
	}
	if ai == nil {
		return card
	}
	card.Headline = orDefault(ai.Headline, card.Headline)
	card.Detail = orDefault(ai.Detail, card.Detail)
	card.Tip = orDefault(ai.Tip, card.Tip)
	card.Caution = orDefault(ai.Warning, card.Caution)
	return card
}

func resolveLucky(entry *CanonicalRankingEntry, rng *Rand) LuckyBundle {
	var lp LuckyPoints
	if entry != nil && entry.AI != nil && entry.AI.LuckyPoints != nil {
		lp = *entry.AI.LuckyPoints
	}

	var lucky LuckyBundle
	hex, hexOK := NormalizeHex(lp.ColorHex)
	lucky.Color, lucky.ColorName = hex, lp.ColorName
	if !hexOK || lucky.ColorName == "" {
		drawn := luckyColors[rng.Pick(len(luckyColors))]
		if !hexOK {
			lucky.Color = drawn.hex
		}
		if lucky.ColorName == "" {
			lucky.ColorName = drawn.name
		}
	}

	if lp.Number != nil {
		lucky.Number = clampInt(*lp.Number, 1, 9)
	} else {
		lucky.Number = rng.IntRange(1, 9)
	}

	lucky.Item = lp.Item
	if lucky.Item == "" {
		lucky.Item = luckyItems[rng.Pick(len(luckyItems))]
	}
	lucky.Keyword = lp.Keyword
	if lucky.Keyword == "" {
		lucky.Keyword = luckyKeywords[rng.Pick(len(luckyKeywords))]
	}
	return lucky
}

func resolveSummary(entry *CanonicalRankingEntry) string {
	if entry == nil {
		return genericSummary
	}
	if entry.AI != nil && entry.AI.Summary != nil {
		s := entry.AI.Summary
		if joined := joinNonEmpty(s.OneLiner, s.Focus); joined != "" {
			return joined
		}
		if joined := joinNonEmpty(s.Title, s.Body); joined != "" {
			return joined
		}
	}
	switch {
	case entry.MessageKO != "":
		return entry.MessageKO
	case entry.MessageJP != "":
		return entry.MessageJP
	}
	return genericSummary
}

// NormalizeHex accepts #RRGGBB or #RGB (case-insensitive, # optional) and
// returns the upper-case #RRGGBB form.
func NormalizeHex(s string) (string, bool) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	for _, r := range h {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return "", false
		}
	}
	switch len(h) {
	case 6:
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	default:
		return "", false
	}
	return "#" + strings.ToUpper(h), true
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, summarySeparator)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

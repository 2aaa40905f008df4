package fortune

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Normalize repairs an untrusted decoded payload into a RankingSet.
// Malformed input never fails the call; it is dropped or repaired and
// recorded in Warnings. today (YYYY-MM-DD) replaces an unusable date_kst.
// ⭐ SSOT: 랭킹 정규화 규칙은 여기서만
func Normalize(raw any, today string) RankingSet {
	n := &normalizer{}
	payload, ok := asObject(raw)
	if !ok {
		n.warn("payload is not an object")
		payload = map[string]any{}
	}

	set := RankingSet{
		Source:       firstString(payload, "source"),
		DateKST:      asString(payload["date_kst"]),
		UpdatedAtKST: asString(payload["updated_at_kst"]),
		ErrorMessage: asString(payload["error_message"]),
	}
	if set.Source == "" {
		set.Source = DefaultSource
	}
	if !datePattern.MatchString(set.DateKST) {
		n.warn(fmt.Sprintf("invalid date_kst %q", set.DateKST))
		set.DateKST = today
	}

	set.Rankings = n.rankings(payload["rankings"])

	declared := asString(payload["status"])
	switch declared {
	case StatusOK, StatusPartial, StatusError:
	case "":
		declared = StatusOK
	default:
		n.warn(fmt.Sprintf("unknown status %q", declared))
		declared = StatusPartial
	}
	if declared == StatusOK && len(n.warnings) > 0 {
		declared = StatusPartial
	}
	set.Status = declared
	set.Warnings = n.warnings
	if set.Warnings == nil {
		set.Warnings = []string{}
	}
	return set
}

// NormalizeJSON decodes data (numbers kept exact) and normalizes it. A decode
// failure yields an error-status set with no rankings.
func NormalizeJSON(data []byte, today string) RankingSet {
	raw, err := decodeRaw(data)
	if err != nil {
		return RankingSet{
			Source:       DefaultSource,
			DateKST:      today,
			Status:       StatusError,
			ErrorMessage: fmt.Sprintf("decode payload: %v", err),
			Rankings:     []CanonicalRankingEntry{},
			Warnings:     []string{},
		}
	}
	return Normalize(raw, today)
}

// decodeRaw keeps numbers as json.Number so ranks like 3.5 stay detectable
func decodeRaw(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

type normalizer struct {
	warnings []string
}

func (n *normalizer) warn(msg string) {
	n.warnings = append(n.warnings, msg)
}

func (n *normalizer) rankings(v any) []CanonicalRankingEntry {
	list, ok := asList(v)
	if !ok {
		n.warn("missing rankings list")
		return []CanonicalRankingEntry{}
	}

	entries := make([]CanonicalRankingEntry, 0, len(list))
	for i, item := range list {
		obj, ok := asObject(item)
		if !ok {
			n.warn(fmt.Sprintf("invalid entry at index %d", i))
			continue
		}
		entry := n.entry(i, obj)
		if entry.Rank == nil {
			continue
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return *entries[a].Rank < *entries[b].Rank
	})

	// 같은 rank는 원래 순서상 첫 항목만 유지 (stable sort 전제)
	out := entries[:0]
	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		if seen[*e.Rank] {
			n.warn(fmt.Sprintf("duplicate rank %d", *e.Rank))
			continue
		}
		seen[*e.Rank] = true
		out = append(out, e)
	}
	return out
}

func (n *normalizer) entry(i int, obj map[string]any) CanonicalRankingEntry {
	var e CanonicalRankingEntry

	if r, ok := asRank(obj["rank"]); ok && r >= 1 && r <= 12 {
		e.Rank = intPtr(r)
	} else {
		n.warn(fmt.Sprintf("invalid rank at index %d", i))
	}

	if key := asString(obj["sign_key"]); key != "" {
		e.SignKey = &key
	} else {
		n.warn(fmt.Sprintf("missing sign_key at index %d", i))
	}

	e.SignJP = asString(obj["sign_jp"])
	e.SignKO = asString(obj["sign_ko"])
	if e.SignKO == "" && e.SignKey != nil {
		if s, ok := LookupSign(*e.SignKey); ok {
			e.SignKO = s.KO
		}
	}

	e.Scores = normalizeScores(obj["scores"])

	tag := asString(obj["status_tag"])
	if tag == "" {
		tag = asString(obj["trend"])
	}
	e.StatusTag = normalizeStatusTag(tag)

	e.MessageKO = asString(obj["message_ko"])
	e.MessageJP = asString(obj["message_jp"])
	e.AI = normalizeAI(obj["ai"])
	return e
}

func normalizeScores(v any) CanonicalScores {
	m, _ := asObject(v)

	var s CanonicalScores
	read := func(keys ...string) *int {
		for _, k := range keys {
			if score, ok := asScore(m[k]); ok {
				return intPtr(score)
			}
		}
		return nil
	}
	s.Total = read("total", "overall")
	s.Love = read("love")
	s.Study = read("study")
	s.Money = read("money")
	s.Health = read("health")

	if s.Total != nil {
		return s
	}

	sum, count := 0, 0
	for _, p := range []*int{s.Love, s.Study, s.Money, s.Health} {
		if p != nil {
			sum += *p
			count++
		}
	}
	if count == 0 {
		s.Total = intPtr(50)
		return s
	}
	// half-up rounding on non-negative integers
	s.Total = intPtr(clampInt((2*sum+count)/(2*count), 0, 100))
	return s
}

func normalizeStatusTag(tag string) string {
	switch {
	case tag == StatusRising, tag == StatusFalling, tag == StatusStable:
		return tag
	case tag == "":
		return StatusStable
	case strings.Contains(tag, "상"):
		return StatusRising
	case strings.Contains(tag, "하"):
		return StatusFalling
	}
	return StatusStable
}

func normalizeAI(v any) *AIContent {
	obj, ok := asObject(v)
	if !ok {
		return nil
	}

	ai := &AIContent{}
	if list, ok := asList(obj["cards"]); ok {
		ai.Cards = make([]AICard, 0, len(list))
		for _, item := range list {
			card, ok := asObject(item)
			if !ok {
				continue
			}
			ai.Cards = append(ai.Cards, normalizeCard(card))
		}
	}

	if summary, ok := asObject(obj["summary"]); ok {
		ai.Summary = &AISummary{
			OneLiner: firstString(summary, "one_liner"),
			Focus:    firstString(summary, "focus"),
			Title:    firstString(summary, "title", "headline"),
			Body:     firstString(summary, "body"),
		}
	}

	if lucky, ok := asObject(obj["lucky_points"]); ok {
		lp := &LuckyPoints{
			ColorHex:  firstString(lucky, "color_hex"),
			ColorName: firstString(lucky, "color_name"),
			Item:      firstString(lucky, "item"),
			Keyword:   firstString(lucky, "keyword"),
		}
		if num, ok := asRank(lucky["number"]); ok {
			lp.Number = intPtr(num)
		}
		ai.LuckyPoints = lp
	}
	return ai
}

func normalizeCard(m map[string]any) AICard {
	card := AICard{
		Category: firstString(m, "category"),
		Tone:     firstString(m, "tone"),
		Headline: firstString(m, "headline", "title"),
		Detail:   firstString(m, "detail", "comment", "body"),
		Tip:      firstString(m, "tip"),
		Warning:  firstString(m, "warning", "caution"),
	}
	if score, ok := asScore(m["score"]); ok {
		card.Score = intPtr(score)
	}
	return card
}

// FindBySign returns the entry for sign, matching sign_key (English key or
// Japanese label) or sign_ko. nil when the set has no such entry.
func (s RankingSet) FindBySign(sign Sign) *CanonicalRankingEntry {
	for i := range s.Rankings {
		e := &s.Rankings[i]
		if e.SignKey != nil {
			if matched, ok := LookupSign(*e.SignKey); ok && matched.Key == sign.Key {
				return e
			}
		}
		if e.SignKO != "" && e.SignKO == sign.KO {
			return e
		}
	}
	return nil
}

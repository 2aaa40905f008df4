package fortune

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// 외부 JSON 필드는 타입을 보장할 수 없음 → 필드별 coercion 함수로만 접근

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asList(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

// asString returns the trimmed string value, "" for anything else
func asString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// firstString returns the first non-empty string among keys
func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := asString(m[k]); s != "" {
			return s
		}
	}
	return ""
}

// asFloat accepts finite JSON numbers in any decoded form
func asFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// asRank resolves a rank: integral numbers pass, strings have their digit
// characters concatenated and parsed base-10. Range is checked by the caller.
func asRank(v any) (int, bool) {
	if s, ok := v.(string); ok {
		var digits strings.Builder
		for _, r := range s {
			if r >= '0' && r <= '9' {
				digits.WriteRune(r)
			}
		}
		if digits.Len() == 0 {
			return 0, false
		}
		n, err := strconv.Atoi(digits.String())
		if err != nil {
			return 0, false
		}
		return n, true
	}

	f, ok := asFloat(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// asScore accepts finite numbers (or numeric strings), rounded and clamped to [0,100]
func asScore(v any) (int, bool) {
	f, ok := asFloat(v)
	if !ok {
		s := asString(v)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return 0, false
		}
		f = parsed
	}
	return clampInt(int(math.Round(f)), 0, 100), true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func intPtr(v int) *int { return &v }

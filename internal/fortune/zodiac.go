package fortune

import (
	"strings"
	"time"
	"unicode"
)

// Sign is one of the twelve western star signs
type Sign struct {
	Key string // stable identifier used in the artifact (aries, taurus, ...)
	JP  string // label on the source page
	KO  string // Korean display name

	// inclusive month*100+day range; Capricorn wraps the year end
	start, end int
}

// Signs is the fixed table in the source page's order
// ⭐ SSOT: 별자리 키/일본어/한국어 매핑은 여기서만
var Signs = [12]Sign{
	{Key: "aries", JP: "おひつじ座", KO: "양자리", start: 321, end: 419},
	{Key: "taurus", JP: "おうし座", KO: "황소자리", start: 420, end: 520},
	{Key: "gemini", JP: "ふたご座", KO: "쌍둥이자리", start: 521, end: 621},
	{Key: "cancer", JP: "かに座", KO: "게자리", start: 622, end: 722},
	{Key: "leo", JP: "しし座", KO: "사자자리", start: 723, end: 822},
	{Key: "virgo", JP: "おとめ座", KO: "처녀자리", start: 823, end: 922},
	{Key: "libra", JP: "てんびん座", KO: "천칭자리", start: 923, end: 1022},
	{Key: "scorpio", JP: "さそり座", KO: "전갈자리", start: 1023, end: 1122},
	{Key: "sagittarius", JP: "いて座", KO: "사수자리", start: 1123, end: 1221},
	{Key: "capricorn", JP: "やぎ座", KO: "염소자리", start: 1222, end: 119},
	{Key: "aquarius", JP: "みずがめ座", KO: "물병자리", start: 120, end: 218},
	{Key: "pisces", JP: "うお座", KO: "물고기자리", start: 219, end: 320},
}

var chineseZodiac = [12]string{"쥐", "소", "호랑이", "토끼", "용", "뱀", "말", "양", "원숭이", "닭", "개", "돼지"}

func (s Sign) contains(monthDay int) bool {
	if s.start > s.end {
		return monthDay >= s.start || monthDay <= s.end
	}
	return monthDay >= s.start && monthDay <= s.end
}

// stripSpace removes all whitespace; page labels sometimes carry line breaks
func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// LookupSign resolves a sign_key, accepting either the English key or the
// exact Japanese label.
func LookupSign(signKey string) (Sign, bool) {
	k := stripSpace(signKey)
	for _, s := range Signs {
		if strings.EqualFold(s.Key, k) || s.JP == k {
			return s, true
		}
	}
	return Sign{}, false
}

// SignFromJapanese resolves a scraped Japanese label: exact match first,
// then containment either way.
func SignFromJapanese(label string) (Sign, bool) {
	l := stripSpace(label)
	if l == "" {
		return Sign{}, false
	}
	for _, s := range Signs {
		if s.JP == l {
			return s, true
		}
	}
	for _, s := range Signs {
		if strings.Contains(l, s.JP) || strings.Contains(s.JP, l) {
			return s, true
		}
	}
	return Sign{}, false
}

// WesternSign returns the sign for a birth month and day
func WesternSign(month, day int) Sign {
	md := month*100 + day
	for _, s := range Signs {
		if s.contains(md) {
			return s
		}
	}
	// unreachable for valid dates; the ranges cover the whole year
	return Signs[9]
}

// SignOfBirthdate parses a YYYY-MM-DD birthdate and returns its sign
func SignOfBirthdate(birthdate string) (Sign, bool) {
	bd, err := time.Parse(DateLayout, birthdate)
	if err != nil {
		return Sign{}, false
	}
	return WesternSign(int(bd.Month()), bd.Day()), true
}

// ChineseZodiac returns the animal of a birth year
func ChineseZodiac(year int) string {
	idx := (year - 4) % 12
	if idx < 0 {
		idx += 12
	}
	return chineseZodiac[idx]
}

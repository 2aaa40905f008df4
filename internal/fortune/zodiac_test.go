package fortune

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWesternSign_Boundaries(t *testing.T) {
	tests := []struct {
		birthdate string
		want      string
	}{
		{"1990-12-22", "염소자리"},
		{"1990-01-19", "염소자리"},
		{"1990-01-20", "물병자리"},
		{"1990-02-18", "물병자리"},
		{"1990-02-19", "물고기자리"},
		{"1990-03-20", "물고기자리"},
		{"1990-03-21", "양자리"},
		{"1990-08-23", "처녀자리"},
		{"1990-12-21", "사수자리"},
	}

	for _, tt := range tests {
		t.Run(tt.birthdate, func(t *testing.T) {
			bd, err := time.Parse(DateLayout, tt.birthdate)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, WesternSign(int(bd.Month()), bd.Day()).KO)
		})
	}
}

func TestWesternSign_CoversEveryDay(t *testing.T) {
	counts := make(map[string]int)
	for d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC); d.Year() == 2024; d = d.AddDate(0, 0, 1) {
		md := int(d.Month())*100 + d.Day()
		matched := 0
		for _, s := range Signs {
			if s.contains(md) {
				matched++
				counts[s.Key]++
			}
		}
		assert.Equal(t, 1, matched, "day %s", d.Format(DateLayout))
	}
	assert.Len(t, counts, 12)
}

func TestChineseZodiac(t *testing.T) {
	tests := []struct {
		year int
		want string
	}{
		{1996, "쥐"},
		{1997, "소"},
		{2007, "돼지"},
		{2024, "용"},
		{4, "쥐"},
		{3, "돼지"},
		{-8, "쥐"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ChineseZodiac(tt.year), "year %d", tt.year)
	}
}

func TestSignFromJapanese(t *testing.T) {
	tests := []struct {
		label  string
		want   string
		wantOK bool
	}{
		{"おひつじ座", "aries", true},
		{"  うお座\n", "pisces", true},
		{"今日のやぎ座", "capricorn", true},
		{"みずがめ", "aquarius", true},
		{"へびつかい座", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			s, ok := SignFromJapanese(tt.label)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, s.Key)
		})
	}
}

func TestLookupSign(t *testing.T) {
	s, ok := LookupSign("Scorpio")
	assert.True(t, ok)
	assert.Equal(t, "전갈자리", s.KO)

	s, ok = LookupSign("かに座")
	assert.True(t, ok)
	assert.Equal(t, "cancer", s.Key)

	_, ok = LookupSign("unknown")
	assert.False(t, ok)
}

func TestSignOfBirthdate(t *testing.T) {
	s, ok := SignOfBirthdate("1996-03-03")
	assert.True(t, ok)
	assert.Equal(t, "pisces", s.Key)

	s, ok = SignOfBirthdate("2000-12-31")
	assert.True(t, ok)
	assert.Equal(t, "capricorn", s.Key)

	_, ok = SignOfBirthdate("1996-3-3")
	assert.False(t, ok)
}

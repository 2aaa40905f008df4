package fortune

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBirthdate(t *testing.T) {
	tests := []struct {
		birthdate string
		wantErr   bool
	}{
		{"1990-05-17", false},
		{testToday, false},
		{"2024-02-29", false},
		{"2023-02-29", true},
		{"1990-13-01", true},
		{"1990-5-17", true},
		{"2026-10-17", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.birthdate, func(t *testing.T) {
			err := ValidateBirthdate(tt.birthdate, testToday)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidBirthdate))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTodayKST(t *testing.T) {
	// 2026-10-15 16:00 UTC = 2026-10-16 01:00 KST
	now := time.Date(2026, 10, 15, 16, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-10-16", TodayKST(now))

	now = time.Date(2026, 10, 15, 14, 59, 0, 0, time.UTC)
	assert.Equal(t, "2026-10-15", TodayKST(now))
}

func validArtifact() string {
	var rows []string
	for i, s := range Signs {
		rows = append(rows, fmt.Sprintf(
			`{"rank":%d,"sign_key":%q,"scores":{"total":50,"love":50,"study":50,"money":50,"health":50}}`,
			i+1, s.Key))
	}
	return `{"date_kst":"2026-10-16","status":"ok","rankings":[` + strings.Join(rows, ",") + `]}`
}

func decodeNumbers(t *testing.T, data string) any {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()
	var raw any
	require.NoError(t, dec.Decode(&raw))
	return raw
}

func TestValidate_OK(t *testing.T) {
	assert.Empty(t, Validate(decodeNumbers(t, validArtifact())))
}

func TestValidate_Violations(t *testing.T) {
	raw := decodeNumbers(t, `{"date_kst":"today","rankings":[
		{"rank":2,"scores":{"total":50,"love":50,"study":50,"money":50,"health":50}},
		{"rank":1.5,"scores":{"total":101,"love":50,"study":50,"money":50,"health":50}},
		{"rank":1,"scores":{"total":50,"love":"50","study":50,"money":50,"health":50}}
	]}`)

	errs := Validate(raw)

	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	assert.Contains(t, msgs, `invalid date_kst "today"`)
	assert.Contains(t, msgs, "invalid rankings length: 3")
	assert.Contains(t, msgs, "invalid rank at index 1: 1.5")
	assert.Contains(t, msgs, "invalid score total at rank 1.5: 101")
	assert.Contains(t, msgs, "invalid score love at rank 1: 50")
	assert.Contains(t, msgs, "ranks not sorted")
	assert.Contains(t, msgs, "ranks are not exactly 1..12")
}

func TestValidate_NotObject(t *testing.T) {
	errs := Validate([]any{})
	require.Len(t, errs, 1)
	assert.Equal(t, "payload", errs[0].Field)
}

func TestValidateJSON(t *testing.T) {
	errs := ValidateJSON([]byte(`{"date_kst": "2026-10-16", "rankings": [`))
	require.Len(t, errs, 1)
	assert.Equal(t, "payload", errs[0].Field)
	assert.Contains(t, errs[0].Message, "decode payload")

	errs = ValidateJSON([]byte(`{"date_kst": "2026-10-16", "rankings": []}`))
	require.NotEmpty(t, errs)
	assert.Equal(t, "invalid rankings length: 0", errs[0].Message)
}

package fortune

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// ErrInvalidBirthdate is returned by ValidateBirthdate
var ErrInvalidBirthdate = errors.New("invalid birthdate")

// DateLayout is the civil date format used across the service
const DateLayout = "2006-01-02"

// KST is the fixed UTC+9 zone; the host zone is never consulted
var KST = time.FixedZone("KST", 9*60*60)

// TodayKST returns the civil date of now in KST
func TodayKST(now time.Time) string {
	return now.In(KST).Format(DateLayout)
}

// ValidateBirthdate gates the generator: YYYY-MM-DD, a real calendar day,
// not after today.
func ValidateBirthdate(birthdate, today string) error {
	if !datePattern.MatchString(birthdate) {
		return fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidBirthdate, birthdate)
	}
	// time.Parse rejects 02-30 and friends
	bd, err := time.Parse(DateLayout, birthdate)
	if err != nil {
		return fmt.Errorf("%w: %q is not a calendar date", ErrInvalidBirthdate, birthdate)
	}
	t, err := time.Parse(DateLayout, today)
	if err != nil {
		return fmt.Errorf("%w: reference date %q unusable", ErrInvalidBirthdate, today)
	}
	if bd.After(t) {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidBirthdate, birthdate, today)
	}
	return nil
}

// ValidationError is one strict-check violation of a published artifact
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateJSON decodes data and runs Validate on it
func ValidateJSON(data []byte) []ValidationError {
	raw, err := decodeRaw(data)
	if err != nil {
		return []ValidationError{{Field: "payload", Message: fmt.Sprintf("decode payload: %v", err)}}
	}
	return Validate(raw)
}

// Validate strictly checks a published artifact (decoded with UseNumber):
// exactly 12 entries, integer ranks 1..12 sorted and complete, integer scores
// 0..100 for all five categories. Returns every violation found.
// Normalize repairs; Validate only reports.
func Validate(raw any) []ValidationError {
	var errs []ValidationError
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	payload, ok := asObject(raw)
	if !ok {
		add("payload", "not an object")
		return errs
	}

	if date, _ := payload["date_kst"].(string); !datePattern.MatchString(date) {
		add("date_kst", "invalid date_kst %q", date)
	}

	rankings, _ := asList(payload["rankings"])
	if len(rankings) != 12 {
		add("rankings", "invalid rankings length: %d", len(rankings))
	}

	ranks := make([]int, 0, len(rankings))
	for i, item := range rankings {
		obj, _ := asObject(item)

		rank, ok := strictInt(obj["rank"])
		if !ok || rank < 1 || rank > 12 {
			add(fmt.Sprintf("rankings[%d].rank", i), "invalid rank at index %d: %v", i, obj["rank"])
		} else {
			ranks = append(ranks, rank)
		}

		scores, _ := asObject(obj["scores"])
		for _, c := range Categories {
			v, ok := strictInt(scores[c.Key()])
			if !ok || v < 0 || v > 100 {
				add(fmt.Sprintf("rankings[%d].scores.%s", i, c.Key()), "invalid score %s at rank %v: %v", c.Key(), obj["rank"], scores[c.Key()])
			}
		}
	}

	if !sort.IntsAreSorted(ranks) {
		add("rankings", "ranks not sorted")
	}
	seen := make(map[int]bool, len(ranks))
	for _, r := range ranks {
		seen[r] = true
	}
	complete := len(seen) == 12
	for r := 1; r <= 12 && complete; r++ {
		complete = seen[r]
	}
	if !complete {
		add("rankings", "ranks are not exactly 1..12")
	}
	return errs
}

// strictInt accepts integer JSON values only (1 passes, 1.5 and "1" do not)
func strictInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case float64:
		// plain json.Unmarshal callers; integral floats are the best available signal
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

package artifact

import "github.com/wonny/ohaasa/backend/internal/enrich"

// unmappedSignKO is written when the scraped label matched no sign
const unmappedSignKO = "알수없음"

// placeholderScore fills every category until per-sign scores are scraped
const placeholderScore = 50

// Payload is the published daily artifact (public/fortune.json)
type Payload struct {
	Source       string  `json:"source"`
	DateKST      string  `json:"date_kst"`
	UpdatedAtKST string  `json:"updated_at_kst"`
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message"`
	Rankings     []Entry `json:"rankings"`
}

// Entry is one published ranking row
type Entry struct {
	Rank      int              `json:"rank"`
	SignKey   string           `json:"sign_key"`
	SignJP    string           `json:"sign_jp"`
	SignKO    string           `json:"sign_ko"`
	MessageJP string           `json:"message_jp"`
	MessageKO string           `json:"message_ko"`
	Scores    Scores           `json:"scores"`
	AI        *enrich.BundleAI `json:"ai,omitempty"`
}

// Scores keeps the five categories in display order
type Scores struct {
	Total  int `json:"total"`
	Love   int `json:"love"`
	Study  int `json:"study"`
	Money  int `json:"money"`
	Health int `json:"health"`
}

func placeholderScores() Scores {
	return Scores{
		Total:  placeholderScore,
		Love:   placeholderScore,
		Study:  placeholderScore,
		Money:  placeholderScore,
		Health: placeholderScore,
	}
}

// Map is the form sent to AI providers
func (s Scores) Map() map[string]int {
	return map[string]int{
		"total":  s.Total,
		"love":   s.Love,
		"study":  s.Study,
		"money":  s.Money,
		"health": s.Health,
	}
}

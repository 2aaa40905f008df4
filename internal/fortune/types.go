package fortune

// Category is one of the five fortune categories.
// ⭐ SSOT: 카테고리별 테이블은 모두 [numCategories] 배열로 선언 → 추가/삭제 시 컴파일 에러
type Category int

const (
	CategoryTotal Category = iota
	CategoryLove
	CategoryStudy
	CategoryMoney
	CategoryHealth

	numCategories
)

// Categories lists every category in display order
var Categories = [numCategories]Category{
	CategoryTotal,
	CategoryLove,
	CategoryStudy,
	CategoryMoney,
	CategoryHealth,
}

var categoryKeys = [numCategories]string{
	CategoryTotal:  "total",
	CategoryLove:   "love",
	CategoryStudy:  "study",
	CategoryMoney:  "money",
	CategoryHealth: "health",
}

var categoryNames = [numCategories]string{
	CategoryTotal:  "총운",
	CategoryLove:   "연애운",
	CategoryStudy:  "학업운",
	CategoryMoney:  "금전운",
	CategoryHealth: "건강운",
}

// Key returns the stable English key (total, love, ...)
func (c Category) Key() string { return categoryKeys[c] }

// Name returns the Korean display name (총운, 연애운, ...)
func (c Category) Name() string { return categoryNames[c] }

// String implements fmt.Stringer
func (c Category) String() string { return c.Key() }

// Tone is the qualitative bucket of a score
type Tone string

const (
	ToneLow  Tone = "low"
	ToneMid  Tone = "mid"
	ToneHigh Tone = "high"
)

// Status tags carried by a ranking entry (rising / falling / stable)
const (
	StatusRising  = "상승"
	StatusFalling = "하락"
	StatusStable  = "안정"
)

// Payload status values
const (
	StatusOK      = "ok"
	StatusPartial = "partial"
	StatusError   = "error"
)

// DefaultSource is the provider identifier used when a payload omits it
const DefaultSource = "asahi_ohaasa"

// CanonicalScores holds the five category scores, each 0-100 or null
type CanonicalScores struct {
	Total  *int `json:"total"`
	Love   *int `json:"love"`
	Study  *int `json:"study"`
	Money  *int `json:"money"`
	Health *int `json:"health"`
}

// Get returns the score of c (nil when absent)
func (s CanonicalScores) Get(c Category) *int {
	switch c {
	case CategoryTotal:
		return s.Total
	case CategoryLove:
		return s.Love
	case CategoryStudy:
		return s.Study
	case CategoryMoney:
		return s.Money
	case CategoryHealth:
		return s.Health
	}
	return nil
}

// AICard is one category card authored by the AI provider
type AICard struct {
	Category string `json:"category"`
	Tone     string `json:"tone,omitempty"`
	Score    *int   `json:"score,omitempty"`
	Headline string `json:"headline,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Tip      string `json:"tip,omitempty"`
	Warning  string `json:"warning,omitempty"`
}

// AISummary is the AI-authored one-line summary block
type AISummary struct {
	OneLiner string `json:"one_liner,omitempty"`
	Focus    string `json:"focus,omitempty"`
	Title    string `json:"title,omitempty"`
	Body     string `json:"body,omitempty"`
}

// LuckyPoints is the AI-authored lucky bundle (any field may be empty)
type LuckyPoints struct {
	ColorHex  string `json:"color_hex,omitempty"`
	ColorName string `json:"color_name,omitempty"`
	Number    *int   `json:"number,omitempty"`
	Item      string `json:"item,omitempty"`
	Keyword   string `json:"keyword,omitempty"`
}

// AIContent is the normalized "ai" block of an entry
type AIContent struct {
	Cards       []AICard     `json:"cards"`
	Summary     *AISummary   `json:"summary"`
	LuckyPoints *LuckyPoints `json:"lucky_points"`
}

// CanonicalRankingEntry is one repaired ranking row
type CanonicalRankingEntry struct {
	Rank      *int            `json:"rank"`
	SignKey   *string         `json:"sign_key"`
	SignKO    string          `json:"sign_ko"`
	SignJP    string          `json:"sign_jp,omitempty"`
	Scores    CanonicalScores `json:"scores"`
	StatusTag string          `json:"status_tag"`
	MessageKO string          `json:"message_ko,omitempty"`
	MessageJP string          `json:"message_jp,omitempty"`
	AI        *AIContent      `json:"ai"`
}

// RankingSet is the normalized daily payload. Immutable once returned.
type RankingSet struct {
	Source       string                  `json:"source"`
	DateKST      string                  `json:"date_kst"`
	UpdatedAtKST string                  `json:"updated_at_kst"`
	Status       string                  `json:"status"`
	ErrorMessage string                  `json:"error_message"`
	Rankings     []CanonicalRankingEntry `json:"rankings"`
	Warnings     []string                `json:"warnings"`
}

// FortuneCard is one of the five rendered category cards
type FortuneCard struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Tone      Tone   `json:"tone"`
	ToneLabel string `json:"toneLabel"`
	Headline  string `json:"headline"`
	Detail    string `json:"detail"`
	Tip       string `json:"tip"`
	Caution   string `json:"caution"`
}

// LuckyBundle is the color/number/item/keyword widget
type LuckyBundle struct {
	Color     string `json:"color"`
	ColorName string `json:"colorName"`
	Number    int    `json:"number"`
	Item      string `json:"item"`
	Keyword   string `json:"keyword"`
}

// FortuneView is the generator output for one (birthdate, date)
type FortuneView struct {
	Date          string        `json:"date"`
	Birthdate     string        `json:"birthdate"`
	WesternZodiac string        `json:"westernZodiac"`
	ChineseZodiac string        `json:"chineseZodiac"`
	Summary       string        `json:"summary"`
	Cards         []FortuneCard `json:"cards"`
	Lucky         LuckyBundle   `json:"lucky"`
}

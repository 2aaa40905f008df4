package enrich

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/wonny/ohaasa/backend/internal/fortune"
)

const schemaName = "ohaasa_ai_bundle"

const systemPrompt = `너는 한국어 운세 콘텐츠를 만드는 전문 에디터다.
- 사용자가 보는 UI는 카드형(총운/연애운/학업운/금전운/건강운) 5개다.
- 번역: message_jp를 자연스러운 한국어로 번역하되 과장하지 말고 간결하게.
- 카드: 각 카드 comment는 1~2문장, tip/warning은 각 1문장.
- 표현 금지: 선정적/차별적/혐오/폭력 조장.
- 점수는 입력 scores를 참고하되 0~100 정수.
- lucky_points는 모바일 UI에 들어갈 짧은 단어로.
- 반드시 JSON만 출력.`

func userPrompt(req Request) string {
	scores, _ := json.Marshal(req.Scores)

	var b strings.Builder
	fmt.Fprintf(&b, "[KST 날짜] %s\n", req.DateKST)
	fmt.Fprintf(&b, "[서양 별자리] %s (%s)\n", req.SignKO, req.SignKey)
	fmt.Fprintf(&b, "[별자리 고유색 HEX] %s\n", defaultColorHex)
	fmt.Fprintf(&b, "[오하아사 원문 message_jp]\n%s\n\n", req.MessageJP)
	fmt.Fprintf(&b, "[점수(scores)] %s\n\n", scores)
	b.WriteString("요구 결과(JSON):\n")
	b.WriteString("- message_ko: 원문을 자연스러운 한국어로 번역\n")
	b.WriteString("- ai.summary: headline/body/tip/warning\n")
	b.WriteString("- ai.cards: 5개(총운/연애운/학업운/금전운/건강운) category, tone(상승/안정/하락), score, comment, tip, warning\n")
	b.WriteString("- ai.lucky_points: color_name,color_hex,number(1~9),item,keyword\n")
	return b.String()
}

func object(props map[string]interface{}) map[string]interface{} {
	required := make([]string, 0, len(props))
	for k := range props {
		required = append(required, k)
	}
	sort.Strings(required)
	return map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

func str() map[string]interface{} { return map[string]interface{}{"type": "string"} }

// responseSchema is the strict schema; every property is required at each level
func responseSchema() map[string]interface{} {
	categories := make([]string, 0, len(fortune.Categories))
	for _, c := range fortune.Categories {
		categories = append(categories, c.Name())
	}

	card := object(map[string]interface{}{
		"category": map[string]interface{}{"type": "string", "enum": categories},
		"tone":     map[string]interface{}{"type": "string", "enum": []string{fortune.StatusRising, fortune.StatusStable, fortune.StatusFalling}},
		"score":    map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 100},
		"comment":  str(),
		"tip":      str(),
		"warning":  str(),
	})

	ai := object(map[string]interface{}{
		"summary": object(map[string]interface{}{
			"headline": str(),
			"body":     str(),
			"tip":      str(),
			"warning":  str(),
		}),
		"cards": map[string]interface{}{
			"type":     "array",
			"minItems": cardCount,
			"maxItems": cardCount,
			"items":    card,
		},
		"lucky_points": object(map[string]interface{}{
			"color_name": str(),
			"color_hex":  map[string]interface{}{"type": "string", "pattern": `^#[0-9A-Fa-f]{6}$`},
			"number":     map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 9},
			"item":       str(),
			"keyword":    str(),
		}),
	})

	return object(map[string]interface{}{
		"message_ko": str(),
		"ai":         ai,
	})
}

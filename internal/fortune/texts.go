package fortune

type toneText struct {
	label    string
	headline string
	detail   string
	tip      string
	caution  string
}

// 톤별 기본 문구: AI 카드가 없거나 필드가 비었을 때 사용 (별자리 무관)
var toneTexts = map[Tone]toneText{
	ToneLow: {
		label:    "주의",
		headline: "속도를 줄이고 한 번 더 확인하세요",
		detail:   "작은 실수가 커지기 쉬운 날입니다. 서두르기보다 차분하게 순서를 지키면 무난하게 지나갑니다.",
		tip:      "중요한 결정은 내일로 미루고 오늘은 정리에 집중하세요.",
		caution:  "감정적인 말이나 충동적인 지출을 조심하세요.",
	},
	ToneMid: {
		label:    "안정",
		headline: "평소의 리듬을 지키면 좋은 하루",
		detail:   "큰 변화는 없지만 꾸준함이 빛을 발합니다. 해오던 일을 마무리하기에 알맞은 흐름입니다.",
		tip:      "미뤄 둔 작은 일 하나를 끝내 보세요.",
		caution:  "익숙함에 방심해 약속 시간을 놓치지 않도록 하세요.",
	},
	ToneHigh: {
		label:    "상승",
		headline: "기회가 먼저 찾아오는 날",
		detail:   "주변의 도움과 타이밍이 잘 맞아떨어집니다. 망설이던 일을 시작하면 좋은 반응을 얻을 수 있습니다.",
		tip:      "먼저 연락하고 먼저 제안해 보세요.",
		caution:  "자신감이 지나쳐 무리한 약속을 하지 않도록 하세요.",
	},
}

type luckyColor struct {
	hex  string
	name string
}

var luckyColors = [...]luckyColor{
	{"#E94B3C", "코랄 레드"},
	{"#F5B700", "선샤인 옐로"},
	{"#3FA7D6", "스카이 블루"},
	{"#59CD90", "민트 그린"},
	{"#8E7DBE", "라벤더"},
	{"#F7F7F2", "아이보리"},
}

var luckyItems = [...]string{"손수건", "텀블러", "이어폰", "수첩"}

var luckyKeywords = [...]string{"여유", "도전", "정리", "감사"}

const genericSummary = "오늘은 나에게 맞는 속도로 하루를 채워 보세요."

package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/ohaasa/backend/internal/artifact"
	"github.com/wonny/ohaasa/backend/internal/fortune"
)

// fortuneCmd represents the fortune command
var fortuneCmd = &cobra.Command{
	Use:   "fortune",
	Short: "생년월일로 오늘의 운세 생성",
	Long: `현재 아티팩트(없으면 폴백)로 운세를 생성합니다.
같은 생년월일/날짜면 항상 같은 결과입니다.

Example:
  go run ./cmd/ohaasa fortune --birthdate 1996-03-03
  go run ./cmd/ohaasa fortune --birthdate 1996-03-03 --date 2026-10-16 --json`,
	RunE: runFortune,
}

var (
	fortuneBirthdate string
	fortuneDate      string
	fortuneJSON      bool
)

func init() {
	rootCmd.AddCommand(fortuneCmd)

	fortuneCmd.Flags().StringVar(&fortuneBirthdate, "birthdate", "", "생년월일 (YYYY-MM-DD)")
	fortuneCmd.Flags().StringVar(&fortuneDate, "date", "", "기준 날짜 (기본값: 오늘 KST)")
	fortuneCmd.Flags().BoolVar(&fortuneJSON, "json", false, "JSON으로 출력")
	fortuneCmd.MarkFlagRequired("birthdate")
}

func runFortune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	today := fortuneDate
	if today == "" {
		today = fortune.TodayKST(time.Now())
	} else if _, err := time.Parse(fortune.DateLayout, today); err != nil {
		return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", today)
	}

	if err := fortune.ValidateBirthdate(fortuneBirthdate, today); err != nil {
		return err
	}

	// 아티팩트가 없으면 entry 없이 생성
	var entry *fortune.CanonicalRankingEntry
	status := "unavailable"
	data, err := artifact.NewStore(cfg.Artifact.Path).LoadBytes()
	switch {
	case err == nil:
		set := fortune.NormalizeJSON(data, today)
		status = set.Status
		if set.Status != fortune.StatusError {
			if sign, ok := fortune.SignOfBirthdate(fortuneBirthdate); ok {
				entry = set.FindBySign(sign)
			}
		}
	case errors.Is(err, artifact.ErrArtifactNotFound):
	default:
		return err
	}

	view := fortune.Generate(fortuneBirthdate, today, entry)

	if fortuneJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	printFortune(view, entry, status)
	return nil
}

func printFortune(view fortune.FortuneView, entry *fortune.CanonicalRankingEntry, status string) {
	PrintDoubleSeparator()
	fmt.Printf("  %s  %s · %s띠\n", view.Date, view.WesternZodiac, view.ChineseZodiac)
	PrintSeparator()

	rank := "-"
	if entry != nil && entry.Rank != nil {
		rank = strconv.Itoa(*entry.Rank) + "위"
	}
	PrintKeyValue("Ranking", fmt.Sprintf("%s (%s)", rank, status), 8)
	PrintKeyValue("Summary", view.Summary, 8)
	fmt.Println()

	widths := []int{6, 5, 4, 36}
	PrintTableHeader([]string{"운", "점수", "흐름", "한마디"}, widths)
	for _, c := range view.Cards {
		PrintTableRow([]string{c.Name, strconv.Itoa(c.Score), c.ToneLabel, c.Headline}, widths)
	}
	fmt.Println()

	l := view.Lucky
	PrintKeyValue("Color", fmt.Sprintf("%s (%s)", l.ColorName, l.Color), 8)
	PrintKeyValue("Number", strconv.Itoa(l.Number), 8)
	PrintKeyValue("Item", l.Item, 8)
	PrintKeyValue("Keyword", l.Keyword, 8)
	PrintDoubleSeparator()
}

package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/ohaasa/backend/internal/fortune"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "랭킹 수집 → 아티팩트 발행 (1회)",
	Long: `오하아사 랭킹을 수집하고 AI 문구를 붙여 아티팩트를 씁니다.

실패해도 status "error" 아티팩트는 기록되며, 종료 코드는 0이 아닙니다.
DATABASE_URL이 있으면 정규화 결과를 날짜별 스냅샷으로 저장합니다.

Example:
  go run ./cmd/ohaasa fetch
  go run ./cmd/ohaasa fetch --timeout 10m`,
	RunE: runFetch,
}

var fetchTimeout time.Duration

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", 5*time.Minute, "전체 수집 제한 시간")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	start := time.Now()
	PrintJobHeader("Ranking Fetch", map[string]string{
		"Source":   a.cfg.Ohaasa.URL,
		"Artifact": a.cfg.Artifact.Path,
		"AI":       a.cfg.AI.Provider,
	})

	set, err := a.service.Refresh(ctx, start)
	if err != nil {
		PrintError(fmt.Sprintf("fetch failed: %v", err))
		return err
	}

	printRankingSet(set)
	PrintJobCompletion("fetch", time.Since(start))
	return nil
}

// printRankingSet renders a normalized set as a table
func printRankingSet(set fortune.RankingSet) {
	PrintKeyValue("Date", set.DateKST, 8)
	PrintKeyValue("Status", set.Status, 8)
	PrintKeyValue("Count", strconv.Itoa(len(set.Rankings)), 8)
	fmt.Println()

	widths := []int{4, 12, 6, 40}
	PrintTableHeader([]string{"Rank", "Sign", "Total", "Message"}, widths)
	for _, e := range set.Rankings {
		rank := "-"
		if e.Rank != nil {
			rank = strconv.Itoa(*e.Rank)
		}
		total := "-"
		if s := e.Scores.Get(fortune.CategoryTotal); s != nil {
			total = strconv.Itoa(*s)
		}
		msg := e.MessageKO
		if msg == "" {
			msg = e.MessageJP
		}
		PrintTableRow([]string{rank, e.SignKO, total, truncate(msg, 40)}, widths)
	}

	if len(set.Warnings) > 0 {
		PrintWarning(fmt.Sprintf("%d warning(s)", len(set.Warnings)))
		PrintList(set.Warnings)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

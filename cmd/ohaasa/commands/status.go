package commands

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/ohaasa/backend/internal/ranking"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "연결/아티팩트 상태 점검",
	Long: `설정과 외부 연결, 현재 아티팩트 상태를 점검합니다.

이 명령어는:
- config 로드 결과 표시
- PostgreSQL Health Check (DATABASE_URL 설정 시)
- Redis 연결 (REDIS_ENABLED=true 시)
- 오늘 아티팩트의 정규화 결과와 재수집 필요 여부

Example:
  go run ./cmd/ohaasa status
  go run ./cmd/ohaasa status --env production`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== ohaasa Status ===")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg
	fmt.Println()
	PrintKeyValue("Env", cfg.Env, 10)
	PrintKeyValue("Artifact", cfg.Artifact.Path, 10)
	PrintKeyValue("AI", cfg.AI.Provider, 10)
	PrintKeyValue("Redis", strconv.FormatBool(a.rdb.Enabled()), 10)

	if a.db != nil {
		PrintKeyValue("Database", redactURL(cfg.Database.URL), 10)
		health, err := a.db.HealthCheck(ctx)
		if err != nil {
			PrintError(fmt.Sprintf("database health check failed: %v", err))
		} else {
			PrintKeyValue("DB ping", health.ResponseTime.String(), 10)
			PrintKeyValue("DB pool", fmt.Sprintf("%d/%d (idle %d)", health.Stats.TotalConns, health.Stats.MaxConns, health.Stats.IdleConns), 10)
		}
	} else {
		PrintKeyValue("Database", "disabled", 10)
	}
	fmt.Println()

	now := time.Now()
	set, err := a.service.Current(ctx, now)
	switch {
	case errors.Is(err, ranking.ErrNotAvailable):
		PrintWarning("no artifact yet, run: ohaasa fetch")
		return nil
	case err != nil:
		return err
	}

	printRankingSet(set)
	if a.service.NeedsRefresh(ctx, now) {
		PrintWarning("today's ranking is missing or degraded")
	} else {
		PrintSuccess("today's ranking is ok")
	}
	return nil
}

// redactURL hides the password of a connection URL for display
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}
	return u.Redacted()
}

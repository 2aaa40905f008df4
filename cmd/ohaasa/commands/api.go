package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/ohaasa/backend/internal/api"
	"github.com/wonny/ohaasa/backend/internal/api/handlers"
	"github.com/wonny/ohaasa/backend/internal/scheduler"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 랭킹/운세 조회 엔드포인트 제공
- 수동 갱신 트리거 제공
- SCHEDULER_ENABLED=true면 스케줄러도 함께 실행

Endpoints:
  GET  /health                       - Health check
  GET  /api/rankings[?date=]         - 정규화된 랭킹
  GET  /api/fortune?birthdate=       - 오늘의 운세
  POST /api/rankings/refresh         - 수집/발행 트리거
  GET  /ws                           - 갱신 이벤트 (WebSocket)

Example:
  go run ./cmd/ohaasa api
  go run ./cmd/ohaasa api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본값: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== ohaasa API Server ===")

	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	// Override port if flag is set
	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	log := a.log
	log.WithFields(map[string]interface{}{
		"port": a.cfg.Port,
		"env":  a.cfg.Env,
	}).Info("Initializing API server")

	router := api.NewRouter(api.Handlers{
		Ranking: handlers.NewRankingHandler(a.service, log),
		Fortune: handlers.NewFortuneHandler(a.service, log),
		Stream:  a.hub,
	}, log)
	server := api.New(a.cfg, log, router)

	var sched *scheduler.Scheduler
	if a.cfg.Scheduler.Enabled {
		sched, err = a.newScheduler()
		if err != nil {
			return fmt.Errorf("init scheduler: %w", err)
		}
		sched.Start()
	}

	// Start server with graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	PrintList([]string{
		"GET  /health",
		"GET  /api/rankings",
		"GET  /api/fortune?birthdate=YYYY-MM-DD",
		"POST /api/rankings/refresh",
		"GET  /ws",
	})
	if sched != nil {
		fmt.Println("\nScheduled jobs:")
		PrintList(sched.GetAllJobs())
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal or a listen failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	log.Info("Shutting down server...")

	if sched != nil {
		sched.Stop()
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

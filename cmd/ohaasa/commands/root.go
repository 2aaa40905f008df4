package commands

import (
	"github.com/spf13/cobra"

	"github.com/wonny/ohaasa/backend/pkg/config"
)

var (
	// Global flags
	env     string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ohaasa",
	Short: "오하아사 별자리 랭킹 → 오늘의 운세",
	Long: `ohaasa Unified CLI

아사히 오하아사 12별자리 랭킹을 수집하고, 한국어 AI 문구를 붙여
public/fortune.json 아티팩트로 발행합니다. API 서버는 생년월일로
오늘의 운세를 생성합니다.

Usage:
  go run ./cmd/ohaasa [command]

Examples:
  go run ./cmd/ohaasa api
  go run ./cmd/ohaasa fetch
  go run ./cmd/ohaasa validate public/fortune.json
  go run ./cmd/ohaasa fortune --birthdate 1996-03-03
  go run ./cmd/ohaasa scheduler start`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment override (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug log level)")
}

// loadConfig loads config and applies global flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if env != "" {
		cfg.Env = env
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

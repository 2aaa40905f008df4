package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/ohaasa/backend/internal/fortune"
	"github.com/wonny/ohaasa/backend/pkg/jsonfile"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "아티팩트 엄격 검증",
	Long: `발행된 아티팩트를 엄격하게 검증합니다.

검사 항목:
- date_kst 형식 (YYYY-MM-DD)
- 정확히 12개 항목
- rank 정수 1..12, 정렬, 중복/누락 없음
- 다섯 카테고리 점수 정수 0..100

위반이 있으면 모두 출력하고 0이 아닌 코드로 종료합니다.

Example:
  go run ./cmd/ohaasa validate
  go run ./cmd/ohaasa validate public/fortune.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		path = cfg.Artifact.Path
	}

	data, err := jsonfile.ReadBytes(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	violations := fortune.ValidateJSON(data)
	if len(violations) == 0 {
		PrintSuccess(fmt.Sprintf("%s is valid", path))
		return nil
	}

	PrintError(fmt.Sprintf("%s: %d violation(s)", path, len(violations)))
	items := make([]string, 0, len(violations))
	for _, v := range violations {
		items = append(items, v.Error())
	}
	PrintList(items)
	return fmt.Errorf("validation failed: %d violation(s)", len(violations))
}

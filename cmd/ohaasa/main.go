package main

import (
	"os"

	"github.com/wonny/ohaasa/backend/cmd/ohaasa/commands"
)

// main is the entry point for the ohaasa CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/ohaasa [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/packagewjx/loadtest-analyzer/cmd"
	"github.com/packagewjx/loadtest-analyzer/internal/logger"
)

func main() {
	err := cmd.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

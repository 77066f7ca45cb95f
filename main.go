package main

import (
	"os"

	"github.com/gh-reports/app-installation-report/cmd"
)

func main() {
	// See cmd/root.go for Execute()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

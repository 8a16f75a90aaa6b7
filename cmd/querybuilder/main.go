package main

import (
	"os"

	"github.com/AntonStoeckl/convention-query-builder-go/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

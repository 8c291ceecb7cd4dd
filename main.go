package main

import (
	"os"

	"github.com/vidtrace/vidtrace/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

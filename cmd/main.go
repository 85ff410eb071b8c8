package main

import (
	"os"

	"invoicedash/internal/config"
)

const version = "1.0.0"

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		config.GetLogger().WithField("module", "cmd").Error(err)
		os.Exit(1)
	}
}

// Package main is the entry point for the faqrag CLI.
package main

import (
	"os"

	"github.com/growbot/faqrag/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

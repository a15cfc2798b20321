package main

import (
	"os"

	"github.com/rustyeddy/ledgerbank/cmd/ledgerbank/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

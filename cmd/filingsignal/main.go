package main

import (
	"os"

	"github.com/harborquant/filingsignal/cmd/filingsignal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"capbot/cmd/capbot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

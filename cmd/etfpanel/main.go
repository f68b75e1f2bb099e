package main

import (
	"os"

	"etfpanel/cmd/etfpanel/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

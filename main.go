package main

import (
	"os"

	"github.com/Nda25/anees/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

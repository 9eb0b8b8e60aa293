package main

import (
	"os"

	"github.com/carhythm/carhythm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

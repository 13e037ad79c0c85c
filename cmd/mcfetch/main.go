package main

import (
	"os"

	"github.com/bianoble/mcfetch/cmd/mcfetch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

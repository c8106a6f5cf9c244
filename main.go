package main

import (
	"os"

	"github.com/rlpro/rlpro/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

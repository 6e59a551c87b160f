package main

import (
	"os"

	"github.com/solatis/matchbox/cmd/matchbox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

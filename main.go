package main

import (
	"os"

	"github.com/rylalabs/ryla/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

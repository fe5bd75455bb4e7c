package main

import (
	"os"

	"aup/cmd/aup/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

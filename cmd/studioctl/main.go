package main

import (
	"os"

	"github.com/telkin/studio-bootstrap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/skills-sh/skills/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

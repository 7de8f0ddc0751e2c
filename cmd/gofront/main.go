package main

import (
	"os"

	"github.com/malphas-lang/gofront/cmd/gofront/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

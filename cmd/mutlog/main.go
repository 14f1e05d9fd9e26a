package main

import (
	"os"

	"github.com/mutlog/mutlog/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}

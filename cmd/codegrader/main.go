package main

import (
	"os"

	"codegrader/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}

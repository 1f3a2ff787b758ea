package main

import (
	"os"

	"tagdo/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

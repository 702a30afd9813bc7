package main

import (
	"os"

	"ctodo/internal/cli"
)

func main() {
	os.Exit(cli.Run(cli.DefaultEnv()))
}

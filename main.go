package main

import (
	"os"

	"esologs_check/cli"
)

func main() {
	os.Exit(cli.Execute())
}

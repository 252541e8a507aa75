package main

import (
	"os"

	"pivotline/app/cli"
)

func main() {
	os.Exit(cli.Execute())
}

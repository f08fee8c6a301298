package main

import (
	"fmt"
	"os"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

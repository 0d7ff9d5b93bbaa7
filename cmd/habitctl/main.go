package main

import (
	"fmt"
	"os"

	"superoutine/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.Warning("error: ")+err.Error())
		os.Exit(1)
	}
}

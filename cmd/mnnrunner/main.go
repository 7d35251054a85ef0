package main

import (
	"fmt"
	"os"
)

func main() {
	root := buildRootCmd(defaultOptions())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(exitCode(err))
	}
}

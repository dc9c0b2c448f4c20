package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/jrsteele09/go-storefront/cmd/storefront/cmd"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	return cmd.Execute()
}

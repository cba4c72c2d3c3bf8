// Package main is the entry point for the chino CLI.
package main

import "github.com/chino-io/chino-go/internal/cli"

func main() {
	cli.Execute()
}

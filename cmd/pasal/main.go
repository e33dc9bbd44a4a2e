// Package main is the entry point for the pasal CLI.
package main

import "github.com/meropasal/pasal-cli/internal/cli"

func main() {
	cli.Execute()
}

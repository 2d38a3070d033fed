// Package main is the calcctl command-line client.
package main

import "github.com/clinical-calculator-mcp-server/internal/cli"

func main() {
	cli.Execute()
}

// Package main is the entry point for the gridhub CLI.
package main

import "github.com/gridhub-labs/gridhub/internal/cli"

func main() {
	cli.Execute()
}

// Package main provides the entry point for the wikisync CLI.
package main

import "github.com/innovationsinfundraising/wikisync/cmd/wikisync/cmd"

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}

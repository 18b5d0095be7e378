// Package cli wires the pagecache binary's subcommands, grounded on the
// teacher's src/cli.RootCommand/Init pattern.
package cli

import (
	"context"

	"github.com/Blackdeer1524/pagecache/src/cli"
)

var rootCmd = cli.Init("pagecache", "Operate a disk-backed buffer pool (extendible hash table + LRU replacer) standalone")

// MustExecute runs the root command, registering every subcommand first.
func MustExecute(ctx context.Context) {
	initBench()
	initInspect()
	rootCmd.MustExecute(ctx)
}

package main

import (
	"context"

	"github.com/Blackdeer1524/pagecache/cmd/pagecache/cli"
)

func main() {
	cli.MustExecute(context.Background())
}

// Package main is the entry point for the curriculum catalog service and
// its command line tools.
package main

import (
	"github.com/alecthomas/kong"

	"curriculum/internal/command"
)

func main() {
	cli := new(command.CLI)
	ctx := kong.Parse(cli, command.Options()...)
	err := ctx.Run(command.NewApp(cli.Verbose))
	ctx.FatalIfErrorf(err)
}

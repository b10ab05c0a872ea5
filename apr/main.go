// Command apr compares purchases to benchmarks.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/appreciation/cmd"
	"github.com/google/subcommands"
)

func main() {
	cmd.Completion().Complete("apr")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	cmd.SetupLogging()
	os.Exit(int(commander.Execute(context.Background())))
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/appreciation/renderer"
	"github.com/google/subcommands"
)

type reportCmd struct {
	benchmark string
	raw       bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "appreciation of every purchase against the benchmarks" }
func (*reportCmd) Usage() string {
	return `apr report [-b <benchmark>] [-raw]

  Computes the appreciation of every purchase of the dataset against every
  configured benchmark, and the appreciation weighted by the amount invested.
  Purchases sold early are frozen at their sale proceeds and left out of the
  weighted appreciation.

Usage Examples:
# Compare the sample dataset to the default benchmarks.
$ apr report

# Only the B3 stock index, as plain markdown.
$ apr -data purchases.jsonl report -b B3 -raw

`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.benchmark, "b", "", "Only report on this benchmark.")
	f.BoolVar(&c.raw, "raw", false, "Print plain markdown instead of rendering it.")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments %q\n", f.Args())
		return subcommands.ExitUsageError
	}

	comparison, _, err := compare(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error comparing purchases: %v\n", err)
		return subcommands.ExitFailure
	}

	var md string
	if c.benchmark == "" {
		md = renderer.ComparisonMarkdown(comparison)
	} else {
		r, ok := comparison.Report(c.benchmark)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown benchmark %q\n", c.benchmark)
			return subcommands.ExitUsageError
		}
		md = renderer.TableMarkdown(r)
	}

	if c.raw {
		fmt.Print(md)
	} else {
		printMarkdown(md)
	}
	return subcommands.ExitSuccess
}

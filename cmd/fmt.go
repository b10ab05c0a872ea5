package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/appreciation"
	"github.com/google/subcommands"
)

type fmtCmd struct {
	outputFile string
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the dataset file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `apr fmt [-o <file.jsonl>]

  Validates and formats the dataset. This command reads all records,
  validates them, sorts them by kind, time and id, and writes them back in
  a canonical JSONL format. By default, the dataset is formatted in-place.

Usage Examples:
# Formats purchases.jsonl in-place.
$ apr -data purchases.jsonl fmt

# Writes the sample dataset to a file.
$ apr -data sample:jvm fmt -o jvm.jsonl

`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputFile, "o", "", "Output file. Defaults to the dataset file itself.")
}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ds, err := LoadDataset()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load dataset: %v\n", err)
		return subcommands.ExitFailure
	}

	output := c.outputFile
	if output == "" {
		output = DataPath()
		if strings.HasPrefix(output, appreciation.SamplePrefix) {
			fmt.Fprintf(os.Stderr, "Error: samples are read-only, use -o to write %q to a file\n", output)
			return subcommands.ExitUsageError
		}
		if info, err := os.Stat(output); err == nil && info.IsDir() {
			fmt.Fprintf(os.Stderr, "Error: %q is a CSV directory, use import to convert it\n", output)
			return subcommands.ExitUsageError
		}
	}

	if err := appreciation.SaveDataset(output, ds); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving formatted dataset %q: %v\n", output, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "✅ Successfully formatted dataset %q.\n", output)
	return subcommands.ExitSuccess
}

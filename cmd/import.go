package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/appreciation"
	"github.com/google/subcommands"
)

type importCmd struct {
	outputFile string
	name       string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "converts a directory of CSV files into a JSONL dataset" }
func (*importCmd) Usage() string {
	return `apr import [-o <file.jsonl>] [-name <name>] <dir>

  Reads purchases.csv, benchmarks.csv and the optional sales.csv of <dir>,
  validates the records, and writes them as a canonical JSONL dataset.
  Without -o, the dataset is written to the standard output.

  Run "apr topic dataset" for the expected columns.

`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputFile, "o", "", "Output JSONL file. Defaults to the standard output.")
	f.StringVar(&c.name, "name", "", "Dataset name. Defaults to the directory name.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: import expects exactly one directory\n")
		return subcommands.ExitUsageError
	}
	dir := f.Arg(0)

	ds, err := appreciation.LoadDataset(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", dir, err)
		return subcommands.ExitFailure
	}
	if c.name != "" {
		ds.Name = c.name
	}

	if c.outputFile == "" {
		if err := appreciation.EncodeDataset(os.Stdout, ds); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing dataset: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	if err := appreciation.SaveDataset(c.outputFile, ds); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing dataset %q: %v\n", c.outputFile, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Imported %d purchases, %d benchmark records and %d sales into %s\n",
		len(ds.Purchases), len(ds.Benchmarks), len(ds.Sales), c.outputFile)
	return subcommands.ExitSuccess
}

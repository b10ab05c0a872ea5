package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/appreciation"
	"github.com/etnz/appreciation/renderer"
	"github.com/google/subcommands"
)

type chartCmd struct {
	output string
	title  string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "bar chart of the appreciation of every purchase" }
func (*chartCmd) Usage() string {
	return `apr chart [-o <file.png>] [-title <title>]

  Draws the appreciation of every purchase against the chart "bars"
  benchmark, with dashed reference lines for:
    - the weighted appreciation of the bars benchmark,
    - the weighted appreciation of the chart "reference" benchmark,
    - the reference benchmark leveraged by each "leverage" factor.

  The chart is written as a PNG image to the configured output file.

`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output PNG file. Defaults to the configured chart output.")
	f.StringVar(&c.title, "title", "", "Chart title. Defaults to the bars benchmark name.")
}

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	comparison, cfg, err := compare(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error comparing purchases: %v\n", err)
		return subcommands.ExitFailure
	}

	png, err := drawChart(comparison, cfg.Chart, c.title)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error drawing chart: %v\n", err)
		return subcommands.ExitFailure
	}

	output := firstOf(c.output, cfg.Chart.Output)
	if err := os.WriteFile(output, png, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing chart %q: %v\n", output, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Chart written to %s\n", output)
	return subcommands.ExitSuccess
}

// drawChart renders the chart described by cc from the reports of c.
func drawChart(c *appreciation.Comparison, cc appreciation.ChartConfig, title string) ([]byte, error) {
	bars, ok := c.Report(cc.Bars)
	if !ok {
		return nil, fmt.Errorf("unknown bars benchmark %q", cc.Bars)
	}
	reference, ok := c.Report(cc.Reference)
	if !ok {
		return nil, fmt.Errorf("unknown reference benchmark %q", cc.Reference)
	}
	opts := renderer.ChartOptions{
		Title:  firstOf(title, fmt.Sprintf("%s appreciation of %s", bars.Name, c.Dataset)),
		Width:  cc.Width,
		Height: cc.Height,
	}
	refs := appreciation.ReferenceLines(bars, reference, cc.Leverage)
	return renderer.BarChart(renderer.Bars(bars), refs, opts)
}

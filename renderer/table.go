// Package renderer turns appreciation reports into markdown tables and charts.
package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/appreciation"
)

// ratio formats an appreciation ratio.
func ratio(v float64) string { return fmt.Sprintf("%.2f", v) }

// TableMarkdown renders the appreciation of every purchase of r, with the
// weighted appreciation shown once, on the last row.
//
// Sold purchases are flagged with a star.
func TableMarkdown(r *appreciation.Report) string {
	var b strings.Builder
	title := r.Name
	if title == "" {
		title = r.Series
	}
	fmt.Fprintf(&b, "## %s\n\n", title)

	if len(r.Rows) == 0 {
		fmt.Fprint(&b, "No purchase matches a benchmark value.\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| Date | Appreciation | Weighted Appreciation |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	sold := false
	for i, row := range r.Rows {
		value := ratio(row.Appreciation)
		if row.Closed {
			value += "*"
			sold = true
		}
		weighted := ""
		if i == len(r.Rows)-1 {
			weighted = ratio(r.Weighted)
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", row.Date, value, weighted)
	}
	if sold {
		fmt.Fprint(&b, "\n\\* sold, frozen at the sale proceeds and left out of the weighted appreciation.\n")
	}
	return b.String()
}

// SummaryMarkdown renders the weighted appreciation of every benchmark of c.
func SummaryMarkdown(c *appreciation.Comparison) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Appreciation of %s\n\n", c.Dataset)
	fmt.Fprintln(&b, "| Benchmark | Purchases | Open | Weighted Appreciation |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	for _, r := range c.Reports {
		fmt.Fprintf(&b, "| %s | %d | %d | %s |\n", r.Name, len(r.Rows), r.Open(), ratio(r.Weighted))
	}
	return b.String()
}

// ComparisonMarkdown renders the summary of c followed by the table of every benchmark.
func ComparisonMarkdown(c *appreciation.Comparison) string {
	var b strings.Builder
	b.WriteString(SummaryMarkdown(c))
	for _, r := range c.Reports {
		b.WriteString("\n")
		b.WriteString(TableMarkdown(r))
	}
	return b.String()
}

package appreciation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Comparison is the result of comparing a dataset to every configured benchmark.
type Comparison struct {
	Dataset string
	Reports []*Report // in configuration order
}

// Report returns the report of the benchmark called name.
func (c *Comparison) Report(name string) (*Report, bool) {
	for _, r := range c.Reports {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// Compare builds the portfolio of ds against every benchmark of cfg and
// computes its appreciation.
//
// Index benchmarks are read from the dataset benchmark records. Asset
// benchmarks use the purchases themselves as reference (see BuildHoldings).
func Compare(ctx context.Context, ds *Dataset, cfg *Config, quotes QuoteResolver) (*Comparison, error) {
	c := &Comparison{Dataset: ds.Name}
	for _, b := range cfg.Benchmarks {
		r, err := compareTo(ctx, ds, b, quotes)
		if err != nil {
			return nil, fmt.Errorf("benchmark %q: %w", b.Name, err)
		}
		c.Reports = append(c.Reports, r)
	}
	return c, nil
}

func compareTo(ctx context.Context, ds *Dataset, b BenchmarkConfig, quotes QuoteResolver) (*Report, error) {
	current, err := quotes.Quote(ctx, b)
	if err != nil {
		return nil, err
	}

	series, mode := b.series(), b.mode()
	var sales map[string]Sale
	if b.withSales() {
		sales = ds.Sales
	}

	var p *Portfolio
	if mode == AssetMode {
		p = BuildHoldings(ds.Purchases, series, sales)
	} else {
		p = BuildPortfolio(ds.Benchmarks, ds.Purchases, series, sales)
	}
	if dropped := len(ds.Purchases) - p.Len(); dropped > 0 {
		log.Debug().Str("benchmark", b.Name).Int("dropped", dropped).Msg("purchases without benchmark value")
	}
	r, err := Calculate(p, current, mode.Valuation())
	if err != nil {
		return nil, err
	}
	r.Name = b.Name
	log.Debug().Str("benchmark", b.Name).Str("mode", mode.String()).Float64("quote", current).Float64("weighted", r.Weighted).Msg("compared")
	return r, nil
}

// ReferenceLines returns the reference lines drawn over the bars of a chart:
// the weighted appreciation of bars, of reference, then reference leveraged
// by each factor.
//
// A leverage m turns an appreciation a into m·(a−1)+1: twice the gain, or twice the loss.
func ReferenceLines(bars, reference *Report, leverage []float64) []float64 {
	lines := []float64{bars.Weighted, reference.Weighted}
	for _, m := range leverage {
		lines = append(lines, m*(reference.Weighted-1)+1)
	}
	return lines
}

package appreciation

import (
	"errors"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the reference values of a comparison.
type Config struct {
	Benchmarks []BenchmarkConfig `toml:"benchmark"`
	Chart      ChartConfig       `toml:"chart"`
}

// BenchmarkConfig describes one benchmark to compare the purchases against.
type BenchmarkConfig struct {
	Name   string       `toml:"name"`
	Series string       `toml:"series"` // series in the benchmark records, defaults to Name
	Mode   string       `toml:"mode"`   // "index" (default) or "asset"
	Quote  float64      `toml:"quote"`  // current value of the series
	Sales  *bool        `toml:"sales"`  // apply sales, defaults to true in asset mode only
	Source *QuoteSource `toml:"source"` // where to fetch the quote when Quote is not set
}

// QuoteSource locates a current value in a JSON document served over HTTP.
type QuoteSource struct {
	URL  string `toml:"url"`
	Path string `toml:"path"` // JSONPath expression of the value
}

// ChartConfig describes the bar chart.
type ChartConfig struct {
	Bars      string    `toml:"bars"`      // benchmark whose appreciation per purchase is drawn as bars
	Reference string    `toml:"reference"` // benchmark whose weighted appreciation is a reference line
	Leverage  []float64 `toml:"leverage"`  // leveraged reference lines
	Output    string    `toml:"output"`
	Width     int       `toml:"width"`
	Height    int       `toml:"height"`
}

// DefaultConfig returns the configuration used when no file is given: the
// Bitcoin purchases compared to the B3 stock index and the CDI rate.
func DefaultConfig() *Config {
	return &Config{
		Benchmarks: []BenchmarkConfig{
			{Name: "B3", Mode: "index", Quote: 135298.98},
			{Name: "CDI", Mode: "index", Quote: 0.95},
			{Name: "Bitcoin", Mode: "asset", Quote: 669550.50},
		},
		Chart: defaultChart(),
	}
}

func defaultChart() ChartConfig {
	return ChartConfig{
		Bars:      "Bitcoin",
		Reference: "B3",
		Leverage:  []float64{1.5, 2},
		Output:    "appreciation.png",
		Width:     1000,
		Height:    500,
	}
}

// LoadConfig reads a TOML configuration file.
//
// Missing chart settings take their default value, and a file without any
// benchmark uses the default benchmarks.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config %q: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a TOML configuration.
func ParseConfig(data []byte) (*Config, error) {
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("could not decode config: %w", err)
	}
	if len(c.Benchmarks) == 0 {
		c.Benchmarks = DefaultConfig().Benchmarks
	}
	def := defaultChart()
	if c.Chart.Bars == "" {
		c.Chart.Bars = def.Bars
	}
	if c.Chart.Reference == "" {
		c.Chart.Reference = def.Reference
	}
	if c.Chart.Leverage == nil {
		c.Chart.Leverage = def.Leverage
	}
	if c.Chart.Output == "" {
		c.Chart.Output = def.Output
	}
	if c.Chart.Width == 0 {
		c.Chart.Width = def.Width
	}
	if c.Chart.Height == 0 {
		c.Chart.Height = def.Height
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Benchmark returns the benchmark called name.
func (c *Config) Benchmark(name string) (BenchmarkConfig, bool) {
	for _, b := range c.Benchmarks {
		if b.Name == name {
			return b, true
		}
	}
	return BenchmarkConfig{}, false
}

// Validate checks the configuration and returns an error with all validation failures.
func (c *Config) Validate() error {
	var errs []error
	seen := make(map[string]bool)
	for i, b := range c.Benchmarks {
		if b.Name == "" {
			errs = append(errs, fmt.Errorf("benchmark #%d: missing name", i+1))
			continue
		}
		if seen[b.Name] {
			errs = append(errs, fmt.Errorf("benchmark %q: declared twice", b.Name))
		}
		seen[b.Name] = true
		if _, err := ParseMode(b.Mode); err != nil {
			errs = append(errs, fmt.Errorf("benchmark %q: %w", b.Name, err))
		}
		if b.Quote < 0 {
			errs = append(errs, fmt.Errorf("benchmark %q: quote %v cannot be negative", b.Name, b.Quote))
		}
		if b.Quote == 0 && (b.Source == nil || b.Source.URL == "") {
			errs = append(errs, fmt.Errorf("benchmark %q: needs a quote or a source", b.Name))
		}
	}
	if c.Chart.Bars != "" && !seen[c.Chart.Bars] {
		errs = append(errs, fmt.Errorf("chart bars: unknown benchmark %q", c.Chart.Bars))
	}
	if c.Chart.Reference != "" && !seen[c.Chart.Reference] {
		errs = append(errs, fmt.Errorf("chart reference: unknown benchmark %q", c.Chart.Reference))
	}
	return errors.Join(errs...)
}

// series returns the name of the series in the benchmark records.
func (b BenchmarkConfig) series() string {
	if b.Series != "" {
		return b.Series
	}
	return b.Name
}

// mode returns the parsed mode, Validate has checked it.
func (b BenchmarkConfig) mode() Mode {
	m, _ := ParseMode(b.Mode)
	return m
}

// withSales reports whether sales are applied to this benchmark.
func (b BenchmarkConfig) withSales() bool {
	if b.Sales != nil {
		return *b.Sales
	}
	return b.mode() == AssetMode
}

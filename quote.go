package appreciation

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// QuoteResolver returns the current value of a benchmark.
type QuoteResolver interface {
	Quote(ctx context.Context, b BenchmarkConfig) (float64, error)
}

// Quoter resolves quotes from the configuration, or from the benchmark source.
type Quoter struct {
	Client *http.Client
}

// NewQuoter returns a Quoter fetching through client.
func NewQuoter(client *http.Client) *Quoter {
	return &Quoter{Client: client}
}

// Quote returns the configured quote of b if set, or fetches it from b's source.
func (q *Quoter) Quote(ctx context.Context, b BenchmarkConfig) (float64, error) {
	if b.Quote > 0 {
		return b.Quote, nil
	}
	if b.Source == nil || b.Source.URL == "" {
		return 0, fmt.Errorf("benchmark %q has neither a quote nor a source", b.Name)
	}
	client := q.Client
	if client == nil {
		client = http.DefaultClient
	}
	return fetchQuote(ctx, client, *b.Source)
}

// fetchQuote reads the value at src.Path in the JSON document served at src.URL.
func fetchQuote(ctx context.Context, client *http.Client, src QuoteSource) (float64, error) {
	var jobj any
	if err := jwget(ctx, client, src.URL, &jobj); err != nil {
		return 0, fmt.Errorf("error retrieving quote: %w", err)
	}
	path := src.Path
	if path == "" {
		path = "$"
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("error reading %q in %s: %w", path, src.URL, err)
	}
	// jsonpath returns either a list of answers or a single one, keep the first.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}

	var val float64
	switch v := jval.(type) {
	case float64:
		val = v
	case string:
		// some APIs return decimals as strings, sometimes with a decimal comma.
		s := strings.ReplaceAll(strings.ReplaceAll(v, ",", "."), " ", "")
		if val, err = strconv.ParseFloat(s, 64); err != nil {
			return 0, fmt.Errorf("value at %q is an invalid string %q: %w", path, v, err)
		}
	default:
		return 0, fmt.Errorf("value at %q is not a number: %v", path, jval)
	}
	if !(val > 0) {
		return 0, fmt.Errorf("value at %q must be positive, got %v: %w", path, val, ErrInvalidInput)
	}
	return val, nil
}

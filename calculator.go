package appreciation

import (
	"errors"
	"fmt"
	"math"

	"github.com/etnz/appreciation/date"
	"gonum.org/v1/gonum/stat"
)

// ErrInvalidInput is returned when a calculation receives values it cannot
// divide by: non-positive amounts or quotes.
var ErrInvalidInput = errors.New("invalid input")

// Valuation returns the appreciation of an open position, given the amount
// invested, the benchmark value at purchase, and the current benchmark value.
type Valuation func(amount Money, reference, current float64) float64

// IndexValuation values a position as if the amount had followed an index:
// reference holds the index points at purchase.
func IndexValuation(_ Money, reference, current float64) float64 {
	return current / reference
}

// AssetValuation values a position in the asset actually bought: reference
// holds the quantity acquired, current is the unit price today.
func AssetValuation(amount Money, reference, current float64) float64 {
	return current * reference / amount.AsFloat()
}

// Mode selects the valuation of open positions.
type Mode int

const (
	// IndexMode compares the current index to the index at purchase.
	IndexMode Mode = iota
	// AssetMode compares the current value of the quantity bought to the amount invested.
	AssetMode
)

func (m Mode) String() string {
	switch m {
	case IndexMode:
		return "index"
	case AssetMode:
		return "asset"
	default:
		return "unknown"
	}
}

// Valuation returns the valuation function of the mode.
func (m Mode) Valuation() Valuation {
	if m == AssetMode {
		return AssetValuation
	}
	return IndexValuation
}

// ParseMode parses a string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "index", "":
		return IndexMode, nil
	case "asset":
		return AssetMode, nil
	default:
		return 0, fmt.Errorf("unknown mode: %q", s)
	}
}

// Row is the appreciation of a single portfolio entry.
type Row struct {
	ID           string
	Date         date.Date
	Appreciation float64 // ratio of the value today (or at sale) to the value at purchase
	Closed       bool
}

// Report holds the appreciation of every entry of a portfolio, in portfolio
// order, and the weighted appreciation of the open ones.
type Report struct {
	Name     string // display name, set by the caller
	Series   string
	Rows     []Row
	Weighted float64
}

// ByDate returns the appreciation keyed by purchase day.
//
// Like Portfolio.ByDate, a later purchase on the same day overwrites the earlier one.
func (r *Report) ByDate() map[string]float64 {
	m := make(map[string]float64, len(r.Rows))
	for _, row := range r.Rows {
		m[row.Date.String()] = row.Appreciation
	}
	return m
}

// Open returns the number of open rows.
func (r *Report) Open() int {
	n := 0
	for _, row := range r.Rows {
		if !row.Closed {
			n++
		}
	}
	return n
}

// Calculate computes the appreciation of every entry of p against the current
// benchmark value.
//
// Closed entries are frozen at their proceeds over the amount invested, and
// are left out of the weighted appreciation. Open entries are valued with v
// and weighted by the amount invested. When no entry is open, the weighted
// appreciation is 0.
func Calculate(p *Portfolio, current float64, v Valuation) (*Report, error) {
	if !(current > 0) || math.IsInf(current, 1) {
		return nil, fmt.Errorf("current value %v of %q must be positive: %w", current, p.Series(), ErrInvalidInput)
	}

	r := &Report{Series: p.Series(), Rows: make([]Row, 0, p.Len())}
	var values, weights []float64
	for e := range p.Entries() {
		if !e.Amount.IsPositive() {
			return nil, fmt.Errorf("purchase %q: amount %v must be positive: %w", e.ID, e.Amount, ErrInvalidInput)
		}
		row := Row{ID: e.ID, Date: e.Date, Closed: e.Closed()}
		if e.Closed() {
			row.Appreciation = e.Sale.Proceeds.Ratio(e.Amount)
		} else {
			row.Appreciation = v(e.Amount, e.Reference, current)
			if math.IsNaN(row.Appreciation) || math.IsInf(row.Appreciation, 0) {
				return nil, fmt.Errorf("purchase %q: cannot value against %v: %w", e.ID, e.Reference, ErrInvalidInput)
			}
			values = append(values, row.Appreciation)
			weights = append(weights, e.Amount.AsFloat())
		}
		r.Rows = append(r.Rows, row)
	}

	if len(values) > 0 {
		r.Weighted = stat.Mean(values, weights)
	}
	return r, nil
}

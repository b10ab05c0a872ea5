package appreciation

import (
	"iter"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/etnz/appreciation/date"
	"github.com/rs/zerolog/log"
)

// Exit is the outcome of a sold purchase.
type Exit struct {
	Date     date.Date // day of the sale
	Proceeds Money
}

// Entry is a purchase joined to the benchmark value observed at the same instant.
type Entry struct {
	ID        string    // purchase ID
	Time      time.Time // purchase instant
	Date      date.Date // purchase day, used as display label
	Amount    Money     // amount invested
	Reference float64   // benchmark value at purchase
	Sale      *Exit     // nil while the position is open
}

// Closed reports whether the entry has been sold.
func (e Entry) Closed() bool { return e.Sale != nil }

// Portfolio is the list of purchases that could be joined to a benchmark series.
//
// Entries are keyed by purchase ID and kept in chronological order, ties
// being broken by purchase ID.
type Portfolio struct {
	series  string
	entries []Entry
}

// Series returns the benchmark series the portfolio was built against.
func (p *Portfolio) Series() string { return p.series }

// Len returns the number of entries.
func (p *Portfolio) Len() int { return len(p.entries) }

// Entries iterates over entries in chronological order.
func (p *Portfolio) Entries() iter.Seq[Entry] { return slices.Values(p.entries) }

// Entry returns the entry of a purchase.
func (p *Portfolio) Entry(id string) (Entry, bool) {
	i := slices.IndexFunc(p.entries, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		return Entry{}, false
	}
	return p.entries[i], true
}

// ByDate returns entries keyed by purchase day.
//
// Two purchases on the same day share the same key: the later one overwrites
// the earlier. Use it only to read portfolios with at most one purchase per
// day.
func (p *Portfolio) ByDate() map[string]Entry {
	m := make(map[string]Entry, len(p.entries))
	for _, e := range p.entries {
		m[e.Date.String()] = e
	}
	return m
}

// BuildPortfolio joins purchases to the value of series in benchmarks.
//
// The join is an exact match on the instant: a purchase without a benchmark
// record at the very same instant is left out. When several benchmark records
// share an instant, the one with the greatest ID wins. Records that do not
// carry series are ignored.
//
// sales is optional, a purchase with a sale is closed at the sale proceeds.
func BuildPortfolio(benchmarks map[string]Benchmark, purchases map[string]Purchase, series string, sales map[string]Sale) *Portfolio {
	values := make(map[time.Time]float64, len(benchmarks))
	for _, id := range slices.Sorted(maps.Keys(benchmarks)) {
		b := benchmarks[id]
		v, ok := b.Value(series)
		if !ok {
			continue
		}
		values[b.Time.UTC()] = v
	}
	return join(purchases, series, sales, func(p Purchase) (float64, bool) {
		v, ok := values[p.Time.UTC()]
		return v, ok
	})
}

// BuildHoldings joins every purchase to the quantity it acquired: the asset
// bought is its own reference, to be valued at its current unit price with
// AssetValuation.
//
// Every purchase is kept, whatever the other purchases made at the same instant.
func BuildHoldings(purchases map[string]Purchase, series string, sales map[string]Sale) *Portfolio {
	return join(purchases, series, sales, func(p Purchase) (float64, bool) {
		return p.Quantity.AsFloat(), true
	})
}

// join builds the portfolio of the purchases that reference finds a value for.
func join(purchases map[string]Purchase, series string, sales map[string]Sale, reference func(Purchase) (float64, bool)) *Portfolio {
	p := &Portfolio{series: series}
	for id, purchase := range purchases {
		ref, ok := reference(purchase)
		if !ok {
			log.Debug().Str("purchase", id).Str("series", series).Time("time", purchase.Time).Msg("no benchmark value at purchase time, purchase skipped")
			continue
		}
		e := Entry{
			ID:        id,
			Time:      purchase.Time,
			Date:      date.Of(purchase.Time),
			Amount:    purchase.Amount,
			Reference: ref,
		}
		if s, ok := sales[id]; ok {
			e.Sale = &Exit{Date: date.Of(s.Time), Proceeds: s.Proceeds}
		}
		p.entries = append(p.entries, e)
	}
	slices.SortFunc(p.entries, func(a, b Entry) int {
		if c := a.Time.Compare(b.Time); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return p
}

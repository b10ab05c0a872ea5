package appreciation

import (
	"bufio"
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Kind identifies the type of record on a dataset line.
type Kind string

const (
	KindDataset   Kind = "dataset"
	KindBenchmark Kind = "benchmark"
	KindPurchase  Kind = "purchase"
	KindSale      Kind = "sale"
)

// legacyTimeFormat is the format of the original spreadsheets, read as UTC.
const legacyTimeFormat = "2006-01-02 15:04:05"

// ParseTime parses an instant in RFC3339, or in "2006-01-02 15:04:05" (UTC).
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(legacyTimeFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q want RFC3339 or %q", s, legacyTimeFormat)
	}
	return t, nil
}

// timestamp reads and writes instants in dataset lines.
type timestamp time.Time

func (t *timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	on, err := ParseTime(s)
	if err != nil {
		return err
	}
	*t = timestamp(on)
	return nil
}

func (t timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(time.RFC3339Nano))
}

type datasetLine struct {
	Kind     Kind   `json:"kind"`
	Name     string `json:"name,omitempty"`
	Currency string `json:"currency,omitempty"`
}

type benchmarkLine struct {
	Kind   Kind               `json:"kind"`
	ID     string             `json:"id"`
	Time   timestamp          `json:"time"`
	Values map[string]float64 `json:"values"`
}

type purchaseLine struct {
	Kind     Kind             `json:"kind"`
	ID       string           `json:"id"`
	Time     timestamp        `json:"time"`
	Amount   decimal.Decimal  `json:"amount"`
	Quantity decimal.Decimal  `json:"quantity"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

type saleLine struct {
	Kind     Kind            `json:"kind"`
	Purchase string          `json:"purchase"`
	Time     timestamp       `json:"time"`
	Proceeds decimal.Decimal `json:"proceeds"`
}

// DecodeDataset decodes a dataset from a stream of JSONL data.
//
// Every line is a record identified by its "kind". Amounts are expressed in
// the currency declared by the "dataset" line, if any.
func DecodeDataset(r io.Reader) (*Dataset, error) {
	ds := NewDataset("", "")
	// currency is applied once every line is read, the header may come last.
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		lineBytes := scanner.Bytes()
		if len(strings.TrimSpace(string(lineBytes))) == 0 {
			continue
		}

		var identifier struct {
			Kind Kind `json:"kind"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("line %d: could not identify record in %q: %w", lineNo, string(lineBytes), err)
		}

		var err error
		switch identifier.Kind {
		case KindDataset:
			var l datasetLine
			if err = json.Unmarshal(lineBytes, &l); err == nil {
				ds.Name, ds.Currency = l.Name, l.Currency
			}
		case KindBenchmark:
			var l benchmarkLine
			if err = json.Unmarshal(lineBytes, &l); err == nil {
				err = ds.AddBenchmark(Benchmark{ID: l.ID, Time: time.Time(l.Time), Values: l.Values})
			}
		case KindPurchase:
			var l purchaseLine
			if err = json.Unmarshal(lineBytes, &l); err == nil {
				p := Purchase{ID: l.ID, Time: time.Time(l.Time), Amount: M(l.Amount, ""), Quantity: Q(l.Quantity)}
				if l.Price != nil {
					p.Price = M(*l.Price, "")
				}
				err = ds.AddPurchase(p)
			}
		case KindSale:
			var l saleLine
			if err = json.Unmarshal(lineBytes, &l); err == nil {
				err = ds.AddSale(Sale{Purchase: l.Purchase, Time: time.Time(l.Time), Proceeds: M(l.Proceeds, "")})
			}
		default:
			err = fmt.Errorf("unknown record kind %q", identifier.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	ds.applyCurrency()
	ds.deriveQuantities()
	return ds, nil
}

// applyCurrency sets the dataset currency on every amount that has none.
func (d *Dataset) applyCurrency() {
	if d.Currency == "" {
		return
	}
	for id, p := range d.Purchases {
		if p.Amount.Currency() == "" {
			p.Amount = p.Amount.WithCurrency(d.Currency)
		}
		if p.Price.Currency() == "" && !p.Price.IsZero() {
			p.Price = p.Price.WithCurrency(d.Currency)
		}
		d.Purchases[id] = p
	}
	for id, s := range d.Sales {
		if s.Proceeds.Currency() == "" {
			s.Proceeds = s.Proceeds.WithCurrency(d.Currency)
		}
		d.Sales[id] = s
	}
}

// EncodeDataset writes the dataset in its canonical JSONL form: the dataset
// line, then benchmarks, purchases and sales, each in chronological order.
func EncodeDataset(w io.Writer, d *Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if d.Name != "" || d.Currency != "" {
		if err := enc.Encode(datasetLine{Kind: KindDataset, Name: d.Name, Currency: d.Currency}); err != nil {
			return err
		}
	}

	benchmarks := slices.SortedFunc(maps.Values(d.Benchmarks), func(a, b Benchmark) int {
		return cmp.Or(a.Time.Compare(b.Time), strings.Compare(a.ID, b.ID))
	})
	for _, b := range benchmarks {
		if err := enc.Encode(benchmarkLine{Kind: KindBenchmark, ID: b.ID, Time: timestamp(b.Time), Values: b.Values}); err != nil {
			return fmt.Errorf("encoding benchmark %q: %w", b.ID, err)
		}
	}

	purchases := slices.SortedFunc(maps.Values(d.Purchases), func(a, b Purchase) int {
		return cmp.Or(a.Time.Compare(b.Time), strings.Compare(a.ID, b.ID))
	})
	for _, p := range purchases {
		l := purchaseLine{Kind: KindPurchase, ID: p.ID, Time: timestamp(p.Time), Amount: p.Amount.Decimal(), Quantity: p.Quantity.Decimal()}
		if !p.Price.IsZero() {
			price := p.Price.Decimal()
			l.Price = &price
		}
		if err := enc.Encode(l); err != nil {
			return fmt.Errorf("encoding purchase %q: %w", p.ID, err)
		}
	}

	sales := slices.SortedFunc(maps.Values(d.Sales), func(a, b Sale) int {
		return cmp.Or(a.Time.Compare(b.Time), strings.Compare(a.Purchase, b.Purchase))
	})
	for _, s := range sales {
		if err := enc.Encode(saleLine{Kind: KindSale, Purchase: s.Purchase, Time: timestamp(s.Time), Proceeds: s.Proceeds.Decimal()}); err != nil {
			return fmt.Errorf("encoding sale of %q: %w", s.Purchase, err)
		}
	}
	return nil
}

package appreciation

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Dataset gathers the input collections of a comparison: the benchmark
// records, the purchases and the optional sales.
type Dataset struct {
	Name       string
	Currency   string               // currency of amounts and proceeds
	Benchmarks map[string]Benchmark // by reference ID
	Purchases  map[string]Purchase  // by purchase ID
	Sales      map[string]Sale      // by purchase ID
}

// NewDataset creates an empty dataset.
func NewDataset(name, currency string) *Dataset {
	return &Dataset{
		Name:       name,
		Currency:   currency,
		Benchmarks: make(map[string]Benchmark),
		Purchases:  make(map[string]Purchase),
		Sales:      make(map[string]Sale),
	}
}

// AddBenchmark adds a benchmark record, it fails if the ID is already used.
func (d *Dataset) AddBenchmark(b Benchmark) error {
	if _, exists := d.Benchmarks[b.ID]; exists {
		return fmt.Errorf("duplicate benchmark %q", b.ID)
	}
	d.Benchmarks[b.ID] = b
	return nil
}

// AddPurchase adds a purchase, it fails if the ID is already used.
func (d *Dataset) AddPurchase(p Purchase) error {
	if _, exists := d.Purchases[p.ID]; exists {
		return fmt.Errorf("duplicate purchase %q", p.ID)
	}
	d.Purchases[p.ID] = p
	return nil
}

// AddSale adds a sale, it fails if the purchase has already been sold.
func (d *Dataset) AddSale(s Sale) error {
	if _, exists := d.Sales[s.Purchase]; exists {
		return fmt.Errorf("purchase %q sold twice", s.Purchase)
	}
	d.Sales[s.Purchase] = s
	return nil
}

// Series returns the sorted names of all the series found in benchmark records.
func (d *Dataset) Series() []string {
	set := make(map[string]struct{})
	for _, b := range d.Benchmarks {
		for name := range b.Values {
			set[name] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// PriceTolerance is the relative gap allowed between the amount of a purchase
// and its price times its quantity, for fees and rounding.
const PriceTolerance = 0.01

// checkPrice checks that the amount of p is its price times its quantity, when both are known.
func checkPrice(p Purchase) error {
	if !p.Price.IsPositive() || !p.Quantity.IsPositive() {
		return nil
	}
	if p.Price.Currency() != "" && p.Amount.Currency() != "" && p.Price.Currency() != p.Amount.Currency() {
		return fmt.Errorf("price currency %q differs from amount currency %q", p.Price.Currency(), p.Amount.Currency())
	}
	cost := p.Price.Mul(p.Quantity)
	gap := p.Amount.Sub(cost)
	if gap.IsNegative() {
		gap = cost.Sub(p.Amount)
	}
	if p.Amount.Mul(Q(PriceTolerance)).LessThan(gap) {
		return fmt.Errorf("price %v times quantity %v is %v, too far from amount %v", p.Price.Decimal(), p.Quantity, cost.Decimal(), p.Amount.Decimal())
	}
	return nil
}

// deriveQuantities sets the quantity of purchases that only have a price:
// the amount invested divided by the unit price.
func (d *Dataset) deriveQuantities() {
	for id, p := range d.Purchases {
		if p.Quantity.IsZero() && p.Price.IsPositive() {
			p.Quantity = p.Amount.DivPrice(p.Price)
			d.Purchases[id] = p
		}
	}
}

// Validate checks the dataset for inconsistencies and returns an error with all validation failures.
func (d *Dataset) Validate() error {
	var errs []error
	for _, id := range slices.Sorted(maps.Keys(d.Purchases)) {
		p := d.Purchases[id]
		if p.Time.IsZero() {
			errs = append(errs, fmt.Errorf("purchase %q: missing time", id))
		}
		if !p.Amount.IsPositive() {
			errs = append(errs, fmt.Errorf("purchase %q: amount %v must be positive: %w", id, p.Amount, ErrInvalidInput))
		}
		if p.Quantity.IsNegative() {
			errs = append(errs, fmt.Errorf("purchase %q: quantity %v cannot be negative", id, p.Quantity))
		}
		if p.Amount.Currency() != "" && d.Currency != "" && p.Amount.Currency() != d.Currency {
			errs = append(errs, fmt.Errorf("purchase %q: currency %q differs from dataset currency %q", id, p.Amount.Currency(), d.Currency))
		}
		if err := checkPrice(p); err != nil {
			errs = append(errs, fmt.Errorf("purchase %q: %w", id, err))
		}
	}
	for _, id := range slices.Sorted(maps.Keys(d.Benchmarks)) {
		b := d.Benchmarks[id]
		if b.Time.IsZero() {
			errs = append(errs, fmt.Errorf("benchmark %q: missing time", id))
		}
		if len(b.Values) == 0 {
			errs = append(errs, fmt.Errorf("benchmark %q: no series value", id))
		}
	}
	for _, id := range slices.Sorted(maps.Keys(d.Sales)) {
		s := d.Sales[id]
		p, ok := d.Purchases[id]
		if !ok {
			errs = append(errs, fmt.Errorf("sale of unknown purchase %q", id))
			continue
		}
		if s.Time.Before(p.Time) {
			errs = append(errs, fmt.Errorf("sale of purchase %q happens before the purchase", id))
		}
		if s.Proceeds.IsNegative() {
			errs = append(errs, fmt.Errorf("sale of purchase %q: proceeds %v cannot be negative", id, s.Proceeds))
		}
	}
	return errors.Join(errs...)
}

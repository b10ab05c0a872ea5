package appreciation

import "time"

// Purchase records an amount of money invested at a given instant.
type Purchase struct {
	ID       string    // unique purchase ID
	Time     time.Time // instant of the purchase
	Amount   Money     // amount invested
	Quantity Quantity  // asset quantity, or index points, acquired
	Price    Money     // unit price, zero when unknown
}

// Benchmark records the values of one or more reference series at a given instant.
type Benchmark struct {
	ID     string
	Time   time.Time
	Values map[string]float64 // series name -> value (index points, rate factor, price)
}

// Value returns the value of series in b, and whether b carries it.
func (b Benchmark) Value(series string) (float64, bool) {
	v, ok := b.Values[series]
	return v, ok
}

// Sale records the early exit of a purchase.
//
// There is at most one sale per purchase, sales are keyed by purchase ID.
type Sale struct {
	Purchase string    // ID of the purchase sold
	Time     time.Time // instant of the sale
	Proceeds Money     // amount received
}

package appreciation

import (
	"math"
	"time"
)

// BRL is a helper for test to create reais from const
func BRL(v float64) Money { return M(v, "BRL") }

// at returns an instant of 2025 at 18:52:03 UTC.
func at(month time.Month, day int) time.Time {
	return time.Date(2025, month, day, 18, 52, 3, 0, time.UTC)
}

// approx reports whether a and b are equal up to float rounding.
func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func buy(id string, on time.Time, amount float64) Purchase {
	return Purchase{ID: id, Time: on, Amount: BRL(amount)}
}

func ref(id string, on time.Time, series string, v float64) Benchmark {
	return Benchmark{ID: id, Time: on, Values: map[string]float64{series: v}}
}

func purchases(ps ...Purchase) map[string]Purchase {
	m := make(map[string]Purchase, len(ps))
	for _, p := range ps {
		m[p.ID] = p
	}
	return m
}

func benchmarks(bs ...Benchmark) map[string]Benchmark {
	m := make(map[string]Benchmark, len(bs))
	for _, b := range bs {
		m[b.ID] = b
	}
	return m
}

package appreciation

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// Files read by ImportCSV in a dataset directory.
const (
	PurchasesCSV  = "purchases.csv"
	BenchmarksCSV = "benchmarks.csv"
	SalesCSV      = "sales.csv"
)

type purchaseRow struct {
	ID       string `csv:"id"`
	Time     string `csv:"time"`
	Amount   string `csv:"amount"`
	Quantity string `csv:"quantity"`
	Price    string `csv:"price"`
}

type saleRow struct {
	Purchase string `csv:"purchase"`
	Time     string `csv:"time"`
	Proceeds string `csv:"proceeds"`
}

// ImportCSV reads a dataset from a directory of CSV files.
//
//   - purchases.csv: id, time, amount, quantity and price, either quantity or
//     price may be left empty, a missing quantity is derived from the price;
//   - benchmarks.csv: id, time, then one column per series;
//   - sales.csv (optional): purchase, time, proceeds.
//
// An optional currency is read from a "currency" file in the directory.
func ImportCSV(dir string) (*Dataset, error) {
	ds := NewDataset(filepath.Base(dir), "")
	if cur, err := os.ReadFile(filepath.Join(dir, "currency")); err == nil {
		ds.Currency = strings.TrimSpace(string(cur))
	}

	if err := importPurchases(ds, filepath.Join(dir, PurchasesCSV)); err != nil {
		return nil, err
	}
	if err := importBenchmarks(ds, filepath.Join(dir, BenchmarksCSV)); err != nil {
		return nil, err
	}
	err := importSales(ds, filepath.Join(dir, SalesCSV))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	ds.applyCurrency()
	ds.deriveQuantities()
	return ds, nil
}

func importPurchases(ds *Dataset, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open purchases: %w", err)
	}
	defer f.Close()

	var rows []purchaseRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return fmt.Errorf("could not read %q: %w", path, err)
	}
	for i, row := range rows {
		p, err := row.purchase()
		if err != nil {
			return fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		if err := ds.AddPurchase(p); err != nil {
			return fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
	}
	return nil
}

func (r purchaseRow) purchase() (Purchase, error) {
	on, err := ParseTime(r.Time)
	if err != nil {
		return Purchase{}, err
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return Purchase{}, fmt.Errorf("invalid amount %q: %w", r.Amount, err)
	}
	p := Purchase{ID: r.ID, Time: on, Amount: M(amount, "")}
	if r.Quantity != "" {
		quantity, err := decimal.NewFromString(r.Quantity)
		if err != nil {
			return Purchase{}, fmt.Errorf("invalid quantity %q: %w", r.Quantity, err)
		}
		p.Quantity = Q(quantity)
	}
	if r.Price != "" {
		price, err := decimal.NewFromString(r.Price)
		if err != nil {
			return Purchase{}, fmt.Errorf("invalid price %q: %w", r.Price, err)
		}
		p.Price = M(price, "")
	}
	return p, nil
}

func importBenchmarks(ds *Dataset, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open benchmarks: %w", err)
	}
	defer f.Close()

	// series columns are not known in advance.
	rows, err := gocsv.CSVToMaps(f)
	if err != nil {
		return fmt.Errorf("could not read %q: %w", path, err)
	}
	for i, row := range rows {
		b := Benchmark{ID: row["id"], Values: make(map[string]float64)}
		if b.Time, err = ParseTime(row["time"]); err != nil {
			return fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		for col, cell := range row {
			if col == "id" || col == "time" || strings.TrimSpace(cell) == "" {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return fmt.Errorf("%s row %d: invalid %s value %q: %w", path, i+2, col, cell, err)
			}
			b.Values[col] = v
		}
		if err := ds.AddBenchmark(b); err != nil {
			return fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
	}
	return nil
}

func importSales(ds *Dataset, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var rows []saleRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return fmt.Errorf("could not read %q: %w", path, err)
	}
	for i, row := range rows {
		on, err := ParseTime(row.Time)
		if err != nil {
			return fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		proceeds, err := decimal.NewFromString(row.Proceeds)
		if err != nil {
			return fmt.Errorf("%s row %d: invalid proceeds %q: %w", path, i+2, row.Proceeds, err)
		}
		if err := ds.AddSale(Sale{Purchase: row.Purchase, Time: on, Proceeds: M(proceeds, "")}); err != nil {
			return fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
	}
	return nil
}

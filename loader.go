package appreciation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/appreciation/sample"
)

// SamplePrefix selects an embedded sample dataset, as in "sample:jvm".
const SamplePrefix = "sample:"

// LoadDataset opens, decodes and validates the dataset at path.
//
// path is either a JSONL file, a directory of CSV files (see ImportCSV), or
// the name of an embedded sample prefixed with "sample:".
func LoadDataset(path string) (*Dataset, error) {
	ds, err := loadDataset(path)
	if err != nil {
		return nil, err
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset %q: %w", path, err)
	}
	return ds, nil
}

func loadDataset(path string) (*Dataset, error) {
	if name, ok := strings.CutPrefix(path, SamplePrefix); ok {
		r, err := sample.Open(name)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		ds, err := DecodeDataset(r)
		if err != nil {
			return nil, fmt.Errorf("could not decode sample %q: %w", name, err)
		}
		if ds.Name == "" {
			ds.Name = name
		}
		return ds, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("could not open dataset %q: %w", path, err)
	}
	if info.IsDir() {
		return ImportCSV(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open dataset file %q: %w", path, err)
	}
	defer f.Close()

	ds, err := DecodeDataset(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode dataset file %q: %w", path, err)
	}
	if ds.Name == "" {
		ds.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return ds, nil
}

// SaveDataset writes the dataset in its canonical JSONL form to the file at path.
func SaveDataset(path string, ds *Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create directory for dataset %q: %w", path, err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error opening dataset file %q for writing: %w", path, err)
	}
	if err := EncodeDataset(file, ds); err != nil {
		file.Close()
		return fmt.Errorf("error writing dataset file %q: %w", path, err)
	}
	return file.Close()
}

// Package sample embeds the sample datasets shipped with apr.
package sample

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.jsonl
var datasets embed.FS

// Open returns the JSONL content of the sample dataset called name.
func Open(name string) (io.ReadCloser, error) {
	f, err := datasets.Open(name + ".jsonl")
	if err != nil {
		return nil, fmt.Errorf("sample %q not found: %w", name, err)
	}
	return f, nil
}

// Names returns the names of all the sample datasets.
func Names() []string {
	entries, err := fs.ReadDir(datasets, ".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".jsonl"))
	}
	sort.Strings(names)
	return names
}

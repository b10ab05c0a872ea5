package renderer

import (
	"bytes"
	"embed"
	"encoding/json"
	"flag"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/appreciation"
	"github.com/etnz/appreciation/date"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

//go:embed testdata/*.md
var goldenFS embed.FS

var fixGolden = flag.Bool("fix-golden", false, "if true, update failing golden .md files with the received output")

func TestFixGoldenIsOff(t *testing.T) {
	if *fixGolden {
		t.Fatal("-fix-golden is enabled. This flag should only be used for updating test fixtures and must be disabled for regular tests.")
	}
}

func openReport() *appreciation.Report {
	return &appreciation.Report{
		Name:   "B3",
		Series: "b3",
		Rows: []appreciation.Row{
			{ID: "A", Date: date.New(2025, 3, 3), Appreciation: 1.5},
			{ID: "B", Date: date.New(2025, 4, 1), Appreciation: 3},
		},
		Weighted: 2.25,
	}
}

func soldReport() *appreciation.Report {
	return &appreciation.Report{
		Name:   "Bitcoin",
		Series: "bitcoin",
		Rows: []appreciation.Row{
			{ID: "A", Date: date.New(2025, 3, 3), Appreciation: 1.2, Closed: true},
			{ID: "B", Date: date.New(2025, 4, 1), Appreciation: 1.5},
		},
		Weighted: 1.5,
	}
}

func TestMarkdown(t *testing.T) {
	testCases := []struct {
		name       string
		goldenFile string
		got        string
	}{
		{
			name:       "table_open",
			goldenFile: "testdata/table_open.md",
			got:        TableMarkdown(openReport()),
		},
		{
			name:       "table_sold",
			goldenFile: "testdata/table_sold.md",
			got:        TableMarkdown(soldReport()),
		},
		{
			name:       "table_empty",
			goldenFile: "testdata/table_empty.md",
			got:        TableMarkdown(&appreciation.Report{Series: "b3"}),
		},
		{
			name:       "summary",
			goldenFile: "testdata/summary.md",
			got: SummaryMarkdown(&appreciation.Comparison{
				Dataset: "jvm",
				Reports: []*appreciation.Report{openReport(), soldReport()},
			}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			want, err := goldenFS.ReadFile(tc.goldenFile)
			if err != nil {
				t.Fatalf("failed to read golden file %s: %v", tc.goldenFile, err)
			}
			if diff := cmp.Diff(string(want), tc.got); diff != "" {
				if *fixGolden {
					if err := os.WriteFile(filepath.FromSlash(tc.goldenFile), []byte(tc.got), 0644); err != nil {
						t.Fatalf("failed to update golden file %s: %v", tc.goldenFile, err)
					}
					return
				}
				t.Errorf("%s mismatch (-want +got):\n%s", tc.name, diff)
			}
		})
	}
}

func TestComparisonMarkdown(t *testing.T) {
	c := &appreciation.Comparison{
		Dataset: "jvm",
		Reports: []*appreciation.Report{openReport(), soldReport()},
	}
	got := ComparisonMarkdown(c)
	for _, part := range []string{SummaryMarkdown(c), TableMarkdown(openReport()), TableMarkdown(soldReport())} {
		if !strings.Contains(got, part) {
			t.Errorf("ComparisonMarkdown() is missing:\n%s", part)
		}
	}
	if strings.Index(got, "## B3") > strings.Index(got, "## Bitcoin") {
		t.Errorf("ComparisonMarkdown() does not keep the reports order:\n%s", got)
	}
}

func TestBars(t *testing.T) {
	want := []Bar{
		{Label: "2025-03-03", Value: 1.2},
		{Label: "2025-04-01", Value: 1.5},
	}
	if diff := cmp.Diff(want, Bars(soldReport())); diff != "" {
		t.Errorf("Bars() mismatch (-want +got):\n%s", diff)
	}
}

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func TestBarChart(t *testing.T) {
	bars := Bars(openReport())
	opts := ChartOptions{Title: "Appreciation", Width: 600, Height: 300}

	testCases := []struct {
		name string
		refs []float64
	}{
		{name: "no reference", refs: nil},
		{name: "references", refs: []float64{1.25, 2.25, 2.875, 3.5}},
		{name: "more references than colors", refs: []float64{1, 2, 3, 4, 5, 6, 7}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			png, err := BarChart(bars, tc.refs, opts)
			if err != nil {
				t.Fatalf("BarChart() unexpected error: %v", err)
			}
			if !bytes.HasPrefix(png, pngSignature) {
				t.Errorf("BarChart() did not return a PNG image")
			}
		})
	}
}

func TestBarChartNoBar(t *testing.T) {
	if _, err := BarChart(nil, []float64{1}, ChartOptions{Width: 600, Height: 300}); err == nil {
		t.Error("BarChart() with no bar should fail")
	}
}

func TestBarChartLosses(t *testing.T) {
	bars := []Bar{{Label: "2025-03-03", Value: 0}, {Label: "2025-04-01", Value: 0}}
	png, err := BarChart(bars, []float64{0}, ChartOptions{Width: 600, Height: 300})
	if err != nil {
		t.Fatalf("BarChart() unexpected error: %v", err)
	}
	if !bytes.HasPrefix(png, pngSignature) {
		t.Errorf("BarChart() did not return a PNG image")
	}
}

// captureLog sends the global logger to a buffer for the duration of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = previous })
	return &buf
}

func TestPaletteLimit(t *testing.T) {
	buf := captureLog(t)
	refs := []float64{1, 2, 3, 4, 5, 6, 7}
	got := paletteLimit(refs)
	if diff := cmp.Diff(refs[:len(Palette)], got); diff != "" {
		t.Errorf("paletteLimit() mismatch (-want +got):\n%s", diff)
	}

	type logEvent struct {
		Level      string `json:"level"`
		References int    `json:"references"`
		Colors     int    `json:"colors"`
	}
	var event logEvent
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("no warning logged: %v (%q)", err, buf.String())
	}
	if want := (logEvent{Level: "warn", References: 7, Colors: 5}); event != want {
		t.Errorf("logged %+v, want %+v", event, want)
	}
}

func TestPaletteLimit_Fits(t *testing.T) {
	buf := captureLog(t)
	refs := []float64{1, 2, 3, 4, 5}
	if got := paletteLimit(refs); len(got) != len(refs) {
		t.Errorf("paletteLimit() kept %d references, want %d", len(got), len(refs))
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected log: %s", buf.String())
	}
}

func TestBarChart_PaletteOverflowWarns(t *testing.T) {
	buf := captureLog(t)
	png, err := BarChart(Bars(openReport()), []float64{1, 2, 3, 4, 5, 6}, ChartOptions{Width: 600, Height: 300})
	if err != nil {
		t.Fatalf("BarChart() unexpected error: %v", err)
	}
	if !bytes.HasPrefix(png, pngSignature) {
		t.Errorf("BarChart() did not return a PNG image")
	}
	if !strings.Contains(buf.String(), `"references":6`) {
		t.Errorf("BarChart() did not warn about the extra reference: %q", buf.String())
	}
}

func TestValueRange(t *testing.T) {
	bars := []Bar{{Value: 0.8}, {Value: 1.5}}
	testCases := []struct {
		name     string
		refs     []float64
		min, max float64
	}{
		{name: "positive", refs: []float64{1.2, 2}, min: 0, max: 2.2},
		// a loss of 70% leveraged twice goes below zero.
		{name: "negative leverage", refs: []float64{0.3, 2*(0.3-1) + 1}, min: -0.44, max: 1.65},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := valueRange(bars, tc.refs)
			if math.Abs(r.Min-tc.min) > 1e-9 || math.Abs(r.Max-tc.max) > 1e-9 {
				t.Errorf("valueRange() = [%v, %v], want [%v, %v]", r.Min, r.Max, tc.min, tc.max)
			}
			for _, v := range tc.refs {
				if v < r.Min || v > r.Max {
					t.Errorf("reference %v out of [%v, %v]", v, r.Min, r.Max)
				}
			}
		})
	}

	if r := valueRange([]Bar{{Value: 0}}, nil); r.Min != 0 || r.Max != 1.1 {
		t.Errorf("valueRange(zero) = [%v, %v], want [0, 1.1]", r.Min, r.Max)
	}
}

func TestBarChart_NegativeReference(t *testing.T) {
	png, err := BarChart(Bars(openReport()), []float64{0.3, -0.4}, ChartOptions{Width: 600, Height: 300})
	if err != nil {
		t.Fatalf("BarChart() unexpected error: %v", err)
	}
	if !bytes.HasPrefix(png, pngSignature) {
		t.Errorf("BarChart() did not return a PNG image")
	}
}

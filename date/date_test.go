package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// time.Time values carry a location pointer, the canonical one must stay comparable.
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNewNormalizes(t *testing.T) {
	if got, want := New(2025, time.February, 30), New(2025, time.March, 2); got != want {
		t.Errorf("New(2025-02-30) = %v, want %v", got, want)
	}
}

func TestOf(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"utc", time.Date(2025, time.January, 2, 18, 52, 3, 0, time.UTC), "2025-01-02"},
		{"late evening keeps local day", time.Date(2025, time.January, 2, 23, 30, 0, 0, saoPaulo), "2025-01-02"},
		{"midnight", time.Date(2025, time.March, 30, 0, 0, 0, 0, time.UTC), "2025-03-30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Of(tt.in).String(); got != tt.want {
				t.Errorf("Of(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2025-01-26", New(2025, time.January, 26), false},
		{"2025-7-1", New(2025, time.July, 1), false},
		{"26/01/2025", Date{}, true},
		{"", Date{}, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCompare(t *testing.T) {
	a, b := New(2025, 1, 2), New(2025, 1, 26)
	if !a.Before(b) || a.After(b) {
		t.Errorf("%v should be before %v", a, b)
	}
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Errorf("Compare(%v, %v) inconsistent", a, b)
	}
}

func TestJSON(t *testing.T) {
	d := New(2025, time.February, 16)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"2025-02-16"` {
		t.Errorf("Marshal() = %s, want %q", data, `"2025-02-16"`)
	}
	var got Date
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got != d {
		t.Errorf("Unmarshal() = %v, want %v", got, d)
	}
	if err := json.Unmarshal([]byte(`"16-02-2025"`), &got); err == nil {
		t.Errorf("Unmarshal() of an invalid date should fail")
	}
}

package ui

import (
	"strings"
	"testing"
	"time"

	appmodel "pmdash/model"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"a much longer line", 8, "a much …"},
		{"line\nwith\nbreaks", 20, "line with breaks"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1.4212, "1.421"},
		{0.0002, "2.00e-04"},
		{12345, "12345"},
		{0, "0.000"},
	}
	for _, tt := range tests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFuzzyFind(t *testing.T) {
	targets := []string{
		"WO-1 Grease bearing on pump 3",
		"WO-2 Replace seal",
		"WO-3 Bearing inspection",
	}

	matches := fuzzyFind("bearing", targets)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %v", matches)
	}
	for _, idx := range matches {
		if idx == 1 {
			t.Error("'Replace seal' should not match 'bearing'")
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	if got := formatTimestamp("2024-05-01 09:30:00"); got != "May 01 09:30" {
		t.Errorf("formatTimestamp = %q, want 'May 01 09:30'", got)
	}
	// Unparseable values degrade to a prefix instead of erroring.
	if got := formatTimestamp("not a timestamp but rather long"); got != "not a timestamp " {
		t.Errorf("fallback = %q", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	if out := renderSparkline(nil, 40); !strings.Contains(out, "no data") {
		t.Errorf("empty series should render the placeholder, got %q", out)
	}

	low, high := 1.0, 9.0
	points := []appmodel.SeriesPoint{
		{Observed: &low},
		{Observed: &high, ErrorOverlay: &high},
		{Forecast: &low},
	}
	out := renderSparkline(points, 40)
	if out == "" {
		t.Fatal("expected sparkline output")
	}
	// One cell per point once styling is stripped.
	cells := 0
	for _, r := range out {
		for _, c := range sparkChars {
			if r == c {
				cells++
			}
		}
	}
	if cells != len(points) {
		t.Errorf("expected %d spark cells, got %d in %q", len(points), cells, out)
	}
}

func TestStaleAge(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if got := staleAge("2024-05-01 11:15:00", now); got != "45m0s" {
		t.Errorf("staleAge = %q, want 45m0s", got)
	}
	if got := staleAge("garbage", now); got != "unknown age" {
		t.Errorf("staleAge fallback = %q", got)
	}
}

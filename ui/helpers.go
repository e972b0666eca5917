package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	appmodel "pmdash/model"
)

// fuzzyFind returns the indexes of targets matching the query, best first.
func fuzzyFind(query string, targets []string) []int {
	matches := fuzzy.Find(query, targets)
	indexes := make([]int, 0, len(matches))
	for _, match := range matches {
		indexes = append(indexes, match.Index)
	}
	return indexes
}

// truncate shortens a string to the given display width.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(strings.ReplaceAll(s, "\n", " "), width, "…")
}

// formatValue renders a metric value compactly.
func formatValue(v float64) string {
	switch {
	case v != 0 && (v < 0.01 && v > -0.01):
		return fmt.Sprintf("%.2e", v)
	case v >= 1000 || v <= -1000:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.3f", v)
	}
}

// formatTimestamp shortens a backend timestamp for list display.
func formatTimestamp(value string) string {
	if ts, ok := appmodel.ParseBackendTime(value); ok {
		return ts.Format("Jan 02 15:04")
	}
	if len(value) > 16 {
		return value[:16]
	}
	return value
}

var sparkChars = []rune("▁▂▃▄▅▆▇█")

// renderSparkline draws the merged series as one colored line: observed in
// blue, flagged readings in red, forecast in magenta. The newest points win
// when the series is wider than the panel.
func renderSparkline(points []appmodel.SeriesPoint, width int) string {
	if len(points) == 0 || width <= 0 {
		return DimStyle.Render("no data")
	}
	if len(points) > width {
		points = points[len(points)-width:]
	}

	min, max := 0.0, 0.0
	first := true
	for _, p := range points {
		for _, v := range []*float64{p.Observed, p.Forecast} {
			if v == nil {
				continue
			}
			if first {
				min, max = *v, *v
				first = false
				continue
			}
			if *v < min {
				min = *v
			}
			if *v > max {
				max = *v
			}
		}
	}
	span := max - min
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for _, p := range points {
		var value float64
		var style = ObservedStyle
		switch {
		case p.ErrorOverlay != nil:
			value = *p.ErrorOverlay
			style = ErrorPointStyle
		case p.Observed != nil:
			value = *p.Observed
		case p.Forecast != nil:
			value = *p.Forecast
			style = ForecastStyle
		default:
			b.WriteString(" ")
			continue
		}

		idx := int((value - min) / span * float64(len(sparkChars)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteString(style.Render(string(sparkChars[idx])))
	}
	return b.String()
}

// staleAge formats how old the summary reading is, for the banner.
func staleAge(reported string, now time.Time) string {
	ts, ok := appmodel.ParseBackendTime(reported)
	if !ok {
		return "unknown age"
	}
	age := now.Sub(ts).Round(time.Minute)
	return age.String()
}

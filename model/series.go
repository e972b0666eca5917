package model

import "pmdash/api"

// SeriesPoint is one render-ready point of the merged history+forecast
// sequence. Exactly one of the channels is the point's primary value: history
// points set Observed (plus ErrorOverlay when the reading was flagged),
// forecast points set Forecast. Absent channels are nil so the two traces
// plot as distinct series.
type SeriesPoint struct {
	Timestamp    string
	Observed     *float64
	ErrorOverlay *float64
	Forecast     *float64
}

// Classification labels one anomaly score against its threshold.
type Classification string

const (
	ClassAnomaly Classification = "Anomaly"
	ClassNormal  Classification = "Normal"
)

// AnomalyPoint is one scored reading.
type AnomalyPoint struct {
	Timestamp      string
	Score          float64
	RawValue       float64
	Classification Classification
}

func valueAt(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

func flagAt(flags []bool, i int) bool {
	return i < len(flags) && flags[i]
}

func timestampAt(timestamps []string, i int) string {
	if i < len(timestamps) {
		return timestamps[i]
	}
	return ""
}

// MergeSeries combines history and forecast arrays into one ordered
// sequence: history first, then forecast, in the order the server sent them.
// No deduplication or resorting; the arrays are assumed chronological.
// Indexes missing from a shorter value array fall back to 0.
func MergeSeries(forecast *api.Forecast) []SeriesPoint {
	if forecast == nil {
		return nil
	}

	points := make([]SeriesPoint, 0, len(forecast.HistoryX)+len(forecast.ForecastX))

	for i, ts := range forecast.HistoryX {
		y := valueAt(forecast.HistoryY, i)
		point := SeriesPoint{Timestamp: ts, Observed: &y}
		if flagAt(forecast.HistoryFlags, i) {
			// Same reading, second channel: flagged points plot as a
			// distinct error trace on top of the observed one.
			point.ErrorOverlay = &y
		}
		points = append(points, point)
	}

	for i, ts := range forecast.ForecastX {
		y := valueAt(forecast.ForecastY, i)
		points = append(points, SeriesPoint{Timestamp: ts, Forecast: &y})
	}

	return points
}

// ClassifyAnomalies zips scores with their timestamps and raw values
// positionally and classifies each against the threshold that arrived in the
// same response. Shorter companion arrays fall back to "" / 0.
func ClassifyAnomalies(anomalies *api.Anomalies) []AnomalyPoint {
	if anomalies == nil {
		return nil
	}

	points := make([]AnomalyPoint, 0, len(anomalies.Scores))
	for i, score := range anomalies.Scores {
		classification := ClassNormal
		if score < anomalies.Threshold {
			classification = ClassAnomaly
		}
		points = append(points, AnomalyPoint{
			Timestamp:      timestampAt(anomalies.Timestamps, i),
			Score:          score,
			RawValue:       valueAt(anomalies.RawValues, i),
			Classification: classification,
		})
	}
	return points
}

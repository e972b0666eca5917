package model

import (
	"testing"

	"pmdash/api"
)

func TestApplyMetricDataDiscardsSuperseded(t *testing.T) {
	m := newTestModel()

	// Two cycles start; the one started second resolves first.
	m.PollFast() // seq 1
	m.PollFast() // seq 2

	applied := m.ApplyMetricData(MetricDataMsg{
		Seq:    2,
		Metric: m.SelectedMetric,
		Series: []SeriesPoint{{Timestamp: "newer"}},
		Unit:   "mm/s",
	})
	if !applied {
		t.Fatal("newest cycle should apply")
	}

	// The slow, earlier-started cycle arrives late and must be discarded.
	applied = m.ApplyMetricData(MetricDataMsg{
		Seq:    1,
		Metric: m.SelectedMetric,
		Series: []SeriesPoint{{Timestamp: "older"}},
		Unit:   "g",
	})
	if applied {
		t.Fatal("superseded cycle must be discarded")
	}
	if m.Series[0].Timestamp != "newer" || m.SeriesUnit != "mm/s" {
		t.Error("discarded cycle overwrote the newer snapshot")
	}
}

func TestApplyMetricDataDiscardsWrongMetric(t *testing.T) {
	m := newTestModel()
	m.PollFast()

	if m.ApplyMetricData(MetricDataMsg{Seq: 1, Metric: "x_rms"}) {
		t.Error("cycle for a metric the user navigated away from must be discarded")
	}
}

func TestApplyMetricDataErrorKeepsSnapshot(t *testing.T) {
	m := newTestModel()
	m.PollFast()
	m.ApplyMetricData(MetricDataMsg{
		Seq:       1,
		Metric:    m.SelectedMetric,
		Series:    []SeriesPoint{{Timestamp: "good"}},
		Threshold: 0.05,
	})

	m.PollFast()
	if m.ApplyMetricData(MetricDataMsg{Seq: 2, Metric: m.SelectedMetric, Err: errFake}) {
		t.Error("failed cycle must not apply")
	}
	if len(m.Series) != 1 || m.Series[0].Timestamp != "good" || m.AnomalyThreshold != 0.05 {
		t.Error("failed cycle must leave the previous snapshot authoritative")
	}

	// The failed sequence was not consumed; the next successful cycle with a
	// higher sequence still applies.
	m.PollFast()
	if !m.ApplyMetricData(MetricDataMsg{Seq: 3, Metric: m.SelectedMetric}) {
		t.Error("cycle after a failure should apply")
	}
}

func TestApplySummaryErrorKeepsPrevious(t *testing.T) {
	m := newTestModel()
	previous := &api.Summary{Status: "ok", ISOZone: "B"}
	m.ApplySummary(SummaryMsg{Summary: previous})

	m.ApplySummary(SummaryMsg{Err: errFake})

	if m.Summary != previous {
		t.Error("failed summary fetch must keep the previous snapshot")
	}
}

func TestApplyWorkOrdersErrorKeepsPrevious(t *testing.T) {
	m := newTestModel()
	m.ApplyWorkOrders(WorkOrdersMsg{Items: []api.WorkOrder{{ID: "WO-1"}}})

	m.ApplyWorkOrders(WorkOrdersMsg{Err: errFake})

	if len(m.WorkOrders) != 1 || m.WorkOrders[0].ID != "WO-1" {
		t.Error("failed work-order fetch must keep the previous list")
	}
}

func TestSelectMetric(t *testing.T) {
	m := newTestModel()

	if cmd := m.SelectMetric(m.SelectedMetric); cmd != nil {
		t.Error("selecting the current metric should be a no-op")
	}
	if cmd := m.SelectMetric(""); cmd != nil {
		t.Error("selecting an empty metric should be a no-op")
	}

	cmd := m.SelectMetric("x_rms")
	if cmd == nil {
		t.Fatal("switching metrics should trigger an immediate fetch")
	}
	if m.SelectedMetric != "x_rms" {
		t.Errorf("selected metric = %q, want x_rms", m.SelectedMetric)
	}
}

func TestMetricNames(t *testing.T) {
	m := newTestModel()
	if names := m.MetricNames(); names != nil {
		t.Errorf("no summary yet should mean no names, got %v", names)
	}

	m.Summary = &api.Summary{Metrics: map[string]float64{
		"z_rms":            1.2,
		"x_rms":            0.8,
		"temp":             44.1,
		"z_rms_error_flag": 0,
	}}

	names := m.MetricNames()
	want := []string{"temp", "x_rms", "z_rms"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q (sorted, error flags excluded)", i, names[i], want[i])
		}
	}
}

func TestLatestAnomaly(t *testing.T) {
	m := newTestModel()
	if _, ok := m.LatestAnomaly(); ok {
		t.Error("no anomalies should report ok=false")
	}

	m.Anomalies = []AnomalyPoint{
		{Timestamp: "t0", Score: 0.2},
		{Timestamp: "t1", Score: 0.03, Classification: ClassAnomaly},
	}
	latest, ok := m.LatestAnomaly()
	if !ok || latest.Timestamp != "t1" {
		t.Errorf("latest anomaly = %+v ok=%v, want the last point", latest, ok)
	}
}

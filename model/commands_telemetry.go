package model

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pmdash/config"
)

const fetchTimeout = 20 * time.Second

// FastTickCmd schedules the next fast-cadence tick.
func FastTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(at time.Time) tea.Msg {
		return FastTickMsg{At: at}
	})
}

// SlowTickCmd schedules the next slow-cadence tick.
func SlowTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(at time.Time) tea.Msg {
		return SlowTickMsg{At: at}
	})
}

// PollFast issues one fast-cadence cycle: the summary fetch plus the
// metric-parameterized cycle for the currently selected metric.
func (m *Model) PollFast() tea.Cmd {
	m.tickSeq++
	return tea.Batch(m.fetchSummary(), m.fetchMetricData(m.tickSeq, m.SelectedMetric))
}

// SelectMetric switches the selected metric and immediately re-triggers the
// metric-parameterized feeds. The summary cadence is unaffected.
func (m *Model) SelectMetric(metric string) tea.Cmd {
	if metric == "" || metric == m.SelectedMetric {
		return nil
	}
	m.SelectedMetric = metric
	m.tickSeq++
	return m.fetchMetricData(m.tickSeq, metric)
}

func (m *Model) fetchSummary() tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		summary, err := client.Summary(ctx)
		return SummaryMsg{Summary: summary, Err: err}
	}
}

// fetchMetricData fetches forecast, anomalies and importance as one
// all-or-nothing unit. If any of the three fails the whole cycle reports the
// error and the previous snapshot stays authoritative; a cycle never applies
// partially.
func (m *Model) fetchMetricData(seq uint64, metric string) tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		forecast, err := client.Forecast(ctx, metric)
		if err != nil {
			return MetricDataMsg{Seq: seq, Metric: metric, Err: err}
		}
		anomalies, err := client.Anomalies(ctx, metric)
		if err != nil {
			return MetricDataMsg{Seq: seq, Metric: metric, Err: err}
		}
		importance, err := client.Importance(ctx)
		if err != nil {
			return MetricDataMsg{Seq: seq, Metric: metric, Err: err}
		}

		return MetricDataMsg{
			Seq:         seq,
			Metric:      metric,
			Series:      MergeSeries(forecast),
			Unit:        forecast.Unit,
			Anomalies:   ClassifyAnomalies(anomalies),
			Threshold:   anomalies.Threshold,
			LatestScore: anomalies.LatestScore,
			Importance:  importance[metric],
		}
	}
}

// FetchWorkOrders fetches the work-order history feed.
func (m *Model) FetchWorkOrders() tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		items, err := client.WorkOrders(ctx)
		return WorkOrdersMsg{Items: items, Err: err}
	}
}

// ApplySummary folds a summary completion into the snapshot. A failed fetch
// keeps the previous snapshot authoritative.
func (m *Model) ApplySummary(msg SummaryMsg) {
	if msg.Err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Poller] summary fetch failed: %v", msg.Err)
		}
		return
	}
	m.Summary = msg.Summary
}

// ApplyMetricData folds a metric cycle completion into the snapshots and
// reports whether anything was applied. Cycles at or below the newest
// applied sequence are discarded so a slow, earlier-started cycle can never
// overwrite a newer one; cycles for a metric the user has since navigated
// away from are discarded too.
func (m *Model) ApplyMetricData(msg MetricDataMsg) bool {
	if msg.Err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Poller] metric cycle %d (%s) failed: %v", msg.Seq, msg.Metric, msg.Err)
		}
		return false
	}
	if msg.Seq <= m.appliedSeq {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Poller] discarding superseded cycle %d (applied %d)", msg.Seq, m.appliedSeq)
		}
		return false
	}
	if msg.Metric != m.SelectedMetric {
		return false
	}

	m.appliedSeq = msg.Seq
	m.Series = msg.Series
	m.SeriesUnit = msg.Unit
	m.Anomalies = msg.Anomalies
	m.AnomalyThreshold = msg.Threshold
	m.LatestScore = msg.LatestScore
	m.Importance = msg.Importance
	return true
}

// ApplyWorkOrders folds a work-order list completion into the snapshot.
func (m *Model) ApplyWorkOrders(msg WorkOrdersMsg) {
	if msg.Err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Poller] work order fetch failed: %v", msg.Err)
		}
		return
	}
	m.WorkOrders = msg.Items
}

// LatestAnomaly returns the most recent anomaly point, if any.
func (m *Model) LatestAnomaly() (AnomalyPoint, bool) {
	if len(m.Anomalies) == 0 {
		return AnomalyPoint{}, false
	}
	return m.Anomalies[len(m.Anomalies)-1], true
}

package model

import (
	"time"

	"pmdash/api"
)

// FastTickMsg fires on the fast refresh cadence (summary, forecast,
// anomalies, importance).
type FastTickMsg struct {
	At time.Time
}

// SlowTickMsg fires on the slow refresh cadence (work-order history).
type SlowTickMsg struct {
	At time.Time
}

type SummaryMsg struct {
	Summary *api.Summary
	Err     error
}

// MetricDataMsg carries one complete metric-parameterized fetch cycle.
// Seq tags the cycle so late completions of superseded cycles can be
// discarded. A cycle either carries all three feeds or an error; there is
// no partial payload.
type MetricDataMsg struct {
	Seq         uint64
	Metric      string
	Series      []SeriesPoint
	Unit        string
	Anomalies   []AnomalyPoint
	Threshold   float64
	LatestScore float64
	Importance  []api.ImportanceEntry
	Err         error
}

type WorkOrdersMsg struct {
	Items []api.WorkOrder
	Err   error
}

// ChatReplyMsg is the agent's answer to one sent message. SessionID is the
// session the request was issued under; replies for a session that has since
// been reset are discarded.
type ChatReplyMsg struct {
	SessionID string
	Reply     *api.ChatReply
	Err       error
}

type ApprovalMsg struct {
	SessionID string
	Result    *api.ApprovalResult
	Err       error
}

type TranscriptSavedMsg struct {
	Err error
}

type ImageStagedMsg struct {
	Attachment *Attachment
	Err        error
}

package model

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"pmdash/api"
	"pmdash/config"
	"pmdash/storage"
)

// Model holds the core application data and business logic state. The
// conversation state (session, transcript, draft) and the telemetry
// snapshots are exclusively owned here; the UI reads them and feeds
// completions back through the Apply methods.
type Model struct {
	// Core dependencies
	Config  *config.Config
	Client  *api.Client
	Archive *storage.Archive

	// Conversation state
	SessionID    string
	Messages     []Message
	Draft        string
	DraftPending bool
	Sending      bool
	Approving    bool
	StagedImage  *Attachment
	pendingSend  *outgoingMessage

	// Telemetry snapshots
	Summary          *api.Summary
	Series           []SeriesPoint
	SeriesUnit       string
	Anomalies        []AnomalyPoint
	AnomalyThreshold float64
	LatestScore      float64
	Importance       []api.ImportanceEntry
	WorkOrders       []api.WorkOrder
	SelectedMetric   string

	// Tick bookkeeping: tickSeq tags each metric-parameterized fetch
	// cycle, appliedSeq is the newest cycle folded into the snapshots.
	tickSeq    uint64
	appliedSeq uint64

	// Runtime state
	Quitting bool

	// Application metadata
	Version string
}

// NewModel creates a new Model with a fresh session identifier.
func NewModel(cfg *config.Config, client *api.Client, archive *storage.Archive, version string) *Model {
	return &Model{
		Config:         cfg,
		Client:         client,
		Archive:        archive,
		SessionID:      uuid.New().String(),
		SelectedMetric: cfg.DefaultMetric,
		Version:        version,
	}
}

// MetricNames returns the selectable metric names from the latest summary,
// sorted. Keys suffixed _error_flag are sensor-quality markers, not metrics.
func (m *Model) MetricNames() []string {
	if m.Summary == nil {
		return nil
	}
	names := make([]string, 0, len(m.Summary.Metrics))
	for name := range m.Summary.Metrics {
		if strings.HasSuffix(name, "_error_flag") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

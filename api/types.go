package api

// Summary is the latest machine status snapshot from GET /summary.
type Summary struct {
	Timestamp     string             `json:"timestamp"`
	DataTimestamp string             `json:"data_timestamp"`
	Metrics       map[string]float64 `json:"metrics"`
	Status        string             `json:"status"`
	ISOZone       string             `json:"iso_zone"`
	MachineStatus string             `json:"machine_status"`
}

// Forecast is the history + prediction payload from GET /forecast/{metric}.
// The four array pairs are positionally aligned; HistoryFlags is optional
// and marks interpolated (sensor error) readings.
type Forecast struct {
	HistoryX     []string  `json:"history_x"`
	HistoryY     []float64 `json:"history_y"`
	HistoryFlags []bool    `json:"history_flags"`
	ForecastX    []string  `json:"forecast_x"`
	ForecastY    []float64 `json:"forecast_y"`
	Unit         string    `json:"unit"`
}

// Anomalies is the score series from GET /anomalies/{metric}. Scores,
// Timestamps and RawValues are positionally aligned; Threshold is recomputed
// by the server per response and only applies to the scores it arrived with.
type Anomalies struct {
	Scores      []float64 `json:"scores"`
	Timestamps  []string  `json:"timestamps"`
	RawValues   []float64 `json:"raw_values"`
	Threshold   float64   `json:"threshold"`
	Status      string    `json:"status"`
	LatestScore float64   `json:"latest_score"`
}

// ImportanceEntry is one ranked feature weight.
type ImportanceEntry struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// Importance maps metric name to its ranked feature weights
// (GET /importance).
type Importance map[string][]ImportanceEntry

// WorkOrder is one saved work order from GET /work_orders.
type WorkOrder struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	Preview   string `json:"preview"`
	Content   string `json:"content"`
}

type workOrdersResponse struct {
	Items []WorkOrder `json:"items"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message     string `json:"message"`
	SessionID   string `json:"session_id"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

// ChatReply is the agent's answer. Draft is empty when no work-order draft
// is pending for the session.
type ChatReply struct {
	Response string `json:"response"`
	Draft    string `json:"draft"`
}

type approveRequest struct {
	SessionID string `json:"session_id"`
}

// ApprovalResult carries the identifier the server assigned to the
// persisted work order.
type ApprovalResult struct {
	WorkOrderID string `json:"work_order_id"`
}

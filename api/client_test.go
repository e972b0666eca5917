package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestBackend(t *testing.T) (*Client, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	// Trailing slash gets trimmed like the /api prefix in real deployments.
	return NewClient(server.URL + "/"), mux
}

func TestSummary(t *testing.T) {
	client, mux := newTestBackend(t)
	mux.HandleFunc("/summary", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"timestamp":      "2024-05-01 12:00:00",
			"data_timestamp": "2024-05-01 11:55:00",
			"metrics":        map[string]float64{"z_rms": 1.42, "z_rms_error_flag": 0},
			"status":         "ok",
			"iso_zone":       "B",
			"machine_status": "Acceptable",
		})
	})

	summary, err := client.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.ISOZone != "B" || summary.MachineStatus != "Acceptable" {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if summary.Metrics["z_rms"] != 1.42 {
		t.Errorf("z_rms = %v, want 1.42", summary.Metrics["z_rms"])
	}
	if summary.DataTimestamp != "2024-05-01 11:55:00" {
		t.Errorf("data_timestamp = %q", summary.DataTimestamp)
	}
}

func TestForecastPathEscaping(t *testing.T) {
	client, mux := newTestBackend(t)
	var gotPath string
	mux.HandleFunc("/forecast/", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		json.NewEncoder(w).Encode(map[string]any{
			"history_x": []string{"2024-05-01 10:00:00"},
			"history_y": []float64{1.1},
			"unit":      "mm/s",
		})
	})

	forecast, err := client.Forecast(context.Background(), "z rms/axial")
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if !strings.Contains(gotPath, "z%20rms%2Faxial") {
		t.Errorf("metric was not path-escaped: %s", gotPath)
	}
	if forecast.Unit != "mm/s" || len(forecast.HistoryX) != 1 {
		t.Errorf("unexpected forecast: %+v", forecast)
	}
}

func TestForecastRequiresMetric(t *testing.T) {
	client, _ := newTestBackend(t)
	if _, err := client.Forecast(context.Background(), "  "); err == nil {
		t.Error("blank metric should be rejected client-side")
	}
	if _, err := client.Anomalies(context.Background(), ""); err == nil {
		t.Error("blank metric should be rejected client-side")
	}
}

func TestAnomalies(t *testing.T) {
	client, mux := newTestBackend(t)
	mux.HandleFunc("/anomalies/z_rms", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"scores":       []float64{0.2, 0.04},
			"timestamps":   []string{"t0", "t1"},
			"raw_values":   []float64{1.0, 2.0},
			"threshold":    0.05,
			"status":       "ok",
			"latest_score": 0.04,
		})
	})

	anomalies, err := client.Anomalies(context.Background(), "z_rms")
	if err != nil {
		t.Fatalf("Anomalies: %v", err)
	}
	if anomalies.Threshold != 0.05 || anomalies.LatestScore != 0.04 {
		t.Errorf("unexpected anomalies: %+v", anomalies)
	}
}

func TestImportanceNilBecomesEmpty(t *testing.T) {
	client, mux := newTestBackend(t)
	mux.HandleFunc("/importance", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null"))
	})

	importance, err := client.Importance(context.Background())
	if err != nil {
		t.Fatalf("Importance: %v", err)
	}
	if importance == nil {
		t.Error("nil importance body should decode to an empty map")
	}
}

func TestWorkOrders(t *testing.T) {
	client, mux := newTestBackend(t)
	mux.HandleFunc("/work_orders", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]string{
				{"id": "WO-2", "created_at": "2024-05-01 09:00:00", "preview": "Replace seal"},
				{"id": "WO-1", "created_at": "2024-04-28 14:00:00", "preview": "Grease bearing"},
			},
		})
	})

	orders, err := client.WorkOrders(context.Background())
	if err != nil {
		t.Fatalf("WorkOrders: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != "WO-2" {
		t.Errorf("unexpected orders: %+v", orders)
	}
}

func TestChatPayload(t *testing.T) {
	client, mux := newTestBackend(t)
	mux.HandleFunc("/chat", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["message"] != "hello" || req["session_id"] != "abc" {
			t.Errorf("unexpected payload: %v", req)
		}
		if _, present := req["image_base64"]; present {
			t.Error("empty image field should be omitted from the payload")
		}
		json.NewEncoder(w).Encode(map[string]string{"response": "hi", "draft": ""})
	})

	reply, err := client.Chat(context.Background(), ChatRequest{Message: "hello", SessionID: "abc"})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply.Response != "hi" {
		t.Errorf("response = %q, want hi", reply.Response)
	}
}

func TestChatRequiresSession(t *testing.T) {
	client, _ := newTestBackend(t)
	if _, err := client.Chat(context.Background(), ChatRequest{Message: "hello"}); err == nil {
		t.Error("missing session id should be rejected client-side")
	}
	if _, err := client.ApproveWorkOrder(context.Background(), ""); err == nil {
		t.Error("missing session id should be rejected client-side")
	}
}

func TestApproveWorkOrder(t *testing.T) {
	client, mux := newTestBackend(t)
	mux.HandleFunc("/work_orders/approve", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["session_id"] != "abc" {
			t.Errorf("session_id = %q, want abc", req["session_id"])
		}
		json.NewEncoder(w).Encode(map[string]string{"work_order_id": "WO-123"})
	})

	result, err := client.ApproveWorkOrder(context.Background(), "abc")
	if err != nil {
		t.Fatalf("ApproveWorkOrder: %v", err)
	}
	if result.WorkOrderID != "WO-123" {
		t.Errorf("work order id = %q, want WO-123", result.WorkOrderID)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantSubstr string
	}{
		{
			name:       "detail field is surfaced",
			status:     http.StatusBadRequest,
			body:       `{"detail": "no pending draft for session"}`,
			wantSubstr: "no pending draft for session",
		},
		{
			name:       "error field is surfaced",
			status:     http.StatusServiceUnavailable,
			body:       `{"error": "model not loaded"}`,
			wantSubstr: "model not loaded",
		},
		{
			name:       "unparseable body falls back to status",
			status:     http.StatusBadGateway,
			body:       `<html>gateway error</html>`,
			wantSubstr: "502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mux := newTestBackend(t)
			mux.HandleFunc("/summary", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Summary(context.Background())
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantSubstr) {
				t.Errorf("error %q does not mention %q", err, tt.wantSubstr)
			}
		})
	}
}

func TestContextCancellation(t *testing.T) {
	client, mux := newTestBackend(t)
	mux.HandleFunc("/summary", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.Summary(ctx); err == nil {
		t.Error("cancelled context should abort the request")
	}
}

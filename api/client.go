package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type apiError struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

// Client talks to the predictive maintenance backend. All methods are safe
// for concurrent use; every call honors its context.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL (including any /api
// prefix the deployment uses).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		blob, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request payload: %w", err)
		}
		body = bytes.NewReader(blob)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		blob, _ := io.ReadAll(resp.Body)
		var apiErr apiError
		if json.Unmarshal(blob, &apiErr) == nil {
			if msg := strings.TrimSpace(apiErr.Detail); msg != "" {
				return fmt.Errorf("api %s %s: %s", method, path, msg)
			}
			if msg := strings.TrimSpace(apiErr.Error); msg != "" {
				return fmt.Errorf("api %s %s: %s", method, path, msg)
			}
		}
		return fmt.Errorf("api %s %s failed with status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Summary fetches the latest machine status snapshot.
func (c *Client) Summary(ctx context.Context) (*Summary, error) {
	var summary Summary
	if err := c.doJSON(ctx, http.MethodGet, "/summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Forecast fetches history and prediction series for one metric.
func (c *Client) Forecast(ctx context.Context, metric string) (*Forecast, error) {
	metric = strings.TrimSpace(metric)
	if metric == "" {
		return nil, fmt.Errorf("metric is required")
	}
	var forecast Forecast
	path := "/forecast/" + url.PathEscape(metric)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &forecast); err != nil {
		return nil, err
	}
	return &forecast, nil
}

// Anomalies fetches anomaly scores and the current threshold for one metric.
func (c *Client) Anomalies(ctx context.Context, metric string) (*Anomalies, error) {
	metric = strings.TrimSpace(metric)
	if metric == "" {
		return nil, fmt.Errorf("metric is required")
	}
	var anomalies Anomalies
	path := "/anomalies/" + url.PathEscape(metric)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &anomalies); err != nil {
		return nil, err
	}
	return &anomalies, nil
}

// Importance fetches ranked feature weights for all metrics.
func (c *Client) Importance(ctx context.Context) (Importance, error) {
	var importance Importance
	if err := c.doJSON(ctx, http.MethodGet, "/importance", nil, &importance); err != nil {
		return nil, err
	}
	if importance == nil {
		importance = Importance{}
	}
	return importance, nil
}

// WorkOrders fetches the saved work-order list, newest first.
func (c *Client) WorkOrders(ctx context.Context) ([]WorkOrder, error) {
	var response workOrdersResponse
	if err := c.doJSON(ctx, http.MethodGet, "/work_orders", nil, &response); err != nil {
		return nil, err
	}
	return response.Items, nil
}

// Chat sends one operator message to the agent and returns its reply.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}
	var reply ChatReply
	if err := c.doJSON(ctx, http.MethodPost, "/chat", req, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// ApproveWorkOrder commits the session's pending draft as a work order.
func (c *Client) ApproveWorkOrder(ctx context.Context, sessionID string) (*ApprovalResult, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}
	var result ApprovalResult
	if err := c.doJSON(ctx, http.MethodPost, "/work_orders/approve", approveRequest{SessionID: sessionID}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

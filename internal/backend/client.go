package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/meubot/meubot-web/internal/config"
	"github.com/meubot/meubot-web/pkg/metrics"
)

// ErrNotConfigured is returned when the backend base URL or token is missing.
var ErrNotConfigured = fmt.Errorf("backend api not configured")

// UpstreamError marks a failed call to the internal backend (non-2xx,
// timeout or transport error). Handlers translate it to 502.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Body)
}

// FinancialData is the normalized per-user account view. Raw keeps the
// backend's full payload for the user-info endpoint's `data` field.
type FinancialData struct {
	UserID      string
	Money       int64
	Bank        int64
	LastUpdated time.Time
	Raw         map[string]interface{}
}

// Client calls the internal bot backend for per-user account data.
// Every request carries the configured bearer token and a bounded timeout.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(cfg config.BackendConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
	}
}

// Configured reports whether both the base URL and token are present.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.token != ""
}

// UserData fetches {base}/user/{id} and normalizes the duck-typed payload:
// money and bank default to 0 when absent or non-numeric.
func (c *Client) UserData(ctx context.Context, userID string) (*FinancialData, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("backend", "error").Inc()
		return nil, &UpstreamError{Status: 0, Body: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamRequests.WithLabelValues("backend", "non_2xx").Inc()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &UpstreamError{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var raw map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		metrics.UpstreamRequests.WithLabelValues("backend", "bad_payload").Inc()
		return nil, &UpstreamError{Status: resp.StatusCode, Body: "malformed backend payload"}
	}
	metrics.UpstreamRequests.WithLabelValues("backend", "ok").Inc()

	return &FinancialData{
		UserID:      userID,
		Money:       numberField(raw, "money"),
		Bank:        numberField(raw, "bank"),
		LastUpdated: time.Now().UTC(),
		Raw:         raw,
	}, nil
}

func numberField(m map[string]interface{}, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case json.Number:
		i, _ := v.Int64()
		return i
	default:
		return 0
	}
}

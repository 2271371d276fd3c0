// Package cloud is the client for the remote spreadsheet-backed API.
//
// Pulls are plain GETs with a parsed JSON(P) response. Pushes are POSTs on
// an opaque transport: the response body is never inspected, so a push
// counts as successful the moment it is dispatched without a network-level
// error. Mutating POSTs carry the shared apiKey; GETs do not.
package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNotConfigured = errors.New("API belum dikonfigurasi")
	ErrTimeout       = errors.New("timeout - server lambat")
	ErrTransport     = errors.New("gagal koneksi ke server")
)

// PullTimeout bounds every table pull; the remote is a spreadsheet script
// runtime and can hang well past any useful window.
const PullTimeout = 30 * time.Second

// PingTimeout bounds the connectivity probe.
const PingTimeout = 10 * time.Second

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Configured reports whether a usable endpoint is set. The length guard is
// deliberate: deployments have shipped with placeholder values like "-".
func (c *Client) Configured() bool {
	return len(c.baseURL) > 10
}

type pullResponse struct {
	Success bool              `json:"success"`
	Data    []json.RawMessage `json:"data"`
	Error   string            `json:"error"`
}

// FetchTable pulls the remote's full listing for a table. The caller owns
// the timeout on ctx; context expiry maps to ErrTimeout.
func (c *Client) FetchTable(ctx context.Context, table string) ([]json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("action", "getAll")
	q.Set("sheet", table)
	q.Set("callback", callbackName(table))

	var resp pullResponse
	if err := c.get(ctx, q, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		if resp.Error != "" {
			return nil, fmt.Errorf("server: %s", resp.Error)
		}
		return nil, fmt.Errorf("server menolak pull tabel %s", table)
	}
	return resp.Data, nil
}

// Ping probes connectivity. Any well-formed response counts.
func (c *Client) Ping(ctx context.Context) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	q := url.Values{}
	q.Set("action", "ping")
	q.Set("callback", callbackName("ping"))
	var resp pullResponse
	return c.get(ctx, q, &resp)
}

// PushItem sends one record as an "add" operation.
func (c *Client) PushItem(ctx context.Context, table string, item json.RawMessage) error {
	return c.post(ctx, postPayload{Action: "add", Sheet: table, Data: item, APIKey: c.apiKey})
}

// UpdateItem sends one record as an "update" operation.
func (c *Client) UpdateItem(ctx context.Context, table, id string, item json.RawMessage) error {
	return c.post(ctx, postPayload{Action: "update", Sheet: table, ID: id, Data: item, APIKey: c.apiKey})
}

// DeleteItem requests remote deletion of one record.
func (c *Client) DeleteItem(ctx context.Context, table, id string) error {
	return c.post(ctx, postPayload{Action: "delete", Sheet: table, ID: id, APIKey: c.apiKey})
}

// SyncTable bulk-sends an entire local table in one "sync" operation.
func (c *Client) SyncTable(ctx context.Context, table string, items []json.RawMessage) error {
	return c.post(ctx, postPayload{Action: "sync", Sheet: table, Items: items, APIKey: c.apiKey})
}

type postPayload struct {
	Action string            `json:"action"`
	Sheet  string            `json:"sheet"`
	Data   json.RawMessage   `json:"data,omitempty"`
	ID     string            `json:"id,omitempty"`
	Items  []json.RawMessage `json:"items,omitempty"`
	APIKey string            `json:"apiKey"`
}

func (c *Client) get(ctx context.Context, q url.Values, out *pullResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return mapTransportErr(err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return mapTransportErr(err)
	}
	if err := json.Unmarshal(stripJSONP(body), out); err != nil {
		return fmt.Errorf("%w: respons tidak valid", ErrTransport)
	}
	return nil
}

func (c *Client) post(ctx context.Context, payload postPayload) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	// The script runtime expects text/plain to skip the CORS preflight.
	req.Header.Set("Content-Type", "text/plain")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return mapTransportErr(err)
	}
	// Opaque transport: drain and ignore the body, success is "dispatched".
	io.Copy(io.Discard, res.Body)
	res.Body.Close()
	return nil
}

// stripJSONP unwraps a "callbackName({...})" body into the inner JSON.
// Plain JSON bodies pass through unchanged.
func stripJSONP(body []byte) []byte {
	s := strings.TrimSpace(string(body))
	open := strings.Index(s, "(")
	end := strings.LastIndex(s, ")")
	if open > 0 && end > open && !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "[") {
		return []byte(s[open+1 : end])
	}
	return []byte(s)
}

func callbackName(tag string) string {
	return fmt.Sprintf("__jsonpCallback_%s_%d", tag, time.Now().UnixMilli())
}

func mapTransportErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return fmt.Errorf("%w: %v", ErrTransport, err)
}

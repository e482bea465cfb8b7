// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Metrolab

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks HTTP/JSON to a hrogd backend. It performs no retries:
// every error is terminal for that single request and retry policy, if
// any, belongs to the caller.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given base URL, e.g.
// "http://10.0.0.5:8000". A zero timeout falls back to 10 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// ListDevices fetches the full device inventory.
func (c *Client) ListDevices(ctx context.Context) ([]Device, error) {
	var devices []Device
	if err := c.do(ctx, http.MethodGet, "/devices/", nil, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// CreateDevice registers a new device. The payload is validated
// locally; nothing is sent on violation.
func (c *Client) CreateDevice(ctx context.Context, payload DevicePayload) (*Device, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}
	var dev Device
	if err := c.do(ctx, http.MethodPost, "/devices/", payload, &dev); err != nil {
		return nil, err
	}
	return &dev, nil
}

// UpdateDevice replaces the record for id. A missing id surfaces as an
// APIError with status 404 (see IsNotFound).
func (c *Client) UpdateDevice(ctx context.Context, id string, payload DevicePayload) (*Device, error) {
	if id == "" {
		return nil, &ValidationError{Field: "id", Message: "device id required"}
	}
	if err := validatePayload(payload); err != nil {
		return nil, err
	}
	var dev Device
	if err := c.do(ctx, http.MethodPut, "/devices/"+url.PathEscape(id), payload, &dev); err != nil {
		return nil, err
	}
	return &dev, nil
}

// DeleteDevice removes the record for id. Conflict and not-found
// responses are surfaced verbatim as APIErrors.
func (c *Client) DeleteDevice(ctx context.Context, id string) error {
	if id == "" {
		return &ValidationError{Field: "id", Message: "device id required"}
	}
	return c.do(ctx, http.MethodDelete, "/devices/"+url.PathEscape(id), nil, nil)
}

// Execute runs a command against a device through the backend. The
// device id precondition is checked by callers and enforced again here
// rather than issuing a malformed request.
func (c *Client) Execute(ctx context.Context, req CommandRequest) (*CommandResponse, error) {
	if req.DeviceID == "" {
		return nil, &ValidationError{Field: "device_id", Message: "no device selected"}
	}
	if req.CommandCode == "" {
		return nil, &ValidationError{Field: "command_code", Message: "command code required"}
	}
	var resp CommandResponse
	if err := c.do(ctx, http.MethodPost, "/commands/execute", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StatusSnapshots fetches the newest status snapshots for a device.
// source filters on the snapshot origin ("poller", "manual"); empty
// means all.
func (c *Client) StatusSnapshots(ctx context.Context, deviceID string, limit int, source string) ([]StatusSnapshot, error) {
	if deviceID == "" {
		return nil, &ValidationError{Field: "device_id", Message: "device id required"}
	}
	q := url.Values{}
	q.Set("device_id", deviceID)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if source != "" {
		q.Set("source", source)
	}
	var rows []StatusSnapshot
	if err := c.do(ctx, http.MethodGet, "/monitoring/status_snapshots?"+q.Encode(), nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// CommandHistory fetches the newest command-history rows for a device.
func (c *Client) CommandHistory(ctx context.Context, deviceID string, limit int) ([]CommandHistoryRecord, error) {
	if deviceID == "" {
		return nil, &ValidationError{Field: "device_id", Message: "device id required"}
	}
	q := url.Values{}
	q.Set("device_id", deviceID)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var rows []CommandHistoryRecord
	if err := c.do(ctx, http.MethodGet, "/monitoring/command_history?"+q.Encode(), nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func validatePayload(p DevicePayload) error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if strings.TrimSpace(p.Host) == "" {
		return &ValidationError{Field: "moxa_host", Message: "must not be empty"}
	}
	if p.Port < 1 || p.Port > 65535 {
		return &ValidationError{Field: "moxa_port", Message: fmt.Sprintf("%d outside [1, 65535]", p.Port)}
	}
	return nil
}

// do issues one request and decodes the JSON response into out (when
// non-nil). Transport failures become RequestErrors; non-2xx responses
// become APIErrors carrying the raw body.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	op := method + " " + path

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Op: op, Err: err}
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &RequestError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Metrolab

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/metrolab/hrogstat/pkg/hrog"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second)
}

func TestListDevices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/devices/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"d1","name":"HROG-5 #1","description":null,"moxa_host":"10.0.0.1","moxa_port":4001,"is_enabled":true},
			{"id":"d2","name":"HROG-5 #2","description":"rack B","moxa_host":"10.0.0.2","moxa_port":4002,"is_enabled":false}
		]`))
	})

	devices, err := c.ListDevices(context.Background())
	if err != nil {
		t.Fatalf("ListDevices failed: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("got %d devices, want 2", len(devices))
	}
	if devices[0].ID != "d1" || devices[0].Port != 4001 || !devices[0].Enabled {
		t.Errorf("device[0] decoded wrong: %+v", devices[0])
	}
	if devices[1].Description == nil || *devices[1].Description != "rack B" {
		t.Errorf("device[1] description decoded wrong: %+v", devices[1])
	}
}

func TestCreateDevice_ValidatesBeforeNetwork(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	tests := []struct {
		name    string
		payload DevicePayload
	}{
		{name: "empty name", payload: DevicePayload{Host: "10.0.0.1", Port: 4001}},
		{name: "empty host", payload: DevicePayload{Name: "A", Port: 4001}},
		{name: "port zero", payload: DevicePayload{Name: "A", Host: "10.0.0.1", Port: 0}},
		{name: "port 65536", payload: DevicePayload{Name: "A", Host: "10.0.0.1", Port: 65536}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.CreateDevice(context.Background(), tt.payload)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
		})
	}

	if called {
		t.Error("invalid payload reached the network")
	}
}

func TestCreateDevice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/devices/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var p DevicePayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Fatalf("decoding payload: %v", err)
		}
		if p.Name != "A" || p.Host != "10.0.0.1" || p.Port != 4001 || !p.Enabled {
			t.Errorf("payload = %+v", p)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Device{
			ID: "srv-assigned", Name: p.Name, Host: p.Host, Port: p.Port, Enabled: p.Enabled,
		})
	})

	dev, err := c.CreateDevice(context.Background(), DevicePayload{
		Name: "A", Host: "10.0.0.1", Port: 4001, Enabled: true,
	})
	if err != nil {
		t.Fatalf("CreateDevice failed: %v", err)
	}
	if dev.ID != "srv-assigned" {
		t.Errorf("ID = %q, want server-assigned id", dev.ID)
	}
}

func TestDeleteDevice_SurfacesRemoteErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"detail":"device is referenced by history"}`))
	})

	err := c.DeleteDevice(context.Background(), "d1")
	if !IsConflict(err) {
		t.Fatalf("IsConflict(%v) = false", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T", err)
	}
	if apiErr.Body != `{"detail":"device is referenced by history"}` {
		t.Errorf("body not preserved verbatim: %q", apiErr.Body)
	}
}

func TestUpdateDevice_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Device not found"}`))
	})

	_, err := c.UpdateDevice(context.Background(), "missing", DevicePayload{
		Name: "A", Host: "10.0.0.1", Port: 4001,
	})
	if !IsNotFound(err) {
		t.Fatalf("IsNotFound(%v) = false", err)
	}
}

func TestExecute(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/commands/execute" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req CommandRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.DeviceID != "d1" || req.CommandCode != hrog.CmdSetFreq {
			t.Errorf("request = %+v", req)
		}
		if req.Params["freq_hz"] != 10.5 {
			t.Errorf("params = %v", req.Params)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"status":"ok","data":{"freq":10.5},"duration_ms":240}`))
	})

	resp, err := c.Execute(context.Background(), CommandRequest{
		DeviceID:    "d1",
		CommandCode: hrog.CmdSetFreq,
		Params:      map[string]any{"freq_hz": 10.5},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !resp.Success || resp.DurationMS != 240 {
		t.Errorf("response = %+v", resp)
	}
}

func TestExecute_RequiresDeviceID(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	_, err := c.Execute(context.Background(), CommandRequest{CommandCode: hrog.CmdGetStatus})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if called {
		t.Error("request without device id reached the network")
	}
}

func TestExecute_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on
	c := NewClient(srv.URL, time.Second)

	_, err := c.Execute(context.Background(), CommandRequest{
		DeviceID: "d1", CommandCode: hrog.CmdGetStatus,
	})
	var re *RequestError
	if !errors.As(err, &re) {
		t.Fatalf("error = %v (%T), want *RequestError", err, err)
	}
}

func TestMonitoringQueries(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/monitoring/status_snapshots":
			if q.Get("device_id") != "d1" || q.Get("limit") != "50" || q.Get("source") != "poller" {
				t.Errorf("query = %v", q)
			}
			w.Write([]byte(`[{"id":"s1","device_id":"d1","source":"poller","success":true,"status":"ok","data":null,"collected_at":"2026-08-30T12:00:00Z","duration_ms":180}]`))
		case "/monitoring/command_history":
			if q.Get("device_id") != "d1" || q.Get("limit") != "20" {
				t.Errorf("query = %v", q)
			}
			w.Write([]byte(`[]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	snaps, err := c.StatusSnapshots(context.Background(), "d1", 50, "poller")
	if err != nil {
		t.Fatalf("StatusSnapshots failed: %v", err)
	}
	if len(snaps) != 1 || snaps[0].Source != "poller" {
		t.Errorf("snapshots = %+v", snaps)
	}

	hist, err := c.CommandHistory(context.Background(), "d1", 20)
	if err != nil {
		t.Fatalf("CommandHistory failed: %v", err)
	}
	if len(hist) != 0 {
		t.Errorf("history = %+v", hist)
	}
}

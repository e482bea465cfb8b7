// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Metrolab

package backend

import (
	"time"

	"github.com/metrolab/hrogstat/pkg/hrog"
)

// Device is one HROG-5 channel behind a MOXA gateway, as recorded in
// the hrogd inventory. IDs are assigned by the backend.
type Device struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Host        string  `json:"moxa_host"`
	Port        int     `json:"moxa_port"`
	Enabled     bool    `json:"is_enabled"`
}

// DevicePayload is the body of a create or update request. The id is
// never client-supplied.
type DevicePayload struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Host        string  `json:"moxa_host"`
	Port        int     `json:"moxa_port"`
	Enabled     bool    `json:"is_enabled"`
}

// CommandRequest is the body of POST /commands/execute.
type CommandRequest struct {
	DeviceID    string         `json:"device_id"`
	CommandCode hrog.Command   `json:"command_code"`
	Params      map[string]any `json:"params"`
	UserID      *string        `json:"user_id,omitempty"`
}

// CommandResponse is the execution result as reported by the backend.
// Data carries the command-specific read-back payload; for GET_STATUS
// it decodes via hrog.DecodeStatus.
type CommandResponse struct {
	Success    bool           `json:"success"`
	Status     string         `json:"status"`
	Data       map[string]any `json:"data"`
	DurationMS int            `json:"duration_ms"`
}

// StatusSnapshot is one row of GET /monitoring/status_snapshots.
type StatusSnapshot struct {
	ID          string         `json:"id"`
	DeviceID    string         `json:"device_id"`
	Source      string         `json:"source"`
	Success     bool           `json:"success"`
	Status      string         `json:"status"`
	Data        map[string]any `json:"data"`
	CollectedAt time.Time      `json:"collected_at"`
	DurationMS  int            `json:"duration_ms"`
}

// CommandHistoryRecord is one row of GET /monitoring/command_history.
// Only mutating commands are recorded by the backend.
type CommandHistoryRecord struct {
	ID          string         `json:"id"`
	DeviceID    string         `json:"device_id"`
	UserID      *string        `json:"user_id"`
	CommandCode hrog.Command   `json:"command_code"`
	Params      map[string]any `json:"params"`
	Success     bool           `json:"success"`
	Status      string         `json:"status"`
	ResultData  map[string]any `json:"result_data"`
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  time.Time      `json:"finished_at"`
	DurationMS  int            `json:"duration_ms"`
	CreatedAt   time.Time      `json:"created_at"`
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Metrolab

// Package session holds the operator-session state machine: which
// device is active, what its last decoded status was, and which
// in-flight results are still fresh enough to apply.
//
// A Session is not internally synchronized. All mutation happens from
// a single owner (the Bubble Tea update loop in the console, or the
// test). I/O never happens here: callers obtain a Token, perform the
// backend call themselves, and feed the result back through one of the
// Apply methods, which either applies it or drops it as stale.
package session

import (
	"fmt"

	"github.com/metrolab/hrogstat/pkg/backend"
	"github.com/metrolab/hrogstat/pkg/hrog"
)

// State is the selection state of the session.
type State int

const (
	Unselected State = iota
	SelectedEnabled
	SelectedDisabled
)

func (s State) String() string {
	switch s {
	case SelectedEnabled:
		return "selected"
	case SelectedDisabled:
		return "selected (disabled)"
	default:
		return "unselected"
	}
}

// Connection is the displayed link state for the active device.
type Connection int

const (
	ConnUnknown Connection = iota
	ConnPending
	ConnOK
	ConnBad
)

func (c Connection) String() string {
	switch c {
	case ConnPending:
		return "pending"
	case ConnOK:
		return "ok"
	case ConnBad:
		return "bad"
	default:
		return "unknown"
	}
}

// Token tags one in-flight backend request with the device it targets,
// the command, and a monotonic sequence number. Results whose token no
// longer matches the freshest applied state are discarded, never
// surfaced and never counted.
type Token struct {
	DeviceID string
	Command  hrog.Command
	Seq      uint64
}

// Outcome classifies what an Apply call did with a result.
type Outcome int

const (
	// Dropped: the result was stale (device changed, or an overlapping
	// newer request already landed). Nothing was mutated.
	Dropped Outcome = iota
	Applied
	Failed
)

// StatusResult reports how a GET_STATUS result was handled.
type StatusResult struct {
	Outcome Outcome
	Detail  string
}

// CommandResult reports how a command result was handled. FollowUp is
// non-nil after a successful mutating command: the caller must execute
// a GET_STATUS for it so the view always reflects what the device
// reports, never what the request asked for.
type CommandResult struct {
	Outcome  Outcome
	Detail   string
	FollowUp *Token
}

// Session owns the selected-device state and the error ledger.
type Session struct {
	devices    []backend.Device
	selectedID string
	state      State
	conn       Connection

	lastStatus     *hrog.Status
	lastDurationMS int

	seq        uint64
	appliedSeq uint64

	autoRefresh bool
	ledger      Ledger
}

// New creates an empty session in the Unselected state.
func New() *Session {
	return &Session{state: Unselected, conn: ConnUnknown}
}

// Devices returns the cached registry.
func (s *Session) Devices() []backend.Device { return s.devices }

// State returns the selection state.
func (s *Session) State() State { return s.state }

// Connection returns the displayed link state.
func (s *Session) Connection() Connection { return s.conn }

// SelectedID returns the active device id, or "".
func (s *Session) SelectedID() string { return s.selectedID }

// SelectedDevice returns the cached record of the active device.
func (s *Session) SelectedDevice() *backend.Device {
	return s.lookup(s.selectedID)
}

// LastStatus returns the most recent decoded status, or nil.
func (s *Session) LastStatus() *hrog.Status { return s.lastStatus }

// LastDurationMS returns the backend-reported duration of the last
// applied status fetch.
func (s *Session) LastDurationMS() int { return s.lastDurationMS }

// ErrorCount returns the session error ledger value.
func (s *Session) ErrorCount() int { return s.ledger.Count() }

// AutoRefresh reports whether periodic refresh is active.
func (s *Session) AutoRefresh() bool { return s.autoRefresh }

// SetAutoRefresh records the auto-refresh flag. The ticker itself is
// owned by the caller (see Refresher).
func (s *Session) SetAutoRefresh(active bool) { s.autoRefresh = active }

func (s *Session) lookup(id string) *backend.Device {
	if id == "" {
		return nil
	}
	for i := range s.devices {
		if s.devices[i].ID == id {
			return &s.devices[i]
		}
	}
	return nil
}

func (s *Session) nextToken(cmd hrog.Command) *Token {
	s.seq++
	return &Token{DeviceID: s.selectedID, Command: cmd, Seq: s.seq}
}

// ApplyDevices replaces the registry cache wholesale with a freshly
// fetched list. When preserveSelection is true the current selection
// is re-validated against the new list; otherwise the session drops to
// Unselected and the error ledger resets (clean-state reload, the
// session-start equivalent). Returns true when the selection was
// dropped, so the caller can stop the auto-refresh ticker.
func (s *Session) ApplyDevices(devices []backend.Device, preserveSelection bool) (deselected bool) {
	s.devices = devices

	if !preserveSelection {
		s.ledger.Reset()
		if s.selectedID != "" {
			s.Deselect()
			return true
		}
		return false
	}

	if s.selectedID == "" {
		return false
	}

	dev := s.lookup(s.selectedID)
	if dev == nil {
		// The active device disappeared from the inventory.
		s.Deselect()
		return true
	}
	if !dev.Enabled && s.state == SelectedEnabled {
		s.state = SelectedDisabled
		s.lastStatus = nil
		s.lastDurationMS = 0
		s.conn = ConnBad
	}
	if dev.Enabled && s.state == SelectedDisabled {
		s.state = SelectedEnabled
	}
	return false
}

// RecordRegistryFailure counts a failed registry call.
func (s *Session) RecordRegistryFailure() { s.ledger.Increment() }

// Select activates a device from the registry cache.
//
// Unknown id: defensive no-op, the session stays as it was. Disabled
// device: SelectedDisabled with a cleared status and a bad connection,
// and no executor call is made. Enabled device: SelectedEnabled plus a
// refresh token the caller must execute exactly once.
func (s *Session) Select(id string) (refresh *Token) {
	dev := s.lookup(id)
	if dev == nil {
		return nil
	}

	s.selectedID = id
	s.lastStatus = nil
	s.lastDurationMS = 0

	if !dev.Enabled {
		s.state = SelectedDisabled
		s.conn = ConnBad
		return nil
	}

	s.state = SelectedEnabled
	s.conn = ConnPending
	return s.nextToken(hrog.CmdGetStatus)
}

// Deselect clears the selection and every piece of derived view state.
func (s *Session) Deselect() {
	s.selectedID = ""
	s.state = Unselected
	s.conn = ConnUnknown
	s.lastStatus = nil
	s.lastDurationMS = 0
	s.autoRefresh = false
}

// BeginRefresh starts a status fetch for the active device. Permitted
// only in SelectedEnabled.
func (s *Session) BeginRefresh() (*Token, error) {
	if s.state != SelectedEnabled {
		return nil, fmt.Errorf("no enabled device selected")
	}
	return s.nextToken(hrog.CmdGetStatus), nil
}

// BeginCommand starts dispatch of cmd against the active device.
// Permitted only in SelectedEnabled; params must have been built (and
// therefore validated) by hrog.BuildParams.
func (s *Session) BeginCommand(cmd hrog.Command) (*Token, error) {
	if s.state != SelectedEnabled {
		return nil, fmt.Errorf("no enabled device selected")
	}
	if !hrog.Known(cmd) {
		return nil, fmt.Errorf("unknown command %q", cmd)
	}
	return s.nextToken(cmd), nil
}

// fresh reports whether a result for tok may still be applied: the
// device must still be selected and no newer result may have landed.
// Last-request-wins by sequence number.
func (s *Session) fresh(tok Token) bool {
	return tok.DeviceID == s.selectedID && tok.Seq > s.appliedSeq
}

// ApplyStatus feeds back the result of a GET_STATUS issued for tok.
// Stale results are dropped silently. Failures count in the ledger and
// mark the connection bad; the previous decoded status is kept so a
// transient failure does not blank the panel.
func (s *Session) ApplyStatus(tok Token, resp *backend.CommandResponse, execErr error) StatusResult {
	if !s.fresh(tok) {
		return StatusResult{Outcome: Dropped}
	}
	s.appliedSeq = tok.Seq

	if execErr != nil {
		s.ledger.Increment()
		s.conn = ConnBad
		return StatusResult{Outcome: Failed, Detail: execErr.Error()}
	}
	if !resp.Success {
		s.ledger.Increment()
		s.conn = ConnBad
		return StatusResult{Outcome: Failed, Detail: resp.Status}
	}

	st, err := hrog.DecodeStatus(resp.Data)
	if err != nil {
		s.ledger.Increment()
		s.conn = ConnBad
		return StatusResult{Outcome: Failed, Detail: err.Error()}
	}

	s.lastStatus = st
	s.lastDurationMS = resp.DurationMS
	s.conn = ConnOK
	return StatusResult{Outcome: Applied}
}

// ApplyCommandResult feeds back the result of a command issued for
// tok. A successful mutating command yields a FollowUp token for the
// implicit GET_STATUS refresh.
func (s *Session) ApplyCommandResult(tok Token, resp *backend.CommandResponse, execErr error) CommandResult {
	if !s.fresh(tok) {
		return CommandResult{Outcome: Dropped}
	}
	s.appliedSeq = tok.Seq

	if execErr != nil {
		s.ledger.Increment()
		return CommandResult{Outcome: Failed, Detail: execErr.Error()}
	}
	if !resp.Success {
		s.ledger.Increment()
		return CommandResult{Outcome: Failed, Detail: resp.Status}
	}

	res := CommandResult{Outcome: Applied, Detail: resp.Status}
	if hrog.IsMutating(tok.Command) {
		res.FollowUp = s.nextToken(hrog.CmdGetStatus)
	}
	return res
}

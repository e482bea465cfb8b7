// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Metrolab

package hrog

import (
	"fmt"
	"math"
	"strconv"
)

// Command is a logical operation understood by the hrogd execution
// endpoint. The backend maps each code onto the HROG-5 ASCII command
// set and returns the read-back value for every write.
type Command string

const (
	CmdGetStatus         Command = "GET_STATUS"
	CmdSetFreq           Command = "SET_FREQ"
	CmdSetPhase          Command = "SET_PHASE"
	CmdSetFFOF           Command = "SET_FFOF"
	CmdSetTimeOffset     Command = "SET_TIME_OFFSET"
	CmdStepFreq          Command = "STEP_FREQ"
	CmdStepPhase         Command = "STEP_PHASE"
	CmdStepTimeOffset    Command = "STEP_TIME_OFFSET"
	CmdSetPPSWidth       Command = "SET_PPS_WIDTH"
	CmdSync              Command = "SYNC"
	CmdResetPhaseCounter Command = "RESET_PHASE_COUNTER"
	CmdClearStatus       Command = "CLEAR_STATUS"
)

// Commands lists every known command in display order.
var Commands = []Command{
	CmdGetStatus,
	CmdSetFreq,
	CmdSetPhase,
	CmdSetFFOF,
	CmdSetTimeOffset,
	CmdStepFreq,
	CmdStepPhase,
	CmdStepTimeOffset,
	CmdSetPPSWidth,
	CmdSync,
	CmdResetPhaseCounter,
	CmdClearStatus,
}

// ParamError reports an operator input that failed local validation.
// Nothing is sent to the backend when BuildParams returns one.
type ParamError struct {
	Command Command
	Key     string
	Message string
}

func (e *ParamError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %s", e.Command, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Command, e.Key, e.Message)
}

// paramSpec describes the single parameter a command accepts.
type paramSpec struct {
	key     string
	unit    string
	integer bool
	// inclusive range, applied only when bounded is true
	bounded  bool
	min, max float64
}

var paramSpecs = map[Command]paramSpec{
	// Ranges per the HROG-5 manual: FREQ 0..1.0 Hz, FFOF 0..2.0E-7,
	// PPSW index 0..7. The remaining numeric commands only require a
	// finite value; the instrument rejects out-of-range steps itself.
	CmdSetFreq:        {key: "freq_hz", unit: "Hz", bounded: true, min: 0, max: 1.0},
	CmdSetPhase:       {key: "phase_deg", unit: "deg"},
	CmdSetFFOF:        {key: "ffof", bounded: true, min: 0, max: 2.0e-7},
	CmdSetTimeOffset:  {key: "toffset_ns", unit: "ns"},
	CmdStepFreq:       {key: "step_hz", unit: "Hz"},
	CmdStepPhase:      {key: "step_deg", unit: "deg"},
	CmdStepTimeOffset: {key: "step_ns", unit: "ns"},
	CmdSetPPSWidth:    {key: "pwidth_index", integer: true, bounded: true, min: 0, max: 7},
}

// PPSWidthsUS maps the PPSW index to the 1PPS pulse width in
// microseconds.
var PPSWidthsUS = map[int]float64{
	0: 0.8,
	1: 3.2,
	2: 12.8,
	3: 51.2,
	4: 102.4,
	5: 204.8,
	6: 409.6,
	7: 819.2,
}

// Known reports whether cmd is part of the catalogue.
func Known(cmd Command) bool {
	_, ok := paramSpecs[cmd]
	if ok {
		return true
	}
	switch cmd {
	case CmdGetStatus, CmdSync, CmdResetPhaseCounter, CmdClearStatus:
		return true
	}
	return false
}

// NeedsParam reports whether cmd takes an operator-supplied value.
func NeedsParam(cmd Command) bool {
	_, ok := paramSpecs[cmd]
	return ok
}

// ParamKey returns the wire name of the command's parameter, or "".
func ParamKey(cmd Command) string {
	return paramSpecs[cmd].key
}

// ParamUnit returns the display unit of the command's parameter, or "".
func ParamUnit(cmd Command) string {
	return paramSpecs[cmd].unit
}

// IsMutating reports whether cmd changes instrument state. Mutating
// commands get a follow-up GET_STATUS after success and are the only
// ones recorded in the backend's command history.
func IsMutating(cmd Command) bool {
	return cmd != CmdGetStatus
}

// BuildParams parses the raw operator input for cmd into the params
// mapping the execution endpoint expects. Non-finite or out-of-range
// values fail with a *ParamError before anything touches the network.
func BuildParams(cmd Command, raw string) (map[string]any, error) {
	if !Known(cmd) {
		return nil, &ParamError{Command: cmd, Message: "unknown command"}
	}

	spec, ok := paramSpecs[cmd]
	if !ok {
		// GET_STATUS, SYNC, RESET_PHASE_COUNTER, CLEAR_STATUS
		if raw != "" {
			return nil, &ParamError{Command: cmd, Message: "command takes no parameter"}
		}
		return nil, nil
	}

	if raw == "" {
		return nil, &ParamError{Command: cmd, Key: spec.key, Message: "value required"}
	}

	if spec.integer {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &ParamError{Command: cmd, Key: spec.key, Message: fmt.Sprintf("not an integer: %q", raw)}
		}
		if spec.bounded && (float64(n) < spec.min || float64(n) > spec.max) {
			return nil, &ParamError{Command: cmd, Key: spec.key,
				Message: fmt.Sprintf("%d outside [%d, %d]", n, int(spec.min), int(spec.max))}
		}
		return map[string]any{spec.key: n}, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, &ParamError{Command: cmd, Key: spec.key, Message: fmt.Sprintf("not a finite number: %q", raw)}
	}
	if spec.bounded && (v < spec.min || v > spec.max) {
		return nil, &ParamError{Command: cmd, Key: spec.key,
			Message: fmt.Sprintf("%g outside [%g, %g]", v, spec.min, spec.max)}
	}
	return map[string]any{spec.key: v}, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Metrolab

package hrog

import (
	"fmt"
	"math"
)

// StatusRegister holds the six independent error flags of the HROG-5
// status register (*SRE). Raw keeps the original register value when
// the backend supplied one.
type StatusRegister struct {
	Raw                int
	ExtRefError        bool
	IntOscError        bool
	PLLLockError       bool
	TuningVoltageError bool
	InvalidParameter   bool
	InvalidCommand     bool
}

// Status register bit masks per the HROG-5 manual. Bits 0x40 and 0x80
// are reserved.
const (
	maskExtRef        = 0x01
	maskIntOsc        = 0x02
	maskPLLLock       = 0x04
	maskTuningVoltage = 0x08
	maskInvalidParam  = 0x10
	maskInvalidCmd    = 0x20
)

// RegisterFromRaw expands a raw *SRE value into its flags.
func RegisterFromRaw(raw int) *StatusRegister {
	return &StatusRegister{
		Raw:                raw,
		ExtRefError:        raw&maskExtRef != 0,
		IntOscError:        raw&maskIntOsc != 0,
		PLLLockError:       raw&maskPLLLock != 0,
		TuningVoltageError: raw&maskTuningVoltage != 0,
		InvalidParameter:   raw&maskInvalidParam != 0,
		InvalidCommand:     raw&maskInvalidCmd != 0,
	}
}

// AnyStatusError is the single source of truth for "device unhealthy".
// A nil register means the register could not be read; that decodes to
// unknown downstream, not to an error here.
func AnyStatusError(reg *StatusRegister) bool {
	if reg == nil {
		return false
	}
	return reg.ExtRefError ||
		reg.IntOscError ||
		reg.PLLLockError ||
		reg.TuningVoltageError ||
		reg.InvalidParameter ||
		reg.InvalidCommand
}

// PLLStatus holds the PLL? diagnostic readings. Absence of the whole
// block (nil *PLLStatus) is distinct from all-fields-present readings.
type PLLStatus struct {
	OscDBm *float64
	RefDBm *float64
	LockV  *float64
	PLLV   *float64
}

// Status is the decoded view of a GET_STATUS response payload. Every
// numeric is a pointer: the instrument answering with nothing for a
// field must never be displayed as zero.
type Status struct {
	Temperature  *float64
	Freq         *float64
	Phase        *float64
	FFOF         *float64
	TimeOffsetNS *float64
	Register     *StatusRegister
	PLL          *PLLStatus
}

// AnyError reports the aggregate health flag for the snapshot.
func (s *Status) AnyError() bool {
	if s == nil {
		return false
	}
	return AnyStatusError(s.Register)
}

// HasRegister reports whether the status register was readable. A
// missing register renders as unknown health, never as healthy.
func (s *Status) HasRegister() bool {
	return s != nil && s.Register != nil
}

// DecodeError reports a GET_STATUS payload whose shape does not match
// the documented status schema. Unrecognized shapes are rejected, not
// guessed at.
type DecodeError struct {
	Field   string
	Message string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("status field %q: %s", e.Field, e.Message)
}

// DecodeStatus translates the raw `data` mapping of a GET_STATUS
// response into a Status. Missing or null fields decode to nil;
// wrongly-typed fields are decode errors. Extra fields the backend may
// add (e.g. baud) are ignored.
func DecodeStatus(data map[string]any) (*Status, error) {
	if data == nil {
		return nil, &DecodeError{Field: "data", Message: "payload is null"}
	}

	st := &Status{}
	var err error

	if st.Temperature, err = numField(data, "temperature"); err != nil {
		return nil, err
	}
	if st.Freq, err = numField(data, "freq"); err != nil {
		return nil, err
	}
	if st.Phase, err = numField(data, "phase"); err != nil {
		return nil, err
	}
	if st.FFOF, err = numField(data, "ffof"); err != nil {
		return nil, err
	}
	if st.TimeOffsetNS, err = numField(data, "time_offset_ns"); err != nil {
		return nil, err
	}

	if st.Register, err = decodeRegister(data["status_register"]); err != nil {
		return nil, err
	}
	if st.PLL, err = decodePLL(data["pll"]); err != nil {
		return nil, err
	}

	return st, nil
}

func decodeRegister(v any) (*StatusRegister, error) {
	if v == nil {
		return nil, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &DecodeError{Field: "status_register", Message: fmt.Sprintf("expected object, got %T", v)}
	}

	reg := &StatusRegister{}
	flags := []struct {
		key string
		dst *bool
	}{
		{"ext_ref_error", &reg.ExtRefError},
		{"int_osc_error", &reg.IntOscError},
		{"pll_lock_error", &reg.PLLLockError},
		{"tuning_voltage_error", &reg.TuningVoltageError},
		{"invalid_parameter", &reg.InvalidParameter},
		{"invalid_command", &reg.InvalidCommand},
	}
	for _, f := range flags {
		raw, present := obj[f.key]
		if !present {
			return nil, &DecodeError{Field: "status_register." + f.key, Message: "flag missing"}
		}
		b, ok := raw.(bool)
		if !ok {
			return nil, &DecodeError{Field: "status_register." + f.key, Message: fmt.Sprintf("expected bool, got %T", raw)}
		}
		*f.dst = b
	}

	if raw, present := obj["raw"]; present && raw != nil {
		n, ok := raw.(float64)
		if !ok {
			return nil, &DecodeError{Field: "status_register.raw", Message: fmt.Sprintf("expected number, got %T", raw)}
		}
		reg.Raw = int(n)
	}

	return reg, nil
}

func decodePLL(v any) (*PLLStatus, error) {
	if v == nil {
		return nil, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &DecodeError{Field: "pll", Message: fmt.Sprintf("expected object, got %T", v)}
	}

	pll := &PLLStatus{}
	var err error
	if pll.OscDBm, err = numField(obj, "osc_dbm"); err != nil {
		return nil, &DecodeError{Field: "pll.osc_dbm", Message: err.Error()}
	}
	if pll.RefDBm, err = numField(obj, "ref_dbm"); err != nil {
		return nil, &DecodeError{Field: "pll.ref_dbm", Message: err.Error()}
	}
	if pll.LockV, err = numField(obj, "lock_v"); err != nil {
		return nil, &DecodeError{Field: "pll.lock_v", Message: err.Error()}
	}
	if pll.PLLV, err = numField(obj, "pll_v"); err != nil {
		return nil, &DecodeError{Field: "pll.pll_v", Message: err.Error()}
	}
	return pll, nil
}

// numField extracts an optional numeric field. Absent or null -> nil.
func numField(m map[string]any, key string) (*float64, error) {
	raw, present := m[key]
	if !present || raw == nil {
		return nil, nil
	}
	n, ok := raw.(float64)
	if !ok {
		return nil, &DecodeError{Field: key, Message: fmt.Sprintf("expected number, got %T", raw)}
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, &DecodeError{Field: key, Message: "not a finite number"}
	}
	return &n, nil
}

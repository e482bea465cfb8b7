// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Metrolab

package hrog

import (
	"encoding/json"
	"testing"
)

func registerMap(overrides map[string]any) map[string]any {
	m := map[string]any{
		"ext_ref_error":        false,
		"int_osc_error":        false,
		"pll_lock_error":       false,
		"tuning_voltage_error": false,
		"invalid_parameter":    false,
		"invalid_command":      false,
	}
	for k, v := range overrides {
		m[k] = v
	}
	return m
}

func TestAnyStatusError(t *testing.T) {
	tests := []struct {
		name string
		reg  *StatusRegister
		want bool
	}{
		{name: "nil register", reg: nil, want: false},
		{name: "all clear", reg: &StatusRegister{}, want: false},
		{name: "ext ref", reg: &StatusRegister{ExtRefError: true}, want: true},
		{name: "int osc", reg: &StatusRegister{IntOscError: true}, want: true},
		{name: "pll lock", reg: &StatusRegister{PLLLockError: true}, want: true},
		{name: "tuning voltage", reg: &StatusRegister{TuningVoltageError: true}, want: true},
		{name: "invalid parameter", reg: &StatusRegister{InvalidParameter: true}, want: true},
		{name: "invalid command", reg: &StatusRegister{InvalidCommand: true}, want: true},
		{name: "several flags", reg: &StatusRegister{ExtRefError: true, InvalidCommand: true}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnyStatusError(tt.reg); got != tt.want {
				t.Errorf("AnyStatusError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegisterFromRaw(t *testing.T) {
	tests := []struct {
		raw  int
		want StatusRegister
	}{
		{raw: 0x00, want: StatusRegister{Raw: 0x00}},
		{raw: 0x01, want: StatusRegister{Raw: 0x01, ExtRefError: true}},
		{raw: 0x04, want: StatusRegister{Raw: 0x04, PLLLockError: true}},
		{raw: 0x10, want: StatusRegister{Raw: 0x10, InvalidParameter: true}},
		{raw: 0x3F, want: StatusRegister{
			Raw: 0x3F, ExtRefError: true, IntOscError: true, PLLLockError: true,
			TuningVoltageError: true, InvalidParameter: true, InvalidCommand: true,
		}},
		// Reserved bits must not raise any flag
		{raw: 0xC0, want: StatusRegister{Raw: 0xC0}},
	}

	for _, tt := range tests {
		got := RegisterFromRaw(tt.raw)
		if *got != tt.want {
			t.Errorf("RegisterFromRaw(0x%02X) = %+v, want %+v", tt.raw, *got, tt.want)
		}
	}
}

func TestDecodeStatus(t *testing.T) {
	data := map[string]any{
		"temperature":    42.0,
		"freq":           0.001,
		"phase":          nil,
		"ffof":           2.0e-10,
		"time_offset_ns": 100.5,
		"status_register": registerMap(map[string]any{
			"ext_ref_error": true,
			"raw":           1.0,
		}),
		"pll": map[string]any{
			"osc_dbm": 12.0,
			"ref_dbm": 15.0,
			"lock_v":  0.3,
			"pll_v":   -0.2,
		},
		// Extra fields from the backend must be tolerated
		"baud": 9600.0,
	}

	st, err := DecodeStatus(data)
	if err != nil {
		t.Fatalf("DecodeStatus failed: %v", err)
	}

	if st.Temperature == nil || *st.Temperature != 42.0 {
		t.Errorf("Temperature = %v, want 42", st.Temperature)
	}
	if st.Freq == nil || *st.Freq != 0.001 {
		t.Errorf("Freq = %v, want 0.001", st.Freq)
	}
	if st.Phase != nil {
		t.Errorf("Phase = %v, want nil for null field", *st.Phase)
	}
	if st.Register == nil {
		t.Fatal("Register decoded to nil")
	}
	if !st.Register.ExtRefError || st.Register.IntOscError {
		t.Errorf("register flags wrong: %+v", st.Register)
	}
	if st.Register.Raw != 1 {
		t.Errorf("Register.Raw = %d, want 1", st.Register.Raw)
	}
	if !st.AnyError() {
		t.Error("AnyError() = false with ext_ref_error raised")
	}
	if st.PLL == nil || st.PLL.PLLV == nil || *st.PLL.PLLV != -0.2 {
		t.Errorf("PLL block decoded wrong: %+v", st.PLL)
	}
}

func TestDecodeStatus_NullRegisterIsUnknown(t *testing.T) {
	st, err := DecodeStatus(map[string]any{
		"temperature":     40.1,
		"status_register": nil,
		"pll":             nil,
	})
	if err != nil {
		t.Fatalf("DecodeStatus failed: %v", err)
	}
	if st.Register != nil {
		t.Error("null status_register must decode to nil register")
	}
	if st.HasRegister() {
		t.Error("HasRegister() = true for null register")
	}
	if st.AnyError() {
		t.Error("unknown register must not report an error")
	}
	if got := FormatHealth(st.Register); got != Unknown {
		t.Errorf("FormatHealth(nil) = %q, want %q", got, Unknown)
	}
	if st.PLL != nil {
		t.Error("null pll must decode to nil block")
	}
}

func TestDecodeStatus_RejectsUnrecognizedShapes(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
	}{
		{name: "nil payload", data: nil},
		{name: "string temperature", data: map[string]any{"temperature": "40.1C"}},
		{name: "register not an object", data: map[string]any{"status_register": 16.0}},
		{name: "register flag missing", data: map[string]any{
			"status_register": map[string]any{"ext_ref_error": true},
		}},
		{name: "register flag not bool", data: map[string]any{
			"status_register": registerMap(map[string]any{"pll_lock_error": 1.0}),
		}},
		{name: "pll not an object", data: map[string]any{"pll": "Osc: 12.0dBm"}},
		{name: "pll field wrong type", data: map[string]any{
			"pll": map[string]any{"osc_dbm": true},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeStatus(tt.data); err == nil {
				t.Errorf("DecodeStatus(%v) succeeded, want decode error", tt.data)
			}
		})
	}
}

func TestDecodeStatus_FromJSON(t *testing.T) {
	// Shape as produced by the hrogd GET_STATUS endpoint.
	raw := `{
		"baud": 9600,
		"temperature": 32.8,
		"freq": 0.001,
		"phase": 360,
		"ffof": 2.0e-10,
		"time_offset_ns": null,
		"pll": {"osc_dbm": 12.0, "ref_dbm": 15.0, "lock_v": 0.3, "pll_v": -0.2},
		"status_register": {
			"raw": 16,
			"ext_ref_error": false,
			"int_osc_error": false,
			"pll_lock_error": false,
			"tuning_voltage_error": false,
			"invalid_parameter": true,
			"invalid_command": false
		}
	}`

	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	st, err := DecodeStatus(data)
	if err != nil {
		t.Fatalf("DecodeStatus failed: %v", err)
	}
	if st.TimeOffsetNS != nil {
		t.Error("time_offset_ns null must decode to nil")
	}
	if !st.Register.InvalidParameter {
		t.Error("invalid_parameter flag lost")
	}
	if !st.AnyError() {
		t.Error("AnyError() = false, want true")
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Metrolab

package hrog

import (
	"errors"
	"testing"
)

func TestBuildParams(t *testing.T) {
	tests := []struct {
		name    string
		cmd     Command
		raw     string
		wantKey string
		wantVal any
		wantErr bool
	}{
		{
			name:    "set freq in range",
			cmd:     CmdSetFreq,
			raw:     "0.001",
			wantKey: "freq_hz",
			wantVal: 0.001,
		},
		{
			name:    "set freq upper bound",
			cmd:     CmdSetFreq,
			raw:     "1.0",
			wantKey: "freq_hz",
			wantVal: 1.0,
		},
		{
			name:    "set freq above range",
			cmd:     CmdSetFreq,
			raw:     "1.5",
			wantErr: true,
		},
		{
			name:    "set freq negative",
			cmd:     CmdSetFreq,
			raw:     "-0.1",
			wantErr: true,
		},
		{
			name:    "set freq not a number",
			cmd:     CmdSetFreq,
			raw:     "ten",
			wantErr: true,
		},
		{
			name:    "set freq infinity rejected",
			cmd:     CmdSetFreq,
			raw:     "+Inf",
			wantErr: true,
		},
		{
			name:    "nan rejected",
			cmd:     CmdSetPhase,
			raw:     "NaN",
			wantErr: true,
		},
		{
			name:    "phase unbounded",
			cmd:     CmdSetPhase,
			raw:     "-720.5",
			wantKey: "phase_deg",
			wantVal: -720.5,
		},
		{
			name:    "ffof scientific notation",
			cmd:     CmdSetFFOF,
			raw:     "2.0e-10",
			wantKey: "ffof",
			wantVal: 2.0e-10,
		},
		{
			name:    "ffof above ceiling",
			cmd:     CmdSetFFOF,
			raw:     "3.0e-7",
			wantErr: true,
		},
		{
			name:    "step freq",
			cmd:     CmdStepFreq,
			raw:     "0.0001",
			wantKey: "step_hz",
			wantVal: 0.0001,
		},
		{
			name:    "step time offset",
			cmd:     CmdStepTimeOffset,
			raw:     "10",
			wantKey: "step_ns",
			wantVal: 10.0,
		},
		{
			name:    "pps width valid index",
			cmd:     CmdSetPPSWidth,
			raw:     "4",
			wantKey: "pwidth_index",
			wantVal: 4,
		},
		{
			name:    "pps width index too large",
			cmd:     CmdSetPPSWidth,
			raw:     "8",
			wantErr: true,
		},
		{
			name:    "pps width fractional rejected",
			cmd:     CmdSetPPSWidth,
			raw:     "2.5",
			wantErr: true,
		},
		{
			name:    "missing value",
			cmd:     CmdSetTimeOffset,
			raw:     "",
			wantErr: true,
		},
		{
			name: "sync takes no parameter",
			cmd:  CmdSync,
			raw:  "",
		},
		{
			name:    "sync rejects stray value",
			cmd:     CmdSync,
			raw:     "1",
			wantErr: true,
		},
		{
			name: "get status no params",
			cmd:  CmdGetStatus,
			raw:  "",
		},
		{
			name:    "unknown command",
			cmd:     Command("SELF_DESTRUCT"),
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := BuildParams(tt.cmd, tt.raw)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("BuildParams(%s, %q) succeeded, want error", tt.cmd, tt.raw)
				}
				var pe *ParamError
				if !errors.As(err, &pe) {
					t.Errorf("error type = %T, want *ParamError", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("BuildParams(%s, %q) failed: %v", tt.cmd, tt.raw, err)
			}
			if tt.wantKey == "" {
				if params != nil {
					t.Errorf("params = %v, want nil", params)
				}
				return
			}
			got, ok := params[tt.wantKey]
			if !ok {
				t.Fatalf("params missing key %q: %v", tt.wantKey, params)
			}
			if got != tt.wantVal {
				t.Errorf("params[%q] = %v (%T), want %v (%T)", tt.wantKey, got, got, tt.wantVal, tt.wantVal)
			}
		})
	}
}

func TestIsMutating(t *testing.T) {
	if IsMutating(CmdGetStatus) {
		t.Error("GET_STATUS must not be mutating")
	}
	for _, cmd := range Commands {
		if cmd == CmdGetStatus {
			continue
		}
		if !IsMutating(cmd) {
			t.Errorf("%s should be mutating", cmd)
		}
	}
}

func TestKnownCatalogue(t *testing.T) {
	for _, cmd := range Commands {
		if !Known(cmd) {
			t.Errorf("catalogue command %s reported unknown", cmd)
		}
	}
	if Known(Command("FREQ?")) {
		t.Error("raw ASCII queries are not part of the console catalogue")
	}
}

func TestPPSWidthTable(t *testing.T) {
	if len(PPSWidthsUS) != 8 {
		t.Fatalf("PPS width table has %d entries, want 8", len(PPSWidthsUS))
	}
	if PPSWidthsUS[0] != 0.8 || PPSWidthsUS[7] != 819.2 {
		t.Errorf("PPS width endpoints = %g, %g; want 0.8, 819.2", PPSWidthsUS[0], PPSWidthsUS[7])
	}
}

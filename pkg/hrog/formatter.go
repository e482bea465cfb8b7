// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Metrolab

package hrog

import (
	"fmt"
	"strings"
)

// Unknown is the display placeholder for a reading the instrument did
// not provide. Absent values are never coerced to 0.
const Unknown = "unknown"

// FormatValue renders an optional numeric with its unit. The unit is
// attached only when a value is present.
func FormatValue(v *float64, unit string) string {
	if v == nil {
		return Unknown
	}
	if unit == "" {
		return fmt.Sprintf("%g", *v)
	}
	return fmt.Sprintf("%g %s", *v, unit)
}

// FormatTemperature renders the oven temperature in °C.
func FormatTemperature(v *float64) string { return FormatValue(v, "°C") }

// FormatFreq renders the frequency offset in Hz.
func FormatFreq(v *float64) string { return FormatValue(v, "Hz") }

// FormatPhase renders the phase offset in degrees.
func FormatPhase(v *float64) string { return FormatValue(v, "deg") }

// FormatFFOF renders the fractional frequency offset in scientific
// notation; the quantity is dimensionless.
func FormatFFOF(v *float64) string {
	if v == nil {
		return Unknown
	}
	return fmt.Sprintf("%.3E", *v)
}

// FormatTimeOffset renders the time offset in nanoseconds.
func FormatTimeOffset(v *float64) string { return FormatValue(v, "ns") }

// FormatHealth renders the aggregate register health: a nil register
// is unknown, never ok.
func FormatHealth(reg *StatusRegister) string {
	if reg == nil {
		return Unknown
	}
	if AnyStatusError(reg) {
		return "ERROR"
	}
	return "ok"
}

// FormatRegister renders a one-line summary of the raised flags, or
// "clear" when none are set.
func FormatRegister(reg *StatusRegister) string {
	if reg == nil {
		return Unknown
	}

	names := []struct {
		set  bool
		name string
	}{
		{reg.ExtRefError, "EXT_REF"},
		{reg.IntOscError, "INT_OSC"},
		{reg.PLLLockError, "PLL_LOCK"},
		{reg.TuningVoltageError, "TUNING_V"},
		{reg.InvalidParameter, "INVALID_PARAM"},
		{reg.InvalidCommand, "INVALID_CMD"},
	}

	raised := []string{}
	for _, n := range names {
		if n.set {
			raised = append(raised, n.name)
		}
	}
	if len(raised) == 0 {
		return "clear"
	}
	return strings.Join(raised, " ")
}

// FormatPLL renders the PLL diagnostic block, or "no PLL data" when
// the instrument returned none.
func FormatPLL(pll *PLLStatus) string {
	if pll == nil {
		return "no PLL data"
	}
	return fmt.Sprintf("Osc: %s  Ref: %s  Lock: %s  PLL: %s",
		FormatValue(pll.OscDBm, "dBm"),
		FormatValue(pll.RefDBm, "dBm"),
		FormatValue(pll.LockV, "V"),
		FormatValue(pll.PLLV, "V"))
}

// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Metrolab
//
// Hrogstat - Operator console for HROG-5 synthesizer fleets
//
// A CLI/TUI tool for managing HROG-5 frequency/phase/time synthesizers
// reachable through MOXA serial-to-Ethernet gateways, via the hrogd
// backend service.

package main

import (
	"os"

	"github.com/metrolab/hrogstat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

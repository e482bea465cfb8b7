// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Metrolab

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Global connection flags
	apiURL     string
	configPath string

	// Logging flags
	logFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "hrogstat",
	Short: "HROG-5 fleet operator console",
	Long: `Hrogstat - An operator console for HROG-5 frequency/phase/time
synthesizers reachable through MOXA serial-to-Ethernet gateways.

All device communication goes through the hrogd backend service; this
tool consumes its HTTP/JSON API for the device inventory, command
execution, and monitoring history.

Commands:
  console    Interactive TUI: select a device, issue commands, watch status
  devices    Manage the device inventory (list/create/update/delete)
  exec       Execute a single command against a device
  history    Show status snapshots and command history

The backend address comes from --api, the HROGSTAT_API environment
variable, or the config file (--config), in that order of precedence.`,
	Version: "1.2.0",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&apiURL, "api", "a", "", "Backend base URL (e.g. http://10.0.0.5:8000)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default ~/.config/hrogstat.yml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write debug logs to this file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace/debug/info/warn/error)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

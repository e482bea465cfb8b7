// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Metrolab

package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/metrolab/hrogstat/pkg/backend"
	"github.com/metrolab/hrogstat/pkg/session"
)

var consoleRefreshInterval time.Duration

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive TUI for operating HROG-5 devices",
	Long: `Operate HROG-5 synthesizers via an interactive terminal UI.

The console fetches the device inventory from the backend, lets you
select a device, and issues control commands (set/step frequency,
phase, time offset, PPS width, sync, clear status) against it. Decoded
status is refreshed after every successful command and, optionally, on
a fixed auto-refresh interval.

Keys:
  Tab          switch focus (devices / command / value)
  Enter        select device or dispatch the chosen command
  r            manual status refresh
  A            toggle auto-refresh
  L            reload the device inventory
  D            delete the highlighted device
  q / Ctrl+C   quit`,
	RunE: runConsole,
}

func init() {
	consoleCmd.Flags().DurationVar(&consoleRefreshInterval, "refresh", 0, "Auto-refresh interval (overrides config)")
	rootCmd.AddCommand(consoleCmd)
}

//////////////////////////////////////////////////////////////
// Messages
//////////////////////////////////////////////////////////////

// devicesMsg carries a registry fetch result.
type devicesMsg struct {
	devices  []backend.Device
	preserve bool
	err      error
}

// statusMsg carries a GET_STATUS result tagged with its token.
type statusMsg struct {
	tok  session.Token
	resp *backend.CommandResponse
	err  error
}

// cmdResultMsg carries a command execution result tagged with its token.
type cmdResultMsg struct {
	tok  session.Token
	resp *backend.CommandResponse
	err  error
}

// deviceDeletedMsg carries the outcome of a delete issued from the TUI.
type deviceDeletedMsg struct {
	id  string
	err error
}

// autoTickMsg is posted by the Refresher on every auto-refresh period.
type autoTickMsg struct{}

//////////////////////////////////////////////////////////////
// Backend commands (run off the update loop, report via messages)
//////////////////////////////////////////////////////////////

func fetchDevicesCmd(client *backend.Client, timeout time.Duration, preserve bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		devices, err := client.ListDevices(ctx)
		return devicesMsg{devices: devices, preserve: preserve, err: err}
	}
}

func fetchStatusCmd(client *backend.Client, timeout time.Duration, tok session.Token, userID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		resp, err := client.Execute(ctx, backend.CommandRequest{
			DeviceID:    tok.DeviceID,
			CommandCode: tok.Command,
			UserID:      &userID,
		})
		return statusMsg{tok: tok, resp: resp, err: err}
	}
}

func executeCmd(client *backend.Client, timeout time.Duration, tok session.Token, params map[string]any, userID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		resp, err := client.Execute(ctx, backend.CommandRequest{
			DeviceID:    tok.DeviceID,
			CommandCode: tok.Command,
			Params:      params,
			UserID:      &userID,
		})
		return cmdResultMsg{tok: tok, resp: resp, err: err}
	}
}

func deleteDeviceCmd(client *backend.Client, timeout time.Duration, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return deviceDeletedMsg{id: id, err: client.DeleteDevice(ctx, id)}
	}
}

//////////////////////////////////////////////////////////////
// Entry point
//////////////////////////////////////////////////////////////

func runConsole(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if consoleRefreshInterval > 0 {
		cfg.Console.RefreshInterval = consoleRefreshInterval
	}

	logger, closeLog, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	client := newBackendClient(cfg)
	logger.Info().Str("api", client.BaseURL()).Str("operator", cfg.Operator.ID).Msg("console starting")

	m := initialConsoleModel(cfg, client, logger)

	// The refresher goroutine only posts messages; all session state
	// stays owned by the update loop. The program pointer is filled in
	// before the refresher can ever be started (a key handler).
	var p *tea.Program
	refresher := session.NewRefresher(func() {
		p.Send(autoTickMsg{})
	})
	m.refresher = refresher

	p = tea.NewProgram(m, tea.WithAltScreen())

	res, err := p.Run()
	refresher.Stop()
	if err != nil {
		return fmt.Errorf("console error: %v", err)
	}

	if final, ok := res.(consoleModel); ok && final.loadFailed {
		return fmt.Errorf("initial inventory load failed: %s", final.loadError)
	}
	return nil
}

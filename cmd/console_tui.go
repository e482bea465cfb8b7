// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Metrolab

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/metrolab/hrogstat/pkg/backend"
	"github.com/metrolab/hrogstat/pkg/hrog"
	"github.com/metrolab/hrogstat/pkg/session"
)

//////////////////////////////////////////////////////////////
// Constants
//////////////////////////////////////////////////////////////

// Focus states
const (
	focusDeviceList = iota
	focusCommand
	focusParamInput
)

//////////////////////////////////////////////////////////////
// Types
//////////////////////////////////////////////////////////////

// deviceItem adapts an inventory record to the device list widget
type deviceItem struct {
	dev backend.Device
}

// Implement list.Item interface
func (d deviceItem) Title() string {
	if !d.dev.Enabled {
		return d.dev.Name + " [disabled]"
	}
	return d.dev.Name
}
func (d deviceItem) Description() string { return fmt.Sprintf("%s:%d", d.dev.Host, d.dev.Port) }
func (d deviceItem) FilterValue() string { return d.dev.Name }

// Event log entry
type logEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// consoleModel is the Bubble Tea model for the operator console
type consoleModel struct {
	cfg    Config
	client *backend.Client
	logger zerolog.Logger

	// Session state (mutated only from Update)
	sess      *session.Session
	refresher *session.Refresher

	// The manual refresh trigger is disabled while its request is in
	// flight; auto-refresh deliberately is not (freshness tokens drop
	// whatever lands stale).
	refreshInFlight bool
	manualSeq       uint64

	// Inventory load state
	loaded     bool
	loadFailed bool
	loadError  string

	// Widgets
	deviceList   list.Model
	paramInput   textinput.Model
	cmdIndex     int
	focusedField int

	// Event log
	eventLog      []logEntry
	maxLogEntries int

	// UI state
	width    int
	height   int
	quitting bool
}

//////////////////////////////////////////////////////////////
// Model Initialization
//////////////////////////////////////////////////////////////

func initialConsoleModel(cfg Config, client *backend.Client, logger zerolog.Logger) consoleModel {
	ti := textinput.New()
	ti.Placeholder = "value"
	ti.CharLimit = 24
	ti.Width = 16

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.SetHeight(2)
	deviceList := list.New([]list.Item{}, delegate, 32, 10)
	deviceList.Title = "Devices"
	deviceList.SetShowStatusBar(false)
	deviceList.SetShowHelp(false)
	deviceList.SetFilteringEnabled(false)

	m := consoleModel{
		cfg:           cfg,
		client:        client,
		logger:        logger,
		sess:          session.New(),
		deviceList:    deviceList,
		paramInput:    ti,
		maxLogEntries: 100,
		focusedField:  focusDeviceList,
		width:         80,
		height:        24,
	}
	m.setCommandIndex(0)
	return m
}

//////////////////////////////////////////////////////////////
// Bubble Tea Interface
//////////////////////////////////////////////////////////////

func (m consoleModel) Init() tea.Cmd {
	return fetchDevicesCmd(m.client, m.cfg.API.Timeout, false)
}

func (m consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateListSize()

	case devicesMsg:
		return m.handleDevicesMsg(msg)

	case statusMsg:
		return m.handleStatusMsg(msg)

	case cmdResultMsg:
		return m.handleCmdResultMsg(msg)

	case deviceDeletedMsg:
		if msg.err != nil {
			m.sess.RecordRegistryFailure()
			m.addLogEntry(fmt.Sprintf("Delete failed: %v", msg.err), true)
			return m, nil
		}
		m.addLogEntry(fmt.Sprintf("Device %s deleted", msg.id), false)
		return m, fetchDevicesCmd(m.client, m.cfg.API.Timeout, true)

	case autoTickMsg:
		// Fires on schedule even while a previous fetch is in flight;
		// out-of-order arrivals are dropped by the session tokens.
		tok, err := m.sess.BeginRefresh()
		if err != nil {
			return m, nil
		}
		return m, fetchStatusCmd(m.client, m.cfg.API.Timeout, *tok, m.cfg.Operator.ID)
	}

	// Update child components
	var cmd tea.Cmd
	if m.focusedField == focusParamInput {
		m.paramInput, cmd = m.paramInput.Update(msg)
		return m, cmd
	}
	if m.focusedField == focusDeviceList {
		m.deviceList, cmd = m.deviceList.Update(msg)
		return m, cmd
	}
	return m, nil
}

//////////////////////////////////////////////////////////////
// Message Handlers
//////////////////////////////////////////////////////////////

func (m consoleModel) handleDevicesMsg(msg devicesMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.sess.RecordRegistryFailure()
		if !m.loaded {
			// Degraded read-only state with an explicit banner; the
			// operator can retry with L.
			m.loadFailed = true
			m.loadError = msg.err.Error()
		}
		m.logger.Error().Err(msg.err).Msg("inventory load failed")
		m.addLogEntry(fmt.Sprintf("Inventory load failed: %v", msg.err), true)
		return m, nil
	}

	m.loaded = true
	m.loadFailed = false
	m.loadError = ""

	deselected := m.sess.ApplyDevices(msg.devices, msg.preserve)
	if deselected {
		m.refresher.Stop()
		m.addLogEntry("Active device no longer in inventory - deselected", true)
	}
	m.updateDeviceList()
	m.addLogEntry(fmt.Sprintf("Inventory loaded: %d device(s)", len(msg.devices)), false)
	m.logger.Info().Int("devices", len(msg.devices)).Bool("preserve", msg.preserve).Msg("inventory loaded")
	return m, nil
}

func (m consoleModel) handleStatusMsg(msg statusMsg) (tea.Model, tea.Cmd) {
	if msg.tok.Seq == m.manualSeq {
		m.refreshInFlight = false
	}

	res := m.sess.ApplyStatus(msg.tok, msg.resp, msg.err)
	switch res.Outcome {
	case session.Dropped:
		m.logger.Debug().Str("device", msg.tok.DeviceID).Uint64("seq", msg.tok.Seq).Msg("stale status dropped")
	case session.Failed:
		m.addLogEntry(fmt.Sprintf("Status refresh failed: %s", res.Detail), true)
	case session.Applied:
		if st := m.sess.LastStatus(); st != nil && st.AnyError() {
			m.addLogEntry(fmt.Sprintf("Status register: %s", hrog.FormatRegister(st.Register)), true)
		}
	}
	return m, nil
}

func (m consoleModel) handleCmdResultMsg(msg cmdResultMsg) (tea.Model, tea.Cmd) {
	res := m.sess.ApplyCommandResult(msg.tok, msg.resp, msg.err)
	switch res.Outcome {
	case session.Dropped:
		m.logger.Debug().Str("device", msg.tok.DeviceID).Str("command", string(msg.tok.Command)).Msg("stale command result dropped")
		return m, nil
	case session.Failed:
		m.addLogEntry(fmt.Sprintf("%s failed: %s", msg.tok.Command, res.Detail), true)
		return m, nil
	}

	m.addLogEntry(fmt.Sprintf("%s ok (%d ms)", msg.tok.Command, msg.resp.DurationMS), false)
	if res.FollowUp != nil {
		// Write-then-read: the panel reflects what the device reports,
		// never the request parameters.
		return m, fetchStatusCmd(m.client, m.cfg.API.Timeout, *res.FollowUp, m.cfg.Operator.ID)
	}
	return m, nil
}

//////////////////////////////////////////////////////////////
// Key Handling
//////////////////////////////////////////////////////////////

func (m consoleModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// The parameter input owns most keystrokes while focused.
	if m.focusedField == focusParamInput {
		switch key {
		case "ctrl+c":
			return m.quit()
		case "tab":
			m.cycleFocus(1)
			return m, nil
		case "shift+tab":
			m.cycleFocus(-1)
			return m, nil
		case "enter":
			return m.dispatchCommand()
		case "esc":
			m.focusedField = focusCommand
			m.paramInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.paramInput, cmd = m.paramInput.Update(msg)
		return m, cmd
	}

	switch key {
	case "q", "ctrl+c":
		return m.quit()

	case "tab":
		m.cycleFocus(1)
		return m, nil

	case "shift+tab":
		m.cycleFocus(-1)
		return m, nil

	case "enter":
		if m.focusedField == focusDeviceList {
			return m.selectHighlighted()
		}
		return m.dispatchCommand()

	case "r":
		return m.manualRefresh()

	case "A":
		return m.toggleAutoRefresh()

	case "L":
		m.addLogEntry("Reloading inventory...", false)
		return m, fetchDevicesCmd(m.client, m.cfg.API.Timeout, true)

	case "D":
		return m.deleteHighlighted()

	case "left", "h":
		if m.focusedField == focusCommand {
			m.setCommandIndex(m.cmdIndex - 1)
		}
		return m, nil

	case "right", "l":
		if m.focusedField == focusCommand {
			m.setCommandIndex(m.cmdIndex + 1)
		}
		return m, nil
	}

	if m.focusedField == focusDeviceList {
		var cmd tea.Cmd
		m.deviceList, cmd = m.deviceList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m consoleModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.refresher.Stop()
	return m, tea.Quit
}

func (m *consoleModel) cycleFocus(delta int) {
	fields := 3
	m.focusedField = (m.focusedField + delta + fields) % fields

	// Skip the value input for commands without a parameter.
	if m.focusedField == focusParamInput && !hrog.NeedsParam(m.currentCommand()) {
		m.focusedField = (m.focusedField + delta + fields) % fields
	}

	if m.focusedField == focusParamInput {
		m.paramInput.Focus()
	} else {
		m.paramInput.Blur()
	}
}

func (m *consoleModel) setCommandIndex(idx int) {
	n := len(hrog.Commands)
	m.cmdIndex = (idx + n) % n
	cmd := m.currentCommand()
	if hrog.NeedsParam(cmd) {
		unit := hrog.ParamUnit(cmd)
		if unit == "" {
			m.paramInput.Placeholder = hrog.ParamKey(cmd)
		} else {
			m.paramInput.Placeholder = fmt.Sprintf("%s (%s)", hrog.ParamKey(cmd), unit)
		}
	} else {
		m.paramInput.Placeholder = "no value"
	}
}

func (m consoleModel) currentCommand() hrog.Command {
	return hrog.Commands[m.cmdIndex]
}

//////////////////////////////////////////////////////////////
// Actions
//////////////////////////////////////////////////////////////

func (m consoleModel) selectHighlighted() (tea.Model, tea.Cmd) {
	dev := m.highlightedDevice()
	if dev == nil {
		return m, nil
	}

	// Selection change always cancels the previous device's polling.
	m.refresher.Stop()
	m.sess.SetAutoRefresh(false)
	m.refreshInFlight = false

	tok := m.sess.Select(dev.ID)
	if m.sess.State() == session.SelectedDisabled {
		m.addLogEntry(fmt.Sprintf("Selected %s (disabled - commands unavailable)", dev.Name), true)
		return m, nil
	}
	if tok == nil {
		return m, nil
	}

	m.addLogEntry(fmt.Sprintf("Selected %s", dev.Name), false)
	m.logger.Info().Str("device", dev.ID).Msg("device selected")
	return m, fetchStatusCmd(m.client, m.cfg.API.Timeout, *tok, m.cfg.Operator.ID)
}

func (m consoleModel) dispatchCommand() (tea.Model, tea.Cmd) {
	if m.loadFailed {
		m.addLogEntry("Console is read-only until the inventory loads", true)
		return m, nil
	}

	cmd := m.currentCommand()
	params, err := hrog.BuildParams(cmd, strings.TrimSpace(m.paramInput.Value()))
	if err != nil {
		m.addLogEntry(err.Error(), true)
		return m, nil
	}

	// GET_STATUS from the picker is just a refresh.
	if cmd == hrog.CmdGetStatus {
		return m.manualRefresh()
	}

	tok, err := m.sess.BeginCommand(cmd)
	if err != nil {
		m.addLogEntry(fmt.Sprintf("Cannot dispatch %s: %v", cmd, err), true)
		return m, nil
	}

	m.addLogEntry(fmt.Sprintf("Dispatching %s...", cmd), false)
	m.logger.Info().Str("device", tok.DeviceID).Str("command", string(cmd)).Interface("params", params).Msg("command dispatched")
	return m, executeCmd(m.client, m.cfg.API.Timeout, *tok, params, m.cfg.Operator.ID)
}

func (m consoleModel) manualRefresh() (tea.Model, tea.Cmd) {
	if m.refreshInFlight {
		m.addLogEntry("Refresh already in flight", true)
		return m, nil
	}

	tok, err := m.sess.BeginRefresh()
	if err != nil {
		m.addLogEntry(fmt.Sprintf("Cannot refresh: %v", err), true)
		return m, nil
	}

	m.refreshInFlight = true
	m.manualSeq = tok.Seq
	return m, fetchStatusCmd(m.client, m.cfg.API.Timeout, *tok, m.cfg.Operator.ID)
}

func (m consoleModel) toggleAutoRefresh() (tea.Model, tea.Cmd) {
	if m.sess.AutoRefresh() {
		m.refresher.Stop()
		m.sess.SetAutoRefresh(false)
		m.addLogEntry("Auto-refresh off", false)
		return m, nil
	}

	if m.sess.State() != session.SelectedEnabled {
		m.addLogEntry("Select an enabled device first", true)
		return m, nil
	}

	m.refresher.Start(m.cfg.Console.RefreshInterval)
	m.sess.SetAutoRefresh(true)
	m.addLogEntry(fmt.Sprintf("Auto-refresh every %s", m.cfg.Console.RefreshInterval), false)
	return m, nil
}

func (m consoleModel) deleteHighlighted() (tea.Model, tea.Cmd) {
	dev := m.highlightedDevice()
	if dev == nil {
		return m, nil
	}

	// Deselect before the inventory reflects the delete.
	if dev.ID == m.sess.SelectedID() {
		m.refresher.Stop()
		m.sess.Deselect()
	}

	m.addLogEntry(fmt.Sprintf("Deleting %s...", dev.Name), false)
	return m, deleteDeviceCmd(m.client, m.cfg.API.Timeout, dev.ID)
}

//////////////////////////////////////////////////////////////
// View
//////////////////////////////////////////////////////////////

func (m consoleModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var s strings.Builder

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	focusedBoxStyle := boxStyle.
		BorderForeground(lipgloss.Color("12"))

	// Header
	s.WriteString(titleStyle.Render("HROG CONSOLE"))
	s.WriteString(" ")
	s.WriteString(headerStyle.Render(fmt.Sprintf("| %s | q=quit Tab=focus r=refresh A=auto L=reload D=delete",
		m.client.BaseURL())))
	s.WriteString("\n")

	if m.loadFailed {
		s.WriteString(errorStyle.Render(fmt.Sprintf(" INVENTORY UNAVAILABLE (read-only): %s", m.loadError)))
		s.WriteString("\n")
	}
	s.WriteString("\n")

	// Layout: left panel (devices) | right panel (control)
	leftWidth := 34
	rightWidth := m.width - leftWidth - 6
	if rightWidth < 30 {
		rightWidth = 30
	}

	listStyle := boxStyle.Width(leftWidth)
	if m.focusedField == focusDeviceList {
		listStyle = focusedBoxStyle.Width(leftWidth)
	}
	devicePanel := listStyle.Render(m.deviceList.View())

	controlContent := m.renderControlPanel(labelStyle, valueStyle, headerStyle, warningStyle)
	controlStyle := boxStyle.Width(rightWidth)
	if m.focusedField != focusDeviceList {
		controlStyle = focusedBoxStyle.Width(rightWidth)
	}
	controlPanel := controlStyle.Render(controlContent)

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, devicePanel, " ", controlPanel))
	s.WriteString("\n\n")

	// Status panel for the active device
	s.WriteString(m.renderStatusPanel(labelStyle, valueStyle, errorStyle, headerStyle, boxStyle))
	s.WriteString("\n\n")

	// Session line
	s.WriteString(m.renderSessionBar(labelStyle, valueStyle, errorStyle, boxStyle))
	s.WriteString("\n\n")

	// Event log
	s.WriteString(m.renderEventLog(labelStyle, warningStyle, headerStyle, errorStyle, boxStyle))

	return s.String()
}

func (m consoleModel) renderControlPanel(labelStyle, valueStyle, headerStyle, warningStyle lipgloss.Style) string {
	var s strings.Builder

	dev := m.sess.SelectedDevice()
	if dev == nil {
		s.WriteString(headerStyle.Render("No device selected"))
		s.WriteString("\n")
		s.WriteString(headerStyle.Render("Enter on a device to select it"))
		return s.String()
	}

	s.WriteString(fmt.Sprintf("%s %s  %s\n", labelStyle.Render("Device:"), dev.Name,
		headerStyle.Render(fmt.Sprintf("(%s:%d)", dev.Host, dev.Port))))

	if m.sess.State() == session.SelectedDisabled {
		s.WriteString("\n")
		s.WriteString(warningStyle.Render("Device is disabled: commands are unavailable"))
		return s.String()
	}

	// Command picker
	cmd := m.currentCommand()
	picker := fmt.Sprintf("< %s >", cmd)
	if m.focusedField == focusCommand {
		s.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Command:"), valueStyle.Render(picker)))
	} else {
		s.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Command:"), picker))
	}

	if hrog.NeedsParam(cmd) {
		s.WriteString(labelStyle.Render("Value: "))
		if m.focusedField == focusParamInput {
			s.WriteString(m.paramInput.View())
		} else {
			val := m.paramInput.Value()
			if val == "" {
				val = m.paramInput.Placeholder
			}
			s.WriteString(fmt.Sprintf("[%s]", val))
		}
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(headerStyle.Render("Enter dispatches; status refreshes after every write"))
	return s.String()
}

func (m consoleModel) renderStatusPanel(labelStyle, valueStyle, errorStyle, headerStyle, boxStyle lipgloss.Style) string {
	var content strings.Builder
	content.WriteString(labelStyle.Render("STATUS"))
	content.WriteString(" | ")

	st := m.sess.LastStatus()
	if m.sess.SelectedID() == "" {
		content.WriteString(headerStyle.Render("no device selected"))
		return boxStyle.Width(m.width - 4).Render(content.String())
	}
	if st == nil {
		content.WriteString(headerStyle.Render("no status yet"))
		return boxStyle.Width(m.width - 4).Render(content.String())
	}

	health := hrog.FormatHealth(st.Register)
	healthStyle := valueStyle
	if st.AnyError() {
		healthStyle = errorStyle
	}

	content.WriteString(fmt.Sprintf("%s %s  ", labelStyle.Render("Health:"), healthStyle.Render(health)))
	content.WriteString(fmt.Sprintf("%s %s  ", labelStyle.Render("Temp:"), valueStyle.Render(hrog.FormatTemperature(st.Temperature))))
	content.WriteString(fmt.Sprintf("%s %s  ", labelStyle.Render("Freq:"), valueStyle.Render(hrog.FormatFreq(st.Freq))))
	content.WriteString(fmt.Sprintf("%s %s  ", labelStyle.Render("Phase:"), valueStyle.Render(hrog.FormatPhase(st.Phase))))
	content.WriteString(fmt.Sprintf("%s %s  ", labelStyle.Render("FFOF:"), valueStyle.Render(hrog.FormatFFOF(st.FFOF))))
	content.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("TOffs:"), valueStyle.Render(hrog.FormatTimeOffset(st.TimeOffsetNS))))

	content.WriteString(fmt.Sprintf("%s %s  ", labelStyle.Render("Register:"), hrog.FormatRegister(st.Register)))
	content.WriteString(fmt.Sprintf("%s %s", labelStyle.Render("PLL:"), hrog.FormatPLL(st.PLL)))

	return boxStyle.Width(m.width - 4).Render(content.String())
}

func (m consoleModel) renderSessionBar(labelStyle, valueStyle, errorStyle, boxStyle lipgloss.Style) string {
	connStyle := valueStyle
	if m.sess.Connection() == session.ConnBad {
		connStyle = errorStyle
	}

	auto := "off"
	if m.sess.AutoRefresh() {
		auto = fmt.Sprintf("every %s", m.cfg.Console.RefreshInterval)
	}

	errCount := fmt.Sprintf("%d", m.sess.ErrorCount())
	errCountStyle := valueStyle
	if m.sess.ErrorCount() > 0 {
		errCountStyle = errorStyle
	}

	content := fmt.Sprintf("%s %s  %s %s  %s %s  %s %s",
		labelStyle.Render("Link:"), connStyle.Render(m.sess.Connection().String()),
		labelStyle.Render("Last fetch:"), valueStyle.Render(fmt.Sprintf("%d ms", m.sess.LastDurationMS())),
		labelStyle.Render("Auto:"), valueStyle.Render(auto),
		labelStyle.Render("Errors:"), errCountStyle.Render(errCount),
	)

	return boxStyle.Width(m.width - 4).Render(content)
}

func (m consoleModel) renderEventLog(labelStyle, warningStyle, headerStyle, errorStyle lipgloss.Style, boxStyle lipgloss.Style) string {
	var s strings.Builder
	s.WriteString(labelStyle.Render("EVENTS"))
	s.WriteString("\n")

	logHeight := 8
	if len(m.eventLog) < logHeight {
		logHeight = len(m.eventLog)
	}

	startIdx := len(m.eventLog) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	if len(m.eventLog) == 0 {
		s.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for i := startIdx; i < len(m.eventLog); i++ {
			entry := m.eventLog[i]
			timestamp := entry.timestamp.Format("15:04:05.000")
			icon := "i"
			style := warningStyle
			if entry.isError {
				icon = "x"
				style = errorStyle
			}
			s.WriteString(fmt.Sprintf("%s %s %s\n",
				headerStyle.Render(timestamp),
				style.Render(icon),
				entry.message))
		}
	}

	return boxStyle.Width(m.width - 4).Render(s.String())
}

//////////////////////////////////////////////////////////////
// Helpers
//////////////////////////////////////////////////////////////

func (m *consoleModel) addLogEntry(message string, isError bool) {
	entry := logEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	}
	m.eventLog = append(m.eventLog, entry)

	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}

func (m *consoleModel) highlightedDevice() *backend.Device {
	devices := m.sess.Devices()
	if len(devices) == 0 {
		return nil
	}

	idx := m.deviceList.Index()
	if idx < 0 || idx >= len(devices) {
		return nil
	}
	return &devices[idx]
}

func (m *consoleModel) updateDeviceList() {
	devices := m.sess.Devices()
	items := make([]list.Item, len(devices))
	for i, d := range devices {
		items[i] = deviceItem{dev: d}
	}
	m.deviceList.SetItems(items)
}

func (m *consoleModel) updateListSize() {
	listHeight := m.height / 3
	if listHeight < 5 {
		listHeight = 5
	}
	m.deviceList.SetSize(30, listHeight)
}

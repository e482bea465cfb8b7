// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Metrolab

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/metrolab/hrogstat/pkg/backend"
	"github.com/metrolab/hrogstat/pkg/hrog"
)

var (
	execDeviceID string
	execValue    string
)

var execCmd = &cobra.Command{
	Use:   "exec <command>",
	Short: "Execute a single HROG command",
	Long: `Execute one command against a device and print the result.

Commands that write a value take it via --value; the unit is implied
by the command (Hz, degrees, ns, or a PPS width index 0-7). GET_STATUS
results are decoded and printed field by field.

Commands:
  ` + strings.Join(commandNames(), ", ") + `

Examples:
  # Read back a full status snapshot
  hrogstat exec GET_STATUS --device 6f1c...

  # Slew frequency by 1.5e-9 Hz
  hrogstat exec SET_FREQ --device 6f1c... --value 1.5e-9

  # Select the 81.92 us PPS pulse width (index 7)
  hrogstat exec SET_PWIDTH --device 6f1c... --value 6

Exit codes:
  0 - Command accepted by the device
  1 - Validation, transport, or device error`,
	Args: cobra.ExactArgs(1),
	RunE: runExec,
}

func init() {
	rootCmd.AddCommand(execCmd)
	execCmd.Flags().StringVarP(&execDeviceID, "device", "d", "", "Target device id (required)")
	execCmd.Flags().StringVar(&execValue, "value", "", "Command parameter value")
	execCmd.MarkFlagRequired("device")
}

func runExec(cmd *cobra.Command, args []string) error {
	command := hrog.Command(strings.ToUpper(args[0]))
	if !hrog.Known(command) {
		return fmt.Errorf("unknown command %q (known: %s)", args[0], strings.Join(commandNames(), ", "))
	}
	if _, err := uuid.Parse(execDeviceID); err != nil {
		return fmt.Errorf("invalid device id %q: %w", execDeviceID, err)
	}

	params, err := hrog.BuildParams(command, strings.TrimSpace(execValue))
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	client := newBackendClient(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
	defer cancel()

	resp, err := client.Execute(ctx, backend.CommandRequest{
		DeviceID:    execDeviceID,
		CommandCode: command,
		Params:      params,
		UserID:      &cfg.Operator.ID,
	})
	if err != nil {
		logger.Error().Err(err).Str("device", execDeviceID).Str("command", string(command)).Msg("exec failed")
		return err
	}

	logger.Info().
		Str("device", execDeviceID).
		Str("command", string(command)).
		Bool("success", resp.Success).
		Int("duration_ms", resp.DurationMS).
		Msg("exec completed")

	if !resp.Success {
		return fmt.Errorf("%s rejected: %s", command, resp.Status)
	}

	fmt.Printf("%s ok (%d ms)\n", command, resp.DurationMS)
	if command == hrog.CmdGetStatus {
		st, err := hrog.DecodeStatus(resp.Data)
		if err != nil {
			return fmt.Errorf("malformed status payload: %w", err)
		}
		printStatus(st)
	}
	return nil
}

func printStatus(st *hrog.Status) {
	fmt.Printf("  Health:      %s\n", hrog.FormatHealth(st.Register))
	fmt.Printf("  Register:    %s\n", hrog.FormatRegister(st.Register))
	fmt.Printf("  Temperature: %s\n", hrog.FormatTemperature(st.Temperature))
	fmt.Printf("  Frequency:   %s\n", hrog.FormatFreq(st.Freq))
	fmt.Printf("  Phase:       %s\n", hrog.FormatPhase(st.Phase))
	fmt.Printf("  FFOF:        %s\n", hrog.FormatFFOF(st.FFOF))
	fmt.Printf("  Time offset: %s\n", hrog.FormatTimeOffset(st.TimeOffsetNS))
	fmt.Printf("  PLL:         %s\n", hrog.FormatPLL(st.PLL))
}

func commandNames() []string {
	names := make([]string, len(hrog.Commands))
	for i, c := range hrog.Commands {
		names[i] = string(c)
	}
	return names
}

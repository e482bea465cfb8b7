// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Metrolab

package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/metrolab/hrogstat/pkg/backend"
)

var (
	deviceName        string
	deviceDescription string
	deviceHost        string
	devicePort        int
	deviceDisabled    bool
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Manage the HROG device inventory",
	Long: `Inspect and edit the hrogd device inventory.

Each device is one HROG-5 channel reachable through a MOXA
serial-to-Ethernet gateway. Devices are addressed by the id the
backend assigns on create.

Examples:
  # List all devices
  hrogstat devices list

  # Register a new channel
  hrogstat devices create --name lab-maser-1 --host 10.0.4.21 --port 4001

  # Take a channel out of service without deleting it
  hrogstat devices update 6f1c... --name lab-maser-1 --host 10.0.4.21 --port 4001 --disabled`,
}

var devicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all inventory devices",
	RunE:  runDevicesList,
}

var devicesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new device",
	RunE:  runDevicesCreate,
}

var devicesUpdateCmd = &cobra.Command{
	Use:   "update <device-id>",
	Short: "Replace a device record",
	Args:  cobra.ExactArgs(1),
	RunE:  runDevicesUpdate,
}

var devicesDeleteCmd = &cobra.Command{
	Use:   "delete <device-id>",
	Short: "Delete a device",
	Args:  cobra.ExactArgs(1),
	RunE:  runDevicesDelete,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
	devicesCmd.AddCommand(devicesListCmd)
	devicesCmd.AddCommand(devicesCreateCmd)
	devicesCmd.AddCommand(devicesUpdateCmd)
	devicesCmd.AddCommand(devicesDeleteCmd)

	for _, c := range []*cobra.Command{devicesCreateCmd, devicesUpdateCmd} {
		c.Flags().StringVar(&deviceName, "name", "", "Device name (required)")
		c.Flags().StringVar(&deviceDescription, "description", "", "Free-form description")
		c.Flags().StringVar(&deviceHost, "host", "", "MOXA gateway host (required)")
		c.Flags().IntVar(&devicePort, "port", 0, "MOXA gateway TCP port (required)")
		c.Flags().BoolVar(&deviceDisabled, "disabled", false, "Register the device as disabled")
	}
}

func runDevicesList(cmd *cobra.Command, args []string) error {
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

	devices, err := client.ListDevices(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("device list failed")
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tGATEWAY\tENABLED\tDESCRIPTION")
	for _, d := range devices {
		desc := ""
		if d.Description != nil {
			desc = *d.Description
		}
		fmt.Fprintf(w, "%s\t%s\t%s:%d\t%t\t%s\n", d.ID, d.Name, d.Host, d.Port, d.Enabled, desc)
	}
	return w.Flush()
}

func runDevicesCreate(cmd *cobra.Command, args []string) error {
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

	dev, err := client.CreateDevice(ctx, devicePayloadFromFlags())
	if err != nil {
		logger.Error().Err(err).Str("name", deviceName).Msg("device create failed")
		return err
	}

	logger.Info().Str("device", dev.ID).Str("name", dev.Name).Msg("device created")
	fmt.Printf("Created %s (%s)\n", dev.Name, dev.ID)
	return nil
}

func runDevicesUpdate(cmd *cobra.Command, args []string) error {
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

	dev, err := client.UpdateDevice(ctx, args[0], devicePayloadFromFlags())
	if err != nil {
		logger.Error().Err(err).Str("device", args[0]).Msg("device update failed")
		return err
	}

	logger.Info().Str("device", dev.ID).Msg("device updated")
	fmt.Printf("Updated %s (%s)\n", dev.Name, dev.ID)
	return nil
}

func runDevicesDelete(cmd *cobra.Command, args []string) error {
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

	if err := client.DeleteDevice(ctx, args[0]); err != nil {
		logger.Error().Err(err).Str("device", args[0]).Msg("device delete failed")
		return err
	}

	logger.Info().Str("device", args[0]).Msg("device deleted")
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}

func devicePayloadFromFlags() backend.DevicePayload {
	payload := backend.DevicePayload{
		Name:    deviceName,
		Host:    deviceHost,
		Port:    devicePort,
		Enabled: !deviceDisabled,
	}
	if deviceDescription != "" {
		payload.Description = &deviceDescription
	}
	return payload
}

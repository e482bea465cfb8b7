// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Metrolab

package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	historyDeviceID string
	historyLimit    int
	historySource   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query recorded status snapshots and command history",
	Long: `Read the monitoring tables hrogd keeps per device.

"status" lists status snapshots (manual refreshes and background
polls); "commands" lists executed mutating commands. Both are newest
first and capped by --limit.

Examples:
  # Last 20 snapshots for a device, any source
  hrogstat history status --device 6f1c... --limit 20

  # Only background poller snapshots
  hrogstat history status --device 6f1c... --source poller

  # Recent writes
  hrogstat history commands --device 6f1c...`,
}

var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List status snapshots",
	RunE:  runHistoryStatus,
}

var historyCommandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List executed commands",
	RunE:  runHistoryCommands,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyCommandsCmd)

	historyCmd.PersistentFlags().StringVarP(&historyDeviceID, "device", "d", "", "Filter by device id")
	historyCmd.PersistentFlags().IntVar(&historyLimit, "limit", 0, "Maximum rows (0 = backend default)")
	historyStatusCmd.Flags().StringVar(&historySource, "source", "", "Filter by snapshot source (console, poller)")
}

func runHistoryStatus(cmd *cobra.Command, args []string) error {
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

	limit := historyLimit
	if limit == 0 {
		limit = cfg.Console.HistoryLimit
	}

	snaps, err := client.StatusSnapshots(ctx, historyDeviceID, limit, historySource)
	if err != nil {
		logger.Error().Err(err).Msg("snapshot query failed")
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COLLECTED\tDEVICE\tSOURCE\tOK\tSTATUS\tMS")
	for _, s := range snaps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\t%d\n",
			s.CollectedAt.Format("2006-01-02 15:04:05"),
			s.DeviceID, s.Source, s.Success, s.Status, s.DurationMS)
	}
	return w.Flush()
}

func runHistoryCommands(cmd *cobra.Command, args []string) error {
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

	limit := historyLimit
	if limit == 0 {
		limit = cfg.Console.HistoryLimit
	}

	records, err := client.CommandHistory(ctx, historyDeviceID, limit)
	if err != nil {
		logger.Error().Err(err).Msg("command history query failed")
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tDEVICE\tCOMMAND\tOPERATOR\tOK\tSTATUS\tMS")
	for _, r := range records {
		operator := "-"
		if r.UserID != nil {
			operator = *r.UserID
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\t%d\n",
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.DeviceID, r.CommandCode, operator, r.Success, r.Status, r.DurationMS)
	}
	return w.Flush()
}

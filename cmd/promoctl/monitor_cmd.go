package main

import (
	"github.com/spf13/cobra"

	"promoctl/pkg/models"
)

var (
	monitorAddProfile   string
	monitorPollInterval int
)

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.AddCommand(monitorListCmd)
	monitorCmd.AddCommand(monitorAddCmd)
	monitorCmd.AddCommand(monitorStartCmd)
	monitorCmd.AddCommand(monitorStopCmd)
	monitorCmd.AddCommand(monitorRemoveCmd)
	monitorCmd.AddCommand(monitorSettingsCmd)
	monitorCmd.AddCommand(monitorTestCmd)

	monitorAddCmd.Flags().StringVar(&monitorAddProfile, "profile", "", "Promotion profile used for new posts")
	monitorAddCmd.MarkFlagRequired("profile")

	monitorSettingsCmd.Flags().IntVar(&monitorPollInterval, "interval", 0, "Polling interval in seconds (minimum 30)")
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Manage monitored accounts",
}

var monitorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List monitored accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter()
		ctx, cancel := commandContext()
		defer cancel()

		a := getApp(ctx)
		defer a.Close()

		targets, err := a.Monitor.Refresh(ctx)
		if err != nil {
			return out.Error(err)
		}
		if out.IsJSON() {
			return out.Success(targets)
		}
		if len(targets) == 0 {
			out.Println("No accounts are being monitored.")
			return nil
		}

		rows := make([][]string, 0, len(targets))
		for _, t := range targets {
			state := "stopped"
			if t.IsRunning {
				state = "running"
			}
			rows = append(rows, []string{
				t.ID,
				t.TargetUsername,
				t.PromotionProfileName,
				state,
				formatTime(t.LastChecked),
			})
		}
		out.Table([]string{"ID", "Username", "Profile", "State", "Last Checked"}, rows)
		return nil
	},
}

var monitorAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Start monitoring an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter()
		ctx, cancel := commandContext()
		defer cancel()

		a := getApp(ctx)
		defer a.Close()

		if err := a.Monitor.Add(ctx, args[0], monitorAddProfile); err != nil {
			return out.Error(err)
		}
		if out.IsJSON() {
			return out.Success(a.Monitor.Targets())
		}
		out.Printf("✓ Now monitoring %s with profile %q\n", args[0], monitorAddProfile)
		return nil
	},
}

var monitorStartCmd = &cobra.Command{
	Use:   "start <target-id>",
	Short: "Resume monitoring for a target",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return toggleTarget(args[0], true) },
}

var monitorStopCmd = &cobra.Command{
	Use:   "stop <target-id>",
	Short: "Pause monitoring for a target",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return toggleTarget(args[0], false) },
}

func toggleTarget(id string, running bool) error {
	out := getOutputPrinter()
	ctx, cancel := commandContext()
	defer cancel()

	a := getApp(ctx)
	defer a.Close()

	if err := a.Monitor.Toggle(ctx, id, running); err != nil {
		return out.Error(err)
	}
	if out.IsJSON() {
		return out.Success(a.Monitor.Targets())
	}
	verb := "paused"
	if running {
		verb = "resumed"
	}
	out.Printf("✓ Monitoring %s for target %s\n", verb, id)
	return nil
}

var monitorRemoveCmd = &cobra.Command{
	Use:   "remove <target-id>",
	Short: "Stop monitoring an account and forget it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter()
		ctx, cancel := commandContext()
		defer cancel()

		a := getApp(ctx)
		defer a.Close()

		if err := a.Monitor.Remove(ctx, args[0]); err != nil {
			return out.Error(err)
		}
		if out.IsJSON() {
			return out.Success(a.Monitor.Targets())
		}
		out.Printf("✓ Removed target %s\n", args[0])
		return nil
	},
}

var monitorSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the monitor polling interval",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter()
		ctx, cancel := commandContext()
		defer cancel()

		a := getApp(ctx)
		defer a.Close()

		if monitorPollInterval > 0 {
			settings := models.MonitoringSettings{PollingIntervalSeconds: monitorPollInterval}
			if err := a.Monitor.SaveSettings(ctx, settings); err != nil {
				return out.Error(err)
			}
			if out.IsJSON() {
				return out.Success(settings)
			}
			out.Printf("✓ Polling interval set to %ds\n", monitorPollInterval)
			return nil
		}

		settings, err := a.Monitor.LoadSettings(ctx)
		if err != nil {
			return out.Error(err)
		}
		if out.IsJSON() {
			return out.Success(settings)
		}
		out.Printf("Polling interval: %ds\n", settings.PollingIntervalSeconds)
		return nil
	},
}

var monitorTestCmd = &cobra.Command{
	Use:   "test <username>",
	Short: "Scrape an account once and show the latest post",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter()
		ctx, cancel := commandContext()
		defer cancel()

		a := getApp(ctx)
		defer a.Close()

		username := ""
		if len(args) > 0 {
			username = args[0]
		}
		resp, err := a.Monitor.TestLatestPost(ctx, username)
		if err != nil {
			return out.Error(err)
		}
		if out.IsJSON() {
			return out.Success(map[string]string{"url": resp.URL, "timestamp": resp.TimestampISO})
		}
		out.Printf("Latest post: %s", resp.URL)
		if resp.TimestampISO != "" {
			out.Printf(" (%s)", resp.TimestampISO)
		}
		out.Printf("\n")
		return nil
	},
}

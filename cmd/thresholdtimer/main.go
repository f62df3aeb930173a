package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"thresholdtimer/internal/bootstrap"
	"thresholdtimer/internal/platform/config"
	"thresholdtimer/internal/ui/components"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	dataDir    string
	configPath string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "thresholdtimer",
		Short:         "Heart-rate threshold alerts and countdown timers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", config.DefaultDataDir(), "directory for the database, config and log")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default <data-dir>/config.yaml)")

	root.AddCommand(newTUICmd(&flags))
	root.AddCommand(newThresholdCmd(&flags))
	root.AddCommand(newCountdownCmd(&flags))
	root.AddCommand(newPresetCmd(&flags))
	root.AddCommand(newSettingsCmd(&flags))
	return root
}

func loadApp(ctx context.Context, flags *globalFlags, opts bootstrap.Options) (*bootstrap.App, error) {
	cfg, err := config.New(flags.dataDir)
	if err != nil {
		return nil, err
	}
	if flags.configPath != "" {
		if cfg, err = config.LoadFile(cfg, flags.configPath); err != nil {
			return nil, err
		}
	}
	return bootstrap.New(ctx, cfg, opts)
}

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := loadApp(ctx, flags, bootstrap.Options{TUI: true, Bell: os.Stderr})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close(context.Background()) }()
			return bootstrap.RunTUI(app)
		},
	}
}

func newThresholdCmd(flags *globalFlags) *cobra.Command {
	threshold := &cobra.Command{Use: "threshold", Short: "Heart-rate threshold monitoring"}

	var bound float64
	var period int
	var feed string
	var revokeOnTerm bool
	run := &cobra.Command{
		Use:   "run",
		Short: "Monitor until interrupted, alerting while the reading is below the bound",
		Long: "Monitor until interrupted, alerting while the reading is below the bound.\n" +
			"SIGINT stops the session. With --revoke-on-term, SIGTERM ends it the way a host\n" +
			"revoking background execution would.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := loadApp(ctx, flags, bootstrap.Options{Feed: feed, Bell: os.Stderr})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close(context.Background()) }()

			updates, cancel := app.ThresholdCLI.Subscribe()
			defer cancel()

			signals := make(chan os.Signal, 1)
			signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(signals)

			out, err := app.ThresholdCLI.Start(ctx, bound, period)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "monitoring: alert below %.0f bpm every %s (ctrl-c to stop)\n", out.Bound, out.AlertPeriod)

			var last string
			for {
				select {
				case status, ok := <-updates:
					if !ok {
						return nil
					}
					if !status.Running {
						_, _ = fmt.Fprintf(w, "session ended after %d alerts\n", out.Alerts)
						return nil
					}
					out = status
					if line := thresholdLine(status.HasReading, status.LastReading, status.Alerting, status.Alerts); line != last {
						_, _ = fmt.Fprintln(w, line)
						last = line
					}
				case sig := <-signals:
					if sig == syscall.SIGTERM && revokeOnTerm {
						n := app.Guard.Revoke()
						_, _ = fmt.Fprintf(w, "runtime revoked (%d leases)\n", n)
						continue
					}
					if _, err := app.ThresholdCLI.Stop(context.Background()); err != nil {
						return err
					}
					_, _ = fmt.Fprintf(w, "stopped after %d alerts\n", out.Alerts)
					return nil
				}
			}
		},
	}
	run.Flags().Float64Var(&bound, "bound", 0, "alert below this bpm (default: saved setting)")
	run.Flags().IntVar(&period, "period", 0, "seconds between alerts, 1-10 (default: saved setting)")
	run.Flags().StringVar(&feed, "feed", "", "sensor feed: sim|mqtt|none (default: config)")
	run.Flags().BoolVar(&revokeOnTerm, "revoke-on-term", false, "treat SIGTERM as a runtime revocation")

	threshold.AddCommand(run)
	return threshold
}

func thresholdLine(hasReading bool, reading float64, alerting bool, alerts int) string {
	value := "--"
	if hasReading {
		value = fmt.Sprintf("%.0f", reading)
	}
	state := "ok"
	if alerting {
		state = "ALERTING"
	}
	return fmt.Sprintf("reading=%s bpm state=%s alerts=%d", value, state, alerts)
}

func newCountdownCmd(flags *globalFlags) *cobra.Command {
	countdown := &cobra.Command{Use: "countdown", Short: "Countdown timers"}

	var presetID, label string
	var seconds int
	run := &cobra.Command{
		Use:   "run (--preset-id <id> | --seconds <n>)",
		Short: "Run a countdown in the foreground",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(presetID) == "" && seconds <= 0 {
				return fmt.Errorf("--preset-id or --seconds is required")
			}
			ctx := cmd.Context()
			app, err := loadApp(ctx, flags, bootstrap.Options{Bell: os.Stderr})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close(context.Background()) }()

			updates, cancel := app.CountdownCLI.Subscribe()
			defer cancel()

			signals := make(chan os.Signal, 1)
			signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(signals)

			if presetID != "" {
				_, err = app.CountdownCLI.StartPreset(ctx, presetID)
			} else {
				_, err = app.CountdownCLI.Start(ctx, seconds, label)
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			var last string
			for {
				select {
				case status, ok := <-updates:
					if !ok {
						return nil
					}
					if status.Completed {
						printClock(w, &last, "done")
						_, _ = fmt.Fprintln(w)
						return nil
					}
					if status.Running {
						printClock(w, &last, components.FormatClock(status.Remaining))
					}
				case <-signals:
					if _, err := app.CountdownCLI.Stop(context.Background()); err != nil {
						return err
					}
					_, _ = fmt.Fprintln(w, "\ncancelled")
					return nil
				}
			}
		},
	}
	run.Flags().StringVar(&presetID, "preset-id", "", "preset id")
	run.Flags().IntVar(&seconds, "seconds", 0, "duration in seconds")
	run.Flags().StringVar(&label, "label", "", "label for an ad-hoc countdown")

	countdown.AddCommand(run)
	return countdown
}

func printClock(w io.Writer, last *string, text string) {
	if text == *last {
		return
	}
	*last = text
	_, _ = fmt.Fprintf(w, "\r%-10s", text)
}

func newPresetCmd(flags *globalFlags) *cobra.Command {
	preset := &cobra.Command{Use: "preset", Short: "Countdown presets"}

	preset.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List presets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := loadApp(ctx, flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close(context.Background()) }()
			presets, err := app.PresetCLI.List(ctx)
			if err != nil {
				return err
			}
			if len(presets) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no presets")
				return nil
			}
			for _, p := range presets {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%ds\n", p.ID, p.Label, p.Seconds)
			}
			return nil
		},
	})

	var label string
	var seconds int
	add := &cobra.Command{
		Use:   "add --seconds <n> [--label <label>]",
		Short: "Add a preset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := loadApp(ctx, flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close(context.Background()) }()
			p, err := app.PresetCLI.Add(ctx, label, seconds)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", p.Label, p.ID)
			return nil
		},
	}
	add.Flags().IntVar(&seconds, "seconds", 0, "duration in seconds")
	add.Flags().StringVar(&label, "label", "", "label (default derived from the duration)")

	var removeID string
	remove := &cobra.Command{
		Use:   "remove --id <id>",
		Short: "Remove a preset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(removeID) == "" {
				return fmt.Errorf("--id is required")
			}
			ctx := cmd.Context()
			app, err := loadApp(ctx, flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close(context.Background()) }()
			if err := app.PresetCLI.Remove(ctx, removeID); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", removeID)
			return nil
		},
	}
	remove.Flags().StringVar(&removeID, "id", "", "preset id")

	preset.AddCommand(add, remove)
	return preset
}

func newSettingsCmd(flags *globalFlags) *cobra.Command {
	settings := &cobra.Command{Use: "settings", Short: "Threshold settings"}

	settings.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show threshold settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := loadApp(ctx, flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close(context.Background()) }()
			s, err := app.SettingsCLI.Threshold(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "bound: %.0f bpm\nalert period: %ds\n", s.Bound, s.AlertPeriodSeconds)
			return nil
		},
	})

	var bound float64
	var period int
	set := &cobra.Command{
		Use:   "set [--bound <bpm>] [--period <seconds>]",
		Short: "Change threshold settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := loadApp(ctx, flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close(context.Background()) }()
			current, err := app.SettingsCLI.Threshold(ctx)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("bound") {
				bound = current.Bound
			}
			if !cmd.Flags().Changed("period") {
				period = current.AlertPeriodSeconds
			}
			s, err := app.SettingsCLI.SaveThreshold(ctx, bound, period)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved: bound %.0f bpm, alert period %ds\n", s.Bound, s.AlertPeriodSeconds)
			return nil
		},
	}
	set.Flags().Float64Var(&bound, "bound", 0, "alert below this bpm (40-200)")
	set.Flags().IntVar(&period, "period", 0, "seconds between alerts (1-10)")

	settings.AddCommand(set)
	return settings
}

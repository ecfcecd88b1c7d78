package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"buildbeacon-agent/src/broker"
	"buildbeacon-agent/src/logger"
	"buildbeacon-agent/src/tui"
)

var followFlag bool

// previewCmd shows the display contents in the terminal.
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show what the display shows, in the terminal",
	Long: `Render the status snapshot in an interactive terminal view.

By default the view polls Jenkins itself every POLL_INTERVAL. With --follow it
instead consumes the snapshots another buildbeacon instance publishes to
Redpanda (REDPANDA_BROKERS must be set).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// The TUI owns the terminal.
		log := logger.NewSilentLogger()

		opts := tui.Options{
			Context:  ctx,
			Project:  appConfig.ProjectPrefix,
			Interval: appConfig.PollInterval,
		}

		if followFlag {
			if len(appConfig.RedpandaBrokers) == 0 {
				return fmt.Errorf("--follow requires REDPANDA_BROKERS")
			}
			b, err := broker.NewRedpandaBroker(appConfig.RedpandaBrokers, log)
			if err != nil {
				return fmt.Errorf("failed to connect to Redpanda: %w", err)
			}
			defer b.Close()

			stream, err := broker.SubscribeSnapshots(ctx, b, appConfig.Topic, fmt.Sprintf("buildbeacon-preview-%d", os.Getpid()), log)
			if err != nil {
				return err
			}
			opts.Source = "redpanda:" + appConfig.Topic
			opts.Stream = stream
		} else {
			agg, err := newAggregator(appConfig, log)
			if err != nil {
				return err
			}
			opts.Source = "jenkins"
			opts.Fetch = agg.BuildSnapshot
		}

		p := tea.NewProgram(tui.NewPreviewModel(opts), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && ctx.Err() == nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	},
}

func init() {
	previewCmd.Flags().BoolVar(&followFlag, "follow", false, "consume snapshots from Redpanda instead of polling Jenkins")
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"buildbeacon-agent/src/pipeline"
	"buildbeacon-agent/src/provider"
	"buildbeacon-agent/src/serialport"
	"buildbeacon-agent/src/transmit"
)

// runCmd polls until interrupted.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Poll Jenkins and push the status to the display until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log := newLogger()

		agg, err := newAggregator(appConfig, log)
		if err != nil {
			return err
		}

		sinks, closeSinks, err := newSinks(appConfig, mode, newSerialTransmitter(appConfig, log), log)
		if err != nil {
			return err
		}
		defer closeSinks()

		log.Info("[Main] %s mode: %d machines, serial %s@%d", mode, len(appConfig.Machines), appConfig.SerialDevice, appConfig.SerialBaud)

		poller := pipeline.NewPoller(agg, sinks, appConfig.PollInterval, log)
		poller.Start(ctx)
		return nil
	},
}

var dryRun bool

// onceCmd runs a single cycle.
var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run one poll cycle and exit",
	Long: `Build one snapshot and send it. With --dry-run the fragments are written
to stdout (one per line) instead of the serial device and nothing is broadcast.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log := newLogger()

		agg, err := newAggregator(appConfig, log)
		if err != nil {
			return err
		}

		var sinks []pipeline.Sink
		closeSinks := func() {}
		if dryRun {
			sinks = []pipeline.Sink{dryRunSink(cmd, appConfig.FragmentBytes)}
		} else {
			sinks, closeSinks, err = newSinks(appConfig, mode, newSerialTransmitter(appConfig, log), log)
			if err != nil {
				return err
			}
		}
		defer closeSinks()

		if _, err := pipeline.RunCycle(ctx, agg, sinks, log); err != nil {
			return provider.WrapError(err)
		}
		return nil
	},
}

// dryRunSink prints each fragment on its own line instead of writing to the device.
func dryRunSink(cmd *cobra.Command, fragmentBytes int) pipeline.Sink {
	out := cmd.OutOrStdout()
	return transmit.NewTransmitter(serialport.WriterOpener(&fragmentPrinter{w: out}), fragmentBytes, newLogger())
}

// fragmentPrinter puts every write on its own line so fragment boundaries stay visible.
type fragmentPrinter struct {
	w io.Writer
	n int
}

func (p *fragmentPrinter) Write(b []byte) (int, error) {
	if string(b) == transmit.Terminator {
		_, err := fmt.Fprintf(p.w, "-- %d fragments, terminator sent\n", p.n)
		p.n = 0
		return len(b), err
	}
	p.n++
	if _, err := fmt.Fprintf(p.w, "[%d] %s\n", p.n, b); err != nil {
		return 0, err
	}
	return len(b), nil
}

func init() {
	onceCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print fragments to stdout instead of writing to the serial device")
}

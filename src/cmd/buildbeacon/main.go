// Package main provides the buildbeacon CLI: it polls Jenkins and pushes a compact
// build status to a serial display, optionally broadcasting it to Redpanda.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"buildbeacon-agent/src/config"
	"buildbeacon-agent/src/logger"
	"buildbeacon-agent/src/pipeline"
)

// skipConfig marks commands that run without the Jenkins configuration.
const skipConfig = "skip-config"

var (
	appConfig *config.Config
	mode      pipeline.Mode
	debugFlag bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "buildbeacon",
	Short: "buildbeacon - Jenkins build status on a serial display",
	Long: `buildbeacon polls a Jenkins server, derives a compact status of the
monitored build machines and the most recent failed and successful builds,
and streams it to a display device over a serial link.

Mode is auto-detected from the REDPANDA_BROKERS environment variable:
- Serial Mode: snapshots go to the serial display only (default)
- Broadcast Mode: snapshots are also published to a Redpanda topic`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipConfig] == "true" {
			return nil
		}

		var err error
		appConfig, err = config.LoadFromEnv()
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		if debugFlag {
			appConfig.Debug = true
		}

		mode = pipeline.DetectMode(&pipeline.Config{
			RedpandaBrokers: appConfig.RedpandaBrokers,
			Topic:           appConfig.Topic,
		})
		return nil
	},
}

func newLogger() logger.Logger {
	return logger.NewConsoleLogger(appConfig != nil && appConfig.Debug)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(onceCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(nameCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Package pipeline assembles status snapshots and pushes them to the configured sinks.
// It is used by the CLI (run, once, preview) and the MCP server.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"buildbeacon-agent/src/contracts"
	"buildbeacon-agent/src/logger"
)

// Mode selects where snapshots go besides the serial display.
type Mode int

const (
	// ModeSerial pushes snapshots to the serial display only.
	ModeSerial Mode = iota
	// ModeBroadcast also publishes every snapshot to a Redpanda topic.
	ModeBroadcast
)

func (m Mode) String() string {
	switch m {
	case ModeSerial:
		return "serial"
	case ModeBroadcast:
		return "broadcast"
	default:
		return "unknown"
	}
}

// Config holds the settings that decide the pipeline mode.
type Config struct {
	RedpandaBrokers []string
	Topic           string
}

// DetectMode returns ModeBroadcast when at least one non-empty broker address is configured.
func DetectMode(cfg *Config) Mode {
	if cfg == nil {
		return ModeSerial
	}
	for _, b := range cfg.RedpandaBrokers {
		if strings.TrimSpace(b) != "" {
			return ModeBroadcast
		}
	}
	return ModeSerial
}

// Source produces one fresh snapshot per call.
type Source interface {
	BuildSnapshot(ctx context.Context) (*contracts.StateSnapshot, error)
}

// Sink receives finished snapshots. Delivery is best-effort: a sink reports
// failure but is never retried.
type Sink interface {
	Name() string
	Send(ctx context.Context, snapshot *contracts.StateSnapshot) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc struct {
	Label string
	Fn    func(ctx context.Context, snapshot *contracts.StateSnapshot) error
}

func (s SinkFunc) Name() string { return s.Label }

func (s SinkFunc) Send(ctx context.Context, snapshot *contracts.StateSnapshot) error {
	return s.Fn(ctx, snapshot)
}

// RunCycle builds one snapshot and hands it to every sink in order.
// Nothing is sent when the snapshot cannot be built. A failing sink does not
// stop the remaining ones; the first sink error is returned.
func RunCycle(ctx context.Context, src Source, sinks []Sink, log logger.Logger) (*contracts.StateSnapshot, error) {
	snapshot, err := src.BuildSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot: %w", err)
	}

	var firstErr error
	for _, sink := range sinks {
		if err := sink.Send(ctx, snapshot); err != nil {
			log.Error("[Pipeline] %s sink failed: %v", sink.Name(), err)
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", sink.Name(), err)
			}
			continue
		}
		log.Debug("[Pipeline] snapshot sent to %s", sink.Name())
	}

	return snapshot, firstErr
}

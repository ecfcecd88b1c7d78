package pipeline

import (
	"context"
	"time"

	"buildbeacon-agent/src/contracts"
	"buildbeacon-agent/src/logger"
)

// Poller runs a cycle immediately and then once per interval until its context ends.
// Cycles never overlap; a failed cycle is logged and the next one starts from scratch.
type Poller struct {
	source   Source
	sinks    []Sink
	interval time.Duration
	logger   logger.Logger

	// OnCycle, if set, is called after every cycle with its snapshot (nil on failure) and error.
	OnCycle func(snapshot *contracts.StateSnapshot, err error)
}

// NewPoller creates a Poller.
func NewPoller(source Source, sinks []Sink, interval time.Duration, log logger.Logger) *Poller {
	return &Poller{
		source:   source,
		sinks:    sinks,
		interval: interval,
		logger:   log,
	}
}

// Start blocks until ctx is cancelled.
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("[Poller] polling every %s", p.interval)
	p.cycle(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("[Poller] stopped")
			return
		case <-ticker.C:
			p.cycle(ctx)
		}
	}
}

func (p *Poller) cycle(ctx context.Context) {
	started := time.Now()
	snapshot, err := RunCycle(ctx, p.source, p.sinks, p.logger)
	if err != nil {
		p.logger.Error("[Poller] cycle skipped: %v", err)
	} else {
		p.logger.Debug("[Poller] cycle finished in %s (%d machines)", time.Since(started).Round(time.Millisecond), len(snapshot.Machines))
	}

	if p.OnCycle != nil {
		p.OnCycle(snapshot, err)
	}
}

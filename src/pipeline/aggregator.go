package pipeline

import (
	"context"

	"buildbeacon-agent/src/contracts"
	"buildbeacon-agent/src/logger"
)

// NodeCollector derives the status of one machine. On error it still returns a
// record naming the machine.
type NodeCollector interface {
	Collect(ctx context.Context, machine string) (contracts.NodeStatus, error)
}

// BuildSelector picks the most recent failure and success of the monitored view.
type BuildSelector interface {
	SelectRecentFailureAndSuccess(ctx context.Context) (failure, success *contracts.InterestingBuild, err error)
}

// Aggregator merges machine records and interesting builds into one snapshot.
type Aggregator struct {
	collector NodeCollector
	selector  BuildSelector
	machines  []string
	logger    logger.Logger
}

// NewAggregator creates an Aggregator for the given machines, in display order.
func NewAggregator(collector NodeCollector, selector BuildSelector, machines []string, log logger.Logger) *Aggregator {
	return &Aggregator{
		collector: collector,
		selector:  selector,
		machines:  append([]string(nil), machines...),
		logger:    log,
	}
}

// Machines returns the configured machine names.
func (a *Aggregator) Machines() []string {
	return append([]string(nil), a.machines...)
}

// BuildSnapshot queries every machine and the view, and returns a fresh snapshot.
// A machine whose query fails keeps its slot as an offline placeholder. A failed
// view query fails the whole snapshot.
func (a *Aggregator) BuildSnapshot(ctx context.Context) (*contracts.StateSnapshot, error) {
	snapshot := &contracts.StateSnapshot{
		Machines: make([]contracts.NodeStatus, len(a.machines)),
	}

	for i, machine := range a.machines {
		status, err := a.collector.Collect(ctx, machine)
		if err != nil {
			a.logger.Error("[Aggregator] %v", err)
		}
		snapshot.Machines[i] = status
	}

	failure, success, err := a.selector.SelectRecentFailureAndSuccess(ctx)
	if err != nil {
		return nil, err
	}
	snapshot.RecentFailure = failure
	snapshot.RecentSuccess = success

	return snapshot, nil
}

package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"buildbeacon-agent/src/contracts"
	"buildbeacon-agent/src/logger"
)

// SnapshotPublisher publishes every snapshot as JSON under contracts.SnapshotKey.
// It satisfies the pipeline sink interface.
type SnapshotPublisher struct {
	broker Broker
	topic  string
}

// NewSnapshotPublisher creates a publisher. An empty topic uses contracts.TopicSnapshots.
func NewSnapshotPublisher(b Broker, topic string) *SnapshotPublisher {
	if topic == "" {
		topic = contracts.TopicSnapshots
	}
	return &SnapshotPublisher{broker: b, topic: topic}
}

// Name identifies the sink in logs.
func (p *SnapshotPublisher) Name() string { return "broker:" + p.topic }

// Send publishes one snapshot.
func (p *SnapshotPublisher) Send(ctx context.Context, snapshot *contracts.StateSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := p.broker.Publish(ctx, p.topic, contracts.SnapshotKey, data); err != nil {
		return fmt.Errorf("failed to publish snapshot: %w", err)
	}
	return nil
}

// SubscribeSnapshots decodes snapshots from topic. Undecodable messages are logged
// and skipped. The returned channel closes with the underlying subscription.
func SubscribeSnapshots(ctx context.Context, b Broker, topic, groupID string, log logger.Logger) (<-chan *contracts.StateSnapshot, error) {
	if topic == "" {
		topic = contracts.TopicSnapshots
	}

	msgs, err := b.Subscribe(ctx, topic, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	out := make(chan *contracts.StateSnapshot, 1)
	go func() {
		defer close(out)
		for msg := range msgs {
			var snap contracts.StateSnapshot
			if err := json.Unmarshal(msg.Value, &snap); err != nil {
				log.Error("[Broker] skipping malformed snapshot at offset %d: %v", msg.Offset, err)
				continue
			}
			select {
			case out <- &snap:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

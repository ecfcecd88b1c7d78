package broker

import (
	"context"
	"sync"
	"time"
)

// subscriberBuffer is the per-subscriber queue length; a full subscriber drops messages.
const subscriberBuffer = 16

type subscriber struct {
	ch   chan Message
	done <-chan struct{}
}

// InMemoryBroker delivers messages to subscribers in the same process.
// Delivery is best-effort: a subscriber whose buffer is full misses the message.
type InMemoryBroker struct {
	mu     sync.Mutex
	subs   map[string][]*subscriber
	offset map[string]int64
	closed bool
}

// NewInMemoryBroker creates a new InMemoryBroker instance.
func NewInMemoryBroker() *InMemoryBroker {
	return &InMemoryBroker{
		subs:   make(map[string][]*subscriber),
		offset: make(map[string]int64),
	}
}

// Publish delivers value to every live subscriber of topic.
func (b *InMemoryBroker) Publish(ctx context.Context, topic string, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	msg := Message{
		Topic:     topic,
		Key:       key,
		Value:     append([]byte(nil), value...),
		Offset:    b.offset[topic],
		Timestamp: time.Now().UnixMilli(),
	}
	b.offset[topic]++

	for _, sub := range b.subs[topic] {
		select {
		case <-sub.done:
			continue
		default:
		}
		select {
		case sub.ch <- msg:
		default:
		}
	}
	return nil
}

// Subscribe registers a subscriber that lives until ctx ends or the broker closes.
func (b *InMemoryBroker) Subscribe(ctx context.Context, topic string, groupID string) (<-chan Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	sub := &subscriber{ch: make(chan Message, subscriberBuffer), done: ctx.Done()}
	b.subs[topic] = append(b.subs[topic], sub)

	if ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			b.remove(topic, sub)
		}()
	}

	return sub.ch, nil
}

func (b *InMemoryBroker) remove(topic string, target *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[topic]
	for i, sub := range subs {
		if sub == target {
			b.subs[topic] = append(subs[:i], subs[i+1:]...)
			close(sub.ch)
			return
		}
	}
}

// Close closes every subscriber channel. Further calls fail with ErrClosed.
func (b *InMemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for topic, subs := range b.subs {
		for _, sub := range subs {
			close(sub.ch)
		}
		delete(b.subs, topic)
	}
	return nil
}

package transmit

import (
	"context"
	"fmt"
	"io"

	"buildbeacon-agent/src/contracts"
	"buildbeacon-agent/src/logger"
)

// Port is a write channel to the display.
type Port interface {
	io.Writer
	io.Closer
}

// OpenFunc opens a fresh channel for one transmission.
type OpenFunc func(ctx context.Context) (Port, error)

// Transmitter encodes snapshots and writes them as fragments followed by a terminator.
// There is no acknowledgement and no retry.
type Transmitter struct {
	open     OpenFunc
	maxBytes int
	logger   logger.Logger
}

// NewTransmitter creates a Transmitter. maxFragmentBytes <= 0 uses DefaultFragmentBytes.
func NewTransmitter(open OpenFunc, maxFragmentBytes int, log logger.Logger) *Transmitter {
	if maxFragmentBytes <= 0 {
		maxFragmentBytes = DefaultFragmentBytes
	}
	return &Transmitter{
		open:     open,
		maxBytes: maxFragmentBytes,
		logger:   log,
	}
}

// Name identifies the transmitter as a snapshot sink.
func (t *Transmitter) Name() string { return "serial" }

// Send implements the pipeline sink interface.
func (t *Transmitter) Send(ctx context.Context, snapshot *contracts.StateSnapshot) error {
	return t.Transmit(ctx, snapshot)
}

// Transmit opens the channel, writes every fragment in order without delimiters,
// writes the terminator and closes the channel.
func (t *Transmitter) Transmit(ctx context.Context, snapshot *contracts.StateSnapshot) error {
	text, err := Encode(snapshot)
	if err != nil {
		return err
	}
	fragments := Chunk(text, t.maxBytes)

	port, err := t.open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open port: %w", err)
	}

	if err := WriteFragments(port, fragments); err != nil {
		port.Close()
		return err
	}

	if err := port.Close(); err != nil {
		return fmt.Errorf("failed to close port: %w", err)
	}

	t.logger.Debug("[Transmitter] sent %d bytes in %d fragments", len(text), len(fragments))
	return nil
}

// WriteFragments writes fragments in order and then the terminator, one write each.
func WriteFragments(w io.Writer, fragments []string) error {
	for i, fragment := range fragments {
		if _, err := io.WriteString(w, fragment); err != nil {
			return fmt.Errorf("failed to write fragment %d/%d: %w", i+1, len(fragments), err)
		}
	}
	if _, err := io.WriteString(w, Terminator); err != nil {
		return fmt.Errorf("failed to write terminator: %w", err)
	}
	return nil
}

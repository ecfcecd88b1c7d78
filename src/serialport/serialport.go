// Package serialport is the serial link to the display device.
package serialport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.bug.st/serial"

	"buildbeacon-agent/src/transmit"
)

// ErrReadTimeout is returned by ReadLine when no terminator arrives in time.
var ErrReadTimeout = errors.New("serial read timed out")

// maxLineBytes bounds ReadLine so a device that never sends a terminator cannot grow the buffer forever.
const maxLineBytes = 4096

// device is the subset of serial.Port the link uses.
type device interface {
	io.ReadWriteCloser
	Drain() error
}

// Port is an open serial channel.
type Port struct {
	name string
	dev  device
}

// Open opens device at baud (8N1) with the given read timeout.
func Open(name string, baud int, timeout time.Duration) (*Port, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}

	if timeout > 0 {
		if err := p.SetReadTimeout(timeout); err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to set read timeout on %s: %w", name, err)
		}
	}

	return &Port{name: name, dev: p}, nil
}

// Name returns the device name.
func (p *Port) Name() string { return p.name }

// Write writes b and waits until it has been transmitted.
func (p *Port) Write(b []byte) (int, error) {
	n, err := p.dev.Write(b)
	if err != nil {
		return n, fmt.Errorf("write to %s: %w", p.name, err)
	}
	if err := p.dev.Drain(); err != nil {
		return n, fmt.Errorf("drain %s: %w", p.name, err)
	}
	return n, nil
}

// ReadLine reads until '\n' and returns the line without its terminator.
// The display never sends anything during normal operation.
func (p *Port) ReadLine() (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)

	for sb.Len() < maxLineBytes {
		n, err := p.dev.Read(buf)
		if err != nil {
			return sb.String(), fmt.Errorf("read from %s: %w", p.name, err)
		}
		if n == 0 {
			// go.bug.st/serial reports a read timeout as zero bytes without error.
			return sb.String(), ErrReadTimeout
		}
		if buf[0] == '\n' {
			return strings.TrimRight(sb.String(), "\r"), nil
		}
		sb.WriteByte(buf[0])
	}

	return sb.String(), fmt.Errorf("line from %s exceeds %d bytes", p.name, maxLineBytes)
}

// Close closes the device.
func (p *Port) Close() error {
	return p.dev.Close()
}

// Opener returns a transmit.OpenFunc that opens a fresh Port on each call.
func Opener(name string, baud int, timeout time.Duration) transmit.OpenFunc {
	return func(ctx context.Context) (transmit.Port, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		port, err := Open(name, baud, timeout)
		if err != nil {
			return nil, err
		}
		return port, nil
	}
}

// ListPorts returns the serial devices present on this machine.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}

type nopPort struct {
	io.Writer
}

func (nopPort) Close() error { return nil }

// NopPort wraps a writer (typically stdout) as a port whose Close does nothing.
func NopPort(w io.Writer) transmit.Port {
	return nopPort{Writer: w}
}

// WriterOpener returns a transmit.OpenFunc that always hands out NopPort(w).
func WriterOpener(w io.Writer) transmit.OpenFunc {
	return func(ctx context.Context) (transmit.Port, error) {
		return NopPort(w), nil
	}
}

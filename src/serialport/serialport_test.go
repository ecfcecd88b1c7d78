package serialport

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

// fakeDevice replays canned input; an exhausted input behaves like a read timeout.
type fakeDevice struct {
	in      []byte
	out     bytes.Buffer
	drained int
	closed  bool
	readErr error
}

func (f *fakeDevice) Read(b []byte) (int, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	if len(f.in) == 0 {
		return 0, nil
	}
	n := copy(b, f.in)
	f.in = f.in[n:]
	return n, nil
}

func (f *fakeDevice) Write(b []byte) (int, error) { return f.out.Write(b) }
func (f *fakeDevice) Drain() error                { f.drained++; return nil }
func (f *fakeDevice) Close() error                { f.closed = true; return nil }

func TestReadLine(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "plain line", in: "ok\n", want: "ok"},
		{name: "crlf", in: "ready\r\n", want: "ready"},
		{name: "stops at first terminator", in: "a\nb\n", want: "a"},
		{name: "timeout returns partial", in: "part", want: "part", wantErr: ErrReadTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Port{name: "fake", dev: &fakeDevice{in: []byte(tt.in)}}
			got, err := p.ReadLine()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ReadLine() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ReadLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadLine_DeviceError(t *testing.T) {
	p := &Port{name: "fake", dev: &fakeDevice{readErr: errors.New("unplugged")}}
	if _, err := p.ReadLine(); err == nil {
		t.Fatal("expected error")
	}
}

func TestWriteDrainsAndClose(t *testing.T) {
	dev := &fakeDevice{}
	p := &Port{name: "fake", dev: dev}

	if _, err := p.Write([]byte("{}")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if dev.out.String() != "{}" || dev.drained != 1 {
		t.Errorf("out = %q drained = %d", dev.out.String(), dev.drained)
	}
	if err := p.Close(); err != nil || !dev.closed {
		t.Errorf("Close() err = %v closed = %v", err, dev.closed)
	}
}

func TestWriterOpener(t *testing.T) {
	var buf bytes.Buffer
	port, err := WriterOpener(&buf)(context.Background())
	if err != nil {
		t.Fatalf("open error = %v", err)
	}
	if _, err := port.Write([]byte("frag")); err != nil {
		t.Fatal(err)
	}
	if err := port.Close(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "frag" {
		t.Errorf("buf = %q", buf.String())
	}
}

func TestOpener_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Opener("/dev/null-serial", 9600, 0)(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

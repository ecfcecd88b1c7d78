package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"buildbeacon-agent/src/contracts"
	"buildbeacon-agent/src/logger"
)

func TestDetectMode(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected Mode
	}{
		{
			name:     "Serial mode - nil config",
			config:   nil,
			expected: ModeSerial,
		},
		{
			name:     "Serial mode - no brokers",
			config:   &Config{RedpandaBrokers: []string{}},
			expected: ModeSerial,
		},
		{
			name:     "Serial mode - blank broker entries",
			config:   &Config{RedpandaBrokers: []string{"", "  "}},
			expected: ModeSerial,
		},
		{
			name:     "Broadcast mode - with brokers",
			config:   &Config{RedpandaBrokers: []string{"localhost:19092"}},
			expected: ModeBroadcast,
		},
		{
			name:     "Broadcast mode - multiple brokers",
			config:   &Config{RedpandaBrokers: []string{"broker1:9092", "broker2:9092"}},
			expected: ModeBroadcast,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode := DetectMode(tt.config)
			if mode != tt.expected {
				t.Errorf("Expected mode %v, got %v", tt.expected, mode)
			}
		})
	}
}

func TestModeString(t *testing.T) {
	if ModeSerial.String() != "serial" || ModeBroadcast.String() != "broadcast" || Mode(9).String() != "unknown" {
		t.Errorf("unexpected mode names: %s %s %s", ModeSerial, ModeBroadcast, Mode(9))
	}
}

type fakeCollector struct {
	failing map[string]bool
	calls   []string
}

func (f *fakeCollector) Collect(ctx context.Context, machine string) (contracts.NodeStatus, error) {
	f.calls = append(f.calls, machine)
	status := contracts.NodeStatus{Machine: machine}
	if f.failing[machine] {
		return status, errors.New("node query failed")
	}
	status.IsOnline = true
	return status, nil
}

type fakeSelector struct {
	failure, success *contracts.InterestingBuild
	err              error
}

func (f *fakeSelector) SelectRecentFailureAndSuccess(ctx context.Context) (*contracts.InterestingBuild, *contracts.InterestingBuild, error) {
	return f.failure, f.success, f.err
}

func TestBuildSnapshot_PreservesMachineOrder(t *testing.T) {
	collector := &fakeCollector{failing: map[string]bool{"B": true}}
	agg := NewAggregator(collector, &fakeSelector{}, []string{"C", "B", "A"}, logger.NewSilentLogger())

	snap, err := agg.BuildSnapshot(context.Background())
	if err != nil {
		t.Fatalf("BuildSnapshot() error = %v", err)
	}

	if len(snap.Machines) != 3 {
		t.Fatalf("got %d machines, want 3", len(snap.Machines))
	}
	for i, want := range []string{"C", "B", "A"} {
		if snap.Machines[i].Machine != want {
			t.Errorf("Machines[%d] = %q, want %q", i, snap.Machines[i].Machine, want)
		}
	}
	if snap.Machines[1].IsOnline {
		t.Error("failed machine should be an offline placeholder")
	}
	if snap.RecentFailure != nil || snap.RecentSuccess != nil {
		t.Error("expected no interesting builds")
	}
}

func TestBuildSnapshot_SelectorErrorAborts(t *testing.T) {
	agg := NewAggregator(&fakeCollector{}, &fakeSelector{err: errors.New("view unreachable")}, []string{"A"}, logger.NewSilentLogger())

	snap, err := agg.BuildSnapshot(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if snap != nil {
		t.Errorf("snapshot = %+v, want nil", snap)
	}
}

func TestAggregatorCopiesMachines(t *testing.T) {
	machines := []string{"A", "B"}
	agg := NewAggregator(&fakeCollector{}, &fakeSelector{}, machines, logger.NewSilentLogger())
	machines[0] = "Z"

	if got := agg.Machines(); got[0] != "A" {
		t.Errorf("Machines() = %v, aggregator shares caller slice", got)
	}
}

type staticSource struct {
	snap *contracts.StateSnapshot
	err  error
	n    int
}

func (s *staticSource) BuildSnapshot(ctx context.Context) (*contracts.StateSnapshot, error) {
	s.n++
	return s.snap, s.err
}

type recordingSink struct {
	name string
	err  error
	got  []*contracts.StateSnapshot
}

func (r *recordingSink) Name() string { return r.name }

func (r *recordingSink) Send(ctx context.Context, snapshot *contracts.StateSnapshot) error {
	r.got = append(r.got, snapshot)
	return r.err
}

func TestRunCycle(t *testing.T) {
	snap := &contracts.StateSnapshot{}

	t.Run("all sinks receive the snapshot", func(t *testing.T) {
		a, b := &recordingSink{name: "a"}, &recordingSink{name: "b"}
		got, err := RunCycle(context.Background(), &staticSource{snap: snap}, []Sink{a, b}, logger.NewSilentLogger())
		if err != nil || got != snap {
			t.Fatalf("RunCycle() = %v, %v", got, err)
		}
		if len(a.got) != 1 || len(b.got) != 1 {
			t.Errorf("sink deliveries a=%d b=%d", len(a.got), len(b.got))
		}
	})

	t.Run("failing sink does not stop the next", func(t *testing.T) {
		sinkErr := errors.New("port busy")
		a, b := &recordingSink{name: "a", err: sinkErr}, &recordingSink{name: "b"}
		_, err := RunCycle(context.Background(), &staticSource{snap: snap}, []Sink{a, b}, logger.NewSilentLogger())
		if !errors.Is(err, sinkErr) {
			t.Errorf("error = %v, want %v", err, sinkErr)
		}
		if len(b.got) != 1 {
			t.Error("second sink skipped")
		}
	})

	t.Run("nothing sent when snapshot fails", func(t *testing.T) {
		a := &recordingSink{name: "a"}
		_, err := RunCycle(context.Background(), &staticSource{err: errors.New("timeout")}, []Sink{a}, logger.NewSilentLogger())
		if err == nil {
			t.Fatal("expected error")
		}
		if len(a.got) != 0 {
			t.Error("sink received a partial snapshot")
		}
	})
}

func TestSinkFunc(t *testing.T) {
	called := false
	s := SinkFunc{Label: "fn", Fn: func(ctx context.Context, snapshot *contracts.StateSnapshot) error {
		called = true
		return nil
	}}
	if s.Name() != "fn" {
		t.Errorf("Name() = %q", s.Name())
	}
	if err := s.Send(context.Background(), &contracts.StateSnapshot{}); err != nil || !called {
		t.Errorf("Send() err = %v called = %v", err, called)
	}
}

func TestPollerStart_RunsImmediatelyAndStops(t *testing.T) {
	src := &staticSource{snap: &contracts.StateSnapshot{}}
	sink := &recordingSink{name: "rec"}
	p := NewPoller(src, []Sink{sink}, time.Hour, logger.NewSilentLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cycles := make(chan error, 1)
	p.OnCycle = func(snapshot *contracts.StateSnapshot, err error) {
		cycles <- err
		cancel()
	}

	done := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(done)
	}()

	select {
	case err := <-cycles:
		if err != nil {
			t.Errorf("first cycle error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first cycle did not run immediately")
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancel")
	}

	if src.n != 1 || len(sink.got) != 1 {
		t.Errorf("cycles = %d deliveries = %d, want 1/1", src.n, len(sink.got))
	}
}

func TestPollerStart_FailedCycleIsSkipped(t *testing.T) {
	src := &staticSource{err: errors.New("jenkins down")}
	sink := &recordingSink{name: "rec"}
	p := NewPoller(src, []Sink{sink}, 10*time.Millisecond, logger.NewSilentLogger())

	ctx, cancel := context.WithCancel(context.Background())
	count := 0
	p.OnCycle = func(snapshot *contracts.StateSnapshot, err error) {
		if err == nil || snapshot != nil {
			t.Errorf("OnCycle(%v, %v), want nil snapshot and error", snapshot, err)
		}
		count++
		if count == 3 {
			cancel()
		}
	}

	p.Start(ctx)

	if count < 3 {
		t.Errorf("cycles = %d, want at least 3", count)
	}
	if len(sink.got) != 0 {
		t.Error("sink received data from a failed cycle")
	}
}

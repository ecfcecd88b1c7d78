package main

import (
	"bytes"
	"strings"
	"testing"

	"buildbeacon-agent/src/buildname"
	"buildbeacon-agent/src/config"
	"buildbeacon-agent/src/logger"
	"buildbeacon-agent/src/pipeline"
	"buildbeacon-agent/src/transmit"
)

func TestPrintNames(t *testing.T) {
	var buf bytes.Buffer
	err := printNames(&buf, buildname.MustNew("PX"), []string{
		"Health Check of PX-trunk-PS5-EU-Debug @24876 (Node 1)",
		"#17",
	})
	if err != nil {
		t.Fatalf("printNames() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"label:      Health: trunk-PS5-EU-Debug", "changelist: 24876", "label:      #17", "changelist: unparsed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFragmentPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := &fragmentPrinter{w: &buf}

	if err := transmit.WriteFragments(p, transmit.Chunk(strings.Repeat("a", 10), 4)); err != nil {
		t.Fatalf("WriteFragments() error = %v", err)
	}

	want := "[1] aaaa\n[2] aaaa\n[3] aa\n-- 3 fragments, terminator sent\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestNewSinks(t *testing.T) {
	cfg := &config.Config{Topic: "t"}
	serial := transmit.NewTransmitter(nil, 0, logger.NewSilentLogger())

	sinks, closeFn, err := newSinks(cfg, pipeline.ModeSerial, serial, logger.NewSilentLogger())
	if err != nil {
		t.Fatalf("newSinks() error = %v", err)
	}
	defer closeFn()

	if len(sinks) != 1 || sinks[0].Name() != "serial" {
		t.Errorf("sinks = %v, want serial only", sinks)
	}
}

func TestNewAggregator_RejectsBadPrefix(t *testing.T) {
	cfg := &config.Config{ProjectPrefix: "bad prefix", Machines: []string{"A"}}
	if _, err := newAggregator(cfg, logger.NewSilentLogger()); err == nil {
		t.Error("expected error for malformed prefix")
	}
}

func TestNameCommandSkipsConfig(t *testing.T) {
	if nameCmd.Annotations[skipConfig] != "true" {
		t.Error("name command should not require Jenkins configuration")
	}
}

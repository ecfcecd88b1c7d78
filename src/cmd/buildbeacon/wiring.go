package main

import (
	"fmt"

	"buildbeacon-agent/src/broker"
	"buildbeacon-agent/src/buildname"
	"buildbeacon-agent/src/config"
	"buildbeacon-agent/src/jenkins"
	"buildbeacon-agent/src/logger"
	"buildbeacon-agent/src/nodes"
	"buildbeacon-agent/src/pipeline"
	"buildbeacon-agent/src/ranking"
	"buildbeacon-agent/src/serialport"
	"buildbeacon-agent/src/transmit"
)

// newAggregator wires the Jenkins client into the snapshot builder.
// The client is created once and shared by every collaborator.
func newAggregator(cfg *config.Config, log logger.Logger) (*pipeline.Aggregator, error) {
	interp, err := buildname.New(cfg.ProjectPrefix)
	if err != nil {
		return nil, err
	}

	ci := jenkins.NewProvider(jenkins.NewClient(cfg.JenkinsURL, cfg.JenkinsUser, cfg.JenkinsToken, cfg.RequestsPerSecond))

	return pipeline.NewAggregator(
		nodes.NewCollector(ci, interp, cfg.Hostname(), log),
		ranking.NewSelector(ci, interp, cfg.View),
		cfg.Machines,
		log,
	), nil
}

// newSerialTransmitter opens the configured serial device for each transmission.
func newSerialTransmitter(cfg *config.Config, log logger.Logger) *transmit.Transmitter {
	return transmit.NewTransmitter(
		serialport.Opener(cfg.SerialDevice, cfg.SerialBaud, cfg.SerialTimeout),
		cfg.FragmentBytes,
		log,
	)
}

// newSinks returns the serial transmitter plus, in broadcast mode, the broker
// publisher. The returned close function releases the broker.
func newSinks(cfg *config.Config, m pipeline.Mode, serial pipeline.Sink, log logger.Logger) ([]pipeline.Sink, func(), error) {
	sinks := []pipeline.Sink{serial}
	if m != pipeline.ModeBroadcast {
		return sinks, func() {}, nil
	}

	b, err := broker.NewRedpandaBroker(cfg.RedpandaBrokers, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to Redpanda: %w", err)
	}
	sinks = append(sinks, broker.NewSnapshotPublisher(b, cfg.Topic))

	return sinks, func() { b.Close() }, nil
}

// Package main provides the MCP server entry point for buildbeacon.
// It exposes the live build status over the Model Context Protocol on stdio.
package main

import (
	"fmt"
	"os"

	"buildbeacon-agent/src/buildname"
	"buildbeacon-agent/src/config"
	"buildbeacon-agent/src/jenkins"
	"buildbeacon-agent/src/logger"
	"buildbeacon-agent/src/mcp"
	"buildbeacon-agent/src/nodes"
	"buildbeacon-agent/src/pipeline"
	"buildbeacon-agent/src/ranking"
)

const version = "1.0.0"

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the protocol
	log := logger.NewSilentLogger()

	interp := buildname.MustNew(cfg.ProjectPrefix)
	ci := jenkins.NewProvider(jenkins.NewClient(cfg.JenkinsURL, cfg.JenkinsUser, cfg.JenkinsToken, cfg.RequestsPerSecond))
	agg := pipeline.NewAggregator(
		nodes.NewCollector(ci, interp, cfg.Hostname(), log),
		ranking.NewSelector(ci, interp, cfg.View),
		cfg.Machines,
		log,
	)

	server := mcp.NewServer(agg, interp, version)
	if err := server.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		os.Exit(1)
	}
}

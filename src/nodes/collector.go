// Package nodes assembles the per-machine status records shown on the display.
package nodes

import (
	"context"
	"fmt"
	"time"

	"buildbeacon-agent/src/buildname"
	"buildbeacon-agent/src/contracts"
	"buildbeacon-agent/src/logger"
	"buildbeacon-agent/src/patterns"
	"buildbeacon-agent/src/provider"
	"buildbeacon-agent/src/sanitize"
	"buildbeacon-agent/src/stages"
)

// Collector queries one machine at a time and derives its NodeStatus.
type Collector struct {
	ci       provider.CIServer
	interp   *buildname.Interpreter
	hostname string
	logger   logger.Logger
	now      func() time.Time
}

// NewCollector creates a Collector. hostname is the logical CI host that
// replaces raw IPv4 addresses in build URLs.
func NewCollector(ci provider.CIServer, interp *buildname.Interpreter, hostname string, log logger.Logger) *Collector {
	return &Collector{
		ci:       ci,
		interp:   interp,
		hostname: hostname,
		logger:   log,
		now:      time.Now,
	}
}

// ShortID derives the display id of a machine: "N" followed by the last
// character of its name ("PX Node 1" -> "N1").
func ShortID(machine string) string {
	runes := []rune(machine)
	if len(runes) == 0 {
		return "N"
	}
	return "N" + string(runes[len(runes)-1])
}

// Collect returns the status of one machine. When the node query fails the
// returned record still names the machine (offline, idle) alongside the error,
// so callers can keep their machine list complete.
func (c *Collector) Collect(ctx context.Context, machine string) (contracts.NodeStatus, error) {
	status := contracts.NodeStatus{Machine: ShortID(machine)}

	node, err := c.ci.FetchNode(ctx, machine)
	if err != nil {
		return status, fmt.Errorf("failed to fetch node %q: %w", machine, err)
	}
	status.IsOnline = node.Online

	// A node normally runs at most one build; if several are listed the last one is shown.
	for _, build := range node.Builds {
		status = c.applyBuild(ctx, status, build)
	}

	return status, nil
}

func (c *Collector) applyBuild(ctx context.Context, status contracts.NodeStatus, build provider.NodeBuild) contracts.NodeStatus {
	buildURL := patterns.RewriteIPv4(build.URL, c.hostname)

	friendly := c.interp.Interpret(build.DisplayName)
	status.Build = sanitize.Label(friendly.Label)
	status.Changelist = nil
	status.Duration = nil

	if !friendly.Valid() {
		c.logger.Debug("[Collector] %s: unparsable build name %q", status.Machine, build.DisplayName)
		status.Step = stringPtr("")
		return status
	}

	status.Changelist = intPtr(friendly.Changelist)
	status.Step = stringPtr(c.activeStage(ctx, status.Machine, buildURL))
	status.Duration = int64Ptr(ElapsedSeconds(c.now(), build.Timestamp))

	return status
}

func (c *Collector) activeStage(ctx context.Context, machine, buildURL string) string {
	desc, err := c.ci.FetchPipeline(ctx, buildURL)
	if err != nil {
		c.logger.Error("[Collector] %s: failed to fetch stages for %s: %v", machine, buildURL, err)
		return ""
	}

	name, ok := stages.Active(desc)
	if !ok {
		return ""
	}
	return sanitize.Label(name)
}

// ElapsedSeconds returns whole seconds from an epoch-millisecond timestamp to now,
// clamped at zero so clock skew never yields a negative value.
func ElapsedSeconds(now time.Time, epochMillis int64) int64 {
	elapsed := now.Unix() - epochMillis/1000
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

func intPtr(v int) *int          { return &v }
func int64Ptr(v int64) *int64    { return &v }
func stringPtr(v string) *string { return &v }

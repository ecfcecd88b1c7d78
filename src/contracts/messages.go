// Package contracts defines the status model pushed to the display device and to the broker.
package contracts

// Result classifies the outcome of a completed build for the display.
type Result string

const (
	ResultSuccess Result = "SUCCESS"
	ResultFailure Result = "FAILURE"
	ResultOther   Result = "OTHER"
)

// ResultFromJenkins maps a raw CI result code onto the display enum.
// Anything that is neither SUCCESS nor FAILURE (UNSTABLE, ABORTED, NOT_BUILT, empty) is OTHER.
func ResultFromJenkins(raw string) Result {
	switch raw {
	case "SUCCESS":
		return ResultSuccess
	case "FAILURE":
		return ResultFailure
	default:
		return ResultOther
	}
}

// NodeStatus is the per-machine record shown on the display.
// An idle machine carries only Machine and IsOnline; the optional fields are
// pointers so that absence and zero values stay distinguishable on the wire.
type NodeStatus struct {
	// Short machine id, e.g. "N1".
	Machine string `json:"machine"`
	// Whether the CI server reports the machine online.
	IsOnline bool `json:"is_online"`
	// Friendly label of the current build.
	Build string `json:"build,omitempty"`
	// Changelist of the current build, only when the name could be parsed.
	Changelist *int `json:"changelist,omitempty"`
	// Active pipeline stage; "" when unknown.
	Step *string `json:"step,omitempty"`
	// Seconds since the current build started.
	Duration *int64 `json:"duration,omitempty"`
}

// Idle reports whether the record describes a machine with no current build.
func (n NodeStatus) Idle() bool {
	return n.Build == "" && n.Step == nil && n.Changelist == nil && n.Duration == nil
}

// InterestingBuild summarises the most recent completed build of one outcome group.
type InterestingBuild struct {
	Build      string `json:"build"`
	Changelist int    `json:"changelist"`
	// Seconds since the build finished.
	Age    int64  `json:"age"`
	Result Result `json:"result"`
}

// StateSnapshot is the complete status object sent once per poll cycle.
type StateSnapshot struct {
	Machines      []NodeStatus      `json:"machines"`
	RecentFailure *InterestingBuild `json:"recent_failure,omitempty"`
	RecentSuccess *InterestingBuild `json:"recent_success,omitempty"`
}

// TopicNames for broadcast mode.
const (
	// TopicSnapshots carries one JSON StateSnapshot per poll cycle.
	TopicSnapshots = "buildbeacon.snapshots"

	// SnapshotKey is the record key used for every snapshot so they share a partition.
	SnapshotKey = "snapshot"
)

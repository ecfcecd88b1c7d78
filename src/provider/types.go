package provider

// Node is a build machine as reported by the CI server.
type Node struct {
	Name   string
	Online bool
	// Builds currently running on the node's executors, in executor order.
	Builds []NodeBuild
}

// NodeBuild is a build currently executing on a node.
type NodeBuild struct {
	DisplayName string
	URL         string
	// Start time in epoch milliseconds.
	Timestamp int64
}

// PipelineDescription is the stage breakdown of a pipeline build.
// A nil Stages slice means the server returned no stage information at all.
type PipelineDescription struct {
	Status string
	Stages []Stage
}

// Stage is one named phase of a pipeline run.
type Stage struct {
	Name   string
	Status string
}

// StageInProgress is the stage status of the currently executing stage.
const StageInProgress = "IN_PROGRESS"

// CompletedBuild is the last completed build of one job.
type CompletedBuild struct {
	Job         string
	DisplayName string
	// Raw result code (SUCCESS, FAILURE, UNSTABLE, ABORTED, ...).
	Result string
	URL    string
	// Start time in epoch milliseconds.
	Timestamp int64
	// Duration in milliseconds.
	Duration int64
}

// EndTime returns the completion time in epoch milliseconds.
func (b CompletedBuild) EndTime() int64 {
	return b.Timestamp + b.Duration
}

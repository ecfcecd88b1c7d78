package jenkins

// Computer is the /computer/<name>/api/json response, restricted by computerTree.
type Computer struct {
	DisplayName     string     `json:"displayName"`
	Offline         bool       `json:"offline"`
	Executors       []Executor `json:"executors"`
	OneOffExecutors []Executor `json:"oneOffExecutors"`
}

// Executor is one build slot of a computer. CurrentExecutable is nil when the slot is idle.
type Executor struct {
	CurrentExecutable *Executable `json:"currentExecutable"`
}

// Executable is the build occupying an executor.
type Executable struct {
	DisplayName string `json:"displayName"`
	URL         string `json:"url"`
	Timestamp   int64  `json:"timestamp"`
	Building    bool   `json:"building"`
}

// WorkflowRun is the wfapi/describe response of a pipeline build.
type WorkflowRun struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Status string          `json:"status"`
	Stages []WorkflowStage `json:"stages"`
}

// WorkflowStage is one stage of a pipeline build.
type WorkflowStage struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	DurationMillis int64  `json:"durationMillis"`
}

// View is the /view/<name>/api/json response, restricted by viewTree.
type View struct {
	Jobs []Job `json:"jobs"`
}

// Job is one job of a view with its last completed build.
type Job struct {
	Name               string `json:"name"`
	LastCompletedBuild *Build `json:"lastCompletedBuild"`
}

// Build is a completed build summary.
type Build struct {
	Number      int    `json:"number"`
	DisplayName string `json:"displayName"`
	Result      string `json:"result"`
	URL         string `json:"url"`
	Timestamp   int64  `json:"timestamp"`
	Duration    int64  `json:"duration"`
}

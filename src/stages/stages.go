// Package stages finds the running stage of a pipeline build.
package stages

import "buildbeacon-agent/src/provider"

// Active returns the name of the first in-progress stage, in the order the
// server lists them. It reports false when the description carries no stage
// list or no stage is running.
func Active(desc *provider.PipelineDescription) (string, bool) {
	if desc == nil || desc.Stages == nil {
		return "", false
	}

	for _, stage := range desc.Stages {
		if stage.Status == provider.StageInProgress {
			return stage.Name, true
		}
	}

	return "", false
}

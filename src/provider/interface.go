package provider

import (
	"context"
)

// CIServer defines the read-only queries the status pipeline issues against the CI server.
// A single instance is built at startup and shared by every collaborator.
type CIServer interface {
	// Name returns the server kind (e.g. "jenkins").
	Name() string

	// FetchNode returns online state and current builds of a named machine.
	FetchNode(ctx context.Context, name string) (*Node, error)

	// FetchPipeline returns the stage description of the build at buildURL.
	// Builds without pipeline information yield a description with nil Stages.
	FetchPipeline(ctx context.Context, buildURL string) (*PipelineDescription, error)

	// FetchLastCompletedBuilds returns the last completed build of every job in a view,
	// in one batched request. Jobs that never completed a build are left out.
	FetchLastCompletedBuilds(ctx context.Context, view string) ([]CompletedBuild, error)
}

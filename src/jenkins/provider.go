package jenkins

import (
	"context"
	"errors"
	"fmt"

	"buildbeacon-agent/src/provider"
)

// Provider implements provider.CIServer for Jenkins
type Provider struct {
	client *Client
}

// NewProvider wraps a Jenkins client
func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

// Name returns "jenkins"
func (p *Provider) Name() string {
	return "jenkins"
}

// FetchNode retrieves a node and the builds running on any of its executors
func (p *Provider) FetchNode(ctx context.Context, name string) (*provider.Node, error) {
	computer, err := p.client.GetComputer(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", provider.ErrNodeNotFound, name)
		}
		return nil, err
	}

	node := &provider.Node{
		Name:   name,
		Online: !computer.Offline,
	}

	executors := append(append([]Executor{}, computer.Executors...), computer.OneOffExecutors...)
	for _, executor := range executors {
		exe := executor.CurrentExecutable
		if exe == nil {
			continue
		}
		node.Builds = append(node.Builds, provider.NodeBuild{
			DisplayName: exe.DisplayName,
			URL:         exe.URL,
			Timestamp:   exe.Timestamp,
		})
	}

	return node, nil
}

// FetchPipeline retrieves the stage list of a build. Freestyle builds have no
// workflow endpoint; their 404 is reported as a description without stages.
func (p *Provider) FetchPipeline(ctx context.Context, buildURL string) (*provider.PipelineDescription, error) {
	run, err := p.client.GetWorkflowRun(ctx, buildURL)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &provider.PipelineDescription{}, nil
		}
		return nil, err
	}

	desc := &provider.PipelineDescription{Status: run.Status}
	if run.Stages != nil {
		desc.Stages = make([]provider.Stage, 0, len(run.Stages))
		for _, stage := range run.Stages {
			desc.Stages = append(desc.Stages, provider.Stage{
				Name:   stage.Name,
				Status: stage.Status,
			})
		}
	}

	return desc, nil
}

// FetchLastCompletedBuilds retrieves the last completed build of every job in a view.
// Jobs that never completed a build are skipped.
func (p *Provider) FetchLastCompletedBuilds(ctx context.Context, view string) ([]provider.CompletedBuild, error) {
	jobs, err := p.client.GetViewJobs(ctx, view)
	if err != nil {
		return nil, err
	}

	builds := make([]provider.CompletedBuild, 0, len(jobs))
	for _, job := range jobs {
		b := job.LastCompletedBuild
		if b == nil {
			continue
		}
		builds = append(builds, provider.CompletedBuild{
			Job:         job.Name,
			DisplayName: b.DisplayName,
			Result:      b.Result,
			URL:         b.URL,
			Timestamp:   b.Timestamp,
			Duration:    b.Duration,
		})
	}

	return builds, nil
}

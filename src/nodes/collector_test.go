package nodes

import (
	"context"
	"errors"
	"testing"
	"time"

	"buildbeacon-agent/src/buildname"
	"buildbeacon-agent/src/logger"
	"buildbeacon-agent/src/provider"
)

// fakeCI serves canned nodes and pipelines and records pipeline lookups.
type fakeCI struct {
	nodes       map[string]*provider.Node
	nodeErr     error
	pipelines   map[string]*provider.PipelineDescription
	pipelineErr error
	pipelineReq []string
}

func (f *fakeCI) Name() string { return "fake" }

func (f *fakeCI) FetchNode(ctx context.Context, name string) (*provider.Node, error) {
	if f.nodeErr != nil {
		return nil, f.nodeErr
	}
	node, ok := f.nodes[name]
	if !ok {
		return nil, provider.ErrNodeNotFound
	}
	return node, nil
}

func (f *fakeCI) FetchPipeline(ctx context.Context, buildURL string) (*provider.PipelineDescription, error) {
	f.pipelineReq = append(f.pipelineReq, buildURL)
	if f.pipelineErr != nil {
		return nil, f.pipelineErr
	}
	return f.pipelines[buildURL], nil
}

func (f *fakeCI) FetchLastCompletedBuilds(ctx context.Context, view string) ([]provider.CompletedBuild, error) {
	return nil, nil
}

var fixedNow = time.Date(2024, 5, 21, 10, 0, 0, 0, time.UTC)

func newTestCollector(ci provider.CIServer) *Collector {
	c := NewCollector(ci, buildname.MustNew("PX"), "ci.example", logger.NewSilentLogger())
	c.now = func() time.Time { return fixedNow }
	return c
}

func TestShortID(t *testing.T) {
	tests := []struct {
		machine string
		want    string
	}{
		{machine: "PX Node 1", want: "N1"},
		{machine: "PX Node 3", want: "N3"},
		{machine: "builder-b", want: "Nb"},
		{machine: "", want: "N"},
	}

	for _, tt := range tests {
		t.Run(tt.machine, func(t *testing.T) {
			if got := ShortID(tt.machine); got != tt.want {
				t.Errorf("ShortID(%q) = %q, want %q", tt.machine, got, tt.want)
			}
		})
	}
}

func TestCollect_IdleNode(t *testing.T) {
	for _, online := range []bool{true, false} {
		ci := &fakeCI{nodes: map[string]*provider.Node{
			"PX Node 2": {Name: "PX Node 2", Online: online},
		}}

		status, err := newTestCollector(ci).Collect(context.Background(), "PX Node 2")
		if err != nil {
			t.Fatalf("Collect() error = %v", err)
		}

		if status.Machine != "N2" {
			t.Errorf("Machine = %q, want N2", status.Machine)
		}
		if status.IsOnline != online {
			t.Errorf("IsOnline = %v, want %v", status.IsOnline, online)
		}
		if !status.Idle() {
			t.Errorf("expected idle record, got %+v", status)
		}
		if len(ci.pipelineReq) != 0 {
			t.Errorf("idle node should not query pipelines, got %v", ci.pipelineReq)
		}
	}
}

func TestCollect_ActiveBuild(t *testing.T) {
	start := fixedNow.Add(-200 * time.Second)
	ci := &fakeCI{
		nodes: map[string]*provider.Node{
			"PX Node 1": {Online: true, Builds: []provider.NodeBuild{{
				DisplayName: "Health Check of PX-trunk-PS5-EU-Debug @24876 (Node 1)",
				URL:         "http://10.0.0.12:8080/job/health/9/",
				Timestamp:   start.UnixMilli(),
			}}},
		},
		pipelines: map[string]*provider.PipelineDescription{
			"http://ci.example:8080/job/health/9/": {Stages: []provider.Stage{
				{Name: "Checkout", Status: "SUCCESS"},
				{Name: "Editmode-Tests", Status: "IN_PROGRESS"},
			}},
		},
	}

	status, err := newTestCollector(ci).Collect(context.Background(), "PX Node 1")
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if status.Machine != "N1" || !status.IsOnline {
		t.Errorf("Machine/IsOnline = %q/%v", status.Machine, status.IsOnline)
	}
	if status.Build != "Health: trunk-PS5-EU-Debug" {
		t.Errorf("Build = %q", status.Build)
	}
	if status.Changelist == nil || *status.Changelist != 24876 {
		t.Errorf("Changelist = %v, want 24876", status.Changelist)
	}
	if status.Step == nil || *status.Step != "Editmode-Tests" {
		t.Errorf("Step = %v, want Editmode-Tests", status.Step)
	}
	if status.Duration == nil || *status.Duration != 200 {
		t.Errorf("Duration = %v, want 200", status.Duration)
	}
	if len(ci.pipelineReq) != 1 || ci.pipelineReq[0] != "http://ci.example:8080/job/health/9/" {
		t.Errorf("pipeline requests = %v, want rewritten build URL", ci.pipelineReq)
	}
}

func TestCollect_UnparsableBuildName(t *testing.T) {
	ci := &fakeCI{nodes: map[string]*provider.Node{
		"PX Node 3": {Online: true, Builds: []provider.NodeBuild{{
			DisplayName: "#512",
			URL:         "http://10.0.0.12/job/misc/512/",
			Timestamp:   fixedNow.UnixMilli(),
		}}},
	}}

	status, err := newTestCollector(ci).Collect(context.Background(), "PX Node 3")
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if status.Build != "#512" {
		t.Errorf("Build = %q, want raw name", status.Build)
	}
	if status.Step == nil || *status.Step != "" {
		t.Errorf("Step = %v, want empty string", status.Step)
	}
	if status.Changelist != nil || status.Duration != nil {
		t.Errorf("Changelist/Duration = %v/%v, want both absent", status.Changelist, status.Duration)
	}
	if len(ci.pipelineReq) != 0 {
		t.Errorf("unparsable build should not query pipelines, got %v", ci.pipelineReq)
	}
}

func TestCollect_NoActiveStage(t *testing.T) {
	ci := &fakeCI{
		nodes: map[string]*provider.Node{
			"PX Node 1": {Online: true, Builds: []provider.NodeBuild{{
				DisplayName: "PX-trunk @5",
				URL:         "http://ci.example/job/trunk/1/",
				Timestamp:   fixedNow.UnixMilli(),
			}}},
		},
		pipelines: map[string]*provider.PipelineDescription{
			"http://ci.example/job/trunk/1/": {},
		},
	}

	status, err := newTestCollector(ci).Collect(context.Background(), "PX Node 1")
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if status.Step == nil || *status.Step != "" {
		t.Errorf("Step = %v, want empty string", status.Step)
	}
	if status.Duration == nil || *status.Duration != 0 {
		t.Errorf("Duration = %v, want 0", status.Duration)
	}
}

func TestCollect_PipelineErrorDegrades(t *testing.T) {
	ci := &fakeCI{
		nodes: map[string]*provider.Node{
			"PX Node 1": {Online: true, Builds: []provider.NodeBuild{{
				DisplayName: "Deploy PX-trunk-PC-WW-Debug @24544",
				Timestamp:   fixedNow.Add(-time.Hour).UnixMilli(),
			}}},
		},
		pipelineErr: provider.ErrNetworkTimeout,
	}

	status, err := newTestCollector(ci).Collect(context.Background(), "PX Node 1")
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if status.Step == nil || *status.Step != "" {
		t.Errorf("Step = %v, want empty string", status.Step)
	}
	if status.Changelist == nil || *status.Changelist != 24544 {
		t.Errorf("Changelist = %v, want 24544", status.Changelist)
	}
	if status.Duration == nil || *status.Duration != 3600 {
		t.Errorf("Duration = %v, want 3600", status.Duration)
	}
}

func TestCollect_LastBuildWins(t *testing.T) {
	ci := &fakeCI{nodes: map[string]*provider.Node{
		"PX Node 1": {Online: true, Builds: []provider.NodeBuild{
			{DisplayName: "PX-first @1", URL: "/job/a/1/", Timestamp: fixedNow.UnixMilli()},
			{DisplayName: "unparsable", URL: "/job/b/1/", Timestamp: fixedNow.UnixMilli()},
		}},
	}}

	status, err := newTestCollector(ci).Collect(context.Background(), "PX Node 1")
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if status.Build != "unparsable" {
		t.Errorf("Build = %q, want last build", status.Build)
	}
	if status.Changelist != nil || status.Duration != nil {
		t.Errorf("fields from the earlier build leaked: %+v", status)
	}
}

func TestCollect_NodeErrorKeepsPlaceholder(t *testing.T) {
	ci := &fakeCI{nodeErr: provider.ErrServerUnavailable}

	status, err := newTestCollector(ci).Collect(context.Background(), "PX Node 2")
	if !errors.Is(err, provider.ErrServerUnavailable) {
		t.Fatalf("Collect() error = %v, want ErrServerUnavailable", err)
	}
	if status.Machine != "N2" || status.IsOnline || !status.Idle() {
		t.Errorf("placeholder = %+v, want offline idle N2", status)
	}
}

func TestElapsedSeconds(t *testing.T) {
	tests := []struct {
		name   string
		millis int64
		want   int64
	}{
		{name: "past", millis: fixedNow.Add(-90 * time.Second).UnixMilli(), want: 90},
		{name: "now", millis: fixedNow.UnixMilli(), want: 0},
		{name: "future clamps to zero", millis: fixedNow.Add(time.Minute).UnixMilli(), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ElapsedSeconds(fixedNow, tt.millis); got != tt.want {
				t.Errorf("ElapsedSeconds() = %d, want %d", got, tt.want)
			}
		})
	}
}

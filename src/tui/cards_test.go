package tui

import (
	"reflect"
	"testing"

	"buildbeacon-agent/src/contracts"
)

func TestMachineLines(t *testing.T) {
	tests := []struct {
		name string
		node contracts.NodeStatus
		want []string
	}{
		{
			name: "idle online",
			node: contracts.NodeStatus{Machine: "N2", IsOnline: true},
			want: []string{"N2  online", "idle"},
		},
		{
			name: "unparsable build",
			node: contracts.NodeStatus{Machine: "N3", IsOnline: true, Build: "#512", Step: stringPtr("")},
			want: []string{"N3  online", "#512"},
		},
		{
			name: "active build",
			node: contracts.NodeStatus{Machine: "N1", IsOnline: true, Build: "Deploy: trunk", Changelist: intPtr(7), Step: stringPtr("Deploy-Steam"), Duration: int64Ptr(6340)},
			want: []string{"N1  online", "Deploy: trunk", "CL 7", "step Deploy-Steam", "running 1h45m"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MachineLines(tt.node); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MachineLines() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildLines(t *testing.T) {
	if got := BuildLines("last success", nil); !reflect.DeepEqual(got, []string{"last success", "none"}) {
		t.Errorf("BuildLines(nil) = %q", got)
	}

	b := &contracts.InterestingBuild{Build: "trunk", Changelist: 9, Age: 45, Result: contracts.ResultOther}
	want := []string{"last failure  OTHER", "trunk", "CL 9", "45s ago"}
	if got := BuildLines("last failure", b); !reflect.DeepEqual(got, want) {
		t.Errorf("BuildLines() = %q, want %q", got, want)
	}
}

func TestCardWidth(t *testing.T) {
	if got := cardWidth(300, 3); got != maxCardWidth {
		t.Errorf("wide terminal = %d", got)
	}
	if got := cardWidth(40, 3); got != minCardWidth {
		t.Errorf("narrow terminal = %d", got)
	}
	if got := cardWidth(99, 3); got != 29 {
		t.Errorf("cardWidth(99, 3) = %d, want 29", got)
	}
}

func TestRenderSnapshot_Nil(t *testing.T) {
	if out := RenderSnapshot(nil, DefaultStyles(), 80); out == "" {
		t.Error("expected placeholder text")
	}
}

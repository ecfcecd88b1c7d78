// Package ranking picks the completed builds worth highlighting on the display:
// the most recent failure and the most recent success across all jobs of a view.
package ranking

import (
	"context"
	"fmt"
	"time"

	"buildbeacon-agent/src/buildname"
	"buildbeacon-agent/src/contracts"
	"buildbeacon-agent/src/provider"
	"buildbeacon-agent/src/sanitize"
)

// SelectMostRecent returns the build with the latest end time among builds whose
// name carries a valid changelist. A candidate only replaces the current best when
// it ended strictly later, so the first one seen wins ties. It returns nil when no
// build survives filtering.
func SelectMostRecent(builds []provider.CompletedBuild, interp *buildname.Interpreter, now time.Time) *contracts.InterestingBuild {
	var (
		best     *provider.CompletedBuild
		bestName buildname.FriendlyBuild
	)

	for i := range builds {
		friendly := interp.Interpret(builds[i].DisplayName)
		if !friendly.Valid() {
			continue
		}
		if best == nil || builds[i].EndTime() > best.EndTime() {
			best = &builds[i]
			bestName = friendly
		}
	}

	if best == nil {
		return nil
	}

	return &contracts.InterestingBuild{
		Build:      sanitize.Label(bestName.Label),
		Changelist: bestName.Changelist,
		Age:        AgeSeconds(now, best.EndTime()),
		Result:     contracts.ResultFromJenkins(best.Result),
	}
}

// Partition splits builds into failures (anything not SUCCESS) and successes,
// keeping the input order within each group.
func Partition(builds []provider.CompletedBuild) (failures, successes []provider.CompletedBuild) {
	for _, b := range builds {
		if contracts.ResultFromJenkins(b.Result) == contracts.ResultSuccess {
			successes = append(successes, b)
		} else {
			failures = append(failures, b)
		}
	}
	return failures, successes
}

// AgeSeconds returns whole seconds between an epoch-millisecond end time and now,
// clamped at zero.
func AgeSeconds(now time.Time, endMillis int64) int64 {
	age := now.Unix() - endMillis/1000
	if age < 0 {
		return 0
	}
	return age
}

// Selector runs the batched last-completed-build query for one view.
type Selector struct {
	ci     provider.CIServer
	interp *buildname.Interpreter
	view   string
	now    func() time.Time
}

// NewSelector creates a Selector. An empty view means the server's root view.
func NewSelector(ci provider.CIServer, interp *buildname.Interpreter, view string) *Selector {
	return &Selector{
		ci:     ci,
		interp: interp,
		view:   view,
		now:    time.Now,
	}
}

// SelectRecentFailureAndSuccess fetches the last completed build of every job in
// the view and picks the most recent failure and success independently.
// Either result may be nil.
func (s *Selector) SelectRecentFailureAndSuccess(ctx context.Context) (failure, success *contracts.InterestingBuild, err error) {
	builds, err := s.ci.FetchLastCompletedBuilds(ctx, s.view)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch last completed builds: %w", err)
	}

	now := s.now()
	failures, successes := Partition(builds)

	return SelectMostRecent(failures, s.interp, now), SelectMostRecent(successes, s.interp, now), nil
}

// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

// BasepathOutcome is one selectable outcome for a runner: an end base
// paired with safe/out, or the held outcome (EndBase of BaseNone).
type BasepathOutcome struct {
	EndBase Base `json:"endBase"`
	WasSafe bool `json:"wasSafe"`
}

// Held reports whether the outcome keeps the runner on its base.
func (o BasepathOutcome) Held() bool {
	return o.EndBase == BaseNone
}

// RunnerOptions is one link of the runner-advancement chain. Chains
// are generated lead runner first: the node for the runner closest to
// home comes first, and Trailing computes the next runner's node once
// the lead runner's outcome is known, since that outcome may vacate a
// base ahead of the trailing runner or put it out of reach.
type RunnerOptions struct {
	RunnerID string `json:"runnerId"`

	// Options lists the legal outcomes: held first when the runner is
	// not forced, then each reachable base paired safe/out in
	// increasing base order.
	Options []BasepathOutcome `json:"options"`

	// DefaultOption indexes the expected outcome, precomputed from the
	// forced-advance rule so a UI can pre-select the common case.
	DefaultOption int `json:"defaultOption"`

	// Explicit state for computing the trailing node.
	base      Base
	runners   BaseRunnerMap
	outs      int
	remaining []Base
}

// getRunnerOptions returns the head of the advancement chain for the
// given post-play base state, or nil when no runner has a real choice.
// outs is the out count after the play's own outs; three outs mean the
// inning is over and nobody advances.
func getRunnerOptions(runners BaseRunnerMap, outs int) *RunnerOptions {
	if outs >= 3 {
		return nil
	}
	var bases []Base
	for _, b := range occupiableBases {
		if _, ok := runners[b]; ok {
			bases = append(bases, b)
		}
	}
	return nextRunnerNode(runners, outs, bases)
}

// Trailing applies the chosen outcome to a working copy of the base
// state and returns the next (trailing) runner's node. It returns nil
// when no runner behind this one has a choice left, or when the chosen
// outcome recorded the third out.
func (r *RunnerOptions) Trailing(choice BasepathOutcome) *RunnerOptions {
	work := r.runners.Clone()
	outs := r.outs
	switch {
	case choice.Held():
		// Runner stays put.
	case !choice.WasSafe:
		delete(work, r.base)
		if outs++; outs >= 3 {
			return nil
		}
	default:
		moveRunner(work, r.base, choice.EndBase)
	}
	return nextRunnerNode(work, outs, r.remaining)
}

// nextRunnerNode builds the node for the first of the pending bases
// whose runner actually has a decision to make, skipping runners that
// are blocked with nowhere to go.
func nextRunnerNode(runners BaseRunnerMap, outs int, pending []Base) *RunnerOptions {
	for i, b := range pending {
		if _, ok := runners[b]; !ok {
			continue
		}
		if node := buildRunnerNode(runners, outs, b, pending[i+1:]); node != nil {
			return node
		}
	}
	return nil
}

// buildRunnerNode assembles a single runner's options against the
// current working state. Returns nil when the runner's only option is
// to hold.
func buildRunnerNode(runners BaseRunnerMap, outs int, base Base, remaining []Base) *RunnerOptions {
	id := runners[base]
	avail := getAvailableBases(base, nextOccupiedAhead(runners, base))
	forced := mustRunnerAdvance(base, runners, BaseNone)

	var opts []BasepathOutcome
	if !forced {
		opts = append(opts, BasepathOutcome{EndBase: BaseNone, WasSafe: true})
	}
	for _, b := range avail {
		opts = append(opts, BasepathOutcome{EndBase: b, WasSafe: true})
		opts = append(opts, BasepathOutcome{EndBase: b, WasSafe: false})
	}
	if len(opts) <= 1 {
		return nil
	}

	def := 0
	if forced {
		// Expected landing is the nearest reachable base, safely.
		for i, o := range opts {
			if o.EndBase == getNewBase(base, 1) && o.WasSafe {
				def = i
				break
			}
		}
	}

	return &RunnerOptions{
		RunnerID:      id,
		Options:       opts,
		DefaultOption: def,
		base:          base,
		runners:       runners.Clone(),
		outs:          outs,
		remaining:     append([]Base(nil), remaining...),
	}
}

// nextOccupiedAhead returns the first occupied base past the given
// base, or BaseNone when the way home is clear.
func nextOccupiedAhead(runners BaseRunnerMap, base Base) Base {
	for b := base + 1; b <= BaseThird; b++ {
		if _, ok := runners[b]; ok {
			return b
		}
	}
	return BaseNone
}

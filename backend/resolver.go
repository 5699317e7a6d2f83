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

import (
	"fmt"
	"sort"
)

// applyPlateAppearance applies a fully specified plate appearance to a
// working snapshot, mutating its base runners, outs and score, and
// returns the runners who scored. The caller owns the snapshot clone
// and the follow-up half-inning / game-end transitions.
//
// The type-specific default rule runs first, then a trailing pass
// applies the voluntary basepath movements lead runner first.
func applyPlateAppearance(work *GameState, pa *PlateAppearance) []ScoredRunner {
	batterID := work.PlayerAtBat
	prevOuts := work.Outs
	var scored []ScoredRunner

	switch pa.Type {
	case PATypeWalk, PATypeSingle, PATypeDouble:
		runners, ids := getDefaultRunnersAfterPlateAppearance(work.BaseRunners, pa.Type, batterID)
		work.BaseRunners = runners
		for _, id := range ids {
			scored = append(scored, ScoredRunner{RunnerID: id, BattedIn: true})
		}

	case PATypeTriple:
		for _, b := range occupiableBases {
			if id, ok := work.BaseRunners[b]; ok {
				scored = append(scored, ScoredRunner{RunnerID: id, BattedIn: true})
			}
		}
		work.BaseRunners = BaseRunnerMap{BaseThird: batterID}

	case PATypeHomerun:
		for _, b := range occupiableBases {
			if id, ok := work.BaseRunners[b]; ok {
				scored = append(scored, ScoredRunner{RunnerID: id, BattedIn: true})
			}
		}
		scored = append(scored, ScoredRunner{RunnerID: batterID, BattedIn: true})
		work.BaseRunners = make(BaseRunnerMap)

	case PATypeSacrificeFly:
		for i := 0; i < pa.RunsScoredOnSacFly; i++ {
			lead := work.BaseRunners.LeadBase()
			if lead == BaseNone {
				break
			}
			id := work.BaseRunners[lead]
			delete(work.BaseRunners, lead)
			scored = append(scored, ScoredRunner{RunnerID: id, BattedIn: false})
		}
		work.Outs++

	case PATypeFieldersChoice:
		if len(pa.OutOnPlayRunners) > 0 {
			removeRunnerByID(work.BaseRunners, pa.OutOnPlayRunners[0])
		}
		runners, ids := moveRunnersOnGroundBall(work.BaseRunners)
		work.BaseRunners = runners
		if prevOuts < 2 {
			for _, id := range ids {
				scored = append(scored, ScoredRunner{RunnerID: id, BattedIn: true})
			}
		}
		work.BaseRunners[BaseFirst] = batterID
		work.Outs++

	case PATypeDoublePlay:
		batterOut := false
		for _, id := range pa.OutOnPlayRunners {
			if id == batterID {
				batterOut = true
				continue
			}
			removeRunnerByID(work.BaseRunners, id)
		}
		work.Outs += 2
		if pa.Contact == ContactGrounder {
			runners, ids := moveRunnersOnGroundBall(work.BaseRunners)
			work.BaseRunners = runners
			if prevOuts == 0 {
				for _, id := range ids {
					scored = append(scored, ScoredRunner{RunnerID: id, BattedIn: false})
				}
			}
			if !batterOut {
				work.BaseRunners[BaseFirst] = batterID
			}
		}

	case PATypeOut:
		if pa.Contact == ContactGrounder {
			runners, ids := moveRunnersOnGroundBall(work.BaseRunners)
			work.BaseRunners = runners
			if prevOuts < 2 {
				for _, id := range ids {
					scored = append(scored, ScoredRunner{RunnerID: id, BattedIn: true})
				}
			}
		}
		work.Outs++

	default:
		panic(fmt.Sprintf("unknown plate appearance type %q", pa.Type))
	}

	scored = applyBasepathMovements(work, pa, scored)

	idx := scoreIndex(work.BattingRole())
	work.Score[idx] += len(scored)
	return scored
}

// applyBasepathMovements processes the voluntary movements lead runner
// first (sorted by destination base) so an advancing runner never
// collides with a trailing one.
func applyBasepathMovements(work *GameState, pa *PlateAppearance, scored []ScoredRunner) []ScoredRunner {
	moves := append([]BasepathMovement(nil), pa.BasepathMovements...)
	sort.SliceStable(moves, func(i, j int) bool { return moves[i].EndBase > moves[j].EndBase })

	for _, mv := range moves {
		start := work.BaseRunners.BaseOf(mv.RunnerID)
		if start == BaseNone {
			// A movement for a runner who is not on base is a
			// caller-side contract violation, not a recoverable state.
			panic(fmt.Sprintf("basepath movement for runner %q not on base", mv.RunnerID))
		}
		if !mv.WasSafe {
			delete(work.BaseRunners, start)
			work.Outs++
			continue
		}
		if moveRunner(work.BaseRunners, start, mv.EndBase) {
			scored = append(scored, ScoredRunner{
				RunnerID: mv.RunnerID,
				BattedIn: pa.Type != PATypeDoublePlay,
			})
		}
	}
	return scored
}

// applyStolenBase applies a stolen-base attempt to a working snapshot
// and returns any runner who stole home.
func applyStolenBase(work *GameState, sb *StolenBaseAttempt) []ScoredRunner {
	start := work.BaseRunners.BaseOf(sb.RunnerID)
	if start == BaseNone {
		panic(fmt.Sprintf("stolen base attempt for runner %q not on base", sb.RunnerID))
	}
	if !sb.WasSafe {
		delete(work.BaseRunners, start)
		work.Outs++
		return nil
	}
	var scored []ScoredRunner
	if moveRunner(work.BaseRunners, start, getNewBase(start, 1)) {
		scored = append(scored, ScoredRunner{RunnerID: sb.RunnerID, BattedIn: false})
		work.Score[scoreIndex(work.BattingRole())]++
	}
	return scored
}

// removeRunnerByID deletes the runner from whichever base it occupies.
func removeRunnerByID(runners BaseRunnerMap, runnerID string) {
	if b := runners.BaseOf(runnerID); b != BaseNone {
		delete(runners, b)
	}
}

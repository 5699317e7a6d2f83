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

// BasepathMovement is one runner's voluntary movement on a play,
// beyond what the plate appearance type's default rule produced.
// EndBase of BaseHome scores the runner. WasSafe false means the
// runner was thrown out attempting the advance.
type BasepathMovement struct {
	RunnerID string `json:"runnerId"`
	EndBase  Base   `json:"endBase"`
	WasSafe  bool   `json:"wasSafe"`
}

// PlateAppearance is a fully specified outcome of one batter's turn,
// as assembled by walking the prompt tree to completion.
type PlateAppearance struct {
	Type PlateAppearanceType `json:"type"`

	// Contact and Fielder are empty when the type makes them
	// irrelevant (e.g. a walk).
	Contact ContactQuality   `json:"contact,omitempty"`
	Fielder FieldingPosition `json:"fielder,omitempty"`

	// OutOnPlayRunners are the runners (batter included, for a double
	// play) put out by the play itself, in the order they were put out.
	OutOnPlayRunners []string `json:"outOnPlayRunners,omitempty"`

	// BasepathMovements are voluntary advances not covered by the
	// type's default base rule.
	BasepathMovements []BasepathMovement `json:"basepathMovements,omitempty"`

	// RunsScoredOnSacFly is how many lead runners score on a
	// sacrifice fly. Only meaningful for PATypeSacrificeFly.
	RunsScoredOnSacFly int `json:"runsScoredOnSacFly,omitempty"`
}

// StolenBaseAttempt is a baserunning event between plate appearances.
type StolenBaseAttempt struct {
	RunnerID string `json:"runnerId"`
	WasSafe  bool   `json:"wasSafe"`
}

// LineupChange records that a team switched to a new lineup version.
type LineupChange struct {
	Team         TeamRole `json:"team"`
	LineupID     string   `json:"lineupId"`
	PrevLineupID string   `json:"prevLineupId,omitempty"`

	// Retroactive marks the synthetic change spliced into history by a
	// retroactive fielder correction.
	Retroactive bool `json:"retroactive,omitempty"`
}

// OpponentInning records the opposing team's half-inning as a bare run
// total, for solo-mode scoring where only one team is tracked batter
// by batter.
type OpponentInning struct {
	RunsScored int `json:"runsScored"`
}

// GameEvent is a tagged union over everything that can be appended to
// the event log. Exactly one payload field matching Type is set.
type GameEvent struct {
	Type GameEventType `json:"type"`

	PlateAppearance *PlateAppearance   `json:"plateAppearance,omitempty"`
	StolenBase      *StolenBaseAttempt `json:"stolenBaseAttempt,omitempty"`
	LineupChange    *LineupChange      `json:"lineupChange,omitempty"`
	OpponentInning  *OpponentInning    `json:"soloModeOpponentInning,omitempty"`
}

// ScoredRunner records one run crossing the plate during an event,
// with the RBI bookkeeping flag.
type ScoredRunner struct {
	RunnerID string `json:"runnerId"`
	BattedIn bool   `json:"battedIn"`
}

// GameEventRecord is one entry of the append-only event log. It links
// the snapshots on either side of the event so the log is replayable
// and every event is independently undoable.
type GameEventRecord struct {
	EventIndex        int            `json:"eventIndex"`
	Event             GameEvent      `json:"gameEvent"`
	GameStateBeforeID string         `json:"gameStateBeforeId"`
	GameStateAfterID  string         `json:"gameStateAfterId"`
	ScoredRunners     []ScoredRunner `json:"scoredRunners,omitempty"`
}

// clone deep-copies the record.
func (r *GameEventRecord) clone() *GameEventRecord {
	out := *r
	out.ScoredRunners = append([]ScoredRunner(nil), r.ScoredRunners...)
	if r.Event.PlateAppearance != nil {
		pa := *r.Event.PlateAppearance
		pa.OutOnPlayRunners = append([]string(nil), pa.OutOnPlayRunners...)
		pa.BasepathMovements = append([]BasepathMovement(nil), pa.BasepathMovements...)
		out.Event.PlateAppearance = &pa
	}
	if r.Event.StolenBase != nil {
		sb := *r.Event.StolenBase
		out.Event.StolenBase = &sb
	}
	if r.Event.LineupChange != nil {
		lc := *r.Event.LineupChange
		out.Event.LineupChange = &lc
	}
	if r.Event.OpponentInning != nil {
		oi := *r.Event.OpponentInning
		out.Event.OpponentInning = &oi
	}
	return &out
}

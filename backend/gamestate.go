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
	"github.com/google/uuid"
)

// LineupSpot is one slot in a batting order. A bench player has no
// fielding position.
type LineupSpot struct {
	PlayerID string           `json:"playerId"`
	Position FieldingPosition `json:"position,omitempty"`
}

// Lineup is an immutable batting order plus fielding assignments.
// Batting order is the slice order. Once a lineup version has been
// superseded it is never mutated again, so historical events can still
// resolve who was playing where.
type Lineup struct {
	ID    string       `json:"id"`
	Spots []LineupSpot `json:"spots"`
}

// Clone returns an independent copy with a fresh id.
func (l *Lineup) Clone() *Lineup {
	out := &Lineup{
		ID:    uuid.NewString(),
		Spots: make([]LineupSpot, len(l.Spots)),
	}
	copy(out.Spots, l.Spots)
	return out
}

// SpotOf returns the index of the player's spot, or -1.
func (l *Lineup) SpotOf(playerID string) int {
	for i, s := range l.Spots {
		if s.PlayerID == playerID {
			return i
		}
	}
	return -1
}

// PositionOf returns the player's fielding position, or PosBench.
func (l *Lineup) PositionOf(playerID string) FieldingPosition {
	if i := l.SpotOf(playerID); i >= 0 {
		return l.Spots[i].Position
	}
	return PosBench
}

// OccupiedPositions returns the fielding positions assigned in this
// lineup, in batting order.
func (l *Lineup) OccupiedPositions() []FieldingPosition {
	var out []FieldingPosition
	for _, s := range l.Spots {
		if s.Position != PosBench {
			out = append(out, s.Position)
		}
	}
	return out
}

// Team is one side of a game: a role, a name and the full history of
// lineup versions used over the course of the game. The last entry of
// Lineups is the active version.
type Team struct {
	Role    TeamRole  `json:"role"`
	Name    string    `json:"name,omitempty"`
	Lineups []*Lineup `json:"lineups"`
	Winner  bool      `json:"winner,omitempty"`
}

// NewTeam creates a team with a single empty lineup version.
func NewTeam(role TeamRole, name string) *Team {
	return &Team{
		Role:    role,
		Name:    name,
		Lineups: []*Lineup{{ID: uuid.NewString()}},
	}
}

// CurrentLineup returns the active lineup version.
func (t *Team) CurrentLineup() *Lineup {
	return t.Lineups[len(t.Lineups)-1]
}

// LineupByID resolves a historical lineup version, or nil.
func (t *Team) LineupByID(id string) *Lineup {
	for _, l := range t.Lineups {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// clone deep-copies the team, preserving lineup version ids.
func (t *Team) clone() *Team {
	out := &Team{Role: t.Role, Name: t.Name, Winner: t.Winner}
	out.Lineups = make([]*Lineup, len(t.Lineups))
	for i, l := range t.Lineups {
		cp := &Lineup{ID: l.ID, Spots: make([]LineupSpot, len(l.Spots))}
		copy(cp.Spots, l.Spots)
		out.Lineups[i] = cp
	}
	return out
}

// scoreIndex maps a role to its slot in GameState.Score.
func scoreIndex(role TeamRole) int {
	if role == RoleAway {
		return 0
	}
	return 1
}

// GameState is an immutable snapshot of a game between events. A new
// snapshot with a fresh id is produced for every applied event; the
// engine keeps the full snapshot chain so any event can be undone and
// any historical state inspected.
type GameState struct {
	ID          string        `json:"id"`
	Inning      int           `json:"inning"`
	HalfInning  HalfInning    `json:"halfInning"`
	BaseRunners BaseRunnerMap `json:"baseRunners"`

	// Outs is the out count within the current half-inning, always in
	// [0, 3). Three outs roll the half-inning over before the snapshot
	// is committed.
	Outs int `json:"outs"`

	// Score is [away runs, home runs].
	Score [2]int `json:"score"`

	PlayerAtBat string `json:"playerAtBat"`

	// BattingIndex is each team's current slot in its batting order.
	BattingIndex map[TeamRole]int `json:"battingIndex"`

	// LineupIDs references the lineup version active for each team at
	// the time of this snapshot.
	LineupIDs map[TeamRole]string `json:"lineupIds"`
}

// clone deep-copies the state and assigns a fresh id.
func (gs *GameState) clone() *GameState {
	out := &GameState{
		ID:          uuid.NewString(),
		Inning:      gs.Inning,
		HalfInning:  gs.HalfInning,
		BaseRunners: gs.BaseRunners.Clone(),
		Outs:        gs.Outs,
		Score:       gs.Score,
		PlayerAtBat: gs.PlayerAtBat,
		BattingIndex: map[TeamRole]int{
			RoleAway: gs.BattingIndex[RoleAway],
			RoleHome: gs.BattingIndex[RoleHome],
		},
		LineupIDs: map[TeamRole]string{
			RoleAway: gs.LineupIDs[RoleAway],
			RoleHome: gs.LineupIDs[RoleHome],
		},
	}
	return out
}

// normalize backfills nil maps after JSON unmarshal.
func (gs *GameState) normalize() {
	if gs.BaseRunners == nil {
		gs.BaseRunners = make(BaseRunnerMap)
	}
	if gs.BattingIndex == nil {
		gs.BattingIndex = make(map[TeamRole]int)
	}
	if gs.LineupIDs == nil {
		gs.LineupIDs = make(map[TeamRole]string)
	}
}

// BattingRole returns the role of the team at bat in this snapshot.
func (gs *GameState) BattingRole() TeamRole {
	return gs.HalfInning.BattingRole()
}

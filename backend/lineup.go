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

// Fielding alignments depend on roster size. Ten or more fielders
// split center field into left-center and right-center; nine use a
// single center fielder; eight or fewer collapse second base and
// shortstop into a combined middle infielder.

// validPositionsForSize returns the legal fielding alignment for a
// roster of the given size.
func validPositionsForSize(n int) []FieldingPosition {
	switch {
	case n >= 10:
		return []FieldingPosition{
			PosPitcher, PosCatcher, PosFirstBase, PosSecondBase, PosThirdBase,
			PosShortstop, PosLeftField, PosLeftCenter, PosRightCenter, PosRightField,
		}
	case n == 9:
		return []FieldingPosition{
			PosPitcher, PosCatcher, PosFirstBase, PosSecondBase, PosThirdBase,
			PosShortstop, PosLeftField, PosCenterField, PosRightField,
		}
	default:
		return []FieldingPosition{
			PosPitcher, PosCatcher, PosFirstBase, PosMiddleInfield, PosThirdBase,
			PosLeftField, PosCenterField, PosRightField,
		}
	}
}

// equivalentPositions maps a displaced position to its closest valid
// stand-ins, tried in order.
var equivalentPositions = map[FieldingPosition][]FieldingPosition{
	PosCenterField:   {PosLeftCenter, PosRightCenter},
	PosLeftCenter:    {PosCenterField},
	PosRightCenter:   {PosCenterField},
	PosSecondBase:    {PosMiddleInfield},
	PosShortstop:     {PosMiddleInfield},
	PosMiddleInfield: {PosSecondBase, PosShortstop},
}

// updatePositions reconciles fielding assignments after a roster
// change. Assignments that are still valid are kept; displaced ones
// move to their closest valid equivalent, then to the next open slot,
// and finally to the bench when nothing remains.
func updatePositions(spots []LineupSpot) {
	valid := validPositionsForSize(len(spots))
	validSet := make(map[FieldingPosition]bool, len(valid))
	for _, p := range valid {
		validSet[p] = true
	}
	taken := make(map[FieldingPosition]bool)

	// First pass: pin every assignment that survives as-is.
	displaced := make([]int, 0)
	for i, s := range spots {
		if s.Position == PosBench {
			continue
		}
		if validSet[s.Position] && !taken[s.Position] {
			taken[s.Position] = true
			continue
		}
		displaced = append(displaced, i)
	}

	// Second pass: remap the displaced.
	for _, i := range displaced {
		old := spots[i].Position
		spots[i].Position = PosBench
		for _, q := range equivalentPositions[old] {
			if validSet[q] && !taken[q] {
				spots[i].Position = q
				taken[q] = true
				break
			}
		}
		if spots[i].Position != PosBench {
			continue
		}
		for _, q := range valid {
			if !taken[q] {
				spots[i].Position = q
				taken[q] = true
				break
			}
		}
	}
}

// editLineup routes a lineup mutation through the right path for the
// game's lifecycle phase. Before the first pitch the current lineup
// version is rewritten in place; once the game is in progress a new
// version is appended and a lineup-change event committed, so
// historical events keep resolving against the lineup active at the
// time. The edit callback returns false to signal a no-op.
func (e *Engine) editLineup(role TeamRole, edit func(l *Lineup) bool) {
	team := e.teams[role]
	if e.status == StatusNotStarted {
		before := e.snapshot()
		if edit(team.CurrentLineup()) {
			e.undo.push(before, "")
		}
		return
	}
	if e.status != StatusInProgress {
		return
	}
	before := e.snapshot()
	next := team.CurrentLineup().Clone()
	if !edit(next) {
		return
	}
	e.undo.push(before, "lineup:"+string(role))
	prevID := team.CurrentLineup().ID
	team.Lineups = append(team.Lineups, next)

	work := e.CurrentState().clone()
	work.LineupIDs[role] = next.ID
	e.commit(work, GameEvent{Type: EventLineupChange, LineupChange: &LineupChange{
		Team:         role,
		LineupID:     next.ID,
		PrevLineupID: prevID,
	}}, nil)
}

// AddPlayer appends a player to the batting order with the given
// fielding position, then reconciles the alignment for the new roster
// size. Adding a player already in the lineup is a no-op.
func (e *Engine) AddPlayer(role TeamRole, playerID string, pos FieldingPosition) {
	e.editLineup(role, func(l *Lineup) bool {
		if l.SpotOf(playerID) >= 0 {
			return false
		}
		l.Spots = append(l.Spots, LineupSpot{PlayerID: playerID, Position: pos})
		updatePositions(l.Spots)
		return true
	})
}

// RemovePlayer drops a player from the batting order and reconciles
// the alignment. Removing an absent player is a no-op.
func (e *Engine) RemovePlayer(role TeamRole, playerID string) {
	e.editLineup(role, func(l *Lineup) bool {
		i := l.SpotOf(playerID)
		if i < 0 {
			return false
		}
		l.Spots = append(l.Spots[:i], l.Spots[i+1:]...)
		updatePositions(l.Spots)
		return true
	})
}

// SubstitutePlayer replaces one player with another, keeping the
// batting slot and fielding position. A no-op if the outgoing player
// is absent or the incoming one already plays.
func (e *Engine) SubstitutePlayer(role TeamRole, outID, inID string) {
	e.editLineup(role, func(l *Lineup) bool {
		i := l.SpotOf(outID)
		if i < 0 || l.SpotOf(inID) >= 0 {
			return false
		}
		l.Spots[i].PlayerID = inID
		return true
	})
}

// SetPlayerPosition assigns a fielding position. If another player
// holds that position the two swap assignments.
func (e *Engine) SetPlayerPosition(role TeamRole, playerID string, pos FieldingPosition) {
	e.editLineup(role, func(l *Lineup) bool {
		i := l.SpotOf(playerID)
		if i < 0 || l.Spots[i].Position == pos {
			return false
		}
		if pos != PosBench {
			for j := range l.Spots {
				if j != i && l.Spots[j].Position == pos {
					l.Spots[j].Position = l.Spots[i].Position
					break
				}
			}
		}
		l.Spots[i].Position = pos
		return true
	})
}

// ReorderBattingOrder moves a player to a new slot in the batting
// order, shifting the players in between.
func (e *Engine) ReorderBattingOrder(role TeamRole, playerID string, newIndex int) {
	e.editLineup(role, func(l *Lineup) bool {
		i := l.SpotOf(playerID)
		if i < 0 || newIndex < 0 || newIndex >= len(l.Spots) || newIndex == i {
			return false
		}
		spot := l.Spots[i]
		l.Spots = append(l.Spots[:i], l.Spots[i+1:]...)
		l.Spots = append(l.Spots[:newIndex], append([]LineupSpot{spot}, l.Spots[newIndex:]...)...)
		return true
	})
}

// CanChangeFieldersRetroactively reports whether a retroactive fielder
// correction is still possible for the team's most recent fielding
// half-inning: it is ruled out as soon as any lineup change for that
// team lands at or after the start of that half-inning.
func (e *Engine) CanChangeFieldersRetroactively(role TeamRole) bool {
	_, ok := e.findRetroactiveSpliceIndex(role)
	return ok
}

// ChangeFieldersRetroactively corrects the fielding alignment for the
// team's most recent fielding half-inning after the fact, e.g. when
// the scorekeeper notices an uncorrected defensive swap a few plays
// late. A new lineup version with the corrected positions is created
// and a synthetic lineup-change event is spliced into the log
// immediately before the first event of that half-inning, renumbering
// the records behind it. This is the single sanctioned edit of the
// otherwise append-only log; it reports false, changing nothing, when
// the splice cannot be done safely.
func (e *Engine) ChangeFieldersRetroactively(role TeamRole, positions map[string]FieldingPosition) bool {
	spliceAt, ok := e.findRetroactiveSpliceIndex(role)
	if !ok {
		return false
	}
	team := e.teams[role]

	next := team.CurrentLineup().Clone()
	changed := false
	for i := range next.Spots {
		if pos, ok := positions[next.Spots[i].PlayerID]; ok && next.Spots[i].Position != pos {
			next.Spots[i].Position = pos
			changed = true
		}
	}
	if !changed {
		return false
	}
	prevID := team.CurrentLineup().ID
	team.Lineups = append(team.Lineups, next)

	target := e.log[spliceAt]
	before := e.StateByID(target.GameStateBeforeID)

	// One new intermediate snapshot keeps the before/after reference
	// chain intact: splice points at the original before-state, and
	// the displaced event now starts from the intermediate.
	mid := before.clone()
	mid.LineupIDs[role] = next.ID
	stateAt := e.stateIndexByID(before.ID) + 1
	e.states = append(e.states[:stateAt], append([]*GameState{mid}, e.states[stateAt:]...)...)

	splice := &GameEventRecord{
		Event: GameEvent{Type: EventLineupChange, LineupChange: &LineupChange{
			Team:         role,
			LineupID:     next.ID,
			PrevLineupID: prevID,
			Retroactive:  true,
		}},
		GameStateBeforeID: before.ID,
		GameStateAfterID:  mid.ID,
	}
	target.GameStateBeforeID = mid.ID

	// Every snapshot from the splice point on now resolves the team's
	// fielding against the corrected lineup version.
	for _, gs := range e.states[stateAt+1:] {
		if gs.LineupIDs[role] == prevID {
			gs.LineupIDs[role] = next.ID
		}
	}

	e.log = append(e.log[:spliceAt], append([]*GameEventRecord{splice}, e.log[spliceAt:]...)...)
	for i, rec := range e.log {
		rec.EventIndex = i
	}

	// History was edited in place; the recorded undo steps no longer
	// describe reachable states.
	e.undo.clear()
	return true
}

// findRetroactiveSpliceIndex locates the first event record of the
// team's most recent fielding half-inning. The second return is false
// when the game has no such half-inning yet or when a lineup change
// for the team already landed inside it.
func (e *Engine) findRetroactiveSpliceIndex(role TeamRole) (int, bool) {
	if e.status == StatusNotStarted || len(e.log) == 0 {
		return 0, false
	}
	// Find the most recent event belonging to a half-inning the team
	// fielded, then rewind to the first event of that half-inning.
	last := -1
	for i := len(e.log) - 1; i >= 0; i-- {
		gs := e.StateByID(e.log[i].GameStateBeforeID)
		if gs != nil && gs.HalfInning.FieldingRole() == role {
			last = i
			break
		}
	}
	if last < 0 {
		return 0, false
	}
	target := e.StateByID(e.log[last].GameStateBeforeID)
	first := last
	for i := last - 1; i >= 0; i-- {
		gs := e.StateByID(e.log[i].GameStateBeforeID)
		if gs == nil || gs.Inning != target.Inning || gs.HalfInning != target.HalfInning {
			break
		}
		first = i
	}
	// A lineup change for this team at or after the start of the
	// half-inning makes the splice ambiguous.
	for i := first; i < len(e.log); i++ {
		lc := e.log[i].Event.LineupChange
		if lc != nil && lc.Team == role {
			return 0, false
		}
	}
	return first, true
}

// stateIndexByID returns the snapshot's position in the chain, or -1.
func (e *Engine) stateIndexByID(id string) int {
	for i, gs := range e.states {
		if gs.ID == id {
			return i
		}
	}
	return -1
}

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

// Undo is implemented as a bounded stack of full engine snapshots
// taken before each committed command. Restoring a snapshot is always
// exact, which keeps undo trivially correct even for commands with
// awkward inverses (lineup reshuffles, game-end transitions).
// Consecutive commands sharing a non-empty group key coalesce into a
// single undo step, so a burst of lineup field edits undoes as one.

// engineSnapshot is a deep copy of everything a command can change.
type engineSnapshot struct {
	teams      map[TeamRole]*Team
	status     GameStatus
	gameLength int
	states     []*GameState
	log        []*GameEventRecord
}

// snapshot deep-copies the engine's mutable state. Snapshot ids are
// preserved so the state-reference chain survives a restore.
func (e *Engine) snapshot() *engineSnapshot {
	snap := &engineSnapshot{
		teams:      make(map[TeamRole]*Team, len(e.teams)),
		status:     e.status,
		gameLength: e.gameLength,
		states:     make([]*GameState, len(e.states)),
		log:        make([]*GameEventRecord, len(e.log)),
	}
	for role, t := range e.teams {
		snap.teams[role] = t.clone()
	}
	for i, gs := range e.states {
		snap.states[i] = copyStateKeepID(gs)
	}
	for i, rec := range e.log {
		snap.log[i] = rec.clone()
	}
	return snap
}

// restore replaces the engine's mutable state with a snapshot.
func (e *Engine) restore(snap *engineSnapshot) {
	e.teams = snap.teams
	e.status = snap.status
	e.gameLength = snap.gameLength
	e.states = snap.states
	e.log = snap.log
}

// copyStateKeepID deep-copies a snapshot without assigning a new id.
func copyStateKeepID(gs *GameState) *GameState {
	out := gs.clone()
	out.ID = gs.ID
	return out
}

// undoEntry pairs a pre-command snapshot with the grouping key of the
// command that displaced it.
type undoEntry struct {
	group string
	snap  *engineSnapshot
}

// undoStack is a bounded deque of undo entries plus the redo stack.
type undoStack struct {
	depth   int
	entries []undoEntry
	redo    []undoEntry
}

// push records a pre-command snapshot. Commands with the same
// non-empty group key coalesce: the existing entry already restores to
// before the first edit of the burst, so later edits add nothing. Any
// push invalidates the redo stack.
func (u *undoStack) push(snap *engineSnapshot, group string) {
	u.redo = nil
	if group != "" && len(u.entries) > 0 && u.entries[len(u.entries)-1].group == group {
		return
	}
	u.entries = append(u.entries, undoEntry{group: group, snap: snap})
	if len(u.entries) > u.depth {
		u.entries = u.entries[len(u.entries)-u.depth:]
	}
}

// clear drops both stacks.
func (u *undoStack) clear() {
	u.entries = nil
	u.redo = nil
}

// CanUndo reports whether an undo step is available.
func (e *Engine) CanUndo() bool {
	return len(e.undo.entries) > 0
}

// CanRedo reports whether a redo step is available.
func (e *Engine) CanRedo() bool {
	return len(e.undo.redo) > 0
}

// Undo restores the engine to just before the most recent undoable
// command, removing its event record and snapshot. Returns false when
// the stack is empty.
func (e *Engine) Undo() bool {
	n := len(e.undo.entries)
	if n == 0 {
		return false
	}
	entry := e.undo.entries[n-1]
	e.undo.entries = e.undo.entries[:n-1]
	e.undo.redo = append(e.undo.redo, undoEntry{group: entry.group, snap: e.snapshot()})
	e.restore(entry.snap)
	return true
}

// Redo reapplies the most recently undone command. Returns false when
// nothing has been undone.
func (e *Engine) Redo() bool {
	n := len(e.undo.redo)
	if n == 0 {
		return false
	}
	entry := e.undo.redo[n-1]
	e.undo.redo = e.undo.redo[:n-1]
	e.undo.entries = append(e.undo.entries, undoEntry{group: entry.group, snap: e.snapshot()})
	e.restore(entry.snap)
	return true
}

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
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotInProgress is returned when a scoring command arrives for a
	// game that has not started or has already finished.
	ErrNotInProgress = errors.New("game is not in progress")

	// ErrEmptyLineup is returned when a game is started with a team
	// that has nobody to bat.
	ErrEmptyLineup = errors.New("lineup is empty")
)

// Config carries the per-game policy knobs.
type Config struct {
	// GameLength is the scheduled number of innings.
	GameLength int `json:"gameLength"`

	// AllowTie finishes the game when the final inning ends level
	// instead of extending into extra innings.
	AllowTie bool `json:"allowTie"`

	// DeadBallEndsPlay enables the dead-ball out rule: a dead ball is
	// offered as a contact quality and ends the play with no runner
	// advancement.
	DeadBallEndsPlay bool `json:"deadBallEndsPlay"`

	// UndoDepth bounds the undo stack. Zero means DefaultUndoDepth.
	UndoDepth int `json:"undoDepth,omitempty"`
}

func (c *Config) normalize() {
	if c.GameLength <= 0 {
		c.GameLength = DefaultGameLength
	}
	if c.UndoDepth <= 0 {
		c.UndoDepth = DefaultUndoDepth
	}
}

// Engine owns one logical game session: the two teams, the snapshot
// chain, the append-only event log and the undo stack. Every public
// operation is an atomic, synchronous transformation of the current
// snapshot; the engine performs no I/O and callers must serialize
// access.
type Engine struct {
	cfg        Config
	teams      map[TeamRole]*Team
	status     GameStatus
	gameLength int

	// states is the snapshot chain; the last element is current.
	states []*GameState

	log  []*GameEventRecord
	undo undoStack
}

// NewEngine creates an engine for the given teams. The game is not
// started: lineups can still be edited in place.
func NewEngine(cfg Config, away, home *Team) *Engine {
	cfg.normalize()
	return &Engine{
		cfg:        cfg,
		teams:      map[TeamRole]*Team{RoleAway: away, RoleHome: home},
		status:     StatusNotStarted,
		gameLength: cfg.GameLength,
		undo:       undoStack{depth: cfg.UndoDepth},
	}
}

// Team returns the team playing the given role.
func (e *Engine) Team(role TeamRole) *Team {
	return e.teams[role]
}

// Status returns the game lifecycle status.
func (e *Engine) Status() GameStatus {
	return e.status
}

// GameLength returns the currently scheduled number of innings. It
// grows by one each time a final inning ends level with ties
// disallowed.
func (e *Engine) GameLength() int {
	return e.gameLength
}

// SetGameLength adjusts the scheduled number of innings mid-game.
func (e *Engine) SetGameLength(n int) {
	if n > 0 {
		e.gameLength = n
	}
}

// CurrentState returns the current snapshot, or nil before the game
// has started.
func (e *Engine) CurrentState() *GameState {
	if len(e.states) == 0 {
		return nil
	}
	return e.states[len(e.states)-1]
}

// PrevGameStates returns the superseded snapshots, oldest first.
func (e *Engine) PrevGameStates() []*GameState {
	if len(e.states) == 0 {
		return nil
	}
	return e.states[:len(e.states)-1]
}

// StateByID resolves any snapshot in the chain, or nil.
func (e *Engine) StateByID(id string) *GameState {
	for _, gs := range e.states {
		if gs.ID == id {
			return gs
		}
	}
	return nil
}

// EventLog returns the append-only event log, oldest first.
func (e *Engine) EventLog() []*GameEventRecord {
	return e.log
}

// StartGame transitions the game to in-progress and creates the
// initial snapshot. Starting an already started game is a no-op.
func (e *Engine) StartGame() error {
	if e.status != StatusNotStarted {
		return nil
	}
	away := e.teams[RoleAway].CurrentLineup()
	if len(away.Spots) == 0 || len(e.teams[RoleHome].CurrentLineup().Spots) == 0 {
		return ErrEmptyLineup
	}
	gs := &GameState{
		ID:          uuid.NewString(),
		Inning:      1,
		HalfInning:  HalfTop,
		BaseRunners: make(BaseRunnerMap),
		PlayerAtBat: away.Spots[0].PlayerID,
		BattingIndex: map[TeamRole]int{
			RoleAway: 0,
			RoleHome: 0,
		},
		LineupIDs: map[TeamRole]string{
			RoleAway: away.ID,
			RoleHome: e.teams[RoleHome].CurrentLineup().ID,
		},
	}
	e.states = append(e.states, gs)
	e.status = StatusInProgress
	return nil
}

// BuildPrompt returns the first node of the decision tree for a plate
// appearance of the given type against the current state, or nil when
// the type needs no follow-up questions.
func (e *Engine) BuildPrompt(paType PlateAppearanceType) *PromptNode {
	gs := e.CurrentState()
	if gs == nil {
		return nil
	}
	fielding := e.teams[gs.HalfInning.FieldingRole()].CurrentLineup()
	return buildPrompt(paType, gs.Outs, gs.BaseRunners, gs.PlayerAtBat,
		fielding.OccupiedPositions(), e.cfg.DeadBallEndsPlay)
}

// RecordPlateAppearance resolves a fully specified plate appearance
// against the current snapshot, commits the event and runs the
// half-inning and game-end transitions.
func (e *Engine) RecordPlateAppearance(pa *PlateAppearance) (*GameEventRecord, error) {
	if e.status != StatusInProgress {
		return nil, ErrNotInProgress
	}
	e.undo.push(e.snapshot(), "")
	work := e.CurrentState().clone()
	scored := applyPlateAppearance(work, pa)
	e.rotateBatter(work)
	e.advanceLifecycle(work)
	paCopy := *pa
	return e.commit(work, GameEvent{Type: EventPlateAppearance, PlateAppearance: &paCopy}, scored), nil
}

// RecordStolenBase resolves a stolen-base attempt. The batter does not
// rotate; if the attempt records the third out, the same batter leads
// off when the team next bats.
func (e *Engine) RecordStolenBase(sb *StolenBaseAttempt) (*GameEventRecord, error) {
	if e.status != StatusInProgress {
		return nil, ErrNotInProgress
	}
	e.undo.push(e.snapshot(), "")
	work := e.CurrentState().clone()
	scored := applyStolenBase(work, sb)
	e.advanceLifecycle(work)
	sbCopy := *sb
	return e.commit(work, GameEvent{Type: EventStolenBase, StolenBase: &sbCopy}, scored), nil
}

// RecordOpponentInning records the untracked opponent's half-inning as
// a bare run total and rolls the half-inning over. Used in solo mode,
// where only one team is scored batter by batter.
func (e *Engine) RecordOpponentInning(runs int) (*GameEventRecord, error) {
	if e.status != StatusInProgress {
		return nil, ErrNotInProgress
	}
	e.undo.push(e.snapshot(), "")
	work := e.CurrentState().clone()
	if runs > 0 {
		work.Score[scoreIndex(work.BattingRole())] += runs
	}
	if e.isWalkOff(work) {
		e.finishGame(work)
	} else {
		e.rollHalfInning(work)
	}
	return e.commit(work, GameEvent{Type: EventOpponentInning, OpponentInning: &OpponentInning{RunsScored: runs}}, nil), nil
}

// SkipAtBat rotates past the current batter without a plate
// appearance.
func (e *Engine) SkipAtBat() (*GameEventRecord, error) {
	if e.status != StatusInProgress {
		return nil, ErrNotInProgress
	}
	e.undo.push(e.snapshot(), "")
	work := e.CurrentState().clone()
	e.rotateBatter(work)
	return e.commit(work, GameEvent{Type: EventAtBatSkip}, nil), nil
}

// EndGameEarly finishes the game immediately, e.g. when a time limit
// expires. Winner flags are set from the score as it stands.
func (e *Engine) EndGameEarly() (*GameEventRecord, error) {
	if e.status != StatusInProgress {
		return nil, ErrNotInProgress
	}
	e.undo.push(e.snapshot(), "")
	work := e.CurrentState().clone()
	e.finishGame(work)
	return e.commit(work, GameEvent{Type: EventEarlyGameEnd}, nil), nil
}

// commit appends the new snapshot and its event record to the chain.
func (e *Engine) commit(work *GameState, ev GameEvent, scored []ScoredRunner) *GameEventRecord {
	before := e.CurrentState()
	rec := &GameEventRecord{
		EventIndex:        len(e.log),
		Event:             ev,
		GameStateBeforeID: before.ID,
		GameStateAfterID:  work.ID,
		ScoredRunners:     scored,
	}
	e.states = append(e.states, work)
	e.log = append(e.log, rec)
	return rec
}

// rotateBatter advances the batting team's order by one slot.
func (e *Engine) rotateBatter(work *GameState) {
	role := work.BattingRole()
	lineup := e.teams[role].CurrentLineup()
	if len(lineup.Spots) == 0 {
		return
	}
	idx := (work.BattingIndex[role] + 1) % len(lineup.Spots)
	work.BattingIndex[role] = idx
	work.PlayerAtBat = lineup.Spots[idx].PlayerID
}

// advanceLifecycle applies the half-inning, inning and game-end
// transitions to a working snapshot after its event has been resolved.
func (e *Engine) advanceLifecycle(work *GameState) {
	if e.isWalkOff(work) {
		e.finishGame(work)
		return
	}
	if work.Outs < 3 {
		return
	}
	e.rollHalfInning(work)
}

// isWalkOff reports whether the home team has taken the lead in the
// bottom of the final (or a later) inning.
func (e *Engine) isWalkOff(work *GameState) bool {
	return work.HalfInning == HalfBottom && work.Inning >= e.gameLength &&
		work.Score[scoreIndex(RoleHome)] > work.Score[scoreIndex(RoleAway)]
}

// rollHalfInning flips the half-inning, resets outs and runners, sets
// the next batter, and applies the end-of-game rules when the final
// inning just ended.
func (e *Engine) rollHalfInning(work *GameState) {
	endedHalf := work.HalfInning
	endedInning := work.Inning
	work.Outs = 0
	work.BaseRunners = make(BaseRunnerMap)
	if endedHalf == HalfTop {
		work.HalfInning = HalfBottom
	} else {
		work.HalfInning = HalfTop
		work.Inning++
	}
	role := work.BattingRole()
	lineup := e.teams[role].CurrentLineup()
	if len(lineup.Spots) > 0 {
		work.PlayerAtBat = lineup.Spots[work.BattingIndex[role]%len(lineup.Spots)].PlayerID
	}

	if endedInning < e.gameLength {
		return
	}
	away := work.Score[scoreIndex(RoleAway)]
	home := work.Score[scoreIndex(RoleHome)]
	switch {
	case endedHalf == HalfTop && home > away:
		// The home team leads going into its own final at-bat.
		e.finishGame(work)
	case endedHalf == HalfBottom && away > home:
		e.finishGame(work)
	case endedHalf == HalfBottom && away == home:
		if e.cfg.AllowTie {
			e.finishGame(work)
		} else {
			e.gameLength++
		}
	}
}

// finishGame marks the game over and sets the winner flags. A tie
// leaves both flags unset.
func (e *Engine) finishGame(work *GameState) {
	e.status = StatusFinished
	away := work.Score[scoreIndex(RoleAway)]
	home := work.Score[scoreIndex(RoleHome)]
	e.teams[RoleAway].Winner = away > home
	e.teams[RoleHome].Winner = home > away
}

// ResetGame clears all game progress but keeps the rosters: the
// snapshot chain and event log are dropped, lineup histories collapse
// to their latest version, and the undo stack is cleared, since a
// reset is not a well-defined inverse of any recorded step.
func (e *Engine) ResetGame() {
	e.states = nil
	e.log = nil
	e.status = StatusNotStarted
	e.gameLength = e.cfg.GameLength
	for _, t := range e.teams {
		t.Lineups = []*Lineup{t.CurrentLineup()}
		t.Winner = false
	}
	e.undo.clear()
}

// FullResetGame resets progress and empties both rosters.
func (e *Engine) FullResetGame() {
	e.ResetGame()
	for _, t := range e.teams {
		t.Lineups = []*Lineup{{ID: uuid.NewString()}}
	}
}

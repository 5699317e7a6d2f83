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
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// testTeam builds a team whose players are prefix1..prefixN, assigned
// to the valid fielding alignment for the roster size in batting order.
func testTeam(role TeamRole, name, prefix string, n int) *Team {
	team := NewTeam(role, name)
	l := team.CurrentLineup()
	valid := validPositionsForSize(n)
	for i := 0; i < n; i++ {
		pos := PosBench
		if i < len(valid) {
			pos = valid[i]
		}
		l.Spots = append(l.Spots, LineupSpot{
			PlayerID: fmt.Sprintf("%s%d", prefix, i+1),
			Position: pos,
		})
	}
	return team
}

// newTestEngine creates and starts a game with two 9-player teams.
func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e := NewEngine(cfg, testTeam(RoleAway, "Away", "a", 9), testTeam(RoleHome, "Home", "h", 9))
	if err := e.StartGame(); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}
	return e
}

// checkStateEqual fails with a unified diff when two snapshots differ.
func checkStateEqual(t *testing.T, want, got *GameState) {
	t.Helper()
	if reflect.DeepEqual(want, got) {
		return
	}
	a, _ := json.MarshalIndent(want, "", "  ")
	b, _ := json.MarshalIndent(got, "", "  ")
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(a)),
		B:        difflib.SplitLines(string(b)),
		FromFile: "Expected",
		ToFile:   "Actual",
		Context:  3,
	})
	t.Errorf("Game state mismatch:\n%s", diff)
}

func mustRecord(t *testing.T, e *Engine, pa *PlateAppearance) *GameEventRecord {
	t.Helper()
	rec, err := e.RecordPlateAppearance(pa)
	if err != nil {
		t.Fatalf("RecordPlateAppearance(%s) failed: %v", pa.Type, err)
	}
	return rec
}

func flyOut() *PlateAppearance {
	return &PlateAppearance{Type: PATypeOut, Contact: ContactFlyBall, Fielder: PosCenterField}
}

func TestStartGame(t *testing.T) {
	e := newTestEngine(t, Config{})
	if e.Status() != StatusInProgress {
		t.Errorf("Status = %s, want IN_PROGRESS", e.Status())
	}
	gs := e.CurrentState()
	if gs.Inning != 1 || gs.HalfInning != HalfTop {
		t.Errorf("Expected top of the 1st, got %s of inning %d", gs.HalfInning, gs.Inning)
	}
	if gs.PlayerAtBat != "a1" {
		t.Errorf("PlayerAtBat = %s, want the away leadoff a1", gs.PlayerAtBat)
	}
	if e.GameLength() != DefaultGameLength {
		t.Errorf("GameLength = %d, want %d", e.GameLength(), DefaultGameLength)
	}

	t.Run("StartTwiceIsANoOp", func(t *testing.T) {
		id := e.CurrentState().ID
		if err := e.StartGame(); err != nil {
			t.Fatalf("Second StartGame failed: %v", err)
		}
		if e.CurrentState().ID != id {
			t.Error("Second StartGame replaced the initial state")
		}
	})

	t.Run("EmptyLineup", func(t *testing.T) {
		e := NewEngine(Config{}, NewTeam(RoleAway, "Away"), testTeam(RoleHome, "Home", "h", 9))
		if err := e.StartGame(); err != ErrEmptyLineup {
			t.Errorf("Expected ErrEmptyLineup, got %v", err)
		}
	})
}

func TestRecordPlateAppearanceRotatesBatter(t *testing.T) {
	e := newTestEngine(t, Config{})
	rec := mustRecord(t, e, &PlateAppearance{Type: PATypeSingle, Contact: ContactGrounder, Fielder: PosShortstop})

	gs := e.CurrentState()
	if gs.BaseRunners[BaseFirst] != "a1" {
		t.Errorf("Expected a1 on first, got %v", gs.BaseRunners)
	}
	if gs.PlayerAtBat != "a2" {
		t.Errorf("PlayerAtBat = %s, want a2", gs.PlayerAtBat)
	}
	if rec.EventIndex != 0 {
		t.Errorf("EventIndex = %d, want 0", rec.EventIndex)
	}
	if rec.GameStateAfterID != gs.ID {
		t.Error("Record does not point at the committed state")
	}
}

func TestThreeOutsRollTheHalfInning(t *testing.T) {
	e := newTestEngine(t, Config{})
	for i := 0; i < 3; i++ {
		mustRecord(t, e, flyOut())
	}
	gs := e.CurrentState()
	if gs.HalfInning != HalfBottom || gs.Inning != 1 {
		t.Errorf("Expected bottom of the 1st, got %s of inning %d", gs.HalfInning, gs.Inning)
	}
	if gs.Outs != 0 {
		t.Errorf("Outs = %d, want 0 after the rollover", gs.Outs)
	}
	if len(gs.BaseRunners) != 0 {
		t.Errorf("Bases should clear on the rollover, got %v", gs.BaseRunners)
	}
	if gs.PlayerAtBat != "h1" {
		t.Errorf("PlayerAtBat = %s, want the home leadoff h1", gs.PlayerAtBat)
	}
	if gs.BattingIndex[RoleAway] != 3 {
		t.Errorf("Away batting index = %d, want 3", gs.BattingIndex[RoleAway])
	}

	// Three more outs start the 2nd inning with a4 up.
	for i := 0; i < 3; i++ {
		mustRecord(t, e, flyOut())
	}
	gs = e.CurrentState()
	if gs.HalfInning != HalfTop || gs.Inning != 2 {
		t.Errorf("Expected top of the 2nd, got %s of inning %d", gs.HalfInning, gs.Inning)
	}
	if gs.PlayerAtBat != "a4" {
		t.Errorf("PlayerAtBat = %s, want a4", gs.PlayerAtBat)
	}
}

func TestSacrificeFlyEndToEnd(t *testing.T) {
	e := newTestEngine(t, Config{})
	// a1 triples, a2 flies out deep to bring them in.
	mustRecord(t, e, &PlateAppearance{Type: PATypeTriple, Contact: ContactLongFly, Fielder: PosRightField})
	rec := mustRecord(t, e, &PlateAppearance{
		Type: PATypeSacrificeFly, Contact: ContactLongFly, Fielder: PosCenterField,
		RunsScoredOnSacFly: 1,
	})
	if len(rec.ScoredRunners) != 1 || rec.ScoredRunners[0].RunnerID != "a1" {
		t.Fatalf("ScoredRunners = %v, want a1", rec.ScoredRunners)
	}
	if rec.ScoredRunners[0].BattedIn {
		t.Error("A sacrifice fly run is not recorded as batted in")
	}
	gs := e.CurrentState()
	if gs.Score != [2]int{1, 0} {
		t.Errorf("Score = %v, want 1-0 away", gs.Score)
	}
	if gs.Outs != 1 || len(gs.BaseRunners) != 0 {
		t.Errorf("Expected 1 out and empty bases, got %d outs, %v", gs.Outs, gs.BaseRunners)
	}
}

func TestStolenBaseDoesNotRotateBatter(t *testing.T) {
	e := newTestEngine(t, Config{})
	mustRecord(t, e, &PlateAppearance{Type: PATypeSingle, Contact: ContactLineDrive, Fielder: PosLeftField})

	if _, err := e.RecordStolenBase(&StolenBaseAttempt{RunnerID: "a1", WasSafe: true}); err != nil {
		t.Fatalf("RecordStolenBase failed: %v", err)
	}
	gs := e.CurrentState()
	if gs.BaseRunners[BaseSecond] != "a1" {
		t.Errorf("Expected a1 on second, got %v", gs.BaseRunners)
	}
	if gs.PlayerAtBat != "a2" {
		t.Errorf("PlayerAtBat = %s, want a2 (unchanged)", gs.PlayerAtBat)
	}
}

func TestSkipAtBat(t *testing.T) {
	e := newTestEngine(t, Config{})
	rec, err := e.SkipAtBat()
	if err != nil {
		t.Fatalf("SkipAtBat failed: %v", err)
	}
	if rec.Event.Type != EventAtBatSkip {
		t.Errorf("Event type = %s, want AT_BAT_SKIP", rec.Event.Type)
	}
	if e.CurrentState().PlayerAtBat != "a2" {
		t.Errorf("PlayerAtBat = %s, want a2", e.CurrentState().PlayerAtBat)
	}
}

func TestWalkOffEndsTheGame(t *testing.T) {
	e := newTestEngine(t, Config{GameLength: 1})
	if _, err := e.RecordOpponentInning(0); err != nil {
		t.Fatalf("RecordOpponentInning failed: %v", err)
	}
	if e.CurrentState().HalfInning != HalfBottom {
		t.Fatalf("Expected bottom of the 1st, got %s", e.CurrentState().HalfInning)
	}

	mustRecord(t, e, &PlateAppearance{Type: PATypeHomerun, Contact: ContactLongFly, Fielder: PosCenterField})
	if e.Status() != StatusFinished {
		t.Fatalf("Status = %s, want FINISHED after the walk-off", e.Status())
	}
	if !e.Team(RoleHome).Winner || e.Team(RoleAway).Winner {
		t.Error("Home team should be the sole winner")
	}
	if _, err := e.RecordPlateAppearance(flyOut()); err != ErrNotInProgress {
		t.Errorf("Expected ErrNotInProgress after the game ended, got %v", err)
	}
}

func TestHomeLeadSkipsItsFinalAtBat(t *testing.T) {
	e := newTestEngine(t, Config{GameLength: 2})
	e.RecordOpponentInning(0) // top 1
	e.RecordOpponentInning(3) // bottom 1, home up 3-0
	// Top of the final inning ends with home still ahead: the game is
	// over without the home team batting again.
	if _, err := e.RecordOpponentInning(0); err != nil {
		t.Fatalf("RecordOpponentInning failed: %v", err)
	}
	if e.Status() != StatusFinished {
		t.Errorf("Status = %s, want FINISHED", e.Status())
	}
	if !e.Team(RoleHome).Winner {
		t.Error("Home team should win")
	}
}

func TestAwayWinAfterFinalInning(t *testing.T) {
	e := newTestEngine(t, Config{GameLength: 1})
	if _, err := e.RecordOpponentInning(2); err != nil {
		t.Fatalf("RecordOpponentInning failed: %v", err)
	}
	if _, err := e.RecordOpponentInning(1); err != nil {
		t.Fatalf("RecordOpponentInning failed: %v", err)
	}
	if e.Status() != StatusFinished {
		t.Fatalf("Status = %s, want FINISHED", e.Status())
	}
	if !e.Team(RoleAway).Winner || e.Team(RoleHome).Winner {
		t.Error("Away team should be the sole winner")
	}
}

func TestTieHandling(t *testing.T) {
	t.Run("TieExtendsTheGame", func(t *testing.T) {
		e := newTestEngine(t, Config{GameLength: 1})
		e.RecordOpponentInning(1)
		e.RecordOpponentInning(1)
		if e.Status() != StatusInProgress {
			t.Fatalf("Status = %s, want IN_PROGRESS (extra innings)", e.Status())
		}
		if e.GameLength() != 2 {
			t.Errorf("GameLength = %d, want 2", e.GameLength())
		}
		gs := e.CurrentState()
		if gs.Inning != 2 || gs.HalfInning != HalfTop {
			t.Errorf("Expected top of the 2nd, got %s of inning %d", gs.HalfInning, gs.Inning)
		}
	})

	t.Run("AllowTieFinishesLevel", func(t *testing.T) {
		e := newTestEngine(t, Config{GameLength: 1, AllowTie: true})
		e.RecordOpponentInning(1)
		e.RecordOpponentInning(1)
		if e.Status() != StatusFinished {
			t.Fatalf("Status = %s, want FINISHED", e.Status())
		}
		if e.Team(RoleAway).Winner || e.Team(RoleHome).Winner {
			t.Error("A tie has no winner")
		}
	})
}

func TestEndGameEarly(t *testing.T) {
	e := newTestEngine(t, Config{})
	mustRecord(t, e, &PlateAppearance{Type: PATypeHomerun, Contact: ContactLongFly, Fielder: PosLeftField})
	rec, err := e.EndGameEarly()
	if err != nil {
		t.Fatalf("EndGameEarly failed: %v", err)
	}
	if rec.Event.Type != EventEarlyGameEnd {
		t.Errorf("Event type = %s, want EARLY_GAME_END", rec.Event.Type)
	}
	if e.Status() != StatusFinished {
		t.Errorf("Status = %s, want FINISHED", e.Status())
	}
	if !e.Team(RoleAway).Winner {
		t.Error("Away team leads 1-0 and should win")
	}
}

func TestUndoRedo(t *testing.T) {
	e := newTestEngine(t, Config{})
	mustRecord(t, e, &PlateAppearance{Type: PATypeSingle, Contact: ContactGrounder, Fielder: PosShortstop})

	before := copyStateKeepID(e.CurrentState())
	logLen := len(e.EventLog())

	mustRecord(t, e, &PlateAppearance{Type: PATypeHomerun, Contact: ContactLongFly, Fielder: PosCenterField})
	after := copyStateKeepID(e.CurrentState())

	if !e.CanUndo() {
		t.Fatal("Expected CanUndo after a recorded event")
	}
	if !e.Undo() {
		t.Fatal("Undo failed")
	}
	checkStateEqual(t, before, e.CurrentState())
	if len(e.EventLog()) != logLen {
		t.Errorf("Event log length = %d, want %d after undo", len(e.EventLog()), logLen)
	}

	if !e.CanRedo() {
		t.Fatal("Expected CanRedo after an undo")
	}
	if !e.Redo() {
		t.Fatal("Redo failed")
	}
	checkStateEqual(t, after, e.CurrentState())
	if len(e.EventLog()) != logLen+1 {
		t.Errorf("Event log length = %d, want %d after redo", len(e.EventLog()), logLen+1)
	}

	t.Run("NewEventClearsRedo", func(t *testing.T) {
		e.Undo()
		mustRecord(t, e, flyOut())
		if e.CanRedo() {
			t.Error("A new event should invalidate the redo stack")
		}
	})
}

func TestUndoDepthIsBounded(t *testing.T) {
	e := newTestEngine(t, Config{UndoDepth: 2})
	for i := 0; i < 4; i++ {
		mustRecord(t, e, flyOut())
	}
	if !e.Undo() || !e.Undo() {
		t.Fatal("Expected two undo steps")
	}
	if e.CanUndo() {
		t.Error("Undo depth of 2 should be exhausted after two steps")
	}
	if e.Undo() {
		t.Error("Undo beyond the stack should report false")
	}
}

func TestUndoRestoresLifecycle(t *testing.T) {
	// Undoing a walk-off homerun must also revert the finished status
	// and the winner flags.
	e := newTestEngine(t, Config{GameLength: 1})
	e.RecordOpponentInning(0)
	mustRecord(t, e, &PlateAppearance{Type: PATypeHomerun, Contact: ContactLongFly, Fielder: PosCenterField})
	if e.Status() != StatusFinished {
		t.Fatal("Expected a finished game")
	}
	if !e.Undo() {
		t.Fatal("Undo failed")
	}
	if e.Status() != StatusInProgress {
		t.Errorf("Status = %s, want IN_PROGRESS restored", e.Status())
	}
	if e.Team(RoleHome).Winner {
		t.Error("Winner flag should be reverted")
	}
}

func TestResetGame(t *testing.T) {
	e := newTestEngine(t, Config{})
	mustRecord(t, e, flyOut())
	e.ResetGame()

	if e.Status() != StatusNotStarted {
		t.Errorf("Status = %s, want NOT_STARTED", e.Status())
	}
	if e.CurrentState() != nil {
		t.Error("Expected no current state after reset")
	}
	if len(e.EventLog()) != 0 {
		t.Error("Expected an empty event log after reset")
	}
	if e.CanUndo() {
		t.Error("Reset should clear the undo stack")
	}
	if len(e.Team(RoleAway).CurrentLineup().Spots) != 9 {
		t.Error("Reset should keep the roster")
	}

	t.Run("FullResetDropsRosters", func(t *testing.T) {
		e.FullResetGame()
		if len(e.Team(RoleAway).CurrentLineup().Spots) != 0 {
			t.Error("Full reset should empty the lineups")
		}
	})
}

func TestBuildPromptUsesFieldingTeam(t *testing.T) {
	e := newTestEngine(t, Config{})
	n := e.BuildPrompt(PATypeSacrificeFly)
	if n == nil || n.Ask != AskFielder {
		t.Fatalf("Expected a fielder question, got %+v", n)
	}
	want := []FieldingPosition{PosLeftField, PosCenterField, PosRightField}
	if !reflect.DeepEqual(n.FielderOptions, want) {
		t.Errorf("FielderOptions = %v, want the home outfield %v", n.FielderOptions, want)
	}
}

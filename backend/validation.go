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
	"regexp"
)

// uuidRegex is a regex for standard UUIDs (8-4-4-4-12 hex digits)
var uuidRegex = regexp.MustCompile(`^[a-fA-F0-9]{8}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{12}$`)

// isValidUUID checks if the string is a valid UUID.
func isValidUUID(id string) bool {
	return uuidRegex.MatchString(id)
}

var validEventTypes = map[GameEventType]bool{
	EventPlateAppearance: true,
	EventStolenBase:      true,
	EventLineupChange:    true,
	EventOpponentInning:  true,
	EventAtBatSkip:       true,
	EventEarlyGameEnd:    true,
}

var validPATypes = map[PlateAppearanceType]bool{}

func init() {
	for _, t := range AllPlateAppearanceTypes {
		validPATypes[t] = true
	}
}

// ValidateSession validates a stored or imported session document:
// id formats, the event-type whitelist, event index continuity, the
// snapshot reference chain and basic state sanity. It protects the
// engine from replaying a corrupted or hand-edited file.
func ValidateSession(s *Session) error {
	if !isValidUUID(s.ID) {
		return fmt.Errorf("invalid session ID format: %s", s.ID)
	}
	if s.Status == "deleted" {
		return fmt.Errorf("session %s is deleted", s.ID)
	}

	states := make(map[string]bool, len(s.States))
	for i, gs := range s.States {
		if err := validateGameState(gs); err != nil {
			return fmt.Errorf("invalid game state at index %d: %w", i, err)
		}
		if states[gs.ID] {
			return fmt.Errorf("duplicate game state id %s", gs.ID)
		}
		states[gs.ID] = true
	}

	prevAfter := ""
	if len(s.States) > 0 {
		prevAfter = s.States[0].ID
	}
	for i, rec := range s.EventLog {
		if rec.EventIndex != i {
			return fmt.Errorf("event index %d out of order (want %d)", rec.EventIndex, i)
		}
		if err := validateGameEvent(&rec.Event); err != nil {
			return fmt.Errorf("invalid event at index %d: %w", i, err)
		}
		if !states[rec.GameStateBeforeID] || !states[rec.GameStateAfterID] {
			return fmt.Errorf("event %d references unknown game state", i)
		}
		if rec.GameStateBeforeID != prevAfter {
			return fmt.Errorf("event %d breaks the state chain", i)
		}
		prevAfter = rec.GameStateAfterID
	}
	if len(s.States) > 0 && prevAfter != s.States[len(s.States)-1].ID {
		return fmt.Errorf("final event does not produce the current state")
	}
	return nil
}

func validateGameState(gs *GameState) error {
	if !isValidUUID(gs.ID) {
		return fmt.Errorf("invalid game state ID format: %s", gs.ID)
	}
	if gs.Inning < 1 {
		return fmt.Errorf("invalid inning %d", gs.Inning)
	}
	if gs.HalfInning != HalfTop && gs.HalfInning != HalfBottom {
		return fmt.Errorf("invalid half inning %q", gs.HalfInning)
	}
	if gs.Outs < 0 || gs.Outs >= 3 {
		return fmt.Errorf("invalid out count %d", gs.Outs)
	}
	if gs.Score[0] < 0 || gs.Score[1] < 0 {
		return fmt.Errorf("negative score")
	}
	seen := make(map[string]Base, len(gs.BaseRunners))
	for b, id := range gs.BaseRunners {
		if b < BaseFirst || b > BaseThird {
			return fmt.Errorf("runner on invalid base %s", b)
		}
		if id == "" {
			return fmt.Errorf("empty runner id on %s", b)
		}
		if other, dup := seen[id]; dup {
			return fmt.Errorf("runner %s on both %s and %s", id, other, b)
		}
		seen[id] = b
	}
	return nil
}

func validateGameEvent(ev *GameEvent) error {
	if !validEventTypes[ev.Type] {
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	switch ev.Type {
	case EventPlateAppearance:
		if ev.PlateAppearance == nil {
			return fmt.Errorf("missing plate appearance payload")
		}
		if !validPATypes[ev.PlateAppearance.Type] {
			return fmt.Errorf("unknown plate appearance type %q", ev.PlateAppearance.Type)
		}
	case EventStolenBase:
		if ev.StolenBase == nil || ev.StolenBase.RunnerID == "" {
			return fmt.Errorf("missing stolen base payload")
		}
	case EventLineupChange:
		if ev.LineupChange == nil || ev.LineupChange.LineupID == "" {
			return fmt.Errorf("missing lineup change payload")
		}
	case EventOpponentInning:
		if ev.OpponentInning == nil || ev.OpponentInning.RunsScored < 0 {
			return fmt.Errorf("missing or negative opponent inning payload")
		}
	}
	return nil
}

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
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Player is a roster entry. The engine itself only ever sees the
// opaque id; name and number exist for display layers.
type Player struct {
	ID     string           `json:"id" yaml:"id,omitempty"`
	Name   string           `json:"name" yaml:"name"`
	Number string           `json:"number,omitempty" yaml:"number,omitempty"`
	Pos    FieldingPosition `json:"pos,omitempty" yaml:"position,omitempty"`
}

// RosterFile is a declarative team roster document. Players bat in
// file order.
type RosterFile struct {
	Team    string   `yaml:"team"`
	Players []Player `yaml:"players"`
}

// LoadRosterFile parses a YAML roster document. Players without an id
// get a generated one.
func LoadRosterFile(path string) (*RosterFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}
	var rf RosterFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse roster file %s: %w", path, err)
	}
	if len(rf.Players) == 0 {
		return nil, fmt.Errorf("roster file %s has no players", path)
	}
	seen := make(map[string]bool)
	for i := range rf.Players {
		p := &rf.Players[i]
		if p.Name == "" {
			return nil, fmt.Errorf("roster file %s: player %d has no name", path, i)
		}
		if p.Pos != PosBench && !p.Pos.IsInfield() && !p.Pos.IsOutfield() {
			return nil, fmt.Errorf("roster file %s: player %q has invalid position %q", path, p.Name, p.Pos)
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("roster file %s: duplicate player id %s", path, p.ID)
		}
		seen[p.ID] = true
	}
	return &rf, nil
}

// BuildTeam turns the roster into a team with one lineup version,
// reconciling the fielding alignment for the roster size.
func (rf *RosterFile) BuildTeam(role TeamRole) *Team {
	t := NewTeam(role, rf.Team)
	l := t.CurrentLineup()
	for _, p := range rf.Players {
		l.Spots = append(l.Spots, LineupSpot{PlayerID: p.ID, Position: p.Pos})
	}
	updatePositions(l.Spots)
	return t
}

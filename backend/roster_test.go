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
	"os"
	"path/filepath"
	"testing"
)

func writeRosterFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write roster file: %v", err)
	}
	return path
}

func TestLoadRosterFile(t *testing.T) {
	path := writeRosterFile(t, `
team: Dragons
players:
  - name: Alice
    number: "7"
    position: PITCHER
  - name: Bob
    number: "12"
    position: CATCHER
  - name: Carol
`)
	rf, err := LoadRosterFile(path)
	if err != nil {
		t.Fatalf("LoadRosterFile failed: %v", err)
	}
	if rf.Team != "Dragons" {
		t.Errorf("Team = %s, want Dragons", rf.Team)
	}
	if len(rf.Players) != 3 {
		t.Fatalf("Expected 3 players, got %d", len(rf.Players))
	}
	for _, p := range rf.Players {
		if p.ID == "" {
			t.Errorf("Player %s has no generated id", p.Name)
		}
	}
	if rf.Players[0].Pos != PosPitcher {
		t.Errorf("Alice at %q, want PITCHER", rf.Players[0].Pos)
	}
	if rf.Players[2].Pos != PosBench {
		t.Errorf("Carol at %q, want the bench", rf.Players[2].Pos)
	}

	t.Run("BuildTeam", func(t *testing.T) {
		team := rf.BuildTeam(RoleAway)
		if team.Role != RoleAway || team.Name != "Dragons" {
			t.Errorf("Team = %s/%s, want AWAY/Dragons", team.Role, team.Name)
		}
		l := team.CurrentLineup()
		if len(l.Spots) != 3 {
			t.Fatalf("Expected 3 spots, got %d", len(l.Spots))
		}
		// Batting order follows file order.
		if l.Spots[0].PlayerID != rf.Players[0].ID {
			t.Error("Leadoff spot should be the first roster entry")
		}
	})
}

func TestLoadRosterFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"NoPlayers", "team: Empty\nplayers: []\n"},
		{"MissingName", "players:\n  - number: \"3\"\n"},
		{"InvalidPosition", "players:\n  - name: Alice\n    position: GOALIE\n"},
		{"DuplicateID", "players:\n  - name: Alice\n    id: p1\n  - name: Bob\n    id: p1\n"},
		{"NotYAML", "{{{"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeRosterFile(t, tc.content)
			if _, err := LoadRosterFile(path); err == nil {
				t.Error("Expected an error")
			}
		})
	}

	t.Run("MissingFile", func(t *testing.T) {
		if _, err := LoadRosterFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("Expected an error for a missing file")
		}
	})
}

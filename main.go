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

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/c2FmZQ/storage"
	"github.com/c2FmZQ/storage/crypto"
	"github.com/ttbt-io/skorebook/backend"
)

var (
	dataDir    = flag.String("data-dir", "data", "Directory for session data")
	debugMode  = flag.Bool("debug", false, "Enable debug mode")
	listAll    = flag.Bool("list", false, "List all stored sessions")
	showID     = flag.String("show", "", "Print the line score of a session")
	verifyID   = flag.String("verify", "", "Validate a stored session and rebuild its engine")
	newSession = flag.Bool("new", false, "Create a new session from roster files")
	awayRoster = flag.String("away", "", "Away team roster file (YAML), for -new")
	homeRoster = flag.String("home", "", "Home team roster file (YAML), for -new")
	gameLength = flag.Int("game-length", backend.DefaultGameLength, "Scheduled number of innings, for -new")
)

// main dispatches the session maintenance commands.
func main() {
	flag.Parse()

	// Initialize Encryption Key and Storage
	var masterKey crypto.MasterKey
	if passphrase := os.Getenv("SK_MASTER_KEY"); passphrase != "" {
		keyFile := filepath.Join(*dataDir, "master.key")
		os.MkdirAll(*dataDir, 0755)

		var err error
		masterKey, err = crypto.ReadMasterKey([]byte(passphrase), keyFile)
		if err != nil {
			if os.IsNotExist(err) {
				log.Println("Initializing new master encryption key...")
				masterKey, err = crypto.CreateMasterKey()
				if err != nil {
					log.Fatalf("Failed to create master key: %v", err)
				}
				if err := masterKey.Save([]byte(passphrase), keyFile); err != nil {
					log.Fatalf("Failed to save master key: %v", err)
				}
			} else {
				log.Fatalf("Failed to read master key: %v", err)
			}
		}
	} else {
		keyFile := filepath.Join(*dataDir, "master.key")
		if _, err := os.Stat(keyFile); err == nil {
			log.Fatalf("Critical Security Error: %s exists but SK_MASTER_KEY is not set. Refusing to start in unencrypted mode.", keyFile)
		}
		log.Println("Warning: No SK_MASTER_KEY provided. Data will be stored UNENCRYPTED.")
	}

	store := storage.New(*dataDir, masterKey)
	store.EnableCompression(true)
	sessions := backend.NewSessionStore(*dataDir, store)
	sessions.Debug = *debugMode

	switch {
	case *listAll:
		listSessions(sessions)
	case *showID != "":
		showSession(sessions, *showID)
	case *verifyID != "":
		verifySession(sessions, *verifyID)
	case *newSession:
		createSession(sessions)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func listSessions(sessions *backend.SessionStore) {
	for meta, err := range sessions.ListAllSessionMetadata() {
		if err != nil {
			log.Fatalf("Failed to list sessions: %v", err)
		}
		if meta.Status == "deleted" {
			continue
		}
		fmt.Printf("%s  %-10s  %s at %s\n", meta.ID, meta.Date, meta.Away, meta.Home)
	}
}

func showSession(sessions *backend.SessionStore, id string) {
	s, err := sessions.LoadSession(id)
	if err != nil {
		log.Fatalf("Failed to load session %s: %v", id, err)
	}
	fmt.Print(lineScore(s))
}

func verifySession(sessions *backend.SessionStore, id string) {
	s, err := sessions.LoadSession(id)
	if err != nil {
		log.Fatalf("Failed to load session %s: %v", id, err)
	}
	e, err := s.Engine()
	if err != nil {
		log.Fatalf("Session %s is not valid: %v", id, err)
	}
	fmt.Printf("OK: %d events, %d snapshots, status %s\n",
		len(e.EventLog()), len(e.PrevGameStates())+1, e.Status())
}

func createSession(sessions *backend.SessionStore) {
	if *awayRoster == "" || *homeRoster == "" {
		log.Fatal("-new requires -away and -home roster files")
	}
	awayFile, err := backend.LoadRosterFile(*awayRoster)
	if err != nil {
		log.Fatalf("Failed to load away roster: %v", err)
	}
	homeFile, err := backend.LoadRosterFile(*homeRoster)
	if err != nil {
		log.Fatalf("Failed to load home roster: %v", err)
	}
	e := backend.NewEngine(backend.Config{GameLength: *gameLength},
		awayFile.BuildTeam(backend.RoleAway), homeFile.BuildTeam(backend.RoleHome))
	if err := e.StartGame(); err != nil {
		log.Fatalf("Failed to start game: %v", err)
	}
	s := e.Session("", "", "", "")
	if err := sessions.SaveSession(s); err != nil {
		log.Fatalf("Failed to save session: %v", err)
	}
	fmt.Println(s.ID)
}

// lineScore renders the per-inning run totals of a stored session by
// walking its event log.
func lineScore(s *backend.Session) string {
	e, err := s.Engine()
	if err != nil {
		log.Fatalf("Session %s is not valid: %v", s.ID, err)
	}

	innings := 1
	if gs := e.CurrentState(); gs != nil {
		innings = gs.Inning
	}
	runs := map[backend.TeamRole][]int{
		backend.RoleAway: make([]int, innings),
		backend.RoleHome: make([]int, innings),
	}
	for _, rec := range e.EventLog() {
		before := e.StateByID(rec.GameStateBeforeID)
		if before == nil || before.Inning > innings {
			continue
		}
		n := len(rec.ScoredRunners)
		if rec.Event.OpponentInning != nil {
			n = rec.Event.OpponentInning.RunsScored
		}
		runs[before.BattingRole()][before.Inning-1] += n
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-20s", "")
	for i := 1; i <= innings; i++ {
		fmt.Fprintf(&b, "%3d", i)
	}
	fmt.Fprintf(&b, "   R\n")
	for _, role := range []backend.TeamRole{backend.RoleAway, backend.RoleHome} {
		name := e.Team(role).Name
		if name == "" {
			name = string(role)
		}
		fmt.Fprintf(&b, "%-20s", name)
		total := 0
		for _, n := range runs[role] {
			fmt.Fprintf(&b, "%3d", n)
			total += n
		}
		fmt.Fprintf(&b, " %3d\n", total)
	}
	return b.String()
}

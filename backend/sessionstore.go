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
	"iter"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/c2FmZQ/storage"
	"github.com/google/uuid"
)

// Session is a whole scoring session as stored on disk: the game
// metadata plus the engine's teams, snapshot chain and event log.
type Session struct {
	ID            string `json:"id"`
	SchemaVersion int    `json:"schemaVersion"`
	Date          string `json:"date,omitempty"`
	Location      string `json:"location,omitempty"`
	Event         string `json:"event,omitempty"`
	Status        string `json:"status"`

	Config     Config             `json:"config"`
	GameStatus GameStatus         `json:"gameStatus"`
	GameLength int                `json:"gameLength"`
	Away       *Team              `json:"away"`
	Home       *Team              `json:"home"`
	States     []*GameState       `json:"gameStates,omitempty"`
	EventLog   []*GameEventRecord `json:"eventLog,omitempty"`

	// DeletedAt is the timestamp (Unix Nano) when the session was
	// deleted.
	DeletedAt int64 `json:"deletedAt,omitempty"`
}

func (s *Session) normalize() {
	if s.SchemaVersion == 0 {
		s.SchemaVersion = CurrentSchemaVersion
	}
	if s.Away == nil {
		s.Away = NewTeam(RoleAway, "")
	}
	if s.Home == nil {
		s.Home = NewTeam(RoleHome, "")
	}
	for _, gs := range s.States {
		gs.normalize()
	}
	if s.GameStatus == "" {
		s.GameStatus = StatusNotStarted
	}
	if s.Status == "" {
		s.Status = "active"
	}
}

// Session flattens the engine into its storable shape under the given
// metadata.
func (e *Engine) Session(id, date, location, event string) *Session {
	s := &Session{
		ID:            id,
		SchemaVersion: CurrentSchemaVersion,
		Date:          date,
		Location:      location,
		Event:         event,
		Status:        "active",
		Config:        e.cfg,
		GameStatus:    e.status,
		GameLength:    e.gameLength,
		Away:          e.teams[RoleAway].clone(),
		Home:          e.teams[RoleHome].clone(),
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	for _, gs := range e.states {
		s.States = append(s.States, copyStateKeepID(gs))
	}
	for _, rec := range e.log {
		s.EventLog = append(s.EventLog, rec.clone())
	}
	return s
}

// Engine rebuilds a live engine from a stored session. The undo stack
// starts empty: recorded undo steps do not survive serialization.
func (s *Session) Engine() (*Engine, error) {
	if err := ValidateSession(s); err != nil {
		return nil, err
	}
	e := NewEngine(s.Config, s.Away.clone(), s.Home.clone())
	e.status = s.GameStatus
	if s.GameLength > 0 {
		e.gameLength = s.GameLength
	}
	for _, gs := range s.States {
		e.states = append(e.states, copyStateKeepID(gs))
	}
	for _, rec := range s.EventLog {
		e.log = append(e.log, rec.clone())
	}
	return e, nil
}

// SessionMetadata contains only the fields needed for listing, kept in
// a sidecar file so a directory scan never loads full event logs.
type SessionMetadata struct {
	ID        string `json:"id"`
	Date      string `json:"date,omitempty"`
	Location  string `json:"location,omitempty"`
	Event     string `json:"event,omitempty"`
	Away      string `json:"away,omitempty"`
	Home      string `json:"home,omitempty"`
	Status    string `json:"status"`
	DeletedAt int64  `json:"deletedAt,omitempty"`
}

// SessionStore manages session persistence to disk.
type SessionStore struct {
	DataDir string
	Debug   bool
	storage *storage.Storage
	mu      sync.Map // *sync.RWMutex per session id
	cache   sync.Map // latest marshaled []byte per session id
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(dataDir string, s *storage.Storage) *SessionStore {
	return &SessionStore{
		DataDir: dataDir,
		storage: s,
	}
}

func sessionFilenames(sessionID string) (string, string) {
	encoded := url.PathEscape(sessionID)
	return filepath.Join("sessions", fmt.Sprintf("%s.json", encoded)),
		filepath.Join("sessions", fmt.Sprintf("%s.meta.json", encoded))
}

// SaveSession saves the session data atomically.
func (ss *SessionStore) SaveSession(s *Session) error {
	m, _ := ss.mu.LoadOrStore(s.ID, &sync.RWMutex{})
	mutex := m.(*sync.RWMutex)
	mutex.Lock()
	defer mutex.Unlock()

	filename, metaFilename := sessionFilenames(s.ID)
	if err := ss.storage.SaveDataFile(filename, s); err != nil {
		return fmt.Errorf("storage.SaveDataFile: %w", err)
	}

	meta := SessionMetadata{
		ID:        s.ID,
		Date:      s.Date,
		Location:  s.Location,
		Event:     s.Event,
		Away:      s.Away.Name,
		Home:      s.Home.Name,
		Status:    s.Status,
		DeletedAt: s.DeletedAt,
	}
	if err := ss.storage.SaveDataFile(metaFilename, &meta); err != nil {
		// Non-fatal, listing falls back to the main file.
		log.Printf("Warning: Failed to save metadata sidecar for session %s: %v", s.ID, err)
	}

	if jsonBytes, err := json.Marshal(s); err == nil {
		ss.cache.Store(s.ID, jsonBytes)
	}
	return nil
}

// LoadSession loads a session by id.
func (ss *SessionStore) LoadSession(sessionID string) (*Session, error) {
	if val, ok := ss.cache.Load(sessionID); ok {
		var s Session
		if err := json.Unmarshal(val.([]byte), &s); err == nil {
			if ss.Debug {
				log.Printf("[CACHE] Hit for session %s", sessionID)
			}
			s.normalize()
			return &s, nil
		}
		ss.cache.Delete(sessionID)
	}

	m, _ := ss.mu.LoadOrStore(sessionID, &sync.RWMutex{})
	mutex := m.(*sync.RWMutex)
	mutex.RLock()
	defer mutex.RUnlock()

	filename, _ := sessionFilenames(sessionID)
	var s Session
	if err := ss.storage.ReadDataFile(filename, &s); err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("ReadDataFile: %w", err)
	}
	if s.SchemaVersion > CurrentSchemaVersion {
		return nil, fmt.Errorf("unsupported schema version %d", s.SchemaVersion)
	}
	s.normalize()

	if jsonBytes, err := json.Marshal(&s); err == nil {
		ss.cache.Store(sessionID, jsonBytes)
	}
	return &s, nil
}

// DeleteSession deletes a session by overwriting it with a tombstone.
func (ss *SessionStore) DeleteSession(sessionID string) error {
	if _, err := ss.LoadSession(sessionID); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	m, _ := ss.mu.LoadOrStore(sessionID, &sync.RWMutex{})
	mutex := m.(*sync.RWMutex)
	mutex.Lock()
	defer mutex.Unlock()

	tombstone := &Session{
		ID:            sessionID,
		SchemaVersion: CurrentSchemaVersion,
		Status:        "deleted",
		DeletedAt:     time.Now().UnixNano(),
	}
	tombstone.normalize()

	filename, metaFilename := sessionFilenames(sessionID)
	if err := ss.storage.SaveDataFile(filename, tombstone); err != nil {
		return fmt.Errorf("storage.SaveDataFile (tombstone): %w", err)
	}
	meta := SessionMetadata{ID: sessionID, Status: "deleted", DeletedAt: tombstone.DeletedAt}
	if err := ss.storage.SaveDataFile(metaFilename, &meta); err != nil {
		log.Printf("Warning: Failed to save metadata tombstone for session %s: %v", sessionID, err)
	}

	if jsonBytes, err := json.Marshal(tombstone); err == nil {
		ss.cache.Store(sessionID, jsonBytes)
	}
	return nil
}

// PurgeSession permanently deletes the session files.
func (ss *SessionStore) PurgeSession(sessionID string) error {
	m, _ := ss.mu.LoadOrStore(sessionID, &sync.RWMutex{})
	mutex := m.(*sync.RWMutex)
	mutex.Lock()
	defer mutex.Unlock()

	ss.cache.Delete(sessionID)

	filename, metaFilename := sessionFilenames(sessionID)
	if err := os.Remove(filepath.Join(ss.DataDir, filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not purge session file: %w", err)
	}
	if err := os.Remove(filepath.Join(ss.DataDir, metaFilename)); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not purge meta file for session %s: %v", sessionID, err)
	}
	return nil
}

// ListAllSessionMetadata iterates the metadata of every stored session
// without loading full event logs, preferring the sidecar files and
// falling back to the main file when a sidecar is missing or broken.
func (ss *SessionStore) ListAllSessionMetadata() iter.Seq2[SessionMetadata, error] {
	return func(yield func(SessionMetadata, error) bool) {
		dir := filepath.Join(ss.DataDir, "sessions")
		files, err := os.ReadDir(dir)
		if err != nil && !os.IsNotExist(err) {
			yield(SessionMetadata{}, fmt.Errorf("could not read sessions directory: %w", err))
			return
		}

		hasMeta := make(map[string]bool)
		hasMain := make(map[string]bool)
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			name := file.Name()
			if strings.HasSuffix(name, ".meta.json") {
				if id, err := url.PathUnescape(strings.TrimSuffix(name, ".meta.json")); err == nil {
					hasMeta[id] = true
				}
			} else if strings.HasSuffix(name, ".json") {
				if id, err := url.PathUnescape(strings.TrimSuffix(name, ".json")); err == nil {
					hasMain[id] = true
				}
			}
		}

		for id := range hasMeta {
			_, metaFilename := sessionFilenames(id)
			var meta SessionMetadata
			if err := ss.storage.ReadDataFile(metaFilename, &meta); err != nil {
				log.Printf("Warning: failed to load metadata for session %s: %v. Falling back to main file.", id, err)
				continue
			}
			delete(hasMain, id)
			if !yield(meta, nil) {
				return
			}
		}

		for id := range hasMain {
			s, err := ss.LoadSession(id)
			if err != nil {
				log.Printf("Warning: could not load session '%s': %v", id, err)
				continue
			}
			if !yield(SessionMetadata{
				ID:        s.ID,
				Date:      s.Date,
				Location:  s.Location,
				Event:     s.Event,
				Away:      s.Away.Name,
				Home:      s.Home.Name,
				Status:    s.Status,
				DeletedAt: s.DeletedAt,
			}, nil) {
				return
			}
		}
	}
}

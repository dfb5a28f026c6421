// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package studio

import (
	"sync"

	"github.com/google/uuid"

	"thumbstudio/internal/imaging"
	"thumbstudio/internal/models"
)

// State is the working set of one editing session: the image being worked
// on, the slider positions, and the run of results that led here. It lives
// only in memory and dies with the session.
type State struct {
	mu          sync.Mutex
	current     *models.GeneratedImage
	history     []*models.GeneratedImage // newest first
	adjustments imaging.Adjustments
	ratio       models.AspectRatio
	inFlight    bool
}

func newState() *State {
	return &State{
		adjustments: imaging.DefaultAdjustments(),
		ratio:       models.RatioPortrait,
	}
}

// Snapshot is a read-only view of a session's studio state, safe to hand
// to the HTTP layer after the lock is released.
type Snapshot struct {
	Current     *models.GeneratedImage   `json:"current"`
	History     []*models.GeneratedImage `json:"history"`
	Adjustments imaging.Adjustments      `json:"adjustments"`
	Filter      string                   `json:"filter"`
	Ratio       models.AspectRatio       `json:"aspect_ratio"`
	InFlight    bool                     `json:"in_flight"`
}

// snapshotLocked must be called with s.mu held.
func (s *State) snapshotLocked() Snapshot {
	history := make([]*models.GeneratedImage, len(s.history))
	copy(history, s.history)
	return Snapshot{
		Current:     s.current,
		History:     history,
		Adjustments: s.adjustments,
		Filter:      s.adjustments.FilterString(),
		Ratio:       s.ratio,
		InFlight:    s.inFlight,
	}
}

// Snapshot returns a consistent copy of the session state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// pushLocked makes img the current image and prepends it to history.
// History is bounded only by the session's lifetime; entries are dropped
// together when the session ends or the user clears the workspace.
// Adjustments reset so the new image starts from a clean slate.
// Must be called with s.mu held.
func (s *State) pushLocked(img *models.GeneratedImage) {
	s.current = img
	s.history = append([]*models.GeneratedImage{img}, s.history...)
	s.adjustments = imaging.DefaultAdjustments()
}

// findLocked returns the history entry with the given ID, or nil.
// Must be called with s.mu held.
func (s *State) findLocked(id uuid.UUID) *models.GeneratedImage {
	for _, img := range s.history {
		if img.ID == id {
			return img
		}
	}
	return nil
}

// Manager tracks per-session studio state, keyed by session ID. States are
// created on first use and dropped when the session ends.
type Manager struct {
	mu     sync.RWMutex
	states map[string]*State
}

func NewManager() *Manager {
	return &Manager{states: make(map[string]*State)}
}

// Get returns the state for a session, creating it if needed.
func (m *Manager) Get(sessionID string) *State {
	m.mu.RLock()
	st, ok := m.states[sessionID]
	m.mu.RUnlock()
	if ok {
		return st
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.states[sessionID]; ok {
		return st
	}
	st = newState()
	m.states[sessionID] = st
	return st
}

// Drop discards a session's state. Called on sign-out.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	delete(m.states, sessionID)
	m.mu.Unlock()
}

// Len reports how many sessions currently hold state.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.states)
}

package session

import "sync"

// Snapshot is one reading of the latest session metrics, as served by the telemetry API.
type Snapshot struct {
	SessionID        string  `json:"session_id"`
	Timestamp        string  `json:"timestamp"`
	MuscleActivation float64 `json:"muscle_activation"`
	MuscleFatigue    float64 `json:"muscle_fatigue"`
	Force            float64 `json:"force"`
	Velocity         float64 `json:"velocity"`
	PowerOutput      float64 `json:"power_output"`
}

// Store holds the last successfully fetched snapshot. It is never cleared.
type Store struct {
	mutex  sync.RWMutex
	latest *Snapshot
}

func NewStore() *Store {
	return &Store{}
}

// Replace swaps the held snapshot wholesale. A nil snapshot is ignored.
func (s *Store) Replace(snapshot *Snapshot) {
	if snapshot == nil {
		return
	}
	cp := *snapshot

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.latest = &cp
}

// Latest returns a copy of the held snapshot, or nil if none was ever fetched.
func (s *Store) Latest() *Snapshot {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.latest == nil {
		return nil
	}
	cp := *s.latest
	return &cp
}

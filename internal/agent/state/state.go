package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/elixxir/ekv"

	"github.com/Lakshan2000610/hr-notification/internal/domain"
)

const (
	processedKey = "processed_content"
	pendingKey   = "pending_display"
	durationsKey = "view_durations"

	// displayedThreshold is the viewed duration in seconds past which a
	// server-side view record proves the content was already displayed
	displayedThreshold = 30
)

// AgentState is the agent's durable local state: which content was already
// displayed, which content is waiting on a delayed display time, and the
// largest viewed duration observed per content. Every mutation is flushed to
// the backing store before returning, so a crash never loses the dedup
// boundary.
type AgentState struct {
	mu sync.Mutex
	kv ekv.KeyValue

	processed map[string]bool
	pending   map[string]time.Time
	durations map[string]float64

	logger zerolog.Logger
}

// Load builds agent state from the backing store, starting empty for any
// key that has never been written
func Load(kv ekv.KeyValue, logger zerolog.Logger) (*AgentState, error) {
	s := &AgentState{
		kv:        kv,
		processed: make(map[string]bool),
		pending:   make(map[string]time.Time),
		durations: make(map[string]float64),
		logger:    logger.With().Str("component", "agent_state").Logger(),
	}

	if err := loadKey(kv, processedKey, &s.processed); err != nil {
		return nil, err
	}
	if err := loadKey(kv, pendingKey, &s.pending); err != nil {
		return nil, err
	}
	if err := loadKey(kv, durationsKey, &s.durations); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("processed", len(s.processed)).
		Int("pending", len(s.pending)).
		Msg("Agent state loaded")

	return s, nil
}

func loadKey(kv ekv.KeyValue, key string, out interface{}) error {
	if err := kv.GetInterface(key, out); err != nil {
		if ekv.Exists(err) {
			return fmt.Errorf("failed to load %s: %w", key, err)
		}
		return nil
	}
	return nil
}

func (s *AgentState) save(key string, v interface{}) error {
	if err := s.kv.SetInterface(key, v); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}

// IsProcessed reports whether the content was already displayed
func (s *AgentState) IsProcessed(contentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processed[contentID]
}

// MarkProcessed durably records that the content was displayed. The write
// hits the store before this returns.
func (s *AgentState) MarkProcessed(contentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.processed[contentID] = true
	delete(s.pending, contentID)

	if err := s.save(processedKey, s.processed); err != nil {
		return err
	}
	return s.save(pendingKey, s.pending)
}

// PendingDisplay returns the stored display time for content awaiting a
// delayed display
func (s *AgentState) PendingDisplay(contentID string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.pending[contentID]
	return at, ok
}

// SetPendingDisplay durably records a resolved display time
func (s *AgentState) SetPendingDisplay(contentID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[contentID] = at
	return s.save(pendingKey, s.pending)
}

// PendingAll snapshots all pending display times
func (s *AgentState) PendingAll() map[string]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]time.Time, len(s.pending))
	for id, at := range s.pending {
		out[id] = at
	}
	return out
}

// MergeDuration max-merges a locally observed viewed duration and reports
// whether the stored value changed
func (s *AgentState) MergeDuration(contentID string, duration float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if duration <= s.durations[contentID] {
		return false, nil
	}

	s.durations[contentID] = duration
	return true, s.save(durationsKey, s.durations)
}

// Duration returns the largest viewed duration observed for the content
func (s *AgentState) Duration(contentID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.durations[contentID]
}

// ReconcileViews merges server-side view records into local state. Content
// the server already saw past the displayed threshold is marked processed.
func (s *AgentState) ReconcileViews(views []domain.View) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, v := range views {
		if v.ViewedDuration > s.durations[v.ContentID] {
			s.durations[v.ContentID] = v.ViewedDuration
			changed = true
		}
		if v.ViewedDuration > displayedThreshold && !s.processed[v.ContentID] {
			s.processed[v.ContentID] = true
			delete(s.pending, v.ContentID)
			changed = true
		}
	}

	if !changed {
		return nil
	}

	if err := s.save(durationsKey, s.durations); err != nil {
		return err
	}
	if err := s.save(processedKey, s.processed); err != nil {
		return err
	}
	return s.save(pendingKey, s.pending)
}

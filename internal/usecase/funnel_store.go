package usecase

import (
	"strings"
	"sync"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// FunnelStore holds the visible funnel entries. Only the stage transition engine and full
// reloads write to it. Every reload bumps the version so late rollbacks can tell that the
// snapshot they were written against is gone.
type FunnelStore struct {
	mu      sync.RWMutex
	entries []entity.FunnelEntry
	version uint64
	closed  bool
}

func NewFunnelStore() *FunnelStore {
	return &FunnelStore{}
}

// Replace swaps the whole snapshot. Entries whose lead is inactive are not visible.
func (s *FunnelStore) Replace(entries []entity.FunnelEntry) {
	visible := make([]entity.FunnelEntry, 0, len(entries))
	for _, e := range entries {
		if !e.Lead.Active || !e.Stage.Valid() {
			continue
		}
		visible = append(visible, e)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.entries = visible
	s.version++
}

func (s *FunnelStore) Snapshot() []entity.FunnelEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.FunnelEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *FunnelStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *FunnelStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *FunnelStore) Get(id string) (entity.FunnelEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.entries[i], true
	}
	return entity.FunnelEntry{}, false
}

// SetStage writes stage and updatedAt on the entry and returns the store version the
// change was applied to.
func (s *FunnelStore) SetStage(id string, stage entity.Stage, updatedAt time.Time) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.version, false
	}
	i := s.indexOf(id)
	if i < 0 {
		return s.version, false
	}
	s.entries[i].Stage = stage
	s.entries[i].UpdatedAt = updatedAt
	return s.version, true
}

// RevertStage undoes a SetStage, but only against the same snapshot version and only
// while the entry still shows the stage that was applied.
func (s *FunnelStore) RevertStage(id string, version uint64, applied entity.Stage, prev entity.FunnelEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.version != version {
		return false
	}
	i := s.indexOf(id)
	if i < 0 || s.entries[i].Stage != applied {
		return false
	}
	s.entries[i].Stage = prev.Stage
	s.entries[i].UpdatedAt = prev.UpdatedAt
	return true
}

func (s *FunnelStore) Remove(id string) (entity.FunnelEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return entity.FunnelEntry{}, false
	}
	i := s.indexOf(id)
	if i < 0 {
		return entity.FunnelEntry{}, false
	}
	removed := s.entries[i]
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return removed, true
}

// FindByContact returns the first entry whose lead matches email (case-insensitive) or
// phone (digits only). Best-effort: there is no id linking a client back to its entry.
func (s *FunnelStore) FindByContact(email string, phones ...string) (entity.FunnelEntry, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	wanted := make(map[string]struct{}, len(phones))
	for _, p := range phones {
		if d := OnlyDigits(p); d != "" {
			wanted[d] = struct{}{}
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if email != "" && strings.ToLower(strings.TrimSpace(e.Lead.Email)) == email {
			return e, true
		}
		if _, ok := wanted[OnlyDigits(e.Lead.Phone)]; ok {
			return e, true
		}
	}
	return entity.FunnelEntry{}, false
}

// Close detaches the store; writes arriving afterwards are dropped.
func (s *FunnelStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *FunnelStore) indexOf(id string) int {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}

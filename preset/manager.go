package preset

import (
	"fmt"
	"log"
	"sync"
)

const maxRecent = 10

// Store merges the built-in catalog with user presets kept in a Storage.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	user    []Preset // newest first
	recent  []string // MRU order, max 10 IDs

	loaded       bool
	pendingWrite bool
	loadOnce     sync.Once
	ready        chan struct{}
}

func NewStore(storage Storage) *Store {
	if storage == nil {
		storage = &MemoryStorage{}
	}
	return &Store{storage: storage, ready: make(chan struct{})}
}

// Load reads user presets from storage. Presets saved before Load finishes
// are kept in front of the loaded ones and written back once. A failed read
// leaves the store empty but usable. Only the first call does anything.
func (s *Store) Load() error {
	var err error
	s.loadOnce.Do(func() { err = s.load() })
	return err
}

func (s *Store) load() error {
	loaded, err := s.storage.Get()

	s.mu.Lock()
	defer s.mu.Unlock()
	defer close(s.ready)

	s.loaded = true
	if err != nil {
		s.pendingWrite = false
		return fmt.Errorf("load presets: %w", err)
	}
	for _, p := range loaded {
		if s.indexLocked(p.ID) < 0 {
			s.user = append(s.user, p)
		}
	}
	if s.pendingWrite {
		s.pendingWrite = false
		if err := s.storage.Set(s.user); err != nil {
			return fmt.Errorf("write queued presets: %w", err)
		}
	}
	return nil
}

// Ready is closed once Load has finished.
func (s *Store) Ready() <-chan struct{} { return s.ready }

// WritePending reports whether a save is waiting for Load.
func (s *Store) WritePending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pendingWrite
}

// List returns user presets (newest first) followed by the built-ins.
func (s *Store) List() []Preset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(clonePresets(s.user), Builtins()...)
}

// Get returns a copy of the preset with the given id.
func (s *Store) Get(id string) (Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(id)
}

func (s *Store) getLocked(id string) (Preset, error) {
	if i := s.indexLocked(id); i >= 0 {
		return s.user[i].Clone(), nil
	}
	for _, p := range builtins {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return Preset{}, ErrNotFound
}

func (s *Store) indexLocked(id string) int {
	for i, p := range s.user {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Save stores a copy of p as a removable user preset and returns it with its
// id filled in. A user preset with the same name is replaced.
func (s *Store) Save(p Preset) (Preset, error) {
	if err := p.Validate(); err != nil {
		return Preset{}, err
	}
	p = p.Clone()
	p.ID = UserID(p.Name)
	p.Removable = true

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(p.ID); i >= 0 {
		s.user = append(s.user[:i], s.user[i+1:]...)
	}
	s.user = append([]Preset{p}, s.user...)
	if err := s.persistLocked(); err != nil {
		return Preset{}, err
	}
	return p.Clone(), nil
}

// Remove deletes a user preset.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		if _, err := s.getLocked(id); err == nil {
			return ErrNotRemovable
		}
		return ErrNotFound
	}
	s.user = append(s.user[:i], s.user[i+1:]...)
	s.recent = s.filterRecentLocked(s.recent)
	return s.persistLocked()
}

// persistLocked writes user presets, or latches the write until Load has
// run so that unread data is not overwritten.
func (s *Store) persistLocked() error {
	if !s.loaded {
		s.pendingWrite = true
		log.Printf("preset: storage not loaded yet, queuing write")
		return nil
	}
	return s.storage.Set(s.user)
}

// MarkUsed moves id to the front of the recently used list (deduplicated,
// capped at 10, missing IDs dropped). An unknown id is ignored.
func (s *Store) MarkUsed(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.getLocked(id); err != nil {
		return
	}
	list := append([]string{id}, s.recent...)
	seen := make(map[string]bool, len(list))
	out := list[:0]
	for _, rid := range s.filterRecentLocked(list) {
		if seen[rid] {
			continue
		}
		seen[rid] = true
		out = append(out, rid)
		if len(out) == maxRecent {
			break
		}
	}
	s.recent = out
}

func (s *Store) filterRecentLocked(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := s.getLocked(id); err == nil {
			out = append(out, id)
		}
	}
	return out
}

// Recent returns the recently used IDs, most recent first.
func (s *Store) Recent() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.recent))
	copy(out, s.recent)
	return out
}

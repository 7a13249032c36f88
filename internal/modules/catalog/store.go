package catalog

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/aristath/boxengine/internal/domain"
	"github.com/rs/zerolog"
)

// ErrBoxNotFound is returned when a box name is not in the current catalog
var ErrBoxNotFound = errors.New("box not found")

// Store holds the current catalog snapshot.
// Readers always get deep copies, so a reload never changes data a calculation is using.
type Store struct {
	mu       sync.RWMutex
	boxes    []domain.Box
	byName   map[string]int
	loadedAt time.Time
	warnings domain.Warnings
	log      zerolog.Logger
}

// NewStore creates an empty store
func NewStore(log zerolog.Logger) *Store {
	return &Store{
		byName: make(map[string]int),
		log:    log.With().Str("component", "catalog_store").Logger(),
	}
}

// Replace swaps in a new catalog snapshot
func (s *Store) Replace(boxes []domain.Box, warnings domain.Warnings) {
	cloned := cloneBoxes(boxes)
	index := make(map[string]int, len(cloned))
	for i, b := range cloned {
		index[b.BoxName] = i
	}

	s.mu.Lock()
	s.boxes = cloned
	s.byName = index
	s.warnings = append(domain.Warnings(nil), warnings...)
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.log.Info().
		Int("boxes", len(cloned)).
		Int("warnings", len(warnings)).
		Msg("Catalog snapshot replaced")
}

// All returns a copy of every box in catalog order
func (s *Store) All() []domain.Box {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneBoxes(s.boxes)
}

// Get returns a copy of the named box
func (s *Store) Get(name string) (domain.Box, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byName[name]
	if !ok {
		return domain.Box{}, ErrBoxNotFound
	}
	return s.boxes[i].Clone(), nil
}

// Names returns the box names sorted alphabetically
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of boxes
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.boxes)
}

// LoadedAt returns when the current snapshot was installed (zero if never)
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Warnings returns the ingestion warnings of the current snapshot
func (s *Store) Warnings() domain.Warnings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(domain.Warnings(nil), s.warnings...)
}

func cloneBoxes(boxes []domain.Box) []domain.Box {
	out := make([]domain.Box, len(boxes))
	for i, b := range boxes {
		out[i] = b.Clone()
	}
	return out
}

// LoadFrom reads the catalog file at path and installs it. On failure the previous
// snapshot stays in place.
func (s *Store) LoadFrom(path string) error {
	boxes, warnings, err := LoadFile(path)
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("Catalog load failed, keeping previous snapshot")
		return err
	}
	for _, w := range warnings {
		s.log.Warn().Str("code", string(w.Code)).Float64("value", w.Value).Msg(w.Message)
	}
	s.Replace(boxes, warnings)
	return nil
}

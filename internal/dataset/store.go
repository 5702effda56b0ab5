package dataset

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"review_mirror/internal/adapters/observability"
	"review_mirror/internal/domain"
)

// Dataset is an immutable, fully decoded review table.
type Dataset struct {
	Key         string
	Fingerprint string
	Reviews     []domain.Review
	Places      []string // first-appearance order
	LoadedAt    time.Time

	placeSet map[string]struct{}
}

func newDataset(key string, rs []domain.Review, at time.Time) *Dataset {
	ds := &Dataset{
		Key:         key,
		Fingerprint: Fingerprint(rs),
		Reviews:     rs,
		LoadedAt:    at,
		placeSet:    make(map[string]struct{}),
	}
	for _, rv := range rs {
		if _, ok := ds.placeSet[rv.Place]; ok {
			continue
		}
		ds.placeSet[rv.Place] = struct{}{}
		ds.Places = append(ds.Places, rv.Place)
	}
	return ds
}

// DefaultSelection returns the first n places in dataset order.
func (d *Dataset) DefaultSelection(n int) []string {
	if n > len(d.Places) {
		n = len(d.Places)
	}
	if n < 0 {
		n = 0
	}
	return append([]string(nil), d.Places[:n]...)
}

func (d *Dataset) HasPlace(p string) bool {
	_, ok := d.placeSet[p]
	return ok
}

// Store holds loaded datasets keyed by source identity. A dataset is read
// once and shared until Invalidate, Reset or Reload. Failed loads are never
// stored.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*Dataset

	loadMu sync.Mutex // one load at a time
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{entries: make(map[string]*Dataset), now: time.Now}
}

func (s *Store) Get(ctx context.Context, src Source) (*Dataset, error) {
	if ds := s.lookup(src.Key()); ds != nil {
		observability.ObserveCache("dataset", "hit")
		return ds, nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	// another caller may have finished the load while we waited
	if ds := s.lookup(src.Key()); ds != nil {
		observability.ObserveCache("dataset", "hit")
		return ds, nil
	}
	observability.ObserveCache("dataset", "miss")
	return s.load(ctx, src)
}

// Reload re-reads src and replaces the stored dataset. On failure the
// previous dataset, if any, stays in place.
func (s *Store) Reload(ctx context.Context, src Source) (*Dataset, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.load(ctx, src)
}

// Peek returns the stored dataset for key without loading.
func (s *Store) Peek(key string) *Dataset { return s.lookup(key) }

func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	observability.ObserveCache("dataset", "del")
}

func (s *Store) Reset() {
	s.mu.Lock()
	s.entries = make(map[string]*Dataset)
	s.mu.Unlock()
}

func (s *Store) lookup(key string) *Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[key]
}

func (s *Store) load(ctx context.Context, src Source) (*Dataset, error) {
	key := src.Key()
	start := s.now()

	rs, err := src.Load(ctx)
	if err != nil {
		observability.ObserveDatasetLoad(sourceKind(key), "error", 0, time.Since(start))
		var le *domain.LoadError
		if !errors.As(err, &le) {
			err = &domain.LoadError{Source: key, Err: err}
		}
		log.Error().Err(err).Str("source", key).Msg("dataset load failed")
		return nil, err
	}

	ds := newDataset(key, rs, s.now())
	s.mu.Lock()
	s.entries[key] = ds
	s.mu.Unlock()

	observability.ObserveDatasetLoad(sourceKind(key), "ok", len(rs), time.Since(start))
	log.Info().
		Str("source", key).
		Int("rows", len(rs)).
		Int("places", len(ds.Places)).
		Str("fingerprint", ds.Fingerprint[:12]).
		Dur("duration", time.Since(start)).
		Msg("dataset loaded")
	return ds, nil
}

func sourceKind(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i]
		}
	}
	return "unknown"
}

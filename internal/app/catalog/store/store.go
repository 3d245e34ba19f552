// Package store owns the in-memory catalog collection and mirrors it to a
// SnapshotRepository.
//
// Every mutation builds a candidate collection, writes the whole candidate as
// one snapshot guarded by the version it was loaded at, and only then makes
// it current. A failed write leaves the last durable collection in place.
package store

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/light-bringer/salecat-service/internal/app/catalog/contracts"
	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
	"github.com/light-bringer/salecat-service/internal/pkg/logger"
	"github.com/light-bringer/salecat-service/internal/pkg/metrics"
)

// Store is the single owner of the entity collection. Callers only ever
// receive copies.
type Store struct {
	mu       sync.Mutex
	repo     contracts.SnapshotRepository
	key      string
	metrics  *metrics.Metrics
	newID    func() string
	entities []*domain.Entity
	version  int64
	loaded   bool
	stale    bool
}

// Option configures a Store.
type Option func(*Store)

// WithMetrics records persist latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithIDGenerator replaces uuid generation, for deterministic tests.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithKey overrides the persistence key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// New creates an empty, unloaded Store.
func New(repo contracts.SnapshotRepository, opts ...Option) *Store {
	s := &Store{
		repo:     repo,
		key:      contracts.SnapshotKey,
		newID:    uuid.NewString,
		entities: []*domain.Entity{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the collection with the persisted snapshot. Missing or
// malformed data yields an empty collection; only backend failures are errors.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) error {
	snap, err := s.repo.Load(ctx, s.key)
	if err != nil {
		return &domain.PersistenceError{Cause: err}
	}

	entities, coercions := NormalizeRecords(snap.Records, s.newID)
	for _, c := range coercions {
		logger.Warn(ctx, "normalized stored entity",
			zap.Int("position", c.Position),
			zap.String("id", c.ID),
			zap.Strings("fields", c.Fields),
		)
	}

	s.entities = entities
	s.version = snap.Version
	s.loaded = true
	s.stale = false

	logger.Debug(ctx, "catalog loaded",
		zap.Int("entities", len(entities)),
		zap.Int64("version", snap.Version),
	)
	return nil
}

// Coercion reports the fields repaired while normalizing one stored record.
type Coercion struct {
	Position int
	ID       string
	Fields   []string
}

// NormalizeRecords turns stored records into entities. Records with an empty
// or repeated id get a fresh one from newID. Order is preserved.
func NormalizeRecords(records []domain.RawRecord, newID func() string) ([]*domain.Entity, []Coercion) {
	entities := make([]*domain.Entity, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	var coercions []Coercion

	for i, rec := range records {
		e, coerced := domain.Normalize(rec)
		if _, dup := seen[e.ID()]; dup || e.ID() == "" {
			e = e.WithID(newID())
			coerced = append(coerced, "id")
		}
		seen[e.ID()] = struct{}{}

		if len(coerced) > 0 {
			coercions = append(coercions, Coercion{Position: i, ID: e.ID(), Fields: coerced})
		}
		entities = append(entities, e)
	}

	return entities, coercions
}

// Version returns the snapshot version the collection was last synced at.
func (s *Store) Version() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.version
}

// List returns copies of every entity, in insertion order.
func (s *Store) List() []*domain.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Entity, len(s.entities))
	for i, e := range s.entities {
		out[i] = e.Clone()
	}
	return out
}

// Get returns a copy of the entity with the given id.
func (s *Store) Get(id string) (*domain.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, &domain.NotFoundError{ID: id}
	}
	return s.entities[i].Clone(), nil
}

// Create validates draft, assigns a fresh id and appends the entity.
func (s *Store) Create(ctx context.Context, draft domain.Draft) (*domain.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}

	e, err := domain.NewEntity(s.newID(), draft)
	if err != nil {
		return nil, err
	}

	next := append(slices.Clone(s.entities), e)
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	return e.Clone(), nil
}

// Update merges patch into the entity, re-validates the result and persists
// it. A patch that changes nothing is not written.
func (s *Store) Update(ctx context.Context, id string, patch domain.Patch) (*domain.Entity, error) {
	return s.Mutate(ctx, id, func(current *domain.Entity) (*domain.Entity, error) {
		updated, changes, err := current.ApplyPatch(patch)
		if err != nil {
			return nil, err
		}
		if !changes.HasChanges() {
			return current, nil
		}
		return updated, nil
	})
}

// Mutate runs fn against a copy of the entity and commits what it returns.
// The lock is held across fn and the write, so the read-then-write is not
// interleaved with other calls on this Store. Returning the input unchanged
// (or nil) skips the write.
func (s *Store) Mutate(
	ctx context.Context,
	id string,
	fn func(*domain.Entity) (*domain.Entity, error),
) (*domain.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}

	i := s.indexOf(id)
	if i < 0 {
		return nil, &domain.NotFoundError{ID: id}
	}

	current := s.entities[i].Clone()
	updated, err := fn(current)
	if err != nil {
		return nil, err
	}
	if updated == nil || updated == current {
		return current.Clone(), nil
	}
	if updated.ID() != id {
		return nil, domain.NewValidationError("id", "cannot change")
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	updated = updated.Clone()
	next := slices.Clone(s.entities)
	next[i] = updated
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	return updated.Clone(), nil
}

// Delete removes the entity with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return err
	}

	i := s.indexOf(id)
	if i < 0 {
		return &domain.NotFoundError{ID: id}
	}

	return s.commit(ctx, slices.Delete(slices.Clone(s.entities), i, i+1))
}

// refresh loads the snapshot before the first write and after a conflict.
// Reads never call it: List and Get serve the collection as of the last load
// or write, so another instance's writes become visible here only after this
// Store hits a conflict.
func (s *Store) refresh(ctx context.Context) error {
	if s.loaded && !s.stale {
		return nil
	}
	return s.load(ctx)
}

// commit writes next as the full snapshot and makes it current on success.
func (s *Store) commit(ctx context.Context, next []*domain.Entity) error {
	records := make([]domain.RawRecord, len(next))
	for i, e := range next {
		records[i] = e.Raw()
	}

	snap := &contracts.Snapshot{Key: s.key, Records: records}

	start := time.Now()
	err := s.repo.Save(ctx, snap, s.version)
	s.metrics.ObservePersist(start, err)

	if err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			s.stale = true
			logger.Warn(ctx, "catalog snapshot changed since load",
				zap.Int64("version", s.version),
			)
			return conflict
		}

		logger.Error(ctx, "failed to persist catalog", zap.Error(err))
		return &domain.PersistenceError{Cause: err}
	}

	s.entities = next
	s.version = snap.Version
	return nil
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.entities, func(e *domain.Entity) bool {
		return e.ID() == id
	})
}

package store

import (
	"context"
	"errors"
	"fmt"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

// TripStore holds the most recent optimization result.
//
// Readers are lock-free and always see a complete result; writers are
// serialised. A result is never mutated after Put, so callers may share it.
type TripStore struct {
	mu      sync.Mutex
	current atomic.Pointer[domain.OptimizationResult]
	gen     int64

	repo ports.ResultRepository
	// Persistence runs after the swap on its own goroutine, tracked here.
	pending sync.WaitGroup
	saveTTL time.Duration
}

type Option func(*TripStore)

// WithRepository persists every stored result and seeds Load.
func WithRepository(repo ports.ResultRepository) Option {
	return func(s *TripStore) { s.repo = repo }
}

func New(opts ...Option) *TripStore {
	s := &TripStore{saveTTL: 10 * time.Second}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load restores the latest persisted result. A missing snapshot is not an
// error.
func (s *TripStore) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	res, err := s.repo.LoadLatest(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("trip store load: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if res.Generation > s.gen {
		s.gen = res.Generation
	}
	s.current.Store(res)
	return nil
}

// Put atomically replaces the current result and returns the stored copy with
// its generation set. Generations increase by one per Put.
func (s *TripStore) Put(result *domain.OptimizationResult) (*domain.OptimizationResult, error) {
	if result == nil {
		return nil, errors.New("trip store put: result is nil")
	}

	stored := *result

	s.mu.Lock()
	s.gen++
	stored.Generation = s.gen
	s.current.Store(&stored)
	s.mu.Unlock()

	if s.repo != nil {
		s.pending.Add(1)
		go s.persist(&stored)
	}

	return &stored, nil
}

func (s *TripStore) persist(res *domain.OptimizationResult) {
	defer s.pending.Done()

	ctx, cancel := context.WithTimeout(context.Background(), s.saveTTL)
	defer cancel()

	if err := s.repo.SaveResult(ctx, res); err != nil {
		log.WithError(err).WithField("generation", res.Generation).Warn("persist optimization result failed")
	}
}

// Flush waits for in-flight persistence to finish.
func (s *TripStore) Flush() { s.pending.Wait() }

// GetAll returns the current result or domain.ErrNotFound before the first Put.
func (s *TripStore) GetAll() (*domain.OptimizationResult, error) {
	res := s.current.Load()
	if res == nil {
		return nil, fmt.Errorf("no optimization result: %w", domain.ErrNotFound)
	}
	return res, nil
}

// Get returns one trip of the current result.
func (s *TripStore) Get(tripID string) (domain.Trip, error) {
	res := s.current.Load()
	if res == nil {
		return domain.Trip{}, fmt.Errorf("trip %q: %w", tripID, domain.ErrNotFound)
	}
	t, ok := res.Trip(tripID)
	if !ok {
		return domain.Trip{}, fmt.Errorf("trip %q: %w", tripID, domain.ErrNotFound)
	}
	return t, nil
}

// Generation is the generation of the current result, 0 before the first Put.
func (s *TripStore) Generation() int64 {
	if res := s.current.Load(); res != nil {
		return res.Generation
	}
	return 0
}

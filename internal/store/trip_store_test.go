package store

import (
	"context"
	"errors"
	"fmt"
	"route-optimizer-service/internal/domain"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu      sync.Mutex
	saved   []*domain.OptimizationResult
	latest  *domain.OptimizationResult
	loadErr error
}

func (r *memRepo) SaveResult(ctx context.Context, res *domain.OptimizationResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, res)
	if r.latest == nil || res.Generation > r.latest.Generation {
		r.latest = res
	}
	return nil
}

func (r *memRepo) LoadLatest(ctx context.Context) (*domain.OptimizationResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if r.latest == nil {
		return nil, domain.ErrNotFound
	}
	return r.latest, nil
}

func resultWith(tripIDs ...string) *domain.OptimizationResult {
	res := &domain.OptimizationResult{}
	for _, id := range tripIDs {
		res.Trips = append(res.Trips, domain.Trip{TripID: id})
	}
	return res
}

func TestEmptyStoreReturnsNotFound(t *testing.T) {
	s := New()

	_, err := s.GetAll()
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Get("T001_1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, s.Generation())
}

func TestPutReplacesAndNumbersGenerations(t *testing.T) {
	s := New()

	first, err := s.Put(resultWith("T001_1", "T002_1"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Generation)

	tr, err := s.Get("T002_1")
	require.NoError(t, err)
	assert.Equal(t, "T002_1", tr.TripID)

	second, err := s.Put(resultWith("T001_1"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Generation)

	_, err = s.Get("T002_1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := s.GetAll()
	require.NoError(t, err)
	assert.Same(t, second, all)

	_, err = s.Put(nil)
	assert.Error(t, err)
}

func TestPutDoesNotAliasCallerValue(t *testing.T) {
	s := New()
	in := resultWith("T001_1")

	stored, err := s.Put(in)
	require.NoError(t, err)
	assert.Zero(t, in.Generation)
	assert.NotSame(t, in, stored)
}

func TestConcurrentReadersSeeWholeResults(t *testing.T) {
	s := New()
	const writers, puts = 4, 50

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				res, err := s.GetAll()
				if err != nil {
					continue
				}
				// Every result written below has exactly three trips.
				if len(res.Trips) != 3 {
					t.Errorf("partial result: %d trips", len(res.Trips))
					return
				}
			}
		}()
	}

	var ww sync.WaitGroup
	for w := 0; w < writers; w++ {
		ww.Add(1)
		go func(w int) {
			defer ww.Done()
			for i := 0; i < puts; i++ {
				_, err := s.Put(resultWith(fmt.Sprintf("A%d", w), fmt.Sprintf("B%d", i), "C"))
				assert.NoError(t, err)
			}
		}(w)
	}
	ww.Wait()
	close(stop)
	wg.Wait()

	assert.Equal(t, int64(writers*puts), s.Generation())
}

func TestRepositoryPersistAndLoad(t *testing.T) {
	repo := &memRepo{}
	s := New(WithRepository(repo))

	_, err := s.Put(resultWith("T001_1"))
	require.NoError(t, err)
	_, err = s.Put(resultWith("T001_1", "T002_1"))
	require.NoError(t, err)
	s.Flush()

	require.Len(t, repo.saved, 2)

	restarted := New(WithRepository(repo))
	require.NoError(t, restarted.Load(context.Background()))

	all, err := restarted.GetAll()
	require.NoError(t, err)
	assert.Len(t, all.Trips, 2)

	// Generations continue after the restored snapshot.
	next, err := restarted.Put(resultWith("T001_1"))
	require.NoError(t, err)
	assert.Greater(t, next.Generation, all.Generation)
	restarted.Flush()
}

func TestLoadWithoutSnapshot(t *testing.T) {
	s := New(WithRepository(&memRepo{}))
	require.NoError(t, s.Load(context.Background()))

	_, err := s.GetAll()
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, New().Load(context.Background()))
}

func TestLoadFailure(t *testing.T) {
	s := New(WithRepository(&memRepo{loadErr: errors.New("db down")}))
	assert.Error(t, s.Load(context.Background()))
}

package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"review_mirror/internal/domain"
)

type ImportService struct {
	repo    domain.ReviewRepository
	cache   domain.Cache // optional
	batch   int
	workers int
}

func NewImportService(r domain.ReviewRepository, cache domain.Cache, batch, workers int) *ImportService {
	if batch <= 0 {
		batch = 500
	}
	if workers <= 0 {
		workers = 1
	}
	return &ImportService{repo: r, cache: cache, batch: batch, workers: workers}
}

type ImportResult struct {
	Rows    int
	Batches int
	Took    time.Duration
}

// Import upserts rs in batches and then drops rows left over from a longer
// previous import, so the table mirrors rs exactly.
func (s *ImportService) Import(ctx context.Context, rs []domain.Review) (ImportResult, error) {
	start := time.Now()
	sem := semaphore.NewWeighted(int64(s.workers))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		batches  int
	)

	for lo := 0; lo < len(rs); lo += s.batch {
		hi := min(lo+s.batch, len(rs))

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			break
		}
		batches++

		wg.Add(1)
		go func(chunk []domain.Review) {
			defer wg.Done()
			defer sem.Release(1)

			if err := s.repo.UpsertReviews(ctx, chunk); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("upsert rows %d-%d: %w", chunk[0].Row, chunk[len(chunk)-1].Row, err)
				}
				mu.Unlock()
				return
			}
			log.Debug().Int("from", chunk[0].Row).Int("rows", len(chunk)).Msg("batch ok")
		}(rs[lo:hi])
	}
	wg.Wait()

	res := ImportResult{Rows: len(rs), Batches: batches, Took: time.Since(start)}
	if firstErr != nil {
		return res, firstErr
	}
	if err := s.repo.DeleteAbove(ctx, len(rs)); err != nil {
		return res, fmt.Errorf("trim stale rows: %w", err)
	}

	if s.cache != nil {
		s.invalidateViews(ctx)
	}
	return res, nil
}

// invalidateViews drops every cached view.
func (s *ImportService) invalidateViews(ctx context.Context) {
	pd, ok := s.cache.(prefixDeleter)
	if !ok {
		return
	}
	for _, fam := range []string{"dashboard:", "keywords:"} {
		if _, err := pd.DelPrefix(ctx, fam); err != nil {
			log.Warn().Err(err).Str("family", fam).Msg("cache eviction failed")
		}
	}
}

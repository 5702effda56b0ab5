package app_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"review_mirror/internal/app"
	"review_mirror/internal/domain"
)

type fakeRepo struct {
	mu      sync.Mutex
	rows    map[int]domain.Review
	calls   int
	failRow int // UpsertReviews fails for the batch containing this row
}

func (f *fakeRepo) UpsertReviews(ctx context.Context, rs []domain.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.rows == nil {
		f.rows = map[int]domain.Review{}
	}
	for _, r := range rs {
		if r.Row == f.failRow {
			return errors.New("deadlock found")
		}
	}
	for _, r := range rs {
		f.rows[r.Row] = r
	}
	return nil
}
func (f *fakeRepo) DeleteAbove(ctx context.Context, row int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k := range f.rows {
		if k > row {
			delete(f.rows, k)
		}
	}
	return nil
}
func (f *fakeRepo) ListReviews(ctx context.Context) ([]domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Review, 0, len(f.rows))
	for _, r := range f.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Row < out[j].Row })
	return out, nil
}
func (f *fakeRepo) CountReviews(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows), nil
}

func TestImport_BatchesAndTrims(t *testing.T) {
	repo := &fakeRepo{rows: map[int]domain.Review{
		99: rv(99, "Old", domain.Neutral),
	}}
	cache := &fakeCache{}
	_ = cache.Set(context.Background(), "dashboard:abc:def", "x", 60)
	_ = cache.Set(context.Background(), "keywords:abc:all:x", "x", 60)

	imp := app.NewImportService(repo, cache, 3, 2)
	res, err := imp.Import(context.Background(), sample())
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Rows != 7 || res.Batches != 3 || repo.calls != 3 {
		t.Fatalf("unexpected result %+v (calls=%d)", res, repo.calls)
	}
	if n, _ := repo.CountReviews(context.Background()); n != 7 {
		t.Fatalf("want 7 rows after trim, got %d", n)
	}
	if cache.keys("") != 0 {
		t.Fatalf("views should be evicted, left %v", cache.store)
	}
}

func TestImport_BatchErrorSurfaces(t *testing.T) {
	repo := &fakeRepo{failRow: 5}
	imp := app.NewImportService(repo, nil, 2, 4)

	_, err := imp.Import(context.Background(), sample())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "upsert rows 5-6: deadlock found" {
		t.Fatalf("error: %q", got)
	}
}

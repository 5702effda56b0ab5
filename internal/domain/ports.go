package domain

import "context"

// ReviewRepository is the SQL-backed copy of a dataset.
type ReviewRepository interface {
	// Write paths
	UpsertReviews(ctx context.Context, rs []Review) error
	DeleteAbove(ctx context.Context, row int) error

	// Read paths
	ListReviews(ctx context.Context) ([]Review, error)
	CountReviews(ctx context.Context) (int, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

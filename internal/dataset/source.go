package dataset

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"

	"review_mirror/internal/domain"
)

// Source is one place a dataset can be loaded from. Key identifies the
// source inside a Store.
type Source interface {
	Key() string
	Load(ctx context.Context) ([]domain.Review, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type FileSource struct{ Path string }

func (s FileSource) Key() string {
	if abs, err := filepath.Abs(s.Path); err == nil {
		return "file:" + abs
	}
	return "file:" + s.Path
}

func (s FileSource) Load(ctx context.Context) ([]domain.Review, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(bufio.NewReader(f))
}

type HTTPSource struct {
	URL     string
	Fetcher Fetcher
}

func (s HTTPSource) Key() string { return "http:" + s.URL }

func (s HTTPSource) Load(ctx context.Context) ([]domain.Review, error) {
	b, err := s.Fetcher.Fetch(ctx, s.URL)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(b))
}

// RepoSource reads the SQL copy written by the importer.
type RepoSource struct {
	Name string
	Repo domain.ReviewRepository
}

func (s RepoSource) Key() string { return "mysql:" + s.Name }

func (s RepoSource) Load(ctx context.Context) ([]domain.Review, error) {
	return s.Repo.ListReviews(ctx)
}

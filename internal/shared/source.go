package shared

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"review_mirror/internal/adapters/fetch"
	"review_mirror/internal/dataset"
	mysqlrepo "review_mirror/internal/storage/mysql"
)

// OpenSource builds the dataset source named by DataSource. The returned
// close func is never nil.
func OpenSource(c Config) (dataset.Source, func(), error) {
	noop := func() {}
	switch c.DataSource {
	case "http":
		if c.DataURL == "" {
			return nil, noop, fmt.Errorf("DATA_URL is required for DATA_SOURCE=http")
		}
		return dataset.HTTPSource{URL: c.DataURL, Fetcher: fetch.New(c.FetchRPS)}, noop, nil
	case "mysql":
		db, err := OpenDB(c.MySQLDSN)
		if err != nil {
			return nil, noop, err
		}
		return dataset.RepoSource{Name: "reviews", Repo: mysqlrepo.New(db)}, func() { _ = db.Close() }, nil
	default:
		return dataset.FileSource{Path: c.DataPath}, noop, nil
	}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}
	log.Info().Msg("database connection ok")
	return db, nil
}

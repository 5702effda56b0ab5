package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"review_mirror/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// UpsertReviews writes one multi-row INSERT keyed by source row.
func (r *Repo) UpsertReviews(ctx context.Context, rs []domain.Review) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*6)
	for _, rv := range rs {
		toks := rv.Tokens
		if toks == nil {
			toks = []string{}
		}
		tj, err := json.Marshal(toks)
		if err != nil {
			return fmt.Errorf("row %d tokens: %w", rv.Row, err)
		}
		values = append(values, "(?,?,?,?,?,?)")
		args = append(args,
			rv.Row,
			rv.Place,
			rv.Lat,
			rv.Lng,
			int(rv.Sentiment),
			string(tj),
		)
	}
	sqlStr := insertReviewsPrefix + strings.Join(values, ",") + insertReviewsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) DeleteAbove(ctx context.Context, row int) error {
	_, err := r.db.ExecContext(ctx, deleteAboveSQL, row)
	return err
}

func (r *Repo) ListReviews(ctx context.Context) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Review{}
	for rows.Next() {
		var (
			rv   domain.Review
			sent int
			toks []byte
		)
		if err := rows.Scan(&rv.Row, &rv.Place, &rv.Lat, &rv.Lng, &sent, &toks); err != nil {
			return nil, err
		}
		switch s := domain.Sentiment(sent); s {
		case domain.Positive, domain.Neutral, domain.Negative:
			rv.Sentiment = s
		default:
			return nil, &domain.ParseError{Row: rv.Row, Column: "sentiment", Value: fmt.Sprint(sent), Err: fmt.Errorf("unknown sentiment %d", sent)}
		}
		if err := json.Unmarshal(toks, &rv.Tokens); err != nil {
			return nil, &domain.ParseError{Row: rv.Row, Column: "review_tokens", Value: string(toks), Err: err}
		}
		if rv.Tokens == nil {
			rv.Tokens = []string{}
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) CountReviews(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countReviewsSQL).Scan(&n)
	return n, err
}

package dataset

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"review_mirror/internal/domain"
)

// Decode reads a CSV table with a header row into reviews. Row numbers are
// 1-based and exclude the header. A bad cell aborts decoding with a
// *domain.ParseError naming the row.
func Decode(r io.Reader) ([]domain.Review, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var out []domain.Review
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}
		rv, err := decodeRecord(row, rec, cols)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, nil
}

func decodeRecord(row int, rec []string, cols map[string]int) (domain.Review, error) {
	cell := func(col string) string { return rec[cols[col]] }

	rv := domain.Review{Row: row, Place: strings.TrimSpace(cell(colPlace))}
	if rv.Place == "" {
		return domain.Review{}, &domain.ParseError{Row: row, Column: colPlace, Err: errors.New("empty place")}
	}

	var err error
	if rv.Lat, err = parseCoord(cell(colLat), -90, 90); err != nil {
		return domain.Review{}, &domain.ParseError{Row: row, Column: colLat, Value: cell(colLat), Err: err}
	}
	if rv.Lng, err = parseCoord(cell(colLng), -180, 180); err != nil {
		return domain.Review{}, &domain.ParseError{Row: row, Column: colLng, Value: cell(colLng), Err: err}
	}
	if rv.Sentiment, err = domain.ParseSentiment(cell(colSentiment)); err != nil {
		return domain.Review{}, &domain.ParseError{Row: row, Column: colSentiment, Value: cell(colSentiment), Err: err}
	}
	if rv.Tokens, err = ParseTokens(cell(colTokens)); err != nil {
		return domain.Review{}, &domain.ParseError{Row: row, Column: colTokens, Value: cell(colTokens), Err: err}
	}
	return rv, nil
}

func parseCoord(v string, lo, hi float64) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, errors.New("not a number")
	}
	if f < lo || f > hi {
		return 0, fmt.Errorf("out of range [%g, %g]", lo, hi)
	}
	return f, nil
}

// Encode writes reviews in the layout Decode expects.
func Encode(w io.Writer, rs []domain.Review) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(requiredColumns); err != nil {
		return err
	}
	for _, rv := range rs {
		rec := []string{
			rv.Place,
			strconv.FormatFloat(rv.Lat, 'f', -1, 64),
			strconv.FormatFloat(rv.Lng, 'f', -1, 64),
			rv.Sentiment.String(),
			FormatTokens(rv.Tokens),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Fingerprint hashes reviews in row order. Two datasets with the same rows
// share a fingerprint regardless of where they were loaded from.
func Fingerprint(rs []domain.Review) string {
	h := sha256.New()
	for _, rv := range rs {
		fmt.Fprintf(h, "%d\x1f%s\x1f%g\x1f%g\x1f%s\x1f%s\x1e",
			rv.Row, rv.Place, rv.Lat, rv.Lng, rv.Sentiment, FormatTokens(rv.Tokens))
	}
	return hex.EncodeToString(h.Sum(nil))
}

package analysis

import (
	"sort"

	"review_mirror/internal/domain"
)

// Merge joins the sentiment summaries, coordinates and keyword strings into
// one row per summarized place. Missing coordinates or keywords leave zero
// values; no row is dropped.
func Merge(summaries []domain.PlaceSentimentSummary, coords map[string]domain.Coords, keywords []domain.KeywordSummary) []domain.DisplayRow {
	rows := make([]domain.DisplayRow, len(summaries))
	idx := make(map[string]int, len(summaries))
	for i, s := range summaries {
		if c, ok := coords[s.Place]; ok {
			s.Lat, s.Lng = c.Lat, c.Lng
		}
		rows[i] = domain.DisplayRow{PlaceSentimentSummary: s}
		idx[s.Place] = i
	}
	for _, k := range keywords {
		i, ok := idx[k.Place]
		if !ok {
			continue
		}
		switch k.Sentiment {
		case domain.Positive:
			rows[i].PositiveKeywords = k.Keywords
		case domain.Neutral:
			rows[i].NeutralKeywords = k.Keywords
		case domain.Negative:
			rows[i].NegativeKeywords = k.Keywords
		}
	}
	return rows
}

// SortByTotal orders rows by total reviews descending, then place ascending.
func SortByTotal(rows []domain.DisplayRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalReviews != rows[j].TotalReviews {
			return rows[i].TotalReviews > rows[j].TotalReviews
		}
		return rows[i].Place < rows[j].Place
	})
}

// BuildRows runs the whole per-place pipeline on already filtered reviews.
// The result is sorted by SortByTotal.
func BuildRows(filtered []domain.Review, keywordsPerSentiment int) []domain.DisplayRow {
	rows := Merge(
		CountSentiments(filtered),
		Coordinates(filtered),
		KeywordsBySentiment(filtered, keywordsPerSentiment),
	)
	SortByTotal(rows)
	return rows
}

// MapPoints converts display rows into bubble-map points.
func MapPoints(rows []domain.DisplayRow) []domain.MapPoint {
	out := make([]domain.MapPoint, len(rows))
	for i, r := range rows {
		out[i] = domain.MapPoint{
			Place:            r.Place,
			Lat:              r.Lat,
			Lng:              r.Lng,
			Size:             r.TotalReviews,
			Color:            r.PositiveRatio,
			Positive:         r.PositiveCount,
			Neutral:          r.NeutralCount,
			Negative:         r.NegativeCount,
			PositiveKeywords: r.PositiveKeywords,
			NeutralKeywords:  r.NeutralKeywords,
			NegativeKeywords: r.NegativeKeywords,
		}
	}
	return out
}

// Summarize computes the headline over filtered reviews.
func Summarize(filtered []domain.Review) domain.SummaryLine {
	pos := 0
	for _, rv := range filtered {
		if rv.Sentiment == domain.Positive {
			pos++
		}
	}
	return domain.SummaryLine{
		Places:      len(PlacesOf(filtered)),
		Reviews:     len(filtered),
		PositivePct: Ratio(pos, len(filtered)),
	}
}

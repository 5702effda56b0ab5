package analysis

import (
	"math"
	"reflect"
	"testing"

	"review_mirror/internal/domain"
)

func rv(place string, s domain.Sentiment, tokens ...string) domain.Review {
	return domain.Review{Place: place, Lat: 28.2, Lng: 83.9, Sentiment: s, Tokens: tokens}
}

func pokhara() []domain.Review {
	return []domain.Review{
		rv("Pokhara", domain.Positive, "lake", "view"),
		rv("Pokhara", domain.Positive, "lake", "crowd"),
		rv("Pokhara", domain.Negative, "crowd"),
	}
}

func TestBuildRows_Pokhara(t *testing.T) {
	rows := BuildRows(pokhara(), KeywordsPerSentiment)
	if len(rows) != 1 {
		t.Fatalf("want 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.PositiveCount != 2 || r.NegativeCount != 1 || r.NeutralCount != 0 || r.TotalReviews != 3 {
		t.Fatalf("unexpected counts: %+v", r.PlaceSentimentSummary)
	}
	if r.PositiveRatio == nil || math.Abs(*r.PositiveRatio-2.0/3.0) > 1e-9 {
		t.Fatalf("unexpected ratio: %v", r.PositiveRatio)
	}
	if r.PositiveKeywords != "lake, view, crowd" {
		t.Fatalf("positive keywords: %q", r.PositiveKeywords)
	}
	if r.NegativeKeywords != "crowd" {
		t.Fatalf("negative keywords: %q", r.NegativeKeywords)
	}
	if r.NeutralKeywords != "" {
		t.Fatalf("neutral keywords should be empty, got %q", r.NeutralKeywords)
	}
	if r.Lat != 28.2 || r.Lng != 83.9 {
		t.Fatalf("coords not joined: %v,%v", r.Lat, r.Lng)
	}
}

func TestFilterByPlaces(t *testing.T) {
	in := []domain.Review{
		rv("A", domain.Positive), rv("B", domain.Neutral), rv("A", domain.Negative), rv("C", domain.Positive),
	}
	got := FilterByPlaces(in, []string{"C", "A"})
	want := []string{"A", "A", "C"}
	if len(got) != len(want) {
		t.Fatalf("got %d rows", len(got))
	}
	for i := range want {
		if got[i].Place != want[i] {
			t.Fatalf("row %d: got %s want %s (order must be preserved)", i, got[i].Place, want[i])
		}
	}

	if empty := FilterByPlaces(in, nil); empty == nil || len(empty) != 0 {
		t.Fatalf("empty selection must give an empty, non-nil result: %#v", empty)
	}
}

func TestEmptySelection(t *testing.T) {
	filtered := FilterByPlaces(pokhara(), []string{})
	sum := Summarize(filtered)
	if got := sum.String(); got != "0 places, 0 reviews, N/A% positive" {
		t.Fatalf("summary: %q", got)
	}
	if rows := BuildRows(filtered, KeywordsPerSentiment); len(rows) != 0 {
		t.Fatalf("want no rows, got %d", len(rows))
	}
	if pts := MapPoints(BuildRows(filtered, 5)); len(pts) != 0 {
		t.Fatalf("want no points, got %d", len(pts))
	}
}

func TestSummarize(t *testing.T) {
	in := append(pokhara(), rv("Lumbini", domain.Neutral, "temple"))
	sum := Summarize(in)
	if sum.Places != 2 || sum.Reviews != 4 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if got := sum.String(); got != "2 places, 4 reviews, 50.00% positive" {
		t.Fatalf("summary text: %q", got)
	}
}

func TestTotalsEqualSumOfCounts(t *testing.T) {
	in := []domain.Review{
		rv("A", domain.Positive), rv("B", domain.Neutral), rv("A", domain.Negative),
		rv("C", domain.Positive), rv("B", domain.Negative), rv("A", domain.Neutral),
	}
	subsets := [][]string{{"A"}, {"B"}, {"A", "B"}, {"A", "C"}, {"A", "B", "C"}}
	for _, sel := range subsets {
		for _, s := range CountSentiments(FilterByPlaces(in, sel)) {
			if s.TotalReviews != s.PositiveCount+s.NeutralCount+s.NegativeCount {
				t.Fatalf("%v: total mismatch for %+v", sel, s)
			}
			if s.PositiveRatio == nil || *s.PositiveRatio < 0 || *s.PositiveRatio > 1 {
				t.Fatalf("%v: ratio out of range for %+v", sel, s)
			}
		}
	}
}

func TestRatio_ZeroTotal(t *testing.T) {
	if Ratio(0, 0) != nil {
		t.Fatalf("ratio with zero denominator must be nil")
	}
}

func TestTopTokens_TieBreakFirstEncounter(t *testing.T) {
	got := TopTokens([]string{"b", "a", "c", "a", "d", "c", "e", "f"}, 5)
	want := []domain.KeywordCount{{Word: "a", Count: 2}, {Word: "c", Count: 2}, {Word: "b", Count: 1}, {Word: "d", Count: 1}, {Word: "e", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestKeywordsBySentiment_Idempotent(t *testing.T) {
	in := append(pokhara(),
		rv("Kathmandu", domain.Neutral, "temple", "dust", "temple", "traffic", "momo", "square", "stupa"),
		rv("Kathmandu", domain.Positive, "momo", "momo", "stupa"),
	)
	first := KeywordsBySentiment(in, KeywordsPerSentiment)
	second := KeywordsBySentiment(in, KeywordsPerSentiment)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("keyword aggregation is not idempotent:\n%v\n%v", first, second)
	}
	if len(first) != 6 {
		t.Fatalf("want 3 sentiments x 2 places, got %d", len(first))
	}
	for _, k := range first {
		if k.Place == "Kathmandu" && k.Sentiment == domain.Neutral && k.Keywords != "temple, dust, traffic, momo, square" {
			t.Fatalf("kathmandu neutral: %q", k.Keywords)
		}
	}
}

func TestPlaceKeywords(t *testing.T) {
	in := []domain.Review{
		rv("Bandipur", domain.Positive, "hill"),
		rv("Bandipur", domain.Negative, "bus", "road"),
		rv("Other", domain.Positive, "hill"),
	}
	got := PlaceKeywords(in, "Bandipur", TopPlaceKeywords)
	want := []domain.KeywordCount{{Word: "hill", Count: 1}, {Word: "bus", Count: 1}, {Word: "road", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}

	none := PlaceKeywords([]domain.Review{rv("Empty", domain.Neutral)}, "Empty", TopPlaceKeywords)
	if none == nil || len(none) != 0 {
		t.Fatalf("want empty non-nil bars, got %#v", none)
	}
}

func TestPlaceKeywords_TopTen(t *testing.T) {
	var tokens []string
	for i, w := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		for n := 0; n <= i; n++ {
			tokens = append(tokens, w)
		}
	}
	got := PlaceKeywords([]domain.Review{rv("P", domain.Positive, tokens...)}, "P", TopPlaceKeywords)
	if len(got) != 10 {
		t.Fatalf("want 10 bars, got %d", len(got))
	}
	if got[0].Word != "l" || got[0].Count != 12 || got[9].Word != "c" {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestMerge_KeepsPlacesWithoutKeywords(t *testing.T) {
	sums := []domain.PlaceSentimentSummary{{Place: "A", PositiveCount: 1, TotalReviews: 1}}
	rows := Merge(sums, map[string]domain.Coords{}, nil)
	if len(rows) != 1 || rows[0].Place != "A" || rows[0].PositiveKeywords != "" || rows[0].Lat != 0 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestSortByTotal(t *testing.T) {
	rows := []domain.DisplayRow{
		{PlaceSentimentSummary: domain.PlaceSentimentSummary{Place: "b", TotalReviews: 2}},
		{PlaceSentimentSummary: domain.PlaceSentimentSummary{Place: "c", TotalReviews: 5}},
		{PlaceSentimentSummary: domain.PlaceSentimentSummary{Place: "a", TotalReviews: 2}},
	}
	SortByTotal(rows)
	got := []string{rows[0].Place, rows[1].Place, rows[2].Place}
	if !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestCoordinates_FirstWins(t *testing.T) {
	in := []domain.Review{
		{Place: "A", Lat: 1, Lng: 2},
		{Place: "A", Lat: 3, Lng: 4},
	}
	if c := Coordinates(in)["A"]; c.Lat != 1 || c.Lng != 2 {
		t.Fatalf("first row should win, got %+v", c)
	}
}

package analysis

import (
	"sort"
	"strings"

	"review_mirror/internal/domain"
)

const (
	KeywordsPerSentiment = 5
	TopPlaceKeywords     = 10
)

// TopTokens counts tokens and returns the n most frequent, ordered by count
// descending. Ties keep first-encounter order. n <= 0 returns every token.
func TopTokens(tokens []string, n int) []domain.KeywordCount {
	idx := make(map[string]int)
	var counts []domain.KeywordCount
	for _, t := range tokens {
		if i, ok := idx[t]; ok {
			counts[i].Count++
			continue
		}
		idx[t] = len(counts)
		counts = append(counts, domain.KeywordCount{Word: t, Count: 1})
	}
	// counts is in first-encounter order; a stable sort keeps that for ties
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// JoinKeywords renders the words of kc as "a, b, c".
func JoinKeywords(kc []domain.KeywordCount) string {
	words := make([]string, len(kc))
	for i, k := range kc {
		words[i] = k.Word
	}
	return strings.Join(words, ", ")
}

// KeywordsBySentiment returns, for every place in reviews and every
// sentiment, the top n tokens of that group joined for display. Groups with
// no reviews carry an empty string. Output is ordered by place (first
// appearance) then by domain.Sentiments.
func KeywordsBySentiment(reviews []domain.Review, n int) []domain.KeywordSummary {
	type key struct {
		place string
		s     domain.Sentiment
	}
	groups := make(map[key][]string)
	for _, rv := range reviews {
		k := key{rv.Place, rv.Sentiment}
		groups[k] = append(groups[k], rv.Tokens...)
	}

	var out []domain.KeywordSummary
	for _, place := range PlacesOf(reviews) {
		for _, s := range domain.Sentiments {
			out = append(out, domain.KeywordSummary{
				Place:     place,
				Sentiment: s,
				Keywords:  JoinKeywords(TopTokens(groups[key{place, s}], n)),
			})
		}
	}
	return out
}

// PlaceKeywords flattens every token of place across sentiments and returns
// the n most frequent. A place without tokens yields an empty, non-nil slice.
func PlaceKeywords(reviews []domain.Review, place string, n int) []domain.KeywordCount {
	var tokens []string
	for _, rv := range reviews {
		if rv.Place == place {
			tokens = append(tokens, rv.Tokens...)
		}
	}
	out := TopTokens(tokens, n)
	if out == nil {
		out = []domain.KeywordCount{}
	}
	return out
}

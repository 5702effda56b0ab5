package analysis

import "review_mirror/internal/domain"

// FilterByPlaces keeps the reviews whose place is in places, preserving
// order. An empty places set yields an empty result.
func FilterByPlaces(reviews []domain.Review, places []string) []domain.Review {
	if len(places) == 0 {
		return []domain.Review{}
	}
	set := make(map[string]struct{}, len(places))
	for _, p := range places {
		set[p] = struct{}{}
	}
	out := make([]domain.Review, 0, len(reviews))
	for _, rv := range reviews {
		if _, ok := set[rv.Place]; ok {
			out = append(out, rv)
		}
	}
	return out
}

// PlacesOf returns the distinct places of reviews in first-appearance order.
func PlacesOf(reviews []domain.Review) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rv := range reviews {
		if _, ok := seen[rv.Place]; ok {
			continue
		}
		seen[rv.Place] = struct{}{}
		out = append(out, rv.Place)
	}
	return out
}

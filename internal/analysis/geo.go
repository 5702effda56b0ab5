package analysis

import "review_mirror/internal/domain"

// Coordinates maps each place to the coordinates of its first review.
// Conflicting coordinates for the same place are not reported.
func Coordinates(reviews []domain.Review) map[string]domain.Coords {
	out := make(map[string]domain.Coords)
	for _, rv := range reviews {
		if _, ok := out[rv.Place]; !ok {
			out[rv.Place] = domain.Coords{Lat: rv.Lat, Lng: rv.Lng}
		}
	}
	return out
}

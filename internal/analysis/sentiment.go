package analysis

import "review_mirror/internal/domain"

// CountSentiments returns one summary per place with all three sentiment
// counts (zero when absent), the total, and the positive ratio. Coordinates
// are left zero; see JoinCoords.
func CountSentiments(reviews []domain.Review) []domain.PlaceSentimentSummary {
	idx := make(map[string]int)
	var out []domain.PlaceSentimentSummary
	for _, rv := range reviews {
		i, ok := idx[rv.Place]
		if !ok {
			i = len(out)
			idx[rv.Place] = i
			out = append(out, domain.PlaceSentimentSummary{Place: rv.Place})
		}
		s := &out[i]
		switch rv.Sentiment {
		case domain.Positive:
			s.PositiveCount++
		case domain.Negative:
			s.NegativeCount++
		default:
			s.NeutralCount++
		}
	}
	for i := range out {
		s := &out[i]
		s.TotalReviews = s.PositiveCount + s.NeutralCount + s.NegativeCount
		s.PositiveRatio = Ratio(s.PositiveCount, s.TotalReviews)
	}
	return out
}

// Ratio returns num/den, or nil when den is zero.
func Ratio(num, den int) *float64 {
	if den == 0 {
		return nil
	}
	r := float64(num) / float64(den)
	return &r
}

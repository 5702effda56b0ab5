package domain

import "fmt"

// PlaceSentimentSummary holds the per-place review counts.
type PlaceSentimentSummary struct {
	Place         string   `json:"place" yaml:"place"`
	PositiveCount int      `json:"positive" yaml:"positive"`
	NeutralCount  int      `json:"neutral" yaml:"neutral"`
	NegativeCount int      `json:"negative" yaml:"negative"`
	TotalReviews  int      `json:"total_reviews" yaml:"total_reviews"`
	Lat           float64  `json:"lat" yaml:"lat"`
	Lng           float64  `json:"lng" yaml:"lng"`
	PositiveRatio *float64 `json:"positive_ratio" yaml:"positive_ratio"` // nil when TotalReviews == 0
}

// Count returns the count stored for s.
func (p PlaceSentimentSummary) Count(s Sentiment) int {
	switch s {
	case Positive:
		return p.PositiveCount
	case Negative:
		return p.NegativeCount
	default:
		return p.NeutralCount
	}
}

type KeywordSummary struct {
	Place     string    `json:"place" yaml:"place"`
	Sentiment Sentiment `json:"sentiment" yaml:"sentiment"`
	Keywords  string    `json:"keywords" yaml:"keywords"`
}

// DisplayRow is the merged per-place view behind the map and the table.
type DisplayRow struct {
	PlaceSentimentSummary `yaml:",inline"`
	PositiveKeywords      string `json:"positive_keywords" yaml:"positive_keywords"`
	NeutralKeywords       string `json:"neutral_keywords" yaml:"neutral_keywords"`
	NegativeKeywords      string `json:"negative_keywords" yaml:"negative_keywords"`
}

type KeywordCount struct {
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// SummaryLine is the headline above the dashboard.
type SummaryLine struct {
	Places      int      `json:"places" yaml:"places"`
	Reviews     int      `json:"reviews" yaml:"reviews"`
	PositivePct *float64 `json:"positive_pct" yaml:"positive_pct"` // fraction in [0,1]
}

func (s SummaryLine) String() string {
	pct := "N/A"
	if s.PositivePct != nil {
		pct = fmt.Sprintf("%.2f", *s.PositivePct*100)
	}
	return fmt.Sprintf("%d places, %d reviews, %s%% positive", s.Places, s.Reviews, pct)
}

// MapPoint is one bubble of the geographic map.
type MapPoint struct {
	Place            string   `json:"place" yaml:"place"`
	Lat              float64  `json:"lat" yaml:"lat"`
	Lng              float64  `json:"lng" yaml:"lng"`
	Size             int      `json:"size" yaml:"size"`
	Color            *float64 `json:"color" yaml:"color"`
	Positive         int      `json:"positive" yaml:"positive"`
	Neutral          int      `json:"neutral" yaml:"neutral"`
	Negative         int      `json:"negative" yaml:"negative"`
	PositiveKeywords string   `json:"positive_keywords" yaml:"positive_keywords"`
	NeutralKeywords  string   `json:"neutral_keywords" yaml:"neutral_keywords"`
	NegativeKeywords string   `json:"negative_keywords" yaml:"negative_keywords"`
}

// Selection is the set of places chosen by the user. A nil Places with
// Default set means "use the default selection".
type Selection struct {
	Places  []string `json:"places" yaml:"places"`
	Default bool     `json:"default" yaml:"default"`
}

type Dashboard struct {
	Fingerprint string       `json:"fingerprint" yaml:"fingerprint"`
	Selection   Selection    `json:"selection" yaml:"selection"`
	Summary     SummaryLine  `json:"summary" yaml:"summary"`
	SummaryText string       `json:"summary_text" yaml:"summary_text"`
	Map         []MapPoint   `json:"map" yaml:"map"`
	Table       []DisplayRow `json:"table" yaml:"table"`
}

// KeywordScope picks which rows feed the single-place keyword view.
type KeywordScope string

const (
	ScopeAll      KeywordScope = "all"
	ScopeFiltered KeywordScope = "filtered"
)

type KeywordView struct {
	Fingerprint string         `json:"fingerprint" yaml:"fingerprint"`
	Place       string         `json:"place" yaml:"place"`
	Scope       KeywordScope   `json:"scope" yaml:"scope"`
	Options     []string       `json:"options" yaml:"options"`
	Bars        []KeywordCount `json:"bars" yaml:"bars"`
}

type PlacesView struct {
	Fingerprint string   `json:"fingerprint" yaml:"fingerprint"`
	Places      []string `json:"places" yaml:"places"`
	Default     []string `json:"default" yaml:"default"`
	Reviews     int      `json:"reviews" yaml:"reviews"`
}

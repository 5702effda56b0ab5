package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Sentiment is the upstream label attached to every review.
type Sentiment int

const (
	Negative Sentiment = -1
	Neutral  Sentiment = 0
	Positive Sentiment = 1
)

// Sentiments lists the labels in display order.
var Sentiments = []Sentiment{Positive, Neutral, Negative}

var sentimentNames = map[Sentiment]string{
	Negative: "negative",
	Neutral:  "neutral",
	Positive: "positive",
}

var sentimentFromName = map[string]Sentiment{
	"negative": Negative,
	"neutral":  Neutral,
	"positive": Positive,
}

func (s Sentiment) String() string {
	if name, ok := sentimentNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Sentiment(%d)", int(s))
}

// ParseSentiment matches a label case-insensitively after trimming.
func ParseSentiment(v string) (Sentiment, error) {
	s, ok := sentimentFromName[strings.ToLower(strings.TrimSpace(v))]
	if !ok {
		return Neutral, fmt.Errorf("unknown sentiment %q", v)
	}
	return s, nil
}

func (s Sentiment) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Sentiment) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	v, err := ParseSentiment(str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s Sentiment) MarshalYAML() (any, error) { return s.String(), nil }

// Review is one labelled, tokenized row of the input dataset.
type Review struct {
	Row       int       `json:"row"` // 1-based data row in the source
	Place     string    `json:"place"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Sentiment Sentiment `json:"sentiment"`
	Tokens    []string  `json:"review_tokens"`
}

type Coords struct{ Lat, Lng float64 }

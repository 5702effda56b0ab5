package dataset

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"review_mirror/internal/domain"
)

const sampleCSV = `,place,lat,lng,sentiment,review_tokens
0,Pokhara,28.2096,83.9856,positive,"['lake', 'view']"
1,Pokhara,28.2096,83.9856,Positive,"['lake', 'crowd']"
2,Pokhara,28.2096,83.9856,negative,"['crowd']"
3,Lumbini,27.4833,83.2767, neutral ,[]
`

func TestDecode(t *testing.T) {
	rs, err := Decode(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(rs) != 4 {
		t.Fatalf("want 4 reviews, got %d", len(rs))
	}
	first := rs[0]
	if first.Row != 1 || first.Place != "Pokhara" || first.Lat != 28.2096 || first.Sentiment != domain.Positive {
		t.Fatalf("unexpected first review: %+v", first)
	}
	if !reflect.DeepEqual(first.Tokens, []string{"lake", "view"}) {
		t.Fatalf("tokens: %#v", first.Tokens)
	}
	if rs[1].Sentiment != domain.Positive || rs[3].Sentiment != domain.Neutral {
		t.Fatalf("sentiment labels must be case/space insensitive: %v %v", rs[1].Sentiment, rs[3].Sentiment)
	}
	if rs[3].Tokens == nil || len(rs[3].Tokens) != 0 {
		t.Fatalf("empty list should decode to empty tokens, got %#v", rs[3].Tokens)
	}
}

func TestDecode_HeaderAliases(t *testing.T) {
	in := "\ufeffName,Latitude,Longitude,Label,Tokens\nBandipur,27.93,84.41,positive,\"[\"\"hill\"\"]\"\n"
	rs, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(rs) != 1 || rs[0].Place != "Bandipur" || rs[0].Tokens[0] != "hill" {
		t.Fatalf("unexpected: %+v", rs)
	}
}

func TestDecode_BadTokensNamesRow(t *testing.T) {
	in := "place,lat,lng,sentiment,review_tokens\n" +
		"A,1,2,positive,['ok']\n" +
		"A,1,2,positive,not-a-list\n"
	_, err := Decode(strings.NewReader(in))
	var pe *domain.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Row != 2 || pe.Column != "review_tokens" {
		t.Fatalf("wrong location: row %d column %s", pe.Row, pe.Column)
	}
	if !strings.Contains(pe.Error(), "row 2") {
		t.Fatalf("message should name the row: %s", pe.Error())
	}
}

func TestDecode_BadCells(t *testing.T) {
	cases := map[string]string{
		"lat":       "A,north,2,positive,[]\n",
		"lng":       "A,1,999,positive,[]\n",
		"sentiment": "A,1,2,ecstatic,[]\n",
		"place":     " ,1,2,positive,[]\n",
	}
	for col, row := range cases {
		_, err := Decode(strings.NewReader("place,lat,lng,sentiment,review_tokens\n" + row))
		var pe *domain.ParseError
		if !errors.As(err, &pe) || pe.Column != col || pe.Row != 1 {
			t.Errorf("%s: expected ParseError on row 1, got %v", col, err)
		}
	}
}

func TestDecode_MissingColumns(t *testing.T) {
	_, err := Decode(strings.NewReader("place,lat\nA,1\n"))
	if err == nil || !strings.Contains(err.Error(), "lng") {
		t.Fatalf("expected missing column error, got %v", err)
	}
	if _, err := Decode(strings.NewReader("")); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestEncodeDecode(t *testing.T) {
	in, err := Decode(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, in); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode(Encode()): %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", in, out)
	}
	if Fingerprint(in) != Fingerprint(out) {
		t.Fatalf("fingerprint must depend on rows only")
	}
}

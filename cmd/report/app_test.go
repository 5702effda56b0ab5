package main

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"review_mirror/internal/domain"
)

const csvData = `,place,lat,lng,sentiment,review_tokens
0,Pokhara,28.2096,83.9856,positive,"['lake', 'view']"
1,Pokhara,28.2096,83.9856,positive,"['lake', 'crowd']"
2,Pokhara,28.2096,83.9856,negative,"['crowd']"
3,"Kathmandu, Durbar Square",27.7045,85.3073,neutral,"['temple']"
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reviews.csv")
	if err := os.WriteFile(path, []byte(csvData), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DATA_SOURCE", "file")

	var out bytes.Buffer
	a := newApp()
	a.Writer = &out
	err := a.Run(append([]string{"report", "--data", path}, args...))
	return out.String(), err
}

func TestSummary(t *testing.T) {
	out, err := run(t, "summary")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if strings.TrimSpace(out) != "2 places, 4 reviews, 50.00% positive" {
		t.Fatalf("unexpected: %q", out)
	}

	out, err = run(t, "summary", "--places", "")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if strings.TrimSpace(out) != "0 places, 0 reviews, N/A% positive" {
		t.Fatalf("empty selection: %q", out)
	}
}

func TestTable_PlaceWithComma(t *testing.T) {
	out, err := run(t, "table", "--places", "Kathmandu, Durbar Square")
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	var rows []map[string]any
	if err := yaml.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("yaml: %v\n%s", err, out)
	}
	if len(rows) != 1 || rows[0]["place"] != "Kathmandu, Durbar Square" || rows[0]["total_reviews"] != 1 {
		t.Fatalf("rows: %v", rows)
	}
}

func TestKeywords(t *testing.T) {
	out, err := run(t, "keywords", "--place", "Pokhara")
	if err != nil {
		t.Fatalf("keywords: %v", err)
	}
	var v struct {
		Place string                `yaml:"place"`
		Bars  []domain.KeywordCount `yaml:"bars"`
	}
	if err := yaml.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if v.Place != "Pokhara" || len(v.Bars) != 3 || v.Bars[0].Word != "lake" {
		t.Fatalf("view: %+v", v)
	}

	if _, err := run(t, "keywords", "--scope", "bogus"); err == nil {
		t.Fatal("want error for bad scope")
	}
}

func TestMissingFileIsLoadError(t *testing.T) {
	var out bytes.Buffer
	a := newApp()
	a.Writer = &out
	err := a.Run([]string{"report", "--source", "file", "--data", filepath.Join(t.TempDir(), "nope.csv"), "places"})
	var le *domain.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("want LoadError, got %v", err)
	}
}

func TestChartAndExport(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "map.png")
	if _, err := run(t, "chart", "map", "--out", mapPath); err != nil {
		t.Fatalf("chart map: %v", err)
	}
	f, err := os.Open(mapPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Fatalf("map.png: %v", err)
	}

	kwPath := filepath.Join(dir, "kw.png")
	if _, err := run(t, "chart", "keywords", "--place", "Pokhara", "--out", kwPath); err != nil {
		t.Fatalf("chart keywords: %v", err)
	}

	xlsxPath := filepath.Join(dir, "places.xlsx")
	if _, err := run(t, "export", "--out", xlsxPath); err != nil {
		t.Fatalf("export: %v", err)
	}
	if st, err := os.Stat(xlsxPath); err != nil || st.Size() == 0 {
		t.Fatalf("xlsx not written: %v", err)
	}
}

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"review_mirror/internal/adapters/charts"
	"review_mirror/internal/adapters/observability"
	"review_mirror/internal/adapters/xlsx"
	"review_mirror/internal/app"
	"review_mirror/internal/dataset"
	"review_mirror/internal/domain"
	"review_mirror/internal/shared"
)

func newApp() *cli.App {
	placesFlag := &cli.StringSliceFlag{
		Name:    "places",
		Aliases: []string{"p"},
		Usage:   "place to include, repeatable; omit for the default selection",
	}
	scopeFlag := &cli.StringFlag{
		Name:  "scope",
		Usage: "rows feeding the single-place view: all|filtered",
	}
	placeFlag := &cli.StringFlag{
		Name:  "place",
		Usage: "place for the keyword view; defaults to the first selected place",
	}
	outFlag := func(def string) *cli.StringFlag {
		return &cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: def, Usage: "output file"}
	}

	return &cli.App{
		Name:  "report",
		Usage: "tourist review sentiment reports",
		// place names may contain commas
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Value: "file", EnvVars: []string{"DATA_SOURCE"}, Usage: "file|http|mysql"},
			&cli.StringFlag{Name: "data", Value: "data/reviews.csv", EnvVars: []string{"DATA_PATH"}, Usage: "CSV path"},
			&cli.StringFlag{Name: "url", EnvVars: []string{"DATA_URL"}, Usage: "CSV URL"},
			&cli.StringFlag{Name: "mysql-dsn", EnvVars: []string{"MYSQL_DSN"}},
			&cli.IntFlag{Name: "default-places", Value: 10, EnvVars: []string{"DEFAULT_PLACES"}},
			&cli.IntFlag{Name: "keywords-per-sentiment", Value: 5, EnvVars: []string{"KEYWORDS_PER_SENTIMENT"}},
			&cli.IntFlag{Name: "top", Value: 10, EnvVars: []string{"TOP_KEYWORDS"}},
			&cli.BoolFlag{Name: "respect-filter", EnvVars: []string{"KEYWORDS_RESPECT_FILTER"}},
			&cli.IntFlag{Name: "fetch-rps", Value: 5, EnvVars: []string{"FETCH_RPS"}},
			&cli.StringFlag{Name: "log-level", Value: "warn", EnvVars: []string{"LOG_LEVEL"}},
		},
		Before: func(c *cli.Context) error {
			log.Logger = observability.NewLogger("dev", c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "summary",
				Usage:  "print the headline for a selection",
				Flags:  []cli.Flag{placesFlag},
				Action: summaryAction,
			},
			{
				Name:   "table",
				Usage:  "print the per-place table",
				Flags:  []cli.Flag{placesFlag},
				Action: tableAction,
			},
			{
				Name:   "keywords",
				Usage:  "print the top keywords of one place",
				Flags:  []cli.Flag{placesFlag, placeFlag, scopeFlag},
				Action: keywordsAction,
			},
			{
				Name:   "places",
				Usage:  "list places and the default selection",
				Action: placesAction,
			},
			{
				Name:  "chart",
				Usage: "render a chart as PNG",
				Subcommands: []*cli.Command{
					{
						Name:   "map",
						Flags:  []cli.Flag{placesFlag, outFlag("map.png")},
						Action: mapChartAction,
					},
					{
						Name:   "keywords",
						Flags:  []cli.Flag{placesFlag, placeFlag, scopeFlag, outFlag("keywords.png")},
						Action: keywordChartAction,
					},
				},
			},
			{
				Name:   "export",
				Usage:  "write the per-place table as XLSX",
				Flags:  []cli.Flag{placesFlag, outFlag("places.xlsx")},
				Action: exportAction,
			},
		},
	}
}

// service builds a query service from the global flags.
func service(c *cli.Context) (*app.QueryService, func(), error) {
	cfg := shared.Config{
		DataSource: strings.ToLower(c.String("source")),
		DataPath:   c.String("data"),
		DataURL:    c.String("url"),
		MySQLDSN:   c.String("mysql-dsn"),
		FetchRPS:   c.Int("fetch-rps"),
	}
	src, closeSrc, err := shared.OpenSource(cfg)
	if err != nil {
		return nil, closeSrc, err
	}
	q := app.NewQueryService(dataset.NewStore(), src, nil, app.Options{
		DefaultPlaces:        c.Int("default-places"),
		KeywordsPerSentiment: c.Int("keywords-per-sentiment"),
		TopKeywords:          c.Int("top"),
		RespectFilter:        c.Bool("respect-filter"),
	})
	return q, closeSrc, nil
}

func selection(c *cli.Context) domain.Selection {
	if !c.IsSet("places") {
		return domain.Selection{Default: true}
	}
	out := []string{}
	for _, p := range c.StringSlice("places") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return domain.Selection{Places: out}
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func dashboard(c *cli.Context) (domain.Dashboard, error) {
	q, done, err := service(c)
	defer done()
	if err != nil {
		return domain.Dashboard{}, err
	}
	return q.Dashboard(c.Context, selection(c))
}

func keywordView(c *cli.Context) (domain.KeywordView, error) {
	scope := domain.KeywordScope(strings.ToLower(c.String("scope")))
	switch scope {
	case "", domain.ScopeAll, domain.ScopeFiltered:
	default:
		return domain.KeywordView{}, fmt.Errorf("invalid scope %q, want all or filtered", scope)
	}
	q, done, err := service(c)
	defer done()
	if err != nil {
		return domain.KeywordView{}, err
	}
	return q.Keywords(c.Context, strings.TrimSpace(c.String("place")), scope, selection(c))
}

func summaryAction(c *cli.Context) error {
	d, err := dashboard(c)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, d.SummaryText)
	return err
}

func tableAction(c *cli.Context) error {
	d, err := dashboard(c)
	if err != nil {
		return err
	}
	return printYAML(c.App.Writer, d.Table)
}

func keywordsAction(c *cli.Context) error {
	v, err := keywordView(c)
	if err != nil {
		return err
	}
	return printYAML(c.App.Writer, v)
}

func placesAction(c *cli.Context) error {
	q, done, err := service(c)
	defer done()
	if err != nil {
		return err
	}
	p, err := q.Places(c.Context)
	if err != nil {
		return err
	}
	return printYAML(c.App.Writer, p)
}

func mapChartAction(c *cli.Context) error {
	d, err := dashboard(c)
	if err != nil {
		return err
	}
	return writeFile(c.String("out"), func(w io.Writer) error { return charts.BubbleMap(w, d.Map) })
}

func keywordChartAction(c *cli.Context) error {
	v, err := keywordView(c)
	if err != nil {
		return err
	}
	title := "Top keywords"
	if v.Place != "" {
		title += ": " + v.Place
	}
	return writeFile(c.String("out"), func(w io.Writer) error { return charts.KeywordBars(w, title, v.Bars) })
}

func exportAction(c *cli.Context) error {
	d, err := dashboard(c)
	if err != nil {
		return err
	}
	return writeFile(c.String("out"), func(w io.Writer) error { return xlsx.WriteTable(w, d.Table) })
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("written")
	return nil
}

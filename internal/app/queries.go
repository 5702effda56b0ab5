package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"review_mirror/internal/adapters/observability"
	"review_mirror/internal/analysis"
	"review_mirror/internal/dataset"
	"review_mirror/internal/domain"
)

type Options struct {
	DefaultPlaces        int
	KeywordsPerSentiment int
	TopKeywords          int
	RespectFilter        bool // default scope of the single-place keyword view
	CacheTTL             time.Duration
}

func (o Options) withDefaults() Options {
	if o.DefaultPlaces <= 0 {
		o.DefaultPlaces = 10
	}
	if o.KeywordsPerSentiment <= 0 {
		o.KeywordsPerSentiment = analysis.KeywordsPerSentiment
	}
	if o.TopKeywords <= 0 {
		o.TopKeywords = analysis.TopPlaceKeywords
	}
	return o
}

// prefixDeleter is implemented by caches that can drop a whole key family.
type prefixDeleter interface {
	DelPrefix(ctx context.Context, prefix string) (int, error)
}

type QueryService struct {
	store *dataset.Store
	src   dataset.Source
	cache domain.Cache // optional
	opt   Options
}

func NewQueryService(store *dataset.Store, src dataset.Source, c domain.Cache, opt Options) *QueryService {
	return &QueryService{store: store, src: src, cache: c, opt: opt.withDefaults()}
}

func (s *QueryService) Places(ctx context.Context) (domain.PlacesView, error) {
	ds, err := s.store.Get(ctx, s.src)
	if err != nil {
		return domain.PlacesView{}, err
	}
	return placesView(ds, s.opt.DefaultPlaces), nil
}

// Dashboard aggregates the reviews of the selected places.
func (s *QueryService) Dashboard(ctx context.Context, sel domain.Selection) (domain.Dashboard, error) {
	ds, err := s.store.Get(ctx, s.src)
	if err != nil {
		return domain.Dashboard{}, err
	}
	places := s.resolve(ds, sel)

	key := fmt.Sprintf("dashboard:%s:%s", ds.Fingerprint, selectionHash(places))
	var out domain.Dashboard
	if s.cached(ctx, key, &out) {
		out.Selection = domain.Selection{Places: places, Default: sel.Default}
		return out, nil
	}

	start := time.Now()
	filtered := analysis.FilterByPlaces(ds.Reviews, places)
	rows := analysis.BuildRows(filtered, s.opt.KeywordsPerSentiment)
	summary := analysis.Summarize(filtered)
	out = domain.Dashboard{
		Fingerprint: ds.Fingerprint,
		Selection:   domain.Selection{Places: places, Default: sel.Default},
		Summary:     summary,
		SummaryText: summary.String(),
		Map:         analysis.MapPoints(rows),
		Table:       rows,
	}
	observability.ObserveView("dashboard", time.Since(start))

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, out, int(s.opt.CacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("dashboard cache set failed")
		}
	}
	return out, nil
}

// Keywords returns the top keywords of one place. An empty scope falls back
// to the configured default. An empty place means the first place of the
// current selection; with nothing selected the bars are empty.
func (s *QueryService) Keywords(ctx context.Context, place string, scope domain.KeywordScope, sel domain.Selection) (domain.KeywordView, error) {
	ds, err := s.store.Get(ctx, s.src)
	if err != nil {
		return domain.KeywordView{}, err
	}
	if scope == "" {
		scope = domain.ScopeAll
		if s.opt.RespectFilter {
			scope = domain.ScopeFiltered
		}
	}
	if scope != domain.ScopeAll && scope != domain.ScopeFiltered {
		return domain.KeywordView{}, fmt.Errorf("invalid scope %q", scope)
	}

	places := s.resolve(ds, sel)
	filtered := analysis.FilterByPlaces(ds.Reviews, places)
	options := analysis.PlacesOf(filtered)
	if options == nil {
		options = []string{}
	}

	if place == "" && len(options) > 0 {
		place = options[0]
	}
	view := domain.KeywordView{
		Fingerprint: ds.Fingerprint,
		Place:       place,
		Scope:       scope,
		Options:     options,
		Bars:        []domain.KeywordCount{},
	}
	if place == "" {
		return view, nil
	}
	if !ds.HasPlace(place) {
		return domain.KeywordView{}, fmt.Errorf("%w: %s", domain.ErrUnknownPlace, place)
	}

	key := fmt.Sprintf("keywords:%s:%s:%s", ds.Fingerprint, scope, selectionHash([]string{place}))
	if scope == domain.ScopeFiltered {
		key += ":" + selectionHash(places)
	}
	var bars []domain.KeywordCount
	if s.cached(ctx, key, &bars) {
		if bars == nil {
			bars = []domain.KeywordCount{}
		}
		view.Bars = bars
		return view, nil
	}

	start := time.Now()
	rows := ds.Reviews
	if scope == domain.ScopeFiltered {
		rows = filtered
	}
	view.Bars = analysis.PlaceKeywords(rows, place, s.opt.TopKeywords)
	observability.ObserveView("keywords", time.Since(start))

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, view.Bars, int(s.opt.CacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("keywords cache set failed")
		}
	}
	return view, nil
}

// Reload re-reads the source and evicts views cached for the previous
// dataset.
func (s *QueryService) Reload(ctx context.Context) (domain.PlacesView, error) {
	prev := s.store.Peek(s.src.Key())
	ds, err := s.store.Reload(ctx, s.src)
	if err != nil {
		return domain.PlacesView{}, err
	}
	if prev != nil && prev.Fingerprint != ds.Fingerprint {
		s.evict(ctx, prev.Fingerprint)
	}
	return placesView(ds, s.opt.DefaultPlaces), nil
}

// cached reports a usable hit for key. An entry that no longer decodes is
// dropped and treated as a miss.
func (s *QueryService) cached(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		if ok {
			log.Warn().Err(err).Str("key", key).Msg("dropping undecodable cached view")
			if derr := s.cache.Del(ctx, key); derr != nil {
				log.Warn().Err(derr).Str("key", key).Msg("cache delete failed")
			}
		} else {
			log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		}
		return false
	}
	return ok
}

func (s *QueryService) evict(ctx context.Context, fingerprint string) {
	pd, ok := s.cache.(prefixDeleter)
	if !ok {
		return
	}
	for _, fam := range []string{"dashboard:", "keywords:"} {
		n, err := pd.DelPrefix(ctx, fam+fingerprint+":")
		if err != nil {
			log.Warn().Err(err).Str("family", fam).Msg("cache eviction failed")
			continue
		}
		log.Debug().Str("family", fam).Int("keys", n).Msg("evicted stale views")
	}
}

// resolve turns a selection into the place list used for filtering.
// Duplicates and places missing from the dataset are dropped.
func (s *QueryService) resolve(ds *dataset.Dataset, sel domain.Selection) []string {
	if sel.Default {
		return ds.DefaultSelection(s.opt.DefaultPlaces)
	}
	seen := make(map[string]struct{}, len(sel.Places))
	out := []string{}
	for _, p := range sel.Places {
		p = strings.TrimSpace(p)
		if _, dup := seen[p]; dup || !ds.HasPlace(p) {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func placesView(ds *dataset.Dataset, n int) domain.PlacesView {
	return domain.PlacesView{
		Fingerprint: ds.Fingerprint,
		Places:      ds.Places,
		Default:     ds.DefaultSelection(n),
		Reviews:     len(ds.Reviews),
	}
}

// selectionHash is order-insensitive.
func selectionHash(places []string) string {
	sorted := append([]string(nil), places...)
	sort.Strings(sorted)
	sum := sha1.Sum([]byte(strings.Join(sorted, "\x1f")))
	return hex.EncodeToString(sum[:8])
}

package httpserver

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"review_mirror/internal/adapters/charts"
	"review_mirror/internal/adapters/xlsx"
	"review_mirror/internal/app"
	"review_mirror/internal/domain"
)

const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handlers struct{ Q *app.QueryService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/places", h.places)
		r.Get("/dashboard", h.dashboard)
		r.Get("/keywords", h.keywords)
		r.Get("/charts/map.png", h.mapChart)
		r.Get("/charts/keywords.png", h.keywordChart)
		r.Get("/export/table.xlsx", h.exportTable)
		r.Post("/dataset/reload", h.reload)
	})
}

// parseSelection reads repeated places= values. No parameter selects the
// default places; a lone empty value is an explicit empty selection.
func parseSelection(q url.Values) domain.Selection {
	vals, ok := q["places"]
	if !ok {
		return domain.Selection{Default: true}
	}
	out := []string{}
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return domain.Selection{Places: out}
}

func parseScope(v string) (domain.KeywordScope, bool) {
	switch s := domain.KeywordScope(strings.ToLower(strings.TrimSpace(v))); s {
	case "", domain.ScopeAll, domain.ScopeFiltered:
		return s, true
	}
	return "", false
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	var le *domain.LoadError
	switch {
	case errors.As(err, &le):
		log.Error().Err(err).Msg("dataset unavailable")
		writeProblem(w, http.StatusServiceUnavailable, "Dataset Unavailable", err.Error())
	case errors.Is(err, domain.ErrUnknownPlace):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && etag != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if etag != "" {
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func writeBlob(w http.ResponseWriter, r *http.Request, contentType string, b []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(b); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func (h *Handlers) places(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Places(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Dashboard(r.Context(), parseSelection(r.URL.Query()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) keywordView(w http.ResponseWriter, r *http.Request) (domain.KeywordView, bool) {
	q := r.URL.Query()
	scope, ok := parseScope(q.Get("scope"))
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid scope", "scope must be all or filtered")
		return domain.KeywordView{}, false
	}
	out, err := h.Q.Keywords(r.Context(), strings.TrimSpace(q.Get("place")), scope, parseSelection(q))
	if err != nil {
		writeError(w, err)
		return domain.KeywordView{}, false
	}
	return out, true
}

func (h *Handlers) keywords(w http.ResponseWriter, r *http.Request) {
	if out, ok := h.keywordView(w, r); ok {
		writeJSON(w, r, out)
	}
}

func (h *Handlers) keywordChart(w http.ResponseWriter, r *http.Request) {
	out, ok := h.keywordView(w, r)
	if !ok {
		return
	}
	title := "Top keywords"
	if out.Place != "" {
		title += ": " + out.Place
	}
	var buf bytes.Buffer
	if err := charts.KeywordBars(&buf, title, out.Bars); err != nil {
		writeError(w, err)
		return
	}
	writeBlob(w, r, "image/png", buf.Bytes())
}

func (h *Handlers) mapChart(w http.ResponseWriter, r *http.Request) {
	d, err := h.Q.Dashboard(r.Context(), parseSelection(r.URL.Query()))
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := charts.BubbleMap(&buf, d.Map); err != nil {
		writeError(w, err)
		return
	}
	writeBlob(w, r, "image/png", buf.Bytes())
}

func (h *Handlers) exportTable(w http.ResponseWriter, r *http.Request) {
	d, err := h.Q.Dashboard(r.Context(), parseSelection(r.URL.Query()))
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := xlsx.WriteTable(&buf, d.Table); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="places.xlsx"`)
	writeBlob(w, r, xlsxType, buf.Bytes())
}

func (h *Handlers) reload(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Reload(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	log.Info().Str("fingerprint", out.Fingerprint).Int("reviews", out.Reviews).Msg("dataset reloaded")
	writeJSON(w, r, out)
}

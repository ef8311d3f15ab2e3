package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"nofesh/internal/app"
	"nofesh/internal/domain"
)

type Handlers struct {
	Search  *app.Search
	Suggest *app.Suggest
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/properties", h.listProperties)
	s.mux.Get("/properties/{id}", h.getProperty)
	s.mux.Get("/autocomplete/properties", h.propertyAutocomplete)
	s.mux.Get("/places/autocomplete", h.placeAutocomplete)
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func respondErr(w http.ResponseWriter, err error) {
	var ve domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeProblem(w, http.StatusBadRequest, "Bad Request", ve.Detail)
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "property not found")
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// requestLang resolves the display language: explicit lang param first, then
// the Accept-Language prefix; anything unsupported collapses to the default.
func requestLang(r *http.Request) string {
	if lang := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("lang"))); lang != "" {
		return domain.NormalizeLang(lang)
	}
	if strings.HasPrefix(strings.ToLower(r.Header.Get("Accept-Language")), domain.LangHE) {
		return domain.LangHE
	}
	return domain.DefaultLang
}

// calcETagAndBody marshals once and hashes once, returning both.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

func (h *Handlers) listProperties(w http.ResponseWriter, r *http.Request) {
	req, err := app.ParseSearchRequest(r.URL.Query())
	if err != nil {
		respondErr(w, err)
		return
	}
	req.Lang = requestLang(r)

	page, err := h.Search.List(r.Context(), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	lang := requestLang(r)
	detail, err := h.Search.Get(r.Context(), chi.URLParam(r, "id"), lang)
	if err != nil {
		respondErr(w, err)
		return
	}

	etag, body := calcETagAndBody(detail)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Language", lang)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write property detail body")
	}
}

func (h *Handlers) propertyAutocomplete(w http.ResponseWriter, r *http.Request) {
	lang := requestLang(r)
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	items, err := h.Search.TitleSuggestions(r.Context(), r.URL.Query().Get("q"), lang, limit)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

const (
	placeSuggestLimit    = 5
	placeSuggestMaxLimit = 20
)

// placeAutocomplete never fails: upstream trouble resolves to an empty list.
func (h *Handlers) placeAutocomplete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = placeSuggestLimit
	}
	if limit > placeSuggestMaxLimit {
		limit = placeSuggestMaxLimit
	}
	req := domain.PlaceRequest{
		Text:    q.Get("q"),
		Limit:   limit,
		Lang:    requestLang(r),
		Country: q.Get("country"),
	}
	if near := q.Get("near"); near != "" {
		if p, ok := app.ParseLatLon(near); ok {
			req.Bias = &p
		}
	}
	writeJSON(w, http.StatusOK, h.Suggest.Places(r.Context(), req))
}

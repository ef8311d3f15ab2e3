package app

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"nofesh/internal/domain"
)

// SuggestFreshness is how old a cached place-lookup entry may get before a
// read treats it as a miss.
const SuggestFreshness = 24 * time.Hour

// Suggest serves place autocompletion through a time-boxed cache in front of
// the external lookup provider. Upstream trouble never reaches the caller:
// every failure path degrades to an empty list.
type Suggest struct {
	cache  domain.SuggestionCache
	places domain.PlaceClient
	ttl    time.Duration
	now    func() time.Time
}

func NewSuggest(cache domain.SuggestionCache, places domain.PlaceClient, ttl time.Duration) *Suggest {
	if ttl <= 0 {
		ttl = SuggestFreshness
	}
	return &Suggest{cache: cache, places: places, ttl: ttl, now: time.Now}
}

// Places returns suggestions for req. A fresh cache entry short-circuits the
// provider; otherwise the provider is called once under its own timeout and
// the entry is overwritten with the new payload and timestamp. Concurrent
// refreshes race last-write-wins, which only shortens the freshness window.
func (s *Suggest) Places(ctx context.Context, req domain.PlaceRequest) []domain.Suggestion {
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return []domain.Suggestion{}
	}
	key := suggestKey(req)

	var entry domain.CacheEntry
	ok, err := s.cache.Get(ctx, key, &entry)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("suggest cache read failed")
	} else if ok && s.now().Sub(entry.FetchedAt) < s.ttl {
		return entry.Suggestions
	}

	places, err := s.places.Autocomplete(ctx, req)
	if err != nil {
		log.Warn().Err(err).Str("q", req.Text).Msg("place lookup degraded")
		return []domain.Suggestion{}
	}

	out := make([]domain.Suggestion, 0, len(places))
	for _, p := range places {
		out = append(out, toSuggestion(p, req.Lang))
	}
	if err := s.cache.Set(ctx, key, domain.CacheEntry{FetchedAt: s.now(), Suggestions: out}); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("suggest cache write failed")
	}
	return out
}

// suggestKey normalizes the request into the composite cache key.
func suggestKey(req domain.PlaceRequest) string {
	bias := ""
	if req.Bias != nil {
		bias = strconv.FormatFloat(req.Bias.Lat, 'f', -1, 64) + "," +
			strconv.FormatFloat(req.Bias.Lon, 'f', -1, 64)
	}
	return strings.Join([]string{
		"places:v1",
		strings.ToLower(strings.TrimSpace(req.Text)),
		strconv.Itoa(req.Limit),
		domain.NormalizeLang(req.Lang),
		strings.ToLower(strings.TrimSpace(req.Country)),
		bias,
	}, "|")
}

func toSuggestion(p domain.Place, lang string) domain.Suggestion {
	segments := []string{p.Name, p.Admin1}
	if domain.NormalizeLang(lang) != domain.LangHE {
		segments = append(segments, p.Country)
	}
	kept := segments[:0]
	for _, seg := range segments {
		if seg != "" {
			kept = append(kept, seg)
		}
	}
	return domain.Suggestion{
		Lat:         p.Lat,
		Lon:         p.Lon,
		Name:        p.Name,
		Admin1:      p.Admin1,
		Country:     p.Country,
		CountryCode: p.CountryCode,
		ExternalID:  p.ExternalID,
		Display:     strings.Join(kept, ", "),
	}
}

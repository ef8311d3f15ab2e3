package app

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"nofesh/internal/domain"
	"nofesh/internal/query"
)

type fakeSuggestionCache struct {
	entries map[string][]byte
	getErr  error
	setErr  error
	sets    int
}

func newFakeSuggestionCache() *fakeSuggestionCache {
	return &fakeSuggestionCache{entries: map[string][]byte{}}
}

func (f *fakeSuggestionCache) Get(_ context.Context, key string, dst any) (bool, error) {
	if f.getErr != nil {
		return false, f.getErr
	}
	raw, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (f *fakeSuggestionCache) Set(_ context.Context, key string, v any) error {
	if f.setErr != nil {
		return f.setErr
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	f.sets++
	return nil
}

type fakePlaceClient struct {
	places  []domain.Place
	err     error
	calls   int
	lastReq domain.PlaceRequest
}

func (f *fakePlaceClient) Autocomplete(_ context.Context, req domain.PlaceRequest) ([]domain.Place, error) {
	f.calls++
	f.lastReq = req
	return f.places, f.err
}

func newTestSuggest(cache domain.SuggestionCache, places domain.PlaceClient, at time.Time) *Suggest {
	s := NewSuggest(cache, places, SuggestFreshness)
	s.now = func() time.Time { return at }
	return s
}

func TestPlaces_BlankTextShortCircuits(t *testing.T) {
	provider := &fakePlaceClient{}
	s := newTestSuggest(newFakeSuggestionCache(), provider, time.Now())

	out := s.Places(context.Background(), domain.PlaceRequest{Text: "   "})
	if len(out) != 0 || provider.calls != 0 {
		t.Fatalf("blank text must not reach the provider: %v calls=%d", out, provider.calls)
	}
}

func TestPlaces_FreshHitSkipsProvider(t *testing.T) {
	cache := newFakeSuggestionCache()
	provider := &fakePlaceClient{places: []domain.Place{{Name: "Haifa", Country: "Israel"}}}
	t0 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s := newTestSuggest(cache, provider, t0)

	req := domain.PlaceRequest{Text: "Haifa", Limit: 5, Lang: "en"}
	first := s.Places(context.Background(), req)
	if provider.calls != 1 || cache.sets != 1 {
		t.Fatalf("miss should fetch then store: calls=%d sets=%d", provider.calls, cache.sets)
	}

	s.now = func() time.Time { return t0.Add(23 * time.Hour) }
	second := s.Places(context.Background(), req)
	if provider.calls != 1 {
		t.Fatalf("fresh entry should short-circuit the provider")
	}
	if len(second) != len(first) || second[0].Name != "Haifa" {
		t.Fatalf("cached payload mismatch: %v", second)
	}
}

func TestPlaces_StaleEntryIsRefetchedAndOverwritten(t *testing.T) {
	cache := newFakeSuggestionCache()
	provider := &fakePlaceClient{places: []domain.Place{{Name: "Haifa"}}}
	t0 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s := newTestSuggest(cache, provider, t0)

	req := domain.PlaceRequest{Text: "Haifa", Limit: 5, Lang: "en"}
	s.Places(context.Background(), req)

	provider.places = []domain.Place{{Name: "Haifa"}, {Name: "Haifa Port"}}
	s.now = func() time.Time { return t0.Add(25 * time.Hour) }
	out := s.Places(context.Background(), req)
	if provider.calls != 2 {
		t.Fatalf("stale entry must refetch, calls=%d", provider.calls)
	}
	if len(out) != 2 || cache.sets != 2 {
		t.Fatalf("entry not overwritten: out=%v sets=%d", out, cache.sets)
	}

	var entry domain.CacheEntry
	ok, err := cache.Get(context.Background(), suggestKey(req), &entry)
	if !ok || err != nil {
		t.Fatal("expected an entry after refresh")
	}
	if !entry.FetchedAt.Equal(t0.Add(25 * time.Hour)) {
		t.Fatalf("fetchedAt not advanced: %v", entry.FetchedAt)
	}
}

func TestPlaces_ProviderFailureDegradesEmpty(t *testing.T) {
	cache := newFakeSuggestionCache()
	provider := &fakePlaceClient{err: errors.New("upstream 503")}
	s := newTestSuggest(cache, provider, time.Now())

	out := s.Places(context.Background(), domain.PlaceRequest{Text: "Haifa"})
	if out == nil || len(out) != 0 {
		t.Fatalf("degraded lookup must return an empty list, got %v", out)
	}
	if cache.sets != 0 {
		t.Fatalf("failures must not be cached")
	}
}

func TestPlaces_CacheReadFailureFallsThrough(t *testing.T) {
	cache := newFakeSuggestionCache()
	cache.getErr = errors.New("redis down")
	provider := &fakePlaceClient{places: []domain.Place{{Name: "Haifa"}}}
	s := newTestSuggest(cache, provider, time.Now())

	out := s.Places(context.Background(), domain.PlaceRequest{Text: "Haifa"})
	if provider.calls != 1 || len(out) != 1 {
		t.Fatalf("read failure should behave as a miss: calls=%d out=%v", provider.calls, out)
	}
}

func TestSuggestKey_NormalizesAndDiscriminates(t *testing.T) {
	base := domain.PlaceRequest{Text: "Haifa", Limit: 5, Lang: "en", Country: "IL"}
	shouty := base
	shouty.Text, shouty.Country, shouty.Lang = "  HAIFA ", "il", "EN"
	if suggestKey(base) != suggestKey(shouty) {
		t.Fatalf("key must normalize case and whitespace")
	}

	biased := base
	biased.Bias = &query.Point{Lon: 34.78, Lat: 32.07}
	for _, other := range []domain.PlaceRequest{
		{Text: "Haifa", Limit: 10, Lang: "en", Country: "IL"},
		{Text: "Haifa", Limit: 5, Lang: "he", Country: "IL"},
		{Text: "Haifa", Limit: 5, Lang: "en"},
		biased,
	} {
		if suggestKey(base) == suggestKey(other) {
			t.Fatalf("key collision with %+v", other)
		}
	}
}

func TestToSuggestion_DisplayPerLanguage(t *testing.T) {
	p := domain.Place{Name: "Haifa", Admin1: "Haifa District", Country: "Israel"}
	if got := toSuggestion(p, "en").Display; got != "Haifa, Haifa District, Israel" {
		t.Fatalf("en display = %q", got)
	}
	if got := toSuggestion(p, "he").Display; got != "Haifa, Haifa District" {
		t.Fatalf("he display = %q", got)
	}
	sparse := domain.Place{Name: "Haifa", Country: "Israel"}
	if got := toSuggestion(sparse, "en").Display; got != "Haifa, Israel" {
		t.Fatalf("sparse display = %q", got)
	}
}

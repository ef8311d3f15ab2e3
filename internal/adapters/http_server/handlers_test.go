package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	httpserver "nofesh/internal/adapters/http_server"
	"nofesh/internal/app"
	"nofesh/internal/domain"
	"nofesh/internal/query"
)

type stubCatalog struct {
	items     []domain.Property
	total     int64
	getResult domain.Property
	getErr    error
	bookedIDs []string
}

func (s *stubCatalog) Search(context.Context, query.Node, query.Sort, query.Page) ([]domain.Property, error) {
	return s.items, nil
}
func (s *stubCatalog) Count(context.Context, query.Node) (int64, error) { return s.total, nil }
func (s *stubCatalog) Get(context.Context, string) (domain.Property, error) {
	return s.getResult, s.getErr
}
func (s *stubCatalog) BookedPropertyIDs(context.Context, time.Time, time.Time, []string, bool) ([]string, error) {
	return s.bookedIDs, nil
}

type stubCache struct{}

func (stubCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (stubCache) Set(context.Context, string, any) error         { return nil }

type stubPlaces struct {
	places []domain.Place
	err    error
	got    domain.PlaceRequest
}

func (s *stubPlaces) Autocomplete(_ context.Context, req domain.PlaceRequest) ([]domain.Place, error) {
	s.got = req
	return s.places, s.err
}

func newTestServer(cat *stubCatalog, places *stubPlaces) *httptest.Server {
	if places == nil {
		places = &stubPlaces{}
	}
	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{
		Search:  app.NewSearch(cat),
		Suggest: app.NewSuggest(stubCache{}, places, time.Hour),
	})
	return httptest.NewServer(srv.Mux())
}

func get(t *testing.T, url string, hdr map[string]string) *http.Response {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestListProperties_OK(t *testing.T) {
	id := primitive.NewObjectID()
	cat := &stubCatalog{
		items: []domain.Property{{
			ID:    id,
			Title: domain.ByLanguage(map[string]string{"en": "Sea Cabin", "he": "בקתה על הים"}),
			Price: 420,
		}},
		total: 1,
	}
	ts := newTestServer(cat, nil)
	defer ts.Close()

	resp := get(t, ts.URL+"/properties?q=cabin&lang=en", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	page := decode[app.ListingPage](t, resp)
	if page.Total != 1 || len(page.Items) != 1 || page.Lang != "en" {
		t.Fatalf("page = %+v", page)
	}
	if page.Items[0].ID != id.Hex() || page.Items[0].Title != "Sea Cabin" {
		t.Fatalf("item = %+v", page.Items[0])
	}
}

func TestListProperties_AcceptLanguageHebrew(t *testing.T) {
	cat := &stubCatalog{items: []domain.Property{{
		ID:    primitive.NewObjectID(),
		Title: domain.ByLanguage(map[string]string{"en": "Sea Cabin", "he": "בקתה על הים"}),
	}}, total: 1}
	ts := newTestServer(cat, nil)
	defer ts.Close()

	resp := get(t, ts.URL+"/properties", map[string]string{"Accept-Language": "he-IL,he;q=0.9"})
	page := decode[app.ListingPage](t, resp)
	if page.Lang != "he" || page.Items[0].Title != "בקתה על הים" {
		t.Fatalf("page = %+v", page)
	}
}

func TestListProperties_ValidationIsProblemJSON(t *testing.T) {
	ts := newTestServer(&stubCatalog{}, nil)
	defer ts.Close()

	resp := get(t, ts.URL+"/properties?guests=many", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content-type = %q", ct)
	}
	body := decode[map[string]any](t, resp)
	if body["detail"] != "invalid guests value" {
		t.Fatalf("body = %v", body)
	}
}

func TestGetProperty_NotFound(t *testing.T) {
	ts := newTestServer(&stubCatalog{getErr: domain.ErrNotFound}, nil)
	defer ts.Close()

	resp := get(t, ts.URL+"/properties/000000000000000000000000", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestGetProperty_ETagRoundtrip(t *testing.T) {
	cat := &stubCatalog{getResult: domain.Property{
		ID:    primitive.NewObjectID(),
		Title: domain.Scalar("Old Cabin"),
	}}
	ts := newTestServer(cat, nil)
	defer ts.Close()

	first := get(t, ts.URL+"/properties/abc?lang=en", nil)
	etag := first.Header.Get("ETag")
	first.Body.Close()
	if etag == "" || first.Header.Get("Content-Language") != "en" {
		t.Fatalf("headers = %v", first.Header)
	}

	second := get(t, ts.URL+"/properties/abc?lang=en", map[string]string{"If-None-Match": etag})
	second.Body.Close()
	if second.StatusCode != http.StatusNotModified {
		t.Fatalf("status = %d", second.StatusCode)
	}
}

func TestPropertyAutocomplete_EmptyQueryIsEmptyList(t *testing.T) {
	ts := newTestServer(&stubCatalog{}, nil)
	defer ts.Close()

	resp := get(t, ts.URL+"/autocomplete/properties?q=", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	items := decode[[]app.TitleSuggestion](t, resp)
	if items == nil || len(items) != 0 {
		t.Fatalf("items = %v", items)
	}
}

func TestPlaceAutocomplete_DegradesToEmptyList(t *testing.T) {
	places := &stubPlaces{err: context.DeadlineExceeded}
	ts := newTestServer(&stubCatalog{}, places)
	defer ts.Close()

	resp := get(t, ts.URL+"/places/autocomplete?q=haifa", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upstream trouble must not surface, status = %d", resp.StatusCode)
	}
	out := decode[[]domain.Suggestion](t, resp)
	if out == nil || len(out) != 0 {
		t.Fatalf("out = %v", out)
	}
}

func TestPlaceAutocomplete_LimitAndBias(t *testing.T) {
	places := &stubPlaces{places: []domain.Place{{Name: "Haifa", Country: "Israel"}}}
	ts := newTestServer(&stubCatalog{}, places)
	defer ts.Close()

	resp := get(t, ts.URL+"/places/autocomplete?q=haifa&limit=500&near=32.07,34.78&country=il", nil)
	out := decode[[]domain.Suggestion](t, resp)
	if len(out) != 1 || out[0].Display != "Haifa, Israel" {
		t.Fatalf("out = %+v", out)
	}
	if places.got.Limit != 20 {
		t.Fatalf("limit not capped: %d", places.got.Limit)
	}
	if places.got.Bias == nil || places.got.Bias.Lat != 32.07 || places.got.Bias.Lon != 34.78 {
		t.Fatalf("bias = %+v", places.got.Bias)
	}
	if places.got.Country != "il" {
		t.Fatalf("country = %q", places.got.Country)
	}
}

func TestPlaceAutocomplete_MalformedNearIsIgnored(t *testing.T) {
	places := &stubPlaces{}
	ts := newTestServer(&stubCatalog{}, places)
	defer ts.Close()

	resp := get(t, ts.URL+"/places/autocomplete?q=haifa&near=oops", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if places.got.Bias != nil {
		t.Fatalf("bias = %+v", places.got.Bias)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(&stubCatalog{}, nil)
	defer ts.Close()
	resp := get(t, ts.URL+"/healthz", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

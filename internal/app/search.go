package app

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"nofesh/internal/domain"
	"nofesh/internal/query"
)

// geoField is where catalog documents keep their GeoJSON point.
const geoField = "geo"

// SearchRequest is the typed form of the listing query parameters.
type SearchRequest struct {
	Query          string
	Region         string
	Guests         *int
	MinPrice       *float64
	MaxPrice       *float64
	Amenities      []string
	Categories     []string
	CatMode        CatMode
	LuxuryMinPrice float64
	Near           *query.Point
	RadiusKm       *float64
	Start          *time.Time
	End            *time.Time
	Sort           query.Sort
	Lang           string
	Page           query.Page
}

// ParseSearchRequest validates and converts raw query parameters. Malformed
// numerics and an end date before the start date are validation failures;
// unparseable date strings behave as absent bounds.
func ParseSearchRequest(vals url.Values) (SearchRequest, error) {
	req := SearchRequest{
		Query:          strings.TrimSpace(vals.Get("q")),
		Region:         strings.TrimSpace(vals.Get("region")),
		Amenities:      splitTerms(vals.Get("amenities")),
		CatMode:        ParseCatMode(vals.Get("catMode")),
		LuxuryMinPrice: DefaultLuxuryMinPrice,
		Sort:           query.ParseSort(vals.Get("sort")),
		Page:           query.Page{Limit: query.DefaultLimit},
	}

	if single := strings.TrimSpace(vals.Get("category")); single != "" {
		req.Categories = append(req.Categories, single)
	}
	req.Categories = append(req.Categories, splitTerms(vals.Get("categories"))...)

	if s := vals.Get("guests"); s != "" {
		g, err := strconv.Atoi(s)
		if err != nil {
			return req, domain.ValidationError{Detail: "invalid guests value"}
		}
		req.Guests = &g
	}
	var err error
	if req.MinPrice, err = parseFloatParam(vals.Get("minPrice"), "minPrice"); err != nil {
		return req, err
	}
	if req.MaxPrice, err = parseFloatParam(vals.Get("maxPrice"), "maxPrice"); err != nil {
		return req, err
	}
	if lux, err := parseFloatParam(vals.Get("luxuryMinPrice"), "luxuryMinPrice"); err != nil {
		return req, err
	} else if lux != nil {
		req.LuxuryMinPrice = *lux
	}

	if s := vals.Get("near"); s != "" {
		p, ok := ParseLatLon(s)
		if !ok {
			return req, domain.ValidationError{Detail: "invalid near value"}
		}
		req.Near = &p
	}
	if req.RadiusKm, err = parseFloatParam(vals.Get("radiusKm"), "radiusKm"); err != nil {
		return req, err
	}

	req.Start = parseDateSafe(vals.Get("start"))
	req.End = parseDateSafe(vals.Get("end"))
	if req.Start != nil && req.End != nil && req.End.Before(*req.Start) {
		return req, domain.ValidationError{Detail: "end date must be >= start date"}
	}

	if s := vals.Get("limit"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return req, domain.ValidationError{Detail: "invalid limit"}
		}
		req.Page.Limit = n
	}
	if s := vals.Get("offset"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return req, domain.ValidationError{Detail: "invalid offset"}
		}
		req.Page.Offset = n
	}
	req.Page = req.Page.Clamp()
	return req, nil
}

// Plan is the compiled form of one listing query: the item predicate, a
// count-safe twin of it, the sort order and the pagination window. The twin
// is identical except any ordered geo clause is forced to its bounded
// lowering, so totals never depend on which lowering produced the page.
type Plan struct {
	Filter      query.Node
	CountFilter query.Node
	Sort        query.Sort
	Page        query.Page
}

// Compile composes all active clauses into one conjunction. excluded is the
// availability exclusion set, already resolved.
func Compile(req SearchRequest, excluded []string) Plan {
	var clauses []query.Node

	if req.Query != "" {
		clauses = append(clauses, substringAny(req.Query, localizedPaths("title", "location", "region")...))
	}
	if req.Region != "" {
		clauses = append(clauses, substringAny(req.Region, localizedPaths("region")...))
	}
	if req.Guests != nil {
		clauses = append(clauses, query.Range{Field: "maxGuests", Min: f64(float64(*req.Guests))})
	}
	if req.MinPrice != nil || req.MaxPrice != nil {
		clauses = append(clauses, query.Range{Field: "price", Min: req.MinPrice, Max: req.MaxPrice})
	}
	for _, term := range req.Amenities {
		clauses = append(clauses, substringAny(term, localizedPaths("amenities")...))
	}
	if c := categoriesClause(req.Categories, req.CatMode, req.LuxuryMinPrice); c != nil {
		clauses = append(clauses, c)
	}
	if len(excluded) > 0 {
		clauses = append(clauses, query.NotIn{Field: "_id", Values: excluded})
	}

	sort := req.Sort
	var geoItems, geoCount query.Node
	if req.Near != nil && req.RadiusKm != nil && *req.RadiusKm > 0 {
		circle := query.Circle{Center: *req.Near, RadiusM: *req.RadiusKm * 1000}
		geoCount = circle.Bounded(geoField)
		if sort == query.SortPriceAsc || sort == query.SortPriceDesc {
			// An explicit sort key wins; the membership test carries no order
			// of its own so the two can compose.
			geoItems = circle.Bounded(geoField)
		} else {
			geoItems = circle.Ordered(geoField)
			sort = query.SortGeo
		}
	}

	items := append(append([]query.Node{}, clauses...), geoItems)
	count := append(append([]query.Node{}, clauses...), geoCount)
	return Plan{
		Filter:      query.Conj(items...),
		CountFilter: query.CountSafe(query.Conj(count...)),
		Sort:        sort,
		Page:        req.Page,
	}
}

// ListingPage is the listing response body.
type ListingPage struct {
	Items []ListingItem `json:"items"`
	Total int64         `json:"total"`
	Lang  string        `json:"lang"`
}

// Search orchestrates the compiler against the catalog.
type Search struct {
	catalog      domain.Catalog
	availability *Availability
}

func NewSearch(c domain.Catalog) *Search {
	return &Search{catalog: c, availability: NewAvailability(c)}
}

// List resolves availability, compiles the plan and fetches the page and the
// total concurrently. The two reads are point-in-time and may momentarily
// diverge; that is accepted eventual consistency.
func (s *Search) List(ctx context.Context, req SearchRequest) (ListingPage, error) {
	excluded, err := s.availability.ExcludedIDs(ctx, req.Start, req.End)
	if err != nil {
		return ListingPage{}, err
	}
	plan := Compile(req, excluded)

	var (
		items []domain.Property
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.catalog.Count(gctx, plan.CountFilter)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.catalog.Search(gctx, plan.Filter, plan.Sort, plan.Page)
		return err
	})
	if err := g.Wait(); err != nil {
		return ListingPage{}, err
	}

	page := ListingPage{Items: make([]ListingItem, 0, len(items)), Total: total, Lang: req.Lang}
	for _, p := range items {
		page.Items = append(page.Items, mapListItem(p, req.Lang))
	}
	return page, nil
}

// Get loads one property card with all localized fields resolved.
func (s *Search) Get(ctx context.Context, id, lang string) (ListingDetail, error) {
	p, err := s.catalog.Get(ctx, id)
	if err != nil {
		return ListingDetail{}, err
	}
	return mapDetail(p, lang), nil
}

const (
	titleSuggestLimit    = 10
	titleSuggestMaxLimit = 50
)

// TitleSuggestions matches property titles by substring in either language.
func (s *Search) TitleSuggestions(ctx context.Context, q, lang string, limit int64) ([]TitleSuggestion, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []TitleSuggestion{}, nil
	}
	if limit < 1 {
		limit = titleSuggestLimit
	}
	if limit > titleSuggestMaxLimit {
		limit = titleSuggestMaxLimit
	}
	filter := substringAny(q, localizedPaths("title")...)
	props, err := s.catalog.Search(ctx, filter, query.SortNewest, query.Page{Limit: limit})
	if err != nil {
		return nil, err
	}
	out := make([]TitleSuggestion, 0, len(props))
	for _, p := range props {
		out = append(out, mapTitleSuggestion(p, lang))
	}
	return out, nil
}

// substringAny is a case-insensitive substring match over any of the fields.
// The needle is escaped here; only classifier patterns carry regex syntax.
func substringAny(needle string, fields ...string) query.Node {
	pattern := regexp.QuoteMeta(needle)
	clauses := make([]query.Node, 0, len(fields))
	for _, f := range fields {
		clauses = append(clauses, query.Match{Field: f, Pattern: pattern})
	}
	return query.Disj(clauses...)
}

// localizedPaths expands each base field into its flat and per-language
// shapes; older documents store the flat form.
func localizedPaths(bases ...string) []string {
	out := make([]string, 0, len(bases)*3)
	for _, b := range bases {
		out = append(out, b, b+"."+domain.LangEN, b+"."+domain.LangHE)
	}
	return out
}

func splitTerms(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func parseFloatParam(s, name string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, domain.ValidationError{Detail: "invalid " + name}
	}
	return &v, nil
}

// ParseLatLon parses a "lat,lon" pair.
func ParseLatLon(s string) (query.Point, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return query.Point{}, false
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return query.Point{}, false
	}
	return query.Point{Lon: lon, Lat: lat}, true
}

// parseDateSafe accepts YYYY-MM-DD or RFC 3339; anything else reads as an
// absent bound.
func parseDateSafe(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	return nil
}

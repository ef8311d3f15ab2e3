package domain

import (
	"context"
	"time"

	"nofesh/internal/query"
)

// Catalog is the external store holding Property and Booking records,
// queried only through predicate scan, count and distinct operations.
// Count and Search are not required to be transactionally consistent with
// each other.
type Catalog interface {
	Search(ctx context.Context, filter query.Node, sort query.Sort, page query.Page) ([]Property, error)
	Count(ctx context.Context, filter query.Node) (int64, error)
	Get(ctx context.Context, id string) (Property, error)

	// BookedPropertyIDs returns ids of properties having at least one booking
	// overlapping [start, end] with a status in active. includeUnset also
	// counts bookings carrying no status at all.
	BookedPropertyIDs(ctx context.Context, start, end time.Time, active []string, includeUnset bool) ([]string, error)
}

// SuggestionCache persists place-lookup responses keyed by normalized request
// parameters. Freshness is the caller's concern: the fetch timestamp lives in
// the entry and expiry is evaluated at read time, not by deletion.
type SuggestionCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
}

// PlaceClient is the external place-lookup provider, consumed only through
// its documented response shape.
type PlaceClient interface {
	Autocomplete(ctx context.Context, req PlaceRequest) ([]Place, error)
}

type PlaceRequest struct {
	Text    string
	Limit   int
	Lang    string
	Country string       // ISO country code filter, optional
	Bias    *query.Point // proximity ordering key, optional
}

// Place is one provider record.
type Place struct {
	Lat         float64
	Lon         float64
	Name        string
	Admin1      string
	Country     string
	CountryCode string
	ExternalID  string
}

// Suggestion is the normalized autocomplete payload served to clients and
// cached between calls.
type Suggestion struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Name        string  `json:"name"`
	Admin1      string  `json:"admin1"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	ExternalID  string  `json:"externalId"`
	Display     string  `json:"display"`
}

// CacheEntry is one persisted cache record: payload plus the moment it was
// fetched. Overwritten in place on refresh, last-write-wins under races.
type CacheEntry struct {
	FetchedAt   time.Time    `json:"fetchedAt"`
	Suggestions []Suggestion `json:"suggestions"`
}

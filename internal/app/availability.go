package app

import (
	"context"
	"time"

	"nofesh/internal/domain"
)

// Availability resolves which property ids are blocked by bookings that
// overlap a query interval. Overlap is booking.start <= queryEnd AND
// booking.end >= queryStart, restricted to active statuses; a booking with
// no status at all blocks as well.
type Availability struct {
	catalog domain.Catalog
}

func NewAvailability(c domain.Catalog) *Availability {
	return &Availability{catalog: c}
}

// ExcludedIDs returns the exclusion set for [start, end]. A missing bound
// means no exclusion at all.
func (a *Availability) ExcludedIDs(ctx context.Context, start, end *time.Time) ([]string, error) {
	if start == nil || end == nil {
		return nil, nil
	}
	return a.catalog.BookedPropertyIDs(ctx, *start, *end, domain.ActiveBookingStatuses, true)
}

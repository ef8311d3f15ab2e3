package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Property is a catalog record. Read-only here; an external ingestion
// process creates and mutates it.
type Property struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	Title       Localized[string]   `bson:"title,omitempty"`
	Location    Localized[string]   `bson:"location,omitempty"`
	Region      Localized[string]   `bson:"region,omitempty"`
	Description Localized[string]   `bson:"description,omitempty"`
	Amenities   Localized[[]string] `bson:"amenities,omitempty"`
	Price       float64             `bson:"price,omitempty"`
	Rating      float64             `bson:"rating,omitempty"`
	ReviewCount int                 `bson:"reviewCount,omitempty"`
	Image       string              `bson:"image,omitempty"`
	Images      []string            `bson:"images,omitempty"`
	IsNew       bool                `bson:"isNew,omitempty"`
	MaxGuests   int                 `bson:"maxGuests,omitempty"`
	MinNights   int                 `bson:"minNights,omitempty"`
	Host        *Host               `bson:"host,omitempty"`
	Reviews     []Review            `bson:"reviews,omitempty"`
	Geo         *GeoJSON            `bson:"geo,omitempty"`
}

type Host struct {
	Name         Localized[string] `bson:"name,omitempty"`
	Avatar       string            `bson:"avatar,omitempty"`
	Rating       float64           `bson:"rating,omitempty"`
	ResponseTime Localized[string] `bson:"responseTime,omitempty"`
	IsVerified   bool              `bson:"isVerified,omitempty"`
}

type Review struct {
	User    Localized[string] `bson:"user,omitempty"`
	Rating  float64           `bson:"rating,omitempty"`
	Date    string            `bson:"date,omitempty"`
	Comment Localized[string] `bson:"comment,omitempty"`
}

// GeoJSON point; coordinates are [longitude, latitude], in that order.
type GeoJSON struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

// Booking blocks a property for a closed date interval. start <= end is
// assumed valid upstream.
type Booking struct {
	PropertyID primitive.ObjectID `bson:"property_id"`
	Start      time.Time          `bson:"start"`
	End        time.Time          `bson:"end"`
	Status     *string            `bson:"status,omitempty"`
}

// ActiveBookingStatuses are the statuses that block availability. A booking
// with no status at all also blocks; callers must include the unset case.
var ActiveBookingStatuses = []string{"confirmed", "paid"}

package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nofesh/internal/domain"
	"nofesh/internal/query"
)

// Repo adapts the properties and bookings collections to the Catalog port.
type Repo struct {
	properties *mongo.Collection
	bookings   *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{
		properties: db.Collection("properties"),
		bookings:   db.Collection("bookings"),
	}
}

// listProjection keeps list scans to card fields; detail lookups load the
// whole document.
var listProjection = bson.M{
	"title": 1, "location": 1, "region": 1, "amenities": 1,
	"price": 1, "rating": 1, "reviewCount": 1,
	"image": 1, "images": 1, "isNew": 1, "maxGuests": 1,
}

func (r *Repo) Search(ctx context.Context, filter query.Node, sort query.Sort, page query.Page) ([]domain.Property, error) {
	opts := options.Find().
		SetProjection(listProjection).
		SetSkip(page.Offset).
		SetLimit(page.Limit)
	if spec := sortSpec(sort); spec != nil {
		opts.SetSort(spec)
	}
	cur, err := r.properties.Find(ctx, toBSON(filter), opts)
	if err != nil {
		return nil, err
	}
	var out []domain.Property
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) Count(ctx context.Context, filter query.Node) (int64, error) {
	return r.properties.CountDocuments(ctx, toBSON(filter))
}

func (r *Repo) Get(ctx context.Context, id string) (domain.Property, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Property{}, domain.ErrNotFound
	}
	var p domain.Property
	err = r.properties.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Property{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Property{}, err
	}
	return p, nil
}

func (r *Repo) BookedPropertyIDs(ctx context.Context, start, end time.Time, active []string, includeUnset bool) ([]string, error) {
	statuses := make(bson.A, 0, len(active)+1)
	for _, s := range active {
		statuses = append(statuses, s)
	}
	if includeUnset {
		// $in with null also matches bookings carrying no status field.
		statuses = append(statuses, nil)
	}
	filter := bson.M{
		"start":  bson.M{"$lte": end},
		"end":    bson.M{"$gte": start},
		"status": bson.M{"$in": statuses},
	}
	vals, err := r.bookings.Distinct(ctx, "property_id", filter)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		switch id := v.(type) {
		case primitive.ObjectID:
			out = append(out, id.Hex())
		case string:
			out = append(out, id)
		}
	}
	return out, nil
}

// EnsureIndexes creates the search indexes once at startup; existing indexes
// are a no-op server-side.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	_, err := r.properties.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "title.en", Value: "text"}, {Key: "title.he", Value: "text"},
				{Key: "location.en", Value: "text"}, {Key: "location.he", Value: "text"},
				{Key: "region.en", Value: "text"}, {Key: "region.he", Value: "text"},
				{Key: "description.en", Value: "text"}, {Key: "description.he", Value: "text"},
			},
			Options: options.Index().SetName("text_multilang"),
		},
		{
			Keys:    bson.D{{Key: "price", Value: 1}},
			Options: options.Index().SetName("price_asc"),
		},
		{
			Keys:    bson.D{{Key: "geo", Value: "2dsphere"}},
			Options: options.Index().SetName("geo_2dsphere"),
		},
	})
	if err != nil {
		return err
	}
	_, err = r.bookings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "property_id", Value: 1}, {Key: "start", Value: 1}, {Key: "end", Value: 1}},
		Options: options.Index().SetName("booking_window"),
	})
	return err
}

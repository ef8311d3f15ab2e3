package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"nofesh/internal/query"
)

// toBSON lowers a predicate tree to a mongo filter document. A nil tree
// matches everything. Keeping the lowering here, behind the Catalog port,
// leaves the compiler store-agnostic.
func toBSON(n query.Node) bson.M {
	switch t := n.(type) {
	case nil:
		return bson.M{}
	case query.And:
		if len(t.Clauses) == 0 {
			return bson.M{}
		}
		kids := make([]bson.M, 0, len(t.Clauses))
		for _, k := range t.Clauses {
			kids = append(kids, toBSON(k))
		}
		return bson.M{"$and": kids}
	case query.Or:
		if len(t.Clauses) == 0 {
			return bson.M{}
		}
		kids := make([]bson.M, 0, len(t.Clauses))
		for _, k := range t.Clauses {
			kids = append(kids, toBSON(k))
		}
		return bson.M{"$or": kids}
	case query.Match:
		return bson.M{t.Field: bson.M{"$regex": t.Pattern, "$options": "i"}}
	case query.Range:
		bounds := bson.M{}
		if t.Min != nil {
			bounds["$gte"] = *t.Min
		}
		if t.Max != nil {
			bounds["$lte"] = *t.Max
		}
		return bson.M{t.Field: bounds}
	case query.NotIn:
		return bson.M{t.Field: bson.M{"$nin": objectIDs(t.Values)}}
	case query.GeoBounded:
		return bson.M{t.Field: bson.M{"$geoWithin": bson.M{
			"$centerSphere": bson.A{bson.A{t.Center.Lon, t.Center.Lat}, t.AngularRadius()},
		}}}
	case query.GeoOrdered:
		return bson.M{t.Field: bson.M{"$nearSphere": bson.M{
			"$geometry":    bson.M{"type": "Point", "coordinates": bson.A{t.Center.Lon, t.Center.Lat}},
			"$maxDistance": t.RadiusM,
		}}}
	}
	return bson.M{}
}

// objectIDs converts hex ids, passing through anything that does not parse;
// older booking rows reference properties by raw string.
func objectIDs(ids []string) bson.A {
	out := make(bson.A, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
			continue
		}
		out = append(out, id)
	}
	return out
}

// sortSpec maps a sort key to a mongo sort document. SortGeo yields nil: the
// proximity scan supplies its own order.
func sortSpec(s query.Sort) bson.D {
	switch s {
	case query.SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: -1}}
	case query.SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: -1}}
	case query.SortGeo:
		return nil
	}
	return bson.D{{Key: "_id", Value: -1}}
}

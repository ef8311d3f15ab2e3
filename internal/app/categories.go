package app

import (
	"strings"

	"nofesh/internal/domain"
	"nofesh/internal/query"
)

// CatMode selects how multiple category clauses combine.
type CatMode string

const (
	CatAny CatMode = "any"
	CatAll CatMode = "all"
)

func ParseCatMode(s string) CatMode {
	if strings.EqualFold(strings.TrimSpace(s), string(CatAll)) {
		return CatAll
	}
	return CatAny
}

// DefaultLuxuryMinPrice is the price threshold of the luxury category when
// the request does not override it.
const DefaultLuxuryMinPrice = 700

// categoryClause maps a category identifier to its predicate, or nil for
// unrecognized identifiers. Categories are derived from heuristics, not
// stored tags.
func categoryClause(id string, luxuryMinPrice float64) query.Node {
	switch strings.ToLower(strings.TrimSpace(id)) {
	case "jacuzzi":
		return amenityMatch(`jacuzz?i`, `ג.?קוזי`)
	case "view":
		return amenityMatch(`(view|mountain|sea\s*view|scenic)`, `נוף`)
	case "dogs":
		return amenityMatch(`(dog|pet)`, `(חיות|כלב)`)
	case "family":
		return query.Range{Field: "maxGuests", Min: f64(4)}
	case "romantic":
		return query.Range{Field: "maxGuests", Max: f64(2)}
	case "luxury":
		// High price OR qualifying amenities; the disjunction is deliberate,
		// a pricey place with plain amenities still counts.
		return query.Disj(
			query.Range{Field: "price", Min: f64(luxuryMinPrice)},
			amenityMatch(`(jacuzz?i|pool|spa)`, `(ג.?קוזי|בריכה|ספא)`),
		)
	}
	return nil
}

// categoriesClause resolves every identifier, drops the unrecognized ones and
// combines the rest per mode. Nil when nothing resolves.
func categoriesClause(ids []string, mode CatMode, luxuryMinPrice float64) query.Node {
	clauses := make([]query.Node, 0, len(ids))
	for _, id := range ids {
		if c := categoryClause(id, luxuryMinPrice); c != nil {
			clauses = append(clauses, c)
		}
	}
	if mode == CatAll {
		return query.Conj(clauses...)
	}
	return query.Disj(clauses...)
}

func amenityMatch(en, he string) query.Node {
	return query.Disj(
		query.Match{Field: "amenities." + domain.LangEN, Pattern: en},
		query.Match{Field: "amenities." + domain.LangHE, Pattern: he},
	)
}

func f64(v float64) *float64 { return &v }

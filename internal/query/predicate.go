// Package query models catalog predicates as a small syntax tree, kept
// store-agnostic so compilers can be unit-tested without a live backend.
// A separate translator lowers trees to the store's native query form.
package query

// Node is one boolean clause evaluated against a property record.
type Node interface{ node() }

type And struct{ Clauses []Node }

type Or struct{ Clauses []Node }

// Match is a case-insensitive regular-expression match on a field. Callers
// escape user-entered text before building one; classifier patterns are
// genuine expressions.
type Match struct {
	Field   string
	Pattern string
}

// Range bounds a numeric field; nil ends are open.
type Range struct {
	Field string
	Min   *float64
	Max   *float64
}

// NotIn excludes records whose field takes any of the listed values.
type NotIn struct {
	Field  string
	Values []string
}

func (And) node()        {}
func (Or) node()         {}
func (Match) node()      {}
func (Range) node()      {}
func (NotIn) node()      {}
func (GeoOrdered) node() {}
func (GeoBounded) node() {}

// Conj is the conjunction of the non-nil clauses. Zero clauses mean no
// constraint (nil); a single clause is returned as itself.
func Conj(clauses ...Node) Node {
	kept := compact(clauses)
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return And{Clauses: kept}
}

// Disj is the disjunction of the non-nil clauses, with the same flattening
// rules as Conj.
func Disj(clauses ...Node) Node {
	kept := compact(clauses)
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return Or{Clauses: kept}
}

func compact(clauses []Node) []Node {
	kept := make([]Node, 0, len(clauses))
	for _, c := range clauses {
		if c != nil {
			kept = append(kept, c)
		}
	}
	return kept
}

// CountSafe rewrites every ordered geo clause to its bounded lowering so the
// tree can drive a count. Totals must never depend on which lowering
// produced the page of items.
func CountSafe(n Node) Node {
	switch t := n.(type) {
	case And:
		kids := make([]Node, len(t.Clauses))
		for i, k := range t.Clauses {
			kids[i] = CountSafe(k)
		}
		return And{Clauses: kids}
	case Or:
		kids := make([]Node, len(t.Clauses))
		for i, k := range t.Clauses {
			kids[i] = CountSafe(k)
		}
		return Or{Clauses: kids}
	case GeoOrdered:
		return t.Circle.Bounded(t.Field)
	}
	return n
}

package query

// Sort selects the result order of a listing scan.
type Sort int

const (
	// SortNewest is reverse insertion order with id as tie-break.
	SortNewest Sort = iota
	SortPriceAsc
	SortPriceDesc
	// SortGeo means an ordered geo lowering is active: the proximity scan
	// supplies the order and the store must apply no explicit sort key.
	SortGeo
)

// ParseSort maps the wire parameter to a sort key; unknown values fall back
// to newest-first.
func ParseSort(s string) Sort {
	switch s {
	case "price_asc":
		return SortPriceAsc
	case "price_desc":
		return SortPriceDesc
	}
	return SortNewest
}

const (
	DefaultLimit = 30
	MaxLimit     = 100
)

// Page is a pagination window.
type Page struct {
	Limit  int64
	Offset int64
}

// Clamp forces the window into bounds: limit to [1, MaxLimit], offset to
// [0, inf).
func (p Page) Clamp() Page {
	if p.Limit < 1 {
		p.Limit = 1
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

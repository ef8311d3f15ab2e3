package query

// EarthRadiusM is the WGS 84 equatorial radius used to convert a linear
// radius into the angular radius of a spherical cap.
const EarthRadiusM = 6378137.0

// Point is a WGS 84 coordinate, longitude first to match stored order.
type Point struct {
	Lon float64
	Lat float64
}

// Circle is the geo constraint value object: a center and a linear radius in
// meters. It has two pure lowerings rather than one mutable form, so the
// count path and the item path can never drift apart.
type Circle struct {
	Center  Point
	RadiusM float64
}

// AngularRadius is RadiusM expressed in radians on the reference sphere.
func (c Circle) AngularRadius() float64 { return c.RadiusM / EarthRadiusM }

// Ordered lowers the constraint to a nearest-first proximity scan. The scan
// implies its own result order and excludes other explicit sort keys.
func (c Circle) Ordered(field string) GeoOrdered {
	return GeoOrdered{Field: field, Circle: c}
}

// Bounded lowers the constraint to a fixed-radius membership test with no
// inherent ordering, so it composes with explicit sorts and with counting.
func (c Circle) Bounded(field string) GeoBounded {
	return GeoBounded{Field: field, Circle: c}
}

type GeoOrdered struct {
	Field string
	Circle
}

type GeoBounded struct {
	Field string
	Circle
}

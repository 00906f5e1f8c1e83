package utils

import "math"

// Vertex is one polygon corner. The coordinates are pointers so a corner
// saved without a latitude or longitude can be skipped during evaluation
// instead of poisoning the whole polygon.
type Vertex struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// NewVertex is a convenience constructor for literal polygons.
func NewVertex(lat, lng float64) Vertex {
	return Vertex{Lat: &lat, Lng: &lng}
}

// HaversineKm returns the great-circle distance in kilometers between two
// coordinates, using an Earth radius of 6371 km.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}

// PointInPolygon reports whether the point lies inside the polygon using the
// crossing-number (ray casting) test: a horizontal ray from the point is
// inside iff it crosses an odd number of edges. Vertices missing either
// coordinate are skipped; fewer than three usable vertices can contain
// nothing. Points exactly on an edge resolve by the standard ray-casting
// tie-break and are not otherwise specified.
func PointInPolygon(lat, lng float64, polygon []Vertex) bool {
	type pt struct{ lat, lng float64 }
	usable := make([]pt, 0, len(polygon))
	for _, v := range polygon {
		if v.Lat == nil || v.Lng == nil {
			continue
		}
		usable = append(usable, pt{*v.Lat, *v.Lng})
	}
	if len(usable) < 3 {
		return false
	}

	inside := false
	j := len(usable) - 1
	for i := range usable {
		vi, vj := usable[i], usable[j]
		if (vi.lat > lat) != (vj.lat > lat) &&
			lng < (vj.lng-vi.lng)*(lat-vi.lat)/(vj.lat-vi.lat)+vi.lng {
			inside = !inside
		}
		j = i
	}
	return inside
}

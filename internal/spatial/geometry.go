package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds is a latitude/longitude bounding box in degrees
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Centroid calculates the arithmetic centroid of a set of points
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}

	return Point{
		Lat: sumLat / float64(len(points)),
		Lon: sumLon / float64(len(points)),
	}
}

// BoundingBox returns the smallest box containing every point.
// The second return value is false for an empty input.
func BoundingBox(points []Point) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}

	rect := s2.EmptyRect()
	for _, p := range points {
		rect = rect.AddPoint(s2.LatLngFromDegrees(p.Lat, p.Lon))
	}

	lo, hi := rect.Lo(), rect.Hi()
	return Bounds{
		MinLat: lo.Lat.Degrees(),
		MinLon: lo.Lng.Degrees(),
		MaxLat: hi.Lat.Degrees(),
		MaxLon: hi.Lng.Degrees(),
	}, true
}

// Nearest returns the index of the point closest to (lat, lon), or -1 when
// points is empty. Ties resolve to the lowest index.
func Nearest(points []Point, lat, lon float64) int {
	best := -1
	bestDist := math.Inf(1)
	for i, p := range points {
		d := HaversineDistance(lat, lon, p.Lat, p.Lon)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

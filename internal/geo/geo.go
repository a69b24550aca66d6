// Package geo provides a small, deterministic, dependency-free proximity
// index over located candidates. It is intentionally minimal but built
// with production-grade ergonomics:
//
//   - No logging in the library (callers decide how/what to log)
//   - Pure functions: no side effects, no I/O
//   - Deterministic ordering (stable sort; ties keep input order)
//   - Candidates without coordinates rank last instead of erroring
//
// Distances use the great-circle (haversine) formula on a sphere of
// Earth's mean radius (6371 km), with degrees converted to radians.
// All arithmetic is IEEE-754 double precision, so identical inputs yield
// identical rankings across runs and platforms.
//
// At current pool sizes a linear scan is fine; if candidate sets grow
// large, a spatial index can replace the scan behind the same contract.
package geo

import (
	"errors"
	"math"
	"sort"
)

// EarthRadiusKm is the sphere radius used by Haversine.
const EarthRadiusKm = 6371.0

// DefaultLimit is the number of results returned when the caller does
// not specify one.
const DefaultLimit = 10

// ErrInvalidLimit is returned by Nearest when limit is not positive.
var ErrInvalidLimit = errors.New("limit must be a positive integer")

// Point is a WGS84 coordinate pair in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Located is anything that may carry coordinates. The second return
// value is false when the candidate has no usable position; such
// candidates are ranked after every located one.
type Located interface {
	Coordinates() (Point, bool)
}

// Haversine returns the great-circle distance between a and b in
// kilometers.
func Haversine(a, b Point) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	s := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
	return EarthRadiusKm * c
}

// Nearest ranks candidates by ascending haversine distance from origin
// and returns at most limit of them. The sort is stable: candidates at
// equal distance keep their input order, and candidates without
// coordinates (distance +Inf) trail the list in input order.
//
// A non-positive limit yields ErrInvalidLimit. The input slice is never
// mutated.
func Nearest(origin Point, candidates []Located, limit int) ([]Located, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	type ranked struct {
		c    Located
		dist float64
	}
	buf := make([]ranked, 0, len(candidates))
	for _, c := range candidates {
		d := math.Inf(1)
		if p, ok := c.Coordinates(); ok {
			d = Haversine(origin, p)
		}
		buf = append(buf, ranked{c: c, dist: d})
	}

	sort.SliceStable(buf, func(i, j int) bool { return buf[i].dist < buf[j].dist })

	if limit > len(buf) {
		limit = len(buf)
	}
	out := make([]Located, limit)
	for i := 0; i < limit; i++ {
		out[i] = buf[i].c
	}
	return out, nil
}

// NearestDefault is Nearest with DefaultLimit.
func NearestDefault(origin Point, candidates []Located) []Located {
	out, _ := Nearest(origin, candidates, DefaultLimit)
	return out
}

func toRadians(deg float64) float64 { return deg * (math.Pi / 180) }

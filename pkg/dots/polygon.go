package dots

import (
	"errors"
	"math/rand/v2"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"github.com/twpayne/go-geom/xy/location"
)

// ErrExhausted is returned by [GeneratePoints] when the attempt budget ran
// out before every point was placed.
var ErrExhausted = errors.New("rejection sampling exhausted its attempt budget")

// Contains reports whether (x, y) lies inside g or on its boundary. g must
// be a *geom.Polygon or *geom.MultiPolygon; other types contain nothing.
func Contains(g geom.T, x, y float64) bool {
	c := geom.Coord{x, y}
	switch g := g.(type) {
	case *geom.Polygon:
		return polygonContains(g, c)
	case *geom.MultiPolygon:
		for i := 0; i < g.NumPolygons(); i++ {
			if polygonContains(g.Polygon(i), c) {
				return true
			}
		}
	}
	return false
}

// polygonContains accepts points in the shell that are not strictly inside
// a hole. Hole edges are part of the polygon boundary.
func polygonContains(p *geom.Polygon, c geom.Coord) bool {
	n := p.NumLinearRings()
	if n == 0 {
		return false
	}
	layout := p.Layout()
	if !xy.IsPointInRing(layout, c, p.LinearRing(0).FlatCoords()) {
		return false
	}
	for i := 1; i < n; i++ {
		if xy.LocatePointInRing(layout, c, p.LinearRing(i).FlatCoords()) == location.Interior {
			return false
		}
	}
	return true
}

// GeneratePoints draws n points uniformly inside g. Each candidate takes x
// then y from the bounding box. maxAttempts bounds the total number of
// candidates; zero means unbounded. On exhaustion the points found so far
// are returned with [ErrExhausted].
func GeneratePoints(rng *rand.Rand, g geom.T, n, maxAttempts int) ([]geom.Coord, error) {
	if n <= 0 || g == nil || g.Empty() {
		return nil, nil
	}
	b := g.Bounds()
	minX, minY, maxX, maxY := b.Min(0), b.Min(1), b.Max(0), b.Max(1)

	points := make([]geom.Coord, 0, n)
	for attempts := 0; len(points) < n; attempts++ {
		if maxAttempts > 0 && attempts >= maxAttempts {
			return points, ErrExhausted
		}
		x := uniform(rng, minX, maxX)
		y := uniform(rng, minY, maxY)
		if Contains(g, x, y) {
			points = append(points, geom.Coord{x, y})
		}
	}
	return points, nil
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

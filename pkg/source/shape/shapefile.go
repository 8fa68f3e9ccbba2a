package shape

import (
	"math"

	"github.com/jonas-p/go-shp"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"

	"github.com/matzehuels/censusdots/pkg/tract"
)

func loadShapefile(src string, opts Options) (*Table, error) {
	r, err := shp.Open(src)
	if err != nil {
		return nil, wrapRead(src, err)
	}
	defer r.Close()

	keyIdx := -1
	for i, f := range r.Fields() {
		if f.String() == opts.KeyField {
			keyIdx = i
			break
		}
	}
	if keyIdx < 0 {
		return nil, missingKeyField(src, opts.KeyField)
	}

	t := &Table{Source: src}
	for r.Next() {
		n, s := r.Shape()
		g, ok := convertShape(s)
		if !ok {
			t.Stats.Unsupported++
		}
		key, keyOK := tract.ParseKey(r.ReadAttribute(n, keyIdx))
		t.add(key, keyOK, g)
	}
	if err := r.Err(); err != nil {
		return nil, wrapRead(src, err)
	}
	return t, nil
}

// convertShape turns a shapefile polygon into a go-geom geometry. The bool
// is false for shape types that are not polygons; they convert to an empty
// polygon.
func convertShape(s shp.Shape) (geom.T, bool) {
	switch p := s.(type) {
	case *shp.Polygon:
		return fromParts(p.Parts, p.Points), true
	case *shp.PolygonZ:
		return fromParts(p.Parts, p.Points), true
	case *shp.PolygonM:
		return fromParts(p.Parts, p.Points), true
	case *shp.Null, nil:
		return emptyPolygon(), true
	default:
		return emptyPolygon(), false
	}
}

// fromParts groups shapefile rings into polygons. Clockwise rings are
// shells; each counter-clockwise ring becomes a hole of the smallest shell
// containing its first vertex, regardless of ring order. A hole inside no
// shell is treated as a shell.
func fromParts(parts []int32, points []shp.Point) geom.T {
	var shells, holes [][]float64
	for i, start := range parts {
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || end > int32(len(points)) || end-start < 4 {
			continue
		}

		ring := make([]float64, 0, 2*(end-start))
		for _, pt := range points[start:end] {
			ring = append(ring, pt.X, pt.Y)
		}
		if xy.IsRingCounterClockwise(geom.XY, ring) {
			holes = append(holes, ring)
		} else {
			shells = append(shells, ring)
		}
	}

	polys := make([][][]float64, len(shells))
	areas := make([]float64, len(shells))
	for i, sh := range shells {
		polys[i] = [][]float64{sh}
		areas[i] = ringArea(sh)
	}
	var orphans [][][]float64
	for _, h := range holes {
		owner := -1
		first := geom.Coord{h[0], h[1]}
		for i, sh := range shells {
			if !xy.IsPointInRing(geom.XY, first, sh) {
				continue
			}
			if owner < 0 || areas[i] < areas[owner] {
				owner = i
			}
		}
		if owner < 0 {
			orphans = append(orphans, [][]float64{h})
			continue
		}
		polys[owner] = append(polys[owner], h)
	}
	return buildPolygons(append(polys, orphans...))
}

func ringArea(ring []float64) float64 {
	return math.Abs(geom.NewLinearRingFlat(geom.XY, ring).Area())
}

// buildPolygons assembles flat rings into a Polygon, or a MultiPolygon when
// there is more than one shell.
func buildPolygons(polys [][][]float64) geom.T {
	switch len(polys) {
	case 0:
		return emptyPolygon()
	case 1:
		return polygonFromRings(polys[0])
	}
	mp := geom.NewMultiPolygon(geom.XY)
	for _, rings := range polys {
		// Layouts always match, so Push cannot fail.
		_ = mp.Push(polygonFromRings(rings))
	}
	return mp
}

func polygonFromRings(rings [][]float64) *geom.Polygon {
	var flat []float64
	ends := make([]int, 0, len(rings))
	for _, r := range rings {
		flat = append(flat, r...)
		ends = append(ends, len(flat))
	}
	return geom.NewPolygonFlat(geom.XY, flat, ends)
}

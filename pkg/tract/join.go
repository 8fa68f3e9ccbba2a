package tract

// JoinStats summarizes what the inner join kept and dropped.
type JoinStats struct {
	Matched             int // joined pairs emitted
	InvalidAttrKeys     int // attribute rows whose key did not coerce
	InvalidGeomKeys     int // geometries whose key did not coerce
	UnmatchedAttributes int // attribute rows with a valid key but no geometry
	UnmatchedGeometries int // geometries with a valid key but no attribute row
}

// Join inner-joins attributes and geometries on their keys.
//
// The result follows attribute order; for a key that appears several times
// on either side every combination is emitted (geometry order within an
// attribute row). Records with invalid keys never match.
func Join(attrs []AttributeRecord, geoms []GeometryRecord) ([]Joined, JoinStats) {
	var stats JoinStats

	byKey := make(map[int64][]int, len(geoms))
	for i := range geoms {
		if !geoms[i].KeyValid {
			stats.InvalidGeomKeys++
			continue
		}
		byKey[geoms[i].Key] = append(byKey[geoms[i].Key], i)
	}

	used := make(map[int64]bool, len(byKey))
	var out []Joined
	for i := range attrs {
		a := &attrs[i]
		if !a.KeyValid {
			stats.InvalidAttrKeys++
			continue
		}
		matches := byKey[a.Key]
		if len(matches) == 0 {
			stats.UnmatchedAttributes++
			continue
		}
		used[a.Key] = true
		for _, gi := range matches {
			out = append(out, Joined{Key: a.Key, Attributes: a, Geometry: &geoms[gi]})
		}
	}

	for key, idx := range byKey {
		if !used[key] {
			stats.UnmatchedGeometries += len(idx)
		}
	}
	stats.Matched = len(out)
	return out, stats
}

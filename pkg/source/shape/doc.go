// Package shape loads tract boundaries keyed by tract identifier.
//
// Two sources are supported:
//
//   - ESRI shapefiles, given as a directory (the first *.shp inside it, in
//     lexical order) or as a .shp path. Attributes come from the sibling
//     .dbf file.
//   - GeoJSON FeatureCollections (.geojson or .json) with Polygon or
//     MultiPolygon features.
//
// Geometries are returned as go-geom values in whatever coordinate
// reference system the source uses; nothing is reprojected or repaired.
//
//	tbl, err := shape.Load("data/tl_2020_36_tract", shape.Options{KeyField: "GEOID"})
package shape

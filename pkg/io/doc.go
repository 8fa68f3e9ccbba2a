// Package io writes dot-density points for downstream mapping tools.
//
// # CSV
//
// The default format is a flat table with a header and one row per point,
// no index column:
//
//	column,latitude,longitude
//	German,0.6046602879796196,0.9405090880450124
//
// "column" is the category label, latitude the y and longitude the x
// coordinate of the source geometry. The header is written even when there
// are no points.
//
// # GeoJSON
//
// A FeatureCollection of Point features with a "category" property, for
// tools that prefer geometry input:
//
//	{"type":"FeatureCollection","features":[{"type":"Feature",
//	  "geometry":{"type":"Point","coordinates":[0.94,0.60]},
//	  "properties":{"category":"German"}}]}
//
// Use [Export] to write a file, or [WriteCSV] and [WriteGeoJSON] for any
// io.Writer.
package io

package tract

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/twpayne/go-geom"
)

// Count is a coerced numeric cell. Valid is false when the raw value was
// missing or could not be parsed.
type Count struct {
	Value float64
	Valid bool
}

// AttributeRecord is one row of the attribute table.
type AttributeRecord struct {
	Key      int64
	KeyValid bool

	// Values holds the raw cell of every selected column.
	Values map[string]string

	// Counts holds the coerced cells of the numeric columns.
	Counts map[string]Count
}

// Count returns the numeric value of column. Columns outside the numeric
// range are coerced from their raw cell on demand.
func (r AttributeRecord) Count(column string) (float64, bool) {
	if c, ok := r.Counts[column]; ok {
		return c.Value, c.Valid
	}
	raw, ok := r.Values[column]
	if !ok {
		return 0, false
	}
	c := ParseCount(raw)
	return c.Value, c.Valid
}

// GeometryRecord is one boundary of the geometry table. Geometry is a
// *geom.Polygon or *geom.MultiPolygon and may be empty.
type GeometryRecord struct {
	Key      int64
	KeyValid bool
	Geometry geom.T
}

// Empty reports whether the record has no usable boundary.
func (r GeometryRecord) Empty() bool {
	return r.Geometry == nil || r.Geometry.Empty()
}

// Joined pairs the attributes and the boundary of one tract.
type Joined struct {
	Key        int64
	Attributes *AttributeRecord
	Geometry   *GeometryRecord
}

// ParseKey coerces a tract identifier to int64. Integers are parsed in base
// 10 so zero-padded codes like "01001" keep their value; integral floats
// such as "1001.0" are accepted too. Surrounding whitespace and NUL padding
// (as left in DBF text fields) are ignored.
func ParseKey(s string) (int64, bool) {
	s = strings.TrimFunc(s, isPadding)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func isPadding(r rune) bool {
	return r == 0 || unicode.IsSpace(r)
}

// KeyFromValue coerces a decoded property value (from GeoJSON or a DBF
// field) to a tract key.
func KeyFromValue(v any) (int64, bool) {
	switch x := v.(type) {
	case string:
		return ParseKey(x)
	case float64:
		return ParseKey(strconv.FormatFloat(x, 'f', -1, 64))
	case int:
		return int64(x), true
	case int64:
		return x, true
	}
	return 0, false
}

// ParseCount coerces a raw count cell. Empty, non-numeric, NaN and infinite
// values are missing.
func ParseCount(s string) Count {
	s = strings.TrimSpace(s)
	if s == "" {
		return Count{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Count{}
	}
	return Count{Value: f, Valid: true}
}

package shape

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/twpayne/go-geom"

	"github.com/matzehuels/censusdots/pkg/errors"
	"github.com/matzehuels/censusdots/pkg/tract"
)

// DefaultKeyField is the attribute holding the tract identifier in TIGER/Line
// cartographic boundary files.
const DefaultKeyField = "GEOID"

// Options configures geometry loading.
type Options struct {
	// KeyField names the attribute with the tract identifier.
	KeyField string
}

func (o *Options) setDefaults() {
	if o.KeyField == "" {
		o.KeyField = DefaultKeyField
	}
}

// Stats counts what the loader read.
type Stats struct {
	Records     int // geometries read
	InvalidKeys int // key attribute missing or not an integer
	Empty       int // null or empty geometries
	Unsupported int // geometries that are not polygons
}

// Table is the loaded geometry table.
type Table struct {
	// Source is the file the geometries were read from.
	Source  string
	Records []tract.GeometryRecord
	Stats   Stats
}

func (t *Table) add(key int64, keyOK bool, g geom.T) {
	t.Stats.Records++
	if !keyOK {
		t.Stats.InvalidKeys++
	}
	if g == nil || g.Empty() {
		t.Stats.Empty++
	}
	t.Records = append(t.Records, tract.GeometryRecord{Key: key, KeyValid: keyOK, Geometry: g})
}

// Load reads geometries from path, dispatching on its kind: a directory or
// .shp file is read as a shapefile, .geojson and .json as GeoJSON.
func Load(path string, opts Options) (*Table, error) {
	opts.setDefaults()

	src, err := Resolve(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(src)) {
	case ".shp":
		return loadShapefile(src, opts)
	case ".geojson", ".json":
		return loadGeoJSONFile(src, opts)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported geometry source %s (want a shapefile or GeoJSON)", src)
	}
}

// Resolve maps a geometry path to the file that will be read. Directories
// resolve to their first .shp file.
func Resolve(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "geometry source %s", path)
		}
		return "", errors.Wrap(errors.ErrCodeIO, err, "stat %s", path)
	}
	if !info.IsDir() {
		return path, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "list %s", path)
	}
	var shps []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".shp") {
			shps = append(shps, e.Name())
		}
	}
	if len(shps) == 0 {
		return "", errors.New(errors.ErrCodeFileNotFound, "no .shp file in %s", path)
	}
	sort.Strings(shps)
	return filepath.Join(path, shps[0]), nil
}

// emptyPolygon stands in for null shapes so every record has a geometry.
func emptyPolygon() geom.T {
	return geom.NewPolygon(geom.XY)
}

func wrapRead(src string, err error) error {
	return errors.Wrap(errors.ErrCodeIO, err, "read %s", src)
}

func missingKeyField(src, field string) error {
	return errors.New(errors.ErrCodeMissingColumn, "key field %q not found in %s", field, src)
}

package shape

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"os"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/matzehuels/censusdots/pkg/errors"
	"github.com/matzehuels/censusdots/pkg/tract"
)

func loadGeoJSONFile(src string, opts Options) (*Table, error) {
	f, err := os.Open(src)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "geometry source %s", src)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", src)
	}
	defer f.Close()

	t, err := ReadGeoJSON(f, opts)
	if err != nil {
		return nil, err
	}
	t.Source = src
	return t, nil
}

// ReadGeoJSON reads a FeatureCollection from r. Features whose geometry is
// not a Polygon or MultiPolygon are kept with an empty geometry.
func ReadGeoJSON(r io.Reader, opts Options) (*Table, error) {
	opts.setDefaults()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, wrapRead("GeoJSON", err)
	}
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode GeoJSON")
	}

	t := &Table{}
	seenKey := false
	for _, feat := range fc.Features {
		raw, ok := feat.Properties[opts.KeyField]
		seenKey = seenKey || ok
		key, keyOK := tract.KeyFromValue(raw)

		g := feat.Geometry
		switch g.(type) {
		case *geom.Polygon, *geom.MultiPolygon:
		case nil:
			g = emptyPolygon()
		default:
			t.Stats.Unsupported++
			g = emptyPolygon()
		}
		t.add(key, keyOK, g)
	}
	if len(fc.Features) > 0 && !seenKey {
		return nil, missingKeyField("GeoJSON", opts.KeyField)
	}
	return t, nil
}

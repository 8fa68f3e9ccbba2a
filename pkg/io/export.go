package io

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/matzehuels/censusdots/pkg/dots"
	"github.com/matzehuels/censusdots/pkg/errors"
)

// Output formats.
const (
	FormatCSV     = "csv"
	FormatGeoJSON = "geojson"
)

// Header is the CSV header row.
var Header = []string{"column", "latitude", "longitude"}

// ValidateFormat checks that format is a supported output format.
func ValidateFormat(format string) error {
	switch format {
	case FormatCSV, FormatGeoJSON:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidConfig, "invalid format: %q (must be csv or geojson)", format)
}

// FormatFromPath infers the output format from the file extension. Anything
// other than .geojson or .json is CSV.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return FormatGeoJSON
	}
	return FormatCSV
}

// WriteCSV writes points as CSV rows: label, latitude, longitude.
func WriteCSV(w io.Writer, points []dots.Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, 3)
	for _, p := range points {
		row[0] = p.Category
		row[1] = formatFloat(p.Lat)
		row[2] = formatFloat(p.Lon)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGeoJSON writes points as a FeatureCollection of Point features.
func WriteGeoJSON(w io.Writer, points []dots.Point) error {
	fc := geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(points))}
	for _, p := range points {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   geom.NewPointFlat(geom.XY, []float64{p.Lon, p.Lat}),
			Properties: map[string]interface{}{"category": p.Category},
		})
	}
	if err := json.NewEncoder(w).Encode(&fc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Write dispatches to the writer for format.
func Write(w io.Writer, format string, points []dots.Point) error {
	switch format {
	case FormatCSV, "":
		return WriteCSV(w, points)
	case FormatGeoJSON:
		return WriteGeoJSON(w, points)
	}
	return ValidateFormat(format)
}

// Export writes points to a file at path, creating parent directories.
// An empty format is inferred from the path.
func Export(path, format string, points []dots.Point) error {
	if format == "" {
		format = FormatFromPath(path)
	}
	if err := ValidateFormat(format); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "create %s", dir)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	bw := bufio.NewWriter(f)
	if err := Write(bw, format, points); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close %s", path)
	}
	return nil
}

// formatFloat uses the shortest decimal that round-trips.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package io

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/censusdots/pkg/dots"
	"github.com/matzehuels/censusdots/pkg/errors"
)

var points = []dots.Point{
	{Category: "German", Lat: 0.25, Lon: 0.5},
	{Category: "Irish, Scotch", Lat: 40.7128, Lon: -74.006},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, points))

	want := "column,latitude,longitude\n" +
		"German,0.25,0.5\n" +
		"\"Irish, Scotch\",40.7128,-74.006\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "column,latitude,longitude\n", buf.String())
}

func TestWriteGeoJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, points))

	var got struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]string `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "FeatureCollection", got.Type)
	require.Len(t, got.Features, 2)
	assert.Equal(t, "Point", got.Features[0].Geometry.Type)
	assert.Equal(t, []float64{0.5, 0.25}, got.Features[0].Geometry.Coordinates, "GeoJSON is lon, lat")
	assert.Equal(t, "German", got.Features[0].Properties["category"])
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatCSV, FormatFromPath("dots.csv"))
	assert.Equal(t, FormatCSV, FormatFromPath("dots"))
	assert.Equal(t, FormatGeoJSON, FormatFromPath("dots.geojson"))
	assert.Equal(t, FormatGeoJSON, FormatFromPath("out/DOTS.JSON"))
}

func TestValidateFormat(t *testing.T) {
	assert.NoError(t, ValidateFormat(FormatCSV))
	assert.NoError(t, ValidateFormat(FormatGeoJSON))
	err := ValidateFormat("shp")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "dots.csv")

	require.NoError(t, Export(path, "", points))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "German,0.25,0.5")

	gj := filepath.Join(dir, "dots.geojson")
	require.NoError(t, Export(gj, "", points))
	data, err = os.ReadFile(gj)
	require.NoError(t, err)
	assert.Contains(t, string(data), "FeatureCollection")

	assert.Error(t, Export(filepath.Join(dir, "x.csv"), "xml", points))
}

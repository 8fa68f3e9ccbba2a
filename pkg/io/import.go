package io

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/censusdots/pkg/dots"
	"github.com/matzehuels/censusdots/pkg/errors"
)

// ReadCSV decodes points written by [WriteCSV].
//
// The header must be exactly column,latitude,longitude. Rows with the wrong
// number of fields or non-numeric coordinates are errors; ReadCSV does not
// skip anything, since a partially read point file is not useful.
func ReadCSV(r io.Reader) ([]dots.Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)
	cr.ReuseRecord = true

	head, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty point file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range Header {
		if head[i] != h {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unexpected header %q, want %q", head[i], h)
		}
	}

	var points []dots.Point
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			return points, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		lat, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "row %d: latitude", line)
		}
		lon, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "row %d: longitude", line)
		}
		points = append(points, dots.Point{Category: row[0], Lat: lat, Lon: lon})
	}
}

// ImportCSV reads points from a CSV file.
func ImportCSV(path string) ([]dots.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "point file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()
	return ReadCSV(f)
}

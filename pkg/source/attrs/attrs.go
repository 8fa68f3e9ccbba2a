// Package attrs loads the demographic attribute table from CSV.
//
// The expected layout is a Social Explorer style export: a header row, one
// descriptive row directly under it (discarded), a block of identifying
// columns ending at the "start" marker, a block of unused columns, and the
// count columns from the "total" marker onward.
package attrs

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/censusdots/pkg/errors"
	"github.com/matzehuels/censusdots/pkg/tract"
)

// Default marker and key columns.
const (
	DefaultStartColumn      = "Census Tract"
	DefaultTotalColumn      = "Total Population"
	DefaultCountStartColumn = "Total Population:"
	DefaultKeyColumn        = "FIPS"
)

// Options selects the marker and key columns. Zero fields take the defaults.
type Options struct {
	// StartColumn is the last identifying column that is kept.
	StartColumn string
	// TotalColumn is the first count column that is kept.
	TotalColumn string
	// CountStartColumn marks the numeric block: every kept column after it
	// is coerced to a number.
	CountStartColumn string
	// KeyColumn holds the tract identifier.
	KeyColumn string
}

func (o *Options) setDefaults() {
	if o.StartColumn == "" {
		o.StartColumn = DefaultStartColumn
	}
	if o.TotalColumn == "" {
		o.TotalColumn = DefaultTotalColumn
	}
	if o.CountStartColumn == "" {
		o.CountStartColumn = DefaultCountStartColumn
	}
	if o.KeyColumn == "" {
		o.KeyColumn = DefaultKeyColumn
	}
}

// Stats counts what the loader read and what it could not coerce.
type Stats struct {
	Rows         int // data rows after the discarded descriptive row
	InvalidKeys  int // rows whose key column did not coerce
	MissingCells int // numeric cells that were empty or non-numeric
}

// Table is the loaded attribute table.
type Table struct {
	// Columns lists the selected columns in source order.
	Columns []string
	// Numeric lists the coerced count columns in source order.
	Numeric []string
	Records []tract.AttributeRecord
	Stats   Stats
}

// HasColumn reports whether name survived column selection.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// LoadFile opens path and calls [Load].
func LoadFile(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "attribute table %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()

	t, err := Load(f, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}

// Load parses an attribute table from r.
//
// Missing or duplicated marker columns are configuration errors. Values that
// do not coerce are recorded as missing and never fail the load.
func Load(r io.Reader, opts Options) (*Table, error) {
	opts.setDefaults()

	cr := newReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidInput, "attribute table is empty")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read header")
	}

	sel, err := selectColumns(header, opts)
	if err != nil {
		return nil, err
	}

	t := &Table{Columns: sel.names, Numeric: sel.numericNames()}

	// The row under the header describes the columns; it is not data.
	if _, err := cr.Read(); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read descriptive row")
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "read row %d", t.Stats.Rows+3)
		}
		t.Stats.Rows++
		t.Records = append(t.Records, sel.record(row, &t.Stats))
	}
	return t, nil
}

// Header reads only the header row of the CSV at path.
func Header(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "attribute table %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()

	header, err := newReader(f).Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s is empty", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read header of %s", path)
	}
	return header, nil
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	return cr
}

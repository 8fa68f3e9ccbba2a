// Package config loads and validates run configuration.
//
// A run is described by a TOML or YAML file; the format follows the file
// extension. Paths are joined the way the census data directory is laid
// out on disk:
//
//	<base_dir>/<raw_dir>/<attributes_dir>/<csv_file>
//	<base_dir>/<raw_dir>/<geometry_dir>/<shapefile_dir>
//	<base_dir>/<output_file>
//
// Minimal TOML example:
//
//	base_dir      = "/data/census"
//	csv_file      = "R12345.csv"
//	shapefile_dir = "tl_2019_36_tract"
//	output_file   = "ancestry_dots.csv"
//	cutoff        = ":"
//	categories    = ["Total Population: German", "Total Population: Irish"]
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/censusdots/pkg/dots"
	"github.com/matzehuels/censusdots/pkg/errors"
	dotio "github.com/matzehuels/censusdots/pkg/io"
	"github.com/matzehuels/censusdots/pkg/source/attrs"
	"github.com/matzehuels/censusdots/pkg/source/shape"
)

// Default directory names under the base directory.
const (
	DefaultRawDir        = "_input_raw_data"
	DefaultAttributesDir = "social_explorer_tract_ancestry_data"
	DefaultGeometryDir   = "us_census_cartography"
)

// Config describes one dot-density run.
type Config struct {
	// Categories are the attribute columns to emit points for, in output order.
	Categories []string `toml:"categories" yaml:"categories"`

	// Labels maps a category column to its output label. Columns without an
	// entry get a label derived with Cutoff.
	Labels map[string]string `toml:"labels" yaml:"labels"`

	// Cutoff is the separator after which a column header becomes its label.
	Cutoff string `toml:"cutoff" yaml:"cutoff"`

	// Paths
	BaseDir       string `toml:"base_dir" yaml:"base_dir"`
	RawDir        string `toml:"raw_dir" yaml:"raw_dir"`
	AttributesDir string `toml:"attributes_dir" yaml:"attributes_dir"`
	GeometryDir   string `toml:"geometry_dir" yaml:"geometry_dir"`
	CSVFile       string `toml:"csv_file" yaml:"csv_file"`
	ShapefileDir  string `toml:"shapefile_dir" yaml:"shapefile_dir"`
	OutputFile    string `toml:"output_file" yaml:"output_file"`

	// Format is the output format: csv or geojson. Empty infers it from
	// OutputFile.
	Format string `toml:"format" yaml:"format"`

	// Sampling
	Seed                uint64  `toml:"seed" yaml:"seed"`
	Divisor             float64 `toml:"divisor" yaml:"divisor"`
	MaxAttemptsPerPoint int     `toml:"max_attempts_per_point" yaml:"max_attempts_per_point"`

	Columns Columns `toml:"columns" yaml:"columns"`
}

// Columns names the marker and key columns of the inputs.
type Columns struct {
	Start       string `toml:"start" yaml:"start"`
	Total       string `toml:"total" yaml:"total"`
	CountStart  string `toml:"count_start" yaml:"count_start"`
	Key         string `toml:"key" yaml:"key"`
	GeometryKey string `toml:"geometry_key" yaml:"geometry_key"`
}

// Default returns a configuration with every optional field set.
func Default() *Config {
	return &Config{
		RawDir:              DefaultRawDir,
		AttributesDir:       DefaultAttributesDir,
		GeometryDir:         DefaultGeometryDir,
		Seed:                dots.DefaultSeed,
		Divisor:             dots.DefaultDivisor,
		MaxAttemptsPerPoint: dots.DefaultMaxAttemptsPerPoint,
		Columns: Columns{
			Start:       attrs.DefaultStartColumn,
			Total:       attrs.DefaultTotalColumn,
			CountStart:  attrs.DefaultCountStartColumn,
			Key:         attrs.DefaultKeyColumn,
			GeometryKey: shape.DefaultKeyField,
		},
	}
}

// Load reads a configuration file over the defaults. The file is not
// validated; call [Config.Validate] once overrides are applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read config %s", path)
	}
	cfg, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return cfg, nil
}

// Parse decodes data in the given format ("toml" or "yaml") over the
// defaults. Unknown keys are rejected.
func Parse(data []byte, format string) (*Config, error) {
	cfg := Default()
	switch format {
	case "toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
		}
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return nil, err
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (use .toml, .yaml or .yml)", format)
	}
	return cfg, nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	}
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// AttributesPath is the attribute CSV location.
func (c *Config) AttributesPath() string {
	return filepath.Join(c.BaseDir, c.RawDir, c.AttributesDir, c.CSVFile)
}

// GeometryPath is the tract boundary location: a shapefile directory, a
// .shp file, or a GeoJSON file.
func (c *Config) GeometryPath() string {
	return filepath.Join(c.BaseDir, c.RawDir, c.GeometryDir, c.ShapefileDir)
}

// OutputPath is where points are written.
func (c *Config) OutputPath() string {
	return filepath.Join(c.BaseDir, c.OutputFile)
}

// OutputFormat is the configured format, or the one implied by OutputFile.
func (c *Config) OutputFormat() string {
	if c.Format != "" {
		return c.Format
	}
	return dotio.FormatFromPath(c.OutputFile)
}

// CategoryList returns the categories with their output labels.
func (c *Config) CategoryList() []dots.Category {
	return dots.Categories(c.Categories, c.Labels, c.Cutoff)
}

// AttrsOptions returns the attribute loader options.
func (c *Config) AttrsOptions() attrs.Options {
	return attrs.Options{
		StartColumn:      c.Columns.Start,
		TotalColumn:      c.Columns.Total,
		CountStartColumn: c.Columns.CountStart,
		KeyColumn:        c.Columns.Key,
	}
}

// ShapeOptions returns the geometry loader options.
func (c *Config) ShapeOptions() shape.Options {
	return shape.Options{KeyField: c.Columns.GeometryKey}
}

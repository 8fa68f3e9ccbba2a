// Package pipeline runs the dot-density conversion end to end.
//
// This package implements the load → join → sample → export pipeline used
// by the CLI. Keeping the stages here means every entry point applies the
// same defaults, logging, and hooks.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Read the attribute table and the tract boundaries (concurrently)
//  2. Join: Inner-join attribute and geometry records on the tract key
//  3. Sample: Place floor(count/divisor) points per (tract, category) pair
//  4. Export: Write the points as CSV or GeoJSON
//
// Each stage can be run on its own through the [Runner].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    AttributesPath: "data/R12345.csv",
//	    GeometryPath:   "data/tl_2019_36_tract",
//	    OutputPath:     "out/dots.csv",
//	    Categories:     dots.Categories(columns, nil, ":"),
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(result.Points))
package pipeline

import (
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/censusdots/pkg/config"
	"github.com/matzehuels/censusdots/pkg/dots"
	"github.com/matzehuels/censusdots/pkg/errors"
	dotio "github.com/matzehuels/censusdots/pkg/io"
	"github.com/matzehuels/censusdots/pkg/source/attrs"
	"github.com/matzehuels/censusdots/pkg/source/shape"
	"github.com/matzehuels/censusdots/pkg/tract"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Inputs
	AttributesPath string
	GeometryPath   string
	Attrs          attrs.Options
	Shape          shape.Options

	// Categories are sampled in order; their labels become the point labels.
	Categories []dots.Category

	// Sampling
	Seed                uint64  // zero means dots.DefaultSeed
	Divisor             float64 // zero means dots.DefaultDivisor
	MaxAttemptsPerPoint int     // zero means unbounded, negative means the default

	// Output. An empty OutputPath skips the export stage.
	OutputPath string
	Format     string

	// Refresh ignores cached points (fresh points are still cached).
	Refresh bool

	// Runtime options
	Logger *log.Logger
	// Rand overrides the generator derived from Seed.
	Rand *rand.Rand

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// FromConfig builds options from a validated configuration.
func FromConfig(cfg *config.Config) Options {
	return Options{
		AttributesPath:      cfg.AttributesPath(),
		GeometryPath:        cfg.GeometryPath(),
		Attrs:               cfg.AttrsOptions(),
		Shape:               cfg.ShapeOptions(),
		Categories:          cfg.CategoryList(),
		Seed:                cfg.Seed,
		Divisor:             cfg.Divisor,
		MaxAttemptsPerPoint: cfg.MaxAttemptsPerPoint,
		OutputPath:          cfg.OutputPath(),
		Format:              cfg.OutputFormat(),
	}
}

// Inputs holds the loaded tables.
type Inputs struct {
	Attributes *attrs.Table
	Geometry   *shape.Table
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Points are the generated dots in output order.
	Points []dots.Point

	// OutputPath is the written file, empty when export was skipped.
	OutputPath string

	// CacheHit reports that points came from the cache; Stats then only
	// carries the export time.
	CacheHit bool

	// Stats contains counts and timings for each stage.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Attributes attrs.Stats
	Geometry   shape.Stats
	Join       tract.JoinStats
	Sample     dots.Stats

	LoadTime   time.Duration
	JoinTime   time.Duration
	SampleTime time.Duration
	ExportTime time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForSample(); err != nil {
		return err
	}
	if o.OutputPath != "" {
		if err := o.ValidateForExport(); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the input paths.
func (o *Options) ValidateForLoad() error {
	if o.AttributesPath == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "attributes path is required")
	}
	if o.GeometryPath == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "geometry path is required")
	}
	o.setLogger()
	return nil
}

// ValidateForSample checks categories and applies sampling defaults.
func (o *Options) ValidateForSample() error {
	if len(o.Categories) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "at least one category is required")
	}
	if o.Divisor < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "divisor must be positive, got %g", o.Divisor)
	}
	if o.Seed == 0 {
		o.Seed = dots.DefaultSeed
	}
	if o.Divisor == 0 {
		o.Divisor = dots.DefaultDivisor
	}
	o.setLogger()
	return nil
}

// ValidateForExport infers and checks the output format.
func (o *Options) ValidateForExport() error {
	if o.Format == "" {
		o.Format = dotio.FormatFromPath(o.OutputPath)
	}
	o.setLogger()
	return dotio.ValidateFormat(o.Format)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

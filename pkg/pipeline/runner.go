package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/censusdots/pkg/cache"
	"github.com/matzehuels/censusdots/pkg/dots"
	"github.com/matzehuels/censusdots/pkg/errors"
	dotio "github.com/matzehuels/censusdots/pkg/io"
	"github.com/matzehuels/censusdots/pkg/observability"
	"github.com/matzehuels/censusdots/pkg/source/attrs"
	"github.com/matzehuels/censusdots/pkg/source/shape"
	"github.com/matzehuels/censusdots/pkg/tract"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, log.Default() is used.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute runs the complete load → join → sample → export pipeline. When
// the cache holds points for the same inputs and sampling options, the
// first three stages are skipped.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID)
	opts.Logger = logger

	// An injected generator is not described by the seed, so its points are
	// never cached.
	var key string
	if opts.Rand == nil {
		key = r.pointsKey(opts)
	}
	if key != "" && !opts.Refresh {
		if points, ok := r.cachedPoints(ctx, key, logger); ok {
			result.Points = points
			result.CacheHit = true
			logger.Info("reusing cached points", "points", len(points))
		}
	}

	if !result.CacheHit {
		if err := r.generate(ctx, opts, result); err != nil {
			return nil, err
		}
		if key != "" {
			r.storePoints(ctx, key, result.Points, logger)
		}
	}

	// Stage 4: Export
	if opts.OutputPath == "" {
		return result, nil
	}
	exportStart := time.Now()
	if err := r.Export(ctx, result.Points, opts); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.OutputPath = opts.OutputPath
	result.Stats.ExportTime = time.Since(exportStart)

	logger.Info("wrote points",
		"path", opts.OutputPath,
		"format", opts.Format,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// generate runs the load, join, and sample stages into result.
func (r *Runner) generate(ctx context.Context, opts Options, result *Result) error {
	logger := opts.Logger

	// Stage 1: Load
	loadStart := time.Now()
	in, err := r.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Attributes = in.Attributes.Stats
	result.Stats.Geometry = in.Geometry.Stats

	logger.Info("loaded inputs",
		"rows", in.Attributes.Stats.Rows,
		"geometries", in.Geometry.Stats.Records,
		"duration", result.Stats.LoadTime)
	if n := in.Attributes.Stats.MissingCells; n > 0 {
		logger.Warn("attribute cells did not coerce to numbers", "cells", n)
	}
	if n := in.Geometry.Stats.Unsupported; n > 0 {
		logger.Warn("non-polygon geometries treated as empty", "records", n)
	}

	if err := CheckCategories(in.Attributes, opts.Categories); err != nil {
		return err
	}

	// Stage 2: Join
	joinStart := time.Now()
	joined, js := r.Join(ctx, in)
	result.Stats.Join = js
	result.Stats.JoinTime = time.Since(joinStart)

	logger.Info("joined tracts",
		"matched", js.Matched,
		"duration", result.Stats.JoinTime)
	if dropped := js.InvalidAttrKeys + js.InvalidGeomKeys; dropped > 0 {
		logger.Warn("records dropped for invalid keys",
			"attributes", js.InvalidAttrKeys,
			"geometries", js.InvalidGeomKeys)
	}
	if js.UnmatchedAttributes > 0 || js.UnmatchedGeometries > 0 {
		logger.Debug("records without a join partner",
			"attributes", js.UnmatchedAttributes,
			"geometries", js.UnmatchedGeometries)
	}

	// Stage 3: Sample
	sampleStart := time.Now()
	points, ss, err := r.Sample(ctx, joined, opts)
	result.Stats.Sample = ss
	result.Stats.SampleTime = time.Since(sampleStart)
	if err != nil {
		return fmt.Errorf("sample: %w", err)
	}
	result.Points = points

	logger.Info("sampled points",
		"points", ss.Points,
		"pairs", ss.Pairs,
		"duration", result.Stats.SampleTime)
	if ss.NonNumeric > 0 || ss.EmptyGeometry > 0 || ss.Exhausted > 0 || ss.Capped > 0 {
		logger.Warn("pairs skipped or cut short",
			"non_numeric", ss.NonNumeric,
			"empty_geometry", ss.EmptyGeometry,
			"exhausted", ss.Exhausted,
			"capped", ss.Capped)
	}
	return nil
}

// Load reads the attribute table and the geometry source concurrently.
func (r *Runner) Load(ctx context.Context, opts Options) (*Inputs, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}

	var in Inputs
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		t, err := attrs.LoadFile(opts.AttributesPath, opts.Attrs)
		n := 0
		if t != nil {
			n = len(t.Records)
		}
		observability.Pipeline().OnLoadComplete(ctx, "attributes", n, time.Since(start), err)
		in.Attributes = t
		return err
	})
	g.Go(func() error {
		start := time.Now()
		t, err := shape.Load(opts.GeometryPath, opts.Shape)
		n := 0
		if t != nil {
			n = len(t.Records)
			opts.Logger.Debug("read geometry", "source", t.Source)
		}
		observability.Pipeline().OnLoadComplete(ctx, "geometry", n, time.Since(start), err)
		in.Geometry = t
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &in, nil
}

// Join inner-joins the loaded tables on the tract key.
func (r *Runner) Join(ctx context.Context, in *Inputs) ([]tract.Joined, tract.JoinStats) {
	start := time.Now()
	joined, stats := tract.Join(in.Attributes.Records, in.Geometry.Records)
	observability.Pipeline().OnJoinComplete(ctx, stats.Matched, time.Since(start))
	return joined, stats
}

// Sample generates points for the joined tracts.
func (r *Runner) Sample(ctx context.Context, joined []tract.Joined, opts Options) ([]dots.Point, dots.Stats, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSample(); err != nil {
		return nil, dots.Stats{}, err
	}
	rng := opts.Rand
	if rng == nil {
		rng = dots.NewRand(opts.Seed)
	}
	s := dots.NewSampler(rng, dots.Options{
		Divisor:             opts.Divisor,
		MaxAttemptsPerPoint: opts.MaxAttemptsPerPoint,
		Logger:              opts.Logger,
	})

	start := time.Now()
	points, stats, err := s.Sample(ctx, joined, opts.Categories)
	observability.Pipeline().OnSampleComplete(ctx, len(points), time.Since(start), err)
	return points, stats, err
}

// Export writes points to opts.OutputPath.
func (r *Runner) Export(ctx context.Context, points []dots.Point, opts Options) error {
	if err := opts.ValidateForExport(); err != nil {
		return err
	}
	start := time.Now()
	err := dotio.Export(opts.OutputPath, opts.Format, points)
	observability.Pipeline().OnExportComplete(ctx, opts.Format, len(points), time.Since(start), err)
	return err
}

// CheckCategories verifies that every category column exists in the
// attribute table.
func CheckCategories(t *attrs.Table, categories []dots.Category) error {
	for _, c := range categories {
		if !t.HasColumn(c.Column) {
			return errors.New(errors.ErrCodeMissingColumn, "category column %q not found in attribute table", c.Column)
		}
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

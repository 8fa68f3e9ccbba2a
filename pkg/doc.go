// Package pkg provides the core libraries for censusdots dot-density
// generation.
//
// # Overview
//
// Censusdots turns tract-level census counts into points for dot-density
// maps: every point stands for a fixed number of people (15 by default) of
// one category and lies uniformly at random inside its tract. The pkg
// directory is organized into four main areas:
//
//  1. [source] - Input loaders (attribute tables, tract boundaries)
//  2. [tract] and [dots] - Domain logic (join, labels, sampling)
//  3. [pipeline] - Orchestration (load → join → sample → export)
//  4. [io], [cache], [config] - Output, reuse, and run configuration
//
// # Architecture
//
// The typical data flow through censusdots:
//
//	Attribute CSV          Shapefile / GeoJSON
//	      ↓                        ↓
//	[source/attrs]          [source/shape]
//	      └──────────┬─────────────┘
//	                 ↓
//	       [tract] (inner join on key)
//	                 ↓
//	       [dots] (rejection sampling)
//	                 ↓
//	       [io] (CSV or GeoJSON points)
//
// # Quick Start
//
// Load, join, sample, and write points without the pipeline:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/censusdots/pkg/dots"
//	    "github.com/matzehuels/censusdots/pkg/io"
//	    "github.com/matzehuels/censusdots/pkg/source/attrs"
//	    "github.com/matzehuels/censusdots/pkg/source/shape"
//	    "github.com/matzehuels/censusdots/pkg/tract"
//	)
//
//	// 1. Load inputs
//	a, _ := attrs.LoadFile("R12345.csv", attrs.Options{})
//	g, _ := shape.Load("tl_2019_36_tract", shape.Options{})
//
//	// 2. Join on the tract key
//	joined, _ := tract.Join(a.Records, g.Records)
//
//	// 3. Sample points
//	cats := dots.Categories([]string{"Total Ancestry: German"}, nil, ":")
//	s := dots.NewSampler(dots.NewRand(dots.DefaultSeed), dots.Options{})
//	points, _, _ := s.Sample(context.Background(), joined, cats)
//
//	// 4. Write CSV
//	_ = io.Export("dots.csv", io.FormatCSV, points)
//
// # Main Packages
//
// [source/attrs] - Attribute table loader: column selection between marker
// columns, descriptive-row skipping, key and count coercion.
//
// [source/shape] - Boundary loader for shapefiles and GeoJSON, producing
// go-geom polygons keyed by the tract identifier.
//
// [tract] - Record types, key parsing, and the inner join.
//
// [dots] - Category labels, point-in-polygon tests, and the seeded
// rejection sampler.
//
// [pipeline] - The complete run used by the CLI, with stage logging,
// observability hooks, and point caching.
//
// [cache] - File and null caches for generated points.
//
// [config] - TOML/YAML run configuration and validation.
//
// [errors] - Coded errors separating configuration problems from I/O.
//
// [observability] - Optional hooks for metrics and tracing backends.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/dots/...               # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// [source]: https://pkg.go.dev/github.com/matzehuels/censusdots/pkg/source
// [source/attrs]: https://pkg.go.dev/github.com/matzehuels/censusdots/pkg/source/attrs
// [source/shape]: https://pkg.go.dev/github.com/matzehuels/censusdots/pkg/source/shape
// [tract]: https://pkg.go.dev/github.com/matzehuels/censusdots/pkg/tract
// [dots]: https://pkg.go.dev/github.com/matzehuels/censusdots/pkg/dots
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/censusdots/pkg/pipeline
// [io]: https://pkg.go.dev/github.com/matzehuels/censusdots/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/censusdots/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/censusdots/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/censusdots/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/censusdots/pkg/observability
package pkg

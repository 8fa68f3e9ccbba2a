package dots

import (
	"context"
	"errors"
	"io"
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/twpayne/go-geom"

	"github.com/matzehuels/censusdots/pkg/observability"
	"github.com/matzehuels/censusdots/pkg/tract"
)

const (
	// DefaultDivisor is the number of people one point stands for.
	DefaultDivisor = 15

	// DefaultSeed seeds the generator when no seed is configured.
	DefaultSeed = uint64(42)

	// DefaultMaxAttemptsPerPoint bounds rejection sampling per point.
	DefaultMaxAttemptsPerPoint = 100_000

	// MaxPointsPerPair is the most points one (tract, category) pair can
	// request. Larger targets are clamped and counted in Stats.Capped.
	MaxPointsPerPair = math.MaxInt32
)

// Point is one dot: a category label at a location. Lat is the y and Lon
// the x coordinate of the source geometry.
type Point struct {
	Category string
	Lat      float64
	Lon      float64
}

// Options configures a [Sampler].
type Options struct {
	// Divisor is the number of people per point. Zero means DefaultDivisor.
	Divisor float64

	// MaxAttemptsPerPoint caps candidate draws per requested point. Zero
	// means unbounded; negative means DefaultMaxAttemptsPerPoint.
	MaxAttemptsPerPoint int

	// Logger receives warnings for exhausted pairs. Nil discards them.
	Logger *log.Logger
}

// Stats counts how each (category, tract) pair was handled.
type Stats struct {
	Pairs          int // pairs visited
	NonNumeric     int // count missing or not a number
	BelowThreshold int // floor(count/divisor) <= 0
	EmptyGeometry  int // boundary empty
	Sampled        int // pairs that produced points
	Exhausted      int // pairs cut short by the attempt cap
	Capped         int // pairs whose target exceeded MaxPointsPerPair
	Points         int // points emitted

	// PerCategory maps labels to emitted point counts.
	PerCategory map[string]int
}

// Sampler places dots for joined tracts.
type Sampler struct {
	rng  *rand.Rand
	opts Options
}

// NewRand returns the generator used for a seed. The stream is fixed for a
// given seed, which is what makes runs reproducible.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// NewSampler creates a sampler drawing from rng.
func NewSampler(rng *rand.Rand, opts Options) *Sampler {
	if opts.Divisor == 0 {
		opts.Divisor = DefaultDivisor
	}
	if opts.MaxAttemptsPerPoint < 0 {
		opts.MaxAttemptsPerPoint = DefaultMaxAttemptsPerPoint
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Sampler{rng: rng, opts: opts}
}

// Target returns the number of points for count: floor(count/divisor), or
// zero when count is not a finite positive number. The result never exceeds
// MaxPointsPerPair.
func (s *Sampler) Target(count float64) int {
	n, _ := s.target(count)
	return n
}

// target is Target plus whether the result was clamped.
func (s *Sampler) target(count float64) (int, bool) {
	if math.IsNaN(count) || math.IsInf(count, 0) || count <= 0 {
		return 0, false
	}
	n := math.Floor(count / s.opts.Divisor)
	if n > MaxPointsPerPair {
		return MaxPointsPerPair, true
	}
	return int(n), false
}

// Sample generates points for every category and tract. Categories are
// visited in order and tracts in order within each category, so the output
// order is fixed for a given input. The context is checked between tracts.
func (s *Sampler) Sample(ctx context.Context, tracts []tract.Joined, categories []Category) ([]Point, Stats, error) {
	stats := Stats{PerCategory: make(map[string]int, len(categories))}
	var out []Point

	for _, cat := range categories {
		for _, t := range tracts {
			if err := ctx.Err(); err != nil {
				return out, stats, err
			}
			stats.Pairs++

			pts, want, err := s.samplePair(t, cat, &stats)
			if errors.Is(err, ErrExhausted) {
				stats.Exhausted++
				s.opts.Logger.Warn("rejection sampling exhausted",
					"tract", t.Key,
					"category", cat.Label,
					"placed", len(pts),
					"requested", want)
				observability.Sampler().OnExhausted(ctx, t.Key, cat.Label, len(pts), want)
			}
			for _, c := range pts {
				out = append(out, Point{Category: cat.Label, Lat: c.Y(), Lon: c.X()})
			}
			stats.Points += len(pts)
			stats.PerCategory[cat.Label] += len(pts)
		}
	}
	return out, stats, nil
}

// samplePair returns the points placed for one pair and how many were
// requested.
func (s *Sampler) samplePair(t tract.Joined, cat Category, stats *Stats) ([]geom.Coord, int, error) {
	count, ok := t.Attributes.Count(cat.Column)
	if !ok {
		stats.NonNumeric++
		return nil, 0, nil
	}
	n, capped := s.target(count)
	if capped {
		stats.Capped++
		s.opts.Logger.Warn("point target clamped",
			"tract", t.Key,
			"category", cat.Label,
			"count", count,
			"points", n)
	}
	if n <= 0 {
		stats.BelowThreshold++
		return nil, 0, nil
	}
	if t.Geometry.Empty() {
		stats.EmptyGeometry++
		return nil, n, nil
	}

	stats.Sampled++
	budget := 0
	if s.opts.MaxAttemptsPerPoint > 0 {
		budget = s.opts.MaxAttemptsPerPoint * n
	}
	pts, err := GeneratePoints(s.rng, t.Geometry.Geometry, n, budget)
	return pts, n, err
}

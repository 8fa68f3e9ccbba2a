// Package dots turns per-tract counts into dot-density points.
//
// Every point stands for [DefaultDivisor] people of one category. For each
// (category, tract) pair the [Sampler] computes floor(count/divisor) and
// places that many points uniformly inside the tract boundary by rejection
// sampling: candidates are drawn uniformly from the bounding box and kept
// when they fall inside (or on the boundary of) the polygon.
//
// # Reproducibility
//
// The random generator is passed in, never global. Two runs with the same
// seed, the same inputs and the same category order produce the same points
// in the same order:
//
//	rng := dots.NewRand(42)
//	s := dots.NewSampler(rng, dots.Options{})
//	points, stats, err := s.Sample(ctx, joined, categories)
//
// # Rejection cap
//
// Rejection sampling has no natural bound: a sliver polygon inside a large
// bounding box may reject almost every candidate. [Options.MaxAttemptsPerPoint]
// caps the draws for a pair at MaxAttemptsPerPoint*n. When the cap is hit
// the pair keeps the points found so far and is reported in
// [Stats.Exhausted]. A cap of zero restores unbounded sampling.
package dots

package pipeline

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/censusdots/pkg/cache"
	"github.com/matzehuels/censusdots/pkg/dots"
	dotio "github.com/matzehuels/censusdots/pkg/io"
	"github.com/matzehuels/censusdots/pkg/source/shape"
)

// shapefileSidecars are the files next to a .shp that affect what is read.
var shapefileSidecars = []string{".shx", ".dbf"}

// pointsKey returns the cache key for opts, or "" when the inputs cannot be
// hashed. Load reports the underlying problem in that case.
func (r *Runner) pointsKey(opts Options) string {
	attrsHash, err := cache.HashFiles(opts.AttributesPath)
	if err != nil {
		return ""
	}
	src, err := shape.Resolve(opts.GeometryPath)
	if err != nil {
		return ""
	}
	files := []string{src}
	if strings.EqualFold(filepath.Ext(src), ".shp") {
		base := strings.TrimSuffix(src, filepath.Ext(src))
		for _, ext := range shapefileSidecars {
			files = append(files, base+ext)
		}
	}
	geomHash, err := cache.HashFiles(files...)
	if err != nil {
		return ""
	}
	return cache.PointsKey(attrsHash, geomHash, keyOpts(opts))
}

func keyOpts(opts Options) cache.PointsKeyOpts {
	k := cache.PointsKeyOpts{
		Seed:        opts.Seed,
		Divisor:     opts.Divisor,
		MaxAttempts: opts.MaxAttemptsPerPoint,
		KeyColumn:   opts.Attrs.KeyColumn,
		KeyField:    opts.Shape.KeyField,
		Markers:     []string{opts.Attrs.StartColumn, opts.Attrs.TotalColumn, opts.Attrs.CountStartColumn},
	}
	for _, c := range opts.Categories {
		k.Columns = append(k.Columns, c.Column)
		k.Labels = append(k.Labels, c.Label)
	}
	return k
}

// cachedPoints decodes cached points. Unreadable entries count as misses.
func (r *Runner) cachedPoints(ctx context.Context, key string, logger *log.Logger) ([]dots.Point, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, false
	}
	points, err := dotio.ReadCSV(bytes.NewReader(data))
	if err != nil {
		logger.Debug("discarding unreadable cache entry", "err", err)
		_ = r.Cache.Delete(ctx, key)
		return nil, false
	}
	return points, true
}

func (r *Runner) storePoints(ctx context.Context, key string, points []dots.Point, logger *log.Logger) {
	var buf bytes.Buffer
	if err := dotio.WriteCSV(&buf, points); err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, buf.Bytes(), cache.TTLPoints); err != nil {
		logger.Debug("could not cache points", "err", err)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

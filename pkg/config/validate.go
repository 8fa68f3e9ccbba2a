package config

import (
	"fmt"

	"github.com/matzehuels/censusdots/pkg/errors"
	dotio "github.com/matzehuels/censusdots/pkg/io"
)

// Validate checks that the configuration describes a runnable job.
func (c *Config) Validate() error {
	if len(c.Categories) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "categories cannot be empty")
	}
	seen := make(map[string]bool, len(c.Categories))
	for i, col := range c.Categories {
		if err := errors.ValidateColumnName(fmt.Sprintf("categories[%d]", i), col); err != nil {
			return err
		}
		if seen[col] {
			return errors.New(errors.ErrCodeInvalidConfig, "category %q listed twice", col)
		}
		seen[col] = true
	}
	if c.Cutoff == "" && !c.allLabeled() {
		return errors.New(errors.ErrCodeInvalidConfig, "cutoff is required unless every category has a label")
	}
	for col, label := range c.Labels {
		if err := errors.ValidateColumnName(fmt.Sprintf("labels[%q]", col), label); err != nil {
			return err
		}
	}

	if c.BaseDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "base_dir cannot be empty")
	}
	for _, p := range []struct{ field, value string }{
		{"raw_dir", c.RawDir},
		{"attributes_dir", c.AttributesDir},
		{"geometry_dir", c.GeometryDir},
		{"csv_file", c.CSVFile},
		{"shapefile_dir", c.ShapefileDir},
		{"output_file", c.OutputFile},
	} {
		if err := errors.ValidateRelPath(p.field, p.value); err != nil {
			return err
		}
	}

	if c.Format != "" {
		if err := dotio.ValidateFormat(c.Format); err != nil {
			return err
		}
	}
	if c.Seed == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "seed must be non-zero")
	}
	if c.Divisor <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "divisor must be positive, got %g", c.Divisor)
	}
	if c.MaxAttemptsPerPoint < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_attempts_per_point cannot be negative")
	}

	for _, col := range []struct{ field, value string }{
		{"columns.start", c.Columns.Start},
		{"columns.total", c.Columns.Total},
		{"columns.count_start", c.Columns.CountStart},
		{"columns.key", c.Columns.Key},
		{"columns.geometry_key", c.Columns.GeometryKey},
	} {
		if err := errors.ValidateColumnName(col.field, col.value); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) allLabeled() bool {
	for _, col := range c.Categories {
		if _, ok := c.Labels[col]; !ok {
			return false
		}
	}
	return true
}

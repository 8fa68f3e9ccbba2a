package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/censusdots/pkg/config"
	"github.com/matzehuels/censusdots/pkg/pipeline"
)

// overrides holds flag values that take precedence over the config file.
type overrides struct {
	baseDir     string
	output      string
	format      string
	cutoff      string
	categories  []string
	seed        uint64
	divisor     float64
	maxAttempts int
}

// runCommand creates the run command that executes the full pipeline.
func (c *CLI) runCommand() *cobra.Command {
	var (
		configPath string
		ov         overrides
		noCache    bool
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate dot-density points from a run configuration",
		Long: `Generate dot-density points from a run configuration.

The run command loads the attribute table and tract boundaries named in the
config file, joins them on the tract identifier, places one random point per
divisor people (15 by default) for each category, and writes the points as
CSV (column,latitude,longitude) or GeoJSON.

Points are cached locally, keyed by the input file contents and sampling
options, so rerunning with only a different output format or path skips
sampling.

Flags override the matching config file values.`,
		Example: `  censusdots run --config ny_ancestry.toml
  censusdots run -c ny_ancestry.yaml --seed 7 --format geojson -o dots.geojson`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			applyOverrides(cmd, cfg, ov)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runPipeline(cmd.Context(), cfg, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "run configuration file (.toml, .yaml); default ~/.config/censusdots/config.toml")
	cmd.Flags().StringVar(&ov.baseDir, "base-dir", "", "base data directory")
	cmd.Flags().StringVarP(&ov.output, "output", "o", "", "output file, relative to the base directory")
	cmd.Flags().StringVarP(&ov.format, "format", "f", "", "output format: csv, geojson (default: from output extension)")
	cmd.Flags().StringVar(&ov.cutoff, "cutoff", "", "separator after which a column header becomes its label")
	cmd.Flags().StringArrayVar(&ov.categories, "category", nil, "category column (repeatable, replaces the configured list)")
	cmd.Flags().Uint64Var(&ov.seed, "seed", 0, "random seed (non-zero; config default 42)")
	cmd.Flags().Float64Var(&ov.divisor, "divisor", 0, "people per point")
	cmd.Flags().IntVar(&ov.maxAttempts, "max-attempts", 0, "rejection sampling attempts per point (0 = unbounded)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "resample even if cached points exist")

	return cmd
}

// loadConfig reads the config file at path or the default location.
func loadConfig(path string) (*config.Config, error) {
	resolved, err := resolveConfigPath(path)
	if err != nil {
		return nil, fmt.Errorf("locate config: %w", err)
	}
	return config.Load(resolved)
}

// applyOverrides copies explicitly set flags onto cfg.
func applyOverrides(cmd *cobra.Command, cfg *config.Config, ov overrides) {
	flags := cmd.Flags()
	if flags.Changed("base-dir") {
		cfg.BaseDir = ov.baseDir
	}
	if flags.Changed("output") {
		cfg.OutputFile = ov.output
	}
	if flags.Changed("format") {
		cfg.Format = ov.format
	}
	if flags.Changed("cutoff") {
		cfg.Cutoff = ov.cutoff
	}
	if flags.Changed("category") {
		cfg.Categories = ov.categories
	}
	if flags.Changed("seed") {
		cfg.Seed = ov.seed
	}
	if flags.Changed("divisor") {
		cfg.Divisor = ov.divisor
	}
	if flags.Changed("max-attempts") {
		cfg.MaxAttemptsPerPoint = ov.maxAttempts
	}
}

// runPipeline executes the pipeline and prints a summary.
func (c *CLI) runPipeline(ctx context.Context, cfg *config.Config, noCache, refresh bool) error {
	opts := pipeline.FromConfig(cfg)
	opts.Logger = loggerFromContext(ctx)
	opts.Refresh = refresh

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(opts.Logger)
	spin := newSpinner(ctx, fmt.Sprintf("Placing dots for %d categories...", len(opts.Categories)))
	spin.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spin.Fail("Run failed")
		return err
	}
	spin.Stop()
	prog.done("Run complete")

	st := result.Stats
	printSuccess("Placed %s points", styleAccent.Render(fmt.Sprint(len(result.Points))))
	printFile(result.OutputPath)
	if result.CacheHit {
		printDetail("reused cached points (--refresh to resample)")
	}
	printNewline()
	printKeyValue("run", result.RunID)
	if !result.CacheHit {
		printKeyValue("tracts", fmt.Sprint(st.Join.Matched))
	}
	printKeyValue("seed", fmt.Sprint(opts.Seed))
	printKeyValue("format", opts.Format)
	printCounts(
		countItem{st.Attributes.Rows, "rows"},
		countItem{st.Geometry.Records, "boundaries"},
		countItem{st.Sample.Sampled, "pairs sampled"},
		countItem{st.Sample.BelowThreshold, "below threshold"},
	)

	labels := make([]string, 0, len(st.Sample.PerCategory))
	for label := range st.Sample.PerCategory {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		printDetail("%s: %d", label, st.Sample.PerCategory[label])
	}

	skipped := st.Join.InvalidAttrKeys + st.Join.InvalidGeomKeys
	if skipped > 0 {
		printWarning("%d records dropped for invalid tract keys", skipped)
	}
	if n := st.Sample.NonNumeric; n > 0 {
		printWarning("%d pairs skipped for non-numeric counts", n)
	}
	if n := st.Sample.EmptyGeometry; n > 0 {
		printWarning("%d pairs skipped for empty boundaries", n)
	}
	if n := st.Sample.Capped; n > 0 {
		printWarning("%d pairs exceeded the per-pair point limit and were clamped", n)
	}
	if n := st.Sample.Exhausted; n > 0 {
		printWarning("%d pairs hit the attempt limit and are incomplete", n)
	}
	return nil
}

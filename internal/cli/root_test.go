package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

const testCSV = "FIPS,Census Tract,Total Population,Total Population:,Total Ancestry: German\n" +
	"Geo_FIPS,Geo_TRACT,SE_A001,SE_A001_001,SE_B001_002\n" +
	"1001,100,500,500,45\n"

const testGeoJSON = `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"GEOID":"1001"},` +
	`"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}}]}`

// writeProject lays out a base directory with inputs and a TOML config and
// returns the config path.
func writeProject(t *testing.T) (base, cfgPath string) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	base = t.TempDir()
	attrsDir := filepath.Join(base, "_input_raw_data", "social_explorer_tract_ancestry_data")
	geomDir := filepath.Join(base, "_input_raw_data", "us_census_cartography")
	for _, d := range []string{attrsDir, geomDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(attrsDir, "ancestry.csv"), []byte(testCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(geomDir, "tracts.geojson"), []byte(testGeoJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := `base_dir = "` + filepath.ToSlash(base) + `"
csv_file = "ancestry.csv"
shapefile_dir = "tracts.geojson"
output_file = "dots.csv"
cutoff = ":"
categories = ["Total Ancestry: German"]
`
	cfgPath = filepath.Join(base, "run.toml")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return base, cfgPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	err := c.Execute(context.Background(), root)
	return buf.String(), err
}

func TestRunCommand(t *testing.T) {
	base, cfgPath := writeProject(t)

	if _, err := execute(t, "run", "--config", cfgPath); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(base, "dots.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 points:\n%s", len(lines), data)
	}
	if lines[0] != "column,latitude,longitude" {
		t.Errorf("header = %q", lines[0])
	}
	for _, l := range lines[1:] {
		if !strings.HasPrefix(l, "German,") {
			t.Errorf("row %q should be labeled German", l)
		}
	}
}

func TestRunCommandOverrides(t *testing.T) {
	base, cfgPath := writeProject(t)

	_, err := execute(t, "run", "-c", cfgPath, "-o", "dots.geojson", "--divisor", "5")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(base, "dots.geojson"))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), `"Feature"`); got != 9 {
		t.Errorf("got %d features, want 9", got)
	}
}

func TestRunCommandReportsError(t *testing.T) {
	_, cfgPath := writeProject(t)

	logs, err := execute(t, "run", "-c", cfgPath, "--category", "Total Ancestry: Dutch")
	if err == nil {
		t.Fatal("expected error for missing category column")
	}
	if !strings.Contains(logs, "an error occurred") {
		t.Errorf("error should be logged, got %q", logs)
	}
	if !strings.Contains(logs, "MISSING_COLUMN") {
		t.Errorf("log should carry the error code, got %q", logs)
	}
}

func TestRunCommandInvalidConfig(t *testing.T) {
	_, cfgPath := writeProject(t)

	if _, err := execute(t, "run", "-c", cfgPath, "--divisor", "0"); err == nil {
		t.Error("expected validation error for zero divisor")
	}
	if _, err := execute(t, "run", "-c", cfgPath, "--seed", "0"); err == nil {
		t.Error("expected validation error for zero seed")
	}
}

func TestExecuteCancelledIsNotLogged(t *testing.T) {
	_, cfgPath := writeProject(t)

	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"run", "-c", cfgPath})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.Execute(ctx, root)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if strings.Contains(buf.String(), "an error occurred") {
		t.Error("cancellation should not be logged as an error")
	}
}

func TestColumnsCommand(t *testing.T) {
	base, _ := writeProject(t)
	path := filepath.Join(base, "_input_raw_data", "social_explorer_tract_ancestry_data", "ancestry.csv")

	if _, err := execute(t, "columns", path); err != nil {
		t.Errorf("columns: %v", err)
	}
	if _, err := execute(t, "columns", "--numeric", path); err != nil {
		t.Errorf("columns --numeric: %v", err)
	}
	if _, err := execute(t, "columns", filepath.Join(base, "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLabelsCommand(t *testing.T) {
	_, cfgPath := writeProject(t)

	if _, err := execute(t, "labels", "--config", cfgPath); err != nil {
		t.Errorf("labels: %v", err)
	}
}

func TestVerboseFlag(t *testing.T) {
	_, cfgPath := writeProject(t)

	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"-v", "labels", "-c", cfgPath})
	if err := c.Execute(context.Background(), root); err != nil {
		t.Fatal(err)
	}
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range completionShells {
		t.Run(shell, func(t *testing.T) {
			var out bytes.Buffer
			c := New(io.Discard, LogInfo)
			root := c.RootCommand()
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})
			if err := c.Execute(context.Background(), root); err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(out.String(), "censusdots") {
				t.Errorf("%s script does not mention censusdots", shell)
			}
		})
	}

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"completion", "tcsh"})
	if err := c.Execute(context.Background(), root); err == nil {
		t.Error("expected error for unsupported shell")
	}
}

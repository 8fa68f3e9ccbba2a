package shape

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/matzehuels/censusdots/pkg/errors"
)

// Clockwise unit square (shell) and a counter-clockwise inner square (hole).
var (
	shell = []shp.Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 0}}
	hole  = []shp.Point{{X: 0.25, Y: 0.25}, {X: 0.75, Y: 0.25}, {X: 0.75, Y: 0.75}, {X: 0.25, Y: 0.75}, {X: 0.25, Y: 0.25}}
	far   = []shp.Point{{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 6, Y: 6}, {X: 6, Y: 5}, {X: 5, Y: 5}}
)

func flatten(rings ...[]shp.Point) ([]int32, []shp.Point) {
	var parts []int32
	var pts []shp.Point
	for _, r := range rings {
		parts = append(parts, int32(len(pts)))
		pts = append(pts, r...)
	}
	return parts, pts
}

func TestFromPartsShellWithHole(t *testing.T) {
	g := fromParts(flatten(shell, hole))

	p, ok := g.(*geom.Polygon)
	require.True(t, ok, "got %T", g)
	assert.Equal(t, 2, p.NumLinearRings())
	assert.InDelta(t, 0.75, math.Abs(p.Area()), 1e-9)
}

func TestFromPartsHoleAfterOtherShell(t *testing.T) {
	g := fromParts(flatten(shell, far, hole))

	mp, ok := g.(*geom.MultiPolygon)
	require.True(t, ok, "got %T", g)
	require.Equal(t, 2, mp.NumPolygons())
	assert.Equal(t, 2, mp.Polygon(0).NumLinearRings(), "hole belongs to the shell around it")
	assert.Equal(t, 1, mp.Polygon(1).NumLinearRings())
	assert.InDelta(t, 0.75, math.Abs(mp.Polygon(0).Area()), 1e-9)
}

func TestFromPartsHoleBeforeShell(t *testing.T) {
	g := fromParts(flatten(hole, shell))

	p, ok := g.(*geom.Polygon)
	require.True(t, ok, "got %T", g)
	assert.Equal(t, 2, p.NumLinearRings())
	assert.InDelta(t, 0.75, math.Abs(p.Area()), 1e-9)
}

func TestFromPartsHoleInSmallestShell(t *testing.T) {
	// A large shell around an island that has its own lake.
	outer := []shp.Point{{X: -1, Y: -1}, {X: -1, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: -1}, {X: -1, Y: -1}}
	moat := []shp.Point{{X: -0.5, Y: -0.5}, {X: 1.5, Y: -0.5}, {X: 1.5, Y: 1.5}, {X: -0.5, Y: 1.5}, {X: -0.5, Y: -0.5}}

	g := fromParts(flatten(outer, moat, shell, hole))

	mp, ok := g.(*geom.MultiPolygon)
	require.True(t, ok, "got %T", g)
	require.Equal(t, 2, mp.NumPolygons())
	assert.Equal(t, 2, mp.Polygon(0).NumLinearRings())
	assert.Equal(t, 2, mp.Polygon(1).NumLinearRings())
	assert.InDelta(t, 0.75, math.Abs(mp.Polygon(1).Area()), 1e-9)
}

func TestFromPartsTwoShells(t *testing.T) {
	g := fromParts(flatten(shell, far))

	mp, ok := g.(*geom.MultiPolygon)
	require.True(t, ok, "got %T", g)
	assert.Equal(t, 2, mp.NumPolygons())
}

func TestFromPartsLeadingHoleBecomesShell(t *testing.T) {
	g := fromParts(flatten(hole))

	p, ok := g.(*geom.Polygon)
	require.True(t, ok)
	assert.Equal(t, 1, p.NumLinearRings())
}

func TestFromPartsDegenerate(t *testing.T) {
	g := fromParts(flatten([]shp.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}}))
	assert.True(t, g.Empty())

	g = fromParts(nil, nil)
	assert.True(t, g.Empty())
}

func TestConvertShape(t *testing.T) {
	g, ok := convertShape(&shp.Null{})
	assert.True(t, ok)
	assert.True(t, g.Empty())

	g, ok = convertShape(&shp.Point{X: 1, Y: 2})
	assert.False(t, ok)
	assert.True(t, g.Empty())

	parts, pts := flatten(shell)
	g, ok = convertShape(&shp.PolygonZ{Parts: parts, Points: pts, NumParts: 1, NumPoints: int32(len(pts))})
	assert.True(t, ok)
	assert.False(t, g.Empty())
}

func writeShapefile(t *testing.T, dir, name string, keys []string, shapes [][][]shp.Point) string {
	t.Helper()
	path := filepath.Join(dir, name)
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{shp.StringField("GEOID", 20)}))
	for i, rings := range shapes {
		poly := shp.Polygon(*shp.NewPolyLine(rings))
		n := w.Write(&poly)
		require.NoError(t, w.WriteAttribute(int(n), 0, keys[i]))
	}
	w.Close()
	fixDBFName(t, path)
	return path
}

// fixDBFName renames the attribute file go-shp's writer creates as
// "<name>dbf" to "<name>.dbf", where readers look for it.
func fixDBFName(t *testing.T, shpPath string) {
	t.Helper()
	base := strings.TrimSuffix(shpPath, filepath.Ext(shpPath))
	if _, err := os.Stat(base + "dbf"); err == nil {
		require.NoError(t, os.Rename(base+"dbf", base+".dbf"))
	}
	_, err := os.Stat(base + ".dbf")
	require.NoError(t, err)
}

func TestLoadShapefileDirectory(t *testing.T) {
	dir := t.TempDir()
	writeShapefile(t, dir, "tracts.shp",
		[]string{"01001", "abc", "1002"},
		[][][]shp.Point{{shell}, {shell}, {shell, hole}},
	)

	tbl, err := Load(dir, Options{})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "tracts.shp"), tbl.Source)
	require.Len(t, tbl.Records, 3)
	assert.Equal(t, 3, tbl.Stats.Records)
	assert.Equal(t, 1, tbl.Stats.InvalidKeys)

	// DBF text fields come back NUL padded.
	assert.True(t, tbl.Records[0].KeyValid)
	assert.Equal(t, int64(1001), tbl.Records[0].Key)
	assert.Equal(t, int64(1002), tbl.Records[2].Key)
	assert.False(t, tbl.Records[1].KeyValid)

	holed, ok := tbl.Records[2].Geometry.(*geom.Polygon)
	require.True(t, ok)
	assert.Equal(t, 2, holed.NumLinearRings())
}

func TestLoadShapefileMissingKeyField(t *testing.T) {
	dir := t.TempDir()
	path := writeShapefile(t, dir, "tracts.shp", []string{"1"}, [][][]shp.Point{{shell}})

	_, err := Load(path, Options{KeyField: "TRACTCE"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeMissingColumn))
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	writeShapefile(t, dir, "b.shp", []string{"1"}, [][][]shp.Point{{shell}})
	writeShapefile(t, dir, "a.shp", []string{"1"}, [][][]shp.Point{{shell}})

	src, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.shp"), src)

	_, err = Resolve(t.TempDir())
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))

	_, err = Resolve(filepath.Join(dir, "nope"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracts.kml")
	require.NoError(t, os.WriteFile(path, []byte("<kml/>"), 0o644))

	_, err := Load(path, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported))
}

const featureCollection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"GEOID": "1001"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,1],[0,0]]]}},
    {"type": "Feature", "properties": {"GEOID": 1002},
     "geometry": {"type": "MultiPolygon", "coordinates": [[[[0,0],[1,0],[1,1],[0,1],[0,0]]], [[[5,5],[6,5],[6,6],[5,6],[5,5]]]]}},
    {"type": "Feature", "properties": {"GEOID": "1003"},
     "geometry": {"type": "Point", "coordinates": [0.5, 0.5]}},
    {"type": "Feature", "properties": {"NAME": "no key"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,1],[0,0]]]}}
  ]
}`

func TestReadGeoJSON(t *testing.T) {
	tbl, err := ReadGeoJSON(strings.NewReader(featureCollection), Options{})
	require.NoError(t, err)

	require.Len(t, tbl.Records, 4)
	assert.Equal(t, int64(1001), tbl.Records[0].Key)
	assert.IsType(t, &geom.Polygon{}, tbl.Records[0].Geometry)

	assert.Equal(t, int64(1002), tbl.Records[1].Key)
	assert.IsType(t, &geom.MultiPolygon{}, tbl.Records[1].Geometry)

	assert.True(t, tbl.Records[2].Empty(), "points are not boundaries")
	assert.False(t, tbl.Records[3].KeyValid)

	assert.Equal(t, 1, tbl.Stats.Unsupported)
	assert.Equal(t, 1, tbl.Stats.Empty)
	assert.Equal(t, 1, tbl.Stats.InvalidKeys)
}

func TestReadGeoJSONMissingKeyField(t *testing.T) {
	_, err := ReadGeoJSON(strings.NewReader(featureCollection), Options{KeyField: "TRACT"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeMissingColumn))
}

func TestReadGeoJSONInvalid(t *testing.T) {
	_, err := ReadGeoJSON(strings.NewReader("{not json"), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestLoadGeoJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracts.geojson")
	require.NoError(t, os.WriteFile(path, []byte(featureCollection), 0o644))

	tbl, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, path, tbl.Source)
	assert.Len(t, tbl.Records, 4)
}

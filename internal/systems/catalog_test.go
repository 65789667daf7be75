package systems

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog_EmbeddedSystems(t *testing.T) {
	c, err := NewCatalog()
	require.NoError(t, err)

	names := c.Names()
	assert.Contains(t, names, "ethanol-water")
	assert.Contains(t, names, "benzene-toluene")

	points, err := c.Get("ethanol-water")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(points), 10)
	assert.Equal(t, 0.0, points[0].X)
	// Ends at the azeotrope.
	last := points[len(points)-1]
	assert.InDelta(t, last.X, last.Y, 1e-9)
}

func TestCatalogGet_Unknown(t *testing.T) {
	c, err := NewCatalog()
	require.NoError(t, err)

	_, err = c.Get("unobtainium-water")
	assert.ErrorIs(t, err, ErrSystemNotFound)
}

func TestCatalogGet_ReturnsCopy(t *testing.T) {
	c, err := NewCatalog()
	require.NoError(t, err)

	a, err := c.Get("benzene-toluene")
	require.NoError(t, err)
	a[0].X = 0.5

	b, err := c.Get("benzene-toluene")
	require.NoError(t, err)
	assert.Equal(t, 0.0, b[0].X)
}

func TestLoadDir_MergesAndOverrides(t *testing.T) {
	dir := t.TempDir()
	custom := `
name: methanol-water
points:
  - [0.0, 0.0]
  - [0.2, 0.58]
  - [0.4, 0.73]
  - [0.6, 0.83]
  - [0.8, 0.92]
  - [1.0, 1.0]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "methanol.yaml"), []byte(custom), 0o644))
	override := `
name: benzene-toluene
points:
  - [0.0, 0.0]
  - [1.0, 1.0]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "override.yaml"), []byte(override), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	c, err := NewCatalog()
	require.NoError(t, err)
	require.NoError(t, c.LoadDir(dir))

	assert.Contains(t, c.Names(), "methanol-water")

	points, err := c.Get("benzene-toluene")
	require.NoError(t, err)
	assert.Len(t, points, 2)
}

func TestLoadDir_MissingDirIsFine(t *testing.T) {
	c, err := NewCatalog()
	require.NoError(t, err)
	assert.NoError(t, c.LoadDir(filepath.Join(t.TempDir(), "nope")))
}

func TestLoadDir_FileNameFallbackAndValidation(t *testing.T) {
	dir := t.TempDir()
	unnamed := `
points:
  - [0.0, 0.0]
  - [1.0, 1.0]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chloroform-acetone.yaml"), []byte(unnamed), 0o644))

	c, err := NewCatalog()
	require.NoError(t, err)
	require.NoError(t, c.LoadDir(dir))
	assert.Contains(t, c.Names(), "chloroform-acetone")

	short := "points:\n  - [0.0, 0.0]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "short.yaml"), []byte(short), 0o644))
	assert.Error(t, c.LoadDir(dir))
}

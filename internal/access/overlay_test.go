package access

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFakeBinary(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o755))
	return path
}

func TestReadOverlay_NoTrailerIsTeacher(t *testing.T) {
	path := writeFakeBinary(t, "tool", []byte("\x7fELF fake binary payload"))

	p, err := ReadOverlay(path)
	require.NoError(t, err)
	assert.Equal(t, ModeTeacher, p.Mode)
	assert.False(t, p.IsStudent())
	assert.Empty(t, p.Limits)
}

func TestReadOverlay_MissingFile(t *testing.T) {
	_, err := ReadOverlay(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestWriteOverlay_RoundTrip(t *testing.T) {
	src := writeFakeBinary(t, "teacher", []byte("MZ fake image"))
	dst := filepath.Join(t.TempDir(), "student")

	limits := map[string]Window{
		"stages":   {Start: "2026-03-01", End: "2026-06-30"},
		"envelope": {Start: "2026-03-01 08:00", End: "2026-03-01 18:00"},
	}
	require.NoError(t, WriteOverlay(src, dst, limits))

	p, err := ReadOverlay(dst)
	require.NoError(t, err)
	assert.True(t, p.IsStudent())
	assert.Equal(t, limits, p.Limits)

	// The image bytes stay in front of the trailer.
	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte("MZ fake image"), content[:len("MZ fake image")])
}

func TestWriteOverlay_StripsExistingTrailer(t *testing.T) {
	src := writeFakeBinary(t, "teacher", []byte("image"))
	first := filepath.Join(t.TempDir(), "first")
	second := filepath.Join(t.TempDir(), "second")

	require.NoError(t, WriteOverlay(src, first, map[string]Window{
		"stages": {Start: "2026-01-01", End: "2026-01-31"},
	}))
	require.NoError(t, WriteOverlay(first, second, map[string]Window{
		"stages": {Start: "2026-05-01", End: "2026-05-31"},
	}))

	p, err := ReadOverlay(second)
	require.NoError(t, err)
	require.Len(t, p.Limits, 1)
	assert.Equal(t, "2026-05-01", p.Limits["stages"].Start)

	// No stacked markers on re-export.
	content, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, 1, countMarkers(content))
}

func countMarkers(content []byte) int {
	n := 0
	for i := 0; i+len(overlayMarker) <= len(content); i++ {
		if string(content[i:i+len(overlayMarker)]) == string(overlayMarker) {
			n++
		}
	}
	return n
}

func TestWriteOverlay_RejectsBadWindow(t *testing.T) {
	src := writeFakeBinary(t, "teacher", []byte("image"))
	dst := filepath.Join(t.TempDir(), "student")

	err := WriteOverlay(src, dst, map[string]Window{
		"stages": {Start: "March 1st", End: "2026-06-30"},
	})
	assert.Error(t, err)
	assert.NoFileExists(t, dst)
}

func TestDecodeOverlay_LastMarkerWins(t *testing.T) {
	// The image itself may contain the marker bytes; only the final
	// trailer counts.
	content := append([]byte("image "), overlayMarker...)
	content = append(content, []byte("garbage ")...)
	content = append(content, overlayMarker...)
	content = append(content, []byte(`{"mode":"student","limits":{}}`)...)

	p := decodeOverlay(content)
	assert.True(t, p.IsStudent())
}

func TestDecodeOverlay_CorruptTrailerFallsBackToTeacher(t *testing.T) {
	content := append([]byte("image "), overlayMarker...)
	content = append(content, []byte("{not json")...)

	p := decodeOverlay(content)
	assert.Equal(t, ModeTeacher, p.Mode)
}

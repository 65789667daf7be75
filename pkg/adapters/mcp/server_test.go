package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/towerlab/platekit/internal/systems"
)

func newTestMCPServer(t *testing.T) *Server {
	t.Helper()
	catalog, err := systems.NewCatalog()
	require.NoError(t, err)
	return NewServer(catalog, "test")
}

func TestHandleCountStages_LinearPoints(t *testing.T) {
	s := newTestMCPServer(t)

	args := map[string]any{
		"points":          `[{"x":0.0,"y":0.5},{"x":0.2,"y":0.6},{"x":0.4,"y":0.7},{"x":0.6,"y":0.8},{"x":0.8,"y":0.9},{"x":1.0,"y":1.0}]`,
		"rect_slope":      0.53,
		"rect_intercept":  0.44,
		"strip_slope":     1.1,
		"strip_intercept": -0.05,
		"xd":              0.95,
		"xf":              0.45,
		"xw":              0.05,
	}

	result, err := s.handleCountStages(context.Background(), mcp.CallToolRequest{}, args)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Stages)
	assert.Equal(t, 2, result.FeedStage)
}

func TestHandleCountStages_CatalogSystem(t *testing.T) {
	s := newTestMCPServer(t)

	args := map[string]any{
		"system":          "benzene-toluene",
		"rect_slope":      0.75,
		"rect_intercept":  0.2375,
		"strip_slope":     1.3,
		"strip_intercept": -0.015,
		"xd":              0.95,
		"xf":              0.5,
		"xw":              0.05,
	}

	result, err := s.handleCountStages(context.Background(), mcp.CallToolRequest{}, args)
	require.NoError(t, err)
	assert.Greater(t, result.Stages, 2)
}

func TestHandleCountStages_UnknownSystem(t *testing.T) {
	s := newTestMCPServer(t)

	_, err := s.handleCountStages(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"system":          "mystery",
		"rect_slope":      0.5,
		"rect_intercept":  0.4,
		"strip_slope":     1.1,
		"strip_intercept": -0.05,
		"xd":              0.9,
		"xf":              0.5,
		"xw":              0.1,
	})
	assert.ErrorIs(t, err, systems.ErrSystemNotFound)
}

func TestHandleEnvelope_Defaults(t *testing.T) {
	s := newTestMCPServer(t)

	result, err := s.handleEnvelope(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"samples": 30,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Envelope)
	assert.InDelta(t, 3.793, result.Envelope.Flexibility, 1e-2)
	require.NotNil(t, result.Profile)
	assert.Len(t, result.Profile.Ls, 30)
}

func TestHandleEnvelope_SieveOverride(t *testing.T) {
	s := newTestMCPServer(t)

	result, err := s.handleEnvelope(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"tray_type": "sieve",
	})
	require.NoError(t, err)
	assert.InDelta(t, 3.33, result.Envelope.Flexibility, 5e-2)
	assert.Nil(t, result.Profile)
}

func TestHandleHoles(t *testing.T) {
	s := newTestMCPServer(t)

	valve, err := s.handleHoles(context.Background(), mcp.CallToolRequest{}, map[string]any{})
	require.NoError(t, err)
	assert.Greater(t, valve.Count, 100)
	require.NotNil(t, valve.Layout)
	assert.Nil(t, valve.Inset)

	sieve, err := s.handleHoles(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"tray_type": "sieve",
	})
	require.NoError(t, err)
	assert.InDelta(t, 3579, sieve.Count, 2)
	require.NotNil(t, sieve.Inset)
	assert.Nil(t, sieve.Layout)
}

func TestHandleSchematic(t *testing.T) {
	s := newTestMCPServer(t)

	schematic, err := s.handleSchematic(context.Background(), mcp.CallToolRequest{}, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, 23, schematic.FeedPlate)
	assert.Len(t, schematic.Plates, 32)

	_, err = s.handleSchematic(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"params": `{"W_d": 2.0}`,
	})
	assert.Error(t, err)
}

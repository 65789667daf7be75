package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestStagesCommandJSON(t *testing.T) {
	out, err := runCLI(t, "stages", "--params-dir", t.TempDir())
	require.NoError(t, err)

	var result struct {
		Stages    int `json:"stages"`
		FeedStage int `json:"feed_stage"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Greater(t, result.Stages, 0)
	assert.LessOrEqual(t, result.FeedStage, result.Stages)
}

func TestEnvelopeCommandWithSamples(t *testing.T) {
	out, err := runCLI(t, "envelope", "--params-dir", t.TempDir(), "--samples", "10")
	require.NoError(t, err)

	var result struct {
		Envelope struct {
			Flexibility float64 `json:"flexibility"`
		} `json:"envelope"`
		Profile struct {
			Ls []float64 `json:"ls"`
		} `json:"profile"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.InDelta(t, 3.7934, result.Envelope.Flexibility, 1e-2)
	assert.Len(t, result.Profile.Ls, 10)
}

func TestParamsSetShowResetCycle(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, "params", "set", "stages", `{"xD": 0.99}`, "--params-dir", dir)
	require.NoError(t, err)

	out, err := runCLI(t, "params", "show", "stages", "--params-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `"xD": 0.99`)

	out, err = runCLI(t, "params", "list", "--params-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "stages     saved")
	assert.Contains(t, out, "tower      defaults")

	_, err = runCLI(t, "params", "reset", "stages", "--params-dir", dir)
	require.NoError(t, err)

	out, err = runCLI(t, "params", "show", "stages", "--params-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `"xD": 0.95`)
}

func TestParamsRejectsUnknownApp(t *testing.T) {
	_, err := runCLI(t, "params", "show", "mystery", "--params-dir", t.TempDir())
	require.Error(t, err)
}

func TestParseWindowSpec(t *testing.T) {
	app, window, err := parseWindowSpec("stages=2026-09-01..2026-09-30 12:00")
	require.NoError(t, err)
	assert.Equal(t, "stages", app)
	assert.Equal(t, "2026-09-01", window.Start)
	assert.Equal(t, "2026-09-30 12:00", window.End)

	_, _, err = parseWindowSpec("stages")
	require.Error(t, err)

	_, _, err = parseWindowSpec("stages=2026-09-01")
	require.Error(t, err)
}

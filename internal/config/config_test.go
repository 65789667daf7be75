package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/towerlab/platekit/internal/adapters/memory"
	"github.com/towerlab/platekit/pkg/hydraulics"
)

func TestLoadStagesMissingDocumentYieldsDefaults(t *testing.T) {
	cfg, err := LoadStages(context.Background(), memory.New())
	require.NoError(t, err)
	assert.Equal(t, DefaultStages(), cfg)
}

func TestStagesRoundTrip(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	cfg := DefaultStages()
	cfg.XD = 0.9
	cfg.RectIntercept = 0.5
	require.NoError(t, SaveStages(ctx, store, cfg))

	got, err := LoadStages(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadStagesCoercesStringValues(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	doc := []byte(`{"rect_slope":"0.53","rect_intercept":"0.44","xD":"0.95","max_stages":"100"}`)
	require.NoError(t, store.Save(ctx, AppStages, doc))

	cfg, err := LoadStages(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 0.53, cfg.RectSlope)
	assert.Equal(t, 0.95, cfg.XD)
	assert.Equal(t, 100, cfg.MaxStages)
	// Keys absent from the document keep their defaults.
	assert.Equal(t, 1.1, cfg.StripSlope)
}

func TestLoadEnvelopeMigratesLegacyNestedDocument(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	doc := []byte(`{
		"plate_type": "筛板塔",
		"浮阀塔": {"mist_carry_FL_A": "-40.5", "op_Vs_FL": "2.0"},
		"筛板塔": {"mist_carry_SL_C": "-9.5", "weeping_C1_SL": "3.1"}
	}`)
	require.NoError(t, store.Save(ctx, AppEnvelope, doc))

	cfg, err := LoadEnvelope(ctx, store)
	require.NoError(t, err)

	assert.Equal(t, TraySieve, cfg.TrayType)
	assert.Equal(t, -40.5, cfg.Valve.MistSlope)
	assert.Equal(t, 2.0, cfg.Valve.OpVs)
	assert.Equal(t, -9.5, cfg.Sieve.MistCoeff)
	assert.Equal(t, 3.1, cfg.Sieve.WeepC1)
	// Untouched coefficients keep the worked-example defaults.
	assert.Equal(t, DefaultEnvelope().Valve.FloodC1, cfg.Valve.FloodC1)
}

func TestLoadEnvelopeMigratesLegacyFlatDocument(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	doc := []byte(`{"mist_carry_FL_A":"-51.82","Ls_max_FL":"0.01","plate_type":"浮阀塔"}`)
	require.NoError(t, store.Save(ctx, AppEnvelope, doc))

	cfg, err := LoadEnvelope(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, TrayValve, cfg.TrayType)
	assert.Equal(t, -51.82, cfg.Valve.MistSlope)
	assert.Equal(t, 0.01, cfg.Valve.LsMax)
}

func TestEnvelopeRoundTripStaysModern(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	cfg := DefaultEnvelope()
	cfg.TrayType = TraySieve
	cfg.Sieve.OpVs = 0.7
	require.NoError(t, SaveEnvelope(ctx, store, cfg))

	got, err := LoadEnvelope(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestEnvelopeProblemSelectsActiveTray(t *testing.T) {
	cfg := DefaultEnvelope()

	p := cfg.Problem()
	_, ok := p.Tray.(hydraulics.ValveTray)
	assert.True(t, ok)
	assert.Equal(t, cfg.Valve.OpLs, p.OpLs)

	cfg.TrayType = TraySieve
	p = cfg.Problem()
	_, ok = p.Tray.(hydraulics.SieveTray)
	assert.True(t, ok)
	assert.Equal(t, cfg.Sieve.OpVs, p.OpVs)
}

func TestLoadHolesMigratesLegacyFlatDocument(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	doc := []byte(`{"diameter":"1400","pitch_base":"70","layout_mode":"equilateral"}`)
	require.NoError(t, store.Save(ctx, AppHoles, doc))

	cfg, err := LoadHoles(ctx, store)
	require.NoError(t, err)

	// Legacy flat fields land on the valve record.
	assert.Equal(t, 1400.0, cfg.Valve.Diameter)
	assert.Equal(t, 70.0, cfg.Valve.Pitch)
	// The sieve record keeps its defaults.
	assert.Equal(t, DefaultHoles().Sieve, cfg.Sieve)
}

func TestLoadTowerCoercesStringValues(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	doc := []byte(`{"D":"1.6","Z":"13.95","N_rect":"22","N_strip":"10"}`)
	require.NoError(t, store.Save(ctx, AppTower, doc))

	cfg, err := LoadTower(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 1.6, cfg.Diameter)
	assert.Equal(t, 22, cfg.RectPlates)
}

func TestResetWritesDefaults(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	cfg := DefaultStages()
	cfg.XD = 0.7
	require.NoError(t, SaveStages(ctx, store, cfg))
	require.NoError(t, Reset(ctx, store, AppStages))

	got, err := LoadStages(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, DefaultStages(), got)
}

func TestDefaultDocUnknownApp(t *testing.T) {
	_, err := DefaultDoc("bogus")
	assert.Error(t, err)
}

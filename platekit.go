package platekit

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/towerlab/platekit/internal/adapters/memory"
	"github.com/towerlab/platekit/internal/config"
	"github.com/towerlab/platekit/internal/systems"
	"github.com/towerlab/platekit/pkg/domain"
	"github.com/towerlab/platekit/pkg/hydraulics"
	"github.com/towerlab/platekit/pkg/mccabe"
	"github.com/towerlab/platekit/pkg/ports"
	"github.com/towerlab/platekit/pkg/tower"
	"github.com/towerlab/platekit/pkg/tray"
	"github.com/towerlab/platekit/pkg/vle"
)

// Version is the toolkit release, overridable at build time.
var Version = "0.1.0"

// DefaultSystem is the equilibrium system used when a parameter document
// does not name one.
const DefaultSystem = "ethanol-water"

// Parameter record aliases, so library consumers can build records
// without reaching into internal packages.
type (
	StagesConfig   = config.StagesConfig
	EnvelopeConfig = config.EnvelopeConfig
	HolesConfig    = config.HolesConfig
	TowerConfig    = config.TowerConfig
)

// DefaultStagesConfig returns the worked-example stage-count record.
func DefaultStagesConfig() StagesConfig { return config.DefaultStages() }

// DefaultEnvelopeConfig returns the worked-example envelope record.
func DefaultEnvelopeConfig() EnvelopeConfig { return config.DefaultEnvelope() }

// DefaultHolesConfig returns the worked-example hole-count record.
func DefaultHolesConfig() HolesConfig { return config.DefaultHoles() }

// DefaultTowerConfig returns the worked-example column record.
func DefaultTowerConfig() TowerConfig { return config.DefaultTower() }

// CountStages counts theoretical stages for raw equilibrium samples,
// without a Toolkit or a catalog. Points must hold at least two x,y
// equilibrium pairs.
func CountStages(points []domain.Point, rect, strip domain.OperatingLine, targets domain.Targets, opts ...mccabe.Option) (*mccabe.Result, error) {
	curve, err := vle.New(points)
	if err != nil {
		return nil, err
	}
	return mccabe.Count(mccabe.Input{
		Curve:      curve,
		Rectifying: rect,
		Stripping:  strip,
		Targets:    targets,
	}, opts...)
}

// Toolkit is the high-level entry point for the library. It binds the
// equilibrium catalog to a parameter store and runs each app on the saved
// (or default) parameter document.
type Toolkit struct {
	catalog *systems.Catalog
	store   ports.ParamStore
	logger  *slog.Logger
}

// Option defines a functional option for configuring the Toolkit.
type Option func(*Toolkit)

// WithStore injects the parameter store. Without it an in-memory store is
// used, so every run starts from the defaults.
func WithStore(store ports.ParamStore) Option {
	return func(t *Toolkit) {
		t.store = store
	}
}

// WithCatalog replaces the embedded equilibrium catalog.
func WithCatalog(catalog *systems.Catalog) Option {
	return func(t *Toolkit) {
		t.catalog = catalog
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Toolkit) {
		t.logger = logger
	}
}

// New assembles a Toolkit.
func New(opts ...Option) (*Toolkit, error) {
	t := &Toolkit{}
	for _, opt := range opts {
		opt(t)
	}
	if t.catalog == nil {
		catalog, err := systems.NewCatalog()
		if err != nil {
			return nil, fmt.Errorf("loading embedded systems: %w", err)
		}
		t.catalog = catalog
	}
	if t.store == nil {
		t.store = memory.New()
	}
	if t.logger == nil {
		t.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return t, nil
}

// Catalog exposes the equilibrium catalog.
func (t *Toolkit) Catalog() *systems.Catalog { return t.catalog }

// Store exposes the parameter store.
func (t *Toolkit) Store() ports.ParamStore { return t.store }

// Stages runs the stage-count app on its saved parameter document.
func (t *Toolkit) Stages(ctx context.Context) (*mccabe.Result, error) {
	cfg, err := config.LoadStages(ctx, t.store)
	if err != nil {
		return nil, err
	}
	return t.CountStages(cfg)
}

// CountStages runs the stage count for an explicit parameter record.
func (t *Toolkit) CountStages(cfg config.StagesConfig) (*mccabe.Result, error) {
	name := cfg.System
	if name == "" {
		name = DefaultSystem
	}
	points, err := t.catalog.Get(name)
	if err != nil {
		return nil, err
	}
	curve, err := vle.New(points)
	if err != nil {
		return nil, err
	}
	rect, strip := cfg.Lines()
	var opts []mccabe.Option
	if cfg.MaxStages > 0 {
		opts = append(opts, mccabe.WithMaxStages(cfg.MaxStages))
	}
	result, err := mccabe.Count(mccabe.Input{
		Curve:      curve,
		Rectifying: rect,
		Stripping:  strip,
		Targets:    cfg.Targets(),
	}, opts...)
	if err != nil {
		return nil, err
	}
	if len(result.Conditions) > 0 {
		t.logger.Warn("stage construction reported conditions",
			"system", name, "conditions", result.Conditions)
	}
	return result, nil
}

// SaveStages persists the stage-count record to the store.
func (t *Toolkit) SaveStages(ctx context.Context, cfg config.StagesConfig) error {
	return config.SaveStages(ctx, t.store, cfg)
}

// SaveEnvelope persists the envelope record to the store.
func (t *Toolkit) SaveEnvelope(ctx context.Context, cfg config.EnvelopeConfig) error {
	return config.SaveEnvelope(ctx, t.store, cfg)
}

// SaveHoles persists the hole-count record to the store.
func (t *Toolkit) SaveHoles(ctx context.Context, cfg config.HolesConfig) error {
	return config.SaveHoles(ctx, t.store, cfg)
}

// SaveTower persists the column record to the store.
func (t *Toolkit) SaveTower(ctx context.Context, cfg config.TowerConfig) error {
	return config.SaveTower(ctx, t.store, cfg)
}

// Envelope runs the operating-envelope app on its saved document.
func (t *Toolkit) Envelope(ctx context.Context) (*hydraulics.Envelope, error) {
	cfg, err := config.LoadEnvelope(ctx, t.store)
	if err != nil {
		return nil, err
	}
	return cfg.Problem().Solve()
}

// HolesResult is the outcome of the hole-count app. Layout and Inset are
// populated for the tray type they apply to.
type HolesResult struct {
	Type   config.TrayKind `json:"type"`
	Count  int             `json:"count"`
	Layout *tray.Layout    `json:"layout,omitempty"`
	Inset  *tray.Inset     `json:"inset,omitempty"`
}

// Holes runs the hole-count app on its saved document.
func (t *Toolkit) Holes(ctx context.Context) (*HolesResult, error) {
	cfg, err := config.LoadHoles(ctx, t.store)
	if err != nil {
		return nil, err
	}
	return t.CountHoles(cfg)
}

// CountHoles runs the hole count for an explicit parameter record.
func (t *Toolkit) CountHoles(cfg config.HolesConfig) (*HolesResult, error) {
	design := cfg.Active()
	if cfg.CurrentType == config.TraySieve {
		count, err := design.SieveCount()
		if err != nil {
			return nil, err
		}
		inset, err := design.MagnifierInset()
		if err != nil {
			return nil, err
		}
		return &HolesResult{Type: config.TraySieve, Count: count, Inset: inset}, nil
	}
	layout, err := design.ValveLayout()
	if err != nil {
		return nil, err
	}
	return &HolesResult{Type: config.TrayValve, Count: layout.Count(), Layout: layout}, nil
}

// Schematic runs the column-schematic app on its saved document.
func (t *Toolkit) Schematic(ctx context.Context) (*tower.Schematic, error) {
	cfg, err := config.LoadTower(ctx, t.store)
	if err != nil {
		return nil, err
	}
	return cfg.Build()
}

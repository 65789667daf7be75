package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/towerlab/platekit/pkg/domain"
	"github.com/towerlab/platekit/pkg/ports"
)

// LoadStages returns the stages document, migrated if needed. A missing
// document yields the defaults, never an error.
func LoadStages(ctx context.Context, store ports.ParamStore) (StagesConfig, error) {
	cfg := DefaultStages()
	raw, err := loadRaw(ctx, store, AppStages)
	if err != nil || raw == nil {
		return cfg, err
	}
	if err := decodeWeak(raw, &cfg); err != nil {
		return DefaultStages(), fmt.Errorf("%s: %w", AppStages, err)
	}
	return cfg, nil
}

// SaveStages persists the stages document.
func SaveStages(ctx context.Context, store ports.ParamStore, cfg StagesConfig) error {
	return saveDoc(ctx, store, AppStages, cfg)
}

// LoadEnvelope returns the envelope document. Legacy documents with
// suffixed flat keys or Chinese section headings are migrated on read.
func LoadEnvelope(ctx context.Context, store ports.ParamStore) (EnvelopeConfig, error) {
	cfg := DefaultEnvelope()
	raw, err := loadRaw(ctx, store, AppEnvelope)
	if err != nil || raw == nil {
		return cfg, err
	}
	if isLegacyEnvelope(raw) {
		migrateEnvelope(raw, &cfg)
		return cfg, nil
	}
	if err := decodeWeak(raw, &cfg); err != nil {
		return DefaultEnvelope(), fmt.Errorf("%s: %w", AppEnvelope, err)
	}
	return cfg, nil
}

// SaveEnvelope persists the envelope document in the current layout.
func SaveEnvelope(ctx context.Context, store ports.ParamStore, cfg EnvelopeConfig) error {
	return saveDoc(ctx, store, AppEnvelope, cfg)
}

// LoadHoles returns the holes document. A legacy flat document populates
// the valve record, keeping default sieve values, the way the original
// migration did.
func LoadHoles(ctx context.Context, store ports.ParamStore) (HolesConfig, error) {
	cfg := DefaultHoles()
	raw, err := loadRaw(ctx, store, AppHoles)
	if err != nil || raw == nil {
		return cfg, err
	}
	if isLegacyHoles(raw) {
		if err := decodeWeak(raw, &cfg.Valve); err != nil {
			return DefaultHoles(), fmt.Errorf("%s: %w", AppHoles, err)
		}
		return cfg, nil
	}
	if err := decodeWeak(raw, &cfg); err != nil {
		return DefaultHoles(), fmt.Errorf("%s: %w", AppHoles, err)
	}
	return cfg, nil
}

// SaveHoles persists the holes document.
func SaveHoles(ctx context.Context, store ports.ParamStore, cfg HolesConfig) error {
	return saveDoc(ctx, store, AppHoles, cfg)
}

// LoadTower returns the tower document. Older documents stored every
// field as a string; the weak decode absorbs that.
func LoadTower(ctx context.Context, store ports.ParamStore) (TowerConfig, error) {
	cfg := DefaultTower()
	raw, err := loadRaw(ctx, store, AppTower)
	if err != nil || raw == nil {
		return cfg, err
	}
	if err := decodeWeak(raw, &cfg); err != nil {
		return DefaultTower(), fmt.Errorf("%s: %w", AppTower, err)
	}
	return cfg, nil
}

// SaveTower persists the tower document.
func SaveTower(ctx context.Context, store ports.ParamStore, cfg TowerConfig) error {
	return saveDoc(ctx, store, AppTower, cfg)
}

// Reset writes the default document for an app.
func Reset(ctx context.Context, store ports.ParamStore, app string) error {
	doc, err := DefaultDoc(app)
	if err != nil {
		return err
	}
	return store.Save(ctx, app, doc)
}

// DefaultDoc renders the default document for an app.
func DefaultDoc(app string) ([]byte, error) {
	switch app {
	case AppStages:
		return json.MarshalIndent(DefaultStages(), "", "  ")
	case AppEnvelope:
		return json.MarshalIndent(DefaultEnvelope(), "", "  ")
	case AppHoles:
		return json.MarshalIndent(DefaultHoles(), "", "  ")
	case AppTower:
		return json.MarshalIndent(DefaultTower(), "", "  ")
	default:
		return nil, fmt.Errorf("unknown app %q", app)
	}
}

func loadRaw(ctx context.Context, store ports.ParamStore, app string) (map[string]any, error) {
	doc, err := store.Load(ctx, app)
	if errors.Is(err, domain.ErrParamsNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", app, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", app, err)
	}
	return raw, nil
}

func saveDoc(ctx context.Context, store ports.ParamStore, app string, cfg any) error {
	doc, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", app, err)
	}
	return store.Save(ctx, app, doc)
}

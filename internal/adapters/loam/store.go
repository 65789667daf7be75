// Package loam implements ports.ParamStore on a Loam document repository.
// Every Save is a new document version, so the parameter history of each
// app survives edits. Deletion is a tombstone version rather than a file
// removal, keeping the history intact.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"

	"github.com/towerlab/platekit/pkg/domain"
)

// Meta is the frontmatter of a parameter document.
type Meta struct {
	App     string `json:"app" yaml:"app"`
	Deleted bool   `json:"deleted,omitempty" yaml:"deleted,omitempty"`
}

// Store is a versioned ParamStore. The JSON parameter document is the
// Loam document body; Meta carries the app name and the tombstone flag.
type Store struct {
	repo *loam.TypedRepository[Meta]
}

// New initializes a Loam repository at dir and wraps it as a Store.
func New(dir string) (*Store, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath, loam.WithStrict(true))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return NewWithRepo(loam.NewTypedRepository[Meta](repo)), nil
}

// NewWithRepo wraps an existing typed repository.
func NewWithRepo(repo *loam.TypedRepository[Meta]) *Store {
	return &Store{repo: repo}
}

func (s *Store) Save(ctx context.Context, app string, doc []byte) error {
	err := s.repo.Save(ctx, &loam.DocumentModel[Meta]{
		ID:      app,
		Content: string(doc),
		Data:    Meta{App: app},
	})
	if err != nil {
		return fmt.Errorf("loam save failed for %s: %w", app, err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, app string) ([]byte, error) {
	doc, err := s.repo.Get(ctx, app)
	if err != nil {
		// Loam reports a missing document as a lookup error; either way
		// there is nothing usable to return.
		return nil, domain.ErrParamsNotFound
	}
	if doc.Data.Deleted {
		return nil, domain.ErrParamsNotFound
	}
	return []byte(strings.TrimSpace(doc.Content)), nil
}

// Delete writes a tombstone version. Deleting a missing document is a
// no-op, matching the ParamStore contract.
func (s *Store) Delete(ctx context.Context, app string) error {
	doc, err := s.repo.Get(ctx, app)
	if err != nil || doc.Data.Deleted {
		return nil
	}
	err = s.repo.Save(ctx, &loam.DocumentModel[Meta]{
		ID:   app,
		Data: Meta{App: app, Deleted: true},
	})
	if err != nil {
		return fmt.Errorf("loam tombstone failed for %s: %w", app, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}
	apps := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.Data.Deleted {
			continue
		}
		name := doc.Data.App
		if name == "" {
			name = trimExtension(doc.ID)
		}
		apps = append(apps, name)
	}
	return apps, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/towerlab/platekit/pkg/domain"
)

// Store implements ports.ParamStore on the local filesystem, one JSON file
// per app in a configured directory.
type Store struct {
	BasePath string
}

// New creates a Store rooted at basePath. An empty basePath defaults to
// ".platekit/params".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".platekit", "params")
	}
	return &Store{BasePath: basePath}
}

// Save writes the document atomically: temp file in the same directory,
// fsync, then rename over the destination.
func (s *Store) Save(ctx context.Context, app string, doc []byte) error {
	if app == "" {
		return fmt.Errorf("app name cannot be empty")
	}
	if !json.Valid(doc) {
		return fmt.Errorf("parameter document for %q is not valid JSON", app)
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure params directory: %w", err)
	}

	destPath := filepath.Join(s.BasePath, app+".json")

	// Same directory keeps the rename on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+app+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(doc); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Windows cannot rename over an existing file.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove previous document: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file into place: %w", err)
	}
	return nil
}

// Load reads the document for an app.
func (s *Store) Load(ctx context.Context, app string) ([]byte, error) {
	if app == "" {
		return nil, fmt.Errorf("app name cannot be empty")
	}

	doc, err := os.ReadFile(filepath.Join(s.BasePath, app+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrParamsNotFound
		}
		return nil, fmt.Errorf("failed to read parameter document: %w", err)
	}
	return doc, nil
}

// Delete removes the document for an app.
func (s *Store) Delete(ctx context.Context, app string) error {
	if app == "" {
		return fmt.Errorf("app name cannot be empty")
	}

	err := os.Remove(filepath.Join(s.BasePath, app+".json"))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete parameter document: %w", err)
	}
	return nil
}

// List returns every app with a stored document.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list parameter documents: %w", err)
	}

	var apps []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		name := entry.Name()
		apps = append(apps, name[:len(name)-len(".json")])
	}
	return apps, nil
}

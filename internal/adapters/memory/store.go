package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/towerlab/platekit/pkg/domain"
)

// Store implements ports.ParamStore in process memory. It backs tests and
// ephemeral runs where persistence across restarts does not matter.
type Store struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{docs: make(map[string][]byte)}
}

func (s *Store) Save(ctx context.Context, app string, doc []byte) error {
	if app == "" {
		return fmt.Errorf("app name cannot be empty")
	}
	if !json.Valid(doc) {
		return fmt.Errorf("parameter document for %q is not valid JSON", app)
	}

	cp := make([]byte, len(doc))
	copy(cp, doc)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[app] = cp
	return nil
}

func (s *Store) Load(ctx context.Context, app string) ([]byte, error) {
	if app == "" {
		return nil, fmt.Errorf("app name cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[app]
	if !ok {
		return nil, domain.ErrParamsNotFound
	}
	cp := make([]byte, len(doc))
	copy(cp, doc)
	return cp, nil
}

func (s *Store) Delete(ctx context.Context, app string) error {
	if app == "" {
		return fmt.Errorf("app name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, app)
	return nil
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	apps := make([]string, 0, len(s.docs))
	for app := range s.docs {
		apps = append(apps, app)
	}
	sort.Strings(apps)
	return apps, nil
}

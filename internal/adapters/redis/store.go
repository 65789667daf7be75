package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/towerlab/platekit/pkg/domain"
)

// Store implements ports.ParamStore on Redis. Documents live under a key
// prefix and are indexed in a set so List does not need SCAN.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets an expiration on stored documents.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// New creates a Store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Store on an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "platekit:params:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(app string) string { return s.prefix + app }
func (s *Store) indexKey() string      { return s.prefix + "index" }

// Save persists the document and registers the app in the index.
func (s *Store) Save(ctx context.Context, app string, doc []byte) error {
	if app == "" {
		return fmt.Errorf("app name cannot be empty")
	}
	if !json.Valid(doc) {
		return fmt.Errorf("parameter document for %q is not valid JSON", app)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(app), doc, s.ttl)
	pipe.SAdd(ctx, s.indexKey(), app)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the document for an app.
func (s *Store) Load(ctx context.Context, app string) ([]byte, error) {
	if app == "" {
		return nil, fmt.Errorf("app name cannot be empty")
	}

	val, err := s.client.Get(ctx, s.key(app)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrParamsNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	return []byte(val), nil
}

// Delete removes the document and its index entry.
func (s *Store) Delete(ctx context.Context, app string) error {
	if app == "" {
		return fmt.Errorf("app name cannot be empty")
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(app))
	pipe.SRem(ctx, s.indexKey(), app)
	_, err := pipe.Exec(ctx)
	return err
}

// List returns the indexed apps, pruning entries whose documents expired.
func (s *Store) List(ctx context.Context) ([]string, error) {
	apps, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list from redis: %w", err)
	}

	live := apps[:0]
	for _, app := range apps {
		n, err := s.client.Exists(ctx, s.key(app)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to check %q: %w", app, err)
		}
		if n == 0 {
			_ = s.client.SRem(ctx, s.indexKey(), app).Err()
			continue
		}
		live = append(live, app)
	}
	return live, nil
}

// Close closes the underlying client.
func (s *Store) Close() error { return s.client.Close() }

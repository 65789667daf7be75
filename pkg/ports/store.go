// Package ports declares the boundary interfaces of the toolkit. Adapters
// under internal/adapters implement them; everything else depends only on
// the interfaces.
package ports

import "context"

// ParamStore persists per-app parameter documents. Documents are opaque
// JSON; the config package owns their shape, the store only guarantees
// durability and retrieval.
type ParamStore interface {
	// Save persists the document for an app, replacing any previous one.
	Save(ctx context.Context, app string, doc []byte) error

	// Load retrieves the document for an app.
	// Returns domain.ErrParamsNotFound if none has been saved.
	Load(ctx context.Context, app string) ([]byte, error)

	// Delete removes the document for an app. Deleting a missing
	// document is not an error.
	Delete(ctx context.Context, app string) error

	// List returns the apps that currently have a document.
	List(ctx context.Context) ([]string, error)
}

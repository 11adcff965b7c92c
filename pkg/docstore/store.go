package docstore

import "context"

// Store is the document store collaborator used by the RBAC core.
// Implementations must provide single-document write atomicity; a reader
// concurrent with a writer may observe the old or new document but never a
// torn one.
type Store interface {
	// Get decodes the document with the given id into dest.
	// Returns ErrNotFound if the document does not exist.
	Get(ctx context.Context, collection, id string, dest any) error

	// Set fully replaces the document with the given id, creating it if
	// absent.
	Set(ctx context.Context, collection, id string, doc any) error

	// Update merge-patches the given top-level fields into an existing
	// document. Returns ErrNotFound if the document does not exist.
	Update(ctx context.Context, collection, id string, fields map[string]any) error

	// Query decodes all documents whose field equals value into dest,
	// which must be a pointer to a slice. A limit of 0 means no limit.
	Query(ctx context.Context, collection, field string, value any, limit int64, dest any) error

	// All decodes every document in the collection into dest, which must
	// be a pointer to a slice.
	All(ctx context.Context, collection string, dest any) error

	// Add creates a document with a generated id and returns that id.
	Add(ctx context.Context, collection string, doc any) (string, error)

	// Delete removes the document with the given id.
	// Returns ErrNotFound if the document does not exist.
	Delete(ctx context.Context, collection, id string) error
}

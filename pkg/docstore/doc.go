// Package docstore provides a minimal key-value document store abstraction
// over named collections, with a MongoDB-backed implementation for
// production and an in-memory implementation for tests and embedding.
//
// Documents are identified by a string id stored in the "_id" field.
// Queries are equality filters on a single top-level field; that is the
// only query shape the consumers of this package need.
//
// Basic usage:
//
//	db, err := docstore.Connect(ctx, cfg)
//	if err != nil {
//	    // handle connection failure
//	}
//	store := docstore.NewMongo(db)
//
//	var r role.Role
//	if err := store.Get(ctx, "tenant_roles", roleID, &r); err != nil {
//	    if errors.Is(err, docstore.ErrNotFound) {
//	        // document absent
//	    }
//	}
//
// The in-memory store round-trips every document through bson so typed
// structs and map documents behave identically to the Mongo implementation:
//
//	store := docstore.NewMemory()
package docstore

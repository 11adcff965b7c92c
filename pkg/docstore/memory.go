package docstore

import (
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Memory is an in-process Store for tests and embedding.
// Every document is round-tripped through bson on write and read, so typed
// structs and map documents behave exactly as they do against Mongo,
// including defensive copying: readers never observe writer-side mutations.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]bson.Raw
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string]bson.Raw),
	}
}

// Get decodes the document with the given id into dest.
func (m *Memory) Get(ctx context.Context, collection, id string, dest any) error {
	m.mu.RLock()
	raw, ok := m.collections[collection][id]
	m.mu.RUnlock()

	if !ok {
		return ErrNotFound
	}
	return bson.Unmarshal(raw, dest)
}

// Set fully replaces the document with the given id, creating it if absent.
func (m *Memory) Set(ctx context.Context, collection, id string, doc any) error {
	raw, err := encodeWithID(id, doc)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]bson.Raw)
	}
	m.collections[collection][id] = raw
	return nil
}

// Update merge-patches the given top-level fields into an existing document.
func (m *Memory) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok := m.collections[collection][id]
	if !ok {
		return ErrNotFound
	}

	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return err
	}
	for k, v := range fields {
		doc[k] = v
	}

	updated, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	m.collections[collection][id] = updated
	return nil
}

// Query decodes all documents whose field equals value into dest.
func (m *Memory) Query(ctx context.Context, collection, field string, value any, limit int64, dest any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []bson.Raw
	for _, raw := range m.collections[collection] {
		var doc bson.M
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return err
		}
		if looseEqual(doc[field], value) {
			matched = append(matched, raw)
			if limit > 0 && int64(len(matched)) >= limit {
				break
			}
		}
	}

	return decodeAll(matched, dest)
}

// All decodes every document in the collection into dest.
func (m *Memory) All(ctx context.Context, collection string, dest any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raws := make([]bson.Raw, 0, len(m.collections[collection]))
	for _, raw := range m.collections[collection] {
		raws = append(raws, raw)
	}
	return decodeAll(raws, dest)
}

// Add creates a document with a generated id and returns that id.
func (m *Memory) Add(ctx context.Context, collection string, doc any) (string, error) {
	id := uuid.NewString()
	if err := m.Set(ctx, collection, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes the document with the given id.
func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.collections[collection][id]; !ok {
		return ErrNotFound
	}
	delete(m.collections[collection], id)
	return nil
}

// encodeWithID marshals doc and forces its "_id" field to id.
func encodeWithID(id string, doc any) (bson.Raw, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}

	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["_id"] = id

	return bson.Marshal(fields)
}

// decodeAll unmarshals each raw document into a new element of the slice
// pointed to by dest.
func decodeAll(raws []bson.Raw, dest any) error {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Slice {
		return ErrInvalidDest
	}

	slice := v.Elem()
	elemType := slice.Type().Elem()

	out := reflect.MakeSlice(slice.Type(), 0, len(raws))
	for _, raw := range raws {
		elem := reflect.New(elemType)
		if err := bson.Unmarshal(raw, elem.Interface()); err != nil {
			return err
		}
		out = reflect.Append(out, elem.Elem())
	}

	slice.Set(out)
	return nil
}

// looseEqual compares a decoded bson value with a caller-supplied one,
// normalizing the integer widths bson decoding produces.
func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	if na, ok := normalizeNumber(a); ok {
		nb, ok := normalizeNumber(b)
		return ok && na == nb
	}
	return a == b
}

func normalizeNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

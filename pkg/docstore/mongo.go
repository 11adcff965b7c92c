package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Mongo is a Store backed by a MongoDB database.
// Each collection maps to a MongoDB collection and documents are keyed by
// their "_id" field.
type Mongo struct {
	db *mongo.Database
}

// NewMongo creates a Store over an already connected database.
func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

// Connect establishes a MongoDB connection using the provided configuration
// and returns the configured database. It retries up to cfg.RetryAttempts
// times before giving up with ErrFailedToConnect.
func Connect(ctx context.Context, cfg Config) (*mongo.Database, error) {
	for range cfg.RetryAttempts {
		client, err := mongo.Connect(
			options.Client().
				ApplyURI(cfg.ConnectionURL).
				SetConnectTimeout(cfg.ConnectTimeout).
				SetMaxPoolSize(cfg.MaxPoolSize).
				SetMinPoolSize(cfg.MinPoolSize).
				SetMaxConnIdleTime(cfg.MaxConnIdleTime).
				SetRetryWrites(cfg.RetryWrites).
				SetRetryReads(cfg.RetryReads),
		)
		if err == nil {
			if err := client.Ping(ctx, nil); err == nil {
				return client.Database(cfg.Database), nil
			}
		}

		// Wait for the next retry interval
		time.Sleep(cfg.RetryInterval)
	}

	return nil, ErrFailedToConnect
}

// Get decodes the document with the given id into dest.
func (m *Mongo) Get(ctx context.Context, collection, id string, dest any) error {
	err := m.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(dest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// Set fully replaces the document with the given id, creating it if absent.
func (m *Mongo) Set(ctx context.Context, collection, id string, doc any) error {
	_, err := m.db.Collection(collection).ReplaceOne(
		ctx,
		bson.M{"_id": id},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

// Update merge-patches the given top-level fields into an existing document.
func (m *Mongo) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	res, err := m.db.Collection(collection).UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Query decodes all documents whose field equals value into dest.
func (m *Mongo) Query(ctx context.Context, collection, field string, value any, limit int64, dest any) error {
	opts := options.Find()
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := m.db.Collection(collection).Find(ctx, bson.M{field: value}, opts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, dest)
}

// All decodes every document in the collection into dest.
func (m *Mongo) All(ctx context.Context, collection string, dest any) error {
	cursor, err := m.db.Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return err
	}
	return cursor.All(ctx, dest)
}

// Add creates a document with a generated id and returns that id.
func (m *Mongo) Add(ctx context.Context, collection string, doc any) (string, error) {
	fields, err := toFields(doc)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	fields["_id"] = id

	if _, err := m.db.Collection(collection).InsertOne(ctx, fields); err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes the document with the given id.
func (m *Mongo) Delete(ctx context.Context, collection, id string) error {
	res, err := m.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// toFields converts an arbitrary document into a mutable field map via a
// bson round-trip, so generated ids can be injected regardless of the
// document's Go type.
func toFields(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}

	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection is the subset of *mongo.Collection used by the export sink.
type Collection interface {
	BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// CollectionProvider hands out collections by name.
type CollectionProvider interface {
	Collection(name string) Collection
}

// Database serves collections of one MongoDB database.
type Database struct {
	db *mongo.Database
}

// NewDatabase wraps the named database of client.
func NewDatabase(client *mongo.Client, name string) *Database {
	return &Database{db: client.Database(name)}
}

// Collection returns the named collection.
func (d *Database) Collection(name string) Collection {
	return d.db.Collection(name)
}

// Connect opens a client for uri and pings the primary.
func Connect(ctx context.Context, log zerolog.Logger, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("Connect: create client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("Connect: ping primary: %w", err)
	}

	log.Info().Msg("connected to MongoDB")
	return client, nil
}

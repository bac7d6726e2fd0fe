package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/dvloznov/transactions-viewer/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	RecordsCollection   = "records"
	ExportLogCollection = "exportLog"

	fieldExportID   = "export_id"
	fieldExportedAt = "exported_at"
)

// ExportLog represents a record in the exportLog collection.
type ExportLog struct {
	ExportID        string    `bson:"export_id"`
	CollectionName  string    `bson:"collection_name"`
	ExportTimestamp time.Time `bson:"export_timestamp"`
	RecordsUploaded int64     `bson:"records_uploaded"`
	Upserted        int64     `bson:"upserted"`
	Modified        int64     `bson:"modified"`
}

// MongoRepository is the MongoDB implementation of export.Sink.
type MongoRepository struct {
	provider CollectionProvider
	now      func() time.Time
}

// NewMongoRepository creates a new MongoRepository.
func NewMongoRepository(provider CollectionProvider) *MongoRepository {
	return &MongoRepository{
		provider: provider,
		now:      time.Now,
	}
}

// Write bulk upserts records into the "records" collection keyed by export,
// record ID and date, then appends an exportLog entry.
func (r *MongoRepository) Write(ctx context.Context, exportID string, records []domain.Record) error {
	if len(records) == 0 {
		return nil // Nothing to upsert
	}

	exportedAt := r.now().UTC()

	models := make([]mongo.WriteModel, 0, len(records))
	for _, rec := range records {
		filter := bson.M{
			fieldExportID:    exportID,
			domain.FieldID:   rec[domain.FieldID],
			domain.FieldDate: rec[domain.FieldDate],
		}
		update := bson.M{"$set": document(exportID, exportedAt, rec)}
		models = append(models, mongo.NewUpdateOneModel().SetFilter(filter).SetUpdate(update).SetUpsert(true))
	}

	collection := r.provider.Collection(RecordsCollection)
	result, err := collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("Write: bulk upsert into %s: %w", RecordsCollection, err)
	}

	entry := ExportLog{
		ExportID:        exportID,
		CollectionName:  RecordsCollection,
		ExportTimestamp: exportedAt,
		RecordsUploaded: int64(len(records)),
	}
	if result != nil {
		entry.Upserted = result.UpsertedCount
		entry.Modified = result.ModifiedCount
	}

	logCollection := r.provider.Collection(ExportLogCollection)
	if _, err := logCollection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("Write: insert into %s: %w", ExportLogCollection, err)
	}

	return nil
}

// document copies the record fields and stamps the export metadata.
func document(exportID string, exportedAt time.Time, rec domain.Record) bson.M {
	doc := bson.M(rec.Clone())
	doc[fieldExportID] = exportID
	doc[fieldExportedAt] = exportedAt
	return doc
}

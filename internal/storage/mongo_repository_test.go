package storage_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dvloznov/transactions-viewer/internal/domain"
	"github.com/dvloznov/transactions-viewer/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ storage.Collection = (*mongo.Collection)(nil)

// mockCollection implements storage.Collection for testing.
type mockCollection struct {
	bulkWriteFunc func(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error)
	insertOneFunc func(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

func (m *mockCollection) BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
	if m.bulkWriteFunc != nil {
		return m.bulkWriteFunc(ctx, models, opts...)
	}
	return &mongo.BulkWriteResult{}, nil
}

func (m *mockCollection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	if m.insertOneFunc != nil {
		return m.insertOneFunc(ctx, document, opts...)
	}
	return &mongo.InsertOneResult{}, nil
}

// mockCollectionProvider implements storage.CollectionProvider for testing.
type mockCollectionProvider struct {
	collectionFunc func(name string) storage.Collection
}

func (m *mockCollectionProvider) Collection(name string) storage.Collection {
	if m.collectionFunc != nil {
		return m.collectionFunc(name)
	}
	return &mockCollection{}
}

func sampleRecords() []domain.Record {
	return []domain.Record{
		{"id": float64(441945886), "state": "EXECUTED", "date": "2019-08-26T10:50:58.294041", "description": "Перевод организации"},
		{"id": float64(41428829), "state": "EXECUTED", "date": "2019-07-03T18:35:29.512364", "description": "Перевод организации"},
	}
}

func TestNewMongoRepository(t *testing.T) {
	provider := &mockCollectionProvider{}
	repo := storage.NewMongoRepository(provider)
	if repo == nil {
		t.Error("NewMongoRepository returned nil")
	}
}

func TestWrite_Success(t *testing.T) {
	ctx := context.Background()
	records := sampleRecords()

	mockDS := &mockCollection{
		bulkWriteFunc: func(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
			if len(models) != 2 {
				t.Errorf("Expected 2 write models, got %d", len(models))
			}
			model, ok := models[0].(*mongo.UpdateOneModel)
			if !ok {
				t.Fatalf("Expected *mongo.UpdateOneModel, got %T", models[0])
			}
			if model.Upsert == nil || !*model.Upsert {
				t.Error("Expected upsert to be enabled")
			}
			filter, ok := model.Filter.(bson.M)
			if !ok {
				t.Fatalf("Expected bson.M filter, got %T", model.Filter)
			}
			if filter["export_id"] != "exp-1" || filter["id"] != float64(441945886) || filter["date"] != "2019-08-26T10:50:58.294041" {
				t.Errorf("Unexpected filter: %v", filter)
			}
			set := model.Update.(bson.M)["$set"].(bson.M)
			if set["description"] != "Перевод организации" || set["export_id"] != "exp-1" {
				t.Errorf("Unexpected $set document: %v", set)
			}
			if len(opts) != 1 || opts[0].Ordered == nil || *opts[0].Ordered {
				t.Error("Expected unordered bulk write")
			}
			return &mongo.BulkWriteResult{UpsertedCount: 2}, nil
		},
		insertOneFunc: func(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
			entry, ok := document.(storage.ExportLog)
			if !ok {
				t.Errorf("Expected ExportLog document, got %T", document)
			}
			if entry.ExportID != "exp-1" || entry.CollectionName != storage.RecordsCollection {
				t.Errorf("Unexpected export log: %+v", entry)
			}
			if entry.RecordsUploaded != int64(len(records)) || entry.Upserted != 2 {
				t.Errorf("Unexpected counts: %+v", entry)
			}
			return &mongo.InsertOneResult{}, nil
		},
	}

	var seen []string
	provider := &mockCollectionProvider{
		collectionFunc: func(name string) storage.Collection {
			seen = append(seen, name)
			return mockDS
		},
	}

	repo := storage.NewMongoRepository(provider)
	if err := repo.Write(ctx, "exp-1", records); err != nil {
		t.Errorf("Write failed: %v", err)
	}
	if strings.Join(seen, ",") != "records,exportLog" {
		t.Errorf("Collections used = %v", seen)
	}
	if _, ok := records[0]["export_id"]; ok {
		t.Error("Write mutated the input record")
	}
}

func TestWrite_EmptyRecords(t *testing.T) {
	ctx := context.Background()
	provider := &mockCollectionProvider{
		collectionFunc: func(name string) storage.Collection {
			t.Errorf("Unexpected collection access: %s", name)
			return &mockCollection{}
		},
	}
	repo := storage.NewMongoRepository(provider)
	if err := repo.Write(ctx, "exp-1", nil); err != nil {
		t.Errorf("Write failed for empty records: %v", err)
	}
}

func TestWrite_BulkWriteError(t *testing.T) {
	ctx := context.Background()
	expectedErr := errors.New("bulk write error")
	insertCalled := false

	mockDS := &mockCollection{
		bulkWriteFunc: func(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
			return nil, expectedErr
		},
		insertOneFunc: func(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
			insertCalled = true
			return &mongo.InsertOneResult{}, nil
		},
	}
	provider := &mockCollectionProvider{
		collectionFunc: func(name string) storage.Collection { return mockDS },
	}

	repo := storage.NewMongoRepository(provider)
	err := repo.Write(ctx, "exp-1", sampleRecords())
	if !errors.Is(err, expectedErr) {
		t.Errorf("Expected error %v, got %v", expectedErr, err)
	}
	if insertCalled {
		t.Error("Export log should not be written after a failed bulk write")
	}
}

func TestWrite_ExportLogError(t *testing.T) {
	ctx := context.Background()
	expectedErr := errors.New("insert error")

	mockDS := &mockCollection{
		insertOneFunc: func(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
			return nil, expectedErr
		},
	}
	provider := &mockCollectionProvider{
		collectionFunc: func(name string) storage.Collection { return mockDS },
	}

	repo := storage.NewMongoRepository(provider)
	err := repo.Write(ctx, "exp-1", sampleRecords())
	if !errors.Is(err, expectedErr) {
		t.Errorf("Expected error %v, got %v", expectedErr, err)
	}
	if err != nil && !strings.Contains(err.Error(), "exportLog") {
		t.Errorf("Expected error to name the exportLog collection, got %v", err)
	}
}

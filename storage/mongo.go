package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	currency "github.com/malusev998/currency-converter"
)

const (
	DefaultMongoDatabase   = "currency"
	DefaultMongoCollection = "snapshot"

	snapshotDocumentID = "latest"
)

type (
	mongoSnapshot struct {
		ID        string             `bson:"_id"`
		Base      string             `bson:"base"`
		Rates     map[string]float64 `bson:"rates"`
		FetchedAt time.Time          `bson:"fetchedAt"`
		UpdatedAt time.Time          `bson:"updatedAt"`
	}

	mongoStorage struct {
		client     *mongo.Client
		collection *mongo.Collection
	}
)

func NewMongoStorage(config MongoDBConfig) (currency.Storage, error) {
	ctx := contextOrBackground(config.Ctx)

	client, err := mongo.NewClient(options.Client().ApplyURI(config.ConnectionString))

	if err != nil {
		return nil, fmt.Errorf("error in mongo configuration: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("error while connecting to mongodb: %w", err)
	}

	database := config.Database
	if database == "" {
		database = DefaultMongoDatabase
	}

	collection := config.Collection
	if collection == "" {
		collection = DefaultMongoCollection
	}

	return mongoStorage{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

func (m mongoStorage) Save(ctx context.Context, table currency.RateTable) error {
	doc := mongoSnapshot{
		ID:        snapshotDocumentID,
		Base:      table.Base,
		Rates:     table.Rates,
		FetchedAt: table.FetchedAt,
		UpdatedAt: time.Now().UTC(),
	}

	_, err := m.collection.ReplaceOne(ctx, bson.M{"_id": snapshotDocumentID}, doc, options.Replace().SetUpsert(true))

	if err != nil {
		return fmt.Errorf("failed to replace snapshot document: %w", err)
	}

	return nil
}

func (m mongoStorage) Load(ctx context.Context) (currency.RateTable, error) {
	var doc mongoSnapshot

	err := m.collection.FindOne(ctx, bson.M{"_id": snapshotDocumentID}).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return currency.RateTable{}, fmt.Errorf("collection %s: %w", m.collection.Name(), currency.ErrSnapshotNotFound)
	}

	if err != nil {
		return currency.RateTable{}, fmt.Errorf("failed to read snapshot document: %w", err)
	}

	return currency.NewRateTable(doc.Base, doc.Rates, doc.FetchedAt), nil
}

func (m mongoStorage) GetStorageProviderName() string {
	return "mongodb"
}

func (m mongoStorage) Close() error {
	return m.client.Disconnect(context.Background())
}

package store

import (
	"context"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/liyacrafter/viewcheck/internal/report"
)

// DefaultCollection receives run reports when none is configured.
const DefaultCollection = "validation_runs"

// MongoStore implements Store on a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	database   string
	collection string
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, connectionString, database, collection string) (*MongoStore, error) {
	if collection == "" {
		collection = DefaultCollection
	}
	opts := options.Client().ApplyURI(connectionString)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging MongoDB: %w", err)
	}

	return &MongoStore{
		client:     client,
		database:   database,
		collection: collection,
	}, nil
}

func (m *MongoStore) coll() *mongo.Collection {
	return m.client.Database(m.database).Collection(m.collection)
}

// Save inserts the report as one document.
func (m *MongoStore) Save(ctx context.Context, r *report.Report) error {
	doc, err := toDocument(r)
	if err != nil {
		return err
	}
	if _, err := m.coll().InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("inserting report for %s: %w", r.Suite, err)
	}
	return nil
}

// Recent returns the newest n run summaries for suite, newest first.
func (m *MongoStore) Recent(ctx context.Context, suite string, n int) ([]Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "generated_at", Value: -1}}).
		SetLimit(int64(n)).
		SetProjection(bson.D{{Key: "report", Value: 0}})
	cursor, err := m.coll().Find(ctx, bson.D{{Key: "suite", Value: suite}}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing runs for %s: %w", suite, err)
	}
	var out []Summary
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decoding runs for %s: %w", suite, err)
	}
	return out, nil
}

// Close disconnects from MongoDB.
func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// toDocument stores the summary fields at the top level for filtering and
// sorting, and the full report as a nested document.
func toDocument(r *report.Report) (bson.D, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshaling report: %w", err)
	}
	var body bson.D
	if err := bson.UnmarshalExtJSON(data, false, &body); err != nil {
		return nil, fmt.Errorf("converting report: %w", err)
	}
	s := SummaryOf(r)
	return bson.D{
		{Key: "suite", Value: s.Suite},
		{Key: "status", Value: s.Status},
		{Key: "passed", Value: s.Passed},
		{Key: "generated_at", Value: s.GeneratedAt},
		{Key: "total", Value: s.Total},
		{Key: "failed", Value: s.Failed},
		{Key: "errored", Value: s.Errored},
		{Key: "report", Value: body},
	}, nil
}

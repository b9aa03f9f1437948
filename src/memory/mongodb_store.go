package memory

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCloseTimeout = 5 * time.Second

// MongoStore persists the transcript in a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is required")
	}
	if database == "" {
		return nil, errors.New("mongo database name is required")
	}
	if collection == "" {
		return nil, errors.New("mongo collection name is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

func (ms *MongoStore) Append(ctx context.Context, rec Record) error {
	if ms == nil || ms.collection == nil {
		return nil
	}
	_, err := ms.collection.InsertOne(ctx, bson.M{
		"record_id":  rec.ID,
		"role":       rec.Role,
		"content":    rec.Content,
		"created_at": rec.CreatedAt,
	})
	return err
}

func (ms *MongoStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	if ms == nil || ms.collection == nil || limit <= 0 {
		return nil, nil
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := ms.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []Record
	for cursor.Next(ctx) {
		var doc transcriptDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		records = append(records, doc.toRecord())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	reverse(records)
	return records, nil
}

// Close releases the underlying MongoDB client.
func (ms *MongoStore) Close() error {
	if ms == nil || ms.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoCloseTimeout)
	defer cancel()
	return ms.client.Disconnect(ctx)
}

type transcriptDocument struct {
	RecordID  string    `bson:"record_id"`
	Role      string    `bson:"role"`
	Content   string    `bson:"content"`
	CreatedAt time.Time `bson:"created_at"`
}

func (doc transcriptDocument) toRecord() Record {
	return Record{
		ID:        doc.RecordID,
		Role:      doc.Role,
		Content:   doc.Content,
		CreatedAt: doc.CreatedAt,
	}
}

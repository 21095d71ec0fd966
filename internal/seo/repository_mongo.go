package seo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "seo_snapshots"

type MongoRepository struct {
	collection *mongo.Collection
}

var _ Repository = (*MongoRepository)(nil)

func NewMongoRepository(collection *mongo.Collection) *MongoRepository {
	return &MongoRepository{collection: collection}
}

func (r *MongoRepository) Save(ctx context.Context, s Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert seo snapshot: %w", err)
	}
	return nil
}

func (r *MongoRepository) Latest(ctx context.Context) ([]Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "checkedAt", Value: -1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$path"},
			{Key: "doc", Value: bson.D{{Key: "$first", Value: "$$ROOT"}}},
		}}},
		{{Key: "$replaceRoot", Value: bson.D{{Key: "newRoot", Value: "$doc"}}}},
		{{Key: "$sort", Value: bson.D{{Key: "path", Value: 1}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate latest seo snapshots: %w", err)
	}
	defer cursor.Close(ctx)

	out := make([]Snapshot, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode seo snapshots: %w", err)
	}
	return out, nil
}

func (r *MongoRepository) History(ctx context.Context, path string, limit int) ([]Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "checkedAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.collection.Find(ctx, bson.M{"path": path}, opts)
	if err != nil {
		return nil, fmt.Errorf("find seo history: %w", err)
	}
	defer cursor.Close(ctx)

	out := make([]Snapshot, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode seo history: %w", err)
	}
	return out, nil
}

package settings

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "settings"
	singletonID    = "site"
)

type document struct {
	ID       string `bson:"_id"`
	Settings `bson:",inline"`
}

type MongoRepository struct {
	collection *mongo.Collection
}

var _ Repository = (*MongoRepository)(nil)

func NewMongoRepository(collection *mongo.Collection) *MongoRepository {
	return &MongoRepository{collection: collection}
}

func (r *MongoRepository) Get(ctx context.Context) (Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var doc document
	err := r.collection.FindOne(ctx, bson.M{"_id": singletonID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Settings{}, ErrNotFound
	}
	if err != nil {
		return Settings{}, fmt.Errorf("find settings: %w", err)
	}
	return doc.Settings, nil
}

func (r *MongoRepository) Save(ctx context.Context, s Settings) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	doc := document{ID: singletonID, Settings: s}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": singletonID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

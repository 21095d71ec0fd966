package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wichananm65/gift-store-backend/internal/database"
)

const CollectionName = "catalog_items"

type MongoRepository struct {
	collection *mongo.Collection
}

var _ Repository = (*MongoRepository)(nil)

func NewMongoRepository(collection *mongo.Collection) *MongoRepository {
	return &MongoRepository{collection: collection}
}

func (r *MongoRepository) List(ctx context.Context) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("find catalog items: %w", err)
	}
	defer cursor.Close(ctx)

	out := make([]Item, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode catalog items: %w", err)
	}
	for i := range out {
		if out[i].ProductIDs == nil {
			out[i].ProductIDs = []int{}
		}
	}
	return out, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id int) (Item, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	var it Item
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&it); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Item{}, ErrNotFound
		}
		return Item{}, fmt.Errorf("find catalog item %d: %w", id, err)
	}
	if it.ProductIDs == nil {
		it.ProductIDs = []int{}
	}
	return it, nil
}

func (r *MongoRepository) Create(ctx context.Context, it Item) (Item, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if it.ProductIDs == nil {
		it.ProductIDs = []int{}
	}
	for attempt := 1; ; attempt++ {
		var last struct {
			ID int `bson:"_id"`
		}
		opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}}).SetProjection(bson.M{"_id": 1})
		switch err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&last); {
		case errors.Is(err, mongo.ErrNoDocuments):
			last.ID = 0
		case err != nil:
			return Item{}, fmt.Errorf("find last catalog id: %w", err)
		}

		it.ID = last.ID + 1
		_, err := r.collection.InsertOne(ctx, it)
		switch {
		case err == nil:
			return it, nil
		case !database.IsUniqueViolation(err):
			return Item{}, fmt.Errorf("insert catalog item: %w", err)
		case attempt == database.CreateAttempts:
			return Item{}, fmt.Errorf("insert catalog item: %w", ErrIDConflict)
		}
	}
}

func (r *MongoRepository) Update(ctx context.Context, it Item) (Item, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if it.ProductIDs == nil {
		it.ProductIDs = []int{}
	}
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": it.ID}, it)
	if err != nil {
		return Item{}, fmt.Errorf("replace catalog item %d: %w", it.ID, err)
	}
	if res.MatchedCount == 0 {
		return Item{}, ErrNotFound
	}
	return it, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id int, deletedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "isActive": true},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": deletedAt}},
	)
	if err != nil {
		return fmt.Errorf("soft delete catalog item %d: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) SlugExists(ctx context.Context, slug string, excludeID int) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{"slug": slug, "_id": bson.M{"$ne": excludeID}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count catalog slug: %w", err)
	}
	return n > 0, nil
}

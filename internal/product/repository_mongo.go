package product

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

// CollectionName is the Mongo collection holding products.
const CollectionName = "products"

type MongoRepository struct {
	collection *mongo.Collection
}

var _ Repository = (*MongoRepository)(nil)

func NewMongoRepository(collection *mongo.Collection) *MongoRepository {
	return &MongoRepository{collection: collection}
}

func (r *MongoRepository) List(ctx context.Context) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	out := make([]Product, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	for i := range out {
		if out[i].Images == nil {
			out[i].Images = []string{}
		}
	}
	return out, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id int) (Product, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	var p Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("find product %d: %w", id, err)
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return p, nil
}

// Create assigns max(_id)+1, taking a fresh id when a concurrent create won
// the previous one.
func (r *MongoRepository) Create(ctx context.Context, p Product) (Product, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	p.Images = nonNil(p.Images)
	for attempt := 1; ; attempt++ {
		next, err := r.nextID(ctx)
		if err != nil {
			return Product{}, err
		}
		p.ID = next
		_, err = r.collection.InsertOne(ctx, p)
		switch {
		case err == nil:
			return p, nil
		case !database.IsUniqueViolation(err):
			return Product{}, fmt.Errorf("insert product: %w", err)
		case attempt == database.CreateAttempts:
			return Product{}, fmt.Errorf("insert product: %w", ErrIDConflict)
		}
	}
}

func (r *MongoRepository) Update(ctx context.Context, p Product) (Product, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	p.Images = nonNil(p.Images)
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return Product{}, fmt.Errorf("replace product %d: %w", p.ID, err)
	}
	if res.MatchedCount == 0 {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id int, deletedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "isActive": true}
	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": deletedAt}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("soft delete product %d: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) SlugExists(ctx context.Context, slug string, excludeID int) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{"slug": slug, "_id": bson.M{"$ne": excludeID}})
	if err != nil {
		return false, fmt.Errorf("count product slug: %w", err)
	}
	return n > 0, nil
}

func (r *MongoRepository) nextID(ctx context.Context) (int, error) {
	var last struct {
		ID int `bson:"_id"`
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}}).SetProjection(bson.M{"_id": 1})
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("find last product id: %w", err)
	}
	return last.ID + 1, nil
}

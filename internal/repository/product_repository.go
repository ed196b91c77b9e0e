package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/peanutradio/shopmall-api/internal/domain"
	"github.com/peanutradio/shopmall-api/internal/port"
)

type productRepository struct {
	collection *mongo.Collection
}

func NewProduct(db *mongo.Database) port.ProductRepository {
	return &productRepository{collection: db.Collection("products")}
}

func (r *productRepository) Insert(ctx context.Context, product *domain.Product) error {
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSKUTaken
		}
		return fmt.Errorf("collection.InsertOne: %w", err)
	}

	product.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id primitive.ObjectID) (domain.Product, error) {
	var product domain.Product

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return product, domain.ErrProductNotFound
	}
	if err != nil {
		return product, fmt.Errorf("collection.FindOne: %w", err)
	}

	return product, nil
}

func (r *productRepository) List(ctx context.Context, filter port.ProductFilter) ([]domain.Product, int64, error) {
	query := bson.M{}
	if filter.Category != nil {
		query["category"] = *filter.Category
	}

	totalCount, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("collection.CountDocuments: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * filter.Limit)).SetLimit(int64(filter.Limit))
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("collection.Find: %w", err)
	}

	var products []domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("cursor.All: %w", err)
	}

	return products, totalCount, nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	product.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSKUTaken
		}
		return fmt.Errorf("collection.ReplaceOne: %w", err)
	}

	if result.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

func (r *productRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("collection.DeleteOne: %w", err)
	}

	if result.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

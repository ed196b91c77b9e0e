package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/peanutradio/shopmall-api/internal/domain"
	"github.com/peanutradio/shopmall-api/internal/port"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type cartRepository struct {
	collection *mongo.Collection
}

func NewCart(db *mongo.Database) port.CartRepository {
	return &cartRepository{collection: db.Collection("carts")}
}

func (r *cartRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*domain.Cart, error) {
	var cart domain.Cart

	err := r.collection.FindOne(ctx, bson.M{"user": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("collection.FindOne: %w", err)
	}

	return &cart, nil
}

// Save upserts the whole cart document keyed by user, relying on the unique
// index to keep one cart per user.
func (r *cartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	filter := bson.M{"user": cart.UserID}
	update := bson.M{"$set": bson.M{
		"user":        cart.UserID,
		"items":       cart.Items,
		"totalAmount": cart.TotalAmount,
		"totalItems":  cart.TotalItems,
		"updatedAt":   cart.UpdatedAt,
	}, "$setOnInsert": bson.M{
		"createdAt": cart.CreatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("collection.UpdateOne: %w", err)
	}

	if result.UpsertedID != nil {
		cart.ID = result.UpsertedID.(primitive.ObjectID)
	}

	return nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("client.Ping: %w", err)
	}

	return client, nil
}

// EnsureIndexes creates the unique indexes the data model relies on:
// one cart per user, unique product SKU and user email, unique order
// numbers and unique payment identifiers (sparse, online payments only).
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := func(key string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: key, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}
	uniqueSparse := func(key string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: key, Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		}
	}

	indexes := map[string][]mongo.IndexModel{
		"users":    {unique("email")},
		"products": {unique("sku")},
		"carts":    {unique("user")},
		"orders": {
			unique("orderNumber"),
			uniqueSparse("imp_uid"),
			uniqueSparse("merchant_uid"),
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes for %s: %w", collection, err)
		}
	}

	return nil
}

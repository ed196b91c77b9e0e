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

type orderRepository struct {
	collection *mongo.Collection
}

func NewOrder(db *mongo.Database) port.OrderRepository {
	return &orderRepository{collection: db.Collection("orders")}
}

func (r *orderRepository) Insert(ctx context.Context, order *domain.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateOrder
		}
		return fmt.Errorf("collection.InsertOne: %w", err)
	}

	order.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (domain.Order, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *orderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (domain.Order, error) {
	return r.findOne(ctx, bson.M{"orderNumber": orderNumber})
}

func (r *orderRepository) FindByPaymentRef(ctx context.Context, impUID, merchantUID string) (domain.Order, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"imp_uid": impUID},
		bson.M{"merchant_uid": merchantUID},
	}})
}

func (r *orderRepository) findOne(ctx context.Context, filter bson.M) (domain.Order, error) {
	var order domain.Order

	err := r.collection.FindOne(ctx, filter).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return order, domain.ErrOrderNotFound
	}
	if err != nil {
		return order, fmt.Errorf("collection.FindOne: %w", err)
	}

	return order, nil
}

func (r *orderRepository) List(ctx context.Context, filter port.OrderFilter) ([]domain.Order, int64, error) {
	query := bson.M{}
	if filter.UserID != nil {
		query["user"] = *filter.UserID
	}
	if filter.OrderStatus != nil {
		query["orderStatus"] = *filter.OrderStatus
	}
	if filter.PaymentStatus != nil {
		query["paymentStatus"] = *filter.PaymentStatus
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

	var orders []domain.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("cursor.All: %w", err)
	}

	return orders, totalCount, nil
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	order.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": order.ID}, order)
	if err != nil {
		return fmt.Errorf("collection.ReplaceOne: %w", err)
	}

	if result.MatchedCount == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("collection.DeleteOne: %w", err)
	}

	if result.DeletedCount == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

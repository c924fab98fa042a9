package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gandalf/internal/domain"
	"gandalf/internal/dto"
	apperrors "gandalf/internal/errors"
	"gandalf/internal/infrastructure/mongodb"
)

type MongoOrderRepository struct {
	collection *mongo.Collection
}

func NewMongoOrderRepository(client *mongo.Client, dbName string) *MongoOrderRepository {
	return &MongoOrderRepository{
		collection: mongodb.GetCollection(client, dbName, mongodb.CollectionOrders),
	}
}

func (r *MongoOrderRepository) Insert(ctx context.Context, order domain.Order) (*domain.Order, error) {
	result, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("inserting order: %w", err)
	}

	order.ID = result.InsertedID.(primitive.ObjectID)
	return &order, nil
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	var order domain.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", id.Hex()))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return &order, nil
}

// List returns one page plus the total matching count so the caller can
// compute page counts. Sorted newest first.
func (r *MongoOrderRepository) List(ctx context.Context, filters dto.OrderFilters, page dto.PageRequest) ([]domain.Order, int64, error) {
	filter := buildOrderFilter(filters)

	totalCount, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Offset()).
		SetLimit(int64(page.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("querying orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []domain.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("decoding orders: %w", err)
	}

	return orders, totalCount, nil
}

func buildOrderFilter(filters dto.OrderFilters) bson.M {
	filter := bson.M{}

	if filters.Status != "" {
		filter["status"] = filters.Status
	}

	if filters.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filters.Search), Options: "i"}
		or := []bson.M{
			{"customer.email": pattern},
			{"shipping.address": pattern},
			{"shipping.city": pattern},
		}
		if id, err := primitive.ObjectIDFromHex(filters.Search); err == nil {
			or = append(or, bson.M{"_id": id})
		}
		filter["$or"] = or
	}

	return filter
}

// ConfirmPayment atomically moves a PENDING order to PROCESSING/PAID. The
// status-qualified filter is what makes a concurrent double confirm safe.
func (r *MongoOrderRepository) ConfirmPayment(ctx context.Context, id primitive.ObjectID, transactionID string) (*domain.Order, error) {
	update := bson.M{"$set": bson.M{
		"status":                domain.OrderStatusProcessing,
		"payment.status":        domain.PaymentStatusPaid,
		"payment.transactionId": transactionID,
	}}

	return r.findOneAndUpdate(ctx, id, bson.M{"_id": id, "status": domain.OrderStatusPending}, update)
}

// MarkPaymentFailed records a declined attempt. The order stays PENDING so
// the customer can retry with new payment details.
func (r *MongoOrderRepository) MarkPaymentFailed(ctx context.Context, id primitive.ObjectID, transactionID string) (*domain.Order, error) {
	update := bson.M{"$set": bson.M{
		"payment.status":        domain.PaymentStatusFailed,
		"payment.transactionId": transactionID,
	}}

	return r.findOneAndUpdate(ctx, id, bson.M{"_id": id, "status": domain.OrderStatusPending}, update)
}

// UpdateStatus applies a validated transition. The filter pins the expected
// current status so a concurrent transition cannot be silently overwritten.
func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to domain.OrderStatus, at time.Time) (*domain.Order, error) {
	set := bson.M{"status": to}
	switch to {
	case domain.OrderStatusShipped:
		set["shippedAt"] = at
	case domain.OrderStatusDelivered:
		set["deliveredAt"] = at
	}

	return r.findOneAndUpdate(ctx, id, bson.M{"_id": id, "status": from}, bson.M{"$set": set})
}

// findOneAndUpdate applies a status-qualified update. When the filter matches
// nothing the order is re-read to tell a missing order (NotFound) from one a
// concurrent update moved out of the expected status (Conflict).
func (r *MongoOrderRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, filter, update bson.M) (*domain.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order domain.Order
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		var current domain.Order
		readErr := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&current)
		if readErr == nil {
			return nil, apperrors.NewConflictError(fmt.Sprintf("order %s is no longer in the expected status", id.Hex()))
		}
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", id.Hex()))
	}
	if err != nil {
		return nil, fmt.Errorf("updating order: %w", err)
	}

	return &order, nil
}

func (r *MongoOrderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}

	if result.DeletedCount == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", id.Hex()))
	}

	return nil
}

// FindLatestByUser returns nil without error when the user has no orders.
func (r *MongoOrderRepository) FindLatestByUser(ctx context.Context, userID primitive.ObjectID) (*domain.Order, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var order domain.Order
	err := r.collection.FindOne(ctx, bson.M{"customer.userId": userID}, opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest order: %w", err)
	}

	return &order, nil
}

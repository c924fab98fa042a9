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

type MongoProductRepository struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(client *mongo.Client, dbName string) *MongoProductRepository {
	return &MongoProductRepository{
		collection: mongodb.GetCollection(client, dbName, mongodb.CollectionProducts),
	}
}

func (r *MongoProductRepository) Insert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	result, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("inserting product: %w", err)
	}

	product.ID = result.InsertedID.(primitive.ObjectID)
	return &product, nil
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	var product domain.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("product %s not found", id.Hex()))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}

	return &product, nil
}

// FindByIDs returns whatever subset exists; the caller decides whether
// missing ids are an error.
func (r *MongoProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("querying products by ids: %w", err)
	}
	defer cursor.Close(ctx)

	products := []domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decoding products: %w", err)
	}

	return products, nil
}

func (r *MongoProductRepository) List(ctx context.Context, filters dto.ProductFilters, page dto.PageRequest) ([]domain.Product, int64, error) {
	filter := bson.M{}
	if filters.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filters.Search), Options: "i"}
		filter["$or"] = []bson.M{
			{"name": pattern},
			{"description": pattern},
		}
	}
	if filters.CategoryID != "" {
		categoryID, err := primitive.ObjectIDFromHex(filters.CategoryID)
		if err != nil {
			return nil, 0, apperrors.NewValidationError("invalid category filter", apperrors.ValidationDetail{
				Field:   "category",
				Message: "category must be a valid id",
			})
		}
		filter["categoryId"] = categoryID
	}

	totalCount, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Offset()).
		SetLimit(int64(page.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("querying products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("decoding products: %w", err)
	}

	return products, totalCount, nil
}

func (r *MongoProductRepository) Update(ctx context.Context, id primitive.ObjectID, product domain.Product) (*domain.Product, error) {
	product.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price,
		"stock":       product.Stock,
		"categoryId":  product.CategoryID,
		"imageUrl":    product.ImageURL,
		"isActive":    product.IsActive,
		"updatedAt":   product.UpdatedAt,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Product
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("product %s not found", id.Hex()))
	}
	if err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}

	return &updated, nil
}

func (r *MongoProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	if result.DeletedCount == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("product %s not found", id.Hex()))
	}

	return nil
}

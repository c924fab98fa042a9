package category

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gandalf/internal/domain"
	apperrors "gandalf/internal/errors"
	"gandalf/internal/infrastructure/mongodb"
)

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(client *mongo.Client, dbName string) *MongoRepository {
	return &MongoRepository{
		collection: mongodb.GetCollection(client, dbName, mongodb.CollectionCategories),
	}
}

func (r *MongoRepository) Insert(ctx context.Context, category domain.Category) (*domain.Category, error) {
	result, err := r.collection.InsertOne(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("inserting category: %w", err)
	}

	category.ID = result.InsertedID.(primitive.ObjectID)
	return &category, nil
}

func (r *MongoRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer cursor.Close(ctx)

	categories := []domain.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("decoding categories: %w", err)
	}

	return categories, nil
}

func (r *MongoRepository) Update(ctx context.Context, id primitive.ObjectID, name, slug string) (*domain.Category, error) {
	update := bson.M{"$set": bson.M{
		"name":      name,
		"slug":      slug,
		"updatedAt": time.Now().UTC(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Category
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("category %s not found", id.Hex()))
	}
	if err != nil {
		return nil, fmt.Errorf("updating category: %w", err)
	}

	return &updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	if result.DeletedCount == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("category %s not found", id.Hex()))
	}

	return nil
}

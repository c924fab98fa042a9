package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"gandalf/internal/domain"
	"gandalf/internal/dto"
	apperrors "gandalf/internal/errors"
)

type Repository interface {
	Insert(ctx context.Context, product domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Product, error)
	List(ctx context.Context, filters dto.ProductFilters, page dto.PageRequest) ([]domain.Product, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, product domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ProductService struct {
	repo         Repository
	logger       *zap.Logger
	defaultLimit int
	maxLimit     int
}

func NewProductService(repo Repository, logger *zap.Logger, defaultLimit, maxLimit int) *ProductService {
	return &ProductService{
		repo:         repo,
		logger:       logger,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

func (s *ProductService) ListProducts(ctx context.Context, filters dto.ProductFilters, page dto.PageRequest) (*dto.ProductPage, error) {
	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit < 1 {
		page.Limit = s.defaultLimit
	}
	if page.Limit > s.maxLimit {
		page.Limit = s.maxLimit
	}

	products, totalCount, err := s.repo.List(ctx, filters, page)
	if err != nil {
		return nil, err
	}

	return &dto.ProductPage{
		Products:   products,
		TotalCount: totalCount,
		Page:       page.Page,
		Limit:      page.Limit,
	}, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// FindByIDs backs checkout validation.
func (s *ProductService) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Product, error) {
	return s.repo.FindByIDs(ctx, ids)
}

func (s *ProductService) CreateProduct(ctx context.Context, actor domain.Actor, req dto.SaveProductRequest) (*domain.Product, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewAuthorizationError("creating products requires administrative privilege")
	}

	product, err := productFromRequest(req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	created, err := s.repo.Insert(ctx, *product)
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("productId", created.ID.Hex()),
		zap.String("name", created.Name))

	return created, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, actor domain.Actor, id primitive.ObjectID, req dto.SaveProductRequest) (*domain.Product, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewAuthorizationError("updating products requires administrative privilege")
	}

	product, err := productFromRequest(req)
	if err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, id, *product)
}

func (s *ProductService) DeleteProduct(ctx context.Context, actor domain.Actor, id primitive.ObjectID) error {
	if !actor.IsAdmin() {
		return apperrors.NewAuthorizationError("deleting products requires administrative privilege")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("product deleted", zap.String("productId", id.Hex()))
	return nil
}

func productFromRequest(req dto.SaveProductRequest) (*domain.Product, error) {
	var details []apperrors.ValidationDetail

	if req.Name == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "name",
			Message: "name is required",
		})
	}
	if req.Price < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "price",
			Message: "price must be non-negative",
		})
	}
	if req.Stock < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "stock",
			Message: "stock must be non-negative",
		})
	}

	var categoryID primitive.ObjectID
	if req.CategoryID != "" {
		id, err := primitive.ObjectIDFromHex(req.CategoryID)
		if err != nil {
			details = append(details, apperrors.ValidationDetail{
				Field:   "categoryId",
				Message: "categoryId must be a valid id",
			})
		} else {
			categoryID = id
		}
	}

	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	return &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  categoryID,
		ImageURL:    req.ImageURL,
		IsActive:    isActive,
	}, nil
}

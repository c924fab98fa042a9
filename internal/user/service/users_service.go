package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"gandalf/internal/domain"
	"gandalf/internal/dto"
	apperrors "gandalf/internal/errors"
)

type Repository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	List(ctx context.Context, filters dto.UserFilters, page dto.PageRequest) ([]domain.User, int64, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*domain.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type UserService struct {
	repo         Repository
	logger       *zap.Logger
	defaultLimit int
	maxLimit     int
}

func NewUserService(repo Repository, logger *zap.Logger, defaultLimit, maxLimit int) *UserService {
	return &UserService{
		repo:         repo,
		logger:       logger,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// GetUser allows self-lookup; anyone else's profile needs admin privilege.
func (s *UserService) GetUser(ctx context.Context, actor domain.Actor, id primitive.ObjectID) (*domain.User, error) {
	if !actor.IsAdmin() && actor.UserID != id {
		return nil, apperrors.NewAuthorizationError("profile belongs to another user")
	}

	return s.repo.FindByID(ctx, id)
}

func (s *UserService) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, actor domain.Actor, filters dto.UserFilters, page dto.PageRequest) (*dto.UserPage, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewAuthorizationError("listing users requires administrative privilege")
	}

	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit < 1 {
		page.Limit = s.defaultLimit
	}
	if page.Limit > s.maxLimit {
		page.Limit = s.maxLimit
	}

	users, totalCount, err := s.repo.List(ctx, filters, page)
	if err != nil {
		return nil, err
	}

	return &dto.UserPage{
		Users:      users,
		TotalCount: totalCount,
		Page:       page.Page,
		Limit:      page.Limit,
	}, nil
}

func (s *UserService) AllUsers(ctx context.Context, actor domain.Actor) ([]domain.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewAuthorizationError("the user report requires administrative privilege")
	}

	return s.repo.FindAll(ctx)
}

func (s *UserService) UpdateUser(ctx context.Context, actor domain.Actor, id primitive.ObjectID, req dto.UpdateUserRequest) (*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewAuthorizationError("updating users requires administrative privilege")
	}

	set := bson.M{}
	if req.FullName != "" {
		set["fullName"] = req.FullName
	}
	if req.Username != "" {
		set["username"] = req.Username
	}
	if req.Role != "" {
		role := domain.Role(req.Role)
		if role != domain.RoleAdmin && role != domain.RoleUser {
			return nil, apperrors.NewValidationError("invalid role", apperrors.ValidationDetail{
				Field:   "role",
				Message: "role must be ADMIN or USER",
			})
		}
		set["role"] = role
	}

	if len(set) == 0 {
		return nil, apperrors.NewValidationError("nothing to update", apperrors.ValidationDetail{
			Field:   "body",
			Message: "at least one updatable field is required",
		})
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user updated",
		zap.String("userId", id.Hex()),
		zap.String("actorId", actor.UserID.Hex()))

	return updated, nil
}

func (s *UserService) DeleteUser(ctx context.Context, actor domain.Actor, id primitive.ObjectID) error {
	if !actor.IsAdmin() {
		return apperrors.NewAuthorizationError("deleting users requires administrative privilege")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted",
		zap.String("userId", id.Hex()),
		zap.String("actorId", actor.UserID.Hex()))

	return nil
}

package service

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"gandalf/internal/domain"
	"gandalf/internal/dto"
	apperrors "gandalf/internal/errors"
)

type mockUserRepository struct {
	FindByIDFunc func(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	ListFunc     func(ctx context.Context, filters dto.UserFilters, page dto.PageRequest) ([]domain.User, int64, error)
	FindAllFunc  func(ctx context.Context) ([]domain.User, error)
	UpdateFunc   func(ctx context.Context, id primitive.ObjectID, set bson.M) (*domain.User, error)
	DeleteFunc   func(ctx context.Context, id primitive.ObjectID) error
}

func (m *mockUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockUserRepository) List(ctx context.Context, filters dto.UserFilters, page dto.PageRequest) ([]domain.User, int64, error) {
	return m.ListFunc(ctx, filters, page)
}

func (m *mockUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	return m.FindAllFunc(ctx)
}

func (m *mockUserRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*domain.User, error) {
	return m.UpdateFunc(ctx, id, set)
}

func (m *mockUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.DeleteFunc(ctx, id)
}

func newTestUserService(repo Repository) *UserService {
	return NewUserService(repo, zap.NewNop(), 10, 100)
}

func TestGetUser_SelfLookup(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()

	repo := &mockUserRepository{
		FindByIDFunc: func(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
			return &domain.User{ID: id, Username: "asha"}, nil
		},
	}

	svc := newTestUserService(repo)
	actor := domain.Actor{UserID: userID, Role: domain.RoleUser}

	user, err := svc.GetUser(ctx, actor, userID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if user.Username != "asha" {
		t.Errorf("expected username asha, got %s", user.Username)
	}
}

func TestGetUser_OtherProfileRequiresAdmin(t *testing.T) {
	ctx := context.Background()

	svc := newTestUserService(&mockUserRepository{})
	actor := domain.Actor{UserID: primitive.NewObjectID(), Role: domain.RoleUser}

	_, err := svc.GetUser(ctx, actor, primitive.NewObjectID())
	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	if _, ok := apperrors.IsAuthorizationError(err); !ok {
		t.Errorf("expected AuthorizationError, got %T", err)
	}
}

func TestListUsers_RequiresAdmin(t *testing.T) {
	ctx := context.Background()

	svc := newTestUserService(&mockUserRepository{})
	actor := domain.Actor{UserID: primitive.NewObjectID(), Role: domain.RoleUser}

	_, err := svc.ListUsers(ctx, actor, dto.UserFilters{}, dto.PageRequest{Page: 1, Limit: 10})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	if _, ok := apperrors.IsAuthorizationError(err); !ok {
		t.Errorf("expected AuthorizationError, got %T", err)
	}
}

func TestListUsers_NormalizesPageRequest(t *testing.T) {
	ctx := context.Background()

	var gotPage dto.PageRequest
	repo := &mockUserRepository{
		ListFunc: func(ctx context.Context, filters dto.UserFilters, page dto.PageRequest) ([]domain.User, int64, error) {
			gotPage = page
			return []domain.User{}, 0, nil
		},
	}

	svc := newTestUserService(repo)
	actor := domain.Actor{UserID: primitive.NewObjectID(), Role: domain.RoleAdmin}

	if _, err := svc.ListUsers(ctx, actor, dto.UserFilters{}, dto.PageRequest{Page: -3, Limit: 700}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if gotPage.Page != 1 || gotPage.Limit != 100 {
		t.Errorf("expected page 1 limit 100, got %d/%d", gotPage.Page, gotPage.Limit)
	}
}

func TestUpdateUser_InvalidRole(t *testing.T) {
	ctx := context.Background()

	svc := newTestUserService(&mockUserRepository{})
	actor := domain.Actor{UserID: primitive.NewObjectID(), Role: domain.RoleAdmin}

	_, err := svc.UpdateUser(ctx, actor, primitive.NewObjectID(), dto.UpdateUserRequest{Role: "SUPERUSER"})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	if _, ok := apperrors.IsValidationError(err); !ok {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

func TestUpdateUser_EmptyBody(t *testing.T) {
	ctx := context.Background()

	svc := newTestUserService(&mockUserRepository{})
	actor := domain.Actor{UserID: primitive.NewObjectID(), Role: domain.RoleAdmin}

	_, err := svc.UpdateUser(ctx, actor, primitive.NewObjectID(), dto.UpdateUserRequest{})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	if _, ok := apperrors.IsValidationError(err); !ok {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

func TestUpdateUser_BuildsUpdateSet(t *testing.T) {
	ctx := context.Background()

	var gotSet bson.M
	repo := &mockUserRepository{
		UpdateFunc: func(ctx context.Context, id primitive.ObjectID, set bson.M) (*domain.User, error) {
			gotSet = set
			return &domain.User{ID: id, FullName: "Asha Nair", Role: domain.RoleAdmin}, nil
		},
	}

	svc := newTestUserService(repo)
	actor := domain.Actor{UserID: primitive.NewObjectID(), Role: domain.RoleAdmin}

	_, err := svc.UpdateUser(ctx, actor, primitive.NewObjectID(), dto.UpdateUserRequest{
		FullName: "Asha Nair",
		Role:     "ADMIN",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if gotSet["fullName"] != "Asha Nair" {
		t.Errorf("expected fullName in update set, got %v", gotSet)
	}

	if gotSet["role"] != domain.RoleAdmin {
		t.Errorf("expected role ADMIN in update set, got %v", gotSet)
	}

	if _, ok := gotSet["username"]; ok {
		t.Errorf("expected absent username to stay untouched, got %v", gotSet)
	}
}

func TestDeleteUser_RequiresAdmin(t *testing.T) {
	ctx := context.Background()

	svc := newTestUserService(&mockUserRepository{})
	actor := domain.Actor{UserID: primitive.NewObjectID(), Role: domain.RoleUser}

	err := svc.DeleteUser(ctx, actor, primitive.NewObjectID())
	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	if _, ok := apperrors.IsAuthorizationError(err); !ok {
		t.Errorf("expected AuthorizationError, got %T", err)
	}
}

func TestAllUsers_RequiresAdmin(t *testing.T) {
	ctx := context.Background()

	svc := newTestUserService(&mockUserRepository{})
	actor := domain.Actor{UserID: primitive.NewObjectID(), Role: domain.RoleUser}

	_, err := svc.AllUsers(ctx, actor)
	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	if _, ok := apperrors.IsAuthorizationError(err); !ok {
		t.Errorf("expected AuthorizationError, got %T", err)
	}
}

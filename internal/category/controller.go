package category

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"gandalf/internal/domain"
	"gandalf/internal/dto"
	apperrors "gandalf/internal/errors"
	"gandalf/internal/middleware"
)

type Repository interface {
	Insert(ctx context.Context, category domain.Category) (*domain.Category, error)
	FindAll(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, id primitive.ObjectID, name, slug string) (*domain.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Controller struct {
	repo   Repository
	logger *zap.Logger
}

func NewController(repo Repository, logger *zap.Logger) *Controller {
	return &Controller{repo: repo, logger: logger}
}

func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	categories, err := c.repo.FindAll(r.Context())
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

func (c *Controller) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	if !actor.IsAdmin() {
		c.handleError(w, apperrors.NewAuthorizationError("managing categories requires administrative privilege"))
		return
	}

	req, ok := c.decodeSaveRequest(w, r)
	if !ok {
		return
	}

	now := time.Now().UTC()
	created, err := c.repo.Insert(r.Context(), domain.Category{
		Name:      req.Name,
		Slug:      slugify(req),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusCreated, created)
}

func (c *Controller) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	if !actor.IsAdmin() {
		c.handleError(w, apperrors.NewAuthorizationError("managing categories requires administrative privilege"))
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "categoryId"))
	if err != nil {
		c.writeValidationError(w, "invalid categoryId", apperrors.ValidationDetail{
			Field:   "categoryId",
			Message: "categoryId must be a valid id",
		})
		return
	}

	req, ok := c.decodeSaveRequest(w, r)
	if !ok {
		return
	}

	updated, err := c.repo.Update(r.Context(), id, req.Name, slugify(req))
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, updated)
}

func (c *Controller) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	if !actor.IsAdmin() {
		c.handleError(w, apperrors.NewAuthorizationError("managing categories requires administrative privilege"))
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "categoryId"))
	if err != nil {
		c.writeValidationError(w, "invalid categoryId", apperrors.ValidationDetail{
			Field:   "categoryId",
			Message: "categoryId must be a valid id",
		})
		return
	}

	if err := c.repo.Delete(r.Context(), id); err != nil {
		c.handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) decodeSaveRequest(w http.ResponseWriter, r *http.Request) (dto.SaveCategoryRequest, bool) {
	var req dto.SaveCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return req, false
	}

	if req.Name == "" {
		c.writeValidationError(w, "name is required", apperrors.ValidationDetail{
			Field:   "name",
			Message: "name is required",
		})
		return req, false
	}

	return req, true
}

func slugify(req dto.SaveCategoryRequest) string {
	if req.Slug != "" {
		return req.Slug
	}
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(req.Name), " ", "-"))
}

func (c *Controller) handleError(w http.ResponseWriter, err error) {
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeJSON(w, http.StatusNotFound, map[string]string{"error": "NOT_FOUND", "message": err.Error()})
		return
	}

	if _, ok := apperrors.IsAuthorizationError(err); ok {
		c.writeJSON(w, http.StatusForbidden, map[string]string{"error": "FORBIDDEN", "message": err.Error()})
		return
	}

	c.logger.Error("unexpected error", zap.Error(err))
	c.writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   "INTERNAL_ERROR",
		"message": "an unexpected error occurred",
	})
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *Controller) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

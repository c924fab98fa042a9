package user

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"gandalf/internal/domain"
	"gandalf/internal/dto"
	apperrors "gandalf/internal/errors"
	"gandalf/internal/middleware"
)

type Service interface {
	GetUser(ctx context.Context, actor domain.Actor, id primitive.ObjectID) (*domain.User, error)
	ListUsers(ctx context.Context, actor domain.Actor, filters dto.UserFilters, page dto.PageRequest) (*dto.UserPage, error)
	AllUsers(ctx context.Context, actor domain.Actor) ([]domain.User, error)
	UpdateUser(ctx context.Context, actor domain.Actor, id primitive.ObjectID, req dto.UpdateUserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, actor domain.Actor, id primitive.ObjectID) error
}

type ReportRenderer interface {
	RenderUserList(users []domain.User) ([]byte, string, error)
}

type Controller struct {
	service Service
	reports ReportRenderer
	logger  *zap.Logger
}

func NewController(service Service, reports ReportRenderer, logger *zap.Logger) *Controller {
	return &Controller{
		service: service,
		reports: reports,
		logger:  logger,
	}
}

func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	filters := dto.UserFilters{Search: r.URL.Query().Get("search")}

	result, err := c.service.ListUsers(r.Context(), actor, filters, dto.PageRequest{Page: page, Limit: limit})
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, result)
}

func (c *Controller) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	id, ok := c.idFromPath(w, r)
	if !ok {
		return
	}

	user, err := c.service.GetUser(r.Context(), actor, id)
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, user)
}

func (c *Controller) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	id, ok := c.idFromPath(w, r)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	user, err := c.service.UpdateUser(r.Context(), actor, id, req)
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, user)
}

func (c *Controller) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	id, ok := c.idFromPath(w, r)
	if !ok {
		return
	}

	if err := c.service.DeleteUser(r.Context(), actor, id); err != nil {
		c.handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) HandleReport(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	users, err := c.service.AllUsers(r.Context(), actor)
	if err != nil {
		c.handleError(w, err)
		return
	}

	document, filename, err := c.reports.RenderUserList(users)
	if err != nil {
		c.logger.Error("rendering user report failed", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "INTERNAL_ERROR",
			"message": "an unexpected error occurred",
		})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(document); err != nil {
		c.logger.Error("writing report response failed", zap.Error(err))
	}
}

func (c *Controller) idFromPath(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))
	if err != nil {
		c.writeValidationError(w, "invalid userId", apperrors.ValidationDetail{
			Field:   "userId",
			Message: "userId must be a valid id",
		})
		return primitive.NilObjectID, false
	}
	return id, true
}

func (c *Controller) handleError(w http.ResponseWriter, err error) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

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

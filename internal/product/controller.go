package product

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"gandalf/internal/domain"
	"gandalf/internal/dto"
	apperrors "gandalf/internal/errors"
	"gandalf/internal/middleware"
)

type Service interface {
	ListProducts(ctx context.Context, filters dto.ProductFilters, page dto.PageRequest) (*dto.ProductPage, error)
	GetProduct(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	CreateProduct(ctx context.Context, actor domain.Actor, req dto.SaveProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, actor domain.Actor, id primitive.ObjectID, req dto.SaveProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, actor domain.Actor, id primitive.ObjectID) error
}

type Controller struct {
	service Service
	logger  *zap.Logger
}

func NewController(service Service, logger *zap.Logger) *Controller {
	return &Controller{
		service: service,
		logger:  logger,
	}
}

func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	filters := dto.ProductFilters{
		Search:     r.URL.Query().Get("search"),
		CategoryID: r.URL.Query().Get("category"),
	}

	result, err := c.service.ListProducts(r.Context(), filters, dto.PageRequest{Page: page, Limit: limit})
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, result)
}

func (c *Controller) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := c.idFromPath(w, r)
	if !ok {
		return
	}

	product, err := c.service.GetProduct(r.Context(), id)
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, product)
}

func (c *Controller) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	var req dto.SaveProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	product, err := c.service.CreateProduct(r.Context(), actor, req)
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusCreated, product)
}

func (c *Controller) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	id, ok := c.idFromPath(w, r)
	if !ok {
		return
	}

	var req dto.SaveProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	product, err := c.service.UpdateProduct(r.Context(), actor, id, req)
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, product)
}

func (c *Controller) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	id, ok := c.idFromPath(w, r)
	if !ok {
		return
	}

	if err := c.service.DeleteProduct(r.Context(), actor, id); err != nil {
		c.handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) idFromPath(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "productId"))
	if err != nil {
		c.writeValidationError(w, "invalid productId", apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId must be a valid id",
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
		c.writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}

	if _, ok := apperrors.IsAuthorizationError(err); ok {
		c.writeError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
		return
	}

	c.logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

type errorResponse struct {
	TraceID   string    `json:"traceId"`
	Status    int       `json:"status"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (c *Controller) writeError(w http.ResponseWriter, status int, code, message string) {
	c.writeJSON(w, status, errorResponse{
		TraceID:   uuid.New().String(),
		Status:    status,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
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

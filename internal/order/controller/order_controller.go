package controller

import (
	"context"
	"encoding/json"
	"fmt"
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
	"gandalf/internal/order/usecase"
)

type CheckoutUseCase interface {
	Checkout(ctx context.Context, actor domain.Actor, req dto.CheckoutRequest) (*usecase.CheckoutResult, error)
}

type OrderService interface {
	ConfirmPayment(ctx context.Context, orderID primitive.ObjectID, transactionID string, succeeded bool) (*domain.Order, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, orderID primitive.ObjectID, newStatus domain.OrderStatus) (*domain.Order, error)
	ListOrders(ctx context.Context, actor domain.Actor, filters dto.OrderFilters, page dto.PageRequest) (*dto.OrderPage, error)
	GetOrder(ctx context.Context, actor domain.Actor, orderID primitive.ObjectID) (*domain.Order, error)
	DeleteOrder(ctx context.Context, actor domain.Actor, orderID primitive.ObjectID) error
	GetLastOrderForUser(ctx context.Context, userID primitive.ObjectID) (*domain.Order, error)
}

type InvoiceRenderer interface {
	RenderInvoice(order domain.Order) ([]byte, string, error)
}

type Controller struct {
	checkout CheckoutUseCase
	orders   OrderService
	invoices InvoiceRenderer
	logger   *zap.Logger
}

func NewController(checkout CheckoutUseCase, orders OrderService, invoices InvoiceRenderer, logger *zap.Logger) *Controller {
	return &Controller{
		checkout: checkout,
		orders:   orders,
		invoices: invoices,
		logger:   logger,
	}
}

func (c *Controller) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	actor := middleware.ActorFromContext(r.Context())

	var req dto.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := validateCheckoutRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	result, err := c.checkout.Checkout(r.Context(), actor, req)
	if err != nil {
		if pe, ok := apperrors.IsPaymentError(err); ok {
			c.writePaymentError(w, traceID, result, pe)
			return
		}
		c.handleServiceError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, dto.CheckoutResponse{
		TraceID:       traceID,
		Order:         *result.Order,
		TransactionID: result.TransactionID,
		PaymentStatus: string(result.Order.Payment.Status),
		Timestamp:     time.Now().UTC(),
	})
}

func (c *Controller) HandleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		c.writeValidationError(w, "invalid orderId", apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId must be a valid id",
		})
		return
	}

	order, err := c.orders.ConfirmPayment(r.Context(), orderID, req.TransactionID, req.Succeeded)
	if err != nil {
		if pe, ok := apperrors.IsPaymentError(err); ok {
			c.writePaymentError(w, traceID, nil, pe)
			return
		}
		c.handleServiceError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrderResponse{
		TraceID:   traceID,
		Order:     *order,
		Timestamp: time.Now().UTC(),
	})
}

func (c *Controller) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	actor := middleware.ActorFromContext(r.Context())

	page := parsePageRequest(r)
	filters := dto.OrderFilters{
		Status: domain.OrderStatus(r.URL.Query().Get("status")),
		Search: r.URL.Query().Get("search"),
	}

	result, err := c.orders.ListOrders(r.Context(), actor, filters, page)
	if err != nil {
		c.handleServiceError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, result)
}

func (c *Controller) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	actor := middleware.ActorFromContext(r.Context())

	orderID, ok := c.orderIDFromPath(w, r)
	if !ok {
		return
	}

	order, err := c.orders.GetOrder(r.Context(), actor, orderID)
	if err != nil {
		c.handleServiceError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrderResponse{
		TraceID:   traceID,
		Order:     *order,
		Timestamp: time.Now().UTC(),
	})
}

func (c *Controller) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	actor := middleware.ActorFromContext(r.Context())

	orderID, ok := c.orderIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	order, err := c.orders.UpdateStatus(r.Context(), actor, orderID, domain.OrderStatus(req.Status))
	if err != nil {
		c.handleServiceError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrderResponse{
		TraceID:   traceID,
		Order:     *order,
		Timestamp: time.Now().UTC(),
	})
}

func (c *Controller) HandleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	actor := middleware.ActorFromContext(r.Context())

	orderID, ok := c.orderIDFromPath(w, r)
	if !ok {
		return
	}

	if err := c.orders.DeleteOrder(r.Context(), actor, orderID); err != nil {
		c.handleServiceError(w, traceID, err, logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleLatestOrder backs the post-checkout confirmation view for the acting
// user. 204 when the user has no orders yet.
func (c *Controller) HandleLatestOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	actor := middleware.ActorFromContext(r.Context())

	order, err := c.orders.GetLastOrderForUser(r.Context(), actor.UserID)
	if err != nil {
		c.handleServiceError(w, traceID, err, logger)
		return
	}

	if order == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrderResponse{
		TraceID:   traceID,
		Order:     *order,
		Timestamp: time.Now().UTC(),
	})
}

func (c *Controller) HandleInvoice(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	actor := middleware.ActorFromContext(r.Context())

	orderID, ok := c.orderIDFromPath(w, r)
	if !ok {
		return
	}

	order, err := c.orders.GetOrder(r.Context(), actor, orderID)
	if err != nil {
		c.handleServiceError(w, traceID, err, logger)
		return
	}

	document, filename, err := c.invoices.RenderInvoice(*order)
	if err != nil {
		logger.Error("rendering invoice failed", zap.Error(err))
		c.writeErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(document); err != nil {
		logger.Error("writing invoice response failed", zap.Error(err))
	}
}

func (c *Controller) orderIDFromPath(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	orderID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "orderId"))
	if err != nil {
		c.writeValidationError(w, "invalid orderId", apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId must be a valid id",
		})
		return primitive.NilObjectID, false
	}
	return orderID, true
}

func validateCheckoutRequest(req dto.CheckoutRequest) error {
	var details []apperrors.ValidationDetail

	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	for idx, item := range req.Items {
		if item.ProductID == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].productId", idx),
				Message: "productId is required",
			})
		}
		if item.Quantity < 1 {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].quantity", idx),
				Message: "quantity must be at least 1",
			})
		}
	}

	if req.PaymentMethod == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "paymentMethod",
			Message: "paymentMethod is required",
		})
	}

	shippingFields := map[string]string{
		"shipping.address":    req.Shipping.Address,
		"shipping.city":       req.Shipping.City,
		"shipping.postalCode": req.Shipping.PostalCode,
		"shipping.country":    req.Shipping.Country,
	}
	for field, value := range shippingFields {
		if value == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   field,
				Message: field + " is required",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

func parsePageRequest(r *http.Request) dto.PageRequest {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return dto.PageRequest{Page: page, Limit: limit}
}

func (c *Controller) handleServiceError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}

	if _, ok := apperrors.IsInvalidTransitionError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "INVALID_TRANSITION", err.Error())
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "CONFLICT", err.Error())
		return
	}

	if _, ok := apperrors.IsAuthorizationError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusForbidden, "FORBIDDEN", err.Error())
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

type paymentErrorResponse struct {
	TraceID   string    `json:"traceId"`
	Status    int       `json:"status"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable"`
	OrderID   string    `json:"orderId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (c *Controller) writePaymentError(w http.ResponseWriter, traceID string, result *usecase.CheckoutResult, pe *apperrors.PaymentError) {
	response := paymentErrorResponse{
		TraceID:   traceID,
		Status:    http.StatusPaymentRequired,
		Code:      "PAYMENT_FAILED",
		Message:   pe.Message,
		Retryable: pe.Retryable,
		Timestamp: time.Now().UTC(),
	}
	if result != nil && result.Order != nil {
		response.OrderID = result.Order.ID.Hex()
	}

	c.writeJSON(w, http.StatusPaymentRequired, response)
}

type errorResponse struct {
	TraceID   string    `json:"traceId"`
	Status    int       `json:"status"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (c *Controller) writeErrorResponse(w http.ResponseWriter, traceID string, statusCode int, code, message string) {
	c.writeJSON(w, statusCode, errorResponse{
		TraceID:   traceID,
		Status:    statusCode,
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

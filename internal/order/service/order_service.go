package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"gandalf/internal/domain"
	"gandalf/internal/dto"
	apperrors "gandalf/internal/errors"
)

type OrderRepository interface {
	Insert(ctx context.Context, order domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error)
	List(ctx context.Context, filters dto.OrderFilters, page dto.PageRequest) ([]domain.Order, int64, error)
	ConfirmPayment(ctx context.Context, id primitive.ObjectID, transactionID string) (*domain.Order, error)
	MarkPaymentFailed(ctx context.Context, id primitive.ObjectID, transactionID string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to domain.OrderStatus, at time.Time) (*domain.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindLatestByUser(ctx context.Context, userID primitive.ObjectID) (*domain.Order, error)
}

// ActivityRecorder is fire-and-forget; implementations must never return a
// failure to the caller.
type ActivityRecorder interface {
	Record(ctx context.Context, userID primitive.ObjectID, action, info string)
}

type CreateOrderParams struct {
	Customer      domain.Customer
	Items         []domain.OrderItem
	Shipping      domain.ShippingDetails
	PaymentMethod string
	Discount      *domain.Discount
}

type OrderService struct {
	repo         OrderRepository
	activity     ActivityRecorder
	logger       *zap.Logger
	defaultLimit int
	maxLimit     int
}

func NewOrderService(repo OrderRepository, activity ActivityRecorder, logger *zap.Logger, defaultLimit, maxLimit int) *OrderService {
	return &OrderService{
		repo:         repo,
		activity:     activity,
		logger:       logger,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// CreateOrder persists a new PENDING/UNPAID order. Items are expected to
// carry the unit price captured from the catalog at purchase time.
func (s *OrderService) CreateOrder(ctx context.Context, params CreateOrderParams) (*domain.Order, error) {
	if err := validateCreateOrderParams(params); err != nil {
		return nil, err
	}

	order := domain.Order{
		Customer: params.Customer,
		Items:    params.Items,
		Shipping: params.Shipping,
		Payment: domain.PaymentDetails{
			Method: params.PaymentMethod,
			Status: domain.PaymentStatusUnpaid,
		},
		Discount:  params.Discount,
		Status:    domain.OrderStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	subtotal := order.ItemsSubtotal()
	order.TotalAmount = subtotal
	if params.Discount != nil {
		order.TotalAmount = subtotal - params.Discount.Amount
	}

	created, err := s.repo.Insert(ctx, order)
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("orderId", created.ID.Hex()),
		zap.String("userId", created.Customer.UserID.Hex()),
		zap.Float64("totalAmount", created.TotalAmount),
		zap.Int("itemCount", len(created.Items)))
	s.activity.Record(ctx, created.Customer.UserID, "order.created",
		fmt.Sprintf("order %s, total %.2f", created.ID.Hex(), created.TotalAmount))

	return created, nil
}

func validateCreateOrderParams(params CreateOrderParams) error {
	var details []apperrors.ValidationDetail

	if params.Customer.UserID.IsZero() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "userId",
			Message: "userId is required",
		})
	}

	if len(params.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	subtotal := 0.0
	for idx, item := range params.Items {
		if item.ProductID.IsZero() {
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
		if item.UnitPrice < 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].unitPrice", idx),
				Message: "unitPrice must be non-negative",
			})
		}
		subtotal += item.Subtotal()
	}

	if params.Discount != nil {
		if params.Discount.Amount < 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "discount.amount",
				Message: "discount amount must be non-negative",
			})
		} else if params.Discount.Amount > subtotal {
			// Keeps the total-amount invariant from ever going negative.
			details = append(details, apperrors.ValidationDetail{
				Field:   "discount.amount",
				Message: "discount amount must not exceed the items subtotal",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

// ConfirmPayment records the gateway outcome for a PENDING order. A repeated
// success for an already confirmed order is a no-op returning the stored
// order, so retries after a lost response are safe.
func (s *OrderService) ConfirmPayment(ctx context.Context, orderID primitive.ObjectID, transactionID string, succeeded bool) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == domain.OrderStatusProcessing && order.Payment.Status == domain.PaymentStatusPaid {
		return order, nil
	}

	if order.Status != domain.OrderStatusPending {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order %s is not awaiting payment", orderID.Hex()))
	}

	if !succeeded {
		if _, err := s.repo.MarkPaymentFailed(ctx, orderID, transactionID); err != nil {
			return nil, err
		}
		s.logger.Warn("payment declined",
			zap.String("orderId", orderID.Hex()),
			zap.String("transactionId", transactionID))
		s.activity.Record(ctx, order.Customer.UserID, "payment.failed", "order "+orderID.Hex())
		return nil, apperrors.NewPaymentError("payment was declined", false, nil)
	}

	updated, err := s.repo.ConfirmPayment(ctx, orderID, transactionID)
	if err != nil {
		// A concurrent confirm may have won the conditional update; treat a
		// confirmed order as success rather than failing the retry.
		if _, ok := apperrors.IsConflictError(err); ok {
			current, readErr := s.repo.FindByID(ctx, orderID)
			if readErr == nil && current.Status == domain.OrderStatusProcessing && current.Payment.Status == domain.PaymentStatusPaid {
				return current, nil
			}
		}
		return nil, err
	}

	s.logger.Info("payment confirmed",
		zap.String("orderId", orderID.Hex()),
		zap.String("transactionId", transactionID))
	s.activity.Record(ctx, updated.Customer.UserID, "payment.confirmed", "order "+orderID.Hex())

	return updated, nil
}

// UpdateStatus applies an admin-initiated transition. DELIVERED and
// CANCELLED are terminal; anything not in the transition table is rejected.
func (s *OrderService) UpdateStatus(ctx context.Context, actor domain.Actor, orderID primitive.ObjectID, newStatus domain.OrderStatus) (*domain.Order, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewAuthorizationError("updating order status requires administrative privilege")
	}

	if !newStatus.IsValid() {
		return nil, apperrors.NewValidationError("invalid status", apperrors.ValidationDetail{
			Field:   "status",
			Message: fmt.Sprintf("%q is not a known order status", string(newStatus)),
		})
	}

	// PROCESSING is only ever entered through payment confirmation.
	if newStatus == domain.OrderStatusProcessing {
		return nil, apperrors.NewValidationError("invalid status", apperrors.ValidationDetail{
			Field:   "status",
			Message: "PROCESSING is reached through payment confirmation, not a status update",
		})
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(newStatus) {
		return nil, apperrors.NewInvalidTransitionError(string(order.Status), string(newStatus))
	}

	updated, err := s.repo.UpdateStatus(ctx, orderID, order.Status, newStatus, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status updated",
		zap.String("orderId", orderID.Hex()),
		zap.String("from", string(order.Status)),
		zap.String("to", string(newStatus)),
		zap.String("actorId", actor.UserID.Hex()))
	s.activity.Record(ctx, actor.UserID, "order.status_updated",
		fmt.Sprintf("order %s: %s -> %s", orderID.Hex(), order.Status, newStatus))

	return updated, nil
}

func (s *OrderService) ListOrders(ctx context.Context, actor domain.Actor, filters dto.OrderFilters, page dto.PageRequest) (*dto.OrderPage, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewAuthorizationError("listing orders requires administrative privilege")
	}

	if filters.Status != "" && !filters.Status.IsValid() {
		return nil, apperrors.NewValidationError("invalid status filter", apperrors.ValidationDetail{
			Field:   "status",
			Message: fmt.Sprintf("%q is not a known order status", string(filters.Status)),
		})
	}

	page = s.normalizePage(page)

	orders, totalCount, err := s.repo.List(ctx, filters, page)
	if err != nil {
		return nil, err
	}

	return &dto.OrderPage{
		Orders:     orders,
		TotalCount: totalCount,
		Page:       page.Page,
		Limit:      page.Limit,
	}, nil
}

func (s *OrderService) normalizePage(page dto.PageRequest) dto.PageRequest {
	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit < 1 {
		page.Limit = s.defaultLimit
	}
	if page.Limit > s.maxLimit {
		page.Limit = s.maxLimit
	}
	return page
}

func (s *OrderService) GetOrder(ctx context.Context, actor domain.Actor, orderID primitive.ObjectID) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && order.Customer.UserID != actor.UserID {
		return nil, apperrors.NewAuthorizationError("order belongs to another user")
	}

	return order, nil
}

// DeleteOrder is an irreversible administrative hard delete.
func (s *OrderService) DeleteOrder(ctx context.Context, actor domain.Actor, orderID primitive.ObjectID) error {
	if !actor.IsAdmin() {
		return apperrors.NewAuthorizationError("deleting orders requires administrative privilege")
	}

	if err := s.repo.Delete(ctx, orderID); err != nil {
		return err
	}

	s.logger.Info("order deleted",
		zap.String("orderId", orderID.Hex()),
		zap.String("actorId", actor.UserID.Hex()))
	s.activity.Record(ctx, actor.UserID, "order.deleted", "order "+orderID.Hex())

	return nil
}

// GetLastOrderForUser backs the post-checkout confirmation view. Returns nil
// when the user has no orders yet.
func (s *OrderService) GetLastOrderForUser(ctx context.Context, userID primitive.ObjectID) (*domain.Order, error) {
	return s.repo.FindLatestByUser(ctx, userID)
}

package usecase

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"gandalf/internal/domain"
	"gandalf/internal/dto"
	apperrors "gandalf/internal/errors"
	"gandalf/internal/order/service"
	"gandalf/internal/payment"
)

type OrderWriter interface {
	CreateOrder(ctx context.Context, params service.CreateOrderParams) (*domain.Order, error)
	ConfirmPayment(ctx context.Context, orderID primitive.ObjectID, transactionID string, succeeded bool) (*domain.Order, error)
}

type ProductFinder interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Product, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

type CheckoutResult struct {
	Order         *domain.Order
	TransactionID string
}

type CheckoutUseCase struct {
	orders   OrderWriter
	catalog  ProductFinder
	users    UserFinder
	gateway  payment.Gateway
	logger   *zap.Logger
}

func NewCheckoutUseCase(orders OrderWriter, catalog ProductFinder, users UserFinder, gateway payment.Gateway, logger *zap.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{
		orders:  orders,
		catalog: catalog,
		users:   users,
		gateway: gateway,
		logger:  logger,
	}
}

// Checkout validates the cart against the catalog, creates the PENDING
// order, and submits the payment. On a PaymentError the returned result
// still carries the pending order so the client can retry by order id; the
// order is left PENDING/UNPAID (or PENDING/FAILED after a decline).
func (uc *CheckoutUseCase) Checkout(ctx context.Context, actor domain.Actor, req dto.CheckoutRequest) (*CheckoutResult, error) {
	uc.logger.Info("checkout started",
		zap.String("userId", actor.UserID.Hex()),
		zap.Int("itemCount", len(req.Items)))

	user, err := uc.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	items, err := uc.buildOrderItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	var discount *domain.Discount
	if req.Discount != nil {
		discount = &domain.Discount{Amount: req.Discount.Amount, Code: req.Discount.Code}
	}

	order, err := uc.orders.CreateOrder(ctx, service.CreateOrderParams{
		Customer: domain.Customer{
			UserID:   user.ID,
			FullName: user.FullName,
			Email:    user.Email,
		},
		Items: items,
		Shipping: domain.ShippingDetails{
			Address:    req.Shipping.Address,
			City:       req.Shipping.City,
			State:      req.Shipping.State,
			PostalCode: req.Shipping.PostalCode,
			Country:    req.Shipping.Country,
		},
		PaymentMethod: req.PaymentMethod,
		Discount:      discount,
	})
	if err != nil {
		return nil, err
	}

	charge, err := uc.gateway.Charge(ctx, payment.ChargeRequest{
		OrderID:       order.ID.Hex(),
		Amount:        order.TotalAmount,
		Method:        req.PaymentMethod,
		CustomerEmail: user.Email,
	})
	if err != nil {
		// Provider unreachable or timed out: the order stays PENDING/UNPAID
		// and confirming it again by id is safe.
		return &CheckoutResult{Order: order}, err
	}

	confirmed, err := uc.orders.ConfirmPayment(ctx, order.ID, charge.TransactionID, charge.Succeeded)
	if err != nil {
		return &CheckoutResult{Order: order, TransactionID: charge.TransactionID}, err
	}

	return &CheckoutResult{Order: confirmed, TransactionID: charge.TransactionID}, nil
}

func (uc *CheckoutUseCase) buildOrderItems(ctx context.Context, reqItems []dto.CheckoutItem) ([]domain.OrderItem, error) {
	if len(reqItems) == 0 {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	ids := make([]primitive.ObjectID, 0, len(reqItems))
	for idx, item := range reqItems {
		id, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].productId", idx),
				Message: "productId must be a valid id",
			})
		}
		ids = append(ids, id)
	}

	products, err := uc.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var details []apperrors.ValidationDetail
	items := make([]domain.OrderItem, 0, len(reqItems))
	for idx, reqItem := range reqItems {
		product, ok := byID[ids[idx]]
		if !ok {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].productId", idx),
				Message: "product does not exist",
			})
			continue
		}
		if !product.IsActive {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].productId", idx),
				Message: "product is no longer available",
			})
			continue
		}
		if !product.HasSufficientStock(reqItem.Quantity) {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].quantity", idx),
				Message: fmt.Sprintf("insufficient stock for %s", product.Name),
			})
			continue
		}

		// Unit price is captured here; later catalog price changes never
		// retroactively change an order's total.
		items = append(items, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    reqItem.Quantity,
			UnitPrice:   product.Price,
		})
	}

	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}

	return items, nil
}

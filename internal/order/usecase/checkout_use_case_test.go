package usecase

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"gandalf/internal/domain"
	"gandalf/internal/dto"
	apperrors "gandalf/internal/errors"
	"gandalf/internal/order/service"
	"gandalf/internal/payment"
)

type mockOrderWriter struct {
	CreateOrderFunc    func(ctx context.Context, params service.CreateOrderParams) (*domain.Order, error)
	ConfirmPaymentFunc func(ctx context.Context, orderID primitive.ObjectID, transactionID string, succeeded bool) (*domain.Order, error)
}

func (m *mockOrderWriter) CreateOrder(ctx context.Context, params service.CreateOrderParams) (*domain.Order, error) {
	return m.CreateOrderFunc(ctx, params)
}

func (m *mockOrderWriter) ConfirmPayment(ctx context.Context, orderID primitive.ObjectID, transactionID string, succeeded bool) (*domain.Order, error) {
	return m.ConfirmPaymentFunc(ctx, orderID, transactionID, succeeded)
}

type mockProductFinder struct {
	FindByIDsFunc func(ctx context.Context, ids []primitive.ObjectID) ([]domain.Product, error)
}

func (m *mockProductFinder) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Product, error) {
	return m.FindByIDsFunc(ctx, ids)
}

type mockUserFinder struct {
	FindByIDFunc func(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

func (m *mockUserFinder) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return m.FindByIDFunc(ctx, id)
}

type mockGateway struct {
	ChargeFunc func(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error)
}

func (m *mockGateway) Charge(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error) {
	return m.ChargeFunc(ctx, req)
}

type checkoutFixture struct {
	userID    primitive.ObjectID
	productID primitive.ObjectID
	orders    *mockOrderWriter
	catalog   *mockProductFinder
	users     *mockUserFinder
	gateway   *mockGateway
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		userID:    primitive.NewObjectID(),
		productID: primitive.NewObjectID(),
	}

	f.users = &mockUserFinder{
		FindByIDFunc: func(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
			return &domain.User{ID: id, FullName: "Asha Nair", Email: "asha@example.com"}, nil
		},
	}

	f.catalog = &mockProductFinder{
		FindByIDsFunc: func(ctx context.Context, ids []primitive.ObjectID) ([]domain.Product, error) {
			return []domain.Product{
				{ID: f.productID, Name: "Notebook", Price: 500.0, Stock: 10, IsActive: true},
			}, nil
		},
	}

	f.orders = &mockOrderWriter{
		CreateOrderFunc: func(ctx context.Context, params service.CreateOrderParams) (*domain.Order, error) {
			order := domain.Order{
				ID:          primitive.NewObjectID(),
				Customer:    params.Customer,
				Items:       params.Items,
				Status:      domain.OrderStatusPending,
				Payment:     domain.PaymentDetails{Method: params.PaymentMethod, Status: domain.PaymentStatusUnpaid},
				TotalAmount: 500.0,
			}
			return &order, nil
		},
		ConfirmPaymentFunc: func(ctx context.Context, orderID primitive.ObjectID, transactionID string, succeeded bool) (*domain.Order, error) {
			if !succeeded {
				return nil, apperrors.NewPaymentError("payment was declined", false, nil)
			}
			return &domain.Order{
				ID:     orderID,
				Status: domain.OrderStatusProcessing,
				Payment: domain.PaymentDetails{
					Status:        domain.PaymentStatusPaid,
					TransactionID: transactionID,
				},
			}, nil
		},
	}

	f.gateway = &mockGateway{
		ChargeFunc: func(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error) {
			return &payment.ChargeResult{TransactionID: "pi_123", Succeeded: true}, nil
		},
	}

	return f
}

func (f *checkoutFixture) useCase() *CheckoutUseCase {
	return NewCheckoutUseCase(f.orders, f.catalog, f.users, f.gateway, zap.NewNop())
}

func (f *checkoutFixture) request() dto.CheckoutRequest {
	return dto.CheckoutRequest{
		Items: []dto.CheckoutItem{
			{ProductID: f.productID.Hex(), Quantity: 1},
		},
		Shipping: dto.ShippingDTO{
			Address:    "12 MG Road",
			City:       "Bengaluru",
			State:      "KA",
			PostalCode: "560001",
			Country:    "IN",
		},
		PaymentMethod: "pm_card_visa",
	}
}

func (f *checkoutFixture) actor() domain.Actor {
	return domain.Actor{UserID: f.userID, Role: domain.RoleUser}
}

func TestCheckout_Success(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	var createdParams service.CreateOrderParams
	base := f.orders.CreateOrderFunc
	f.orders.CreateOrderFunc = func(ctx context.Context, params service.CreateOrderParams) (*domain.Order, error) {
		createdParams = params
		return base(ctx, params)
	}

	result, err := f.useCase().Checkout(ctx, f.actor(), f.request())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.Order.Status != domain.OrderStatusProcessing {
		t.Errorf("expected status PROCESSING, got %s", result.Order.Status)
	}

	if result.TransactionID != "pi_123" {
		t.Errorf("expected transaction pi_123, got %s", result.TransactionID)
	}

	if len(createdParams.Items) != 1 {
		t.Fatalf("expected 1 order item, got %d", len(createdParams.Items))
	}

	// Unit price comes from the catalog, not the request.
	if createdParams.Items[0].UnitPrice != 500.0 {
		t.Errorf("expected catalog price 500.0, got %f", createdParams.Items[0].UnitPrice)
	}

	if createdParams.Customer.Email != "asha@example.com" {
		t.Errorf("expected denormalized customer email, got %s", createdParams.Customer.Email)
	}
}

func TestCheckout_ProductDoesNotExist(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	f.catalog.FindByIDsFunc = func(ctx context.Context, ids []primitive.ObjectID) ([]domain.Product, error) {
		return nil, nil
	}

	_, err := f.useCase().Checkout(ctx, f.actor(), f.request())
	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	ve, ok := apperrors.IsValidationError(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	if len(ve.Details) != 1 || ve.Details[0].Field != "items[0].productId" {
		t.Errorf("expected detail on items[0].productId, got %+v", ve.Details)
	}
}

func TestCheckout_InactiveProduct(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	f.catalog.FindByIDsFunc = func(ctx context.Context, ids []primitive.ObjectID) ([]domain.Product, error) {
		return []domain.Product{
			{ID: f.productID, Name: "Notebook", Price: 500.0, Stock: 10, IsActive: false},
		}, nil
	}

	_, err := f.useCase().Checkout(ctx, f.actor(), f.request())
	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	if _, ok := apperrors.IsValidationError(err); !ok {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

func TestCheckout_InsufficientStock(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	req := f.request()
	req.Items[0].Quantity = 50

	_, err := f.useCase().Checkout(ctx, f.actor(), req)
	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	ve, ok := apperrors.IsValidationError(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	if len(ve.Details) != 1 || ve.Details[0].Field != "items[0].quantity" {
		t.Errorf("expected detail on items[0].quantity, got %+v", ve.Details)
	}
}

func TestCheckout_MalformedProductID(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	req := f.request()
	req.Items[0].ProductID = "not-an-id"

	_, err := f.useCase().Checkout(ctx, f.actor(), req)
	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	if _, ok := apperrors.IsValidationError(err); !ok {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	req := f.request()
	req.Items = nil

	_, err := f.useCase().Checkout(ctx, f.actor(), req)
	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	if _, ok := apperrors.IsValidationError(err); !ok {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

func TestCheckout_UnknownUser(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	f.users.FindByIDFunc = func(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
		return nil, apperrors.NewNotFoundError("user not found")
	}

	_, err := f.useCase().Checkout(ctx, f.actor(), f.request())
	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	if _, ok := apperrors.IsNotFoundError(err); !ok {
		t.Errorf("expected NotFoundError, got %T", err)
	}
}

func TestCheckout_CardDeclined(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	f.gateway.ChargeFunc = func(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error) {
		return &payment.ChargeResult{TransactionID: "pi_declined", Succeeded: false}, nil
	}

	result, err := f.useCase().Checkout(ctx, f.actor(), f.request())
	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	pe, ok := apperrors.IsPaymentError(err)
	if !ok {
		t.Fatalf("expected PaymentError, got %T", err)
	}

	if pe.Retryable {
		t.Errorf("expected decline to be non-retryable")
	}

	// The pending order comes back so the client can retry the payment.
	if result == nil || result.Order == nil {
		t.Fatalf("expected result with pending order")
	}

	if result.Order.Status != domain.OrderStatusPending {
		t.Errorf("expected order left PENDING, got %s", result.Order.Status)
	}
}

func TestCheckout_GatewayUnreachable(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	f.gateway.ChargeFunc = func(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error) {
		return nil, apperrors.NewPaymentError("payment provider unavailable", true, context.DeadlineExceeded)
	}

	result, err := f.useCase().Checkout(ctx, f.actor(), f.request())
	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	pe, ok := apperrors.IsPaymentError(err)
	if !ok {
		t.Fatalf("expected PaymentError, got %T", err)
	}

	if !pe.Retryable {
		t.Errorf("expected provider failure to be retryable")
	}

	if result == nil || result.Order == nil {
		t.Fatalf("expected result with pending order")
	}

	if result.Order.Status != domain.OrderStatusPending || result.Order.Payment.Status != domain.PaymentStatusUnpaid {
		t.Errorf("expected order left PENDING/UNPAID, got %s/%s", result.Order.Status, result.Order.Payment.Status)
	}
}

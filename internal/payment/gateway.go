package payment

import "context"

type ChargeRequest struct {
	OrderID       string
	Amount        float64
	Method        string
	CustomerEmail string
}

// ChargeResult reports the provider outcome. Succeeded=false with a nil
// error is a decline: terminal for this attempt, the customer may retry with
// new payment details.
type ChargeResult struct {
	TransactionID string
	Succeeded     bool
}

// Gateway submits a client-confirmed payment to the external provider. It
// never touches local state; the checkout flow feeds the result into the
// order service.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

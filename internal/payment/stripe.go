package payment

import (
	"context"
	"errors"
	"math"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"

	apperrors "gandalf/internal/errors"
)

type StripeGateway struct {
	api      *client.API
	currency string
	logger   *zap.Logger
}

func NewStripeGateway(secretKey, currency string, logger *zap.Logger) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeGateway{
		api:      api,
		currency: currency,
		logger:   logger,
	}
}

// Charge creates and confirms a PaymentIntent for the client-confirmed
// payment method. Card declines come back as an unsucceeded result; network
// and provider failures surface as a retryable PaymentError with local state
// untouched, so re-submitting the same order is safe.
func (g *StripeGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	params := &stripe.PaymentIntentParams{
		Params:        stripe.Params{Context: ctx},
		Amount:        stripe.Int64(minorUnits(req.Amount)),
		Currency:      stripe.String(g.currency),
		PaymentMethod: stripe.String(req.Method),
		Confirm:       stripe.Bool(true),
		Description:   stripe.String("Order " + req.OrderID),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	if req.CustomerEmail != "" {
		params.ReceiptEmail = stripe.String(req.CustomerEmail)
	}

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			transactionID := ""
			if stripeErr.PaymentIntent != nil {
				transactionID = stripeErr.PaymentIntent.ID
			}
			g.logger.Warn("card declined",
				zap.String("orderId", req.OrderID),
				zap.String("declineCode", string(stripeErr.DeclineCode)))
			return &ChargeResult{TransactionID: transactionID, Succeeded: false}, nil
		}

		g.logger.Error("payment provider error", zap.String("orderId", req.OrderID), zap.Error(err))
		return nil, apperrors.NewPaymentError("payment provider unavailable", true, err)
	}

	return &ChargeResult{
		TransactionID: intent.ID,
		Succeeded:     intent.Status == stripe.PaymentIntentStatusSucceeded,
	}, nil
}

// minorUnits converts a major-unit amount to the smallest currency unit the
// provider expects.
func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

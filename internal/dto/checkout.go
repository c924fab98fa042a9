package dto

type CheckoutRequest struct {
	Items         []CheckoutItem   `json:"items"`
	Shipping      ShippingDTO      `json:"shipping"`
	PaymentMethod string           `json:"paymentMethod"`
	Discount      *DiscountRequest `json:"discount,omitempty"`
}

type CheckoutItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type ShippingDTO struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type DiscountRequest struct {
	Amount float64 `json:"amount"`
	Code   string  `json:"code,omitempty"`
}

type ConfirmPaymentRequest struct {
	OrderID       string `json:"orderId"`
	TransactionID string `json:"transactionId"`
	Succeeded     bool   `json:"succeeded"`
}

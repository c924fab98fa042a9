package dto

import (
	"time"

	"gandalf/internal/domain"
)

// OrderFilters narrows an admin listing. Search matches order id, customer
// email and shipping address/city.
type OrderFilters struct {
	Status domain.OrderStatus
	Search string
}

type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) Offset() int64 {
	return int64((p.Page - 1) * p.Limit)
}

type OrderPage struct {
	Orders     []domain.Order `json:"orders"`
	TotalCount int64          `json:"totalCount"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type OrderResponse struct {
	TraceID   string       `json:"traceId"`
	Order     domain.Order `json:"order"`
	Timestamp time.Time    `json:"timestamp"`
}

type CheckoutResponse struct {
	TraceID       string       `json:"traceId"`
	Order         domain.Order `json:"order"`
	TransactionID string       `json:"transactionId,omitempty"`
	PaymentStatus string       `json:"paymentStatus"`
	Timestamp     time.Time    `json:"timestamp"`
}

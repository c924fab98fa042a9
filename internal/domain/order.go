package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
	PaymentStatusPaid   PaymentStatus = "PAID"
	PaymentStatusFailed PaymentStatus = "FAILED"
)

// orderTransitions is the full lifecycle. DELIVERED and CANCELLED are
// terminal and deliberately absent as sources.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type OrderItem struct {
	ProductID   primitive.ObjectID `bson:"productId" json:"productId"`
	ProductName string             `bson:"productName" json:"productName"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	UnitPrice   float64            `bson:"unitPrice" json:"unitPrice"`
}

func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

type ShippingDetails struct {
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
}

type PaymentDetails struct {
	Method        string        `bson:"method" json:"method"`
	Status        PaymentStatus `bson:"status" json:"status"`
	TransactionID string        `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
}

type Discount struct {
	Amount float64 `bson:"amount" json:"amount"`
	Code   string  `bson:"code,omitempty" json:"code,omitempty"`
}

// Customer is the slice of the user document an order carries so listing and
// invoices never need a join. The user service owns the rest.
type Customer struct {
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	FullName string             `bson:"fullName" json:"fullName"`
	Email    string             `bson:"email" json:"email"`
}

type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Customer    Customer           `bson:"customer" json:"customer"`
	Items       []OrderItem        `bson:"items" json:"items"`
	Shipping    ShippingDetails    `bson:"shipping" json:"shipping"`
	Payment     PaymentDetails     `bson:"payment" json:"payment"`
	TotalAmount float64            `bson:"totalAmount" json:"totalAmount"`
	Discount    *Discount          `bson:"discount,omitempty" json:"discount,omitempty"`
	Status      OrderStatus        `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	ShippedAt   *time.Time         `bson:"shippedAt,omitempty" json:"shippedAt,omitempty"`
	DeliveredAt *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
}

func (o Order) ItemsSubtotal() float64 {
	subtotal := 0.0
	for _, item := range o.Items {
		subtotal += item.Subtotal()
	}
	return subtotal
}

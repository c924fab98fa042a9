package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOrderStatus_Transitions(t *testing.T) {
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusProcessing))
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusCancelled))
	assert.True(t, OrderStatusProcessing.CanTransitionTo(OrderStatusShipped))
	assert.True(t, OrderStatusProcessing.CanTransitionTo(OrderStatusCancelled))
	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusDelivered))
	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusCancelled))

	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusShipped))
	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusDelivered))
	assert.False(t, OrderStatusProcessing.CanTransitionTo(OrderStatusPending))
	assert.False(t, OrderStatusProcessing.CanTransitionTo(OrderStatusDelivered))
	assert.False(t, OrderStatusShipped.CanTransitionTo(OrderStatusPending))
	assert.False(t, OrderStatusShipped.CanTransitionTo(OrderStatusProcessing))
}

func TestOrderStatus_TerminalStatesHaveNoOutboundTransitions(t *testing.T) {
	all := []OrderStatus{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}

	for _, next := range all {
		assert.False(t, OrderStatusDelivered.CanTransitionTo(next), "DELIVERED -> %s must be rejected", next)
		assert.False(t, OrderStatusCancelled.CanTransitionTo(next), "CANCELLED -> %s must be rejected", next)
	}

	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatusProcessing.IsTerminal())
	assert.False(t, OrderStatusShipped.IsTerminal())
}

func TestOrderStatus_IsValid(t *testing.T) {
	assert.True(t, OrderStatusPending.IsValid())
	assert.True(t, OrderStatusProcessing.IsValid())
	assert.True(t, OrderStatusShipped.IsValid())
	assert.True(t, OrderStatusDelivered.IsValid())
	assert.True(t, OrderStatusCancelled.IsValid())
	assert.False(t, OrderStatus("RETURNED").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestOrderItem_Subtotal(t *testing.T) {
	item := OrderItem{Quantity: 3, UnitPrice: 250.0}
	assert.Equal(t, 750.0, item.Subtotal())
}

func TestOrder_ItemsSubtotal(t *testing.T) {
	order := Order{
		ID: primitive.NewObjectID(),
		Items: []OrderItem{
			{Quantity: 1, UnitPrice: 500.0},
			{Quantity: 2, UnitPrice: 250.0},
		},
		Status:    OrderStatusPending,
		CreatedAt: time.Now(),
	}

	assert.Equal(t, 1000.0, order.ItemsSubtotal())
}

func TestOrderStatus_Constants(t *testing.T) {
	assert.Equal(t, OrderStatus("PENDING"), OrderStatusPending)
	assert.Equal(t, OrderStatus("PROCESSING"), OrderStatusProcessing)
	assert.Equal(t, OrderStatus("SHIPPED"), OrderStatusShipped)
	assert.Equal(t, OrderStatus("DELIVERED"), OrderStatusDelivered)
	assert.Equal(t, OrderStatus("CANCELLED"), OrderStatusCancelled)
}

package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "order not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestValidationError_CarriesDetails(t *testing.T) {
	err := NewValidationError("validation failed",
		ValidationDetail{Field: "items", Message: "items must not be empty"},
		ValidationDetail{Field: "paymentMethod", Message: "paymentMethod is required"},
	)

	ve, ok := IsValidationError(err)
	assert.True(t, ok)
	assert.Len(t, ve.Details, 2)
	assert.Equal(t, "items", ve.Details[0].Field)
	assert.Equal(t, "validation failed", ve.Error())
}

func TestInvalidTransitionError_MessageNamesBothStatuses(t *testing.T) {
	err := NewInvalidTransitionError("SHIPPED", "PENDING")

	ite, ok := IsInvalidTransitionError(err)
	assert.True(t, ok)
	assert.Equal(t, "SHIPPED", ite.From)
	assert.Equal(t, "PENDING", ite.To)
	assert.Equal(t, "invalid status transition from SHIPPED to PENDING", err.Error())
}

func TestPaymentError_RetryableAndUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewPaymentError("payment provider unavailable", true, cause)

	pe, ok := IsPaymentError(err)
	assert.True(t, ok)
	assert.True(t, pe.Retryable)
	assert.ErrorIs(t, err, cause)

	declined := NewPaymentError("payment was declined", false, nil)
	pe, ok = IsPaymentError(declined)
	assert.True(t, ok)
	assert.False(t, pe.Retryable)
	assert.Equal(t, "payment was declined", declined.Error())
}

func TestConflictError(t *testing.T) {
	err := NewConflictError("order is no longer in the expected status")

	ce, ok := IsConflictError(err)
	assert.True(t, ok)
	assert.Equal(t, "order is no longer in the expected status", ce.Error())

	_, ok = IsConflictError(NewNotFoundError("order not found"))
	assert.False(t, ok)
}

func TestAuthorizationError(t *testing.T) {
	err := NewAuthorizationError("admin only")

	ae, ok := IsAuthorizationError(err)
	assert.True(t, ok)
	assert.Equal(t, "admin only", ae.Error())

	_, ok = IsAuthorizationError(errors.New("other"))
	assert.False(t, ok)
}

func TestInternalError_WrapsCause(t *testing.T) {
	cause := errors.New("socket closed")
	err := NewInternalError("store unreachable", cause)

	ie, ok := IsInternalError(err)
	assert.True(t, ok)
	assert.Equal(t, "store unreachable: socket closed", ie.Error())
	assert.ErrorIs(t, err, cause)
}

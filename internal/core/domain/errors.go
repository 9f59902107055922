package domain

import "errors"

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrClientNotFound        = errors.New("client not found")
	ErrFunctionalityNotFound = errors.New("functionality not found")
	ErrFunctionalityInactive = errors.New("functionality is not active")
	ErrInvalidOrder          = errors.New("invalid order")
	ErrInvalidClient         = errors.New("invalid client")
	ErrInvalidFunctionality  = errors.New("invalid functionality")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrOrderClosed           = errors.New("order is no longer open")
	ErrForbidden             = errors.New("access forbidden")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUserNotFound          = errors.New("user not found")
	ErrUserExists            = errors.New("user already exists")
	ErrDuplicateClient       = errors.New("client already exists")

	// ErrOrderInProgress is returned to a retry that arrives while the order
	// for the same idempotency key is still being created.
	ErrOrderInProgress = errors.New("order with this idempotency key is still being created")
	// ErrDuplicateIdempotencyKey reports that the tenant already stored an
	// order under the same idempotency key.
	ErrDuplicateIdempotencyKey = errors.New("idempotency key already used")
)

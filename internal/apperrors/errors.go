package apperrors

import (
	"errors"
	"fmt"
)

var (
	// Every specific "not found" error wraps it, so errors.Is(err, ErrNotFound) holds for all of them
	ErrNotFound = errors.New("not found")

	ErrMemberNotFound       = fmt.Errorf("member %w", ErrNotFound)
	ErrProductNotFound      = fmt.Errorf("product %w", ErrNotFound)
	ErrFineNotFound         = fmt.Errorf("fine %w", ErrNotFound)
	ErrMatchNotFound        = fmt.Errorf("match %w", ErrNotFound)
	ErrEventNotFound        = fmt.Errorf("event %w", ErrNotFound)
	ErrSubscriptionNotFound = fmt.Errorf("subscription %w", ErrNotFound)

	ErrMemberAlreadyExists = errors.New("member with this email or membership number already exists")
	ErrMatchAlreadyExists  = errors.New("match already exists")

	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity is out of range")
	ErrInvalidRole       = errors.New("role is invalid")
	ErrInvalidAmount     = errors.New("amount is invalid")
	ErrInvalidStatus     = errors.New("status is invalid")
	ErrInvalidEventType  = errors.New("event type is invalid")
	ErrInvalidInterval   = errors.New("billing interval is invalid")
)

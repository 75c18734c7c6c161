package services

import (
	"errors"
	"fmt"

	"decor-marketplace-server/models"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrBookingNotFound      = fmt.Errorf("booking %w", ErrNotFound)
	ErrServiceNotFound      = fmt.Errorf("service %w", ErrNotFound)
	ErrDecoratorNotFound    = fmt.Errorf("decorator %w", ErrNotFound)
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("notification %w", ErrNotFound)

	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
)

// ValidationError is a missing or malformed input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InvalidTransitionError is an illegal service status change
type InvalidTransitionError struct {
	From    models.ServiceStatus
	To      models.ServiceStatus
	Message string
}

func (e *InvalidTransitionError) Error() string {
	return e.Message
}

// InvalidAssignmentError is an assignment the booking state does not allow
type InvalidAssignmentError struct {
	BookingID uint
	Message   string
}

func (e *InvalidAssignmentError) Error() string {
	return e.Message
}

// PaymentLookupError is an unknown, expired or conflicting checkout session
type PaymentLookupError struct {
	SessionID string
	Message   string
}

func (e *PaymentLookupError) Error() string {
	if e.SessionID == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (session %s)", e.Message, e.SessionID)
}

// PermissionError means the actor may not perform the action
type PermissionError struct {
	Actor  string
	Action string
}

func (e *PermissionError) Error() string {
	if e.Actor == "" {
		return fmt.Sprintf("authentication required to %s", e.Action)
	}
	return fmt.Sprintf("%s is not allowed to %s", e.Actor, e.Action)
}

func denied(actorEmail, action string) error {
	return &PermissionError{Actor: actorEmail, Action: action}
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

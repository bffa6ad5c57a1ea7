package common

import (
	"errors"
	"fmt"
)

// ValidationError reports a malformed request (bad target, missing field).
// It is always synchronous and never reaches the fan-out stage.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an absent message, user or group.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// AuthorizationError reports an actor attempting an operation it does not own.
type AuthorizationError struct {
	Actor  string
	Action string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("user %s is not allowed to %s", e.Actor, e.Action)
}

// ConflictError reports a write that lost a race or repeated a one-shot
// operation (double delete, pin race).
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}

// DownstreamError wraps a failure from the durable log, the notification
// gateway or another fan-out dependency. It only occurs inside fan-out
// tasks and is never surfaced to the original caller.
type DownstreamError struct {
	Target string
	Err    error
}

func (e *DownstreamError) Error() string {
	return fmt.Sprintf("downstream %s unavailable: %v", e.Target, e.Err)
}

func (e *DownstreamError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

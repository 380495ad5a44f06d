package domain

import (
	"context"
	"errors"
	"fmt"
)

// Kind is the machine-checkable class of a failure.
type Kind string

const (
	KindInternal           Kind = "internal"
	KindNotAuthenticated   Kind = "not_authenticated"
	KindNotAuthorized      Kind = "not_authorized"
	KindNotFound           Kind = "not_found"
	KindAlreadyAccepted    Kind = "already_accepted"
	KindAlreadyMember      Kind = "already_member"
	KindValidation         Kind = "validation"
	KindDuplicateEmail     Kind = "duplicate_email"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindConflict           Kind = "conflict"
	KindTransport          Kind = "transport"
	KindPartialFailure     Kind = "partial_failure"
)

// Error is a sentinel error with a Kind. Compare with errors.Is.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string   { return e.Msg }
func (e *Error) ErrorKind() Kind { return e.Kind }

var (
	ErrNotAuthenticated   = &Error{KindNotAuthenticated, "authentication required"}
	ErrNotAuthorized      = &Error{KindNotAuthorized, "not authorized"}
	ErrNotFound           = &Error{KindNotFound, "not found"}
	ErrInviteNotFound     = &Error{KindNotFound, "invite not found or expired"}
	ErrBusinessNotFound   = &Error{KindNotFound, "business not found"}
	ErrAlreadyAccepted    = &Error{KindAlreadyAccepted, "invite already accepted"}
	ErrAlreadyMember      = &Error{KindAlreadyMember, "already a member of this business"}
	ErrValidation         = &Error{KindValidation, "invalid request"}
	ErrWeakPassword       = &Error{KindValidation, "Password must be at least 6 characters."}
	ErrPasswordMismatch   = &Error{KindValidation, "Passwords do not match."}
	ErrDuplicateEmail     = &Error{KindDuplicateEmail, "email already registered"}
	ErrInvalidCredentials = &Error{KindInvalidCredentials, "invalid email or password"}
	ErrConflict           = &Error{KindConflict, "conflicting state"}
)

type kinded interface {
	ErrorKind() Kind
}

// KindOf classifies any error chain. Deadlines and cancellations count as
// transport failures; unknown errors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var k kinded
	if errors.As(err, &k) {
		return k.ErrorKind()
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTransport
	}

	return KindInternal
}

// IsBenign reports "already done" outcomes a caller may treat as success.
func IsBenign(err error) bool {
	switch KindOf(err) {
	case KindAlreadyAccepted, KindAlreadyMember:
		return true
	default:
		return false
	}
}

// TransportError wraps a failure talking to the store, identity provider or
// mail transport. Callers may retry.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string   { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error   { return e.Err }
func (e *TransportError) ErrorKind() Kind { return KindTransport }

// Transport wraps err unless it already carries a kind.
func Transport(op string, err error) error {
	if err == nil {
		return nil
	}
	var k kinded
	if errors.As(err, &k) {
		return err
	}
	return &TransportError{Op: op, Err: err}
}

// PartialFailureError reports a multi-step write that committed only its
// first steps. The ids identify what needs manual reconciliation.
type PartialFailureError struct {
	Step       string
	BusinessID string
	UserID     string
	InviteID   string
	Err        error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("partial failure at %s: %v", e.Step, e.Err)
}
func (e *PartialFailureError) Unwrap() error   { return e.Err }
func (e *PartialFailureError) ErrorKind() Kind { return KindPartialFailure }

// DeliveryError reports an invite that was stored but whose mail could not be
// sent. The invite stays valid.
type DeliveryError struct {
	InviteID string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("invite %s stored but not delivered: %v", e.InviteID, e.Err)
}
func (e *DeliveryError) Unwrap() error   { return e.Err }
func (e *DeliveryError) ErrorKind() Kind { return KindTransport }

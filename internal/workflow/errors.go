package workflow

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the workflow failure taxonomy. Handlers map these to
// HTTP statuses with errors.Is / errors.As.
var (
	ErrPermissionDenied     = errors.New("permission denied")
	ErrIllegalTransition    = errors.New("illegal transition")
	ErrReadinessFailed      = errors.New("quote is not ready for review")
	ErrProtectedReference   = errors.New("referenced by protected records")
	ErrDuplicateComplement  = errors.New("a complement already exists for this order")
	ErrComplementNotAllowed = errors.New("order is not eligible for a complement")
)

// PermissionError wraps ErrPermissionDenied with the denied action and reason.
type PermissionError struct {
	Action string
	Reason string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied for %s: %s", e.Action, e.Reason)
}

func (e *PermissionError) Unwrap() error { return ErrPermissionDenied }

// TransitionError wraps ErrIllegalTransition with the attempted transition
// and the state it was attempted from.
type TransitionError struct {
	Transition Transition
	From       Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s a document in state %s", e.Transition, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrIllegalTransition }

// ReadinessError aggregates every unmet submission condition so the user can
// fix all of them in one pass. IncompleteOrders carries the numbers of
// payment orders that failed their own completeness check, so callers can
// route the user to the first one instead of showing a generic message.
type ReadinessError struct {
	Reasons          []string
	IncompleteOrders []string
}

func (e *ReadinessError) Error() string {
	return "quote is not ready for review: " + strings.Join(e.Reasons, "; ")
}

func (e *ReadinessError) Unwrap() error { return ErrReadinessFailed }

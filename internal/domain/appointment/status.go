package appointment

import "github.com/agendusalao/salon-api/internal/httperr"

type Status string

const (
	StatusScheduled  Status = "SCHEDULED"
	StatusConfirmed  Status = "CONFIRMED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusNoShow     Status = "NO_SHOW"
)

// ErrAlreadyCompleted marks a repeated completion. Callers treat it as a
// no-op so the commission posting stays a one-shot edge trigger.
var ErrAlreadyCompleted = httperr.ErrBusiness("already_completed")

func IsValid(s Status) bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// live statuses are the ones a state change can still leave.
func isLive(s Status) bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress:
		return true
	}
	return false
}

// CanComplete distinguishes a repeat completion from a genuinely
// unreachable transition.
func CanComplete(current Status) error {
	if current == StatusCompleted {
		return ErrAlreadyCompleted
	}
	if !isLive(current) {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

func CanCancel(current Status) error {
	if !isLive(current) {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

// BlocksSlot reports whether an appointment in this status still occupies
// the professional's calendar for conflict checks.
func BlocksSlot(s Status) bool {
	return isLive(s)
}

func InitialStatus() Status {
	return StatusScheduled
}

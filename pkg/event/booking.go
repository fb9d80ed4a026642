package event

import (
	"errors"

	"github.com/alexwest1981/EduFlex-sub004/pkg/user"
)

var (
	ErrForbidden         = errors.New("operation not permitted for this role")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidTimeRange  = errors.New("event ends before it starts")
)

func validStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected:
		return true
	}
	return false
}

// CreationStatus decides the initial status of a new booking. Staff bookings
// are confirmed immediately; anyone else starts in PENDING no matter what
// status the request carried.
func CreationStatus(requested Status, caps user.Capabilities) Status {
	if !caps.CanMutateStatus {
		return StatusPending
	}
	if validStatus(requested) {
		return requested
	}
	return StatusConfirmed
}

// CanTransition reports whether a status change is allowed. Only pending
// bookings move: once confirmed or rejected an event is settled and cannot
// be reopened.
func CanTransition(current, next Status) bool {
	if current != StatusPending {
		return false
	}
	return next == StatusConfirmed || next == StatusRejected
}

package enums

import "fmt"

// BookingStatus tracks the lifecycle of a booking.
type BookingStatus string

const (
	BookingStatusPending     BookingStatus = "pending"
	BookingStatusApproved    BookingStatus = "approved"
	BookingStatusRejected    BookingStatus = "rejected"
	BookingStatusAdvancePaid BookingStatus = "advance_paid"
	BookingStatusCompleted   BookingStatus = "completed"
	BookingStatusReviewed    BookingStatus = "reviewed"
	BookingStatusCancelled   BookingStatus = "cancelled"
)

var validBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusApproved,
	BookingStatusRejected,
	BookingStatusAdvancePaid,
	BookingStatusCompleted,
	BookingStatusReviewed,
	BookingStatusCancelled,
}

// String implements fmt.Stringer.
func (b BookingStatus) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BookingStatus.
func (b BookingStatus) IsValid() bool {
	for _, candidate := range validBookingStatuses {
		if candidate == b {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition may leave this status.
func (b BookingStatus) IsTerminal() bool {
	switch b {
	case BookingStatusRejected, BookingStatusReviewed, BookingStatusCancelled:
		return true
	}
	return false
}

// ParseBookingStatus converts raw input into a BookingStatus.
func ParseBookingStatus(value string) (BookingStatus, error) {
	for _, candidate := range validBookingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid booking status %q", value)
}

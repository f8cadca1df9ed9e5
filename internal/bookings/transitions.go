package bookings

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rohankarki/utsavhub-backend/pkg/enums"
	pkgerrors "github.com/rohankarki/utsavhub-backend/pkg/errors"
)

// party classifies which side of a booking may request a transition.
type party int

const (
	partyVendor party = 1 << iota
	partyCustomer
)

// transitionTable is the single source of truth for the booking lifecycle.
// A (from, to) pair absent from the table is an illegal transition no matter
// who asks. Cancellation is open to both parties from every non-terminal
// state; rejected, reviewed and cancelled are terminal.
var transitionTable = map[enums.BookingStatus]map[enums.BookingStatus]party{
	enums.BookingStatusPending: {
		enums.BookingStatusApproved:  partyVendor,
		enums.BookingStatusRejected:  partyVendor,
		enums.BookingStatusCancelled: partyVendor | partyCustomer,
	},
	enums.BookingStatusApproved: {
		enums.BookingStatusAdvancePaid: partyCustomer,
		enums.BookingStatusCancelled:   partyVendor | partyCustomer,
	},
	enums.BookingStatusAdvancePaid: {
		enums.BookingStatusCompleted: partyVendor,
		enums.BookingStatusCancelled: partyVendor | partyCustomer,
	},
	enums.BookingStatusCompleted: {
		enums.BookingStatusReviewed:  partyCustomer,
		enums.BookingStatusCancelled: partyVendor | partyCustomer,
	},
}

// checkTransition authorizes moving a booking from one status to another on
// behalf of the given party. Unknown targets and pairs outside the table fail
// with a state conflict; a known pair requested by the wrong side fails with
// forbidden.
func checkTransition(from, to enums.BookingStatus, requester party) error {
	if !to.IsValid() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("unknown booking status %q", to))
	}
	allowed, ok := transitionTable[from][to]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move booking from %s to %s", from, to))
	}
	if allowed&requester == 0 {
		return pkgerrors.New(pkgerrors.CodeForbidden,
			fmt.Sprintf("requester may not move booking from %s to %s", from, to))
	}
	return nil
}

// BilledUnits returns the number of billable days for the date range: the
// whole days between start and end rounded up, never less than one. A
// same-day booking bills a single unit.
func BilledUnits(start, end time.Time) int64 {
	units := int64(math.Ceil(end.Sub(start).Hours() / 24))
	if units < 1 {
		return 1
	}
	return units
}

// ComputeTotal prices a booking as rate times billed units. Billing is per
// day regardless of the listing's unit type; the unit type is display
// metadata only.
func ComputeTotal(rate decimal.Decimal, start, end time.Time) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(BilledUnits(start, end)))
}

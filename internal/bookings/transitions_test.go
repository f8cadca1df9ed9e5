package bookings

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rohankarki/utsavhub-backend/pkg/enums"
	pkgerrors "github.com/rohankarki/utsavhub-backend/pkg/errors"
)

func date(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBilledUnits(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   string
		want  int64
	}{
		{"same day bills one unit", "2024-01-01", "2024-01-01", 1},
		{"single night", "2024-01-01", "2024-01-02", 1},
		{"two days", "2024-01-01", "2024-01-03", 2},
		{"week", "2024-03-04", "2024-03-11", 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := BilledUnits(date(tc.start), date(tc.end))
			if got != tc.want {
				t.Errorf("BilledUnits(%s, %s) = %d, want %d", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestComputeTotal(t *testing.T) {
	rate := decimal.NewFromInt(1000)
	total := ComputeTotal(rate, date("2024-01-01"), date("2024-01-03"))
	if !total.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("total = %s, want 2000", total)
	}

	sameDay := ComputeTotal(rate, date("2024-01-01"), date("2024-01-01"))
	if !sameDay.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("same-day total = %s, want 1000", sameDay)
	}
}

func TestCheckTransitionHappyPath(t *testing.T) {
	cases := []struct {
		name      string
		from, to  enums.BookingStatus
		requester party
	}{
		{"vendor approves", enums.BookingStatusPending, enums.BookingStatusApproved, partyVendor},
		{"vendor rejects", enums.BookingStatusPending, enums.BookingStatusRejected, partyVendor},
		{"customer pays advance", enums.BookingStatusApproved, enums.BookingStatusAdvancePaid, partyCustomer},
		{"vendor completes", enums.BookingStatusAdvancePaid, enums.BookingStatusCompleted, partyVendor},
		{"customer reviews", enums.BookingStatusCompleted, enums.BookingStatusReviewed, partyCustomer},
		{"customer cancels pending", enums.BookingStatusPending, enums.BookingStatusCancelled, partyCustomer},
		{"vendor cancels approved", enums.BookingStatusApproved, enums.BookingStatusCancelled, partyVendor},
		{"customer cancels completed", enums.BookingStatusCompleted, enums.BookingStatusCancelled, partyCustomer},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := checkTransition(tc.from, tc.to, tc.requester); err != nil {
				t.Errorf("checkTransition(%s, %s) = %v, want nil", tc.from, tc.to, err)
			}
		})
	}
}

func TestCheckTransitionRejectsSkippedStates(t *testing.T) {
	cases := []struct {
		name     string
		from, to enums.BookingStatus
	}{
		{"pending straight to completed", enums.BookingStatusPending, enums.BookingStatusCompleted},
		{"pending straight to advance_paid", enums.BookingStatusPending, enums.BookingStatusAdvancePaid},
		{"approved straight to reviewed", enums.BookingStatusApproved, enums.BookingStatusReviewed},
		{"backwards to pending", enums.BookingStatusApproved, enums.BookingStatusPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := checkTransition(tc.from, tc.to, partyVendor|partyCustomer)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
				t.Errorf("err = %v, want state conflict", err)
			}
		})
	}
}

func TestCheckTransitionRejectsUnknownStatus(t *testing.T) {
	err := checkTransition(enums.BookingStatusPending, enums.BookingStatus("paid"), partyVendor)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("err = %v, want state conflict", err)
	}
}

func TestCheckTransitionTerminalStatesHaveNoExit(t *testing.T) {
	terminals := []enums.BookingStatus{
		enums.BookingStatusRejected,
		enums.BookingStatusReviewed,
		enums.BookingStatusCancelled,
	}
	targets := []enums.BookingStatus{
		enums.BookingStatusPending,
		enums.BookingStatusApproved,
		enums.BookingStatusAdvancePaid,
		enums.BookingStatusCompleted,
		enums.BookingStatusCancelled,
	}
	for _, from := range terminals {
		for _, to := range targets {
			err := checkTransition(from, to, partyVendor|partyCustomer)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
				t.Errorf("checkTransition(%s, %s) = %v, want state conflict", from, to, err)
			}
		}
	}
}

func TestCheckTransitionWrongParty(t *testing.T) {
	cases := []struct {
		name      string
		from, to  enums.BookingStatus
		requester party
	}{
		{"customer cannot approve", enums.BookingStatusPending, enums.BookingStatusApproved, partyCustomer},
		{"customer cannot reject", enums.BookingStatusPending, enums.BookingStatusRejected, partyCustomer},
		{"vendor cannot pay advance", enums.BookingStatusApproved, enums.BookingStatusAdvancePaid, partyVendor},
		{"customer cannot complete", enums.BookingStatusAdvancePaid, enums.BookingStatusCompleted, partyCustomer},
		{"vendor cannot review", enums.BookingStatusCompleted, enums.BookingStatusReviewed, partyVendor},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := checkTransition(tc.from, tc.to, tc.requester)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
				t.Errorf("err = %v, want forbidden", err)
			}
		})
	}
}

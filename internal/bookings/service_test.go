package bookings

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rohankarki/utsavhub-backend/internal/storefronts"
	"github.com/rohankarki/utsavhub-backend/pkg/db/models"
	"github.com/rohankarki/utsavhub-backend/pkg/enums"
	pkgerrors "github.com/rohankarki/utsavhub-backend/pkg/errors"
	"github.com/rohankarki/utsavhub-backend/pkg/logger"
)

type stubRepo struct {
	bookings map[uuid.UUID]*models.Booking

	createFn func(ctx context.Context, dto CreateBookingDTO) (*models.Booking, error)
	casFn    func(ctx context.Context, id uuid.UUID, from, to enums.BookingStatus, extra map[string]any) (bool, error)
}

func newStubRepo() *stubRepo {
	return &stubRepo{bookings: make(map[uuid.UUID]*models.Booking)}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, dto CreateBookingDTO) (*models.Booking, error) {
	if s.createFn != nil {
		return s.createFn(ctx, dto)
	}
	booking := &models.Booking{
		ID:           uuid.New(),
		CustomerID:   dto.CustomerID,
		StorefrontID: dto.StorefrontID,
		ListingID:    dto.ListingID,
		StartDate:    dto.StartDate,
		EndDate:      dto.EndDate,
		Address:      dto.Address,
		TotalAmount:  dto.TotalAmount,
		Status:       enums.BookingStatusPending,
	}
	s.bookings[booking.ID] = booking
	return booking, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, ok := s.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *booking
	return &copied, nil
}

// UpdateStatusCAS mirrors the real compare-and-set: the write applies only
// when the stored status still matches the expected predecessor.
func (s *stubRepo) UpdateStatusCAS(ctx context.Context, id uuid.UUID, from, to enums.BookingStatus, extra map[string]any) (bool, error) {
	if s.casFn != nil {
		return s.casFn(ctx, id, from, to, extra)
	}
	booking, ok := s.bookings[id]
	if !ok || booking.Status != from {
		return false, nil
	}
	booking.Status = to
	if ref, ok := extra["advance_proof_ref"].(string); ok {
		booking.AdvanceProofRef = &ref
	}
	if rating, ok := extra["review_rating"].(int); ok {
		booking.ReviewRating = &rating
	}
	if comment, ok := extra["review_comment"].(string); ok {
		booking.ReviewComment = &comment
	}
	return true, nil
}

type stubListings struct {
	listings map[uuid.UUID]*models.Listing
}

func (s *stubListings) FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	listing, ok := s.listings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return listing, nil
}

type stubStorefronts struct {
	storefronts.Repository

	earnings     map[uuid.UUID]decimal.Decimal
	reviewCounts map[uuid.UUID]int
	reviewTotals map[uuid.UUID]int
}

func newStubStorefronts() *stubStorefronts {
	return &stubStorefronts{
		earnings:     make(map[uuid.UUID]decimal.Decimal),
		reviewCounts: make(map[uuid.UUID]int),
		reviewTotals: make(map[uuid.UUID]int),
	}
}

func (s *stubStorefronts) WithTx(tx *gorm.DB) storefronts.Repository { return s }

func (s *stubStorefronts) AddEarnings(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	current, ok := s.earnings[id]
	if !ok {
		current = decimal.Zero
	}
	s.earnings[id] = current.Add(amount)
	return nil
}

func (s *stubStorefronts) ApplyReview(ctx context.Context, id uuid.UUID, rating int) error {
	s.reviewCounts[id]++
	s.reviewTotals[id] += rating
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fixture struct {
	svc         Service
	repo        *stubRepo
	listings    *stubListings
	storefronts *stubStorefronts

	customerID   uuid.UUID
	vendorID     uuid.UUID
	storefrontID uuid.UUID
	listingID    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:         newStubRepo(),
		listings:     &stubListings{listings: make(map[uuid.UUID]*models.Listing)},
		storefronts:  newStubStorefronts(),
		customerID:   uuid.New(),
		vendorID:     uuid.New(),
		storefrontID: uuid.New(),
		listingID:    uuid.New(),
	}
	f.listings.listings[f.listingID] = &models.Listing{
		ID:           f.listingID,
		StorefrontID: f.storefrontID,
		Title:        "Tent Package",
		Rate:         decimal.NewFromInt(1000),
		UnitType:     enums.UnitTypePerDay,
	}

	svc, err := NewService(ServiceParams{
		Repo:        f.repo,
		Listings:    f.listings,
		Storefronts: f.storefronts,
		Tx:          stubTxRunner{},
		Logger:      logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	f.svc = svc
	return f
}

func (f *fixture) customer() Actor {
	return Actor{PrincipalID: f.customerID, Role: enums.PrincipalRoleCustomer}
}

func (f *fixture) vendor() Actor {
	return Actor{PrincipalID: f.vendorID, Role: enums.PrincipalRoleVendor, StorefrontID: &f.storefrontID}
}

func (f *fixture) createBooking(t *testing.T) *BookingDTO {
	t.Helper()
	booking, err := f.svc.Create(context.Background(), f.customerID, CreateBookingInput{
		ListingID: f.listingID,
		StartDate: date("2024-01-01"),
		EndDate:   date("2024-01-03"),
		Address:   "Patan Durbar Square",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return booking
}

func (f *fixture) mustTransition(t *testing.T, id uuid.UUID, actor Actor, input TransitionInput) *BookingDTO {
	t.Helper()
	booking, err := f.svc.Transition(context.Background(), id, actor, input)
	if err != nil {
		t.Fatalf("Transition to %s: %v", input.Target, err)
	}
	return booking
}

func proofInput() TransitionInput {
	ref := "media-proof-1"
	return TransitionInput{Target: "advance_paid", ProofRef: &ref}
}

func reviewInput(rating int, comment string) TransitionInput {
	return TransitionInput{Target: "reviewed", Rating: &rating, Comment: &comment}
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)

	booking := f.createBooking(t)
	if booking.Status != enums.BookingStatusPending {
		t.Errorf("status = %s, want pending", booking.Status)
	}
	if !booking.TotalAmount.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("total = %s, want 2000 (1000 x 2 days)", booking.TotalAmount)
	}
	if booking.StorefrontID != f.storefrontID {
		t.Errorf("storefront id not copied from listing")
	}
	if booking.AdvanceVerified {
		t.Error("advance_verified must start false")
	}
}

func TestCreateBookingSameDayBillsOneUnit(t *testing.T) {
	f := newFixture(t)

	booking, err := f.svc.Create(context.Background(), f.customerID, CreateBookingInput{
		ListingID: f.listingID,
		StartDate: date("2024-05-10"),
		EndDate:   date("2024-05-10"),
		Address:   "Bhaktapur",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !booking.TotalAmount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("total = %s, want 1000", booking.TotalAmount)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.customerID, CreateBookingInput{
		ListingID: f.listingID,
		StartDate: date("2024-01-05"),
		EndDate:   date("2024-01-03"),
		Address:   "Kathmandu",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation", err)
	}

	_, err = f.svc.Create(context.Background(), f.customerID, CreateBookingInput{
		ListingID: f.listingID,
		StartDate: date("2024-01-01"),
		EndDate:   date("2024-01-03"),
		Address:   "  ",
	})
	appErr = pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestCreateBookingUnknownListing(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.customerID, CreateBookingInput{
		ListingID: uuid.New(),
		StartDate: date("2024-01-01"),
		EndDate:   date("2024-01-02"),
		Address:   "Pokhara",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestFullLifecycle(t *testing.T) {
	f := newFixture(t)
	booking := f.createBooking(t)

	f.mustTransition(t, booking.ID, f.vendor(), TransitionInput{Target: "approved"})
	paid := f.mustTransition(t, booking.ID, f.customer(), proofInput())
	if paid.AdvanceProofRef == nil || *paid.AdvanceProofRef != "media-proof-1" {
		t.Errorf("proof ref = %v, want media-proof-1", paid.AdvanceProofRef)
	}
	if paid.AdvanceVerified {
		t.Error("advance_verified must stay false; no transition sets it")
	}

	completed := f.mustTransition(t, booking.ID, f.vendor(), TransitionInput{Target: "completed"})
	if completed.Status != enums.BookingStatusCompleted {
		t.Fatalf("status = %s, want completed", completed.Status)
	}
	if !f.storefronts.earnings[f.storefrontID].Equal(decimal.NewFromInt(2000)) {
		t.Errorf("earnings = %s, want 2000", f.storefronts.earnings[f.storefrontID])
	}

	reviewed := f.mustTransition(t, booking.ID, f.customer(), reviewInput(5, "flawless setup"))
	if reviewed.ReviewRating == nil || *reviewed.ReviewRating != 5 {
		t.Errorf("rating = %v, want 5", reviewed.ReviewRating)
	}
	if f.storefronts.reviewCounts[f.storefrontID] != 1 || f.storefronts.reviewTotals[f.storefrontID] != 5 {
		t.Errorf("review aggregate = %d/%d, want 1/5",
			f.storefronts.reviewCounts[f.storefrontID], f.storefronts.reviewTotals[f.storefrontID])
	}
}

func TestTransitionIdempotenceRejected(t *testing.T) {
	f := newFixture(t)
	booking := f.createBooking(t)

	f.mustTransition(t, booking.ID, f.vendor(), TransitionInput{Target: "approved"})

	_, err := f.svc.Transition(context.Background(), booking.ID, f.vendor(), TransitionInput{Target: "approved"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("repeat transition err = %v, want state conflict", err)
	}
}

func TestTransitionSkipStateRejected(t *testing.T) {
	f := newFixture(t)
	booking := f.createBooking(t)

	_, err := f.svc.Transition(context.Background(), booking.ID, f.vendor(), TransitionInput{Target: "completed"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("err = %v, want state conflict", err)
	}
}

func TestTransitionArbitraryStatusRejected(t *testing.T) {
	f := newFixture(t)
	booking := f.createBooking(t)

	for _, target := range []string{"paid", "APPROVED", "done", ""} {
		_, err := f.svc.Transition(context.Background(), booking.ID, f.vendor(), TransitionInput{Target: target})
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
			t.Errorf("target %q: err = %v, want state conflict", target, err)
		}
	}
}

func TestTransitionWrongActorForbidden(t *testing.T) {
	f := newFixture(t)
	booking := f.createBooking(t)

	// The customer cannot approve their own booking.
	_, err := f.svc.Transition(context.Background(), booking.ID, f.customer(), TransitionInput{Target: "approved"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("err = %v, want forbidden", err)
	}

	// A vendor from another storefront is not a party at all.
	otherStorefront := uuid.New()
	outsider := Actor{PrincipalID: uuid.New(), Role: enums.PrincipalRoleVendor, StorefrontID: &otherStorefront}
	_, err = f.svc.Transition(context.Background(), booking.ID, outsider, TransitionInput{Target: "approved"})
	appErr = pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("err = %v, want forbidden", err)
	}
}

func TestAdvancePaidRequiresProof(t *testing.T) {
	f := newFixture(t)
	booking := f.createBooking(t)
	f.mustTransition(t, booking.ID, f.vendor(), TransitionInput{Target: "approved"})

	_, err := f.svc.Transition(context.Background(), booking.ID, f.customer(), TransitionInput{Target: "advance_paid"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestReviewRequiresRatingAndComment(t *testing.T) {
	f := newFixture(t)
	booking := f.createBooking(t)
	f.mustTransition(t, booking.ID, f.vendor(), TransitionInput{Target: "approved"})
	f.mustTransition(t, booking.ID, f.customer(), proofInput())
	f.mustTransition(t, booking.ID, f.vendor(), TransitionInput{Target: "completed"})

	cases := []TransitionInput{
		reviewInput(0, "too low"),
		reviewInput(6, "too high"),
		reviewInput(4, "  "),
		{Target: "reviewed"},
	}
	for _, input := range cases {
		_, err := f.svc.Transition(context.Background(), booking.ID, f.customer(), input)
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
			t.Errorf("input %+v: err = %v, want validation", input, err)
		}
	}
}

func TestCompletedEarningsAccrueExactlyOnce(t *testing.T) {
	f := newFixture(t)
	booking := f.createBooking(t)
	f.mustTransition(t, booking.ID, f.vendor(), TransitionInput{Target: "approved"})
	f.mustTransition(t, booking.ID, f.customer(), proofInput())
	f.mustTransition(t, booking.ID, f.vendor(), TransitionInput{Target: "completed"})

	// The repeat fails before the earnings write because the booking already
	// left advance_paid.
	_, err := f.svc.Transition(context.Background(), booking.ID, f.vendor(), TransitionInput{Target: "completed"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("repeat complete err = %v, want state conflict", err)
	}
	if !f.storefronts.earnings[f.storefrontID].Equal(decimal.NewFromInt(2000)) {
		t.Errorf("earnings = %s, want 2000 after single completion", f.storefronts.earnings[f.storefrontID])
	}
}

func TestLostRaceSurfacesStateConflict(t *testing.T) {
	f := newFixture(t)
	booking := f.createBooking(t)

	// Another request wins the row between the read and the write.
	f.repo.casFn = func(ctx context.Context, id uuid.UUID, from, to enums.BookingStatus, extra map[string]any) (bool, error) {
		return false, nil
	}
	_, err := f.svc.Transition(context.Background(), booking.ID, f.vendor(), TransitionInput{Target: "approved"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("err = %v, want state conflict", err)
	}
}

func TestCancelByEitherParty(t *testing.T) {
	f := newFixture(t)

	first := f.createBooking(t)
	if _, err := f.svc.Transition(context.Background(), first.ID, f.customer(), TransitionInput{Target: "cancelled"}); err != nil {
		t.Fatalf("customer cancel: %v", err)
	}

	second := f.createBooking(t)
	f.mustTransition(t, second.ID, f.vendor(), TransitionInput{Target: "approved"})
	if _, err := f.svc.Transition(context.Background(), second.ID, f.vendor(), TransitionInput{Target: "cancelled"}); err != nil {
		t.Fatalf("vendor cancel: %v", err)
	}

	// Cancelled is terminal.
	_, err := f.svc.Transition(context.Background(), second.ID, f.vendor(), TransitionInput{Target: "approved"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("err = %v, want state conflict", err)
	}
}

func TestGetByIDAccessControl(t *testing.T) {
	f := newFixture(t)
	booking := f.createBooking(t)

	if _, err := f.svc.GetByID(context.Background(), booking.ID, f.customer()); err != nil {
		t.Fatalf("customer get: %v", err)
	}
	if _, err := f.svc.GetByID(context.Background(), booking.ID, f.vendor()); err != nil {
		t.Fatalf("vendor get: %v", err)
	}

	stranger := Actor{PrincipalID: uuid.New(), Role: enums.PrincipalRoleCustomer}
	_, err := f.svc.GetByID(context.Background(), booking.ID, stranger)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("err = %v, want forbidden", err)
	}
}

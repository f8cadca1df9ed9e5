package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/rohankarki/utsavhub-backend/internal/bookings"
	"github.com/rohankarki/utsavhub-backend/internal/catalog"
	"github.com/rohankarki/utsavhub-backend/internal/media"
	"github.com/rohankarki/utsavhub-backend/internal/principals"
	"github.com/rohankarki/utsavhub-backend/internal/storefronts"
	"github.com/rohankarki/utsavhub-backend/internal/views"
	pkgauth "github.com/rohankarki/utsavhub-backend/pkg/auth"
	"github.com/rohankarki/utsavhub-backend/pkg/auth/session"
	"github.com/rohankarki/utsavhub-backend/pkg/config"
	"github.com/rohankarki/utsavhub-backend/pkg/enums"
	"github.com/rohankarki/utsavhub-backend/pkg/logger"
	"github.com/rohankarki/utsavhub-backend/pkg/metrics"
	"github.com/rohankarki/utsavhub-backend/pkg/pagination"
	"github.com/rohankarki/utsavhub-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "", "", nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	return nil
}

type stubPrincipalsService struct{}

func (stubPrincipalsService) Register(ctx context.Context, req principals.RegisterRequest) (*principals.PrincipalDTO, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubPrincipalsService) Authenticate(ctx context.Context, req principals.LoginRequest) (*principals.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubStorefrontsService struct{}

func (stubStorefrontsService) GetByID(ctx context.Context, id uuid.UUID) (*storefronts.StorefrontDTO, error) {
	return &storefronts.StorefrontDTO{ID: id}, nil
}

func (stubStorefrontsService) GetByOwner(ctx context.Context, ownerPrincipalID uuid.UUID) (*storefronts.StorefrontDTO, error) {
	return &storefronts.StorefrontDTO{OwnerPrincipalID: ownerPrincipalID}, nil
}

func (stubStorefrontsService) Update(ctx context.Context, requesterPrincipalID uuid.UUID, input storefronts.UpdateStorefrontInput) (*storefronts.StorefrontDTO, error) {
	return &storefronts.StorefrontDTO{}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) Publish(ctx context.Context, storefrontID uuid.UUID, req catalog.PublishListingRequest) (*catalog.ListingDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) Update(ctx context.Context, listingID, requesterPrincipalID uuid.UUID, req catalog.UpdateListingRequest) (*catalog.ListingDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) Remove(ctx context.Context, listingID, requesterPrincipalID uuid.UUID) error {
	panic("unimplemented")
}

func (stubCatalogService) GetByID(ctx context.Context, listingID uuid.UUID) (*catalog.ListingDTO, error) {
	return &catalog.ListingDTO{ID: listingID}, nil
}

func (stubCatalogService) ListByStorefront(ctx context.Context, storefrontID uuid.UUID) ([]catalog.ListingDTO, error) {
	return []catalog.ListingDTO{}, nil
}

func (stubCatalogService) Browse(ctx context.Context, category string) ([]catalog.StorefrontListingsDTO, error) {
	return []catalog.StorefrontListingsDTO{}, nil
}

type stubBookingsService struct{}

func (stubBookingsService) Create(ctx context.Context, customerID uuid.UUID, input bookings.CreateBookingInput) (*bookings.BookingDTO, error) {
	panic("unimplemented")
}

func (stubBookingsService) Transition(ctx context.Context, bookingID uuid.UUID, actor bookings.Actor, input bookings.TransitionInput) (*bookings.BookingDTO, error) {
	panic("unimplemented")
}

func (stubBookingsService) GetByID(ctx context.Context, bookingID uuid.UUID, actor bookings.Actor) (*bookings.BookingDTO, error) {
	return &bookings.BookingDTO{ID: bookingID}, nil
}

type stubViewsService struct{}

func (stubViewsService) BookingsForPrincipal(ctx context.Context, principalID uuid.UUID, role enums.PrincipalRole, params pagination.Params) (*views.Page, error) {
	return &views.Page{Items: []views.BookingView{}}, nil
}

type stubMediaService struct{}

func (stubMediaService) Store(ctx context.Context, uploadedBy uuid.UUID, payload []byte, contentType string) (string, error) {
	return "media-" + uuid.NewString(), nil
}

func (stubMediaService) Get(ctx context.Context, ref string) (*media.StoredMedia, error) {
	return &media.StoredMedia{Ref: ref, ContentType: "image/png", Data: []byte{1}}, nil
}

func (stubMediaService) Exists(ctx context.Context, ref string) (bool, error) {
	return true, nil
}

type stubIdemStore struct {
	data map[string]string
}

func newStubIdemStore() *stubIdemStore {
	return &stubIdemStore{data: make(map[string]string)}
}

func (s *stubIdemStore) Get(ctx context.Context, key string) (string, error) {
	if v, ok := s.data[key]; ok {
		return v, nil
	}
	return "", goredis.Nil
}

func (s *stubIdemStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := s.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	s.data[key] = str
	return true, nil
}

func (s *stubIdemStore) IdempotencyKey(scope, key string) string {
	return "test:" + scope + ":" + key
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
		Media: config.MediaConfig{MaxUploadBytes: 1 << 20},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	return newTestRouterWithIdem(cfg, nil)
}

func newTestRouterWithIdem(cfg *config.Config, idemStore redis.IdempotencyStore) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		stubPinger{},
		metrics.NewHTTPMetrics(),
		stubSessionManager{},
		idemStore,
		stubPrincipalsService{},
		stubStorefrontsService{},
		stubCatalogService{},
		stubBookingsService{},
		stubViewsService{},
		stubMediaService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.PrincipalRole, storefrontID *uuid.UUID) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		PrincipalID:  uuid.New(),
		Role:         role,
		StorefrontID: storefrontID,
		JTI:          session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPublicRoutesServeWithoutToken(t *testing.T) {
	router := newTestRouter(testConfig())
	paths := []string{
		"/health/live",
		"/api/public/ping",
		"/api/v1/listings",
		"/metrics",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.PrincipalRoleCustomer, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for private ping got %d", resp.Code)
	}
}

func TestVendorGroupRequiresVendorRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customer := httptest.NewRequest(http.MethodGet, "/api/v1/vendor/storefront", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.PrincipalRoleCustomer, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	storefrontID := uuid.New()
	vendor := httptest.NewRequest(http.MethodGet, "/api/v1/vendor/storefront", nil)
	vendor.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.PrincipalRoleVendor, &storefrontID))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, vendor)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for vendor got %d", resp.Code)
	}
}

func TestBookingCreateRequiresCustomerRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	storefrontID := uuid.New()
	vendor := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
	vendor.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.PrincipalRoleVendor, &storefrontID))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, vendor)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for vendor booking create got %d", resp.Code)
	}
}

func TestBookingListServesBothRoles(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	for _, role := range []enums.PrincipalRole{enums.PrincipalRoleCustomer, enums.PrincipalRoleVendor} {
		var storefrontID *uuid.UUID
		if role == enums.PrincipalRoleVendor {
			id := uuid.New()
			storefrontID = &id
		}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
		req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, role, storefrontID))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 listing bookings as %s got %d", role, resp.Code)
		}
	}
}

func TestPublicMediaFetch(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/media/media-"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for media fetch got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); got != "image/png" {
		t.Fatalf("expected stored content type got %q", got)
	}
}

func TestBookingCreateRequiresIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	router := newTestRouterWithIdem(cfg, newStubIdemStore())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.PrincipalRoleCustomer, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without idempotency key got %d", resp.Code)
	}
}

func TestMediaUploadReplaysThroughRouter(t *testing.T) {
	cfg := testConfig()
	store := newStubIdemStore()
	router := newTestRouterWithIdem(cfg, store)
	token := buildToken(t, cfg, enums.PrincipalRoleCustomer, nil)

	first := httptest.NewRequest(http.MethodPost, "/api/v1/media", strings.NewReader("payload"))
	first.Header.Set("Authorization", "Bearer "+token)
	first.Header.Set("Idempotency-Key", "upload-1")
	firstResp := httptest.NewRecorder()
	router.ServeHTTP(firstResp, first)
	if firstResp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for first upload got %d", firstResp.Code)
	}
	if len(store.data) != 1 {
		t.Fatalf("expected one stored record got %d", len(store.data))
	}

	replay := httptest.NewRequest(http.MethodPost, "/api/v1/media", strings.NewReader("payload"))
	replay.Header.Set("Authorization", "Bearer "+token)
	replay.Header.Set("Idempotency-Key", "upload-1")
	replayResp := httptest.NewRecorder()
	router.ServeHTTP(replayResp, replay)

	if replayResp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for replay got %d", replayResp.Code)
	}
	if replayResp.Body.String() != firstResp.Body.String() {
		t.Fatalf("expected replay body %q got %q", firstResp.Body.String(), replayResp.Body.String())
	}
}

func TestHealthReadyAggregatesPings(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for ready got %d", resp.Code)
	}
}

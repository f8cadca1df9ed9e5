package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rohankarki/utsavhub-backend/api/controllers"
	"github.com/rohankarki/utsavhub-backend/api/middleware"
	"github.com/rohankarki/utsavhub-backend/internal/bookings"
	"github.com/rohankarki/utsavhub-backend/internal/catalog"
	"github.com/rohankarki/utsavhub-backend/internal/media"
	"github.com/rohankarki/utsavhub-backend/internal/principals"
	"github.com/rohankarki/utsavhub-backend/internal/storefronts"
	"github.com/rohankarki/utsavhub-backend/internal/views"
	"github.com/rohankarki/utsavhub-backend/pkg/auth/session"
	"github.com/rohankarki/utsavhub-backend/pkg/config"
	"github.com/rohankarki/utsavhub-backend/pkg/db"
	"github.com/rohankarki/utsavhub-backend/pkg/enums"
	"github.com/rohankarki/utsavhub-backend/pkg/logger"
	"github.com/rohankarki/utsavhub-backend/pkg/metrics"
	"github.com/rohankarki/utsavhub-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	httpMetrics *metrics.HTTPMetrics,
	sessionManager sessionManager,
	idemStore redis.IdempotencyStore,
	principalsService principals.Service,
	storefrontsService storefronts.Service,
	catalogService catalog.Service,
	bookingsService bookings.Service,
	viewsService views.Service,
	mediaService media.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		httpMetrics.Middleware(),
	)

	r.Handle("/metrics", httpMetrics.Handler())

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisP, logg))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(principalsService, logg))
		r.Post("/login", controllers.AuthLogin(principalsService, logg))
		r.Post("/logout", controllers.AuthLogout(sessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(sessionManager, cfg.JWT, logg))
	})

	// Public catalog reads for browsing without an account.
	r.Route("/api/v1/listings", func(r chi.Router) {
		r.Get("/", controllers.BrowseListings(catalogService, logg))
		r.Get("/{listingID}", controllers.GetListing(catalogService, logg))
	})
	r.Route("/api/v1/storefronts", func(r chi.Router) {
		r.Get("/{storefrontID}", controllers.GetStorefront(storefrontsService, logg))
		r.Get("/{storefrontID}/listings", controllers.ListStorefrontListings(catalogService, logg))
	})
	r.Get("/api/v1/media/{mediaRef}", controllers.GetMedia(mediaService, logg))

	r.Route("/api", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, sessionManager, logg),
			middleware.Idempotency(idemStore, logg),
		)

		r.Get("/ping", controllers.PrivatePing())
		r.Post("/v1/media", controllers.UploadMedia(mediaService, cfg.Media.MaxUploadBytes, logg))

		r.Route("/v1/vendor", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.PrincipalRoleVendor.String(), logg))

			r.Post("/listings", controllers.PublishListing(catalogService, logg))
			r.Patch("/listings/{listingID}", controllers.UpdateListing(catalogService, logg))
			r.Delete("/listings/{listingID}", controllers.DeleteListing(catalogService, logg))

			r.Get("/storefront", controllers.GetMyStorefront(storefrontsService, logg))
			r.Patch("/storefront", controllers.UpdateMyStorefront(storefrontsService, logg))
		})

		r.Route("/v1/bookings", func(r chi.Router) {
			r.With(middleware.RequireRole(enums.PrincipalRoleCustomer.String(), logg)).
				Post("/", controllers.CreateBooking(bookingsService, logg))
			r.Get("/", controllers.ListMyBookings(viewsService, logg))
			r.Get("/{bookingID}", controllers.GetBooking(bookingsService, logg))
			r.Post("/{bookingID}/transition", controllers.TransitionBooking(bookingsService, logg))
		})
	})

	return r
}

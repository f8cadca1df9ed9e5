package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/rohankarki/utsavhub-backend/api/responses"
	"github.com/rohankarki/utsavhub-backend/pkg/config"
	"github.com/rohankarki/utsavhub-backend/pkg/db"
	pkgerrors "github.com/rohankarki/utsavhub-backend/pkg/errors"
	"github.com/rohankarki/utsavhub-backend/pkg/logger"
	"github.com/rohankarki/utsavhub-backend/pkg/redis"
)

const readinessTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-UtsavHub-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when both backing stores answer a ping.
func HealthReady(cfg *config.Config, database db.Pinger, cache redis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-UtsavHub-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var err error
		if pingErr := database.Ping(ctx); pingErr != nil {
			err = multierr.Append(err, fmt.Errorf("database: %w", pingErr))
		}
		if pingErr := cache.Ping(ctx); pingErr != nil {
			err = multierr.Append(err, fmt.Errorf("redis: %w", pingErr))
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "readiness check failed"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

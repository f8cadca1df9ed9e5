package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rohankarki/utsavhub-backend/api/responses"
	"github.com/rohankarki/utsavhub-backend/internal/media"
	pkgerrors "github.com/rohankarki/utsavhub-backend/pkg/errors"
	"github.com/rohankarki/utsavhub-backend/pkg/logger"
)

// UploadMedia accepts a raw image body and returns the opaque reference
// callers attach to listings and advance proofs.
func UploadMedia(svc media.Service, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principalID, err := principalIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes+1))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload body"))
			return
		}

		ref, err := svc.Store(r.Context(), principalID, payload, r.Header.Get("Content-Type"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"ref": ref})
	}
}

// GetMedia streams a stored blob back with its original content type.
func GetMedia(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := chi.URLParam(r, "mediaRef")
		if ref == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "media reference required"))
			return
		}

		stored, err := svc.Get(r.Context(), ref)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", stored.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(stored.Data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(stored.Data)
	}
}

package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/galeria-midia/backend/api/responses"
	"github.com/galeria-midia/backend/internal/view"
	pkgerrors "github.com/galeria-midia/backend/pkg/errors"
	"github.com/galeria-midia/backend/pkg/logger"
)

// ViewByShareCode serves the public slideshow payload. No auth.
func ViewByShareCode(svc view.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "view service unavailable"))
			return
		}

		shareCode := strings.TrimSpace(chi.URLParam(r, "shareCode"))
		dto, err := svc.ByShareCode(ctx, shareCode)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

package controllers

import (
	"net/http"

	"github.com/merakimart/storefront-backend/api/responses"
	"github.com/merakimart/storefront-backend/internal/settings"
	"github.com/merakimart/storefront-backend/pkg/logger"
)

// SettingsFetch exposes the merchant fee configuration the quote is built on.
// Settings fail open to zero, so this endpoint never errors.
func SettingsFetch(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Get(r.Context()))
	}
}

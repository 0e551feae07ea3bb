package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/merakimart/storefront-backend/api/responses"
	"github.com/merakimart/storefront-backend/api/validators"
	"github.com/merakimart/storefront-backend/internal/checkout"
	"github.com/merakimart/storefront-backend/internal/coupons"
	"github.com/merakimart/storefront-backend/pkg/db/models"
	"github.com/merakimart/storefront-backend/pkg/enums"
	"github.com/merakimart/storefront-backend/pkg/logger"
)

type applyCouponPayload struct {
	Code string `json:"code" validate:"required,min=1,max=64"`
}

type couponView struct {
	ID               uuid.UUID             `json:"id"`
	Code             string                `json:"code"`
	OfferType        enums.CouponOfferType `json:"offer_type"`
	OfferValue       int64                 `json:"offer_value"`
	Scope            enums.CouponScope     `json:"scope"`
	MinPurchaseCents *int64                `json:"min_purchase_cents,omitempty"`
	Description      string                `json:"description,omitempty"`
}

func couponsView(rows []models.Coupon) []couponView {
	out := make([]couponView, 0, len(rows))
	for _, row := range rows {
		out = append(out, couponView{
			ID:               row.ID,
			Code:             row.Code,
			OfferType:        row.OfferType,
			OfferValue:       row.OfferValue,
			Scope:            row.Scope,
			MinPurchaseCents: row.MinPurchaseCents,
			Description:      row.Description,
		})
	}
	return out
}

// CouponList returns the active coupon catalog.
func CouponList(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		rows, err := svc.List(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"coupons": couponsView(rows)})
	}
}

// CouponApply applies a coupon code to the shopper's cart and returns the
// discounted quote.
func CouponApply(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload applyCouponPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		quote, err := svc.ApplyCoupon(ctx, userID, strings.TrimSpace(payload.Code))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// CouponRemove clears the applied coupon and returns the base quote.
func CouponRemove(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		quote, err := svc.RemoveCoupon(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

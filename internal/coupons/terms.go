package coupons

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/merakimart/storefront-backend/internal/pricing"
	"github.com/merakimart/storefront-backend/pkg/db/models"
	"github.com/merakimart/storefront-backend/pkg/enums"
)

// TermsFromModel validates a stored coupon record and converts it into the
// engine-facing shape. Validation happens here, at the boundary, so the
// pricing engine never sees a malformed tagged union.
func TermsFromModel(coupon *models.Coupon) (pricing.CouponTerms, error) {
	if coupon == nil {
		return pricing.CouponTerms{}, fmt.Errorf("coupon record is nil")
	}
	code := strings.ToUpper(strings.TrimSpace(coupon.Code))
	if code == "" {
		return pricing.CouponTerms{}, fmt.Errorf("coupon code is empty")
	}
	if !coupon.OfferType.IsValid() {
		return pricing.CouponTerms{}, fmt.Errorf("coupon %s: unknown offer type %q", code, coupon.OfferType)
	}
	if !coupon.Scope.IsValid() {
		return pricing.CouponTerms{}, fmt.Errorf("coupon %s: unknown scope %q", code, coupon.Scope)
	}

	switch coupon.OfferType {
	case enums.CouponOfferPercentage:
		if coupon.OfferValue < 1 || coupon.OfferValue > 100 {
			return pricing.CouponTerms{}, fmt.Errorf("coupon %s: percentage %d out of range", code, coupon.OfferValue)
		}
	case enums.CouponOfferFixedAmount:
		if coupon.OfferValue < 1 {
			return pricing.CouponTerms{}, fmt.Errorf("coupon %s: fixed amount must be positive", code)
		}
	case enums.CouponOfferBOGO:
		// offer value is ignored for buy-one-get-one
	}

	if coupon.Scope.IsScoped() && len(coupon.ApplicableIDs) == 0 {
		return pricing.CouponTerms{}, fmt.Errorf("coupon %s: scope %s requires applicable ids", code, coupon.Scope)
	}
	if coupon.MinPurchaseCents != nil && *coupon.MinPurchaseCents < 0 {
		return pricing.CouponTerms{}, fmt.Errorf("coupon %s: negative minimum purchase", code)
	}

	return pricing.CouponTerms{
		Code:             code,
		OfferType:        coupon.OfferType,
		OfferValue:       coupon.OfferValue,
		Scope:            coupon.Scope,
		ApplicableIDs:    append([]uuid.UUID(nil), coupon.ApplicableIDs...),
		MinPurchaseCents: coupon.MinPurchaseCents,
		Description:      coupon.Description,
	}, nil
}

package pricing

import (
	"github.com/google/uuid"

	"github.com/merakimart/storefront-backend/pkg/enums"
)

// CouponTerms is the validated, engine-facing shape of a coupon. Records are
// validated at the boundary (see coupons.TermsFromModel); the engine assumes
// the tagged union over OfferType is well formed.
type CouponTerms struct {
	Code             string
	OfferType        enums.CouponOfferType
	OfferValue       int64
	Scope            enums.CouponScope
	ApplicableIDs    []uuid.UUID
	MinPurchaseCents *int64
	Description      string
}

// AppliesTo reports whether the coupon's scope covers the given line.
func (c CouponTerms) AppliesTo(line Line) bool {
	switch c.Scope {
	case enums.CouponScopeAll:
		return true
	case enums.CouponScopeCategory:
		return containsID(c.ApplicableIDs, line.CategoryID)
	case enums.CouponScopeSpecificProduct:
		return containsID(c.ApplicableIDs, line.ProductID)
	default:
		return false
	}
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

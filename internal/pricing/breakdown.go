package pricing

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/merakimart/storefront-backend/pkg/enums"
)

// Breakdown is the authoritative price decomposition for a cart. It is always
// recomputed from scratch, never patched incrementally.
type Breakdown struct {
	TotalMRPCents         int64                 `json:"total_mrp_cents"`
	TotalDiscountCents    int64                 `json:"total_discount_cents"`
	CouponDiscountCents   int64                 `json:"coupon_discount_cents"`
	FinalAmountCents      int64                 `json:"final_amount_cents"`
	ItemWiseDiscountCents map[uuid.UUID]int64   `json:"item_wise_discount_cents,omitempty"`
	ApplicableCategories  []uuid.UUID           `json:"applicable_categories,omitempty"`
	CouponCode            string                `json:"coupon_code,omitempty"`
	CouponOfferType       enums.CouponOfferType `json:"coupon_offer_type,omitempty"`
	BogoMessage           string                `json:"bogo_message,omitempty"`
	Message               string                `json:"message,omitempty"`
}

// ComputeBreakdown derives the price breakdown for the given lines with an
// optional coupon. On a hard coupon rejection (unmet minimum purchase) the
// couponless breakdown is returned alongside the error so callers keep a
// valid display state.
func ComputeBreakdown(lines []Line, coupon *CouponTerms) (Breakdown, error) {
	base := computeBase(lines)
	if coupon == nil {
		return base, nil
	}

	if coupon.MinPurchaseCents != nil && base.TotalMRPCents < *coupon.MinPurchaseCents {
		return base, NewCouponBelowMinimum(coupon.Code)
	}

	out := base
	out.CouponCode = coupon.Code
	out.CouponOfferType = coupon.OfferType

	eligible := make([]Line, 0, len(lines))
	var scopedCents int64
	for _, line := range lines {
		if coupon.AppliesTo(line) {
			eligible = append(eligible, line)
			scopedCents += line.LineAmountCents()
		}
	}
	out.ApplicableCategories = distinctCategories(eligible)

	if scopedCents <= 0 {
		out.Message = "coupon does not apply to any items in your cart"
		return out, nil
	}

	switch coupon.OfferType {
	case enums.CouponOfferPercentage:
		discount := percentageOf(scopedCents, coupon.OfferValue)
		if discount > scopedCents {
			discount = scopedCents
		}
		out.CouponDiscountCents = discount
		out.ItemWiseDiscountCents = splitProRata(eligible, discount, scopedCents)

	case enums.CouponOfferFixedAmount:
		discount := coupon.OfferValue
		if discount > scopedCents {
			discount = scopedCents
		}
		out.CouponDiscountCents = discount
		out.ItemWiseDiscountCents = splitProRata(eligible, discount, scopedCents)

	case enums.CouponOfferBOGO:
		free := cheapestEligible(eligible)
		discount := free.EffectiveUnitPriceCents()
		out.CouponDiscountCents = discount
		out.ItemWiseDiscountCents = map[uuid.UUID]int64{free.ID: discount}
		out.BogoMessage = fmt.Sprintf("Buy one get one applied: one %s is free", free.ProductName)
	}

	out.FinalAmountCents = out.TotalMRPCents - out.TotalDiscountCents - out.CouponDiscountCents
	if out.FinalAmountCents < 0 {
		out.FinalAmountCents = 0
	}
	return out, nil
}

func computeBase(lines []Line) Breakdown {
	var mrp, discount int64
	for _, line := range lines {
		qty := int64(line.Quantity)
		mrp += line.UnitListPriceCents * qty
		lineDiscount := (line.UnitListPriceCents - line.EffectiveUnitPriceCents()) * qty
		if lineDiscount > 0 {
			discount += lineDiscount
		}
	}
	return Breakdown{
		TotalMRPCents:      mrp,
		TotalDiscountCents: discount,
		FinalAmountCents:   mrp - discount,
	}
}

// percentageOf computes cents × percent / 100 rounded half away from zero.
func percentageOf(cents, percent int64) int64 {
	return decimal.NewFromInt(cents).
		Mul(decimal.NewFromInt(percent)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

// splitProRata distributes discount across the eligible lines by their share
// of the scoped amount. Rounding remainders land on the last line so the
// per-item amounts always sum exactly to the discount.
func splitProRata(eligible []Line, discount, scopedCents int64) map[uuid.UUID]int64 {
	shares := make(map[uuid.UUID]int64, len(eligible))
	var allocated int64
	for i, line := range eligible {
		if i == len(eligible)-1 {
			shares[line.ID] = discount - allocated
			break
		}
		share := decimal.NewFromInt(discount).
			Mul(decimal.NewFromInt(line.LineAmountCents())).
			Div(decimal.NewFromInt(scopedCents)).
			Floor().
			IntPart()
		shares[line.ID] = share
		allocated += share
	}
	return shares
}

// cheapestEligible picks the line whose one free unit costs the least,
// breaking price ties on the lowest line id so the choice is deterministic.
func cheapestEligible(eligible []Line) Line {
	chosen := eligible[0]
	for _, line := range eligible[1:] {
		price, best := line.EffectiveUnitPriceCents(), chosen.EffectiveUnitPriceCents()
		if price < best {
			chosen = line
			continue
		}
		if price == best && strings.Compare(line.ID.String(), chosen.ID.String()) < 0 {
			chosen = line
		}
	}
	return chosen
}

func distinctCategories(eligible []Line) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(eligible))
	var out []uuid.UUID
	for _, line := range eligible {
		if _, ok := seen[line.CategoryID]; ok {
			continue
		}
		seen[line.CategoryID] = struct{}{}
		out = append(out, line.CategoryID)
	}
	return out
}

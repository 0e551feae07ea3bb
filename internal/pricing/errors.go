package pricing

import "fmt"

// CouponRejectReason enumerates hard coupon failures. A scope that matches no
// items is deliberately not here — that case succeeds with zero discount and
// an explanatory message on the breakdown.
type CouponRejectReason string

const (
	CouponNotFound     CouponRejectReason = "not_found"
	CouponBelowMinimum CouponRejectReason = "below_minimum"
)

// CouponError rejects a coupon application without touching the previously
// computed breakdown.
type CouponError struct {
	Code   string
	Reason CouponRejectReason
}

func (e *CouponError) Error() string {
	return fmt.Sprintf("coupon %q rejected: %s", e.Code, e.Reason)
}

// NewCouponNotFound builds the rejection for an unknown code.
func NewCouponNotFound(code string) *CouponError {
	return &CouponError{Code: code, Reason: CouponNotFound}
}

// NewCouponBelowMinimum builds the rejection for an unmet minimum purchase.
func NewCouponBelowMinimum(code string) *CouponError {
	return &CouponError{Code: code, Reason: CouponBelowMinimum}
}

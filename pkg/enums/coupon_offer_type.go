package enums

import "fmt"

// CouponOfferType discriminates the three supported coupon mechanics.
type CouponOfferType string

const (
	CouponOfferPercentage  CouponOfferType = "percentage"
	CouponOfferFixedAmount CouponOfferType = "fixed_amount"
	CouponOfferBOGO        CouponOfferType = "bogo"
)

var validCouponOfferTypes = []CouponOfferType{
	CouponOfferPercentage,
	CouponOfferFixedAmount,
	CouponOfferBOGO,
}

// String implements fmt.Stringer.
func (c CouponOfferType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CouponOfferType.
func (c CouponOfferType) IsValid() bool {
	for _, candidate := range validCouponOfferTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCouponOfferType converts raw input into a CouponOfferType.
func ParseCouponOfferType(value string) (CouponOfferType, error) {
	for _, candidate := range validCouponOfferTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid coupon offer type %q", value)
}

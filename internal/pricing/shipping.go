package pricing

// Settings carries the merchant-configured fees and thresholds the quote
// depends on. All values are integer cents and default to zero when the
// settings fetch fails open.
type Settings struct {
	PlatformFeeCents           int64 `json:"platform_fee_cents"`
	ShippingFeeCents           int64 `json:"shipping_fee_cents"`
	FreeShippingThresholdCents int64 `json:"free_shipping_threshold_cents"`
}

// ComputeShipping derives the shipping charge from the post-discount amount.
// A zero threshold means free shipping is disabled, not that everything
// ships free.
func ComputeShipping(finalAmountCents int64, settings Settings) int64 {
	if settings.FreeShippingThresholdCents > 0 && finalAmountCents > settings.FreeShippingThresholdCents {
		return 0
	}
	return settings.ShippingFeeCents
}

// Quote is the complete customer-facing amount: breakdown plus shipping and
// platform fee. PayableCents is the single number downstream order creation
// charges.
type Quote struct {
	Breakdown        Breakdown `json:"breakdown"`
	ShippingCents    int64     `json:"shipping_cents"`
	PlatformFeeCents int64     `json:"platform_fee_cents"`
	PayableCents     int64     `json:"payable_cents"`
}

// BuildQuote assembles the displayed total from a breakdown and settings.
func BuildQuote(breakdown Breakdown, settings Settings) Quote {
	shipping := ComputeShipping(breakdown.FinalAmountCents, settings)
	return Quote{
		Breakdown:        breakdown,
		ShippingCents:    shipping,
		PlatformFeeCents: settings.PlatformFeeCents,
		PayableCents:     breakdown.FinalAmountCents + shipping + settings.PlatformFeeCents,
	}
}

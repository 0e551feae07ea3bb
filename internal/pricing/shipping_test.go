package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeShipping(t *testing.T) {
	t.Parallel()

	settings := Settings{ShippingFeeCents: 50, FreeShippingThresholdCents: 1000}

	tests := []struct {
		name        string
		finalAmount int64
		settings    Settings
		want        int64
	}{
		{"above threshold is free", 1200, settings, 0},
		{"below threshold pays fee", 900, settings, 50},
		{"exactly at threshold pays fee", 1000, settings, 50},
		{"zero threshold disables free shipping", 1_000_000, Settings{ShippingFeeCents: 50}, 50},
		{"zero fee and zero threshold", 100, Settings{}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComputeShipping(tc.finalAmount, tc.settings))
		})
	}
}

func TestBuildQuote(t *testing.T) {
	t.Parallel()

	breakdown := Breakdown{TotalMRPCents: 2000, TotalDiscountCents: 300, FinalAmountCents: 1700}
	settings := Settings{PlatformFeeCents: 20, ShippingFeeCents: 50, FreeShippingThresholdCents: 1000}

	quote := BuildQuote(breakdown, settings)

	assert.Equal(t, int64(0), quote.ShippingCents)
	assert.Equal(t, int64(20), quote.PlatformFeeCents)
	assert.Equal(t, int64(1720), quote.PayableCents)

	low := Breakdown{TotalMRPCents: 900, FinalAmountCents: 900}
	quote = BuildQuote(low, settings)
	assert.Equal(t, int64(50), quote.ShippingCents)
	assert.Equal(t, int64(970), quote.PayableCents)
}

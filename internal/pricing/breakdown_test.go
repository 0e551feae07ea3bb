package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merakimart/storefront-backend/pkg/enums"
)

func int64Ptr(v int64) *int64 { return &v }

func testLine(id string, listCents int64, discountCents *int64, qty int) Line {
	return Line{
		ID:                     uuid.MustParse(id),
		ProductID:              uuid.New(),
		ProductName:            "product-" + id[:4],
		CategoryID:             uuid.New(),
		Quantity:               qty,
		UnitListPriceCents:     listCents,
		UnitDiscountPriceCents: discountCents,
	}
}

const (
	lineIDA = "11111111-1111-1111-1111-111111111111"
	lineIDB = "22222222-2222-2222-2222-222222222222"
	lineIDC = "33333333-3333-3333-3333-333333333333"
)

func TestComputeBreakdownNoCoupon(t *testing.T) {
	t.Parallel()

	lines := []Line{
		testLine(lineIDA, 1000, nil, 1),
		testLine(lineIDB, 500, int64Ptr(400), 2),
	}

	got, err := ComputeBreakdown(lines, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(2000), got.TotalMRPCents)
	assert.Equal(t, int64(200), got.TotalDiscountCents)
	assert.Equal(t, int64(0), got.CouponDiscountCents)
	assert.Equal(t, got.TotalMRPCents-got.TotalDiscountCents, got.FinalAmountCents)
}

func TestComputeBreakdownClampsNegativeLineDiscount(t *testing.T) {
	t.Parallel()

	// discount price above list price must not produce a negative discount
	lines := []Line{testLine(lineIDA, 500, int64Ptr(900), 1)}

	got, err := ComputeBreakdown(lines, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(500), got.TotalMRPCents)
	assert.Equal(t, int64(0), got.TotalDiscountCents)
}

func TestComputeBreakdownFixedAmountAllScope(t *testing.T) {
	t.Parallel()

	lines := []Line{
		testLine(lineIDA, 1000, nil, 1),
		testLine(lineIDB, 500, nil, 2),
	}
	coupon := &CouponTerms{
		Code:             "SAVE300",
		OfferType:        enums.CouponOfferFixedAmount,
		OfferValue:       300,
		Scope:            enums.CouponScopeAll,
		MinPurchaseCents: int64Ptr(1000),
	}

	got, err := ComputeBreakdown(lines, coupon)
	require.NoError(t, err)

	assert.Equal(t, int64(2000), got.TotalMRPCents)
	assert.Equal(t, int64(300), got.CouponDiscountCents)
	assert.Equal(t, int64(1700), got.FinalAmountCents)
	assert.Equal(t, enums.CouponOfferFixedAmount, got.CouponOfferType)
}

func TestComputeBreakdownPercentageCategoryScope(t *testing.T) {
	t.Parallel()

	shoes := uuid.New()
	cheap := testLine(lineIDB, 500, nil, 2)
	cheap.CategoryID = shoes
	lines := []Line{testLine(lineIDA, 1000, nil, 1), cheap}

	coupon := &CouponTerms{
		Code:          "SHOES10",
		OfferType:     enums.CouponOfferPercentage,
		OfferValue:    10,
		Scope:         enums.CouponScopeCategory,
		ApplicableIDs: []uuid.UUID{shoes},
	}

	got, err := ComputeBreakdown(lines, coupon)
	require.NoError(t, err)

	// 10% of the matching 2×500 line only
	assert.Equal(t, int64(100), got.CouponDiscountCents)
	assert.Equal(t, int64(1900), got.FinalAmountCents)
	assert.Equal(t, []uuid.UUID{shoes}, got.ApplicableCategories)
	assert.Equal(t, int64(100), got.ItemWiseDiscountCents[cheap.ID])
}

func TestComputeBreakdownPercentageRounding(t *testing.T) {
	t.Parallel()

	lines := []Line{testLine(lineIDA, 333, nil, 1)}
	coupon := &CouponTerms{
		Code:       "TEN",
		OfferType:  enums.CouponOfferPercentage,
		OfferValue: 10,
		Scope:      enums.CouponScopeAll,
	}

	got, err := ComputeBreakdown(lines, coupon)
	require.NoError(t, err)
	assert.Equal(t, int64(33), got.CouponDiscountCents)
}

func TestComputeBreakdownFixedAmountNeverExceedsScoped(t *testing.T) {
	t.Parallel()

	lines := []Line{testLine(lineIDA, 200, nil, 1)}
	coupon := &CouponTerms{
		Code:       "BIG",
		OfferType:  enums.CouponOfferFixedAmount,
		OfferValue: 10_000,
		Scope:      enums.CouponScopeAll,
	}

	got, err := ComputeBreakdown(lines, coupon)
	require.NoError(t, err)

	assert.Equal(t, int64(200), got.CouponDiscountCents)
	assert.Equal(t, int64(0), got.FinalAmountCents)
}

func TestComputeBreakdownBOGO(t *testing.T) {
	t.Parallel()

	cheap := testLine(lineIDA, 200, nil, 1)
	dear := testLine(lineIDB, 300, nil, 1)
	coupon := &CouponTerms{
		Code:      "B1G1",
		OfferType: enums.CouponOfferBOGO,
		Scope:     enums.CouponScopeAll,
	}

	got, err := ComputeBreakdown([]Line{dear, cheap}, coupon)
	require.NoError(t, err)

	assert.Equal(t, int64(200), got.CouponDiscountCents)
	assert.Equal(t, int64(300), got.FinalAmountCents)
	assert.Equal(t, map[uuid.UUID]int64{cheap.ID: 200}, got.ItemWiseDiscountCents)
	assert.Contains(t, got.BogoMessage, cheap.ProductName)
}

func TestComputeBreakdownBOGODiscountsOneUnitOnly(t *testing.T) {
	t.Parallel()

	// quantity 3 of the cheapest item: only a single unit goes free
	cheap := testLine(lineIDA, 200, nil, 3)
	coupon := &CouponTerms{
		Code:      "B1G1",
		OfferType: enums.CouponOfferBOGO,
		Scope:     enums.CouponScopeAll,
	}

	got, err := ComputeBreakdown([]Line{cheap, testLine(lineIDB, 900, nil, 2)}, coupon)
	require.NoError(t, err)
	assert.Equal(t, int64(200), got.CouponDiscountCents)
}

func TestComputeBreakdownBOGOTieBreaksOnLowestLineID(t *testing.T) {
	t.Parallel()

	first := testLine(lineIDA, 250, nil, 1)
	second := testLine(lineIDC, 250, nil, 1)
	coupon := &CouponTerms{
		Code:      "B1G1",
		OfferType: enums.CouponOfferBOGO,
		Scope:     enums.CouponScopeAll,
	}

	// order of input must not matter
	got, err := ComputeBreakdown([]Line{second, first}, coupon)
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int64{first.ID: 250}, got.ItemWiseDiscountCents)
}

func TestComputeBreakdownBelowMinimumKeepsBase(t *testing.T) {
	t.Parallel()

	lines := []Line{testLine(lineIDA, 400, nil, 1)}
	coupon := &CouponTerms{
		Code:             "SAVE300",
		OfferType:        enums.CouponOfferFixedAmount,
		OfferValue:       300,
		Scope:            enums.CouponScopeAll,
		MinPurchaseCents: int64Ptr(1000),
	}

	got, err := ComputeBreakdown(lines, coupon)
	require.Error(t, err)

	var rejection *CouponError
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, CouponBelowMinimum, rejection.Reason)

	base, baseErr := ComputeBreakdown(lines, nil)
	require.NoError(t, baseErr)
	assert.Equal(t, base, got)
}

func TestComputeBreakdownScopeMissIsSoftSuccess(t *testing.T) {
	t.Parallel()

	lines := []Line{testLine(lineIDA, 400, nil, 1)}
	coupon := &CouponTerms{
		Code:          "ELSEWHERE",
		OfferType:     enums.CouponOfferPercentage,
		OfferValue:    10,
		Scope:         enums.CouponScopeSpecificProduct,
		ApplicableIDs: []uuid.UUID{uuid.New()},
	}

	got, err := ComputeBreakdown(lines, coupon)
	require.NoError(t, err)

	assert.Equal(t, int64(0), got.CouponDiscountCents)
	assert.NotEmpty(t, got.Message)
	assert.Equal(t, int64(400), got.FinalAmountCents)
}

func TestComputeBreakdownIsDeterministic(t *testing.T) {
	t.Parallel()

	lines := []Line{
		testLine(lineIDA, 1000, int64Ptr(900), 2),
		testLine(lineIDB, 500, nil, 3),
	}
	coupon := &CouponTerms{
		Code:       "TEN",
		OfferType:  enums.CouponOfferPercentage,
		OfferValue: 10,
		Scope:      enums.CouponScopeAll,
	}

	first, err := ComputeBreakdown(lines, coupon)
	require.NoError(t, err)
	second, err := ComputeBreakdown(lines, coupon)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeBreakdownProRataSumsExactly(t *testing.T) {
	t.Parallel()

	lines := []Line{
		testLine(lineIDA, 333, nil, 1),
		testLine(lineIDB, 333, nil, 1),
		testLine(lineIDC, 334, nil, 1),
	}
	coupon := &CouponTerms{
		Code:       "SPLIT",
		OfferType:  enums.CouponOfferFixedAmount,
		OfferValue: 100,
		Scope:      enums.CouponScopeAll,
	}

	got, err := ComputeBreakdown(lines, coupon)
	require.NoError(t, err)

	var sum int64
	for _, share := range got.ItemWiseDiscountCents {
		sum += share
	}
	assert.Equal(t, got.CouponDiscountCents, sum)
	assert.Len(t, got.ItemWiseDiscountCents, 3)
}

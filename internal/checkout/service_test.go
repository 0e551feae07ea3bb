package checkout

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"

	"github.com/merakimart/storefront-backend/internal/pricing"
	"github.com/merakimart/storefront-backend/pkg/db/models"
	"github.com/merakimart/storefront-backend/pkg/enums"
	pkgerrors "github.com/merakimart/storefront-backend/pkg/errors"
	"github.com/merakimart/storefront-backend/pkg/logger"
)

type stubCartLister struct {
	items []models.CartItem
	err   error
}

func (s *stubCartLister) List(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	return s.items, s.err
}

type stubResolver struct {
	terms map[string]pricing.CouponTerms
}

func (s *stubResolver) ResolveTerms(ctx context.Context, code string) (pricing.CouponTerms, error) {
	if terms, ok := s.terms[code]; ok {
		return terms, nil
	}
	return pricing.CouponTerms{}, pkgerrors.New(pkgerrors.CodeCouponNotFound, "coupon not found")
}

type stubSession struct {
	code string
}

func (s *stubSession) AppliedCode(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.code, nil
}

func (s *stubSession) Apply(ctx context.Context, userID uuid.UUID, code string) error {
	s.code = code
	return nil
}

func (s *stubSession) Clear(ctx context.Context, userID uuid.UUID) error {
	s.code = ""
	return nil
}

type stubSettings struct {
	settings pricing.Settings
}

func (s *stubSettings) Get(ctx context.Context) pricing.Settings { return s.settings }

func quietLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func cartOf(totalCents int64) []models.CartItem {
	return []models.CartItem{{
		ID:             uuid.New(),
		ProductID:      uuid.New(),
		Quantity:       1,
		UnitPriceCents: totalCents,
		Product:        models.Product{Name: "Linen Shirt"},
	}}
}

func newTestService(t *testing.T, cart *stubCartLister, resolver *stubResolver, session *stubSession, settings pricing.Settings) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Cart:     cart,
		Coupons:  resolver,
		Session:  session,
		Settings: &stubSettings{settings: settings},
		Logger:   quietLogger(),
	})
	if err != nil {
		t.Fatalf("unexpected error building service: %v", err)
	}
	return svc
}

func percentTerms(code string, percent int64) pricing.CouponTerms {
	return pricing.CouponTerms{
		Code:       code,
		OfferType:  enums.CouponOfferPercentage,
		OfferValue: percent,
		Scope:      enums.CouponScopeAll,
	}
}

func TestApplyCouponDiscountsAndStoresSession(t *testing.T) {
	t.Parallel()

	session := &stubSession{}
	resolver := &stubResolver{terms: map[string]pricing.CouponTerms{
		"SAVE10": percentTerms("SAVE10", 10),
	}}
	svc := newTestService(t, &stubCartLister{items: cartOf(2000)}, resolver, session, pricing.Settings{ShippingFeeCents: 50})

	quote, err := svc.ApplyCoupon(context.Background(), uuid.New(), "SAVE10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Breakdown.CouponDiscountCents != 200 {
		t.Fatalf("expected 200 off, got %d", quote.Breakdown.CouponDiscountCents)
	}
	if quote.PayableCents != 1800+50 {
		t.Fatalf("unexpected payable: %d", quote.PayableCents)
	}
	if session.code != "SAVE10" {
		t.Fatalf("expected coupon stored on session, got %q", session.code)
	}
}

func TestApplyCouponUnknownCodeFailsWithoutSessionWrite(t *testing.T) {
	t.Parallel()

	session := &stubSession{code: "KEEPME"}
	svc := newTestService(t, &stubCartLister{items: cartOf(2000)}, &stubResolver{}, session, pricing.Settings{})

	_, err := svc.ApplyCoupon(context.Background(), uuid.New(), "NOPE")
	if !pkgerrors.IsCode(err, pkgerrors.CodeCouponNotFound) {
		t.Fatalf("expected coupon-not-found, got %v", err)
	}
	if session.code != "KEEPME" {
		t.Fatalf("previously applied coupon must survive a failed apply, got %q", session.code)
	}
}

func TestApplyCouponBelowMinimumKeepsPreviousCoupon(t *testing.T) {
	t.Parallel()

	minPurchase := int64(5000)
	terms := percentTerms("BIGSPEND", 20)
	terms.MinPurchaseCents = &minPurchase

	session := &stubSession{code: "SAVE10"}
	resolver := &stubResolver{terms: map[string]pricing.CouponTerms{
		"BIGSPEND": terms,
		"SAVE10":   percentTerms("SAVE10", 10),
	}}
	svc := newTestService(t, &stubCartLister{items: cartOf(2000)}, resolver, session, pricing.Settings{})

	_, err := svc.ApplyCoupon(context.Background(), uuid.New(), "BIGSPEND")
	if !pkgerrors.IsCode(err, pkgerrors.CodeCouponBelowMinimum) {
		t.Fatalf("expected below-minimum rejection, got %v", err)
	}
	if session.code != "SAVE10" {
		t.Fatalf("previous coupon must stay applied, got %q", session.code)
	}
}

func TestQuoteHonorsSessionCoupon(t *testing.T) {
	t.Parallel()

	session := &stubSession{code: "SAVE10"}
	resolver := &stubResolver{terms: map[string]pricing.CouponTerms{
		"SAVE10": percentTerms("SAVE10", 10),
	}}
	svc := newTestService(t, &stubCartLister{items: cartOf(2000)}, resolver, session, pricing.Settings{})

	quote, err := svc.Quote(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Breakdown.CouponDiscountCents != 200 {
		t.Fatalf("expected session coupon applied, got %d off", quote.Breakdown.CouponDiscountCents)
	}
}

func TestQuoteDropsStaleSessionCoupon(t *testing.T) {
	t.Parallel()

	session := &stubSession{code: "DELETED"}
	svc := newTestService(t, &stubCartLister{items: cartOf(2000)}, &stubResolver{}, session, pricing.Settings{})

	quote, err := svc.Quote(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("stale coupon must not fail the quote: %v", err)
	}
	if quote.Breakdown.CouponDiscountCents != 0 {
		t.Fatalf("expected base quote, got %d off", quote.Breakdown.CouponDiscountCents)
	}
	if session.code != "" {
		t.Fatalf("expected stale session entry cleared, got %q", session.code)
	}
}

func TestQuoteDropsCouponWhenCartFallsBelowMinimum(t *testing.T) {
	t.Parallel()

	minPurchase := int64(5000)
	terms := percentTerms("BIGSPEND", 20)
	terms.MinPurchaseCents = &minPurchase

	session := &stubSession{code: "BIGSPEND"}
	resolver := &stubResolver{terms: map[string]pricing.CouponTerms{"BIGSPEND": terms}}
	svc := newTestService(t, &stubCartLister{items: cartOf(2000)}, resolver, session, pricing.Settings{})

	quote, err := svc.Quote(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Breakdown.CouponDiscountCents != 0 {
		t.Fatalf("expected couponless quote, got %d off", quote.Breakdown.CouponDiscountCents)
	}
	if session.code != "" {
		t.Fatal("expected session entry cleared after cart shrank below minimum")
	}
	if quote.Breakdown.Message == "" {
		t.Fatal("expected an explanatory message on the quote")
	}
}

func TestRemoveCouponRestoresBaseQuote(t *testing.T) {
	t.Parallel()

	session := &stubSession{}
	resolver := &stubResolver{terms: map[string]pricing.CouponTerms{
		"SAVE10": percentTerms("SAVE10", 10),
	}}
	svc := newTestService(t, &stubCartLister{items: cartOf(2000)}, resolver, session, pricing.Settings{})

	base, err := svc.Quote(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	userID := uuid.New()
	if _, err := svc.ApplyCoupon(context.Background(), userID, "SAVE10"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	restored, err := svc.RemoveCoupon(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if restored.Breakdown.FinalAmountCents != base.Breakdown.FinalAmountCents {
		t.Fatalf("remove must restore the base quote: base %d, restored %d",
			base.Breakdown.FinalAmountCents, restored.Breakdown.FinalAmountCents)
	}
	if session.code != "" {
		t.Fatalf("expected session cleared, got %q", session.code)
	}
}

func TestRemoveCouponWithoutOneSucceeds(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubCartLister{items: cartOf(2000)}, &stubResolver{}, &stubSession{}, pricing.Settings{})

	if _, err := svc.RemoveCoupon(context.Background(), uuid.New()); err != nil {
		t.Fatalf("removing with no coupon applied must succeed: %v", err)
	}
}

func TestApplyCouponIsIdempotent(t *testing.T) {
	t.Parallel()

	session := &stubSession{}
	resolver := &stubResolver{terms: map[string]pricing.CouponTerms{
		"SAVE10": percentTerms("SAVE10", 10),
	}}
	svc := newTestService(t, &stubCartLister{items: cartOf(2000)}, resolver, session, pricing.Settings{})

	userID := uuid.New()
	first, err := svc.ApplyCoupon(context.Background(), userID, "SAVE10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.ApplyCoupon(context.Background(), userID, "SAVE10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.PayableCents != second.PayableCents {
		t.Fatalf("re-applying the same coupon must not change the quote: %d vs %d",
			first.PayableCents, second.PayableCents)
	}
}

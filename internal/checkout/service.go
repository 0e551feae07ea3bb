package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/merakimart/storefront-backend/internal/pricing"
	"github.com/merakimart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/merakimart/storefront-backend/pkg/errors"
	"github.com/merakimart/storefront-backend/pkg/logger"
	"github.com/merakimart/storefront-backend/pkg/metrics"
)

type cartLister interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
}

type couponResolver interface {
	ResolveTerms(ctx context.Context, code string) (pricing.CouponTerms, error)
}

type couponSession interface {
	AppliedCode(ctx context.Context, userID uuid.UUID) (string, error)
	Apply(ctx context.Context, userID uuid.UUID, code string) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type settingsProvider interface {
	Get(ctx context.Context) pricing.Settings
}

// Service is the quote orchestrator: it assembles cart lines, the session's
// applied coupon, and merchant settings into a full price quote. The quote is
// always recomputed from current state.
type Service interface {
	Quote(ctx context.Context, userID uuid.UUID) (pricing.Quote, error)
	ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (pricing.Quote, error)
	RemoveCoupon(ctx context.Context, userID uuid.UUID) (pricing.Quote, error)
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Cart     cartLister
	Coupons  couponResolver
	Session  couponSession
	Settings settingsProvider
	Logger   *logger.Logger
	Metrics  *metrics.CommerceMetrics
}

type service struct {
	cart     cartLister
	coupons  couponResolver
	session  couponSession
	settings settingsProvider
	logg     *logger.Logger
	metrics  *metrics.CommerceMetrics
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Cart == nil {
		return nil, fmt.Errorf("cart lister required")
	}
	if params.Coupons == nil {
		return nil, fmt.Errorf("coupon resolver required")
	}
	if params.Session == nil {
		return nil, fmt.Errorf("coupon session required")
	}
	if params.Settings == nil {
		return nil, fmt.Errorf("settings provider required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		cart:     params.Cart,
		coupons:  params.Coupons,
		session:  params.Session,
		settings: params.Settings,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}, nil
}

// Quote computes the current price quote for the user's cart, honoring the
// session's applied coupon when it still holds. A coupon that has gone stale
// since it was applied — deleted, deactivated, or below the minimum after a
// cart edit — is dropped from the session silently rather than failing the
// quote.
func (s *service) Quote(ctx context.Context, userID uuid.UUID) (pricing.Quote, error) {
	if userID == uuid.Nil {
		return pricing.Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	items, err := s.cart.List(ctx, userID)
	if err != nil {
		return pricing.Quote{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	lines := pricing.LinesFromCartItems(items)

	terms := s.sessionTerms(ctx, userID)

	started := time.Now()
	breakdown, err := pricing.ComputeBreakdown(lines, terms)
	s.metrics.ObserveQuote(terms != nil, time.Since(started))
	if err != nil {
		var rejection *pricing.CouponError
		if errors.As(err, &rejection) {
			// the cart shrank below the coupon minimum since apply time
			s.dropSession(ctx, userID, rejection.Code)
			breakdown.Message = "coupon removed: cart no longer meets the minimum purchase"
		} else {
			return pricing.Quote{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compute breakdown")
		}
	}

	return pricing.BuildQuote(breakdown, s.settings.Get(ctx)), nil
}

// ApplyCoupon validates the code against the current cart and, on success,
// records it on the session and returns the discounted quote. A rejection
// leaves any previously applied coupon untouched.
func (s *service) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (pricing.Quote, error) {
	if userID == uuid.Nil {
		return pricing.Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if code == "" {
		return pricing.Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	ctx = s.logg.WithCouponCode(ctx, code)

	terms, err := s.coupons.ResolveTerms(ctx, code)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeCouponNotFound) {
			s.metrics.IncCouponOutcome("not_found")
		}
		return pricing.Quote{}, err
	}

	items, err := s.cart.List(ctx, userID)
	if err != nil {
		return pricing.Quote{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	lines := pricing.LinesFromCartItems(items)

	started := time.Now()
	breakdown, err := pricing.ComputeBreakdown(lines, &terms)
	s.metrics.ObserveQuote(true, time.Since(started))
	if err != nil {
		var rejection *pricing.CouponError
		if errors.As(err, &rejection) && rejection.Reason == pricing.CouponBelowMinimum {
			s.metrics.IncCouponOutcome("below_minimum")
			return pricing.Quote{}, pkgerrors.New(pkgerrors.CodeCouponBelowMinimum,
				"cart total does not meet the coupon minimum purchase")
		}
		return pricing.Quote{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compute breakdown")
	}

	if err := s.session.Apply(ctx, userID, terms.Code); err != nil {
		return pricing.Quote{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store applied coupon")
	}
	s.metrics.IncCouponOutcome("applied")
	s.logg.Info(ctx, "coupon applied")

	return pricing.BuildQuote(breakdown, s.settings.Get(ctx)), nil
}

// RemoveCoupon clears the session coupon and returns the base quote. Removing
// when no coupon is applied succeeds.
func (s *service) RemoveCoupon(ctx context.Context, userID uuid.UUID) (pricing.Quote, error) {
	if userID == uuid.Nil {
		return pricing.Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.session.Clear(ctx, userID); err != nil {
		return pricing.Quote{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear applied coupon")
	}
	s.metrics.IncCouponOutcome("removed")

	items, err := s.cart.List(ctx, userID)
	if err != nil {
		return pricing.Quote{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	started := time.Now()
	breakdown, err := pricing.ComputeBreakdown(pricing.LinesFromCartItems(items), nil)
	s.metrics.ObserveQuote(false, time.Since(started))
	if err != nil {
		return pricing.Quote{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compute breakdown")
	}
	return pricing.BuildQuote(breakdown, s.settings.Get(ctx)), nil
}

// sessionTerms resolves the session's applied coupon to validated terms,
// dropping the session entry when the coupon no longer resolves.
func (s *service) sessionTerms(ctx context.Context, userID uuid.UUID) *pricing.CouponTerms {
	code, err := s.session.AppliedCode(ctx, userID)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "applied coupon lookup failed, quoting without coupon")
		return nil
	}
	if code == "" {
		return nil
	}

	terms, err := s.coupons.ResolveTerms(s.logg.WithCouponCode(ctx, code), code)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeCouponNotFound) {
			s.dropSession(ctx, userID, code)
		} else {
			s.logg.Warn(s.logg.WithCouponCode(ctx, code), "coupon resolution failed, quoting without coupon")
		}
		return nil
	}
	return &terms
}

func (s *service) dropSession(ctx context.Context, userID uuid.UUID, code string) {
	if err := s.session.Clear(ctx, userID); err != nil {
		s.logg.Warn(s.logg.WithCouponCode(ctx, code), "failed to clear stale applied coupon")
		return
	}
	s.metrics.IncCouponOutcome("dropped_stale")
	s.logg.Info(s.logg.WithCouponCode(ctx, code), "stale applied coupon dropped")
}

package coupons

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/merakimart/storefront-backend/internal/pricing"
	"github.com/merakimart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/merakimart/storefront-backend/pkg/errors"
	"github.com/merakimart/storefront-backend/pkg/logger"
)

// CouponRepository is the persistence surface the service depends on.
type CouponRepository interface {
	FindActiveByCode(ctx context.Context, code string) (*models.Coupon, error)
	ListActive(ctx context.Context) ([]models.Coupon, error)
}

type couponCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CouponKey(code string) string
}

// Service resolves coupon codes into validated terms and lists the catalog
// for authenticated shoppers.
type Service interface {
	List(ctx context.Context) ([]models.Coupon, error)
	ResolveTerms(ctx context.Context, code string) (pricing.CouponTerms, error)
}

// ServiceParams groups dependencies for the coupon service.
type ServiceParams struct {
	Repo     CouponRepository
	Cache    couponCache
	CacheTTL time.Duration
	Logger   *logger.Logger
}

type service struct {
	repo     CouponRepository
	cache    couponCache
	cacheTTL time.Duration
	logger   *logger.Logger
}

// NewService builds a coupon service. The cache is optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &service{
		repo:     params.Repo,
		cache:    params.Cache,
		cacheTTL: params.CacheTTL,
		logger:   params.Logger,
	}, nil
}

// List returns the active coupon catalog.
func (s *service) List(ctx context.Context) ([]models.Coupon, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupons")
	}
	return rows, nil
}

// ResolveTerms looks up a code and validates the record at the boundary.
// Unknown, inactive, and malformed coupons are all reported as not found so
// shoppers cannot distinguish a broken record from an absent one.
func (s *service) ResolveTerms(ctx context.Context, code string) (pricing.CouponTerms, error) {
	if cached, ok := s.fromCache(ctx, code); ok {
		return s.validate(ctx, cached)
	}

	coupon, err := s.repo.FindActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pricing.CouponTerms{}, pkgerrors.New(pkgerrors.CodeCouponNotFound, "coupon not found")
		}
		return pricing.CouponTerms{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}

	terms, err := s.validate(ctx, coupon)
	if err != nil {
		return pricing.CouponTerms{}, err
	}
	s.toCache(ctx, coupon)
	return terms, nil
}

func (s *service) validate(ctx context.Context, coupon *models.Coupon) (pricing.CouponTerms, error) {
	terms, err := TermsFromModel(coupon)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn(ctx, fmt.Sprintf("rejecting malformed coupon record: %v", err))
		}
		return pricing.CouponTerms{}, pkgerrors.New(pkgerrors.CodeCouponNotFound, "coupon not found")
	}
	return terms, nil
}

// fromCache treats every failure as a miss so a flaky cache never breaks
// coupon application.
func (s *service) fromCache(ctx context.Context, code string) (*models.Coupon, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, s.cache.CouponKey(code))
	if err != nil || raw == "" {
		return nil, false
	}
	var out models.Coupon
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, false
	}
	return &out, true
}

func (s *service) toCache(ctx context.Context, coupon *models.Coupon) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(coupon)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.CouponKey(coupon.Code), string(payload), s.cacheTTL); err != nil {
		if s.logger != nil {
			s.logger.Warn(ctx, fmt.Sprintf("coupon cache write failed: %v", err))
		}
	}
}

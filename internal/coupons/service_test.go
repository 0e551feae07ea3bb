package coupons

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/merakimart/storefront-backend/pkg/db/models"
	"github.com/merakimart/storefront-backend/pkg/enums"
	pkgerrors "github.com/merakimart/storefront-backend/pkg/errors"
	"github.com/merakimart/storefront-backend/pkg/logger"
)

type stubCouponRepo struct {
	byCode map[string]*models.Coupon
	err    error
	finds  int
}

func (s *stubCouponRepo) FindActiveByCode(ctx context.Context, code string) (*models.Coupon, error) {
	s.finds++
	if s.err != nil {
		return nil, s.err
	}
	if coupon, ok := s.byCode[code]; ok {
		return coupon, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCouponRepo) ListActive(ctx context.Context) ([]models.Coupon, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Coupon
	for _, coupon := range s.byCode {
		out = append(out, *coupon)
	}
	return out, nil
}

type stubCouponCache struct {
	entries map[string]string
	getErr  error
	lastTTL time.Duration
}

func (s *stubCouponCache) Get(ctx context.Context, key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	if value, ok := s.entries[key]; ok {
		return value, nil
	}
	return "", errors.New("redis: nil")
}

func (s *stubCouponCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if s.entries == nil {
		s.entries = map[string]string{}
	}
	s.entries[key] = value.(string)
	s.lastTTL = ttl
	return nil
}

func (s *stubCouponCache) CouponKey(code string) string {
	return "mk:coupon:" + strings.ToUpper(strings.TrimSpace(code))
}

func quietLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestResolveTermsUnknownCodeIsNotFound(t *testing.T) {
	t.Parallel()

	svc, err := NewService(ServiceParams{Repo: &stubCouponRepo{}, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.ResolveTerms(context.Background(), "NOPE")
	if !pkgerrors.IsCode(err, pkgerrors.CodeCouponNotFound) {
		t.Fatalf("expected coupon-not-found, got %v", err)
	}
}

func TestResolveTermsMalformedRecordIsNotFound(t *testing.T) {
	t.Parallel()

	repo := &stubCouponRepo{byCode: map[string]*models.Coupon{
		"BROKEN": {
			Code:       "BROKEN",
			OfferType:  enums.CouponOfferPercentage,
			OfferValue: 150,
			Scope:      enums.CouponScopeAll,
		},
	}}
	svc, err := NewService(ServiceParams{Repo: repo, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.ResolveTerms(context.Background(), "BROKEN")
	if !pkgerrors.IsCode(err, pkgerrors.CodeCouponNotFound) {
		t.Fatalf("expected malformed record to surface as not found, got %v", err)
	}
}

func TestResolveTermsRepoFailureIsDependencyError(t *testing.T) {
	t.Parallel()

	svc, err := NewService(ServiceParams{
		Repo:   &stubCouponRepo{err: errors.New("connection refused")},
		Logger: quietLogger(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.ResolveTerms(context.Background(), "SAVE10")
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestResolveTermsReturnsValidatedTerms(t *testing.T) {
	t.Parallel()

	repo := &stubCouponRepo{byCode: map[string]*models.Coupon{
		"SAVE10": {
			Code:       "SAVE10",
			OfferType:  enums.CouponOfferPercentage,
			OfferValue: 10,
			Scope:      enums.CouponScopeAll,
		},
	}}
	svc, err := NewService(ServiceParams{Repo: repo, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	terms, err := svc.ResolveTerms(context.Background(), "SAVE10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if terms.Code != "SAVE10" || terms.OfferValue != 10 {
		t.Fatalf("unexpected terms: %+v", terms)
	}
}

func TestResolveTermsServesWarmCacheWithoutRepo(t *testing.T) {
	t.Parallel()

	cached, err := json.Marshal(&models.Coupon{
		Code:       "SAVE10",
		OfferType:  enums.CouponOfferPercentage,
		OfferValue: 10,
		Scope:      enums.CouponScopeAll,
		IsActive:   true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	repo := &stubCouponRepo{}
	cache := &stubCouponCache{entries: map[string]string{"mk:coupon:SAVE10": string(cached)}}
	svc, err := NewService(ServiceParams{Repo: repo, Cache: cache, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	terms, err := svc.ResolveTerms(context.Background(), "save10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if terms.Code != "SAVE10" {
		t.Fatalf("unexpected terms: %+v", terms)
	}
	if repo.finds != 0 {
		t.Fatalf("warm cache must not hit the repo, got %d lookups", repo.finds)
	}
}

func TestResolveTermsPopulatesCacheOnMiss(t *testing.T) {
	t.Parallel()

	repo := &stubCouponRepo{byCode: map[string]*models.Coupon{
		"SAVE10": {
			Code:       "SAVE10",
			OfferType:  enums.CouponOfferPercentage,
			OfferValue: 10,
			Scope:      enums.CouponScopeAll,
		},
	}}
	cache := &stubCouponCache{}
	svc, err := NewService(ServiceParams{
		Repo:     repo,
		Cache:    cache,
		CacheTTL: 5 * time.Minute,
		Logger:   quietLogger(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.ResolveTerms(context.Background(), "SAVE10"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cache.entries["mk:coupon:SAVE10"]; !ok {
		t.Fatalf("expected cache write, got %v", cache.entries)
	}
	if cache.lastTTL != 5*time.Minute {
		t.Fatalf("expected ttl forwarded, got %v", cache.lastTTL)
	}

	if _, err := svc.ResolveTerms(context.Background(), "SAVE10"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.finds != 1 {
		t.Fatalf("second lookup should serve the cache, repo saw %d", repo.finds)
	}
}

func TestResolveTermsFallsBackToRepoWhenCacheFails(t *testing.T) {
	t.Parallel()

	repo := &stubCouponRepo{byCode: map[string]*models.Coupon{
		"SAVE10": {
			Code:       "SAVE10",
			OfferType:  enums.CouponOfferPercentage,
			OfferValue: 10,
			Scope:      enums.CouponScopeAll,
		},
	}}
	cache := &stubCouponCache{getErr: errors.New("connection refused")}
	svc, err := NewService(ServiceParams{Repo: repo, Cache: cache, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	terms, err := svc.ResolveTerms(context.Background(), "SAVE10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if terms.Code != "SAVE10" {
		t.Fatalf("unexpected terms: %+v", terms)
	}
}

package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/merakimart/storefront-backend/internal/pricing"
	"github.com/merakimart/storefront-backend/pkg/db/models"
	"github.com/merakimart/storefront-backend/pkg/logger"
	"github.com/merakimart/storefront-backend/pkg/metrics"
)

type settingsLoader interface {
	Find(ctx context.Context) (*models.MerchantSettings, error)
}

type settingsCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	SettingsKey() string
}

// Service exposes merchant settings to the checkout flow. Fetch failures fail
// open to all-zero settings so pricing never blocks checkout.
type Service interface {
	Get(ctx context.Context) pricing.Settings
}

// ServiceParams groups dependencies for the settings service.
type ServiceParams struct {
	Repo     settingsLoader
	Cache    settingsCache
	CacheTTL time.Duration
	Logger   *logger.Logger
	Metrics  *metrics.CommerceMetrics
}

type service struct {
	repo     settingsLoader
	cache    settingsCache
	cacheTTL time.Duration
	logg     *logger.Logger
	metrics  *metrics.CommerceMetrics
}

// NewService builds the settings service. The cache is optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("settings repo is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		repo:     params.Repo,
		cache:    params.Cache,
		cacheTTL: params.CacheTTL,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}, nil
}

// Get returns the current settings, serving the session cache when warm and
// degrading to zero-cost settings on any failure.
func (s *service) Get(ctx context.Context) pricing.Settings {
	if cached, ok := s.fromCache(ctx); ok {
		return cached
	}

	row, err := s.repo.Find(ctx)
	if err != nil {
		s.metrics.IncSettingsFailure()
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "settings fetch failed, using zero defaults")
		return pricing.Settings{}
	}

	resolved := pricing.Settings{
		PlatformFeeCents:           row.PlatformFeeCents,
		ShippingFeeCents:           row.ShippingFeeCents,
		FreeShippingThresholdCents: row.FreeShippingThresholdCents,
	}
	s.toCache(ctx, resolved)
	return resolved
}

func (s *service) fromCache(ctx context.Context) (pricing.Settings, bool) {
	if s.cache == nil {
		return pricing.Settings{}, false
	}
	raw, err := s.cache.Get(ctx, s.cache.SettingsKey())
	if err != nil || raw == "" {
		return pricing.Settings{}, false
	}
	var out pricing.Settings
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return pricing.Settings{}, false
	}
	return out, true
}

func (s *service) toCache(ctx context.Context, value pricing.Settings) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.SettingsKey(), string(payload), s.cacheTTL); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "settings cache write failed")
	}
}

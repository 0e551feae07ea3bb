package coupons

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/merakimart/storefront-backend/pkg/redis"
)

type sessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	AppliedCouponKey(userID string) string
}

// SessionStore remembers which coupon code each user currently has applied.
// The entry expires on its own so an abandoned cart does not pin a coupon
// forever.
type SessionStore struct {
	store sessionStore
	ttl   time.Duration
}

// NewSessionStore wraps the redis client with applied-coupon semantics.
func NewSessionStore(store sessionStore, ttl time.Duration) *SessionStore {
	return &SessionStore{store: store, ttl: ttl}
}

// AppliedCode returns the user's applied coupon code, or "" when none is set.
func (s *SessionStore) AppliedCode(ctx context.Context, userID uuid.UUID) (string, error) {
	code, err := s.store.Get(ctx, s.store.AppliedCouponKey(userID.String()))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return strings.ToUpper(strings.TrimSpace(code)), nil
}

// Apply records the coupon code for the user, replacing any previous one.
func (s *SessionStore) Apply(ctx context.Context, userID uuid.UUID, code string) error {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	return s.store.Set(ctx, s.store.AppliedCouponKey(userID.String()), normalized, s.ttl)
}

// Clear removes the user's applied coupon. Clearing an absent entry succeeds.
func (s *SessionStore) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.store.Del(ctx, s.store.AppliedCouponKey(userID.String()))
}

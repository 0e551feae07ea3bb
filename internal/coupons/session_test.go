package coupons

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/merakimart/storefront-backend/pkg/redis"
)

type stubSessionBackend struct {
	values  map[string]string
	lastTTL time.Duration
}

func (s *stubSessionBackend) Get(ctx context.Context, key string) (string, error) {
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (s *stubSessionBackend) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if s.values == nil {
		s.values = map[string]string{}
	}
	s.values[key] = value.(string)
	s.lastTTL = ttl
	return nil
}

func (s *stubSessionBackend) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func (s *stubSessionBackend) AppliedCouponKey(userID string) string {
	return "mk:applied_coupon:" + userID
}

func TestSessionStoreRoundTrip(t *testing.T) {
	t.Parallel()

	backend := &stubSessionBackend{}
	store := NewSessionStore(backend, time.Hour)
	userID := uuid.New()

	if err := store.Apply(context.Background(), userID, " save10 "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.lastTTL != time.Hour {
		t.Fatalf("expected ttl to be forwarded, got %v", backend.lastTTL)
	}

	code, err := store.AppliedCode(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "SAVE10" {
		t.Fatalf("expected normalized code, got %q", code)
	}

	if err := store.Clear(context.Background(), userID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	code, err = store.AppliedCode(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "" {
		t.Fatalf("expected empty code after clear, got %q", code)
	}
}

func TestSessionStoreMissingEntryIsEmpty(t *testing.T) {
	t.Parallel()

	store := NewSessionStore(&stubSessionBackend{}, time.Hour)

	code, err := store.AppliedCode(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("expected absent entry to be a soft miss, got %v", err)
	}
	if code != "" {
		t.Fatalf("expected empty code, got %q", code)
	}
}

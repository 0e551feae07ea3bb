package wishlist

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/merakimart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/merakimart/storefront-backend/pkg/errors"
)

type stubWishlistRepo struct {
	created   []models.WishlistItem
	createErr error
	deleted   int64
}

func (s *stubWishlistRepo) Create(ctx context.Context, item *models.WishlistItem) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, *item)
	return nil
}

func (s *stubWishlistRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error) {
	return s.created, nil
}

func (s *stubWishlistRepo) Delete(ctx context.Context, userID, productID uuid.UUID) (int64, error) {
	return s.deleted, nil
}

func TestAddItemValidatesIDs(t *testing.T) {
	t.Parallel()

	svc, err := NewService(ServiceParams{Repo: &stubWishlistRepo{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.AddItem(context.Background(), uuid.Nil, uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddItemWrapsRepoFailure(t *testing.T) {
	t.Parallel()

	svc, err := NewService(ServiceParams{Repo: &stubWishlistRepo{createErr: errors.New("db down")}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.AddItem(context.Background(), uuid.New(), uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestRemoveAbsentItemIsNoOpSuccess(t *testing.T) {
	t.Parallel()

	repo := &stubWishlistRepo{deleted: 0}
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.RemoveItem(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("expected idempotent success, got %v", err)
	}
}

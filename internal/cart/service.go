package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/merakimart/storefront-backend/pkg/db"
	"github.com/merakimart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/merakimart/storefront-backend/pkg/errors"
	"github.com/merakimart/storefront-backend/pkg/metrics"
)

// CartRepository is the persistence surface the service depends on.
type CartRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	FindByIDAndUser(ctx context.Context, itemID, userID uuid.UUID) (*models.CartItem, error)
	FindLine(ctx context.Context, userID, productID uuid.UUID, variantID, size string) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, itemID, userID uuid.UUID, quantity int) error
	Delete(ctx context.Context, itemID, userID uuid.UUID) (int64, error)
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type wishlistAdder interface {
	AddItem(ctx context.Context, userID, productID uuid.UUID) error
}

// AddInput captures a request to put a product in the cart.
type AddInput struct {
	ProductID uuid.UUID
	VariantID string
	Quantity  int
	Size      string
	Color     string
}

// MoveOutcome reports the two halves of a move-to-wishlist. The wishlist add
// runs only after a successful remove; a failed add is reported here rather
// than rolled back, since the two resources are independent.
type MoveOutcome struct {
	ItemRemoved     bool   `json:"item_removed"`
	AddedToWishlist bool   `json:"added_to_wishlist"`
	WishlistFailure string `json:"wishlist_failure,omitempty"`
}

// MoveRequest pairs a cart line with its product for bulk moves.
type MoveRequest struct {
	ItemID    uuid.UUID `json:"item_id"`
	ProductID uuid.UUID `json:"product_id"`
}

// BulkResult summarizes a best-effort bulk mutation.
type BulkResult struct {
	Succeeded []uuid.UUID          `json:"succeeded"`
	Failed    map[uuid.UUID]string `json:"failed,omitempty"`
}

// Service owns cart mutations. Every write round-trips to the store and then
// reloads the full cart — callers never predict the resulting item set.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	Add(ctx context.Context, userID uuid.UUID, input AddInput) ([]models.CartItem, error)
	Remove(ctx context.Context, userID, itemID uuid.UUID) ([]models.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) ([]models.CartItem, error)
	MoveToWishlist(ctx context.Context, userID, itemID, productID uuid.UUID) (MoveOutcome, []models.CartItem, error)
	RemoveMany(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID) (BulkResult, []models.CartItem, error)
	MoveManyToWishlist(ctx context.Context, userID uuid.UUID, moves []MoveRequest) (BulkResult, []models.CartItem, error)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Repo     CartRepository
	Products productLoader
	Wishlist wishlistAdder
	Metrics  *metrics.CommerceMetrics
}

type service struct {
	repo     CartRepository
	products productLoader
	wishlist wishlistAdder
	metrics  *metrics.CommerceMetrics
}

// NewService builds a cart service backed by the provided stack.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if params.Wishlist == nil {
		return nil, fmt.Errorf("wishlist adder required")
	}
	return &service{
		repo:     params.Repo,
		products: params.Products,
		wishlist: params.Wishlist,
		metrics:  params.Metrics,
	}, nil
}

// List returns the authoritative cart contents.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.repo.ListByUser(ctx, userID)
}

// Add puts a product in the cart, merging with an existing line for the same
// product+variant+size, then reloads.
func (s *service) Add(ctx context.Context, userID uuid.UUID, input AddInput) ([]models.CartItem, error) {
	err := s.add(ctx, userID, input)
	s.metrics.IncCartMutation("add", err)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) add(ctx context.Context, userID uuid.UUID, input AddInput) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}
	if product.AvailableQty < input.Quantity {
		return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock for product")
	}

	existing, err := s.repo.FindLine(ctx, userID, input.ProductID, input.VariantID, input.Size)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	if existing != nil {
		merged := existing.Quantity + input.Quantity
		if product.AvailableQty < merged {
			return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock for product")
		}
		if err := s.repo.UpdateQuantity(ctx, existing.ID, userID, merged); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "merge cart line")
		}
		return nil
	}

	item := &models.CartItem{
		UserID:                 userID,
		ProductID:              product.ID,
		VariantID:              input.VariantID,
		Color:                  input.Color,
		Size:                   input.Size,
		Quantity:               input.Quantity,
		UnitPriceCents:         product.PriceCents,
		UnitDiscountPriceCents: product.DiscountPriceCents,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		// a concurrent add for the same line loses the insert race
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "cart line already exists")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart line")
	}
	return nil
}

// Remove deletes a line then reloads. Removing an absent id is a no-op
// success.
func (s *service) Remove(ctx context.Context, userID, itemID uuid.UUID) ([]models.CartItem, error) {
	err := s.removeOne(ctx, userID, itemID)
	s.metrics.IncCartMutation("remove", err)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) removeOne(ctx context.Context, userID, itemID uuid.UUID) error {
	if userID == uuid.Nil || itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and item id are required")
	}
	if _, err := s.repo.Delete(ctx, itemID, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	return nil
}

// UpdateQuantity sets a line's quantity then reloads. Quantities below one
// are rejected before any write; removing the last unit is a separate
// Remove call.
func (s *service) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) ([]models.CartItem, error) {
	err := s.updateQuantity(ctx, userID, itemID, quantity)
	s.metrics.IncCartMutation("update_quantity", err)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) updateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	if userID == uuid.Nil || itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and item id are required")
	}
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if _, err := s.repo.FindByIDAndUser(ctx, itemID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	if err := s.repo.UpdateQuantity(ctx, itemID, userID, quantity); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update quantity")
	}
	return nil
}

// MoveToWishlist removes the cart line and then adds the product to the
// wishlist. The remove must succeed first; a wishlist failure after a
// successful remove is reported as partial success, not rolled back.
func (s *service) MoveToWishlist(ctx context.Context, userID, itemID, productID uuid.UUID) (MoveOutcome, []models.CartItem, error) {
	outcome, err := s.moveOne(ctx, userID, itemID, productID)
	s.metrics.IncCartMutation("move_to_wishlist", err)
	if err != nil {
		return outcome, nil, err
	}
	items, listErr := s.repo.ListByUser(ctx, userID)
	return outcome, items, listErr
}

func (s *service) moveOne(ctx context.Context, userID, itemID, productID uuid.UUID) (MoveOutcome, error) {
	if userID == uuid.Nil || itemID == uuid.Nil || productID == uuid.Nil {
		return MoveOutcome{}, pkgerrors.New(pkgerrors.CodeValidation, "user id, item id and product id are required")
	}

	if err := s.removeOne(ctx, userID, itemID); err != nil {
		return MoveOutcome{}, err
	}

	outcome := MoveOutcome{ItemRemoved: true}
	if err := s.wishlist.AddItem(ctx, userID, productID); err != nil {
		outcome.WishlistFailure = err.Error()
		return outcome, nil
	}
	outcome.AddedToWishlist = true
	return outcome, nil
}

// RemoveMany removes each selected line sequentially, best effort — one
// failure does not abort the rest.
func (s *service) RemoveMany(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID) (BulkResult, []models.CartItem, error) {
	result := BulkResult{}
	var combined error
	for _, itemID := range itemIDs {
		if err := s.removeOne(ctx, userID, itemID); err != nil {
			combined = multierr.Append(combined, fmt.Errorf("remove %s: %w", itemID, err))
			result.fail(itemID, err)
			continue
		}
		result.Succeeded = append(result.Succeeded, itemID)
	}
	s.metrics.IncCartMutation("bulk_remove", combined)

	items, listErr := s.repo.ListByUser(ctx, userID)
	if listErr != nil {
		return result, nil, listErr
	}
	return result, items, nil
}

// MoveManyToWishlist applies MoveToWishlist semantics per selection entry,
// best effort.
func (s *service) MoveManyToWishlist(ctx context.Context, userID uuid.UUID, moves []MoveRequest) (BulkResult, []models.CartItem, error) {
	result := BulkResult{}
	var combined error
	for _, move := range moves {
		outcome, err := s.moveOne(ctx, userID, move.ItemID, move.ProductID)
		if err != nil {
			combined = multierr.Append(combined, fmt.Errorf("move %s: %w", move.ItemID, err))
			result.fail(move.ItemID, err)
			continue
		}
		if outcome.WishlistFailure != "" {
			// the line is gone from the cart either way
			result.fail(move.ItemID, errors.New("wishlist add failed: "+outcome.WishlistFailure))
			continue
		}
		result.Succeeded = append(result.Succeeded, move.ItemID)
	}
	s.metrics.IncCartMutation("bulk_move_to_wishlist", combined)

	items, listErr := s.repo.ListByUser(ctx, userID)
	if listErr != nil {
		return result, nil, listErr
	}
	return result, items, nil
}

func (r *BulkResult) fail(itemID uuid.UUID, err error) {
	if r.Failed == nil {
		r.Failed = map[uuid.UUID]string{}
	}
	r.Failed[itemID] = err.Error()
}

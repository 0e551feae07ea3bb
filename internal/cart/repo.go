package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/merakimart/storefront-backend/pkg/db/models"
)

// Repository exposes persistence operations for cart line items.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByUser loads the full cart for a user in stable insertion order.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByIDAndUser returns a cart item restricted to the provided user.
func (r *Repository) FindByIDAndUser(ctx context.Context, itemID, userID uuid.UUID) (*models.CartItem, error) {
	var row models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id = ? AND user_id = ?", itemID, userID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindLine returns the user's existing line for the same product+variant+size,
// or gorm.ErrRecordNotFound.
func (r *Repository) FindLine(ctx context.Context, userID, productID uuid.UUID, variantID, size string) (*models.CartItem, error) {
	var row models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ? AND variant_id = ? AND size = ?", userID, productID, variantID, size).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new cart line.
func (r *Repository) Create(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// UpdateQuantity sets the quantity on a line owned by the user.
func (r *Repository) UpdateQuantity(ctx context.Context, itemID, userID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("quantity", quantity).Error
}

// Delete removes a line owned by the user, reporting how many rows matched so
// callers can treat an absent id as a no-op.
func (r *Repository) Delete(ctx context.Context, itemID, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

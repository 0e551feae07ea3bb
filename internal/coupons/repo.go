package coupons

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/merakimart/storefront-backend/pkg/db/models"
)

// Repository exposes read access to the coupon catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a coupon repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindActiveByCode loads the active coupon for a code, matching
// case-insensitively. Returns gorm.ErrRecordNotFound for unknown or inactive
// codes.
func (r *Repository) FindActiveByCode(ctx context.Context, code string) (*models.Coupon, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		Where("upper(code) = ? AND is_active = TRUE", normalized).
		First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// ListActive returns every active coupon, newest first.
func (r *Repository) ListActive(ctx context.Context) ([]models.Coupon, error) {
	var rows []models.Coupon
	err := r.db.WithContext(ctx).
		Where("is_active = TRUE").
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

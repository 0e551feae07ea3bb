package settings

import (
	"context"

	"gorm.io/gorm"

	"github.com/merakimart/storefront-backend/pkg/db/models"
)

// Repository loads the merchant settings row.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Find returns the singleton merchant settings row.
func (r *Repository) Find(ctx context.Context) (*models.MerchantSettings, error) {
	var row models.MerchantSettings
	if err := r.db.WithContext(ctx).First(&row, "id = ?", 1).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

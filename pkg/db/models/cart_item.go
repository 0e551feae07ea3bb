package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one product+variant+size line in a user's cart. Unit prices are
// snapshotted at add time; the product association carries current catalog data.
type CartItem struct {
	ID                     uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID                 uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	ProductID              uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Product                Product   `gorm:"foreignKey:ProductID"`
	VariantID              string    `gorm:"column:variant_id"`
	Color                  string    `gorm:"column:color"`
	Size                   string    `gorm:"column:size"`
	Quantity               int       `gorm:"column:quantity;not null"`
	UnitPriceCents         int64     `gorm:"column:unit_price_cents;not null"`
	UnitDiscountPriceCents *int64    `gorm:"column:unit_discount_price_cents"`
	CreatedAt              time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectiveUnitPriceCents returns the snapshot discount price when set and
// positive, otherwise the snapshot list price.
func (c CartItem) EffectiveUnitPriceCents() int64 {
	if c.UnitDiscountPriceCents != nil && *c.UnitDiscountPriceCents > 0 {
		return *c.UnitDiscountPriceCents
	}
	return c.UnitPriceCents
}

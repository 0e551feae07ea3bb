package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the catalog snapshot the cart engine prices against.
type Product struct {
	ID                 uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name               string     `gorm:"column:name;not null"`
	CategoryID         uuid.UUID  `gorm:"column:category_id;type:uuid;not null;index"`
	PriceCents         int64      `gorm:"column:price_cents;not null"`
	DiscountPriceCents *int64     `gorm:"column:discount_price_cents"`
	IsActive           bool       `gorm:"column:is_active;not null;default:true"`
	AvailableQty       int        `gorm:"column:available_qty;not null;default:0"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectiveUnitPriceCents returns the discount price when set and positive,
// otherwise the list price.
func (p Product) EffectiveUnitPriceCents() int64 {
	if p.DiscountPriceCents != nil && *p.DiscountPriceCents > 0 {
		return *p.DiscountPriceCents
	}
	return p.PriceCents
}

package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/merakimart/storefront-backend/pkg/db/types"
	"github.com/merakimart/storefront-backend/pkg/enums"
)

// Coupon is a merchant-configured discount. Codes are stored upper-case and
// matched case-insensitively. ApplicableIDs holds category ids for
// category-scoped coupons and product ids for product-scoped ones.
type Coupon struct {
	ID               uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code             string                `gorm:"column:code;not null;uniqueIndex:coupons_code_key"`
	OfferType        enums.CouponOfferType `gorm:"column:offer_type;type:coupon_offer_type;not null"`
	OfferValue       int64                 `gorm:"column:offer_value;not null"`
	Scope            enums.CouponScope     `gorm:"column:scope;type:coupon_scope;not null"`
	ApplicableIDs    dbtypes.UUIDArray     `gorm:"column:applicable_ids;type:uuid[]"`
	MinPurchaseCents *int64                `gorm:"column:min_purchase_cents"`
	Description      string                `gorm:"column:description"`
	IsActive         bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

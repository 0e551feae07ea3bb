package models

import "time"

// MerchantSettings is the single row of checkout fees and thresholds. A
// free-shipping threshold of zero means the feature is disabled, not that
// every order ships free.
type MerchantSettings struct {
	ID                         int64     `gorm:"column:id;primaryKey"`
	PlatformFeeCents           int64     `gorm:"column:platform_fee_cents;not null;default:0"`
	ShippingFeeCents           int64     `gorm:"column:shipping_fee_cents;not null;default:0"`
	FreeShippingThresholdCents int64     `gorm:"column:free_shipping_threshold_cents;not null;default:0"`
	UpdatedAt                  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

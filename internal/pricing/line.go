package pricing

import (
	"github.com/google/uuid"

	"github.com/merakimart/storefront-backend/pkg/db/models"
)

// Line is the engine's view of one cart line item. It carries only the data
// the pricing rules need, snapshotted so the engine stays pure.
type Line struct {
	ID                     uuid.UUID
	ProductID              uuid.UUID
	ProductName            string
	CategoryID             uuid.UUID
	Quantity               int
	UnitListPriceCents     int64
	UnitDiscountPriceCents *int64
}

// EffectiveUnitPriceCents returns the discount price when set and positive,
// otherwise the list price.
func (l Line) EffectiveUnitPriceCents() int64 {
	if l.UnitDiscountPriceCents != nil && *l.UnitDiscountPriceCents > 0 {
		return *l.UnitDiscountPriceCents
	}
	return l.UnitListPriceCents
}

// LineAmountCents is the post-line-discount amount the line contributes.
func (l Line) LineAmountCents() int64 {
	return l.EffectiveUnitPriceCents() * int64(l.Quantity)
}

// LineFromCartItem builds an engine line from a persisted cart item.
func LineFromCartItem(item models.CartItem) Line {
	return Line{
		ID:                     item.ID,
		ProductID:              item.ProductID,
		ProductName:            item.Product.Name,
		CategoryID:             item.Product.CategoryID,
		Quantity:               item.Quantity,
		UnitListPriceCents:     item.UnitPriceCents,
		UnitDiscountPriceCents: item.UnitDiscountPriceCents,
	}
}

// LinesFromCartItems maps a full cart onto engine lines.
func LinesFromCartItems(items []models.CartItem) []Line {
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, LineFromCartItem(item))
	}
	return lines
}

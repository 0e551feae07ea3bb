package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/merakimart/storefront-backend/api/middleware"
	"github.com/merakimart/storefront-backend/api/responses"
	"github.com/merakimart/storefront-backend/api/validators"
	"github.com/merakimart/storefront-backend/internal/cart"
	"github.com/merakimart/storefront-backend/internal/checkout"
	"github.com/merakimart/storefront-backend/internal/pricing"
	"github.com/merakimart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/merakimart/storefront-backend/pkg/errors"
	"github.com/merakimart/storefront-backend/pkg/logger"
)

type addCartItemPayload struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

type updateQuantityPayload struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type moveToWishlistPayload struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

type bulkRemovePayload struct {
	ItemIDs []string `json:"item_ids" validate:"required,min=1,dive,uuid"`
}

type bulkMovePayload struct {
	Moves []bulkMoveEntry `json:"moves" validate:"required,min=1,dive"`
}

type bulkMoveEntry struct {
	ItemID    string `json:"item_id" validate:"required,uuid"`
	ProductID string `json:"product_id" validate:"required,uuid"`
}

type cartItemView struct {
	ID                     uuid.UUID `json:"id"`
	ProductID              uuid.UUID `json:"product_id"`
	ProductName            string    `json:"product_name,omitempty"`
	VariantID              string    `json:"variant_id,omitempty"`
	Color                  string    `json:"color,omitempty"`
	Size                   string    `json:"size,omitempty"`
	Quantity               int       `json:"quantity"`
	UnitPriceCents         int64     `json:"unit_price_cents"`
	UnitDiscountPriceCents *int64    `json:"unit_discount_price_cents,omitempty"`
	LineAmountCents        int64     `json:"line_amount_cents"`
}

func cartItemsView(items []models.CartItem) []cartItemView {
	out := make([]cartItemView, 0, len(items))
	for _, item := range items {
		out = append(out, cartItemView{
			ID:                     item.ID,
			ProductID:              item.ProductID,
			ProductName:            item.Product.Name,
			VariantID:              item.VariantID,
			Color:                  item.Color,
			Size:                   item.Size,
			Quantity:               item.Quantity,
			UnitPriceCents:         item.UnitPriceCents,
			UnitDiscountPriceCents: item.UnitDiscountPriceCents,
			LineAmountCents:        item.EffectiveUnitPriceCents() * int64(item.Quantity),
		})
	}
	return out
}

type cartResponse struct {
	Items []cartItemView `json:"items"`
	Quote *pricing.Quote `json:"quote,omitempty"`
}

func authedUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return userID, nil
}

// CartFetch returns the cart contents alongside the current price quote.
func CartFetch(cartSvc cart.Service, checkoutSvc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		items, err := cartSvc.List(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		quote, err := checkoutSvc.Quote(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{Items: cartItemsView(items), Quote: &quote})
	}
}

// CartAddItem puts a product in the cart and returns the reloaded contents.
func CartAddItem(cartSvc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addCartItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		items, err := cartSvc.Add(ctx, userID, cart.AddInput{
			ProductID: productID,
			VariantID: strings.TrimSpace(payload.VariantID),
			Quantity:  payload.Quantity,
			Size:      strings.TrimSpace(payload.Size),
			Color:     strings.TrimSpace(payload.Color),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, cartResponse{Items: cartItemsView(items)})
	}
}

// CartRemoveItem deletes a line and returns the reloaded contents.
func CartRemoveItem(cartSvc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		itemID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "itemId")))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		items, err := cartSvc.Remove(ctx, userID, itemID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartResponse{Items: cartItemsView(items)})
	}
}

// CartUpdateQuantity sets a line's quantity and returns the reloaded contents.
func CartUpdateQuantity(cartSvc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		itemID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "itemId")))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		var payload updateQuantityPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		items, err := cartSvc.UpdateQuantity(ctx, userID, itemID, payload.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartResponse{Items: cartItemsView(items)})
	}
}

type moveToWishlistResponse struct {
	Outcome cart.MoveOutcome `json:"outcome"`
	Items   []cartItemView   `json:"items"`
}

// CartMoveToWishlist moves a line to the wishlist. A wishlist failure after
// the removal succeeds still returns 200 with the partial outcome.
func CartMoveToWishlist(cartSvc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		itemID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "itemId")))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		var payload moveToWishlistPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		outcome, items, err := cartSvc.MoveToWishlist(ctx, userID, itemID, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, moveToWishlistResponse{Outcome: outcome, Items: cartItemsView(items)})
	}
}

type bulkResponse struct {
	Result cart.BulkResult `json:"result"`
	Items  []cartItemView  `json:"items"`
}

// CartBulkRemove removes the selected lines best effort.
func CartBulkRemove(cartSvc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload bulkRemovePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		itemIDs := make([]uuid.UUID, 0, len(payload.ItemIDs))
		for _, raw := range payload.ItemIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
				return
			}
			itemIDs = append(itemIDs, id)
		}

		result, items, err := cartSvc.RemoveMany(ctx, userID, itemIDs)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, bulkResponse{Result: result, Items: cartItemsView(items)})
	}
}

// CartBulkMoveToWishlist moves the selected lines to the wishlist best effort.
func CartBulkMoveToWishlist(cartSvc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload bulkMovePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		moves := make([]cart.MoveRequest, 0, len(payload.Moves))
		for _, entry := range payload.Moves {
			itemID, err := uuid.Parse(entry.ItemID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
				return
			}
			productID, err := uuid.Parse(entry.ProductID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
				return
			}
			moves = append(moves, cart.MoveRequest{ItemID: itemID, ProductID: productID})
		}

		result, items, err := cartSvc.MoveManyToWishlist(ctx, userID, moves)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, bulkResponse{Result: result, Items: cartItemsView(items)})
	}
}

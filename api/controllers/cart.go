package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/greenbasket-io/greenbasket-backend/api/middleware"
	"github.com/greenbasket-io/greenbasket-backend/api/responses"
	"github.com/greenbasket-io/greenbasket-backend/api/validators"
	"github.com/greenbasket-io/greenbasket-backend/internal/cart"
	"github.com/greenbasket-io/greenbasket-backend/internal/catalog"
	pkgerrors "github.com/greenbasket-io/greenbasket-backend/pkg/errors"
	"github.com/greenbasket-io/greenbasket-backend/pkg/logger"
)

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0"`
}

type cartLineResponse struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	UnitPriceCents int    `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
	SubtotalCents  int    `json:"subtotal_cents"`
	ImageURL       string `json:"image_url,omitempty"`
}

type cartResponse struct {
	Items      []cartLineResponse `json:"items"`
	TotalCents int                `json:"total_cents"`
	ItemCount  int                `json:"item_count"`
}

func newCartResponse(snap cart.Snapshot) cartResponse {
	items := make([]cartLineResponse, 0, len(snap.Items))
	for _, li := range snap.Items {
		items = append(items, cartLineResponse{
			ProductID:      li.ProductID.String(),
			Name:           li.Name,
			UnitPriceCents: li.UnitPriceCents,
			Quantity:       li.Quantity,
			SubtotalCents:  li.SubtotalCents(),
			ImageURL:       li.ImageURL,
		})
	}
	return cartResponse{Items: items, TotalCents: snap.TotalCents, ItemCount: snap.ItemCount}
}

// ownerStore resolves the signed-in shopper's cart.
func ownerStore(r *http.Request, carts *cart.Manager) (*cart.Store, error) {
	owner := middleware.UserIDFromContext(r.Context())
	if owner == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context")
	}
	return carts.Store(r.Context(), owner)
}

// CartGet returns the shopper's current cart.
func CartGet(carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := ownerStore(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(store.Snapshot()))
	}
}

// CartAddItem adds a product to the cart. The unit price always comes from the
// catalog, never from the request.
func CartAddItem(carts *cart.Manager, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := ownerStore(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, product, err := catalogSvc.Quote(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := store.AddItem(r.Context(), cart.LineItem{
			ProductID:      product.ID,
			Name:           product.Name,
			UnitPriceCents: quote.UnitPriceCents,
			Quantity:       payload.Quantity,
			ImageURL:       product.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(snap))
	}
}

// CartSetQuantity replaces a line's quantity; zero removes the line.
func CartSetQuantity(carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := ownerStore(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := store.SetQuantity(r.Context(), productID, *payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(snap))
	}
}

// CartRemoveItem drops a line from the cart.
func CartRemoveItem(carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		store, err := ownerStore(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := store.RemoveItem(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(snap))
	}
}

// CartClear empties the cart.
func CartClear(carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := ownerStore(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(store.Clear(r.Context())))
	}
}

package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/greenbasket-io/greenbasket-backend/api/middleware"
	"github.com/greenbasket-io/greenbasket-backend/api/responses"
	"github.com/greenbasket-io/greenbasket-backend/api/validators"
	"github.com/greenbasket-io/greenbasket-backend/internal/cart"
	"github.com/greenbasket-io/greenbasket-backend/internal/orders"
	"github.com/greenbasket-io/greenbasket-backend/pkg/db/models"
	"github.com/greenbasket-io/greenbasket-backend/pkg/enums"
	pkgerrors "github.com/greenbasket-io/greenbasket-backend/pkg/errors"
	"github.com/greenbasket-io/greenbasket-backend/pkg/logger"
)

type checkoutRequest struct {
	Mode        string  `json:"mode" validate:"required,oneof=pickup delivery"`
	StoreID     *string `json:"store_id,omitempty" validate:"omitempty,uuid"`
	WindowLabel *string `json:"window_label,omitempty"`
}

type orderLineResponse struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	UnitPriceCents int    `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
	SubtotalCents  int    `json:"subtotal_cents"`
}

type orderResponse struct {
	OrderID     string              `json:"order_id"`
	Mode        string              `json:"mode"`
	Status      string              `json:"status"`
	StoreID     *string             `json:"store_id,omitempty"`
	WindowLabel *string             `json:"window_label,omitempty"`
	TotalCents  int                 `json:"total_cents"`
	PlacedAt    string              `json:"placed_at"`
	Items       []orderLineResponse `json:"items"`
}

func newOrderResponse(order models.Order) orderResponse {
	resp := orderResponse{
		OrderID:     order.ID.String(),
		Mode:        order.Mode.String(),
		Status:      order.Status.String(),
		WindowLabel: order.WindowLabel,
		TotalCents:  order.TotalCents,
		PlacedAt:    order.PlacedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if order.StoreID != nil {
		id := order.StoreID.String()
		resp.StoreID = &id
	}
	resp.Items = make([]orderLineResponse, 0, len(order.Items))
	for _, line := range order.Items {
		resp.Items = append(resp.Items, orderLineResponse{
			ProductID:      line.ProductID.String(),
			ProductName:    line.ProductName,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
			SubtotalCents:  line.SubtotalCents,
		})
	}
	return resp
}

// Checkout submits the shopper's cart as an order. The cart is cleared only
// after the submission fully commits; any failure leaves it intact for retry.
func Checkout(carts *cart.Manager, ordersSvc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		owner := middleware.UserIDFromContext(r.Context())
		if owner == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context"))
			return
		}
		userID, err := uuid.Parse(owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user context"))
			return
		}

		mode, err := enums.ParseOrderMode(payload.Mode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid mode"))
			return
		}

		input := orders.SubmitInput{Mode: mode, WindowLabel: payload.WindowLabel}
		if payload.StoreID != nil {
			storeID, err := uuid.Parse(*payload.StoreID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id"))
				return
			}
			input.StoreID = &storeID
		}

		store, err := carts.Store(r.Context(), owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart"))
			return
		}

		submission, err := ordersSvc.Submit(r.Context(), userID, store.Snapshot(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Clear(r.Context())
		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(submission.Order))
	}
}

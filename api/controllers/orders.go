package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/greenbasket-io/greenbasket-backend/api/middleware"
	"github.com/greenbasket-io/greenbasket-backend/api/responses"
	"github.com/greenbasket-io/greenbasket-backend/api/validators"
	"github.com/greenbasket-io/greenbasket-backend/internal/orders"
	pkgerrors "github.com/greenbasket-io/greenbasket-backend/pkg/errors"
	"github.com/greenbasket-io/greenbasket-backend/pkg/logger"
	"github.com/greenbasket-io/greenbasket-backend/pkg/pagination"
)

type orderListResponse struct {
	Orders     []orderResponse `json:"orders"`
	NextCursor *string         `json:"next_cursor,omitempty"`
}

func contextUserID(r *http.Request) (uuid.UUID, error) {
	owner := middleware.UserIDFromContext(r.Context())
	if owner == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context")
	}
	userID, err := uuid.Parse(owner)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user context")
	}
	return userID, nil
}

// OrdersList returns the shopper's order history, newest first.
func OrdersList(ordersSvc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := contextUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))

		result, err := ordersSvc.List(r.Context(), userID, pagination.Params{Limit: limit, Cursor: cursor})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := orderListResponse{
			Orders:     make([]orderResponse, 0, len(result.Orders)),
			NextCursor: result.NextCursor,
		}
		for _, order := range result.Orders {
			resp.Orders = append(resp.Orders, newOrderResponse(order))
		}
		responses.WriteSuccess(w, resp)
	}
}

// OrdersGet returns one of the shopper's orders with its lines.
func OrdersGet(ordersSvc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := contextUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		order, err := ordersSvc.Get(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(*order))
	}
}

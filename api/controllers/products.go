package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/greenbasket-io/greenbasket-backend/api/responses"
	"github.com/greenbasket-io/greenbasket-backend/internal/catalog"
	"github.com/greenbasket-io/greenbasket-backend/pkg/db/models"
	pkgerrors "github.com/greenbasket-io/greenbasket-backend/pkg/errors"
	"github.com/greenbasket-io/greenbasket-backend/pkg/logger"
)

type productResponse struct {
	ProductID            string   `json:"product_id"`
	Name                 string   `json:"name"`
	Description          string   `json:"description,omitempty"`
	CategoryID           string   `json:"category_id"`
	ImageURL             string   `json:"image_url,omitempty"`
	Dietary              []string `json:"dietary,omitempty"`
	Tags                 []string `json:"tags,omitempty"`
	UnitPriceCents       int      `json:"unit_price_cents"`
	DisplayPrice         string   `json:"display_price"`
	OriginalDisplayPrice *string  `json:"original_display_price,omitempty"`
	OnSale               bool     `json:"on_sale"`
}

func newProductResponse(dto catalog.ProductDTO) productResponse {
	return productResponse{
		ProductID:            dto.Product.ID.String(),
		Name:                 dto.Product.Name,
		Description:          dto.Product.Description,
		CategoryID:           dto.Product.CategoryID,
		ImageURL:             dto.Product.ImageURL,
		Dietary:              dto.Product.Dietary,
		Tags:                 dto.Product.Tags,
		UnitPriceCents:       dto.Quote.UnitPriceCents,
		DisplayPrice:         dto.Quote.DisplayPrice,
		OriginalDisplayPrice: dto.Quote.OriginalDisplayPrice,
		OnSale:               dto.Quote.OnSale,
	}
}

// ProductsList returns active products with resolved prices.
func ProductsList(catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := catalog.ListFilter{
			CategoryID: strings.TrimSpace(r.URL.Query().Get("category")),
			Search:     strings.TrimSpace(r.URL.Query().Get("q")),
		}

		dtos, err := catalogSvc.ListProducts(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]productResponse, 0, len(dtos))
		for _, dto := range dtos {
			out = append(out, newProductResponse(dto))
		}
		responses.WriteSuccess(w, map[string]any{"products": out})
	}
}

// ProductsGet returns one product with its resolved price.
func ProductsGet(catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		dto, err := catalogSvc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductResponse(*dto))
	}
}

type storeLocationResponse struct {
	StoreID string `json:"store_id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
}

type deliverySlotResponse struct {
	SlotID string `json:"slot_id"`
	Date   string `json:"date"`
	Label  string `json:"label"`
}

// StoresList returns the pickup locations.
func StoresList(catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := catalogSvc.ListStoreLocations(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]storeLocationResponse, 0, len(stores))
		for _, store := range stores {
			out = append(out, newStoreLocationResponse(store))
		}
		responses.WriteSuccess(w, map[string]any{"stores": out})
	}
}

// StoreSlotsList returns the bookable windows for one store.
func StoreSlotsList(catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := uuid.Parse(chi.URLParam(r, "storeID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id"))
			return
		}

		slots, err := catalogSvc.ListDeliverySlots(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]deliverySlotResponse, 0, len(slots))
		for _, slot := range slots {
			out = append(out, deliverySlotResponse{
				SlotID: slot.ID.String(),
				Date:   slot.Date,
				Label:  slot.Label,
			})
		}
		responses.WriteSuccess(w, map[string]any{"slots": out})
	}
}

func newStoreLocationResponse(store models.StoreLocation) storeLocationResponse {
	return storeLocationResponse{
		StoreID: store.ID.String(),
		Name:    store.Name,
		Address: store.Address,
		City:    store.City,
		State:   store.State,
		Zip:     store.Zip,
	}
}

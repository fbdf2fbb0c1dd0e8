package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/greenbasket-io/greenbasket-backend/api/middleware"
	"github.com/greenbasket-io/greenbasket-backend/internal/cart"
	"github.com/greenbasket-io/greenbasket-backend/internal/catalog"
	"github.com/greenbasket-io/greenbasket-backend/internal/pricing"
	"github.com/greenbasket-io/greenbasket-backend/pkg/db/models"
	pkgerrors "github.com/greenbasket-io/greenbasket-backend/pkg/errors"
	"github.com/greenbasket-io/greenbasket-backend/pkg/logger"
	"github.com/greenbasket-io/greenbasket-backend/pkg/types"
)

type nullPersister struct{}

func (nullPersister) Load(context.Context, string) (cart.Snapshot, error) {
	return cart.Snapshot{}, nil
}

func (nullPersister) Save(context.Context, string, cart.Snapshot) error {
	return nil
}

type stubCatalog struct {
	products map[uuid.UUID]*models.Product
	quotes   map[uuid.UUID]*pricing.Quote
	err      error
}

func (s stubCatalog) GetProduct(context.Context, uuid.UUID) (*catalog.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s stubCatalog) ListProducts(context.Context, catalog.ListFilter) ([]catalog.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s stubCatalog) Quote(_ context.Context, productID uuid.UUID) (*pricing.Quote, *models.Product, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	product, ok := s.products[productID]
	if !ok {
		return nil, nil, pkgerrors.New(pkgerrors.CodeItemNotFound, "product not found")
	}
	return s.quotes[productID], product, nil
}

func (s stubCatalog) ListStoreLocations(context.Context) ([]models.StoreLocation, error) {
	return nil, nil
}

func (s stubCatalog) ListDeliverySlots(context.Context, uuid.UUID) ([]models.DeliverySlot, error) {
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func newTestManager(t *testing.T) *cart.Manager {
	t.Helper()
	manager, err := cart.NewManager(nullPersister{}, testLogger(), nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return manager
}

func authedRequest(method, target string, body io.Reader, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

func decodeData[T any](t *testing.T, body []byte) T {
	t.Helper()
	var envelope types.SuccessEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	raw, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatalf("re-marshal data: %v", err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return out
}

func saleCatalog(product *models.Product, priceCents int) stubCatalog {
	return stubCatalog{
		products: map[uuid.UUID]*models.Product{product.ID: product},
		quotes: map[uuid.UUID]*pricing.Quote{
			product.ID: {UnitPriceCents: priceCents, DisplayPrice: pricing.FormatCents(priceCents)},
		},
	}
}

func TestCartAddItemUsesCatalogPrice(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	product := &models.Product{ID: uuid.New(), Name: "Oat Milk", ImageURL: "https://cdn.example.com/oat.jpg"}
	manager := newTestManager(t)
	handler := CartAddItem(manager, saleCatalog(product, 429), testLogger())

	// The request has no price field at all; pricing is server-side.
	body := `{"product_id":"` + product.ID.String() + `","quantity":2}`
	resp := httptest.NewRecorder()
	handler(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body), userID))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	got := decodeData[cartResponse](t, resp.Body.Bytes())
	if got.TotalCents != 858 || got.ItemCount != 2 {
		t.Fatalf("unexpected cart state: %+v", got)
	}
	if got.Items[0].UnitPriceCents != 429 {
		t.Fatalf("expected catalog price 429, got %d", got.Items[0].UnitPriceCents)
	}
	if got.Items[0].Name != "Oat Milk" {
		t.Fatalf("expected catalog name, got %q", got.Items[0].Name)
	}
}

func TestCartAddItemRejectsClientPriceField(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	product := &models.Product{ID: uuid.New(), Name: "Oat Milk"}
	handler := CartAddItem(newTestManager(t), saleCatalog(product, 429), testLogger())

	body := `{"product_id":"` + product.ID.String() + `","quantity":1,"unit_price_cents":1}`
	resp := httptest.NewRecorder()
	handler(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body), userID))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", resp.Code)
	}
}

func TestCartAddItemUnknownProduct(t *testing.T) {
	t.Parallel()

	handler := CartAddItem(newTestManager(t), stubCatalog{products: map[uuid.UUID]*models.Product{}}, testLogger())

	body := `{"product_id":"` + uuid.NewString() + `","quantity":1}`
	resp := httptest.NewRecorder()
	handler(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body), uuid.New()))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestCartGetRequiresUser(t *testing.T) {
	t.Parallel()

	handler := CartGet(newTestManager(t), testLogger())
	resp := httptest.NewRecorder()
	handler(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestCartGetReturnsCurrentState(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	manager := newTestManager(t)
	store, err := manager.Store(context.Background(), userID.String())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if _, err := store.AddItem(context.Background(), cart.LineItem{
		ProductID:      uuid.New(),
		Name:           "Basil",
		UnitPriceCents: 199,
		Quantity:       3,
	}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	handler := CartGet(manager, testLogger())
	resp := httptest.NewRecorder()
	handler(resp, authedRequest(http.MethodGet, "/api/v1/cart", nil, userID))

	got := decodeData[cartResponse](t, resp.Body.Bytes())
	if got.TotalCents != 597 || got.ItemCount != 3 {
		t.Fatalf("unexpected cart state: %+v", got)
	}
}

func TestCartSetQuantityZeroRemoves(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	productID := uuid.New()
	manager := newTestManager(t)
	store, _ := manager.Store(context.Background(), userID.String())
	if _, err := store.AddItem(context.Background(), cart.LineItem{
		ProductID:      productID,
		Name:           "Basil",
		UnitPriceCents: 199,
		Quantity:       2,
	}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	router := chi.NewRouter()
	router.Put("/api/v1/cart/items/{productID}", CartSetQuantity(manager, testLogger()))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPut, "/api/v1/cart/items/"+productID.String(), strings.NewReader(`{"quantity":0}`), userID))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	got := decodeData[cartResponse](t, resp.Body.Bytes())
	if len(got.Items) != 0 || got.TotalCents != 0 {
		t.Fatalf("expected empty cart, got %+v", got)
	}
}

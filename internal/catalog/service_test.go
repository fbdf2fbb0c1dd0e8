package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenbasket-io/greenbasket-backend/pkg/db/models"
	pkgerrors "github.com/greenbasket-io/greenbasket-backend/pkg/errors"
)

type stubSource struct {
	products map[uuid.UUID]*models.Product
	promos   []models.Promotion
}

func (s *stubSource) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (s *stubSource) List(_ context.Context, _ ListFilter) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubSource) ActivePromotions(_ context.Context, productIDs []uuid.UUID, now time.Time) ([]models.Promotion, error) {
	var out []models.Promotion
	for _, promo := range s.promos {
		if !promo.ActiveAt(now) {
			continue
		}
		for _, id := range productIDs {
			if promo.ProductID == id {
				out = append(out, promo)
			}
		}
	}
	return out, nil
}

func (s *stubSource) ListStoreLocations(context.Context) ([]models.StoreLocation, error) {
	return nil, nil
}

func (s *stubSource) ListDeliverySlots(context.Context, uuid.UUID) ([]models.DeliverySlot, error) {
	return nil, nil
}

func stubProduct(priceCents int, display string) *models.Product {
	id := uuid.New()
	return &models.Product{
		ID:       id,
		Name:     "Granola",
		IsActive: true,
		Variants: []models.ProductVariant{
			{ProductID: id, PriceCents: priceCents, PriceDisplay: display, Position: 0},
		},
	}
}

func TestServiceQuoteAppliesPromotion(t *testing.T) {
	product := stubProduct(699, "$6.99")
	now := time.Now()
	source := &stubSource{
		products: map[uuid.UUID]*models.Product{product.ID: product},
		promos: []models.Promotion{{
			ProductID:      product.ID,
			SalePriceCents: 499,
			StartsAt:       now.Add(-time.Hour),
			EndsAt:         now.Add(time.Hour),
		}},
	}
	svc, err := NewService(source)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	quote, got, err := svc.Quote(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if got.ID != product.ID {
		t.Fatalf("wrong product returned")
	}
	if quote.UnitPriceCents != 499 || !quote.OnSale {
		t.Fatalf("expected sale quote, got %+v", quote)
	}
}

func TestServiceQuoteUnknownProduct(t *testing.T) {
	svc, _ := NewService(&stubSource{products: map[uuid.UUID]*models.Product{}})

	_, _, err := svc.Quote(context.Background(), uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeItemNotFound) {
		t.Fatalf("expected ITEM_NOT_FOUND, got %v", err)
	}
}

func TestServiceQuoteInactiveProduct(t *testing.T) {
	product := stubProduct(699, "$6.99")
	product.IsActive = false
	svc, _ := NewService(&stubSource{products: map[uuid.UUID]*models.Product{product.ID: product}})

	_, _, err := svc.Quote(context.Background(), product.ID)
	if !pkgerrors.HasCode(err, pkgerrors.CodeItemNotFound) {
		t.Fatalf("expected ITEM_NOT_FOUND for inactive product, got %v", err)
	}
}

func TestServiceListSkipsUnpriceableProducts(t *testing.T) {
	priced := stubProduct(250, "")
	unpriced := &models.Product{ID: uuid.New(), Name: "Mystery", IsActive: true}
	svc, _ := NewService(&stubSource{products: map[uuid.UUID]*models.Product{
		priced.ID:   priced,
		unpriced.ID: unpriced,
	}})

	dtos, err := svc.ListProducts(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(dtos) != 1 {
		t.Fatalf("expected 1 priceable product, got %d", len(dtos))
	}
	if dtos[0].Quote.DisplayPrice != "$2.50" {
		t.Fatalf("expected formatted fallback display, got %s", dtos[0].Quote.DisplayPrice)
	}
}

func TestServiceDeliverySlotsRequireStore(t *testing.T) {
	svc, _ := NewService(&stubSource{})

	_, err := svc.ListDeliverySlots(context.Background(), uuid.Nil)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

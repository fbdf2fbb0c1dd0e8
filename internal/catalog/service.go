package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenbasket-io/greenbasket-backend/internal/pricing"
	"github.com/greenbasket-io/greenbasket-backend/pkg/db/models"
	pkgerrors "github.com/greenbasket-io/greenbasket-backend/pkg/errors"
)

// Service exposes the storefront's read side of the catalog.
type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, filter ListFilter) ([]ProductDTO, error)
	Quote(ctx context.Context, productID uuid.UUID) (*pricing.Quote, *models.Product, error)
	ListStoreLocations(ctx context.Context) ([]models.StoreLocation, error)
	ListDeliverySlots(ctx context.Context, storeID uuid.UUID) ([]models.DeliverySlot, error)
}

// ProductDTO is a product with its resolved storefront price.
type ProductDTO struct {
	Product models.Product
	Quote   *pricing.Quote
}

// ProductSource is the slice of persistence the service reads from.
type ProductSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filter ListFilter) ([]models.Product, error)
	ActivePromotions(ctx context.Context, productIDs []uuid.UUID, now time.Time) ([]models.Promotion, error)
	ListStoreLocations(ctx context.Context) ([]models.StoreLocation, error)
	ListDeliverySlots(ctx context.Context, storeID uuid.UUID) ([]models.DeliverySlot, error)
}

type service struct {
	repo ProductSource
	now  func() time.Time
}

// NewService builds the catalog service.
func NewService(repo ProductSource) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repo is required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeItemNotFound, fmt.Sprintf("product %s not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	quote, err := s.quoteFor(ctx, product)
	if err != nil {
		return nil, err
	}
	return &ProductDTO{Product: *product, Quote: quote}, nil
}

func (s *service) ListProducts(ctx context.Context, filter ListFilter) ([]ProductDTO, error) {
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}

	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	now := s.now()
	promos, err := s.repo.ActivePromotions(ctx, ids, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading promotions")
	}
	promoByProduct := map[uuid.UUID]*models.Promotion{}
	for i := range promos {
		promoByProduct[promos[i].ProductID] = &promos[i]
	}

	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		quote, err := pricing.Resolve(&products[i], promoByProduct[products[i].ID], now)
		if err != nil {
			// Listings skip unpriceable products instead of failing the page.
			if pkgerrors.HasCode(err, pkgerrors.CodeNoPrice) || pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
				continue
			}
			return nil, err
		}
		dtos = append(dtos, ProductDTO{Product: products[i], Quote: quote})
	}
	return dtos, nil
}

// Quote resolves the authoritative unit price for a single product. Cart
// mutations always price through here, never from client input.
func (s *service) Quote(ctx context.Context, productID uuid.UUID) (*pricing.Quote, *models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeItemNotFound, fmt.Sprintf("product %s not found", productID))
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if !product.IsActive {
		return nil, nil, pkgerrors.New(pkgerrors.CodeItemNotFound, fmt.Sprintf("product %s is not available", productID))
	}

	quote, err := s.quoteFor(ctx, product)
	if err != nil {
		return nil, nil, err
	}
	return quote, product, nil
}

func (s *service) ListStoreLocations(ctx context.Context) ([]models.StoreLocation, error) {
	stores, err := s.repo.ListStoreLocations(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing store locations")
	}
	return stores, nil
}

func (s *service) ListDeliverySlots(ctx context.Context, storeID uuid.UUID) ([]models.DeliverySlot, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	slots, err := s.repo.ListDeliverySlots(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing delivery slots")
	}
	return slots, nil
}

func (s *service) quoteFor(ctx context.Context, product *models.Product) (*pricing.Quote, error) {
	now := s.now()
	promos, err := s.repo.ActivePromotions(ctx, []uuid.UUID{product.ID}, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading promotions")
	}
	var promo *models.Promotion
	if len(promos) > 0 {
		promo = &promos[0]
	}
	return pricing.Resolve(product, promo, now)
}

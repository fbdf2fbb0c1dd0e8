package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenbasket-io/greenbasket-backend/pkg/db/models"
)

// ListFilter narrows a product listing.
type ListFilter struct {
	CategoryID string
	Search     string
}

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads the product with its variants.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns active products matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("is_active = ?", true)

	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var products []models.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ActivePromotions returns the promotions covering now for the given products.
func (r *Repository) ActivePromotions(ctx context.Context, productIDs []uuid.UUID, now time.Time) ([]models.Promotion, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var promos []models.Promotion
	if err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Where("starts_at <= ? AND ends_at > ?", now, now).
		Find(&promos).Error; err != nil {
		return nil, err
	}
	return promos, nil
}

// ListStoreLocations returns all pickup locations.
func (r *Repository) ListStoreLocations(ctx context.Context) ([]models.StoreLocation, error) {
	var stores []models.StoreLocation
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// ListDeliverySlots returns the bookable windows for a store.
func (r *Repository) ListDeliverySlots(ctx context.Context, storeID uuid.UUID) ([]models.DeliverySlot, error) {
	var slots []models.DeliverySlot
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("date ASC, label ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is a catalog entry. Pricing lives on variants; the first variant by
// position is the purchasable default.
type Product struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string           `gorm:"column:name;not null"`
	Description string           `gorm:"column:description"`
	CategoryID  string           `gorm:"column:category_id;not null;index"`
	ImageURL    string           `gorm:"column:image_url"`
	Dietary     pq.StringArray   `gorm:"column:dietary;type:text[]"`
	Tags        pq.StringArray   `gorm:"column:tags;type:text[]"`
	IsActive    bool             `gorm:"column:is_active;not null;default:true"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductVariant carries the priced unit of a product (e.g. "1 lb", "bunch").
type ProductVariant struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID    uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Unit         string    `gorm:"column:unit"`
	PriceCents   int       `gorm:"column:price_cents;not null"`
	PriceDisplay string    `gorm:"column:price_display"`
	Position     int       `gorm:"column:position;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

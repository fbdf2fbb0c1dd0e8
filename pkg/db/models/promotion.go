package models

import (
	"time"

	"github.com/google/uuid"
)

// Promotion is a time-bound sale price override for a single product.
type Promotion struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID        uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	SalePriceCents   int       `gorm:"column:sale_price_cents;not null"`
	SalePriceDisplay string    `gorm:"column:sale_price_display"`
	StartsAt         time.Time `gorm:"column:starts_at;not null"`
	EndsAt           time.Time `gorm:"column:ends_at;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// ActiveAt reports whether the promotion window covers the given instant.
func (p Promotion) ActiveAt(now time.Time) bool {
	return !now.Before(p.StartsAt) && now.Before(p.EndsAt)
}

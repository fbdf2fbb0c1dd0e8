package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/greenbasket-io/greenbasket-backend/pkg/enums"
)

// Order is the order header. It is written in its own insert, separately from
// its line items; the two tables are not covered by a shared transaction.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	StoreID     *uuid.UUID        `gorm:"column:store_id;type:uuid"`
	Mode        enums.OrderMode   `gorm:"column:mode;type:text;not null"`
	Status      enums.OrderStatus `gorm:"column:status;type:text;not null;default:'placed'"`
	WindowLabel *string           `gorm:"column:window_label"`
	TotalCents  int               `gorm:"column:total_cents;not null"`
	Items       []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PlacedAt    time.Time         `gorm:"column:placed_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

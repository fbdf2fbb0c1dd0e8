package models

import (
	"time"

	"github.com/google/uuid"
)

// StoreLocation is a physical store the buyer can pick up from.
type StoreLocation struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Address   string    `gorm:"column:address"`
	City      string    `gorm:"column:city"`
	State     string    `gorm:"column:state"`
	Zip       string    `gorm:"column:zip"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// DeliverySlot is a bookable pickup/delivery window at a store.
type DeliverySlot struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid;not null;index"`
	Date      string    `gorm:"column:date;not null"`
	Label     string    `gorm:"column:label;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

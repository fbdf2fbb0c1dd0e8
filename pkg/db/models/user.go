package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the minimal identity row orders reference. Account management is
// handled by the hosted auth provider; this table only mirrors it.
type User struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email       string    `gorm:"column:email;not null;uniqueIndex"`
	DisplayName string    `gorm:"column:display_name"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

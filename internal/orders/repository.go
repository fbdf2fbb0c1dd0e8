package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenbasket-io/greenbasket-backend/pkg/db/models"
	"github.com/greenbasket-io/greenbasket-backend/pkg/pagination"
)

// Repository persists orders against the remote store. The header and line
// inserts are deliberately separate calls; the backing tables cannot share a
// transaction, so callers own the failure handling between the two writes.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// InsertHeader writes the order row and fills in its generated ID.
func (r *Repository) InsertHeader(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Items").Create(order).Error
}

// InsertLines writes the order's line items in one batch.
func (r *Repository) InsertLines(ctx context.Context, lines []models.OrderLineItem) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

// FindByID loads an order with its lines.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns the user's orders newest first, keyed by the cursor.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID)

	if cursor != nil {
		query = query.Where(
			"(placed_at < ?) OR (placed_at = ? AND id < ?)",
			cursor.PlacedAt, cursor.PlacedAt, cursor.ID,
		)
	}

	var orders []models.Order
	if err := query.
		Order("placed_at DESC, id DESC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

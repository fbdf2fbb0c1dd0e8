package orders

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/greenbasket-io/greenbasket-backend/pkg/db/models"
	"github.com/greenbasket-io/greenbasket-backend/pkg/enums"
	"github.com/greenbasket-io/greenbasket-backend/pkg/pagination"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("GREENBASKET_DB_DSN")
	if dsn == "" {
		t.Skip("GREENBASKET_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func mustCreateTestUser(t *testing.T, tx *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:    uuid.New(),
		Email: fmt.Sprintf("gb_test_%s@example.com", uuid.NewString()),
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestRepositoryHeaderAndLinesAreSeparateWrites(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()
	user := mustCreateTestUser(t, tx)

	order := &models.Order{
		UserID:     user.ID,
		Mode:       enums.OrderModePickup,
		Status:     enums.OrderStatusPlaced,
		TotalCents: 598,
	}
	if err := repo.InsertHeader(ctx, order); err != nil {
		t.Fatalf("insert header: %v", err)
	}
	if order.ID == uuid.Nil {
		t.Fatal("expected generated order id")
	}

	// The header is readable before any line exists.
	partial, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("find header-only order: %v", err)
	}
	if len(partial.Items) != 0 {
		t.Fatalf("expected no lines yet, got %d", len(partial.Items))
	}

	lines := []models.OrderLineItem{{
		OrderID:        order.ID,
		ProductID:      uuid.New(),
		ProductName:    "Bananas",
		UnitPriceCents: 299,
		Quantity:       2,
		SubtotalCents:  598,
	}}
	if err := repo.InsertLines(ctx, lines); err != nil {
		t.Fatalf("insert lines: %v", err)
	}

	full, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("find full order: %v", err)
	}
	if len(full.Items) != 1 || full.Items[0].ProductName != "Bananas" {
		t.Fatalf("lines not attached: %+v", full.Items)
	}
}

func TestRepositoryListByUserCursor(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()
	user := mustCreateTestUser(t, tx)

	for i := 0; i < 3; i++ {
		order := &models.Order{
			UserID:     user.ID,
			Mode:       enums.OrderModeDelivery,
			Status:     enums.OrderStatusPlaced,
			TotalCents: 100 * (i + 1),
		}
		if err := repo.InsertHeader(ctx, order); err != nil {
			t.Fatalf("insert header %d: %v", i, err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	first, err := repo.ListByUser(ctx, user.ID, 2, nil)
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(first))
	}

	last := first[len(first)-1]
	rest, err := repo.ListByUser(ctx, user.ID, 2, &pagination.Cursor{PlacedAt: last.PlacedAt, ID: last.ID})
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(rest) != 1 {
		t.Fatalf("expected 1 remaining order, got %d", len(rest))
	}
	for _, page := range [][]models.Order{first, rest} {
		for i := 1; i < len(page); i++ {
			if page[i].PlacedAt.After(page[i-1].PlacedAt) {
				t.Fatal("orders not sorted newest first")
			}
		}
	}
}

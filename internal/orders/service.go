package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenbasket-io/greenbasket-backend/internal/cart"
	"github.com/greenbasket-io/greenbasket-backend/pkg/db/models"
	"github.com/greenbasket-io/greenbasket-backend/pkg/enums"
	pkgerrors "github.com/greenbasket-io/greenbasket-backend/pkg/errors"
	"github.com/greenbasket-io/greenbasket-backend/pkg/logger"
	"github.com/greenbasket-io/greenbasket-backend/pkg/metrics"
	"github.com/greenbasket-io/greenbasket-backend/pkg/pagination"
)

// Service composes and submits orders from cart snapshots.
type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, snap cart.Snapshot, input SubmitInput) (*Submission, error)
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
}

// SubmitInput carries the fulfillment choices made at checkout.
type SubmitInput struct {
	Mode        enums.OrderMode
	StoreID     *uuid.UUID
	WindowLabel *string
}

// Submission is the committed order with its lines.
type Submission struct {
	Order models.Order
	Lines []models.OrderLineItem
}

// ListResult is one page of a user's order history.
type ListResult struct {
	Orders     []models.Order
	NextCursor *string
}

// repository is the persistence surface the service needs.
type repository interface {
	InsertHeader(ctx context.Context, order *models.Order) error
	InsertLines(ctx context.Context, lines []models.OrderLineItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Order, error)
}

type service struct {
	repo    repository
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
}

// NewService builds the order service.
func NewService(repo repository, logg *logger.Logger, mets *metrics.StorefrontMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repo is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, logg: logg, metrics: mets}, nil
}

// Submit turns a cart snapshot into a persisted order in two phases: first
// the header, then the lines. There is no transaction spanning the two
// writes. A header failure leaves nothing behind and is safe to retry; a line
// failure leaves an orphaned header whose id is reported for reconciliation.
// The cart snapshot is never mutated here; the caller clears the cart only
// after a fully successful submission.
func (s *service) Submit(ctx context.Context, userID uuid.UUID, snap cart.Snapshot, input SubmitInput) (*Submission, error) {
	if userID == uuid.Nil {
		s.metrics.IncSubmission(metrics.SubmissionRejected)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "a signed-in user is required to place an order")
	}
	if !input.Mode.IsValid() {
		s.metrics.IncSubmission(metrics.SubmissionRejected)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order mode %q", input.Mode))
	}
	if len(snap.Items) == 0 {
		s.metrics.IncSubmission(metrics.SubmissionRejected)
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cannot place an order from an empty cart")
	}

	lines, totalCents, err := composeLines(snap.Items)
	if err != nil {
		s.metrics.IncSubmission(metrics.SubmissionRejected)
		return nil, err
	}

	order := models.Order{
		UserID:      userID,
		StoreID:     input.StoreID,
		Mode:        input.Mode,
		Status:      enums.OrderStatusPlaced,
		WindowLabel: input.WindowLabel,
		TotalCents:  totalCents,
	}

	if err := s.repo.InsertHeader(ctx, &order); err != nil {
		s.metrics.IncSubmission(metrics.SubmissionHeaderFailed)
		s.logg.Error(s.logg.WithUserID(ctx, userID.String()), "order header insert failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeOrderHeaderFailed, err, "order could not be created")
	}

	for i := range lines {
		lines[i].OrderID = order.ID
	}
	if err := s.repo.InsertLines(ctx, lines); err != nil {
		s.metrics.IncSubmission(metrics.SubmissionItemsFailed)
		ctx = s.logg.WithOrderID(s.logg.WithUserID(ctx, userID.String()), order.ID.String())
		s.logg.Error(ctx, "order lines insert failed after header commit", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeOrderItemsFailed, err, "order items could not be saved").
			WithDetails(map[string]any{"order_id": order.ID.String()})
	}

	s.metrics.IncSubmission(metrics.SubmissionCommitted)
	order.Items = lines
	return &Submission{Order: order, Lines: lines}, nil
}

// composeLines validates and snapshots the cart lines. Any invalid line
// rejects the whole submission before a remote write happens.
func composeLines(items []cart.LineItem) ([]models.OrderLineItem, int, error) {
	lines := make([]models.OrderLineItem, 0, len(items))
	total := 0
	for _, li := range items {
		if li.Quantity <= 0 {
			return nil, 0, pkgerrors.New(pkgerrors.CodeInvalidQuantity,
				fmt.Sprintf("line for product %s has quantity %d", li.ProductID, li.Quantity))
		}
		if li.UnitPriceCents < 0 {
			return nil, 0, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("line for product %s has a negative unit price", li.ProductID))
		}
		subtotal := li.SubtotalCents()
		lines = append(lines, models.OrderLineItem{
			ProductID:      li.ProductID,
			ProductName:    li.Name,
			UnitPriceCents: li.UnitPriceCents,
			Quantity:       li.Quantity,
			SubtotalCents:  subtotal,
		})
		total += subtotal
	}
	return lines, total, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "a signed-in user is required")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListByUser(ctx, userID, limit+1, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}

	result := &ListResult{Orders: rows}
	if len(rows) > limit {
		result.Orders = rows[:limit]
		last := result.Orders[len(result.Orders)-1]
		next := pagination.EncodeCursor(pagination.Cursor{PlacedAt: last.PlacedAt, ID: last.ID})
		result.NextCursor = &next
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "a signed-in user is required")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order %s not found", orderID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	// Another user's order reads as absent, not forbidden.
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order %s not found", orderID))
	}
	return order, nil
}

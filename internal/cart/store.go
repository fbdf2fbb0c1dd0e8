package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/greenbasket-io/greenbasket-backend/pkg/errors"
	"github.com/greenbasket-io/greenbasket-backend/pkg/logger"
	"github.com/greenbasket-io/greenbasket-backend/pkg/metrics"
)

// LineItem is one product entry in a cart.
type LineItem struct {
	ProductID      uuid.UUID
	Name           string
	UnitPriceCents int
	Quantity       int
	ImageURL       string
}

// SubtotalCents is the derived line total.
func (li LineItem) SubtotalCents() int {
	return li.UnitPriceCents * li.Quantity
}

// Snapshot is an immutable copy of the cart state. TotalCents and ItemCount
// are derived from Items and never stored independently.
type Snapshot struct {
	Items      []LineItem
	TotalCents int
	ItemCount  int
}

// Persister stores cart snapshots outside process memory. Load returns an
// empty snapshot, not an error, when nothing has been saved yet.
type Persister interface {
	Load(ctx context.Context, ownerID string) (Snapshot, error)
	Save(ctx context.Context, ownerID string, snap Snapshot) error
}

// Subscriber observes cart state after each mutation. Callbacks run in
// subscription order and must not mutate the store re-entrantly.
type Subscriber func(Snapshot)

type subscription struct {
	id int
	fn Subscriber
}

// Store holds one shopper's cart. Each mutation runs to completion as one
// transition: mutate, save, notify. The next mutation cannot start until the
// previous transition has finished, so persisted snapshots and subscriber
// callbacks always arrive in mutation order. A failed save never rolls back
// the in-memory state.
type Store struct {
	ownerID   string
	persister Persister
	logg      *logger.Logger
	metrics   *metrics.StorefrontMetrics

	// txMu serializes whole transitions; mu guards the fields below for
	// readers that only need the current state.
	txMu    sync.Mutex
	mu      sync.Mutex
	items   []LineItem
	subs    []subscription
	nextSub int
}

// NewStore builds a cart for the owner, hydrating from the persister. A load
// failure degrades to an empty cart rather than blocking the shopper.
func NewStore(ctx context.Context, ownerID string, persister Persister, logg *logger.Logger, mets *metrics.StorefrontMetrics) (*Store, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is required")
	}
	if persister == nil {
		return nil, fmt.Errorf("persister is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}

	store := &Store{
		ownerID:   ownerID,
		persister: persister,
		logg:      logg,
		metrics:   mets,
	}

	snap, err := persister.Load(ctx, ownerID)
	if err != nil {
		logg.Warn(logg.WithFields(ctx, map[string]any{"owner_id": ownerID}),
			fmt.Sprintf("cart load failed, starting empty: %v", err))
		return store, nil
	}
	store.items = copyItems(snap.Items)
	return store, nil
}

// AddItem adds a product to the cart. When the product is already present the
// quantities merge into a single line.
func (s *Store) AddItem(ctx context.Context, item LineItem) (Snapshot, error) {
	if item.ProductID == uuid.Nil {
		return Snapshot{}, errors.New(errors.CodeValidation, "product id is required")
	}
	if item.Quantity <= 0 {
		return Snapshot{}, errors.New(errors.CodeInvalidQuantity, fmt.Sprintf("quantity must be positive, got %d", item.Quantity))
	}
	if item.UnitPriceCents < 0 {
		return Snapshot{}, errors.New(errors.CodeValidation, "unit price must not be negative")
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].ProductID == item.ProductID {
			s.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, item)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.afterMutation(ctx, "add_item", snap)
	return snap, nil
}

// RemoveItem drops the line for the product. Removing an absent product is a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID uuid.UUID) (Snapshot, error) {
	if productID == uuid.Nil {
		return Snapshot{}, errors.New(errors.CodeValidation, "product id is required")
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	kept := s.items[:0]
	for _, li := range s.items {
		if li.ProductID != productID {
			kept = append(kept, li)
		}
	}
	s.items = kept
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.afterMutation(ctx, "remove_item", snap)
	return snap, nil
}

// SetQuantity replaces the quantity on an existing line. Zero or negative
// removes the line, matching RemoveItem exactly.
func (s *Store) SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) (Snapshot, error) {
	if productID == uuid.Nil {
		return Snapshot{}, errors.New(errors.CodeValidation, "product id is required")
	}
	if quantity <= 0 {
		return s.RemoveItem(ctx, productID)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return Snapshot{}, errors.New(errors.CodeItemNotFound, fmt.Sprintf("product %s is not in the cart", productID))
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.afterMutation(ctx, "set_quantity", snap)
	return snap, nil
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) Snapshot {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	s.items = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.afterMutation(ctx, "clear", snap)
	return snap
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Items returns a copy of the cart lines.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.items)
}

// TotalCents is the sum of line subtotals.
func (s *Store) TotalCents() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalCents(s.items)
}

// ItemCount is the sum of line quantities, not the number of lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return itemCount(s.items)
}

// Subscribe registers a callback invoked after every mutation, in
// subscription order. The returned function removes the subscription.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Items:      copyItems(s.items),
		TotalCents: totalCents(s.items),
		ItemCount:  itemCount(s.items),
	}
}

// afterMutation saves the snapshot and notifies subscribers in subscription
// order. It runs under txMu, so the whole transition finishes before the next
// mutation starts; callbacks run outside the state lock.
func (s *Store) afterMutation(ctx context.Context, op string, snap Snapshot) {
	s.metrics.IncCartMutation(op)

	if err := s.persister.Save(ctx, s.ownerID, snap); err != nil {
		s.metrics.IncPersistFailure()
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"owner_id": s.ownerID, "op": op}),
			fmt.Sprintf("cart save failed: %v", err))
	}

	s.mu.Lock()
	subs := make([]Subscriber, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub.fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func copyItems(items []LineItem) []LineItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

func totalCents(items []LineItem) int {
	total := 0
	for _, li := range items {
		total += li.SubtotalCents()
	}
	return total
}

func itemCount(items []LineItem) int {
	count := 0
	for _, li := range items {
		count += li.Quantity
	}
	return count
}

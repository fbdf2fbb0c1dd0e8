package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/greenbasket-io/greenbasket-backend/pkg/redis"
)

// persistedCart is the snapshot layout written to Redis. The field names are
// the storefront's wire names and must stay stable across deploys so an old
// snapshot can always be rehydrated.
type persistedCart struct {
	Items []persistedLine `json:"items"`
	Total int             `json:"total"`
}

type persistedLine struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Image    string `json:"image,omitempty"`
	Quantity int    `json:"quantity"`
}

// cartKV is the slice of the Redis client the persister needs.
type cartKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CartKey(ownerID string) string
}

// RedisPersister saves cart snapshots under the shared cart keyspace.
type RedisPersister struct {
	client cartKV
	ttl    time.Duration
}

// NewRedisPersister wires a persister around the Redis client. A zero ttl
// keeps snapshots until overwritten.
func NewRedisPersister(client cartKV, ttl time.Duration) (*RedisPersister, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &RedisPersister{client: client, ttl: ttl}, nil
}

// Load reads the owner's snapshot. A missing key or an unreadable payload
// yields an empty snapshot; the cart must always be usable.
func (p *RedisPersister) Load(ctx context.Context, ownerID string) (Snapshot, error) {
	raw, err := p.client.Get(ctx, p.client.CartKey(ownerID))
	if err != nil {
		if redis.IsNil(err) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("loading cart for %s: %w", ownerID, err)
	}

	var stored persistedCart
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return Snapshot{}, nil
	}

	items := make([]LineItem, 0, len(stored.Items))
	for _, line := range stored.Items {
		id, err := uuid.Parse(line.ID)
		if err != nil || line.Quantity <= 0 || line.Price < 0 {
			continue
		}
		items = append(items, LineItem{
			ProductID:      id,
			Name:           line.Name,
			UnitPriceCents: line.Price,
			Quantity:       line.Quantity,
			ImageURL:       line.Image,
		})
	}

	snap := Snapshot{Items: items}
	snap.TotalCents = totalCents(items)
	snap.ItemCount = itemCount(items)
	return snap, nil
}

// Save writes the snapshot, overwriting whatever was there.
func (p *RedisPersister) Save(ctx context.Context, ownerID string, snap Snapshot) error {
	stored := persistedCart{
		Items: make([]persistedLine, 0, len(snap.Items)),
		Total: snap.TotalCents,
	}
	for _, li := range snap.Items {
		stored.Items = append(stored.Items, persistedLine{
			ID:       li.ProductID.String(),
			Name:     li.Name,
			Price:    li.UnitPriceCents,
			Image:    li.ImageURL,
			Quantity: li.Quantity,
		})
	}

	payload, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encoding cart for %s: %w", ownerID, err)
	}
	if err := p.client.Set(ctx, p.client.CartKey(ownerID), string(payload), p.ttl); err != nil {
		return fmt.Errorf("saving cart for %s: %w", ownerID, err)
	}
	return nil
}

package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rl1809/cart-sync/internal/core/domain"
)

// MemoryCartRepository keeps carts in process. It serializes every commit
// behind one mutex and applies the same version check as MySQLAdapter.
type MemoryCartRepository struct {
	mu    sync.Mutex
	carts map[string]domain.Cart
	now   func() time.Time
}

func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{
		carts: make(map[string]domain.Cart),
		now:   time.Now,
	}
}

func (m *MemoryCartRepository) GetCart(ctx context.Context, username string) (domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.carts[username]
	if !ok {
		return domain.Cart{}, domain.ErrCartNotFound
	}
	return clone(stored), nil
}

func (m *MemoryCartRepository) CreateCart(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.carts[cart.Username]; ok {
		return domain.Cart{}, domain.ErrCartExists
	}

	cart.Items = []domain.CartItem{}
	cart.Version = 0
	m.carts[cart.Username] = clone(cart)
	return clone(cart), nil
}

func (m *MemoryCartRepository) Commit(ctx context.Context, sets []domain.CartChangeSet) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	staged := make(map[string]domain.Cart, len(sets))
	rows := 0

	for _, set := range sets {
		cart, ok := staged[set.Username]
		if !ok {
			stored, exists := m.carts[set.Username]
			if !exists {
				return 0, fmt.Errorf("commit %q: %w", set.Username, domain.ErrCartNotFound)
			}
			cart = clone(stored)
		}
		if cart.Version != set.ExpectedVersion {
			return 0, fmt.Errorf("commit %q: expected version %d, got %d: %w",
				set.Username, set.ExpectedVersion, cart.Version, domain.ErrConflict)
		}

		for _, ch := range set.Changes {
			if err := applyChange(&cart, ch); err != nil {
				return 0, fmt.Errorf("commit %q: %w", set.Username, err)
			}
			rows++
		}

		cart.Version++
		cart.UpdatedAt = m.now()
		staged[set.Username] = cart
	}

	for username, cart := range staged {
		m.carts[username] = cart
	}
	return rows, nil
}

func applyChange(cart *domain.Cart, ch domain.ItemChange) error {
	idx := -1
	for i := range cart.Items {
		if cart.Items[i].ProductID == ch.Item.ProductID {
			idx = i
			break
		}
	}

	switch ch.Kind {
	case domain.ChangeInsert:
		if idx >= 0 {
			return fmt.Errorf("insert product %d: %w", ch.Item.ProductID, domain.ErrConflict)
		}
		cart.Items = append(cart.Items, ch.Item)
	case domain.ChangeUpdate:
		if idx < 0 {
			return fmt.Errorf("update product %d: %w", ch.Item.ProductID, domain.ErrConflict)
		}
		cart.Items[idx] = ch.Item
	case domain.ChangeDelete:
		if idx < 0 {
			return fmt.Errorf("delete product %d: %w", ch.Item.ProductID, domain.ErrConflict)
		}
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	default:
		return fmt.Errorf("unknown change kind %d", ch.Kind)
	}
	return nil
}

func clone(c domain.Cart) domain.Cart {
	items := make([]domain.CartItem, len(c.Items))
	copy(items, c.Items)
	c.Items = items
	c.Track()
	return c
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/rl1809/cart-sync/internal/adapter/storage"
	"github.com/rl1809/cart-sync/internal/core/domain"
	"github.com/rl1809/cart-sync/internal/port"
)

// Mock DiscountLookup
type mockDiscounts struct {
	mu      sync.Mutex
	amounts map[string]int64
	calls   int
}

func newMockDiscounts() *mockDiscounts {
	return &mockDiscounts{amounts: map[string]int64{"CODE_100": 100, "CODE_200": 200, "CODE_300": 300}}
}

func (m *mockDiscounts) GetDiscount(ctx context.Context, code string) (domain.Discount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	amount, ok := m.amounts[code]
	if !ok {
		return domain.Discount{}, domain.ErrDiscountNotFound
	}
	return domain.Discount{Code: code, Amount: decimal.NewFromInt(amount)}, nil
}

// Mock EventPublisher
type mockPublisher struct {
	mu     sync.Mutex
	events []port.CartEvent
}

func (m *mockPublisher) Publish(ctx context.Context, event port.CartEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

// countingRepo records commits made through the in-memory repository.
type countingRepo struct {
	*storage.MemoryCartRepository
	mu      sync.Mutex
	commits int
}

func (r *countingRepo) Commit(ctx context.Context, sets []domain.CartChangeSet) (int, error) {
	r.mu.Lock()
	r.commits++
	r.mu.Unlock()
	return r.MemoryCartRepository.Commit(ctx, sets)
}

type fixture struct {
	svc       *CartService
	repo      *countingRepo
	discounts *mockDiscounts
	events    *mockPublisher
}

func newFixture(t *testing.T, opts CartOptions, owners ...string) *fixture {
	t.Helper()

	f := &fixture{
		repo:      &countingRepo{MemoryCartRepository: storage.NewMemoryCartRepository()},
		discounts: newMockDiscounts(),
		events:    &mockPublisher{},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewCartService(f.repo, f.discounts, storage.NewMemoryLocker(), f.events, opts, log)

	for _, u := range owners {
		_, err := f.svc.CreateCart(context.Background(), u)
		require.NoError(t, err)
	}
	return f
}

func item(id int64, price int64) domain.CartItem {
	return domain.CartItem{
		ProductID:   id,
		ProductName: fmt.Sprintf("product-%d", id),
		Price:       decimal.NewFromInt(price),
		Color:       domain.DefaultColor,
		Quantity:    1,
	}
}

func addAll(ctx context.Context, svc *CartService, reqs ...domain.AddItemRequest) (domain.AddItemsResult, error) {
	batch := svc.NewAddItemsBatch()
	for _, req := range reqs {
		if err := batch.Add(ctx, req); err != nil {
			return domain.AddItemsResult{}, err
		}
	}
	return batch.Commit(ctx)
}

func TestCreateCart_Twice(t *testing.T) {
	f := newFixture(t, CartOptions{})
	ctx := context.Background()

	cart, err := f.svc.CreateCart(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", cart.Username)
	assert.Empty(t, cart.Items)

	_, err = f.svc.CreateCart(ctx, "alice")
	require.ErrorIs(t, err, domain.ErrCartExists)

	got, err := f.svc.GetCart(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	f.svc.Drain()
	assert.Equal(t, []string{EventCartCreated}, f.events.types())
}

func TestCreateCart_EmptyUsername(t *testing.T) {
	f := newFixture(t, CartOptions{})

	_, err := f.svc.CreateCart(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrEmptyUsername)
}

func TestGetCart_NotFound(t *testing.T) {
	f := newFixture(t, CartOptions{})

	_, err := f.svc.GetCart(context.Background(), "nobody")
	require.ErrorIs(t, err, domain.ErrCartNotFound)
}

func TestAddItems_FirstInsertIsDiscounted(t *testing.T) {
	f := newFixture(t, CartOptions{}, "alice")
	ctx := context.Background()

	result, err := addAll(ctx, f.svc,
		domain.AddItemRequest{Username: "alice", DiscountCode: "CODE_100", Item: item(1, 699)},
		domain.AddItemRequest{Username: "alice", DiscountCode: "CODE_100", Item: item(2, 899)},
		domain.AddItemRequest{Username: "alice", DiscountCode: "CODE_100", Item: item(3, 399)},
	)
	require.NoError(t, err)
	assert.Equal(t, domain.AddItemsResult{Success: true, InsertCount: 3}, result)

	cart, err := f.svc.GetCart(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, cart.Items, 3)
	for i, want := range []int64{599, 799, 299} {
		assert.True(t, decimal.NewFromInt(want).Equal(cart.Items[i].Price), "item %d price %s", i, cart.Items[i].Price)
		assert.Equal(t, 1, cart.Items[i].Quantity)
	}
	assert.Equal(t, 1, cart.Version)
	f.svc.Drain()
	assert.Equal(t, []string{EventCartCreated, EventCartUpdated}, f.events.types())
}

func TestAddItems_RepeatIncrementsWithoutRepricing(t *testing.T) {
	f := newFixture(t, CartOptions{}, "alice")
	ctx := context.Background()

	_, err := addAll(ctx, f.svc, domain.AddItemRequest{Username: "alice", DiscountCode: "CODE_100", Item: item(1, 699)})
	require.NoError(t, err)

	result, err := addAll(ctx, f.svc, domain.AddItemRequest{Username: "alice", DiscountCode: "CODE_300", Item: item(1, 10)})
	require.NoError(t, err)
	assert.Equal(t, domain.AddItemsResult{Success: true, InsertCount: 1}, result)

	cart, err := f.svc.GetCart(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(599).Equal(cart.Items[0].Price))
	assert.Equal(t, 1, f.discounts.calls)
}

func TestAddItems_DuplicateWithinOneStream(t *testing.T) {
	f := newFixture(t, CartOptions{}, "alice")
	ctx := context.Background()

	result, err := addAll(ctx, f.svc,
		domain.AddItemRequest{Username: "alice", DiscountCode: "CODE_100", Item: item(1, 699)},
		domain.AddItemRequest{Username: "alice", DiscountCode: "CODE_100", Item: item(1, 699)},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, result.InsertCount)

	cart, err := f.svc.GetCart(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestAddItems_UnknownCodeFailsWholeStream(t *testing.T) {
	f := newFixture(t, CartOptions{}, "alice")
	ctx := context.Background()

	_, err := addAll(ctx, f.svc,
		domain.AddItemRequest{Username: "alice", DiscountCode: "CODE_100", Item: item(1, 699)},
		domain.AddItemRequest{Username: "alice", DiscountCode: "NOPE", Item: item(2, 899)},
	)
	require.ErrorIs(t, err, domain.ErrDiscountNotFound)

	cart, err := f.svc.GetCart(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, f.repo.commits)
}

func TestAddItems_UnknownCodeAtZero(t *testing.T) {
	f := newFixture(t, CartOptions{UnknownDiscount: domain.UnknownDiscountZero}, "alice")
	ctx := context.Background()

	_, err := addAll(ctx, f.svc, domain.AddItemRequest{Username: "alice", DiscountCode: "NOPE", Item: item(2, 899)})
	require.NoError(t, err)

	cart, err := f.svc.GetCart(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.True(t, decimal.NewFromInt(899).Equal(cart.Items[0].Price))
}

func TestAddItems_MissingCartMidStreamCommitsNothing(t *testing.T) {
	f := newFixture(t, CartOptions{}, "alice")
	ctx := context.Background()

	_, err := addAll(ctx, f.svc,
		domain.AddItemRequest{Username: "alice", DiscountCode: "CODE_100", Item: item(1, 699)},
		domain.AddItemRequest{Username: "bob", DiscountCode: "CODE_100", Item: item(1, 699)},
	)
	require.ErrorIs(t, err, domain.ErrCartNotFound)

	cart, err := f.svc.GetCart(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.Version)
}

func TestAddItems_PricingPolicies(t *testing.T) {
	cases := []struct {
		policy  domain.PricingPolicy
		want    int64
		wantErr error
	}{
		{policy: domain.PricingClampAtZero, want: 0},
		{policy: domain.PricingAllowNegative, want: -200},
		{policy: domain.PricingRejectNegative, wantErr: domain.ErrNegativePrice},
	}

	for _, tc := range cases {
		t.Run(string(tc.policy), func(t *testing.T) {
			f := newFixture(t, CartOptions{Pricing: tc.policy}, "alice")
			ctx := context.Background()

			_, err := addAll(ctx, f.svc, domain.AddItemRequest{Username: "alice", DiscountCode: "CODE_300", Item: item(1, 100)})
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)

			cart, err := f.svc.GetCart(ctx, "alice")
			require.NoError(t, err)
			require.Len(t, cart.Items, 1)
			assert.True(t, decimal.NewFromInt(tc.want).Equal(cart.Items[0].Price), "got %s", cart.Items[0].Price)
		})
	}
}

func TestAddItems_InvalidQuantity(t *testing.T) {
	f := newFixture(t, CartOptions{}, "alice")

	bad := item(1, 699)
	bad.Quantity = 0
	_, err := addAll(context.Background(), f.svc, domain.AddItemRequest{Username: "alice", DiscountCode: "CODE_100", Item: bad})
	require.ErrorIs(t, err, domain.ErrInvalidItem)
}

func TestAddItems_EmptyStream(t *testing.T) {
	f := newFixture(t, CartOptions{}, "alice")

	result, err := addAll(context.Background(), f.svc)
	require.NoError(t, err)
	assert.Equal(t, domain.AddItemsResult{}, result)
	assert.Zero(t, f.repo.commits)
}

func TestRemoveItem(t *testing.T) {
	f := newFixture(t, CartOptions{}, "alice")
	ctx := context.Background()

	_, err := addAll(ctx, f.svc,
		domain.AddItemRequest{Username: "alice", DiscountCode: "CODE_100", Item: item(1, 699)},
		domain.AddItemRequest{Username: "alice", DiscountCode: "CODE_100", Item: item(2, 899)},
	)
	require.NoError(t, err)

	ok, err := f.svc.RemoveItem(ctx, "alice", 1)
	require.NoError(t, err)
	assert.True(t, ok)

	cart, err := f.svc.GetCart(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(2), cart.Items[0].ProductID)
}

func TestRemoveItem_NotFound(t *testing.T) {
	f := newFixture(t, CartOptions{}, "alice")
	ctx := context.Background()

	_, err := addAll(ctx, f.svc, domain.AddItemRequest{Username: "alice", DiscountCode: "CODE_100", Item: item(2, 899)})
	require.NoError(t, err)
	before, err := f.svc.GetCart(ctx, "alice")
	require.NoError(t, err)

	_, err = f.svc.RemoveItem(ctx, "alice", 1)
	require.ErrorIs(t, err, domain.ErrItemNotFound)

	_, err = f.svc.RemoveItem(ctx, "nobody", 1)
	require.ErrorIs(t, err, domain.ErrCartNotFound)

	after, err := f.svc.GetCart(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, before.Items, after.Items)
	assert.Equal(t, before.Version, after.Version)
}

func TestAddItems_ConcurrentStreamsSameOwner(t *testing.T) {
	f := newFixture(t, CartOptions{}, "alice")
	ctx := context.Background()

	const streams = 20
	var g errgroup.Group
	for i := 0; i < streams; i++ {
		id := int64(i%5 + 1)
		g.Go(func() error {
			_, err := addAll(ctx, f.svc, domain.AddItemRequest{Username: "alice", DiscountCode: "CODE_100", Item: item(id, 699)})
			return err
		})
	}
	require.NoError(t, g.Wait())

	cart, err := f.svc.GetCart(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, cart.Items, 5)

	total := 0
	for _, it := range cart.Items {
		total += it.Quantity
	}
	assert.Equal(t, streams, total)
	assert.Equal(t, streams, cart.Version)
}

type failingLocker struct{}

func (failingLocker) Lock(context.Context, ...string) (func(), error) {
	return nil, domain.ErrLockTimeout
}

func TestAddItems_LockTimeout(t *testing.T) {
	repo := storage.NewMemoryCartRepository()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewCartService(repo, newMockDiscounts(), failingLocker{}, &mockPublisher{}, CartOptions{}, log)
	ctx := context.Background()

	_, err := svc.CreateCart(ctx, "alice")
	require.NoError(t, err)

	_, err = addAll(ctx, svc, domain.AddItemRequest{Username: "alice", DiscountCode: "CODE_100", Item: item(1, 699)})
	require.True(t, errors.Is(err, domain.ErrLockTimeout))
}

// blockingPublisher holds every Publish until release is closed.
type blockingPublisher struct {
	release chan struct{}
	mu      sync.Mutex
	ctxErrs []error
	events  []port.CartEvent
}

func (p *blockingPublisher) Publish(ctx context.Context, event port.CartEvent) error {
	<-p.release
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ctxErrs = append(p.ctxErrs, ctx.Err())
	p.events = append(p.events, event)
	return nil
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, port.CartEvent) error {
	return errors.New("broker unreachable")
}

func TestPublish_SlowBrokerDoesNotDelayCaller(t *testing.T) {
	events := &blockingPublisher{release: make(chan struct{})}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewCartService(storage.NewMemoryCartRepository(), newMockDiscounts(), storage.NewMemoryLocker(), events, CartOptions{PublishTimeout: time.Minute}, log)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	start := time.Now()
	_, err := svc.CreateCart(ctx, "bob")
	require.NoError(t, err)
	_, err = addAll(ctx, svc, domain.AddItemRequest{Username: "bob", DiscountCode: "CODE_100", Item: item(1, 699)})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 300*time.Millisecond)
	cancel()

	close(events.release)
	svc.Drain()

	events.mu.Lock()
	defer events.mu.Unlock()
	require.Len(t, events.events, 2)
	assert.Equal(t, EventCartCreated, events.events[0].Type)
	assert.Equal(t, EventCartUpdated, events.events[1].Type)
	for _, err := range events.ctxErrs {
		assert.NoError(t, err)
	}
}

func TestPublish_FailureDoesNotFailCall(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewCartService(storage.NewMemoryCartRepository(), newMockDiscounts(), storage.NewMemoryLocker(), failingPublisher{}, CartOptions{}, log)
	ctx := context.Background()

	_, err := svc.CreateCart(ctx, "carol")
	require.NoError(t, err)
	result, err := addAll(ctx, svc, domain.AddItemRequest{Username: "carol", DiscountCode: "CODE_100", Item: item(1, 699)})
	require.NoError(t, err)
	assert.Equal(t, 1, result.InsertCount)
	svc.Drain()
}

package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/cart-sync/internal/core/domain"
	"github.com/rl1809/cart-sync/internal/port"
)

type fakeTokens struct {
	token string
	err   error
}

func (f fakeTokens) Token(context.Context) (string, error) {
	return f.token, f.err
}

type fakeCarts struct {
	mu        sync.Mutex
	carts     map[string]bool
	getErr    error
	getErrs   []error // returned once each, before getErr
	tokens    []string
	created   []string
	sent      []domain.AddItemRequest
	closed    bool
	streamCtx context.Context
}

func (f *fakeCarts) GetCart(_ context.Context, token, username string) (domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	if len(f.getErrs) > 0 {
		err := f.getErrs[0]
		f.getErrs = f.getErrs[1:]
		return domain.Cart{}, err
	}
	if f.getErr != nil {
		return domain.Cart{}, f.getErr
	}
	if !f.carts[username] {
		return domain.Cart{}, domain.ErrCartNotFound
	}
	return domain.Cart{Username: username}, nil
}

func (f *fakeCarts) CreateCart(_ context.Context, token, username string) (domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	if f.carts[username] {
		return domain.Cart{}, domain.ErrCartExists
	}
	f.carts[username] = true
	f.created = append(f.created, username)
	return domain.Cart{Username: username}, nil
}

func (f *fakeCarts) OpenAddStream(ctx context.Context, token string) (port.CartAddStream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	f.streamCtx = ctx
	return f, nil
}

func (f *fakeCarts) Send(req domain.AddItemRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, req)
	return nil
}

func (f *fakeCarts) CloseAndRecv() (domain.AddItemsResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return domain.AddItemsResult{Success: len(f.sent) > 0, InsertCount: len(f.sent)}, nil
}

type fakeCatalog struct {
	products []domain.Product
	failAt   int
	tokens   []string
}

func (f *fakeCatalog) StreamProducts(_ context.Context, token string) (port.ProductStream, error) {
	f.tokens = append(f.tokens, token)
	return &fakeProductStream{catalog: f}, nil
}

type fakeProductStream struct {
	catalog *fakeCatalog
	next    int
}

func (s *fakeProductStream) Recv() (domain.Product, error) {
	if s.catalog.failAt > 0 && s.next == s.catalog.failAt {
		return domain.Product{}, errors.New("catalog went away")
	}
	if s.next >= len(s.catalog.products) {
		return domain.Product{}, io.EOF
	}
	p := s.catalog.products[s.next]
	s.next++
	return p, nil
}

type fakeSession struct {
	carts   *fakeCarts
	catalog *fakeCatalog
	closes  int
}

func (s *fakeSession) Carts() port.CartGateway     { return s.carts }
func (s *fakeSession) Catalog() port.CatalogGateway { return s.catalog }
func (s *fakeSession) Close() error {
	s.closes++
	return nil
}

type fakeSessions struct {
	mu       sync.Mutex
	session  *fakeSession
	opens    int
	openedAt []time.Time
}

func (f *fakeSessions) Open(context.Context) (port.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opens++
	f.openedAt = append(f.openedAt, time.Now())
	return f.session, nil
}

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Mi10T", Price: decimal.NewFromInt(699)},
		{ID: 2, Name: "P40", Price: decimal.NewFromInt(899)},
		{ID: 3, Name: "A50", Price: decimal.NewFromInt(399)},
	}
}

func newTestWorker(tokens port.TokenSource, sess *fakeSession) (*SyncWorker, *fakeSessions) {
	sessions := &fakeSessions{session: sess}
	w := NewSyncWorker(Config{
		Username:     "alice",
		DiscountCode: "CODE_100",
		Interval:     time.Millisecond,
	}, sessions, tokens, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return w, sessions
}

func TestRunCycle_CreatesCartAndStreamsCatalog(t *testing.T) {
	sess := &fakeSession{
		carts:   &fakeCarts{carts: map[string]bool{}},
		catalog: &fakeCatalog{products: testProducts()},
	}
	w, _ := newTestWorker(fakeTokens{token: "tok"}, sess)

	result, err := w.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, CycleResult{Products: 3, Success: true, InsertCount: 3}, result)
	assert.Equal(t, []string{"alice"}, sess.carts.created)
	assert.True(t, sess.carts.closed)
	assert.Equal(t, 1, sess.closes)

	require.Len(t, sess.carts.sent, 3)
	for i, req := range sess.carts.sent {
		assert.Equal(t, "alice", req.Username)
		assert.Equal(t, "CODE_100", req.DiscountCode)
		assert.Equal(t, domain.DefaultColor, req.Item.Color)
		assert.Equal(t, 1, req.Item.Quantity)
		assert.Equal(t, testProducts()[i].ID, req.Item.ProductID)
		assert.True(t, testProducts()[i].Price.Equal(req.Item.Price))
	}

	for _, tok := range append(sess.carts.tokens, sess.catalog.tokens...) {
		assert.Equal(t, "tok", tok)
	}
}

func TestRunCycle_ExistingCartIsNotRecreated(t *testing.T) {
	sess := &fakeSession{
		carts:   &fakeCarts{carts: map[string]bool{"alice": true}},
		catalog: &fakeCatalog{products: testProducts()},
	}
	w, _ := newTestWorker(fakeTokens{token: "tok"}, sess)

	_, err := w.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sess.carts.created)
}

func TestRunCycle_TokenFailureProceedsWithoutToken(t *testing.T) {
	sess := &fakeSession{
		carts:   &fakeCarts{carts: map[string]bool{}},
		catalog: &fakeCatalog{products: testProducts()},
	}
	w, _ := newTestWorker(fakeTokens{err: errors.New("issuer down")}, sess)

	result, err := w.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.InsertCount)
	for _, tok := range sess.carts.tokens {
		assert.Empty(t, tok)
	}
}

func TestRunCycle_GetCartFailureAbortsCycle(t *testing.T) {
	boom := errors.New("unavailable")
	sess := &fakeSession{
		carts:   &fakeCarts{carts: map[string]bool{}, getErr: boom},
		catalog: &fakeCatalog{products: testProducts()},
	}
	w, _ := newTestWorker(fakeTokens{token: "tok"}, sess)

	_, err := w.RunCycle(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Empty(t, sess.carts.created)
	assert.Nil(t, sess.carts.streamCtx)
	assert.Equal(t, 1, sess.closes)
}

func TestRunCycle_CatalogFailureCancelsAddStream(t *testing.T) {
	sess := &fakeSession{
		carts:   &fakeCarts{carts: map[string]bool{"alice": true}},
		catalog: &fakeCatalog{products: testProducts(), failAt: 2},
	}
	w, _ := newTestWorker(fakeTokens{token: "tok"}, sess)

	_, err := w.RunCycle(context.Background())
	require.Error(t, err)
	assert.False(t, sess.carts.closed)
	assert.Len(t, sess.carts.sent, 2)
	require.NotNil(t, sess.carts.streamCtx)
	assert.ErrorIs(t, sess.carts.streamCtx.Err(), context.Canceled)
	assert.Equal(t, 1, sess.closes)
}

func TestRun_StopsOnCancel(t *testing.T) {
	sess := &fakeSession{
		carts:   &fakeCarts{carts: map[string]bool{}},
		catalog: &fakeCatalog{products: testProducts()},
	}
	w, sessions := newTestWorker(fakeTokens{token: "tok"}, sess)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		sessions.mu.Lock()
		defer sessions.mu.Unlock()
		return sessions.opens >= 2
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestRun_FailedCycleWaitsForNextTick(t *testing.T) {
	sess := &fakeSession{
		carts: &fakeCarts{
			carts:   map[string]bool{},
			getErrs: []error{errors.New("cart service unavailable")},
		},
		catalog: &fakeCatalog{products: testProducts()},
	}
	sessions := &fakeSessions{session: sess}
	interval := 150 * time.Millisecond
	w := NewSyncWorker(Config{
		Username:     "alice",
		DiscountCode: "CODE_100",
		Interval:     interval,
	}, sessions, fakeTokens{token: "tok"}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		sess.carts.mu.Lock()
		defer sess.carts.mu.Unlock()
		return sess.carts.closed
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}

	sessions.mu.Lock()
	openedAt := append([]time.Time(nil), sessions.openedAt...)
	sessions.mu.Unlock()
	require.GreaterOrEqual(t, len(openedAt), 2)
	assert.GreaterOrEqual(t, openedAt[1].Sub(openedAt[0]), interval)

	sess.carts.mu.Lock()
	defer sess.carts.mu.Unlock()
	assert.Equal(t, []string{"alice"}, sess.carts.created)
	assert.GreaterOrEqual(t, len(sess.carts.sent), 3)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rl1809/cart-sync/internal/core/domain"
	"github.com/rl1809/cart-sync/internal/port"
)

const (
	EventCartCreated = "CartCreated"
	EventCartUpdated = "CartUpdated"
)

var tracer = otel.Tracer("github.com/rl1809/cart-sync/internal/core/service")

const (
	defaultPublishTimeout = 5 * time.Second
	outboxSize            = 1024
)

type CartOptions struct {
	Pricing         domain.PricingPolicy
	UnknownDiscount domain.UnknownDiscountPolicy
	// PublishTimeout bounds one event publish. Publishing runs after the
	// response and is not tied to the caller's context.
	PublishTimeout time.Duration
}

type CartService struct {
	repo      port.CartRepository
	discounts port.DiscountLookup
	locker    port.CartLocker
	events    port.EventPublisher
	opts      CartOptions
	log       *slog.Logger
	now       func() time.Time

	outbox  chan outboundEvent
	pending sync.WaitGroup
}

type outboundEvent struct {
	ctx   context.Context
	event port.CartEvent
}

func NewCartService(
	repo port.CartRepository,
	discounts port.DiscountLookup,
	locker port.CartLocker,
	events port.EventPublisher,
	opts CartOptions,
	log *slog.Logger,
) *CartService {
	if opts.Pricing == "" {
		opts.Pricing = domain.PricingClampAtZero
	}
	if opts.UnknownDiscount == "" {
		opts.UnknownDiscount = domain.UnknownDiscountReject
	}
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = defaultPublishTimeout
	}
	s := &CartService{
		repo:      repo,
		discounts: discounts,
		locker:    locker,
		events:    events,
		opts:      opts,
		log:       log,
		now:       time.Now,
		outbox:    make(chan outboundEvent, outboxSize),
	}
	go s.dispatch()
	return s
}

func (s *CartService) GetCart(ctx context.Context, username string) (domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, username)
	if err != nil {
		return domain.Cart{}, err
	}
	s.log.Info("cart loaded", "username", username, "items", len(cart.Items))
	return cart, nil
}

func (s *CartService) CreateCart(ctx context.Context, username string) (domain.Cart, error) {
	if username == "" {
		return domain.Cart{}, domain.ErrEmptyUsername
	}

	cart, err := s.repo.CreateCart(ctx, domain.NewCart(username, s.now()))
	if err != nil {
		if errors.Is(err, domain.ErrCartExists) {
			s.log.Info("cart creation rejected, owner already has a cart", "username", username)
		}
		return domain.Cart{}, err
	}

	s.log.Info("cart created", "username", username)
	s.publish(ctx, EventCartCreated, cart, 0)
	return cart, nil
}

// RemoveItem deletes one line item. The returned flag reports whether the
// commit wrote at least one row.
func (s *CartService) RemoveItem(ctx context.Context, username string, productID int64) (bool, error) {
	unlock, err := s.locker.Lock(ctx, username)
	if err != nil {
		return false, err
	}
	defer unlock()

	cart, err := s.repo.GetCart(ctx, username)
	if err != nil {
		return false, err
	}
	if err := cart.RemoveItem(productID); err != nil {
		return false, fmt.Errorf("product %d: %w", productID, err)
	}

	n, err := s.repo.Commit(ctx, []domain.CartChangeSet{cart.ChangeSet()})
	if err != nil {
		return false, err
	}

	cart.Version++
	s.publish(ctx, EventCartUpdated, cart, n)
	return n > 0, nil
}

// NewAddItemsBatch starts a unit of work for one AddItems stream. Elements
// are applied in memory as they arrive and written by a single Commit.
func (s *CartService) NewAddItemsBatch() *AddItemsBatch {
	return &AddItemsBatch{
		svc:     s,
		preview: make(map[string]*domain.Cart),
	}
}

func (s *CartService) unitPrice(ctx context.Context, req domain.AddItemRequest) (decimal.Decimal, error) {
	amount := decimal.Zero

	discount, err := s.discounts.GetDiscount(ctx, req.DiscountCode)
	switch {
	case err == nil:
		amount = discount.Amount
	case errors.Is(err, domain.ErrDiscountNotFound) && s.opts.UnknownDiscount == domain.UnknownDiscountZero:
		s.log.Warn("unknown discount code priced at zero", "code", req.DiscountCode)
	default:
		return decimal.Zero, fmt.Errorf("discount %q: %w", req.DiscountCode, err)
	}

	return s.opts.Pricing.DiscountedPrice(req.Item.Price, amount)
}

// publish queues the event for the dispatcher so a slow broker never delays
// or fails a call whose commit already happened. Events leave in the order
// they were queued.
func (s *CartService) publish(ctx context.Context, eventType string, cart domain.Cart, rows int) {
	event := port.CartEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		Username:    cart.Username,
		RowsWritten: rows,
		ItemCount:   len(cart.Items),
		Version:     cart.Version,
	}

	s.pending.Add(1)
	select {
	case s.outbox <- outboundEvent{ctx: context.WithoutCancel(ctx), event: event}:
	default:
		s.pending.Done()
		s.log.Error("cart event dropped, outbox full", "type", eventType, "username", cart.Username)
	}
}

func (s *CartService) dispatch() {
	for out := range s.outbox {
		ctx, cancel := context.WithTimeout(out.ctx, s.opts.PublishTimeout)
		if err := s.events.Publish(ctx, out.event); err != nil {
			s.log.Error("failed to publish cart event", "type", out.event.Type, "username", out.event.Username, "err", err)
		}
		cancel()
		s.pending.Done()
	}
}

// Drain blocks until every queued event has been handed to the publisher.
func (s *CartService) Drain() {
	s.pending.Wait()
}

type AddItemsBatch struct {
	svc      *CartService
	preview  map[string]*domain.Cart
	order    []string
	ops      []addOp
	received int
}

// addOp is one resolved element. item always carries the unit price the
// line should have if it has to be inserted.
type addOp struct {
	username string
	item     domain.CartItem
}

// Add validates one element against the batch's view of the cart and
// records it: a product already in the cart gets its quantity bumped by one
// at the price it was first added with, a new product is priced against the
// discount service.
func (b *AddItemsBatch) Add(ctx context.Context, req domain.AddItemRequest) error {
	b.received++

	cart, err := b.cart(ctx, req.Username)
	if err != nil {
		return err
	}

	productID := req.Item.ProductID
	if existing, ok := cart.Item(productID); ok {
		if err := cart.IncrementQuantity(productID); err != nil {
			return err
		}
		existing.Quantity = 1
		b.ops = append(b.ops, addOp{username: req.Username, item: existing})
		return nil
	}

	if req.Item.Quantity < 1 {
		return fmt.Errorf("product %d quantity %d: %w", productID, req.Item.Quantity, domain.ErrInvalidItem)
	}

	price, err := b.svc.unitPrice(ctx, req)
	if err != nil {
		return fmt.Errorf("product %d: %w", productID, err)
	}

	item := req.Item
	item.Price = price
	if err := cart.AddItem(item); err != nil {
		return err
	}
	b.ops = append(b.ops, addOp{username: req.Username, item: item})
	return nil
}

func (b *AddItemsBatch) cart(ctx context.Context, username string) (*domain.Cart, error) {
	if c, ok := b.preview[username]; ok {
		return c, nil
	}

	c, err := b.svc.repo.GetCart(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("username %q: %w", username, err)
	}
	b.preview[username] = &c
	b.order = append(b.order, username)
	return &c, nil
}

// Commit takes the owners' commit locks, reloads their carts, replays the
// recorded elements onto the fresh state and writes everything in one
// repository commit.
func (b *AddItemsBatch) Commit(ctx context.Context) (domain.AddItemsResult, error) {
	ctx, span := tracer.Start(ctx, "CartService.AddItems.Commit")
	defer span.End()

	span.SetAttributes(
		attribute.Int("cart.elements", b.received),
		attribute.Int("cart.owners", len(b.order)),
	)

	if len(b.ops) == 0 {
		return domain.AddItemsResult{}, nil
	}

	fail := func(stage string, err error) (domain.AddItemsResult, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, stage)
		return domain.AddItemsResult{}, err
	}

	unlock, err := b.svc.locker.Lock(ctx, b.order...)
	if err != nil {
		return fail("lock", err)
	}
	defer unlock()

	carts := make(map[string]*domain.Cart, len(b.order))
	for _, username := range b.order {
		c, err := b.svc.repo.GetCart(ctx, username)
		if err != nil {
			return fail("reload", fmt.Errorf("username %q: %w", username, err))
		}
		carts[username] = &c
	}

	for _, op := range b.ops {
		cart := carts[op.username]
		if _, ok := cart.Item(op.item.ProductID); ok {
			err = cart.IncrementQuantity(op.item.ProductID)
		} else {
			err = cart.AddItem(op.item)
		}
		if err != nil {
			return fail("replay", fmt.Errorf("username %q product %d: %w", op.username, op.item.ProductID, err))
		}
	}

	sets := make([]domain.CartChangeSet, 0, len(b.order))
	for _, username := range b.order {
		if set := carts[username].ChangeSet(); len(set.Changes) > 0 {
			sets = append(sets, set)
		}
	}

	n, err := b.svc.repo.Commit(ctx, sets)
	if err != nil {
		return fail("commit", err)
	}

	b.svc.log.Info("cart items committed", "elements", b.received, "owners", len(sets), "rows", n)

	for _, set := range sets {
		cart := *carts[set.Username]
		cart.Version++
		b.svc.publish(ctx, EventCartUpdated, cart, len(set.Changes))
	}

	return domain.AddItemsResult{Success: n > 0, InsertCount: n}, nil
}

package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rl1809/cart-sync/internal/core/domain"
	"github.com/rl1809/cart-sync/internal/port"
)

var tracer = otel.Tracer("github.com/rl1809/cart-sync/internal/core/worker")

type Config struct {
	Username     string
	DiscountCode string
	Color        string
	Interval     time.Duration
	StartDelay   time.Duration
	CycleTimeout time.Duration
}

type CycleResult struct {
	Products    int
	Success     bool
	InsertCount int
}

// SyncWorker copies the full catalog into one user's cart on every cycle.
type SyncWorker struct {
	cfg      Config
	sessions port.SessionFactory
	tokens   port.TokenSource
	log      *slog.Logger
}

func NewSyncWorker(cfg Config, sessions port.SessionFactory, tokens port.TokenSource, log *slog.Logger) *SyncWorker {
	if cfg.Color == "" {
		cfg.Color = domain.DefaultColor
	}
	return &SyncWorker{cfg: cfg, sessions: sessions, tokens: tokens, log: log}
}

// Run repeats cycles until ctx is cancelled. A failed cycle is logged and
// the next one starts at the regular interval.
func (w *SyncWorker) Run(ctx context.Context) error {
	w.log.Info("sync worker started",
		"username", w.cfg.Username,
		"interval", w.cfg.Interval,
		"discount_code", w.cfg.DiscountCode,
	)

	return loop(ctx, w.log, w.cfg.StartDelay, w.cfg.Interval, func(ctx context.Context) error {
		_, err := w.RunCycle(ctx)
		return err
	})
}

func (w *SyncWorker) RunCycle(ctx context.Context) (CycleResult, error) {
	cycleID := uuid.NewString()
	log := w.log.With("cycle_id", cycleID)

	ctx, span := tracer.Start(ctx, "SyncWorker.Cycle", trace.WithAttributes(
		attribute.String("cycle.id", cycleID),
		attribute.String("cart.username", w.cfg.Username),
	))
	defer span.End()

	if w.cfg.CycleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.CycleTimeout)
		defer cancel()
	}

	result, err := w.cycle(ctx, log)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cycle failed")
		return result, err
	}

	span.SetAttributes(
		attribute.Int("cycle.products", result.Products),
		attribute.Int("cycle.insert_count", result.InsertCount),
	)
	log.Info("sync cycle finished",
		"products", result.Products,
		"success", result.Success,
		"insert_count", result.InsertCount,
	)
	return result, nil
}

func (w *SyncWorker) cycle(ctx context.Context, log *slog.Logger) (CycleResult, error) {
	var result CycleResult

	token := w.token(ctx, log)

	sess, err := w.sessions.Open(ctx)
	if err != nil {
		return result, fmt.Errorf("open session: %w", err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Warn("failed to close session", "err", err)
		}
	}()

	carts := sess.Carts()
	if err := w.ensureCart(ctx, carts, token, log); err != nil {
		return result, err
	}

	// cancelling streamCtx aborts the AddItems call, so nothing is committed
	// unless CloseAndRecv is reached
	streamCtx, cancelStream := context.WithCancel(ctx)
	defer cancelStream()

	stream, err := carts.OpenAddStream(streamCtx, token)
	if err != nil {
		return result, fmt.Errorf("open add stream: %w", err)
	}

	products, err := sess.Catalog().StreamProducts(streamCtx, token)
	if err != nil {
		return result, fmt.Errorf("open product stream: %w", err)
	}

	for {
		p, err := products.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("receive product: %w", err)
		}

		err = stream.Send(domain.AddItemRequest{
			Username:     w.cfg.Username,
			DiscountCode: w.cfg.DiscountCode,
			Item: domain.CartItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Price:       p.Price,
				Color:       w.cfg.Color,
				Quantity:    1,
			},
		})
		if err != nil {
			return result, fmt.Errorf("send product %d: %w", p.ID, err)
		}
		result.Products++
	}

	res, err := stream.CloseAndRecv()
	if err != nil {
		return result, fmt.Errorf("add items: %w", err)
	}
	result.Success = res.Success
	result.InsertCount = res.InsertCount
	return result, nil
}

// token degrades to an empty token when the issuer cannot be reached.
func (w *SyncWorker) token(ctx context.Context, log *slog.Logger) string {
	if w.tokens == nil {
		return ""
	}
	token, err := w.tokens.Token(ctx)
	if err != nil {
		log.Warn("token unavailable, continuing without one", "err", err)
		return ""
	}
	return token
}

func (w *SyncWorker) ensureCart(ctx context.Context, carts port.CartGateway, token string, log *slog.Logger) error {
	_, err := carts.GetCart(ctx, token, w.cfg.Username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrCartNotFound) {
		return fmt.Errorf("get cart %q: %w", w.cfg.Username, err)
	}

	if _, err := carts.CreateCart(ctx, token, w.cfg.Username); err != nil {
		return fmt.Errorf("create cart %q: %w", w.cfg.Username, err)
	}
	log.Info("cart created", "username", w.cfg.Username)
	return nil
}

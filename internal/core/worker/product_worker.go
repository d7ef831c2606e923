package worker

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rl1809/cart-sync/internal/core/domain"
	"github.com/rl1809/cart-sync/internal/port"
)

const defaultMaxPrice = 1000

type ProductConfig struct {
	ProductName string
	MaxPrice    int64
	Interval    time.Duration
	StartDelay  time.Duration
}

// ProductFactory builds the products the catalog feeder adds: a
// timestamped name, a matching description and a random whole price below
// maxPrice.
type ProductFactory struct {
	name     string
	maxPrice int64
	now      func() time.Time
	price    func(n int64) int64
}

func NewProductFactory(name string, maxPrice int64) *ProductFactory {
	if maxPrice <= 0 {
		maxPrice = defaultMaxPrice
	}
	return &ProductFactory{name: name, maxPrice: maxPrice, now: time.Now, price: rand.Int64N}
}

func (f *ProductFactory) Generate() domain.Product {
	now := f.now().UTC()
	name := fmt.Sprintf("%s %s", f.name, now.Format(time.RFC3339Nano))
	return domain.Product{
		Name:        name,
		Description: name + "_Description",
		Price:       decimal.NewFromInt(f.price(f.maxPrice)),
		Status:      domain.ProductStatusInStock,
		CreatedAt:   now,
	}
}

// ProductWorker keeps the catalog changing by adding one generated product
// per cycle.
type ProductWorker struct {
	cfg      ProductConfig
	factory  *ProductFactory
	products port.ProductWriter
	log      *slog.Logger
}

func NewProductWorker(cfg ProductConfig, products port.ProductWriter, log *slog.Logger) *ProductWorker {
	return &ProductWorker{
		cfg:      cfg,
		factory:  NewProductFactory(cfg.ProductName, cfg.MaxPrice),
		products: products,
		log:      log,
	}
}

func (w *ProductWorker) Run(ctx context.Context) error {
	w.log.Info("product worker started", "interval", w.cfg.Interval, "product_name", w.cfg.ProductName)

	return loop(ctx, w.log, w.cfg.StartDelay, w.cfg.Interval, func(ctx context.Context) error {
		_, err := w.RunCycle(ctx)
		return err
	})
}

func (w *ProductWorker) RunCycle(ctx context.Context) (domain.Product, error) {
	ctx, span := tracer.Start(ctx, "ProductWorker.Cycle")
	defer span.End()

	added, err := w.products.AddProduct(ctx, w.factory.Generate())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "add product failed")
		return domain.Product{}, fmt.Errorf("add product: %w", err)
	}

	span.SetAttributes(attribute.Int64("product.id", added.ID))
	w.log.Info("product added", "product_id", added.ID, "name", added.Name, "price", added.Price.String())
	return added, nil
}

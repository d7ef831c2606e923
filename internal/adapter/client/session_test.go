package client_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"github.com/rl1809/cart-sync/internal/adapter/client"
	"github.com/rl1809/cart-sync/internal/adapter/handler"
	"github.com/rl1809/cart-sync/internal/adapter/handler/pb"
	"github.com/rl1809/cart-sync/internal/adapter/messaging"
	"github.com/rl1809/cart-sync/internal/adapter/storage"
	"github.com/rl1809/cart-sync/internal/core/service"
	"github.com/rl1809/cart-sync/internal/core/worker"
)

type network map[string]*bufconn.Listener

func (n network) dialer() grpc.DialOption {
	return grpc.WithContextDialer(func(ctx context.Context, addr string) (net.Conn, error) {
		lis, ok := n[addr]
		if !ok {
			return nil, fmt.Errorf("no listener for %s", addr)
		}
		return lis.DialContext(ctx)
	})
}

func (n network) serve(t *testing.T, addr string, register func(*grpc.Server)) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	n[addr] = lis
	srv := grpc.NewServer()
	register(srv)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)
}

func TestSyncCycleAgainstServers(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	nw := network{}

	nw.serve(t, "catalog", func(s *grpc.Server) {
		repo := storage.NewMemoryProductRepository(storage.SeedProducts(time.Now())...)
		pb.RegisterCatalogServiceServer(s, handler.NewCatalogHandler(service.NewCatalogService(repo, log)))
	})
	nw.serve(t, "discount", func(s *grpc.Server) {
		repo := storage.NewMemoryDiscountRepository(storage.SeedDiscounts()...)
		pb.RegisterDiscountServiceServer(s, handler.NewDiscountHandler(service.NewDiscountService(repo, log)))
	})

	discountConn, err := client.Dial("passthrough:///discount", nw.dialer())
	require.NoError(t, err)
	defer discountConn.Close()

	cartSvc := service.NewCartService(
		storage.NewMemoryCartRepository(),
		client.NewDiscountClient(discountConn, time.Second),
		storage.NewMemoryLocker(),
		messaging.NoopPublisher{},
		service.CartOptions{},
		log,
	)
	nw.serve(t, "cart", func(s *grpc.Server) {
		pb.RegisterCartServiceServer(s, handler.NewGRPCHandler(cartSvc))
	})

	sessions := client.NewSessionFactory("passthrough:///cart", "passthrough:///catalog", time.Second, nw.dialer())
	w := worker.NewSyncWorker(worker.Config{
		Username:     "swn",
		DiscountCode: "CODE_100",
		CycleTimeout: 5 * time.Second,
	}, sessions, nil, log)

	ctx := context.Background()
	first, err := w.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, worker.CycleResult{Products: 3, Success: true, InsertCount: 3}, first)

	second, err := w.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, second.InsertCount)

	cart, err := cartSvc.GetCart(ctx, "swn")
	require.NoError(t, err)
	require.Len(t, cart.Items, 3)
	for i, want := range []int64{599, 799, 299} {
		assert.True(t, decimal.NewFromInt(want).Equal(cart.Items[i].Price))
		assert.Equal(t, 2, cart.Items[i].Quantity)
		assert.Equal(t, "Black", cart.Items[i].Color)
	}
}

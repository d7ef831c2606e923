package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/rl1809/cart-sync/internal/adapter/messaging"
	"github.com/rl1809/cart-sync/internal/adapter/storage"
	"github.com/rl1809/cart-sync/internal/core/domain"
	"github.com/rl1809/cart-sync/internal/core/service"
)

const (
	redisAddr     = "localhost:6379"
	username      = "stress-user"
	productCount  = 5
	totalRequests = 50
)

func main() {
	ctx := context.Background()

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	// Clear previous lock state
	rdb.Del(ctx, "cart:lock:"+username)

	// Initialize adapters and service
	quiet := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	locker := storage.NewRedisAdapter(rdb, 10*time.Second, 30*time.Second, quiet)
	repo := storage.NewMemoryCartRepository()
	discounts := storage.NewMemoryDiscountRepository(storage.SeedDiscounts()...)

	cartService := service.NewCartService(repo, discounts, locker, messaging.NoopPublisher{}, service.CartOptions{}, quiet)
	if _, err := cartService.CreateCart(ctx, username); err != nil {
		log.Fatalf("failed to create cart: %v", err)
	}

	// Counters
	var successCount atomic.Int32
	var failCount atomic.Int32

	// Spawn concurrent AddItems batches against one cart
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			id := int64(n%productCount + 1)
			batch := cartService.NewAddItemsBatch()
			err := batch.Add(ctx, domain.AddItemRequest{
				Username:     username,
				DiscountCode: "CODE_100",
				Item: domain.CartItem{
					ProductID:   id,
					ProductName: fmt.Sprintf("product-%d", id),
					Price:       decimal.NewFromInt(500),
					Color:       domain.DefaultColor,
					Quantity:    1,
				},
			})
			if err == nil {
				_, err = batch.Commit(ctx)
			}
			if err == nil {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	// Results
	success := successCount.Load()
	fail := failCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if success == totalRequests {
		fmt.Println("PASS: every batch committed")
	} else {
		fmt.Printf("FAIL: expected %d commits, got %d\n", totalRequests, success)
	}

	// Verify the final cart
	cart, err := cartService.GetCart(ctx, username)
	if err != nil {
		log.Fatalf("failed to load cart: %v", err)
	}

	quantity := 0
	for _, it := range cart.Items {
		quantity += it.Quantity
	}
	fmt.Printf("Final Lines:      %d\n", len(cart.Items))
	fmt.Printf("Final Quantity:   %d\n", quantity)

	if len(cart.Items) == productCount && quantity == totalRequests {
		fmt.Println("PASS: no lost updates")
	} else {
		fmt.Printf("FAIL: expected %d lines and quantity %d\n", productCount, totalRequests)
	}
}

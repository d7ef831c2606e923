package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/rl1809/cart-sync/internal/core/domain"
)

const (
	cartLockKeyPrefix = "cart:lock:"
	discountKeyPrefix = "discount:"
	lockRetryInterval = 20 * time.Millisecond
	unlockTimeout     = 2 * time.Second
)

var releaseLockScript = redis.NewScript(`
local key = KEYS[1]
local token = ARGV[1]

if redis.call('GET', key) == token then
	return redis.call('DEL', key)
end

return 0
`)

// RedisAdapter backs the cart commit lock and the discount table.
type RedisAdapter struct {
	client   *redis.Client
	lockTTL  time.Duration
	lockWait time.Duration
	log      *slog.Logger
}

func NewRedisAdapter(client *redis.Client, lockTTL, lockWait time.Duration, log *slog.Logger) *RedisAdapter {
	return &RedisAdapter{
		client:   client,
		lockTTL:  lockTTL,
		lockWait: lockWait,
		log:      log,
	}
}

// Lock takes cart:lock:<username> for every owner with SET NX, retrying
// until lockWait elapses. Each key holds a random token so only the holder
// can release it.
func (r *RedisAdapter) Lock(ctx context.Context, usernames ...string) (func(), error) {
	type held struct{ key, token string }
	var acquired []held

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), unlockTimeout)
		defer cancel()
		for i := len(acquired) - 1; i >= 0; i-- {
			r.unlock(ctx, acquired[i].key, acquired[i].token)
		}
	}

	deadline := time.Now().Add(r.lockWait)
	for _, username := range lockOrder(usernames) {
		key := cartLockKeyPrefix + username
		token := uuid.NewString()

		for {
			ok, err := r.client.SetNX(ctx, key, token, r.lockTTL).Result()
			if err != nil {
				release()
				return nil, fmt.Errorf("lock %q: %w", username, err)
			}
			if ok {
				acquired = append(acquired, held{key: key, token: token})
				break
			}
			if time.Now().After(deadline) {
				release()
				return nil, fmt.Errorf("lock %q: %w", username, domain.ErrLockTimeout)
			}

			select {
			case <-time.After(lockRetryInterval):
			case <-ctx.Done():
				release()
				return nil, fmt.Errorf("lock %q: %w: %v", username, domain.ErrLockTimeout, ctx.Err())
			}
		}
	}

	return release, nil
}

// unlock deletes key only while it still holds token. A failed release
// leaves the key held until the lock TTL runs out.
func (r *RedisAdapter) unlock(ctx context.Context, key, token string) {
	deleted, err := releaseLockScript.Run(ctx, r.client, []string{key}, token).Int()
	switch {
	case err != nil:
		r.log.Error("failed to release cart lock", "key", key, "ttl", r.lockTTL, "err", err)
	case deleted == 0:
		r.log.Warn("cart lock expired before release", "key", key, "ttl", r.lockTTL)
	}
}

func (r *RedisAdapter) GetDiscount(ctx context.Context, code string) (domain.Discount, error) {
	fields, err := r.client.HGetAll(ctx, discountKeyPrefix+code).Result()
	if err != nil {
		return domain.Discount{}, fmt.Errorf("get discount %q: %w", code, err)
	}
	if len(fields) == 0 {
		return domain.Discount{}, domain.ErrDiscountNotFound
	}

	id, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil {
		return domain.Discount{}, fmt.Errorf("discount %q id: %w", code, err)
	}
	amount, err := decimal.NewFromString(fields["amount"])
	if err != nil {
		return domain.Discount{}, fmt.Errorf("discount %q amount: %w", code, err)
	}

	return domain.Discount{ID: id, Code: code, Amount: amount}, nil
}

func (r *RedisAdapter) SetDiscount(ctx context.Context, d domain.Discount) error {
	return r.client.HSet(ctx, discountKeyPrefix+d.Code,
		"id", strconv.FormatInt(d.ID, 10),
		"amount", d.Amount.String(),
	).Err()
}

// SeedDiscounts writes every discount whose code is not present yet.
func (r *RedisAdapter) SeedDiscounts(ctx context.Context, discounts []domain.Discount) error {
	for _, d := range discounts {
		_, err := r.GetDiscount(ctx, d.Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrDiscountNotFound) {
			return err
		}
		if err := r.SetDiscount(ctx, d); err != nil {
			return fmt.Errorf("seed discount %q: %w", d.Code, err)
		}
	}
	return nil
}

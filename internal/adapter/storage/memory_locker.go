package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rl1809/cart-sync/internal/core/domain"
)

// MemoryLocker is a per-owner mutex table for single-replica deployments.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{slots: make(map[string]chan struct{})}
}

func (l *MemoryLocker) Lock(ctx context.Context, usernames ...string) (func(), error) {
	var held []chan struct{}
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}

	for _, username := range lockOrder(usernames) {
		slot := l.slot(username)
		select {
		case slot <- struct{}{}:
			held = append(held, slot)
		case <-ctx.Done():
			release()
			return nil, fmt.Errorf("lock %q: %w: %v", username, domain.ErrLockTimeout, ctx.Err())
		}
	}

	return release, nil
}

func (l *MemoryLocker) slot(username string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[username]
	if !ok {
		s = make(chan struct{}, 1)
		l.slots[username] = s
	}
	return s
}

// lockOrder sorts and dedups owners so that two batches touching the same
// carts always acquire them in the same order.
func lockOrder(usernames []string) []string {
	out := make([]string, 0, len(usernames))
	seen := make(map[string]struct{}, len(usernames))
	for _, u := range usernames {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

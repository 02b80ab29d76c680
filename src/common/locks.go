package common

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker guards the confirm critical section: the conflict re-check and the
// booking insert must not interleave with another confirmation claiming any
// of the same resources.
type Locker interface {
	Acquire(keys []string, ttl time.Duration) (release func(), err error)
}

// releaseLockScript deletes a lock key only while it still holds the
// caller's token. The compare and the delete run server-side as one command,
// so a lock that expired and was re-taken by another confirmation cannot be
// deleted from here.
var releaseLockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// LockClient is the slice of the redis API the locker needs: SETNX to take a
// key and script eval for the token-guarded release.
type LockClient interface {
	redis.Scripter
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
}

// RedisLocker takes one advisory lock per contended resource id via SETNX.
// Keys are sorted before acquisition so two confirmations contending on
// overlapping resource sets cannot deadlock.
type RedisLocker struct {
	Client LockClient
}

func (l *RedisLocker) Acquire(keys []string, ttl time.Duration) (func(), error) {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)

	token := uuid.New().String()
	held := make([]string, 0, len(sorted))
	release := func() {
		for _, k := range held {
			releaseLockScript.Run(context.Background(), l.Client, []string{k}, token)
		}
	}
	for _, k := range sorted {
		name := fmt.Sprintf("reslock:%s", k)
		ok, err := l.Client.SetNX(context.Background(), name, token, ttl).Result()
		if err != nil {
			release()
			return nil, err
		}
		if !ok {
			release()
			return nil, ErrContended
		}
		held = append(held, name)
	}
	return release, nil
}

// MemoryLocker is the in-process fallback used by tests and single-node
// deployments without redis.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]bool)}
}

func (l *MemoryLocker) Acquire(keys []string, ttl time.Duration) (func(), error) {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, k := range sorted {
		if l.held[k] {
			return nil, ErrContended
		}
	}
	for _, k := range sorted {
		l.held[k] = true
	}
	release := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for _, k := range sorted {
			delete(l.held, k)
		}
	}
	return release, nil
}

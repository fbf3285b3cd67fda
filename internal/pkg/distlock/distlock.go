// Package distlock provides cross-process locking for bubble mutations.
//
// A single server instance already serializes upserts per bubble identifier
// with in-process mutexes; this package covers deployments where several
// instances share one durable repository and the at-most-one-in-flight
// mutation guarantee has to hold across hosts.
package distlock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DistLock is the interface for a cross-process lock on one bubble id.
// Implementations must be safe for use from a single goroutine; concurrent
// use across goroutines requires separate lock instances.
type DistLock interface {
	// Acquire tries to acquire the lock. Returns true if successful.
	Acquire(ctx context.Context) (bool, error)
	// Release releases the lock if we still own it.
	Release(ctx context.Context) error
}

// RedisFactory returns a lock factory bound to a Redis client. Each call to
// the factory builds a fresh lock instance for one bubble identifier.
func RedisFactory(client *redis.Client, ttl time.Duration) func(bubbleID string) DistLock {
	return func(bubbleID string) DistLock {
		return NewRedisLock(client, bubbleID, ttl)
	}
}

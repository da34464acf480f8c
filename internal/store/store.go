package store

import (
	"context"
	"time"
)

// Store is the shared key-value contract the rotator and health tracker
// coordinate through. Implementations make exactly one attempt per call;
// retries are not part of this layer.
type Store interface {
	// Get returns the value for key. found is false when the key is absent,
	// which is not an error.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Put writes the value for key. A ttl <= 0 means the entry does not
	// expire.
	Put(ctx context.Context, key, value string, ttl time.Duration) error
}

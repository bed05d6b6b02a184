package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache defines the interface for caching operations
type Cache interface {
	// Get retrieves a value from the cache
	// Returns the value and a boolean indicating whether the key was found
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set adds a value to the cache with the specified expiration
	// If expiration is 0, the item never expires (but may be evicted)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)

	// Delete removes a key from the cache
	Delete(ctx context.Context, key string)

	// DeleteByPrefix removes all keys with the given prefix
	DeleteByPrefix(ctx context.Context, prefix string)

	// Flush removes all items from the cache
	Flush(ctx context.Context)
}

// DefaultListExpiration bounds how stale a cached listing page can be
// when an invalidation is missed (writes from outside this service).
const DefaultListExpiration = 5 * time.Minute

// Predefined cache key prefixes for different entity types
const (
	PrefixDeveloper    = "developer:v1:"
	PrefixRatePlan     = "rateplan:v1:"
	PrefixSubscription = "subscription:v1:"
	PrefixTopup        = "topup:v1:"
	PrefixBalance      = "balance:v1:"
)

// GenerateKey creates a cache key from a prefix and a set of parameters
// It joins all parameters with a colon and appends them to the prefix
func GenerateKey(prefix string, params ...interface{}) string {
	parts := make([]string, len(params)+1)
	parts[0] = strings.TrimSuffix(prefix, ":")

	for i, param := range params {
		parts[i+1] = fmt.Sprintf("%v", param)
	}

	return strings.Join(parts, ":")
}

// SubscriptionListKey returns the cache key prefix covering a developer's
// subscription listings. Invalidated whenever one of their subscriptions
// is created or mutated.
func SubscriptionListKey(developerID string) string {
	return GenerateKey(PrefixSubscription, developerID)
}

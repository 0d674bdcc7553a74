package client

import (
	"time"

	"github.com/google/uuid"

	"github.com/hsallam/matjar-pos/pkg/types"
)

// DefaultListCacheTTL bounds how long a cart list answer is reused before the
// server is asked again.
const DefaultListCacheTTL = 500 * time.Millisecond

// cachedList is an explicit cache entry: the value plus the moment it was
// fetched. Freshness is decided by the pure predicate below, never by a timer.
type cachedList struct {
	value     []types.Cart
	fetchedAt time.Time
}

// freshAt reports whether an entry fetched at fetchedAt is still usable at
// now, given the configured TTL.
func freshAt(fetchedAt, now time.Time, ttl time.Duration) bool {
	if fetchedAt.IsZero() {
		return false
	}
	return now.Sub(fetchedAt) < ttl
}

type listKey struct {
	storeID uuid.UUID
	status  types.CartStatus
}

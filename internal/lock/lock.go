package lock

import "context"

// Lease is cross-process mutual exclusion keyed by an arbitrary string.
// Acquire is non-blocking: ok=false means another holder exists and the
// caller should drop its work, not wait. Leases expire so a crashed holder
// cannot wedge the key forever.
type Lease interface {
	Acquire(ctx context.Context, key string) (release func(), ok bool, err error)
}

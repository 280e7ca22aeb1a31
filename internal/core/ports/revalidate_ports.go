package ports

// Revalidator is the cache-invalidation signal fired after a successful
// mutation. Fire-and-forget: failures never affect the operation result
// and the call is not part of any transaction.
type Revalidator interface {
	Invalidate(paths ...string)
}

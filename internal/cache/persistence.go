package cache

import "context"

// Persistence mirrors the in-memory cache to durable storage so a warm cache
// survives a daemon restart. Implementations store one URL set per owner.
type Persistence interface {
	Save(ctx context.Context, ownerID string, urls []string) error
	Load(ctx context.Context, ownerID string) ([]string, bool, error)
	Clear(ctx context.Context, ownerID string) error
}

package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPersistence keeps each owner's saved URLs in a Redis set, so a fresh
// daemon can restore warm caches instead of hitting the database for every
// owner at once.
type RedisPersistence struct {
	client *redis.Client
}

func NewRedisPersistence(client *redis.Client) *RedisPersistence {
	return &RedisPersistence{client: client}
}

// Save replaces the owner's stored set with the given URLs.
func (p *RedisPersistence) Save(ctx context.Context, ownerID string, urls []string) error {
	key := SavedURLsKey(ownerID)

	pipe := p.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(urls) > 0 {
		members := make([]any, len(urls))
		for i, u := range urls {
			members[i] = u
		}
		pipe.SAdd(ctx, key, members...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save saved-url set: %w", err)
	}
	return nil
}

// Load returns the owner's stored URLs. The second return is false when
// nothing is stored for the owner.
func (p *RedisPersistence) Load(ctx context.Context, ownerID string) ([]string, bool, error) {
	urls, err := p.client.SMembers(ctx, SavedURLsKey(ownerID)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to load saved-url set: %w", err)
	}
	if len(urls) == 0 {
		return nil, false, nil
	}
	return urls, true, nil
}

// Clear drops the owner's stored set.
func (p *RedisPersistence) Clear(ctx context.Context, ownerID string) error {
	if err := p.client.Del(ctx, SavedURLsKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("failed to clear saved-url set: %w", err)
	}
	return nil
}

package cache

import (
	"context"
	"sync"
)

// MemoryPersistence is a process-local Persistence. It backs deployments
// without Redis and the test suites.
type MemoryPersistence struct {
	mu   sync.Mutex
	sets map[string][]string
}

func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{sets: make(map[string][]string)}
}

func (p *MemoryPersistence) Save(_ context.Context, ownerID string, urls []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	stored := make([]string, len(urls))
	copy(stored, urls)
	p.sets[ownerID] = stored
	return nil
}

func (p *MemoryPersistence) Load(_ context.Context, ownerID string) ([]string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	urls, ok := p.sets[ownerID]
	if !ok || len(urls) == 0 {
		return nil, false, nil
	}
	out := make([]string, len(urls))
	copy(out, urls)
	return out, true, nil
}

func (p *MemoryPersistence) Clear(_ context.Context, ownerID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.sets, ownerID)
	return nil
}

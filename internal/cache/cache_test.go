package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsColdCache(t *testing.T) {
	c := NewSavedURLs()

	found, warm := c.Contains("u1", "https://example.com/a")
	assert.False(t, found)
	assert.False(t, warm, "cold cache must not claim to know anything")
}

func TestReplaceAndContains(t *testing.T) {
	c := NewSavedURLs()
	c.Replace("u1", []string{"https://example.com/a", "https://example.com/b"})

	found, warm := c.Contains("u1", "https://example.com/a")
	assert.True(t, found)
	assert.True(t, warm)

	found, warm = c.Contains("u1", "https://example.com/zzz")
	assert.False(t, found)
	assert.True(t, warm, "a warm miss is a definitive no")
}

func TestOwnerIsolation(t *testing.T) {
	c := NewSavedURLs()
	c.Replace("u1", []string{"https://example.com/a"})

	found, warm := c.Contains("u2", "https://example.com/a")
	assert.False(t, found)
	assert.False(t, warm, "another owner's entry must never answer")
}

func TestAddRemove(t *testing.T) {
	c := NewSavedURLs()
	c.Replace("u1", []string{"https://example.com/a"})

	c.Add("u1", "https://example.com/b")
	found, _ := c.Contains("u1", "https://example.com/b")
	assert.True(t, found)

	c.Remove("u1", "https://example.com/a")
	found, _ = c.Contains("u1", "https://example.com/a")
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	c := NewSavedURLs()
	c.Replace("u1", []string{"https://example.com/a"})
	require.True(t, c.Warm("u1"))

	c.Invalidate("u1")
	assert.False(t, c.Warm("u1"))

	_, warm := c.Contains("u1", "https://example.com/a")
	assert.False(t, warm)
}

func TestSnapshotAndOwners(t *testing.T) {
	c := NewSavedURLs()
	c.Replace("u1", []string{"https://example.com/a", "https://example.com/b"})
	c.Replace("u2", []string{"https://example.com/c"})

	assert.ElementsMatch(t, []string{"https://example.com/a", "https://example.com/b"}, c.Snapshot("u1"))
	assert.ElementsMatch(t, []string{"u1", "u2"}, c.Owners())
	assert.Nil(t, c.Snapshot("ghost"))
}

func TestMemoryPersistenceRoundTrip(t *testing.T) {
	p := NewMemoryPersistence()
	ctx := context.Background()

	_, ok, err := p.Load(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, p.Save(ctx, "u1", []string{"https://example.com/a"}))

	urls, ok, err := p.Load(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"https://example.com/a"}, urls)

	require.NoError(t, p.Clear(ctx, "u1"))
	_, ok, err = p.Load(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSavedURLsKey(t *testing.T) {
	assert.Equal(t, "readinglist:savedurls:u1", SavedURLsKey("u1"))
}

package cache

const (
	// KeyPrefixSavedURLs is the prefix for per-owner saved URL sets.
	KeyPrefixSavedURLs = "readinglist:savedurls:"
)

// SavedURLsKey returns the Redis key for an owner's saved URL set.
func SavedURLsKey(ownerID string) string {
	return KeyPrefixSavedURLs + ownerID
}

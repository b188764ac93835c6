package deps

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/sneyderangulo/readinglist/internal/auth"
	"github.com/sneyderangulo/readinglist/internal/coordinator"
	"github.com/sneyderangulo/readinglist/internal/logger"
	"github.com/sneyderangulo/readinglist/internal/metadata"
	"github.com/sneyderangulo/readinglist/internal/store/sqlite"
)

type Deps struct {
	Logger           logger.Logger
	StartTime        time.Time
	Version          string
	Commit           string
	BuildDate        string
	GoVersion        string
	Store            *sqlite.Store            // Bookmark and user persistence
	Auth             *auth.Service            // Accounts and session tokens
	Coordinator      *coordinator.Coordinator // Extension-side cache and messages
	Metadata         *metadata.Fetcher        // Page metadata fetcher (nil when disabled)
	RedisClient      *redis.Client            // nil when cache persistence is in-memory
	Validate         *validator.Validate      // Request body validation
	ReconcileTrigger chan<- struct{}          // Kicks the cache reconciler outside its ticker
	AllowedOrigins   []string                 // CORS origins (web app + extension)
	WebAppURL        string                   // Where the extension sends users
	RecentLimit      int                      // Default page size for the recent list
	TokenTTL         time.Duration            // Session cookie lifetime
	TrustProxy       bool                     // Resolve client IPs from proxy headers
	AuthRateBurst    int                      // Rate limit burst for auth endpoints
	AuthRatePerMin   int                      // Rate limit refill for auth endpoints
}

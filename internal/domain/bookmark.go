package domain

import "time"

// ToggleAction is the outcome of a toggle operation.
type ToggleAction string

const (
	// ActionSaved means the toggle created a new bookmark.
	ActionSaved ToggleAction = "saved"
	// ActionUnsaved means the toggle deleted an existing bookmark.
	ActionUnsaved ToggleAction = "unsaved"
)

// Bookmark is a saved URL owned by a single user.
type Bookmark struct {
	// ID is the canonical unique identifier, assigned by the store on creation.
	ID string `json:"id"`

	// UserID is the owning user's identifier. Set at creation, never changed.
	UserID string `json:"userId"`

	// URL is the original URL as saved, kept for display.
	URL string `json:"url"`

	// NormalizedURL is the canonical form of URL used as the
	// de-duplication key. Computed once at creation.
	NormalizedURL string `json:"normalizedUrl"`

	// Title is the page title supplied by the caller.
	Title string `json:"title"`

	// Favicon is an optional icon URL.
	Favicon string `json:"favicon,omitempty"`

	// Description is an optional page description.
	Description string `json:"description,omitempty"`

	// CreatedAt is assigned by the store at insert.
	CreatedAt time.Time `json:"createdAt"`

	// ArchivedAt is nil while the bookmark is active.
	// Archive/unarchive are the only operations that mutate it.
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
}

// Archived reports whether the bookmark is in the archive.
func (b *Bookmark) Archived() bool {
	return b.ArchivedAt != nil
}

// CreateBookmarkInput carries the caller-supplied fields for a new bookmark.
type CreateBookmarkInput struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Favicon     string `json:"favicon,omitempty"`
	Description string `json:"description,omitempty"`
}

// BookmarkMeta is the display metadata attached to a toggle that ends up
// creating a bookmark. The URL itself travels separately.
type BookmarkMeta struct {
	Title       string `json:"title"`
	Favicon     string `json:"favicon,omitempty"`
	Description string `json:"description,omitempty"`
}

// ToggleResult reports what a toggle did. Bookmark is nil when the action
// was "unsaved".
type ToggleResult struct {
	Action   ToggleAction `json:"action"`
	Bookmark *Bookmark    `json:"bookmark"`
}

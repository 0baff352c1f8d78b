package entities

// Image represents an ephemeral hosted image in the database.
// Unlike a link's attached image (named after the slug, no expiry), an Image
// has its own id, an optional expiry and a capability token authorizing
// deletion.
type Image struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatedAt   int64  `json:"created_at"`           // epoch seconds
	ExpiresAt   *int64 `json:"expires_at,omitempty"` // Pointer allows nil (never expires)
	DeleteToken string `json:"-"`
}

// Expired reports whether the image's expiry has passed as of now (epoch
// seconds). A nil ExpiresAt never expires.
func (i *Image) Expired(now int64) bool {
	return i.ExpiresAt != nil && *i.ExpiresAt <= now
}

package entities

// Link represents a cloaked short link in the database.
// A link is never edited or deleted after creation; the only permitted
// mutation is the one-time image URL update when a file upload follows a
// text-only creation.
type Link struct {
	Slug        string  `json:"slug"`
	DestURL     string  `json:"dest_url"`
	ImgURL      string  `json:"img_url"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CardSize    string  `json:"card_size"`
	SiteName    *string `json:"site_name,omitempty"`    // Pointer allows nil (no site name override)
	ButtonText  *string `json:"button_text,omitempty"`  // Optional CTA label
	OGURL       *string `json:"og_url,omitempty"`       // Optional canonical URL override shown to crawlers
}

package models

// CreateLinkRequest represents the multipart form for creating a cloaked link.
// An image source is required as well: either the img_url field or an
// uploaded img_file (checked by the controller, since files ride outside the
// bound form).
type CreateLinkRequest struct {
	DestURL     string `form:"dest_url" binding:"required"`
	ImgURL      string `form:"img_url"`
	Title       string `form:"title" binding:"required"`
	Description string `form:"description"`
	CardSize    string `form:"card_size"`
	SiteName    string `form:"site_name"`
	ButtonText  string `form:"button_text"`
	OGURL       string `form:"og_url"`
}

// CreateLinkResponse represents the response after creating a link
type CreateLinkResponse struct {
	Slug        string `json:"slug"`
	ShortURL    string `json:"short_url"` // Full visit URL (base URL + slug)
	DestURL     string `json:"dest_url"`
	ImgURL      string `json:"img_url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CardSize    string `json:"card_size"`
	SiteName    string `json:"site_name,omitempty"`
	ButtonText  string `json:"button_text,omitempty"`
}

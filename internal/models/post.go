package models

// CreatePostRequest represents the JSON body for posting a CTA feed entry
// for an existing slug via the Facebook Graph API.
type CreatePostRequest struct {
	PageID          string `json:"page_id" binding:"required"`
	PageAccessToken string `json:"page_access_token" binding:"required"`
	Slug            string `json:"slug" binding:"required"`
	Message         string `json:"message"`
	CTAType         string `json:"cta_type"`
	Published       *bool  `json:"published"`
}

// CreatePostResponse represents a successful CTA post
type CreatePostResponse struct {
	Success bool   `json:"success"`
	PostID  string `json:"post_id"`
	LinkURL string `json:"link_url"`
}

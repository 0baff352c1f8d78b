package models

// UploadImageResponse represents the response after hosting an image
type UploadImageResponse struct {
	ID          string `json:"id"`
	DirectURL   string `json:"direct_url"`
	ViewURL     string `json:"view_url"`
	DeleteURL   string `json:"delete_url"`
	DeleteToken string `json:"delete_token"`
	ExpiresAt   *int64 `json:"expires_at"`
}

// CreateGridResponse represents the response after composing a grid image
type CreateGridResponse struct {
	ID          string `json:"id"`
	DirectURL   string `json:"direct_url"`
	ViewURL     string `json:"view_url"`
	DeleteURL   string `json:"delete_url"`
	DeleteToken string `json:"delete_token"`
}

// DeleteImageRequest carries the capability token for a deletion, accepted
// as JSON; the controller also accepts a plain delete_token form field.
type DeleteImageRequest struct {
	DeleteToken string `json:"delete_token"`
}

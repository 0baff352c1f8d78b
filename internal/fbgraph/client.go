// Package fbgraph is a thin client for posting CTA feed entries through the
// Facebook Graph API. CTA buttons cannot be produced with plain metadata
// tags; they require the Graph API.
package fbgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"linkcard-be/internal/apperrors"
)

// CTATypes lists the supported call-to-action button types.
var CTATypes = []string{
	"LEARN_MORE",
	"SHOP_NOW",
	"SIGN_UP",
	"BOOK_TRAVEL",
	"CONTACT_US",
	"DOWNLOAD",
	"GET_QUOTE",
}

// Client posts to the Graph API feed edge.
type Client struct {
	// BaseURL is the Graph API root including version, e.g.
	// https://graph.facebook.com/v18.0. Tests point it at a local server.
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a Graph API client for the given API version
func NewClient(apiVersion string) *Client {
	return &Client{
		BaseURL:    "https://graph.facebook.com/" + apiVersion,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// PostParams describes a CTA feed post.
type PostParams struct {
	PageID          string
	PageAccessToken string
	Message         string
	Link            string
	CTAType         string
	Published       bool
}

// PostResult is the successful response from the feed edge.
type PostResult struct {
	PostID string
}

type graphErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateCTAPost publishes a feed entry with a call-to-action button linking
// to params.Link. Upstream failures surface the Graph API's own error
// message when one is present in the response body.
func (c *Client) CreateCTAPost(ctx context.Context, params PostParams) (*PostResult, error) {
	if !validCTAType(params.CTAType) {
		return nil, apperrors.Validation(
			fmt.Sprintf("invalid CTA type, must be one of: %s", strings.Join(CTATypes, ", ")))
	}

	payload := map[string]interface{}{
		"message": params.Message,
		"link":    params.Link,
		"call_to_action": map[string]interface{}{
			"type": params.CTAType,
			"value": map[string]interface{}{
				"link": params.Link,
			},
		},
		"published":    params.Published,
		"access_token": params.PageAccessToken,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal post payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/feed", c.BaseURL, params.PageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, apperrors.Upstream("facebook api request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var graphErr graphErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&graphErr); err == nil && graphErr.Error.Message != "" {
			return nil, apperrors.Upstream(graphErr.Error.Message, nil)
		}
		return nil, apperrors.Upstream(
			fmt.Sprintf("facebook api returned status %d", resp.StatusCode), nil)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.Upstream("invalid response from facebook api", err)
	}

	return &PostResult{PostID: result.ID}, nil
}

func validCTAType(ctaType string) bool {
	for _, t := range CTATypes {
		if t == ctaType {
			return true
		}
	}
	return false
}

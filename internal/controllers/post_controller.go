package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"linkcard-be/internal/fbgraph"
	"linkcard-be/internal/models"
	"linkcard-be/internal/service"
)

type PostController struct {
	linkService service.LinkService
	fb          *fbgraph.Client
	baseURL     string
}

func NewPostController(linkService service.LinkService, fb *fbgraph.Client, baseURL string) *PostController {
	return &PostController{
		linkService: linkService,
		fb:          fb,
		baseURL:     baseURL,
	}
}

// CreatePost handles POST /api/posts - publishes a CTA feed post for an
// existing slug through the Graph API.
func (pc *PostController) CreatePost(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	link, err := pc.linkService.Get(req.Slug)
	if err != nil {
		respondError(c, err)
		return
	}

	linkURL := fmt.Sprintf("%s/%s", pc.baseURL, link.Slug)

	message := req.Message
	if message == "" {
		message = link.Title
	}

	ctaType := req.CTAType
	if ctaType == "" {
		ctaType = "LEARN_MORE"
	}

	published := true
	if req.Published != nil {
		published = *req.Published
	}

	result, err := pc.fb.CreateCTAPost(c.Request.Context(), fbgraph.PostParams{
		PageID:          req.PageID,
		PageAccessToken: req.PageAccessToken,
		Message:         message,
		Link:            linkURL,
		CTAType:         ctaType,
		Published:       published,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CreatePostResponse{
		Success: true,
		PostID:  result.PostID,
		LinkURL: linkURL,
	})
}

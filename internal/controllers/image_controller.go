package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"linkcard-be/internal/entities"
	"linkcard-be/internal/models"
	"linkcard-be/internal/service"
)

type ImageController struct {
	imageService service.ImageService
	baseURL      string
}

func NewImageController(imageService service.ImageService, baseURL string) *ImageController {
	return &ImageController{
		imageService: imageService,
		baseURL:      baseURL,
	}
}

// UploadPage handles GET /upload - the landing page
func (ic *ImageController) UploadPage(c *gin.Context) {
	ic.imageService.CleanupExpired()
	c.HTML(http.StatusOK, "upload.html", nil)
}

// UploadImage handles POST /api/upload
func (ic *ImageController) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(multipartErrorStatus(err), gin.H{
			"error": "Missing file",
		})
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	description := strings.TrimSpace(c.PostForm("description"))

	var expiryMinutes *int
	if raw := c.PostForm("expiry_minutes"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid expiry_minutes",
			})
			return
		}
		expiryMinutes = &minutes
	}

	// An unparsable offset falls back to the centered crop.
	var offsetY *int
	if raw := c.PostForm("offset_y"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil {
			offsetY = &offset
		}
	}

	img, err := ic.imageService.Upload(service.UploadParams{
		File:          file,
		Title:         title,
		Description:   description,
		ExpiryMinutes: expiryMinutes,
		OffsetY:       offsetY,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.UploadImageResponse{
		ID:          img.ID,
		DirectURL:   ic.directURL(img),
		ViewURL:     ic.viewURL(img),
		DeleteURL:   ic.deleteURL(img),
		DeleteToken: img.DeleteToken,
		ExpiresAt:   img.ExpiresAt,
	})
}

// CreateGrid handles POST /api/grid
func (ic *ImageController) CreateGrid(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(multipartErrorStatus(err), gin.H{
			"error": "Invalid multipart form",
		})
		return
	}

	files := form.File["files"]
	if len(files) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Need at least 2 images",
		})
		return
	}
	if len(files) > 5 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Maximum 5 images allowed",
		})
		return
	}

	overlayText := strings.TrimSpace(c.PostForm("overlay_text"))

	img, err := ic.imageService.CreateGrid(files, overlayText)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.CreateGridResponse{
		ID:          img.ID,
		DirectURL:   ic.directURL(img),
		ViewURL:     ic.viewURL(img),
		DeleteURL:   ic.deleteURL(img),
		DeleteToken: img.DeleteToken,
	})
}

// ViewImage handles GET /i/:id
func (ic *ImageController) ViewImage(c *gin.Context) {
	img, err := ic.imageService.View(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.HTML(http.StatusOK, "image.html", gin.H{
		"directURL":   ic.directURL(img),
		"viewURL":     ic.viewURL(img),
		"title":       img.Title,
		"description": img.Description,
	})
}

// DeleteImage handles POST /api/images/:id/delete
func (ic *ImageController) DeleteImage(c *gin.Context) {
	token := c.PostForm("delete_token")
	if token == "" {
		var req models.DeleteImageRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			token = req.DeleteToken
		}
	}
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing delete_token",
		})
		return
	}

	if err := ic.imageService.Delete(c.Param("id"), token); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok": true,
	})
}

func (ic *ImageController) directURL(img *entities.Image) string {
	return fmt.Sprintf("%s/static/uploads/%s", ic.baseURL, img.Filename)
}

func (ic *ImageController) viewURL(img *entities.Image) string {
	return fmt.Sprintf("%s/i/%s", ic.baseURL, img.ID)
}

func (ic *ImageController) deleteURL(img *entities.Image) string {
	return fmt.Sprintf("%s/api/images/%s/delete", ic.baseURL, img.ID)
}

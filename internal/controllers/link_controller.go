package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"linkcard-be/internal/apperrors"
	"linkcard-be/internal/cloak"
	"linkcard-be/internal/models"
	"linkcard-be/internal/service"
)

type LinkController struct {
	linkService service.LinkService
	baseURL     string
}

func NewLinkController(linkService service.LinkService, baseURL string) *LinkController {
	return &LinkController{
		linkService: linkService,
		baseURL:     baseURL,
	}
}

// CreateLink handles POST /create
func (lc *LinkController) CreateLink(c *gin.Context) {
	var req models.CreateLinkRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(multipartErrorStatus(err), gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	imgFile, _ := c.FormFile("img_file")
	if req.ImgURL == "" && imgFile == nil {
		respondError(c, apperrors.Validation("missing image (provide image URL or upload a file)"))
		return
	}

	link, err := lc.linkService.Create(service.CreateLinkParams{
		DestURL:     req.DestURL,
		ImgURL:      req.ImgURL,
		Title:       req.Title,
		Description: req.Description,
		CardSize:    req.CardSize,
		SiteName:    optional(req.SiteName),
		ButtonText:  optional(req.ButtonText),
		OGURL:       optional(req.OGURL),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	imgURL := req.ImgURL
	if imgFile != nil {
		saved, err := lc.linkService.AttachUpload(link.Slug, imgFile)
		if err != nil {
			respondError(c, err)
			return
		}
		imgURL = saved
	}

	c.JSON(http.StatusCreated, models.CreateLinkResponse{
		Slug:        link.Slug,
		ShortURL:    fmt.Sprintf("%s/%s", lc.baseURL, link.Slug),
		DestURL:     link.DestURL,
		ImgURL:      imgURL,
		Title:       link.Title,
		Description: link.Description,
		CardSize:    link.CardSize,
		SiteName:    req.SiteName,
		ButtonText:  req.ButtonText,
	})
}

// Visit handles GET /:slug - the cloaked visit. Preview crawlers get the
// metadata document; everyone else gets an immediate redirect to the
// destination.
func (lc *LinkController) Visit(c *gin.Context) {
	slug := c.Param("slug")

	link, err := lc.linkService.Get(slug)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound && cloak.RecoverablePath(c.Request.URL.EscapedPath()) {
			c.Redirect(http.StatusFound, "/upload")
			return
		}
		respondError(c, err)
		return
	}

	scheme := requestScheme(c)
	resolution := cloak.Resolve(link, cloak.RequestInfo{
		Scheme:    scheme,
		Host:      c.Request.Host,
		UserAgent: c.GetHeader("User-Agent"),
		VisitURL:  fmt.Sprintf("%s://%s/%s", scheme, c.Request.Host, slug),
	})

	if resolution.Classification == cloak.Human {
		c.Redirect(http.StatusFound, resolution.RedirectURL)
		return
	}

	md := resolution.Metadata
	c.HTML(http.StatusOK, "meta.html", gin.H{
		"title":       md.Title,
		"description": md.Description,
		"img":         md.ImageURL,
		"url":         md.CanonicalURL,
		"destURL":     md.DestURL,
		"siteName":    md.SiteName,
		"cardSize":    md.CardSize,
		"buttonText":  md.ButtonText,
	})
}

// NotFound handles paths outside the route table. Garbled Thai-script paths
// get the landing-page recovery instead of a 404.
func NotFound(c *gin.Context) {
	if cloak.RecoverablePath(c.Request.URL.EscapedPath()) {
		c.Redirect(http.StatusFound, "/upload")
		return
	}
	c.JSON(http.StatusNotFound, gin.H{
		"error": "Not found",
	})
}

// optional converts a trimmed form value to a nullable column value
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"linkcard-be/internal/apperrors"
)

// respondError maps a service error to its HTTP status. Server-side failures
// (exhausted slug retries, upstream API errors, anything unclassified) are
// logged before responding.
func respondError(c *gin.Context, err error) {
	status := apperrors.Status(err)
	if status >= http.StatusInternalServerError {
		log.Printf("ERROR: %v", err)
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
	})
}

// multipartErrorStatus distinguishes an oversized body from a malformed one
func multipartErrorStatus(err error) int {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) || strings.Contains(err.Error(), "request body too large") {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// requestScheme resolves the inbound scheme, honoring the proxy header
func requestScheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}

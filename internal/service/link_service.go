package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"linkcard-be/internal/apperrors"
	"linkcard-be/internal/entities"
	"linkcard-be/internal/repository"
	"linkcard-be/internal/storage"
)

const (
	slugLength      = 6
	maxSlugAttempts = 20
	slugChars       = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Image types accepted for link attachments and hosted uploads.
var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
}

// CreateLinkParams carries the fields of a new link; the slug is generated.
type CreateLinkParams struct {
	DestURL     string
	ImgURL      string
	Title       string
	Description string
	CardSize    string
	SiteName    *string
	ButtonText  *string
	OGURL       *string
}

// LinkService defines the interface for link business logic
type LinkService interface {
	Create(params CreateLinkParams) (*entities.Link, error)
	Get(slug string) (*entities.Link, error)
	AttachUpload(slug string, file *multipart.FileHeader) (string, error)
}

type linkService struct {
	repo  repository.LinkRepository
	store *storage.Disk
}

// NewLinkService creates a new link service
func NewLinkService(repo repository.LinkRepository, store *storage.Disk) LinkService {
	return &linkService{repo: repo, store: store}
}

// generateSlug returns a random 6-character alphanumeric slug candidate
func generateSlug() (string, error) {
	buf := make([]byte, slugLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = slugChars[int(b)%len(slugChars)]
	}
	return string(buf), nil
}

// Create inserts a new link under a freshly generated unique slug,
// regenerating on uniqueness conflicts up to the attempt budget. Exhausting
// the budget is effectively unreachable given the slug space, but it is
// surfaced as a fatal server error rather than swallowed.
func (s *linkService) Create(params CreateLinkParams) (*entities.Link, error) {
	var created *entities.Link

	backoff := retry.WithMaxRetries(maxSlugAttempts-1, retry.NewConstant(time.Millisecond))
	err := retry.Do(context.Background(), backoff, func(ctx context.Context) error {
		slug, err := generateSlug()
		if err != nil {
			return err
		}

		link := &entities.Link{
			Slug:        slug,
			DestURL:     params.DestURL,
			ImgURL:      params.ImgURL,
			Title:       params.Title,
			Description: params.Description,
			CardSize:    params.CardSize,
			SiteName:    params.SiteName,
			ButtonText:  params.ButtonText,
			OGURL:       params.OGURL,
		}

		if err := s.repo.Insert(link); err != nil {
			if repository.IsUniqueViolation(err) {
				return retry.RetryableError(err)
			}
			return err
		}

		created = link
		return nil
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.ExhaustedRetry(
				fmt.Sprintf("could not generate a unique slug in %d attempts", maxSlugAttempts), err)
		}
		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	return created, nil
}

// Get finds a link by slug
func (s *linkService) Get(slug string) (*entities.Link, error) {
	return s.repo.FindBySlug(slug)
}

// AttachUpload saves an uploaded image file under the slug's name and
// performs the one-time image URL update. Returns the site-relative image
// URL stored on the link.
func (s *linkService) AttachUpload(slug string, file *multipart.FileHeader) (string, error) {
	ext, err := validateImageUpload(file)
	if err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := slug + ext
	if err := s.store.Save(name, src); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}

	imgURL := "/static/uploads/" + name
	if err := s.repo.UpdateImageURL(slug, imgURL); err != nil {
		return "", err
	}

	return imgURL, nil
}

// validateImageUpload checks the upload's filename extension and declared
// content type, returning the lowercased extension.
func validateImageUpload(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if file.Filename == "" || !allowedImageExts[ext] {
		return "", apperrors.Validation("invalid image file type")
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", apperrors.Validation("invalid image file type")
	}

	return ext, nil
}

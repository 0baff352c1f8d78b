package service

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"image"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"linkcard-be/internal/apperrors"
	"linkcard-be/internal/entities"
	"linkcard-be/internal/imageproc"
	"linkcard-be/internal/repository"
	"linkcard-be/internal/storage"
)

// UploadParams carries an ephemeral image upload.
type UploadParams struct {
	File          *multipart.FileHeader
	Title         string
	Description   string
	ExpiryMinutes *int // >0 sets expires_at = now + minutes*60
	OffsetY       *int // vertical crop offset for card normalization
}

// ImageService defines the interface for ephemeral image hosting logic
type ImageService interface {
	Upload(params UploadParams) (*entities.Image, error)
	CreateGrid(files []*multipart.FileHeader, overlayText string) (*entities.Image, error)
	View(id string) (*entities.Image, error)
	Delete(id, token string) error
	CleanupExpired()
}

type imageService struct {
	repo  repository.ImageRepository
	store *storage.Disk
}

// NewImageService creates a new image service
func NewImageService(repo repository.ImageRepository, store *storage.Disk) ImageService {
	return &imageService{repo: repo, store: store}
}

// newImageID returns a random hex id. The space is large enough that
// collisions are negligible; ids are not retried.
func newImageID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// newDeleteToken returns the random secret authorizing deletion
func newDeleteToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate delete token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Upload sweeps expired records, stores the file under a fresh id,
// best-effort normalizes it into a preview card, and records the metadata.
func (s *imageService) Upload(params UploadParams) (*entities.Image, error) {
	s.CleanupExpired()

	ext, err := validateImageUpload(params.File)
	if err != nil {
		return nil, err
	}

	id := newImageID()
	token, err := newDeleteToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	var expiresAt *int64
	if params.ExpiryMinutes != nil && *params.ExpiryMinutes > 0 {
		exp := now + int64(*params.ExpiryMinutes)*60
		expiresAt = &exp
	}

	src, err := params.File.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := id + ext
	if err := s.store.Save(name, src); err != nil {
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}

	// Card normalization is best-effort: a corrupt or undecodable image is
	// served unmodified rather than failing the upload.
	if err := imageproc.NormalizeCardFile(s.store.Path(name), params.OffsetY); err != nil {
		log.Printf("Warning: card normalization failed for %s, serving original: %v", name, err)
	}

	img := &entities.Image{
		ID:          id,
		Filename:    name,
		ContentType: params.File.Header.Get("Content-Type"),
		Title:       params.Title,
		Description: params.Description,
		CreatedAt:   now,
		ExpiresAt:   expiresAt,
		DeleteToken: token,
	}
	if err := s.repo.Insert(img); err != nil {
		return nil, err
	}

	return img, nil
}

// CreateGrid sweeps expired records, composes 2-5 uploads into a single grid
// image with an optional overlay, and records it with no expiry.
func (s *imageService) CreateGrid(files []*multipart.FileHeader, overlayText string) (*entities.Image, error) {
	s.CleanupExpired()

	var decoded []image.Image
	for _, file := range files {
		if file.Filename == "" {
			continue
		}
		if _, err := validateImageUpload(file); err != nil {
			continue
		}

		src, err := file.Open()
		if err != nil {
			continue
		}
		img, err := imaging.Decode(src)
		src.Close()
		if err != nil {
			continue
		}
		decoded = append(decoded, img)
	}

	if len(decoded) < 2 {
		return nil, apperrors.Validation("need at least 2 valid images for grid")
	}

	grid, err := imageproc.ComposeGrid(decoded, overlayText)
	if err != nil {
		return nil, err
	}

	// Output is always JPEG; the extension just follows the first upload.
	ext := ".jpg"
	if len(files) > 0 {
		if e := strings.ToLower(filepath.Ext(files[0].Filename)); e != "" {
			ext = e
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, grid, imaging.JPEG, imaging.JPEGQuality(95)); err != nil {
		return nil, fmt.Errorf("failed to encode grid image: %w", err)
	}

	id := newImageID()
	token, err := newDeleteToken()
	if err != nil {
		return nil, err
	}

	name := id + ext
	if err := s.store.Save(name, &buf); err != nil {
		return nil, fmt.Errorf("failed to save grid image: %w", err)
	}

	img := &entities.Image{
		ID:          id,
		Filename:    name,
		ContentType: "image/jpeg",
		CreatedAt:   time.Now().Unix(),
		DeleteToken: token,
	}
	if err := s.repo.Insert(img); err != nil {
		return nil, err
	}

	return img, nil
}

// View sweeps expired records and returns the image if it is still live.
// The expiry check is authoritative even when the sweep has not yet
// physically removed the record.
func (s *imageService) View(id string) (*entities.Image, error) {
	s.CleanupExpired()

	img, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if img.Expired(time.Now().Unix()) {
		return nil, apperrors.NotFound("image not found")
	}

	return img, nil
}

// Delete removes the image when the capability token matches. An expired
// record is removed unconditionally: expiry alone authorizes removal, which
// also lazily completes a sweep that has not reached the record yet.
func (s *imageService) Delete(id, token string) error {
	img, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}

	if img.Expired(time.Now().Unix()) {
		return s.remove(img)
	}

	if token != img.DeleteToken {
		return apperrors.Forbidden("invalid delete_token")
	}

	return s.remove(img)
}

// CleanupExpired is the lazy sweep: best-effort file removal followed by
// record deletion for everything past its expiry, continuing past
// per-record errors.
func (s *imageService) CleanupExpired() {
	now := time.Now().Unix()

	expired, err := s.repo.FindExpired(now)
	if err != nil {
		log.Printf("Warning: expiry sweep query failed: %v", err)
		return
	}

	for _, img := range expired {
		if err := s.store.Remove(img.Filename); err != nil {
			log.Printf("Warning: failed to remove expired file %s: %v", img.Filename, err)
		}
		if err := s.repo.Delete(img.ID); err != nil {
			log.Printf("Warning: failed to delete expired image %s: %v", img.ID, err)
		}
	}
}

func (s *imageService) remove(img *entities.Image) error {
	if err := s.store.Remove(img.Filename); err != nil {
		return err
	}
	return s.repo.Delete(img.ID)
}

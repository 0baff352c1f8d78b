package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"linkcard-be/internal/apperrors"
	"linkcard-be/internal/entities"
)

// LinkRepository defines the interface for link database operations
type LinkRepository interface {
	Insert(link *entities.Link) error
	FindBySlug(slug string) (*entities.Link, error)
	UpdateImageURL(slug, imgURL string) error
}

type linkRepository struct {
	db *sql.DB
}

// NewLinkRepository creates a new link repository
func NewLinkRepository(db *sql.DB) LinkRepository {
	return &linkRepository{db: db}
}

// IsUniqueViolation reports whether err is a slug uniqueness conflict. The
// caller regenerates and retries on these.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

// Insert stores a new link record under its slug
func (r *linkRepository) Insert(link *entities.Link) error {
	query := `
		INSERT INTO links (slug, dest_url, img_url, title, description, card_size, site_name, button_text, og_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		link.Slug,
		link.DestURL,
		link.ImgURL,
		link.Title,
		link.Description,
		link.CardSize,
		link.SiteName,
		link.ButtonText,
		link.OGURL,
	)
	if err != nil {
		return err
	}

	return nil
}

// FindBySlug finds a link by its slug
func (r *linkRepository) FindBySlug(slug string) (*entities.Link, error) {
	query := `
		SELECT slug, dest_url, img_url, title, description, card_size, site_name, button_text, og_url
		FROM links
		WHERE slug = ?
	`

	var link entities.Link
	err := r.db.QueryRow(query, slug).Scan(
		&link.Slug,
		&link.DestURL,
		&link.ImgURL,
		&link.Title,
		&link.Description,
		&link.CardSize,
		&link.SiteName,
		&link.ButtonText,
		&link.OGURL,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("link not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find link: %w", err)
	}

	return &link, nil
}

// UpdateImageURL performs the single permitted post-creation mutation: the
// one-time image URL update after a file upload accompanied creation.
func (r *linkRepository) UpdateImageURL(slug, imgURL string) error {
	result, err := r.db.Exec(`UPDATE links SET img_url = ? WHERE slug = ?`, imgURL, slug)
	if err != nil {
		return fmt.Errorf("failed to update link image: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NotFound("link not found")
	}

	return nil
}

package repository

import (
	"database/sql"
	"fmt"

	"linkcard-be/internal/apperrors"
	"linkcard-be/internal/entities"
)

// ImageRepository defines the interface for ephemeral image database operations
type ImageRepository interface {
	Insert(img *entities.Image) error
	FindByID(id string) (*entities.Image, error)
	Delete(id string) error
	FindExpired(now int64) ([]*entities.Image, error)
}

type imageRepository struct {
	db *sql.DB
}

// NewImageRepository creates a new image repository
func NewImageRepository(db *sql.DB) ImageRepository {
	return &imageRepository{db: db}
}

// Insert stores a new image record
func (r *imageRepository) Insert(img *entities.Image) error {
	query := `
		INSERT INTO images (id, filename, content_type, title, description, created_at, expires_at, delete_token)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		img.ID,
		img.Filename,
		img.ContentType,
		img.Title,
		img.Description,
		img.CreatedAt,
		img.ExpiresAt,
		img.DeleteToken,
	)
	if err != nil {
		return fmt.Errorf("failed to create image record: %w", err)
	}

	return nil
}

// FindByID finds an image record by its id
func (r *imageRepository) FindByID(id string) (*entities.Image, error) {
	query := `
		SELECT id, filename, content_type, title, description, created_at, expires_at, delete_token
		FROM images
		WHERE id = ?
	`

	var img entities.Image
	err := r.db.QueryRow(query, id).Scan(
		&img.ID,
		&img.Filename,
		&img.ContentType,
		&img.Title,
		&img.Description,
		&img.CreatedAt,
		&img.ExpiresAt,
		&img.DeleteToken,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("image not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find image: %w", err)
	}

	return &img, nil
}

// Delete removes an image record. Deleting an already-absent record is a
// no-op so the expiry sweep stays idempotent under concurrent requests.
func (r *imageRepository) Delete(id string) error {
	if _, err := r.db.Exec(`DELETE FROM images WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete image record: %w", err)
	}
	return nil
}

// FindExpired returns all records whose expiry has passed as of now
func (r *imageRepository) FindExpired(now int64) ([]*entities.Image, error) {
	query := `
		SELECT id, filename, content_type, title, description, created_at, expires_at, delete_token
		FROM images
		WHERE expires_at IS NOT NULL AND expires_at <= ?
	`

	rows, err := r.db.Query(query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query expired images: %w", err)
	}
	defer rows.Close()

	var images []*entities.Image
	for rows.Next() {
		var img entities.Image
		err := rows.Scan(
			&img.ID,
			&img.Filename,
			&img.ContentType,
			&img.Title,
			&img.Description,
			&img.CreatedAt,
			&img.ExpiresAt,
			&img.DeleteToken,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, &img)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating images: %w", err)
	}

	return images, nil
}

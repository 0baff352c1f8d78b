package service

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"

	"linkcard-be/internal/apperrors"
	"linkcard-be/internal/entities"
)

// makeFileHeader builds a real *multipart.FileHeader the way gin would hand
// one to a controller.
func makeFileHeader(t *testing.T, field, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	files := req.MultipartForm.File[field]
	require.Len(t, files, 1)
	return files[0]
}

// pngBytes encodes a small solid PNG.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fakeLinkRepo is an in-memory LinkRepository with scriptable uniqueness
// conflicts.
type fakeLinkRepo struct {
	links          map[string]*entities.Link
	conflictsLeft  int
	alwaysConflict bool
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: make(map[string]*entities.Link)}
}

func notFoundErr() error {
	return apperrors.NotFound("not found")
}

func uniqueViolation() error {
	return fmt.Errorf("constraint failed: UNIQUE constraint failed: links.slug (1555)")
}

func (f *fakeLinkRepo) Insert(link *entities.Link) error {
	if f.alwaysConflict {
		return uniqueViolation()
	}
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		return uniqueViolation()
	}
	if _, exists := f.links[link.Slug]; exists {
		return uniqueViolation()
	}
	stored := *link
	f.links[link.Slug] = &stored
	return nil
}

func (f *fakeLinkRepo) FindBySlug(slug string) (*entities.Link, error) {
	link, ok := f.links[slug]
	if !ok {
		return nil, notFoundErr()
	}
	found := *link
	return &found, nil
}

func (f *fakeLinkRepo) UpdateImageURL(slug, imgURL string) error {
	link, ok := f.links[slug]
	if !ok {
		return notFoundErr()
	}
	link.ImgURL = imgURL
	return nil
}

// fakeImageRepo is an in-memory ImageRepository. hideFromSweep makes
// FindExpired return nothing so the authoritative expiry checks can be
// exercised independently of the sweep.
type fakeImageRepo struct {
	images        map[string]*entities.Image
	hideFromSweep bool
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{images: make(map[string]*entities.Image)}
}

func (f *fakeImageRepo) Insert(img *entities.Image) error {
	stored := *img
	f.images[img.ID] = &stored
	return nil
}

func (f *fakeImageRepo) FindByID(id string) (*entities.Image, error) {
	img, ok := f.images[id]
	if !ok {
		return nil, notFoundErr()
	}
	found := *img
	return &found, nil
}

func (f *fakeImageRepo) Delete(id string) error {
	delete(f.images, id)
	return nil
}

func (f *fakeImageRepo) FindExpired(now int64) ([]*entities.Image, error) {
	if f.hideFromSweep {
		return nil, nil
	}
	var expired []*entities.Image
	for _, img := range f.images {
		if img.ExpiresAt != nil && *img.ExpiresAt <= now {
			found := *img
			expired = append(expired, &found)
		}
	}
	return expired, nil
}

package service

import (
	"mime/multipart"
	"os"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkcard-be/internal/apperrors"
	"linkcard-be/internal/imageproc"
	"linkcard-be/internal/storage"
)

func newTestImageService(t *testing.T, repo *fakeImageRepo) (ImageService, *storage.Disk) {
	t.Helper()
	store, err := storage.NewDisk(t.TempDir())
	require.NoError(t, err)
	return NewImageService(repo, store), store
}

func TestUploadStoresNormalizedCard(t *testing.T) {
	repo := newFakeImageRepo()
	svc, store := newTestImageService(t, repo)

	minutes := 60
	img, err := svc.Upload(UploadParams{
		File:          makeFileHeader(t, "file", "photo.png", "image/png", pngBytes(t, 400, 400)),
		Title:         "a title",
		ExpiryMinutes: &minutes,
	})
	require.NoError(t, err)

	assert.Len(t, img.ID, 32)
	assert.Equal(t, img.ID+".png", img.Filename)
	assert.Equal(t, "image/png", img.ContentType)
	assert.NotEmpty(t, img.DeleteToken)

	require.NotNil(t, img.ExpiresAt)
	assert.InDelta(t, img.CreatedAt+60*60, *img.ExpiresAt, 1)

	// The stored file was rewritten into card dimensions.
	out, err := imaging.Open(store.Path(img.Filename))
	require.NoError(t, err)
	assert.Equal(t, imageproc.CardWidth, out.Bounds().Dx())
	assert.Equal(t, imageproc.CardHeight, out.Bounds().Dy())
}

func TestUploadWithoutExpiryIsPermanent(t *testing.T) {
	repo := newFakeImageRepo()
	svc, _ := newTestImageService(t, repo)

	img, err := svc.Upload(UploadParams{
		File: makeFileHeader(t, "file", "photo.jpg", "image/jpeg", pngBytes(t, 40, 40)),
	})
	require.NoError(t, err)
	assert.Nil(t, img.ExpiresAt)
}

func TestUploadKeepsUndecodableFile(t *testing.T) {
	repo := newFakeImageRepo()
	svc, store := newTestImageService(t, repo)

	garbage := []byte("not an image at all")
	img, err := svc.Upload(UploadParams{
		File: makeFileHeader(t, "file", "broken.png", "image/png", garbage),
	})
	require.NoError(t, err, "normalization failure must not fail the upload")

	kept, err := os.ReadFile(store.Path(img.Filename))
	require.NoError(t, err)
	assert.Equal(t, garbage, kept)
}

func TestUploadRejectsInvalidType(t *testing.T) {
	repo := newFakeImageRepo()
	svc, _ := newTestImageService(t, repo)

	_, err := svc.Upload(UploadParams{
		File: makeFileHeader(t, "file", "page.html", "text/html", []byte("<html>")),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestViewReturnsLiveImage(t *testing.T) {
	repo := newFakeImageRepo()
	svc, _ := newTestImageService(t, repo)

	img, err := svc.Upload(UploadParams{
		File: makeFileHeader(t, "file", "photo.png", "image/png", pngBytes(t, 40, 40)),
	})
	require.NoError(t, err)

	got, err := svc.View(img.ID)
	require.NoError(t, err)
	assert.Equal(t, img.ID, got.ID)
}

func TestViewExpiredImageIsNotFound(t *testing.T) {
	repo := newFakeImageRepo()
	repo.hideFromSweep = true
	svc, _ := newTestImageService(t, repo)

	img, err := svc.Upload(UploadParams{
		File: makeFileHeader(t, "file", "photo.png", "image/png", pngBytes(t, 40, 40)),
	})
	require.NoError(t, err)

	// Expire the record under the sweep's nose; the per-request check must
	// still refuse to serve it.
	past := time.Now().Unix() - 10
	repo.images[img.ID].ExpiresAt = &past

	_, err = svc.View(img.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestDeleteWrongTokenIsForbidden(t *testing.T) {
	repo := newFakeImageRepo()
	svc, store := newTestImageService(t, repo)

	img, err := svc.Upload(UploadParams{
		File: makeFileHeader(t, "file", "photo.png", "image/png", pngBytes(t, 40, 40)),
	})
	require.NoError(t, err)

	err = svc.Delete(img.ID, "wrong-token")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	// A rejected delete leaves everything in place.
	_, err = svc.View(img.ID)
	assert.NoError(t, err)
	_, err = os.Stat(store.Path(img.Filename))
	assert.NoError(t, err)
}

func TestDeleteWithTokenRemovesFileAndRecord(t *testing.T) {
	repo := newFakeImageRepo()
	svc, store := newTestImageService(t, repo)

	img, err := svc.Upload(UploadParams{
		File: makeFileHeader(t, "file", "photo.png", "image/png", pngBytes(t, 40, 40)),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(img.ID, img.DeleteToken))

	_, err = svc.View(img.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	_, err = os.Stat(store.Path(img.Filename))
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteExpiredSucceedsOnceWithAnyToken(t *testing.T) {
	repo := newFakeImageRepo()
	svc, _ := newTestImageService(t, repo)

	img, err := svc.Upload(UploadParams{
		File: makeFileHeader(t, "file", "photo.png", "image/png", pngBytes(t, 40, 40)),
	})
	require.NoError(t, err)

	past := time.Now().Unix() - 10
	repo.images[img.ID].ExpiresAt = &past

	// Expiry alone authorizes removal.
	require.NoError(t, svc.Delete(img.ID, "whatever"))

	err = svc.Delete(img.ID, "whatever")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestCleanupExpiredIsIdempotent(t *testing.T) {
	repo := newFakeImageRepo()
	svc, store := newTestImageService(t, repo)

	img, err := svc.Upload(UploadParams{
		File: makeFileHeader(t, "file", "photo.png", "image/png", pngBytes(t, 40, 40)),
	})
	require.NoError(t, err)

	live, err := svc.Upload(UploadParams{
		File: makeFileHeader(t, "file", "keep.png", "image/png", pngBytes(t, 40, 40)),
	})
	require.NoError(t, err)

	past := time.Now().Unix() - 10
	repo.images[img.ID].ExpiresAt = &past

	// Remove the file out from under the sweep; it must still delete the
	// record and keep going.
	require.NoError(t, os.Remove(store.Path(img.Filename)))

	svc.CleanupExpired()
	svc.CleanupExpired()

	_, err = repo.FindByID(img.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	_, err = svc.View(live.ID)
	assert.NoError(t, err)
}

func TestCreateGrid(t *testing.T) {
	repo := newFakeImageRepo()
	svc, store := newTestImageService(t, repo)

	img, err := svc.CreateGrid([]*multipart.FileHeader{
		makeFileHeader(t, "files", "a.png", "image/png", pngBytes(t, 60, 60)),
		makeFileHeader(t, "files", "b.png", "image/png", pngBytes(t, 60, 60)),
		makeFileHeader(t, "files", "c.png", "image/png", pngBytes(t, 60, 60)),
	}, "+9")
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", img.ContentType)
	assert.Equal(t, img.ID+".png", img.Filename, "extension follows the first upload")
	assert.Nil(t, img.ExpiresAt, "grids never expire")

	out, err := imaging.Open(store.Path(img.Filename))
	require.NoError(t, err)
	assert.Equal(t, imageproc.CardWidth, out.Bounds().Dx())
	assert.Equal(t, imageproc.CardHeight, out.Bounds().Dy())
}

func TestCreateGridSkipsInvalidFiles(t *testing.T) {
	repo := newFakeImageRepo()
	svc, _ := newTestImageService(t, repo)

	_, err := svc.CreateGrid([]*multipart.FileHeader{
		makeFileHeader(t, "files", "a.png", "image/png", pngBytes(t, 60, 60)),
		makeFileHeader(t, "files", "broken.png", "image/png", []byte("garbage")),
	}, "")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

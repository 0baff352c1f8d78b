// Package imageproc normalizes uploaded images into fixed-aspect preview
// cards and composes multi-image grids. Transform failures are deliberately
// non-fatal for callers: an upload that cannot be normalized is served as-is.
package imageproc

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // webp decode support
)

// Preview card canvas, the ~1.91:1 aspect social platforms render.
const (
	CardWidth  = 1200
	CardHeight = 628
	cardRatio  = 1.91
)

// ComposeCard fits src onto the 1200x628 card canvas. Square and portrait
// images are scaled to the canvas height and centered on black padding;
// landscape images are center-cropped to the card ratio and scaled. offsetY,
// when non-nil, shifts the landscape crop window upward by that many source
// pixels, clamped so the window stays inside the source bounds.
func ComposeCard(src image.Image, offsetY *int) *image.NRGBA {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	ratio := 1.0
	if h > 0 {
		ratio = float64(w) / float64(h)
	}

	if ratio <= 1.0 {
		// Scale to canvas height, pad the sides with black.
		newW := int(float64(w) * (float64(CardHeight) / float64(h)))
		resized := imaging.Resize(src, newW, CardHeight, imaging.Lanczos)

		canvas := imaging.New(CardWidth, CardHeight, color.Black)
		pasteX := (CardWidth - newW) / 2
		return imaging.Paste(canvas, resized, image.Pt(pasteX, 0))
	}

	// Landscape: crop the full width to the card ratio, then scale.
	cropH := int(float64(w) / cardRatio)
	if cropH > h {
		cropH = h
	}

	var top int
	if offsetY != nil {
		// Positive offset moves the visible crop upward.
		centerY := float64(h)/2 - float64(*offsetY)
		top = int(centerY - float64(cropH)/2)
		if top < 0 {
			top = 0
		}
		if top > h-cropH {
			top = h - cropH
		}
	} else {
		top = (h - cropH) / 2
	}

	cropped := imaging.Crop(src, image.Rect(0, top, w, top+cropH))
	return imaging.Resize(cropped, CardWidth, CardHeight, imaging.Lanczos)
}

// NormalizeCardFile rewrites the image at path as a 1200x628 preview card,
// overwriting the saved upload in place. Callers treat a returned error as a
// warning and keep serving the unmodified file.
func NormalizeCardFile(path string, offsetY *int) error {
	src, err := imaging.Open(path)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	card := ComposeCard(src, offsetY)

	if err := imaging.Save(card, path); err != nil {
		return fmt.Errorf("failed to save card image: %w", err)
	}

	return nil
}

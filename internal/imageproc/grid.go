package imageproc

import (
	"image"
	"image/color"
	"image/draw"
	"log"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"linkcard-be/internal/apperrors"
)

// Fixed grid layouts by image count: columns x rows.
var gridLayouts = map[int][2]int{
	2: {2, 1},
	3: {3, 1},
	4: {2, 2},
	5: {3, 2}, // 3 on top, 2 centered below
}

const (
	overlayFontSize = 120
	overlayPadding  = 20
)

// GridCell returns the column and row for the idx-th image in a count-image
// grid. The 5-image layout is asymmetric: the bottom row starts at column 1
// so its two images sit centered.
func GridCell(idx, count, cols int) (col, row int) {
	if count == 5 {
		if idx < 3 {
			return idx, 0
		}
		return idx - 3 + 1, 1
	}
	return idx % cols, idx / cols
}

// ComposeGrid tiles 2-5 images onto a single 1200x628 canvas. Inputs beyond
// five are truncated; fewer than two is a validation error. Each image is
// stretched to exactly fill its cell. A non-empty overlayText is drawn
// bottom-right on a solid backing box; overlay failures are swallowed and
// the grid without overlay is still valid output.
func ComposeGrid(images []image.Image, overlayText string) (*image.NRGBA, error) {
	if len(images) < 2 {
		return nil, apperrors.Validation("need at least 2 images for grid")
	}
	if len(images) > 5 {
		images = images[:5]
	}

	count := len(images)
	layout := gridLayouts[count]
	cols, rows := layout[0], layout[1]

	cellW := CardWidth / cols
	cellH := CardHeight / rows

	canvas := imaging.New(CardWidth, CardHeight, color.White)

	for idx, img := range images {
		cell := imaging.Resize(img, cellW, cellH, imaging.Lanczos)
		col, row := GridCell(idx, count, cols)
		canvas = imaging.Paste(canvas, cell, image.Pt(col*cellW, row*cellH))
	}

	if overlayText != "" {
		if err := OverlayText(canvas, overlayText); err != nil {
			log.Printf("Warning: failed to draw grid overlay: %v", err)
		}
	}

	return canvas, nil
}

// OverlayText draws text at the bottom-right of dst over a solid white
// backing rectangle sized to the text plus fixed padding.
func OverlayText(dst *image.NRGBA, text string) error {
	face, err := overlayFace()
	if err != nil {
		return err
	}

	bounds, _ := font.BoundString(face, text)
	textW := (bounds.Max.X - bounds.Min.X).Ceil()
	textH := (bounds.Max.Y - bounds.Min.Y).Ceil()

	size := dst.Bounds()
	boxX := size.Dx() - textW - overlayPadding*2
	boxY := size.Dy() - textH - overlayPadding*2

	backing := image.Rect(
		boxX-overlayPadding,
		boxY-overlayPadding,
		boxX+textW+overlayPadding,
		boxY+textH+overlayPadding,
	)
	draw.Draw(dst, backing, image.NewUniform(color.White), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
		// Anchor the text's top-left at (boxX, boxY).
		Dot: fixed.Point26_6{
			X: fixed.I(boxX) - bounds.Min.X,
			Y: fixed.I(boxY) - bounds.Min.Y,
		},
	}
	drawer.DrawString(text)

	return nil
}

// overlayFace builds the overlay font face, falling back to the
// guaranteed-available bitmap face when the bundled TTF cannot be loaded.
func overlayFace() (font.Face, error) {
	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return basicfont.Face7x13, nil
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    overlayFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13, nil
	}

	return face, nil
}

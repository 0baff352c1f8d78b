package imageproc

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkcard-be/internal/apperrors"
)

func TestGridCell(t *testing.T) {
	tests := []struct {
		name            string
		idx, count, cols int
		wantCol, wantRow int
	}{
		{"two images first", 0, 2, 2, 0, 0},
		{"two images second", 1, 2, 2, 1, 0},
		{"three images last", 2, 3, 3, 2, 0},
		{"four images third", 2, 4, 2, 0, 1},
		{"four images fourth", 3, 4, 2, 1, 1},
		{"five images top row", 2, 5, 3, 2, 0},
		{"five images bottom starts at column 1", 3, 5, 3, 1, 1},
		{"five images last", 4, 5, 3, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, row := GridCell(tt.idx, tt.count, tt.cols)
			assert.Equal(t, tt.wantCol, col)
			assert.Equal(t, tt.wantRow, row)
		})
	}
}

func TestComposeGridRejectsSingleImage(t *testing.T) {
	_, err := ComposeGrid([]image.Image{solid(100, 100, red)}, "")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestComposeGridTwoImages(t *testing.T) {
	grid, err := ComposeGrid([]image.Image{
		solid(100, 100, red),
		solid(100, 100, blue),
	}, "")
	require.NoError(t, err)

	require.Equal(t, CardWidth, grid.Bounds().Dx())
	require.Equal(t, CardHeight, grid.Bounds().Dy())

	// Two columns of 600x628 each.
	assertColor(t, grid, 300, 314, red)
	assertColor(t, grid, 900, 314, blue)
}

func TestComposeGridFiveImageLayout(t *testing.T) {
	colors := []color.NRGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
		{R: 255, G: 255, A: 255},
		{R: 255, B: 255, A: 255},
	}

	var images []image.Image
	for _, c := range colors {
		images = append(images, solid(50, 50, c))
	}

	grid, err := ComposeGrid(images, "")
	require.NoError(t, err)

	// 3x2 layout: cells are 400x314. Images 0-2 fill row 0; images 3-4 sit
	// at row 1 columns 1-2; row 1 column 0 stays background white.
	assertColor(t, grid, 200, 157, colors[0])
	assertColor(t, grid, 600, 157, colors[1])
	assertColor(t, grid, 1000, 157, colors[2])
	assertColor(t, grid, 600, 471, colors[3])
	assertColor(t, grid, 1000, 471, colors[4])
	assertColor(t, grid, 200, 471, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
}

func TestComposeGridTruncatesBeyondFive(t *testing.T) {
	var images []image.Image
	for i := 0; i < 7; i++ {
		images = append(images, solid(50, 50, red))
	}

	grid, err := ComposeGrid(images, "")
	require.NoError(t, err)

	// The sixth and seventh images are dropped; the 5-image layout leaves
	// row 1 column 0 white.
	assertColor(t, grid, 200, 471, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
}

func TestComposeGridOverlayDrawsBackingBox(t *testing.T) {
	grid, err := ComposeGrid([]image.Image{
		solid(100, 100, red),
		solid(100, 100, blue),
	}, "+9")
	require.NoError(t, err)

	// The backing rectangle always reaches to 20px off the bottom-right
	// corner, whichever font face was available.
	assertColor(t, grid, 1175, 600, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	// The rest of the right cell is still the image.
	assertColor(t, grid, 700, 100, blue)
}

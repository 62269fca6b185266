package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/extend-xyz/spacegrid/common"
)

// Render draws the block as NeighborhoodSize x NeighborhoodSize image. The
// pixel (i, j) is the space with x offset i and y offset j inside the
// neighborhood.
func Render(b Block) *image.NRGBA {
	const n = common.NeighborhoodSize

	img := image.NewNRGBA(image.Rect(0, 0, n, n))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			off := 3*n*i + 3*j
			img.SetNRGBA(i, j, color.NRGBA{
				R: b.Pixels[off],
				G: b.Pixels[off+1],
				B: b.Pixels[off+2],
				A: 0xff,
			})
		}
	}
	return img
}

// WritePNG renders the block and encodes it as PNG.
func WritePNG(w io.Writer, b Block) error {
	if !b.Initialized {
		return fmt.Errorf("render: %w", common.ErrUninitialized)
	}
	return png.Encode(w, Render(b))
}

// Package imaging generates thumbnail variants of uploaded gallery images.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

const (
	// ThumbWidth is the bounding width for generated thumbnails.
	ThumbWidth = 480

	// jpegQuality balances file size against artifacts for travel photos.
	jpegQuality = 82
)

// Thumbnail decodes an image and scales it down to fit ThumbWidth,
// preserving aspect ratio. Images already at or below the bound are
// re-encoded without scaling. Output is always JPEG.
func Thumbnail(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > ThumbWidth {
		height = height * ThumbWidth / width
		width = ThumbWidth
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return out.Bytes(), nil
}

package chunkwriter

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"sync"
)

var placeholderOnce sync.Once
var placeholderBytes []byte

// PlaceholderJPEG returns a 1x1 RGB JPEG used in place of any source
// frame that a SPECIFIC_FRAMES segment's mask excludes from its chunk.
// Consumers must never mistake this for a real annotated frame; the
// frame provider only ever substitutes it for positions outside a
// segment's explicit frame set.
func PlaceholderJPEG() []byte {
	placeholderOnce.Do(func() {
		img := image.NewRGBA(image.Rect(0, 0, 1, 1))
		img.Set(0, 0, color.RGBA{R: PlaceholderRGB[0], G: PlaceholderRGB[1], B: PlaceholderRGB[2], A: 255})
		var buf bytes.Buffer
		_ = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
		placeholderBytes = buf.Bytes()
	})
	return placeholderBytes
}

package mediacache

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/frameforge/mediacore/internal/mediareader"
	"github.com/frameforge/mediacore/internal/model"
)

// ContextImagesProducer bundles the given related frame numbers (e.g. the
// other cameras/angles captured alongside dataID's primary frame) into a
// ZIP archive, normalizing EXIF orientation and thumbnailing each image so
// the bundle stays small regardless of source resolution.
func ContextImagesProducer(relatedFrames []int, reader mediareader.Reader) Producer {
	return func(ctx context.Context) ([]byte, string, error) {
		if len(relatedFrames) == 0 {
			// An empty bundle is a valid cached result: "this frame has
			// no related context images".
			return []byte{}, "application/zip", nil
		}
		frames, err := reader.ReadFrames(ctx, relatedFrames)
		if err != nil {
			return nil, "", err
		}

		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		for _, f := range frames {
			normalized, err := normalizeOrientation(f.Data)
			if err != nil {
				// Fall back to the original bytes; a malformed or
				// missing EXIF segment shouldn't drop a context image.
				normalized = f.Data
			}
			small, _, err := thumbnail(normalized)
			if err != nil {
				return nil, "", err
			}
			name := fmt.Sprintf("%d.jpg", f.FrameNumber)
			fw, err := zw.Create(name)
			if err != nil {
				return nil, "", fmt.Errorf("creating context image entry %s: %w", name, model.ErrChunkWrite)
			}
			if _, err := fw.Write(small); err != nil {
				return nil, "", fmt.Errorf("writing context image entry %s: %w", name, model.ErrChunkWrite)
			}
		}
		if err := zw.Close(); err != nil {
			return nil, "", fmt.Errorf("closing context image archive: %w", model.ErrChunkWrite)
		}
		return buf.Bytes(), "application/zip", nil
	}
}

// normalizeOrientation reads the EXIF orientation tag (APP1 segment, tag
// 0x0112) if present and re-encodes the image rotated/flipped upright.
// No EXIF-parsing library appears anywhere in the reference corpus this
// module was built from, so this reads the handful of bytes it needs by
// hand rather than reaching for a general-purpose metadata library for
// one tag.
func normalizeOrientation(data []byte) ([]byte, error) {
	orientation := readExifOrientation(data)
	if orientation <= 1 {
		return data, nil
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	upright := applyOrientation(img, orientation)
	var out bytes.Buffer
	if err := jpeg.Encode(&out, upright, &jpeg.Options{Quality: 95}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// readExifOrientation scans a JPEG's APP1 segment for the TIFF
// orientation tag, returning 0 if none is found.
func readExifOrientation(data []byte) int {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return 0
	}
	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			break
		}
		marker := data[i+1]
		if marker == 0xD8 || marker == 0xD9 {
			i += 2
			continue
		}
		segLen := int(data[i+2])<<8 | int(data[i+3])
		if marker == 0xE1 && i+4+6 <= len(data) && bytes.HasPrefix(data[i+4:], []byte("Exif\x00\x00")) {
			tiff := data[i+4+6:]
			return parseTIFFOrientation(tiff)
		}
		i += 2 + segLen
	}
	return 0
}

func parseTIFFOrientation(tiff []byte) int {
	if len(tiff) < 8 {
		return 0
	}
	var bigEndian bool
	switch string(tiff[0:2]) {
	case "II":
		bigEndian = false
	case "MM":
		bigEndian = true
	default:
		return 0
	}
	u16 := func(b []byte) int {
		if bigEndian {
			return int(b[0])<<8 | int(b[1])
		}
		return int(b[1])<<8 | int(b[0])
	}
	u32 := func(b []byte) int {
		if bigEndian {
			return int(b[0])<<24 | int(b[1])<<16 | int(b[2])<<8 | int(b[3])
		}
		return int(b[3])<<24 | int(b[2])<<16 | int(b[1])<<8 | int(b[0])
	}
	ifdOffset := u32(tiff[4:8])
	if ifdOffset+2 > len(tiff) {
		return 0
	}
	numEntries := u16(tiff[ifdOffset : ifdOffset+2])
	for e := 0; e < numEntries; e++ {
		entryOff := ifdOffset + 2 + e*12
		if entryOff+12 > len(tiff) {
			break
		}
		tag := u16(tiff[entryOff : entryOff+2])
		if tag == 0x0112 {
			return u16(tiff[entryOff+8 : entryOff+10])
		}
	}
	return 0
}

// applyOrientation rotates/mirrors img upright for the EXIF orientation
// values 2, 3, 6 and 8. Any other value, including 4, 5 and 7, returns img
// unchanged.
func applyOrientation(img image.Image, orientation int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch orientation {
	case 3: // 180
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dst.Set(w-1-x, h-1-y, img.At(b.Min.X+x, b.Min.Y+y))
			}
		}
		return dst
	case 6: // 90 CW
		dst := image.NewRGBA(image.Rect(0, 0, h, w))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dst.Set(h-1-y, x, img.At(b.Min.X+x, b.Min.Y+y))
			}
		}
		return dst
	case 8: // 90 CCW
		dst := image.NewRGBA(image.Rect(0, 0, h, w))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dst.Set(y, w-1-x, img.At(b.Min.X+x, b.Min.Y+y))
			}
		}
		return dst
	case 2: // horizontal mirror
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dst.Set(w-1-x, y, img.At(b.Min.X+x, b.Min.Y+y))
			}
		}
		return dst
	default:
		return img
	}
}

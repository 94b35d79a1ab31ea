// Package frameprovider implements SegmentFrameProvider and
// TaskFrameProvider: the read path that validates a requested frame or
// chunk, routes it through the Chunk Loader and Media Cache, and decodes
// it into the caller's requested output encoding.
package frameprovider

// Encoding selects how a single decoded frame is returned. These are the
// Go-idiomatic stand-ins for the three output forms a frame-serving
// layer needs to support: the chunk's raw on-disk bytes, a decoded
// in-memory image, and a flat pixel buffer suitable for numeric
// processing.
type Encoding string

const (
	EncodingRawBytes    Encoding = "raw_bytes"
	EncodingDecodedImage Encoding = "decoded_image"
	EncodingPixelBuffer  Encoding = "pixel_buffer"
)

// FrameResult is what GetFrame returns: either Bytes or Pixels is
// populated, matching Encoding.
type FrameResult struct {
	Encoding Encoding
	Bytes    []byte // EncodingRawBytes, or EncodingDecodedImage re-encoded as JPEG
	Mime     string
	Width    int
	Height   int
	Pixels   []byte // EncodingPixelBuffer: row-major BGR, 3 bytes per pixel
}

// ChunkResult is what GetChunk returns: a whole chunk's bytes, handed back
// unmodified for the HTTP layer (out of scope here) to stream to a
// client.
type ChunkResult struct {
	Bytes []byte
	Mime  string
}

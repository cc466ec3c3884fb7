// Package codec defines the decoder interface shared by the image codecs in
// this module and a registry to look them up by name or transfer syntax UID.
package codec

// Codec is the universal interface for all image decoders
type Codec interface {
	// Decode decodes compressed data
	Decode(data []byte) (*DecodeResult, error)

	// UID returns the unique identifier (typically DICOM Transfer Syntax UID)
	UID() string

	// Name returns a human-readable name
	Name() string
}

// DecodeResult contains the result of decoding
type DecodeResult struct {
	PixelData  []byte // Decoded interleaved pixel data
	Width      int    // Image width
	Height     int    // Image height
	Components int    // Number of color components
	BitDepth   int    // Bits per sample
}

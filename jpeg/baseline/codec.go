package baseline

import (
	"github.com/zwcloud/BigGustave/codec"
)

// Codec implements the codec.Codec interface for JPEG Baseline
type Codec struct{}

// NewCodec creates a new JPEG Baseline codec
func NewCodec() *Codec {
	return &Codec{}
}

// Decode decodes JPEG Baseline data
func (c *Codec) Decode(data []byte) (*codec.DecodeResult, error) {
	pixelData, width, height, components, err := Decode(data)
	if err != nil {
		return nil, err
	}

	return &codec.DecodeResult{
		PixelData:  pixelData,
		Width:      width,
		Height:     height,
		Components: components,
		BitDepth:   8, // Baseline is always 8-bit
	}, nil
}

// UID returns the DICOM Transfer Syntax UID for JPEG Baseline
func (c *Codec) UID() string {
	return "1.2.840.10008.1.2.4.50"
}

// Name returns the human-readable name
func (c *Codec) Name() string {
	return "jpeg-baseline"
}

func init() {
	codec.Register(NewCodec())
}

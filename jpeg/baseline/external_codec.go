package baseline

import (
	"fmt"

	"github.com/cocosip/go-dicom/pkg/dicom/transfer"
	"github.com/cocosip/go-dicom/pkg/imaging/codec"
	"github.com/cocosip/go-dicom/pkg/imaging/imagetypes"
)

var _ codec.Codec = (*BaselineCodec)(nil)

// BaselineCodec implements the external codec.Codec interface for JPEG
// Baseline (Process 1). It is decode-only: this module does not encode.
type BaselineCodec struct {
	transferSyntax *transfer.Syntax
}

// NewBaselineCodec creates a new JPEG Baseline codec
func NewBaselineCodec() *BaselineCodec {
	return &BaselineCodec{
		transferSyntax: transfer.JPEGBaseline8Bit,
	}
}

// Name returns the codec name
func (c *BaselineCodec) Name() string {
	return "JPEG Baseline (Process 1)"
}

// TransferSyntax returns the transfer syntax this codec handles
func (c *BaselineCodec) TransferSyntax() *transfer.Syntax {
	return c.transferSyntax
}

// GetDefaultParameters returns the default codec parameters
func (c *BaselineCodec) GetDefaultParameters() codec.Parameters {
	return NewBaselineParameters()
}

// Encode is not supported; this codec only decodes
func (c *BaselineCodec) Encode(oldPixelData imagetypes.PixelData, newPixelData imagetypes.PixelData, parameters codec.Parameters) error {
	return fmt.Errorf("JPEG Baseline encoding is not supported")
}

// Decode decodes JPEG Baseline data to uncompressed pixel data
func (c *BaselineCodec) Decode(oldPixelData imagetypes.PixelData, newPixelData imagetypes.PixelData, parameters codec.Parameters) error {
	if oldPixelData == nil || newPixelData == nil {
		return fmt.Errorf("source and destination PixelData cannot be nil")
	}

	frameInfo := oldPixelData.GetFrameInfo()
	if frameInfo == nil {
		return fmt.Errorf("failed to get frame info from source pixel data")
	}

	opts := c.extractOptions(parameters)

	frameCount := oldPixelData.FrameCount()
	if frameCount == 0 {
		return fmt.Errorf("source pixel data is empty (no frames)")
	}

	for frameIndex := 0; frameIndex < frameCount; frameIndex++ {
		frameData, err := oldPixelData.GetFrame(frameIndex)
		if err != nil {
			return fmt.Errorf("failed to get frame %d: %w", frameIndex, err)
		}
		if len(frameData) == 0 {
			return fmt.Errorf("frame %d pixel data is empty", frameIndex)
		}

		pixelData, width, height, components, err := DecodeWithOptions(frameData, opts)
		if err != nil {
			return fmt.Errorf("JPEG Baseline decode failed for frame %d: %w", frameIndex, err)
		}

		if width != int(frameInfo.Width) || height != int(frameInfo.Height) {
			return fmt.Errorf("decoded dimensions (%dx%d) don't match expected (%dx%d)",
				width, height, frameInfo.Width, frameInfo.Height)
		}
		if components != int(frameInfo.SamplesPerPixel) {
			return fmt.Errorf("decoded components (%d) don't match expected (%d)",
				components, frameInfo.SamplesPerPixel)
		}

		if err := newPixelData.AddFrame(pixelData); err != nil {
			return fmt.Errorf("failed to add decoded frame %d: %w", frameIndex, err)
		}
	}

	return nil
}

func (c *BaselineCodec) extractOptions(parameters codec.Parameters) *Options {
	opts := DefaultOptions()
	if parameters == nil {
		return opts
	}
	if bp, ok := parameters.(*BaselineParameters); ok {
		opts.Strict = bp.Strict
		return opts
	}
	if v := parameters.GetParameter("strict"); v != nil {
		if b, ok := v.(bool); ok {
			opts.Strict = b
		}
	}
	return opts
}

// RegisterBaselineCodec registers the JPEG Baseline codec with the global registry
func RegisterBaselineCodec() {
	registry := codec.GetGlobalRegistry()
	registry.RegisterCodec(transfer.JPEGBaseline8Bit, NewBaselineCodec())
}

func init() {
	RegisterBaselineCodec()
}

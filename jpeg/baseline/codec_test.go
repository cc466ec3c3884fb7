package baseline

import (
	"testing"
)

func TestCodecIdentity(t *testing.T) {
	c := NewCodec()
	if c.Name() != "jpeg-baseline" {
		t.Errorf("Name() = %q, want %q", c.Name(), "jpeg-baseline")
	}
	if c.UID() != "1.2.840.10008.1.2.4.50" {
		t.Errorf("UID() = %q, want %q", c.UID(), "1.2.840.10008.1.2.4.50")
	}
}

func TestCodecDecode(t *testing.T) {
	result, err := NewCodec().Decode(grayJPEG(8, 8, []byte{0x3F}))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if result.Width != 8 || result.Height != 8 || result.Components != 1 {
		t.Errorf("result = %dx%d/%d components, want 8x8/1",
			result.Width, result.Height, result.Components)
	}
	if result.BitDepth != 8 {
		t.Errorf("BitDepth = %d, want 8", result.BitDepth)
	}
	if len(result.PixelData) != 64 {
		t.Errorf("PixelData length = %d, want 64", len(result.PixelData))
	}
}

func TestCodecDecodeError(t *testing.T) {
	if _, err := NewCodec().Decode([]byte{0x00, 0x01, 0x02}); err == nil {
		t.Error("Decode should fail on garbage input")
	}
}

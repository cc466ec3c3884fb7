package common

import (
	"testing"
)

func TestIDCTZeroBlock(t *testing.T) {
	coef := make([]int32, 64)
	out := make([]byte, 64)

	IDCT(coef, out, 8)

	for i, v := range out {
		if v != 128 {
			t.Fatalf("out[%d] = %d, want 128", i, v)
		}
	}
}

func TestIDCTDCOnly(t *testing.T) {
	tests := []struct {
		name string
		dc   int32
		want byte
	}{
		{"mid gray", 0, 128},
		{"positive", 64, 136},
		{"negative", -1024, 112},
		{"clamps high", 32767, 255},
		{"clamps low", -32768, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coef := make([]int32, 64)
			coef[0] = tt.dc
			out := make([]byte, 64)

			IDCT(coef, out, 8)

			for i, v := range out {
				if v != tt.want {
					t.Fatalf("out[%d] = %d, want %d", i, v, tt.want)
				}
			}
		})
	}
}

// The output stride addresses blocks inside a larger component plane; bytes
// outside the 8x8 block must be left alone.
func TestIDCTStride(t *testing.T) {
	const stride = 16
	buf := make([]byte, 8*stride)
	for i := range buf {
		buf[i] = 0xAA
	}

	coef := make([]int32, 64)
	coef[0] = 64
	IDCT(coef, buf, stride)

	for y := 0; y < 8; y++ {
		for x := 0; x < stride; x++ {
			v := buf[y*stride+x]
			if x < 8 {
				if v != 136 {
					t.Fatalf("block sample (%d,%d) = %d, want 136", x, y, v)
				}
			} else if v != 0xAA {
				t.Fatalf("sample (%d,%d) = %#x, want untouched 0xAA", x, y, v)
			}
		}
	}
}

// An AC-only block must average to the level shift: the DC term is the mean,
// so with DC zero the sum over the block stays near 128*64.
func TestIDCTACOnlyMean(t *testing.T) {
	coef := make([]int32, 64)
	coef[1] = 100
	coef[8] = -60
	out := make([]byte, 64)

	IDCT(coef, out, 8)

	sum := 0
	for _, v := range out {
		sum += int(v)
	}
	mean := sum / 64
	if mean < 127 || mean > 129 {
		t.Errorf("block mean = %d, want 128 +/- 1", mean)
	}
}

package common

import "testing"

func TestZigZagInverse(t *testing.T) {
	for i := 0; i < 64; i++ {
		if got := UnZigZag[ZigZag[i]]; got != i {
			t.Errorf("UnZigZag[ZigZag[%d]] = %d, want %d", i, got, i)
		}
		if got := ZigZag[UnZigZag[i]]; got != i {
			t.Errorf("ZigZag[UnZigZag[%d]] = %d, want %d", i, got, i)
		}
	}
}

func TestZigZagSpotValues(t *testing.T) {
	// First few positions of the scan: DC, then (0,1), (1,0), (2,0), (1,1)
	for i, want := range []int{0, 1, 8, 16, 9, 2} {
		if ZigZag[i] != want {
			t.Errorf("ZigZag[%d] = %d, want %d", i, ZigZag[i], want)
		}
	}
	if ZigZag[63] != 63 {
		t.Errorf("ZigZag[63] = %d, want 63", ZigZag[63])
	}
}

func TestDivCeil(t *testing.T) {
	tests := []struct {
		a, b, want int
	}{
		{0, 8, 0},
		{1, 8, 1},
		{8, 8, 1},
		{9, 8, 2},
		{16, 8, 2},
		{17, 8, 3},
	}
	for _, tt := range tests {
		if got := DivCeil(tt.a, tt.b); got != tt.want {
			t.Errorf("DivCeil(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, want int
	}{
		{-500, 0},
		{-1, 0},
		{0, 0},
		{128, 128},
		{255, 255},
		{256, 255},
		{9999, 255},
	}
	for _, tt := range tests {
		if got := Clamp(tt.val, 0, 255); got != tt.want {
			t.Errorf("Clamp(%d, 0, 255) = %d, want %d", tt.val, got, tt.want)
		}
	}
}

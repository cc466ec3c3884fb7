package common

// Fixed-point constants for the scaled integer IDCT (scaled by 2048)
const (
	w1 = 2841 // 2048*sqrt(2)*cos(1*pi/16)
	w2 = 2676 // 2048*sqrt(2)*cos(2*pi/16)
	w3 = 2408 // 2048*sqrt(2)*cos(3*pi/16)
	w5 = 1609 // 2048*sqrt(2)*cos(5*pi/16)
	w6 = 1108 // 2048*sqrt(2)*cos(6*pi/16)
	w7 = 565  // 2048*sqrt(2)*cos(7*pi/16)

	r2 = 181 // 256/sqrt(2)
)

// IDCT performs the separable 2-D inverse DCT on one 8x8 block.
//
// Input is 64 dequantized coefficients in natural row-major order. Output
// samples are level-shifted by +128, clamped to [0, 255] and written to out
// with the given row stride.
func IDCT(coef []int32, out []byte, stride int) {
	var tmp [64]int32

	for y := 0; y < 8; y++ {
		idctRow(coef[y*8:y*8+8], tmp[y*8:y*8+8])
	}
	for x := 0; x < 8; x++ {
		idctCol(&tmp, out, x, stride)
	}
}

// idctRow computes one row of the first 1-D pass
func idctRow(row []int32, dst []int32) {
	// All-zero AC row collapses to the DC term
	if row[1] == 0 && row[2] == 0 && row[3] == 0 && row[4] == 0 &&
		row[5] == 0 && row[6] == 0 && row[7] == 0 {
		dc := row[0] << 3
		for i := range dst {
			dst[i] = dc
		}
		return
	}

	x0 := (row[0] << 11) + 128
	x1 := row[4] << 11
	x2 := row[6]
	x3 := row[2]
	x4 := row[1]
	x5 := row[7]
	x6 := row[5]
	x7 := row[3]

	x8 := w7 * (x4 + x5)
	x4 = x8 + w1*x4
	x5 = x8 - w5*x5
	x8 = w3 * (x6 + x7)
	x6 = x8 - w3*x6
	x7 = x8 - w7*x7

	x8 = x0 + x1
	x0 -= x1
	x1 = w6 * (x3 + x2)
	x2 = x1 - w2*x2
	x3 = x1 + w6*x3
	x1 = x4 + x6
	x4 -= x6
	x6 = x5 + x7
	x5 -= x7

	x7 = x8 + x3
	x8 -= x3
	x3 = x0 + x2
	x0 -= x2
	x2 = (r2 * (x4 + x5)) >> 8
	x4 = (r2 * (x4 - x5)) >> 8

	dst[0] = (x7 + x1) >> 8
	dst[1] = (x3 + x2) >> 8
	dst[2] = (x0 + x4) >> 8
	dst[3] = (x8 + x6) >> 8
	dst[4] = (x8 - x6) >> 8
	dst[5] = (x0 - x4) >> 8
	dst[6] = (x3 - x2) >> 8
	dst[7] = (x7 - x1) >> 8
}

// idctCol computes one column of the second 1-D pass, applying the level
// shift and range limit on output
func idctCol(tmp *[64]int32, out []byte, x, stride int) {
	if tmp[8+x] == 0 && tmp[16+x] == 0 && tmp[24+x] == 0 &&
		tmp[32+x] == 0 && tmp[40+x] == 0 && tmp[48+x] == 0 && tmp[56+x] == 0 {
		dc := byte(Clamp(int(((tmp[x]+32)>>6)+128), 0, 255))
		for y := 0; y < 8; y++ {
			out[y*stride+x] = dc
		}
		return
	}

	x0 := (tmp[0+x] << 8) + 8192
	x1 := tmp[32+x] << 8
	x2 := tmp[48+x]
	x3 := tmp[16+x]
	x4 := tmp[8+x]
	x5 := tmp[56+x]
	x6 := tmp[40+x]
	x7 := tmp[24+x]

	x8 := w7 * (x4 + x5)
	x4 = x8 + w1*x4
	x5 = x8 - w5*x5
	x8 = w3 * (x6 + x7)
	x6 = x8 - w3*x6
	x7 = x8 - w7*x7

	x8 = x0 + x1
	x0 -= x1
	x1 = w6 * (x3 + x2)
	x2 = x1 - w2*x2
	x3 = x1 + w6*x3
	x1 = x4 + x6
	x4 -= x6
	x6 = x5 + x7
	x5 -= x7

	x7 = x8 + x3
	x8 -= x3
	x3 = x0 + x2
	x0 -= x2
	x2 = (r2 * (x4 + x5)) >> 8
	x4 = (r2 * (x4 - x5)) >> 8

	out[0*stride+x] = byte(Clamp(int(((x7+x1)>>14)+128), 0, 255))
	out[1*stride+x] = byte(Clamp(int(((x3+x2)>>14)+128), 0, 255))
	out[2*stride+x] = byte(Clamp(int(((x0+x4)>>14)+128), 0, 255))
	out[3*stride+x] = byte(Clamp(int(((x8+x6)>>14)+128), 0, 255))
	out[4*stride+x] = byte(Clamp(int(((x8-x6)>>14)+128), 0, 255))
	out[5*stride+x] = byte(Clamp(int(((x0-x4)>>14)+128), 0, 255))
	out[6*stride+x] = byte(Clamp(int(((x3-x2)>>14)+128), 0, 255))
	out[7*stride+x] = byte(Clamp(int(((x7-x1)>>14)+128), 0, 255))
}

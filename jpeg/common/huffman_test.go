package common

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// bitWriter packs bits MSB-first, stuffs a 0x00 after every emitted 0xFF and
// pads the final byte with 1-bits, the way encoders produce entropy data.
type bitWriter struct {
	data []byte
	cur  byte
	n    int
}

func (w *bitWriter) emit(b byte) {
	w.data = append(w.data, b)
	if b == 0xFF {
		w.data = append(w.data, 0x00)
	}
}

func (w *bitWriter) writeBits(code uint32, length int) {
	for i := length - 1; i >= 0; i-- {
		w.cur = w.cur<<1 | byte((code>>uint(i))&1)
		w.n++
		if w.n == 8 {
			w.emit(w.cur)
			w.cur, w.n = 0, 0
		}
	}
}

func (w *bitWriter) bytes() []byte {
	if w.n == 0 {
		return w.data
	}
	pad := w.cur
	for i := w.n; i < 8; i++ {
		pad = pad<<1 | 1
	}
	w.emit(pad)
	w.n = 0
	return w.data
}

// canonicalCodes recomputes the canonical code assignment from (bits,
// values), independently of the table's internal structures.
type huffCode struct {
	code   uint32
	length int
}

func canonicalCodes(bits [16]int, values []byte) []huffCode {
	codes := make([]huffCode, 0, len(values))
	code := uint32(0)
	for l := 0; l < 16; l++ {
		for i := 0; i < bits[l]; i++ {
			codes = append(codes, huffCode{code: code, length: l + 1})
			code++
		}
		code <<= 1
	}
	return codes
}

func TestBuildStandardTables(t *testing.T) {
	tests := []struct {
		name   string
		bits   [16]int
		values []byte
	}{
		{"DC luminance", StandardDCLuminanceBits, StandardDCLuminanceValues},
		{"DC chrominance", StandardDCChrominanceBits, StandardDCChrominanceValues},
		{"AC luminance", StandardACLuminanceBits, StandardACLuminanceValues},
		{"AC chrominance", StandardACChrominanceBits, StandardACChrominanceValues},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &HuffmanTable{Bits: tt.bits, Values: tt.values}
			if err := table.Build(); err != nil {
				t.Fatalf("Build failed: %v", err)
			}
		})
	}
}

func TestCanonicalCodesPrefixFree(t *testing.T) {
	codes := canonicalCodes(StandardACLuminanceBits, StandardACLuminanceValues)

	for i, a := range codes {
		if a.length > 16 {
			t.Fatalf("code %d has length %d > 16", i, a.length)
		}
		for j, b := range codes {
			if i == j {
				continue
			}
			if a.length <= b.length && a.code == b.code>>uint(b.length-a.length) {
				t.Fatalf("code %d (%0*b) is a prefix of code %d (%0*b)",
					i, a.length, a.code, j, b.length, b.code)
			}
		}
	}
}

// Encoding every symbol with its canonical code and decoding the resulting
// bit sequence must return the symbols in order. The standard AC tables
// contain codes both below and above 8 bits, so this exercises the fast
// lookup and the bit-by-bit path.
func TestDecodeRoundTrip(t *testing.T) {
	for _, tt := range []struct {
		name   string
		bits   [16]int
		values []byte
	}{
		{"DC luminance", StandardDCLuminanceBits, StandardDCLuminanceValues},
		{"AC luminance", StandardACLuminanceBits, StandardACLuminanceValues},
		{"AC chrominance", StandardACChrominanceBits, StandardACChrominanceValues},
	} {
		t.Run(tt.name, func(t *testing.T) {
			table := &HuffmanTable{Bits: tt.bits, Values: tt.values}
			if err := table.Build(); err != nil {
				t.Fatalf("Build failed: %v", err)
			}

			var w bitWriter
			for _, c := range canonicalCodes(tt.bits, tt.values) {
				w.writeBits(c.code, c.length)
			}

			dec := NewHuffmanDecoder(bytes.NewReader(w.bytes()))
			got := make([]byte, 0, len(tt.values))
			for range tt.values {
				sym, err := dec.Decode(table)
				if err != nil {
					t.Fatalf("Decode failed after %d symbols: %v", len(got), err)
				}
				got = append(got, sym)
			}

			if diff := cmp.Diff(tt.values, got); diff != "" {
				t.Errorf("decoded symbols mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildRejectsInvalidTables(t *testing.T) {
	tests := []struct {
		name   string
		bits   [16]int
		values []byte
	}{
		{"no codes", [16]int{}, nil},
		{"count/value mismatch", [16]int{0, 2}, []byte{1}},
		{"overfull length", [16]int{3}, []byte{1, 2, 3}},
		{"overfull second length", [16]int{0, 5}, []byte{1, 2, 3, 4, 5}},
		{"overfull after valid lengths", [16]int{1, 3}, []byte{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &HuffmanTable{Bits: tt.bits, Values: tt.values}
			if err := table.Build(); err != ErrInvalidDHT {
				t.Errorf("Build error = %v, want %v", err, ErrInvalidDHT)
			}
		})
	}
}

func TestDecodeNoMatchingCode(t *testing.T) {
	// Single 1-bit code "0"; a stream of 1-bits matches nothing at any length.
	table := &HuffmanTable{Bits: [16]int{1}, Values: []byte{0x05}}
	if err := table.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// 16 one-bits (each 0xFF is followed by a stuffed 0x00)
	dec := NewHuffmanDecoder(bytes.NewReader([]byte{0xFF, 0x00, 0xFF, 0x00}))
	if _, err := dec.Decode(table); err != ErrNoHuffmanCode {
		t.Errorf("Decode error = %v, want %v", err, ErrNoHuffmanCode)
	}
}

func TestReadBitsByteStuffing(t *testing.T) {
	dec := NewHuffmanDecoder(bytes.NewReader([]byte{0x12, 0xFF, 0x00, 0x34}))

	for _, want := range []uint32{0x12, 0xFF, 0x34} {
		got, err := dec.ReadBits(8)
		if err != nil {
			t.Fatalf("ReadBits failed: %v", err)
		}
		if got != want {
			t.Errorf("ReadBits(8) = %#x, want %#x", got, want)
		}
	}
}

func TestReadBitsMarkerTerminatesData(t *testing.T) {
	// 0xFF followed by anything but 0x00 is a marker: requesting bits past
	// it must fail.
	dec := NewHuffmanDecoder(bytes.NewReader([]byte{0xAB, 0xFF, 0xD9}))

	if _, err := dec.ReadBits(8); err != nil {
		t.Fatalf("ReadBits failed: %v", err)
	}
	if _, err := dec.ReadBits(8); err != ErrUnexpectedEOF {
		t.Errorf("ReadBits error = %v, want %v", err, ErrUnexpectedEOF)
	}
}

func TestReadBitsExhaustion(t *testing.T) {
	dec := NewHuffmanDecoder(bytes.NewReader(nil))
	if _, err := dec.ReadBit(); err != ErrUnexpectedEOF {
		t.Errorf("ReadBit error = %v, want %v", err, ErrUnexpectedEOF)
	}

	dec = NewHuffmanDecoder(bytes.NewReader([]byte{0xAB}))
	if _, err := dec.ReadBits(16); err != ErrUnexpectedEOF {
		t.Errorf("ReadBits(16) error = %v, want %v", err, ErrUnexpectedEOF)
	}
}

func TestReceiveExtend(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		ssss int
		want int
	}{
		// Category 3: raw 011 is in the lower half, 3 - 7 = -4
		{"category 3 negative", []byte{0x60}, 3, -4},
		// Category 3: raw 100 is in the upper half, unchanged
		{"category 3 positive", []byte{0x80}, 3, 4},
		{"category 1 negative", []byte{0x00}, 1, -1},
		{"category 1 positive", []byte{0x80}, 1, 1},
		{"category 0 reads nothing", nil, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := NewHuffmanDecoder(bytes.NewReader(tt.data))
			got, err := dec.ReceiveExtend(tt.ssss)
			if err != nil {
				t.Fatalf("ReceiveExtend failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ReceiveExtend(%d) = %d, want %d", tt.ssss, got, tt.want)
			}
		})
	}
}

package common

import "io"

// HuffmanTable is a canonical Huffman coding table built from a DHT segment
type HuffmanTable struct {
	// Number of codes of each length (1-16 bits)
	Bits [16]int
	// Symbol for each code, in order of increasing code length
	Values []byte
	// Canonical code ranges per length, for bit-by-bit decoding
	minCode [16]int32
	maxCode [16]int32
	valPtr  [16]int32
	// Lookup table for fast decoding of codes up to 8 bits long;
	// entry is (nbits << 8) | symbol, -1 if no code has this prefix
	lookupTable [256]int16
}

// Build derives the canonical codes from Bits and Values.
//
// Codes are assigned in increasing value in increasing length order: codes of
// equal length are consecutive integers, and moving to the next length doubles
// the running code value. Build fails if the counts do not match the symbol
// list or describe more codes than a prefix-free 16-bit code can hold.
func (h *HuffmanTable) Build() error {
	total := 0
	for _, n := range h.Bits {
		total += n
	}
	if total == 0 || total > 256 || total != len(h.Values) {
		return ErrInvalidDHT
	}

	// Code ranges for the bit-by-bit path. Counts that describe more codes
	// than a length can hold are rejected here, before anything is indexed
	// by a code value.
	code := int32(0)
	p := 0
	for l := 0; l < 16; l++ {
		if h.Bits[l] == 0 {
			h.maxCode[l] = -1
		} else {
			h.valPtr[l] = int32(p)
			h.minCode[l] = code
			code += int32(h.Bits[l])
			p += h.Bits[l]
			h.maxCode[l] = code - 1
			if h.maxCode[l] >= int32(1)<<uint(l+1) {
				return ErrInvalidDHT
			}
		}
		code <<= 1
	}

	// Fast lookup for codes of 8 bits or fewer: every 8-bit prefix of a code
	// resolves to the code's symbol and length.
	for i := range h.lookupTable {
		h.lookupTable[i] = -1
	}
	fast := 0
	p = 0
	for l := 0; l < 8; l++ {
		for i := 0; i < h.Bits[l]; i++ {
			base := fast << uint(7-l)
			span := 1 << uint(7-l)
			for j := 0; j < span; j++ {
				h.lookupTable[base+j] = int16((l+1)<<8 | int(h.Values[p]))
			}
			fast++
			p++
		}
		fast <<= 1
	}

	return nil
}

// HuffmanDecoder reads bits from one scan's entropy-coded payload.
//
// Stuffed 0x00 bytes following a literal 0xFF are removed transparently. Any
// other byte after 0xFF is a marker: entropy data has ended, and further bit
// requests fail with ErrUnexpectedEOF.
type HuffmanDecoder struct {
	r       io.Reader
	bits    uint32 // bit buffer, most recent byte in the low bits
	nBits   int    // number of unconsumed bits in the buffer
	readErr error
}

// NewHuffmanDecoder creates a decoder over the given entropy-coded data
func NewHuffmanDecoder(r io.Reader) *HuffmanDecoder {
	return &HuffmanDecoder{r: r}
}

func (d *HuffmanDecoder) fill() error {
	if d.readErr != nil {
		return d.readErr
	}

	var b [1]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		d.readErr = ErrUnexpectedEOF
		return d.readErr
	}

	if b[0] == 0xFF {
		var b2 [1]byte
		if _, err := io.ReadFull(d.r, b2[:]); err != nil {
			d.readErr = ErrUnexpectedEOF
			return d.readErr
		}
		if b2[0] != 0x00 {
			// A marker terminates the entropy data; the caller still
			// wanted bits, so the scan is truncated.
			d.readErr = ErrUnexpectedEOF
			return d.readErr
		}
	}

	d.bits = d.bits<<8 | uint32(b[0])
	d.nBits += 8
	return nil
}

// tryFill tops the buffer up to a full byte so the lookup fast path can see
// an 8-bit prefix. Running out of data here is not latched as an error: the
// missing bits only matter if the code being decoded actually needs them.
// A marker still ends the entropy data for good.
func (d *HuffmanDecoder) tryFill() {
	var b [1]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return
	}

	if b[0] == 0xFF {
		var b2 [1]byte
		if _, err := io.ReadFull(d.r, b2[:]); err != nil {
			d.readErr = ErrUnexpectedEOF
			return
		}
		if b2[0] != 0x00 {
			d.readErr = ErrUnexpectedEOF
			return
		}
	}

	d.bits = d.bits<<8 | uint32(b[0])
	d.nBits += 8
}

// ReadBit reads a single bit
func (d *HuffmanDecoder) ReadBit() (int, error) {
	if d.nBits == 0 {
		if err := d.fill(); err != nil {
			return 0, err
		}
	}
	d.nBits--
	return int(d.bits>>uint(d.nBits)) & 1, nil
}

// ReadBits reads n bits (0-16) as a big-endian unsigned integer,
// most-significant bit first
func (d *HuffmanDecoder) ReadBits(n int) (uint32, error) {
	if n < 0 || n > 16 {
		return 0, ErrInvalidData
	}
	if n == 0 {
		return 0, nil
	}
	for d.nBits < n {
		if err := d.fill(); err != nil {
			return 0, err
		}
	}
	d.nBits -= n
	return (d.bits >> uint(d.nBits)) & ((1 << uint(n)) - 1), nil
}

// Decode reads bits until they match a code in table and returns its symbol.
// If no code matches after 16 bits the stream is inconsistent with the table
// and ErrNoHuffmanCode is returned.
func (d *HuffmanDecoder) Decode(table *HuffmanTable) (byte, error) {
	if d.readErr != nil {
		return 0, d.readErr
	}

	// Fast path for codes of 8 bits or fewer
	if d.nBits < 8 {
		d.tryFill()
	}
	if d.nBits >= 8 {
		peek := (d.bits >> uint(d.nBits-8)) & 0xFF
		if entry := table.lookupTable[peek]; entry >= 0 {
			d.nBits -= int(entry >> 8)
			return byte(entry & 0xFF), nil
		}
	}

	code := int32(0)
	for l := 0; l < 16; l++ {
		bit, err := d.ReadBit()
		if err != nil {
			return 0, err
		}
		code = code<<1 | int32(bit)

		if table.maxCode[l] >= 0 && code >= table.minCode[l] && code <= table.maxCode[l] {
			return table.Values[table.valPtr[l]+code-table.minCode[l]], nil
		}
	}

	return 0, ErrNoHuffmanCode
}

// ReceiveExtend reads ssss magnitude bits and recovers the signed value per
// the JPEG signed-magnitude convention: bit patterns in the lower half of the
// 2^ssss range are negative.
func (d *HuffmanDecoder) ReceiveExtend(ssss int) (int, error) {
	if ssss == 0 {
		return 0, nil
	}

	bits, err := d.ReadBits(ssss)
	if err != nil {
		return 0, err
	}

	val := int(bits)
	if val < 1<<uint(ssss-1) {
		val += (-1 << uint(ssss)) + 1
	}

	return val, nil
}

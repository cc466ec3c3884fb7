// Package baseline decodes baseline sequential DCT Huffman-coded JPEG
// streams (ITU-T T.81 process 1) into interleaved 8-bit pixel data.
package baseline

import (
	"bytes"
	"io"

	"github.com/zwcloud/BigGustave/jpeg/common"
)

// Component represents a color component in the frame
type Component struct {
	ID         byte // Component identifier
	H          int  // Horizontal sampling factor
	V          int  // Vertical sampling factor
	Tq         int  // Quantization table selector
	width      int  // Component width in blocks
	height     int  // Component height in blocks
	dcSelector int  // DC Huffman table selector
	acSelector int  // AC Huffman table selector
	dcPred     int  // DC prediction value, reset at each scan
	data       []byte
}

// Decoder holds the table and frame state accumulated while walking the
// marker stream. The zero value is not usable; create one with NewDecoder.
type Decoder struct {
	opts Options

	width       int
	height      int
	precision   int
	frameMarker uint16 // SOF marker of the active frame, 0 until one is seen
	components  []*Component
	maxH, maxV  int
	mcuWidth    int
	mcuHeight   int

	// Tables are keyed by destination id; redefinition overwrites. DC and AC
	// Huffman tables are independent namespaces.
	qtables   [4][64]int32
	qtDefined [4]bool
	dcTables  [4]*common.HuffmanTable
	acTables  [4]*common.HuffmanTable

	scanComponents  []*Component
	restartInterval int
	comments        []string
}

// NewDecoder creates a decoder. A nil opts selects DefaultOptions.
func NewDecoder(opts *Options) *Decoder {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Decoder{opts: *opts}
}

// Decode decodes baseline JPEG data into interleaved pixels
// (grayscale or RGB)
func Decode(jpegData []byte) (pixelData []byte, width, height, components int, err error) {
	return DecodeWithOptions(jpegData, nil)
}

// DecodeWithOptions decodes baseline JPEG data with explicit options
func DecodeWithOptions(jpegData []byte, opts *Options) (pixelData []byte, width, height, components int, err error) {
	d := NewDecoder(opts)
	pixelData, err = d.Decode(jpegData)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	return pixelData, d.width, d.height, len(d.components), nil
}

// Width returns the frame width in samples
func (d *Decoder) Width() int { return d.width }

// Height returns the frame height in samples
func (d *Decoder) Height() int { return d.height }

// Components returns the number of color components in the frame
func (d *Decoder) Components() int { return len(d.components) }

// Comments returns the text of all COM segments in stream order
func (d *Decoder) Comments() []string { return d.comments }

// RestartInterval returns the last DRI value, in MCUs (0 if none was defined)
func (d *Decoder) RestartInterval() int { return d.restartInterval }

// Decode walks the marker stream, accumulating tables and frame state,
// decodes each scan it encounters, and on EOI returns the reconstructed
// pixel data.
func (d *Decoder) Decode(jpegData []byte) ([]byte, error) {
	reader := common.NewReader(bytes.NewReader(jpegData))

	marker, err := reader.ReadMarker()
	if err != nil {
		return nil, readErr(err)
	}
	pending := marker != common.MarkerSOI
	if pending && d.opts.Strict {
		return nil, common.ErrMissingSOI
	}

	for {
		if !pending {
			marker, err = reader.ReadMarker()
			if err != nil {
				return nil, readErr(err)
			}
		}
		pending = false

		switch {
		case marker == common.MarkerEOI:
			if d.frameMarker == 0 {
				return nil, common.ErrInvalidData
			}
			return d.convertToPixels(), nil

		case marker == common.MarkerCOM:
			err = d.parseCOM(reader)

		case marker == common.MarkerDQT:
			err = d.parseDQT(reader)

		case marker == common.MarkerDHT:
			err = d.parseDHT(reader)

		case marker == common.MarkerDAC:
			err = common.ErrArithmeticCoding

		case marker == common.MarkerDRI:
			err = d.parseDRI(reader)

		case common.IsSOF(marker):
			err = d.parseSOF(marker, reader)

		case marker == common.MarkerSOS:
			if err = d.parseSOS(reader); err == nil {
				// Interleaved single pass: the scan is decoded as soon as
				// its header is parsed. decodeScan hands back the marker
				// that terminated the entropy data.
				marker, err = d.decodeScan(reader)
				pending = err == nil && marker != 0
			}

		case marker == common.MarkerSOI || common.IsRST(marker):
			// No payload, nothing to record outside a scan.

		default:
			if common.HasLength(marker) {
				_, err = reader.ReadSegment()
				err = readErr(err)
			}
		}

		if err != nil {
			return nil, err
		}
	}
}

func readErr(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return common.ErrUnexpectedEOF
	}
	return err
}

// parseSOF parses a Start of Frame header. All SOF variants share the header
// layout and are parsed alike; whether the frame can actually be decoded is
// checked when a scan starts.
func (d *Decoder) parseSOF(marker uint16, reader *common.Reader) error {
	data, err := reader.ReadSegment()
	if err != nil {
		return readErr(err)
	}

	if len(data) < 6 {
		return common.ErrInvalidSOF
	}

	d.frameMarker = marker
	d.precision = int(data[0])
	if marker == common.MarkerSOF0 && d.precision != 8 {
		return common.ErrInvalidPrecision
	}

	d.height = int(data[1])<<8 | int(data[2])
	d.width = int(data[3])<<8 | int(data[4])
	numComponents := int(data[5])

	if d.width <= 0 || d.height <= 0 {
		return common.ErrInvalidDimensions
	}
	if numComponents != 1 && numComponents != 3 {
		return common.ErrInvalidComponents
	}
	if len(data) < 6+numComponents*3 {
		return common.ErrInvalidSOF
	}

	d.maxH, d.maxV = 1, 1
	d.components = make([]*Component, numComponents)

	for i := 0; i < numComponents; i++ {
		offset := 6 + i*3
		comp := &Component{
			ID: data[offset],
			H:  int(data[offset+1] >> 4),
			V:  int(data[offset+1] & 0x0F),
			Tq: int(data[offset+2]),
		}

		if comp.H <= 0 || comp.H > 4 || comp.V <= 0 || comp.V > 4 {
			return common.ErrInvalidSOF
		}
		if comp.Tq > 3 {
			return common.ErrInvalidSOF
		}

		if comp.H > d.maxH {
			d.maxH = comp.H
		}
		if comp.V > d.maxV {
			d.maxV = comp.V
		}

		d.components[i] = comp
	}

	d.mcuWidth = d.maxH * 8
	d.mcuHeight = d.maxV * 8

	for _, comp := range d.components {
		comp.width = common.DivCeil(d.width*comp.H, d.maxH*8)
		comp.height = common.DivCeil(d.height*comp.V, d.maxV*8)
		comp.data = make([]byte, comp.width*comp.height*64)
	}

	return nil
}

// parseDQT parses a Define Quantization Table segment. A segment may pack
// multiple tables back-to-back; each overwrites any earlier table with the
// same destination id. Elements are stored in zig-zag order on the wire and
// reordered to natural order here, once.
func (d *Decoder) parseDQT(reader *common.Reader) error {
	data, err := reader.ReadSegment()
	if err != nil {
		return readErr(err)
	}

	offset := 0
	for offset < len(data) {
		pqTq := data[offset]
		pq := pqTq >> 4   // Element precision (0=8-bit, 1=16-bit)
		tq := pqTq & 0x0F // Destination id

		if tq > 3 || pq > 1 {
			return common.ErrInvalidDQT
		}
		offset++

		if pq == 0 {
			if offset+64 > len(data) {
				return common.ErrInvalidDQT
			}
			for i := 0; i < 64; i++ {
				d.qtables[tq][common.ZigZag[i]] = int32(data[offset+i])
			}
			offset += 64
		} else {
			if offset+128 > len(data) {
				return common.ErrInvalidDQT
			}
			for i := 0; i < 64; i++ {
				d.qtables[tq][common.ZigZag[i]] = int32(data[offset+i*2])<<8 | int32(data[offset+i*2+1])
			}
			offset += 128
		}

		d.qtDefined[tq] = true
	}

	return nil
}

// parseDHT parses a Define Huffman Table segment. A segment may pack multiple
// tables; DC (class 0) and AC (class 1) tables are stored in separate maps
// even when they share a destination id.
func (d *Decoder) parseDHT(reader *common.Reader) error {
	data, err := reader.ReadSegment()
	if err != nil {
		return readErr(err)
	}

	offset := 0
	for offset < len(data) {
		tcTh := data[offset]
		tc := tcTh >> 4   // Table class (0=DC, 1=AC)
		th := tcTh & 0x0F // Destination id

		if tc > 1 || th > 3 {
			return common.ErrInvalidDHT
		}
		offset++

		if offset+16 > len(data) {
			return common.ErrInvalidDHT
		}
		table := &common.HuffmanTable{}
		totalCodes := 0
		for i := 0; i < 16; i++ {
			table.Bits[i] = int(data[offset+i])
			totalCodes += table.Bits[i]
		}
		offset += 16

		if offset+totalCodes > len(data) {
			return common.ErrInvalidDHT
		}
		table.Values = make([]byte, totalCodes)
		copy(table.Values, data[offset:offset+totalCodes])
		offset += totalCodes

		if err := table.Build(); err != nil {
			return err
		}

		if tc == 0 {
			d.dcTables[th] = table
		} else {
			d.acTables[th] = table
		}
	}

	return nil
}

// parseDRI records the restart interval in MCUs. Restart markers are skipped
// during entropy-data extraction but no resynchronization is performed.
func (d *Decoder) parseDRI(reader *common.Reader) error {
	data, err := reader.ReadSegment()
	if err != nil {
		return readErr(err)
	}
	if len(data) != 2 {
		return common.ErrInvalidData
	}
	d.restartInterval = int(data[0])<<8 | int(data[1])
	return nil
}

// parseCOM stores the comment text. Comments have no decode effect.
func (d *Decoder) parseCOM(reader *common.Reader) error {
	data, err := reader.ReadSegment()
	if err != nil {
		return readErr(err)
	}
	d.comments = append(d.comments, string(data))
	return nil
}

// parseSOS parses a Start of Scan header and resolves its component and
// table selectors. Every table a scan references must already be defined;
// there are no default tables to fall back on.
func (d *Decoder) parseSOS(reader *common.Reader) error {
	if d.frameMarker == 0 {
		return common.ErrScanWithoutFrame
	}
	switch {
	case d.frameMarker == common.MarkerSOF0:
	case common.IsArithmeticSOF(d.frameMarker):
		return common.ErrArithmeticCoding
	default:
		return common.ErrUnsupportedFrame
	}

	data, err := reader.ReadSegment()
	if err != nil {
		return readErr(err)
	}

	if len(data) < 1 {
		return common.ErrInvalidSOS
	}
	ns := int(data[0])
	if ns < 1 || ns > 4 || len(data) < 1+ns*2+3 {
		return common.ErrInvalidSOS
	}

	d.scanComponents = make([]*Component, ns)
	for i := 0; i < ns; i++ {
		cs := data[1+i*2]
		tdTa := data[1+i*2+1]

		var comp *Component
		for _, c := range d.components {
			if c.ID == cs {
				comp = c
				break
			}
		}
		if comp == nil {
			return common.ErrInvalidSOS
		}

		comp.dcSelector = int(tdTa >> 4)
		comp.acSelector = int(tdTa & 0x0F)
		if comp.dcSelector > 3 || comp.acSelector > 3 {
			return common.ErrInvalidSOS
		}

		if d.dcTables[comp.dcSelector] == nil || d.acTables[comp.acSelector] == nil {
			return common.ErrUndefinedTable
		}
		if !d.qtDefined[comp.Tq] {
			return common.ErrUndefinedTable
		}

		d.scanComponents[i] = comp
	}

	// Spectral selection and successive approximation bytes carry no
	// information in baseline sequential mode.

	return nil
}

// readEntropyData extracts one scan's entropy-coded payload. Stuffed bytes
// are kept (the bit reader removes them), restart markers are dropped, and
// the first real marker terminates the payload and is returned.
func (d *Decoder) readEntropyData(reader *common.Reader) ([]byte, uint16, error) {
	var scanData bytes.Buffer
	for {
		b, err := reader.ReadByte()
		if err == io.EOF {
			return scanData.Bytes(), 0, nil
		}
		if err != nil {
			return nil, 0, readErr(err)
		}

		if b != 0xFF {
			scanData.WriteByte(b)
			continue
		}

		b2, err := reader.ReadByte()
		if err == io.EOF {
			scanData.WriteByte(b)
			return scanData.Bytes(), 0, nil
		}
		if err != nil {
			return nil, 0, readErr(err)
		}

		marker := uint16(0xFF00) | uint16(b2)
		switch {
		case b2 == 0x00:
			scanData.WriteByte(b)
			scanData.WriteByte(b2)
		case common.IsRST(marker):
			// Restart marker: recognized and skipped, no resynchronization.
		default:
			return scanData.Bytes(), marker, nil
		}
	}
}

// decodeScan decodes every MCU of the current scan and returns the marker
// that terminated the entropy data (0 if the stream ended first).
func (d *Decoder) decodeScan(reader *common.Reader) (uint16, error) {
	data, next, err := d.readEntropyData(reader)
	if err != nil {
		return 0, err
	}

	// DC prediction starts from zero in every scan
	for _, comp := range d.scanComponents {
		comp.dcPred = 0
	}

	huffDec := common.NewHuffmanDecoder(bytes.NewReader(data))

	mcuCols := common.DivCeil(d.width, d.mcuWidth)
	mcuRows := common.DivCeil(d.height, d.mcuHeight)

	for mcuY := 0; mcuY < mcuRows; mcuY++ {
		for mcuX := 0; mcuX < mcuCols; mcuX++ {
			for _, comp := range d.scanComponents {
				for v := 0; v < comp.V; v++ {
					for h := 0; h < comp.H; h++ {
						if err := d.decodeBlock(huffDec, comp, mcuX*comp.H+h, mcuY*comp.V+v); err != nil {
							return 0, err
						}
					}
				}
			}
		}
	}

	return next, nil
}

// decodeBlock decodes one 8x8 block and reconstructs its samples into the
// component plane. Padding blocks past the component grid still consume
// their bits; their samples are discarded.
func (d *Decoder) decodeBlock(huffDec *common.HuffmanDecoder, comp *Component, blockX, blockY int) error {
	coef, err := d.decodeCoefficients(huffDec, comp)
	if err != nil {
		return err
	}

	if blockX >= comp.width || blockY >= comp.height {
		return nil
	}

	blockOffset := (blockY*comp.width + blockX) * 64
	common.IDCT(coef[:], comp.data[blockOffset:], 8)

	return nil
}

// decodeCoefficients entropy-decodes and dequantizes one block, scattering
// coefficients from zig-zag scan order into natural order.
func (d *Decoder) decodeCoefficients(huffDec *common.HuffmanDecoder, comp *Component) ([64]int32, error) {
	var coef [64]int32

	dcTable := d.dcTables[comp.dcSelector]
	acTable := d.acTables[comp.acSelector]
	if dcTable == nil || acTable == nil || !d.qtDefined[comp.Tq] {
		return coef, common.ErrUndefinedTable
	}
	qtable := &d.qtables[comp.Tq]

	// DC: category symbol, then signed-magnitude difference against the
	// component's running prediction
	s, err := huffDec.Decode(dcTable)
	if err != nil {
		return coef, err
	}
	diff, err := huffDec.ReceiveExtend(int(s))
	if err != nil {
		return coef, err
	}
	comp.dcPred += diff
	coef[0] = int32(comp.dcPred) * qtable[0]

	// AC: run/size symbols. 0x00 is EOB, 0xF0 skips 16 zeros without
	// reading magnitude bits.
	k := 1
	for k < 64 {
		rs, err := huffDec.Decode(acTable)
		if err != nil {
			return coef, err
		}

		r := int(rs >> 4)
		size := int(rs & 0x0F)

		if size == 0 {
			if r == 15 {
				k += 16
				continue
			}
			break
		}

		k += r
		if k >= 64 {
			return coef, common.ErrInvalidData
		}

		val, err := huffDec.ReceiveExtend(size)
		if err != nil {
			return coef, err
		}

		nat := common.ZigZag[k]
		coef[nat] = int32(val) * qtable[nat]
		k++
	}

	return coef, nil
}

// convertToPixels assembles the component planes into interleaved pixel
// data, upsampling by sampling factor and discarding padding beyond the
// declared width and height.
func (d *Decoder) convertToPixels() []byte {
	numComponents := len(d.components)
	pixelData := make([]byte, d.width*d.height*numComponents)

	switch numComponents {
	case 1:
		comp := d.components[0]
		for y := 0; y < d.height; y++ {
			for x := 0; x < d.width; x++ {
				pixelData[y*d.width+x] = comp.sample(x, y)
			}
		}
	case 3:
		for y := 0; y < d.height; y++ {
			for x := 0; x < d.width; x++ {
				var yy, cb, cr byte
				for i, comp := range d.components {
					sx := (x * comp.H) / d.maxH
					sy := (y * comp.V) / d.maxV
					val := comp.sample(sx, sy)
					switch i {
					case 0:
						yy = val
					case 1:
						cb = val
					case 2:
						cr = val
					}
				}

				r, g, b := ycbcrToRGB(yy, cb, cr)
				offset := (y*d.width + x) * 3
				pixelData[offset+0] = r
				pixelData[offset+1] = g
				pixelData[offset+2] = b
			}
		}
	}

	return pixelData
}

// sample returns the reconstructed sample at component coordinates (x, y)
func (c *Component) sample(x, y int) byte {
	blockX := x / 8
	blockY := y / 8
	if blockX >= c.width || blockY >= c.height {
		return 0
	}
	blockOffset := (blockY*c.width + blockX) * 64
	return c.data[blockOffset+(y%8)*8+x%8]
}

// ycbcrToRGB converts one YCbCr triple to RGB, rounding to nearest.
// Fixed-point equivalents of R = Y + 1.402*(Cr-128),
// G = Y - 0.344136*(Cb-128) - 0.714136*(Cr-128), B = Y + 1.772*(Cb-128).
func ycbcrToRGB(yy, cb, cr byte) (byte, byte, byte) {
	y := int(yy)
	cbVal := int(cb) - 128
	crVal := int(cr) - 128

	r := y + ((91881*crVal + 32768) >> 16)
	g := y - ((22554*cbVal + 46802*crVal + 32768) >> 16)
	b := y + ((116130*cbVal + 32768) >> 16)

	return byte(common.Clamp(r, 0, 255)),
		byte(common.Clamp(g, 0, 255)),
		byte(common.Clamp(b, 0, 255))
}

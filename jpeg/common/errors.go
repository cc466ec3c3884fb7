package common

import "errors"

// Common errors
var (
	ErrInvalidMarker     = errors.New("invalid JPEG marker")
	ErrMissingSOI        = errors.New("missing SOI marker")
	ErrInvalidSOF        = errors.New("invalid Start of Frame")
	ErrInvalidDHT        = errors.New("invalid Huffman table definition")
	ErrInvalidDQT        = errors.New("invalid Quantization table definition")
	ErrInvalidSOS        = errors.New("invalid Start of Scan")
	ErrScanWithoutFrame  = errors.New("Start of Scan before Start of Frame")
	ErrUndefinedTable    = errors.New("scan references an undefined table")
	ErrUnsupportedFrame  = errors.New("unsupported frame type (baseline sequential only)")
	ErrArithmeticCoding  = errors.New("arithmetic coding is not supported")
	ErrNoHuffmanCode     = errors.New("no matching Huffman code")
	ErrUnexpectedEOF     = errors.New("unexpected end of entropy-coded data")
	ErrInvalidData       = errors.New("invalid JPEG data")
	ErrInvalidDimensions = errors.New("invalid image dimensions")
	ErrInvalidComponents = errors.New("invalid number of components")
	ErrInvalidPrecision  = errors.New("invalid precision")
)

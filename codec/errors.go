package codec

import "errors"

var (
	// ErrCodecNotFound is returned when a codec is not found in the registry
	ErrCodecNotFound = errors.New("codec not found")

	// ErrUnsupportedFormat is returned when the format is not supported
	ErrUnsupportedFormat = errors.New("unsupported format")
)

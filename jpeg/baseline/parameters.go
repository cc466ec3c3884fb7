package baseline

import (
	"github.com/cocosip/go-dicom/pkg/imaging/codec"
)

// Ensure BaselineParameters implements codec.Parameters
var _ codec.Parameters = (*BaselineParameters)(nil)

// BaselineParameters contains parameters for JPEG Baseline decoding
type BaselineParameters struct {
	// Strict requires the stream to begin with an SOI marker
	Strict bool

	// internal storage for compatibility with generic parameter interface
	params map[string]interface{}
}

// NewBaselineParameters creates a new BaselineParameters with default values
func NewBaselineParameters() *BaselineParameters {
	return &BaselineParameters{
		Strict: true,
		params: make(map[string]interface{}),
	}
}

// GetParameter retrieves a parameter by name (implements codec.Parameters)
func (p *BaselineParameters) GetParameter(name string) interface{} {
	switch name {
	case "strict":
		return p.Strict
	default:
		return p.params[name]
	}
}

// SetParameter sets a parameter value (implements codec.Parameters)
func (p *BaselineParameters) SetParameter(name string, value interface{}) {
	switch name {
	case "strict":
		if v, ok := value.(bool); ok {
			p.Strict = v
		}
	default:
		p.params[name] = value
	}
}

// Validate checks if the parameters are valid
func (p *BaselineParameters) Validate() error {
	return nil
}

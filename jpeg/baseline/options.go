package baseline

// Options controls decoding behavior
type Options struct {
	// Strict requires the stream to begin with an SOI marker. When false the
	// decoder proceeds from the first recognizable marker instead of failing.
	// Mid-stream structural errors are fatal in both modes.
	Strict bool
}

// DefaultOptions returns the default decoding options (strict header check)
func DefaultOptions() *Options {
	return &Options{Strict: true}
}

// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize caps the bytes ParseAndDecode accepts before compiling.
const DefaultMaxFileSize int64 = 1 << 20

type (
	decodeOptions struct {
		maxFileSize int64
		concrete    bool
		filename    string
	}

	// Option adjusts a single ParseAndDecode call.
	Option func(*decodeOptions)
)

func defaultOptions() decodeOptions {
	return decodeOptions{maxFileSize: DefaultMaxFileSize, concrete: true}
}

// WithMaxFileSize replaces DefaultMaxFileSize. Zero or less disables the check.
func WithMaxFileSize(size int64) Option {
	return func(o *decodeOptions) { o.maxFileSize = size }
}

// WithConcrete controls whether validation demands concrete values. The config
// loader turns it off because unset keys fall back to Viper defaults.
func WithConcrete(concrete bool) Option {
	return func(o *decodeOptions) { o.concrete = concrete }
}

// WithFilename names the input in positions and size errors.
func WithFilename(name string) Option {
	return func(o *decodeOptions) { o.filename = name }
}

// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize caps documents at 5 MiB. Cookbook metadata is a few
// kilobytes; anything near the cap is almost certainly the wrong file.
const DefaultMaxFileSize int64 = 5 << 20

// Option adjusts how a document is parsed.
type Option func(*settings)

type settings struct {
	limit    int64
	concrete bool
	file     string
}

func newSettings(opts []Option) settings {
	s := settings{limit: DefaultMaxFileSize, concrete: true, file: "<input>"}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(limit int64) Option {
	return func(s *settings) { s.limit = limit }
}

// WithConcrete controls whether every field must be concrete once the
// document is unified with its schema. Documents whose fields are all
// optional, like the CLI config, pass false.
func WithConcrete(concrete bool) Option {
	return func(s *settings) { s.concrete = concrete }
}

// WithFilename names the document in error messages.
func WithFilename(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.file = name
		}
	}
}

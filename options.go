/*
 * Copyright 2021 National Library of Norway.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *       http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package gomarc

type options struct {
	encoding      Encoding
	errEncoding   errorPolicy // How to handle field data not valid in the declared encoding
	errSyntax     errorPolicy // How to handle structural problems in ISO 2709 data
	replacement   string
	unicodeLeader bool
}

// The errorPolicy constants describe how to handle MARC record errors.
type errorPolicy int8

const (
	ErrIgnore errorPolicy = 0 // Ignore the given error.
	ErrWarn   errorPolicy = 1 // Ignore given error, but submit a warning.
	ErrFail   errorPolicy = 2 // Fail on given error.
	ErrFix    errorPolicy = 4 // Try to fix the given error.
)

// Option configures validation, serialization and deserialization of MARC records.
type Option interface {
	apply(*options)
}

// funcOption wraps a function that modifies options into an
// implementation of the Option interface.
type funcOption struct {
	f func(*options)
}

func (fo *funcOption) apply(po *options) {
	fo.f(po)
}

func newFuncOption(f func(*options)) *funcOption {
	return &funcOption{
		f: f,
	}
}

func defaultOptions() options {
	return options{
		encoding:    UTF8,
		errEncoding: ErrWarn,
		errSyntax:   ErrWarn,
		replacement: "�",
	}
}

func newOptions(opts ...Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}
	return &o
}

// WithEncoding sets the declared encoding of field data.
// defaults to UTF8
func WithEncoding(encoding Encoding) Option {
	return newFuncOption(func(o *options) {
		o.encoding = encoding
	})
}

// WithEncodingPolicy sets the policy for field data that is not valid in the declared encoding.
//
//	ErrIgnore: invalid bytes are kept as is.
//	ErrWarn: invalid bytes are kept as is and the problem is added to the Validation.
//	ErrFail: an EncodingMismatchError is returned and no record.
//	ErrFix: invalid bytes are replaced and the problem is added to the Validation.
//
// MARC-8 data that cannot be transliterated is always replaced unless the policy is ErrFail.
// defaults to ErrWarn
func WithEncodingPolicy(policy errorPolicy) Option {
	return newFuncOption(func(o *options) {
		o.errEncoding = policy
	})
}

// WithSyntaxErrorPolicy sets the policy for structural problems like directory entries
// pointing outside the record or missing field terminators.
// defaults to ErrWarn
func WithSyntaxErrorPolicy(policy errorPolicy) Option {
	return newFuncOption(func(o *options) {
		o.errSyntax = policy
	})
}

// WithReplacement sets the string substituted for undecodable input.
// defaults to U+FFFD
func WithReplacement(replacement string) Option {
	return newFuncOption(func(o *options) {
		o.replacement = replacement
	})
}

// WithUnicodeLeader sets if the marshaler should mark records as UCS/Unicode in leader position 9.
// defaults to false
func WithUnicodeLeader(unicode bool) Option {
	return newFuncOption(func(o *options) {
		o.unicodeLeader = unicode
	})
}

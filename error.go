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

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEncodingMismatch is matched by errors.Is for every EncodingMismatchError.
	ErrEncodingMismatch = errors.New("gomarc: encoding mismatch")
	// ErrRecordTooLarge is matched by errors.Is for every RecordTooLargeError.
	ErrRecordTooLarge = errors.New("gomarc: record too large")
)

// EncodingMismatchError is returned when field data is not valid in the declared encoding.
type EncodingMismatchError struct {
	Tag      string // Tag of the field
	Encoding string // Declared encoding
	Offset   int    // Offset of the first invalid byte within the field data
}

func (e *EncodingMismatchError) Error() string {
	return fmt.Sprintf("gomarc: field %s is not valid %s at byte %d", e.Tag, e.Encoding, e.Offset)
}

func (e *EncodingMismatchError) Is(target error) bool {
	return target == ErrEncodingMismatch
}

// RecordTooLargeError is returned when a length or offset does not fit its fixed width decimal field.
type RecordTooLargeError struct {
	Tag   string // Tag of the field, empty for the record length
	What  string
	Value int
	Limit int
}

func (e *RecordTooLargeError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("gomarc: %s %d exceeds %d at field %s", e.What, e.Value, e.Limit, e.Tag)
	}
	return fmt.Sprintf("gomarc: %s %d exceeds %d", e.What, e.Value, e.Limit)
}

func (e *RecordTooLargeError) Is(target error) bool {
	return target == ErrRecordTooLarge
}

// FieldError is returned when a field cannot be marshaled.
type FieldError struct {
	tag string
	msg string
}

func newFieldErrorf(tag string, msg string, param ...any) *FieldError {
	return &FieldError{tag: tag, msg: fmt.Sprintf(msg, param...)}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("gomarc: %s at field '%s'", e.msg, e.tag)
}

// SyntaxError is used for ISO 2709 data that is structurally broken.
type SyntaxError struct {
	msg     string
	offset  int64
	wrapped error
}

func newSyntaxError(msg string, offset int64) *SyntaxError {
	return &SyntaxError{msg: msg, offset: offset}
}

func newWrappedSyntaxError(msg string, offset int64, wrapped error) *SyntaxError {
	return &SyntaxError{msg: msg, offset: offset, wrapped: wrapped}
}

func (e *SyntaxError) Error() string {
	if e.offset >= 0 {
		return fmt.Sprintf("gomarc: %s at offset %d", e.msg, e.offset)
	}
	return fmt.Sprintf("gomarc: %s", e.msg)
}

func (e *SyntaxError) Unwrap() error {
	return e.wrapped
}

// SchemaError is returned when a hash, JSON or YAML value does not describe a record.
type SchemaError struct {
	path string
	msg  string
}

func newSchemaErrorf(path string, msg string, param ...any) *SchemaError {
	return &SchemaError{path: path, msg: fmt.Sprintf(msg, param...)}
}

func (e *SchemaError) Error() string {
	if e.path != "" {
		return fmt.Sprintf("gomarc: %s at %s", e.msg, e.path)
	}
	return fmt.Sprintf("gomarc: %s", e.msg)
}

type multiErr []error

func (e multiErr) Error() string {
	switch len(e) {

	case 0:
		return ""

	case 1:
		return e[0].Error()
	}

	const (
		start = "["
		sep   = ", "
		end   = "]"
	)

	n := len(start) + len(end) + (len(sep) * (len(e) - 1))
	for i := 0; i < len(e); i++ {
		n += len(e[i].Error())
	}

	var b strings.Builder
	b.Grow(n)
	b.WriteString(start)
	b.WriteString(e[0].Error())
	for _, s := range e[1:] {
		b.WriteString(sep)
		b.WriteString(s.Error())
	}
	b.WriteString(end)
	return b.String()
}

func (e multiErr) Unwrap() []error {
	return e
}

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
	"bytes"
	"io"
	"strings"
	"unicode/utf8"
)

// Limits of the fixed width decimal fields in ISO 2709.
const (
	maxFieldLength  = 9999
	maxOffset       = 99999
	maxRecordLength = 99999
)

// Marshaler is the interface that wraps the Marshal function.
//
// Marshal converts a record to ISO 2709 and returns the number of bytes written or any error encountered.
// Nothing is written if the record cannot be encoded.
type Marshaler interface {
	Marshal(w io.Writer, record *Record) (int64, error)
}

type defaultMarshaler struct {
	opts *options
}

// NewMarshaler creates a new Marshaler with the supplied options.
func NewMarshaler(opts ...Option) Marshaler {
	return &defaultMarshaler{opts: newOptions(opts...)}
}

// Encode returns record as ISO 2709.
func Encode(record *Record, opts ...Option) ([]byte, error) {
	m := &defaultMarshaler{opts: newOptions(opts...)}
	return m.encode(record)
}

func (m *defaultMarshaler) Marshal(w io.Writer, record *Record) (int64, error) {
	b, err := m.encode(record)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}

func (m *defaultMarshaler) encode(record *Record) ([]byte, error) {
	data := &bytes.Buffer{}
	dir := &bytes.Buffer{}
	dir.Grow(len(record.fields) * dirEntryLen)

	for _, f := range record.fields {
		tag := f.Tag()
		if len(tag) != 3 {
			return nil, newFieldErrorf(tag, "tag must be three characters")
		}
		start := data.Len()
		switch f := f.(type) {
		case *ControlField:
			if err := checkValue(tag, f.Value); err != nil {
				return nil, err
			}
			data.WriteString(f.Value)
		case *DataField:
			data.WriteByte(indicator(f.ind1))
			data.WriteByte(indicator(f.ind2))
			for _, sf := range f.Subfields {
				switch {
				case sf.Code == "":
					return nil, newFieldErrorf(tag, "empty subfield code")
				case utf8.RuneCountInString(sf.Code) != 1:
					return nil, newFieldErrorf(tag, "subfield code '%s' must be one character", sf.Code)
				}
				if err := checkValue(tag, sf.Code+sf.Value); err != nil {
					return nil, err
				}
				data.WriteByte(sfd)
				data.WriteString(sf.Code)
				data.WriteString(sf.Value)
			}
		}
		data.WriteByte(ft)

		length := data.Len() - start
		if length > maxFieldLength {
			return nil, &RecordTooLargeError{Tag: tag, What: "field length", Value: length, Limit: maxFieldLength}
		}
		if start > maxOffset {
			return nil, &RecordTooLargeError{Tag: tag, What: "field offset", Value: start, Limit: maxOffset}
		}
		dir.WriteString(tag)
		dir.WriteString(zeroPad(length, 4))
		dir.WriteString(zeroPad(start, 5))
	}

	base := LeaderLen + dir.Len() + 1
	total := base + data.Len() + 1
	if total > maxRecordLength {
		return nil, &RecordTooLargeError{What: "record length", Value: total, Limit: maxRecordLength}
	}

	leader := normalizeLeader(record.leader)
	setComputed(leader, total, base)
	if m.opts.unicodeLeader {
		leader[leaderCodingPos] = 'a'
	}

	b := make([]byte, 0, total)
	b = append(b, leader...)
	b = append(b, dir.Bytes()...)
	b = append(b, ft)
	b = append(b, data.Bytes()...)
	b = append(b, rt)
	return b, nil
}

// checkValue rejects values that would break the record structure.
func checkValue(tag, value string) error {
	if strings.ContainsAny(value, "\x1d\x1e\x1f") {
		return newFieldErrorf(tag, "value contains a delimiter")
	}
	return nil
}

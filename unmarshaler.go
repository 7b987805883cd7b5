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
	"fmt"
	"strings"
	"unicode/utf8"
)

const dirEntryLen = 12 // Tag (3), field length (4), starting offset (5)

// Unmarshaler decodes ISO 2709 records.
type Unmarshaler interface {
	Unmarshal(raw RawRecord) (*Record, *Validation, error)
}

type unmarshaler struct {
	opts *options
}

// NewUnmarshaler creates a new Unmarshaler with the supplied options.
func NewUnmarshaler(opts ...Option) Unmarshaler {
	return &unmarshaler{opts: newOptions(opts...)}
}

// RawRecord is an undecoded ISO 2709 record including the record terminator.
type RawRecord []byte

// Leader returns the undecoded leader.
func (raw RawRecord) Leader() string {
	if len(raw) < LeaderLen {
		return string(raw)
	}
	return string(raw[:LeaderLen])
}

// Decode decodes the record with the supplied options.
//
// This allows a caller to retry a record that failed with one encoding using another
// encoding or a more lenient policy.
func (raw RawRecord) Decode(opts ...Option) (*Record, *Validation, error) {
	return NewUnmarshaler(opts...).Unmarshal(raw)
}

// Unmarshal decodes raw into a Record.
//
// Returned values depends on the errorPolicy options:
//
// With ErrFail for the encoding policy, an EncodingMismatchError is returned for the first field
// that is not valid in the declared encoding.
//
// With ErrFail for the syntax policy, a SyntaxError is returned for structural problems. Otherwise
// fields that cannot be located are skipped and, with ErrWarn, the problems are added to the Validation.
//
// Record is always nil if error is returned.
func (u *unmarshaler) Unmarshal(raw RawRecord) (*Record, *Validation, error) {
	validation := &Validation{}
	if len(raw) < LeaderLen+1 {
		return nil, validation, newSyntaxError("record is shorter than the leader", 0)
	}
	leader := raw[:LeaderLen]
	cs, err := u.opts.encoding.charset(leader)
	if err != nil {
		return nil, validation, err
	}

	if n, ok := parseDigits(leader[leaderLengthPos : leaderLengthPos+leaderDigits]); !ok || n != len(raw) {
		err := newSyntaxError(fmt.Sprintf("record length '%s' in leader does not match actual length %d",
			leader[leaderLengthPos:leaderLengthPos+leaderDigits], len(raw)), 0)
		if err := u.syntaxProblem(validation, err); err != nil {
			return nil, validation, err
		}
	}

	base, ok := parseDigits(leader[leaderBasePos : leaderBasePos+leaderDigits])
	if !ok || base <= LeaderLen || base > len(raw) || raw[base-1] != ft {
		i := bytes.IndexByte(raw[LeaderLen:], ft)
		if i < 0 {
			return nil, validation, newSyntaxError("missing directory terminator", LeaderLen)
		}
		err := newSyntaxError(fmt.Sprintf("base address '%s' in leader does not match directory",
			leader[leaderBasePos:leaderBasePos+leaderDigits]), leaderBasePos)
		if err := u.syntaxProblem(validation, err); err != nil {
			return nil, validation, err
		}
		base = LeaderLen + i + 1
	}

	dir := raw[LeaderLen : base-1]
	if len(dir)%dirEntryLen != 0 {
		err := newSyntaxError(fmt.Sprintf("directory length %d is not a multiple of %d", len(dir), dirEntryLen), LeaderLen)
		if err := u.syntaxProblem(validation, err); err != nil {
			return nil, validation, err
		}
	}

	record := &Record{leader: string(leader)}
	for i := 0; i+dirEntryLen <= len(dir); i += dirEntryLen {
		entry := dir[i : i+dirEntryLen]
		tag := string(entry[:3])
		length, ok1 := parseDigits(entry[3:7])
		start, ok2 := parseDigits(entry[7:12])
		if !ok1 || !ok2 || base+start+length > len(raw) {
			err := newSyntaxError(fmt.Sprintf("directory entry '%s' points outside record", entry), int64(LeaderLen+i))
			if err := u.syntaxProblem(validation, err); err != nil {
				return nil, validation, err
			}
			continue
		}

		data := raw[base+start : base+start+length]
		if len(data) > 0 && data[len(data)-1] == ft {
			data = data[:len(data)-1]
		} else {
			err := newSyntaxError(fmt.Sprintf("missing field terminator at field '%s'", tag), int64(base+start+length))
			if err := u.syntaxProblem(validation, err); err != nil {
				return nil, validation, err
			}
		}

		f, err := u.decodeField(cs, tag, data, validation)
		if err != nil {
			return nil, validation, err
		}
		record.fields = append(record.fields, f)
	}
	return record, validation, nil
}

func (u *unmarshaler) decodeField(cs charset, tag string, data []byte, validation *Validation) (Field, error) {
	if IsControlTag(tag) {
		value, err := u.decodeText(cs, tag, data, 0, validation)
		if err != nil {
			return nil, err
		}
		return NewControlField(tag, value), nil
	}

	var ind1, ind2 byte = blank, blank
	if len(data) > 0 {
		ind1 = data[0]
	}
	if len(data) > 1 {
		ind2 = data[1]
	}
	f := NewDataField(tag, ind1, ind2)
	if len(data) <= 2 {
		return f, nil
	}

	s, err := u.decodeText(cs, tag, data[2:], 2, validation)
	if err != nil {
		return nil, err
	}
	chunks := strings.Split(s, string(rune(sfd)))
	if chunks[0] != "" {
		err := newSyntaxError(fmt.Sprintf("data before first subfield at field '%s'", tag), -1)
		if err := u.syntaxProblem(validation, err); err != nil {
			return nil, err
		}
	}
	for _, c := range chunks[1:] {
		if c == "" {
			continue
		}
		_, size := utf8.DecodeRuneInString(c)
		f.Subfields = append(f.Subfields, Subfield{Code: c[:size], Value: c[size:]})
	}
	return f, nil
}

func (u *unmarshaler) decodeText(cs charset, tag string, b []byte, offset int, validation *Validation) (string, error) {
	s, bad := cs.decode(b, u.opts.replacement, u.opts.errEncoding == ErrFix)
	if bad < 0 {
		return s, nil
	}
	err := &EncodingMismatchError{Tag: tag, Encoding: cs.name(), Offset: offset + bad}
	switch u.opts.errEncoding {
	case ErrFail:
		return "", err
	case ErrWarn, ErrFix:
		validation.AddError(err)
	}
	return s, nil
}

func (u *unmarshaler) syntaxProblem(validation *Validation, err error) error {
	switch u.opts.errSyntax {
	case ErrFail:
		return err
	case ErrWarn, ErrFix:
		validation.AddError(err)
	}
	return nil
}
